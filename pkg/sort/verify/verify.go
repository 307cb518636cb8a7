// Copyright 2021 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package verify checks the results of a sort.
package verify

import (
	"cmp"
	"encoding/binary"

	"github.com/RoaringBitmap/roaring/roaring64"
	hll "github.com/axiomhq/hyperloglog"
	"github.com/cespare/xxhash/v2"
	"go.uber.org/multierr"

	"github.com/matrixorigin/powersort/pkg/common/moerr"
)

// IsSorted reports whether s is in ascending order of compare. If not, it also
// returns the index i of the first element with s[i] < s[i-1].
func IsSorted[E any](s []E, compare func(a, b E) int) (bool, int) {
	for i := 1; i < len(s); i++ {
		if compare(s[i-1], s[i]) > 0 {
			return false, i
		}
	}
	return true, -1
}

func CheckSorted[E any](s []E, compare func(a, b E) int) error {
	if ok, i := IsSorted(s, compare); !ok {
		return moerr.NewNotSorted(moerr.Context(), i)
	}
	return nil
}

// CheckStable checks that elements with equal keys appear in increasing order
// of their original position pos. s must already be sorted.
func CheckStable[E any](s []E, compare func(a, b E) int, pos func(E) int) error {
	for i := 1; i < len(s); i++ {
		if compare(s[i-1], s[i]) == 0 && pos(s[i-1]) > pos(s[i]) {
			return moerr.NewNotStable(moerr.Context(), i)
		}
	}
	return nil
}

// CheckPermutation checks that s holds each of 1..n exactly once.
func CheckPermutation(s []int, n int) error {
	if len(s) != n {
		return moerr.NewNotPermutation(moerr.Context(), "length %d, want %d", len(s), n)
	}
	return checkDistinct(s, n)
}

// checkDistinct checks that the values of s are pairwise distinct and in [1, n].
func checkDistinct(s []int, n int) error {
	seen := roaring64.New()
	for i, v := range s {
		if v < 1 || v > n {
			return moerr.NewNotPermutation(moerr.Context(), "value %d at index %d not in [1, %d]", v, i, n)
		}
		if !seen.CheckedAdd(uint64(v)) {
			return moerr.NewNotPermutation(moerr.Context(), "value %d at index %d repeated", v, i)
		}
	}
	return nil
}

// Fingerprint returns a hash of the multiset of values in s. It does not
// depend on the order of s.
func Fingerprint(s []int) uint64 {
	var sum uint64
	var b [8]byte
	for _, v := range s {
		binary.LittleEndian.PutUint64(b[:], uint64(v))
		sum += xxhash.Sum64(b[:])
	}
	return sum
}

// DistinctEstimate estimates the number of distinct values in s.
func DistinctEstimate(s []int) uint64 {
	sk := hll.New()
	var b [8]byte
	for _, v := range s {
		binary.LittleEndian.PutUint64(b[:], uint64(v))
		sk.Insert(b[:])
	}
	return sk.Estimate()
}

// Check compares a sorted result after with the input before it was sorted,
// and returns every violation found. A nil compare orders ints ascending.
func Check(before, after []int, compare func(a, b int) int) error {
	if compare == nil {
		compare = cmp.Compare[int]
	}
	var err error
	if len(before) != len(after) {
		err = multierr.Append(err, moerr.NewNotPermutation(moerr.Context(),
			"length %d, want %d", len(after), len(before)))
	} else if Fingerprint(before) != Fingerprint(after) {
		err = multierr.Append(err, moerr.NewNotPermutation(moerr.Context(), "fingerprint mismatch"))
	}
	return multierr.Append(err, CheckSorted(after, compare))
}
