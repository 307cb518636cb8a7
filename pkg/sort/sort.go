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

package sort

import (
	"bytes"
	"cmp"

	"golang.org/x/exp/constraints"

	"github.com/matrixorigin/powersort/pkg/common/moerr"
	"github.com/matrixorigin/powersort/pkg/sort/powersort"
)

// Sort sorts the column col in place. Supported columns are slices of the
// integer and float types, []string, [][]byte and []bool. Equal values keep
// their order in both directions.
func Sort(desc bool, col any) error {
	switch vs := col.(type) {
	case []int8:
		sortOrdered(desc, vs)
	case []int16:
		sortOrdered(desc, vs)
	case []int32:
		sortOrdered(desc, vs)
	case []int64:
		sortOrdered(desc, vs)
	case []int:
		sortOrdered(desc, vs)
	case []uint8:
		sortOrdered(desc, vs)
	case []uint16:
		sortOrdered(desc, vs)
	case []uint32:
		sortOrdered(desc, vs)
	case []uint64:
		sortOrdered(desc, vs)
	case []float32:
		sortOrdered(desc, vs)
	case []float64:
		sortOrdered(desc, vs)
	case []string:
		sortOrdered(desc, vs)
	case [][]byte:
		powersort.SortFunc(vs, direction(desc, bytes.Compare))
	case []bool:
		powersort.SortFunc(vs, direction(desc, compareBool))
	default:
		return moerr.NewNotSupported(moerr.Context(), "sort column of type %T", col)
	}
	return nil
}

// SortIndex reorders the row numbers in os so that col[os[0]], col[os[1]], ...
// is sorted. Rows with equal values keep their order in os.
func SortIndex(desc bool, os []int64, col any) error {
	switch vs := col.(type) {
	case []int8:
		return sortIndex(desc, os, vs, cmp.Compare[int8])
	case []int16:
		return sortIndex(desc, os, vs, cmp.Compare[int16])
	case []int32:
		return sortIndex(desc, os, vs, cmp.Compare[int32])
	case []int64:
		return sortIndex(desc, os, vs, cmp.Compare[int64])
	case []int:
		return sortIndex(desc, os, vs, cmp.Compare[int])
	case []uint8:
		return sortIndex(desc, os, vs, cmp.Compare[uint8])
	case []uint16:
		return sortIndex(desc, os, vs, cmp.Compare[uint16])
	case []uint32:
		return sortIndex(desc, os, vs, cmp.Compare[uint32])
	case []uint64:
		return sortIndex(desc, os, vs, cmp.Compare[uint64])
	case []float32:
		return sortIndex(desc, os, vs, cmp.Compare[float32])
	case []float64:
		return sortIndex(desc, os, vs, cmp.Compare[float64])
	case []string:
		return sortIndex(desc, os, vs, cmp.Compare[string])
	case [][]byte:
		return sortIndex(desc, os, vs, bytes.Compare)
	case []bool:
		return sortIndex(desc, os, vs, compareBool)
	default:
		return moerr.NewNotSupported(moerr.Context(), "sort column of type %T", col)
	}
}

func sortOrdered[T constraints.Ordered](desc bool, vs []T) {
	powersort.SortFunc(vs, direction(desc, cmp.Compare[T]))
}

func sortIndex[T any](desc bool, os []int64, vs []T, compare func(a, b T) int) error {
	for _, o := range os {
		if o < 0 || o >= int64(len(vs)) {
			return moerr.NewOutOfRange(moerr.Context(), "row", "%d not in [0, %d)", o, len(vs))
		}
	}
	compare = direction(desc, compare)
	powersort.SortFunc(os, func(a, b int64) int {
		return compare(vs[a], vs[b])
	})
	return nil
}

func direction[T any](desc bool, compare func(a, b T) int) func(a, b T) int {
	if !desc {
		return compare
	}
	return func(a, b T) int {
		return compare(b, a)
	}
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	}
	return 1
}
