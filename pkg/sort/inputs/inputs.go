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

// Package inputs generates the integer inputs the sort benchmarks run on.
package inputs

import (
	"slices"
	"strconv"
	"strings"

	"golang.org/x/exp/rand"

	"github.com/matrixorigin/powersort/pkg/common/moerr"
)

// Generator produces (random) inputs of a given length.
type Generator interface {
	// NewInstance returns a new input of length n.
	NewInstance(n int, r *rand.Rand) []int
	// ReuseInstance fills a[:n] with a new input and returns it. a must hold n elements.
	ReuseInstance(n int, r *rand.Rand, a []int) []int
	// String is the name used in reports and by Parse.
	String() string
}

// Next returns the next input of length n, reusing a when it is large enough.
func Next(g Generator, n int, r *rand.Rand, a []int) []int {
	if a == nil || len(a) < n {
		return g.NewInstance(n, r)
	}
	return g.ReuseInstance(n, r, a[:n])
}

const (
	randomPermutationsName = "random-permutations"
	randomRunsPrefix       = "runs-with-exp-len-"
	timsortDragPrefix      = "timsort-drag-minRunLen-"
	randomIIDPrefix        = "iid-max-"
)

type randomPermutations struct{}

// RandomPermutations generates uniformly random permutations of [1..n].
func RandomPermutations() Generator {
	return randomPermutations{}
}

func (randomPermutations) NewInstance(n int, r *rand.Rand) []int {
	return RandomPermutation(n, r)
}

func (randomPermutations) ReuseInstance(n int, r *rand.Rand, a []int) []int {
	Shuffle(a[:n], r)
	return a[:n]
}

func (randomPermutations) String() string {
	return randomPermutationsName
}

type randomRuns struct {
	expRunLen int
}

// RandomRuns generates permutations of [1..n] made of sorted segments whose
// lengths are i.i.d. Geometric(1/expRunLen).
func RandomRuns(expRunLen int) Generator {
	return randomRuns{expRunLen: expRunLen}
}

func (g randomRuns) NewInstance(n int, r *rand.Rand) []int {
	a := RandomPermutation(n, r)
	sortRandomRuns(a, g.expRunLen, r)
	return a
}

func (g randomRuns) ReuseInstance(n int, r *rand.Rand, a []int) []int {
	a = a[:n]
	Shuffle(a, r)
	sortRandomRuns(a, g.expRunLen, r)
	return a
}

func (g randomRuns) String() string {
	return randomRunsPrefix + strconv.Itoa(g.expRunLen)
}

func sortRandomRuns(a []int, expRunLen int, r *rand.Rand) {
	for i := 0; i < len(a); {
		j := 1
		for r.Intn(expRunLen) != 0 {
			j++
		}
		j = min(len(a), i+j)
		slices.Sort(a[i:j])
		i = j
	}
}

type timsortDrag struct {
	minRunLen int
	cache     *DragCache
}

// TimsortDrag generates inputs whose run lengths follow R_Tim(n/minRunLen)
// scaled by minRunLen, alternating ascending and descending runs. These make
// TimSort's merge policy do unbalanced merges.
func TimsortDrag(minRunLen int) Generator {
	return &timsortDrag{minRunLen: minRunLen, cache: &DragCache{}}
}

func (g *timsortDrag) NewInstance(n int, r *rand.Rand) []int {
	a := make([]int, n)
	return g.ReuseInstance(n, r, a)
}

func (g *timsortDrag) ReuseInstance(n int, r *rand.Rand, a []int) []int {
	a = a[:n]
	FillWithUpAndDownRuns(a, TimsortDragRunLengths(n/g.minRunLen, g.cache), g.minRunLen, r)
	return a
}

func (g *timsortDrag) String() string {
	return timsortDragPrefix + strconv.Itoa(g.minRunLen)
}

type randomIID struct {
	max int
}

// RandomIIDInts generates i.i.d. uniform values in [1..max].
func RandomIIDInts(max int) Generator {
	return randomIID{max: max}
}

func (g randomIID) NewInstance(n int, r *rand.Rand) []int {
	return g.ReuseInstance(n, r, make([]int, n))
}

func (g randomIID) ReuseInstance(n int, r *rand.Rand, a []int) []int {
	a = a[:n]
	for i := range a {
		a[i] = r.Intn(g.max) + 1
	}
	return a
}

func (g randomIID) String() string {
	return randomIIDPrefix + strconv.Itoa(g.max)
}

// DragCache memoizes the last R_Tim sequence. It is not safe for concurrent use.
type DragCache struct {
	n       int
	lengths []int
}

// TimsortDragRunLengths returns R_Tim(n) (Buss and Knop 2018). With a non-nil
// cache the result of the last n is reused; callers must not modify it.
func TimsortDragRunLengths(n int, cache *DragCache) []int {
	if cache != nil && cache.lengths != nil && cache.n == n {
		return cache.lengths
	}
	res := appendDragRunLengths(nil, n)
	if cache != nil {
		cache.n, cache.lengths = n, res
	}
	return res
}

func appendDragRunLengths(res []int, n int) []int {
	if n <= 3 {
		return append(res, n)
	}
	n1 := n / 2
	n2 := n - n1 - (n1 - 1)
	res = appendDragRunLengths(res, n1)
	res = appendDragRunLengths(res, n1-1)
	return append(res, n2)
}

// FillWithUpAndDownRuns fills a with a random permutation of [1..len(a)] and
// then sorts consecutive segments of runLengths[i]*factor elements, ascending
// for even i and descending for odd i. Each segment also takes in the last
// element of the segment before it. Elements behind the last segment stay
// shuffled.
func FillWithUpAndDownRuns(a []int, runLengths []int, factor int, r *rand.Rand) {
	for i := range a {
		a[i] = i + 1
	}
	Shuffle(a, r)
	reverse := false
	i := 0
	for _, l := range runLengths {
		end := min(len(a), i+l*factor)
		seg := a[max(0, i-1):end]
		slices.Sort(seg)
		if reverse {
			slices.Reverse(seg)
		}
		reverse = !reverse
		i = end
	}
}

// Shuffle permutes a uniformly at random (Fisher-Yates).
func Shuffle(a []int, r *rand.Rand) {
	for i := len(a); i > 1; i-- {
		j := r.Intn(i)
		a[i-1], a[j] = a[j], a[i-1]
	}
}

// RandomPermutation returns a uniformly random permutation of [1..n].
func RandomPermutation(n int, r *rand.Rand) []int {
	a := make([]int, n)
	for i := range a {
		a[i] = i + 1
	}
	Shuffle(a, r)
	return a
}

// Parse returns the generator named name, as printed by its String method.
func Parse(name string) (Generator, error) {
	if name == randomPermutationsName {
		return RandomPermutations(), nil
	}
	for _, p := range []struct {
		prefix string
		make   func(int) Generator
	}{
		{randomRunsPrefix, RandomRuns},
		{timsortDragPrefix, TimsortDrag},
		{randomIIDPrefix, RandomIIDInts},
	} {
		s, ok := strings.CutPrefix(name, p.prefix)
		if !ok {
			continue
		}
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			return nil, moerr.NewInvalidInput(moerr.Context(), "bad parameter in input %q", name)
		}
		return p.make(v), nil
	}
	return nil, moerr.NewInvalidInput(moerr.Context(), "unknown input %q", name)
}

// Names lists the names of a typical set of generators.
func Names() []string {
	return []string{
		RandomPermutations().String(),
		RandomRuns(1000).String(),
		TimsortDrag(32).String(),
		RandomIIDInts(100).String(),
	}
}
