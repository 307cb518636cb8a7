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

package powersort

import (
	"cmp"
	"math"
	"slices"
	"testing"

	"github.com/prashantv/gostub"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"github.com/matrixorigin/powersort/pkg/common/moerr"
	"github.com/matrixorigin/powersort/pkg/perfcounter"
)

func withInvariants(t *testing.T) {
	stubs := gostub.Stub(&checkInvariants, true)
	t.Cleanup(stubs.Reset)
}

// sortAndCheck sorts v[lo:hi] and compares it with a stable reference sort.
func sortAndCheck(t *testing.T, v []record, lo, hi int, opts *Options) {
	want := slices.Clone(v)
	slices.SortStableFunc(want[lo:hi], compareRecord)
	require.NoError(t, SortRange(v, lo, hi, compareRecord, nil, opts))
	require.Equal(t, want, v)
}

func TestSortReversedScenario(t *testing.T) {
	withInvariants(t)
	for _, minMerge := range []int{0, 2} {
		var c perfcounter.CounterSet
		v := []int{5, 4, 3, 2, 1}
		require.NoError(t, SortRange(v, 0, len(v), cmp.Compare[int], nil,
			&Options{MinMerge: minMerge, Counters: &c}))
		require.Equal(t, []int{1, 2, 3, 4, 5}, v)
		require.Equal(t, int64(1), c.Sort.Runs.Load())
		require.Equal(t, int64(1), c.Sort.Reversed.Load())
		require.Equal(t, int64(0), c.Sort.Merges.Load())
		require.Equal(t, int64(4), c.Sort.Comparisons.Load())
	}
}

func TestSortTwoRunsScenario(t *testing.T) {
	withInvariants(t)
	var c perfcounter.CounterSet
	v := []int{1, 3, 5, 7, 2, 4, 6, 8}
	require.NoError(t, SortRange(v, 0, len(v), cmp.Compare[int], nil,
		&Options{MinMerge: 2, MinRunLength: 4, Counters: &c}))
	require.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8}, v)
	require.Equal(t, int64(2), c.Sort.Runs.Load())
	require.Equal(t, int64(0), c.Sort.Extended.Load())
	require.Equal(t, int64(1), c.Sort.Merges.Load())
	require.Equal(t, int64(8), c.Sort.MergeCost.Load())
	require.Equal(t, int64(1), c.Sort.MaxStackDepth.Load())
	require.Equal(t, int64(0), c.Sort.SmallRanges.Load())
}

func TestSortSortedInput(t *testing.T) {
	withInvariants(t)
	for _, n := range []int{2, 31, 32, 1000} {
		var c perfcounter.CounterSet
		v := make([]int, n)
		for i := range v {
			v[i] = i / 3
		}
		s, err := NewSorter(cmp.Compare[int], &Options{Counters: &c})
		require.NoError(t, err)
		require.NoError(t, s.Sort(v, 0, n))
		require.Equal(t, int64(n-1), c.Sort.Comparisons.Load())
		require.Equal(t, int64(0), c.Sort.Merges.Load())
		require.Nil(t, s.Buffer())
		require.True(t, IsSortedFunc(v, cmp.Compare[int]))
	}
}

func TestSortStrictlyDescending(t *testing.T) {
	withInvariants(t)
	n := 5000
	var c perfcounter.CounterSet
	v := make([]int, n)
	for i := range v {
		v[i] = n - i
	}
	require.NoError(t, SortRange(v, 0, n, cmp.Compare[int], nil, &Options{Counters: &c}))
	for i := range v {
		require.Equal(t, i+1, v[i])
	}
	require.Equal(t, int64(1), c.Sort.Runs.Load())
	require.Equal(t, int64(0), c.Sort.Merges.Load())
}

func TestSortTrivialRanges(t *testing.T) {
	calls := 0
	compare := func(a, b int) int {
		calls++
		return cmp.Compare(a, b)
	}
	v := []int{3, 2, 1}
	require.NoError(t, SortRange(v, 1, 1, compare, nil, nil))
	require.NoError(t, SortRange(v, 2, 3, compare, nil, nil))
	require.NoError(t, SortRange(v, 0, 0, compare, []int{}, nil))
	require.Equal(t, []int{3, 2, 1}, v)
	require.Zero(t, calls)

	SortFunc([]int(nil), compare)
	require.Zero(t, calls)
}

func TestSortSubRange(t *testing.T) {
	withInvariants(t)
	r := rand.New(rand.NewSource(3))
	v := make([]record, 500)
	for i := range v {
		v[i] = record{key: r.Intn(50), id: i}
	}
	sortAndCheck(t, v, 37, 411, nil)
	sortAndCheck(t, v, 0, 20, nil)
}

// runsInput builds n records out of ascending runs whose lengths follow gen.
func runsInput(r *rand.Rand, n, keys int, gen func() int) []record {
	v := make([]record, n)
	for i := range v {
		v[i] = record{key: r.Intn(keys), id: i}
	}
	for lo := 0; lo < n; {
		hi := min(n, lo+max(1, gen()))
		seg := v[lo:hi]
		slices.SortStableFunc(seg, compareRecord)
		if r.Intn(3) == 0 {
			slices.Reverse(seg)
		}
		lo = hi
	}
	for i := range v {
		v[i].id = i
	}
	return v
}

func TestSortDistributions(t *testing.T) {
	withInvariants(t)
	r := rand.New(rand.NewSource(11))
	gens := map[string]func() int{
		"unit":      func() int { return 1 },
		"short":     func() int { return 1 + r.Intn(4) },
		"geometric": func() int { return 1 + int(r.ExpFloat64()*20) },
		"long":      func() int { return 100 + r.Intn(1000) },
		"skewed": func() int {
			if r.Intn(10) == 0 {
				return 500
			}
			return 2
		},
	}
	sizes := []int{2, 3, 17, 31, 32, 33, 100, 1000, 4097, 20000}
	options := []*Options{nil, {MinMerge: 2, MinRunLength: 1}, {MinMerge: 8, MinRunLength: 3}}
	for name, gen := range gens {
		for _, n := range sizes {
			for _, keys := range []int{2, 1 << 30} {
				for _, o := range options {
					var c perfcounter.CounterSet
					opts := &Options{Counters: &c}
					if o != nil {
						opts.MinMerge, opts.MinRunLength = o.MinMerge, o.MinRunLength
					}
					v := runsInput(r, n, keys, gen)
					sortAndCheck(t, v, 0, n, opts)
					require.LessOrEqual(t, c.Sort.MaxStackDepth.Load(), int64(MaxStackDepth(n)),
						"%s n=%d", name, n)
				}
			}
		}
	}
}

// TestSortAllCompositions sorts every split of n <= 12 elements into runs.
func TestSortAllCompositions(t *testing.T) {
	withInvariants(t)
	r := rand.New(rand.NewSource(5))
	opts := &Options{MinMerge: 2, MinRunLength: 1}
	for n := 2; n <= 12; n++ {
		for mask := 0; mask < 1<<(n-1); mask++ {
			v := make([]record, n)
			// keys drop at every boundary of the split
			key, lo := 1000, 0
			for i := 0; i < n; i++ {
				if i > 0 && mask&(1<<(i-1)) != 0 {
					key -= 100
					slices.SortStableFunc(v[lo:i], compareRecord)
					lo = i
				}
				v[i] = record{key: key + r.Intn(3), id: i}
			}
			slices.SortStableFunc(v[lo:], compareRecord)
			for i := range v {
				v[i].id = i
			}
			var c perfcounter.CounterSet
			opts.Counters = &c
			sortAndCheck(t, v, 0, n, opts)
			require.LessOrEqual(t, c.Sort.MaxStackDepth.Load(), int64(MaxStackDepth(n)))
		}
	}
}

func TestSorterReuse(t *testing.T) {
	withInvariants(t)
	r := rand.New(rand.NewSource(9))
	s, err := NewSorter(compareRecord, nil)
	require.NoError(t, err)
	require.Equal(t, StateIdle, s.State())
	for i := 0; i < 20; i++ {
		n := 1 + r.Intn(3000)
		v := runsInput(r, n, 100, func() int { return 1 + r.Intn(30) })
		want := slices.Clone(v)
		slices.SortStableFunc(want, compareRecord)
		require.NoError(t, s.Sort(v, 0, n))
		require.Equal(t, want, v)
		require.Equal(t, StateDone, s.State())
	}
	require.NotNil(t, s.Buffer())
}

func TestSortSuppliedBuffer(t *testing.T) {
	withInvariants(t)
	v := []int{9, 8, 1, 2, 7, 3, 6, 4, 5, 0}
	buf := make([]int, len(v))
	require.NoError(t, SortRange(v, 0, len(v), cmp.Compare[int], buf, &Options{MinMerge: 2}))
	require.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, v)
}

func TestSorterSuppliedShortBuffer(t *testing.T) {
	s, err := NewSorter(cmp.Compare[int], &Options{MinMerge: 2})
	require.NoError(t, err)
	buf := make([]int, 4)
	s.SetBuffer(buf)

	v := []int{6, 5, 4, 3, 2, 1, 9, 8, 7}
	err = s.Sort(v, 0, len(v))
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrShortBuffer))
	require.Equal(t, []int{6, 5, 4, 3, 2, 1, 9, 8, 7}, v)

	// a range that fits keeps using the same buffer
	v = []int{4, 1, 3, 2}
	require.NoError(t, s.Sort(v, 0, len(v)))
	require.Equal(t, []int{1, 2, 3, 4}, v)
	require.Len(t, s.Buffer(), 4)
	require.Same(t, &buf[0], &s.Buffer()[0])

	// one element never needs the buffer
	require.NoError(t, s.Sort([]int{1, 2, 3, 4, 5, 6}, 2, 3))

	s.SetBuffer(nil)
	v = []int{6, 5, 4, 3, 2, 1, 9, 8, 7}
	require.NoError(t, s.Sort(v, 0, len(v)))
	require.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9}, v)
	require.GreaterOrEqual(t, len(s.Buffer()), len(v))
}

func TestSortErrors(t *testing.T) {
	v := []int{3, 2, 1}
	err := SortRange(v, 0, 4, cmp.Compare[int], nil, nil)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidInput))
	err = SortRange(v, 2, 1, cmp.Compare[int], nil, nil)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidInput))
	err = SortRange(v, -1, 1, cmp.Compare[int], nil, nil)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidInput))

	err = SortRange(v, 0, 3, cmp.Compare[int], make([]int, 2), nil)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrShortBuffer))

	err = SortRange(v, 0, 3, nil, nil, nil)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidArg))

	err = SortRange(v, 0, 3, cmp.Compare[int], nil, &Options{MinMerge: 1})
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrBadConfig))
	require.Equal(t, []int{3, 2, 1}, v)

	require.Panics(t, func() { SortFunc([]int{1}, nil) })
}

func TestSortOrdered(t *testing.T) {
	f := []float64{3, math.NaN(), 1, math.Inf(-1), 2, math.NaN()}
	Sort(f)
	require.True(t, math.IsNaN(f[0]))
	require.True(t, math.IsNaN(f[1]))
	require.Equal(t, []float64{math.Inf(-1), 1, 2, 3}, f[2:])

	s := []string{"b", "c", "a", ""}
	Sort(s)
	require.Equal(t, []string{"", "a", "b", "c"}, s)
}

func TestSortCountersAccumulate(t *testing.T) {
	var c perfcounter.CounterSet
	opts := &Options{Counters: &c}
	for i := 0; i < 3; i++ {
		v := []int{2, 1, 4, 3}
		require.NoError(t, SortRange(v, 0, len(v), cmp.Compare[int], nil, opts))
	}
	require.Equal(t, int64(3), c.Sort.Calls.Load())
	require.Equal(t, int64(3), c.Sort.SmallRanges.Load())
}

func TestStateString(t *testing.T) {
	require.Equal(t, "SmallRange", StateSmallRange.String())
	require.Equal(t, "Scanning", StateScanning.String())
	require.Equal(t, "Draining", StateDraining.String())
	require.Equal(t, "Done", StateDone.String())
	require.Equal(t, "Unknown", State(42).String())
}

func BenchmarkSortRandom(b *testing.B) {
	r := rand.New(rand.NewSource(1))
	src := make([]int, 1<<16)
	for i := range src {
		src[i] = r.Int()
	}
	v := make([]int, len(src))
	s, _ := NewSorter(cmp.Compare[int], nil)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		copy(v, src)
		_ = s.Sort(v, 0, len(v))
	}
}
