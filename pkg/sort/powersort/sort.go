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

// Package powersort implements a stable, adaptive merge sort that merges the
// natural runs of its input in the order given by their node powers, which keeps
// the total merge cost close to the entropy bound of the run lengths.
package powersort

import (
	"golang.org/x/exp/constraints"

	"github.com/matrixorigin/powersort/pkg/common/moerr"
	"github.com/matrixorigin/powersort/pkg/perfcounter"
)

type State uint8

const (
	StateIdle State = iota
	// StateSmallRange sorts the whole range by binary insertion.
	StateSmallRange
	// StateScanning finds runs and merges them as their powers require.
	StateScanning
	// StateDraining merges what is left on the run stack.
	StateDraining
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateSmallRange:
		return "SmallRange"
	case StateScanning:
		return "Scanning"
	case StateDraining:
		return "Draining"
	case StateDone:
		return "Done"
	default:
		return "Unknown"
	}
}

type sortStats struct {
	comparisons int64
	mergeCost   int64
	merges      int64
	runs        int64
	reversed    int64
	extended    int64
	maxDepth    int64
	smallRange  bool
}

// Sorter sorts ranges of []E with one comparator. It keeps its work buffer and
// run stack between calls, so a Sorter must not be used by two goroutines at
// the same time.
type Sorter[E any] struct {
	cmp      func(a, b E) int
	compare  func(a, b E) int
	opts     Options
	buf      []E
	supplied bool // buf was handed in by SetBuffer and is never replaced
	stack    runStack
	stats    sortStats
	state    State
}

// NewSorter returns a Sorter for cmp. opts may be nil; it is copied.
func NewSorter[E any](cmp func(a, b E) int, opts *Options) (*Sorter[E], error) {
	if cmp == nil {
		return nil, moerr.NewInvalidArg(moerr.Context(), "cmp", nil)
	}
	o := Options{}
	if opts != nil {
		o = *opts
	}
	o.FillDefaults()
	if err := o.Validate(); err != nil {
		return nil, err
	}
	s := &Sorter[E]{
		cmp:  cmp,
		opts: o,
	}
	s.compare = cmp
	if o.Counters != nil {
		s.compare = func(a, b E) int {
			s.stats.comparisons++
			return s.cmp(a, b)
		}
	}
	return s, nil
}

// SetBuffer hands buf to the Sorter as its work buffer. Sort then fails with
// ErrShortBuffer on any range longer than buf. A nil buf lets the Sorter
// allocate its own buffer again.
func (s *Sorter[E]) SetBuffer(buf []E) {
	s.buf = buf
	s.supplied = buf != nil
}

// Buffer returns the current work buffer.
func (s *Sorter[E]) Buffer() []E {
	return s.buf
}

// State reports how far the last call got.
func (s *Sorter[E]) State() State {
	return s.state
}

// Sort sorts v[lo:hi] stably in ascending order.
func (s *Sorter[E]) Sort(v []E, lo, hi int) error {
	if lo < 0 || lo > hi || hi > len(v) {
		return moerr.NewInvalidInput(moerr.Context(),
			"range [%d, %d) out of bounds for length %d", lo, hi, len(v))
	}
	s.state = StateIdle
	n := hi - lo
	if n < 2 {
		// ranges of size 0 and 1 are always sorted
		s.state = StateDone
		return nil
	}
	if s.supplied && len(s.buf) < n {
		return moerr.NewShortBuffer(moerr.Context(), n, len(s.buf))
	}

	s.stats = sortStats{}
	if n < s.opts.MinMerge {
		s.sortSmall(v, lo, hi)
	} else {
		s.sortRuns(v, lo, hi)
	}
	s.flush()
	s.state = StateDone
	return nil
}

// sortSmall handles ranges below MinMerge: one run scan, then binary insertion
// of everything behind that run.
func (s *Sorter[E]) sortSmall(v []E, lo, hi int) {
	s.state = StateSmallRange
	s.stats.smallRange = true
	end, reversed := nextRun(v, lo, hi, s.compare)
	s.stats.runs++
	if reversed {
		s.stats.reversed++
	}
	binarySort(v, lo, hi, end, s.compare)
}

func (s *Sorter[E]) sortRuns(v []E, lo, hi int) {
	s.state = StateScanning
	minRun := s.opts.MinRunLength
	if minRun == 0 {
		minRun = minRunLength(hi-lo, s.opts.MinMerge)
	}
	s.stack.reset(hi - lo)

	startA := lo
	endA := s.scanRun(v, lo, hi, minRun)
	for endA < hi {
		startB := endA
		endB := s.scanRun(v, startB, hi, minRun)
		p := nodePower(lo, hi, startA, startB, endB)
		startA = s.collapse(v, p, startA, endA)
		s.stack.push(p, startA, endA)
		s.observeDepth(hi - lo)
		startA, endA = startB, endB
	}

	s.state = StateDraining
	s.drain(v, startA, endA)
}

// scanRun finds the run at lo and extends it to minRun elements if it is shorter.
func (s *Sorter[E]) scanRun(v []E, lo, hi, minRun int) int {
	end, reversed := nextRun(v, lo, hi, s.compare)
	s.stats.runs++
	if reversed {
		s.stats.reversed++
	}
	if end-lo < minRun {
		force := min(lo+minRun, hi)
		if force > end {
			binarySort(v, lo, force, end, s.compare)
			s.stats.extended++
			end = force
		}
	}
	return end
}

// collapse merges every pending run whose power is greater than p into the
// current run [startA, endA), highest power first, and returns the new start.
func (s *Sorter[E]) collapse(v []E, p, startA, endA int) int {
	st := &s.stack
	for i := st.top; i > p; i-- {
		e := st.slots[i]
		if !e.ok {
			continue
		}
		if checkInvariants && e.end != startA {
			panic(moerr.NewInvalidState(moerr.Context(),
				"pending run [%d, %d) is not adjacent to [%d, %d)", e.start, e.end, startA, endA))
		}
		s.merge(v, e.start, e.end, endA)
		startA = e.start
		st.slots[i].ok = false
	}
	return startA
}

// drain merges all pending runs into the last run [startA, endA).
func (s *Sorter[E]) drain(v []E, startA, endA int) {
	st := &s.stack
	for i := st.top; i > 0; i-- {
		e := st.slots[i]
		if !e.ok {
			continue
		}
		s.merge(v, e.start, e.end, endA)
		startA = e.start
		st.slots[i].ok = false
	}
	if checkInvariants {
		assertSorted(v, startA, endA, s.cmp, "drained range")
	}
}

func (s *Sorter[E]) merge(v []E, startX, startY, endY int) {
	if checkInvariants {
		assertSorted(v, startX, startY, s.cmp, "left run")
		assertSorted(v, startY, endY, s.cmp, "right run")
	}
	if len(s.buf) < endY-startX {
		s.buf = make([]E, endY-startX)
	}
	mergeRuns(v, startX, startY, endY, s.buf, s.compare)
	s.stats.merges++
	s.stats.mergeCost += int64(endY - startX)
	if checkInvariants {
		assertSorted(v, startX, endY, s.cmp, "merged run")
	}
}

func (s *Sorter[E]) observeDepth(n int) {
	d := int64(s.stack.depth())
	if d > s.stats.maxDepth {
		s.stats.maxDepth = d
	}
	if checkInvariants && int(d) > MaxStackDepth(n) {
		panic(moerr.NewStackDepthOverrun(moerr.Context(), int(d), MaxStackDepth(n), n))
	}
}

func (s *Sorter[E]) flush() {
	c := s.opts.Counters
	if c == nil {
		return
	}
	c.Sort.Calls.Add(1)
	if s.stats.smallRange {
		c.Sort.SmallRanges.Add(1)
	}
	c.Sort.Comparisons.Add(s.stats.comparisons)
	c.Sort.MergeCost.Add(s.stats.mergeCost)
	c.Sort.Merges.Add(s.stats.merges)
	c.Sort.Runs.Add(s.stats.runs)
	c.Sort.Reversed.Add(s.stats.reversed)
	c.Sort.Extended.Add(s.stats.extended)
	perfcounter.StoreMax(&c.Sort.MaxStackDepth, s.stats.maxDepth)
}

// MaxStackDepth is the most pending runs a range of length n can hold at once:
// one per power in [1, ceil(log2(n))].
func MaxStackDepth(n int) int {
	if n < 2 {
		return 0
	}
	return ceilLog2(n)
}

func ceilLog2(n int) int {
	l := 0
	for 1<<l < n {
		l++
	}
	return l
}

// SortRange sorts v[lo:hi] stably in ascending order of cmp. buf, if not nil, is
// used as the work buffer and must hold at least hi-lo elements.
func SortRange[E any](v []E, lo, hi int, cmp func(a, b E) int, buf []E, opts *Options) error {
	s, err := NewSorter(cmp, opts)
	if err != nil {
		return err
	}
	s.SetBuffer(buf)
	return s.Sort(v, lo, hi)
}

// SortFunc sorts x stably in ascending order of cmp.
func SortFunc[E any](x []E, cmp func(a, b E) int) {
	s, err := NewSorter(cmp, nil)
	if err != nil {
		panic(err)
	}
	_ = s.Sort(x, 0, len(x))
}

// Sort sorts x stably in ascending order. NaNs order before other floats.
func Sort[E constraints.Ordered](x []E) {
	SortFunc(x, compareOrdered[E])
}

// IsSortedFunc reports whether x is sorted in ascending order of cmp.
func IsSortedFunc[E any](x []E, cmp func(a, b E) int) bool {
	return isSortedRange(x, cmp) < 0
}

func compareOrdered[E constraints.Ordered](a, b E) int {
	aNaN, bNaN := a != a, b != b
	switch {
	case aNaN && bNaN:
		return 0
	case aNaN:
		return -1
	case bNaN:
		return 1
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
