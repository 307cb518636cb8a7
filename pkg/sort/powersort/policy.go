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
	"math/bits"
)

// nodePower returns the merge priority of the boundary between run A =
// [startA, startB) and run B = [startB, endB) inside the range [lo, hi).
//
// Both run midpoints are expressed as fractions of the range; the power is the
// index of the first binary digit in which the two fractions differ, that is the
// depth at which a perfectly balanced split of [lo, hi) separates the runs.
// The result lies in [1, ceil(log2(hi-lo))] for any two non-empty adjacent runs.
func nodePower(lo, hi, startA, startB, endB int) int {
	n := uint64(hi - lo)
	if n <= 1 {
		return 0
	}
	// twice the midpoints, relative to lo; both stay below 2n
	l := uint64(startA-lo) + uint64(startB-lo)
	r := uint64(startB-lo) + uint64(endB-lo)
	a := fraction(l, n)
	b := fraction(r, n)
	return bits.LeadingZeros64(a ^ b)
}

// fraction returns x/(2n) as a fixed-point value with 63 fractional bits,
// computed in 128 bits so that no range length can overflow. Requires x < 2n.
func fraction(x, n uint64) uint64 {
	hi, lo := x>>2, x<<62
	q, _ := bits.Div64(hi, lo, n)
	return q
}

// stackCapacity is the number of power slots a range of length n can use.
func stackCapacity(n int) int {
	return bits.Len(uint(n)) + 2
}

type runEntry struct {
	start, end int
	ok         bool
}

// runStack holds the runs that are waiting for a merge, one slot per power.
// Occupied slots, read from the highest index down, are adjacent runs from
// right to left, and no slot above top is ever occupied.
type runStack struct {
	slots []runEntry
	top   int
}

func (st *runStack) reset(n int) {
	c := stackCapacity(n)
	if cap(st.slots) < c {
		st.slots = make([]runEntry, c)
	} else {
		st.slots = st.slots[:c]
		clear(st.slots)
	}
	st.top = 0
}

func (st *runStack) push(p, start, end int) {
	st.slots[p] = runEntry{start: start, end: end, ok: true}
	st.top = p
}

func (st *runStack) depth() int {
	d := 0
	for i := st.top; i >= 0; i-- {
		if st.slots[i].ok {
			d++
		}
	}
	return d
}
