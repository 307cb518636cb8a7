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

// nextRun returns the end of the run starting at lo, reversing it in place if it
// is strictly descending so that every returned run is ascending.
//
// A run is the longest ascending sequence with
//
//	v[lo] <= v[lo+1] <= v[lo+2] <= ...
//
// or the longest descending sequence with
//
//	v[lo] > v[lo+1] > v[lo+2] > ...
//
// Descending must be strict: reversing a segment that holds equal keys would
// break stability. Requires lo < hi.
func nextRun[E any](v []E, lo, hi int, cmp func(a, b E) int) (end int, reversed bool) {
	runHi := lo + 1
	if runHi == hi {
		return hi, false
	}

	if cmp(v[runHi], v[lo]) < 0 {
		runHi++
		for runHi < hi && cmp(v[runHi], v[runHi-1]) < 0 {
			runHi++
		}
		reverseRange(v, lo, runHi)
		return runHi, true
	}

	runHi++
	for runHi < hi && cmp(v[runHi], v[runHi-1]) >= 0 {
		runHi++
	}
	return runHi, false
}

// reverseRange reverses v[lo:hi].
func reverseRange[E any](v []E, lo, hi int) {
	hi--
	for lo < hi {
		v[lo], v[hi] = v[hi], v[lo]
		lo++
		hi--
	}
}

// binarySort sorts v[lo:hi] by binary insertion, assuming v[lo:start] is
// already sorted. O(n log n) comparisons but O(n^2) moves, so it only ever
// sees short ranges.
func binarySort[E any](v []E, lo, hi, start int, cmp func(a, b E) int) {
	if start == lo {
		start++
	}
	for ; start < hi; start++ {
		pivot := v[start]

		// pivot >= all in [lo, left), pivot < all in [right, start)
		left, right := lo, start
		for left < right {
			mid := int(uint(left+right) >> 1)
			if cmp(pivot, v[mid]) < 0 {
				right = mid
			} else {
				left = mid + 1
			}
		}

		// left is past every key equal to pivot, which keeps the sort stable
		switch n := start - left; n {
		case 2:
			v[left+2] = v[left+1]
			v[left+1] = v[left]
		case 1:
			v[left+1] = v[left]
		default:
			copy(v[left+1:start+1], v[left:start])
		}
		v[left] = pivot
	}
}
