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
	"github.com/matrixorigin/powersort/pkg/common/moerr"
)

// checkInvariants turns on the assertions of the merge loop. Tests switch it on.
var checkInvariants = false

// mergeRuns merges the adjacent ascending runs v[startX:startY] and
// v[startY:endY] into v[startX:endY], using buf[:endY-startX] as scratch.
//
// The left run is copied in order and the right run reversed behind it, which
// leaves a bitonic sequence in buf; the merge then takes from both ends of buf
// towards the middle. On equal keys the left run wins. Once either run is
// exhausted the rest is copied from the other end directly, so equal keys of
// the right run keep their order too.
func mergeRuns[E any](v []E, startX, startY, endY int, buf []E, cmp func(a, b E) int) {
	tmp := buf[:endY-startX]
	mid := copy(tmp, v[startX:startY])
	for src, dst := startY, len(tmp)-1; src < endY; src, dst = src+1, dst-1 {
		tmp[dst] = v[src]
	}

	i, j, k := 0, len(tmp)-1, startX
	for i < mid && j >= mid {
		if cmp(tmp[j], tmp[i]) < 0 {
			v[k] = tmp[j]
			j--
		} else {
			v[k] = tmp[i]
			i++
		}
		k++
	}
	for ; i < mid; i++ {
		v[k] = tmp[i]
		k++
	}
	for ; j >= mid; j-- {
		v[k] = tmp[j]
		k++
	}
}

func isSortedRange[E any](v []E, cmp func(a, b E) int) int {
	for i := 1; i < len(v); i++ {
		if cmp(v[i], v[i-1]) < 0 {
			return i
		}
	}
	return -1
}

func assertSorted[E any](v []E, lo, hi int, cmp func(a, b E) int, what string) {
	if i := isSortedRange(v[lo:hi], cmp); i >= 0 {
		panic(moerr.NewInvalidState(moerr.Context(),
			"%s [%d, %d) is not sorted at index %d", what, lo, hi, lo+i))
	}
}
