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

package verify

import (
	"cmp"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/matrixorigin/powersort/pkg/common/moerr"
)

func TestIsSorted(t *testing.T) {
	ok, i := IsSorted([]int{1, 2, 2, 3}, cmp.Compare[int])
	require.True(t, ok)
	require.Equal(t, -1, i)
	ok, i = IsSorted([]int{1, 3, 2}, cmp.Compare[int])
	require.False(t, ok)
	require.Equal(t, 2, i)

	err := CheckSorted([]int{2, 1}, cmp.Compare[int])
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrNotSorted))
	require.NoError(t, CheckSorted([]int{}, cmp.Compare[int]))
}

func TestCheckStable(t *testing.T) {
	type rec struct{ k, pos int }
	compare := func(a, b rec) int { return cmp.Compare(a.k, b.k) }
	pos := func(r rec) int { return r.pos }
	require.NoError(t, CheckStable([]rec{{1, 2}, {1, 5}, {2, 0}}, compare, pos))
	err := CheckStable([]rec{{1, 5}, {1, 2}, {2, 0}}, compare, pos)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrNotStable))
}

func TestCheckPermutation(t *testing.T) {
	require.NoError(t, CheckPermutation([]int{3, 1, 2}, 3))
	for _, s := range [][]int{{1, 2}, {1, 1, 2}, {0, 1, 2}, {1, 2, 4}} {
		err := CheckPermutation(s, 3)
		require.True(t, moerr.IsMoErrCode(err, moerr.ErrNotPermutation), "%v", s)
	}
}

func TestCheckDistinctWideValues(t *testing.T) {
	var shift uint = 32
	wide := 1 << shift
	require.NoError(t, checkDistinct([]int{wide + 1, 1, wide}, 2*wide))
	err := checkDistinct([]int{wide + 1, 1, wide + 1}, 2*wide)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrNotPermutation))
}

func TestFingerprint(t *testing.T) {
	require.Equal(t, Fingerprint([]int{1, 2, 3, 3}), Fingerprint([]int{3, 2, 3, 1}))
	require.NotEqual(t, Fingerprint([]int{1, 2, 3, 3}), Fingerprint([]int{1, 2, 2, 3}))
	require.Equal(t, uint64(0), Fingerprint(nil))
}

func TestDistinctEstimate(t *testing.T) {
	s := make([]int, 10000)
	for i := range s {
		s[i] = i % 1000
	}
	est := DistinctEstimate(s)
	require.InDelta(t, 1000, float64(est), 50)
}

func TestCheck(t *testing.T) {
	require.NoError(t, Check([]int{3, 1, 2}, []int{1, 2, 3}, nil))

	err := Check([]int{3, 1, 2}, []int{2, 1, 4}, nil)
	require.Len(t, multierr.Errors(err), 2)
	require.True(t, moerr.IsMoErrCode(multierr.Errors(err)[0], moerr.ErrNotPermutation))
	require.True(t, moerr.IsMoErrCode(multierr.Errors(err)[1], moerr.ErrNotSorted))

	err = Check([]int{1, 2}, []int{1}, nil)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrNotPermutation))

	desc := func(a, b int) int { return cmp.Compare(b, a) }
	require.NoError(t, Check([]int{1, 2}, []int{2, 1}, desc))
}
