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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/powersort/pkg/common/moerr"
)

func TestSort(t *testing.T) {
	i8 := []int8{3, -1, 2}
	require.NoError(t, Sort(false, i8))
	require.Equal(t, []int8{-1, 2, 3}, i8)

	u64 := []uint64{3, 1, 2}
	require.NoError(t, Sort(true, u64))
	require.Equal(t, []uint64{3, 2, 1}, u64)

	f32 := []float32{0.5, -2, 1}
	require.NoError(t, Sort(true, f32))
	require.Equal(t, []float32{1, 0.5, -2}, f32)

	ss := []string{"b", "a", "c"}
	require.NoError(t, Sort(false, ss))
	require.Equal(t, []string{"a", "b", "c"}, ss)

	bs := [][]byte{[]byte("xy"), []byte("x"), nil}
	require.NoError(t, Sort(false, bs))
	require.Equal(t, [][]byte{nil, []byte("x"), []byte("xy")}, bs)

	bools := []bool{true, false, true, false}
	require.NoError(t, Sort(true, bools))
	require.Equal(t, []bool{true, true, false, false}, bools)

	err := Sort(false, []complex64{1})
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrNotSupported))
}

func TestSortIndex(t *testing.T) {
	vs := []int32{5, 1, 5, 3, 1}
	os := []int64{0, 1, 2, 3, 4}
	require.NoError(t, SortIndex(false, os, vs))
	require.Equal(t, []int64{1, 4, 3, 0, 2}, os)

	os = []int64{0, 1, 2, 3, 4}
	require.NoError(t, SortIndex(true, os, vs))
	require.Equal(t, []int64{0, 2, 3, 1, 4}, os)

	// only the listed rows take part
	bools := []bool{true, false, true, false}
	os = []int64{2, 0, 1}
	require.NoError(t, SortIndex(false, os, bools))
	require.Equal(t, []int64{1, 2, 0}, os)

	err := SortIndex(false, []int64{0, 7}, vs)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrOutOfRange))
	err = SortIndex(false, os, map[int]int{})
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrNotSupported))
}
