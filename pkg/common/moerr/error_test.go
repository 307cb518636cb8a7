// Copyright 2021 - 2022 Matrix Origin
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

package moerr

import (
	"context"
	"io"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsMoErrCode(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		err      error
		code     uint16
		expected bool
	}{
		{
			name:     "nil error is ok",
			err:      nil,
			code:     Ok,
			expected: true,
		},
		{
			name:     "nil error is not internal",
			err:      nil,
			code:     ErrInternal,
			expected: false,
		},
		{
			name:     "short buffer",
			err:      NewShortBuffer(ctx, 10, 3),
			code:     ErrShortBuffer,
			expected: true,
		},
		{
			name:     "wrapped invalid input",
			err:      errors.Wrap(NewInvalidInput(ctx, "bad range"), "sort"),
			code:     ErrInvalidInput,
			expected: true,
		},
		{
			name:     "plain go error",
			err:      errors.New("boom"),
			code:     ErrInternal,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsMoErrCode(tt.err, tt.code))
		})
	}
}

func TestErrorMessages(t *testing.T) {
	ctx := context.Background()
	require.Equal(t, "work buffer too short: need 10, got 3", NewShortBuffer(ctx, 10, 3).Error())
	require.Equal(t, "invalid input: range [3, 2) of length 5", NewInvalidInput(ctx, "range [%d, %d) of length %d", 3, 2, 5).Error())
	require.Equal(t, "invalid argument cmp, bad value <nil>", NewInvalidArg(ctx, "cmp", nil).Error())
	require.Equal(t, "result not sorted: offending pair at index 7", NewNotSorted(ctx, 7).Error())

	e := NewBadConfig(ctx, "reps must be positive")
	require.Equal(t, e.Error(), e.Display())
	d := e.WithDetail("reps=0")
	require.Equal(t, "invalid configuration: reps must be positive: reps=0", d.Display())
	require.Empty(t, e.Detail())
	require.False(t, e.Succeeded())
}

func TestConvertGoError(t *testing.T) {
	ctx := context.Background()
	require.Nil(t, ConvertGoError(ctx, nil))

	me := NewInvalidState(ctx, "x")
	require.Equal(t, error(me), ConvertGoError(ctx, me))

	require.True(t, IsMoErrCode(ConvertGoError(ctx, io.EOF), ErrUnexpectedEOF))

	cause := errors.New("disk on fire")
	converted := ConvertGoError(ctx, cause)
	require.True(t, IsMoErrCode(converted, ErrInternal))
	require.Contains(t, converted.Error(), "disk on fire")
}

func TestConvertPanicError(t *testing.T) {
	ctx := context.Background()
	me := NewInvalidState(ctx, "merge of unsorted runs")
	require.Same(t, me, ConvertPanicError(ctx, me))

	pe := ConvertPanicError(ctx, "oops")
	require.Equal(t, ErrInternal, pe.ErrorCode())
	require.Contains(t, pe.Error(), "panic oops")
}

func TestDowncastError(t *testing.T) {
	ctx := context.Background()
	me := NewNotSupported(ctx, "type %T", struct{}{})
	require.Same(t, me, DowncastError(errors.Wrap(me, "dispatch")))
	require.Equal(t, ErrInternal, DowncastError(errors.New("plain")).ErrorCode())
}

func TestUnknownCodePanics(t *testing.T) {
	require.Panics(t, func() {
		_ = newError(context.Background(), 12345)
	})
}
