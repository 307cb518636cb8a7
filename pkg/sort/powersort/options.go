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
	"github.com/matrixorigin/powersort/pkg/perfcounter"
)

const (
	// DefaultMinMerge is the range length below which no merges are done and the
	// whole range is sorted by binary insertion.
	DefaultMinMerge = 32
)

type Options struct {
	// MinMerge is the smallest range length handled by run detection and merging.
	MinMerge int `toml:"min-merge"`
	// MinRunLength is the length natural runs are extended to with binary insertion.
	// Zero derives it from the range length and MinMerge.
	MinRunLength int `toml:"min-run-length"`
	// Counters receives the cost counters of every call. Nil disables counting.
	Counters *perfcounter.CounterSet `toml:"-"`
}

func (o *Options) FillDefaults() *Options {
	if o == nil {
		o = &Options{}
	}
	if o.MinMerge <= 0 {
		o.MinMerge = DefaultMinMerge
	}
	return o
}

func (o *Options) Validate() error {
	if o.MinMerge < 2 {
		return moerr.NewBadConfig(moerr.Context(), "min merge %d is less than 2", o.MinMerge)
	}
	if o.MinRunLength < 0 {
		return moerr.NewBadConfig(moerr.Context(), "min run length %d is negative", o.MinRunLength)
	}
	return nil
}

// minRunLength returns the length short runs are extended to for a range of
// length n: n itself below minMerge, otherwise a k in [minMerge/2, minMerge]
// such that n/k is close to, but strictly less than, a power of two.
func minRunLength(n, minMerge int) int {
	r := 0 // becomes 1 if any 1 bits are shifted off
	for n >= minMerge {
		r |= n & 1
		n >>= 1
	}
	return n + r
}
