// Copyright 2023 Matrix Origin
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

package perfcounter

import (
	"sync/atomic"
)

type CounterSet struct {
	Sort SortCounterSet
}

// SortCounterSet holds the cost counters of the merge sort engine.
// A set is reset by its owner, the engine only adds to it.
type SortCounterSet struct {
	Calls       atomic.Int64 // sort calls that reached the engine
	SmallRanges atomic.Int64 // calls handled by binary insertion sort alone
	Comparisons atomic.Int64 // comparator invocations
	MergeCost   atomic.Int64 // elements moved by run merges
	Merges      atomic.Int64 // run merges
	Runs        atomic.Int64 // natural runs detected
	Reversed    atomic.Int64 // runs that were strictly descending and got reversed
	Extended    atomic.Int64 // runs extended to the minimum run length

	// MaxStackDepth is a high-water mark, not a sum.
	MaxStackDepth atomic.Int64
}

func (c *CounterSet) Reset() {
	c.Sort.Calls.Store(0)
	c.Sort.SmallRanges.Store(0)
	c.Sort.Comparisons.Store(0)
	c.Sort.MergeCost.Store(0)
	c.Sort.Merges.Store(0)
	c.Sort.Runs.Store(0)
	c.Sort.Reversed.Store(0)
	c.Sort.Extended.Store(0)
	c.Sort.MaxStackDepth.Store(0)
}

// Add accumulates other into c. MaxStackDepth keeps the larger value.
func (c *CounterSet) Add(other *CounterSet) {
	c.Sort.Calls.Add(other.Sort.Calls.Load())
	c.Sort.SmallRanges.Add(other.Sort.SmallRanges.Load())
	c.Sort.Comparisons.Add(other.Sort.Comparisons.Load())
	c.Sort.MergeCost.Add(other.Sort.MergeCost.Load())
	c.Sort.Merges.Add(other.Sort.Merges.Load())
	c.Sort.Runs.Add(other.Sort.Runs.Load())
	c.Sort.Reversed.Add(other.Sort.Reversed.Load())
	c.Sort.Extended.Add(other.Sort.Extended.Load())
	StoreMax(&c.Sort.MaxStackDepth, other.Sort.MaxStackDepth.Load())
}

// StoreMax raises counter to v if v is larger.
func StoreMax(counter *atomic.Int64, v int64) {
	for {
		cur := counter.Load()
		if v <= cur || counter.CompareAndSwap(cur, v) {
			return
		}
	}
}

// IterFields calls fn for every counter in the set, in declaration order.
func (c *CounterSet) IterFields(fn func(path []string, counter *atomic.Int64) error) error {
	fields := []struct {
		name    string
		counter *atomic.Int64
	}{
		{"Calls", &c.Sort.Calls},
		{"SmallRanges", &c.Sort.SmallRanges},
		{"Comparisons", &c.Sort.Comparisons},
		{"MergeCost", &c.Sort.MergeCost},
		{"Merges", &c.Sort.Merges},
		{"Runs", &c.Sort.Runs},
		{"Reversed", &c.Sort.Reversed},
		{"Extended", &c.Sort.Extended},
		{"MaxStackDepth", &c.Sort.MaxStackDepth},
	}
	for _, f := range fields {
		if err := fn([]string{"Sort", f.name}, f.counter); err != nil {
			return err
		}
	}
	return nil
}
