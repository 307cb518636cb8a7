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
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
)

type CounterLogExporter struct {
	counter *CounterSet
}

func NewCounterLogExporter(counter *CounterSet) *CounterLogExporter {
	return &CounterLogExporter{
		counter: counter,
	}
}

// Export returns the fields and its values in loggable format.
func (c *CounterLogExporter) Export() []zap.Field {
	var fields []zap.Field

	merges := c.counter.Sort.Merges.Load()
	if merges > 0 {
		fields = append(fields, zap.Float64("Sort Avg Merge Length",
			float64(c.counter.Sort.MergeCost.Load())/float64(merges)))
	}

	// all fields in CounterSet
	_ = c.counter.IterFields(func(path []string, counter *atomic.Int64) error {
		fields = append(fields, zap.Int64(strings.Join(path, "."), counter.Load()))
		return nil
	})

	return fields
}
