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

package v2

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/matrixorigin/powersort/pkg/perfcounter"
)

var (
	sortDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "mo",
			Subsystem: "sort",
			Name:      "duration_seconds",
			Help:      "Bucketed histogram of the duration of one sort call.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 2.0, 24),
		}, []string{"input"})

	SortMergeCostCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "mo",
			Subsystem: "sort",
			Name:      "merge_cost_total",
			Help:      "Total number of elements moved by run merges.",
		})

	SortComparisonCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "mo",
			Subsystem: "sort",
			Name:      "comparison_total",
			Help:      "Total number of comparator calls.",
		})

	SortMergeCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "mo",
			Subsystem: "sort",
			Name:      "merge_total",
			Help:      "Total number of run merges.",
		})

	SortRunCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "mo",
			Subsystem: "sort",
			Name:      "run_total",
			Help:      "Total number of natural runs detected.",
		})

	SortMaxStackDepthGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "mo",
			Subsystem: "sort",
			Name:      "max_stack_depth",
			Help:      "Deepest run stack seen so far.",
		})

	sortJobCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mo",
			Subsystem: "sort",
			Name:      "job_total",
			Help:      "Total number of benchmark jobs.",
		}, []string{"result"})
	SortJobSucceededCounter = sortJobCounter.WithLabelValues("ok")
	SortJobFailedCounter    = sortJobCounter.WithLabelValues("failed")

	// high-water mark behind SortMaxStackDepthGauge
	maxStackDepth atomic.Int64
)

func GetSortDurationHistogram(input string) prometheus.Observer {
	return sortDurationHistogram.WithLabelValues(input)
}

// AddSortCounters adds the engine counters of c to the sort metrics.
func AddSortCounters(c *perfcounter.CounterSet) {
	SortMergeCostCounter.Add(float64(c.Sort.MergeCost.Load()))
	SortComparisonCounter.Add(float64(c.Sort.Comparisons.Load()))
	SortMergeCounter.Add(float64(c.Sort.Merges.Load()))
	SortRunCounter.Add(float64(c.Sort.Runs.Load()))
	perfcounter.StoreMax(&maxStackDepth, c.Sort.MaxStackDepth.Load())
	SortMaxStackDepthGauge.Set(float64(maxStackDepth.Load()))
}
