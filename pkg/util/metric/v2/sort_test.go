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
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/powersort/pkg/perfcounter"
)

func TestAddSortCounters(t *testing.T) {
	cost := testutil.ToFloat64(SortMergeCostCounter)
	merges := testutil.ToFloat64(SortMergeCounter)

	var c perfcounter.CounterSet
	c.Sort.MergeCost.Store(40)
	c.Sort.Merges.Store(3)
	c.Sort.MaxStackDepth.Store(7)
	AddSortCounters(&c)
	require.Equal(t, cost+40, testutil.ToFloat64(SortMergeCostCounter))
	require.Equal(t, merges+3, testutil.ToFloat64(SortMergeCounter))
	require.Equal(t, float64(7), testutil.ToFloat64(SortMaxStackDepthGauge))

	c.Sort.MaxStackDepth.Store(2)
	AddSortCounters(&c)
	require.Equal(t, float64(7), testutil.ToFloat64(SortMaxStackDepthGauge))
}

func TestRegistry(t *testing.T) {
	GetSortDurationHistogram("random-permutations").Observe(0.01)
	mfs, err := GetPrometheusGatherer().Gather()
	require.NoError(t, err)
	names := make(map[string]bool)
	for _, mf := range mfs {
		names[mf.GetName()] = true
	}
	require.True(t, names["mo_sort_duration_seconds"])
	require.True(t, names["mo_sort_merge_cost_total"])
}
