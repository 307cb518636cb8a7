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

package sortbench

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const algorithmName = "Powersort"

// Record is one measured sort.
type Record struct {
	Algorithm     string  `parquet:"algorithm"`
	Ms            float64 `parquet:"ms"`
	N             int64   `parquet:"n"`
	Input         string  `parquet:"input"`
	InputNum      int64   `parquet:"input_num"`
	MergeCost     int64   `parquet:"merge_cost"`
	Comparisons   int64   `parquet:"comparisons"`
	Runs          int64   `parquet:"runs"`
	MaxStackDepth int64   `parquet:"max_stack_depth"`
	Distinct      int64   `parquet:"distinct"`
}

// Summary aggregates the records of one input and size.
type Summary struct {
	Input         string
	N             int64
	Reps          int
	MeanMs        float64
	StdDevMs      float64
	MinMs         float64
	MaxMs         float64
	MeanMergeCost float64
}

// Summarize aggregates recs, which must all share input and size.
func Summarize(input string, n int, recs []Record) Summary {
	s := Summary{Input: input, N: int64(n), Reps: len(recs)}
	if len(recs) == 0 {
		return s
	}
	ms := make([]float64, len(recs))
	cost := make([]float64, len(recs))
	for i, r := range recs {
		ms[i] = r.Ms
		cost[i] = float64(r.MergeCost)
	}
	s.MeanMs, s.StdDevMs = stat.MeanStdDev(ms, nil)
	s.MinMs, s.MaxMs = floats.Min(ms), floats.Max(ms)
	s.MeanMergeCost = stat.Mean(cost, nil)
	return s
}
