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
	"cmp"
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
	"golang.org/x/exp/rand"

	"github.com/matrixorigin/powersort/pkg/common/moerr"
	"github.com/matrixorigin/powersort/pkg/logutil"
	"github.com/matrixorigin/powersort/pkg/perfcounter"
	"github.com/matrixorigin/powersort/pkg/sort/inputs"
	"github.com/matrixorigin/powersort/pkg/sort/powersort"
	"github.com/matrixorigin/powersort/pkg/sort/verify"
	v2 "github.com/matrixorigin/powersort/pkg/util/metric/v2"
)

// sortInts is the measured call.
var sortInts = func(s *powersort.Sorter[int], a []int) error {
	return s.Sort(a, 0, len(a))
}

type Option func(*Runner)

// WithGeneratorFactory replaces inputs.Parse as the source of generators.
func WithGeneratorFactory(fn func(name string) (inputs.Generator, error)) Option {
	return func(r *Runner) {
		r.newGenerator = fn
	}
}

// WithRunID fixes the run id instead of generating one.
func WithRunID(id string) Option {
	return func(r *Runner) {
		r.runID = id
	}
}

func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		r.now = now
	}
}

// Runner measures the sort engine on every input and size of a Config.
type Runner struct {
	cfg          *Config
	writer       ReportWriter
	runID        string
	newGenerator func(name string) (inputs.Generator, error)
	now          func() time.Time

	// counters accumulates every measured sort of the run.
	counters perfcounter.CounterSet

	mu        sync.Mutex
	summaries []Summary
}

type job struct {
	input string
	size  int
}

func NewRunner(cfg *Config, w ReportWriter, opts ...Option) *Runner {
	r := &Runner{
		cfg:          cfg,
		writer:       w,
		newGenerator: inputs.Parse,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.runID == "" {
		r.runID = uuid.New().String()
	}
	return r
}

func (r *Runner) RunID() string {
	return r.runID
}

// Counters returns the engine counters of all measured sorts so far.
func (r *Runner) Counters() *perfcounter.CounterSet {
	return &r.counters
}

// Run warms up, then measures all jobs on a pool of cfg.Parallelism workers.
// The first error stops the jobs that have not started yet.
func (r *Runner) Run(ctx context.Context) ([]Summary, error) {
	ctx = logutil.ContextWithRunID(ctx, r.runID)
	ctx = perfcounter.WithCounterSet(ctx, &r.counters)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := r.warmup(ctx); err != nil {
		return nil, err
	}

	pool, err := ants.NewPool(r.cfg.Parallelism, ants.WithPanicHandler(func(v interface{}) {
		logutil.Error("sort job panic", zap.Any("panic", v))
	}))
	if err != nil {
		return nil, moerr.ConvertGoError(ctx, err)
	}
	defer func() {
		if err := pool.ReleaseTimeout(5 * time.Second); err != nil {
			logutil.WarnCtx(ctx, "release job pool", zap.Error(err))
		}
	}()

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	fail := func(err error) {
		errOnce.Do(func() {
			firstErr = err
			cancel()
		})
	}
	for _, input := range r.cfg.Inputs {
		for _, size := range r.cfg.Sizes {
			j := job{input: input, size: size}
			wg.Add(1)
			err := pool.Submit(func() {
				defer wg.Done()
				defer func() {
					if v := recover(); v != nil {
						v2.SortJobFailedCounter.Inc()
						logutil.ErrorCtx(ctx, "sort job panic", zap.String("input", j.input), zap.Int("n", j.size), zap.Any("panic", v))
						fail(moerr.ConvertPanicError(ctx, v))
					}
				}()
				if ctx.Err() != nil {
					return
				}
				if err := r.runJob(ctx, j); err != nil {
					v2.SortJobFailedCounter.Inc()
					fail(err)
					return
				}
				v2.SortJobSucceededCounter.Inc()
			})
			if err != nil {
				wg.Done()
				fail(moerr.ConvertGoError(ctx, err))
			}
		}
	}
	wg.Wait()

	logutil.InfoCtx(ctx, "sort counters", perfcounter.NewCounterLogExporter(&r.counters).Export()...)
	if firstErr != nil {
		return nil, firstErr
	}
	return r.summaries, nil
}

func (r *Runner) warmup(ctx context.Context) error {
	if r.cfg.WarmupRounds == 0 || len(r.cfg.WarmupSizes) == 0 {
		return nil
	}
	g, err := r.newGenerator(r.cfg.Inputs[0])
	if err != nil {
		return err
	}
	s, err := powersort.NewSorter(cmp.Compare[int], &r.cfg.Engine)
	if err != nil {
		return err
	}
	logutil.InfoCtx(ctx, "doing warm-up", zap.Int("rounds", r.cfg.WarmupRounds))
	rng := rand.New(rand.NewSource(r.cfg.Seed))
	for i := 0; i < r.cfg.WarmupRounds; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		for _, size := range r.cfg.WarmupSizes {
			a := inputs.Next(g, size, rng, nil)
			if err := sortInts(s, a); err != nil {
				return err
			}
		}
	}
	logutil.InfoCtx(ctx, "warm-up finished")
	return nil
}

// runJob measures one input and size. The job owns its generator, sorter,
// buffers and counters.
func (r *Runner) runJob(ctx context.Context, j job) error {
	g, err := r.newGenerator(j.input)
	if err != nil {
		return err
	}
	var rep, total perfcounter.CounterSet
	ctx = perfcounter.WithCounterSet(ctx, &total)
	opts := r.cfg.Engine
	opts.Counters = nil
	if r.cfg.CountCosts {
		opts.Counters = &rep
	}
	s, err := powersort.NewSorter(cmp.Compare[int], &opts)
	if err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(r.cfg.Seed))
	recs := make([]Record, 0, r.cfg.Reps)
	var a, before []int
	for i := 0; i < r.cfg.Reps; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		a = inputs.Next(g, j.size, rng, a)
		if r.cfg.AbortIfUnsorted {
			before = append(before[:0], a...)
		}
		rep.Reset()

		start := time.Now()
		if err := sortInts(s, a); err != nil {
			return err
		}
		elapsed := time.Since(start)

		if r.cfg.AbortIfUnsorted {
			if err := verify.Check(before, a, nil); err != nil {
				logutil.ErrorCtx(ctx, "result not sorted",
					zap.String("input", j.input), zap.Int("n", j.size), zap.Int("rep", i), zap.Error(err))
				return errors.Wrapf(err, "%s n=%d rep %d", j.input, j.size, i)
			}
		}
		v2.GetSortDurationHistogram(j.input).Observe(elapsed.Seconds())
		if r.cfg.CountCosts {
			v2.AddSortCounters(&rep)
			perfcounter.Update(ctx, func(c *perfcounter.CounterSet) {
				c.Add(&rep)
			})
		}

		// the first rep is often slower and is not reported
		if i == 0 {
			continue
		}
		rec := Record{
			Algorithm: algorithmName,
			Ms:        float64(elapsed.Nanoseconds()) / 1e6,
			N:         int64(j.size),
			Input:     g.String(),
			InputNum:  int64(i),
		}
		if r.cfg.CountCosts {
			rec.MergeCost = rep.Sort.MergeCost.Load()
			rec.Comparisons = rep.Sort.Comparisons.Load()
			rec.Runs = rep.Sort.Runs.Load()
			rec.MaxStackDepth = rep.Sort.MaxStackDepth.Load()
			rec.Distinct = int64(verify.DistinctEstimate(a))
		}
		recs = append(recs, rec)
	}

	sum := Summarize(g.String(), j.size, recs)
	logutil.InfoCtx(ctx, "job finished",
		zap.String("input", sum.Input),
		zap.Int64("n", sum.N),
		zap.Float64("avg-ms", sum.MeanMs),
		zap.Float64("stddev-ms", sum.StdDevMs),
		zap.Float64("avg-merge-cost", sum.MeanMergeCost),
		zap.Int64("merges", total.Sort.Merges.Load()))

	r.mu.Lock()
	defer r.mu.Unlock()
	r.summaries = append(r.summaries, sum)
	if r.writer == nil {
		return nil
	}
	if err := r.writer.Write(recs...); err != nil {
		return err
	}
	return r.writer.Finish(sum, r.now())
}
