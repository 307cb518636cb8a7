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

package main

import (
	"context"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/matrixorigin/powersort/pkg/logutil"
	"github.com/matrixorigin/powersort/pkg/sort/inputs"
	"github.com/matrixorigin/powersort/pkg/sortbench"
	v2 "github.com/matrixorigin/powersort/pkg/util/metric/v2"
)

func runCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Measure the sort engine on generated inputs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadRunConfig(cmd)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runBench(ctx, cfg)
		},
	}
	flags := cmd.Flags()
	flags.StringP("config", "c", "", "toml configuration of the run")
	flags.IntSlice("sizes", nil, "input sizes")
	flags.Int("reps", 0, "sorts per input and size")
	flags.Int("warmup-rounds", 0, "warm-up rounds")
	flags.Uint64("seed", 0, "random seed")
	flags.StringSlice("inputs", nil, "input generators, e.g. "+strings.Join(inputs.Names(), ","))
	flags.Bool("count-costs", false, "record merge cost and comparisons")
	flags.Bool("abort-if-unsorted", true, "verify every result")
	flags.StringP("output-dir", "o", "", "directory of the report")
	flags.String("format", "", "report format, csv or parquet")
	flags.IntP("parallelism", "p", 0, "jobs measured at the same time")
	flags.String("metrics-addr", "", "serve prometheus metrics on this address")
	return cmd
}

// loadRunConfig reads the config file, if any, and applies the flags that were set.
func loadRunConfig(cmd *cobra.Command) (*sortbench.Config, error) {
	flags := cmd.Flags()
	path, _ := flags.GetString("config")
	cfg := sortbench.DefaultConfig()
	if path != "" {
		var err error
		if cfg, err = sortbench.LoadConfig(path); err != nil {
			return nil, err
		}
	}
	if flags.Changed("sizes") {
		cfg.Sizes, _ = flags.GetIntSlice("sizes")
	}
	if flags.Changed("reps") {
		cfg.Reps, _ = flags.GetInt("reps")
	}
	if flags.Changed("warmup-rounds") {
		cfg.WarmupRounds, _ = flags.GetInt("warmup-rounds")
	}
	if flags.Changed("seed") {
		cfg.Seed, _ = flags.GetUint64("seed")
	}
	if flags.Changed("inputs") {
		cfg.Inputs, _ = flags.GetStringSlice("inputs")
	}
	if flags.Changed("count-costs") {
		cfg.CountCosts, _ = flags.GetBool("count-costs")
	}
	if flags.Changed("abort-if-unsorted") {
		cfg.AbortIfUnsorted, _ = flags.GetBool("abort-if-unsorted")
	}
	if flags.Changed("output-dir") {
		cfg.OutputDir, _ = flags.GetString("output-dir")
	}
	if flags.Changed("format") {
		cfg.OutputFormat, _ = flags.GetString("format")
	}
	if flags.Changed("parallelism") {
		cfg.Parallelism, _ = flags.GetInt("parallelism")
	}
	if flags.Changed("metrics-addr") {
		cfg.MetricsAddr, _ = flags.GetString("metrics-addr")
	}
	cfg.FillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runBench(ctx context.Context, cfg *sortbench.Config) error {
	logutil.SetupLogger(&cfg.Log)

	if cfg.MetricsAddr != "" {
		srv := &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           promhttp.HandlerFor(v2.GetPrometheusGatherer(), promhttp.HandlerOpts{}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logutil.Error("metrics server stopped", zap.Error(err))
			}
		}()
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(sctx)
		}()
	}

	started := time.Now()
	runID := uuid.New().String()
	w, path, err := sortbench.CreateReport(cfg, runID, started)
	if err != nil {
		return err
	}
	r := sortbench.NewRunner(cfg, w, sortbench.WithRunID(runID))
	logutil.Info("benchmark started",
		zap.String("run", r.RunID()),
		zap.String("report", path),
		zap.Ints("sizes", cfg.Sizes),
		zap.Strings("inputs", cfg.Inputs),
		zap.Int("reps", cfg.Reps),
		zap.Uint64("seed", cfg.Seed))

	sums, err := r.Run(ctx)
	if cerr := w.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		logutil.Error("benchmark failed", zap.String("run", r.RunID()), zap.Error(err))
		return err
	}
	for _, s := range sums {
		logutil.Info("average time",
			zap.String("input", s.Input),
			zap.Int64("n", s.N),
			zap.Float64("ms", s.MeanMs),
			zap.Float64("stddev-ms", s.StdDevMs))
	}
	logutil.Info("benchmark finished", zap.Duration("elapsed", time.Since(started)), zap.String("report", path))
	return nil
}
