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
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"

	"github.com/matrixorigin/powersort/pkg/common/moerr"
	"github.com/matrixorigin/powersort/pkg/logutil"
	"github.com/matrixorigin/powersort/pkg/sort/inputs"
	"github.com/matrixorigin/powersort/pkg/sort/powersort"
)

const (
	FormatCSV     = "csv"
	FormatParquet = "parquet"

	defaultSeed         = 42424242
	defaultReps         = 100
	defaultWarmupRounds = 12000
	defaultSize         = 1000000
)

var defaultWarmupSizes = []int{10000, 1000, 1000}

// Config describes one benchmark run.
type Config struct {
	// Sizes are the input lengths to measure.
	Sizes []int `toml:"sizes"`
	// Reps is the number of sorts per input and size. The first one is not reported.
	Reps int `toml:"reps"`
	// WarmupRounds is the number of rounds over WarmupSizes sorted before measuring.
	WarmupRounds int    `toml:"warmup-rounds"`
	WarmupSizes  []int  `toml:"warmup-sizes"`
	Seed         uint64 `toml:"seed"`
	// Inputs are generator names, see inputs.Parse.
	Inputs []string `toml:"inputs"`
	// CountCosts records merge cost and comparisons with every measurement.
	CountCosts      bool `toml:"count-costs"`
	AbortIfUnsorted bool `toml:"abort-if-unsorted"`

	OutputDir    string `toml:"output-dir"`
	OutputFormat string `toml:"output-format"`
	// Parallelism is the number of jobs measured at the same time.
	Parallelism int    `toml:"parallelism"`
	MetricsAddr string `toml:"metrics-addr"`

	Engine powersort.Options `toml:"engine"`
	Log    logutil.LogConfig `toml:"log"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	cfg := newConfig()
	cfg.FillDefaults()
	return cfg
}

// newConfig presets the fields whose zero value is meaningful.
func newConfig() *Config {
	return &Config{
		WarmupRounds:    defaultWarmupRounds,
		AbortIfUnsorted: true,
	}
}

// LoadConfig reads a toml file and fills in the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := newConfig()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, moerr.NewFileNotFound(moerr.Context(), path)
		}
		return nil, errors.Wrapf(err, "failed to parse config from %s", path)
	}
	cfg.FillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) FillDefaults() {
	if len(c.Sizes) == 0 {
		c.Sizes = []int{defaultSize}
	}
	if c.Reps == 0 {
		c.Reps = defaultReps
	}
	if c.WarmupSizes == nil {
		c.WarmupSizes = slices.Clone(defaultWarmupSizes)
	}
	if c.Seed == 0 {
		c.Seed = defaultSeed
	}
	if len(c.Inputs) == 0 {
		c.Inputs = []string{inputs.RandomPermutations().String()}
	}
	if c.OutputDir == "" {
		c.OutputDir = "."
	}
	if c.OutputFormat == "" {
		c.OutputFormat = FormatCSV
	}
	if c.Parallelism <= 0 {
		c.Parallelism = 1
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	c.Engine.FillDefaults()
}

func (c *Config) Validate() error {
	for _, n := range c.Sizes {
		if n < 1 {
			return moerr.NewBadConfig(moerr.Context(), "size %d is not positive", n)
		}
	}
	for _, n := range c.WarmupSizes {
		if n < 1 {
			return moerr.NewBadConfig(moerr.Context(), "warm-up size %d is not positive", n)
		}
	}
	if c.Reps < 1 {
		return moerr.NewBadConfig(moerr.Context(), "reps %d is not positive", c.Reps)
	}
	if c.WarmupRounds < 0 {
		return moerr.NewBadConfig(moerr.Context(), "warm-up rounds %d is negative", c.WarmupRounds)
	}
	for _, name := range c.Inputs {
		if _, err := inputs.Parse(name); err != nil {
			return moerr.NewBadConfig(moerr.Context(), "input %s: %s", name, err.Error())
		}
	}
	switch c.OutputFormat {
	case FormatCSV, FormatParquet:
	default:
		return moerr.NewBadConfig(moerr.Context(), "unsupported output format %s", c.OutputFormat)
	}
	return c.Engine.Validate()
}

// Encode writes c as toml.
func (c *Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// WriteFile writes c as toml to path, creating its directory.
func (c *Config) WriteFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, "create config directory")
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create config file")
	}
	if err = c.Encode(f); err != nil {
		_ = f.Close()
		return errors.Wrap(err, "encode config")
	}
	return f.Close()
}
