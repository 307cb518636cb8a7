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
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/parquet-go/parquet-go"
)

const fileTimeLayout = "2006-01-02_15-04-05"

// ReportWriter receives the records of a run. Calls are serialized by the caller.
type ReportWriter interface {
	Write(recs ...Record) error
	// Finish records the summary of one input and size.
	Finish(s Summary, at time.Time) error
	Close() error
}

// ReportFileName names a report after its start time, reps, sizes, seed and run id.
func ReportFileName(cfg *Config, runID string, at time.Time) string {
	var sb strings.Builder
	sb.WriteString("SortTime-")
	sb.WriteString(at.Format(fileTimeLayout))
	fmt.Fprintf(&sb, "-reps%d-ns", cfg.Reps)
	for _, n := range cfg.Sizes {
		fmt.Fprintf(&sb, "-%d", n)
	}
	fmt.Fprintf(&sb, "-seed%d", cfg.Seed)
	if runID != "" {
		sb.WriteString("-")
		sb.WriteString(runID)
	}
	sb.WriteString(".")
	sb.WriteString(cfg.OutputFormat)
	return sb.String()
}

// CreateReport creates the report file of a run in cfg.OutputDir.
func CreateReport(cfg *Config, runID string, at time.Time) (ReportWriter, string, error) {
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return nil, "", errors.Wrap(err, "create output directory")
	}
	path := filepath.Join(cfg.OutputDir, ReportFileName(cfg, runID, at))
	f, err := os.Create(path)
	if err != nil {
		return nil, "", errors.Wrap(err, "create report")
	}
	var w ReportWriter
	switch cfg.OutputFormat {
	case FormatParquet:
		w = NewParquetWriter(f)
	default:
		w, err = NewCSVWriter(f, cfg.CountCosts)
		if err != nil {
			_ = f.Close()
			return nil, "", err
		}
	}
	return w, path, nil
}

// CSVWriter writes records as csv lines, one flush per Write.
type CSVWriter struct {
	out        *bufio.Writer
	w          *csv.Writer
	closer     io.Closer
	countCosts bool
}

// NewCSVWriter writes the header line to out. out is closed by Close if it is
// an io.Closer.
func NewCSVWriter(out io.Writer, countCosts bool) (*CSVWriter, error) {
	bw := bufio.NewWriter(out)
	w := &CSVWriter{
		out:        bw,
		w:          csv.NewWriter(bw),
		countCosts: countCosts,
	}
	if c, ok := out.(io.Closer); ok {
		w.closer = c
	}
	header := []string{"algorithm", "ms", "n", "input", "input-num"}
	if countCosts {
		header = append(header, "merge-cost", "comparisons")
	}
	if err := w.w.Write(header); err != nil {
		return nil, errors.Wrap(err, "write csv header")
	}
	return w, w.flush()
}

func (w *CSVWriter) Write(recs ...Record) error {
	for _, r := range recs {
		line := []string{
			r.Algorithm,
			strconv.FormatFloat(r.Ms, 'f', -1, 64),
			strconv.FormatInt(r.N, 10),
			r.Input,
			strconv.FormatInt(r.InputNum, 10),
		}
		if w.countCosts {
			line = append(line,
				strconv.FormatInt(r.MergeCost, 10),
				strconv.FormatInt(r.Comparisons, 10))
		}
		if err := w.w.Write(line); err != nil {
			return errors.Wrap(err, "write csv record")
		}
	}
	return w.flush()
}

func (w *CSVWriter) Finish(s Summary, at time.Time) error {
	if _, err := fmt.Fprintf(w.out, "#finished: %s input: %s n: %d Average ms: %s\n",
		at.Format(fileTimeLayout), s.Input, s.N,
		strconv.FormatFloat(s.MeanMs, 'f', -1, 64)); err != nil {
		return errors.Wrap(err, "write csv trailer")
	}
	return w.flush()
}

func (w *CSVWriter) Close() error {
	err := w.flush()
	if w.closer != nil {
		if cerr := w.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

func (w *CSVWriter) flush() error {
	w.w.Flush()
	if err := w.w.Error(); err != nil {
		return errors.Wrap(err, "flush csv")
	}
	return errors.Wrap(w.out.Flush(), "flush csv")
}

// ParquetWriter writes records as parquet rows. Summaries are not stored.
type ParquetWriter struct {
	w      *parquet.GenericWriter[Record]
	closer io.Closer
}

func NewParquetWriter(out io.Writer) *ParquetWriter {
	w := &ParquetWriter{
		w: parquet.NewGenericWriter[Record](out),
	}
	if c, ok := out.(io.Closer); ok {
		w.closer = c
	}
	return w
}

func (w *ParquetWriter) Write(recs ...Record) error {
	if _, err := w.w.Write(recs); err != nil {
		return errors.Wrap(err, "write parquet rows")
	}
	return nil
}

func (w *ParquetWriter) Finish(Summary, time.Time) error {
	return nil
}

func (w *ParquetWriter) Close() error {
	err := errors.Wrap(w.w.Close(), "close parquet writer")
	if w.closer != nil {
		if cerr := w.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
