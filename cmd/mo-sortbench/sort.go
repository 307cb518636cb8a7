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
	"bufio"
	"cmp"
	"io"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/matrixorigin/powersort/pkg/common/moerr"
	"github.com/matrixorigin/powersort/pkg/logutil"
	"github.com/matrixorigin/powersort/pkg/perfcounter"
	sortutil "github.com/matrixorigin/powersort/pkg/sort"
	"github.com/matrixorigin/powersort/pkg/sort/powersort"
)

func sortCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sort",
		Short: "Sort integers read from stdin, one per line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			desc, _ := cmd.Flags().GetBool("desc")
			stats, _ := cmd.Flags().GetBool("stats")
			return sortLines(cmd.InOrStdin(), cmd.OutOrStdout(), desc, stats)
		},
	}
	cmd.Flags().Bool("desc", false, "sort in descending order")
	cmd.Flags().Bool("stats", false, "log the engine counters")
	return cmd
}

func sortLines(in io.Reader, out io.Writer, desc, stats bool) error {
	var vs []int64
	sc := bufio.NewScanner(in)
	for line := 1; sc.Scan(); line++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		v, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return moerr.NewInvalidInput(moerr.Context(), "line %d: %q is not an integer", line, text)
		}
		vs = append(vs, v)
	}
	if err := sc.Err(); err != nil {
		return errors.Wrap(err, "read input")
	}

	if stats {
		var c perfcounter.CounterSet
		compare := cmp.Compare[int64]
		if desc {
			compare = func(a, b int64) int { return cmp.Compare(b, a) }
		}
		if err := powersort.SortRange(vs, 0, len(vs), compare, nil, &powersort.Options{Counters: &c}); err != nil {
			return err
		}
		logutil.Info("sort counters", perfcounter.NewCounterLogExporter(&c).Export()...)
	} else if err := sortutil.Sort(desc, vs); err != nil {
		return err
	}

	w := bufio.NewWriter(out)
	for _, v := range vs {
		w.WriteString(strconv.FormatInt(v, 10))
		w.WriteByte('\n')
	}
	return errors.Wrap(w.Flush(), "write output")
}
