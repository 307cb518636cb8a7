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
	"github.com/spf13/cobra"

	"github.com/matrixorigin/powersort/pkg/sortbench"
)

func generateConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate-config [file]",
		Short: "Write the default run configuration",
		Long:  "Write the default run configuration as toml to the given file, or to stdout",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := sortbench.DefaultConfig()
			if len(args) == 0 {
				return cfg.Encode(cmd.OutOrStdout())
			}
			return cfg.WriteFile(args[0])
		},
	}
	return cmd
}
