// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package commands

import (
	"slices"

	"github.com/spf13/cobra"
	"github.com/walteh/roundtrip/cmd/roundtrip/opts"
	"github.com/walteh/roundtrip/pkg/config"
	"github.com/walteh/roundtrip/pkg/errkind"
)

// NewRunCmd creates the command that runs the batches of the config file
func NewRunCmd(o *opts.RootOpts) *cobra.Command {
	var only []string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the batches of the config file",
		Long: `Run executes every batch of the config file. Independent batches run at the
same time; batches that touch the same files interleave in no particular order.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.RequireConfig()
			if err != nil {
				return err
			}

			reqs := cfg.Requests(o.ConverterFlag)
			if len(only) > 0 {
				reqs = slices.DeleteFunc(reqs, func(r config.BatchRequest) bool {
					return !slices.Contains(only, r.Name)
				})
			}
			if len(reqs) == 0 {
				return errkind.Validationf("%s has no batches to run", cfg.Location())
			}

			o.Console.Header("run " + cfg.Location())
			_, err = runBatches(cmd.Context(), o, reqs)
			return err
		},
	}

	cmd.Flags().StringSliceVar(&only, "only", nil, "run only the named batches")

	return cmd
}
