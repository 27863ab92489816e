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
	"github.com/spf13/cobra"
	"github.com/walteh/roundtrip/cmd/roundtrip/opts"
	"github.com/walteh/roundtrip/pkg/config"
	"github.com/walteh/roundtrip/pkg/operation"
)

// NewRenameCmd creates the file rename command
func NewRenameCmd(o *opts.RootOpts) *cobra.Command {
	var (
		filter  filterFlags
		search  string
		replace string
		dryRun  bool
	)

	cmd := &cobra.Command{
		Use:   "rename <root> --search TEXT --replace TEXT",
		Short: "Replace text in file names",
		Long: `Rename replaces every occurrence of the search text in the base name of each
matching file. Directories are never renamed, and a file is never moved onto an
existing name. The default pattern is *.*`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			req := filter.apply(config.NewRenameRequest(args[0], search, replace))

			if dryRun {
				o.Console.Header("rename preview " + req.AbsRoot())
				res, err := operation.Preview(ctx, req, o.Console)
				if err != nil {
					return err
				}
				return renderPreview(o, res)
			}

			o.Console.Header("rename " + req.AbsRoot())
			_, err := runBatches(ctx, o, []config.BatchRequest{req})
			return err
		},
	}

	filter.register(cmd, false)
	cmd.Flags().StringVarP(&search, "search", "s", "", "text to find in file names (required)")
	cmd.Flags().StringVarP(&replace, "replace", "r", "", "replacement text, may be empty")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "list the new names without renaming")
	_ = cmd.MarkFlagRequired("search")

	return cmd
}
