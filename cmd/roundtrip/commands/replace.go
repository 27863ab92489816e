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
)

// NewReplaceCmd creates the content replacement command
func NewReplaceCmd(o *opts.RootOpts) *cobra.Command {
	var (
		filter   filterFlags
		search   string
		replace  string
		keepJSON bool
	)

	cmd := &cobra.Command{
		Use:   "replace <root> --search TEXT --replace TEXT",
		Short: "Replace text inside converted assets",
		Long: `Replace runs every matching file through the converter and back. For each file it will:
1. Convert it to <file>.json
2. Replace every occurrence of the search text
3. Convert it back, only when something changed
4. Delete <file>.json unless --keep-intermediate is set

A file that fails is reported and skipped; the rest of the batch still runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := config.NewReplaceRequest(args[0], search, replace)
			req = filter.apply(req)
			req.DeleteIntermediate = !keepJSON
			req.ConverterPath = o.ConverterPath()

			o.Console.Header("replace " + req.AbsRoot())
			_, err := runBatches(cmd.Context(), o, []config.BatchRequest{req})
			return err
		},
	}

	filter.register(cmd, true)
	cmd.Flags().StringVarP(&search, "search", "s", "", "text to find (required)")
	cmd.Flags().StringVarP(&replace, "replace", "r", "", "replacement text, may be empty")
	cmd.Flags().BoolVar(&keepJSON, "keep-intermediate", false, "keep the <file>.json artifacts")
	_ = cmd.MarkFlagRequired("search")

	return cmd
}
