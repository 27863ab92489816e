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
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/walteh/roundtrip/cmd/roundtrip/opts"
	"github.com/walteh/roundtrip/pkg/config"
	"github.com/walteh/roundtrip/pkg/errkind"
	"github.com/walteh/roundtrip/pkg/operation"
)

// NewPreviewCmd creates the preview command
func NewPreviewCmd(o *opts.RootOpts) *cobra.Command {
	var (
		filter  filterFlags
		kind    string
		search  string
		replace string
	)

	cmd := &cobra.Command{
		Use:   "preview <root>",
		Short: "List the files a batch would touch",
		Long: `Preview runs discovery only. Nothing is converted, edited or renamed.
With --kind rename and a search text, the new name of each file is shown.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var req config.BatchRequest
			switch config.Kind(kind) {
			case config.KindReplace:
				req = config.NewReplaceRequest(args[0], search, replace)
			case config.KindRename:
				req = config.NewRenameRequest(args[0], search, replace)
			default:
				return errkind.Validationf("--kind must be %q or %q", config.KindReplace, config.KindRename)
			}
			req = filter.apply(req)

			o.Console.Header("preview " + req.AbsRoot())
			res, err := operation.Preview(cmd.Context(), req, o.Console)
			if err != nil {
				return err
			}
			return renderPreview(o, res)
		},
	}

	filter.register(cmd, true)
	cmd.Flags().StringVarP(&kind, "kind", "k", string(config.KindReplace), "batch kind: replace or rename")
	cmd.Flags().StringVarP(&search, "search", "s", "", "text to find, optional")
	cmd.Flags().StringVarP(&replace, "replace", "r", "", "replacement text")

	return cmd
}

// renderPreview prints the planned renames as a table
func renderPreview(o *opts.RootOpts, res *operation.PreviewResult) error {
	if len(res.Renames) == 0 {
		return nil
	}
	root := res.Request.AbsRoot()
	data := pterm.TableData{{"File", "New name"}}
	for _, p := range res.Renames {
		rel, err := filepath.Rel(root, p.From)
		if err != nil {
			rel = p.From
		}
		data = append(data, []string{rel, filepath.Base(p.To)})
	}
	o.Console.Newline()
	return pterm.DefaultTable.WithHasHeader().WithWriter(o.Out).WithData(data).Render()
}
