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
	"fmt"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/walteh/roundtrip/cmd/roundtrip/opts"
	"github.com/walteh/roundtrip/pkg/errkind"
	"github.com/walteh/roundtrip/pkg/report"
	"gitlab.com/tozd/go/errors"
)

// NewHistoryCmd creates the command that lists recorded batches
func NewHistoryCmd(o *opts.RootOpts) *cobra.Command {
	var (
		limit  int
		failed bool
	)

	cmd := &cobra.Command{
		Use:   "history [batch-id]",
		Short: "Show recorded batches",
		Long: `History lists recent batches, newest first. Given a batch id, or a unique
prefix of one, it lists the files of that batch instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := o.OpenHistory()
			if err != nil {
				return errors.Errorf("opening history: %w", err)
			}
			if store == nil {
				return errkind.Validationf("history is disabled")
			}
			defer store.Close()

			if len(args) == 0 {
				batches, err := store.List(ctx, limit)
				if err != nil {
					return err
				}
				if len(batches) == 0 {
					report.Infof(o.Console, "no batches recorded yet")
					return nil
				}
				data := pterm.TableData{{"ID", "Started", "Batch", "Kind", "Files", "Changed", "Unchanged", "Errored"}}
				for _, b := range batches {
					data = append(data, []string{
						shortID(b.ID.String()),
						b.Started.Local().Format(time.DateTime),
						b.Label,
						b.Kind,
						fmt.Sprint(b.Total),
						fmt.Sprint(b.Changed),
						fmt.Sprint(b.Unchanged),
						fmt.Sprint(b.Errored),
					})
				}
				return pterm.DefaultTable.WithHasHeader().WithWriter(o.Out).WithData(data).Render()
			}

			batch, err := store.Find(ctx, args[0])
			if err != nil {
				return errkind.Validationf("%w", err)
			}
			files, err := store.Files(ctx, batch.ID)
			if err != nil {
				return err
			}

			o.Console.Header(fmt.Sprintf("%s (%s)", batch.Label, batch.ID))
			data := pterm.TableData{{"File", "Outcome", "State", "Detail"}}
			for _, f := range files {
				if failed && f.Outcome != "errored" {
					continue
				}
				var details []string
				if f.To != "" {
					details = append(details, "→ "+f.To)
				}
				if f.Error != "" {
					details = append(details, f.Error)
				}
				details = append(details, f.Warnings...)
				data = append(data, []string{f.Path, f.Outcome, f.State, oneLine(strings.Join(details, "; "))})
			}
			return pterm.DefaultTable.WithHasHeader().WithWriter(o.Out).WithData(data).Render()
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "number of batches to list, 0 for all")
	cmd.Flags().BoolVar(&failed, "failed", false, "with a batch id, list only failed files")

	return cmd
}
