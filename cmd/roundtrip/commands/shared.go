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
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/walteh/roundtrip/cmd/roundtrip/opts"
	"github.com/walteh/roundtrip/pkg/config"
	"github.com/walteh/roundtrip/pkg/match"
	"github.com/walteh/roundtrip/pkg/operation"
	"github.com/walteh/roundtrip/pkg/report"
	"gitlab.com/tozd/go/errors"
)

// filterFlags are the discovery flags shared by the batch commands
type filterFlags struct {
	types     string
	pattern   string
	recursive bool
}

func (f *filterFlags) register(cmd *cobra.Command, withTypes bool) {
	if withTypes {
		cmd.Flags().StringVarP(&f.types, "types", "t", "", "comma-separated extension allow-list, e.g. menu,mate (empty accepts all)")
	}
	cmd.Flags().StringVarP(&f.pattern, "pattern", "p", "", "wildcard on file names, e.g. *.menu")
	cmd.Flags().BoolVarP(&f.recursive, "recursive", "R", true, "descend into subdirectories")
}

func (f *filterFlags) apply(req config.BatchRequest) config.BatchRequest {
	req.Recursive = f.recursive
	if f.types != "" {
		req = req.WithTypes(match.ParseExtensionList(f.types)...)
	}
	if f.pattern != "" {
		req.Pattern = f.pattern
	}
	return req
}

// runBatches executes reqs on the runner while this goroutine renders their
// output, then prints the summary table.
func runBatches(ctx context.Context, o *opts.RootOpts, reqs []config.BatchRequest) ([]operation.BatchResult, error) {
	stream := report.NewStream(64)
	runner, release := o.NewRunner(ctx, stream)
	defer release()

	var (
		results []operation.BatchResult
		runErr  error
	)
	go func() {
		defer stream.Close()
		results, runErr = runner.RunAll(ctx, reqs)
	}()
	stream.Drain(o.Console)

	var summaries []*operation.Summary
	for _, r := range results {
		if r.Summary != nil {
			summaries = append(summaries, r.Summary)
		}
	}
	if len(summaries) > 0 {
		o.Console.Newline()
		if err := renderSummaries(o.Out, summaries); err != nil {
			return results, errors.Errorf("rendering summary: %w", err)
		}
	}

	if runErr != nil {
		return results, runErr
	}
	if failed := countFailed(results); failed > 0 {
		return results, errors.Errorf("%d files failed, see the lines above", failed)
	}
	return results, nil
}

func countFailed(results []operation.BatchResult) int {
	n := 0
	for _, r := range results {
		if r.Summary != nil {
			n += r.Summary.Errored
		}
	}
	return n
}

// 📊 renderSummaries prints one table row per batch
func renderSummaries(w io.Writer, summaries []*operation.Summary) error {
	data := pterm.TableData{{"Batch", "Kind", "Files", "Changed", "Unchanged", "Errored", "Time", "ID"}}
	for _, s := range summaries {
		data = append(data, []string{
			s.Label,
			string(s.Kind),
			fmt.Sprint(s.Total),
			fmt.Sprintf("%d %s", s.Changed, s.ChangedLabel()),
			fmt.Sprintf("%d %s", s.Unchanged, s.UnchangedLabel()),
			fmt.Sprint(s.Errored),
			s.Duration().Round(time.Millisecond).String(),
			shortID(s.ID.String()),
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithWriter(w).WithData(data).Render()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
