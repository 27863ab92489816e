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

package operation

import (
	"context"
	"io/fs"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/roundtrip/pkg/artifact"
	"github.com/walteh/roundtrip/pkg/config"
	"github.com/walteh/roundtrip/pkg/converter"
	"github.com/walteh/roundtrip/pkg/discover"
	"github.com/walteh/roundtrip/pkg/errkind"
	"github.com/walteh/roundtrip/pkg/report"
	"github.com/walteh/roundtrip/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 🔄 RoundTrip converts each file to its intermediate form, edits it and
// converts it back when the edit changed something.
type RoundTrip struct {
	converter converter.Client
	mutator   *text.Mutator
	reporter  report.Reporter
}

// 🏭 NewRoundTrip creates a round trip pipeline
func NewRoundTrip(client converter.Client, reporter report.Reporter) *RoundTrip {
	if reporter == nil {
		reporter = report.Discard
	}
	return &RoundTrip{
		converter: client,
		mutator:   text.NewMutator(),
		reporter:  reporter,
	}
}

// 🏃 Run executes a replace batch. The returned error is set only when the
// batch could not start; per-file failures are recorded in the summary.
func (rt *RoundTrip) Run(ctx context.Context, req config.BatchRequest) (*Summary, error) {
	if req.Kind != config.KindReplace {
		return nil, errkind.Validationf("round trip cannot run a %q batch", req.Kind)
	}

	files, err := discoverBatch(ctx, req, config.ForRun, rt.reporter)
	if err != nil {
		return nil, err
	}

	summary := newSummary(req)
	for i, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, interrupted(req, i, len(files), err)
		}
		summary.add(rt.processFile(ctx, req, f, i+1, len(files)))
	}
	summary.finish()

	reportSummary(ctx, rt.reporter, summary)
	return summary, nil
}

func (rt *RoundTrip) processFile(ctx context.Context, req config.BatchRequest, f discover.File, n, total int) (res FileResult) {
	res = FileResult{Path: f.Path, State: StateDiscovered}
	report.File(rt.reporter, report.LevelInfo, f.Path, "[%d/%d] converting", n, total)

	res.State = StateConvertingToIntermediate
	out := rt.invoke(ctx, converter.Convert2JSON(f.Path))
	if !out.Success() {
		// nothing was produced, so there is nothing to edit or remove
		return rt.fail(res, StateConvertFailed, out.Err())
	}

	res.State = StateIntermediateReady
	intermediate := artifact.Path(f.Path)
	defer rt.cleanup(ctx, req, intermediate, &res)

	res.State = StateMutating
	mut, err := rt.mutator.MutateFile(ctx, intermediate, req.Search, req.Replace)
	if err != nil {
		return rt.fail(res, StateMutateFailed, err)
	}
	if !mut.Changed {
		res.State = StateNoMatch
		res.Outcome = OutcomeUnmatched
		report.File(rt.reporter, report.LevelInfo, f.Path, "unchanged, %q not found", req.Search)
		return res
	}
	res.Replacements = mut.Replacements

	res.State = StateConvertingBack
	out = rt.invoke(ctx, converter.Convert2Mod(intermediate))
	if !out.Success() {
		return rt.fail(res, StateConvertBackFailed, out.Err())
	}

	res.State = StateModified
	res.Outcome = OutcomeModified
	report.File(rt.reporter, report.LevelSuccess, f.Path, "modified, %d replacements", mut.Replacements)
	return res
}

// invoke runs the converter and forwards its output as detail lines. The
// diagnostic of a failed call is carried by Outcome.Err instead.
func (rt *RoundTrip) invoke(ctx context.Context, req converter.Request) converter.Outcome {
	out := rt.converter.Invoke(ctx, req)
	forwardLines(rt.reporter, out.Stdout)
	if out.Success() {
		forwardLines(rt.reporter, out.Stderr)
	}
	return out
}

func (rt *RoundTrip) fail(res FileResult, state State, err error) FileResult {
	res.State = state
	res.Outcome = OutcomeErrored
	res.Err = err
	report.File(rt.reporter, report.LevelError, res.Path, "%s failed: %v", errkind.Of(err), err)
	return res
}

// cleanup removes the intermediate artifact if it exists. A failure to remove
// it is a warning and leaves the classification alone.
func (rt *RoundTrip) cleanup(ctx context.Context, req config.BatchRequest, intermediate string, res *FileResult) {
	if res.State == StateModified {
		res.State = StateCleanup
		defer func() { res.State = StateDone }()
	}
	if !req.DeleteIntermediate {
		return
	}

	if _, err := os.Lstat(intermediate); errors.Is(err, fs.ErrNotExist) {
		return
	}

	if err := os.Remove(intermediate); err != nil {
		msg := "could not remove intermediate file: " + err.Error()
		res.Warnings = append(res.Warnings, msg)
		report.File(rt.reporter, report.LevelWarning, intermediate, "%s", msg)
		return
	}
	zerolog.Ctx(ctx).Debug().Str("path", intermediate).Msg("removed intermediate file")
}

func forwardLines(r report.Reporter, out string) {
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			r.Report(report.Entry{Level: report.LevelDetail, Message: line})
		}
	}
}
