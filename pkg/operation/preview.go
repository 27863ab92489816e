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
	"path/filepath"

	"github.com/walteh/roundtrip/pkg/config"
	"github.com/walteh/roundtrip/pkg/discover"
	"github.com/walteh/roundtrip/pkg/report"
)

// 👀 PreviewResult lists what a batch would work on
type PreviewResult struct {
	Request config.BatchRequest
	Files   []discover.File
	// Renames holds the files whose name contains the search text, with the
	// name each would get. Empty for replace batches and empty keywords.
	Renames []RenamePlan
	// Invalid holds files whose new name could not be used.
	Invalid []FileResult
}

// 👀 Preview discovers the files of req without changing anything. The
// search keyword may be empty.
func Preview(ctx context.Context, req config.BatchRequest, r report.Reporter) (*PreviewResult, error) {
	if r == nil {
		r = report.Discard
	}

	files, err := discoverBatch(ctx, req, config.ForPreview, r)
	if err != nil {
		return nil, err
	}

	out := &PreviewResult{Request: req, Files: files}
	for _, f := range files {
		r.Report(report.Entry{Level: report.LevelDetail, Message: f.Path})
	}

	if req.Kind != config.KindRename || req.Search == "" {
		return out, nil
	}

	for _, f := range files {
		plan, ok, err := PlanRename(f.Path, req.Search, req.Replace)
		switch {
		case err != nil:
			out.Invalid = append(out.Invalid, FileResult{Path: f.Path, Outcome: OutcomeErrored, Err: err})
			report.File(r, report.LevelWarning, f.Path, "cannot rename: %v", err)
		case ok:
			out.Renames = append(out.Renames, plan)
			report.File(r, report.LevelInfo, f.Path, "would be renamed to %s", filepath.Base(plan.To))
		}
	}
	report.Infof(r, "%d of %d files contain %q", len(out.Renames)+len(out.Invalid), len(files), req.Search)

	return out, nil
}
