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
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/roundtrip/pkg/config"
	"github.com/walteh/roundtrip/pkg/discover"
	"github.com/walteh/roundtrip/pkg/errkind"
	"github.com/walteh/roundtrip/pkg/report"
	"gitlab.com/tozd/go/errors"
)

// 📝 RenamePlan moves a file to a new name in the same directory
type RenamePlan struct {
	From string
	To   string
}

// 🧮 PlanRename computes the new name of path by replacing every occurrence
// of search in its base name. ok is false when there is nothing to rename.
func PlanRename(path, search, replace string) (plan RenamePlan, ok bool, err error) {
	base := filepath.Base(path)
	if search == "" || !strings.Contains(base, search) {
		return RenamePlan{}, false, nil
	}

	newBase := strings.ReplaceAll(base, search, replace)
	switch {
	case newBase == base:
		return RenamePlan{}, false, nil
	case newBase == "", newBase == ".", newBase == "..":
		return RenamePlan{}, false, errors.Errorf("%w: %s would be renamed to %q", errkind.ErrRename, path, newBase)
	case strings.ContainsAny(newBase, `/\`):
		return RenamePlan{}, false, errors.Errorf("%w: %s would leave its directory as %q", errkind.ErrRename, path, newBase)
	}

	return RenamePlan{From: path, To: filepath.Join(filepath.Dir(path), newBase)}, true, nil
}

// Apply performs the rename. An existing destination is never overwritten,
// unless it is the source itself under a different case.
func (p RenamePlan) Apply() error {
	src, err := os.Lstat(p.From)
	if err != nil {
		return errors.Errorf("%w: %w", errkind.ErrRename, err)
	}

	dst, err := os.Lstat(p.To)
	switch {
	case err == nil && !p.caseOnly(src, dst):
		return errors.Errorf("%w: %s already exists", errkind.ErrRename, p.To)
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return errors.Errorf("%w: %w", errkind.ErrRename, err)
	}

	if err := os.Rename(p.From, p.To); err != nil {
		return errors.Errorf("%w: %w", errkind.ErrRename, err)
	}
	return nil
}

// caseOnly reports whether the destination found on disk is the source
// itself, reached through a case-insensitive name. A hard link to the source
// under another name is a different entry and does not count.
func (p RenamePlan) caseOnly(src, dst os.FileInfo) bool {
	return strings.EqualFold(filepath.Base(p.From), filepath.Base(p.To)) && os.SameFile(src, dst)
}

// ✂️ Rename applies a literal substitution to the base names of files
type Rename struct {
	reporter report.Reporter
}

// 🏭 NewRename creates a rename pipeline
func NewRename(reporter report.Reporter) *Rename {
	if reporter == nil {
		reporter = report.Discard
	}
	return &Rename{reporter: reporter}
}

// 🏃 Run executes a rename batch. Names are computed from the file on disk
// at the moment it is renamed, and every file is renamed at most once.
func (rn *Rename) Run(ctx context.Context, req config.BatchRequest) (*Summary, error) {
	if req.Kind != config.KindRename {
		return nil, errkind.Validationf("rename cannot run a %q batch", req.Kind)
	}

	files, err := discoverBatch(ctx, req, config.ForRun, rn.reporter)
	if err != nil {
		return nil, err
	}

	summary := newSummary(req)
	for i, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, interrupted(req, i, len(files), err)
		}
		summary.add(rn.renameFile(ctx, req, f))
	}
	summary.finish()

	reportSummary(ctx, rn.reporter, summary)
	return summary, nil
}

func (rn *Rename) renameFile(ctx context.Context, req config.BatchRequest, f discover.File) FileResult {
	res := FileResult{Path: f.Path}

	plan, ok, err := PlanRename(f.Path, req.Search, req.Replace)
	if err == nil && !ok {
		zerolog.Ctx(ctx).Debug().Str("path", f.Path).Msg("name does not contain search text")
		res.Outcome = OutcomeSkipped
		return res
	}
	if err == nil {
		err = plan.Apply()
	}
	if err != nil {
		res.Outcome = OutcomeErrored
		res.Err = err
		report.File(rn.reporter, report.LevelError, f.Path, "rename failed: %v", err)
		return res
	}

	res.To = plan.To
	res.Outcome = OutcomeRenamed
	report.File(rn.reporter, report.LevelSuccess, f.Path, "renamed to %s", filepath.Base(plan.To))
	return res
}
