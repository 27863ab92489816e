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

	"github.com/rs/zerolog"
	"github.com/walteh/roundtrip/pkg/config"
	"github.com/walteh/roundtrip/pkg/discover"
	"github.com/walteh/roundtrip/pkg/report"
	"gitlab.com/tozd/go/errors"
)

// 🔌 Pipeline runs one batch to completion
type Pipeline interface {
	Run(ctx context.Context, req config.BatchRequest) (*Summary, error)
}

var (
	_ Pipeline = (*RoundTrip)(nil)
	_ Pipeline = (*Rename)(nil)
)

// discoverBatch validates req and lists the files it selects. Nothing has
// been touched on disk when it returns an error.
func discoverBatch(ctx context.Context, req config.BatchRequest, purpose config.Purpose, r report.Reporter) ([]discover.File, error) {
	logger := zerolog.Ctx(ctx)

	if err := req.Validate(purpose); err != nil {
		report.Errorf(r, "%s: %v", req.Label(), err)
		return nil, err
	}

	matcher, err := req.Matcher()
	if err != nil {
		return nil, err
	}

	files, err := discover.Discover(ctx, discover.Options{
		Root:      req.Root,
		Recursive: req.Recursive,
		Matcher:   matcher,
		OnWarning: func(path string, err error) {
			report.File(r, report.LevelWarning, path, "skipped: %v", err)
		},
	})
	if err != nil {
		report.Errorf(r, "%s: %v", req.Label(), err)
		return nil, err
	}

	logger.Debug().Str("batch", req.Label()).Int("files", len(files)).Msg("discovered files")
	report.Infof(r, "found %d files (%s) under %s", len(files), matcher, req.AbsRoot())
	return files, nil
}

// interrupted is returned by a pipeline that stopped between files because
// its context ended.
func interrupted(req config.BatchRequest, done, total int, cause error) error {
	return errors.Errorf("batch %s interrupted after %d of %d files: %w", req.Label(), done, total, cause)
}

func reportSummary(ctx context.Context, r report.Reporter, s *Summary) {
	zerolog.Ctx(ctx).Info().
		Str("batch", s.Label).
		Str("id", s.ID.String()).
		Int("total", s.Total).
		Int("changed", s.Changed).
		Int("unchanged", s.Unchanged).
		Int("errored", s.Errored).
		Dur("duration", s.Duration()).
		Msg("batch finished")

	level := report.LevelSuccess
	if s.Errored > 0 {
		level = report.LevelWarning
	}
	r.Report(report.Entry{Level: level, Message: "done, " + s.String()})
}
