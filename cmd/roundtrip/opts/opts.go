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

package opts

import (
	"context"
	"io"

	"github.com/rs/zerolog"
	"github.com/walteh/roundtrip/pkg/config"
	"github.com/walteh/roundtrip/pkg/converter"
	"github.com/walteh/roundtrip/pkg/errkind"
	"github.com/walteh/roundtrip/pkg/history"
	"github.com/walteh/roundtrip/pkg/operation"
	"github.com/walteh/roundtrip/pkg/report"
)

// RootOpts contains shared options used by all commands
type RootOpts struct {
	// ConfigFile is the file given with --config, or the XDG default
	ConfigFile string
	// Config is nil when no config file was found
	Config *config.Config
	// ConverterFlag overrides the converter named in the config file
	ConverterFlag string
	// HistoryPath is the history database; empty disables history
	HistoryPath string

	Console *report.Console
	Out     io.Writer
}

// ConverterPath returns the converter binary: the flag, then the config file.
func (o *RootOpts) ConverterPath() string {
	if o.ConverterFlag != "" {
		return o.ConverterFlag
	}
	if o.Config != nil {
		return o.Config.ConverterPath()
	}
	return ""
}

// RequireConfig returns the loaded config or a validation error.
func (o *RootOpts) RequireConfig() (*config.Config, error) {
	if o.Config == nil {
		return nil, errkind.Validationf("no config file found, pass --config or run `roundtrip init`")
	}
	return o.Config, nil
}

// OpenHistory opens the history store, or returns nil when it is disabled.
func (o *RootOpts) OpenHistory() (*history.Store, error) {
	if o.HistoryPath == "" {
		return nil, nil
	}
	return history.Open(o.HistoryPath)
}

// NewRunner builds a runner whose pipelines report to r. A history store
// that cannot be opened is logged and skipped. The returned func releases
// the store.
func (o *RootOpts) NewRunner(ctx context.Context, r report.Reporter) (*operation.Runner, func()) {
	runnerOpts := operation.RunnerOptions{
		RoundTrip: operation.NewRoundTrip(converter.NewExecClient(o.ConverterPath()), r),
		Rename:    operation.NewRename(r),
	}

	store, err := o.OpenHistory()
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("path", o.HistoryPath).Msg("history disabled")
	}
	if store == nil {
		return operation.NewRunner(runnerOpts), func() {}
	}

	runnerOpts.Recorder = store
	return operation.NewRunner(runnerOpts), func() {
		if err := store.Close(); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("closing history")
		}
	}
}
