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

// Package convertertest provides an in-process converter for tests.
package convertertest

import (
	"context"
	"os"
	"strings"
	"sync"

	"github.com/walteh/roundtrip/pkg/artifact"
	"github.com/walteh/roundtrip/pkg/converter"
)

// 🧪 Fake simulates the converter on the local filesystem. convert2json
// copies <path> to <path>.json and convert2mod copies <path>.json back to
// <path>, so the text of a test asset doubles as its intermediate form.
type Fake struct {
	mu    sync.Mutex
	calls []converter.Request
	// Fail maps "subcommand path" to the stderr text of a failing exit.
	Fail map[string]string
	// SpawnErr, when set, is returned for every call as a start failure.
	SpawnErr error
	// NoArtifact makes convert2json succeed without writing the artifact.
	NoArtifact bool
}

// New returns an empty Fake.
func New() *Fake {
	return &Fake{Fail: map[string]string{}}
}

// FailOn makes the given subcommand fail for path.
func (f *Fake) FailOn(subcommand, path, stderr string) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Fail[subcommand+" "+path] = stderr
	return f
}

// Calls returns the recorded requests in order.
func (f *Fake) Calls() []converter.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]converter.Request(nil), f.calls...)
}

// CallsTo returns the recorded requests for one subcommand.
func (f *Fake) CallsTo(subcommand string) []converter.Request {
	var out []converter.Request
	for _, c := range f.Calls() {
		if c.Subcommand == subcommand {
			out = append(out, c)
		}
	}
	return out
}

func (f *Fake) Invoke(ctx context.Context, req converter.Request) converter.Outcome {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	stderr, failing := f.Fail[req.Subcommand+" "+req.Path()]
	f.mu.Unlock()

	out := converter.Outcome{Request: req}
	if f.SpawnErr != nil {
		out.ExitCode = -1
		out.SpawnErr = f.SpawnErr
		return out
	}
	if failing {
		out.ExitCode = 1
		out.Stderr = stderr
		return out
	}

	var err error
	switch req.Subcommand {
	case converter.CmdConvert2JSON:
		if !f.NoArtifact {
			err = copyFile(req.Path(), artifact.Path(req.Path()))
		}
	case converter.CmdConvert2Mod:
		orig, ok := artifact.Original(req.Path())
		if !ok {
			out.ExitCode = 2
			out.Stderr = "not an intermediate file: " + req.Path()
			return out
		}
		err = copyFile(req.Path(), orig)
	}
	if err != nil {
		out.ExitCode = 1
		out.Stderr = err.Error()
		return out
	}
	out.Stdout = "ok " + strings.Join(req.Argv(), " ")
	return out
}

func copyFile(from, to string) error {
	data, err := os.ReadFile(from)
	if err != nil {
		return err
	}
	return os.WriteFile(to, data, 0o644)
}
