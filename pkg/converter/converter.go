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

// Package converter runs the external asset converter as a child process.
//
// The converter is an opaque command-line service: it is invoked as
// `<binary> <subcommand> <path> [flags...]`, writes diagnostics to stderr and
// exits zero on success. No timeout is applied; a hung converter blocks the
// file being processed until it exits or the process context ends.
package converter

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/roundtrip/pkg/errkind"
	"gitlab.com/tozd/go/errors"
)

// 🔌 Client invokes the converter. Implementations never return a Go error:
// every failure, including a failure to start the binary, is reported in
// the Outcome so a batch can carry on.
type Client interface {
	Invoke(ctx context.Context, req Request) Outcome
}

// 📊 Outcome is the result of one converter invocation.
type Outcome struct {
	Request  Request
	ExitCode int    // -1 when the process never ran
	Stdout   string // Informational output
	Stderr   string // Diagnostics
	SpawnErr error  // Set when the binary could not be started
}

// Success reports whether the converter ran and exited zero.
func (o Outcome) Success() bool {
	return o.SpawnErr == nil && o.ExitCode == 0
}

// Diagnostic returns the most useful text for a failure report.
func (o Outcome) Diagnostic() string {
	if o.SpawnErr != nil {
		return o.SpawnErr.Error()
	}
	if s := strings.TrimSpace(o.Stderr); s != "" {
		return s
	}
	if s := strings.TrimSpace(o.Stdout); s != "" {
		return s
	}
	return "exit status " + strconv.Itoa(o.ExitCode)
}

// Err returns nil for a successful outcome and an ErrConversion otherwise.
func (o Outcome) Err() error {
	if o.Success() {
		return nil
	}
	if o.SpawnErr != nil {
		return errors.Errorf("%w: %s %s: %w", errkind.ErrConversion, o.Request.Subcommand, o.Request.Path(), o.SpawnErr)
	}
	return errors.Errorf("%w: %s %s exited %d: %s", errkind.ErrConversion, o.Request.Subcommand, o.Request.Path(), o.ExitCode, o.Diagnostic())
}

// 🏃 ExecClient runs a converter binary found on disk or on PATH.
type ExecClient struct {
	Binary string
	// Env is appended to the current environment of the child.
	Env []string
}

// 🏭 NewExecClient creates a client for binary.
func NewExecClient(binary string) *ExecClient {
	return &ExecClient{Binary: binary}
}

// Invoke runs `<Binary> <subcommand> args...` and waits for it to exit.
func (c *ExecClient) Invoke(ctx context.Context, req Request) Outcome {
	logger := zerolog.Ctx(ctx)
	out := Outcome{Request: req, ExitCode: -1}

	cmd := exec.CommandContext(ctx, c.Binary, req.Argv()...)
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.Debug().Str("binary", c.Binary).Strs("argv", req.Argv()).Msg("invoking converter")

	err := cmd.Run()
	out.Stdout = strings.ToValidUTF8(stdout.String(), "")
	out.Stderr = strings.ToValidUTF8(stderr.String(), "")

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		out.ExitCode = 0
	case errors.As(err, &exitErr):
		out.ExitCode = exitErr.ExitCode()
	default:
		out.SpawnErr = err
	}

	logger.Debug().Str("subcommand", req.Subcommand).Int("exit_code", out.ExitCode).Bool("success", out.Success()).Msg("converter finished")
	return out
}

// ValidateBinary checks that binary names an existing file, either directly
// or through PATH lookup for bare names.
func ValidateBinary(binary string) error {
	if strings.TrimSpace(binary) == "" {
		return errkind.Validationf("converter path is required")
	}
	if !strings.ContainsRune(binary, os.PathSeparator) && !strings.ContainsRune(binary, '/') {
		if _, err := exec.LookPath(binary); err != nil {
			return errkind.Validationf("converter %q not found: %w", binary, err)
		}
		return nil
	}
	info, err := os.Stat(binary)
	if err != nil {
		return errkind.Validationf("converter %q: %w", binary, err)
	}
	if info.IsDir() {
		return errkind.Validationf("converter %q is a directory", binary)
	}
	return nil
}
