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

/*
Package report carries human-readable progress lines from a batch worker to
whatever surface displays them.

	+-------------+       Entry        +-------------+
	|   Worker    | -----------------> |  Reporter   |
	| (operation) |                    | (UI / CLI)  |
	+-------------+                    +-------------+

A batch writes to exactly one Reporter from a single goroutine. Every
implementation here is safe to read from another goroutine while the batch is
writing, so a display can poll (Recorder) or subscribe (Stream).
*/
package report

import (
	"fmt"
)

// 🎚️ Level classifies an entry for display
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelWarning
	LevelError
	LevelDetail // Verbatim converter output
)

// String returns a string representation of Level
func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelSuccess:
		return "success"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	case LevelDetail:
		return "detail"
	default:
		return "unknown"
	}
}

// 📝 Entry is one line of batch output
type Entry struct {
	Level   Level
	Path    string // File the line is about, empty for batch-level lines
	Message string
}

// String renders the entry as a plain line.
func (e Entry) String() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Message, e.Path)
}

// 📢 Reporter receives batch output one line at a time
type Reporter interface {
	Report(e Entry)
}

// Func adapts a plain function to Reporter.
type Func func(e Entry)

func (f Func) Report(e Entry) { f(e) }

// Discard drops every entry.
var Discard Reporter = Func(func(Entry) {})

// Multi fans every entry out to each reporter in order.
func Multi(reporters ...Reporter) Reporter {
	return Func(func(e Entry) {
		for _, r := range reporters {
			r.Report(e)
		}
	})
}

func Infof(r Reporter, format string, args ...any) {
	r.Report(Entry{Level: LevelInfo, Message: fmt.Sprintf(format, args...)})
}

func Successf(r Reporter, format string, args ...any) {
	r.Report(Entry{Level: LevelSuccess, Message: fmt.Sprintf(format, args...)})
}

func Warningf(r Reporter, format string, args ...any) {
	r.Report(Entry{Level: LevelWarning, Message: fmt.Sprintf(format, args...)})
}

func Errorf(r Reporter, format string, args ...any) {
	r.Report(Entry{Level: LevelError, Message: fmt.Sprintf(format, args...)})
}

// File reports a line about a single file.
func File(r Reporter, level Level, path, format string, args ...any) {
	r.Report(Entry{Level: level, Path: path, Message: fmt.Sprintf(format, args...)})
}
