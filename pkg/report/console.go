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

package report

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

// 🎨 Display configuration
const (
	detailIndent = 4 // spaces to indent converter output
)

// 🎯 Console prints entries with a symbol and colour and mirrors them to
// zerolog
type Console struct {
	zlog    zerolog.Logger
	console io.Writer
	mu      sync.Mutex
}

// 🏭 NewConsole creates a console reporter. zlog receives a structured copy
// of every entry.
func NewConsole(console io.Writer, zlog zerolog.Logger) *Console {
	return &Console{
		zlog:    zlog,
		console: console,
	}
}

// 📝 format renders an entry for the terminal
func (c *Console) format(e Entry) string {
	var symbol string
	var attr color.Attribute
	switch e.Level {
	case LevelSuccess:
		symbol, attr = "✅", color.FgGreen
	case LevelWarning:
		symbol, attr = "⚠️ ", color.FgYellow
	case LevelError:
		symbol, attr = "❌", color.FgRed
	case LevelDetail:
		pad := strings.Repeat(" ", detailIndent)
		lines := strings.Split(strings.TrimRight(e.Message, "\n"), "\n")
		return pad + color.New(color.Faint).Sprint(strings.Join(lines, "\n"+pad))
	default:
		symbol, attr = "ℹ️ ", color.FgCyan
	}

	line := fmt.Sprintf("%s %s", symbol, color.New(attr).Sprint(e.Message))
	if e.Path != "" {
		line += ": " + color.New(color.Bold).Sprint(e.Path)
	}
	return line
}

// 📝 Report prints e and logs it
func (c *Console) Report(e Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	fmt.Fprintln(c.console, c.format(e))

	var ev *zerolog.Event
	switch e.Level {
	case LevelWarning:
		ev = c.zlog.Warn()
	case LevelError:
		ev = c.zlog.Error()
	case LevelDetail:
		ev = c.zlog.Debug()
	default:
		ev = c.zlog.Info()
	}
	if e.Path != "" {
		ev = ev.Str("file", e.Path)
	}
	ev.Msg(e.Message)
}

// 📝 Header prints a section header
func (c *Console) Header(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("roundtrip")
	fmt.Fprintf(c.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	c.zlog.Info().Msg(msg)
}

// 📝 Newline prints an empty line
func (c *Console) Newline() {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.console)
}
