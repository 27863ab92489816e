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

package config

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/roundtrip/pkg/errkind"
	"gitlab.com/tozd/go/errors"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 📄 Batch is the on-disk form of one batch. Unset booleans take the defaults
// of the interactive tool: recursive and delete_intermediate are on.
type Batch struct {
	Name               string   `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty" hcl:"name,label"`
	Kind               string   `json:"kind" yaml:"kind" toml:"kind" hcl:"kind"`
	Root               string   `json:"root" yaml:"root" toml:"root" hcl:"root"`
	Recursive          *bool    `json:"recursive,omitempty" yaml:"recursive,omitempty" toml:"recursive,omitempty" hcl:"recursive,optional"`
	Types              []string `json:"types,omitempty" yaml:"types,omitempty" toml:"types,omitempty" hcl:"types,optional"`
	Pattern            string   `json:"pattern,omitempty" yaml:"pattern,omitempty" toml:"pattern,omitempty" hcl:"pattern,optional"`
	Search             string   `json:"search" yaml:"search" toml:"search" hcl:"search"`
	Replace            string   `json:"replace" yaml:"replace" toml:"replace" hcl:"replace,optional"`
	DeleteIntermediate *bool    `json:"delete_intermediate,omitempty" yaml:"delete_intermediate,omitempty" toml:"delete_intermediate,omitempty" hcl:"delete_intermediate,optional"`
}

// 📚 Config is a roundtrip configuration file
type Config struct {
	Converter string  `json:"converter,omitempty" yaml:"converter,omitempty" toml:"converter,omitempty" hcl:"converter,optional"`
	Batches   []Batch `json:"batches,omitempty" yaml:"batches,omitempty" toml:"batches,omitempty" hcl:"batch,block"`

	location string
}

// Location returns the file the config was loaded from.
func (cfg *Config) Location() string {
	return cfg.location
}

// 🎯 Load loads the configuration from a file. The format is chosen by
// extension: .yaml/.yml, .hcl, .json or .toml.
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errkind.Validationf("no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errkind.Validationf("parsing config %s: %w", path, err)
	}
	cfg.location = path

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// 🔍 Validate checks the structure of the file. Paths are resolved relative to
// the config file; whether they exist is checked per batch at run time.
func (cfg *Config) Validate() error {
	seen := map[string]bool{}
	for i, b := range cfg.Batches {
		label := b.Name
		if label == "" {
			label = "#" + strconv.Itoa(i)
		}
		switch Kind(b.Kind) {
		case KindReplace, KindRename:
		default:
			return errkind.Validationf("batch %s: kind must be %q or %q, got %q", label, KindReplace, KindRename, b.Kind)
		}
		if strings.TrimSpace(b.Root) == "" {
			return errkind.Validationf("batch %s: root is required", label)
		}
		if b.Search == "" {
			return errkind.Validationf("batch %s: search is required", label)
		}
		if b.Name != "" {
			if seen[b.Name] {
				return errkind.Validationf("batch name %q is used twice", b.Name)
			}
			seen[b.Name] = true
		}
	}
	return nil
}

// ConverterPath returns the converter named in the file, resolved against the
// file's directory.
func (cfg *Config) ConverterPath() string {
	return cfg.resolve(cfg.Converter)
}

// Requests converts every batch into a BatchRequest. converterOverride, when
// not empty, replaces the converter named in the file.
func (cfg *Config) Requests(converterOverride string) []BatchRequest {
	conv := cfg.ConverterPath()
	if converterOverride != "" {
		conv = converterOverride
	}

	out := make([]BatchRequest, 0, len(cfg.Batches))
	for _, b := range cfg.Batches {
		req := BatchRequest{
			Name:               b.Name,
			Kind:               Kind(b.Kind),
			Root:               cfg.resolve(b.Root),
			Recursive:          boolOr(b.Recursive, true),
			Types:              b.Types,
			Pattern:            b.Pattern,
			Search:             b.Search,
			Replace:            b.Replace,
			DeleteIntermediate: boolOr(b.DeleteIntermediate, true),
			ConverterPath:      conv,
		}
		if req.Kind == KindRename && req.Pattern == "" {
			req.Pattern = NewRenameRequest("", "", "").Pattern
		}
		out = append(out, req)
	}
	return out
}

// resolve makes a path relative to the config file's directory. Bare names
// such as a converter on PATH are left alone.
func (cfg *Config) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || cfg.location == "" {
		return path
	}
	if !strings.ContainsAny(path, `/\`) && !strings.HasPrefix(path, ".") {
		if _, err := os.Stat(filepath.Join(filepath.Dir(cfg.location), path)); err != nil {
			return path
		}
	}
	return filepath.Join(filepath.Dir(cfg.location), path)
}

func boolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}
