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
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/walteh/roundtrip/pkg/converter"
	"github.com/walteh/roundtrip/pkg/errkind"
	"github.com/walteh/roundtrip/pkg/match"
)

// 🏷️ Kind selects the pipeline a batch runs through
type Kind string

const (
	KindReplace Kind = "replace" // Round trip through the converter and edit content
	KindRename  Kind = "rename"  // Edit file names
)

// 🎯 Purpose tells Validate how strict to be
type Purpose int

const (
	ForPreview Purpose = iota // Listing files only, the keyword may be empty
	ForRun                    // Mutating run, every parameter must be usable
)

// 📦 BatchRequest holds every parameter of one batch. It is built once per
// run and passed by value; pipelines never read live UI state.
type BatchRequest struct {
	Name               string
	Kind               Kind
	Root               string   // File or directory
	Recursive          bool     // Descend into subdirectories
	Types              []string // Extension allow-list, empty accepts all
	Pattern            string   // Wildcard on the base name, exclusive with Types
	Search             string   // Literal text to find
	Replace            string   // Literal replacement, may be empty
	DeleteIntermediate bool     // Remove the intermediate artifact after each file
	ConverterPath      string   // Converter binary, replace batches only
}

// 🏭 NewReplaceRequest returns a replace batch with the default flags set.
func NewReplaceRequest(root, search, replace string) BatchRequest {
	return BatchRequest{
		Kind:               KindReplace,
		Root:               root,
		Recursive:          true,
		Search:             search,
		Replace:            replace,
		DeleteIntermediate: true,
	}
}

// 🏭 NewRenameRequest returns a rename batch with the default flags set.
func NewRenameRequest(root, search, replace string) BatchRequest {
	return BatchRequest{
		Kind:      KindRename,
		Root:      root,
		Recursive: true,
		Pattern:   match.DefaultPattern,
		Search:    search,
		Replace:   replace,
	}
}

// WithTypes returns a copy of r with the extension allow-list set.
func (r BatchRequest) WithTypes(types ...string) BatchRequest {
	r.Types = slices.Clone(types)
	return r
}

// 🔍 Validate checks the request before any work starts. Every failure is an
// ErrValidation.
func (r BatchRequest) Validate(purpose Purpose) error {
	switch r.Kind {
	case KindReplace, KindRename:
	default:
		return errkind.Validationf("unknown batch kind %q", r.Kind)
	}

	if strings.TrimSpace(r.Root) == "" {
		return errkind.Validationf("a root file or directory is required")
	}
	if _, err := os.Stat(r.Root); err != nil {
		return errkind.Validationf("root %q: %w", r.Root, err)
	}

	if r.Kind == KindRename && len(match.NewExtensionSet(r.Types...).Extensions()) > 0 {
		return errkind.Validationf("rename batches select files by pattern, not by extension list")
	}
	if _, err := r.Matcher(); err != nil {
		return err
	}

	if purpose == ForPreview {
		return nil
	}

	if r.Search == "" {
		return errkind.Validationf("a search keyword is required")
	}
	if r.Kind == KindReplace {
		if err := converter.ValidateBinary(r.ConverterPath); err != nil {
			return err
		}
	}
	if r.Kind == KindRename && strings.ContainsAny(r.Replace, `/\`) {
		return errkind.Validationf("replacement %q would move files out of their directory", r.Replace)
	}
	return nil
}

// Matcher builds the file filter described by Types and Pattern.
func (r BatchRequest) Matcher() (match.Matcher, error) {
	if r.Kind == KindRename {
		return match.NewGlobPattern(r.Pattern)
	}
	return match.New(r.Types, r.Pattern)
}

// AbsRoot returns the cleaned absolute root.
func (r BatchRequest) AbsRoot() string {
	abs, err := filepath.Abs(r.Root)
	if err != nil {
		return filepath.Clean(r.Root)
	}
	return abs
}

// Label names the batch for log lines.
func (r BatchRequest) Label() string {
	if r.Name != "" {
		return r.Name
	}
	return string(r.Kind) + " " + r.Root
}
