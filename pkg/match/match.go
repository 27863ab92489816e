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

// Package match decides whether a candidate file belongs to a batch.
package match

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/walteh/roundtrip/pkg/artifact"
	"github.com/walteh/roundtrip/pkg/errkind"
)

// DefaultPattern is used when a glob matcher is built from an empty pattern.
const DefaultPattern = "*.*"

// 🎯 Matcher accepts or rejects a file by name
type Matcher interface {
	// Accepts reports whether the file named name belongs to the batch.
	// Only the base name of name is considered.
	Accepts(name string) bool
	// String describes the criteria for log lines.
	String() string
}

// 📦 ExtensionSet accepts files whose extension is in the set.
// An empty set accepts every extension.
type ExtensionSet struct {
	exts map[string]struct{}
}

// 🏭 NewExtensionSet builds an allow-list from extensions given with or
// without a leading dot. Blank entries are ignored.
func NewExtensionSet(exts ...string) *ExtensionSet {
	set := &ExtensionSet{exts: make(map[string]struct{}, len(exts))}
	for _, e := range exts {
		e = strings.TrimPrefix(strings.TrimSpace(e), ".")
		if e == "" {
			continue
		}
		set.exts[e] = struct{}{}
	}
	return set
}

// ParseExtensionList parses the comma-separated form ("menu, mate,tex").
func ParseExtensionList(list string) []string {
	var out []string
	for _, part := range strings.Split(list, ",") {
		part = strings.TrimPrefix(strings.TrimSpace(part), ".")
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (s *ExtensionSet) Accepts(name string) bool {
	ext := artifact.ExtOf(filepath.Base(name))
	if ext == artifact.Ext {
		return false
	}
	if len(s.exts) == 0 {
		return true
	}
	_, ok := s.exts[ext]
	return ok
}

// Extensions returns the allow-list in sorted order.
func (s *ExtensionSet) Extensions() []string {
	out := make([]string, 0, len(s.exts))
	for e := range s.exts {
		out = append(out, e)
	}
	slices.Sort(out)
	return out
}

func (s *ExtensionSet) String() string {
	if len(s.exts) == 0 {
		return "all extensions"
	}
	return "extensions " + strings.Join(s.Extensions(), ",")
}

// 🔍 GlobPattern accepts files whose base name matches a shell-style glob.
// Matching is case-sensitive on every platform.
type GlobPattern struct {
	pattern string
}

// 🏭 NewGlobPattern validates pattern and builds a matcher for it. An empty
// pattern becomes DefaultPattern.
func NewGlobPattern(pattern string) (*GlobPattern, error) {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		pattern = DefaultPattern
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, errkind.Validationf("invalid file pattern %q", pattern)
	}
	return &GlobPattern{pattern: pattern}, nil
}

func (g *GlobPattern) Accepts(name string) bool {
	base := filepath.Base(name)
	if artifact.IsIntermediate(base) {
		return false
	}
	matched, err := doublestar.Match(g.pattern, base)
	if err != nil {
		// the pattern was validated on construction
		return false
	}
	return matched
}

// Pattern returns the effective glob.
func (g *GlobPattern) Pattern() string {
	return g.pattern
}

func (g *GlobPattern) String() string {
	return "pattern " + g.pattern
}

// 🎯 New builds the matcher for a batch. A non-empty pattern selects a
// GlobPattern; otherwise the extension list is used. Setting both is invalid.
func New(exts []string, pattern string) (Matcher, error) {
	if strings.TrimSpace(pattern) != "" && len(NewExtensionSet(exts...).exts) > 0 {
		return nil, errkind.Validationf("an extension list and a file pattern cannot both be set")
	}
	if strings.TrimSpace(pattern) != "" {
		return NewGlobPattern(pattern)
	}
	return NewExtensionSet(exts...), nil
}
