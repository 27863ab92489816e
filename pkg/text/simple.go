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

// Package text performs the literal keyword substitution applied to
// intermediate artifacts.
package text

import (
	"context"
	"io"
	"strings"

	"github.com/walteh/roundtrip/pkg/errkind"
	"gitlab.com/tozd/go/errors"
)

// 🔄 ReplacementRule is one literal substitution
type ReplacementRule struct {
	FromText string // Literal text to find, never a regular expression
	ToText   string // Replacement text, may be empty
}

// 📄 ReplacementResult is the outcome of applying rules to some content
type ReplacementResult struct {
	OriginalContent  []byte
	ModifiedContent  []byte
	WasModified      bool
	ReplacementCount int
}

// SimpleTextReplacer applies rules with strings.ReplaceAll
type SimpleTextReplacer struct{}

// NewSimpleTextReplacer creates a new SimpleTextReplacer
func NewSimpleTextReplacer() *SimpleTextReplacer {
	return &SimpleTextReplacer{}
}

// ReplaceText reads content and applies each rule in order. Occurrences are
// replaced left to right without overlap. WasModified is decided by comparing
// the final bytes with the original, so a rule that maps text onto itself
// does not count as a modification.
func (r *SimpleTextReplacer) ReplaceText(ctx context.Context, content io.Reader, rules []ReplacementRule) (*ReplacementResult, error) {
	originalContent, err := io.ReadAll(content)
	if err != nil {
		return nil, errors.Errorf("reading content: %w", err)
	}

	return r.replaceBytes(originalContent, rules), nil
}

func (r *SimpleTextReplacer) replaceBytes(originalContent []byte, rules []ReplacementRule) *ReplacementResult {
	result := &ReplacementResult{
		OriginalContent: originalContent,
		ModifiedContent: originalContent,
	}

	original := string(originalContent)
	currentContent := original
	for _, rule := range rules {
		if rule.FromText == "" {
			continue
		}
		if n := strings.Count(currentContent, rule.FromText); n > 0 {
			result.ReplacementCount += n
			currentContent = strings.ReplaceAll(currentContent, rule.FromText, rule.ToText)
		}
	}

	if currentContent != original {
		result.WasModified = true
		result.ModifiedContent = []byte(currentContent)
	}
	return result
}

// ValidateRules rejects rules that could never match
func (r *SimpleTextReplacer) ValidateRules(rules []ReplacementRule) error {
	for i, rule := range rules {
		if rule.FromText == "" {
			return errkind.Validationf("rule %d: search text is required", i)
		}
	}
	return nil
}
