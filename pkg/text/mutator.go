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

package text

import (
	"context"
	"io"
	"os"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/walteh/roundtrip/pkg/errkind"
	"gitlab.com/tozd/go/errors"
)

// 📊 MutationOutcome reports what MutateFile did
type MutationOutcome struct {
	Changed      bool // The file was rewritten
	Replacements int  // Occurrences of the search text that were replaced
}

// ✏️ Mutator edits intermediate artifacts in place
type Mutator struct {
	replacer *SimpleTextReplacer
}

// 🏭 NewMutator creates a new Mutator
func NewMutator() *Mutator {
	return &Mutator{replacer: NewSimpleTextReplacer()}
}

// MutateFile replaces every occurrence of search with replace in the file at
// path. The file is written only when its content changes, and keeps its
// permissions. Content that is not valid UTF-8 is refused.
func (m *Mutator) MutateFile(ctx context.Context, path, search, replace string) (MutationOutcome, error) {
	logger := zerolog.Ctx(ctx)

	rules := []ReplacementRule{{FromText: search, ToText: replace}}
	if err := m.replacer.ValidateRules(rules); err != nil {
		return MutationOutcome{}, err
	}

	info, content, err := readFile(path)
	if err != nil {
		return MutationOutcome{}, err
	}
	if !utf8.Valid(content) {
		return MutationOutcome{}, errors.Errorf("%w: %s is not valid UTF-8 text", errkind.ErrMutation, path)
	}

	result := m.replacer.replaceBytes(content, rules)
	if !result.WasModified {
		logger.Debug().Str("path", path).Msg("no occurrences, leaving file untouched")
		return MutationOutcome{}, nil
	}

	if err := os.WriteFile(path, result.ModifiedContent, info.Mode().Perm()); err != nil {
		return MutationOutcome{}, errors.Errorf("%w: writing %s: %w", errkind.ErrMutation, path, err)
	}

	logger.Debug().Str("path", path).Int("replacements", result.ReplacementCount).Msg("intermediate content rewritten")
	return MutationOutcome{Changed: true, Replacements: result.ReplacementCount}, nil
}

func readFile(path string) (os.FileInfo, []byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Errorf("%w: opening %s: %w", errkind.ErrMutation, path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, nil, errors.Errorf("%w: stat %s: %w", errkind.ErrMutation, path, err)
	}

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, nil, errors.Errorf("%w: reading %s: %w", errkind.ErrMutation, path, err)
	}
	return info, content, nil
}
