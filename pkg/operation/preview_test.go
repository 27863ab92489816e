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

package operation

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/roundtrip/pkg/config"
	"github.com/walteh/roundtrip/pkg/discover"
	"github.com/walteh/roundtrip/pkg/errkind"
	"github.com/walteh/roundtrip/pkg/report"
)

func TestPreviewReplaceAllowsEmptySearch(t *testing.T) {
	ctx := testContext(t)
	root := writeTree(t, map[string]string{"a.menu": "x", "b.mate": "y", "c.tex": "z", "a.menu.json": "{}"})
	rec := report.NewRecorder()

	req := config.NewReplaceRequest(root, "", "").WithTypes("menu", "mate")
	res, err := Preview(ctx, req, rec)
	require.NoError(t, err)

	assert.Equal(t, []string{filepath.Join(root, "a.menu"), filepath.Join(root, "b.mate")}, discover.Paths(res.Files))
	assert.Empty(t, res.Renames)

	var details int
	for _, e := range rec.Entries() {
		if e.Level == report.LevelDetail {
			details++
		}
	}
	assert.Equal(t, 2, details)
}

func TestPreviewRenameListsPlans(t *testing.T) {
	ctx := testContext(t)
	root := writeTree(t, map[string]string{"old_a.menu": "x", "b.menu": "y", "old.json": "z"})

	req := config.NewRenameRequest(root, "old", "new")
	res, err := Preview(ctx, req, nil)
	require.NoError(t, err)

	assert.Len(t, res.Files, 2, "intermediate files are never listed")
	require.Len(t, res.Renames, 1)
	assert.Equal(t, filepath.Join(root, "new_a.menu"), res.Renames[0].To)
	assert.FileExists(t, filepath.Join(root, "old_a.menu"), "preview never renames")
}

func TestPreviewRenameFlagsInvalidNames(t *testing.T) {
	ctx := testContext(t)
	root := writeTree(t, map[string]string{"old.menu": "x"})

	res, err := Preview(ctx, config.NewRenameRequest(root, "old.menu", ""), nil)
	require.NoError(t, err)
	assert.Empty(t, res.Renames)
	require.Len(t, res.Invalid, 1)
	assert.ErrorIs(t, res.Invalid[0].Err, errkind.ErrRename)
}

func TestPreviewRejectsInvalidRequests(t *testing.T) {
	ctx := testContext(t)
	_, err := Preview(ctx, config.NewRenameRequest(filepath.Join(t.TempDir(), "missing"), "", ""), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, errkind.ErrValidation)
}
