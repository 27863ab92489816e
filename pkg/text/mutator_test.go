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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/roundtrip/pkg/errkind"
)

func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background())
}

func writeArtifact(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "body.menu.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o640))
	return path
}

func TestMutateFileChanged(t *testing.T) {
	ctx := testContext(t)
	path := writeArtifact(t, `{"texture": "old_skin.tex", "alt": "old_skin_2.tex"}`)

	out, err := NewMutator().MutateFile(ctx, path, "old_skin", "new_skin")
	require.NoError(t, err)
	assert.True(t, out.Changed)
	assert.Equal(t, 2, out.Replacements)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"texture": "new_skin.tex", "alt": "new_skin_2.tex"}`, string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())
}

func TestMutateFileIsIdempotent(t *testing.T) {
	ctx := testContext(t)
	path := writeArtifact(t, "A old B")
	m := NewMutator()

	first, err := m.MutateFile(ctx, path, "old", "new")
	require.NoError(t, err)
	require.True(t, first.Changed)

	// push mtime into the past so a rewrite would be visible
	past := time.Now().Add(-time.Hour).Truncate(time.Second)
	require.NoError(t, os.Chtimes(path, past, past))

	second, err := m.MutateFile(ctx, path, "old", "new")
	require.NoError(t, err)
	assert.False(t, second.Changed)
	assert.Zero(t, second.Replacements)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(past), "unchanged file must not be rewritten")
}

func TestMutateFileNoMatchDoesNotWrite(t *testing.T) {
	ctx := testContext(t)
	path := writeArtifact(t, "nothing to see")
	past := time.Now().Add(-time.Hour).Truncate(time.Second)
	require.NoError(t, os.Chtimes(path, past, past))

	out, err := NewMutator().MutateFile(ctx, path, "absent", "x")
	require.NoError(t, err)
	assert.False(t, out.Changed)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(past))
}

func TestMutateFileErrors(t *testing.T) {
	ctx := testContext(t)

	t.Run("missing_file", func(t *testing.T) {
		_, err := NewMutator().MutateFile(ctx, filepath.Join(t.TempDir(), "gone.json"), "a", "b")
		require.Error(t, err)
		assert.ErrorIs(t, err, errkind.ErrMutation)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("directory", func(t *testing.T) {
		_, err := NewMutator().MutateFile(ctx, t.TempDir(), "a", "b")
		require.Error(t, err)
		assert.ErrorIs(t, err, errkind.ErrMutation)
		assert.Contains(t, err.Error(), "reading")
	})

	t.Run("invalid_utf8", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(path, []byte{0xff, 0xfe, 'a'}, 0o644))
		_, err := NewMutator().MutateFile(ctx, path, "a", "b")
		require.Error(t, err)
		assert.ErrorIs(t, err, errkind.ErrMutation)
	})

	t.Run("empty_search", func(t *testing.T) {
		path := writeArtifact(t, "abc")
		_, err := NewMutator().MutateFile(ctx, path, "", "b")
		assert.ErrorIs(t, err, errkind.ErrValidation)
	})

	t.Run("read_only_file", func(t *testing.T) {
		if os.Geteuid() == 0 {
			t.Skip("permission bits are not enforced for root")
		}
		path := writeArtifact(t, "old")
		require.NoError(t, os.Chmod(path, 0o444))
		_, err := NewMutator().MutateFile(ctx, path, "old", "new")
		require.Error(t, err)
		assert.ErrorIs(t, err, errkind.ErrMutation)
		assert.ErrorIs(t, err, os.ErrPermission)
	})
}
