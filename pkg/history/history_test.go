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

package history

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/roundtrip/pkg/config"
	"github.com/walteh/roundtrip/pkg/errkind"
	"github.com/walteh/roundtrip/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

func setupTestStore(t *testing.T) (context.Context, *Store) {
	t.Helper()
	logger := zerolog.New(zerolog.NewTestWriter(t))
	ctx := logger.WithContext(context.Background())

	store, err := Open(filepath.Join(t.TempDir(), "nested", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, store.Close()) })
	return ctx, store
}

func testSummary(kind config.Kind, started time.Time) *operation.Summary {
	return &operation.Summary{
		ID:        uuid.New(),
		Kind:      kind,
		Label:     string(kind) + " /mods",
		Root:      "/mods",
		Total:     3,
		Changed:   1,
		Unchanged: 1,
		Errored:   1,
		Results: []operation.FileResult{
			{Path: "/mods/a.menu", State: operation.StateDone, Outcome: operation.OutcomeModified},
			{Path: "/mods/b.menu", State: operation.StateNoMatch, Outcome: operation.OutcomeUnmatched, Warnings: []string{"w1", "w2"}},
			{Path: "/mods/c.menu", State: operation.StateConvertFailed, Outcome: operation.OutcomeErrored,
				Err: errors.Errorf("%w: convert2json exited 1", errkind.ErrConversion)},
		},
		Started:  started,
		Finished: started.Add(2 * time.Second),
	}
}

func TestRecordAndList(t *testing.T) {
	ctx, store := setupTestStore(t)
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	older := testSummary(config.KindReplace, base)
	newer := testSummary(config.KindRename, base.Add(time.Hour))
	require.NoError(t, store.Record(ctx, older))
	require.NoError(t, store.Record(ctx, newer))

	batches, err := store.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, batches, 2)
	assert.Equal(t, newer.ID, batches[0].ID)
	assert.Equal(t, older.ID, batches[1].ID)

	b := batches[1]
	assert.Equal(t, "replace", b.Kind)
	assert.Equal(t, "replace /mods", b.Label)
	assert.Equal(t, 3, b.Total)
	assert.Equal(t, 1, b.Errored)
	assert.True(t, base.Equal(b.Started))
	assert.Equal(t, 2*time.Second, b.Finished.Sub(b.Started))

	limited, err := store.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestFiles(t *testing.T) {
	ctx, store := setupTestStore(t)
	sum := testSummary(config.KindReplace, time.Now())
	require.NoError(t, store.Record(ctx, sum))

	files, err := store.Files(ctx, sum.ID)
	require.NoError(t, err)
	require.Len(t, files, 3)

	assert.Equal(t, "/mods/a.menu", files[0].Path)
	assert.Equal(t, "DONE", files[0].State)
	assert.Equal(t, []string{"w1", "w2"}, files[1].Warnings)
	assert.Equal(t, "errored", files[2].Outcome)
	assert.Contains(t, files[2].Error, "convert2json exited 1")
}

func TestRenameFilesHaveNoState(t *testing.T) {
	ctx, store := setupTestStore(t)
	sum := &operation.Summary{
		ID: uuid.New(), Kind: config.KindRename, Label: "r", Root: "/m", Total: 1, Changed: 1,
		Results:  []operation.FileResult{{Path: "/m/old.menu", To: "/m/new.menu", Outcome: operation.OutcomeRenamed}},
		Started:  time.Now(),
		Finished: time.Now(),
	}
	require.NoError(t, store.Record(ctx, sum))

	files, err := store.Files(ctx, sum.ID)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Empty(t, files[0].State)
	assert.Equal(t, "/m/new.menu", files[0].To)
}

func TestRecordDuplicateIDFails(t *testing.T) {
	ctx, store := setupTestStore(t)
	sum := testSummary(config.KindReplace, time.Now())
	require.NoError(t, store.Record(ctx, sum))
	require.Error(t, store.Record(ctx, sum))

	files, err := store.Files(ctx, sum.ID)
	require.NoError(t, err)
	assert.Len(t, files, 3, "the failed insert is rolled back")
}

func TestRecordConcurrently(t *testing.T) {
	ctx, store := setupTestStore(t)

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, store.Record(ctx, testSummary(config.KindReplace, time.Now().Add(time.Duration(i)*time.Second))))
		}()
	}
	wg.Wait()

	batches, err := store.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, batches, 8)
}

func TestFind(t *testing.T) {
	ctx, store := setupTestStore(t)
	sum := testSummary(config.KindReplace, time.Now())
	require.NoError(t, store.Record(ctx, sum))

	b, err := store.Find(ctx, sum.ID.String()[:8])
	require.NoError(t, err)
	assert.Equal(t, sum.ID, b.ID)

	_, err = store.Find(ctx, "zzzz")
	require.Error(t, err)
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	ctx := context.Background()

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Record(ctx, testSummary(config.KindReplace, time.Now())))
	require.NoError(t, store.Close())

	store, err = Open(path)
	require.NoError(t, err)
	defer store.Close()

	batches, err := store.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, batches, 1)
}

func TestRunnerRecordsIntoStore(t *testing.T) {
	ctx, store := setupTestStore(t)
	root := t.TempDir()

	runner := operation.NewRunner(operation.RunnerOptions{
		Rename:   operation.NewRename(nil),
		Recorder: store,
	})
	summary, err := runner.Run(ctx, config.NewRenameRequest(root, "old", "new"))
	require.NoError(t, err)

	batches, err := store.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, batches, 1)
	assert.Equal(t, summary.ID, batches[0].ID)
	assert.Zero(t, batches[0].Total)
}
