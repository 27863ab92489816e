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

// Package history keeps the summaries of finished batches in SQLite.
//
// Every batch that ran, including the ones with failed files, is written
// with its per-file outcomes so a run can be audited after the console
// output is gone.
package history

import (
	"context"
	"database/sql"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/walteh/roundtrip/pkg/config"
	"github.com/walteh/roundtrip/pkg/history/migrations"
	"github.com/walteh/roundtrip/pkg/operation"
	"gitlab.com/tozd/go/errors"

	_ "modernc.org/sqlite" // SQLite driver
)

// 📇 Batch is one recorded batch
type Batch struct {
	ID        uuid.UUID
	Kind      string
	Label     string
	Root      string
	Total     int
	Changed   int
	Unchanged int
	Errored   int
	Started   time.Time
	Finished  time.Time
}

// 📄 File is the recorded outcome of one file of a batch
type File struct {
	Path     string
	To       string
	Outcome  string
	State    string
	Error    string
	Warnings []string
}

// 🗄️ Store is the SQLite history database
type Store struct {
	db   *sql.DB
	path string
}

var _ operation.Recorder = (*Store)(nil)

// DefaultPath returns the history database under the XDG data directory,
// creating its parent directory.
func DefaultPath() (string, error) {
	path, err := xdg.DataFile(filepath.Join(config.AppName, "history.db"))
	if err != nil {
		return "", errors.Errorf("locating history database: %w", err)
	}
	return path, nil
}

// 🏗️ Open opens or creates the database at path and applies the schema.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, errors.Errorf("creating history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, errors.Errorf("opening history database: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db, path: path}
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, errors.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) migrate(fsys fs.FS) error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (version INTEGER PRIMARY KEY)`); err != nil {
		return errors.Errorf("creating schema_migrations table: %w", err)
	}

	var current int
	if err := s.db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&current); err != nil {
		return errors.Errorf("reading schema version: %w", err)
	}

	names, err := fs.Glob(fsys, "*.up.sql")
	if err != nil {
		return errors.Errorf("listing migrations: %w", err)
	}
	sort.Strings(names)

	for _, name := range names {
		version, err := strconv.Atoi(strings.SplitN(name, "_", 2)[0])
		if err != nil || version <= current {
			continue
		}
		body, err := fs.ReadFile(fsys, name)
		if err != nil {
			return errors.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(body)); err != nil {
			return errors.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(`INSERT INTO schema_migrations (version) VALUES (?)`, version); err != nil {
			return errors.Errorf("recording migration %s: %w", name, err)
		}
	}
	return nil
}

// 📝 Record writes a finished batch and its per-file results.
func (s *Store) Record(ctx context.Context, sum *operation.Summary) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Errorf("starting transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO batches (id, kind, label, root, total, changed, unchanged, errored, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, sum.ID.String(), string(sum.Kind), sum.Label, sum.Root,
		sum.Total, sum.Changed, sum.Unchanged, sum.Errored,
		sum.Started.UnixNano(), sum.Finished.UnixNano())
	if err != nil {
		return errors.Errorf("saving batch %s: %w", sum.ID, err)
	}

	for i, r := range sum.Results {
		var state, msg string
		if sum.Kind != config.KindRename {
			state = r.State.String()
		}
		if r.Err != nil {
			msg = r.Err.Error()
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO batch_files (batch_id, seq, path, moved_to, outcome, state, error, warnings)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, sum.ID.String(), i, r.Path, r.To, string(r.Outcome), state, msg, strings.Join(r.Warnings, "\n"))
		if err != nil {
			return errors.Errorf("saving result for %s: %w", r.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Errorf("committing batch %s: %w", sum.ID, err)
	}

	zerolog.Ctx(ctx).Debug().Str("id", sum.ID.String()).Int("files", len(sum.Results)).Msg("recorded batch")
	return nil
}

// 📋 List returns the most recent batches, newest first. A limit of zero or
// less returns every batch.
func (s *Store) List(ctx context.Context, limit int) ([]Batch, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, label, root, total, changed, unchanged, errored, started_at, finished_at
		FROM batches
		ORDER BY started_at DESC, id
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, errors.Errorf("listing batches: %w", err)
	}
	defer rows.Close()

	var out []Batch
	for rows.Next() {
		var (
			b                 Batch
			id                string
			started, finished int64
		)
		if err := rows.Scan(&id, &b.Kind, &b.Label, &b.Root, &b.Total, &b.Changed, &b.Unchanged, &b.Errored, &started, &finished); err != nil {
			return nil, errors.Errorf("scanning batch: %w", err)
		}
		if b.ID, err = uuid.Parse(id); err != nil {
			return nil, errors.Errorf("parsing batch id %q: %w", id, err)
		}
		b.Started = time.Unix(0, started)
		b.Finished = time.Unix(0, finished)
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Errorf("iterating batches: %w", err)
	}
	return out, nil
}

// 🔍 Files returns the recorded per-file results of a batch in processing
// order.
func (s *Store) Files(ctx context.Context, id uuid.UUID) ([]File, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT path, moved_to, outcome, state, error, warnings
		FROM batch_files
		WHERE batch_id = ?
		ORDER BY seq
	`, id.String())
	if err != nil {
		return nil, errors.Errorf("listing files of batch %s: %w", id, err)
	}
	defer rows.Close()

	var out []File
	for rows.Next() {
		var (
			f        File
			warnings string
		)
		if err := rows.Scan(&f.Path, &f.To, &f.Outcome, &f.State, &f.Error, &warnings); err != nil {
			return nil, errors.Errorf("scanning file: %w", err)
		}
		if warnings != "" {
			f.Warnings = strings.Split(warnings, "\n")
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Errorf("iterating files: %w", err)
	}
	return out, nil
}

// Find resolves a batch from a full id or a unique id prefix.
func (s *Store) Find(ctx context.Context, prefix string) (*Batch, error) {
	batches, err := s.List(ctx, 0)
	if err != nil {
		return nil, err
	}
	var found *Batch
	for i := range batches {
		if strings.HasPrefix(batches[i].ID.String(), prefix) {
			if found != nil {
				return nil, errors.Errorf("batch id prefix %q is ambiguous", prefix)
			}
			found = &batches[i]
		}
	}
	if found == nil {
		return nil, errors.Errorf("no batch with id %q", prefix)
	}
	return found, nil
}
