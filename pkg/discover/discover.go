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

// Package discover walks a batch root and yields the files a matcher accepts.
package discover

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/walteh/roundtrip/pkg/artifact"
	"github.com/walteh/roundtrip/pkg/errkind"
	"github.com/walteh/roundtrip/pkg/match"
	"gitlab.com/tozd/go/errors"
)

// 📄 File is one discovered batch input.
type File struct {
	Path string // Absolute path
	Ext  string // Extension without the leading dot
}

// Name returns the base name of the file.
func (f File) Name() string {
	return filepath.Base(f.Path)
}

// 🔧 Options controls a discovery pass
type Options struct {
	Root      string        // File or directory to scan
	Recursive bool          // Descend into subdirectories
	Matcher   match.Matcher // Filter for directory entries; nil accepts all but artifacts
	// OnWarning is called for every entry skipped because it could not be read.
	OnWarning func(path string, err error)
}

// 🔍 Discover scans opts.Root and returns the accepted files in lexical walk
// order. A single-file root is returned as is (unless it is an intermediate
// artifact) without consulting the matcher. Unreadable entries below the root
// are skipped with a warning; only a missing or unreadable root fails.
func Discover(ctx context.Context, opts Options) ([]File, error) {
	logger := zerolog.Ctx(ctx)

	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, errkind.Validationf("resolving root %q: %w", opts.Root, err)
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, errkind.Validationf("root %q: %w", opts.Root, err)
	}

	if !info.IsDir() {
		if artifact.IsIntermediate(root) {
			logger.Debug().Str("path", root).Msg("root is an intermediate artifact, nothing to do")
			return nil, nil
		}
		return []File{newFile(root)}, nil
	}

	matcher := opts.Matcher
	if matcher == nil {
		matcher = match.NewExtensionSet()
	}

	warn := func(path string, err error) {
		werr := errors.Errorf("%w: %s: %w", errkind.ErrDiscovery, path, err)
		logger.Warn().Str("path", path).Err(err).Msg("skipping unreadable entry")
		if opts.OnWarning != nil {
			opts.OnWarning(path, werr)
		}
	}

	// a root that is itself a link is walked through its target, while the
	// files found keep paths under the root as given
	walkRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		return nil, errkind.Validationf("resolving root %q: %w", opts.Root, err)
	}
	display := func(path string) string {
		if walkRoot == root {
			return path
		}
		rel, err := filepath.Rel(walkRoot, path)
		if err != nil {
			return path
		}
		return filepath.Join(root, rel)
	}

	var files []File
	err = filepath.WalkDir(walkRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == walkRoot {
				return err
			}
			warn(display(path), err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path != walkRoot && !opts.Recursive {
				return filepath.SkipDir
			}
			return nil
		}

		switch {
		case d.Type()&fs.ModeSymlink != 0:
			// file links are taken at face value, directory links are never followed
			target, err := os.Stat(path)
			if err != nil {
				warn(display(path), err)
				return nil
			}
			if !target.Mode().IsRegular() {
				return nil
			}
		case !d.Type().IsRegular():
			return nil
		}

		if matcher.Accepts(d.Name()) {
			files = append(files, newFile(display(path)))
		}
		return nil
	})
	if err != nil {
		return nil, errkind.Validationf("scanning root %q: %w", opts.Root, err)
	}

	logger.Debug().Str("root", root).Str("criteria", matcher.String()).Int("files", len(files)).Msg("discovery complete")
	return files, nil
}

func newFile(path string) File {
	return File{Path: path, Ext: artifact.ExtOf(path)}
}

// Paths returns the paths of files in order.
func Paths(files []File) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Path
	}
	return out
}
