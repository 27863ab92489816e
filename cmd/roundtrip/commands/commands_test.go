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

package commands

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/roundtrip/cmd/roundtrip/opts"
	"github.com/walteh/roundtrip/pkg/config"
	"github.com/walteh/roundtrip/pkg/converter"
	"github.com/walteh/roundtrip/pkg/errkind"
	"github.com/walteh/roundtrip/pkg/report"
)

const fakeConverterEnv = "ROUNDTRIP_FAKE_CONVERTER"

// TestMain lets the test binary stand in for the converter.
func TestMain(m *testing.M) {
	if os.Getenv(fakeConverterEnv) == "1" {
		os.Exit(fakeConverter(os.Args[1:]))
	}
	os.Exit(m.Run())
}

// fakeConverter copies files to and from <file>.json. Assets starting with
// BROKEN fail to convert, assets starting with SLOW fail after a delay.
func fakeConverter(args []string) int {
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: converter <subcommand> <path>")
		return 64
	}
	sub, path := args[0], args[1]
	switch sub {
	case converter.CmdConvert2JSON:
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		if bytes.HasPrefix(data, []byte("SLOW")) {
			time.Sleep(200 * time.Millisecond)
			fmt.Fprintln(os.Stderr, "slow asset")
			return 1
		}
		if bytes.HasPrefix(data, []byte("BROKEN")) {
			fmt.Fprintln(os.Stderr, "broken asset")
			return 1
		}
		if err := os.WriteFile(path+".json", data, 0o644); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	case converter.CmdConvert2Mod:
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		if err := os.WriteFile(strings.TrimSuffix(path, ".json"), data, 0o644); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	case converter.CmdDetermine:
		fmt.Println("type: menu " + strings.Join(args[2:], " "))
		return 0
	default:
		fmt.Fprintf(os.Stderr, "unsupported subcommand %s\n", sub)
		return 3
	}
}

func testOpts(t *testing.T) (*opts.RootOpts, *bytes.Buffer) {
	t.Helper()
	color.NoColor = true
	pterm.DisableColor()
	t.Setenv(fakeConverterEnv, "1")

	exe, err := os.Executable()
	require.NoError(t, err)

	out := &bytes.Buffer{}
	return &opts.RootOpts{
		ConverterFlag: exe,
		HistoryPath:   filepath.Join(t.TempDir(), "history.db"),
		Console:       report.NewConsole(out, zerolog.Nop()),
		Out:           out,
	}, out
}

func execute(t *testing.T, cmd *cobra.Command, args ...string) error {
	t.Helper()
	logger := zerolog.New(zerolog.NewTestWriter(t))
	cmd.SetArgs(args)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	return cmd.ExecuteContext(logger.WithContext(context.Background()))
}

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestReplaceCommand(t *testing.T) {
	o, out := testOpts(t)
	root := writeTree(t, map[string]string{"a.menu": "old_skin", "b.menu": "other", "c.tex": "old_skin"})

	err := execute(t, NewReplaceCmd(o), root, "-s", "old_skin", "-r", "new_skin", "-t", "menu")
	require.NoError(t, err)

	assert.Equal(t, "new_skin", readFile(t, filepath.Join(root, "a.menu")))
	assert.Equal(t, "old_skin", readFile(t, filepath.Join(root, "c.tex")))
	assert.NoFileExists(t, filepath.Join(root, "a.menu.json"))
	assert.NoFileExists(t, filepath.Join(root, "b.menu.json"))
	assert.Contains(t, out.String(), "done, 2 files: 1 modified, 1 unmatched, 0 errored")

	store, err := o.OpenHistory()
	require.NoError(t, err)
	defer store.Close()
	batches, err := store.List(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, batches, 1)
	assert.Equal(t, 1, batches[0].Changed)
}

func TestReplaceCommandKeepIntermediate(t *testing.T) {
	o, _ := testOpts(t)
	root := writeTree(t, map[string]string{"a.menu": "old"})

	require.NoError(t, execute(t, NewReplaceCmd(o), root, "-s", "old", "-r", "new", "--keep-intermediate"))
	assert.Equal(t, "new", readFile(t, filepath.Join(root, "a.menu.json")))
}

func TestReplaceCommandReportsFailures(t *testing.T) {
	o, out := testOpts(t)
	root := writeTree(t, map[string]string{"a.menu": "BROKEN old", "b.menu": "old"})

	err := execute(t, NewReplaceCmd(o), root, "-s", "old", "-r", "new")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 files failed")

	assert.Equal(t, "new", readFile(t, filepath.Join(root, "b.menu")), "the batch continues past a failure")
	assert.Contains(t, out.String(), "broken asset")
}

func TestRunBatchesCancelledMidBatch(t *testing.T) {
	o, out := testOpts(t)
	files := map[string]string{}
	for i := range 30 {
		files[fmt.Sprintf("asset_%02d.menu", i)] = "SLOW old"
	}
	root := writeTree(t, files)

	logger := zerolog.New(zerolog.NewTestWriter(t))
	ctx, cancel := context.WithCancel(logger.WithContext(context.Background()))
	defer cancel()
	time.AfterFunc(300*time.Millisecond, cancel)

	reqs := []config.BatchRequest{config.NewReplaceRequest(root, "old", "new")}

	var err error
	require.NotPanics(t, func() {
		_, err = runBatches(ctx, o, reqs)
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, strings.Count(out.String(), "/30] converting"), 30, "the batch stops between files")

	// the history store was released only after the workers exited
	store, err := o.OpenHistory()
	require.NoError(t, err)
	require.NoError(t, store.Close())
}

func TestReplaceCommandNeedsSearch(t *testing.T) {
	o, _ := testOpts(t)
	err := execute(t, NewReplaceCmd(o), t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "search")
}

func TestRenameCommand(t *testing.T) {
	o, out := testOpts(t)
	root := writeTree(t, map[string]string{"old_file.menu": "x", "keep.menu": "y"})

	require.NoError(t, execute(t, NewRenameCmd(o), root, "-s", "old", "-r", "new"))

	assert.FileExists(t, filepath.Join(root, "new_file.menu"))
	assert.NoFileExists(t, filepath.Join(root, "old_file.menu"))
	assert.Contains(t, out.String(), "1 renamed, 1 skipped, 0 errored")
}

func TestRenameCommandDryRun(t *testing.T) {
	o, out := testOpts(t)
	root := writeTree(t, map[string]string{"old_file.menu": "x"})

	require.NoError(t, execute(t, NewRenameCmd(o), root, "-s", "old", "-r", "new", "--dry-run"))

	assert.FileExists(t, filepath.Join(root, "old_file.menu"))
	assert.Contains(t, out.String(), "new_file.menu")
}

func TestPreviewCommand(t *testing.T) {
	o, out := testOpts(t)
	root := writeTree(t, map[string]string{"a.menu": "x", "b.mate": "y", "a.menu.json": "{}"})

	require.NoError(t, execute(t, NewPreviewCmd(o), root, "-t", "menu,mate"))
	assert.Contains(t, out.String(), "found 2 files")
	assert.NotContains(t, out.String(), "a.menu.json")

	err := execute(t, NewPreviewCmd(o), root, "--kind", "copy")
	require.Error(t, err)
	assert.ErrorIs(t, err, errkind.ErrValidation)
}

func TestConvertCommand(t *testing.T) {
	o, out := testOpts(t)
	root := writeTree(t, map[string]string{"a.menu": "x"})
	path := filepath.Join(root, "a.menu")

	require.NoError(t, execute(t, NewConvertCmd(o), converter.CmdDetermine, path, "--strict"))
	assert.Contains(t, out.String(), "type: menu --strict")

	require.NoError(t, execute(t, NewConvertCmd(o), converter.CmdConvert2JSON, path))
	assert.FileExists(t, path+".json")

	err := execute(t, NewConvertCmd(o), converter.CmdConvert2CSV, path)
	require.Error(t, err)
	assert.ErrorIs(t, err, errkind.ErrConversion)

	err = execute(t, NewConvertCmd(o), "explode", path)
	require.Error(t, err)
	assert.ErrorIs(t, err, errkind.ErrValidation)
}

func TestConvertCommandNeedsConverter(t *testing.T) {
	o, _ := testOpts(t)
	o.ConverterFlag = ""

	err := execute(t, NewConvertCmd(o), converter.CmdDetermine, "a.menu")
	require.Error(t, err)
	assert.ErrorIs(t, err, errkind.ErrValidation)
}

func TestRunCommand(t *testing.T) {
	o, out := testOpts(t)
	skins := writeTree(t, map[string]string{"a.menu": "old_skin"})
	names := writeTree(t, map[string]string{"old_b.menu": "x"})

	cfgPath := filepath.Join(t.TempDir(), "roundtrip.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(fmt.Sprintf(`
batches:
  - name: skins
    kind: replace
    root: %s
    search: old_skin
    replace: new_skin
  - name: names
    kind: rename
    root: %s
    search: old_
    replace: new_
`, skins, names)), 0o644))

	cfg, err := config.Load(context.Background(), cfgPath)
	require.NoError(t, err)
	o.Config = cfg

	require.NoError(t, execute(t, NewRunCmd(o)))
	assert.Equal(t, "new_skin", readFile(t, filepath.Join(skins, "a.menu")))
	assert.FileExists(t, filepath.Join(names, "new_b.menu"))
	assert.Contains(t, out.String(), "skins")
	assert.Contains(t, out.String(), "names")

	err = execute(t, NewRunCmd(o), "--only", "nothing")
	require.Error(t, err)
	assert.ErrorIs(t, err, errkind.ErrValidation)
}

func TestRunCommandRequiresConfig(t *testing.T) {
	o, _ := testOpts(t)
	err := execute(t, NewRunCmd(o))
	require.Error(t, err)
	assert.ErrorIs(t, err, errkind.ErrValidation)
}

func TestHistoryCommand(t *testing.T) {
	o, out := testOpts(t)
	root := writeTree(t, map[string]string{"old.menu": "x"})

	require.NoError(t, execute(t, NewHistoryCmd(o)))
	assert.Contains(t, out.String(), "no batches recorded yet")

	require.NoError(t, execute(t, NewRenameCmd(o), root, "-s", "old", "-r", "new"))

	store, err := o.OpenHistory()
	require.NoError(t, err)
	batches, err := store.List(context.Background(), 0)
	require.NoError(t, err)
	require.NoError(t, store.Close())
	require.Len(t, batches, 1)

	out.Reset()
	require.NoError(t, execute(t, NewHistoryCmd(o)))
	assert.Contains(t, out.String(), batches[0].ID.String()[:8])

	out.Reset()
	require.NoError(t, execute(t, NewHistoryCmd(o), batches[0].ID.String()[:8]))
	assert.Contains(t, out.String(), filepath.Join(root, "old.menu"))
	assert.Contains(t, out.String(), "renamed")
}

func TestInitCommand(t *testing.T) {
	o, _ := testOpts(t)
	o.ConverterFlag = ""
	path := filepath.Join(t.TempDir(), "config.yaml")

	require.NoError(t, execute(t, NewInitCmd(o), "--path", path))

	cfg, err := config.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "MeidoSerialization", cfg.Converter)
	assert.Len(t, cfg.Batches, 2)

	err = execute(t, NewInitCmd(o), "--path", path)
	require.Error(t, err)
	assert.ErrorIs(t, err, errkind.ErrValidation)

	require.NoError(t, execute(t, NewInitCmd(o), "--path", path, "--force"))
}
