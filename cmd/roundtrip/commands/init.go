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
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/walteh/roundtrip/cmd/roundtrip/opts"
	"github.com/walteh/roundtrip/pkg/config"
	"github.com/walteh/roundtrip/pkg/errkind"
	"github.com/walteh/roundtrip/pkg/report"
	"gitlab.com/tozd/go/errors"
)

const sampleConfig = `# roundtrip configuration
# converter: path to MeidoSerialization, or a name on PATH
converter: %s

batches:
  - name: textures
    kind: replace
    root: /path/to/mods/skins
    types: [menu, mate, model]
    search: old_skin
    replace: new_skin
    # recursive: true
    # delete_intermediate: true

  - name: names
    kind: rename
    root: /path/to/mods/skins
    pattern: "*.*"
    search: old_
    replace: new_
`

// NewInitCmd creates the command that writes a starter config file
func NewInitCmd(o *opts.RootOpts) *cobra.Command {
	var (
		path  string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter config file",
		Long:  "Init writes an example config to the XDG config directory, or to --path.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				p, err := config.DefaultWritePath()
				if err != nil {
					return errors.Errorf("locating config directory: %w", err)
				}
				path = p
			}

			if _, err := os.Stat(path); err == nil && !force {
				return errkind.Validationf("%s already exists, use --force to overwrite", path)
			}

			converter := o.ConverterPath()
			if converter == "" {
				converter = "MeidoSerialization"
			}

			if err := os.WriteFile(path, []byte(fmt.Sprintf(sampleConfig, converter)), 0o644); err != nil {
				return errors.Errorf("writing config: %w", err)
			}
			report.File(o.Console, report.LevelSuccess, path, "config written")
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "where to write the config (default: XDG config directory)")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")

	return cmd
}
