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

package main

import (
	"context"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/roundtrip/cmd/roundtrip/commands"
	"github.com/walteh/roundtrip/cmd/roundtrip/opts"
	"github.com/walteh/roundtrip/pkg/config"
	"github.com/walteh/roundtrip/pkg/history"
	"github.com/walteh/roundtrip/pkg/report"
	"gitlab.com/tozd/go/errors"
)

var (
	// Flags
	configFile    string
	converterPath string
	historyPath   string
	noHistory     bool
	noColor       bool
	debug         bool
)

// newRootCmd creates the root command with every subcommand attached
func newRootCmd() *cobra.Command {
	o := &opts.RootOpts{Out: os.Stdout}

	rootCmd := &cobra.Command{
		Use:   "roundtrip",
		Short: "Bulk text replacement and renaming for converted game assets",
		Long: `roundtrip edits binary game assets in bulk. Each file is converted to an
editable <file>.json by MeidoSerialization, edited with a literal search and
replace, converted back when it changed, and the .json is removed. A second
pipeline renames files by replacing text in their names.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger := setupLogging()
			cmd.SetContext(logger.WithContext(cmd.Context()))
			return setupRootOpts(cmd.Context(), o, logger)
		},
	}

	addRootFlags(rootCmd)

	rootCmd.AddCommand(
		commands.NewReplaceCmd(o),
		commands.NewRenameCmd(o),
		commands.NewPreviewCmd(o),
		commands.NewConvertCmd(o),
		commands.NewRunCmd(o),
		commands.NewHistoryCmd(o),
		commands.NewInitCmd(o),
	)

	return rootCmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file path (default: $XDG_CONFIG_HOME/roundtrip/config.yaml)")
	cmd.PersistentFlags().StringVar(&converterPath, "converter", "", "converter binary, overrides the config file")
	cmd.PersistentFlags().StringVar(&historyPath, "history", "", "history database (default: $XDG_DATA_HOME/roundtrip/history.db)")
	cmd.PersistentFlags().BoolVar(&noHistory, "no-history", false, "do not record batches")
	cmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	cmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")
}

// setupLogging configures zerolog based on flags
func setupLogging() zerolog.Logger {
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &log
	return log
}

// setupRootOpts loads the config file and prepares the console
func setupRootOpts(ctx context.Context, o *opts.RootOpts, logger zerolog.Logger) error {
	if noColor || (!isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd())) {
		color.NoColor = true
		pterm.DisableColor()
	}

	// console lines are only mirrored to the log when debugging
	mirror := zerolog.Nop()
	if debug {
		mirror = logger
	}
	o.Console = report.NewConsole(o.Out, mirror)
	o.ConverterFlag = converterPath

	path := configFile
	if path == "" {
		path = config.DefaultPath()
	}
	if path != "" {
		cfg, err := config.Load(ctx, path)
		if err != nil {
			return errors.Errorf("loading config: %w", err)
		}
		o.Config = cfg
		o.ConfigFile = path
	}

	switch {
	case noHistory:
		o.HistoryPath = ""
	case historyPath != "":
		o.HistoryPath = historyPath
	default:
		p, err := history.DefaultPath()
		if err != nil {
			logger.Warn().Err(err).Msg("history disabled")
		}
		o.HistoryPath = p
	}

	return nil
}
