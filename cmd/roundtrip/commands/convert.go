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
	"strings"

	"github.com/spf13/cobra"
	"github.com/walteh/roundtrip/cmd/roundtrip/opts"
	"github.com/walteh/roundtrip/pkg/converter"
	"github.com/walteh/roundtrip/pkg/errkind"
	"github.com/walteh/roundtrip/pkg/report"
)

// NewConvertCmd creates the command that runs one converter subcommand on a
// single file
func NewConvertCmd(o *opts.RootOpts) *cobra.Command {
	var (
		typeOpts converter.TypeOptions
		format   string
		compress bool
		forcePng bool
	)

	cmd := &cobra.Command{
		Use:       "convert <subcommand> <path>",
		Short:     "Run a converter subcommand on one file",
		Long:      "Convert passes one file to the converter. Subcommands: " + strings.Join(converter.Subcommands, ", "),
		Args:      cobra.ExactArgs(2),
		ValidArgs: converter.Subcommands,
		RunE: func(cmd *cobra.Command, args []string) error {
			sub, path := args[0], args[1]

			var req converter.Request
			switch sub {
			case converter.CmdConvert2JSON:
				req = converter.Convert2JSON(path)
			case converter.CmdConvert2Mod:
				req = converter.Convert2Mod(path)
			case converter.CmdConvert:
				req = converter.Convert(path, typeOpts)
			case converter.CmdDetermine:
				req = converter.Determine(path, typeOpts)
			case converter.CmdConvert2Image:
				req = converter.Convert2Image(path, format)
			case converter.CmdConvert2Tex:
				tex := converter.TexOptions{Compress: compress}
				if cmd.Flags().Changed("force-png") {
					tex.ForcePng = &forcePng
				}
				req = converter.Convert2Tex(path, tex)
			case converter.CmdConvert2CSV:
				req = converter.Convert2CSV(path)
			case converter.CmdConvert2Nei:
				req = converter.Convert2Nei(path)
			default:
				return errkind.Validationf("unknown subcommand %q, expected one of %s", sub, strings.Join(converter.Subcommands, ", "))
			}

			bin := o.ConverterPath()
			if err := converter.ValidateBinary(bin); err != nil {
				return err
			}

			out := converter.NewExecClient(bin).Invoke(cmd.Context(), req)
			for _, line := range strings.Split(strings.TrimSpace(out.Stdout), "\n") {
				if line != "" {
					o.Console.Report(report.Entry{Level: report.LevelDetail, Message: line})
				}
			}
			if err := out.Err(); err != nil {
				report.File(o.Console, report.LevelError, path, "%s failed", sub)
				return err
			}
			report.File(o.Console, report.LevelSuccess, path, "%s done", sub)
			return nil
		},
	}

	cmd.Flags().StringVar(&typeOpts.Type, "type", "", "asset type for convert and determine")
	cmd.Flags().BoolVar(&typeOpts.Strict, "strict", false, "strict type detection for convert and determine")
	cmd.Flags().StringVar(&format, "format", "", "image format for convert2image")
	cmd.Flags().BoolVar(&compress, "compress", false, "compress the texture for convert2tex")
	cmd.Flags().BoolVar(&forcePng, "force-png", false, "force PNG data for convert2tex")

	return cmd
}
