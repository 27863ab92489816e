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

package converter

import (
	"strconv"
)

// Known converter subcommands.
const (
	CmdConvert2JSON  = "convert2json"
	CmdConvert2Mod   = "convert2mod"
	CmdConvert       = "convert"
	CmdConvert2Image = "convert2image"
	CmdConvert2Tex   = "convert2tex"
	CmdConvert2CSV   = "convert2csv"
	CmdConvert2Nei   = "convert2nei"
	CmdDetermine     = "determine"
)

// Subcommands lists the converter vocabulary in display order.
var Subcommands = []string{
	CmdConvert2JSON,
	CmdConvert2Mod,
	CmdConvert,
	CmdConvert2Image,
	CmdConvert2Tex,
	CmdConvert2CSV,
	CmdConvert2Nei,
	CmdDetermine,
}

// IsKnown reports whether sub is part of the converter vocabulary.
func IsKnown(sub string) bool {
	for _, s := range Subcommands {
		if s == sub {
			return true
		}
	}
	return false
}

// 📦 Request is one converter invocation: the subcommand and its arguments.
// The payload is opaque to roundtrip and is passed through unchanged.
type Request struct {
	Subcommand string
	Args       []string
}

// Argv returns the argument vector handed to the converter binary.
func (r Request) Argv() []string {
	return append([]string{r.Subcommand}, r.Args...)
}

// Path returns the file the request operates on, or "" when there is none.
func (r Request) Path() string {
	if len(r.Args) == 0 {
		return ""
	}
	return r.Args[0]
}

// TypeOptions are the flags shared by convert and determine.
type TypeOptions struct {
	Type   string // Forces the asset type; empty lets the converter detect it
	Strict bool   // Disables lenient type detection
}

func (o TypeOptions) flags() []string {
	var out []string
	if o.Type != "" {
		out = append(out, "--type", o.Type)
	}
	if o.Strict {
		out = append(out, "--strict")
	}
	return out
}

// TexOptions are the flags of convert2tex.
type TexOptions struct {
	Compress bool
	ForcePng *bool // nil leaves the converter default in place
}

// Convert2JSON converts a binary asset into its intermediate artifact.
func Convert2JSON(path string) Request {
	return Request{Subcommand: CmdConvert2JSON, Args: []string{path}}
}

// Convert2Mod converts an intermediate artifact back into the binary asset.
func Convert2Mod(path string) Request {
	return Request{Subcommand: CmdConvert2Mod, Args: []string{path}}
}

// Convert converts in whichever direction the converter detects.
func Convert(path string, opts TypeOptions) Request {
	return Request{Subcommand: CmdConvert, Args: append([]string{path}, opts.flags()...)}
}

// Determine asks the converter for the asset type of path.
func Determine(path string, opts TypeOptions) Request {
	return Request{Subcommand: CmdDetermine, Args: append([]string{path}, opts.flags()...)}
}

// Convert2Image converts a texture to an image, optionally in format.
func Convert2Image(path, format string) Request {
	args := []string{path}
	if format != "" {
		args = append(args, "--format", format)
	}
	return Request{Subcommand: CmdConvert2Image, Args: args}
}

// Convert2Tex converts an image into a texture.
func Convert2Tex(path string, opts TexOptions) Request {
	args := []string{path}
	if opts.Compress {
		args = append(args, "--compress")
	}
	if opts.ForcePng != nil {
		args = append(args, "--forcePng", strconv.FormatBool(*opts.ForcePng))
	}
	return Request{Subcommand: CmdConvert2Tex, Args: args}
}

// Convert2CSV converts a table asset into CSV.
func Convert2CSV(path string) Request {
	return Request{Subcommand: CmdConvert2CSV, Args: []string{path}}
}

// Convert2Nei converts a CSV file into a table asset.
func Convert2Nei(path string) Request {
	return Request{Subcommand: CmdConvert2Nei, Args: []string{path}}
}
