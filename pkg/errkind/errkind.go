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

// Package errkind defines the error taxonomy shared by the batch pipelines.
//
// Every error produced by roundtrip wraps exactly one of the sentinels below,
// so callers can classify a failure with errors.Is without parsing messages.
package errkind

import (
	"gitlab.com/tozd/go/errors"
)

var (
	// ErrValidation marks missing or invalid batch parameters. A batch never
	// starts when validation fails.
	ErrValidation = errors.Base("validation error")
	// ErrDiscovery marks an unreadable entry found while scanning. It is a
	// warning: the entry is skipped and the scan continues.
	ErrDiscovery = errors.Base("discovery warning")
	// ErrConversion marks a nonzero exit or spawn failure of the converter.
	ErrConversion = errors.Base("conversion error")
	// ErrMutation marks an I/O failure reading or writing intermediate content.
	ErrMutation = errors.Base("mutation error")
	// ErrRename marks an I/O failure or a naming collision while renaming.
	ErrRename = errors.Base("rename error")
)

var kinds = []struct {
	err  error
	name string
}{
	{ErrValidation, "validation"},
	{ErrDiscovery, "discovery"},
	{ErrConversion, "conversion"},
	{ErrMutation, "mutation"},
	{ErrRename, "rename"},
}

// Validationf builds an ErrValidation with a formatted detail message.
func Validationf(format string, args ...any) error {
	return errors.Errorf("%w: "+format, append([]any{ErrValidation}, args...)...)
}

// Of returns the short name of the kind err belongs to, or "unknown".
func Of(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return "unknown"
}
