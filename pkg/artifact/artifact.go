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

// Package artifact owns the naming contract for intermediate artifacts.
//
// The converter writes the editable form of <file> to <file>.json and reads it
// back from the same place, so the forward and reverse conversions must agree
// on this one rule.
package artifact

import (
	"path/filepath"
	"strings"
)

// Ext is the extension of intermediate artifacts, without the leading dot.
const Ext = "json"

// Path returns the intermediate artifact path for original.
func Path(original string) string {
	return original + "." + Ext
}

// Original returns the asset path an intermediate artifact was derived from.
// The second result is false when path is not an intermediate artifact.
func Original(path string) (string, bool) {
	if !IsIntermediate(path) {
		return "", false
	}
	return strings.TrimSuffix(path, "."+Ext), true
}

// IsIntermediate reports whether name carries the intermediate extension.
func IsIntermediate(name string) bool {
	return ExtOf(name) == Ext
}

// ExtOf returns the extension of name without the leading dot.
func ExtOf(name string) string {
	return strings.TrimPrefix(filepath.Ext(name), ".")
}
