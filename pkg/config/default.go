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

package config

import (
	"github.com/adrg/xdg"
)

// AppName is the directory name used under the XDG base directories.
const AppName = "roundtrip"

var defaultNames = []string{"config.yaml", "config.yml", "config.hcl", "config.toml", "config.json"}

// DefaultPath returns the first roundtrip config file found in the XDG config
// directories, or "" when there is none.
func DefaultPath() string {
	for _, name := range defaultNames {
		if path, err := xdg.SearchConfigFile(AppName + "/" + name); err == nil {
			return path
		}
	}
	return ""
}

// DefaultWritePath returns where a new user config file should be created.
// The parent directory is created if needed.
func DefaultWritePath() (string, error) {
	return xdg.ConfigFile(AppName + "/" + defaultNames[0])
}
