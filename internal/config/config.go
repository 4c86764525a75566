// Copyright 2026 The Debride Authors
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config provides configuration management for debride. The tool is
// configured through a single TOML file that lives next to the executable by
// default, mirroring how it is meant to be dropped into a rustc checkout and
// pointed at test directories.
//
// A commented default file can be produced with the generate-config command;
// Load applies built-in defaults first so a partial file is always valid.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	derrors "github.com/debridehq/debride/internal/errors"
)

// FileName is the config file name expected next to the executable.
const FileName = "config.toml"

// Load reads and parses the TOML config file at path. Built-in defaults are
// applied before the file is decoded, so omitted keys keep their default
// values. A missing file is reported as derrors.ErrConfigMissing so the CLI
// can suggest generate-config.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s (run `debride generate-config` to create one)", derrors.ErrConfigMissing, path)
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks that the configuration can drive a useful run. An empty
// target directory set is reported as derrors.ErrNoTargetDirs, which the CLI
// treats as a warning-severity abort rather than a hard failure.
func (c *Config) Validate() error {
	if len(c.TargetDirectories) == 0 {
		return fmt.Errorf("%w: maybe you forgot to edit the config?", derrors.ErrNoTargetDirs)
	}
	if c.Driver.Command == "" {
		return fmt.Errorf("driver command cannot be empty")
	}
	if c.Driver.Stage == "" {
		return fmt.Errorf("driver stage cannot be empty")
	}
	return nil
}

// Template returns the commented default config file content.
func Template() string {
	return `# debride configuration

# Test directories to scan for reducible ` + "`// ignore-debug`" + ` directives,
# relative to the rustc repository root.
#
# Example:
#   target_directories = ["src/test/ui", "src/test/codegen"]
target_directories = []

[driver]
# Bootstrap command used to run tests.
command = "x"

# Build stage passed to the driver.
stage = "1"
`
}

// WriteTemplate writes the commented default config to path. It refuses to
// overwrite an existing file.
func WriteTemplate(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, []byte(Template()), 0o644); err != nil {
		return fmt.Errorf("failed to write config template to %s: %w", path, err)
	}

	return nil
}
