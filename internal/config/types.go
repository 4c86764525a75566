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

package config

// Config represents the complete configuration for debride.
type Config struct {
	// TargetDirectories lists the rustc test directories to scan for
	// reducible `// ignore-debug` directives, relative to the repository
	// root.
	TargetDirectories []string `toml:"target_directories"`

	// Driver configures how the bootstrap test driver is invoked.
	Driver DriverConfig `toml:"driver"`
}

// DriverConfig contains settings for the external test driver.
type DriverConfig struct {
	// Command is the bootstrap command used to run tests.
	Command string `toml:"command"`

	// Stage is the build stage passed to the driver.
	Stage string `toml:"stage"`
}

// DefaultConfig returns a Config with all default values set.
func DefaultConfig() *Config {
	return &Config{
		TargetDirectories: []string{},
		Driver: DriverConfig{
			Command: "x",
			Stage:   "1",
		},
	}
}
