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

// Package main implements the debride command-line interface. The tool
// automates reducing `// ignore-debug` directives across a rustc test suite
// by invoking the bootstrap test driver as an oracle and keeping whichever
// directive change still passes.
//
// The CLI supports:
//   - Generating a commented default config file (generate-config)
//   - Running the reduction against a rustc checkout (run)
//   - A markdown run report grouped by per-file outcome
//   - Graceful error handling with appropriate exit codes
//
// Usage:
//
//	debride generate-config
//	debride run <rustc-repo-path> [flags]
//
// Example:
//
//	debride generate-config
//	$EDITOR config.toml   # fill in target_directories
//	debride run ~/src/rust --report reduction.md
//
// Exit codes:
//   - 0: Success
//   - 1: General or tooling error
//   - 2: Configuration error
//   - 3: Warning-severity abort (no target directories configured)
package main
