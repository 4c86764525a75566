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

// Package errors defines sentinel errors for consistent error handling across
// the application. These errors map to specific exit codes in the CLI for
// proper scripting support.
package errors

import "errors"

// Sentinel errors for consistent error handling and exit code mapping
var (
	// ErrRepoNotFound indicates the given rustc repository root does not exist.
	// Maps to exit code 2.
	ErrRepoNotFound = errors.New("rustc repository root does not exist")

	// ErrTargetDirNotFound indicates a configured target directory does not
	// exist under the repository root.
	// Maps to exit code 2.
	ErrTargetDirNotFound = errors.New("target directory does not exist")

	// ErrConfigMissing indicates no config file was found at the expected
	// location.
	// Maps to exit code 2.
	ErrConfigMissing = errors.New("config file not found")

	// ErrNoTargetDirs indicates the config lists no target directories, so a
	// run would silently process nothing. Treated as a warning rather than a
	// hard failure.
	// Maps to exit code 3.
	ErrNoTargetDirs = errors.New("no target directories configured")

	// ErrDriverUnavailable indicates the bootstrap test driver could not be
	// located before any file was processed.
	// Maps to exit code 1.
	ErrDriverUnavailable = errors.New("test driver not found")

	// ErrDriver indicates a driver invocation could not be completed as
	// intended (launch failure, I/O error). Distinct from a test failure,
	// which is never surfaced as an error.
	// Maps to exit code 1.
	ErrDriver = errors.New("test driver invocation failed")

	// ErrBaselineFailed indicates the sanity check on an unmodified test
	// failed, invalidating every downstream signal for the run.
	// Maps to exit code 1.
	ErrBaselineFailed = errors.New("baseline test run failed")

	// ErrAmbiguousDirective indicates a file's directive layout cannot be
	// acted on safely (multiple ignore lines, or the replacement line already
	// present alongside one).
	// Maps to exit code 1.
	ErrAmbiguousDirective = errors.New("ambiguous directive layout")

	// ErrReportWrite indicates the run report could not be written. Raised
	// only after all files have been processed; committed mutations stay on
	// disk.
	// Maps to exit code 1.
	ErrReportWrite = errors.New("failed to write run report")
)
