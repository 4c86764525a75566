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

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	derrors "github.com/debridehq/debride/internal/errors"
)

var version = "dev"

// logger is built once in the root command's PersistentPreRunE and passed
// explicitly into every component that needs it.
var logger *zap.Logger

func main() {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "debride",
		Short: "Reduce ignore-debug directives across a rustc test suite",
		Long: `Debride walks the configured rustc test directories and, for each test
carrying an ` + "`// ignore-debug`" + ` directive, uses the bootstrap test driver as an
oracle to decide whether the directive can be removed outright, replaced by
` + "`// compile-flags: -Cdebug-assertions=no`" + `, or must stay. Outcomes are
collected into a markdown run report.`,
		Version:       version,
		SilenceUsage:  true, // Don't show usage on error
		SilenceErrors: true, // We'll handle error printing ourselves
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config := zap.NewProductionConfig()
			if verbose {
				config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			var err error
			logger, err = config.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug-level logging")

	rootCmd.AddCommand(newRunCommand())
	rootCmd.AddCommand(newGenerateConfigCommand())

	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, derrors.ErrNoTargetDirs) {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(mapErrorToExitCode(err))
	}
}

// mapErrorToExitCode maps internal errors to appropriate exit codes
func mapErrorToExitCode(err error) int {
	if err == nil {
		return 0
	}

	if errors.Is(err, derrors.ErrNoTargetDirs) {
		return 3 // Warning-severity abort
	}

	if errors.Is(err, derrors.ErrRepoNotFound) ||
		errors.Is(err, derrors.ErrTargetDirNotFound) ||
		errors.Is(err, derrors.ErrConfigMissing) {
		return 2 // Configuration errors
	}

	return 1 // General error
}

// executableDir returns the directory holding the running executable. The
// config file and the default report both live next to the binary, which is
// meant to be dropped into or near a rustc checkout.
func executableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to locate executable: %w", err)
	}
	return filepath.Dir(exe), nil
}
