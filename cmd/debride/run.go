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
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/debridehq/debride/internal/config"
	"github.com/debridehq/debride/internal/discover"
	"github.com/debridehq/debride/internal/display"
	derrors "github.com/debridehq/debride/internal/errors"
	"github.com/debridehq/debride/internal/oracle"
	"github.com/debridehq/debride/internal/reduce"
)

// defaultReportName is the report file written next to the executable when
// --report is not given.
const defaultReportName = "run_summary.md"

// runCmd represents the run command
func newRunCommand() *cobra.Command {
	var (
		configPath string
		reportPath string
	)

	cmd := &cobra.Command{
		Use:   "run <rustc-repo-path>",
		Short: "Run the reduction over the configured test directories",
		Long: `Run the per-file reduction protocol against a rustc checkout.

Each discovered test file is resolved to exactly one outcome:
  - replace-ok: directive replaced by the compile-flags form
  - remove-ok: directive removed outright
  - unmodified-ok: both attempts broke the test; file restored
  - ignored: the file carries no directive

Files are processed strictly in sorted path order, one driver invocation at
a time. The run aborts if any unmodified test fails its sanity check.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReduction(cmd.Context(), args[0], configPath, reportPath)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Config file path (default: config.toml beside the executable)")
	cmd.Flags().StringVar(&reportPath, "report", "", "Report output path (default: run_summary.md beside the executable)")

	return cmd
}

// runReduction executes the run command
func runReduction(ctx context.Context, repoRoot, configPath, reportPath string) error {
	exeDir, err := executableDir()
	if err != nil {
		return err
	}
	if configPath == "" {
		configPath = filepath.Join(exeDir, config.FileName)
	}
	if reportPath == "" {
		reportPath = filepath.Join(exeDir, defaultReportName)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger.Debug("loaded config",
		zap.String("path", configPath),
		zap.Strings("target_directories", cfg.TargetDirectories))

	if err := cfg.Validate(); err != nil {
		return err
	}

	info, err := os.Stat(repoRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s (please check your path to the rustc repo)", derrors.ErrRepoNotFound, repoRoot)
		}
		return fmt.Errorf("failed to stat rustc repo path %s: %w", repoRoot, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", derrors.ErrRepoNotFound, repoRoot)
	}

	files, err := discover.Files(repoRoot, cfg.TargetDirectories, logger)
	if err != nil {
		return err
	}

	progress := display.NewProgress(os.Stderr, len(files))
	progress.Start()

	driver := oracle.NewDriver(repoRoot, cfg.Driver.Command, cfg.Driver.Stage, logger)
	engine := reduce.NewEngine(repoRoot, driver, logger)

	rep, err := engine.Run(ctx, files, progress)
	if err != nil {
		return err
	}

	// Mutations are already committed; a report failure does not roll
	// anything back.
	if err := rep.WriteFile(reportPath); err != nil {
		return err
	}

	progress.Summary(rep.Counts(), reportPath)
	return nil
}
