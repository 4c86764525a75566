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

// Package oracle invokes the external test driver and classifies its result.
// The driver's pass/fail signal is treated as ground truth: a single
// invocation per phase is authoritative and never retried.
package oracle

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	derrors "github.com/debridehq/debride/internal/errors"
)

// Result classifies a completed driver invocation.
type Result int

const (
	// Pass means the driver exited successfully.
	Pass Result = iota
	// Fail means the driver ran and reported a test failure. This is a
	// semantic signal, not an error; it only drives reduction branching.
	Fail
)

// String returns a human-readable result name.
func (r Result) String() string {
	switch r {
	case Pass:
		return "pass"
	case Fail:
		return "fail"
	default:
		return fmt.Sprintf("Result(%d)", int(r))
	}
}

// Invoker is the narrow synchronous interface the reduction engine depends
// on. A pooled or asynchronous implementation can be substituted without
// touching the engine's branching logic.
type Invoker interface {
	// Probe checks that the driver is reachable. Called once before any
	// file is processed; an error aborts the run.
	Probe() error

	// Run invokes the driver against a single repository-relative test file
	// and classifies the outcome. A returned error means the invocation
	// itself could not be completed (wraps errors.ErrDriver) and is fatal to
	// the run.
	Run(ctx context.Context, file string) (Result, error)
}

// Driver invokes the rustc bootstrap script as
// `<command> test <file> --stage <stage> --bless` from the repository root.
type Driver struct {
	repoRoot string
	command  string
	stage    string
	logger   *zap.Logger
}

// NewDriver creates a Driver rooted at repoRoot. A command containing a path
// separator is resolved against repoRoot, since the subprocess working
// directory does not affect how Go resolves the executable path.
func NewDriver(repoRoot, command, stage string, logger *zap.Logger) *Driver {
	if strings.ContainsRune(command, '/') && !filepath.IsAbs(command) {
		command = filepath.Join(repoRoot, command)
	}
	return &Driver{
		repoRoot: repoRoot,
		command:  command,
		stage:    stage,
		logger:   logger,
	}
}

// Probe verifies the driver executable can be located.
func (d *Driver) Probe() error {
	if _, err := exec.LookPath(d.command); err != nil {
		return fmt.Errorf("%w: %q (did you provide a correct rustc repo path?)", derrors.ErrDriverUnavailable, d.command)
	}
	d.logger.Info("detected bootstrap driver", zap.String("command", d.command))
	return nil
}

// Run invokes the driver against file and classifies the exit status.
func (d *Driver) Run(ctx context.Context, file string) (Result, error) {
	cmd := exec.CommandContext(ctx, d.command, "test", file, "--stage", d.stage, "--bless")
	cmd.Dir = d.repoRoot

	d.logger.Debug("invoking test driver",
		zap.String("file", file),
		zap.String("command", strings.Join(cmd.Args, " ")))

	output, err := cmd.CombinedOutput()
	if err == nil {
		return Pass, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && ctx.Err() == nil {
		d.logger.Debug("test driver reported failure",
			zap.String("file", file),
			zap.Int("exit_code", exitErr.ExitCode()),
			zap.ByteString("output", output))
		return Fail, nil
	}

	return 0, fmt.Errorf("%w: `%s test %s --stage %s --bless`: %v",
		derrors.ErrDriver, d.command, file, d.stage, err)
}
