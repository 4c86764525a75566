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

// Package reduce drives the per-file reduction protocol. For each discovered
// test file it runs, strictly in order:
//
//  1. Sanity check: the unmodified test must pass; a failing baseline aborts
//     the whole run since every downstream signal would be meaningless.
//  2. Presence check: a file without the ignore-debug directive short
//     circuits to Ignored, untouched.
//  3. Try remove: delete the directive and rerun. A failure restores the
//     original and records UnmodifiedOk.
//  4. Try replace: a passing remove is provisionally good, but the stricter
//     compile-flags form is preferred when it also passes. A failure here
//     falls back to the already proven removal.
//
// Exactly one oracle invocation decides each phase; results are never
// retried. A file always ends a run with disk content matching its recorded
// outcome, and any tooling failure restores the in-flight file before
// aborting.
package reduce

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/debridehq/debride/internal/directive"
	derrors "github.com/debridehq/debride/internal/errors"
	"github.com/debridehq/debride/internal/oracle"
	"github.com/debridehq/debride/internal/report"
)

// ProgressSink receives a notification as each file reaches its terminal
// outcome. Implementations must not block.
type ProgressSink interface {
	FileDone(path string, outcome report.Outcome)
}

// Engine owns the per-file reduction sequence. Files are processed one at a
// time; the engine holds exclusive ownership of a file's content from its
// first mutation to its terminal outcome.
type Engine struct {
	root   string
	oracle oracle.Invoker
	logger *zap.Logger
}

// NewEngine creates an Engine operating on the repository rooted at root.
func NewEngine(root string, inv oracle.Invoker, logger *zap.Logger) *Engine {
	return &Engine{
		root:   root,
		oracle: inv,
		logger: logger,
	}
}

// Run probes the oracle once, then resolves every file to a terminal outcome
// in the given order. Any fatal condition (failing baseline, ambiguous
// directive layout, tooling error) aborts the run with the in-flight file
// restored; files already resolved keep their committed content.
func (e *Engine) Run(ctx context.Context, files []string, sink ProgressSink) (*report.Report, error) {
	if err := e.oracle.Probe(); err != nil {
		return nil, err
	}

	rep := report.New()
	for _, file := range files {
		outcome, err := e.reduceFile(ctx, file)
		if err != nil {
			return nil, err
		}

		rep.Record(file, outcome)
		if sink != nil {
			sink.FileDone(file, outcome)
		}
	}

	return rep, nil
}

// reduceFile resolves a single repository-relative file to its terminal
// outcome.
func (e *Engine) reduceFile(ctx context.Context, rel string) (report.Outcome, error) {
	log := e.logger.With(zap.String("file", rel))
	log.Debug("processing file")

	// Phase 1: sanity check the unmodified test.
	res, err := e.oracle.Run(ctx, rel)
	if err != nil {
		return 0, err
	}
	if res == oracle.Fail {
		return 0, fmt.Errorf("%w: %s fails before any modification", derrors.ErrBaselineFailed, rel)
	}

	f, err := directive.Open(filepath.Join(e.root, filepath.FromSlash(rel)))
	if err != nil {
		return 0, err
	}

	// Phase 2: nothing to do without a directive.
	removed, err := directive.Remove(f.Content())
	if errors.Is(err, directive.ErrAbsent) {
		log.Debug("no ignore-debug directive")
		return report.Ignored, nil
	}
	if err != nil {
		// Ambiguous layout; guessing which line to act on is worse than
		// stopping.
		return 0, fmt.Errorf("%s: %w", rel, err)
	}

	// Phase 3: try removing the directive outright.
	res, err = e.runMutated(ctx, f, removed, rel)
	if err != nil {
		return 0, err
	}
	if res == oracle.Fail {
		if err := f.Restore(); err != nil {
			return 0, err
		}
		log.Info("directive must stay", zap.String("outcome", report.UnmodifiedOk.String()))
		return report.UnmodifiedOk, nil
	}

	// Phase 4: removal works, but prefer the stricter compile-flags form
	// when it also passes.
	replaced, err := directive.Replace(f.Content())
	if err != nil {
		if rerr := f.Restore(); rerr != nil {
			return 0, fmt.Errorf("%w (additionally failed to restore: %v)", err, rerr)
		}
		return 0, fmt.Errorf("%s: %w", rel, err)
	}

	res, err = e.runMutated(ctx, f, replaced, rel)
	if err != nil {
		return 0, err
	}
	if res == oracle.Pass {
		log.Info("directive replaced", zap.String("outcome", report.ReplaceOk.String()))
		return report.ReplaceOk, nil
	}

	// Replacement fails; keep the removal that already proved itself.
	if err := f.Apply(removed); err != nil {
		if rerr := f.Restore(); rerr != nil {
			return 0, fmt.Errorf("%w (additionally failed to restore: %v)", err, rerr)
		}
		return 0, err
	}
	log.Info("directive removed", zap.String("outcome", report.RemoveOk.String()))
	return report.RemoveOk, nil
}

// runMutated applies content to the file, invokes the oracle, and restores
// the original before propagating any tooling failure. Test failures are
// results, not errors, and leave the mutated content in place for the caller
// to keep or roll back.
func (e *Engine) runMutated(ctx context.Context, f *directive.File, content, rel string) (oracle.Result, error) {
	if err := f.Apply(content); err != nil {
		if rerr := f.Restore(); rerr != nil {
			return 0, fmt.Errorf("%w (additionally failed to restore: %v)", err, rerr)
		}
		return 0, err
	}

	res, err := e.oracle.Run(ctx, rel)
	if err != nil {
		if rerr := f.Restore(); rerr != nil {
			return 0, fmt.Errorf("%w (additionally failed to restore: %v)", err, rerr)
		}
		return 0, err
	}

	return res, nil
}
