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

// Package discover enumerates candidate test files under the configured
// target directories. Discovery is read-only and deterministic: the same
// directory set always yields the same sorted, deduplicated file list, which
// fixes both the processing order and the report order for a run.
package discover

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	derrors "github.com/debridehq/debride/internal/errors"
)

// candidateExtensions are the file extensions compiletest owns; everything
// else under a test directory (Makefiles, .stderr snapshots) is skipped.
var candidateExtensions = map[string]bool{
	".rs":    true,
	".fixed": true,
}

// Files walks each target directory under root and returns the
// repository-relative paths of all candidate test files, sorted and
// deduplicated. A target directory that does not exist under root is a
// configuration error that fails discovery as a whole.
func Files(root string, dirs []string, logger *zap.Logger) ([]string, error) {
	// Check every directory up front so a typo is reported before any
	// walking, not halfway through a run.
	for _, dir := range dirs {
		full := filepath.Join(root, dir)
		info, err := os.Stat(full)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("%w: %s", derrors.ErrTargetDirNotFound, full)
			}
			return nil, fmt.Errorf("failed to stat target directory %s: %w", full, err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%w: %s is not a directory", derrors.ErrTargetDirNotFound, full)
		}
	}

	// A directory referenced twice, or nested inside another target, must
	// not process a file twice.
	seen := make(map[string]bool)

	for _, dir := range dirs {
		full := filepath.Join(root, dir)
		logger.Debug("walking target directory", zap.String("dir", full))

		err := filepath.WalkDir(full, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if !candidateExtensions[filepath.Ext(path)] {
				return nil
			}

			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			seen[filepath.ToSlash(rel)] = true
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk target directory %s: %w", full, err)
		}
	}

	files := make([]string, 0, len(seen))
	for path := range seen {
		files = append(files, path)
	}
	sort.Strings(files)

	logger.Info("discovered target test files", zap.Int("count", len(files)))
	return files, nil
}
