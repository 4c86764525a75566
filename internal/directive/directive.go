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

// Package directive implements the text transforms for the `// ignore-debug`
// test directive: removing the directive line, or replacing it with the
// equivalent compile-flags line. Matching is literal line-prefix matching,
// never pattern based, so unrelated comments cannot be picked up by accident.
//
// The transforms are pure functions over file content. Disk access is
// confined to the File type, which captures a file's original bytes once and
// can restore them unconditionally, letting callers reason about rollback
// without re-reading disk state.
package directive

import (
	"errors"
	"fmt"
	"strings"

	derrors "github.com/debridehq/debride/internal/errors"
)

const (
	// IgnorePrefix is the literal start of an ignore-debug directive line.
	IgnorePrefix = "// ignore-debug"

	// ReplacementLine is the compile-flags directive that makes a test's
	// debug-assertions expectation explicit instead of skipping the test.
	ReplacementLine = "// compile-flags: -Cdebug-assertions=no"
)

// ErrAbsent is returned by Remove and Replace when the content carries no
// ignore-debug directive line.
var ErrAbsent = errors.New("no ignore-debug directive present")

// findDirective returns the index of the single ignore-debug line in lines.
// It reports an ambiguity error when more than one ignore-debug line exists
// or when the replacement line is already present alongside one; acting on
// either layout would mean guessing which line the author meant.
func findDirective(lines []string) (int, error) {
	idx := -1
	count := 0
	replacementPresent := false

	for i, line := range lines {
		if strings.HasPrefix(line, IgnorePrefix) {
			idx = i
			count++
		}
		if line == ReplacementLine {
			replacementPresent = true
		}
	}

	if count == 0 {
		return -1, ErrAbsent
	}
	if count > 1 {
		return -1, fmt.Errorf("%w: %d ignore-debug lines", derrors.ErrAmbiguousDirective, count)
	}
	if replacementPresent {
		return -1, fmt.Errorf("%w: replacement compile-flags line already present", derrors.ErrAmbiguousDirective)
	}

	return idx, nil
}

// Remove returns content with the ignore-debug directive line deleted.
func Remove(content string) (string, error) {
	lines := strings.Split(content, "\n")

	idx, err := findDirective(lines)
	if err != nil {
		return "", err
	}

	lines = append(lines[:idx], lines[idx+1:]...)
	return strings.Join(lines, "\n"), nil
}

// Replace returns content with the ignore-debug directive line replaced, in
// place, by the compile-flags directive.
func Replace(content string) (string, error) {
	lines := strings.Split(content, "\n")

	idx, err := findDirective(lines)
	if err != nil {
		return "", err
	}

	lines[idx] = ReplacementLine
	return strings.Join(lines, "\n"), nil
}
