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

// Package report collects per-file reduction outcomes and renders them as a
// deterministic markdown summary. Rendering is keyed by sorted path, never by
// insertion order, so a report is reproducible regardless of how files were
// processed.
package report

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	derrors "github.com/debridehq/debride/internal/errors"
)

// Outcome is the terminal result recorded for one discovered test file. It
// fully determines the file's final on-disk content relative to its original.
type Outcome int

const (
	// UnmodifiedOk: both removal and replacement of the directive break the
	// test, so the file was restored to its original content.
	UnmodifiedOk Outcome = iota
	// RemoveOk: the test passes with the directive removed outright.
	RemoveOk
	// ReplaceOk: the test passes with the directive replaced by the
	// compile-flags form.
	ReplaceOk
	// Ignored: the file carried no directive, so nothing was attempted.
	Ignored
)

// String returns the outcome's stable identifier.
func (o Outcome) String() string {
	switch o {
	case UnmodifiedOk:
		return "unmodified-ok"
	case RemoveOk:
		return "remove-ok"
	case ReplaceOk:
		return "replace-ok"
	case Ignored:
		return "ignored"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// groupOrder fixes the section order of the rendered report.
var groupOrder = []struct {
	outcome Outcome
	heading string
}{
	{ReplaceOk, "Replaced"},
	{RemoveOk, "Removed"},
	{UnmodifiedOk, "Unmodified"},
	{Ignored, "Ignored"},
}

// Report accumulates (path, outcome) pairs as files complete. It is safe for
// concurrent insertion, so a future bounded worker pool can feed it in
// completion order; ordering is deferred entirely to render time.
type Report struct {
	mu       sync.Mutex
	outcomes map[string]Outcome
}

// New creates an empty Report.
func New() *Report {
	return &Report{
		outcomes: make(map[string]Outcome),
	}
}

// Record stores the terminal outcome for path. An outcome is immutable once
// recorded; recording a path twice is a programming error and panics.
func (r *Report) Record(path string, outcome Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.outcomes[path]; ok {
		panic(fmt.Sprintf("report: outcome for %s already recorded as %s", path, prev))
	}
	r.outcomes[path] = outcome
}

// Len returns the number of recorded files.
func (r *Report) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.outcomes)
}

// Counts returns the number of files recorded per outcome.
func (r *Report) Counts() map[Outcome]int {
	r.mu.Lock()
	defer r.mu.Unlock()

	counts := make(map[Outcome]int)
	for _, o := range r.outcomes {
		counts[o]++
	}
	return counts
}

// Render produces the markdown summary document: one section per outcome
// group in fixed order, each with a count and a sorted file list.
func (r *Report) Render() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	groups := make(map[Outcome][]string)
	for path, o := range r.outcomes {
		groups[o] = append(groups[o], path)
	}
	for _, paths := range groups {
		sort.Strings(paths)
	}

	var b strings.Builder
	b.WriteString("# ignore-debug reduction summary\n\n")
	fmt.Fprintf(&b, "%d files processed.\n", len(r.outcomes))

	for _, g := range groupOrder {
		paths := groups[g.outcome]
		fmt.Fprintf(&b, "\n## %s (%d)\n", g.heading, len(paths))
		if len(paths) > 0 {
			b.WriteString("\n")
		}
		for _, p := range paths {
			fmt.Fprintf(&b, "- `%s`\n", p)
		}
	}

	return b.String()
}

// WriteFile renders the report and writes it to path atomically (temp file
// plus rename). A failure wraps errors.ErrReportWrite; by then all file
// mutations are already committed and are not rolled back.
func (r *Report) WriteFile(path string) error {
	tempFile := path + ".tmp"

	if err := os.WriteFile(tempFile, []byte(r.Render()), 0o644); err != nil {
		return fmt.Errorf("%w: %s: %v", derrors.ErrReportWrite, path, err)
	}

	if err := os.Rename(tempFile, path); err != nil {
		_ = os.Remove(tempFile)
		return fmt.Errorf("%w: %s: %v", derrors.ErrReportWrite, path, err)
	}

	return nil
}
