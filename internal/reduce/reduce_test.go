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

package reduce

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	derrors "github.com/debridehq/debride/internal/errors"
	"github.com/debridehq/debride/internal/oracle"
	"github.com/debridehq/debride/internal/report"
)

const (
	original     = "// run-pass\n// ignore-debug: reason\nfn main() {}\n"
	removedWant  = "// run-pass\nfn main() {}\n"
	replacedWant = "// run-pass\n// compile-flags: -Cdebug-assertions=no\nfn main() {}\n"
	noDirective  = "// run-pass\nfn main() {}\n"
)

// step scripts one oracle invocation.
type step struct {
	result oracle.Result
	err    error
}

// call records one oracle invocation together with the on-disk content of
// the invoked file at that moment, so tests can verify the mutate-then-run
// ordering of each phase.
type call struct {
	file    string
	content string
}

type fakeOracle struct {
	t        *testing.T
	root     string
	probeErr error
	steps    []step
	calls    []call
}

func (f *fakeOracle) Probe() error {
	return f.probeErr
}

func (f *fakeOracle) Run(_ context.Context, file string) (oracle.Result, error) {
	f.t.Helper()

	data, err := os.ReadFile(filepath.Join(f.root, filepath.FromSlash(file)))
	if err != nil {
		f.t.Fatalf("oracle invoked on unreadable file %s: %v", file, err)
	}
	f.calls = append(f.calls, call{file: file, content: string(data)})

	if len(f.steps) == 0 {
		f.t.Fatalf("unexpected oracle invocation for %s", file)
	}
	s := f.steps[0]
	f.steps = f.steps[1:]
	return s.result, s.err
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()

	full := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatalf("failed to create dir for %s: %v", rel, err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", rel, err)
	}
}

func readFile(t *testing.T, root, rel string) string {
	t.Helper()

	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		t.Fatalf("failed to read %s: %v", rel, err)
	}
	return string(data)
}

func newEngine(t *testing.T, root string, steps ...step) (*Engine, *fakeOracle) {
	t.Helper()

	fake := &fakeOracle{t: t, root: root, steps: steps}
	return NewEngine(root, fake, zap.NewNop()), fake
}

func TestIgnoredWhenDirectiveAbsent(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "tests/plain.rs", noDirective)

	eng, fake := newEngine(t, root, step{result: oracle.Pass})
	rep, err := eng.Run(context.Background(), []string{"tests/plain.rs"}, nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if got := rep.Counts()[report.Ignored]; got != 1 {
		t.Errorf("Ignored count = %d, want 1", got)
	}
	if got := readFile(t, root, "tests/plain.rs"); got != noDirective {
		t.Errorf("file content changed: %q", got)
	}
	// Only the sanity check runs; no mutation is attempted.
	if len(fake.calls) != 1 {
		t.Errorf("oracle calls = %d, want 1", len(fake.calls))
	}
}

func TestUnmodifiedOkRestoresOriginal(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "tests/keep.rs", original)

	eng, fake := newEngine(t, root,
		step{result: oracle.Pass}, // sanity
		step{result: oracle.Fail}, // remove
	)
	rep, err := eng.Run(context.Background(), []string{"tests/keep.rs"}, nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if got := rep.Counts()[report.UnmodifiedOk]; got != 1 {
		t.Errorf("UnmodifiedOk count = %d, want 1", got)
	}
	if got := readFile(t, root, "tests/keep.rs"); got != original {
		t.Errorf("final content = %q, want original", got)
	}

	// The remove attempt must have been on disk when the oracle ran.
	if len(fake.calls) != 2 {
		t.Fatalf("oracle calls = %d, want 2", len(fake.calls))
	}
	if fake.calls[0].content != original {
		t.Errorf("sanity check saw %q, want original", fake.calls[0].content)
	}
	if fake.calls[1].content != removedWant {
		t.Errorf("remove attempt saw %q, want %q", fake.calls[1].content, removedWant)
	}
}

func TestRemoveOkKeepsRemovedContent(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "tests/strip.rs", original)

	eng, fake := newEngine(t, root,
		step{result: oracle.Pass}, // sanity
		step{result: oracle.Pass}, // remove
		step{result: oracle.Fail}, // replace
	)
	rep, err := eng.Run(context.Background(), []string{"tests/strip.rs"}, nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if got := rep.Counts()[report.RemoveOk]; got != 1 {
		t.Errorf("RemoveOk count = %d, want 1", got)
	}
	if got := readFile(t, root, "tests/strip.rs"); got != removedWant {
		t.Errorf("final content = %q, want %q", got, removedWant)
	}
	if len(fake.calls) != 3 {
		t.Fatalf("oracle calls = %d, want 3", len(fake.calls))
	}
	if fake.calls[2].content != replacedWant {
		t.Errorf("replace attempt saw %q, want %q", fake.calls[2].content, replacedWant)
	}
}

func TestReplaceOkKeepsReplacedContent(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "tests/flags.rs", original)

	eng, _ := newEngine(t, root,
		step{result: oracle.Pass}, // sanity
		step{result: oracle.Pass}, // remove
		step{result: oracle.Pass}, // replace
	)
	rep, err := eng.Run(context.Background(), []string{"tests/flags.rs"}, nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if got := rep.Counts()[report.ReplaceOk]; got != 1 {
		t.Errorf("ReplaceOk count = %d, want 1", got)
	}
	if got := readFile(t, root, "tests/flags.rs"); got != replacedWant {
		t.Errorf("final content = %q, want %q", got, replacedWant)
	}
}

func TestBaselineFailureAbortsRun(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "tests/broken.rs", original)
	writeFile(t, root, "tests/untouched.rs", original)

	eng, fake := newEngine(t, root,
		step{result: oracle.Fail}, // sanity of first file
	)
	_, err := eng.Run(context.Background(), []string{"tests/broken.rs", "tests/untouched.rs"}, nil)
	if !errors.Is(err, derrors.ErrBaselineFailed) {
		t.Fatalf("Run() error = %v, want ErrBaselineFailed", err)
	}
	if !strings.Contains(err.Error(), "tests/broken.rs") {
		t.Errorf("error %q does not name the failing file", err)
	}

	// No other file in the batch is touched or even invoked.
	if len(fake.calls) != 1 {
		t.Errorf("oracle calls = %d, want 1", len(fake.calls))
	}
	if got := readFile(t, root, "tests/untouched.rs"); got != original {
		t.Errorf("untouched file content changed: %q", got)
	}
	if got := readFile(t, root, "tests/broken.rs"); got != original {
		t.Errorf("broken file content changed: %q", got)
	}
}

func TestToolingErrorDuringRemoveRestores(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "tests/tool.rs", original)

	toolErr := fmt.Errorf("%w: launch failed", derrors.ErrDriver)
	eng, _ := newEngine(t, root,
		step{result: oracle.Pass}, // sanity
		step{err: toolErr},        // remove attempt blows up
	)
	_, err := eng.Run(context.Background(), []string{"tests/tool.rs"}, nil)
	if !errors.Is(err, derrors.ErrDriver) {
		t.Fatalf("Run() error = %v, want ErrDriver", err)
	}

	if got := readFile(t, root, "tests/tool.rs"); got != original {
		t.Errorf("file not restored after tooling error: %q", got)
	}
}

func TestToolingErrorDuringReplaceRestores(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "tests/tool.rs", original)

	toolErr := fmt.Errorf("%w: launch failed", derrors.ErrDriver)
	eng, _ := newEngine(t, root,
		step{result: oracle.Pass}, // sanity
		step{result: oracle.Pass}, // remove
		step{err: toolErr},        // replace attempt blows up
	)
	_, err := eng.Run(context.Background(), []string{"tests/tool.rs"}, nil)
	if !errors.Is(err, derrors.ErrDriver) {
		t.Fatalf("Run() error = %v, want ErrDriver", err)
	}

	if got := readFile(t, root, "tests/tool.rs"); got != original {
		t.Errorf("file not restored after tooling error: %q", got)
	}
}

func TestAmbiguousDirectiveAborts(t *testing.T) {
	root := t.TempDir()
	ambiguous := "// ignore-debug\n// ignore-debug: twice\nfn main() {}\n"
	writeFile(t, root, "tests/odd.rs", ambiguous)

	eng, _ := newEngine(t, root,
		step{result: oracle.Pass}, // sanity
	)
	_, err := eng.Run(context.Background(), []string{"tests/odd.rs"}, nil)
	if !errors.Is(err, derrors.ErrAmbiguousDirective) {
		t.Fatalf("Run() error = %v, want ErrAmbiguousDirective", err)
	}

	if got := readFile(t, root, "tests/odd.rs"); got != ambiguous {
		t.Errorf("ambiguous file content changed: %q", got)
	}
}

func TestProbeFailureAbortsBeforeAnyFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "tests/a.rs", original)

	probeErr := fmt.Errorf("%w: x", derrors.ErrDriverUnavailable)
	fake := &fakeOracle{t: t, root: root, probeErr: probeErr}
	eng := NewEngine(root, fake, zap.NewNop())

	_, err := eng.Run(context.Background(), []string{"tests/a.rs"}, nil)
	if !errors.Is(err, derrors.ErrDriverUnavailable) {
		t.Fatalf("Run() error = %v, want ErrDriverUnavailable", err)
	}
	if len(fake.calls) != 0 {
		t.Errorf("oracle calls = %d, want 0", len(fake.calls))
	}
}

// recordingSink captures FileDone notifications in arrival order.
type recordingSink struct {
	seen []string
}

func (s *recordingSink) FileDone(path string, _ report.Outcome) {
	s.seen = append(s.seen, path)
}

func TestRunNotifiesSinkInProcessingOrder(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "tests/a.rs", noDirective)
	writeFile(t, root, "tests/b.rs", noDirective)
	writeFile(t, root, "tests/c.rs", noDirective)

	eng, _ := newEngine(t, root,
		step{result: oracle.Pass},
		step{result: oracle.Pass},
		step{result: oracle.Pass},
	)

	sink := &recordingSink{}
	files := []string{"tests/a.rs", "tests/b.rs", "tests/c.rs"}
	rep, err := eng.Run(context.Background(), files, sink)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if rep.Len() != 3 {
		t.Errorf("report Len() = %d, want 3", rep.Len())
	}
	for i, want := range files {
		if sink.seen[i] != want {
			t.Errorf("sink.seen[%d] = %q, want %q", i, sink.seen[i], want)
		}
	}
}

// Mirrors the canonical example: a single-directive file where removal
// passes but replacement fails ends up with the directive deleted and is
// listed in the Removed group with count 1.
func TestEndToEndRemoveExample(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "tests/foo.rs", "// ignore-debug: wasm64 bit width")

	eng, _ := newEngine(t, root,
		step{result: oracle.Pass}, // sanity
		step{result: oracle.Pass}, // remove
		step{result: oracle.Fail}, // replace
	)
	rep, err := eng.Run(context.Background(), []string{"tests/foo.rs"}, nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if got := readFile(t, root, "tests/foo.rs"); got != "" {
		t.Errorf("final content = %q, want directive line deleted", got)
	}

	rendered := rep.Render()
	if !strings.Contains(rendered, "## Removed (1)") {
		t.Errorf("report missing Removed group with count 1:\n%s", rendered)
	}
	if !strings.Contains(rendered, "- `tests/foo.rs`") {
		t.Errorf("report missing tests/foo.rs listing:\n%s", rendered)
	}
}

func TestSecondRunIsAllIgnored(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "tests/remove.rs", original)
	writeFile(t, root, "tests/replace.rs", original)
	writeFile(t, root, "tests/plain.rs", noDirective)

	files := []string{"tests/plain.rs", "tests/remove.rs", "tests/replace.rs"}

	eng, _ := newEngine(t, root,
		step{result: oracle.Pass}, // plain: sanity
		step{result: oracle.Pass}, // remove.rs: sanity
		step{result: oracle.Pass}, // remove.rs: remove
		step{result: oracle.Fail}, // remove.rs: replace
		step{result: oracle.Pass}, // replace.rs: sanity
		step{result: oracle.Pass}, // replace.rs: remove
		step{result: oracle.Pass}, // replace.rs: replace
	)
	if _, err := eng.Run(context.Background(), files, nil); err != nil {
		t.Fatalf("first Run() error = %v", err)
	}

	contentAfterFirst := map[string]string{}
	for _, f := range files {
		contentAfterFirst[f] = readFile(t, root, f)
	}

	// Every directive was resolved, so a second run only sanity-checks.
	eng2, _ := newEngine(t, root,
		step{result: oracle.Pass},
		step{result: oracle.Pass},
		step{result: oracle.Pass},
	)
	rep, err := eng2.Run(context.Background(), files, nil)
	if err != nil {
		t.Fatalf("second Run() error = %v", err)
	}

	if got := rep.Counts()[report.Ignored]; got != 3 {
		t.Errorf("second run Ignored count = %d, want 3", got)
	}
	for _, f := range files {
		if got := readFile(t, root, f); got != contentAfterFirst[f] {
			t.Errorf("%s content changed on second run: %q", f, got)
		}
	}
}
