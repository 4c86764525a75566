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

// Package display renders per-file progress and the final outcome summary on
// the console. Colors degrade automatically on non-TTY output.
package display

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/debridehq/debride/internal/report"
)

var outcomeColors = map[report.Outcome]*color.Color{
	report.ReplaceOk:    color.New(color.FgGreen),
	report.RemoveOk:     color.New(color.FgGreen),
	report.UnmodifiedOk: color.New(color.FgYellow),
	report.Ignored:      color.New(color.FgHiBlack),
}

// Progress prints one line per resolved file and a closing summary.
type Progress struct {
	writer  io.Writer
	total   int
	current int
}

// NewProgress creates a progress printer for a run over total files.
func NewProgress(w io.Writer, total int) *Progress {
	return &Progress{
		writer: w,
		total:  total,
	}
}

// Start displays the run header.
func (p *Progress) Start() {
	fmt.Fprintf(p.writer, "Processing %d target test files:\n", p.total)
}

// FileDone displays the terminal outcome for one file: [N/Total] path outcome
func (p *Progress) FileDone(path string, outcome report.Outcome) {
	p.current++
	label := outcome.String()
	if c, ok := outcomeColors[outcome]; ok {
		label = c.Sprint(label)
	}
	fmt.Fprintf(p.writer, "  [%d/%d] %s %s\n", p.current, p.total, path, label)
}

// Summary displays per-outcome counts and the report location.
func (p *Progress) Summary(counts map[report.Outcome]int, reportPath string) {
	fmt.Fprintf(p.writer, "%s %d replaced, %d removed, %d unmodified, %d ignored\n",
		color.GreenString("✓"),
		counts[report.ReplaceOk],
		counts[report.RemoveOk],
		counts[report.UnmodifiedOk],
		counts[report.Ignored])
	fmt.Fprintf(p.writer, "Report written to %s\n", reportPath)
}
