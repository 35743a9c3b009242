package reporting

import (
	"fmt"
	"io"
	"strings"

	"github.com/unitlite/unitlite/types"
)

// TAPReporter streams results in TAP format: a "1..N" plan followed by one
// "ok"/"not ok" line per test. Diagnostics are emitted as "#"-prefixed
// comment lines, either before or after the result line they belong to.
type TAPReporter struct {
	w io.Writer

	// DiagnosticsBeforeResults places each test's diagnostic comments ahead
	// of its result line, which some TAP consumers attribute better.
	DiagnosticsBeforeResults bool
}

func NewTAPReporter(w io.Writer) *TAPReporter {
	return &TAPReporter{w: w}
}

func (r *TAPReporter) Plan(total int) {
	fmt.Fprintf(r.w, "1..%d\n", total)
}

func (r *TAPReporter) Warning(msg string) {
	r.comment(msg)
}

func (r *TAPReporter) TestCompleted(ev Event) {
	if r.DiagnosticsBeforeResults {
		r.diagnostics(ev)
		r.resultLine(ev)
		return
	}
	r.resultLine(ev)
	r.diagnostics(ev)
}

func (r *TAPReporter) Complete(summary Summary) error {
	for _, name := range summary.FailedTests {
		r.comment("failed: " + name)
	}
	rate := 0.0
	if summary.Stats.Total > 0 {
		rate = 100.0 * float64(summary.Stats.Passed) / float64(summary.Stats.Total)
	}
	r.comment(fmt.Sprintf("unitlite: passed %d out of %d tests, for a success rate of %.1f%%",
		summary.Stats.Passed, summary.Stats.Total, rate))
	return nil
}

func (r *TAPReporter) resultLine(ev Event) {
	verdict := "not ok"
	if ev.Status == types.TestStatusPass {
		verdict = "ok"
	}
	fmt.Fprintf(r.w, "%s %d - %s\n", verdict, ev.Index, ev.Name)
}

func (r *TAPReporter) diagnostics(ev Event) {
	if ev.Diagnostic != "" {
		r.comment(ev.Diagnostic)
	}
	if ev.ExpectedFailure && ev.Status == types.TestStatusPass {
		r.comment("failed as expected")
	}
}

// comment writes a message as TAP comment lines, prefixing every line with
// "# " and flattening embedded tabs into spaces.
func (r *TAPReporter) comment(msg string) {
	for _, line := range strings.Split(msg, "\n") {
		fmt.Fprintf(r.w, "# %s\n", strings.ReplaceAll(line, "\t", "    "))
	}
}
