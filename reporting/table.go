package reporting

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/unitlite/unitlite/types"
)

// TableReporter collects the run and renders it as a console table on
// Complete.
type TableReporter struct {
	w        io.Writer
	events   []Event
	warnings []string
}

func NewTableReporter(w io.Writer) *TableReporter {
	return &TableReporter{w: w}
}

func (r *TableReporter) Plan(int) {}

func (r *TableReporter) Warning(msg string) {
	r.warnings = append(r.warnings, msg)
}

func (r *TableReporter) TestCompleted(ev Event) {
	r.events = append(r.events, ev)
}

func (r *TableReporter) Complete(summary Summary) error {
	t := table.NewWriter()
	t.SetOutputMirror(r.w)
	t.SetTitle(fmt.Sprintf("Test Results (%s)", formatDuration(summary.Duration)))

	t.AppendHeader(table.Row{
		"#", "Test", "Duration", "Limit", "Status", "Diagnostic",
	})

	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "#", Align: text.AlignRight},
		{Name: "Test", WidthMax: 50, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Duration", Align: text.AlignRight},
		{Name: "Limit", Align: text.AlignRight},
		{Name: "Diagnostic", WidthMax: 60, WidthMaxEnforcer: text.WrapSoft},
	})

	for _, ev := range r.events {
		name := ev.Name
		if ev.ExpectedFailure {
			name += " (expected failure)"
		}
		t.AppendRow(table.Row{
			ev.Index,
			name,
			formatDuration(ev.Duration),
			formatLimit(ev),
			statusString(ev.Status),
			firstLine(ev.Diagnostic),
		})
	}

	if summary.Status == types.TestStatusPass {
		t.SetStyle(table.StyleColoredBlackOnGreenWhite)
	} else {
		t.SetStyle(table.StyleColoredBlackOnRedWhite)
	}

	t.AppendFooter(table.Row{
		"",
		"TOTAL",
		formatDuration(summary.Duration),
		"",
		statusString(summary.Status),
		fmt.Sprintf("%d passed, %d failed, %d errored",
			summary.Stats.Passed, summary.Stats.Failed, summary.Stats.Errored),
	})

	t.Render()

	for _, w := range r.warnings {
		fmt.Fprintf(r.w, "warning: %s\n", w)
	}
	return nil
}

// Helper function to format duration to seconds with 1 decimal place
func formatDuration(d time.Duration) string {
	return fmt.Sprintf("%.1fs", d.Seconds())
}

func formatLimit(ev Event) string {
	if !ev.Bounded {
		return "-"
	}
	return formatDuration(ev.Limit)
}

func statusString(s types.TestStatus) string {
	switch s {
	case types.TestStatusPass:
		return "✓ pass"
	case types.TestStatusFail:
		return "✗ fail"
	default:
		return "! error"
	}
}

// firstLine truncates a multi-line diagnostic for tabular display.
func firstLine(s string) string {
	for i, c := range s {
		if c == '\n' {
			return s[:i] + " ..."
		}
	}
	return s
}
