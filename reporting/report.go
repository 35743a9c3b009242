// Package reporting carries test outcomes across the reporter boundary:
// the runner emits ordered events and a final summary, and sinks turn them
// into TAP streams, console tables, or files.
package reporting

import (
	"time"

	"github.com/unitlite/unitlite/types"
)

// Event describes one completed test, in execution order. Index is the
// 1-based position within the run.
type Event struct {
	Index           int
	Name            string
	Status          types.TestStatus
	Signal          types.Signal
	Duration        time.Duration
	Limit           time.Duration
	Bounded         bool
	Diagnostic      string
	ExpectedFailure bool
}

// Summary describes a finished run. FailedTests holds the names of failed
// and errored tests in execution order.
type Summary struct {
	RunID       string
	Status      types.TestStatus
	Duration    time.Duration
	Stats       types.RunStats
	FailedTests []string
}

// Reporter receives the run as it happens. Calls arrive from a single
// goroutine in order: Plan, then Warnings and TestCompleted events
// interleaved, then exactly one Complete.
type Reporter interface {
	// Plan announces how many tests the run will execute.
	Plan(total int)

	// Warning reports a run-level advisory, such as a selection token that
	// matched nothing.
	Warning(msg string)

	// TestCompleted reports one finished test.
	TestCompleted(ev Event)

	// Complete finishes the run. Sinks flush here.
	Complete(summary Summary) error
}

// Discard is a Reporter that drops everything.
type Discard struct{}

func (Discard) Plan(int)               {}
func (Discard) Warning(string)         {}
func (Discard) TestCompleted(Event)    {}
func (Discard) Complete(Summary) error { return nil }

// MultiReporter fans events out to several reporters. Complete runs every
// reporter and returns the first error encountered.
type MultiReporter struct {
	reporters []Reporter
}

func NewMultiReporter(reporters ...Reporter) *MultiReporter {
	return &MultiReporter{reporters: reporters}
}

func (m *MultiReporter) Plan(total int) {
	for _, r := range m.reporters {
		r.Plan(total)
	}
}

func (m *MultiReporter) Warning(msg string) {
	for _, r := range m.reporters {
		r.Warning(msg)
	}
}

func (m *MultiReporter) TestCompleted(ev Event) {
	for _, r := range m.reporters {
		r.TestCompleted(ev)
	}
}

func (m *MultiReporter) Complete(summary Summary) error {
	var firstErr error
	for _, r := range m.reporters {
		if err := r.Complete(summary); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
