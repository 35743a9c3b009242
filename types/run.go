package types

import (
	"fmt"
	"time"
)

// RunStats tracks test tallies for one run
type RunStats struct {
	Total     int
	Passed    int
	Failed    int
	Errored   int
	StartTime time.Time
	EndTime   time.Time
}

// RunResult captures the complete results of one suite run
type RunResult struct {
	RunID       string
	Status      TestStatus
	Duration    time.Duration
	Stats       RunStats
	Tests       []*TestResult
	FailedTests []string // names of non-passing tests, in execution order
}

// Record folds one test result into the run, keeping FailedTests in
// execution order.
func (r *RunResult) Record(tr *TestResult) {
	r.Tests = append(r.Tests, tr)
	r.Stats.Total++
	switch tr.Status {
	case TestStatusPass:
		r.Stats.Passed++
	case TestStatusFail:
		r.Stats.Failed++
		r.FailedTests = append(r.FailedTests, tr.Name)
	default:
		r.Stats.Errored++
		r.FailedTests = append(r.FailedTests, tr.Name)
	}
}

// Finalize derives the overall run status and duration from the tallies.
func (r *RunResult) Finalize() {
	r.Stats.EndTime = time.Now()
	r.Duration = r.Stats.EndTime.Sub(r.Stats.StartTime)
	if r.Stats.Failed > 0 || r.Stats.Errored > 0 {
		r.Status = TestStatusFail
	} else {
		r.Status = TestStatusPass
	}
}

func (r *RunResult) String() string {
	rate := 0.0
	if r.Stats.Total > 0 {
		rate = 100.0 * float64(r.Stats.Passed) / float64(r.Stats.Total)
	}
	return fmt.Sprintf("passed %d out of %d tests (%d failed, %d errored), for a success rate of %.1f%%",
		r.Stats.Passed, r.Stats.Total, r.Stats.Failed, r.Stats.Errored, rate)
}
