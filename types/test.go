package types

import (
	"fmt"
	"time"
)

// TestStatus represents the classified outcome of a test execution
type TestStatus string

const (
	TestStatusPass  TestStatus = "pass"
	TestStatusFail  TestStatus = "fail"
	TestStatusError TestStatus = "error"
)

// Signal is the raw completion signal produced by a test body before
// expectation inversion is applied.
type Signal int

const (
	SignalCompleted Signal = iota
	SignalAssertionRaised
	SignalFaulted
	SignalTimedOut
	SignalUncaughtOther
)

func (s Signal) String() string {
	switch s {
	case SignalCompleted:
		return "completed"
	case SignalAssertionRaised:
		return "assertion"
	case SignalFaulted:
		return "fault"
	case SignalTimedOut:
		return "timeout"
	case SignalUncaughtOther:
		return "uncaught"
	default:
		return fmt.Sprintf("signal(%d)", int(s))
	}
}

// TestResult captures the outcome of a single test run
type TestResult struct {
	Name            string
	Status          TestStatus
	Signal          Signal
	Duration        time.Duration
	Limit           time.Duration // configured time limit; 0 when unbounded
	Bounded         bool          // whether the body ran under a supervisor
	Diagnostic      string        // why the body stopped; empty for a clean completion
	ExpectedFailure bool          // expectation inversion was requested
}

// Classify maps a raw completion signal to a test status, applying
// expectation inversion when the test declared itself expected to fail.
func Classify(sig Signal, expectFail bool) TestStatus {
	if expectFail {
		if sig == SignalCompleted {
			return TestStatusFail
		}
		return TestStatusPass
	}
	switch sig {
	case SignalCompleted:
		return TestStatusPass
	case SignalAssertionRaised:
		return TestStatusFail
	default:
		return TestStatusError
	}
}
