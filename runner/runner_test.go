package runner

import (
	"context"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/log"
	tassert "github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unitlite/unitlite/assert"
	"github.com/unitlite/unitlite/match"
	"github.com/unitlite/unitlite/registry"
	"github.com/unitlite/unitlite/reporting"
	"github.com/unitlite/unitlite/types"
)

func newRunnerWith(t *testing.T, probe DebuggerProbe, rep reporting.Reporter, register func(r *registry.Registry)) TestRunner {
	t.Helper()
	reg, err := registry.NewRegistry(registry.Config{
		Log:              log.New(),
		DefaultTimeLimit: 5 * time.Second,
	})
	require.NoError(t, err)
	register(reg)

	r, err := NewTestRunner(Config{
		Registry: reg,
		Log:      log.New(),
		Probe:    probe,
		Reporter: rep,
	})
	require.NoError(t, err)
	return r
}

func noDebugger() bool { return false }

func runOne(t *testing.T, body registry.TestFunc) *types.TestResult {
	t.Helper()
	r := newRunnerWith(t, noDebugger, nil, func(reg *registry.Registry) {
		require.NoError(t, reg.Register("TestSubject", body))
	})
	result, err := r.RunTests(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, result.Tests, 1)
	return result.Tests[0]
}

func TestNewTestRunnerRequiresRegistry(t *testing.T) {
	_, err := NewTestRunner(Config{Log: log.New()})
	require.Error(t, err)
}

func TestEmptyBodyPasses(t *testing.T) {
	tr := runOne(t, func(ut *assert.T) {})
	tassert.Equal(t, types.TestStatusPass, tr.Status)
	tassert.Equal(t, types.SignalCompleted, tr.Signal)
	tassert.Empty(t, tr.Diagnostic)
}

func TestAssertionFailureFails(t *testing.T) {
	tr := runOne(t, func(ut *assert.T) {
		ut.AssertThat(2, match.IsEqualTo(1))
	})
	tassert.Equal(t, types.TestStatusFail, tr.Status)
	tassert.Equal(t, types.SignalAssertionRaised, tr.Signal)
	tassert.Contains(t, tr.Diagnostic, "Expected: 1")
	tassert.Contains(t, tr.Diagnostic, "Observed: 2")
}

func TestAssertionAfterFailureNotReached(t *testing.T) {
	reached := false
	tr := runOne(t, func(ut *assert.T) {
		ut.AssertTrue(false)
		reached = true
	})
	tassert.Equal(t, types.TestStatusFail, tr.Status)
	tassert.False(t, reached, "raising must abort the body")
}

func TestExplicitPanicIsError(t *testing.T) {
	tr := runOne(t, func(ut *assert.T) {
		panic("kaboom")
	})
	tassert.Equal(t, types.TestStatusError, tr.Status)
	tassert.Equal(t, types.SignalUncaughtOther, tr.Signal)
	tassert.Contains(t, tr.Diagnostic, "kaboom")
}

func TestNilDereferenceIsContained(t *testing.T) {
	tr := runOne(t, func(ut *assert.T) {
		var p *int
		_ = *p
	})
	tassert.Equal(t, types.TestStatusError, tr.Status)
	tassert.Equal(t, types.SignalFaulted, tr.Signal)
	tassert.Contains(t, tr.Diagnostic, "runtime error")
}

func TestDivisionByZeroIsContained(t *testing.T) {
	zero := 0
	tr := runOne(t, func(ut *assert.T) {
		_ = 1 / zero
	})
	tassert.Equal(t, types.TestStatusError, tr.Status)
	tassert.Equal(t, types.SignalFaulted, tr.Signal)
}

func TestIndexOutOfRangeIsContained(t *testing.T) {
	idx := 5
	tr := runOne(t, func(ut *assert.T) {
		s := []int{1, 2}
		_ = s[idx]
	})
	tassert.Equal(t, types.TestStatusError, tr.Status)
	tassert.Equal(t, types.SignalFaulted, tr.Signal)
}

func TestTimeLimitExceeded(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	r := newRunnerWith(t, noDebugger, nil, func(reg *registry.Registry) {
		require.NoError(t, reg.RegisterTimed("TestSpin", 100*time.Millisecond, func(ut *assert.T) {
			<-release
		}))
	})

	start := time.Now()
	result, err := r.RunTests(context.Background(), nil)
	require.NoError(t, err)

	tr := result.Tests[0]
	tassert.Equal(t, types.TestStatusError, tr.Status)
	tassert.Equal(t, types.SignalTimedOut, tr.Signal)
	tassert.Contains(t, tr.Diagnostic, "100 milliseconds")
	tassert.Contains(t, tr.Diagnostic, "possible infinite loop")
	tassert.Less(t, time.Since(start), 2*time.Second, "supervisor must not wait for the worker")
}

func TestLateCompletionDiscarded(t *testing.T) {
	release := make(chan struct{})

	r := newRunnerWith(t, noDebugger, nil, func(reg *registry.Registry) {
		require.NoError(t, reg.RegisterTimed("TestLate", 50*time.Millisecond, func(ut *assert.T) {
			<-release
		}))
	})

	result, err := r.RunTests(context.Background(), nil)
	require.NoError(t, err)
	tassert.Equal(t, types.SignalTimedOut, result.Tests[0].Signal)

	// Let the abandoned worker finish; the recorded result must not change.
	close(release)
	time.Sleep(50 * time.Millisecond)
	tassert.Equal(t, types.SignalTimedOut, result.Tests[0].Signal)
	tassert.Equal(t, types.TestStatusError, result.Tests[0].Status)
	tassert.Equal(t, 1, result.Stats.Errored)
}

func TestDebuggerProbeSuspendsLimits(t *testing.T) {
	attached := func() bool { return true }

	r := newRunnerWith(t, attached, nil, func(reg *registry.Registry) {
		require.NoError(t, reg.RegisterTimed("TestSlowButFine", 10*time.Millisecond, func(ut *assert.T) {
			time.Sleep(50 * time.Millisecond)
		}))
	})

	result, err := r.RunTests(context.Background(), nil)
	require.NoError(t, err)
	tr := result.Tests[0]
	tassert.Equal(t, types.TestStatusPass, tr.Status)
	tassert.False(t, tr.Bounded)
}

func TestZeroLimitRunsUnbounded(t *testing.T) {
	r := newRunnerWith(t, noDebugger, nil, func(reg *registry.Registry) {
		require.NoError(t, reg.RegisterTimed("TestUnbounded", 0, func(ut *assert.T) {
			time.Sleep(20 * time.Millisecond)
		}))
	})

	result, err := r.RunTests(context.Background(), nil)
	require.NoError(t, err)
	tassert.Equal(t, types.TestStatusPass, result.Tests[0].Status)
	tassert.False(t, result.Tests[0].Bounded)
}

func TestExpectedFailureInvertsFail(t *testing.T) {
	tr := runOne(t, func(ut *assert.T) {
		ut.ExpectFailure()
		ut.AssertTrue(false)
	})
	tassert.Equal(t, types.TestStatusPass, tr.Status)
	tassert.True(t, tr.ExpectedFailure)
}

func TestExpectedFailureInvertsPass(t *testing.T) {
	tr := runOne(t, func(ut *assert.T) {
		ut.ExpectFailure()
	})
	tassert.Equal(t, types.TestStatusFail, tr.Status)
	tassert.Equal(t, types.SignalCompleted, tr.Signal)
	tassert.Equal(t, "passed but was expected to fail", tr.Diagnostic)
}

func TestExpectedFailureTimeoutStillPasses(t *testing.T) {
	r := newRunnerWith(t, noDebugger, nil, func(reg *registry.Registry) {
		require.NoError(t, reg.RegisterTimed("TestXTimeout", 50*time.Millisecond, func(ut *assert.T) {
			ut.ExpectFailure()
			select {}
		}))
	})

	result, err := r.RunTests(context.Background(), nil)
	require.NoError(t, err)
	tassert.Equal(t, types.TestStatusPass, result.Tests[0].Status)
	tassert.Equal(t, types.SignalTimedOut, result.Tests[0].Signal)
}

func TestFreshHandlePerExecution(t *testing.T) {
	var seen []*assert.T
	r := newRunnerWith(t, noDebugger, nil, func(reg *registry.Registry) {
		require.NoError(t, reg.Register("TestHandle", func(ut *assert.T) {
			seen = append(seen, ut)
		}))
	})

	_, err := r.RunTests(context.Background(), nil)
	require.NoError(t, err)
	_, err = r.RunTests(context.Background(), nil)
	require.NoError(t, err)

	require.Len(t, seen, 2)
	tassert.NotSame(t, seen[0], seen[1])
}

func TestRunAggregatesAndOrders(t *testing.T) {
	var order []string
	record := func(name string, fail bool) registry.TestFunc {
		return func(ut *assert.T) {
			order = append(order, name)
			if fail {
				ut.Fail("deliberate")
			}
		}
	}

	r := newRunnerWith(t, noDebugger, nil, func(reg *registry.Registry) {
		require.NoError(t, reg.Register("TestC", record("TestC", true)))
		require.NoError(t, reg.Register("TestA", record("TestA", false)))
		require.NoError(t, reg.Register("TestB", record("TestB", true)))
	})

	result, err := r.RunTests(context.Background(), nil)
	require.NoError(t, err)

	// execution follows the registry's lexicographic order
	tassert.Equal(t, []string{"TestA", "TestB", "TestC"}, order)
	tassert.Equal(t, 3, result.Stats.Total)
	tassert.Equal(t, 1, result.Stats.Passed)
	tassert.Equal(t, 2, result.Stats.Failed)
	tassert.Equal(t, []string{"TestB", "TestC"}, result.FailedTests)
	tassert.Equal(t, types.TestStatusFail, result.Status)
	tassert.NotEmpty(t, result.RunID)
}

func TestRunSelectionTokens(t *testing.T) {
	var ran []string
	track := func(name string) registry.TestFunc {
		return func(ut *assert.T) { ran = append(ran, name) }
	}

	rep := &recordingReporter{}
	r := newRunnerWith(t, noDebugger, rep, func(reg *registry.Registry) {
		require.NoError(t, reg.Register("TestBasicMath", track("TestBasicMath")))
		require.NoError(t, reg.Register("TestStrings", track("TestStrings")))
	})

	result, err := r.RunTests(context.Background(), []string{"Math", "Nope"})
	require.NoError(t, err)
	tassert.Equal(t, []string{"TestBasicMath"}, ran)
	tassert.Equal(t, 1, result.Stats.Total)
	require.Len(t, rep.warnings, 1)
	tassert.Contains(t, rep.warnings[0], `"Nope"`)
	tassert.Equal(t, []int{1}, rep.plans)
}

func TestRunReportsEvents(t *testing.T) {
	rep := &recordingReporter{}
	r := newRunnerWith(t, noDebugger, rep, func(reg *registry.Registry) {
		require.NoError(t, reg.Register("TestA", func(ut *assert.T) {}))
		require.NoError(t, reg.Register("TestB", func(ut *assert.T) { ut.Fail("no") }))
	})

	_, err := r.RunTests(context.Background(), nil)
	require.NoError(t, err)

	require.Len(t, rep.events, 2)
	tassert.Equal(t, 1, rep.events[0].Index)
	tassert.Equal(t, "TestA", rep.events[0].Name)
	tassert.Equal(t, types.TestStatusPass, rep.events[0].Status)
	tassert.Equal(t, 2, rep.events[1].Index)
	tassert.Equal(t, types.TestStatusFail, rep.events[1].Status)
	tassert.Equal(t, 1, rep.completes)
}

func TestRunCancelledContext(t *testing.T) {
	r := newRunnerWith(t, noDebugger, nil, func(reg *registry.Registry) {
		require.NoError(t, reg.Register("TestNeverRuns", func(ut *assert.T) {}))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := r.RunTests(ctx, nil)
	require.Error(t, err)
}

func TestDistinctRunIDs(t *testing.T) {
	r := newRunnerWith(t, noDebugger, nil, func(reg *registry.Registry) {
		require.NoError(t, reg.Register("TestID", func(ut *assert.T) {}))
	})

	a, err := r.RunTests(context.Background(), nil)
	require.NoError(t, err)
	b, err := r.RunTests(context.Background(), nil)
	require.NoError(t, err)
	tassert.NotEqual(t, a.RunID, b.RunID)
}

type recordingReporter struct {
	plans     []int
	warnings  []string
	events    []reporting.Event
	completes int
}

func (r *recordingReporter) Plan(total int)                   { r.plans = append(r.plans, total) }
func (r *recordingReporter) Warning(msg string)               { r.warnings = append(r.warnings, msg) }
func (r *recordingReporter) TestCompleted(ev reporting.Event) { r.events = append(r.events, ev) }
func (r *recordingReporter) Complete(reporting.Summary) error { r.completes++; return nil }
