package runner

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/unitlite/unitlite/assert"
	"github.com/unitlite/unitlite/metrics"
	"github.com/unitlite/unitlite/registry"
	"github.com/unitlite/unitlite/reporting"
	"github.com/unitlite/unitlite/types"
)

// TestRunner executes registered tests and aggregates their results
type TestRunner interface {
	// RunTests runs the tests selected by the given tokens (all tests when
	// tokens is empty) and returns the aggregated result. The error is
	// non-nil only for run-level problems such as context cancellation;
	// individual test failures are reported through the result.
	RunTests(ctx context.Context, tokens []string) (*types.RunResult, error)
}

// Config holds configuration for creating a new runner
type Config struct {
	Registry *registry.Registry
	Log      log.Logger

	// Probe reports whether a debugger is attached. When it returns true,
	// time limits are suspended for the run so a paused process is not
	// reported as an infinite loop. Nil selects DefaultDebuggerProbe.
	Probe DebuggerProbe

	// Reporter receives per-test events and the final summary. Nil disables
	// reporting.
	Reporter reporting.Reporter
}

type testRunner struct {
	registry *registry.Registry
	log      log.Logger
	probe    DebuggerProbe
	reporter reporting.Reporter
	runID    string
	tracer   trace.Tracer
}

// NewTestRunner creates a new test runner instance
func NewTestRunner(cfg Config) (TestRunner, error) {
	if cfg.Registry == nil {
		return nil, fmt.Errorf("registry is required")
	}
	if cfg.Log == nil {
		cfg.Log = log.New()
		cfg.Log.Error("No logger provided, using default")
	}
	if cfg.Probe == nil {
		cfg.Probe = DefaultDebuggerProbe
	}
	if cfg.Reporter == nil {
		cfg.Reporter = reporting.Discard{}
	}

	return &testRunner{
		registry: cfg.Registry,
		log:      cfg.Log,
		probe:    cfg.Probe,
		reporter: cfg.Reporter,
		tracer:   otel.Tracer("test runner"),
	}, nil
}

// RunTests implements the TestRunner interface
func (r *testRunner) RunTests(ctx context.Context, tokens []string) (*types.RunResult, error) {
	r.runID = uuid.New().String()
	defer func() {
		r.runID = ""
	}()

	start := time.Now()
	r.log.Debug("Starting test run", "run_id", r.runID, "tokens", tokens)

	ctx, span := r.tracer.Start(ctx, fmt.Sprintf("run %s", r.runID))
	defer span.End()

	names, warnings := r.registry.Select(tokens)
	for _, w := range warnings {
		r.log.Warn("Selection warning", "warning", w)
		r.reporter.Warning(w)
	}

	result := &types.RunResult{
		RunID: r.runID,
		Stats: types.RunStats{StartTime: start},
	}
	r.reporter.Plan(len(names))

	for i, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("run aborted: %w", err)
		}
		d, ok := r.registry.Get(name)
		if !ok {
			// Selection raced a registry mutation; skip rather than fail the run.
			r.log.Warn("Selected test no longer registered", "test", name)
			continue
		}
		tr := r.runTest(ctx, d)
		result.Record(tr)
		metrics.RecordTest(r.runID, tr.Name, string(tr.Status), tr.Duration)
		r.reporter.TestCompleted(reporting.Event{
			Index:           i + 1,
			Name:            tr.Name,
			Status:          tr.Status,
			Signal:          tr.Signal,
			Duration:        tr.Duration,
			Limit:           tr.Limit,
			Bounded:         tr.Bounded,
			Diagnostic:      tr.Diagnostic,
			ExpectedFailure: tr.ExpectedFailure,
		})
	}

	result.Finalize()
	metrics.RecordRun(r.runID, string(result.Status), result.Stats)
	if err := r.reporter.Complete(reporting.Summary{
		RunID:       result.RunID,
		Status:      result.Status,
		Duration:    result.Duration,
		Stats:       result.Stats,
		FailedTests: result.FailedTests,
	}); err != nil {
		r.log.Error("Reporter failed to complete", "error", err)
	}

	r.log.Info("Test run complete", "run_id", result.RunID, "status", result.Status,
		"passed", result.Stats.Passed, "failed", result.Stats.Failed,
		"errored", result.Stats.Errored, "duration", result.Duration)
	return result, nil
}

// runTest executes a single test on a fresh handle and classifies the outcome.
// The debugger probe is consulted before each bounded test so attaching
// mid-run suspends limits from that point on.
func (r *testRunner) runTest(ctx context.Context, d *registry.Descriptor) *types.TestResult {
	ctx, span := r.tracer.Start(ctx, fmt.Sprintf("test %s", d.Name))
	defer span.End()

	t := assert.NewT(d.Name)
	bounded := d.TimeLimit > 0
	if bounded && r.probe() {
		r.log.Warn("Debugger detected, time limit suspended", "test", d.Name)
		bounded = false
	}

	r.log.Debug("Running test", "test", d.Name, "limit", d.TimeLimit, "bounded", bounded)
	start := time.Now()

	var sig types.Signal
	var diag string
	if bounded {
		sig, diag = r.runBounded(ctx, t, d)
	} else {
		sig, diag = runGuarded(t, d.Body)
	}
	duration := time.Since(start)

	expectFail := t.ExpectedToFail()
	status := types.Classify(sig, expectFail)
	if expectFail && sig == types.SignalCompleted {
		diag = "passed but was expected to fail"
	}

	tr := &types.TestResult{
		Name:            d.Name,
		Status:          status,
		Signal:          sig,
		Duration:        duration,
		Limit:           d.TimeLimit,
		Bounded:         bounded,
		Diagnostic:      diag,
		ExpectedFailure: expectFail,
	}
	r.log.Debug("Test finished", "test", d.Name, "status", status, "signal", sig, "duration", duration)
	return tr
}

// handoff is the result cell shared between a worker goroutine and its
// supervisor. Once the supervisor marks it abandoned, a late-finishing
// worker drops its result on the floor instead of delivering it.
type handoff struct {
	mu        sync.Mutex
	abandoned bool
	sig       types.Signal
	diag      string
	done      chan struct{}
}

// deliver records the worker's outcome unless the supervisor has already
// given up on it.
func (h *handoff) deliver(sig types.Signal, diag string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.abandoned {
		return
	}
	h.sig = sig
	h.diag = diag
	close(h.done)
}

// abandon tells a still-running worker its result is no longer wanted.
// It reports false if the worker delivered first.
func (h *handoff) abandon() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	select {
	case <-h.done:
		return false
	default:
	}
	h.abandoned = true
	return true
}

// runBounded runs the body on a worker goroutine and waits up to the test's
// time limit. A worker that outlives its limit keeps running detached; its
// eventual result is discarded and never touches run state.
func (r *testRunner) runBounded(ctx context.Context, t *assert.T, d *registry.Descriptor) (types.Signal, string) {
	h := &handoff{done: make(chan struct{})}

	go func() {
		sig, diag := runGuarded(t, d.Body)
		h.deliver(sig, diag)
	}()

	timer := time.NewTimer(d.TimeLimit)
	defer timer.Stop()

	select {
	case <-h.done:
		return h.sig, h.diag
	case <-timer.C:
		if !h.abandon() {
			// Worker delivered in the race window; honor its result.
			return h.sig, h.diag
		}
		r.log.Warn("Test exceeded its time limit", "test", d.Name, "limit", d.TimeLimit)
		return types.SignalTimedOut, fmt.Sprintf(
			"still running after %d milliseconds - possible infinite loop?", d.TimeLimit.Milliseconds())
	case <-ctx.Done():
		if !h.abandon() {
			return h.sig, h.diag
		}
		return types.SignalTimedOut, fmt.Sprintf("abandoned: %v", ctx.Err())
	}
}

// runGuarded invokes the body and converts anything it raises into a signal.
// Assertion failures are the expected raise; runtime faults (nil dereference,
// division by zero, out-of-range indexing) are contained the same way so one
// faulting test cannot take down the run. Faults raised outside the Go
// runtime are not catchable and remain fatal to the process.
func runGuarded(t *assert.T, body registry.TestFunc) (sig types.Signal, diag string) {
	defer func() {
		rec := recover()
		if rec == nil {
			return
		}
		switch e := rec.(type) {
		case *assert.Failure:
			sig, diag = types.SignalAssertionRaised, e.Error()
		case runtime.Error:
			sig, diag = types.SignalFaulted, e.Error()
		case error:
			sig, diag = types.SignalUncaughtOther, e.Error()
		default:
			sig, diag = types.SignalUncaughtOther, fmt.Sprintf("uncaught panic: %v", e)
		}
	}()

	body(t)
	return types.SignalCompleted, ""
}
