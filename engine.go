// Package unitlite wires the test registry, runner, and reporting sinks into
// a runnable engine, either for a single run or on a periodic schedule.
package unitlite

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/unitlite/unitlite/registry"
	"github.com/unitlite/unitlite/reporting"
	"github.com/unitlite/unitlite/runner"
	"github.com/unitlite/unitlite/types"
)

// Engine owns a registry and a runner and executes the configured suite,
// once or periodically.
type Engine struct {
	ctx      context.Context
	config   *Config
	version  string
	registry *registry.Registry
	runner   runner.TestRunner
	result   *types.RunResult

	scheduler TestScheduler

	shutdownCallback func(error) // Callback to signal application shutdown
}

// New builds an engine from the given config. Tests are registered against
// Registry() before Start is called.
func New(ctx context.Context, config *Config, version string, shutdownCallback func(error)) (*Engine, error) {
	if config == nil {
		return nil, errors.New("config is required")
	}

	config.Log.Debug("Creating engine with config",
		"suiteConfig", config.SuiteConfig,
		"selection", config.Selection,
		"runInterval", config.RunInterval,
		"runOnce", config.RunOnce,
		"defaultTimeLimit", config.DefaultTimeLimit)

	reg, err := registry.NewRegistry(registry.Config{
		Log:              config.Log,
		SuiteConfigFile:  config.SuiteConfig,
		DefaultTimeLimit: config.DefaultTimeLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create registry: %w", err)
	}

	testRunner, err := runner.NewTestRunner(runner.Config{
		Registry: reg,
		Log:      config.Log,
		Reporter: buildReporter(config),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create test runner: %w", err)
	}
	config.Log.Info("engine.New: created registry and test runner")

	return &Engine{
		ctx:              ctx,
		config:           config,
		version:          version,
		registry:         reg,
		runner:           testRunner,
		scheduler:        NewDefaultTestScheduler(config.RunInterval, config.RunOnce, config.Log),
		shutdownCallback: shutdownCallback,
	}, nil
}

// buildReporter assembles the sink stack for a run: TAP or a console table
// on stdout, plus a per-run file under the log directory.
func buildReporter(config *Config) reporting.Reporter {
	var console reporting.Reporter
	if config.TAPOutput {
		tap := reporting.NewTAPReporter(os.Stdout)
		tap.DiagnosticsBeforeResults = config.DiagnosticsFirst
		console = tap
	} else {
		console = reporting.NewTableReporter(os.Stdout)
	}
	if config.LogDir == "" {
		return console
	}
	return reporting.NewMultiReporter(console, reporting.NewFileSink(config.LogDir))
}

// Registry exposes the engine's registry so callers can register tests
// before starting it.
func (e *Engine) Registry() *registry.Registry {
	return e.registry
}

// Result returns the most recent run result.
func (e *Engine) Result() *types.RunResult {
	return e.result
}

// Start runs the suite, then either returns (run-once) or keeps running it
// at the configured interval until Stop.
func (e *Engine) Start(ctx context.Context) error {
	e.ctx = ctx

	if e.config.RunOnce {
		e.config.Log.Info("Starting unitlite in run-once mode")
	} else {
		e.config.Log.Info("Starting unitlite in continuous mode", "interval", e.config.RunInterval)
	}

	e.scheduler.RegisterCallback(e.runTests)
	if err := e.scheduler.Start(ctx); err != nil {
		return err
	}

	if e.config.RunOnce {
		e.config.Log.Info("Tests completed, exiting (run-once mode)")

		if e.result != nil && e.result.Status == types.TestStatusFail {
			e.config.Log.Warn("Run-once test run completed with failures, returning exit code 1")
			return NewTestFailureError(e.result.String())
		}

		// Only need to call this when we're in run-once mode and all tests passed
		if e.shutdownCallback != nil {
			go func() {
				e.shutdownCallback(nil)
			}()
		}
		return nil
	}

	e.config.Log.Debug("unitlite started successfully")
	return nil
}

// runTests runs the selected tests and records the result
func (e *Engine) runTests() error {
	e.config.Log.Info("Running tests...")
	result, err := e.runner.RunTests(e.ctx, e.config.Selection)
	if err != nil {
		// This is a runtime error (not a test failure)
		e.config.Log.Error("Runtime error running tests", "error", err)
		return NewRuntimeError(err)
	}
	e.result = result

	fmt.Println(result.String())
	e.config.Log.Info("Test run completed", "run_id", result.RunID, "status", result.Status)
	return nil
}

// Stop stops the engine.
func (e *Engine) Stop(ctx context.Context) error {
	e.config.Log.Info("Stopping unitlite")
	if err := e.scheduler.Stop(); err != nil {
		return err
	}
	e.config.Log.Info("unitlite stopped successfully")
	return nil
}

// Stopped returns true if the engine is no longer running.
func (e *Engine) Stopped() bool {
	return e.scheduler.Stopped()
}

// WaitForShutdown blocks until all goroutines have terminated.
// This is useful in tests to ensure complete cleanup before moving to the next test.
func (e *Engine) WaitForShutdown(ctx context.Context) error {
	return e.scheduler.WaitForShutdown(ctx)
}
