package unitlite

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"

	"github.com/unitlite/unitlite/flags"
)

// Config holds the application configuration
type Config struct {
	SuiteConfig      string        // Path to suite config file; empty means no overrides
	Selection        []string      // Selection tokens; empty runs everything
	DefaultTimeLimit time.Duration // Default per-test time limit; 0 runs unbounded
	RunInterval      time.Duration // Interval between test runs
	RunOnce          bool          // Indicates if the service should exit after one test run
	LogDir           string        // Directory to store per-run result files
	TAPOutput        bool          // Emit TAP on stdout instead of the results table
	DiagnosticsFirst bool          // TAP comments precede their result lines
	DemoFailures     bool          // Also register the deliberately failing demo tests
	Log              log.Logger
}

// NewConfig creates a new Config from cli context
func NewConfig(ctx *cli.Context, log log.Logger) (*Config, error) {
	if err := flags.CheckRequired(ctx); err != nil {
		return nil, fmt.Errorf("missing required flags: %w", err)
	}

	suiteConfig := ctx.String(flags.SuiteConfig.Name)
	if suiteConfig != "" {
		var err error
		suiteConfig, err = filepath.Abs(suiteConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve absolute path for suite config '%s': %w", suiteConfig, err)
		}
	}

	runInterval := ctx.Duration(flags.RunInterval.Name)
	runOnce := runInterval == 0

	logDir := ctx.String(flags.LogDir.Name)
	if logDir == "" {
		logDir = "logs"
	}
	logDir, err := filepath.Abs(logDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path for log directory '%s': %w", logDir, err)
	}

	return &Config{
		SuiteConfig:      suiteConfig,
		Selection:        ctx.StringSlice(flags.Select.Name),
		DefaultTimeLimit: ctx.Duration(flags.DefaultTimeLimit.Name),
		RunInterval:      runInterval,
		RunOnce:          runOnce,
		LogDir:           logDir,
		TAPOutput:        ctx.Bool(flags.TAPOutput.Name),
		DiagnosticsFirst: ctx.Bool(flags.DiagnosticsFirst.Name),
		DemoFailures:     ctx.Bool(flags.DemoFailures.Name),
		Log:              log,
	}, nil
}
