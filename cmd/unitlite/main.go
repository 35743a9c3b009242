package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/log"
	"github.com/honeycombio/otel-config-go/otelconfig"
	"github.com/urfave/cli/v2"

	unitlite "github.com/unitlite/unitlite"
	"github.com/unitlite/unitlite/demo"
	"github.com/unitlite/unitlite/exitcodes"
	"github.com/unitlite/unitlite/flags"
	"github.com/unitlite/unitlite/service"
)

var (
	Version   = "v0.1.0"
	GitCommit = ""
	GitDate   = ""
)

func main() {
	app := cli.NewApp()
	app.Version = fmt.Sprintf("%s-%s-%s", Version, GitCommit, GitDate)
	app.Name = "unitlite"
	app.Usage = "Unit test engine service"
	app.Description = "unitlite runs registered test suites with time limits, fault containment, and TAP reporting"
	app.Flags = flags.Flags
	app.Action = run
	app.ExitErrHandler = func(c *cli.Context, err error) {
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			// Use the exit code from the ExitCoder
			cli.HandleExitCoder(exitErr)
		} else if err != nil {
			cli.HandleExitCoder(cli.Exit(err.Error(), exitCodeFor(err)))
		}
	}

	// Start telemetry
	shutdown, err := otelconfig.ConfigureOpenTelemetry(
		otelconfig.WithServiceName(app.Name),
		otelconfig.WithServiceVersion(app.Version),
	)
	if err != nil {
		log.Crit("Failed to setup open telemetry", "message", err)
	}
	defer shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start sidecar servers
	svc := service.New()
	svc.Start(ctx)
	defer svc.Shutdown()

	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Crit("Application failed", "message", err)
	}
}

// exitCodeFor maps typed errors to the process exit code: runtime errors
// exit with RuntimeErr, test failures and anything unrecognized with
// TestFailure.
func exitCodeFor(err error) int {
	if err == nil {
		return exitcodes.Success
	}
	if unitlite.IsRuntimeError(err) {
		return exitcodes.RuntimeErr
	}
	return exitcodes.TestFailure
}

func run(ctx *cli.Context) error {
	logger := newLogger(ctx.String(flags.LogLevel.Name))

	cfg, err := unitlite.NewConfig(ctx, logger)
	if err != nil {
		// Wrap in RuntimeError to signal this should exit with code 2
		return unitlite.NewRuntimeError(fmt.Errorf("failed to create config: %w", err))
	}

	cfg.Log.Debug("Config", "config", cfg)

	engine, err := unitlite.New(ctx.Context, cfg, Version, nil)
	if err != nil {
		// Wrap in RuntimeError to signal this should exit with code 2
		return unitlite.NewRuntimeError(fmt.Errorf("failed to create engine: %w", err))
	}

	if err := demo.Register(engine.Registry()); err != nil {
		return unitlite.NewRuntimeError(fmt.Errorf("failed to register demo suite: %w", err))
	}
	if cfg.DemoFailures {
		if err := demo.RegisterFailing(engine.Registry()); err != nil {
			return unitlite.NewRuntimeError(fmt.Errorf("failed to register failing demo suite: %w", err))
		}
	}

	if err := engine.Start(ctx.Context); err != nil {
		return err
	}
	if cfg.RunOnce {
		return nil
	}

	// Continuous mode: run until interrupted.
	<-ctx.Context.Done()
	if err := engine.Stop(context.Background()); err != nil {
		logger.Error("Error stopping engine", "error", err)
	}
	return engine.WaitForShutdown(context.Background())
}

func newLogger(level string) log.Logger {
	lvl := levelFromString(level)
	logger := log.NewLogger(log.NewTerminalHandlerWithLevel(os.Stderr, lvl, true))
	log.SetDefault(logger)
	return logger
}

func levelFromString(level string) slog.Level {
	switch level {
	case "trace":
		return log.LevelTrace
	case "debug":
		return log.LevelDebug
	case "warn":
		return log.LevelWarn
	case "error":
		return log.LevelError
	case "crit":
		return log.LevelCrit
	default:
		return log.LevelInfo
	}
}
