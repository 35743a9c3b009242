package flags

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

const EnvVarPrefix = "UNITLITE"

// prefixEnvVars prepends the service prefix to an environment variable name.
func prefixEnvVars(name string) []string {
	return []string{EnvVarPrefix + "_" + name}
}

var (
	SuiteConfig = &cli.StringFlag{
		Name:    "suite-config",
		Value:   "",
		EnvVars: prefixEnvVars("SUITE_CONFIG"),
		Usage:   "Path to suite config file carrying time limit overrides (eg. 'suite.yaml')",
	}
	Select = &cli.StringSliceFlag{
		Name:    "select",
		EnvVars: prefixEnvVars("SELECT"),
		Usage:   "Selection tokens choosing which tests to run; omit to run all",
	}
	DefaultTimeLimit = &cli.DurationFlag{
		Name:    "default-time-limit",
		Value:   0,
		EnvVars: prefixEnvVars("DEFAULT_TIME_LIMIT"),
		Usage:   "Default per-test time limit (e.g. '30s'). 0 runs tests unbounded.",
	}
	RunInterval = &cli.DurationFlag{
		Name:    "run-interval",
		Value:   0,
		EnvVars: prefixEnvVars("RUN_INTERVAL"),
		Usage:   "Interval between test runs (e.g. '1h', '30m'). Set to 0 or omit for run-once mode.",
	}
	LogDir = &cli.StringFlag{
		Name:    "logdir",
		Value:   "logs",
		EnvVars: prefixEnvVars("LOGDIR"),
		Usage:   "Directory to store per-run result files",
	}
	TAPOutput = &cli.BoolFlag{
		Name:    "tap",
		Value:   false,
		EnvVars: prefixEnvVars("TAP"),
		Usage:   "Emit TAP results on stdout instead of the results table",
	}
	DiagnosticsFirst = &cli.BoolFlag{
		Name:    "diagnostics-first",
		Value:   false,
		EnvVars: prefixEnvVars("DIAGNOSTICS_FIRST"),
		Usage:   "Place TAP diagnostic comments before their result lines",
	}
	LogLevel = &cli.StringFlag{
		Name:    "log-level",
		Value:   "info",
		EnvVars: prefixEnvVars("LOG_LEVEL"),
		Usage:   "Lowest log level emitted (trace, debug, info, warn, error, crit)",
	}
	DemoFailures = &cli.BoolFlag{
		Name:    "demo-failures",
		Value:   false,
		EnvVars: prefixEnvVars("DEMO_FAILURES"),
		Usage:   "Also register the deliberately failing demo tests",
	}
)

var requiredFlags = []cli.Flag{}

var optionalFlags = []cli.Flag{
	SuiteConfig,
	Select,
	DefaultTimeLimit,
	RunInterval,
	LogDir,
	TAPOutput,
	DiagnosticsFirst,
	LogLevel,
	DemoFailures,
}

var Flags []cli.Flag

func init() {
	Flags = append(requiredFlags, optionalFlags...)
}

func CheckRequired(ctx *cli.Context) error {
	for _, f := range requiredFlags {
		if !ctx.IsSet(f.Names()[0]) {
			return fmt.Errorf("flag %s is required", f.Names()[0])
		}
	}
	return nil
}
