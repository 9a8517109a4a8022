// Package cli is responsible for parsing command-line arguments, validating
// user input, and handling process-level concerns like exit codes. It
// translates CLI flags into the application's run configuration.
package cli

import (
	"flag"
	"fmt"
	"io"

	"github.com/jogjacamp/invoke/internal/config"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Invocation is the parsed outcome of a command line: the effective run
// configuration, the requested task targets, and whether the user asked for
// a task listing instead of a run.
type Invocation struct {
	Config  *config.Model
	Targets []string
	List    bool
}

// Parse processes command-line arguments. It returns the parsed invocation,
// a boolean indicating the program should exit cleanly (help), or an
// ExitError.
func Parse(args []string, output io.Writer) (*Invocation, bool, error) {
	flagSet := flag.NewFlagSet("invoke", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
invoke - a task execution engine.

Usage:
  invoke [options] [TASK ...]

Arguments:
  TASK
    One or more task names to execute, in order. Dependencies and followups
    declared by each task are pulled in automatically unless -no-deps is set.

Options:
`)
		flagSet.PrintDefaults()
	}

	tasksFlag := flagSet.String("f", "", "Path to the taskfile or a directory of .hcl taskfiles.")
	configFlag := flagSet.String("config", "invoke.yaml", "Path to the YAML run configuration file.")
	listFlag := flagSet.Bool("l", false, "List available tasks and exit.")
	noDepsFlag := flagSet.Bool("no-deps", false, "Run only the requested tasks, skipping dependency and followup expansion.")
	failFastFlag := flagSet.Bool("fail-fast", false, "Stop scheduling new tasks after the first failure.")
	workersFlag := flagSet.Int("workers", 0, "Number of concurrent workers; values above 1 opt in to parallel execution.")
	echoFlag := flagSet.Bool("echo", false, "Print shell commands before running them.")
	noLockFlag := flagSet.Bool("no-lock", false, "Do not take the taskfile run lock.")
	logFormatFlag := flagSet.String("log-format", "", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "", "Logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	cfg, err := config.LoadFile(*configFlag, !isFlagSet(flagSet, "config"))
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	// Flags the user actually set override file values.
	if *tasksFlag != "" {
		cfg.TasksPath = *tasksFlag
	}
	if isFlagSet(flagSet, "no-deps") {
		cfg.NoDeps = *noDepsFlag
	}
	if isFlagSet(flagSet, "fail-fast") {
		cfg.FailFast = *failFastFlag
	}
	if *workersFlag > 0 {
		cfg.Workers = *workersFlag
	}
	if isFlagSet(flagSet, "echo") {
		cfg.Echo = *echoFlag
	}
	if isFlagSet(flagSet, "no-lock") {
		cfg.NoLock = *noLockFlag
	}
	if *logFormatFlag != "" {
		cfg.LogFormat = *logFormatFlag
	}
	if *logLevelFlag != "" {
		cfg.LogLevel = *logLevelFlag
	}
	if err := cfg.Validate(); err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	targets := flagSet.Args()
	if len(targets) == 0 && !*listFlag {
		flagSet.Usage()
		return nil, true, nil
	}

	return &Invocation{Config: cfg, Targets: targets, List: *listFlag}, false, nil
}

// isFlagSet reports whether the user explicitly provided the named flag.
func isFlagSet(fs *flag.FlagSet, name string) bool {
	set := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}
