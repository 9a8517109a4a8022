// Package shell turns shell command strings into task bodies and checks.
// It is the concrete invocation collaborator used by the CLI layer; library
// callers are free to supply their own bodies instead.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"

	"github.com/jogjacamp/invoke/internal/ctxlog"
	"github.com/jogjacamp/invoke/internal/task"
)

// Runner builds bodies and checks that execute through the system shell.
type Runner struct {
	// Echo prints each command before running it.
	Echo bool
	// Dir is the working directory for commands. Empty means the current
	// process directory.
	Dir string
	// Stdout and Stderr receive command output.
	Stdout io.Writer
	Stderr io.Writer
}

// Body returns a task body running command via "sh -c". Arguments bound to
// the call are exported as environment variables so parameterized calls can
// influence the command.
func (r *Runner) Body(command string) task.Body {
	return func(ctx context.Context, args task.Arguments) error {
		logger := ctxlog.FromContext(ctx)
		if r.Echo {
			fmt.Fprintf(r.Stdout, "$ %s\n", command)
		}
		logger.Debug("Running shell command.", "command", command)

		cmd := exec.CommandContext(ctx, "sh", "-c", command)
		cmd.Dir = r.Dir
		cmd.Stdout = r.Stdout
		cmd.Stderr = r.Stderr
		cmd.Env = environWith(args)
		if err := cmd.Run(); err != nil {
			return fmt.Errorf("command %q: %w", command, err)
		}
		return nil
	}
}

// CommandOK returns a check satisfied when command exits zero. A non-zero
// exit means "not satisfied"; failing to start the command at all is an
// evaluation error.
func (r *Runner) CommandOK(command string) task.Check {
	return task.CheckFunc(func(ctx context.Context) (bool, error) {
		cmd := exec.CommandContext(ctx, "sh", "-c", command)
		cmd.Dir = r.Dir
		err := cmd.Run()
		if err == nil {
			return true, nil
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return false, nil
		}
		return false, fmt.Errorf("check command %q: %w", command, err)
	})
}
