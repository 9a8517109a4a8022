package app

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/jogjacamp/invoke/internal/ctxlog"
	"github.com/jogjacamp/invoke/internal/executor"
	"github.com/jogjacamp/invoke/internal/graph"
)

// lockName is the run-guard file created beside the taskfile. Two sessions
// sharing a taskfile would interleave shell side effects, so the second one
// is refused instead.
const lockName = ".invoke.lock"

// Run resolves the requested targets, builds the invocation graph, executes
// it, and renders one line per record. It returns an error when the session
// could not start or when any task failed or was blocked.
func (a *App) Run(ctx context.Context, targets []string) error {
	sessionID := uuid.NewString()
	logger := a.logger.With("session", sessionID)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Session starting.", "targets", targets)

	if !a.cfg.NoLock {
		lock := flock.New(filepath.Join(filepath.Dir(a.cfg.TasksPath), lockName))
		locked, err := lock.TryLock()
		if err != nil {
			return fmt.Errorf("acquiring run lock: %w", err)
		}
		if !locked {
			return fmt.Errorf("another invoke session is already running (lock %s held)", lock.Path())
		}
		defer func() {
			if err := lock.Unlock(); err != nil {
				logger.Warn("Failed to release run lock.", "error", err)
			}
		}()
	}

	calls, err := a.registry.Resolve(targets)
	if err != nil {
		return err
	}

	opts := graph.DefaultOptions()
	opts.ExpandImplicit = !a.cfg.NoDeps
	g, err := graph.Build(ctx, calls, opts)
	if err != nil {
		return err
	}
	logger.Debug("Graph built.", "node_count", g.Len())

	exec := executor.New(
		executor.BodyInvoker(),
		executor.WithWorkers(a.cfg.Workers),
		executor.WithFailFast(a.cfg.FailFast),
	)
	records := exec.Run(ctx, g)
	a.renderRecords(records)

	if executor.AnyFailed(records) {
		return fmt.Errorf("%d of %d tasks did not complete", countUnfinished(records), len(records))
	}
	logger.Debug("Session finished.")
	return nil
}

func countUnfinished(records []executor.Record) int {
	n := 0
	for _, r := range records {
		if r.Status == executor.StatusFailed || r.Status == executor.StatusBlocked {
			n++
		}
	}
	return n
}
