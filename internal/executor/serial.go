package executor

import (
	"context"
	"fmt"
	"time"

	"github.com/jogjacamp/invoke/internal/ctxlog"
	"github.com/jogjacamp/invoke/internal/graph"
)

// runSerial executes nodes strictly one at a time in topological order with
// first-discovery tie-breaking. Task bodies perform externally visible,
// often order-sensitive side effects, so serial execution is the default
// even where the DAG would permit parallelism.
func (e *Executor) runSerial(ctx context.Context, g *graph.Graph) []Record {
	logger := ctxlog.FromContext(ctx)
	order := g.TopoOrder()
	records := make([]Record, 0, len(order))
	state := make(map[string]Status, len(order))
	aborted := false

	for _, n := range order {
		rec := Record{NodeID: n.ID, Task: n.Call.Definition().Name()}

		if aborted {
			rec.Status = StatusBlocked
			rec.Err = ErrAborted
			state[n.ID] = StatusBlocked
			records = append(records, rec)
			continue
		}

		if upstream := firstUnsatisfied(n, state); upstream != "" {
			logger.Warn("Blocking node due to upstream failure.", "node", n.ID, "upstream", upstream)
			rec.Status = StatusBlocked
			rec.Err = fmt.Errorf("%w: '%s'", ErrBlocked, upstream)
			state[n.ID] = StatusBlocked
			records = append(records, rec)
			continue
		}

		rec = e.runNode(ctx, n)
		state[n.ID] = rec.Status
		records = append(records, rec)
		if rec.Status == StatusFailed && e.failFast {
			logger.Warn("Aborting remaining work after failure.", "node", n.ID)
			aborted = true
		}
	}
	return records
}

// firstUnsatisfied returns the ID of a failed or blocked predecessor, or ""
// when every predecessor reached a satisfied terminal state. Topological
// order guarantees predecessors were visited first.
func firstUnsatisfied(n *graph.Node, state map[string]Status) string {
	for id := range n.Deps {
		if st, ok := state[id]; ok && (st == StatusFailed || st == StatusBlocked) {
			return id
		}
	}
	return ""
}

// runNode evaluates the node's checks and, when none is satisfied, invokes
// its body through the external collaborator.
func (e *Executor) runNode(ctx context.Context, n *graph.Node) Record {
	logger := ctxlog.FromContext(ctx).With("node", n.ID)
	rec := Record{NodeID: n.ID, Task: n.Call.Definition().Name()}

	satisfied, err := n.Call.Definition().Satisfied(ctx)
	if err != nil {
		logger.Error("Check evaluation raised.", "error", err)
		rec.Status = StatusFailed
		rec.Err = fmt.Errorf("%w: %v", ErrCheckEvaluation, err)
		return rec
	}
	if satisfied {
		logger.Info("Skipping task, check satisfied.")
		rec.Status = StatusSkipped
		return rec
	}

	logger.Info("Running task.")
	start := time.Now()
	err = e.invoker.Invoke(ctx, n.Call)
	rec.Duration = time.Since(start)
	if err != nil {
		logger.Error("Task failed.", "error", err, "duration", rec.Duration)
		rec.Status = StatusFailed
		rec.Err = err
		return rec
	}
	logger.Info("Task finished.", "duration", rec.Duration)
	rec.Status = StatusRan
	return rec
}
