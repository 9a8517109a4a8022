package executor

import (
	"context"
	"fmt"
	"sync"

	"github.com/jogjacamp/invoke/internal/ctxlog"
	"github.com/jogjacamp/invoke/internal/graph"
)

// nodeState is the per-node bookkeeping for a concurrent run. Unlike the
// graph itself, which stays read-only, this state is owned by the run.
type nodeState struct {
	node     *graph.Node
	depCount int
	// blockOnce ensures a node is marked blocked exactly once even when
	// several upstream failures race to block it.
	blockOnce sync.Once
}

// runConcurrent executes independent ready nodes through a worker pool. The
// graph model and record semantics are identical to the serial mode; only
// the interleaving of unrelated branches differs, so it is offered strictly
// as an opt-in for bodies known to be order-insensitive.
func (e *Executor) runConcurrent(ctx context.Context, g *graph.Graph) []Record {
	logger := ctxlog.FromContext(ctx)

	states := make(map[string]*nodeState, g.Len())
	for id, n := range g.Nodes {
		states[id] = &nodeState{node: n, depCount: len(n.Deps)}
	}

	readyChan := make(chan *nodeState, g.Len())
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		mu      sync.Mutex
		records []Record
		wg      sync.WaitGroup
	)
	record := func(rec Record) {
		mu.Lock()
		records = append(records, rec)
		mu.Unlock()
	}

	// A node's slot in the wait group is released exactly once, either by
	// the worker that ran it or by the blocker that wrote it off.
	wg.Add(g.Len())

	var unlock func(st *nodeState)
	var blockDependents func(st *nodeState, cause string)
	blockDependents = func(st *nodeState, cause string) {
		for _, dep := range st.node.Dependents {
			depState := states[dep.ID]
			depState.blockOnce.Do(func() {
				logger.Warn("Blocking node due to upstream failure.", "node", dep.ID, "upstream", cause)
				record(Record{
					NodeID: dep.ID,
					Task:   dep.Call.Definition().Name(),
					Status: StatusBlocked,
					Err:    fmt.Errorf("%w: '%s'", ErrBlocked, cause),
				})
				wg.Done()
				blockDependents(depState, cause)
			})
		}
	}
	unlock = func(st *nodeState) {
		for _, dep := range st.node.Dependents {
			depState := states[dep.ID]
			mu.Lock()
			depState.depCount--
			ready := depState.depCount == 0
			mu.Unlock()
			if ready {
				readyChan <- depState
			}
		}
	}

	worker := func(id int) {
		workerLogger := logger.With("worker", id)
		for st := range readyChan {
			if runCtx.Err() != nil {
				st.blockOnce.Do(func() {
					record(Record{
						NodeID: st.node.ID,
						Task:   st.node.Call.Definition().Name(),
						Status: StatusBlocked,
						Err:    ErrAborted,
					})
					wg.Done()
					blockDependents(st, st.node.ID)
				})
				continue
			}

			st.blockOnce.Do(func() {
				workerLogger.Debug("Worker picked up node.", "node", st.node.ID)
				rec := e.runNode(runCtx, st.node)
				record(rec)
				if rec.Status == StatusFailed {
					if e.failFast {
						cancel()
					}
					blockDependents(st, st.node.ID)
				} else {
					unlock(st)
				}
				wg.Done()
			})
		}
	}

	for _, n := range g.TopoOrder() {
		if len(n.Deps) == 0 {
			readyChan <- states[n.ID]
		}
	}
	for i := 0; i < e.workers; i++ {
		go worker(i)
	}

	wg.Wait()
	close(readyChan)
	return records
}
