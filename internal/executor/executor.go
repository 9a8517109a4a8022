// Package executor schedules and drives execution of a built invocation
// graph, producing one execution record per node.
package executor

import (
	"context"

	"github.com/jogjacamp/invoke/internal/graph"
	"github.com/jogjacamp/invoke/internal/task"
)

// Invoker is the external collaborator that actually runs task bodies. The
// scheduler treats an invocation as synchronous: it either completes, fails,
// or panics out of the process entirely. Timeout and retry policy, if any,
// belong behind this interface.
type Invoker interface {
	Invoke(ctx context.Context, call *task.Call) error
}

// InvokerFunc adapts a plain function to the Invoker interface.
type InvokerFunc func(ctx context.Context, call *task.Call) error

// Invoke implements Invoker.
func (f InvokerFunc) Invoke(ctx context.Context, call *task.Call) error {
	return f(ctx, call)
}

// BodyInvoker runs a call's declared body directly. Calls whose definition
// has no body complete immediately.
func BodyInvoker() Invoker {
	return InvokerFunc(func(ctx context.Context, call *task.Call) error {
		body := call.Definition().Body()
		if body == nil {
			return nil
		}
		return body(ctx, call.Arguments())
	})
}

// Executor drives a graph to completion. The zero value is not usable; use New.
type Executor struct {
	invoker  Invoker
	workers  int
	failFast bool
}

// Option configures an Executor.
type Option func(*Executor)

// WithWorkers opts in to concurrent execution of independent nodes when n is
// greater than one. The default is strictly serial execution.
func WithWorkers(n int) Option {
	return func(e *Executor) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithFailFast stops scheduling new nodes after the first failure. Nodes
// never attempted are recorded as blocked with an abort reason, so the
// record set stays complete.
func WithFailFast(on bool) Option {
	return func(e *Executor) { e.failFast = on }
}

// New creates an Executor that invokes bodies through the given collaborator.
func New(invoker Invoker, opts ...Option) *Executor {
	e := &Executor{invoker: invoker, workers: 1}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes every node of the graph in an order consistent with its
// edges and returns one record per node. Failures are collected into the
// records, never returned early, so callers always see the full outcome.
func (e *Executor) Run(ctx context.Context, g *graph.Graph) []Record {
	if e.workers > 1 {
		return e.runConcurrent(ctx, g)
	}
	return e.runSerial(ctx, g)
}
