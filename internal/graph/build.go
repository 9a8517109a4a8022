package graph

import (
	"context"
	"errors"
	"fmt"

	"github.com/jogjacamp/invoke/internal/ctxlog"
	"github.com/jogjacamp/invoke/internal/task"
)

// ErrConfiguration marks malformed task declarations found during graph
// construction, such as a task listing itself among its own dependencies.
// It aborts the session before any body runs.
var ErrConfiguration = errors.New("invalid task configuration")

// Options configures graph construction.
type Options struct {
	// ExpandImplicit enables recursive expansion of declared dependencies and
	// followups. When false the graph contains only the explicitly requested
	// nodes and their sequence edges.
	ExpandImplicit bool
}

// DefaultOptions returns the standard construction options.
func DefaultOptions() Options {
	return Options{ExpandImplicit: true}
}

// Build expands an ordered list of explicitly requested calls into a full
// invocation DAG.
//
// Explicit requests are processed in order. Each is deduplicated against
// nodes already in the graph, then chained to its predecessor with a
// sequence edge attached to the node itself, never to the underlying
// definition. When reusing an existing node for a later explicit request
// would close a cycle through that sequence edge (the node already precedes
// the previous request, as in "build clean" where build depends on clean), a
// fresh node is forked instead, so the re-requested task runs again.
//
// After each explicit node is placed, its definition's dependencies and
// followups are expanded breadth-first: a dependency node gains an edge into
// the referencing node, a followup node gains an edge from it. Followups
// shared by several requesters accumulate one incoming edge per requester
// and therefore cannot run until all of them have finished.
func Build(ctx context.Context, calls []*task.Call, opts Options) (*Graph, error) {
	logger := ctxlog.FromContext(ctx)
	g := newGraph()

	var prev *Node
	for _, call := range calls {
		n, found := g.lookup(call)
		switch {
		case !found:
			n = g.add(call)
		case prev != nil && g.isAncestor(n, prev):
			logger.Debug("Forking re-requested node to preserve explicit order.", "key", call.Key())
			n = g.add(call)
		}
		if prev != nil {
			g.addEdge(prev, n)
		}
		if opts.ExpandImplicit {
			if err := g.expand(ctx, n); err != nil {
				return nil, err
			}
		}
		prev = n
	}

	// Declared dependencies are acyclic except through misconfiguration
	// (mutually dependent declarations), which expansion cannot prevent.
	if err := g.detectCycles(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrConfiguration, err)
	}

	logger.Debug("Graph construction complete.", "node_count", len(g.Nodes))
	return g, nil
}

// expand walks root's declared dependencies and followups breadth-first,
// creating nodes and edges until no new nodes appear.
func (g *Graph) expand(ctx context.Context, root *Node) error {
	logger := ctxlog.FromContext(ctx)
	queue := []*Node{root}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		def := cur.Call.Definition()

		for _, depCall := range def.DependsOn() {
			depNode, created := g.obtain(depCall)
			if depNode == cur {
				return fmt.Errorf("%w: task %q depends on itself", ErrConfiguration, def.Name())
			}
			logger.Debug("Linking dependency.", "from", depNode.ID, "to", cur.ID)
			g.addEdge(depNode, cur)
			if created {
				queue = append(queue, depNode)
			}
		}

		for _, postCall := range def.Afterwards() {
			postNode, created := g.obtain(postCall)
			if postNode == cur {
				return fmt.Errorf("%w: task %q declares itself as a followup", ErrConfiguration, def.Name())
			}
			logger.Debug("Linking followup.", "from", cur.ID, "to", postNode.ID)
			g.addEdge(cur, postNode)
			if created {
				queue = append(queue, postNode)
			}
		}
	}
	return nil
}

// obtain returns the node for the call, creating it when first referenced.
func (g *Graph) obtain(c *task.Call) (*Node, bool) {
	if n, ok := g.lookup(c); ok {
		return n, false
	}
	return g.add(c), true
}
