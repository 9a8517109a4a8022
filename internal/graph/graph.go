package graph

import (
	"fmt"
	"sort"

	"github.com/jogjacamp/invoke/internal/task"
)

// Node is a single vertex in the graph: one invocation of a task under a
// specific argument binding. Edges always attach to nodes, never to the
// underlying definitions.
type Node struct {
	// ID uniquely identifies the node within its graph. It is the call's
	// dedup key, suffixed with a generation counter when the same call has
	// been forked into a second instance.
	ID string
	// Seq is the first-discovery sequence number, used as the scheduling
	// tie-break so nodes run roughly in the order they were first referenced.
	Seq int
	// Call is the invocation this node represents.
	Call *task.Call
	// Deps holds the nodes that must execute (or be check-skipped) before
	// this one, keyed by node ID.
	Deps map[string]*Node
	// Dependents holds the nodes waiting on this one, keyed by node ID.
	Dependents map[string]*Node
}

// Graph is the invocation DAG for one session. It is mutable only during
// construction; execution treats it as read-only.
type Graph struct {
	// Nodes holds every node by unique ID.
	Nodes map[string]*Node

	// index maps dedup keys to their current node. When a call is forked
	// (see build.go) the index is repointed at the newest instance.
	index map[string]*Node
	// order records nodes in first-discovery order.
	order []*Node
}

func newGraph() *Graph {
	return &Graph{
		Nodes: make(map[string]*Node),
		index: make(map[string]*Node),
	}
}

// Len returns the number of nodes in the graph.
func (g *Graph) Len() int { return len(g.Nodes) }

// lookup returns the node currently bound to the call's dedup key.
func (g *Graph) lookup(c *task.Call) (*Node, bool) {
	n, ok := g.index[c.Key()]
	return n, ok
}

// add creates a new node for the call and binds the dedup key to it. When a
// node for the key already exists the new instance gets a generation suffix
// so both can coexist in the graph.
func (g *Graph) add(c *task.Call) *Node {
	key := c.Key()
	id := key
	for gen := 2; ; gen++ {
		if _, taken := g.Nodes[id]; !taken {
			break
		}
		id = fmt.Sprintf("%s#%d", key, gen)
	}
	n := &Node{
		ID:         id,
		Seq:        len(g.order),
		Call:       c,
		Deps:       make(map[string]*Node),
		Dependents: make(map[string]*Node),
	}
	g.Nodes[id] = n
	g.index[key] = n
	g.order = append(g.order, n)
	return n
}

// addEdge records that from must run before to.
func (g *Graph) addEdge(from, to *Node) {
	if _, exists := to.Deps[from.ID]; exists {
		return
	}
	to.Deps[from.ID] = from
	from.Dependents[to.ID] = to
}

// isAncestor reports whether candidate is reachable from n by walking
// dependency edges upward, or is n itself.
func (g *Graph) isAncestor(candidate, n *Node) bool {
	if candidate == n {
		return true
	}
	seen := make(map[string]bool)
	stack := []*Node{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for id, dep := range cur.Deps {
			if dep == candidate {
				return true
			}
			if !seen[id] {
				seen[id] = true
				stack = append(stack, dep)
			}
		}
	}
	return false
}

// TopoOrder returns a valid topological order over the graph, breaking ties
// by first-discovery order. The graph is acyclic by construction, so every
// node appears exactly once.
func (g *Graph) TopoOrder() []*Node {
	indegree := make(map[string]int, len(g.Nodes))
	for id, n := range g.Nodes {
		indegree[id] = len(n.Deps)
	}

	var ready []*Node
	for _, n := range g.order {
		if indegree[n.ID] == 0 {
			ready = append(ready, n)
		}
	}

	out := make([]*Node, 0, len(g.Nodes))
	for len(ready) > 0 {
		sort.Slice(ready, func(i, j int) bool { return ready[i].Seq < ready[j].Seq })
		n := ready[0]
		ready = ready[1:]
		out = append(out, n)
		for id, dep := range n.Dependents {
			indegree[id]--
			if indegree[id] == 0 {
				ready = append(ready, dep)
			}
		}
	}
	return out
}

// detectCycles checks for circular dependencies in the graph using DFS.
func (g *Graph) detectCycles() error {
	visiting := make(map[string]bool)
	visited := make(map[string]bool)

	var visit func(node *Node) error
	visit = func(node *Node) error {
		visiting[node.ID] = true
		for _, dep := range node.Deps {
			if visiting[dep.ID] {
				return fmt.Errorf("cycle detected involving '%s'", dep.ID)
			}
			if !visited[dep.ID] {
				if err := visit(dep); err != nil {
					return err
				}
			}
		}
		delete(visiting, node.ID)
		visited[node.ID] = true
		return nil
	}

	for _, node := range g.Nodes {
		if !visited[node.ID] {
			if err := visit(node); err != nil {
				return err
			}
		}
	}
	return nil
}
