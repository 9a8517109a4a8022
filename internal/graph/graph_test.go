package graph

import (
	"strings"
	"testing"

	"github.com/jogjacamp/invoke/internal/task"
)

func TestIsAncestor(t *testing.T) {
	t.Parallel()

	g := newGraph()
	a := g.add(task.Called(task.New("a", nil), nil))
	b := g.add(task.Called(task.New("b", nil), nil))
	c := g.add(task.Called(task.New("c", nil), nil))
	d := g.add(task.Called(task.New("d", nil), nil))
	g.addEdge(a, b)
	g.addEdge(b, c)

	if !g.isAncestor(a, c) {
		t.Error("a should be a transitive ancestor of c")
	}
	if !g.isAncestor(c, c) {
		t.Error("a node counts as its own ancestor for sequencing purposes")
	}
	if g.isAncestor(c, a) {
		t.Error("ancestry must not be symmetric")
	}
	if g.isAncestor(d, c) {
		t.Error("disconnected node must not be an ancestor")
	}
}

func TestDetectCycles(t *testing.T) {
	t.Parallel()

	g := newGraph()
	a := g.add(task.Called(task.New("a", nil), nil))
	b := g.add(task.Called(task.New("b", nil), nil))
	g.addEdge(a, b)
	if err := g.detectCycles(); err != nil {
		t.Fatalf("valid dag reported a cycle: %v", err)
	}

	g.addEdge(b, a)
	err := g.detectCycles()
	if err == nil {
		t.Fatal("detectCycles() should have reported the a<->b cycle")
	}
	if !strings.Contains(err.Error(), "cycle") {
		t.Errorf("expected error to mention a cycle, got: %v", err)
	}
}

func TestForkedNodeIDs(t *testing.T) {
	t.Parallel()

	g := newGraph()
	def := task.New("clean", nil)
	first := g.add(task.Called(def, nil))
	second := g.add(task.Called(def, nil))

	if first.ID == second.ID {
		t.Fatalf("forked node reused ID %q", first.ID)
	}
	if second.ID != "clean#2" {
		t.Errorf("expected generation suffix, got %q", second.ID)
	}
	if n, _ := g.lookup(task.Called(def, nil)); n != second {
		t.Error("dedup index should point at the newest instance")
	}
}
