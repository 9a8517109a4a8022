package graph

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/jogjacamp/invoke/internal/task"
)

func buildGraph(t *testing.T, calls []*task.Call) *Graph {
	t.Helper()
	g, err := Build(context.Background(), calls, DefaultOptions())
	require.NoError(t, err)
	return g
}

// orderedTaskNames returns task names in topological execution order.
func orderedTaskNames(g *Graph) []string {
	var names []string
	for _, n := range g.TopoOrder() {
		names = append(names, n.Call.Definition().Name())
	}
	return names
}

func TestBuild_DedupExplicitAndDependency(t *testing.T) {
	// bar depends on foo; requesting "foo bar" must not produce two foo nodes.
	foo := task.New("foo", nil)
	bar := task.New("bar", nil, task.DependsOn(task.Called(foo, nil)))

	g := buildGraph(t, []*task.Call{task.Called(foo, nil), task.Called(bar, nil)})

	assert.Equal(t, 2, g.Len())
	if diff := cmp.Diff([]string{"foo", "bar"}, orderedTaskNames(g)); diff != "" {
		t.Errorf("execution order mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_ExplicitRequestAfterSequencingRunsAgain(t *testing.T) {
	// build depends on clean; requesting "build clean" runs clean twice:
	// once implicitly before build, once explicitly after it.
	clean := task.New("clean", nil)
	build := task.New("build", nil, task.DependsOn(task.Called(clean, nil)))

	g := buildGraph(t, []*task.Call{task.Called(build, nil), task.Called(clean, nil)})

	require.Equal(t, 3, g.Len())
	if diff := cmp.Diff([]string{"clean", "build", "clean"}, orderedTaskNames(g)); diff != "" {
		t.Errorf("execution order mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_RepeatedExplicitRequestForksEachTime(t *testing.T) {
	foo := task.New("foo", nil)
	g := buildGraph(t, []*task.Call{task.Called(foo, nil), task.Called(foo, nil)})
	assert.Equal(t, 2, g.Len())
	assert.Equal(t, []string{"foo", "foo"}, orderedTaskNames(g))
}

func TestBuild_SharedDependencyScenario(t *testing.T) {
	clean := task.New("clean", nil)
	buildOne := task.New("build_one", nil, task.DependsOn(task.Called(clean, nil)))
	buildTwo := task.New("build_two", nil, task.DependsOn(task.Called(clean, nil)))
	buildAll := task.New("build_all", nil,
		task.DependsOn(task.Called(buildOne, nil), task.Called(buildTwo, nil)))

	g := buildGraph(t, []*task.Call{task.Called(buildAll, nil)})

	require.Equal(t, 4, g.Len())
	order := orderedTaskNames(g)
	pos := make(map[string]int, len(order))
	for i, name := range order {
		pos[name] = i
	}
	assert.Equal(t, 0, pos["clean"], "clean must run first, exactly once")
	assert.Less(t, pos["clean"], pos["build_one"])
	assert.Less(t, pos["clean"], pos["build_two"])
	assert.Less(t, pos["build_one"], pos["build_all"])
	assert.Less(t, pos["build_two"], pos["build_all"])
}

func TestBuild_FollowupConvergence(t *testing.T) {
	// A and B both declare followup F; F gains one in-edge per requester and
	// cannot be scheduled until both have finished.
	f := task.New("f", nil)
	a := task.New("a", nil, task.Afterwards(task.Called(f, nil)))
	b := task.New("b", nil, task.Afterwards(task.Called(f, nil)))

	g := buildGraph(t, []*task.Call{task.Called(a, nil), task.Called(b, nil)})

	require.Equal(t, 3, g.Len())
	fNode := g.Nodes["f"]
	require.NotNil(t, fNode)
	assert.Len(t, fNode.Deps, 2)
	assert.Equal(t, []string{"a", "b", "f"}, orderedTaskNames(g))
}

func TestBuild_FollowupsOfFollowups(t *testing.T) {
	notify := task.New("notify", nil)
	archive := task.New("archive", nil, task.Afterwards(task.Called(notify, nil)))
	release := task.New("release", nil, task.Afterwards(task.Called(archive, nil)))

	g := buildGraph(t, []*task.Call{task.Called(release, nil)})
	assert.Equal(t, []string{"release", "archive", "notify"}, orderedTaskNames(g))
}

func TestBuild_DistinctArgumentsAreDistinctNodes(t *testing.T) {
	// Same task called with 5, 7, and 5 again: the second 5 collapses into
	// the first, the 7 stays separate.
	tgt := task.New("target", nil)
	with := func(n int64) *task.Call {
		return task.Called(tgt, task.Arguments{"n": cty.NumberIntVal(n)})
	}
	parent := task.New("parent", nil, task.DependsOn(with(5), with(7), with(5)))

	g := buildGraph(t, []*task.Call{task.Called(parent, nil)})

	require.Equal(t, 3, g.Len())
	parentNode := g.Nodes["parent"]
	require.NotNil(t, parentNode)
	assert.Len(t, parentNode.Deps, 2)
}

func TestBuild_NoDepsMode(t *testing.T) {
	clean := task.New("clean", nil)
	build := task.New("build", nil, task.DependsOn(task.Called(clean, nil)))

	g, err := Build(context.Background(),
		[]*task.Call{task.Called(build, nil)},
		Options{ExpandImplicit: false})
	require.NoError(t, err)

	assert.Equal(t, 1, g.Len())
	assert.Equal(t, []string{"build"}, orderedTaskNames(g))
}

func TestBuild_NoDepsModeKeepsSequenceEdges(t *testing.T) {
	a := task.New("a", nil)
	b := task.New("b", nil)

	g, err := Build(context.Background(),
		[]*task.Call{task.Called(b, nil), task.Called(a, nil)},
		Options{ExpandImplicit: false})
	require.NoError(t, err)

	assert.Equal(t, []string{"b", "a"}, orderedTaskNames(g))
	assert.Contains(t, g.Nodes["a"].Deps, "b")
}

func TestBuild_SelfReferenceIsConfigurationError(t *testing.T) {
	// Identity is the task name, so a definition whose dependency list
	// resolves to its own name is a direct self-cycle. Only a misbehaving
	// provider produces this; the builder must refuse it up front.
	shadow := task.New("ouro", nil)
	selfDep := task.New("ouro", nil, task.DependsOn(task.Called(shadow, nil)))

	_, err := Build(context.Background(), []*task.Call{task.Called(selfDep, nil)}, DefaultOptions())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfiguration)
	assert.Contains(t, err.Error(), "depends on itself")

	selfPost := task.New("boomerang", nil, task.Afterwards(task.Called(task.New("boomerang", nil), nil)))
	_, err = Build(context.Background(), []*task.Call{task.Called(selfPost, nil)}, DefaultOptions())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfiguration)
	assert.Contains(t, err.Error(), "followup")
}

func TestBuild_MutualDependencyIsConfigurationError(t *testing.T) {
	// x must run before y (dependency) and after it (followup): a cycle the
	// expansion rules cannot prevent, caught by the final validation pass.
	x := task.New("x", nil)
	y := task.New("y", nil, task.DependsOn(task.Called(x, nil)), task.Afterwards(task.Called(x, nil)))

	_, err := Build(context.Background(), []*task.Call{task.Called(y, nil)}, DefaultOptions())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfiguration)
	assert.Contains(t, err.Error(), "cycle")
}

func TestBuild_DefinitionsAreNeverMutated(t *testing.T) {
	clean := task.New("clean", nil)
	build := task.New("build", nil, task.DependsOn(task.Called(clean, nil)))

	assertLists := func() {
		require.Len(t, build.DependsOn(), 1)
		assert.Same(t, clean, build.DependsOn()[0].Definition())
		assert.Empty(t, build.Afterwards())
		assert.Empty(t, clean.DependsOn())
		assert.Empty(t, clean.Afterwards())
	}

	for i := 0; i < 3; i++ {
		buildGraph(t, []*task.Call{task.Called(build, nil), task.Called(clean, nil)})
		assertLists()
	}

	// In particular the explicit sequence edge from the request above must
	// not leak into clean's own lists and poison an unrelated session.
	g := buildGraph(t, []*task.Call{task.Called(clean, nil)})
	assert.Equal(t, []string{"clean"}, orderedTaskNames(g))
}

func TestBuild_DiscoveryOrderBreaksTies(t *testing.T) {
	// Independent explicit requests keep their requested order even though
	// any interleaving would be topologically valid.
	a := task.New("a", nil)
	b := task.New("b", nil)
	c := task.New("c", nil)

	g, err := Build(context.Background(), []*task.Call{
		task.Called(c, nil), task.Called(a, nil), task.Called(b, nil),
	}, Options{ExpandImplicit: true})
	require.NoError(t, err)

	// Sequence edges order them c, a, b regardless of tie-breaking; drop to
	// node Seq values to confirm discovery order is what the scheduler sees.
	assert.Equal(t, []string{"c", "a", "b"}, orderedTaskNames(g))
	assert.Equal(t, 0, g.Nodes["c"].Seq)
	assert.Equal(t, 1, g.Nodes["a"].Seq)
	assert.Equal(t, 2, g.Nodes["b"].Seq)
}
