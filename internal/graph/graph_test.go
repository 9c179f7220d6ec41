package graph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kcjpm/kcjpm/internal/graph"
)

func TestTopologicalSortOrdersDependenciesFirst(t *testing.T) {
	g := graph.New[string]()
	g.AddEdge("app", "lib")
	g.AddEdge("lib", "core")
	g.AddNode("standalone")

	order, err := g.TopologicalSort()
	require.NoError(t, err)

	pos := make(map[string]int, len(order))
	for i, n := range order {
		pos[n] = i
	}
	assert.Less(t, pos["core"], pos["lib"])
	assert.Less(t, pos["lib"], pos["app"])
}

func TestFindCycleDetectsSelfLoop(t *testing.T) {
	g := graph.New[string]()
	g.AddEdge("a", "a")

	cycle := g.FindCycle()
	require.NotNil(t, cycle)
	assert.Equal(t, []string{"a", "a"}, cycle.Nodes)
}

func TestFindCycleDetectsIndirectCycle(t *testing.T) {
	g := graph.New[string]()
	g.AddEdge("a", "b")
	g.AddEdge("b", "c")
	g.AddEdge("c", "a")

	cycle := g.FindCycle()
	require.NotNil(t, cycle)
	assert.Equal(t, cycle.Nodes[0], cycle.Nodes[len(cycle.Nodes)-1])
}

func TestTopologicalSortErrorsOnCycle(t *testing.T) {
	g := graph.New[string]()
	g.AddEdge("a", "b")
	g.AddEdge("b", "a")

	_, err := g.TopologicalSort()
	require.Error(t, err)
	var cycleErr graph.ErrCycle[string]
	require.ErrorAs(t, err, &cycleErr)
}

func TestLevelsGroupsIndependentNodes(t *testing.T) {
	g := graph.New[string]()
	g.AddEdge("app", "lib-a")
	g.AddEdge("app", "lib-b")
	g.AddNode("lib-a")
	g.AddNode("lib-b")

	levels, err := g.Levels()
	require.NoError(t, err)
	require.Len(t, levels, 2)
	assert.ElementsMatch(t, []string{"lib-a", "lib-b"}, levels[0])
	assert.Equal(t, []string{"app"}, levels[1])
}

func TestLevelsEmptyGraph(t *testing.T) {
	g := graph.New[string]()
	levels, err := g.Levels()
	require.NoError(t, err)
	assert.Nil(t, levels)
}
