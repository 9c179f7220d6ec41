// Package graph provides the generic dependency-graph algorithms shared by
// the dependency resolver and the package discoverer: cycle detection,
// topological ordering, and level-based parallel batching. Both are
// generalized from the teacher's node-specific DependencyGraph into
// type-parameterized form so one implementation serves both call sites.
package graph

// Graph is a directed graph over comparable nodes, built by adding edges
// u -> v meaning "u depends on v". Nodes with no recorded edges may still be
// members if added via AddNode.
type Graph[T comparable] struct {
	nodes []T
	seen  map[T]bool
	edges map[T][]T
}

// New returns an empty graph.
func New[T comparable]() *Graph[T] {
	return &Graph[T]{
		seen:  make(map[T]bool),
		edges: make(map[T][]T),
	}
}

// AddNode registers a node with no dependencies if not already present.
func (g *Graph[T]) AddNode(n T) {
	if !g.seen[n] {
		g.seen[n] = true
		g.nodes = append(g.nodes, n)
	}
}

// AddEdge records that from depends on to, adding both as nodes if new.
func (g *Graph[T]) AddEdge(from, to T) {
	g.AddNode(from)
	g.AddNode(to)
	g.edges[from] = append(g.edges[from], to)
}

// Dependencies returns the nodes n directly depends on.
func (g *Graph[T]) Dependencies(n T) []T {
	return g.edges[n]
}

// Nodes returns every node in insertion order.
func (g *Graph[T]) Nodes() []T {
	return g.nodes
}

// Cycle is a sequence of nodes forming a circular dependency: Cycle[0] and
// Cycle[len-1] are the same node, showing the closed loop.
type Cycle[T comparable] struct {
	Nodes []T
}

// FindCycle runs depth-first search looking for a back edge. It returns the
// first cycle found, or nil if the graph is acyclic. Grounded on the
// teacher's planner.DependencyGraph.FindCycle, generalized over node type.
func (g *Graph[T]) FindCycle() *Cycle[T] {
	visited := make(map[T]bool, len(g.nodes))
	onStack := make(map[T]bool, len(g.nodes))
	parent := make(map[T]T, len(g.nodes))

	var found *Cycle[T]
	var dfs func(T)
	dfs = func(n T) {
		if found != nil {
			return
		}
		visited[n] = true
		onStack[n] = true
		for _, dep := range g.edges[n] {
			if found != nil {
				return
			}
			if !visited[dep] {
				parent[dep] = n
				dfs(dep)
			} else if onStack[dep] {
				found = &Cycle[T]{Nodes: reconstruct(n, dep, parent)}
			}
		}
		onStack[n] = false
	}

	for _, n := range g.nodes {
		if !visited[n] {
			dfs(n)
			if found != nil {
				return found
			}
		}
	}
	return nil
}

func reconstruct[T comparable](current, start T, parent map[T]T) []T {
	if current == start {
		return []T{start, start}
	}
	cycle := []T{start}
	node := current
	for node != start {
		cycle = append(cycle, node)
		next, ok := parent[node]
		if !ok {
			break
		}
		node = next
	}
	cycle = append(cycle, start)
	for i, j := 0, len(cycle)-1; i < j; i, j = i+1, j-1 {
		cycle[i], cycle[j] = cycle[j], cycle[i]
	}
	return cycle
}

// ErrCycle is returned by TopologicalSort when the graph is cyclic.
type ErrCycle[T comparable] struct {
	Cycle []T
}

func (e ErrCycle[T]) Error() string {
	return "dependency graph contains a cycle"
}

// TopologicalSort returns nodes in dependency order via post-order DFS: every
// node appears after all the nodes it depends on.
func (g *Graph[T]) TopologicalSort() ([]T, error) {
	if cycle := g.FindCycle(); cycle != nil {
		return nil, ErrCycle[T]{Cycle: cycle.Nodes}
	}

	visited := make(map[T]bool, len(g.nodes))
	result := make([]T, 0, len(g.nodes))

	var visit func(T)
	visit = func(n T) {
		if visited[n] {
			return
		}
		for _, dep := range g.edges[n] {
			visit(dep)
		}
		visited[n] = true
		result = append(result, n)
	}

	for _, n := range g.nodes {
		visit(n)
	}
	return result, nil
}

// Levels groups nodes into dependency-ordered batches: level 0 has no
// dependencies, level k depends only on levels < k. Nodes within one batch
// have no edges between them and may compile or resolve in parallel.
func (g *Graph[T]) Levels() ([][]T, error) {
	if cycle := g.FindCycle(); cycle != nil {
		return nil, ErrCycle[T]{Cycle: cycle.Nodes}
	}
	if len(g.nodes) == 0 {
		return nil, nil
	}

	levelOf := make(map[T]int, len(g.nodes))
	var compute func(T) int
	compute = func(n T) int {
		if lvl, ok := levelOf[n]; ok {
			return lvl
		}
		deps := g.edges[n]
		if len(deps) == 0 {
			levelOf[n] = 0
			return 0
		}
		max := -1
		for _, dep := range deps {
			if l := compute(dep); l > max {
				max = l
			}
		}
		levelOf[n] = max + 1
		return max + 1
	}

	maxLevel := 0
	for _, n := range g.nodes {
		if l := compute(n); l > maxLevel {
			maxLevel = l
		}
	}

	batches := make([][]T, maxLevel+1)
	for _, n := range g.nodes {
		l := levelOf[n]
		batches[l] = append(batches[l], n)
	}
	return batches, nil
}
