package layout

import "github.com/matzehuels/stackgraph/pkg/diagram"

// breakCycles marks the edges that close a cycle in a depth-first search.
// The search starts from every source in declaration order and then from
// any node not yet visited, which covers components that are entirely
// cyclic. Reversing the marked edges leaves an acyclic graph.
func breakCycles(m *diagram.Model) []bool {
	const (
		white = iota
		gray
		black
	)

	n := m.NodeCount()
	type arc struct{ to, edge int }
	out := make([][]arc, n)
	indeg := make([]int, n)
	for j := 0; j < m.EdgeCount(); j++ {
		e := m.Edge(j)
		if e.IsLoop() {
			continue
		}
		out[e.Source] = append(out[e.Source], arc{e.Target, j})
		indeg[e.Target]++
	}

	reversed := make([]bool, m.EdgeCount())
	color := make([]int, n)

	var dfs func(v int)
	dfs = func(v int) {
		color[v] = gray
		for _, a := range out[v] {
			switch color[a.to] {
			case white:
				dfs(a.to)
			case gray:
				reversed[a.edge] = true
			}
		}
		color[v] = black
	}

	for v := 0; v < n; v++ {
		if indeg[v] == 0 && color[v] == white {
			dfs(v)
		}
	}
	for v := 0; v < n; v++ {
		if color[v] == white {
			dfs(v)
		}
	}
	return reversed
}
