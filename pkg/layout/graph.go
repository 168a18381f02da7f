package layout

import "github.com/matzehuels/stackgraph/pkg/diagram"

// graph is the working adjacency structure of one layout run. Node ids
// 0..real-1 are diagram nodes in declaration order; ids from real upward
// are virtual nodes created by subdivide.
type graph struct {
	real int
	out  [][]int
	in   [][]int
	rank []int
}

func (g *graph) size() int { return len(g.out) }

func (g *graph) isVirtual(v int) bool { return v >= g.real }

func (g *graph) addEdge(u, v int) {
	g.out[u] = append(g.out[u], v)
	g.in[v] = append(g.in[v], u)
}

func (g *graph) addNode(rank int) int {
	g.out = append(g.out, nil)
	g.in = append(g.in, nil)
	g.rank = append(g.rank, rank)
	return len(g.out) - 1
}

// newGraph builds the acyclic ranking graph of m: reversed edges are
// flipped and self-loops are dropped.
func newGraph(m *diagram.Model, reversed []bool) *graph {
	n := m.NodeCount()
	g := &graph{
		real: n,
		out:  make([][]int, n),
		in:   make([][]int, n),
		rank: make([]int, n),
	}
	for j := 0; j < m.EdgeCount(); j++ {
		e := m.Edge(j)
		if e.IsLoop() {
			continue
		}
		if reversed[j] {
			g.addEdge(e.Target, e.Source)
		} else {
			g.addEdge(e.Source, e.Target)
		}
	}
	return g
}
