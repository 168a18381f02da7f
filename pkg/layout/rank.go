package layout

// assignRanks places every node one rank below its deepest predecessor
// using Kahn's algorithm, with the queue seeded in declaration order. The
// graph must be acyclic.
//
// Sources are then moved down to one rank above their nearest child, so
// an edge from a source is never longer than it has to be.
func assignRanks(g *graph) {
	n := g.size()
	indeg := make([]int, n)
	queue := make([]int, 0, n)
	for v := 0; v < n; v++ {
		indeg[v] = len(g.in[v])
		if indeg[v] == 0 {
			queue = append(queue, v)
		}
	}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		for _, child := range g.out[curr] {
			if r := g.rank[curr] + 1; r > g.rank[child] {
				g.rank[child] = r
			}
			indeg[child]--
			if indeg[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	for v := 0; v < n; v++ {
		if len(g.in[v]) > 0 || len(g.out[v]) == 0 {
			continue
		}
		nearest := g.rank[g.out[v][0]]
		for _, child := range g.out[v][1:] {
			nearest = min(nearest, g.rank[child])
		}
		g.rank[v] = nearest - 1
	}
}

// subdivide splits every edge spanning more than one rank into a chain of
// virtual nodes, one per intermediate rank. Afterwards every edge joins
// consecutive ranks.
func subdivide(g *graph) {
	n := g.size()
	for u := 0; u < n; u++ {
		targets := g.out[u]
		for k, v := range targets {
			if g.rank[v]-g.rank[u] <= 1 {
				continue
			}
			prev := u
			for r := g.rank[u] + 1; r < g.rank[v]; r++ {
				w := g.addNode(r)
				if prev == u {
					targets[k] = w
					g.in[w] = append(g.in[w], u)
				} else {
					g.addEdge(prev, w)
				}
				prev = w
			}
			g.out[prev] = append(g.out[prev], v)
			replace(g.in[v], u, prev)
		}
	}
}

// replace swaps the first occurrence of old in s for new.
func replace(s []int, old, new int) {
	for i, x := range s {
		if x == old {
			s[i] = new
			return
		}
	}
}
