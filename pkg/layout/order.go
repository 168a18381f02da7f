package layout

import (
	"slices"
	"sort"
)

// buildLayers groups nodes by rank in id order, which puts real nodes in
// declaration order followed by virtual nodes in creation order.
func buildLayers(g *graph) [][]int {
	depth := 0
	for _, r := range g.rank {
		depth = max(depth, r+1)
	}
	layers := make([][]int, depth)
	for v := 0; v < g.size(); v++ {
		layers[g.rank[v]] = append(layers[g.rank[v]], v)
	}
	return layers
}

func cloneLayers(layers [][]int) [][]int {
	out := make([][]int, len(layers))
	for i, l := range layers {
		out[i] = slices.Clone(l)
	}
	return out
}

// orderLayers reduces crossings with barycenter sweeps and returns the best
// ordering found and its crossing count. It stops once a downward and an
// upward sweep both leave the ordering unchanged, when no crossings remain,
// or after maxIter sweeps.
func orderLayers(g *graph, layers [][]int, maxIter int) ([][]int, int) {
	width := 0
	for _, l := range layers {
		width = max(width, len(l))
	}
	cc := newCrossingCounter(g, width)

	best := cloneLayers(layers)
	bestCrossings := cc.total(layers)
	stable := 0
	for it := 0; it < maxIter && bestCrossings > 0 && stable < 2; it++ {
		down := it%2 == 0
		changed := sweep(g, layers, cc, down)
		if transpose(layers, cc, down) {
			changed = true
		}
		if changed {
			stable = 0
		} else {
			stable++
		}
		if c := cc.total(layers); c < bestCrossings {
			best, bestCrossings = cloneLayers(layers), c
		}
	}
	return best, bestCrossings
}

// sweep reorders every layer by the barycenter of its neighbours in the
// previous layer of the sweep direction. Nodes without such neighbours
// keep their current position as barycenter; ties keep the current order.
func sweep(g *graph, layers [][]int, cc *crossingCounter, down bool) bool {
	for _, layer := range layers {
		for i, v := range layer {
			cc.pos[v] = i
		}
	}

	changed := false
	reorder := func(r int, useParents bool) {
		layer := layers[r]
		bary := make(map[int]float64, len(layer))
		for i, v := range layer {
			nbrs := g.out[v]
			if useParents {
				nbrs = g.in[v]
			}
			if len(nbrs) == 0 {
				bary[v] = float64(i)
				continue
			}
			sum := 0
			for _, u := range nbrs {
				sum += cc.pos[u]
			}
			bary[v] = float64(sum) / float64(len(nbrs))
		}
		before := slices.Clone(layer)
		sort.SliceStable(layer, func(a, b int) bool { return bary[layer[a]] < bary[layer[b]] })
		if !slices.Equal(before, layer) {
			changed = true
		}
		for i, v := range layer {
			cc.pos[v] = i
		}
	}

	if down {
		for r := 1; r < len(layers); r++ {
			reorder(r, true)
		}
	} else {
		for r := len(layers) - 2; r >= 0; r-- {
			reorder(r, false)
		}
	}
	return changed
}

// transpose swaps adjacent nodes while doing so strictly reduces the
// crossings against the layer the sweep came from.
func transpose(layers [][]int, cc *crossingCounter, down bool) bool {
	changed := false
	for r := range layers {
		useParents := down
		if (down && r == 0) || (!down && r == len(layers)-1) {
			continue
		}
		layer := layers[r]
		for improved := true; improved; {
			improved = false
			for i := 0; i+1 < len(layer); i++ {
				u, v := layer[i], layer[i+1]
				if cc.pairCrossings(v, u, useParents) < cc.pairCrossings(u, v, useParents) {
					layer[i], layer[i+1] = v, u
					cc.pos[u], cc.pos[v] = i+1, i
					improved, changed = true, true
				}
			}
		}
	}
	return changed
}
