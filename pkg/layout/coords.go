package layout

// assignBreadth returns the center of every node along the order axis.
// Each layer starts centered on zero with one slot between neighbours,
// then alternating passes pull every layer toward the mean position of
// its neighbours in the previous layer of the pass.
func assignBreadth(g *graph, layers [][]int, slot float64, passes int) []float64 {
	x := make([]float64, g.size())
	for _, layer := range layers {
		mid := float64(len(layer)-1) / 2
		for k, v := range layer {
			x[v] = (float64(k) - mid) * slot
		}
	}

	align := func(layer []int, useParents bool) {
		desired := make([]float64, len(layer))
		for k, v := range layer {
			nbrs := g.out[v]
			if useParents {
				nbrs = g.in[v]
			}
			if len(nbrs) == 0 {
				desired[k] = x[v]
				continue
			}
			sum := 0.0
			for _, u := range nbrs {
				sum += x[u]
			}
			desired[k] = sum / float64(len(nbrs))
		}
		for k, p := range separate(desired, slot) {
			x[layer[k]] = p
		}
	}

	for p := 0; p < passes; p++ {
		for r := 1; r < len(layers); r++ {
			align(layers[r], true)
		}
		for r := len(layers) - 2; r >= 0; r-- {
			align(layers[r], false)
		}
	}
	return x
}

// separate returns the positions closest to desired, in the least squares
// sense, that keep consecutive entries at least slot apart and preserve
// their order. Substituting y[k] = x[k] - k*slot turns the constraint into
// y being non-decreasing, which pool-adjacent-violators solves exactly.
func separate(desired []float64, slot float64) []float64 {
	type block struct {
		sum   float64
		count int
		start int
	}
	mean := func(b block) float64 { return b.sum / float64(b.count) }

	blocks := make([]block, 0, len(desired))
	for k, d := range desired {
		blocks = append(blocks, block{sum: d - float64(k)*slot, count: 1, start: k})
		for len(blocks) > 1 {
			a, b := blocks[len(blocks)-2], blocks[len(blocks)-1]
			if mean(a) <= mean(b) {
				break
			}
			blocks = append(blocks[:len(blocks)-2], block{sum: a.sum + b.sum, count: a.count + b.count, start: a.start})
		}
	}

	out := make([]float64, len(desired))
	for _, b := range blocks {
		m := mean(b)
		for k := b.start; k < b.start+b.count; k++ {
			out[k] = m + float64(k)*slot
		}
	}
	return out
}
