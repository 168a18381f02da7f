package layout

// crossingCounter counts edge crossings between consecutive layers. Two
// edges (u1,v1) and (u2,v2) between the same pair of layers cross exactly
// when pos(u1) < pos(u2) and pos(v1) > pos(v2), so the count is the number
// of inversions among target positions taken in source order, found with
// a Fenwick tree in O(E log V).
//
// A counter reuses its buffers and is not safe for concurrent use.
type crossingCounter struct {
	g   *graph
	pos []int // position of every node within its layer
	ft  []int // Fenwick tree
}

func newCrossingCounter(g *graph, maxWidth int) *crossingCounter {
	return &crossingCounter{g: g, pos: make([]int, g.size()), ft: make([]int, maxWidth+2)}
}

// total returns the crossings of all consecutive layer pairs.
func (c *crossingCounter) total(layers [][]int) int {
	for _, layer := range layers {
		for i, v := range layer {
			c.pos[v] = i
		}
	}
	sum := 0
	for r := 0; r+1 < len(layers); r++ {
		sum += c.between(layers[r], len(layers[r+1]))
	}
	return sum
}

// between counts crossings among edges leaving upper into a layer of
// width lowerWidth. Positions must be current in c.pos.
func (c *crossingCounter) between(upper []int, lowerWidth int) int {
	if len(upper) == 0 || lowerWidth == 0 {
		return 0
	}
	limit := lowerWidth + 1
	for i := 0; i < limit; i++ {
		c.ft[i] = 0
	}

	crossings, total := 0, 0
	for _, u := range upper {
		targets := c.g.out[u]
		// Edges sharing a source never cross each other, so query all of
		// them before recording any.
		for _, v := range targets {
			lessOrEqual := 0
			for q := c.pos[v] + 1; q > 0; q -= q & (-q) {
				lessOrEqual += c.ft[q]
			}
			crossings += total - lessOrEqual
		}
		for _, v := range targets {
			total++
			for idx := c.pos[v] + 1; idx < limit; idx += idx & (-idx) {
				c.ft[idx]++
			}
		}
	}
	return crossings
}

// pairCrossings counts crossings between the edges of left and right
// into the adjacent layer whose positions are in c.pos, assuming left is
// placed before right.
func (c *crossingCounter) pairCrossings(left, right int, useParents bool) int {
	lnbr, rnbr := c.g.out[left], c.g.out[right]
	if useParents {
		lnbr, rnbr = c.g.in[left], c.g.in[right]
	}
	crossings := 0
	for _, ln := range lnbr {
		lp := c.pos[ln]
		for _, rn := range rnbr {
			if lp > c.pos[rn] {
				crossings++
			}
		}
	}
	return crossings
}
