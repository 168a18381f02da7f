package layout

import (
	"context"
	"fmt"
	"math"

	"github.com/matzehuels/stackgraph/pkg/diagram"
)

// Options tune spacing and effort. The zero value of a field selects its
// default.
type Options struct {
	// SpacingFactor multiplies the widest node breadth to obtain the
	// minimum center distance between nodes of one rank. Must be at least
	// 1 so neighbours never overlap.
	SpacingFactor float64
	// MinNodeWidth is the breadth assumed for the slot computation when all
	// nodes are narrower.
	MinNodeWidth float64
	// RankHeightFactor multiplies the deepest node extent to obtain the
	// distance between rank centers, before adding MinRankGap.
	RankHeightFactor float64
	// MinRankGap is added to the rank distance. Must be at least 1.
	MinRankGap float64
	// MaxIterations caps the number of ordering sweeps.
	MaxIterations int
	// BalancePasses is the number of coordinate balancing rounds.
	BalancePasses int
	// Direction overrides the model direction when UseDirection is set.
	Direction    diagram.Direction
	UseDirection bool
}

// DefaultOptions returns the spacing used when no configuration is given.
func DefaultOptions() Options {
	return Options{
		SpacingFactor:    1.5,
		MinNodeWidth:     50,
		RankHeightFactor: 2,
		MinRankGap:       20,
		MaxIterations:    24,
		BalancePasses:    4,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.SpacingFactor < 1 {
		o.SpacingFactor = d.SpacingFactor
	}
	if o.MinNodeWidth <= 0 {
		o.MinNodeWidth = d.MinNodeWidth
	}
	if o.RankHeightFactor <= 0 {
		o.RankHeightFactor = d.RankHeightFactor
	}
	if o.MinRankGap < 1 {
		o.MinRankGap = d.MinRankGap
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = d.MaxIterations
	}
	if o.BalancePasses <= 0 {
		o.BalancePasses = d.BalancePasses
	}
	return o
}

// Stats describes a layout run.
type Stats struct {
	Ranks        int
	VirtualNodes int
	Reversed     int
	Crossings    int
}

// Layout assigns a rank, an order and a center to every node of s.
func Layout(ctx context.Context, s *diagram.Sized, opts Options) (*diagram.LaidOut, Stats, error) {
	opts = opts.withDefaults()
	dir := s.Direction()
	if opts.UseDirection {
		dir = opts.Direction
	}

	reversed := breakCycles(s.Model)
	g := newGraph(s.Model, reversed)
	assignRanks(g)
	subdivide(g)
	if err := ctx.Err(); err != nil {
		return nil, Stats{}, err
	}

	layers, crossings := orderLayers(g, buildLayers(g), opts.MaxIterations)
	if err := ctx.Err(); err != nil {
		return nil, Stats{}, err
	}

	// Breadth runs along the order axis and depth along the rank axis.
	breadth := make([]float64, g.size())
	depth := make([]float64, g.size())
	maxBreadth, maxDepth := 0.0, 0.0
	for v := 0; v < g.real; v++ {
		b := s.Box(v)
		breadth[v], depth[v] = b.W, b.H
		if dir.Horizontal() {
			breadth[v], depth[v] = b.H, b.W
		}
		maxBreadth = max(maxBreadth, breadth[v])
		maxDepth = max(maxDepth, depth[v])
	}

	slot := max(opts.MinNodeWidth, maxBreadth) * opts.SpacingFactor
	rankSpacing := maxDepth*opts.RankHeightFactor + opts.MinRankGap
	along := assignBreadth(g, layers, slot, opts.BalancePasses)

	placements := make([]diagram.Placement, g.real)
	for _, layer := range layers {
		order := 0
		for _, v := range layer {
			if g.isVirtual(v) {
				continue
			}
			layerY := -float64(g.rank[v]) * rankSpacing
			placements[v] = diagram.Placement{
				Center: diagram.Point{X: along[v], Y: toScreen(layerY)},
				Rank:   g.rank[v],
				Order:  order,
			}
			order++
		}
	}
	bounds := normalize(placements, breadth, depth)
	bounds = orient(placements, bounds, dir)

	nrev := 0
	for _, r := range reversed {
		if r {
			nrev++
		}
	}
	stats := Stats{Ranks: len(layers), VirtualNodes: g.size() - g.real, Reversed: nrev, Crossings: crossings}

	out, err := diagram.NewLaidOut(s, placements, reversed, bounds)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("layout: %w", err)
	}
	return out, stats, nil
}

// toScreen maps a layer-space coordinate, which grows upward, to screen
// space, which grows downward.
func toScreen(layerY float64) float64 { return -layerY }

// normalize translates the top-to-bottom placements so the bounding box
// of the nodes starts at the origin, and returns its extent.
func normalize(ps []diagram.Placement, breadth, depth []float64) diagram.Size {
	if len(ps) == 0 {
		return diagram.Size{}
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for i, p := range ps {
		minX = min(minX, p.Center.X-breadth[i]/2)
		maxX = max(maxX, p.Center.X+breadth[i]/2)
		minY = min(minY, p.Center.Y-depth[i]/2)
		maxY = max(maxY, p.Center.Y+depth[i]/2)
	}
	for i := range ps {
		ps[i].Center.X -= minX
		ps[i].Center.Y -= minY
	}
	return diagram.Size{W: maxX - minX, H: maxY - minY}
}

// orient maps normalized top-to-bottom placements onto dir and returns the
// bounds in the new orientation.
func orient(ps []diagram.Placement, bounds diagram.Size, dir diagram.Direction) diagram.Size {
	for i := range ps {
		c := ps[i].Center
		switch dir {
		case diagram.BottomTop:
			ps[i].Center = diagram.Point{X: c.X, Y: bounds.H - c.Y}
		case diagram.LeftRight:
			ps[i].Center = diagram.Point{X: c.Y, Y: c.X}
		case diagram.RightLeft:
			ps[i].Center = diagram.Point{X: bounds.H - c.Y, Y: c.X}
		}
	}
	if dir.Horizontal() {
		return diagram.Size{W: bounds.H, H: bounds.W}
	}
	return bounds
}
