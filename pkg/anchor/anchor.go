// Package anchor computes the line segment drawn for every edge.
//
// An edge runs along the straight line between its endpoint centers. Each
// end is pulled back from the node center to the node border and then by
// the clearance of the head drawn there, so markers sit next to the node
// instead of on top of it.
package anchor

import (
	"math"

	"github.com/matzehuels/stackgraph/pkg/diagram"
)

// Fallback is the direction used when both endpoint centers coincide,
// such as for self-loops.
var Fallback = diagram.Point{X: 0, Y: 1}

// Resolve attaches a segment to every edge of l.
func Resolve(l *diagram.LaidOut) (*diagram.Anchored, error) {
	segs := make([]diagram.Segment, l.EdgeCount())
	for j := range segs {
		e := l.Edge(j)
		segs[j] = Segment(
			l.Center(e.Source), l.Box(e.Source).Size,
			l.Center(e.Target), l.Box(e.Target).Size,
			e.SourceHead, e.TargetHead,
		)
	}
	return diagram.NewAnchored(l, segs)
}

// Direction returns the unit vector from s to t, or Fallback when the two
// points coincide.
func Direction(s, t diagram.Point) diagram.Point {
	dx, dy := t.X-s.X, t.Y-s.Y
	n := math.Hypot(dx, dy)
	if n == 0 || math.IsNaN(n) || math.IsInf(n, 0) {
		return Fallback
	}
	return diagram.Point{X: dx / n, Y: dy / n}
}

// Border returns the distance from the center of a w×h rectangle to its
// border along the unit vector d.
func Border(size diagram.Size, d diagram.Point) float64 {
	t := math.Inf(1)
	if d.X != 0 {
		t = min(t, size.W/2/math.Abs(d.X))
	}
	if d.Y != 0 {
		t = min(t, size.H/2/math.Abs(d.Y))
	}
	if math.IsInf(t, 0) {
		return 0
	}
	return t
}

// Segment returns the drawn segment of an edge from a node centered at s
// to one centered at t.
func Segment(s diagram.Point, ss diagram.Size, t diagram.Point, ts diagram.Size, sourceHead, targetHead diagram.Head) diagram.Segment {
	d := Direction(s, t)
	start := s.Add(d.Scale(Border(ss, d) + sourceHead.Clearance()))
	end := t.Add(d.Scale(-(Border(ts, d) + targetHead.Clearance())))
	return diagram.Segment{Start: start, End: end}
}
