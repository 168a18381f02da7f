package diagram

import (
	"fmt"
	"math"
)

// Size is a width and height in document units.
type Size struct {
	W, H float64
}

// Point is a position in document units. The y axis grows downward.
type Point struct {
	X, Y float64
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Scale returns p multiplied by k.
func (p Point) Scale(k float64) Point { return Point{p.X * k, p.Y * k} }

// Segment is a straight line between two points.
type Segment struct {
	Start, End Point
}

// Midpoint returns the point halfway along the segment.
func (s Segment) Midpoint() Point {
	return Point{(s.Start.X + s.End.X) / 2, (s.Start.Y + s.End.Y) / 2}
}

// Length returns the euclidean length of the segment.
func (s Segment) Length() float64 {
	return math.Hypot(s.End.X-s.Start.X, s.End.Y-s.Start.Y)
}

// NodeBox is the measured extent of a node and its two text lines.
type NodeBox struct {
	Size
	IDText    Size // Extent of the id line
	LabelText Size // Extent of the label line; zero when the node has no label
}

// Sized is a model with every node and edge label measured.
type Sized struct {
	*Model
	boxes      []NodeBox
	edgeLabels []Size
}

// NewSized attaches node boxes and edge label sizes to m. There must be
// exactly one box per node and one label size per edge.
func NewSized(m *Model, boxes []NodeBox, edgeLabels []Size) (*Sized, error) {
	if len(boxes) != m.NodeCount() {
		return nil, fmt.Errorf("sized: %d boxes for %d nodes", len(boxes), m.NodeCount())
	}
	if len(edgeLabels) != m.EdgeCount() {
		return nil, fmt.Errorf("sized: %d label sizes for %d edges", len(edgeLabels), m.EdgeCount())
	}
	return &Sized{Model: m, boxes: boxes, edgeLabels: edgeLabels}, nil
}

// Box returns the measured box of node i.
func (s *Sized) Box(i int) NodeBox { return s.boxes[i] }

// EdgeLabel returns the measured label extent of edge j.
func (s *Sized) EdgeLabel(j int) Size { return s.edgeLabels[j] }

// MaxNodeSize returns the largest width and the largest height over all
// nodes. The two maxima may come from different nodes.
func (s *Sized) MaxNodeSize() Size {
	var out Size
	for _, b := range s.boxes {
		out.W = max(out.W, b.W)
		out.H = max(out.H, b.H)
	}
	return out
}

// Placement is where the layout put one node.
type Placement struct {
	Center Point // Node center, y grows downward
	Rank   int   // Layer index, 0 for the first rank
	Order  int   // Position within the rank, 0 for the first slot
}

// LaidOut is a sized model with a position for every node.
type LaidOut struct {
	*Sized
	placements []Placement
	reversed   []bool
	bounds     Size
}

// NewLaidOut attaches node placements to s. reversed marks the edges that
// were inverted to break cycles; it may be nil when no edge was. bounds
// is the extent of the content, whose top-left corner is the origin.
func NewLaidOut(s *Sized, placements []Placement, reversed []bool, bounds Size) (*LaidOut, error) {
	if len(placements) != s.NodeCount() {
		return nil, fmt.Errorf("laid out: %d placements for %d nodes", len(placements), s.NodeCount())
	}
	if reversed == nil {
		reversed = make([]bool, s.EdgeCount())
	}
	if len(reversed) != s.EdgeCount() {
		return nil, fmt.Errorf("laid out: %d reversal flags for %d edges", len(reversed), s.EdgeCount())
	}
	return &LaidOut{Sized: s, placements: placements, reversed: reversed, bounds: bounds}, nil
}

// Placement returns the placement of node i.
func (l *LaidOut) Placement(i int) Placement { return l.placements[i] }

// Center returns the center of node i.
func (l *LaidOut) Center(i int) Point { return l.placements[i].Center }

// TopLeft returns the top-left corner of node i.
func (l *LaidOut) TopLeft(i int) Point {
	c, b := l.placements[i].Center, l.Box(i)
	return Point{c.X - b.W/2, c.Y - b.H/2}
}

// Reversed reports whether edge j was inverted for ranking.
func (l *LaidOut) Reversed(j int) bool { return l.reversed[j] }

// Bounds returns the extent of the laid out content.
func (l *LaidOut) Bounds() Size { return l.bounds }

// RankCount returns the number of ranks used by real nodes.
func (l *LaidOut) RankCount() int {
	n := 0
	for _, p := range l.placements {
		n = max(n, p.Rank+1)
	}
	return n
}

// Anchored is a laid out model with a line segment for every edge.
type Anchored struct {
	*LaidOut
	anchors []Segment
}

// NewAnchored attaches edge segments to l.
func NewAnchored(l *LaidOut, anchors []Segment) (*Anchored, error) {
	if len(anchors) != l.EdgeCount() {
		return nil, fmt.Errorf("anchored: %d anchors for %d edges", len(anchors), l.EdgeCount())
	}
	return &Anchored{LaidOut: l, anchors: anchors}, nil
}

// Anchor returns the line segment of edge j.
func (a *Anchored) Anchor(j int) Segment { return a.anchors[j] }
