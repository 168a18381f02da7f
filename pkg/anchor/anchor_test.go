package anchor

import (
	"math"
	"testing"

	"github.com/matzehuels/stackgraph/pkg/diagram"
)

const eps = 1e-9

func near(a, b diagram.Point) bool {
	return math.Abs(a.X-b.X) < eps && math.Abs(a.Y-b.Y) < eps
}

func TestSegmentVertical(t *testing.T) {
	box := diagram.Size{W: 60, H: 30}
	seg := Segment(
		diagram.Point{X: 50, Y: 15}, box,
		diagram.Point{X: 50, Y: 115}, box,
		diagram.HeadNone, diagram.HeadRight,
	)
	// Source border at y=30 plus 3.0, target border at y=100 minus 7.5.
	if want := (diagram.Point{X: 50, Y: 33}); !near(seg.Start, want) {
		t.Errorf("Start = %v, want %v", seg.Start, want)
	}
	if want := (diagram.Point{X: 50, Y: 92.5}); !near(seg.End, want) {
		t.Errorf("End = %v, want %v", seg.End, want)
	}
}

func TestSegmentHorizontalLeftHead(t *testing.T) {
	box := diagram.Size{W: 40, H: 20}
	seg := Segment(
		diagram.Point{X: 100, Y: 10}, box,
		diagram.Point{X: 0, Y: 10}, box,
		diagram.HeadLeft, diagram.HeadDot,
	)
	if want := (diagram.Point{X: 72.5, Y: 10}); !near(seg.Start, want) {
		t.Errorf("Start = %v, want %v", seg.Start, want)
	}
	if want := (diagram.Point{X: 23, Y: 10}); !near(seg.End, want) {
		t.Errorf("End = %v, want %v", seg.End, want)
	}
}

func TestSegmentDiagonalStaysOnDirection(t *testing.T) {
	box := diagram.Size{W: 50, H: 20}
	s, tc := diagram.Point{X: 0, Y: 0}, diagram.Point{X: 30, Y: 40}
	seg := Segment(s, box, tc, box, diagram.HeadNone, diagram.HeadNone)

	d := Direction(s, tc)
	if !near(d, diagram.Point{X: 0.6, Y: 0.8}) {
		t.Fatalf("Direction() = %v, want {0.6 0.8}", d)
	}
	// Height limits: border at t = 10/0.8 = 12.5.
	want := diagram.Point{X: 0.6 * 15.5, Y: 0.8 * 15.5}
	if !near(seg.Start, want) {
		t.Errorf("Start = %v, want %v", seg.Start, want)
	}
	cross := (seg.End.X-seg.Start.X)*d.Y - (seg.End.Y-seg.Start.Y)*d.X
	if math.Abs(cross) > eps {
		t.Errorf("segment not parallel to center line, cross = %v", cross)
	}
}

func TestSegmentCoincidentCenters(t *testing.T) {
	c := diagram.Point{X: 10, Y: 10}
	box := diagram.Size{W: 50, H: 20}
	seg := Segment(c, box, c, box, diagram.HeadNone, diagram.HeadRight)

	for _, p := range []diagram.Point{seg.Start, seg.End} {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			t.Fatalf("segment %v is not finite", seg)
		}
	}
	// Fallback direction (0, 1): start below the center, end above it.
	if want := (diagram.Point{X: 10, Y: 23}); !near(seg.Start, want) {
		t.Errorf("Start = %v, want %v", seg.Start, want)
	}
	if want := (diagram.Point{X: 10, Y: -7.5}); !near(seg.End, want) {
		t.Errorf("End = %v, want %v", seg.End, want)
	}
}

func TestBorder(t *testing.T) {
	tests := []struct {
		size diagram.Size
		d    diagram.Point
		want float64
	}{
		{diagram.Size{W: 40, H: 20}, diagram.Point{X: 1, Y: 0}, 20},
		{diagram.Size{W: 40, H: 20}, diagram.Point{X: 0, Y: -1}, 10},
		{diagram.Size{W: 40, H: 20}, diagram.Point{X: math.Sqrt2 / 2, Y: math.Sqrt2 / 2}, 10 * math.Sqrt2},
		{diagram.Size{W: 40, H: 20}, diagram.Point{}, 0},
	}
	for _, tt := range tests {
		if got := Border(tt.size, tt.d); math.Abs(got-tt.want) > eps {
			t.Errorf("Border(%v, %v) = %v, want %v", tt.size, tt.d, got, tt.want)
		}
	}
}

func TestResolve(t *testing.T) {
	b := diagram.NewBuilder()
	b.AddEdge("a", "b", diagram.EdgeStyle{TargetHead: diagram.HeadRight})
	b.AddEdge("a", "a", diagram.EdgeStyle{})
	m, _ := b.Build()
	box := diagram.NodeBox{Size: diagram.Size{W: 50, H: 20}}
	s, _ := diagram.NewSized(m, []diagram.NodeBox{box, box}, make([]diagram.Size, 2))
	l, _ := diagram.NewLaidOut(s, []diagram.Placement{
		{Center: diagram.Point{X: 25, Y: 10}},
		{Center: diagram.Point{X: 25, Y: 90}, Rank: 1},
	}, nil, diagram.Size{W: 50, H: 100})

	a, err := Resolve(l)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got := a.Anchor(0); !near(got.Start, diagram.Point{X: 25, Y: 23}) || !near(got.End, diagram.Point{X: 25, Y: 72.5}) {
		t.Errorf("Anchor(0) = %v", got)
	}
	if got := a.Anchor(1); math.IsNaN(got.Start.Y) || math.IsNaN(got.End.Y) {
		t.Errorf("self-loop anchor = %v, want finite", got)
	}
}
