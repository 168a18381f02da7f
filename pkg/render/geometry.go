package render

import (
	"math"

	"github.com/matzehuels/stackgraph/pkg/diagram"
)

// Quad is one quadratic Bézier piece of a wavy line.
type Quad struct {
	Control, End diagram.Point
}

// Wave approximates a sine wave along seg with quadratic pieces of half a
// wavelength each, alternating sides. The wave always ends on seg.End.
func Wave(seg diagram.Segment, amplitude, wavelength float64) []Quad {
	length := seg.Length()
	if length == 0 || wavelength <= 0 {
		return []Quad{{Control: seg.End, End: seg.End}}
	}
	n := max(2, int(math.Round(2*length/wavelength)))
	dx, dy := (seg.End.X-seg.Start.X)/length, (seg.End.Y-seg.Start.Y)/length
	nx, ny := -dy, dx
	step := length / float64(n)

	quads := make([]Quad, n)
	for k := 0; k < n; k++ {
		side := 2 * amplitude
		if k%2 == 1 {
			side = -side
		}
		mid := (float64(k) + 0.5) * step
		end := float64(k+1) * step
		quads[k] = Quad{
			Control: diagram.Point{X: seg.Start.X + dx*mid + nx*side, Y: seg.Start.Y + dy*mid + ny*side},
			End:     diagram.Point{X: seg.Start.X + dx*end, Y: seg.Start.Y + dy*end},
		}
	}
	quads[n-1].End = seg.End
	return quads
}

// Arrow returns the three corners of an arrow head whose base center sits
// at base and which points along the unit vector dir.
func Arrow(base, dir diagram.Point, length, width float64) [3]diagram.Point {
	nx, ny := -dir.Y, dir.X
	return [3]diagram.Point{
		{X: base.X + nx*width/2, Y: base.Y + ny*width/2},
		{X: base.X + dir.X*length, Y: base.Y + dir.Y*length},
		{X: base.X - nx*width/2, Y: base.Y - ny*width/2},
	}
}
