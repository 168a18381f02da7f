package render

import (
	"math"

	"github.com/matzehuels/stackgraph/pkg/diagram"
)

const (
	MinContentSize = 100
	MinMargin      = 20
	MarginRatio    = 0.075
)

// Frame is the document canvas: the content box, the offset that centers
// undersized content in it, and the margin around it.
type Frame struct {
	Content diagram.Size
	Offset  diagram.Point
	Margin  float64
}

// NewFrame fits a frame around content of the given bounds.
func NewFrame(bounds diagram.Size) Frame {
	content := diagram.Size{
		W: max(bounds.W, MinContentSize),
		H: max(bounds.H, MinContentSize),
	}
	return Frame{
		Content: content,
		Offset:  diagram.Point{X: (content.W - bounds.W) / 2, Y: (content.H - bounds.H) / 2},
		Margin:  max(MinMargin, max(content.W, content.H)*MarginRatio),
	}
}

// Width returns the document width including margins.
func (f Frame) Width() float64 { return f.Content.W + 2*f.Margin }

// Height returns the document height including margins.
func (f Frame) Height() float64 { return f.Content.H + 2*f.Margin }

// Origin is where the content origin lands in document coordinates.
func (f Frame) Origin() diagram.Point {
	return diagram.Point{X: f.Margin + f.Offset.X, Y: f.Margin + f.Offset.Y}
}

// PixelSize returns the document size rounded up to whole units.
func (f Frame) PixelSize() (int, int) {
	return int(math.Ceil(f.Width())), int(math.Ceil(f.Height()))
}
