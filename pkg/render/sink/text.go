package sink

import "github.com/matzehuels/stackgraph/pkg/diagram"

// baselineRatio places a text baseline within its line box. Go Mono's
// ascent is about four fifths of ascent plus descent.
const baselineRatio = 0.8

type nodeText struct {
	idBaseline    float64
	divider       float64
	labelBaseline float64
}

// textLayout stacks the id line above the label line, centered vertically
// in the node box, with the divider between them. Offsets are relative to
// the node's top-left corner.
func textLayout(b diagram.NodeBox) nodeText {
	top := (b.H - b.IDText.H - b.LabelText.H) / 2
	return nodeText{
		idBaseline:    top + b.IDText.H*baselineRatio,
		divider:       top + b.IDText.H,
		labelBaseline: top + b.IDText.H + b.LabelText.H*baselineRatio,
	}
}

// dividerSpan returns the horizontal extent of the divider at height y
// inside the node outline.
func dividerSpan(shape diagram.Shape, b diagram.NodeBox, y float64) (float64, float64) {
	if shape == diagram.ShapeTriangle && b.H > 0 {
		half := b.W / 2 * (y / b.H)
		return b.W/2 - half, b.W/2 + half
	}
	return 0, b.W
}
