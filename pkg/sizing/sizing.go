// Package sizing measures every node and edge label of a model.
package sizing

import (
	"fmt"

	"github.com/matzehuels/stackgraph/pkg/diagram"
	"github.com/matzehuels/stackgraph/pkg/textmetrics"
)

// Options control node dimensions.
type Options struct {
	IDFontSize        float64 // Font size of the node id line
	LabelFontSize     float64 // Font size of the node label line
	EdgeLabelFontSize float64 // Font size of edge labels
	PaddingX          float64 // Horizontal padding on each side of the text
	PaddingY          float64 // Vertical padding above and below the text
	MinWidth          float64
	MinHeight         float64
}

// DefaultOptions returns the sizes used when no configuration is given.
func DefaultOptions() Options {
	return Options{
		IDFontSize:        8,
		LabelFontSize:     12,
		EdgeLabelFontSize: 8,
		PaddingX:          10,
		PaddingY:          5,
		MinWidth:          50,
		MinHeight:         20,
	}
}

// withDefaults returns the defaults for the zero value. Otherwise only
// non-positive font sizes are replaced; zero padding and minimums are
// valid.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o == (Options{}) {
		return d
	}
	if o.IDFontSize <= 0 {
		o.IDFontSize = d.IDFontSize
	}
	if o.LabelFontSize <= 0 {
		o.LabelFontSize = d.LabelFontSize
	}
	if o.EdgeLabelFontSize <= 0 {
		o.EdgeLabelFontSize = d.EdgeLabelFontSize
	}
	return o
}

// Size measures the id and label of every node and the label of every
// edge. A node is as wide as its wider text line plus horizontal padding
// and as tall as both lines plus vertical padding, never smaller than the
// configured minimum. Any measurement failure aborts sizing.
func Size(m *diagram.Model, tm textmetrics.Measurer, opts Options) (*diagram.Sized, error) {
	opts = opts.withDefaults()
	boxes := make([]diagram.NodeBox, m.NodeCount())
	for i := range boxes {
		n := m.Node(i)
		box, err := nodeBox(n, tm, opts)
		if err != nil {
			return nil, fmt.Errorf("size node %q: %w", n.ID, err)
		}
		boxes[i] = box
	}

	labels := make([]diagram.Size, m.EdgeCount())
	for j := range labels {
		e := m.Edge(j)
		if e.Label == "" {
			continue
		}
		s, err := tm.Measure(e.Label, opts.EdgeLabelFontSize)
		if err != nil {
			return nil, fmt.Errorf("size label of edge %q -> %q: %w", m.Node(e.Source).ID, m.Node(e.Target).ID, err)
		}
		labels[j] = s
	}
	return diagram.NewSized(m, boxes, labels)
}

func nodeBox(n diagram.Node, tm textmetrics.Measurer, opts Options) (diagram.NodeBox, error) {
	id, err := tm.Measure(n.ID, opts.IDFontSize)
	if err != nil {
		return diagram.NodeBox{}, err
	}
	var label diagram.Size
	if n.HasLabel() {
		if label, err = tm.Measure(n.Label, opts.LabelFontSize); err != nil {
			return diagram.NodeBox{}, err
		}
	}
	return diagram.NodeBox{
		Size: diagram.Size{
			W: max(opts.MinWidth, max(id.W, label.W)+2*opts.PaddingX),
			H: max(opts.MinHeight, id.H+label.H+2*opts.PaddingY),
		},
		IDText:    id,
		LabelText: label,
	}, nil
}
