package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/stackgraph/pkg/diagram"
)

type document struct {
	Direction diagram.Direction `json:"direction"`
	Width     float64           `json:"width"`
	Height    float64           `json:"height"`
	Nodes     []node            `json:"nodes"`
	Edges     []edge            `json:"edges"`
}

type size struct {
	W float64 `json:"w"`
	H float64 `json:"h"`
}

type point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type node struct {
	ID         string             `json:"id"`
	Label      string             `json:"label,omitempty"`
	Shape      diagram.Shape      `json:"shape"`
	Provenance diagram.Provenance `json:"provenance"`
	X          float64            `json:"x"`
	Y          float64            `json:"y"`
	Width      float64            `json:"width"`
	Height     float64            `json:"height"`
	Rank       int                `json:"rank"`
	Order      int                `json:"order"`
	IDText     size               `json:"id_text"`
	LabelText  size               `json:"label_text"`
}

type edge struct {
	From       string            `json:"from"`
	To         string            `json:"to"`
	Line       diagram.LineStyle `json:"line"`
	SourceHead diagram.Head      `json:"source_head"`
	TargetHead diagram.Head      `json:"target_head"`
	Label      string            `json:"label,omitempty"`
	LabelSize  *size             `json:"label_size,omitempty"`
	Reversed   bool              `json:"reversed,omitempty"`
	Start      point             `json:"start"`
	End        point             `json:"end"`
}

func toSize(s diagram.Size) size    { return size{W: s.W, H: s.H} }
func toPoint(p diagram.Point) point { return point{X: p.X, Y: p.Y} }

// WriteJSON encodes a compiled diagram as indented JSON.
func WriteJSON(a *diagram.Anchored, w io.Writer) error {
	b := a.Bounds()
	out := document{
		Direction: a.Direction(),
		Width:     b.W,
		Height:    b.H,
		Nodes:     make([]node, a.NodeCount()),
		Edges:     make([]edge, a.EdgeCount()),
	}

	for i := range out.Nodes {
		n, box, p := a.Node(i), a.Box(i), a.Placement(i)
		out.Nodes[i] = node{
			ID:         n.ID,
			Label:      n.Label,
			Shape:      n.Shape,
			Provenance: n.Provenance,
			X:          p.Center.X,
			Y:          p.Center.Y,
			Width:      box.W,
			Height:     box.H,
			Rank:       p.Rank,
			Order:      p.Order,
			IDText:     toSize(box.IDText),
			LabelText:  toSize(box.LabelText),
		}
	}
	for j := range out.Edges {
		e, seg := a.Edge(j), a.Anchor(j)
		ed := edge{
			From:       a.Node(e.Source).ID,
			To:         a.Node(e.Target).ID,
			Line:       e.Line,
			SourceHead: e.SourceHead,
			TargetHead: e.TargetHead,
			Label:      e.Label,
			Reversed:   a.Reversed(j),
			Start:      toPoint(seg.Start),
			End:        toPoint(seg.End),
		}
		if e.Label != "" {
			ls := toSize(a.EdgeLabel(j))
			ed.LabelSize = &ls
		}
		out.Edges[j] = ed
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a compiled diagram to a JSON file at path.
func ExportJSON(a *diagram.Anchored, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(a, f)
}
