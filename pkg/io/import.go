package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/stackgraph/pkg/diagram"
)

// ReadJSON decodes a layout written by [WriteJSON].
//
// It fails on malformed JSON, duplicate node ids, duplicate edges, edges
// naming unknown nodes, and unknown enum names. Unknown fields are
// rejected so that a DSL file passed by mistake is not half-read.
func ReadJSON(r io.Reader) (*diagram.Anchored, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var doc document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	b := diagram.NewBuilder()
	b.SetDirection(doc.Direction)
	seen := make(map[string]bool, len(doc.Nodes))
	for _, n := range doc.Nodes {
		if seen[n.ID] {
			return nil, fmt.Errorf("node %s: duplicate id", n.ID)
		}
		seen[n.ID] = true
		nd := diagram.Node{ID: n.ID, Label: n.Label, Shape: n.Shape}
		if n.Provenance == diagram.Explicit {
			b.InsertOrUpdateNode(nd)
		} else {
			b.InsertNode(nd)
		}
	}
	type pair struct{ from, to string }
	edges := make(map[pair]bool, len(doc.Edges))
	for _, e := range doc.Edges {
		if !seen[e.From] || !seen[e.To] {
			return nil, fmt.Errorf("edge %s->%s: unknown node", e.From, e.To)
		}
		if edges[pair{e.From, e.To}] {
			return nil, fmt.Errorf("edge %s->%s: duplicate edge", e.From, e.To)
		}
		edges[pair{e.From, e.To}] = true
		b.AddEdge(e.From, e.To, diagram.EdgeStyle{
			Line:       e.Line,
			SourceHead: e.SourceHead,
			TargetHead: e.TargetHead,
			Label:      e.Label,
		})
	}
	m, err := b.Build()
	if err != nil {
		return nil, err
	}

	boxes := make([]diagram.NodeBox, len(doc.Nodes))
	placements := make([]diagram.Placement, len(doc.Nodes))
	for i, n := range doc.Nodes {
		boxes[i] = diagram.NodeBox{
			Size:      diagram.Size{W: n.Width, H: n.Height},
			IDText:    diagram.Size{W: n.IDText.W, H: n.IDText.H},
			LabelText: diagram.Size{W: n.LabelText.W, H: n.LabelText.H},
		}
		placements[i] = diagram.Placement{
			Center: diagram.Point{X: n.X, Y: n.Y},
			Rank:   n.Rank,
			Order:  n.Order,
		}
	}
	labels := make([]diagram.Size, len(doc.Edges))
	reversed := make([]bool, len(doc.Edges))
	anchors := make([]diagram.Segment, len(doc.Edges))
	for j, e := range doc.Edges {
		if e.LabelSize != nil {
			labels[j] = diagram.Size{W: e.LabelSize.W, H: e.LabelSize.H}
		}
		reversed[j] = e.Reversed
		anchors[j] = diagram.Segment{
			Start: diagram.Point{X: e.Start.X, Y: e.Start.Y},
			End:   diagram.Point{X: e.End.X, Y: e.End.Y},
		}
	}

	s, err := diagram.NewSized(m, boxes, labels)
	if err != nil {
		return nil, err
	}
	l, err := diagram.NewLaidOut(s, placements, reversed, diagram.Size{W: doc.Width, H: doc.Height})
	if err != nil {
		return nil, err
	}
	return diagram.NewAnchored(l, anchors)
}

// ImportJSON reads a layout file at path.
func ImportJSON(path string) (*diagram.Anchored, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

// IsLayout reports whether data looks like a layout file rather than DSL
// text: a JSON object after optional leading whitespace.
func IsLayout(data []byte) bool {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '{'
}
