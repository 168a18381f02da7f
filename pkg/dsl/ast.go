package dsl

import (
	"fmt"

	"github.com/matzehuels/stackgraph/pkg/diagram"
)

// Position is a 1-based location in the source text.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string { return fmt.Sprintf("%d:%d", p.Line, p.Column) }

// SyntaxError reports malformed diagram text.
type SyntaxError struct {
	Pos Position
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Msg)
}

// StatementKind distinguishes node declarations from edge declarations.
type StatementKind int

const (
	NodeStatement StatementKind = iota
	EdgeStatement
)

// NodeRef is a node as written in the source.
type NodeRef struct {
	ID    string
	Label string
	Shape diagram.Shape
	// Delimited is true when the node was written with a shape delimiter,
	// even an empty one such as "a{}".
	Delimited bool
	Pos       Position
}

func (n NodeRef) node() diagram.Node {
	return diagram.Node{ID: n.ID, Label: n.Label, Shape: n.Shape}
}

// Statement is one parsed declaration. Chained edges are expanded into one
// statement per hop.
type Statement struct {
	Kind StatementKind
	Pos  Position

	// Node is set for node statements.
	Node NodeRef

	// Source and Target are set for edge statements. Either is nil when the
	// statement did not name it.
	Source *NodeRef
	Target *NodeRef
	Style  diagram.EdgeStyle
}

// Document is a parsed diagram.
type Document struct {
	Direction  diagram.Direction
	Statements []Statement
}

// Apply feeds the statement into b. Node statements are explicit
// declarations; edge endpoints are implicit and never overwrite an
// existing node.
func (s Statement) Apply(b *diagram.Builder) {
	if s.Kind == NodeStatement {
		b.InsertOrUpdateNode(s.Node.node())
		return
	}
	if s.Source == nil || s.Target == nil {
		var src, dst string
		if s.Source != nil {
			src = s.Source.ID
		}
		if s.Target != nil {
			dst = s.Target.ID
		}
		b.AddIncompleteEdge(s.Pos.Line, src, dst)
		return
	}
	b.InsertNode(s.Source.node())
	b.InsertNode(s.Target.node())
	b.AddEdge(s.Source.ID, s.Target.ID, s.Style)
}

// Build applies every statement to a fresh builder and returns the model.
func (d *Document) Build() (*diagram.Model, error) {
	b := diagram.NewBuilder()
	b.SetDirection(d.Direction)
	for _, s := range d.Statements {
		s.Apply(b)
	}
	return b.Build()
}
