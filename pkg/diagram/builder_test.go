package diagram

import (
	"errors"
	"testing"
)

func TestBuilderExplicitOverridesImplicit(t *testing.T) {
	b := NewBuilder()
	b.AddEdge("a", "b", EdgeStyle{TargetHead: HeadRight})
	b.InsertOrUpdateNode(Node{ID: "a", Label: "Start", Shape: ShapeRounded})

	m, err := b.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if m.NodeCount() != 2 {
		t.Fatalf("NodeCount() = %d, want 2", m.NodeCount())
	}
	a, _ := m.Lookup("a")
	if a.Label != "Start" || a.Shape != ShapeRounded || a.Provenance != Explicit {
		t.Errorf("a = %+v, want explicit rounded node labelled Start", a)
	}
	if i, _ := m.Index("a"); i != 0 {
		t.Errorf("Index(a) = %d, want 0 (position kept)", i)
	}
}

func TestBuilderImplicitNeverOverwrites(t *testing.T) {
	b := NewBuilder()
	b.InsertOrUpdateNode(Node{ID: "a", Label: "Start", Shape: ShapeSquare})
	b.AddEdge("a", "b", EdgeStyle{})
	b.InsertNode(Node{ID: "a", Label: "Other", Shape: ShapeTriangle})

	m, err := b.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	a, _ := m.Lookup("a")
	if a.Label != "Start" || a.Shape != ShapeSquare {
		t.Errorf("a = %+v, want the explicit declaration", a)
	}
	bn, _ := m.Lookup("b")
	if bn.Provenance != Implicit || bn.Shape != ShapeEmpty || bn.HasLabel() {
		t.Errorf("b = %+v, want implicit empty node", bn)
	}
}

func TestBuilderExplicitLastWriteWins(t *testing.T) {
	b := NewBuilder()
	b.InsertOrUpdateNode(Node{ID: "a", Label: "one", Shape: ShapeRounded})
	b.InsertOrUpdateNode(Node{ID: "a", Label: "two", Shape: ShapeSquare})

	m, _ := b.Build()
	if m.NodeCount() != 1 {
		t.Fatalf("NodeCount() = %d, want 1", m.NodeCount())
	}
	if a := m.Node(0); a.Label != "two" || a.Shape != ShapeSquare {
		t.Errorf("Node(0) = %+v, want label two, square", a)
	}
}

func TestBuilderEdgeReplaceByKey(t *testing.T) {
	b := NewBuilder()
	b.AddEdge("a", "b", EdgeStyle{Line: LineThin, Label: "first"})
	b.AddEdge("b", "c", EdgeStyle{})
	b.AddEdge("a", "b", EdgeStyle{Line: LineThick, TargetHead: HeadDot})

	m, _ := b.Build()
	if m.EdgeCount() != 2 {
		t.Fatalf("EdgeCount() = %d, want 2", m.EdgeCount())
	}
	j, ok := m.FindEdge("a", "b")
	if !ok || j != 0 {
		t.Fatalf("FindEdge(a, b) = %d, %v, want 0, true", j, ok)
	}
	e := m.Edge(j)
	if e.Line != LineThick || e.TargetHead != HeadDot || e.Label != "" {
		t.Errorf("Edge(0) = %+v, want the second declaration", e)
	}
}

func TestBuilderReverseEdgeIsDistinct(t *testing.T) {
	b := NewBuilder()
	b.AddEdge("a", "b", EdgeStyle{})
	b.AddEdge("b", "a", EdgeStyle{})
	m, _ := b.Build()
	if m.EdgeCount() != 2 {
		t.Errorf("EdgeCount() = %d, want 2", m.EdgeCount())
	}
}

func TestBuilderIncompleteEdge(t *testing.T) {
	b := NewBuilder()
	b.AddEdge("a", "b", EdgeStyle{})
	b.AddIncompleteEdge(2, "b", "")

	_, err := b.Build()
	if !errors.Is(err, ErrIncompleteEdge) {
		t.Fatalf("Build() error = %v, want ErrIncompleteEdge", err)
	}
	var ie *IncompleteEdgeError
	if !errors.As(err, &ie) {
		t.Fatalf("errors.As(*IncompleteEdgeError) = false")
	}
	if ie.Line != 2 || ie.Source != "b" {
		t.Errorf("IncompleteEdgeError = %+v, want line 2 source b", ie)
	}
	if got, want := ie.Error(), `line 2: edge from "b" is missing its target`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestBuilderMultipleIncompleteEdges(t *testing.T) {
	b := NewBuilder()
	b.AddIncompleteEdge(1, "a", "")
	b.AddIncompleteEdge(4, "", "c")
	_, err := b.Build()
	if !errors.Is(err, ErrIncompleteEdge) {
		t.Fatalf("Build() error = %v, want ErrIncompleteEdge", err)
	}
	if got, want := err.Error(), `line 1: edge from "a" is missing its target (also on lines 4)`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestBuilderEmptyID(t *testing.T) {
	b := NewBuilder()
	b.InsertOrUpdateNode(Node{ID: ""})
	if _, err := b.Build(); !errors.Is(err, ErrInvalidNodeID) {
		t.Errorf("Build() error = %v, want ErrInvalidNodeID", err)
	}
}

func TestBuilderDeclarationOrder(t *testing.T) {
	b := NewBuilder()
	b.AddEdge("c", "a", EdgeStyle{})
	b.InsertOrUpdateNode(Node{ID: "b"})
	b.InsertOrUpdateNode(Node{ID: "a", Label: "x"})
	m, _ := b.Build()

	want := []string{"c", "a", "b"}
	for i, id := range want {
		if got := m.Node(i).ID; got != id {
			t.Errorf("Node(%d).ID = %q, want %q", i, got, id)
		}
	}
}

func TestBuilderDirection(t *testing.T) {
	b := NewBuilder()
	b.SetDirection(LeftRight)
	b.InsertNode(Node{ID: "a"})
	m, _ := b.Build()
	if m.Direction() != LeftRight {
		t.Errorf("Direction() = %v, want LR", m.Direction())
	}
}
