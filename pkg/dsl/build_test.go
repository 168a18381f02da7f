package dsl

import (
	"testing"

	"github.com/matzehuels/stackgraph/pkg/diagram"
)

func mustBuild(t *testing.T, src string) *diagram.Model {
	t.Helper()
	doc, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse(%q) error = %v", src, err)
	}
	m, err := doc.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return m
}

func TestBuildSingleNode(t *testing.T) {
	m := mustBuild(t, "a")
	if m.NodeCount() != 1 || m.EdgeCount() != 0 {
		t.Fatalf("counts = %d nodes, %d edges, want 1, 0", m.NodeCount(), m.EdgeCount())
	}
	if n := m.Node(0); n.ID != "a" || n.HasLabel() || n.Shape != diagram.ShapeEmpty {
		t.Errorf("Node(0) = %+v", n)
	}
}

func TestBuildLabelledEdge(t *testing.T) {
	m := mustBuild(t, "a(Start) --> b[End]")
	if m.NodeCount() != 2 || m.EdgeCount() != 1 {
		t.Fatalf("counts = %d nodes, %d edges, want 2, 1", m.NodeCount(), m.EdgeCount())
	}
	a, _ := m.Lookup("a")
	b, _ := m.Lookup("b")
	if a.Shape != diagram.ShapeRounded || a.Label != "Start" {
		t.Errorf("a = %+v", a)
	}
	if b.Shape != diagram.ShapeSquare || b.Label != "End" {
		t.Errorf("b = %+v", b)
	}
	e := m.Edge(0)
	if e.Line != diagram.LineThin || e.TargetHead != diagram.HeadRight || e.SourceHead != diagram.HeadNone {
		t.Errorf("edge = %+v, want thin with right target head", e)
	}
}

func TestBuildExplicitAfterImplicit(t *testing.T) {
	m := mustBuild(t, "a --> b\na(Start)")
	a, _ := m.Lookup("a")
	if a.Label != "Start" || a.Shape != diagram.ShapeRounded || a.Provenance != diagram.Explicit {
		t.Errorf("a = %+v, want explicit rounded Start", a)
	}
}

func TestBuildInlineEndpointDoesNotOverwrite(t *testing.T) {
	m := mustBuild(t, "a[Declared]\na(Other) --> b")
	a, _ := m.Lookup("a")
	if a.Label != "Declared" || a.Shape != diagram.ShapeSquare {
		t.Errorf("a = %+v, want the node statement to win", a)
	}
}

func TestBuildInlineEndpointCreatesNode(t *testing.T) {
	m := mustBuild(t, "a(Start) --> b")
	a, _ := m.Lookup("a")
	if a.Label != "Start" || a.Provenance != diagram.Implicit {
		t.Errorf("a = %+v, want implicit node labelled Start", a)
	}
}

func TestBuildDuplicateEdge(t *testing.T) {
	m := mustBuild(t, "a --> b\na == b")
	if m.EdgeCount() != 1 {
		t.Fatalf("EdgeCount() = %d, want 1", m.EdgeCount())
	}
	if e := m.Edge(0); e.Line != diagram.LineThick || e.TargetHead != diagram.HeadNone {
		t.Errorf("edge = %+v, want the later thick edge", e)
	}
}

func TestBuildCycle(t *testing.T) {
	m := mustBuild(t, "a --> b --> c --> a")
	if m.NodeCount() != 3 || m.EdgeCount() != 3 {
		t.Errorf("counts = %d nodes, %d edges, want 3, 3", m.NodeCount(), m.EdgeCount())
	}
}

func TestBuildDirection(t *testing.T) {
	m := mustBuild(t, "graph LR\na --> b")
	if m.Direction() != diagram.LeftRight {
		t.Errorf("Direction() = %v, want LR", m.Direction())
	}
}
