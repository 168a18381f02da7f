package nodelink

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/stackgraph/pkg/diagram"
)

func model(t *testing.T, dir diagram.Direction, build func(b *diagram.Builder)) *diagram.Model {
	t.Helper()
	b := diagram.NewBuilder()
	b.SetDirection(dir)
	build(b)
	m, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestToDOT(t *testing.T) {
	m := model(t, diagram.LeftRight, func(b *diagram.Builder) {
		b.InsertOrUpdateNode(diagram.Node{ID: "a", Label: "Start", Shape: diagram.ShapeRounded, Provenance: diagram.Explicit})
		b.AddEdge("a", "b", diagram.EdgeStyle{Line: diagram.LineThin, TargetHead: diagram.HeadRight})
		b.AddEdge("b", "c", diagram.EdgeStyle{Line: diagram.LineDotted, SourceHead: diagram.HeadDot, TargetHead: diagram.HeadStraight, Label: "maybe"})
	})
	dot := ToDOT(m, Options{})

	for _, want := range []string{
		"rankdir=LR;",
		`"a" [label="a\nStart", shape=box, style="rounded,filled"];`,
		`"b" [label="b", shape=plaintext];`,
		`"a" -> "b";`,
		`"b" -> "c" [style=dotted, dir=both, arrowtail=dot, arrowhead=tee, label="maybe"];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q\n%s", want, dot)
		}
	}
}

func TestToDOTProvenance(t *testing.T) {
	m := model(t, diagram.TopBottom, func(b *diagram.Builder) {
		b.AddEdge("x", "y", diagram.EdgeStyle{})
	})
	dot := ToDOT(m, Options{ShowProvenance: true})
	if !strings.Contains(dot, `label="x\n(implicit)"`) {
		t.Errorf("ToDOT() missing provenance marker\n%s", dot)
	}
	if !strings.Contains(dot, "arrowhead=none") {
		t.Errorf("ToDOT() should disable the default arrow for a plain line\n%s", dot)
	}
}

func TestRankdir(t *testing.T) {
	tests := []struct {
		dir  diagram.Direction
		want string
	}{
		{diagram.TopBottom, "TB"},
		{diagram.BottomTop, "BT"},
		{diagram.LeftRight, "LR"},
		{diagram.RightLeft, "RL"},
	}
	for _, tt := range tests {
		if got := rankdir(tt.dir); got != tt.want {
			t.Errorf("rankdir(%v) = %q, want %q", tt.dir, got, tt.want)
		}
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="62pt" height="116pt" viewBox="0.00 0.00 62.00 116.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 62.00 116.00" width="62" height="116"><g/></svg>`
	if out != want {
		t.Errorf("normalizeViewBox() = %s, want %s", out, want)
	}
}

func TestRenderSVG(t *testing.T) {
	if testing.Short() {
		t.Skip("graphviz wasm startup is slow")
	}
	m := model(t, diagram.TopBottom, func(b *diagram.Builder) {
		b.AddEdge("a", "b", diagram.EdgeStyle{TargetHead: diagram.HeadRight})
	})
	svg, err := RenderSVG(context.Background(), ToDOT(m, Options{}))
	if err != nil {
		t.Fatalf("RenderSVG() error = %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("RenderSVG() did not produce an svg element")
	}
}
