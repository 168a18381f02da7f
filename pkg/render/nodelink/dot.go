package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/stackgraph/pkg/diagram"
	"github.com/matzehuels/stackgraph/pkg/render"
)

// Options configures DOT generation.
type Options struct {
	// Theme supplies colors and stroke widths. The zero value uses
	// render.DefaultTheme.
	Theme *render.Theme
	// ShowProvenance appends "(implicit)" to nodes that were only
	// referenced by edges.
	ShowProvenance bool
}

// ToDOT converts a model to Graphviz DOT. Node and edge order follow the
// model, so the output is stable for a given source.
func ToDOT(m *diagram.Model, opts Options) string {
	t := render.DefaultTheme()
	if opts.Theme != nil {
		t = *opts.Theme
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", rankdir(m.Direction()))
	buf.WriteString("  bgcolor=\"transparent\";\n")
	fmt.Fprintf(&buf, "  node [fontname=%q, fontsize=%s, color=%q, fillcolor=%q, fontcolor=%q, margin=\"0.15,0.05\"];\n",
		t.FontFamily, fmtNum(t.LabelFontSize), t.NodeStroke, t.NodeFill, t.TextColor)
	fmt.Fprintf(&buf, "  edge [color=%q, fontname=%q, fontsize=%s, penwidth=%s];\n",
		t.LineColor, t.FontFamily, fmtNum(t.EdgeLabelFontSize), fmtNum(t.StrokeWidth))
	buf.WriteString("\n")

	for _, n := range m.Nodes() {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(nodeAttrs(n, opts.ShowProvenance), ", "))
	}

	buf.WriteString("\n")
	for _, e := range m.Edges() {
		src, dst := m.Node(e.Source).ID, m.Node(e.Target).ID
		attrs := edgeAttrs(e.EdgeStyle, t)
		if len(attrs) == 0 {
			fmt.Fprintf(&buf, "  %q -> %q;\n", src, dst)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", src, dst, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func rankdir(d diagram.Direction) string {
	switch d {
	case diagram.BottomTop:
		return "BT"
	case diagram.LeftRight:
		return "LR"
	case diagram.RightLeft:
		return "RL"
	}
	return "TB"
}

func nodeAttrs(n diagram.Node, provenance bool) []string {
	label := n.ID
	if n.HasLabel() {
		label += "\n" + n.Label
	}
	if provenance && n.Provenance == diagram.Implicit {
		label += "\n(implicit)"
	}
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch n.Shape {
	case diagram.ShapeRounded:
		attrs = append(attrs, "shape=box", "style=\"rounded,filled\"")
	case diagram.ShapeSquare:
		attrs = append(attrs, "shape=box", "style=filled")
	case diagram.ShapeTriangle:
		attrs = append(attrs, "shape=triangle", "style=filled")
	default:
		attrs = append(attrs, "shape=plaintext")
	}
	return attrs
}

func edgeAttrs(s diagram.EdgeStyle, t render.Theme) []string {
	var attrs []string
	switch s.Line {
	case diagram.LineDotted:
		attrs = append(attrs, "style=dotted")
	case diagram.LineThick:
		attrs = append(attrs, "penwidth="+fmtNum(t.ThickStrokeWidth))
	case diagram.LineWavy:
		// Graphviz has no wavy stroke.
		attrs = append(attrs, "style=dashed")
	}
	if s.SourceHead != diagram.HeadNone || s.TargetHead != diagram.HeadRight {
		attrs = append(attrs, "dir=both",
			"arrowtail="+arrowName(s.SourceHead),
			"arrowhead="+arrowName(s.TargetHead))
	}
	if s.Label != "" {
		attrs = append(attrs, fmt.Sprintf("label=%q", s.Label))
	}
	return attrs
}

func arrowName(h diagram.Head) string {
	switch h {
	case diagram.HeadLeft, diagram.HeadRight:
		return "normal"
	case diagram.HeadStraight:
		return "tee"
	case diagram.HeadDot:
		return "dot"
	}
	return "none"
}

func fmtNum(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

// RenderSVG lays out and renders DOT source with the embedded Graphviz
// engine.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox swaps Graphviz's pt-sized root element for a plain
// pixel-sized one so the output scales like the layered renderer's.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
