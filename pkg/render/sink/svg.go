package sink

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	svg "github.com/ajstarks/svgo"

	"github.com/matzehuels/stackgraph/pkg/diagram"
	"github.com/matzehuels/stackgraph/pkg/fonts"
	"github.com/matzehuels/stackgraph/pkg/render"
)

// Marker ids referenced by edge paths.
const (
	MarkerLeftArrow  = "left-arrow"
	MarkerRightArrow = "right-arrow"
	MarkerBar        = "bar"
	MarkerDot        = "dot"
)

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	theme render.Theme
	title string
}

func WithTheme(t render.Theme) SVGOption { return func(r *svgRenderer) { r.theme = t } }
func WithTitle(s string) SVGOption       { return func(r *svgRenderer) { r.title = s } }

// RenderSVG draws a into a standalone SVG document sized by f.
func RenderSVG(a *diagram.Anchored, f render.Frame, opts ...SVGOption) []byte {
	r := svgRenderer{theme: render.DefaultTheme()}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	w, h := f.PixelSize()
	canvas.Start(w, h, fmt.Sprintf(`viewBox="0 0 %s %s"`, num(f.Width()), num(f.Height())))
	if r.title != "" {
		canvas.Title(r.title)
	}
	r.defs(canvas)
	if r.theme.Background != "" {
		canvas.Rect(0, 0, w, h, attr("fill", r.theme.Background))
	}

	o := f.Origin()
	canvas.Group(`id="graph"`, fmt.Sprintf(`transform="translate(%s, %s)"`, num(o.X), num(o.Y)))
	for i := 0; i < a.NodeCount(); i++ {
		r.node(canvas, a, i)
	}
	for j := 0; j < a.EdgeCount(); j++ {
		r.edge(canvas, a, j)
	}
	canvas.Gend()
	canvas.End()
	return buf.Bytes()
}

func (r *svgRenderer) defs(canvas *svg.SVG) {
	t := r.theme
	fill := attr("fill", t.LineColor)
	canvas.Def()

	canvas.Marker(MarkerLeftArrow, 10, 5, 5, 5, `viewBox="0 0 10 10"`, `orient="auto"`)
	canvas.Polygon([]int{10, 0, 10}, []int{0, 5, 10}, fill)
	canvas.MarkerEnd()

	canvas.Marker(MarkerRightArrow, 0, 5, 5, 5, `viewBox="0 0 10 10"`, `orient="auto"`)
	canvas.Polygon([]int{0, 10, 0}, []int{0, 5, 10}, fill)
	canvas.MarkerEnd()

	canvas.Marker(MarkerBar, 5, 5, 5, 5, `viewBox="0 0 10 10"`, `orient="auto"`)
	canvas.Rect(4, 0, 2, 10, fill)
	canvas.MarkerEnd()

	canvas.Marker(MarkerDot, 5, 5, 5, 5, `viewBox="0 0 10 10"`, `orient="auto"`)
	canvas.Circle(5, 5, 5, fill)
	canvas.MarkerEnd()

	canvas.DefEnd()

	// Style rules go straight to the writer; svgo has no CSS helper.
	fmt.Fprintf(canvas.Writer, "<style>\n")
	if t.EmbedFont {
		fmt.Fprintf(canvas.Writer, "@font-face { font-family: '%s'; src: url(data:font/ttf;base64,%s) format('truetype'); }\n",
			fonts.FontFamily, fonts.GoMonoTTFBase64())
	}
	fmt.Fprintf(canvas.Writer, "text { font-family: %s; fill: %s; text-anchor: middle; }\n", t.FontFamily, t.TextColor)
	fmt.Fprintf(canvas.Writer, ".node-id { font-size: %spx; }\n", num(t.IDFontSize))
	fmt.Fprintf(canvas.Writer, ".node-label { font-size: %spx; }\n", num(t.LabelFontSize))
	fmt.Fprintf(canvas.Writer, ".edge-label { font-size: %spx; }\n", num(t.EdgeLabelFontSize))
	fmt.Fprintf(canvas.Writer, "</style>\n")
}

func (r *svgRenderer) node(canvas *svg.SVG, a *diagram.Anchored, i int) {
	t := r.theme
	n, box := a.Node(i), a.Box(i)
	tl := a.TopLeft(i)
	w, h := round(box.W), round(box.H)
	shape := []string{attr("fill", t.NodeFill), attr("stroke", t.NodeStroke), attr("stroke-width", num(t.StrokeWidth))}

	canvas.Group(`class="node"`, attr("id", "node-"+n.ID), fmt.Sprintf(`transform="translate(%s, %s)"`, num(tl.X), num(tl.Y)))
	switch n.Shape {
	case diagram.ShapeRounded:
		rx := round(t.RoundedRadius)
		canvas.Roundrect(0, 0, w, h, rx, rx, shape...)
	case diagram.ShapeSquare:
		rx := round(t.SquareRadius)
		canvas.Roundrect(0, 0, w, h, rx, rx, shape...)
	case diagram.ShapeTriangle:
		canvas.Polygon([]int{w / 2, w, 0}, []int{0, h, h}, shape...)
	}

	lay := textLayout(box)
	canvas.Text(w/2, round(lay.idBaseline), n.ID, `class="node-id"`)
	if n.HasLabel() {
		if n.Shape != diagram.ShapeEmpty {
			x0, x1 := dividerSpan(n.Shape, box, lay.divider)
			canvas.Line(round(x0), round(lay.divider), round(x1), round(lay.divider), attr("stroke", t.NodeStroke), attr("stroke-width", num(t.StrokeWidth)))
		}
		canvas.Text(w/2, round(lay.labelBaseline), n.Label, `class="node-label"`)
	}
	canvas.Gend()
}

func (r *svgRenderer) edge(canvas *svg.SVG, a *diagram.Anchored, j int) {
	t := r.theme
	e, seg := a.Edge(j), a.Anchor(j)
	src, dst := a.Node(e.Source).ID, a.Node(e.Target).ID

	style := []string{`fill="none"`, attr("stroke", t.LineColor)}
	switch e.Line {
	case diagram.LineThick:
		style = append(style, attr("stroke-width", num(t.ThickStrokeWidth)))
	case diagram.LineDotted:
		style = append(style, attr("stroke-width", num(t.StrokeWidth)), attr("stroke-dasharray", t.DashPattern))
	default:
		style = append(style, attr("stroke-width", num(t.StrokeWidth)))
	}
	if m := markerFor(e.SourceHead, true); m != "" {
		style = append(style, attr("marker-start", "url(#"+m+")"))
	}
	if m := markerFor(e.TargetHead, false); m != "" {
		style = append(style, attr("marker-end", "url(#"+m+")"))
	}

	canvas.Group(`class="edge"`, attr("id", "edge-"+src+"-"+dst))
	canvas.Path(pathData(e.Line, seg, t), style...)
	if e.Label != "" {
		mid, ls := seg.Midpoint(), a.EdgeLabel(j)
		pad := 2.0
		canvas.Rect(round(mid.X-ls.W/2-pad), round(mid.Y-ls.H/2-pad), round(ls.W+2*pad), round(ls.H+2*pad),
			attr("fill", t.LabelBackground))
		canvas.Text(round(mid.X), round(mid.Y+ls.H*baselineRatio-ls.H/2), e.Label, `class="edge-label"`)
	}
	canvas.Gend()
}

// markerFor maps a head to its marker id. Arrow heads point away from the
// line, so the source end always uses the left-pointing arrow and the
// target end the right-pointing one; orient="auto" turns them along the
// path.
func markerFor(h diagram.Head, atSource bool) string {
	switch h {
	case diagram.HeadLeft, diagram.HeadRight:
		if atSource {
			return MarkerLeftArrow
		}
		return MarkerRightArrow
	case diagram.HeadStraight:
		return MarkerBar
	case diagram.HeadDot:
		return MarkerDot
	}
	return ""
}

func pathData(line diagram.LineStyle, seg diagram.Segment, t render.Theme) string {
	var b strings.Builder
	fmt.Fprintf(&b, "M %s %s", num(seg.Start.X), num(seg.Start.Y))
	if line != diagram.LineWavy {
		fmt.Fprintf(&b, " L %s %s", num(seg.End.X), num(seg.End.Y))
		return b.String()
	}
	for _, q := range render.Wave(seg, t.WaveAmplitude, t.WaveLength) {
		fmt.Fprintf(&b, " Q %s %s %s %s", num(q.Control.X), num(q.Control.Y), num(q.End.X), num(q.End.Y))
	}
	return b.String()
}

func attr(name, value string) string {
	var b strings.Builder
	b.WriteString(name)
	b.WriteString(`="`)
	b.WriteString(escapeAttr(value))
	b.WriteString(`"`)
	return b.String()
}

var attrEscaper = strings.NewReplacer(`&`, "&amp;", `<`, "&lt;", `>`, "&gt;", `"`, "&quot;")

func escapeAttr(s string) string { return attrEscaper.Replace(s) }

func round(v float64) int { return int(math.Round(v)) }

// num formats a coordinate with at most two decimals and no trailing zeros.
func num(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}
