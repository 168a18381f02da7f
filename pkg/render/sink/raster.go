package sink

import (
	"bytes"
	"fmt"
	"image/jpeg"
	"math"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"

	"github.com/matzehuels/stackgraph/pkg/diagram"
	"github.com/matzehuels/stackgraph/pkg/fonts"
	"github.com/matzehuels/stackgraph/pkg/render"
)

const (
	arrowLength = 5.0
	arrowWidth  = 5.0
	dotRadius   = 2.5
	barLength   = 5.0
)

var (
	rasterFont     *truetype.Font
	rasterFontErr  error
	rasterFontOnce sync.Once
)

func loadFont() (*truetype.Font, error) {
	rasterFontOnce.Do(func() {
		rasterFont, rasterFontErr = truetype.Parse(fonts.GoMonoTTF())
	})
	return rasterFont, rasterFontErr
}

// RenderPNG rasterizes a at the given scale (2.0 for high-DPI output).
func RenderPNG(a *diagram.Anchored, f render.Frame, theme render.Theme, scale float64) ([]byte, error) {
	dc, err := rasterize(a, f, theme, scale)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderJPEG rasterizes a at the given scale and encodes it with quality
// in [1, 100].
func RenderJPEG(a *diagram.Anchored, f render.Frame, theme render.Theme, scale float64, quality int) ([]byte, error) {
	dc, err := rasterize(a, f, theme, scale)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dc.Image(), &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

func rasterize(a *diagram.Anchored, f render.Frame, t render.Theme, scale float64) (*gg.Context, error) {
	if scale <= 0 {
		scale = 1
	}
	ttf, err := loadFont()
	if err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}
	faces := map[float64]font.Face{}
	face := func(size float64) font.Face {
		if fc, ok := faces[size]; ok {
			return fc
		}
		fc := truetype.NewFace(ttf, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingFull})
		faces[size] = fc
		return fc
	}

	dc := gg.NewContext(int(math.Ceil(f.Width()*scale)), int(math.Ceil(f.Height()*scale)))
	bg := t.Background
	if bg == "" {
		bg = "#ffffff"
	}
	dc.SetHexColor(bg)
	dc.Clear()
	dc.Scale(scale, scale)
	o := f.Origin()
	dc.Translate(o.X, o.Y)

	for i := 0; i < a.NodeCount(); i++ {
		drawNode(dc, a, i, t, face)
	}
	for j := 0; j < a.EdgeCount(); j++ {
		drawEdge(dc, a, j, t, face)
	}
	return dc, nil
}

func drawNode(dc *gg.Context, a *diagram.Anchored, i int, t render.Theme, face func(float64) font.Face) {
	n, box := a.Node(i), a.Box(i)
	tl := a.TopLeft(i)

	dc.Push()
	defer dc.Pop()
	dc.Translate(tl.X, tl.Y)

	outlined := true
	switch n.Shape {
	case diagram.ShapeRounded:
		dc.DrawRoundedRectangle(0, 0, box.W, box.H, t.RoundedRadius)
	case diagram.ShapeSquare:
		dc.DrawRoundedRectangle(0, 0, box.W, box.H, t.SquareRadius)
	case diagram.ShapeTriangle:
		dc.MoveTo(box.W/2, 0)
		dc.LineTo(box.W, box.H)
		dc.LineTo(0, box.H)
		dc.ClosePath()
	default:
		outlined = false
	}
	if outlined {
		dc.SetHexColor(t.NodeFill)
		dc.FillPreserve()
		dc.SetHexColor(t.NodeStroke)
		dc.SetLineWidth(t.StrokeWidth)
		dc.Stroke()
	}

	lay := textLayout(box)
	dc.SetHexColor(t.TextColor)
	dc.SetFontFace(face(t.IDFontSize))
	dc.DrawStringAnchored(n.ID, box.W/2, lay.idBaseline, 0.5, 0)
	if n.HasLabel() {
		if outlined {
			x0, x1 := dividerSpan(n.Shape, box, lay.divider)
			dc.SetHexColor(t.NodeStroke)
			dc.SetLineWidth(t.StrokeWidth)
			dc.DrawLine(x0, lay.divider, x1, lay.divider)
			dc.Stroke()
			dc.SetHexColor(t.TextColor)
		}
		dc.SetFontFace(face(t.LabelFontSize))
		dc.DrawStringAnchored(n.Label, box.W/2, lay.labelBaseline, 0.5, 0)
	}
}

func drawEdge(dc *gg.Context, a *diagram.Anchored, j int, t render.Theme, face func(float64) font.Face) {
	e, seg := a.Edge(j), a.Anchor(j)

	dc.Push()
	defer dc.Pop()
	dc.SetHexColor(t.LineColor)
	dc.SetLineWidth(t.StrokeWidth)
	switch e.Line {
	case diagram.LineThick:
		dc.SetLineWidth(t.ThickStrokeWidth)
	case diagram.LineDotted:
		dc.SetDash(2, 3)
	}

	dc.MoveTo(seg.Start.X, seg.Start.Y)
	if e.Line == diagram.LineWavy {
		for _, q := range render.Wave(seg, t.WaveAmplitude, t.WaveLength) {
			dc.QuadraticTo(q.Control.X, q.Control.Y, q.End.X, q.End.Y)
		}
	} else {
		dc.LineTo(seg.End.X, seg.End.Y)
	}
	dc.Stroke()
	dc.SetDash()

	dir := diagram.Point{X: 0, Y: 1}
	if l := seg.Length(); l > 0 {
		dir = diagram.Point{X: (seg.End.X - seg.Start.X) / l, Y: (seg.End.Y - seg.Start.Y) / l}
	}
	drawHead(dc, e.SourceHead, seg.Start, dir.Scale(-1))
	drawHead(dc, e.TargetHead, seg.End, dir)

	if e.Label != "" {
		mid, ls := seg.Midpoint(), a.EdgeLabel(j)
		pad := 2.0
		dc.SetHexColor(t.LabelBackground)
		dc.DrawRectangle(mid.X-ls.W/2-pad, mid.Y-ls.H/2-pad, ls.W+2*pad, ls.H+2*pad)
		dc.Fill()
		dc.SetHexColor(t.TextColor)
		dc.SetFontFace(face(t.EdgeLabelFontSize))
		dc.DrawStringAnchored(e.Label, mid.X, mid.Y-ls.H/2+ls.H*baselineRatio, 0.5, 0)
	}
}

// drawHead draws h at p pointing outward along dir.
func drawHead(dc *gg.Context, h diagram.Head, p, dir diagram.Point) {
	switch h {
	case diagram.HeadLeft, diagram.HeadRight:
		pts := render.Arrow(p, dir, arrowLength, arrowWidth)
		dc.MoveTo(pts[0].X, pts[0].Y)
		dc.LineTo(pts[1].X, pts[1].Y)
		dc.LineTo(pts[2].X, pts[2].Y)
		dc.ClosePath()
		dc.Fill()
	case diagram.HeadDot:
		dc.DrawCircle(p.X, p.Y, dotRadius)
		dc.Fill()
	case diagram.HeadStraight:
		nx, ny := -dir.Y*barLength/2, dir.X*barLength/2
		dc.SetLineWidth(1)
		dc.DrawLine(p.X+nx, p.Y+ny, p.X-nx, p.Y-ny)
		dc.Stroke()
	}
}
