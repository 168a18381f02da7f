package pipeline

import (
	"bytes"
	"context"

	apperr "github.com/matzehuels/stackgraph/pkg/errors"
	sgio "github.com/matzehuels/stackgraph/pkg/io"
	"github.com/matzehuels/stackgraph/pkg/render"
	"github.com/matzehuels/stackgraph/pkg/render/nodelink"
	"github.com/matzehuels/stackgraph/pkg/render/sink"
)

func (r *Runner) renderFormat(ctx context.Context, opts Options, res *Result, format string) ([]byte, error) {
	if opts.Engine == EngineGraphviz {
		return r.renderGraphviz(ctx, opts, res, format)
	}
	return r.renderLayered(ctx, opts, res, format)
}

func (r *Runner) renderLayered(ctx context.Context, opts Options, res *Result, format string) ([]byte, error) {
	a, theme := res.Diagram, r.Compiler.Theme
	frame := render.NewFrame(a.Bounds())

	switch format {
	case FormatSVG:
		return sink.RenderSVG(a, frame, sink.WithTheme(theme)), nil
	case FormatPNG:
		return sink.RenderPNG(a, frame, theme, opts.Scale)
	case FormatJPEG:
		return sink.RenderJPEG(a, frame, theme, opts.Scale, opts.JPEGQuality)
	case FormatPDF:
		return render.ToPDF(ctx, sink.RenderSVG(a, frame, sink.WithTheme(theme)))
	case FormatJSON:
		var buf bytes.Buffer
		if err := sgio.WriteJSON(a, &buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatDOT:
		return []byte(r.dot(res.Model)), nil
	}
	return nil, apperr.New(apperr.ErrCodeInvalidFormat, "unsupported format: %s", format)
}

func (r *Runner) renderGraphviz(ctx context.Context, opts Options, res *Result, format string) ([]byte, error) {
	dot := r.dot(res.Model)
	if format == FormatDOT {
		return []byte(dot), nil
	}
	svg, err := nodelink.RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatSVG:
		return svg, nil
	case FormatPNG:
		return render.ToPNG(ctx, svg, opts.Scale)
	case FormatPDF:
		return render.ToPDF(ctx, svg)
	}
	return nil, apperr.New(apperr.ErrCodeUnsupported, "format %q is not available with the graphviz engine", format)
}
