package compiler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stackgraph/pkg/anchor"
	"github.com/matzehuels/stackgraph/pkg/diagram"
	"github.com/matzehuels/stackgraph/pkg/dsl"
	apperr "github.com/matzehuels/stackgraph/pkg/errors"
	"github.com/matzehuels/stackgraph/pkg/layout"
	"github.com/matzehuels/stackgraph/pkg/observability"
	"github.com/matzehuels/stackgraph/pkg/render"
	"github.com/matzehuels/stackgraph/pkg/render/sink"
	"github.com/matzehuels/stackgraph/pkg/sizing"
	"github.com/matzehuels/stackgraph/pkg/textmetrics"
)

// Compiler holds the settings of a compile. A Compiler is safe for
// concurrent use as long as its Measurer is; the built-in ones are.
type Compiler struct {
	Metrics textmetrics.Measurer
	Sizing  sizing.Options
	Layout  layout.Options
	Theme   render.Theme
	Logger  *log.Logger
}

// New returns a compiler measuring text with the embedded Go Mono font.
func New() (*Compiler, error) {
	tm, err := textmetrics.Default()
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeMeasurement, err, "load font")
	}
	return &Compiler{
		Metrics: tm,
		Sizing:  sizing.DefaultOptions(),
		Layout:  layout.DefaultOptions(),
		Theme:   render.DefaultTheme(),
	}, nil
}

// Result is a compiled diagram ready for any sink.
type Result struct {
	Model   *diagram.Model
	Diagram *diagram.Anchored
	Frame   render.Frame
	Stats   layout.Stats
	Timings map[observability.Stage]time.Duration
}

func (c *Compiler) logger() *log.Logger {
	if c.Logger == nil {
		return log.NewWithOptions(io.Discard, log.Options{})
	}
	return c.Logger
}

func (c *Compiler) metrics() textmetrics.Measurer {
	if c.Metrics == nil {
		return textmetrics.DefaultFixed
	}
	return c.Metrics
}

// Model runs the parse and build stages only.
func (c *Compiler) Model(ctx context.Context, text string) (*diagram.Model, error) {
	return c.model(ctx, text, map[observability.Stage]time.Duration{})
}

func (c *Compiler) model(ctx context.Context, text string, timings map[observability.Stage]time.Duration) (*diagram.Model, error) {
	var doc *dsl.Document
	err := c.stage(ctx, observability.StageParse, timings, func() error {
		var err error
		doc, err = dsl.Parse(text)
		return err
	})
	if err != nil {
		return nil, classify(err)
	}

	var m *diagram.Model
	err = c.stage(ctx, observability.StageBuild, timings, func() error {
		var err error
		m, err = doc.Build()
		return err
	})
	if err != nil {
		return nil, classify(err)
	}
	return m, nil
}

// Compile runs every stage up to anchoring and frames the result.
func (c *Compiler) Compile(ctx context.Context, text string) (res *Result, err error) {
	start := time.Now()
	timings := map[observability.Stage]time.Duration{}
	var nodes, edges int
	defer func() {
		observability.Compile().OnCompileComplete(ctx, nodes, edges, time.Since(start), err)
	}()

	m, err := c.model(ctx, text, timings)
	if err != nil {
		return nil, err
	}
	nodes, edges = m.NodeCount(), m.EdgeCount()

	var s *diagram.Sized
	err = c.stage(ctx, observability.StageSize, timings, func() error {
		var err error
		s, err = sizing.Size(m, c.metrics(), c.Sizing)
		return err
	})
	if err != nil {
		return nil, classify(err)
	}

	var (
		l     *diagram.LaidOut
		stats layout.Stats
	)
	err = c.stage(ctx, observability.StageLayout, timings, func() error {
		var err error
		l, stats, err = layout.Layout(ctx, s, c.Layout)
		return err
	})
	if err != nil {
		return nil, classify(err)
	}

	var a *diagram.Anchored
	err = c.stage(ctx, observability.StageAnchor, timings, func() error {
		var err error
		a, err = anchor.Resolve(l)
		return err
	})
	if err != nil {
		return nil, classify(err)
	}

	c.logger().Debug("compiled diagram",
		"nodes", nodes,
		"edges", edges,
		"ranks", stats.Ranks,
		"crossings", stats.Crossings,
		"reversed", stats.Reversed,
		"duration", time.Since(start))

	return &Result{
		Model:   m,
		Diagram: a,
		Frame:   render.NewFrame(a.Bounds()),
		Stats:   stats,
		Timings: timings,
	}, nil
}

// Generate compiles text and renders it as an SVG document.
func (c *Compiler) Generate(ctx context.Context, text string) ([]byte, error) {
	res, err := c.Compile(ctx, text)
	if err != nil {
		return nil, err
	}
	var svg []byte
	err = c.stage(ctx, observability.StageRender, res.Timings, func() error {
		svg = sink.RenderSVG(res.Diagram, res.Frame, sink.WithTheme(c.Theme))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return svg, nil
}

// Generate compiles text with the default font and options and returns
// the SVG document.
func Generate(text string) (string, error) {
	c, err := New()
	if err != nil {
		return "", err
	}
	svg, err := c.Generate(context.Background(), text)
	if err != nil {
		return "", err
	}
	return string(svg), nil
}

func (c *Compiler) stage(ctx context.Context, st observability.Stage, timings map[observability.Stage]time.Duration, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", st, err)
	}
	hooks := observability.Compile()
	hooks.OnStageStart(ctx, st)
	start := time.Now()
	err := fn()
	d := time.Since(start)
	timings[st] = d
	hooks.OnStageComplete(ctx, st, d, err)
	if err != nil {
		c.logger().Debug("stage failed", "stage", st, "error", err)
		return err
	}
	c.logger().Debug("stage done", "stage", st, "duration", d)
	return nil
}

// classify attaches an error code to a stage failure.
func classify(err error) error {
	var syn *dsl.SyntaxError
	switch {
	case errors.As(err, &syn):
		return apperr.Wrap(apperr.ErrCodeSyntax, err, "invalid diagram")
	case errors.Is(err, diagram.ErrIncompleteEdge):
		return apperr.Wrap(apperr.ErrCodeIncompleteEdge, err, "invalid diagram")
	case errors.Is(err, diagram.ErrInvalidNodeID):
		return apperr.Wrap(apperr.ErrCodeInvalidInput, err, "invalid diagram")
	case errors.Is(err, textmetrics.ErrMeasurement):
		return apperr.Wrap(apperr.ErrCodeMeasurement, err, "size nodes")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	}
	return apperr.Wrap(apperr.ErrCodeInternal, err, "compile")
}
