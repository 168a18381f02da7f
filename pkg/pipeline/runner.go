package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stackgraph/pkg/cache"
	"github.com/matzehuels/stackgraph/pkg/compiler"
	"github.com/matzehuels/stackgraph/pkg/diagram"
	apperr "github.com/matzehuels/stackgraph/pkg/errors"
	sgio "github.com/matzehuels/stackgraph/pkg/io"
	"github.com/matzehuels/stackgraph/pkg/render/nodelink"
)

// Runner executes the pipeline with caching.
//
// The Runner holds no per-run state, so one Runner can serve concurrent
// requests as long as its cache and compiler can.
type Runner struct {
	Cache    cache.Cache
	Keyer    cache.Keyer
	Compiler *compiler.Compiler
	Logger   *log.Logger
	TTL      time.Duration
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// uses the default keyer and a nil logger uses log.Default.
func NewRunner(c cache.Cache, keyer cache.Keyer, comp *compiler.Compiler, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Compiler: comp, Logger: logger, TTL: cache.LayoutTTL}
}

// Execute runs layout and render for opts.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if r.Compiler == nil {
		return nil, apperr.New(apperr.ErrCodeInternal, "runner has no compiler")
	}
	res := &Result{Artifacts: make(map[string][]byte)}

	layoutStart := time.Now()
	var err error
	if opts.Engine == EngineGraphviz {
		err = r.graphvizLayout(ctx, opts, res)
	} else {
		err = r.layeredLayout(ctx, opts, res)
	}
	if err != nil {
		return nil, err
	}
	res.Stats.LayoutTime = time.Since(layoutStart)
	res.Stats.NodeCount = res.Model.NodeCount()
	res.Stats.EdgeCount = res.Model.EdgeCount()
	r.Logger.Debug("computed layout",
		"engine", opts.Engine,
		"nodes", res.Stats.NodeCount,
		"edges", res.Stats.EdgeCount,
		"cached", res.CacheInfo.LayoutHit,
		"duration", res.Stats.LayoutTime)

	renderStart := time.Now()
	if err := r.render(ctx, opts, res); err != nil {
		return nil, err
	}
	res.Stats.RenderTime = time.Since(renderStart)
	r.Logger.Debug("rendered outputs",
		"formats", opts.Formats,
		"cached", res.CacheInfo.RenderHit,
		"duration", res.Stats.RenderTime)
	return res, nil
}

func (r *Runner) layoutKeyOpts(opts Options) cache.LayoutKeyOpts {
	c := r.Compiler
	return cache.LayoutKeyOpts{
		Engine: opts.Engine,
		ConfigHash: cache.HashValue(struct {
			Metrics string
			Sizing  any
			Layout  any
		}{fmt.Sprintf("%T", c.Metrics), c.Sizing, c.Layout}),
	}
}

func (r *Runner) layeredLayout(ctx context.Context, opts Options, res *Result) error {
	if sgio.IsLayout([]byte(opts.Source)) {
		a, err := sgio.ReadJSON(strings.NewReader(opts.Source))
		if err != nil {
			return apperr.Wrap(apperr.ErrCodeInvalidInput, err, "read layout")
		}
		res.Diagram, res.Model = a, a.Model
		res.LayoutHash = cache.Hash([]byte(opts.Source))
		return nil
	}

	key := r.Keyer.LayoutKey(cache.Hash([]byte(opts.Source)), r.layoutKeyOpts(opts))
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err != nil {
			r.Logger.Warn("layout cache read failed", "error", err)
		} else if hit {
			if a, err := sgio.ReadJSON(bytes.NewReader(data)); err == nil {
				res.Diagram, res.Model = a, a.Model
				res.LayoutHash = cache.Hash(data)
				res.CacheInfo.LayoutHit = true
				return nil
			}
			// Unreadable entry; recompute.
		}
	}

	cr, err := r.Compiler.Compile(ctx, opts.Source)
	if err != nil {
		return err
	}
	res.Diagram, res.Model, res.Stats.Layout = cr.Diagram, cr.Model, cr.Stats

	var buf bytes.Buffer
	if err := sgio.WriteJSON(cr.Diagram, &buf); err != nil {
		return apperr.Wrap(apperr.ErrCodeInternal, err, "serialize layout")
	}
	res.LayoutHash = cache.Hash(buf.Bytes())
	if err := r.Cache.Set(ctx, key, buf.Bytes(), r.TTL); err != nil {
		r.Logger.Warn("layout cache write failed", "error", err)
	}
	return nil
}

func (r *Runner) graphvizLayout(ctx context.Context, opts Options, res *Result) error {
	if sgio.IsLayout([]byte(opts.Source)) {
		a, err := sgio.ReadJSON(strings.NewReader(opts.Source))
		if err != nil {
			return apperr.Wrap(apperr.ErrCodeInvalidInput, err, "read layout")
		}
		res.Model = a.Model
	} else {
		m, err := r.Compiler.Model(ctx, opts.Source)
		if err != nil {
			return err
		}
		res.Model = m
	}
	res.LayoutHash = cache.Hash([]byte(r.dot(res.Model)))
	return nil
}

func (r *Runner) dot(m *diagram.Model) string {
	theme := r.Compiler.Theme
	return nodelink.ToDOT(m, nodelink.Options{Theme: &theme})
}

func (r *Runner) artifactKey(res *Result, opts Options, format string) string {
	return r.Keyer.ArtifactKey(res.LayoutHash, cache.ArtifactKeyOpts{
		Format:    opts.Engine + "/" + format,
		Scale:     opts.Scale,
		Quality:   opts.JPEGQuality,
		ThemeHash: cache.HashValue(r.Compiler.Theme),
	})
}

func (r *Runner) render(ctx context.Context, opts Options, res *Result) error {
	allCached := true
	for _, format := range opts.Formats {
		if err := ctx.Err(); err != nil {
			return err
		}
		key := r.artifactKey(res, opts, format)
		if !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				res.Artifacts[format] = data
				continue
			}
		}
		allCached = false

		data, err := r.renderFormat(ctx, opts, res, format)
		if err != nil {
			return fmt.Errorf("render %s: %w", format, err)
		}
		res.Artifacts[format] = data
		if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
			r.Logger.Warn("artifact cache write failed", "format", format, "error", err)
		}
	}
	res.CacheInfo.RenderHit = allCached
	return nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
