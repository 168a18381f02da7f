// Package pipeline runs source text through layout and rendering with
// caching, for the CLI and the HTTP server alike.
//
// The pipeline has two stages:
//
//  1. Layout: compile the source (or read a layout file) into an
//     anchored diagram. Layered layouts are cached as JSON keyed by the
//     source hash and the settings that affect them.
//  2. Render: produce each requested format. Artifacts are cached keyed
//     by the layout hash and the render settings.
//
// Usage:
//
//	runner := pipeline.NewRunner(c, nil, comp, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Source:  "a(Start) --> b[End]",
//	    Formats: []string{"svg", "png"},
//	})
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"slices"
	"strings"
	"time"

	"github.com/matzehuels/stackgraph/pkg/diagram"
	apperr "github.com/matzehuels/stackgraph/pkg/errors"
	"github.com/matzehuels/stackgraph/pkg/layout"
)

// Output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatJPEG = "jpg"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatDOT  = "dot"
)

// Layout engines.
const (
	EngineLayered  = "layered"
	EngineGraphviz = "graphviz"
)

// Defaults shared by the CLI and the server.
const (
	DefaultEngine      = EngineLayered
	DefaultScale       = 2.0
	DefaultJPEGQuality = 90
)

// ValidFormats lists the formats in the order help text shows them.
var ValidFormats = []string{FormatSVG, FormatPNG, FormatJPEG, FormatPDF, FormatJSON, FormatDOT}

// graphvizFormats are the formats the graphviz engine can produce.
var graphvizFormats = []string{FormatSVG, FormatPNG, FormatPDF, FormatDOT}

// Options configures one pipeline run.
type Options struct {
	// Source is DSL text or a layout file written by the json format.
	Source      string   `json:"source"`
	Formats     []string `json:"formats,omitempty"`
	Engine      string   `json:"engine,omitempty"`
	Scale       float64  `json:"scale,omitempty"`
	JPEGQuality int      `json:"jpeg_quality,omitempty"`
	// Refresh skips cache reads; results are still written.
	Refresh bool `json:"refresh,omitempty"`

	validated bool
}

// Result holds the outputs of a run.
type Result struct {
	Diagram    *diagram.Anchored // nil for the graphviz engine
	Model      *diagram.Model
	LayoutHash string
	Artifacts  map[string][]byte
	Stats      Stats
	CacheInfo  CacheInfo
}

// Stats contains timing and size information.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	Layout     layout.Stats
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo records which stages were served from the cache.
type CacheInfo struct {
	LayoutHit bool
	RenderHit bool // every requested artifact came from the cache
}

// ParseFormats splits a comma-separated list such as "svg,png".
func ParseFormats(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			if f == "jpeg" {
				f = FormatJPEG
			}
			out = append(out, f)
		}
	}
	return out
}

// ValidateFormat checks that a format is supported.
func ValidateFormat(format string) error {
	if !slices.Contains(ValidFormats, format) {
		return apperr.New(apperr.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)", format, strings.Join(ValidFormats, ", "))
	}
	return nil
}

// ValidateEngine checks that an engine is supported.
func ValidateEngine(engine string) error {
	if engine != EngineLayered && engine != EngineGraphviz {
		return apperr.New(apperr.ErrCodeInvalidEngine, "invalid engine: %q (must be one of: %s, %s)", engine, EngineLayered, EngineGraphviz)
	}
	return nil
}

// ValidateAndSetDefaults checks the options and fills in defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Engine == "" {
		o.Engine = DefaultEngine
	}
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
	if o.JPEGQuality <= 0 {
		o.JPEGQuality = DefaultJPEGQuality
	}

	if err := ValidateEngine(o.Engine); err != nil {
		return err
	}
	seen := map[string]bool{}
	formats := o.Formats[:0:0]
	for _, f := range o.Formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
		if o.Engine == EngineGraphviz && !slices.Contains(graphvizFormats, f) {
			return apperr.New(apperr.ErrCodeUnsupported, "format %q is not available with the graphviz engine", f)
		}
		if !seen[f] {
			seen[f] = true
			formats = append(formats, f)
		}
	}
	o.Formats = formats
	if o.JPEGQuality > 100 {
		return apperr.New(apperr.ErrCodeInvalidInput, "jpeg quality must be in [1, 100], got %d", o.JPEGQuality)
	}
	o.validated = true
	return nil
}
