package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stackgraph/pkg/cache"
	"github.com/matzehuels/stackgraph/pkg/compiler"
	apperr "github.com/matzehuels/stackgraph/pkg/errors"
	"github.com/matzehuels/stackgraph/pkg/layout"
	"github.com/matzehuels/stackgraph/pkg/render"
	"github.com/matzehuels/stackgraph/pkg/sizing"
	"github.com/matzehuels/stackgraph/pkg/textmetrics"
)

// memCache is an in-memory cache that counts writes.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.data[key]
	return d, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	c.sets++
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

func newRunner(c cache.Cache) *Runner {
	comp := &compiler.Compiler{
		Metrics: textmetrics.DefaultFixed,
		Sizing:  sizing.DefaultOptions(),
		Layout:  layout.DefaultOptions(),
		Theme:   render.DefaultTheme(),
	}
	return NewRunner(c, nil, comp, log.NewWithOptions(io.Discard, log.Options{}))
}

const source = "graph TD\na(Start) --> b[Work]\nb -.-> c{Done}\nc --> a"

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"jpg", false},
		{"pdf", false},
		{"json", false},
		{"dot", false},
		{"gif", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateEngine(t *testing.T) {
	for _, e := range []string{EngineLayered, EngineGraphviz} {
		if err := ValidateEngine(e); err != nil {
			t.Errorf("ValidateEngine(%q) error = %v", e, err)
		}
	}
	err := ValidateEngine("dagre")
	if !apperr.Is(err, apperr.ErrCodeInvalidEngine) {
		t.Errorf("ValidateEngine(dagre) = %v, want %s", err, apperr.ErrCodeInvalidEngine)
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"svg", []string{"svg"}},
		{"svg, PNG", []string{"svg", "png"}},
		{"jpeg", []string{"jpg"}},
		{" , ", nil},
	}
	for _, tt := range tests {
		if got := ParseFormats(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ParseFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	var o Options
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error = %v", err)
	}
	if !reflect.DeepEqual(o.Formats, []string{FormatSVG}) {
		t.Errorf("Formats = %v, want [svg]", o.Formats)
	}
	if o.Engine != DefaultEngine || o.Scale != DefaultScale || o.JPEGQuality != DefaultJPEGQuality {
		t.Errorf("defaults = %q %v %d", o.Engine, o.Scale, o.JPEGQuality)
	}

	o = Options{Formats: []string{"svg", "png", "svg"}}
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(o.Formats, []string{"svg", "png"}) {
		t.Errorf("Formats = %v, want duplicates removed", o.Formats)
	}

	tests := []struct {
		name string
		opts Options
		code apperr.Code
	}{
		{"bad format", Options{Formats: []string{"gif"}}, apperr.ErrCodeInvalidFormat},
		{"bad engine", Options{Engine: "dagre"}, apperr.ErrCodeInvalidEngine},
		{"graphviz json", Options{Engine: EngineGraphviz, Formats: []string{"json"}}, apperr.ErrCodeUnsupported},
		{"graphviz jpg", Options{Engine: EngineGraphviz, Formats: []string{"jpg"}}, apperr.ErrCodeUnsupported},
		{"quality", Options{JPEGQuality: 101}, apperr.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !apperr.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestExecuteFormats(t *testing.T) {
	r := newRunner(nil)
	res, err := r.Execute(context.Background(), Options{
		Source:  source,
		Formats: []string{"svg", "png", "jpg", "json", "dot"},
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if res.Stats.NodeCount != 3 || res.Stats.EdgeCount != 3 {
		t.Errorf("stats = %+v, want 3 nodes and 3 edges", res.Stats)
	}
	if res.Stats.Layout.Reversed != 1 {
		t.Errorf("Reversed = %d, want 1", res.Stats.Layout.Reversed)
	}
	if !bytes.HasPrefix(res.Artifacts["svg"], []byte("<?xml")) && !bytes.Contains(res.Artifacts["svg"], []byte("<svg")) {
		t.Errorf("svg artifact does not look like SVG")
	}
	if !bytes.HasPrefix(res.Artifacts["png"], []byte("\x89PNG")) {
		t.Errorf("png artifact has no PNG signature")
	}
	if !bytes.HasPrefix(res.Artifacts["jpg"], []byte{0xff, 0xd8}) {
		t.Errorf("jpg artifact has no JPEG signature")
	}
	if !json.Valid(res.Artifacts["json"]) {
		t.Errorf("json artifact is not valid JSON")
	}
	if !strings.HasPrefix(string(res.Artifacts["dot"]), "digraph") {
		t.Errorf("dot artifact = %.40q, want digraph", res.Artifacts["dot"])
	}
	if res.LayoutHash == "" {
		t.Error("LayoutHash is empty")
	}
}

func TestExecuteCaching(t *testing.T) {
	c := newMemCache()
	r := newRunner(c)
	ctx := context.Background()

	first, err := r.Execute(ctx, Options{Source: source})
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheInfo.LayoutHit || first.CacheInfo.RenderHit {
		t.Errorf("first run CacheInfo = %+v, want misses", first.CacheInfo)
	}
	if c.sets != 2 {
		t.Errorf("cache writes = %d, want 2", c.sets)
	}

	second, err := r.Execute(ctx, Options{Source: source})
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.LayoutHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run CacheInfo = %+v, want hits", second.CacheInfo)
	}
	if !bytes.Equal(first.Artifacts["svg"], second.Artifacts["svg"]) {
		t.Error("cached svg differs from the fresh one")
	}
	if first.LayoutHash != second.LayoutHash {
		t.Errorf("LayoutHash changed: %s vs %s", first.LayoutHash, second.LayoutHash)
	}

	refreshed, err := r.Execute(ctx, Options{Source: source, Refresh: true})
	if err != nil {
		t.Fatal(err)
	}
	if refreshed.CacheInfo.LayoutHit {
		t.Error("Refresh should skip the layout cache")
	}
	if c.sets != 4 {
		t.Errorf("cache writes after refresh = %d, want 4", c.sets)
	}
}

func TestExecuteLayoutChangesKey(t *testing.T) {
	c := newMemCache()
	r := newRunner(c)
	ctx := context.Background()
	if _, err := r.Execute(ctx, Options{Source: source}); err != nil {
		t.Fatal(err)
	}
	r.Compiler.Layout.SpacingFactor = 3
	res, err := r.Execute(ctx, Options{Source: source})
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheInfo.LayoutHit {
		t.Error("changed layout options should miss the cache")
	}
}

func TestExecuteLayoutFile(t *testing.T) {
	r := newRunner(nil)
	ctx := context.Background()
	res, err := r.Execute(ctx, Options{Source: source, Formats: []string{"json", "svg"}})
	if err != nil {
		t.Fatal(err)
	}

	again, err := r.Execute(ctx, Options{Source: string(res.Artifacts["json"])})
	if err != nil {
		t.Fatalf("Execute(layout) error = %v", err)
	}
	if !bytes.Equal(res.Artifacts["svg"], again.Artifacts["svg"]) {
		t.Error("svg rendered from a layout file differs from the original")
	}
}

func TestExecuteErrors(t *testing.T) {
	r := newRunner(nil)
	ctx := context.Background()
	tests := []struct {
		name string
		opts Options
		code apperr.Code
	}{
		{"incomplete", Options{Source: "a -->"}, apperr.ErrCodeIncompleteEdge},
		{"syntax", Options{Source: "a(Start"}, apperr.ErrCodeSyntax},
		{"bad layout", Options{Source: `{"nodes": 1}`}, apperr.ErrCodeInvalidInput},
		{"bad format", Options{Source: "a", Formats: []string{"gif"}}, apperr.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Execute(ctx, tt.opts)
			if !apperr.Is(err, tt.code) {
				t.Errorf("Execute() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestExecuteGraphvizDOT(t *testing.T) {
	r := newRunner(nil)
	res, err := r.Execute(context.Background(), Options{Source: source, Engine: EngineGraphviz, Formats: []string{"dot"}})
	if err != nil {
		t.Fatal(err)
	}
	if res.Diagram != nil {
		t.Error("graphviz engine should not produce a layered diagram")
	}
	if !strings.Contains(string(res.Artifacts["dot"]), `"a" -> "b"`) {
		t.Errorf("dot = %s", res.Artifacts["dot"])
	}
}

func TestExecuteGraphvizSVG(t *testing.T) {
	if testing.Short() {
		t.Skip("graphviz rendering is slow")
	}
	r := newRunner(nil)
	res, err := r.Execute(context.Background(), Options{Source: source, Engine: EngineGraphviz})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(res.Artifacts["svg"], []byte("<svg")) {
		t.Error("graphviz svg artifact does not contain <svg")
	}
}
