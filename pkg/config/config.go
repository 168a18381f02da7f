// Package config loads stackgraph settings from TOML files.
//
// Every field has a default, so a config file only lists what it
// changes:
//
//	[layout]
//	direction = "LR"
//	spacing_factor = 2.0
//
//	[theme]
//	line_color = "#1f6feb"
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//
// Unknown keys are rejected so that typos do not silently fall back to
// defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/stackgraph/pkg/cache"
	"github.com/matzehuels/stackgraph/pkg/diagram"
	apperr "github.com/matzehuels/stackgraph/pkg/errors"
	"github.com/matzehuels/stackgraph/pkg/layout"
	"github.com/matzehuels/stackgraph/pkg/render"
	"github.com/matzehuels/stackgraph/pkg/sizing"
	"github.com/matzehuels/stackgraph/pkg/textmetrics"
)

// Metrics names accepted in [text].metrics.
const (
	MetricsTrueType = "truetype"
	MetricsFixed    = "fixed"
)

type Config struct {
	Text   Text   `toml:"text"`
	Layout Layout `toml:"layout"`
	Theme  Theme  `toml:"theme"`
	Render Render `toml:"render"`
	Server Server `toml:"server"`
	Cache  Cache  `toml:"cache"`
}

// Text controls node measurement.
type Text struct {
	Metrics           string  `toml:"metrics"`
	IDFontSize        float64 `toml:"id_font_size"`
	LabelFontSize     float64 `toml:"label_font_size"`
	EdgeLabelFontSize float64 `toml:"edge_label_font_size"`
	PaddingX          float64 `toml:"padding_x"`
	PaddingY          float64 `toml:"padding_y"`
	MinWidth          float64 `toml:"min_width"`
	MinHeight         float64 `toml:"min_height"`
}

type Layout struct {
	// Direction overrides the direction in the diagram header when set.
	Direction        string  `toml:"direction"`
	SpacingFactor    float64 `toml:"spacing_factor"`
	MinNodeWidth     float64 `toml:"min_node_width"`
	RankHeightFactor float64 `toml:"rank_height_factor"`
	MinRankGap       float64 `toml:"min_rank_gap"`
	MaxIterations    int     `toml:"max_iterations"`
	BalancePasses    int     `toml:"balance_passes"`
}

type Theme struct {
	Background       string  `toml:"background"`
	NodeFill         string  `toml:"node_fill"`
	NodeStroke       string  `toml:"node_stroke"`
	LineColor        string  `toml:"line_color"`
	TextColor        string  `toml:"text_color"`
	LabelBackground  string  `toml:"label_background"`
	RoundedRadius    float64 `toml:"rounded_radius"`
	SquareRadius     float64 `toml:"square_radius"`
	StrokeWidth      float64 `toml:"stroke_width"`
	ThickStrokeWidth float64 `toml:"thick_stroke_width"`
	EmbedFont        bool    `toml:"embed_font"`
}

// Render controls raster output.
type Render struct {
	Scale       float64 `toml:"scale"`
	JPEGQuality int     `toml:"jpeg_quality"`
}

type Server struct {
	Addr           string   `toml:"addr"`
	MaxBodyBytes   int      `toml:"max_body_bytes"`
	CompileTimeout Duration `toml:"compile_timeout"`
	ReadTimeout    Duration `toml:"read_timeout"`
	WriteTimeout   Duration `toml:"write_timeout"`
}

type Cache struct {
	Backend         string   `toml:"backend"`
	Dir             string   `toml:"dir"`
	RedisURL        string   `toml:"redis_url"`
	MongoURI        string   `toml:"mongo_uri"`
	MongoDatabase   string   `toml:"mongo_database"`
	MongoCollection string   `toml:"mongo_collection"`
	Prefix          string   `toml:"prefix"`
	TTL             Duration `toml:"ttl"`
}

// Duration is a time.Duration written as a Go duration string ("30s").
type Duration struct{ time.Duration }

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// Default returns the built-in settings.
func Default() Config {
	so := sizing.DefaultOptions()
	lo := layout.DefaultOptions()
	th := render.DefaultTheme()
	return Config{
		Text: Text{
			Metrics:           MetricsTrueType,
			IDFontSize:        so.IDFontSize,
			LabelFontSize:     so.LabelFontSize,
			EdgeLabelFontSize: so.EdgeLabelFontSize,
			PaddingX:          so.PaddingX,
			PaddingY:          so.PaddingY,
			MinWidth:          so.MinWidth,
			MinHeight:         so.MinHeight,
		},
		Layout: Layout{
			SpacingFactor:    lo.SpacingFactor,
			MinNodeWidth:     lo.MinNodeWidth,
			RankHeightFactor: lo.RankHeightFactor,
			MinRankGap:       lo.MinRankGap,
			MaxIterations:    lo.MaxIterations,
			BalancePasses:    lo.BalancePasses,
		},
		Theme: Theme{
			Background:       th.Background,
			NodeFill:         th.NodeFill,
			NodeStroke:       th.NodeStroke,
			LineColor:        th.LineColor,
			TextColor:        th.TextColor,
			LabelBackground:  th.LabelBackground,
			RoundedRadius:    th.RoundedRadius,
			SquareRadius:     th.SquareRadius,
			StrokeWidth:      th.StrokeWidth,
			ThickStrokeWidth: th.ThickStrokeWidth,
			EmbedFont:        th.EmbedFont,
		},
		Render: Render{Scale: 2, JPEGQuality: 90},
		Server: Server{
			Addr:           ":8080",
			MaxBodyBytes:   apperr.MaxSourceBytes,
			CompileTimeout: Duration{10 * time.Second},
			ReadTimeout:    Duration{15 * time.Second},
			WriteTimeout:   Duration{30 * time.Second},
		},
		Cache: Cache{
			Backend: cache.BackendFile,
			TTL:     Duration{cache.LayoutTTL},
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/stackgraph/config.toml or the
// platform equivalent.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "stackgraph", "config.toml"), nil
}

// Load reads path over the defaults and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, fs.ErrNotExist) {
		return Config{}, apperr.Wrap(apperr.ErrCodeFileNotFound, err, "config file %s", path)
	}
	if err != nil {
		return Config{}, apperr.Wrap(apperr.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, apperr.New(apperr.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadOrDefault loads path when it is set. With an empty path it tries
// [DefaultPath] and falls back to the defaults when no file exists there.
func LoadOrDefault(path string) (Config, error) {
	if path != "" {
		return Load(path)
	}
	def, err := DefaultPath()
	if err != nil {
		return Default(), nil
	}
	if _, err := os.Stat(def); err != nil {
		return Default(), nil
	}
	return Load(def)
}

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return apperr.New(apperr.ErrCodeInvalidConfig, format, args...)
	}

	if c.Text.Metrics != MetricsTrueType && c.Text.Metrics != MetricsFixed {
		return invalid("text.metrics must be %q or %q, got %q", MetricsTrueType, MetricsFixed, c.Text.Metrics)
	}
	sizes := []struct {
		name string
		v    float64
	}{
		{"text.id_font_size", c.Text.IDFontSize},
		{"text.label_font_size", c.Text.LabelFontSize},
		{"text.edge_label_font_size", c.Text.EdgeLabelFontSize},
	}
	for _, sz := range sizes {
		if sz.v <= 0 {
			return invalid("%s must be positive, got %v", sz.name, sz.v)
		}
	}
	if c.Text.PaddingX < 0 || c.Text.PaddingY < 0 {
		return invalid("text padding must not be negative")
	}

	if c.Layout.Direction != "" {
		if _, err := diagram.ParseDirection(c.Layout.Direction); err != nil {
			return invalid("layout.direction: %v", err)
		}
	}
	if c.Layout.SpacingFactor < 1 {
		return invalid("layout.spacing_factor must be at least 1, got %v", c.Layout.SpacingFactor)
	}
	if c.Layout.MinRankGap < 1 {
		return invalid("layout.min_rank_gap must be at least 1, got %v", c.Layout.MinRankGap)
	}
	if c.Layout.MaxIterations < 1 || c.Layout.BalancePasses < 1 {
		return invalid("layout.max_iterations and layout.balance_passes must be at least 1")
	}

	type color struct{ name, v string }
	colors := []color{
		{"theme.node_fill", c.Theme.NodeFill},
		{"theme.node_stroke", c.Theme.NodeStroke},
		{"theme.line_color", c.Theme.LineColor},
		{"theme.text_color", c.Theme.TextColor},
		{"theme.label_background", c.Theme.LabelBackground},
	}
	if c.Theme.Background != "" {
		colors = append(colors, color{"theme.background", c.Theme.Background})
	}
	for _, col := range colors {
		if !hexColor.MatchString(col.v) {
			return invalid("%s must be a hex color like #5d5b5d, got %q", col.name, col.v)
		}
	}

	if c.Render.Scale <= 0 {
		return invalid("render.scale must be positive, got %v", c.Render.Scale)
	}
	if c.Render.JPEGQuality < 1 || c.Render.JPEGQuality > 100 {
		return invalid("render.jpeg_quality must be in [1, 100], got %d", c.Render.JPEGQuality)
	}

	if c.Server.MaxBodyBytes <= 0 {
		return invalid("server.max_body_bytes must be positive")
	}

	backends := []string{cache.BackendNone, cache.BackendFile, cache.BackendRedis, cache.BackendMongo}
	if !slices.Contains(backends, c.Cache.Backend) {
		return invalid("cache.backend must be one of %s, got %q", strings.Join(backends, ", "), c.Cache.Backend)
	}
	if c.Cache.Backend == cache.BackendRedis && c.Cache.RedisURL == "" {
		return invalid("cache.redis_url is required for the redis backend")
	}
	if c.Cache.Backend == cache.BackendMongo && c.Cache.MongoURI == "" {
		return invalid("cache.mongo_uri is required for the mongo backend")
	}
	return nil
}

// SizingOptions returns the node measurement settings.
func (c Config) SizingOptions() sizing.Options {
	return sizing.Options{
		IDFontSize:        c.Text.IDFontSize,
		LabelFontSize:     c.Text.LabelFontSize,
		EdgeLabelFontSize: c.Text.EdgeLabelFontSize,
		PaddingX:          c.Text.PaddingX,
		PaddingY:          c.Text.PaddingY,
		MinWidth:          c.Text.MinWidth,
		MinHeight:         c.Text.MinHeight,
	}
}

// LayoutOptions returns the layout settings. Validate must have passed.
func (c Config) LayoutOptions() layout.Options {
	o := layout.Options{
		SpacingFactor:    c.Layout.SpacingFactor,
		MinNodeWidth:     c.Layout.MinNodeWidth,
		RankHeightFactor: c.Layout.RankHeightFactor,
		MinRankGap:       c.Layout.MinRankGap,
		MaxIterations:    c.Layout.MaxIterations,
		BalancePasses:    c.Layout.BalancePasses,
	}
	if c.Layout.Direction != "" {
		o.Direction, _ = diagram.ParseDirection(c.Layout.Direction)
		o.UseDirection = true
	}
	return o
}

// RenderTheme returns the theme with the configured overrides.
func (c Config) RenderTheme() render.Theme {
	t := render.DefaultTheme()
	t.Background = c.Theme.Background
	t.NodeFill = c.Theme.NodeFill
	t.NodeStroke = c.Theme.NodeStroke
	t.LineColor = c.Theme.LineColor
	t.TextColor = c.Theme.TextColor
	t.LabelBackground = c.Theme.LabelBackground
	t.RoundedRadius = c.Theme.RoundedRadius
	t.SquareRadius = c.Theme.SquareRadius
	t.StrokeWidth = c.Theme.StrokeWidth
	t.ThickStrokeWidth = c.Theme.ThickStrokeWidth
	t.EmbedFont = c.Theme.EmbedFont
	t.IDFontSize = c.Text.IDFontSize
	t.LabelFontSize = c.Text.LabelFontSize
	t.EdgeLabelFontSize = c.Text.EdgeLabelFontSize
	return t
}

// Measurer returns the configured text measurer.
func (c Config) Measurer() (textmetrics.Measurer, error) {
	if c.Text.Metrics == MetricsFixed {
		return textmetrics.DefaultFixed, nil
	}
	tm, err := textmetrics.Default()
	if err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}
	return tm, nil
}

// CacheOptions returns the backend selection for [cache.Open].
func (c Config) CacheOptions() cache.Options {
	return cache.Options{
		Backend:         c.Cache.Backend,
		Dir:             c.Cache.Dir,
		RedisURL:        c.Cache.RedisURL,
		MongoURI:        c.Cache.MongoURI,
		MongoDatabase:   c.Cache.MongoDatabase,
		MongoCollection: c.Cache.MongoCollection,
		Prefix:          c.Cache.Prefix,
	}
}
