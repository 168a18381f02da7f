package render

import "github.com/matzehuels/stackgraph/pkg/fonts"

// Theme holds the visual attributes shared by all sinks.
type Theme struct {
	Background      string // Canvas color; empty leaves SVG transparent and rasters white
	NodeFill        string
	NodeStroke      string
	LineColor       string // Edge strokes and markers
	TextColor       string
	LabelBackground string // Box behind edge labels

	RoundedRadius    float64
	SquareRadius     float64
	StrokeWidth      float64
	ThickStrokeWidth float64
	DashPattern      string // stroke-dasharray of dotted edges
	WaveAmplitude    float64
	WaveLength       float64

	IDFontSize        float64
	LabelFontSize     float64
	EdgeLabelFontSize float64
	FontFamily        string
	EmbedFont         bool // Embed the font as a base64 @font-face rule
}

// DefaultTheme returns the stock look.
func DefaultTheme() Theme {
	return Theme{
		NodeFill:          "#fcf9fa",
		NodeStroke:        "#cecace",
		LineColor:         "#5d5b5d",
		TextColor:         "#333133",
		LabelBackground:   "#ffffff",
		RoundedRadius:     12,
		SquareRadius:      4,
		StrokeWidth:       1,
		ThickStrokeWidth:  2.5,
		DashPattern:       "2,3",
		WaveAmplitude:     2.5,
		WaveLength:        10,
		IDFontSize:        8,
		LabelFontSize:     12,
		EdgeLabelFontSize: 8,
		FontFamily:        fonts.FallbackFontFamily,
		EmbedFont:         true,
	}
}
