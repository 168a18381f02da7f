// Package render turns anchored diagrams into documents.
//
// # Overview
//
// This package holds what every output format shares:
//
//   - [Theme]: colors, stroke widths and font sizes
//   - [Frame]: the document canvas around the laid out content
//   - Geometry helpers for arrow heads and wavy lines
//   - Generic format conversion (SVG to PDF/PNG) via rsvg-convert
//
// The formats themselves live in subpackages:
//
//   - [sink]: SVG documents and native PNG/JPEG rasters
//   - [nodelink]: Graphviz DOT export and Graphviz-rendered SVG
//
// # Frame
//
// The content box is at least 100×100 units. The margin around it is 7.5%
// of the larger content dimension, never less than 20 units. Content
// smaller than the minimum box is centered in it.
//
//	f := render.NewFrame(anchored.Bounds())
//	svg := sink.RenderSVG(anchored, f, sink.WithTheme(render.DefaultTheme()))
//	pdf, err := render.ToPDF(ctx, svg)
//
// [sink]: github.com/matzehuels/stackgraph/pkg/render/sink
// [nodelink]: github.com/matzehuels/stackgraph/pkg/render/nodelink
package render
