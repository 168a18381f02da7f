// Package nodelink renders a diagram model through Graphviz instead of the
// built-in layered layout.
//
// [ToDOT] maps shapes, labels, line styles and edge heads onto DOT
// attributes; [RenderSVG] runs the embedded Graphviz (WebAssembly build via
// go-graphviz, no system install needed) and returns SVG:
//
//	dot := nodelink.ToDOT(model, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// PNG and PDF go through [render.ToPNG] and [render.ToPDF]. Wavy edges are
// drawn dashed, since Graphviz has no wavy stroke.
package nodelink
