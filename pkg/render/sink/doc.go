// Package sink writes anchored diagrams to output formats.
//
// [RenderSVG] produces a self-contained SVG document: arrow, bar and dot
// markers in <defs>, the embedded font as a base64 @font-face rule, one
// group per node translated to the node's top-left corner and one group
// per edge. [RenderPNG] and [RenderJPEG] rasterize the same drawing
// natively, without external tools.
//
// Both sinks are deterministic: the same diagram, frame and theme always
// produce the same bytes.
package sink
