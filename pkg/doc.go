// Package pkg provides the libraries behind stackgraph, a compiler from a
// small flowchart language to layered graph drawings.
//
// # Overview
//
// A diagram passes through a chain of immutable snapshots, each adding
// one kind of information to the one before:
//
//	source text
//	     ↓  [dsl] parse, build
//	[diagram.Model]     nodes, edges, provenance
//	     ↓  [sizing] with [textmetrics]
//	[diagram.Sized]     node boxes and label extents
//	     ↓  [layout]
//	[diagram.LaidOut]   ranks, orders and centers
//	     ↓  [anchor]
//	[diagram.Anchored]  edge segments
//	     ↓  [render/sink], [render/nodelink], [io]
//	SVG, PNG, JPG, PDF, JSON or DOT
//
// [compiler] runs the chain. [pipeline] adds caching ([cache]) and output
// formats, and is shared by the command line tool and [server].
//
// # Quick Start
//
//	svg, err := compiler.Generate("a(Start) --> b[End]")
//
// # Supporting packages
//
//   - [config]: TOML configuration
//   - [errors]: error codes shared by the CLI and the HTTP API
//   - [observability]: hooks for compile stages, cache and HTTP metrics
//   - [fonts]: the embedded font
//   - [buildinfo]: version information set at link time
package pkg
