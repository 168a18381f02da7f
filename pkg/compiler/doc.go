// Package compiler turns diagram source text into a positioned diagram and
// an SVG document.
//
// A compile runs the stages in order:
//
//  1. parse: DSL text to statements ([dsl.Parse])
//  2. build: statements to a [diagram.Model]
//  3. size: text metrics to node boxes ([sizing.Size])
//  4. layout: ranks, order and coordinates ([layout.Layout])
//  5. anchor: edge endpoints on node borders ([anchor.Resolve])
//
// followed by framing and, for [Compiler.Generate], SVG rendering. Each
// stage reports to [observability.Compile] and logs at debug level.
//
// Failures carry a [errors.Code]: SYNTAX_ERROR for malformed text,
// INCOMPLETE_EDGE for an edge without a target, MEASUREMENT_FAILURE when
// text cannot be measured. No partial document is ever returned.
//
// The simplest entry point uses the default font and options:
//
//	svg, err := compiler.Generate("a(Start) --> b[End]")
package compiler
