// Package diagram holds the graph model that flows through the compile
// pipeline.
//
// # Overview
//
// A diagram is a directed graph of labelled, shaped nodes joined by styled
// edges. The model is an index arena: nodes live in a dense slice in
// declaration order, an id → index map resolves names, and edges refer to
// their endpoints by index. Nothing is ever removed, so indices stay valid
// for the life of a compile.
//
// # Building
//
// A [Builder] accumulates declarations and produces an immutable [Model]:
//
//	b := diagram.NewBuilder()
//	b.InsertOrUpdateNode(diagram.Node{ID: "a", Label: "Start", Shape: diagram.ShapeRounded})
//	b.InsertNode(diagram.Node{ID: "b"})
//	b.AddEdge("a", "b", diagram.EdgeStyle{TargetHead: diagram.HeadRight})
//	m, err := b.Build()
//
// Explicit declarations ([Builder.InsertOrUpdateNode]) always win over
// nodes implied by edge endpoints ([Builder.InsertNode]); between two
// explicit declarations the last one wins. Edges are keyed by their
// ordered (source, target) pair and the last declaration wins.
//
// # Stage Snapshots
//
// Each compile stage wraps the previous stage's output in a new value:
//
//	Model → Sized → LaidOut → Anchored
//
// [Sized] adds node and edge-label sizes, [LaidOut] adds ranks, orders and
// center positions, and [Anchored] adds edge line segments. A stage accepts
// only the snapshot it needs, so the type system rules out laying out a
// diagram before it has been sized. Snapshots embed their predecessor, so
// an [Anchored] answers every question the earlier stages could.
//
// Snapshots are read-only once constructed and safe to share between
// goroutines.
package diagram
