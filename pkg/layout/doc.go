// Package layout computes a layered (Sugiyama-style) drawing of a sized
// diagram.
//
// # Phases
//
// [Layout] runs five phases over an index-based copy of the diagram:
//
//  1. Cycle breaking: a depth-first search in declaration order marks back
//     edges, which are reversed for the remaining phases only. The drawn
//     edge keeps its declared direction.
//  2. Ranking: longest path from the sources (Kahn's algorithm), after
//     which every source is pulled down to sit directly above its nearest
//     child.
//  3. Virtual nodes: an edge spanning several ranks is split into a chain
//     of placeholder nodes, one per intermediate rank, so that long edges
//     take part in ordering and reserve horizontal space.
//  4. Ordering: alternating downward and upward barycenter sweeps with an
//     adjacent-swap refinement. Crossings are counted with a Fenwick tree
//     after each sweep and the best ordering seen is kept.
//  5. Coordinates: nodes of a rank are at least one slot apart; a
//     balancing pass pulls nodes toward the mean position of their
//     neighbours without violating that separation.
//
// # Coordinates
//
// Positions are node centers with the y axis growing downward. Layers are
// stacked upward in layer space (rank r at -r × rank spacing), and the
// final mapping negates that coordinate, so rank 0 is drawn at the top of
// a top-to-bottom diagram. The content is translated so that its bounding
// box starts at the origin.
//
// All phases iterate slices in declaration order and break ties by the
// current order, so the same input always produces the same layout.
package layout
