package diagram

import "slices"

// Node is a vertex of the diagram.
type Node struct {
	ID         string     // Unique identifier, also drawn in the node header
	Label      string     // Optional body text; empty means no label
	Shape      Shape      // Outline drawn around the node
	Provenance Provenance // Explicit declaration or implied by an edge
}

// HasLabel reports whether the node carries body text.
func (n Node) HasLabel() bool { return n.Label != "" }

// EdgeStyle carries the drawing attributes of an edge.
type EdgeStyle struct {
	Line       LineStyle
	SourceHead Head
	TargetHead Head
	Label      string
}

// Edge is a directed connection between two nodes, referenced by index.
type Edge struct {
	Source int
	Target int
	EdgeStyle
}

// IsLoop reports whether the edge starts and ends at the same node.
func (e Edge) IsLoop() bool { return e.Source == e.Target }

type edgeKey struct{ src, dst int }

// Model is an immutable diagram graph produced by [Builder.Build].
//
// Nodes are stored in declaration order and edges in the order their
// (source, target) pair was first declared. All accessors are read-only.
type Model struct {
	nodes     []Node
	index     map[string]int
	edges     []Edge
	edgeIndex map[edgeKey]int
	direction Direction
}

// NodeCount returns the number of nodes.
func (m *Model) NodeCount() int { return len(m.nodes) }

// EdgeCount returns the number of edges.
func (m *Model) EdgeCount() int { return len(m.edges) }

// Node returns the node at index i.
func (m *Model) Node(i int) Node { return m.nodes[i] }

// Edge returns the edge at index j.
func (m *Model) Edge(j int) Edge { return m.edges[j] }

// Nodes returns a copy of all nodes in declaration order.
func (m *Model) Nodes() []Node { return slices.Clone(m.nodes) }

// Edges returns a copy of all edges in declaration order.
func (m *Model) Edges() []Edge { return slices.Clone(m.edges) }

// Index resolves a node id to its arena index.
func (m *Model) Index(id string) (int, bool) {
	i, ok := m.index[id]
	return i, ok
}

// Lookup returns the node with the given id.
func (m *Model) Lookup(id string) (Node, bool) {
	i, ok := m.index[id]
	if !ok {
		return Node{}, false
	}
	return m.nodes[i], true
}

// FindEdge returns the index of the edge from src to dst.
func (m *Model) FindEdge(src, dst string) (int, bool) {
	s, ok := m.index[src]
	if !ok {
		return 0, false
	}
	d, ok := m.index[dst]
	if !ok {
		return 0, false
	}
	j, ok := m.edgeIndex[edgeKey{s, d}]
	return j, ok
}

// Direction returns the rank direction declared in the diagram header.
func (m *Model) Direction() Direction { return m.direction }
