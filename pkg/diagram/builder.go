package diagram

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidNodeID is returned by [Builder.Build] when a node or edge
	// endpoint was declared with an empty id.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrIncompleteEdge is matched by [IncompleteEdgeError] and reported by
	// [Builder.Build] when an edge statement lacked a source or target.
	ErrIncompleteEdge = errors.New("incomplete edge")
)

// IncompleteEdgeError describes an edge statement that named only one
// endpoint.
type IncompleteEdgeError struct {
	Line   int    // 1-based source line of the statement, 0 if unknown
	Source string // Known endpoint id, empty if the source was missing
	Target string // Known endpoint id, empty if the target was missing
}

func (e *IncompleteEdgeError) Error() string {
	var missing, known string
	switch {
	case e.Source == "" && e.Target == "":
		return e.prefix() + "edge has neither source nor target"
	case e.Target == "":
		missing, known = "target", e.Source
	default:
		missing, known = "source", e.Target
	}
	return fmt.Sprintf("%sedge from %q is missing its %s", e.prefix(), known, missing)
}

func (e *IncompleteEdgeError) prefix() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: ", e.Line)
	}
	return ""
}

// Is reports whether target is ErrIncompleteEdge.
func (e *IncompleteEdgeError) Is(target error) bool { return target == ErrIncompleteEdge }

// Builder accumulates node and edge declarations into a [Model].
//
// The zero value is not usable; create builders with [NewBuilder]. A
// Builder is not safe for concurrent use.
type Builder struct {
	m          *Model
	incomplete []*IncompleteEdgeError
	invalid    int
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{m: &Model{
		index:     make(map[string]int),
		edgeIndex: make(map[edgeKey]int),
	}}
}

// SetDirection sets the rank direction of the model.
func (b *Builder) SetDirection(d Direction) { b.m.direction = d }

// InsertNode adds a node implied by an edge endpoint. If a node with the
// same id exists, it is left untouched. Returns the node's index.
func (b *Builder) InsertNode(n Node) int {
	if n.ID == "" {
		b.invalid++
		return -1
	}
	if i, ok := b.m.index[n.ID]; ok {
		return i
	}
	n.Provenance = Implicit
	return b.append(n)
}

// InsertOrUpdateNode adds an explicitly declared node, replacing the
// label and shape of any existing node with the same id. The node keeps
// its original index. Returns the node's index.
func (b *Builder) InsertOrUpdateNode(n Node) int {
	if n.ID == "" {
		b.invalid++
		return -1
	}
	n.Provenance = Explicit
	if i, ok := b.m.index[n.ID]; ok {
		b.m.nodes[i] = n
		return i
	}
	return b.append(n)
}

func (b *Builder) append(n Node) int {
	i := len(b.m.nodes)
	b.m.nodes = append(b.m.nodes, n)
	b.m.index[n.ID] = i
	return i
}

// AddEdge declares an edge between two node ids, creating implicit nodes
// for endpoints that do not exist yet. A second declaration of the same
// ordered pair replaces the style of the first and keeps its position.
func (b *Builder) AddEdge(src, dst string, style EdgeStyle) {
	s := b.InsertNode(Node{ID: src})
	d := b.InsertNode(Node{ID: dst})
	if s < 0 || d < 0 {
		return
	}
	k := edgeKey{s, d}
	if j, ok := b.m.edgeIndex[k]; ok {
		b.m.edges[j].EdgeStyle = style
		return
	}
	b.m.edgeIndex[k] = len(b.m.edges)
	b.m.edges = append(b.m.edges, Edge{Source: s, Target: d, EdgeStyle: style})
}

// AddIncompleteEdge records an edge statement that could not be resolved
// to both endpoints. The known endpoint, if any, is still inserted as an
// implicit node. [Builder.Build] fails once any incomplete edge is
// recorded.
func (b *Builder) AddIncompleteEdge(line int, src, dst string) {
	if src != "" {
		b.InsertNode(Node{ID: src})
	}
	if dst != "" {
		b.InsertNode(Node{ID: dst})
	}
	b.incomplete = append(b.incomplete, &IncompleteEdgeError{Line: line, Source: src, Target: dst})
}

// Build finalizes the model. It fails with an [IncompleteEdgeError] for
// the first unresolved edge statement, or with [ErrInvalidNodeID] if any
// declaration had an empty id. The builder must not be used afterwards.
func (b *Builder) Build() (*Model, error) {
	if len(b.incomplete) > 0 {
		if len(b.incomplete) == 1 {
			return nil, b.incomplete[0]
		}
		lines := make([]string, 0, len(b.incomplete))
		for _, e := range b.incomplete[1:] {
			lines = append(lines, fmt.Sprint(e.Line))
		}
		return nil, fmt.Errorf("%w (also on lines %s)", b.incomplete[0], strings.Join(lines, ", "))
	}
	if b.invalid > 0 {
		return nil, ErrInvalidNodeID
	}
	m := b.m
	b.m = nil
	return m, nil
}
