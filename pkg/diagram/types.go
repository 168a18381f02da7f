package diagram

import "fmt"

// Shape is the outline drawn around a node.
type Shape int

const (
	// ShapeEmpty draws no outline, only the node text. It is the shape of a
	// bare identifier.
	ShapeEmpty Shape = iota
	// ShapeRounded is declared with parentheses: id(label).
	ShapeRounded
	// ShapeSquare is declared with brackets: id[label].
	ShapeSquare
	// ShapeTriangle is declared with braces: id{label}.
	ShapeTriangle
)

var shapeNames = [...]string{"empty", "rounded", "square", "triangle"}

func (s Shape) String() string {
	if s < 0 || int(s) >= len(shapeNames) {
		return fmt.Sprintf("Shape(%d)", int(s))
	}
	return shapeNames[s]
}

// ShapeFromDelimiter maps an opening delimiter to its shape. Unknown
// delimiters yield ShapeEmpty.
func ShapeFromDelimiter(open rune) Shape {
	switch open {
	case '(':
		return ShapeRounded
	case '[':
		return ShapeSquare
	case '{':
		return ShapeTriangle
	}
	return ShapeEmpty
}

// LineStyle is the stroke used to draw an edge.
type LineStyle int

const (
	LineThin LineStyle = iota
	LineDotted
	LineThick
	LineWavy
)

var lineNames = [...]string{"thin", "dotted", "thick", "wavy"}

func (l LineStyle) String() string {
	if l < 0 || int(l) >= len(lineNames) {
		return fmt.Sprintf("LineStyle(%d)", int(l))
	}
	return lineNames[l]
}

// ParseLineStyle maps a line token to its style using the first two
// characters: "--" thin, "-." dotted, "==" thick, "~~" wavy. Anything else,
// including tokens shorter than two characters, is thin.
func ParseLineStyle(tok string) LineStyle {
	if len(tok) < 2 {
		return LineThin
	}
	switch tok[:2] {
	case "-.":
		return LineDotted
	case "==":
		return LineThick
	case "~~":
		return LineWavy
	}
	return LineThin
}

// Head is the marker drawn at one end of an edge.
type Head int

const (
	HeadNone Head = iota
	HeadLeft
	HeadRight
	HeadStraight
	HeadDot
)

var headNames = [...]string{"none", "left", "right", "straight", "dot"}

func (h Head) String() string {
	if h < 0 || int(h) >= len(headNames) {
		return fmt.Sprintf("Head(%d)", int(h))
	}
	return headNames[h]
}

// ParseHead maps a head marker character to its head. Unknown characters
// yield HeadNone.
func ParseHead(c rune) Head {
	switch c {
	case '<':
		return HeadLeft
	case '>':
		return HeadRight
	case '|':
		return HeadStraight
	case ':':
		return HeadDot
	}
	return HeadNone
}

// IsArrow reports whether the head is drawn as an arrow.
func (h Head) IsArrow() bool { return h == HeadLeft || h == HeadRight }

// Clearance is the gap left between a node border and an edge endpoint
// carrying this head, so the marker does not overlap the node.
func (h Head) Clearance() float64 {
	if h.IsArrow() {
		return 7.5
	}
	return 3.0
}

// Provenance records how a node entered the model.
type Provenance int

const (
	// Implicit nodes were created because an edge named them.
	Implicit Provenance = iota
	// Explicit nodes were declared by a node statement.
	Explicit
)

func (p Provenance) String() string {
	if p == Explicit {
		return "explicit"
	}
	return "implicit"
}

// Direction is the axis along which ranks advance.
type Direction int

const (
	// TopBottom places rank 0 at the top. It is the default.
	TopBottom Direction = iota
	BottomTop
	LeftRight
	RightLeft
)

var directionNames = [...]string{"TB", "BT", "LR", "RL"}

func (d Direction) String() string {
	if d < 0 || int(d) >= len(directionNames) {
		return fmt.Sprintf("Direction(%d)", int(d))
	}
	return directionNames[d]
}

// ParseDirection accepts TB, TD, BT, LR and RL.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "TB", "TD":
		return TopBottom, nil
	case "BT":
		return BottomTop, nil
	case "LR":
		return LeftRight, nil
	case "RL":
		return RightLeft, nil
	}
	return TopBottom, fmt.Errorf("unknown direction %q", s)
}

// Horizontal reports whether ranks advance along the x axis.
func (d Direction) Horizontal() bool { return d == LeftRight || d == RightLeft }
