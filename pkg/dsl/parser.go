package dsl

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/matzehuels/stackgraph/pkg/diagram"
)

const (
	headChars = "<>|:"
	lineChars = "-.=~"
)

// Parse reads a diagram document.
func Parse(src string) (*Document, error) {
	p := &parser{src: []rune(src), line: 1, col: 1}
	doc := &Document{}
	if err := p.header(doc); err != nil {
		return nil, err
	}
	for {
		p.skipBlank()
		if p.eof() {
			return doc, nil
		}
		stmts, err := p.statement()
		if err != nil {
			return nil, err
		}
		doc.Statements = append(doc.Statements, stmts...)
	}
}

type parser struct {
	src       []rune
	pos       int
	line, col int
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) peek() rune {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) peekAt(off int) rune {
	if p.pos+off >= len(p.src) {
		return 0
	}
	return p.src[p.pos+off]
}

func (p *parser) next() rune {
	r := p.src[p.pos]
	p.pos++
	if r == '\n' {
		p.line++
		p.col = 1
	} else {
		p.col++
	}
	return r
}

func (p *parser) here() Position { return Position{Line: p.line, Column: p.col} }

func (p *parser) errorf(at Position, format string, args ...any) error {
	return &SyntaxError{Pos: at, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) skipSpace() {
	for !p.eof() && (p.peek() == ' ' || p.peek() == '\t' || p.peek() == '\r') {
		p.next()
	}
}

func (p *parser) atComment() bool {
	return p.peek() == '#' || (p.peek() == '%' && p.peekAt(1) == '%')
}

func (p *parser) skipComment() {
	for !p.eof() && p.peek() != '\n' {
		p.next()
	}
}

// skipBlank skips whitespace, comments and statement separators.
func (p *parser) skipBlank() {
	for !p.eof() {
		switch {
		case unicode.IsSpace(p.peek()) || p.peek() == ';':
			p.next()
		case p.atComment():
			p.skipComment()
		default:
			return
		}
	}
}

func (p *parser) atStatementEnd() bool {
	return p.eof() || p.peek() == '\n' || p.peek() == ';' || p.atComment()
}

func isIDRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func (p *parser) ident() string {
	start := p.pos
	for !p.eof() && isIDRune(p.peek()) {
		p.next()
	}
	return string(p.src[start:p.pos])
}

// header consumes an optional "graph DIR" or "flowchart DIR" line. A
// keyword that is not followed by a direction is left in place and parsed
// as an ordinary node.
func (p *parser) header(doc *Document) error {
	p.skipBlank()
	saved := *p
	kw := p.ident()
	if kw != "graph" && kw != "flowchart" {
		*p = saved
		return nil
	}
	p.skipSpace()
	if p.atStatementEnd() || !isIDRune(p.peek()) {
		*p = saved
		return nil
	}
	at := p.here()
	dir, err := diagram.ParseDirection(strings.ToUpper(p.ident()))
	if err != nil {
		return p.errorf(at, "%v", err)
	}
	p.skipSpace()
	if !p.atStatementEnd() {
		return p.errorf(p.here(), "unexpected %q after diagram header", p.peek())
	}
	doc.Direction = dir
	return nil
}

// statement parses "node { edgeop node }" up to the end of the statement.
func (p *parser) statement() ([]Statement, error) {
	start := p.here()
	src, err := p.node()
	if err != nil {
		return nil, err
	}
	var out []Statement
	for {
		p.skipSpace()
		if p.atStatementEnd() {
			break
		}
		if !strings.ContainsRune(headChars+lineChars, p.peek()) {
			return nil, p.errorf(p.here(), "unexpected %q after node %q", p.peek(), src.ID)
		}
		opPos := p.here()
		style, err := p.edgeOp()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		from := src
		if p.atStatementEnd() {
			out = append(out, Statement{Kind: EdgeStatement, Pos: opPos, Source: &from, Style: style})
			return out, nil
		}
		dst, err := p.node()
		if err != nil {
			return nil, err
		}
		to := dst
		out = append(out, Statement{Kind: EdgeStatement, Pos: opPos, Source: &from, Target: &to, Style: style})
		src = dst
	}
	if len(out) == 0 {
		out = append(out, Statement{Kind: NodeStatement, Pos: start, Node: src})
	}
	return out, nil
}

func closingDelimiter(open rune) rune {
	switch open {
	case '(':
		return ')'
	case '[':
		return ']'
	case '{':
		return '}'
	}
	return 0
}

// node parses an identifier with an optional shape-delimited label.
func (p *parser) node() (NodeRef, error) {
	at := p.here()
	id := p.ident()
	if id == "" {
		if p.eof() {
			return NodeRef{}, p.errorf(at, "expected node id, found end of input")
		}
		return NodeRef{}, p.errorf(at, "expected node id, found %q", p.peek())
	}
	n := NodeRef{ID: id, Shape: diagram.ShapeEmpty, Pos: at}
	closer := closingDelimiter(p.peek())
	if closer == 0 {
		return n, nil
	}
	open := p.here()
	n.Shape = diagram.ShapeFromDelimiter(p.next())
	n.Delimited = true
	start := p.pos
	for {
		if p.eof() || p.peek() == '\n' {
			return NodeRef{}, p.errorf(open, "unterminated label for node %q, expected %q", id, closer)
		}
		if p.peek() == closer {
			break
		}
		p.next()
	}
	n.Label = strings.TrimSpace(string(p.src[start:p.pos]))
	p.next()
	return n, nil
}

// edgeOp parses "[head] line [head] [|label|]".
func (p *parser) edgeOp() (diagram.EdgeStyle, error) {
	var style diagram.EdgeStyle
	if strings.ContainsRune(headChars, p.peek()) {
		style.SourceHead = diagram.ParseHead(p.next())
	}
	at := p.here()
	start := p.pos
	for !p.eof() && strings.ContainsRune(lineChars, p.peek()) {
		p.next()
	}
	line := string(p.src[start:p.pos])
	if len(line) < 2 {
		return style, p.errorf(at, "expected edge line such as \"--\", found %q", line)
	}
	style.Line = diagram.ParseLineStyle(line)

	switch c := p.peek(); {
	case c == '|':
		// "|" directly followed by text opens a label rather than a head.
		if after := p.peekAt(1); after == 0 || unicode.IsSpace(after) || after == ';' {
			style.TargetHead = diagram.HeadStraight
			p.next()
		}
	case c != 0 && strings.ContainsRune(headChars, c):
		style.TargetHead = diagram.ParseHead(p.next())
	}

	p.skipSpace()
	if p.peek() == '|' {
		label, err := p.edgeLabel()
		if err != nil {
			return style, err
		}
		style.Label = label
	}
	return style, nil
}

func (p *parser) edgeLabel() (string, error) {
	open := p.here()
	p.next()
	start := p.pos
	for {
		if p.eof() || p.peek() == '\n' {
			return "", p.errorf(open, "unterminated edge label, expected '|'")
		}
		if p.peek() == '|' {
			break
		}
		p.next()
	}
	label := strings.TrimSpace(string(p.src[start:p.pos]))
	p.next()
	return label, nil
}
