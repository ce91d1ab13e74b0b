package metrics

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Formula is a parsed metric expression. The grammar is deliberately
// restricted: number literals, field identifiers, + - * /, unary minus and
// parentheses. No function calls, no strings, no indexing. User-supplied
// formulas never reach anything that can execute code.
type Formula struct {
	src  string
	root node
}

type ParseError struct {
	Pos int
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("formula error at position %d: %s", e.Pos, e.Msg)
}

type node interface {
	eval(row map[string]float64) float64
	fields(set map[string]struct{})
}

type numberNode float64

func (n numberNode) eval(map[string]float64) float64 { return float64(n) }
func (n numberNode) fields(map[string]struct{})      {}

type identNode string

func (n identNode) eval(row map[string]float64) float64 {
	// Unknown fields resolve to 0 so a formula never fails at read time.
	return row[string(n)]
}

func (n identNode) fields(set map[string]struct{}) {
	set[string(n)] = struct{}{}
}

type unaryNode struct {
	operand node
}

func (n *unaryNode) eval(row map[string]float64) float64 {
	return -n.operand.eval(row)
}

func (n *unaryNode) fields(set map[string]struct{}) {
	n.operand.fields(set)
}

type binaryNode struct {
	op          byte
	left, right node
}

func (n *binaryNode) eval(row map[string]float64) float64 {
	l := n.left.eval(row)
	r := n.right.eval(row)
	switch n.op {
	case '+':
		return l + r
	case '-':
		return l - r
	case '*':
		return l * r
	default:
		// Division by zero yields 0: a KPI over an empty denominator
		// (CTR with zero impressions) reads as 0, not an error.
		if r == 0 {
			return 0
		}
		return l / r
	}
}

func (n *binaryNode) fields(set map[string]struct{}) {
	n.left.fields(set)
	n.right.fields(set)
}

// Parse compiles a formula string. Returned errors are *ParseError.
func Parse(src string) (*Formula, error) {
	p := &parser{src: src}
	root, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos < len(p.src) {
		return nil, &ParseError{Pos: p.pos, Msg: fmt.Sprintf("unexpected character %q", p.src[p.pos])}
	}
	return &Formula{src: src, root: root}, nil
}

// Eval computes the formula against a row of field values. Missing fields
// read as 0; division by zero yields 0. Eval never fails.
func (f *Formula) Eval(row map[string]float64) float64 {
	return f.root.eval(row)
}

// Fields lists every identifier the formula references, sorted-free, for
// whitelist validation at definition time.
func (f *Formula) Fields() []string {
	set := map[string]struct{}{}
	f.root.fields(set)
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}

func (f *Formula) String() string {
	return f.src
}

type parser struct {
	src string
	pos int
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

// expr = term (('+'|'-') term)*
func (p *parser) parseExpr() (node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		p.skipSpace()
		if p.pos >= len(p.src) {
			return left, nil
		}
		op := p.src[p.pos]
		if op != '+' && op != '-' {
			return left, nil
		}
		p.pos++
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{op: op, left: left, right: right}
	}
}

// term = factor (('*'|'/') factor)*
func (p *parser) parseTerm() (node, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for {
		p.skipSpace()
		if p.pos >= len(p.src) {
			return left, nil
		}
		op := p.src[p.pos]
		if op != '*' && op != '/' {
			return left, nil
		}
		p.pos++
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{op: op, left: left, right: right}
	}
}

// factor = number | ident | '-' factor | '(' expr ')'
func (p *parser) parseFactor() (node, error) {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return nil, &ParseError{Pos: p.pos, Msg: "unexpected end of formula"}
	}

	c := p.src[p.pos]
	switch {
	case c == '-':
		p.pos++
		operand, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		return &unaryNode{operand: operand}, nil

	case c == '(':
		p.pos++
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if p.pos >= len(p.src) || p.src[p.pos] != ')' {
			return nil, &ParseError{Pos: p.pos, Msg: "missing closing parenthesis"}
		}
		p.pos++
		return inner, nil

	case c >= '0' && c <= '9' || c == '.':
		return p.parseNumber()

	case unicode.IsLetter(rune(c)) || c == '_':
		return p.parseIdent()

	default:
		return nil, &ParseError{Pos: p.pos, Msg: fmt.Sprintf("unexpected character %q", c)}
	}
}

func (p *parser) parseNumber() (node, error) {
	start := p.pos
	for p.pos < len(p.src) && (p.src[p.pos] >= '0' && p.src[p.pos] <= '9' || p.src[p.pos] == '.') {
		p.pos++
	}
	lit := p.src[start:p.pos]
	v, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return nil, &ParseError{Pos: start, Msg: fmt.Sprintf("invalid number %q", lit)}
	}
	return numberNode(v), nil
}

func (p *parser) parseIdent() (node, error) {
	start := p.pos
	for p.pos < len(p.src) {
		c := rune(p.src[p.pos])
		if !unicode.IsLetter(c) && !unicode.IsDigit(c) && c != '_' {
			break
		}
		p.pos++
	}
	name := strings.ToLower(p.src[start:p.pos])
	return identNode(name), nil
}
