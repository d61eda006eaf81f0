package calculator

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// percentRun matches a digit run immediately followed by '%'.
var percentRun = regexp.MustCompile(`(\d+)%`)

// normalizeExpression rewrites "50%" as "(50/100)" and replaces the
// multiplication glyph with '*'.
func normalizeExpression(expr string) string {
	expr = percentRun.ReplaceAllString(expr, "($1/100)")
	return strings.ReplaceAll(expr, "×", "*")
}

// EvaluateExpression evaluates an expression over the calculator's token
// alphabet. Failures wrap ErrMalformedExpression or ErrNonFiniteResult.
func EvaluateExpression(expr string) (float64, error) {
	toks, err := tokenize(normalizeExpression(expr))
	if err != nil {
		return 0, err
	}

	p := &parser{toks: toks}
	root, err := p.parse()
	if err != nil {
		return 0, err
	}

	v := root.eval()
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q evaluates to %g", ErrNonFiniteResult, expr, v)
	}
	return v, nil
}

// ---------------------------------------------------------------------------
// Tokens
// ---------------------------------------------------------------------------

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokOperator
	tokLParen
	tokRParen
	tokEOF
)

type token struct {
	kind  tokenKind
	op    byte
	value float64
	text  string
	pos   int
}

func (t token) String() string {
	if t.kind == tokEOF {
		return "end of input"
	}
	return strconv.Quote(t.text)
}

func tokenize(s string) ([]token, error) {
	var toks []token

	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case c == '+' || c == '-' || c == '*' || c == '/':
			toks = append(toks, token{kind: tokOperator, op: c, text: string(c), pos: i})
			i++
		case c == '(':
			toks = append(toks, token{kind: tokLParen, text: "(", pos: i})
			i++
		case c == ')':
			toks = append(toks, token{kind: tokRParen, text: ")", pos: i})
			i++
		case isDigit(rune(c)) || c == '.':
			start := i
			for i < len(s) && (isDigit(rune(s[i])) || s[i] == '.') {
				i++
			}
			text := s[start:i]
			v, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: bad number %q at %d", ErrMalformedExpression, text, start)
			}
			toks = append(toks, token{kind: tokNumber, value: v, text: text, pos: start})
		default:
			return nil, fmt.Errorf("%w: unexpected character %q at %d", ErrMalformedExpression, s[i:i+1], i)
		}
	}

	return append(toks, token{kind: tokEOF, pos: len(s)}), nil
}

// ---------------------------------------------------------------------------
// Syntax tree
// ---------------------------------------------------------------------------

type node interface {
	eval() float64
}

type number float64

func (n number) eval() float64 { return float64(n) }

type unary struct {
	op byte
	x  node
}

func (u *unary) eval() float64 {
	if u.op == '-' {
		return -u.x.eval()
	}
	return u.x.eval()
}

type binary struct {
	op          byte
	left, right node
}

func (b *binary) eval() float64 {
	x, y := b.left.eval(), b.right.eval()
	switch b.op {
	case '+':
		return x + y
	case '-':
		return x - y
	case '*':
		return x * y
	default:
		return x / y
	}
}

// ---------------------------------------------------------------------------
// Parser
//
//	expr   = term { ("+" | "-") term }
//	term   = factor { ("*" | "/") factor }
//	factor = ("+" | "-") factor | number | "(" expr ")"
// ---------------------------------------------------------------------------

type parser struct {
	toks []token
	pos  int
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) parse() (node, error) {
	n, err := p.expr()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, p.unexpected(t)
	}
	return n, nil
}

func (p *parser) expr() (node, error) {
	left, err := p.term()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		if t.kind != tokOperator || (t.op != '+' && t.op != '-') {
			return left, nil
		}
		p.next()
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		left = &binary{op: t.op, left: left, right: right}
	}
}

func (p *parser) term() (node, error) {
	left, err := p.factor()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		if t.kind != tokOperator || (t.op != '*' && t.op != '/') {
			return left, nil
		}
		p.next()
		right, err := p.factor()
		if err != nil {
			return nil, err
		}
		left = &binary{op: t.op, left: left, right: right}
	}
}

func (p *parser) factor() (node, error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		return number(t.value), nil
	case tokOperator:
		if t.op != '+' && t.op != '-' {
			return nil, p.unexpected(t)
		}
		x, err := p.factor()
		if err != nil {
			return nil, err
		}
		return &unary{op: t.op, x: x}, nil
	case tokLParen:
		n, err := p.expr()
		if err != nil {
			return nil, err
		}
		if closing := p.next(); closing.kind != tokRParen {
			return nil, fmt.Errorf("%w: expected \")\" at %d, got %s", ErrMalformedExpression, closing.pos, closing)
		}
		return n, nil
	default:
		return nil, p.unexpected(t)
	}
}

func (p *parser) unexpected(t token) error {
	return fmt.Errorf("%w: unexpected %s at %d", ErrMalformedExpression, t, t.pos)
}
