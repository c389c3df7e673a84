package grammar

import (
	"fmt"
	"strings"
)

// Keyword that starts a print statement.
const KeywordPrint = "print"

type parser struct {
	src  string
	toks []token
	i    int
}

// Parse parses a whole program.
func Parse(src string) (*Node, error) {
	return ParseFile("", src)
}

// ParseFile parses a whole program, recording file in every position.
func ParseFile(file, src string) (*Node, error) {
	p, err := newParser(file, src)
	if err != nil {
		return nil, err
	}

	return p.program()
}

// ParseExpression parses src as a single expression.
func ParseExpression(src string) (*Node, error) {
	p, err := newParser("", src)
	if err != nil {
		return nil, err
	}

	n, err := p.expression()
	if err != nil {
		return nil, err
	}

	if err := p.expect(tokenEOF); err != nil {
		return nil, err
	}

	return n, nil
}

// ParseUnitExpression parses src as a single unit expression.
func ParseUnitExpression(src string) (*Node, error) {
	p, err := newParser("", src)
	if err != nil {
		return nil, err
	}

	n, err := p.unitExpr()
	if err != nil {
		return nil, err
	}

	if err := p.expect(tokenEOF); err != nil {
		return nil, err
	}

	return n, nil
}

func newParser(file, src string) (*parser, error) {
	toks, err := newLexer(file, src).all()
	if err != nil {
		return nil, err
	}

	return &parser{src: src, toks: toks}, nil
}

func (p *parser) peek() token {
	return p.toks[p.i]
}

func (p *parser) peekN(n int) token {
	if p.i+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}

	return p.toks[p.i+n]
}

func (p *parser) advance() token {
	tok := p.toks[p.i]
	if tok.kind != tokenEOF {
		p.i++
	}

	return tok
}

func (p *parser) errorf(tok token, format string, args ...any) error {
	return &SyntaxError{Pos: tok.pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) expect(kind tokenKind) error {
	tok := p.peek()
	if tok.kind != kind {
		return p.errorf(tok, "expected %s, found %s", kind, tok)
	}
	p.advance()

	return nil
}

func (p *parser) leaf(kind Kind, tok token) *Node {
	return &Node{Kind: kind, Text: tok.text, Pos: tok.pos, start: tok.start, end: tok.end}
}

func (p *parser) branch(kind Kind, children ...*Node) *Node {
	n := &Node{
		Kind:     kind,
		Pos:      children[0].Pos,
		Children: children,
		start:    children[0].start,
		end:      children[len(children)-1].end,
	}
	n.Text = p.src[n.start:n.end]

	return n
}

func (p *parser) program() (*Node, error) {
	root := &Node{Kind: KindProgram, Text: p.src, Pos: p.peek().pos, end: len(p.src)}

	for {
		for p.peek().kind == tokenNewline {
			p.advance()
		}

		if p.peek().kind == tokenEOF {
			return root, nil
		}

		line, err := p.line()
		if err != nil {
			return nil, err
		}
		root.Children = append(root.Children, line)

		if tok := p.peek(); tok.kind != tokenNewline && tok.kind != tokenEOF {
			return nil, p.errorf(tok, "unexpected %s", tok)
		}
	}
}

func (p *parser) line() (*Node, error) {
	tok := p.peek()
	switch {
	case tok.kind == tokenIdent && tok.text == KeywordPrint && p.peekN(1).kind != tokenAssign:
		return p.printExpr()
	case tok.kind == tokenIdent && p.peekN(1).kind == tokenAssign:
		return p.varDec()
	default:
		return p.expression()
	}
}

func (p *parser) varDec() (*Node, error) {
	name := p.leaf(KindIdent, p.advance())
	if name.Text == KeywordPrint {
		return nil, p.errorf(p.toks[p.i-1], "cannot assign to keyword %q", KeywordPrint)
	}

	p.advance()

	rhs, err := p.expression()
	if err != nil {
		return nil, err
	}

	return p.branch(KindVarDec, name, rhs), nil
}

func (p *parser) printExpr() (*Node, error) {
	kw := p.advance()

	expr, err := p.expression()
	if err != nil {
		return nil, err
	}

	children := []*Node{expr}
	if p.peek().kind == tokenArrow {
		p.advance()

		hint, err := p.unitExpr()
		if err != nil {
			return nil, err
		}
		children = append(children, hint)
	}

	n := p.branch(KindPrintExpr, children...)
	n.Pos = kw.pos
	n.start = kw.start
	n.Text = p.src[n.start:n.end]

	return n, nil
}

func (p *parser) expression() (*Node, error) {
	first, err := p.operand()
	if err != nil {
		return nil, err
	}

	children := []*Node{first}
	for {
		tok := p.peek()
		switch tok.kind {
		case tokenOp:
			children = append(children, p.leaf(KindOperation, p.advance()))

			rhs, err := p.operand()
			if err != nil {
				return nil, err
			}
			children = append(children, rhs)
		case tokenIdent:
			unit, err := p.unitExpr()
			if err != nil {
				return nil, err
			}
			children = append(children, unit)
		default:
			return p.branch(KindExpression, children...), nil
		}
	}
}

func (p *parser) operand() (*Node, error) {
	tok := p.peek()
	switch tok.kind {
	case tokenNum:
		return p.leaf(KindNumber, p.advance()), nil
	case tokenIdent:
		if tok.text == KeywordPrint {
			return nil, p.errorf(tok, "unexpected keyword %q", KeywordPrint)
		}
		return p.leaf(KindIdent, p.advance()), nil
	case tokenOp:
		if tok.text != "-" || p.peekN(1).kind != tokenNum {
			break
		}

		p.advance()
		num := p.leaf(KindNumber, p.advance())
		num.Text = "-" + num.Text
		num.Pos = tok.pos
		num.start = tok.start

		return num, nil
	case tokenOpen:
		p.advance()

		inner, err := p.expression()
		if err != nil {
			return nil, err
		}

		closing := p.peek()
		if err := p.expect(tokenClose); err != nil {
			return nil, err
		}

		inner.Pos = tok.pos
		inner.start = tok.start
		inner.end = closing.end
		inner.Text = p.src[inner.start:inner.end]

		return inner, nil
	}

	return nil, p.errorf(tok, "expected operand, found %s", tok)
}

func (p *parser) unitExpr() (*Node, error) {
	first, err := p.unitAtom()
	if err != nil {
		return nil, err
	}

	children := []*Node{first}
	for {
		tok := p.peek()
		if tok.kind != tokenOp || (tok.text != "*" && tok.text != "/") {
			break
		}

		if !p.startsUnit(1) {
			break
		}

		mark := p.i
		op := p.leaf(KindOperation, p.advance())
		paren := p.peek().kind == tokenOpen

		atom, err := p.unitAtom()
		if err != nil {
			// "m / (t + 1)" divides by an expression.
			if paren {
				p.i = mark
				break
			}
			return nil, err
		}
		children = append(children, op, atom)
	}

	return p.branch(KindUnitExpr, children...), nil
}

// startsUnit reports whether the token n ahead begins a unit atom: an
// identifier, or parentheses opening onto one.
func (p *parser) startsUnit(n int) bool {
	for ; ; n++ {
		switch p.peekN(n).kind {
		case tokenIdent:
			return true
		case tokenOpen:
			continue
		default:
			return false
		}
	}
}

func (p *parser) unitAtom() (*Node, error) {
	tok := p.peek()
	switch tok.kind {
	case tokenIdent:
		return p.unit()
	case tokenOpen:
		p.advance()

		inner, err := p.unitExpr()
		if err != nil {
			return nil, err
		}

		closing := p.peek()
		if err := p.expect(tokenClose); err != nil {
			return nil, err
		}

		// Text stays the inside; the span covers the parentheses.
		inner.start = tok.start
		inner.end = closing.end

		return inner, nil
	default:
		return nil, p.errorf(tok, "expected unit, found %s", tok)
	}
}

func (p *parser) unit() (*Node, error) {
	name := p.leaf(KindIdent, p.advance())

	if tok := p.peek(); tok.kind != tokenOp || tok.text != "^" {
		return p.branch(KindUnit, name), nil
	}

	neg := p.peekN(1).kind == tokenOp && p.peekN(1).text == "-"
	numTok := p.peekN(1)
	if neg {
		numTok = p.peekN(2)
	}

	if numTok.kind != tokenNum {
		return p.branch(KindUnit, name), nil
	}

	if strings.ContainsAny(numTok.text, ".eE") {
		return nil, p.errorf(numTok, "unit exponent %s must be an integer", numTok.text)
	}

	p.advance()
	if neg {
		p.advance()
	}
	p.advance()

	exp := p.leaf(KindNumber, numTok)
	if neg {
		exp.Text = "-" + exp.Text
	}

	return p.branch(KindUnit, name, exp), nil
}
