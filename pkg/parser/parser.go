package parser

import (
	"fmt"
	"log/slog"
	"strconv"
	"unicode"

	"github.com/rhino1998/dimcalc/pkg/ast"
	"github.com/rhino1998/dimcalc/pkg/grammar"
	"github.com/rhino1998/dimcalc/pkg/units"
	"github.com/rhino1998/dimcalc/pkg/value"
)

type Config struct {
	// Units maps extra unit symbols to unit-expression text.
	Units map[string]string
	// CustomUnits are symbols that stand only for themselves.
	CustomUnits []string
}

func (c *Config) Validate(logger *slog.Logger) error {
	for symbol := range c.Units {
		if !isSymbol(symbol) {
			return fmt.Errorf("invalid unit symbol %q", symbol)
		}
	}

	for _, symbol := range c.CustomUnits {
		if !isSymbol(symbol) {
			return fmt.Errorf("invalid custom unit symbol %q", symbol)
		}

		if _, ok := c.Units[symbol]; ok {
			return fmt.Errorf("unit %q is both derived and custom", symbol)
		}
	}

	return nil
}

func isSymbol(s string) bool {
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return false
	}

	return s != "" && s != grammar.KeywordPrint
}

type Parser struct {
	logger *slog.Logger
	table  *units.Table
}

func New(logger *slog.Logger, config Config) (*Parser, error) {
	err := config.Validate(logger)
	if err != nil {
		return nil, fmt.Errorf("failed to validate parser config: %w", err)
	}

	defaults, err := DefaultUnits()
	if err != nil {
		return nil, err
	}

	table := defaults
	if len(config.Units) > 0 || len(config.CustomUnits) > 0 {
		base := defaults.Clone()
		for _, symbol := range config.CustomUnits {
			err := base.DefineCustom(symbol)
			if err != nil {
				return nil, fmt.Errorf("failed to define custom unit: %w", err)
			}
			logger.Debug("custom unit defined", slog.String("symbol", symbol))
		}

		table, err = NewUnitTable(logger, base, config.Units)
		if err != nil {
			return nil, err
		}
	}

	return &Parser{
		logger: logger,
		table:  table,
	}, nil
}

// Table returns the unit table symbols are resolved against. It must not
// be modified.
func (p *Parser) Table() *units.Table {
	return p.table
}

type ParseError struct {
	Kind grammar.Kind
	Text string
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Text == "" {
		return fmt.Sprintf("parse error: %s", e.Msg)
	}

	return fmt.Sprintf("parse error: %s %q: %s", e.Kind, e.Text, e.Msg)
}

func parseErrorf(n *grammar.Node, format string, args ...any) error {
	return n.Pos.WrapError(&ParseError{Kind: n.Kind, Text: n.Text, Msg: fmt.Sprintf(format, args...)})
}

func (p *Parser) ParseProgram(file, src string) (*ast.Program, error) {
	root, err := grammar.ParseFile(file, src)
	if err != nil {
		return nil, err
	}

	prog := &ast.Program{}
	for _, n := range root.Children {
		stmt, err := p.ParseStatement(n)
		if err != nil {
			return nil, err
		}

		prog.Statements = append(prog.Statements, stmt)
	}

	return prog, nil
}

func (p *Parser) ParseStatement(n *grammar.Node) (ast.Statement, error) {
	switch n.Kind {
	case grammar.KindExpression:
		rhs, err := p.ParseExpr(n)
		if err != nil {
			return nil, err
		}

		p.logger.Debug("parsed statement", slog.String("pos", n.Pos.String()), slog.String("expr", rhs.String()))

		return ast.ExprStmt{Position: n.Pos, Source: n.Text, RHS: rhs}, nil
	case grammar.KindVarDec:
		if len(n.Children) != 2 {
			return nil, parseErrorf(n, "expected name and expression")
		}

		rhs, err := p.ParseExpr(n.Children[1])
		if err != nil {
			return nil, err
		}

		name := n.Children[0].Text
		p.logger.Debug("parsed statement", slog.String("pos", n.Pos.String()), slog.String("name", name), slog.String("expr", rhs.String()))

		return ast.VarDec{Position: n.Pos, Name: name, RHS: rhs}, nil
	case grammar.KindPrintExpr:
		if len(n.Children) == 0 || len(n.Children) > 2 {
			return nil, parseErrorf(n, "expected expression and optional display unit")
		}

		rhs, err := p.ParseExpr(n.Children[0])
		if err != nil {
			return nil, err
		}

		stmt := ast.PrintExpr{Position: n.Pos, Source: n.Children[0].Text, RHS: rhs}
		if len(n.Children) == 2 {
			hint := n.Children[1]

			up, err := p.evalUnitExpr(hint)
			if err != nil {
				return nil, err
			}

			stmt.Hint = &ast.UnitHint{Text: hint.Text, UnitPow: up}
		}

		p.logger.Debug("parsed statement", slog.String("pos", n.Pos.String()), slog.String("print", rhs.String()))

		return stmt, nil
	default:
		return nil, parseErrorf(n, "expected statement")
	}
}

// ParseExpression parses src as a single expression.
func (p *Parser) ParseExpression(src string) (ast.Expr, error) {
	n, err := grammar.ParseExpression(src)
	if err != nil {
		return nil, err
	}

	return p.ParseExpr(n)
}

type cursor struct {
	nodes []*grammar.Node
	i     int
}

func (c *cursor) peek() (*grammar.Node, bool) {
	if c.i >= len(c.nodes) {
		return nil, false
	}

	return c.nodes[c.i], true
}

func (c *cursor) next() (*grammar.Node, bool) {
	n, ok := c.peek()
	if ok {
		c.i++
	}

	return n, ok
}

// ParseExpr builds an expression tree from an expression node by
// precedence climbing over its children.
func (p *Parser) ParseExpr(n *grammar.Node) (ast.Expr, error) {
	if n.Kind != grammar.KindExpression {
		return nil, parseErrorf(n, "expected expression")
	}

	c := &cursor{nodes: p.splitUnits(n.Children)}

	expr, err := p.exprBP(n, c, 0)
	if err != nil {
		return nil, err
	}

	if rest, ok := c.peek(); ok {
		return nil, parseErrorf(rest, "unexpected trailing %s", rest.Kind)
	}

	return expr, nil
}

func (p *Parser) exprBP(parent *grammar.Node, c *cursor, minBP int) (ast.Expr, error) {
	first, ok := c.next()
	if !ok {
		return nil, parseErrorf(parent, "missing operand")
	}

	lhs, err := p.operand(first)
	if err != nil {
		return nil, err
	}

	for {
		next, ok := c.peek()
		if !ok {
			break
		}

		op, err := p.operator(next)
		if err != nil {
			return nil, err
		}

		if bp, ok := postfixBindingPower(op); ok {
			if bp < minBP {
				break
			}
			c.next()

			lhs = ast.NewCons(next.Pos, op, lhs)

			continue
		}

		lbp, rbp := infixBindingPower(op)
		if lbp < minBP {
			break
		}
		c.next()

		rhs, err := p.exprBP(next, c, rbp)
		if err != nil {
			return nil, err
		}

		lhs = ast.NewCons(next.Pos, op, lhs, rhs)
	}

	return lhs, nil
}

func (p *Parser) operand(n *grammar.Node) (ast.Expr, error) {
	switch n.Kind {
	case grammar.KindNumber:
		num, err := strconv.ParseFloat(n.Text, 64)
		if err != nil {
			return nil, parseErrorf(n, "invalid number")
		}

		return ast.Atom{Position: n.Pos, Val: value.Scalar(num)}, nil
	case grammar.KindIdent:
		return ast.Ident{Position: n.Pos, Name: n.Text}, nil
	case grammar.KindExpression:
		return p.ParseExpr(n)
	default:
		return nil, parseErrorf(n, "expected number, identifier or parenthesized expression")
	}
}

func (p *Parser) operator(n *grammar.Node) (ast.Op, error) {
	switch n.Kind {
	case grammar.KindOperation:
		switch n.Text {
		case "+":
			return ast.Plus, nil
		case "-":
			return ast.Minus, nil
		case "*":
			return ast.Mul, nil
		case "/":
			return ast.Div, nil
		case "^":
			return ast.Exp, nil
		default:
			return nil, parseErrorf(n, "unknown operator")
		}
	case grammar.KindUnitExpr:
		up, err := p.evalUnitExpr(n)
		if err != nil {
			return nil, err
		}

		if up.Pow == 0 {
			return ast.AddUnit{Unit: up.Unit, Text: n.Text}, nil
		}

		return ast.AddMultiUnit{Power: up.Pow, Unit: up.Unit, Text: n.Text}, nil
	default:
		return nil, parseErrorf(n, "expected operator or unit")
	}
}

func postfixBindingPower(op ast.Op) (int, bool) {
	switch op.(type) {
	case ast.AddUnit, ast.AddMultiUnit:
		return 9, true
	default:
		return 0, false
	}
}

func infixBindingPower(op ast.Op) (int, int) {
	switch op {
	case ast.Plus, ast.Minus:
		return 1, 2
	case ast.Mul, ast.Div:
		return 3, 4
	case ast.Exp:
		return 6, 5
	default:
		panic(fmt.Sprintf("parser: no binding power for operator %s", op))
	}
}
