package parser

import (
	"strconv"

	"github.com/rhino1998/dimcalc/pkg/grammar"
	"github.com/rhino1998/dimcalc/pkg/units"
)

// ParseUnitExpr builds a unit expression from a unit_expr node. The
// operator chain is right-recursive; units.Evaluate folds it left to right.
func (p *Parser) ParseUnitExpr(n *grammar.Node) (units.Expr, error) {
	return parseUnitExpr(p.table, n)
}

func (p *Parser) evalUnitExpr(n *grammar.Node) (units.UnitPow, error) {
	return evalUnitExpr(p.table, n)
}

// ParseUnit parses and evaluates unit-expression text such as "kg*m/s^2".
func (p *Parser) ParseUnit(src string) (units.UnitPow, error) {
	n, err := grammar.ParseUnitExpression(src)
	if err != nil {
		return units.UnitPow{}, err
	}

	return p.evalUnitExpr(n)
}

func evalUnitExpr(table *units.Table, n *grammar.Node) (units.UnitPow, error) {
	expr, err := parseUnitExpr(table, n)
	if err != nil {
		return units.UnitPow{}, err
	}

	up, err := units.Evaluate(expr)
	if err != nil {
		return units.UnitPow{}, n.Pos.WrapError(err)
	}

	return up, nil
}

func parseUnitExpr(table *units.Table, n *grammar.Node) (units.Expr, error) {
	if n.Kind != grammar.KindUnitExpr {
		return nil, parseErrorf(n, "expected unit expression")
	}

	if len(n.Children) == 0 {
		return nil, parseErrorf(n, "empty unit expression")
	}

	return unitRecurse(table, n, n.Children)
}

func unitRecurse(table *units.Table, parent *grammar.Node, nodes []*grammar.Node) (units.Expr, error) {
	lhs, err := unitAtom(table, nodes[0])
	if err != nil {
		return nil, err
	}

	if len(nodes) == 1 {
		return lhs, nil
	}

	opNode := nodes[1]
	if opNode.Kind != grammar.KindOperation {
		return nil, parseErrorf(opNode, "expected '*' or '/'")
	}

	var op units.Op
	switch opNode.Text {
	case "*":
		op = units.Mul
	case "/":
		op = units.Div
	default:
		return nil, parseErrorf(opNode, "unknown unit operator")
	}

	if len(nodes) == 2 {
		return nil, parseErrorf(parent, "missing unit after %q", opNode.Text)
	}

	rhs, err := unitRecurse(table, parent, nodes[2:])
	if err != nil {
		return nil, err
	}

	return units.Cons{Op: op, Left: lhs, Right: rhs}, nil
}

func unitAtom(table *units.Table, n *grammar.Node) (units.Atom, error) {
	switch n.Kind {
	case grammar.KindUnit:
		if len(n.Children) == 0 {
			return units.Atom{}, parseErrorf(n, "missing unit symbol")
		}

		symbol := n.Children[0].Text

		exponent := 1
		if len(n.Children) > 1 {
			var err error
			exponent, err = strconv.Atoi(n.Children[1].Text)
			if err != nil {
				return units.Atom{}, parseErrorf(n.Children[1], "invalid unit exponent")
			}
		}

		up, err := table.Lookup(symbol)
		if err != nil {
			return units.Atom{}, n.Pos.WrapError(err)
		}

		return units.Atom{Unit: up.Unit, Exponent: exponent, Power: up.Pow, Symbol: symbol}, nil
	case grammar.KindUnitExpr:
		up, err := evalUnitExpr(table, n)
		if err != nil {
			return units.Atom{}, err
		}

		return units.Atom{Unit: up.Unit, Exponent: 1, Power: up.Pow, Symbol: "(" + n.Text + ")"}, nil
	default:
		return units.Atom{}, parseErrorf(n, "expected unit")
	}
}

// splitUnits breaks each unit_expr in nodes before the first symbol past
// the leading one that names no unit. The operator there becomes an
// ordinary operation and the rest of the chain becomes operands, so in
// "2 m * x" the x is a variable.
func (p *Parser) splitUnits(nodes []*grammar.Node) []*grammar.Node {
	var out []*grammar.Node
	for _, n := range nodes {
		k := p.resolvedPrefix(n)
		if k == 0 {
			out = append(out, n)
			continue
		}

		out = append(out, n.Prefix(k))
		for _, c := range n.Children[k:] {
			out = append(out, asOperands(c)...)
		}
	}

	return out
}

// resolvedPrefix returns the index of the operator before the first
// unresolvable atom of a unit_expr, or 0 if there is none to split at.
func (p *Parser) resolvedPrefix(n *grammar.Node) int {
	if n.Kind != grammar.KindUnitExpr {
		return 0
	}

	for i := 2; i < len(n.Children); i += 2 {
		if !p.resolves(n.Children[i]) {
			return i - 1
		}
	}

	return 0
}

func (p *Parser) resolves(n *grammar.Node) bool {
	switch n.Kind {
	case grammar.KindUnit:
		if len(n.Children) == 0 {
			return false
		}

		_, err := p.table.Lookup(n.Children[0].Text)
		return err == nil
	case grammar.KindUnitExpr:
		for i := 0; i < len(n.Children); i += 2 {
			if !p.resolves(n.Children[i]) {
				return false
			}
		}

		return true
	default:
		return true
	}
}

// asOperands rewrites part of a unit chain as expression nodes.
func asOperands(n *grammar.Node) []*grammar.Node {
	switch n.Kind {
	case grammar.KindUnit:
		out := []*grammar.Node{n.Children[0]}
		if len(n.Children) > 1 {
			exp := n.Children[1]
			out = append(out,
				&grammar.Node{Kind: grammar.KindOperation, Text: "^", Pos: exp.Pos},
				exp,
			)
		}

		return out
	case grammar.KindUnitExpr:
		expr := &grammar.Node{Kind: grammar.KindExpression, Text: "(" + n.Text + ")", Pos: n.Pos}
		for _, c := range n.Children {
			expr.Children = append(expr.Children, asOperands(c)...)
		}

		return []*grammar.Node{expr}
	default:
		return []*grammar.Node{n}
	}
}