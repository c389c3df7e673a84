// Package latex renders expressions, values and units as LaTeX math.
package latex

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/rhino1998/dimcalc/pkg/ast"
	"github.com/rhino1998/dimcalc/pkg/dimension"
	"github.com/rhino1998/dimcalc/pkg/grammar"
	"github.com/rhino1998/dimcalc/pkg/units"
	"github.com/rhino1998/dimcalc/pkg/value"
)

type DisplayHintMismatchError struct {
	Hint string
	Unit units.Unit
}

func (e *DisplayHintMismatchError) Error() string {
	return fmt.Sprintf("display unit %q does not match value unit %q", e.Hint, e.Unit)
}

// Scale returns the magnitude of v expressed in the hinted unit.
func Scale(v value.Val, hint *ast.UnitHint) (float64, error) {
	unit := v.Unit
	if unit == nil {
		unit = units.Dimensionless()
	}

	if !units.Equal(unit, hint.Unit) {
		return 0, &DisplayHintMismatchError{Hint: hint.Text, Unit: unit}
	}

	return v.Num / math.Pow10(hint.Pow), nil
}

// Number formats f in its shortest form, writing exponents as a power of
// ten.
func Number(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)

	mantissa, exp, ok := strings.Cut(s, "e")
	if !ok {
		return s
	}

	exp = strings.TrimPrefix(exp, "+")
	if strings.HasPrefix(exp, "-") {
		exp = "-" + strings.TrimLeft(exp[1:], "0")
	} else {
		exp = strings.TrimLeft(exp, "0")
	}

	if mantissa == "1" {
		return fmt.Sprintf("10^{%s}", exp)
	}

	return fmt.Sprintf("%s \\times 10^{%s}", mantissa, exp)
}

// Value renders v, in the hinted unit if hint is not nil.
func Value(v value.Val, hint *ast.UnitHint) (string, error) {
	if hint != nil {
		num, err := Scale(v, hint)
		if err != nil {
			return "", err
		}

		return strings.TrimSpace(Number(num) + " \\ " + UnitText(hint.Text)), nil
	}

	if v.IsDimensionless() {
		return Number(v.Num), nil
	}

	return Number(v.Num) + " \\ " + Unit(v.Unit), nil
}

func Unit(u units.Unit) string {
	var num, den []string
	for _, t := range units.Terms(u) {
		switch t.Exp.Sign() {
		case 1:
			num = append(num, term(t.Symbol, t.Exp))
		case -1:
			den = append(den, term(t.Symbol, t.Exp.Neg()))
		}
	}

	return frac(num, den)
}

// UnitText renders unit-expression source such as "km/h" keeping the
// symbols as written. Atoms after '/' go in the denominator, matching the
// left-to-right reading of unit chains.
func UnitText(text string) string {
	if text == "" {
		return ""
	}

	n, err := grammar.ParseUnitExpression(text)
	if err != nil {
		return "\\mathrm{" + text + "}"
	}

	return unitExpr(n)
}

func unitExpr(n *grammar.Node) string {
	var num, den []string
	op := "*"
	for i, c := range n.Children {
		if i%2 == 1 {
			op = c.Text
			continue
		}

		s := unitAtom(c)
		if op == "/" {
			den = append(den, s)
		} else {
			num = append(num, s)
		}
	}

	return frac(num, den)
}

func unitAtom(n *grammar.Node) string {
	if n.Kind != grammar.KindUnit {
		return "\\left(" + unitExpr(n) + "\\right)"
	}

	symbol := n.Children[0].Text
	if len(n.Children) == 1 {
		return "\\mathrm{" + symbol + "}"
	}

	return fmt.Sprintf("\\mathrm{%s}^{%s}", symbol, n.Children[1].Text)
}

func frac(num, den []string) string {
	switch {
	case len(num) == 0 && len(den) == 0:
		return ""
	case len(den) == 0:
		return strings.Join(num, " ")
	case len(num) == 0:
		return fmt.Sprintf("\\frac{1}{%s}", strings.Join(den, " "))
	default:
		return fmt.Sprintf("\\frac{%s}{%s}", strings.Join(num, " "), strings.Join(den, " "))
	}
}

func term(symbol string, exp dimension.Ratio) string {
	if exp.IsOne() {
		return "\\mathrm{" + symbol + "}"
	}

	return fmt.Sprintf("\\mathrm{%s}^{%s}", symbol, exp)
}

func Expr(e ast.Expr) string {
	switch e := e.(type) {
	case ast.Atom:
		s, _ := Value(e.Val, nil)
		return s
	case ast.Ident:
		return e.Name
	case ast.Cons:
		return cons(e)
	default:
		panic(fmt.Sprintf("latex: unhandled expression type %T", e))
	}
}

func cons(c ast.Cons) string {
	switch op := c.Op.(type) {
	case ast.BinaryOp:
		a, b := Expr(c.Args[0]), Expr(c.Args[1])
		switch op {
		case ast.Plus:
			return fmt.Sprintf("(%s + %s)", a, b)
		case ast.Minus:
			return fmt.Sprintf("(%s - %s)", a, b)
		case ast.Mul:
			return fmt.Sprintf("%s \\times %s", a, b)
		case ast.Div:
			return fmt.Sprintf("\\frac{%s}{%s}", a, b)
		case ast.Exp:
			return fmt.Sprintf("%s^{%s}", group(c.Args[0]), b)
		}
	case ast.AddUnit:
		return fmt.Sprintf("%s \\ %s", factor(c.Args[0]), Unit(op.Unit))
	case ast.AddMultiUnit:
		return fmt.Sprintf("%s \\ %s", factor(c.Args[0]), UnitText(op.Text))
	}

	panic(fmt.Sprintf("latex: unhandled operator %s", c.Op))
}

// group renders e as a single token, adding parentheses unless e is a
// name, a plain number or already parenthesized.
func group(e ast.Expr) string {
	s := Expr(e)
	switch e := e.(type) {
	case ast.Ident:
		return s
	case ast.Atom:
		if !strings.ContainsAny(s, " -^") {
			return s
		}
	case ast.Cons:
		if op, ok := e.Op.(ast.BinaryOp); ok && (op == ast.Plus || op == ast.Minus) {
			return s
		}
	}

	return "\\left(" + s + "\\right)"
}

// factor renders the operand of a unit annotation, parenthesizing a
// product so the unit does not read as applying to its last factor.
func factor(e ast.Expr) string {
	if c, ok := e.(ast.Cons); ok {
		if op, ok := c.Op.(ast.BinaryOp); ok && op == ast.Mul {
			return "\\left(" + Expr(e) + "\\right)"
		}
	}

	return Expr(e)
}
