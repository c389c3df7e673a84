package units

import (
	"fmt"
	"math"
	"strconv"

	"github.com/rhino1998/dimcalc/pkg/dimension"
)

// Expr is a parsed unit expression such as "kg*m/s^2".
type Expr interface {
	unitExpr()
	String() string
}

// Atom is a single resolved symbol. Power is the symbol's power of ten per
// unit of exponent, so "km^2" has Power 3 and Exponent 2.
type Atom struct {
	Unit     Unit
	Exponent int
	Power    int
	Symbol   string
}

func (Atom) unitExpr() {}

func (a Atom) String() string {
	if a.Exponent == 1 {
		return a.Symbol
	}

	return a.Symbol + "^" + strconv.Itoa(a.Exponent)
}

type Cons struct {
	Op    Op
	Left  Expr
	Right Expr
}

func (Cons) unitExpr() {}

func (c Cons) String() string {
	return fmt.Sprintf("(%s %s %s)", c.Op, c.Left, c.Right)
}

// UnitPow is a unit with a power-of-ten magnitude.
type UnitPow struct {
	Unit Unit
	Pow  int
}

func (u UnitPow) String() string {
	if u.Pow == 0 {
		return u.Unit.String()
	}

	return fmt.Sprintf("1e%d %s", u.Pow, u.Unit)
}

// PowerOverflowError reports a power of ten that does not fit in an int.
type PowerOverflowError struct {
	Atom Atom
}

func (e *PowerOverflowError) Error() string {
	return fmt.Sprintf("power of ten of unit %s is out of range", e.Atom)
}

type step struct {
	op   Op
	atom Atom
}

// Evaluate reduces e to a single unit and power of ten. The atoms of e are
// combined strictly left to right in source order regardless of how the
// tree is nested, so "a/b/c" is a/(b*c) and "a/b*c" is (a/b)*c.
func Evaluate(e Expr) (UnitPow, error) {
	steps := flatten(e, Mul, nil)

	acc := UnitPow{Unit: Dimensionless()}
	for _, s := range steps {
		if s.atom.Exponent == math.MinInt {
			return UnitPow{}, &dimension.ExponentOverflowError{Value: strconv.Itoa(s.atom.Exponent)}
		}

		term, err := ScaleExponent(s.atom.Unit, dimension.Int(int64(s.atom.Exponent)))
		if err != nil {
			return UnitPow{}, err
		}

		u, err := Compose(acc.Unit, term, s.op)
		if err != nil {
			return UnitPow{}, err
		}

		pow, ok := mulInt(s.atom.Power, s.atom.Exponent)
		if ok && s.op == Div {
			pow, ok = mulInt(pow, -1)
		}
		if ok {
			pow, ok = addInt(acc.Pow, pow)
		}
		if !ok {
			return UnitPow{}, &PowerOverflowError{Atom: s.atom}
		}

		acc = UnitPow{Unit: u, Pow: pow}
	}

	return acc, nil
}

func flatten(e Expr, op Op, out []step) []step {
	switch e := e.(type) {
	case Atom:
		if e.Unit == nil {
			panic("units: atom without unit")
		}
		return append(out, step{op: op, atom: e})
	case Cons:
		out = flatten(e.Left, op, out)
		return flatten(e.Right, e.Op, out)
	case nil:
		panic("units: nil unit expression")
	default:
		panic(fmt.Sprintf("units: unhandled expression type %T", e))
	}
}

func mulInt(a, b int) (int, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}

	if (a == -1 && b == math.MinInt) || (b == -1 && a == math.MinInt) {
		return 0, false
	}

	c := a * b
	return c, c/b == a
}

func addInt(a, b int) (int, bool) {
	c := a + b
	return c, (c > a) == (b > 0)
}
