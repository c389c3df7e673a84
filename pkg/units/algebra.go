package units

import (
	"fmt"

	"github.com/rhino1998/dimcalc/pkg/dimension"
)

type Op int

const (
	Mul Op = iota
	Div
)

func (o Op) String() string {
	switch o {
	case Mul:
		return "*"
	case Div:
		return "/"
	default:
		return "<unknown>"
	}
}

type MixedUnitsError struct {
	Left  Unit
	Op    Op
	Right Unit
}

func (e *MixedUnitsError) Error() string {
	return fmt.Sprintf("cannot combine base unit and custom unit: %s %s %s", e.Left, e.Op, e.Right)
}

// Compose multiplies or divides two units. Exponents are combined exactly.
// A custom unit only combines with custom units or the dimensionless unit.
func Compose(a, b Unit, op Op) (Unit, error) {
	if op != Mul && op != Div {
		panic(fmt.Sprintf("units: invalid operator %d", op))
	}

	switch a := a.(type) {
	case Base:
		switch b := b.(type) {
		case Base:
			var dims dimension.Vector
			var err error
			if op == Div {
				dims, err = a.Dims.Sub(b.Dims)
			} else {
				dims, err = a.Dims.Add(b.Dims)
			}
			if err != nil {
				return nil, err
			}

			return Base{Dims: dims}, nil
		case Custom:
			if !a.IsDimensionless() {
				return nil, &MixedUnitsError{Left: a, Op: op, Right: b}
			}

			if op == Div {
				return ScaleExponent(b, dimension.Int(-1))
			}

			return b, nil
		}
	case Custom:
		switch b := b.(type) {
		case Base:
			if !b.IsDimensionless() {
				return nil, &MixedUnitsError{Left: a, Op: op, Right: b}
			}

			return a, nil
		case Custom:
			exps := a.Exponents()
			for _, t := range b.terms {
				var exp dimension.Ratio
				var err error
				if op == Div {
					exp, err = exps[t.Symbol].Sub(t.Exp)
				} else {
					exp, err = exps[t.Symbol].Add(t.Exp)
				}
				if err != nil {
					return nil, err
				}
				exps[t.Symbol] = exp
			}

			return NewCustom(exps), nil
		}
	}

	panic(fmt.Sprintf("units: unhandled unit types %T and %T", a, b))
}

// ScaleExponent raises u to the power k.
func ScaleExponent(u Unit, k dimension.Ratio) (Unit, error) {
	switch u := u.(type) {
	case Base:
		dims, err := u.Dims.Scale(k)
		if err != nil {
			return nil, err
		}

		return Base{Dims: dims}, nil
	case Custom:
		exps := make(map[string]dimension.Ratio, len(u.terms))
		for _, t := range u.terms {
			exp, err := t.Exp.Mul(k)
			if err != nil {
				return nil, err
			}
			exps[t.Symbol] = exp
		}

		return NewCustom(exps), nil
	default:
		panic(fmt.Sprintf("units: unhandled unit type %T", u))
	}
}
