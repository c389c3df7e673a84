package value

import (
	"math"
	"strconv"

	"github.com/rhino1998/dimcalc/pkg/dimension"
	"github.com/rhino1998/dimcalc/pkg/units"
)

// Val is a magnitude paired with a unit. A nil Unit is the dimensionless
// unit.
type Val struct {
	Num  float64
	Unit units.Unit
}

func Scalar(num float64) Val {
	return Val{Num: num, Unit: units.Dimensionless()}
}

func New(num float64, unit units.Unit) Val {
	if unit == nil {
		unit = units.Dimensionless()
	}

	return Val{Num: num, Unit: unit}
}

func (v Val) unit() units.Unit {
	if v.Unit == nil {
		return units.Dimensionless()
	}

	return v.Unit
}

func (v Val) IsDimensionless() bool {
	return v.unit().IsDimensionless()
}

func (v Val) Equal(o Val) bool {
	return v.Num == o.Num && units.Equal(v.unit(), o.unit())
}

func (v Val) String() string {
	num := strconv.FormatFloat(v.Num, 'g', -1, 64)
	if v.IsDimensionless() {
		return num
	}

	return num + " " + v.unit().String()
}

func (v Val) Plus(o Val) (Val, error) {
	if !units.Equal(v.unit(), o.unit()) {
		return Val{}, &IncompatibleUnitsError{Op: "+", Left: v.unit(), Right: o.unit()}
	}

	return Val{Num: v.Num + o.Num, Unit: v.unit()}, nil
}

func (v Val) Minus(o Val) (Val, error) {
	if !units.Equal(v.unit(), o.unit()) {
		return Val{}, &IncompatibleUnitsError{Op: "-", Left: v.unit(), Right: o.unit()}
	}

	return Val{Num: v.Num - o.Num, Unit: v.unit()}, nil
}

func (v Val) Mul(o Val) (Val, error) {
	u, err := units.Compose(v.unit(), o.unit(), units.Mul)
	if err != nil {
		return Val{}, err
	}

	return Val{Num: v.Num * o.Num, Unit: u}, nil
}

func (v Val) Div(o Val) (Val, error) {
	u, err := units.Compose(v.unit(), o.unit(), units.Div)
	if err != nil {
		return Val{}, err
	}

	return Val{Num: v.Num / o.Num, Unit: u}, nil
}

// Exp raises v to a dimensionless power. When v carries a unit the power
// must be an exact small ratio so the unit's exponents stay exact.
func (v Val) Exp(o Val) (Val, error) {
	if !o.IsDimensionless() {
		return Val{}, &DimensionedExponentError{Exponent: o}
	}

	num := math.Pow(v.Num, o.Num)
	if v.IsDimensionless() {
		return Val{Num: num, Unit: v.unit()}, nil
	}

	k, ok := dimension.RatioFromFloat(o.Num)
	if !ok {
		return Val{}, &InexactExponentError{Exponent: o.Num}
	}

	u, err := units.ScaleExponent(v.unit(), k)
	if err != nil {
		return Val{}, err
	}

	return Val{Num: num, Unit: u}, nil
}

// AddUnit attaches u to a unit-free value.
func (v Val) AddUnit(u units.Unit) (Val, error) {
	return v.AddMultiUnit(0, u)
}

// AddMultiUnit attaches u to a unit-free value after scaling it by
// 10^power.
func (v Val) AddMultiUnit(power int, u units.Unit) (Val, error) {
	if !v.IsDimensionless() {
		return Val{}, &DoubleUnitAnnotationError{Value: v, Unit: u}
	}

	num := v.Num
	switch {
	case power > 0:
		num *= math.Pow10(power)
	case power < 0:
		num /= math.Pow10(-power)
	}

	return New(num, u), nil
}
