package value_test

import (
	"math"
	"testing"

	"github.com/rhino1998/dimcalc/pkg/dimension"
	"github.com/rhino1998/dimcalc/pkg/units"
	"github.com/rhino1998/dimcalc/pkg/value"
	"github.com/stretchr/testify/require"
)

var (
	kg = units.Of(dimension.Mass, 1)
	m  = units.Of(dimension.Length, 1)
	s  = units.Of(dimension.Time, 1)
)

func TestPlusMinus(t *testing.T) {
	r := require.New(t)

	sum, err := value.New(2, m).Plus(value.New(3, m))
	r.NoError(err)
	r.True(value.New(5, m).Equal(sum))

	diff, err := value.Scalar(10).Minus(value.Scalar(3))
	r.NoError(err)
	r.Equal("7", diff.String())
}

func TestPlus_IncompatibleUnits(t *testing.T) {
	for _, nums := range [][2]float64{{0, 0}, {1, 2}, {-5, 1e9}} {
		_, err := value.New(nums[0], kg).Plus(value.New(nums[1], m))
		var incompatible *value.IncompatibleUnitsError
		require.ErrorAs(t, err, &incompatible)
		require.Equal(t, "+", incompatible.Op)

		_, err = value.New(nums[0], kg).Minus(value.Scalar(nums[1]))
		require.ErrorAs(t, err, &incompatible)
	}
}

func TestMulDiv(t *testing.T) {
	r := require.New(t)

	momentum, err := value.New(2, kg).Mul(value.New(3, m))
	r.NoError(err)
	speed, err := momentum.Div(value.New(4, s))
	r.NoError(err)

	r.Equal(1.5, speed.Num)
	r.Equal("kg*m/s", speed.Unit.String())
	r.Equal("1.5 kg*m/s", speed.String())

	back, err := speed.Mul(value.New(4, s))
	r.NoError(err)
	r.True(momentum.Equal(back))
}

func TestMul_MixedUnits(t *testing.T) {
	apple := units.NewCustom(map[string]dimension.Ratio{"apple": dimension.Int(1)})

	_, err := value.New(1, m).Mul(value.New(2, apple))
	var mixed *units.MixedUnitsError
	require.ErrorAs(t, err, &mixed)

	v, err := value.Scalar(3).Mul(value.New(2, apple))
	require.NoError(t, err)
	require.Equal(t, "6 apple", v.String())
}

func TestExp(t *testing.T) {
	r := require.New(t)

	v, err := value.Scalar(2).Exp(value.Scalar(10))
	r.NoError(err)
	r.Equal(1024.0, v.Num)

	v, err = value.Scalar(2).Exp(value.Scalar(0.123))
	r.NoError(err)
	r.InDelta(math.Pow(2, 0.123), v.Num, 1e-12)

	area, err := value.New(3, m).Exp(value.Scalar(2))
	r.NoError(err)
	r.Equal(9.0, area.Num)
	r.Equal("m^2", area.Unit.String())

	side, err := value.New(4, units.Of(dimension.Length, 2)).Exp(value.Scalar(0.5))
	r.NoError(err)
	r.True(value.New(2, m).Equal(side))

	root, err := value.New(4, m).Exp(value.Scalar(0.5))
	r.NoError(err)
	r.Equal("m^(1/2)", root.Unit.String())
}

func TestExp_Errors(t *testing.T) {
	r := require.New(t)

	_, err := value.Scalar(2).Exp(value.New(1, s))
	var dimensioned *value.DimensionedExponentError
	r.ErrorAs(err, &dimensioned)

	_, err = value.New(2, m).Exp(value.Scalar(0.123))
	var inexact *value.InexactExponentError
	r.ErrorAs(err, &inexact)
	r.Equal(0.123, inexact.Exponent)

	v := value.New(1, m)
	for range 2 {
		var err error
		v, err = v.Exp(value.Scalar(2e9))
		r.NoError(err)
	}
	_, err = v.Exp(value.Scalar(3))
	var overflow *dimension.ExponentOverflowError
	r.ErrorAs(err, &overflow)
	r.Equal("12000000000000000000", overflow.Value)
}

func TestAddUnit(t *testing.T) {
	r := require.New(t)

	v, err := value.Scalar(5).AddUnit(kg)
	r.NoError(err)
	r.True(value.New(5, kg).Equal(v))

	_, err = v.AddUnit(kg)
	var double *value.DoubleUnitAnnotationError
	r.ErrorAs(err, &double)

	_, err = v.AddMultiUnit(3, m)
	r.ErrorAs(err, &double)
}

func TestAddMultiUnit(t *testing.T) {
	r := require.New(t)

	v, err := value.Scalar(5).AddMultiUnit(3, m)
	r.NoError(err)
	r.True(value.New(5000, m).Equal(v))

	v, err = value.Scalar(250).AddMultiUnit(-3, s)
	r.NoError(err)
	r.InDelta(0.25, v.Num, 1e-15)
	r.True(units.Equal(s, v.Unit))
}

func TestZeroValueIsDimensionless(t *testing.T) {
	r := require.New(t)

	var v value.Val
	r.True(v.IsDimensionless())
	r.Equal("0", v.String())

	sum, err := v.Plus(value.Scalar(1))
	r.NoError(err)
	r.True(value.Scalar(1).Equal(sum))
}
