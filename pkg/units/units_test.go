package units_test

import (
	"math"
	"testing"

	"github.com/rhino1998/dimcalc/pkg/dimension"
	"github.com/rhino1998/dimcalc/pkg/units"
	"github.com/stretchr/testify/require"
	gounit "gonum.org/v1/gonum/unit"
)

func custom(pairs ...any) units.Unit {
	exps := make(map[string]dimension.Ratio)
	for i := 0; i < len(pairs); i += 2 {
		exps[pairs[i].(string)] = dimension.Int(int64(pairs[i+1].(int)))
	}

	return units.NewCustom(exps)
}

func TestCompose_Base(t *testing.T) {
	r := require.New(t)

	kg := units.Of(dimension.Mass, 1)
	m := units.Of(dimension.Length, 1)
	s := units.Of(dimension.Time, 1)

	u, err := units.Compose(kg, m, units.Mul)
	r.NoError(err)
	s2, err := units.ScaleExponent(s, dimension.Int(2))
	r.NoError(err)
	u, err = units.Compose(u, s2, units.Div)
	r.NoError(err)

	r.True(units.Equal(units.Of(dimension.Mass, 1, dimension.Length, 1, dimension.Time, -2), u))
	r.Equal("kg*m/s^2", u.String())
}

func TestCompose_Custom(t *testing.T) {
	r := require.New(t)

	apple := custom("apple", 1)
	box := custom("box", 1)

	u, err := units.Compose(apple, box, units.Div)
	r.NoError(err)
	r.Equal("apple/box", u.String())

	u, err = units.Compose(u, box, units.Mul)
	r.NoError(err)
	r.True(units.Equal(apple, u))

	u, err = units.Compose(apple, apple, units.Div)
	r.NoError(err)
	r.True(u.IsDimensionless())
	r.IsType(units.Base{}, u)

	u, err = units.Compose(units.Dimensionless(), apple, units.Div)
	r.NoError(err)
	r.Equal("1/apple", u.String())

	u, err = units.Compose(apple, units.Dimensionless(), units.Mul)
	r.NoError(err)
	r.True(units.Equal(apple, u))
}

func TestCompose_Mixed(t *testing.T) {
	r := require.New(t)

	_, err := units.Compose(units.Of(dimension.Length, 1), custom("apple", 1), units.Mul)
	var mixed *units.MixedUnitsError
	r.ErrorAs(err, &mixed)

	_, err = units.Compose(custom("apple", 1), units.Of(dimension.Time, 1), units.Div)
	r.ErrorAs(err, &mixed)
}

func TestUnit_String(t *testing.T) {
	tests := []struct {
		unit units.Unit
		want string
	}{
		{units.Dimensionless(), ""},
		{units.Of(dimension.Time, -1), "1/s"},
		{units.Of(dimension.Length, dimension.NewRatio(1, 2)), "m^(1/2)"},
		{units.Of(dimension.Length, dimension.NewRatio(-3, 2)), "1/m^(3/2)"},
		{units.Of(dimension.Current, 1, dimension.Time, 1), "s*A"},
		{custom("apple", 2, "box", -1), "apple^2/box"},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, tt.unit.String())
	}
}

func TestEvaluate_LeftToRight(t *testing.T) {
	r := require.New(t)

	atom := func(k dimension.Kind, sym string) units.Atom {
		return units.Atom{Unit: units.Of(k, 1), Exponent: 1, Symbol: sym}
	}
	m := atom(dimension.Length, "m")
	s := atom(dimension.Time, "s")
	kg := atom(dimension.Mass, "kg")

	// m/s/kg
	up, err := units.Evaluate(units.Cons{Op: units.Div, Left: m, Right: units.Cons{Op: units.Div, Left: s, Right: kg}})
	r.NoError(err)
	r.True(units.Equal(units.Of(dimension.Length, 1, dimension.Time, -1, dimension.Mass, -1), up.Unit))

	// m/s*kg
	up, err = units.Evaluate(units.Cons{Op: units.Div, Left: m, Right: units.Cons{Op: units.Mul, Left: s, Right: kg}})
	r.NoError(err)
	r.True(units.Equal(units.Of(dimension.Length, 1, dimension.Time, -1, dimension.Mass, 1), up.Unit))
}

func TestEvaluate_Power(t *testing.T) {
	r := require.New(t)

	km2 := units.Atom{Unit: units.Of(dimension.Length, 1), Exponent: 2, Power: 3, Symbol: "km"}
	ms := units.Atom{Unit: units.Of(dimension.Time, 1), Exponent: 1, Power: -3, Symbol: "ms"}

	up, err := units.Evaluate(km2)
	r.NoError(err)
	r.Equal(6, up.Pow)

	up, err = units.Evaluate(units.Cons{Op: units.Div, Left: km2, Right: ms})
	r.NoError(err)
	r.Equal(9, up.Pow)
	r.Equal("m^2/s", up.Unit.String())
}

func TestEvaluate_Overflow(t *testing.T) {
	r := require.New(t)

	huge := units.Atom{Unit: units.Of(dimension.Length, 1), Exponent: 4000000000000000000, Power: 3, Symbol: "km"}
	_, err := units.Evaluate(huge)
	var power *units.PowerOverflowError
	r.ErrorAs(err, &power)
	r.Equal("km", power.Atom.Symbol)

	wide := units.Atom{Unit: units.Of(dimension.Length, dimension.Int(4000000000000000000)), Exponent: 3, Symbol: "x"}
	_, err = units.Evaluate(wide)
	var exp *dimension.ExponentOverflowError
	r.ErrorAs(err, &exp)
}

func TestCompose_Overflow(t *testing.T) {
	r := require.New(t)

	a := units.Of(dimension.Length, dimension.Int(math.MaxInt64))
	_, err := units.Compose(a, units.Of(dimension.Length, 1), units.Mul)
	var exp *dimension.ExponentOverflowError
	r.ErrorAs(err, &exp)

	_, err = units.Compose(custom("apple", 1), units.NewCustom(map[string]dimension.Ratio{"apple": dimension.Int(math.MaxInt64)}), units.Mul)
	r.ErrorAs(err, &exp)

	_, err = units.ScaleExponent(a, dimension.Int(2))
	r.ErrorAs(err, &exp)
}

func TestEvaluate_NilPanics(t *testing.T) {
	require.Panics(t, func() {
		_, _ = units.Evaluate(nil)
	})
	require.Panics(t, func() {
		_, _ = units.Evaluate(units.Cons{Op: units.Mul, Left: units.Atom{Unit: units.Dimensionless(), Exponent: 1}})
	})
}

func TestTable_Lookup(t *testing.T) {
	table := units.NewTable()

	tests := []struct {
		symbol string
		unit   units.Unit
		pow    int
	}{
		{"m", units.Of(dimension.Length, 1), 0},
		{"km", units.Of(dimension.Length, 1), 3},
		{"dam", units.Of(dimension.Length, 1), 1},
		{"mm", units.Of(dimension.Length, 1), -3},
		{"µs", units.Of(dimension.Time, 1), -6},
		{"us", units.Of(dimension.Time, 1), -6},
		{"kg", units.Of(dimension.Mass, 1), 0},
		{"g", units.Of(dimension.Mass, 1), -3},
		{"mg", units.Of(dimension.Mass, 1), -6},
		{"mol", units.Of(dimension.Amount, 1), 0},
		{"cd", units.Of(dimension.Luminosity, 1), 0},
		{"kK", units.Of(dimension.Temperature, 1), 3},
	}

	for _, tt := range tests {
		up, err := table.Lookup(tt.symbol)
		require.NoError(t, err, tt.symbol)
		require.True(t, units.Equal(tt.unit, up.Unit), tt.symbol)
		require.Equal(t, tt.pow, up.Pow, tt.symbol)
	}

	for _, bad := range []string{"mkg", "x", "k", "hs2"} {
		_, err := table.Lookup(bad)
		var unresolved *units.UnresolvedUnitSymbolError
		require.ErrorAs(t, err, &unresolved, bad)
		require.Equal(t, bad, unresolved.Symbol)
	}
}

func TestTable_Custom(t *testing.T) {
	r := require.New(t)

	table := units.NewTable()
	r.NoError(table.DefineCustom("apple"))

	up, err := table.Lookup("apple")
	r.NoError(err)
	r.True(units.Equal(custom("apple", 1), up.Unit))

	_, err = table.Lookup("kapple")
	r.Error(err)

	var dup *units.DuplicateSymbolError
	r.ErrorAs(table.DefineCustom("m"), &dup)

	clone := table.Clone()
	r.NoError(clone.DefineCustom("pear"))
	r.False(table.Has("pear"))
}

func TestPrefix(t *testing.T) {
	r := require.New(t)

	p, ok := units.Prefix(-6)
	r.True(ok)
	r.Equal("µ", p)

	p, ok = units.Prefix(1)
	r.True(ok)
	r.Equal("da", p)

	_, ok = units.Prefix(4)
	r.False(ok)
}

var gonumDims = map[dimension.Kind]gounit.Dimension{
	dimension.Mass:        gounit.MassDim,
	dimension.Length:      gounit.LengthDim,
	dimension.Time:        gounit.TimeDim,
	dimension.Current:     gounit.CurrentDim,
	dimension.Temperature: gounit.TemperatureDim,
	dimension.Amount:      gounit.MoleDim,
	dimension.Luminosity:  gounit.LuminousIntensityDim,
}

func toGonum(v dimension.Vector) *gounit.Unit {
	dims := gounit.Dimensions{}
	for _, k := range dimension.Kinds() {
		if e := v.Get(k); !e.IsZero() {
			dims[gonumDims[k]] = int(e.Num())
		}
	}

	return gounit.New(1, dims)
}

func fromGonum(u *gounit.Unit) dimension.Vector {
	var v dimension.Vector
	for k, gd := range gonumDims {
		if e := u.Dimensions()[gd]; e != 0 {
			v = v.With(k, dimension.Int(int64(e)))
		}
	}

	return v
}

// Integer-exponent composition must agree with gonum/unit.
func TestCompose_AgreesWithGonum(t *testing.T) {
	vectors := []dimension.Vector{
		{},
		dimension.Of(dimension.Mass, 1, dimension.Length, 1, dimension.Time, -2),
		dimension.Of(dimension.Length, 2),
		dimension.Of(dimension.Current, 1, dimension.Time, 1),
		dimension.Of(dimension.Temperature, -1, dimension.Amount, 1, dimension.Luminosity, 3),
	}

	for _, a := range vectors {
		for _, b := range vectors {
			for _, op := range []units.Op{units.Mul, units.Div} {
				got, err := units.Compose(units.Base{Dims: a}, units.Base{Dims: b}, op)
				require.NoError(t, err)

				var want *gounit.Unit
				if op == units.Mul {
					want = toGonum(a).Mul(toGonum(b))
				} else {
					want = toGonum(a).Div(toGonum(b))
				}

				require.Equal(t, fromGonum(want), got.(units.Base).Dims, "%s %s %s", a, op, b)
			}
		}
	}
}
