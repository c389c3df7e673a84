package dimension

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
)

// MaxDenominator bounds the denominators RatioFromFloat searches.
const MaxDenominator = 12

// Ratio is an exact rational number kept in lowest terms with a positive
// denominator. The zero value is 0, and two Ratios are equal iff == holds.
type Ratio struct {
	num int64
	// dm is the denominator minus one so the zero value is 0/1.
	dm int64
}

// ExponentOverflowError reports an exponent that does not fit in a Ratio.
type ExponentOverflowError struct {
	Value string
}

func (e *ExponentOverflowError) Error() string {
	return fmt.Sprintf("exponent %s is out of range", e.Value)
}

func NewRatio(num, den int64) Ratio {
	if den == 0 {
		panic("dimension: zero denominator")
	}

	r, err := fromRat(big.NewRat(num, den))
	if err != nil {
		panic(fmt.Sprintf("dimension: %v", err))
	}

	return r
}

func Int(n int64) Ratio {
	return NewRatio(n, 1)
}

// fromRat converts a normalized big.Rat. math.MinInt64 is rejected so that
// Neg and Abs never overflow.
func fromRat(q *big.Rat) (Ratio, error) {
	num, den := q.Num(), q.Denom()
	if !num.IsInt64() || !den.IsInt64() || num.Int64() == math.MinInt64 {
		return Ratio{}, &ExponentOverflowError{Value: q.RatString()}
	}

	return Ratio{num: num.Int64(), dm: den.Int64() - 1}, nil
}

func (r Ratio) rat() *big.Rat {
	return big.NewRat(r.num, r.Den())
}

// RatioFromFloat finds the exact ratio equal to f with a denominator no
// larger than MaxDenominator.
func RatioFromFloat(f float64) (Ratio, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt32 {
		return Ratio{}, false
	}

	for den := int64(1); den <= MaxDenominator; den++ {
		scaled := f * float64(den)
		rounded := math.Round(scaled)
		if math.Abs(scaled-rounded) < 1e-9 {
			return NewRatio(int64(rounded), den), true
		}
	}

	return Ratio{}, false
}

func (r Ratio) Num() int64 {
	return r.num
}

func (r Ratio) Den() int64 {
	return r.dm + 1
}

func (r Ratio) Add(o Ratio) (Ratio, error) {
	return fromRat(new(big.Rat).Add(r.rat(), o.rat()))
}

func (r Ratio) Sub(o Ratio) (Ratio, error) {
	return r.Add(o.Neg())
}

func (r Ratio) Mul(o Ratio) (Ratio, error) {
	return fromRat(new(big.Rat).Mul(r.rat(), o.rat()))
}

func (r Ratio) Neg() Ratio {
	return Ratio{num: -r.num, dm: r.dm}
}

func (r Ratio) Abs() Ratio {
	if r.num < 0 {
		return r.Neg()
	}

	return r
}

func (r Ratio) Sign() int {
	switch {
	case r.num < 0:
		return -1
	case r.num > 0:
		return 1
	default:
		return 0
	}
}

func (r Ratio) IsZero() bool {
	return r.num == 0
}

func (r Ratio) IsOne() bool {
	return r.num == 1 && r.Den() == 1
}

func (r Ratio) IsInt() bool {
	return r.Den() == 1
}

func (r Ratio) Float64() float64 {
	return float64(r.num) / float64(r.Den())
}

func (r Ratio) String() string {
	if r.IsInt() {
		return strconv.FormatInt(r.num, 10)
	}

	return fmt.Sprintf("%d/%d", r.num, r.Den())
}
