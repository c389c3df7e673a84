package dimension

import "strings"

// Vector holds one exponent per base dimension, indexed by Kind. Vectors
// are values: every operation returns a new Vector.
type Vector [Count]Ratio

// Of builds a vector with integer exponents, e.g. Of(Mass, 1, Time, -2).
func Of(pairs ...any) Vector {
	if len(pairs)%2 != 0 {
		panic("dimension: Of expects kind/exponent pairs")
	}

	var v Vector
	for i := 0; i < len(pairs); i += 2 {
		k := pairs[i].(Kind)
		switch e := pairs[i+1].(type) {
		case int:
			v[k] = Int(int64(e))
		case Ratio:
			v[k] = e
		default:
			panic("dimension: exponent must be int or Ratio")
		}
	}

	return v
}

func (v Vector) Get(k Kind) Ratio {
	return v[k]
}

func (v Vector) With(k Kind, r Ratio) Vector {
	v[k] = r
	return v
}

func (v Vector) Add(o Vector) (Vector, error) {
	var out Vector
	for i := range v {
		r, err := v[i].Add(o[i])
		if err != nil {
			return Vector{}, err
		}
		out[i] = r
	}

	return out, nil
}

func (v Vector) Sub(o Vector) (Vector, error) {
	var out Vector
	for i := range v {
		r, err := v[i].Sub(o[i])
		if err != nil {
			return Vector{}, err
		}
		out[i] = r
	}

	return out, nil
}

func (v Vector) Scale(k Ratio) (Vector, error) {
	var out Vector
	for i := range v {
		r, err := v[i].Mul(k)
		if err != nil {
			return Vector{}, err
		}
		out[i] = r
	}

	return out, nil
}

func (v Vector) IsZero() bool {
	return v == Vector{}
}

// IsInteger reports whether every exponent is a whole number.
func (v Vector) IsInteger() bool {
	for _, r := range v {
		if !r.IsInt() {
			return false
		}
	}

	return true
}

func (v Vector) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, r := range v {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(Kind(i).String())
		b.WriteByte(':')
		b.WriteString(r.String())
	}
	b.WriteByte(']')

	return b.String()
}
