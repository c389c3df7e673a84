package units

import (
	"slices"
	"strings"

	"github.com/rhino1998/dimcalc/pkg/dimension"
)

// Unit is either a Base unit over the fixed base dimensions or a Custom
// composite of named units.
type Unit interface {
	unit()

	IsDimensionless() bool
	String() string
}

type Base struct {
	Dims dimension.Vector
}

func (Base) unit() {}

func (b Base) IsDimensionless() bool {
	return b.Dims.IsZero()
}

func (b Base) String() string {
	return FormatTerms(Terms(b))
}

func Dimensionless() Base {
	return Base{}
}

func Of(pairs ...any) Base {
	return Base{Dims: dimension.Of(pairs...)}
}

// Custom is a composite of user-declared units that are not resolved to
// base dimensions. A Custom never has zero terms; an empty composite is
// the dimensionless Base.
type Custom struct {
	terms []Term
}

func (Custom) unit() {}

func (c Custom) IsDimensionless() bool {
	return len(c.terms) == 0
}

func (c Custom) String() string {
	return FormatTerms(c.terms)
}

func (c Custom) Exponents() map[string]dimension.Ratio {
	m := make(map[string]dimension.Ratio, len(c.terms))
	for _, t := range c.terms {
		m[t.Symbol] = t.Exp
	}

	return m
}

// NewCustom builds a Custom unit from exponents by name. Zero exponents are
// dropped; if nothing remains the result is the dimensionless Base.
func NewCustom(exps map[string]dimension.Ratio) Unit {
	terms := make([]Term, 0, len(exps))
	for name, exp := range exps {
		if exp.IsZero() {
			continue
		}
		terms = append(terms, Term{Symbol: name, Exp: exp})
	}

	if len(terms) == 0 {
		return Dimensionless()
	}

	slices.SortFunc(terms, func(a, b Term) int {
		return strings.Compare(a.Symbol, b.Symbol)
	})

	return Custom{terms: terms}
}

func Equal(a, b Unit) bool {
	switch a := a.(type) {
	case Base:
		b, ok := b.(Base)
		return ok && a.Dims == b.Dims
	case Custom:
		b, ok := b.(Custom)
		return ok && slices.Equal(a.terms, b.terms)
	default:
		return false
	}
}

// Term is one symbol raised to a non-zero exponent.
type Term struct {
	Symbol string
	Exp    dimension.Ratio
}

// Terms lists the non-zero factors of u in display order: base dimensions
// in their fixed order, custom names sorted.
func Terms(u Unit) []Term {
	switch u := u.(type) {
	case Base:
		var terms []Term
		for _, k := range dimension.Kinds() {
			exp := u.Dims.Get(k)
			if exp.IsZero() {
				continue
			}
			terms = append(terms, Term{Symbol: k.Symbol(), Exp: exp})
		}
		return terms
	case Custom:
		return slices.Clone(u.terms)
	default:
		return nil
	}
}

// FormatTerms renders terms as plain text, e.g. "kg*m/s^2" or "1/s".
func FormatTerms(terms []Term) string {
	var num, den []string
	for _, t := range terms {
		switch t.Exp.Sign() {
		case 1:
			num = append(num, formatTerm(t.Symbol, t.Exp))
		case -1:
			den = append(den, formatTerm(t.Symbol, t.Exp.Neg()))
		}
	}

	switch {
	case len(num) == 0 && len(den) == 0:
		return ""
	case len(den) == 0:
		return strings.Join(num, "*")
	case len(num) == 0:
		return "1/" + strings.Join(den, "*")
	default:
		return strings.Join(num, "*") + "/" + strings.Join(den, "*")
	}
}

func formatTerm(symbol string, exp dimension.Ratio) string {
	switch {
	case exp.IsOne():
		return symbol
	case exp.IsInt():
		return symbol + "^" + exp.String()
	default:
		return symbol + "^(" + exp.String() + ")"
	}
}
