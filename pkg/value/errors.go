package value

import (
	"fmt"
	"strconv"

	"github.com/rhino1998/dimcalc/pkg/dimension"
	"github.com/rhino1998/dimcalc/pkg/units"
)

type IncompatibleUnitsError struct {
	Op    string
	Left  units.Unit
	Right units.Unit
}

func (e *IncompatibleUnitsError) Error() string {
	return fmt.Sprintf("incompatible units for %q: %q and %q", e.Op, e.Left, e.Right)
}

type DoubleUnitAnnotationError struct {
	Value Val
	Unit  units.Unit
}

func (e *DoubleUnitAnnotationError) Error() string {
	return fmt.Sprintf("cannot annotate %v with unit %q: value already has a unit", e.Value, e.Unit)
}

type DimensionedExponentError struct {
	Exponent Val
}

func (e *DimensionedExponentError) Error() string {
	return fmt.Sprintf("exponent %v must be dimensionless", e.Exponent)
}

type InexactExponentError struct {
	Exponent float64
}

func (e *InexactExponentError) Error() string {
	return fmt.Sprintf(
		"exponent %s of a value with a unit must be a ratio with denominator at most %d",
		strconv.FormatFloat(e.Exponent, 'g', -1, 64),
		dimension.MaxDenominator,
	)
}
