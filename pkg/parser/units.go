package parser

import (
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/rhino1998/dimcalc/pkg/grammar"
	"github.com/rhino1998/dimcalc/pkg/topological"
	"github.com/rhino1998/dimcalc/pkg/units"
)

// DerivedUnits are the named SI derived units, defined in terms of each
// other and the base units.
var DerivedUnits = map[string]string{
	"N":   "kg*m/s^2",
	"J":   "N*m",
	"W":   "J/s",
	"Pa":  "N/m^2",
	"Hz":  "s^-1",
	"C":   "s*A",
	"V":   "W/A",
	"Ohm": "V/A",
	"F":   "C/V",
	"S":   "A/V",
	"Wb":  "V*s",
	"T":   "Wb/m^2",
	"H":   "Wb/A",
	"L":   "dm^3",
}

var defaultUnits = sync.OnceValues(func() (*units.Table, error) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewUnitTable(logger, units.NewTable(), DerivedUnits)
})

// DefaultUnits returns the shared table of base and derived units.
func DefaultUnits() (*units.Table, error) {
	return defaultUnits()
}

type unitDef struct {
	symbol string
	node   *grammar.Node
}

// NewUnitTable returns a copy of base extended with defs, which map
// symbols to unit-expression text. Definitions may refer to one another in
// any order but not cyclically.
func NewUnitTable(logger *slog.Logger, base *units.Table, defs map[string]string) (*units.Table, error) {
	table := base.Clone()

	var pending []unitDef
	for _, symbol := range slices.Sorted(maps.Keys(defs)) {
		n, err := grammar.ParseUnitExpression(defs[symbol])
		if err != nil {
			return nil, fmt.Errorf("failed to parse definition of unit %q: %w", symbol, err)
		}

		pending = append(pending, unitDef{symbol: symbol, node: n})
	}

	ordered, err := topological.SortFunc(
		pending,
		func(d unitDef) string { return d.symbol },
		func(d unitDef) []string { return dependencies(d.node, defs) },
	)
	if err != nil {
		return nil, fmt.Errorf("failed to order unit definitions: %w", err)
	}

	for _, def := range ordered {
		up, err := evalUnitExpr(table, def.node)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve unit %q: %w", def.symbol, err)
		}

		err = table.Define(def.symbol, up)
		if err != nil {
			return nil, err
		}

		logger.Debug("unit defined",
			slog.String("symbol", def.symbol),
			slog.String("definition", defs[def.symbol]),
			slog.String("unit", up.String()),
		)
	}

	return table, nil
}

// dependencies lists the defined symbols a definition refers to, with or
// without a metric prefix.
func dependencies(n *grammar.Node, defs map[string]string) []string {
	var deps []string
	var walk func(*grammar.Node)
	walk = func(n *grammar.Node) {
		if n.Kind == grammar.KindUnit && len(n.Children) > 0 {
			if dep, ok := definedSymbol(n.Children[0].Text, defs); ok {
				deps = append(deps, dep)
			}
			return
		}

		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(n)

	return deps
}

func definedSymbol(symbol string, defs map[string]string) (string, bool) {
	if _, ok := defs[symbol]; ok {
		return symbol, true
	}

	for _, prefix := range units.Prefixes() {
		rest, ok := strings.CutPrefix(symbol, prefix)
		if !ok || rest == "" {
			continue
		}

		if _, ok := defs[rest]; ok {
			return rest, true
		}
	}

	return "", false
}
