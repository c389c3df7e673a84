package units

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/rhino1998/dimcalc/pkg/dimension"
)

type UnresolvedUnitSymbolError struct {
	Symbol string
}

func (e *UnresolvedUnitSymbolError) Error() string {
	return fmt.Sprintf("unresolved unit symbol %q", e.Symbol)
}

type DuplicateSymbolError struct {
	Symbol string
}

func (e *DuplicateSymbolError) Error() string {
	return fmt.Sprintf("unit symbol %q already defined", e.Symbol)
}

var prefixes = map[string]int{
	"y":  -24,
	"z":  -21,
	"a":  -18,
	"f":  -15,
	"p":  -12,
	"n":  -9,
	"µ":  -6,
	"u":  -6,
	"m":  -3,
	"c":  -2,
	"d":  -1,
	"da": 1,
	"h":  2,
	"k":  3,
	"M":  6,
	"G":  9,
	"T":  12,
	"P":  15,
	"E":  18,
	"Z":  21,
	"Y":  24,
}

// prefixOrder tries longer prefixes first so "dam" is deca-metre.
var prefixOrder = func() []string {
	keys := slices.Collect(maps.Keys(prefixes))
	slices.SortFunc(keys, func(a, b string) int {
		if len(a) != len(b) {
			return len(b) - len(a)
		}

		return strings.Compare(a, b)
	})

	return keys
}()

// Prefix returns the canonical metric prefix for a power of ten.
func Prefix(pow int) (string, bool) {
	for _, p := range prefixOrder {
		if p == "u" {
			continue
		}
		if prefixes[p] == pow {
			return p, true
		}
	}

	return "", false
}

// Prefixes lists the metric prefixes, longest first.
func Prefixes() []string {
	return slices.Clone(prefixOrder)
}

func PrefixPower(prefix string) (int, bool) {
	pow, ok := prefixes[prefix]
	return pow, ok
}

type Entry struct {
	UnitPow

	// Prefixable reports whether metric prefixes may be applied.
	Prefixable bool
}

// Table maps unit symbols to units. The zero value is unusable; use
// NewTable.
type Table struct {
	entries map[string]Entry
}

// NewTable returns a table holding the SI base units and the gram.
func NewTable() *Table {
	t := &Table{entries: make(map[string]Entry)}

	for _, k := range dimension.Kinds() {
		t.entries[k.Symbol()] = Entry{
			UnitPow:    UnitPow{Unit: Of(k, 1)},
			Prefixable: k != dimension.Mass,
		}
	}

	t.entries["g"] = Entry{
		UnitPow:    UnitPow{Unit: Of(dimension.Mass, 1), Pow: -3},
		Prefixable: true,
	}

	return t
}

func (t *Table) Clone() *Table {
	return &Table{entries: maps.Clone(t.entries)}
}

func (t *Table) Define(symbol string, up UnitPow) error {
	if _, ok := t.entries[symbol]; ok {
		return &DuplicateSymbolError{Symbol: symbol}
	}

	t.entries[symbol] = Entry{UnitPow: up, Prefixable: true}

	return nil
}

// DefineCustom adds a unit that stands only for itself.
func (t *Table) DefineCustom(symbol string) error {
	if _, ok := t.entries[symbol]; ok {
		return &DuplicateSymbolError{Symbol: symbol}
	}

	t.entries[symbol] = Entry{
		UnitPow: UnitPow{Unit: NewCustom(map[string]dimension.Ratio{symbol: dimension.Int(1)})},
	}

	return nil
}

func (t *Table) Has(symbol string) bool {
	_, ok := t.entries[symbol]
	return ok
}

// Lookup resolves a symbol, trying an exact match before splitting off a
// metric prefix.
func (t *Table) Lookup(symbol string) (UnitPow, error) {
	if e, ok := t.entries[symbol]; ok {
		return e.UnitPow, nil
	}

	for _, p := range prefixOrder {
		rest, ok := strings.CutPrefix(symbol, p)
		if !ok || rest == "" {
			continue
		}

		e, ok := t.entries[rest]
		if !ok || !e.Prefixable {
			continue
		}

		return UnitPow{Unit: e.Unit, Pow: e.Pow + prefixes[p]}, nil
	}

	return UnitPow{}, &UnresolvedUnitSymbolError{Symbol: symbol}
}

func (t *Table) Symbols() []string {
	return slices.Sorted(maps.Keys(t.entries))
}

func (t *Table) Entry(symbol string) (Entry, bool) {
	e, ok := t.entries[symbol]
	return e, ok
}
