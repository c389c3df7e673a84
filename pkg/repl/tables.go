package repl

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rhino1998/dimcalc/pkg/interpreter"
	"github.com/rhino1998/dimcalc/pkg/units"
)

// WriteResults writes one line per result in the given format.
func WriteResults(w io.Writer, results []interpreter.Result, format string) error {
	for _, result := range results {
		var s string
		var err error
		if isLaTeX(format) {
			s, err = result.LaTeX()
		} else {
			s, err = result.Text()
		}
		if err != nil {
			return err
		}

		_, err = fmt.Fprintln(w, s)
		if err != nil {
			return err
		}
	}

	return nil
}

func WriteVariables(w io.Writer, vars []*interpreter.Variable) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Name", "Value", "Bound"})

	for _, v := range vars {
		bound := "constant"
		if !v.IsConstant() {
			bound = v.Pos().String()
		}
		t.AppendRow(table.Row{v.Name(), v.Value().String(), bound})
	}

	t.Render()
}

func WriteUnits(w io.Writer, tbl *units.Table) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Symbol", "Unit", "Power", "Prefixable"})

	for _, symbol := range tbl.Symbols() {
		e, _ := tbl.Entry(symbol)

		unit := e.Unit.String()
		if unit == "" {
			unit = "1"
		}
		t.AppendRow(table.Row{symbol, unit, e.Pow, e.Prefixable})
	}

	t.Render()
}
