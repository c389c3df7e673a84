package repl_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/neilotoole/slogt"
	"github.com/rhino1998/dimcalc/pkg/config"
	"github.com/rhino1998/dimcalc/pkg/interpreter"
	"github.com/rhino1998/dimcalc/pkg/parser"
	"github.com/rhino1998/dimcalc/pkg/repl"
	"github.com/stretchr/testify/require"
)

func newREPL(t *testing.T, format string) (*repl.REPL, *bytes.Buffer) {
	t.Helper()

	logger := slogt.New(t)
	p, err := parser.New(logger, parser.Config{})
	require.NoError(t, err)

	var out bytes.Buffer
	return repl.New(logger, p, &out, repl.Options{Format: format}), &out
}

func TestEval(t *testing.T) {
	r := require.New(t)
	ctx := context.Background()
	rp, out := newREPL(t, config.FormatText)

	r.NoError(rp.Eval(ctx, "d = 3 km"))
	r.Empty(out.String())

	r.NoError(rp.Eval(ctx, "print d / (1000 s) -> m/s"))
	r.Equal("3 m/s\n", out.String())

	out.Reset()
	r.NoError(rp.Eval(ctx, "d; d * 2"))
	r.Equal("3000 m\n6000 m\n", out.String())
}

func TestEval_LaTeX(t *testing.T) {
	rp, out := newREPL(t, config.FormatLaTeX)

	require.NoError(t, rp.Eval(context.Background(), "print 1500 m -> km"))
	require.Equal(t, "1.5 \\ \\mathrm{km}\n", out.String())
}

func TestEval_ErrorKeepsScope(t *testing.T) {
	r := require.New(t)
	ctx := context.Background()
	rp, _ := newREPL(t, config.FormatText)

	r.NoError(rp.Eval(ctx, "x = 1 m"))
	r.Error(rp.Eval(ctx, "x = 2; x + 1 s"))

	x, ok := rp.Scope().Get("x")
	r.True(ok)
	r.Equal("1 m", x.Value().String())
}

func TestEval_Commands(t *testing.T) {
	r := require.New(t)
	ctx := context.Background()
	rp, out := newREPL(t, config.FormatText)

	r.NoError(rp.Eval(ctx, ":help"))
	r.Contains(out.String(), ":vars")

	out.Reset()
	r.NoError(rp.Eval(ctx, "speed = 4 m/s"))
	r.NoError(rp.Eval(ctx, ":vars"))
	r.Contains(out.String(), "speed")
	r.Contains(out.String(), "4 m/s")
	r.Contains(out.String(), "1:1")
	r.Contains(out.String(), "constant")

	out.Reset()
	r.NoError(rp.Eval(ctx, ":units"))
	r.Contains(out.String(), "Ohm")
	r.Contains(out.String(), "kg*m/s^2")

	out.Reset()
	r.NoError(rp.Eval(ctx, ":units km/h"))
	r.Equal("1e3 m/h\n", out.String())

	r.ErrorIs(rp.Eval(ctx, ":quit"), repl.ErrQuit)
	r.ErrorContains(rp.Eval(ctx, ":bogus"), "unknown command :bogus")
}

func TestComplete(t *testing.T) {
	r := require.New(t)
	rp, _ := newREPL(t, config.FormatText)

	r.NoError(rp.Eval(context.Background(), "distance = 1 m"))

	r.Equal([]string{"3 * distance"}, rp.Complete("3 * dis"))
	r.Contains(rp.Complete("pr"), "print")
	r.Contains(rp.Complete("1 O"), "1 Ohm")
	r.Nil(rp.Complete("1 + "))

	r.NoError(rp.Eval(context.Background(), "Δdist = 2 m"))
	r.Equal([]string{"4 * Δdist"}, rp.Complete("4 * Δd"))
	r.Equal([]string{"Δdist"}, rp.Complete("Δd"))
}

func TestWriteResults(t *testing.T) {
	r := require.New(t)
	logger := slogt.New(t)

	p, err := parser.New(logger, parser.Config{})
	r.NoError(err)

	prog, err := p.ParseProgram("", "print 1 m -> s")
	r.NoError(err)

	results, err := interpreter.New(logger).Execute(context.Background(), interpreter.NewGlobalScope(), prog)
	r.NoError(err)

	var out bytes.Buffer
	err = repl.WriteResults(&out, results, config.FormatText)
	r.ErrorContains(err, "1:1")
}
