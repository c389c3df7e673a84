package interpreter_test

import (
	"bytes"
	"context"
	"io/fs"
	"os"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/neilotoole/slogt"
	"github.com/rhino1998/dimcalc/pkg/dimension"
	"github.com/rhino1998/dimcalc/pkg/interpreter"
	"github.com/rhino1998/dimcalc/pkg/parser"
	"github.com/rhino1998/dimcalc/pkg/units"
	"github.com/rhino1998/dimcalc/pkg/value"
	"github.com/stretchr/testify/require"
)

func run(ctx context.Context, t *testing.T, scope *interpreter.Scope, src string) ([]interpreter.Result, error) {
	t.Helper()

	logger := slogt.New(t)

	p, err := parser.New(logger, parser.Config{})
	require.NoError(t, err)

	prog, err := p.ParseProgram("", src)
	if err != nil {
		return nil, err
	}

	return interpreter.New(logger).Execute(ctx, scope, prog)
}

func TestInterpreter(t *testing.T) {
	ctx := context.Background()
	t.Parallel()

	dir := os.DirFS("./testdata/")
	testFiles, err := fs.Glob(dir, "*.txt")
	if err != nil {
		t.Fatal(err)
	}

	for _, testFile := range testFiles {
		name := strings.Split(testFile, ".")[0]
		t.Run(name, func(t *testing.T) {
			r := require.New(t)

			testData, err := fs.ReadFile(dir, testFile)
			r.NoError(err)

			parts := bytes.SplitN(testData, []byte("\n---\n"), 2)
			r.Len(parts, 2)
			source := string(bytes.TrimSpace(parts[0]))
			expected := strings.TrimSpace(string(parts[1]))

			var lines []string
			results, err := run(ctx, t, interpreter.NewGlobalScope(), source)
			if err != nil {
				lines = append(lines, "error: "+err.Error())
			}

			for _, result := range results {
				text, err := result.Text()
				if err != nil {
					lines = append(lines, "error: "+err.Error())
					break
				}
				lines = append(lines, text)
			}

			r.Equal(expected, strings.Join(lines, "\n"))
		})
	}
}

func TestExecute_BindsVariables(t *testing.T) {
	r := require.New(t)

	scope := interpreter.NewGlobalScope()
	results, err := run(context.Background(), t, scope, "x = 5\n5 + 10")
	r.NoError(err)
	r.Len(results, 1)
	r.True(value.Scalar(15).Equal(results[0].Value))

	x, ok := scope.Get("x")
	r.True(ok)
	r.True(value.Scalar(5).Equal(x.Value()))
	r.Equal(1, x.Pos().Line)
	r.False(x.IsConstant())
}

func TestExecute_FailureCommitsNothing(t *testing.T) {
	r := require.New(t)
	ctx := context.Background()

	scope := interpreter.NewGlobalScope()
	_, err := run(ctx, t, scope, "x = 1 m")
	r.NoError(err)

	_, err = run(ctx, t, scope, "x = 2 m\ny = 3\nx + y")
	var incompatible *value.IncompatibleUnitsError
	r.ErrorAs(err, &incompatible)

	x, ok := scope.Get("x")
	r.True(ok)
	r.True(value.New(1, units.Of(dimension.Length, 1)).Equal(x.Value()))

	_, ok = scope.Get("y")
	r.False(ok)
}

func TestExecute_SharedScope(t *testing.T) {
	r := require.New(t)
	ctx := context.Background()

	scope := interpreter.NewGlobalScope()
	_, err := run(ctx, t, scope, "a = 3 m")
	r.NoError(err)

	results, err := run(ctx, t, scope, "a * a")
	r.NoError(err)
	r.Equal("9 m^2", results[0].Value.String())

	names := make([]string, 0)
	for _, v := range scope.Variables() {
		names = append(names, v.Name())
	}
	r.Equal([]string{"a", "e", "pi"}, names)
}

func TestExecute_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	scope := interpreter.NewGlobalScope()
	_, err := run(ctx, t, scope, "x = 1")
	require.ErrorIs(t, err, context.Canceled)

	_, ok := scope.Get("x")
	require.False(t, ok)
}

func TestExecute_Undefined(t *testing.T) {
	_, err := run(context.Background(), t, interpreter.NewGlobalScope(), "1 + nope")

	var undefined *interpreter.UndefinedVariableError
	require.ErrorAs(t, err, &undefined)
	require.Equal(t, "nope", undefined.Name)
}

func TestResult_LaTeX(t *testing.T) {
	r := require.New(t)

	results, err := run(context.Background(), t, interpreter.NewGlobalScope(), "print 1500 m -> km\n5 kg")
	r.NoError(err)
	r.Len(results, 2)

	s, err := results[0].LaTeX()
	r.NoError(err)
	r.Equal(`1.5 \ \mathrm{km}`, s)

	s, err = results[1].LaTeX()
	r.NoError(err)
	r.Contains(s, "5")
	r.Contains(s, "kg")
}

func TestExecuteFiles(t *testing.T) {
	r := require.New(t)
	logger := slogt.New(t)

	p, err := parser.New(logger, parser.Config{})
	r.NoError(err)

	fsys := fstest.MapFS{
		"a.txt":   {Data: []byte("x = 2 m\nx")},
		"bad.txt": {Data: []byte("y = 1\nx + 1")},
		"b.txt":   {Data: []byte("x * 3")},
	}

	scope := interpreter.NewGlobalScope()
	results, err := interpreter.New(logger).ExecuteFiles(context.Background(), p, scope, fsys, "a.txt", "bad.txt", "missing.txt", "b.txt")

	var set *interpreter.ErrorSet
	r.ErrorAs(err, &set)
	r.Len(set.Errs, 2)

	var incompatible *value.IncompatibleUnitsError
	r.ErrorAs(set.Errs[0], &incompatible)
	r.ErrorIs(set.Errs[1], fs.ErrNotExist)

	r.Len(results, 2)
	r.Equal("2 m", results[0].Value.String())
	r.Equal("6 m", results[1].Value.String())
	r.Equal("b.txt", results[1].Stmt.Pos().File)

	_, ok := scope.Get("y")
	r.False(ok)
}
