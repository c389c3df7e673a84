package interpreter

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"strconv"

	"github.com/rhino1998/dimcalc/pkg/ast"
	"github.com/rhino1998/dimcalc/pkg/latex"
	"github.com/rhino1998/dimcalc/pkg/parser"
	"github.com/rhino1998/dimcalc/pkg/value"
)

// Result is the value produced by a print or bare-expression statement.
type Result struct {
	Stmt  ast.Statement
	Value value.Val
	Hint  *ast.UnitHint
}

// Text renders the result as plain text, in the hinted unit if any.
func (r Result) Text() (string, error) {
	if r.Hint == nil {
		return r.Value.String(), nil
	}

	num, err := latex.Scale(r.Value, r.Hint)
	if err != nil {
		return "", r.Stmt.WrapError(err)
	}

	s := strconv.FormatFloat(num, 'g', -1, 64)
	if r.Hint.Text != "" {
		s += " " + r.Hint.Text
	}

	return s, nil
}

func (r Result) LaTeX() (string, error) {
	s, err := latex.Value(r.Value, r.Hint)
	if err != nil {
		return "", r.Stmt.WrapError(err)
	}

	return s, nil
}

type Interpreter struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Interpreter {
	return &Interpreter{
		logger: logger,
	}
}

type State struct {
	logger *slog.Logger
	scope  *Scope
}

func newState(logger *slog.Logger, scope *Scope) *State {
	return &State{
		logger: logger,
		scope:  scope,
	}
}

// Execute runs the statements of prog in order against scope. If any
// statement fails, no binding made by prog is kept.
func (i *Interpreter) Execute(ctx context.Context, scope *Scope, prog *ast.Program) ([]Result, error) {
	state := newState(i.logger, scope.snapshot())

	var results []Result
	for _, stmt := range prog.Statements {
		err := ctx.Err()
		if err != nil {
			return nil, err
		}

		result, ok, err := state.executeStatement(stmt)
		if err != nil {
			return nil, err
		}

		if ok {
			results = append(results, result)
		}
	}

	scope.commit(state.scope)

	return results, nil
}

// ExecuteFiles parses and runs each file in turn against scope. A file
// that fails leaves scope as it was before that file; later files still
// run. Errors from all files are collected.
func (i *Interpreter) ExecuteFiles(ctx context.Context, p *parser.Parser, scope *Scope, fsys fs.FS, files ...string) (results []Result, err error) {
	errs := newErrorSet()
	defer func() {
		err = errs.Defer(err)
	}()

	for _, file := range files {
		src, err := fs.ReadFile(fsys, file)
		if err != nil {
			errs.Add(FileError{File: file, Err: fmt.Errorf("failed to read file: %w", err)})
			continue
		}

		prog, err := p.ParseProgram(file, string(src))
		if err != nil {
			errs.Add(fmt.Errorf("failed to parse file %q: %w", file, err))
			continue
		}

		fileResults, err := i.Execute(ctx, scope, prog)
		if err != nil {
			if ctx.Err() != nil {
				return results, err
			}

			errs.Add(fmt.Errorf("failed to execute file %q: %w", file, err))
			continue
		}

		results = append(results, fileResults...)
	}

	return results, nil
}

// Eval evaluates a single expression against scope.
func (i *Interpreter) Eval(scope *Scope, expr ast.Expr) (value.Val, error) {
	return newState(i.logger, scope).executeExpression(expr)
}

func (s *State) executeStatement(stmt ast.Statement) (Result, bool, error) {
	switch stmt := stmt.(type) {
	case ast.VarDec:
		val, err := s.executeExpression(stmt.RHS)
		if err != nil {
			return Result{}, false, err
		}

		if prev, ok := s.scope.Get(stmt.Name); ok && prev.IsConstant() {
			return Result{}, false, stmt.WrapError(&ConstantAssignmentError{Name: stmt.Name})
		}

		s.scope.Put(NewVariable(stmt.Name, val, stmt.Pos()))

		s.logger.Debug("variable bound",
			slog.String("pos", stmt.Pos().String()),
			slog.String("name", stmt.Name),
			slog.String("value", val.String()),
		)

		return Result{}, false, nil
	case ast.PrintExpr:
		val, err := s.executeExpression(stmt.RHS)
		if err != nil {
			return Result{}, false, err
		}

		s.logger.Debug("statement evaluated", slog.String("pos", stmt.Pos().String()), slog.String("value", val.String()))

		return Result{Stmt: stmt, Value: val, Hint: stmt.Hint}, true, nil
	case ast.ExprStmt:
		val, err := s.executeExpression(stmt.RHS)
		if err != nil {
			return Result{}, false, err
		}

		s.logger.Debug("statement evaluated", slog.String("pos", stmt.Pos().String()), slog.String("value", val.String()))

		return Result{Stmt: stmt, Value: val}, true, nil
	default:
		return Result{}, false, stmt.WrapError(fmt.Errorf("unhandled statement %T", stmt))
	}
}

func (s *State) executeExpression(expr ast.Expr) (value.Val, error) {
	switch expr := expr.(type) {
	case ast.Atom:
		return expr.Val, nil
	case ast.Ident:
		v, ok := s.scope.Get(expr.Name)
		if !ok {
			return value.Val{}, expr.WrapError(&UndefinedVariableError{Name: expr.Name})
		}

		return v.Value(), nil
	case ast.Cons:
		return s.executeCons(expr)
	default:
		return value.Val{}, expr.WrapError(fmt.Errorf("unhandled expression %T", expr))
	}
}

func (s *State) executeCons(expr ast.Cons) (value.Val, error) {
	if len(expr.Args) != expr.Op.Arity() {
		return value.Val{}, expr.WrapError(fmt.Errorf("operator %s takes %d arguments, got %d", expr.Op, expr.Op.Arity(), len(expr.Args)))
	}

	args := make([]value.Val, len(expr.Args))
	for i, arg := range expr.Args {
		val, err := s.executeExpression(arg)
		if err != nil {
			return value.Val{}, err
		}

		args[i] = val
	}

	var result value.Val
	var err error
	switch op := expr.Op.(type) {
	case ast.BinaryOp:
		switch op {
		case ast.Plus:
			result, err = args[0].Plus(args[1])
		case ast.Minus:
			result, err = args[0].Minus(args[1])
		case ast.Mul:
			result, err = args[0].Mul(args[1])
		case ast.Div:
			result, err = args[0].Div(args[1])
		case ast.Exp:
			result, err = args[0].Exp(args[1])
		default:
			err = fmt.Errorf("unsupported operator: %s", op)
		}
	case ast.AddUnit:
		result, err = args[0].AddUnit(op.Unit)
	case ast.AddMultiUnit:
		result, err = args[0].AddMultiUnit(op.Power, op.Unit)
	default:
		err = fmt.Errorf("unsupported operator: %s", op)
	}
	if err != nil {
		return value.Val{}, expr.WrapError(err)
	}

	return result, nil
}
