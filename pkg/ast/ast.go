package ast

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rhino1998/dimcalc/pkg/units"
	"github.com/rhino1998/dimcalc/pkg/value"
)

type Program struct {
	Statements []Statement
}

type Statement interface {
	statement()

	Pos() Position
	WrapError(error) error
}

type VarDec struct {
	Position

	Name string
	RHS  Expr
}

func (VarDec) statement() {}

// PrintExpr asks for the value of RHS to be displayed, optionally in the
// unit named by Hint.
type PrintExpr struct {
	Position

	Source string
	RHS    Expr
	Hint   *UnitHint
}

func (PrintExpr) statement() {}

type ExprStmt struct {
	Position

	Source string
	RHS    Expr
}

func (ExprStmt) statement() {}

// UnitHint is a requested display unit, e.g. "km" in "print x -> km".
type UnitHint struct {
	Text string
	units.UnitPow
}

type Expr interface {
	expr()

	Pos() Position
	WrapError(error) error
	String() string
}

type Atom struct {
	Position

	Val value.Val
}

func (Atom) expr() {}

func (a Atom) String() string {
	return a.Val.String()
}

type Ident struct {
	Position

	Name string
}

func (Ident) expr() {}

func (i Ident) String() string {
	return i.Name
}

// Cons applies Op to Args. Binary operators take two arguments, unit
// annotations take one.
type Cons struct {
	Position

	Op   Op
	Args []Expr
}

func (Cons) expr() {}

func (c Cons) String() string {
	var b strings.Builder
	b.WriteByte('(')
	b.WriteString(c.Op.String())
	for _, arg := range c.Args {
		b.WriteByte(' ')
		b.WriteString(arg.String())
	}
	b.WriteByte(')')

	return b.String()
}

type Op interface {
	op()

	Arity() int
	String() string
}

type BinaryOp int

const (
	Plus BinaryOp = iota
	Minus
	Mul
	Div
	Exp
)

func (BinaryOp) op() {}

func (BinaryOp) Arity() int {
	return 2
}

func (o BinaryOp) String() string {
	switch o {
	case Plus:
		return "+"
	case Minus:
		return "-"
	case Mul:
		return "*"
	case Div:
		return "/"
	case Exp:
		return "^"
	default:
		return "<unknown>"
	}
}

// AddUnit attaches Unit to its operand. Text is the unit as written.
type AddUnit struct {
	Unit units.Unit
	Text string
}

func (AddUnit) op() {}

func (AddUnit) Arity() int {
	return 1
}

func (o AddUnit) String() string {
	if o.Text != "" {
		return o.Text
	}

	return o.Unit.String()
}

// AddMultiUnit attaches Unit after scaling the operand by 10^Power.
type AddMultiUnit struct {
	Power int
	Unit  units.Unit
	Text  string
}

func (AddMultiUnit) op() {}

func (AddMultiUnit) Arity() int {
	return 1
}

func (o AddMultiUnit) String() string {
	if o.Text != "" {
		return o.Text
	}

	return "1e" + strconv.Itoa(o.Power) + " " + o.Unit.String()
}

// NewCons builds a Cons node, panicking if the argument count does not
// match the operator.
func NewCons(pos Position, op Op, args ...Expr) Cons {
	if len(args) != op.Arity() {
		panic(fmt.Sprintf("ast: operator %s takes %d arguments, got %d", op, op.Arity(), len(args)))
	}

	return Cons{Position: pos, Op: op, Args: args}
}
