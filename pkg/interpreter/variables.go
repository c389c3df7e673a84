package interpreter

import (
	"github.com/rhino1998/dimcalc/pkg/ast"
	"github.com/rhino1998/dimcalc/pkg/value"
)

type Variable struct {
	name     string
	value    value.Val
	pos      ast.Position
	constant bool
}

func NewVariable(name string, val value.Val, pos ast.Position) *Variable {
	return &Variable{
		name:  name,
		value: val,
		pos:   pos,
	}
}

func NewConstant(name string, val value.Val) *Variable {
	return &Variable{
		name:     name,
		value:    val,
		constant: true,
	}
}

func (v *Variable) Name() string {
	return v.name
}

func (v *Variable) Value() value.Val {
	return v.value
}

// Pos is where the variable was last bound. Constants have no position.
func (v *Variable) Pos() ast.Position {
	return v.pos
}

func (v *Variable) IsConstant() bool {
	return v.constant
}
