package ast

import "fmt"

type Position struct {
	File   string
	Line   int
	Column int
}

func (p Position) Pos() Position {
	return p
}

func (p Position) String() string {
	if p.File == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}

	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

func (p Position) WrapError(err error) error {
	if err == nil {
		return nil
	}

	return &PositionError{Position: p, Err: err}
}

type PositionError struct {
	Position
	Err error
}

func (e *PositionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Position, e.Err)
}

func (e *PositionError) Unwrap() error {
	return e.Err
}
