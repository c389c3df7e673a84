package grammar

import (
	"fmt"
	"strings"

	"github.com/rhino1998/dimcalc/pkg/ast"
)

type Kind int

const (
	KindProgram Kind = iota
	KindExpression
	KindNumber
	KindIdent
	KindOperation
	KindUnitExpr
	KindUnit
	KindVarDec
	KindPrintExpr
)

func (k Kind) String() string {
	switch k {
	case KindProgram:
		return "program"
	case KindExpression:
		return "expression"
	case KindNumber:
		return "number"
	case KindIdent:
		return "ident"
	case KindOperation:
		return "operation"
	case KindUnitExpr:
		return "unit_expr"
	case KindUnit:
		return "unit"
	case KindVarDec:
		return "var_dec"
	case KindPrintExpr:
		return "print_expr"
	default:
		return "<unknown>"
	}
}

// Node is a parse tree node. Text is the source the node matched; for a
// negative number it is the sign and digits without any space between.
type Node struct {
	Kind     Kind
	Text     string
	Pos      ast.Position
	Children []*Node

	start int
	end   int
}

// Prefix returns a node of the same kind holding the first k children.
// Its Text is the source before child k, so k must be less than the
// number of children.
func (n *Node) Prefix(k int) *Node {
	next := n.Children[k]

	return &Node{
		Kind:     n.Kind,
		Text:     strings.TrimSpace(n.Text[:next.start-n.start]),
		Pos:      n.Pos,
		Children: n.Children[:k:k],
		start:    n.start,
		end:      next.start,
	}
}

// Dump renders the tree one node per line, indented by depth.
func (n *Node) Dump() string {
	var b strings.Builder
	n.dump(&b, 0)
	return b.String()
}

func (n *Node) dump(b *strings.Builder, depth int) {
	fmt.Fprintf(b, "%s%s %q\n", strings.Repeat("  ", depth), n.Kind, n.Text)
	for _, c := range n.Children {
		c.dump(b, depth+1)
	}
}

type SyntaxError struct {
	Pos ast.Position
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: syntax error: %s", e.Pos, e.Msg)
}
