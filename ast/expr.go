package ast

import (
	"strings"

	"joosc/report"
)

// Expr is an expression: a finite, restartable sequence of expression nodes
// in reverse-Polish order, plus the source range the expression covers.
type Expr struct {
	NodeBase

	// Nodes in emission (reverse-Polish) order.
	Nodes []ExprNode
}

// NewExpr creates an expression over the given RPN node list.
func NewExpr(nodes []ExprNode, span report.SourceRange) *Expr {
	return &Expr{NodeBase: NewNodeBaseOn(span), Nodes: nodes}
}

func (e *Expr) String() string {
	sb := strings.Builder{}
	for i, node := range e.Nodes {
		if i > 0 {
			sb.WriteRune(' ')
		}

		switch n := node.(type) {
		case *MemberName:
			sb.WriteString(n.Name)
		case *ThisNode:
			sb.WriteString("this")
		case *LiteralNode:
			if n.Negative {
				sb.WriteRune('-')
			}
			sb.WriteString(n.Text)
		case *TypeNode:
			sb.WriteString(n.NamedType().String())
		case *MemberAccess:
			sb.WriteString(".")
		case *MethodInvocation:
			sb.WriteString("call")
		case *ClassInstanceCreation:
			sb.WriteString("new")
		case *ArrayInstanceCreation:
			sb.WriteString("new[]")
		case *ArrayAccess:
			sb.WriteString("[]")
		case *Cast:
			sb.WriteString("cast")
		case *UnaryOp:
			sb.WriteString("u" + n.Op.String())
		case *BinaryOp:
			sb.WriteString(n.Op.String())
		}
	}

	return sb.String()
}
