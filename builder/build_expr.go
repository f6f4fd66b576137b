package builder

import (
	"joosc/ast"
	"joosc/parsetree"
)

// visitExpression builds a full expression: its RPN node list plus span.
func (b *Builder) visitExpression(node *parsetree.Node) (*ast.Expr, error) {
	ops, err := b.visitExpr(node)
	if err != nil {
		return nil, err
	}

	return ast.NewExpr(ops, node.Span()), nil
}

// visitStatementExpression unwraps a statement expression node.
// Shape: (expression).
func (b *Builder) visitStatementExpression(node *parsetree.Node) (*ast.Expr, error) {
	if err := checkKind(node, parsetree.KindStatementExpression); err != nil {
		return nil, err
	}

	if err := checkChildren(node, 1, 1); err != nil {
		return nil, err
	}

	return b.visitExpression(node.Child(0))
}

// visitExpr lowers an expression node to RPN by post-order emission: the
// children's RPN is appended first, then the operator node.
func (b *Builder) visitExpr(node *parsetree.Node) ([]ast.ExprNode, error) {
	if err := checkKind(node, parsetree.KindExpression); err != nil {
		return nil, err
	}

	if err := checkChildren(node, 1, 3); err != nil {
		return nil, err
	}

	switch node.NumChildren() {
	case 1:
		return b.visitExprChild(node.Child(0))

	case 2:
		// Unary expression: (operator, operand).
		opNode := node.Child(0)
		if err := checkKind(opNode, parsetree.KindOperator); err != nil {
			return nil, err
		}

		operand := node.Child(1)

		// Unary plus/minus on a numeric literal folds into the literal's
		// sign.  This is the only constant folding at this layer.
		if lit := asNumericLiteral(operand); lit != nil {
			switch opNode.Operator() {
			case parsetree.OpMinus, parsetree.OpSubtract:
				lit.SetNegative()
				fallthrough
			case parsetree.OpPlus, parsetree.OpAdd:
				return b.visitExprChild(operand)
			}
		}

		ops, err := b.visitExprChild(operand)
		if err != nil {
			return nil, err
		}

		unary, err := convertToUnaryOp(opNode)
		if err != nil {
			return nil, err
		}

		return append(ops, unary), nil

	default:
		// Binary expression: (lhs, operator, rhs).
		opNode := node.Child(1)
		if err := checkKind(opNode, parsetree.KindOperator); err != nil {
			return nil, err
		}

		lhs, err := b.visitExprChild(node.Child(0))
		if err != nil {
			return nil, err
		}

		rhs, err := b.visitExprChild(node.Child(2))
		if err != nil {
			return nil, err
		}

		binary, err := convertToBinaryOp(opNode)
		if err != nil {
			return nil, err
		}

		ops := append(lhs, rhs...)
		return append(ops, binary), nil
	}
}

// asNumericLiteral returns the literal leaf if the node is an integer
// literal, possibly wrapped in an Expression node.
func asNumericLiteral(node *parsetree.Node) *parsetree.Node {
	for node != nil && node.Kind() == parsetree.KindExpression && node.NumChildren() == 1 {
		node = node.Child(0)
	}

	if node != nil && node.Kind() == parsetree.KindLiteral && node.Literal().Kind == parsetree.LiteralInteger {
		return node
	}

	return nil
}

// visitExprChild lowers any node that may appear as an expression operand.
func (b *Builder) visitExprChild(node *parsetree.Node) ([]ast.ExprNode, error) {
	switch node.Kind() {
	case parsetree.KindExpression:
		return b.visitExpr(node)

	case parsetree.KindLiteral:
		return []ast.ExprNode{b.buildLiteral(node)}, nil

	case parsetree.KindIdentifier:
		name, err := b.visitIdentifier(node)
		if err != nil {
			return nil, err
		}

		if name == "this" {
			return []ast.ExprNode{ast.NewThisNode(node.Span())}, nil
		}

		return []ast.ExprNode{ast.NewMemberName(name, node.Span())}, nil

	case parsetree.KindQualifiedIdentifier:
		return b.visitQualifiedIdentifierInExpr(node)

	case parsetree.KindType, parsetree.KindBasicType, parsetree.KindArrayType:
		ty, err := b.visitType(node)
		if err != nil {
			return nil, err
		}

		return []ast.ExprNode{ast.NewTypeNode(ty, node.Span())}, nil

	case parsetree.KindArrayCastType:
		// An array cast type wraps the element type; the resulting type
		// node names the array type.
		if err := checkChildren(node, 1, 1); err != nil {
			return nil, err
		}

		elem, err := b.visitType(node.Child(0))
		if err != nil {
			return nil, err
		}

		return []ast.ExprNode{ast.NewTypeNode(ast.NewArrayType(elem, node.Span()), node.Span())}, nil

	case parsetree.KindMethodInvocation:
		return b.visitMethodInvocation(node)

	case parsetree.KindArrayAccess:
		return b.visitArrayAccess(node)

	case parsetree.KindFieldAccess:
		return b.visitFieldAccess(node)

	case parsetree.KindCastExpression:
		return b.visitCastExpression(node)

	case parsetree.KindArrayCreationExpression:
		return b.visitArrayCreation(node)

	case parsetree.KindClassInstanceCreationExpression:
		return b.visitClassCreation(node)
	}

	return nil, shapeError(node, "expected expression operand, found %s", node.Kind())
}

// buildLiteral converts a literal leaf into a literal RPN node.
func (b *Builder) buildLiteral(node *parsetree.Node) *ast.LiteralNode {
	pay := node.Literal()

	var kind ast.LiteralKind
	switch pay.Kind {
	case parsetree.LiteralInteger:
		kind = ast.LitInt
	case parsetree.LiteralCharacter:
		kind = ast.LitChar
	case parsetree.LiteralString:
		kind = ast.LitString
	case parsetree.LiteralBoolean:
		kind = ast.LitBool
	default:
		kind = ast.LitNull
	}

	lit := ast.NewLiteralNode(kind, b.arena.Intern(pay.Text), node.Span())
	lit.Negative = pay.Negative
	return lit
}

// visitQualifiedIdentifierInExpr lowers a dotted name to a chain of member
// accesses: the first part is a plain member name; each further part emits
// its name followed by a member access.
func (b *Builder) visitQualifiedIdentifierInExpr(node *parsetree.Node) ([]ast.ExprNode, error) {
	if err := checkKind(node, parsetree.KindQualifiedIdentifier); err != nil {
		return nil, err
	}

	if err := checkChildren(node, 1, 2); err != nil {
		return nil, err
	}

	if node.NumChildren() == 1 {
		name, err := b.visitIdentifier(node.Child(0))
		if err != nil {
			return nil, err
		}

		return []ast.ExprNode{ast.NewMemberName(name, node.Child(0).Span())}, nil
	}

	ops, err := b.visitQualifiedIdentifierInExpr(node.Child(0))
	if err != nil {
		return nil, err
	}

	name, err := b.visitIdentifier(node.Child(1))
	if err != nil {
		return nil, err
	}

	ops = append(ops, ast.NewMemberName(name, node.Child(1).Span()))
	return append(ops, ast.NewMemberAccess(node.Span())), nil
}

// visitMethodInvocation lowers a method invocation.
// Shapes: (qualifiedName, argListOpt) or (receiver, name, argListOpt).
// Emission: receiver (or qualified chain), args..., MethodInvocation(n).
func (b *Builder) visitMethodInvocation(node *parsetree.Node) ([]ast.ExprNode, error) {
	if err := checkChildren(node, 2, 3); err != nil {
		return nil, err
	}

	var ops []ast.ExprNode
	var argsNode *parsetree.Node

	if node.NumChildren() == 2 {
		chain, err := b.visitQualifiedIdentifierInExpr(node.Child(0))
		if err != nil {
			return nil, err
		}

		ops = chain
		argsNode = node.Child(1)
	} else {
		receiver, err := b.visitExprChild(node.Child(0))
		if err != nil {
			return nil, err
		}

		name, err := b.visitIdentifier(node.Child(1))
		if err != nil {
			return nil, err
		}

		ops = append(receiver, ast.NewMemberName(name, node.Child(1).Span()))
		ops = append(ops, ast.NewMemberAccess(node.Span()))
		argsNode = node.Child(2)
	}

	nargs, ops, err := b.visitArgumentList(argsNode, ops)
	if err != nil {
		return nil, err
	}

	return append(ops, ast.NewMethodInvocation(nargs+1, node.Span())), nil
}

// visitFieldAccess lowers `expr.field`.  Shape: (receiver, name).
func (b *Builder) visitFieldAccess(node *parsetree.Node) ([]ast.ExprNode, error) {
	if err := checkChildren(node, 2, 2); err != nil {
		return nil, err
	}

	ops, err := b.visitExprChild(node.Child(0))
	if err != nil {
		return nil, err
	}

	name, err := b.visitIdentifier(node.Child(1))
	if err != nil {
		return nil, err
	}

	ops = append(ops, ast.NewMemberName(name, node.Child(1).Span()))
	return append(ops, ast.NewMemberAccess(node.Span())), nil
}

// visitClassCreation lowers `new C(args...)`.
// Shape: (name, argListOpt).  Emission: constructor name, args...,
// ClassInstanceCreation(n).
func (b *Builder) visitClassCreation(node *parsetree.Node) ([]ast.ExprNode, error) {
	if err := checkChildren(node, 2, 2); err != nil {
		return nil, err
	}

	var ops []ast.ExprNode
	switch node.Child(0).Kind() {
	case parsetree.KindIdentifier:
		name, err := b.visitIdentifier(node.Child(0))
		if err != nil {
			return nil, err
		}

		ops = []ast.ExprNode{ast.NewMemberName(name, node.Child(0).Span())}
	case parsetree.KindQualifiedIdentifier:
		chain, err := b.visitQualifiedIdentifierInExpr(node.Child(0))
		if err != nil {
			return nil, err
		}

		ops = chain
	default:
		return nil, shapeError(node.Child(0), "expected class name, found %s", node.Child(0).Kind())
	}

	nargs, ops, err := b.visitArgumentList(node.Child(1), ops)
	if err != nil {
		return nil, err
	}

	return append(ops, ast.NewClassInstanceCreation(nargs+1, node.Span())), nil
}

// visitArrayAccess lowers `arr[idx]`.  Shape: (receiver, index).
func (b *Builder) visitArrayAccess(node *parsetree.Node) ([]ast.ExprNode, error) {
	if err := checkChildren(node, 2, 2); err != nil {
		return nil, err
	}

	ops, err := b.visitExprChild(node.Child(0))
	if err != nil {
		return nil, err
	}

	idx, err := b.visitExpr(node.Child(1))
	if err != nil {
		return nil, err
	}

	ops = append(ops, idx...)
	return append(ops, ast.NewArrayAccess(node.Span())), nil
}

// visitArrayCreation lowers `new T[size]`.  Shape: (elemType, sizeExpr).
// Emission: element type, length, ArrayInstanceCreation.
func (b *Builder) visitArrayCreation(node *parsetree.Node) ([]ast.ExprNode, error) {
	if err := checkChildren(node, 2, 2); err != nil {
		return nil, err
	}

	elem, err := b.visitType(node.Child(0))
	if err != nil {
		return nil, err
	}

	ops := []ast.ExprNode{ast.NewTypeNode(elem, node.Child(0).Span())}

	size, err := b.visitExpr(node.Child(1))
	if err != nil {
		return nil, err
	}

	ops = append(ops, size...)
	return append(ops, ast.NewArrayInstanceCreation(node.Span())), nil
}

// visitCastExpression lowers `(T) expr` and `(T[]) expr`.
// Shape: (type, dimsOpt, expr).  Emission: target type, value, Cast.
func (b *Builder) visitCastExpression(node *parsetree.Node) ([]ast.ExprNode, error) {
	if err := checkChildren(node, 2, 3); err != nil {
		return nil, err
	}

	castType, err := b.visitType(node.Child(0))
	if err != nil {
		return nil, err
	}

	exprIdx := 1
	if node.NumChildren() == 3 {
		if node.Child(1) != nil {
			// A dims node marks an array cast type.
			castType = ast.NewArrayType(castType, node.Span())
		}

		exprIdx = 2
	}

	ops := []ast.ExprNode{ast.NewTypeNode(castType, node.Child(0).Span())}

	value, err := b.visitExprChild(node.Child(exprIdx))
	if err != nil {
		return nil, err
	}

	ops = append(ops, value...)
	return append(ops, ast.NewCast(node.Span())), nil
}

// visitArgumentList lowers an argument list, appending each argument's RPN
// to ops and returning the argument count.  A nil node is an empty list.
func (b *Builder) visitArgumentList(node *parsetree.Node, ops []ast.ExprNode) (int, []ast.ExprNode, error) {
	if node == nil {
		return 0, ops, nil
	}

	if err := checkKind(node, parsetree.KindArgumentList); err != nil {
		return 0, nil, err
	}

	if err := checkChildren(node, 1, 2); err != nil {
		return 0, nil, err
	}

	if node.NumChildren() == 1 {
		arg, err := b.visitExpr(node.Child(0))
		if err != nil {
			return 0, nil, err
		}

		return 1, append(ops, arg...), nil
	}

	count, ops, err := b.visitArgumentList(node.Child(0), ops)
	if err != nil {
		return 0, nil, err
	}

	arg, err := b.visitExpr(node.Child(1))
	if err != nil {
		return 0, nil, err
	}

	return count + 1, append(ops, arg...), nil
}

// convertToUnaryOp converts an operator leaf to a unary RPN op.
func convertToUnaryOp(node *parsetree.Node) (*ast.UnaryOp, error) {
	switch node.Operator() {
	case parsetree.OpNot:
		return ast.NewUnaryOp(ast.UnaryNot, node.Span()), nil
	case parsetree.OpBitwiseNot:
		return ast.NewUnaryOp(ast.UnaryBitNot, node.Span()), nil
	case parsetree.OpPlus, parsetree.OpAdd:
		return ast.NewUnaryOp(ast.UnaryPlus, node.Span()), nil
	case parsetree.OpMinus, parsetree.OpSubtract:
		return ast.NewUnaryOp(ast.UnaryMinus, node.Span()), nil
	}

	return nil, shapeError(node, "invalid unary operator `%s`", node.Operator())
}

// convertToBinaryOp converts an operator leaf to a binary RPN op.
func convertToBinaryOp(node *parsetree.Node) (*ast.BinaryOp, error) {
	var kind ast.BinaryOpKind

	switch node.Operator() {
	case parsetree.OpAssign:
		kind = ast.BinAssign
	case parsetree.OpGreaterThan:
		kind = ast.BinGreaterThan
	case parsetree.OpGreaterThanOrEqual:
		kind = ast.BinGreaterThanOrEqual
	case parsetree.OpLessThan:
		kind = ast.BinLessThan
	case parsetree.OpLessThanOrEqual:
		kind = ast.BinLessThanOrEqual
	case parsetree.OpEqual:
		kind = ast.BinEqual
	case parsetree.OpNotEqual:
		kind = ast.BinNotEqual
	case parsetree.OpAnd:
		kind = ast.BinAnd
	case parsetree.OpOr:
		kind = ast.BinOr
	case parsetree.OpBitwiseAnd:
		kind = ast.BinBitAnd
	case parsetree.OpBitwiseOr:
		kind = ast.BinBitOr
	case parsetree.OpBitwiseXor:
		kind = ast.BinBitXor
	case parsetree.OpAdd:
		kind = ast.BinAdd
	case parsetree.OpSubtract:
		kind = ast.BinSubtract
	case parsetree.OpMultiply:
		kind = ast.BinMultiply
	case parsetree.OpDivide:
		kind = ast.BinDivide
	case parsetree.OpModulo:
		kind = ast.BinModulo
	case parsetree.OpInstanceOf:
		kind = ast.BinInstanceOf
	default:
		return nil, shapeError(node, "invalid binary operator `%s`", node.Operator())
	}

	return ast.NewBinaryOp(kind, node.Span()), nil
}
