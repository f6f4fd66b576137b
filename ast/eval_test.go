package ast

import (
	"errors"
	"testing"

	"joosc/report"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// arithHooks evaluates integer literals and arithmetic binary ops; every
// other node kind fails, which the tests use to exercise error propagation.
type arithHooks struct{}

func (arithHooks) MapValue(node ExprValue) (int, error) {
	if lit, ok := node.(*LiteralNode); ok {
		return int(lit.AsInt()), nil
	}

	return 0, errors.New("not a literal")
}

func (arithHooks) EvalBinaryOp(op *BinaryOp, lhs, rhs int) (int, error) {
	switch op.Op {
	case BinAdd:
		return lhs + rhs, nil
	case BinSubtract:
		return lhs - rhs, nil
	case BinMultiply:
		return lhs * rhs, nil
	}

	return 0, errors.New("unsupported operator")
}

func (arithHooks) EvalUnaryOp(op *UnaryOp, val int) (int, error) {
	if op.Op == UnaryMinus {
		return -val, nil
	}

	return 0, errors.New("unsupported operator")
}

func (arithHooks) EvalMemberAccess(*MemberAccess, int, int) (int, error) {
	return 0, errors.New("unsupported")
}

func (arithHooks) EvalMethodCall(op *MethodInvocation, method int, args []int) (int, error) {
	// Sums its arguments weighted by position; used to check argument
	// ordering.
	sum := method
	for i, arg := range args {
		sum += (i + 1) * arg
	}

	return sum, nil
}

func (arithHooks) EvalNewObject(*ClassInstanceCreation, int, []int) (int, error) {
	return 0, errors.New("unsupported")
}

func (arithHooks) EvalNewArray(*ArrayInstanceCreation, int, int) (int, error) {
	return 0, errors.New("unsupported")
}

func (arithHooks) EvalArrayAccess(*ArrayAccess, int, int) (int, error) {
	return 0, errors.New("unsupported")
}

func (arithHooks) EvalCast(*Cast, int, int) (int, error) {
	return 0, errors.New("unsupported")
}

func intLit(text string) *LiteralNode {
	return NewLiteralNode(LitInt, text, report.SourceRange{})
}

func TestExprEvaluator_ArithmeticRPN(t *testing.T) {
	span := report.SourceRange{}

	// (1 + 2) * 3 in reverse-Polish order.
	expr := NewExpr([]ExprNode{
		intLit("1"),
		intLit("2"),
		NewBinaryOp(BinAdd, span),
		intLit("3"),
		NewBinaryOp(BinMultiply, span),
	}, span)

	ev := NewExprEvaluator[int](arithHooks{})
	result, err := ev.Evaluate(expr)
	require.NoError(t, err)
	assert.Equal(t, 9, result)
}

func TestExprEvaluator_Restartable(t *testing.T) {
	span := report.SourceRange{}

	expr := NewExpr([]ExprNode{
		intLit("4"),
		NewUnaryOp(UnaryMinus, span),
	}, span)

	ev := NewExprEvaluator[int](arithHooks{})

	// The walk locks nodes while running and unlocks them as consumed, so
	// the same expression can be evaluated again.
	for i := 0; i < 3; i++ {
		result, err := ev.Evaluate(expr)
		require.NoError(t, err)
		assert.Equal(t, -4, result)

		for _, node := range expr.Nodes {
			assert.False(t, node.IsLocked())
		}
	}
}

func TestExprEvaluator_ArgumentOrder(t *testing.T) {
	span := report.SourceRange{}

	// f(10, 20) with f mapped to 0: weighted sum distinguishes orders.
	expr := NewExpr([]ExprNode{
		intLit("0"),
		intLit("10"),
		intLit("20"),
		NewMethodInvocation(3, span),
	}, span)

	ev := NewExprEvaluator[int](arithHooks{})
	result, err := ev.Evaluate(expr)
	require.NoError(t, err)

	// 1*10 + 2*20: arguments arrive in source order.
	assert.Equal(t, 50, result)
}

func TestExprEvaluator_HookErrorUnlocksNodes(t *testing.T) {
	span := report.SourceRange{}

	expr := NewExpr([]ExprNode{
		intLit("1"),
		intLit("2"),
		NewBinaryOp(BinDivide, span), // unsupported by the hooks
	}, span)

	ev := NewExprEvaluator[int](arithHooks{})
	_, err := ev.Evaluate(expr)
	require.Error(t, err)

	for _, node := range expr.Nodes {
		assert.False(t, node.IsLocked())
	}
}

func TestExprOp_ResultTypeCaching(t *testing.T) {
	span := report.SourceRange{}
	op := NewBinaryOp(BinAdd, span)

	intTy := NewBuiltInType(IntKind, span)
	boolTy := NewBuiltInType(BooleanKind, span)

	assert.Nil(t, op.ResultType())
	assert.Equal(t, Type(intTy), op.ResolveResultType(intTy))

	// The first resolution wins; later calls return the cached type.
	assert.Equal(t, Type(intTy), op.ResolveResultType(boolTy))
	assert.Equal(t, Type(intTy), op.ResultType())
}
