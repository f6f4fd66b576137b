package ast

import "joosc/report"

// ExprEvalHooks is the hook set an expression pass supplies to the generic
// RPN evaluator.  Every hook returns an explicit error discriminator; a
// failing hook aborts the walk of the enclosing expression and the error is
// surfaced to the caller, which reports it and continues with the next
// expression.
type ExprEvalHooks[T any] interface {
	// MapValue maps an arity-0 value node to a T.
	MapValue(node ExprValue) (T, error)

	// EvalBinaryOp combines two operands under a binary operator.
	EvalBinaryOp(op *BinaryOp, lhs, rhs T) (T, error)

	// EvalUnaryOp applies a unary operator.
	EvalUnaryOp(op *UnaryOp, val T) (T, error)

	// EvalMemberAccess evaluates `lhs . field`.
	EvalMemberAccess(op *MemberAccess, lhs, field T) (T, error)

	// EvalMethodCall evaluates a method invocation.  args are in source
	// order.
	EvalMethodCall(op *MethodInvocation, method T, args []T) (T, error)

	// EvalNewObject evaluates a class instance creation.
	EvalNewObject(op *ClassInstanceCreation, ctor T, args []T) (T, error)

	// EvalNewArray evaluates an array instance creation.
	EvalNewArray(op *ArrayInstanceCreation, elem, size T) (T, error)

	// EvalArrayAccess evaluates an array element access.
	EvalArrayAccess(op *ArrayAccess, arr, idx T) (T, error)

	// EvalCast evaluates a cast.
	EvalCast(op *Cast, ty, val T) (T, error)
}

// ExprEvaluator walks an RPN expression list, maintaining a value stack and a
// location stack, and dispatches each node to the supplied hooks.  The same
// algorithm underlies the expression type resolver, the static checker, and
// the IR code generator.
type ExprEvaluator[T any] struct {
	hooks ExprEvalHooks[T]

	stack   []T
	argLocs []report.SourceRange
	curOp   ExprOp
}

// NewExprEvaluator creates an evaluator dispatching to the given hooks.
func NewExprEvaluator[T any](hooks ExprEvalHooks[T]) *ExprEvaluator[T] {
	return &ExprEvaluator[T]{hooks: hooks}
}

// Evaluate walks the expression and returns the single resulting value.
func (ev *ExprEvaluator[T]) Evaluate(expr *Expr) (T, error) {
	return ev.EvaluateList(expr.Nodes)
}

// EvaluateList walks a subexpression node list in emission order.
func (ev *ExprEvaluator[T]) EvaluateList(nodes []ExprNode) (T, error) {
	var zero T

	ev.stack = ev.stack[:0]
	ev.argLocs = ev.argLocs[:0]

	// Lock every node in the list for the duration of the walk; a node that
	// is already locked means the list is being re-entered recursively.
	for _, node := range nodes {
		if node.IsLocked() {
			report.ReportICE("expression node re-entered while locked")
		}

		node.Lock()
	}

	// A hook failure must leave no node locked.
	unlockFrom := 0
	defer func() {
		for _, node := range nodes[unlockFrom:] {
			node.Unlock()
		}
	}()

	for i, node := range nodes {
		// Push on the location of the current node if it is a value.
		if _, ok := node.(ExprValue); ok {
			ev.argLocs = append(ev.argLocs, node.Span())
		}

		// Unlock the node as it is consumed.
		node.Unlock()
		unlockFrom = i + 1

		result, err := ev.evalNode(node)
		if err != nil {
			return zero, err
		}

		ev.stack = append(ev.stack, result)

		if op, ok := node.(ExprOp); ok {
			ev.mergeLocations(op.Nargs())
		}
	}

	if len(ev.stack) != 1 {
		report.ReportICE("expression stack has %d values after evaluation", len(ev.stack))
	}

	return ev.pop(), nil
}

// -----------------------------------------------------------------------------

func (ev *ExprEvaluator[T]) evalNode(node ExprNode) (T, error) {
	var zero T

	if op, ok := node.(ExprOp); ok {
		ev.curOp = op
	} else {
		ev.curOp = nil
	}

	switch n := node.(type) {
	case ExprValue:
		return ev.hooks.MapValue(n)
	case *UnaryOp:
		val := ev.pop()
		return ev.hooks.EvalUnaryOp(n, val)
	case *BinaryOp:
		rhs := ev.pop()
		lhs := ev.pop()
		return ev.hooks.EvalBinaryOp(n, lhs, rhs)
	case *MemberAccess:
		field := ev.pop()
		lhs := ev.pop()
		return ev.hooks.EvalMemberAccess(n, lhs, field)
	case *MethodInvocation:
		args := ev.popArgs(n.Nargs() - 1)
		method := ev.pop()
		return ev.hooks.EvalMethodCall(n, method, args)
	case *ClassInstanceCreation:
		args := ev.popArgs(n.Nargs() - 1)
		ctor := ev.pop()
		return ev.hooks.EvalNewObject(n, ctor, args)
	case *ArrayInstanceCreation:
		size := ev.pop()
		elem := ev.pop()
		return ev.hooks.EvalNewArray(n, elem, size)
	case *ArrayAccess:
		idx := ev.pop()
		arr := ev.pop()
		return ev.hooks.EvalArrayAccess(n, arr, idx)
	case *Cast:
		val := ev.pop()
		ty := ev.pop()
		return ev.hooks.EvalCast(n, ty, val)
	}

	report.ReportICE("unknown expression node")
	return zero, nil
}

func (ev *ExprEvaluator[T]) pop() T {
	if len(ev.stack) == 0 {
		report.ReportICE("expression stack underflow")
	}

	val := ev.stack[len(ev.stack)-1]
	ev.stack = ev.stack[:len(ev.stack)-1]
	return val
}

// popArgs pops n values and returns them in source order.
func (ev *ExprEvaluator[T]) popArgs(n int) []T {
	args := make([]T, n)
	for i := n - 1; i >= 0; i-- {
		args[i] = ev.pop()
	}

	return args
}

// mergeLocations collapses the locations of the current op's operands into
// the merged range of all of them, which becomes the location of the op's
// result value.
func (ev *ExprEvaluator[T]) mergeLocations(num int) {
	if num <= 0 || len(ev.argLocs) == 0 {
		return
	}

	if num > len(ev.argLocs) {
		num = len(ev.argLocs)
	}

	loc := ev.argLocs[len(ev.argLocs)-1]
	ev.argLocs = ev.argLocs[:len(ev.argLocs)-1]
	for i := 1; i < num; i++ {
		loc = report.MergeRanges(loc, ev.argLocs[len(ev.argLocs)-1])
		ev.argLocs = ev.argLocs[:len(ev.argLocs)-1]
	}

	ev.argLocs = append(ev.argLocs, loc)
}

// OpSpan returns the source range of the op currently being evaluated, or the
// location of the value being mapped when the current node is a value.  Hooks
// use it to attach locations to their diagnostics.
func (ev *ExprEvaluator[T]) OpSpan() report.SourceRange {
	if ev.curOp == nil {
		if len(ev.argLocs) > 0 {
			return ev.argLocs[len(ev.argLocs)-1]
		}

		return report.SourceRange{}
	}

	return ev.curOp.Span()
}

// ArgSpan returns the source range of the current op's argno-th operand,
// counting from zero.
func (ev *ExprEvaluator[T]) ArgSpan(argno int) report.SourceRange {
	if ev.curOp == nil || argno < 0 || argno >= ev.curOp.Nargs() {
		return report.SourceRange{}
	}

	idx := len(ev.argLocs) - ev.curOp.Nargs() + argno
	if idx < 0 || idx >= len(ev.argLocs) {
		return report.SourceRange{}
	}

	return ev.argLocs[idx]
}
