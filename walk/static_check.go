package walk

import (
	"joosc/ast"
	"joosc/report"
)

// staticValue is the per-position state tracked by the static expression
// checker.
type staticValue struct {
	decl ast.Decl
	ty   ast.Type

	// isValue distinguishes values from pure type operands.
	isValue bool

	// isInstanceVar marks an unqualified reference to an instance member of
	// the enclosing class.
	isInstanceVar bool

	// isTypeName marks a class or interface name used as a qualifier.
	isTypeName bool
}

// ExprStaticChecker enforces the static-usage rules over a type-resolved
// RPN expression: `this` and instance members are rejected in static
// contexts, static fields cannot be reached through instances, and instance
// field initializers may only reference fields declared before them.
type ExprStaticChecker struct {
	eval *ast.ExprEvaluator[staticValue]

	curClass *ast.ClassDecl

	// isStaticContext is set inside static methods and static field
	// initializers.
	isStaticContext bool

	// isInstFieldInitializer is set while checking an instance field
	// initializer; fieldScope is that field's lexical position.
	isInstFieldInitializer bool
	fieldScope             *ast.ScopeID
}

// NewExprStaticChecker creates a static checker for expressions of the
// given class context.
func NewExprStaticChecker(curClass *ast.ClassDecl, isStaticContext, isInstFieldInitializer bool, fieldScope *ast.ScopeID) *ExprStaticChecker {
	sc := &ExprStaticChecker{
		curClass:               curClass,
		isStaticContext:        isStaticContext,
		isInstFieldInitializer: isInstFieldInitializer,
		fieldScope:             fieldScope,
	}

	sc.eval = ast.NewExprEvaluator[staticValue](sc)
	return sc
}

// Check walks the expression, which must already be type-resolved.
func (sc *ExprStaticChecker) Check(expr *ast.Expr) error {
	result, err := sc.eval.Evaluate(expr)
	if err != nil {
		return err
	}

	// A bare member access as the whole expression still needs its final
	// value checked.
	return sc.checkInstanceVar(result)
}

// -----------------------------------------------------------------------------

// isDeclStatic returns whether a field or method declaration carries the
// static modifier.
func isDeclStatic(decl ast.Decl) bool {
	switch d := decl.(type) {
	case *ast.FieldDecl:
		return d.Modifiers.IsStatic()
	case *ast.MethodDecl:
		return d.Modifiers.IsStatic()
	}

	return false
}

// staticError raises a static-use diagnostic at the current op.
func (sc *ExprStaticChecker) staticError(msg string, args ...interface{}) error {
	return report.Raise(report.KindStaticUse, sc.eval.OpSpan(), msg, args...)
}

// checkInstanceVar rejects unqualified instance member references in static
// contexts and forward references in instance field initializers.
func (sc *ExprStaticChecker) checkInstanceVar(v staticValue) error {
	if !v.isInstanceVar {
		return nil
	}

	if sc.isStaticContext {
		return sc.staticError("cannot access or invoke instance members in a static context")
	}

	if sc.isInstFieldInitializer {
		field, ok := v.decl.(*ast.FieldDecl)
		if ok && field.Parent() == ast.DeclContext(sc.curClass) && !sc.fieldScope.CanView(field.Scope) {
			return report.Raise(report.KindStaticUse, field.Span(),
				"forward reference to field `%s` in initializer", field.Name())
		}
	}

	return nil
}

// -----------------------------------------------------------------------------
// Evaluator hooks.

func (sc *ExprStaticChecker) MapValue(node ast.ExprValue) (staticValue, error) {
	// `this` in a static context is rejected immediately.
	if _, ok := node.(*ast.ThisNode); ok {
		if sc.isStaticContext {
			return staticValue{}, report.Raise(report.KindStaticUse, node.Span(),
				"cannot use `this` in a static context")
		}

		return staticValue{decl: node.Decl(), ty: node.Type(), isValue: true}, nil
	}

	if _, ok := node.(*ast.LiteralNode); ok {
		return staticValue{ty: node.Type(), isValue: true}, nil
	}

	if _, ok := node.(*ast.TypeNode); ok {
		return staticValue{ty: node.Type(), isValue: false}, nil
	}

	decl := node.Decl()
	if decl == nil {
		// A member name consumed by a following access or invocation; the
		// type resolver guarantees it was bound there.
		return staticValue{ty: node.Type(), isValue: true}, nil
	}

	// A class or interface name used as a qualifier is not a value.
	switch decl.(type) {
	case *ast.ClassDecl, *ast.InterfaceDecl:
		return staticValue{decl: decl, ty: node.Type(), isTypeName: true}, nil
	}

	_, parentIsClass := decl.Parent().(*ast.ClassDecl)
	isInstanceVar := parentIsClass && !isDeclStatic(decl)

	return staticValue{decl: decl, ty: node.Type(), isValue: true, isInstanceVar: isInstanceVar}, nil
}

func (sc *ExprStaticChecker) EvalBinaryOp(op *ast.BinaryOp, lhs, rhs staticValue) (staticValue, error) {
	if err := sc.checkInstanceVar(lhs); err != nil {
		return staticValue{}, err
	}

	if err := sc.checkInstanceVar(rhs); err != nil {
		return staticValue{}, err
	}

	return staticValue{ty: op.ResultType(), isValue: true}, nil
}

func (sc *ExprStaticChecker) EvalUnaryOp(op *ast.UnaryOp, val staticValue) (staticValue, error) {
	if err := sc.checkInstanceVar(val); err != nil {
		return staticValue{}, err
	}

	return staticValue{ty: op.ResultType(), isValue: true}, nil
}

func (sc *ExprStaticChecker) EvalMemberAccess(op *ast.MemberAccess, lhs, field staticValue) (staticValue, error) {
	// Packages flow through member access while a qualified name is still
	// being traversed; nothing to check yet.
	if field.decl == nil && field.ty == nil {
		return field, nil
	}

	if err := sc.checkInstanceVar(lhs); err != nil {
		return staticValue{}, err
	}

	if field.decl != nil {
		fieldIsStatic := isDeclStatic(field.decl)

		// Static members cannot be reached through an instance value...
		if lhs.isValue && !lhs.isTypeName && fieldIsStatic {
			return staticValue{}, sc.staticError(
				"cannot access a static field through an instance variable")
		}

		// ...and instance members cannot be reached through a type name.
		if lhs.isTypeName && !fieldIsStatic {
			return staticValue{}, sc.staticError(
				"cannot access an instance member through a type name")
		}
	}

	// The result of an access is never an unqualified instance reference.
	return staticValue{decl: field.decl, ty: op.ResultType(), isValue: true}, nil
}

func (sc *ExprStaticChecker) EvalMethodCall(op *ast.MethodInvocation, method staticValue, args []staticValue) (staticValue, error) {
	if err := sc.checkInstanceVar(method); err != nil {
		return staticValue{}, err
	}

	for _, arg := range args {
		if err := sc.checkInstanceVar(arg); err != nil {
			return staticValue{}, err
		}
	}

	// The result type may be nil for void methods.
	return staticValue{ty: op.ResultType(), isValue: true}, nil
}

func (sc *ExprStaticChecker) EvalNewObject(op *ast.ClassInstanceCreation, ctor staticValue, args []staticValue) (staticValue, error) {
	for _, arg := range args {
		if err := sc.checkInstanceVar(arg); err != nil {
			return staticValue{}, err
		}
	}

	return staticValue{ty: op.ResultType(), isValue: true}, nil
}

func (sc *ExprStaticChecker) EvalNewArray(op *ast.ArrayInstanceCreation, elem, size staticValue) (staticValue, error) {
	if err := sc.checkInstanceVar(size); err != nil {
		return staticValue{}, err
	}

	return staticValue{ty: op.ResultType(), isValue: true}, nil
}

func (sc *ExprStaticChecker) EvalArrayAccess(op *ast.ArrayAccess, arr, idx staticValue) (staticValue, error) {
	if err := sc.checkInstanceVar(arr); err != nil {
		return staticValue{}, err
	}

	if err := sc.checkInstanceVar(idx); err != nil {
		return staticValue{}, err
	}

	return staticValue{ty: op.ResultType(), isValue: true}, nil
}

func (sc *ExprStaticChecker) EvalCast(op *ast.Cast, ty, val staticValue) (staticValue, error) {
	if err := sc.checkInstanceVar(val); err != nil {
		return staticValue{}, err
	}

	return staticValue{ty: op.ResultType(), isValue: true}, nil
}
