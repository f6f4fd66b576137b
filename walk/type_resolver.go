package walk

import (
	"joosc/ast"
	"joosc/report"
	"joosc/resolve"
)

// typeValue is the value the expression type resolver pushes for every RPN
// position.  Besides the resolved type it tracks the declaration a name
// binds to, whether the value names a type rather than denoting one, and
// names whose binding must wait for their receiver.
type typeValue struct {
	// ty is the resolved type; nil for packages, pending names, and void
	// call results.
	ty ast.Type

	// decl is the declaration the value binds to, when it binds one.
	decl ast.Decl

	// isTypeName marks a value that names a type (a class or interface
	// reference in qualifier position) rather than denoting a value.
	isTypeName bool

	// pkg is set while a qualified name is still traversing packages.
	pkg *resolve.Pkg

	// pending is a member name that could not be bound without its
	// receiver; member access and invocation resolve it.
	pending *ast.MemberName

	// methodOwner is the declaration whose methods a pending method name
	// should be searched in, set by member access for `recv.m(...)`.
	methodOwner ast.Decl

	// isVoid marks the result of calling a void method.
	isVoid bool
}

// ExprTypeResolver evaluates RPN expressions to types: it binds member
// names to declarations, enforces assignability, promotion, and cast rules,
// and caches each op's result type on the op node.
type ExprTypeResolver struct {
	eval *ast.ExprEvaluator[typeValue]

	h        *hierarchy
	builtins *resolve.Builtins
	resolver *resolve.Resolver

	// Context of the expression being resolved.
	cu       *ast.CompilationUnit
	curClass *ast.ClassDecl

	hooks *typeResolverHooks
}

// NewExprTypeResolver creates a type resolver for expressions of the given
// compilation unit and enclosing class.
func NewExprTypeResolver(resolver *resolve.Resolver, cu *ast.CompilationUnit, curClass *ast.ClassDecl, curMethod *ast.MethodDecl) *ExprTypeResolver {
	tr := &ExprTypeResolver{
		h:        &hierarchy{builtins: resolver.Builtins()},
		builtins: resolver.Builtins(),
		resolver: resolver,
		cu:       cu,
		curClass: curClass,
	}

	tr.hooks = &typeResolverHooks{
		tr:        tr,
		curMethod: curMethod,
		qualified: make(map[*ast.MemberName]bool),
	}
	tr.eval = ast.NewExprEvaluator[typeValue](tr.hooks)
	return tr
}

// Resolve type-checks the expression, caching result types on its op nodes.
func (tr *ExprTypeResolver) Resolve(expr *ast.Expr) (ast.Type, error) {
	tr.hooks.markQualifiedNames(expr)

	result, err := tr.eval.Evaluate(expr)
	if err != nil {
		return nil, err
	}

	if result.pending != nil {
		return nil, report.Raise(report.KindResolution, expr.Span(),
			"undefined name: `%s`", result.pending.Name)
	}

	return result.ty, nil
}

// -----------------------------------------------------------------------------

// typeResolverHooks carries the per-expression method context alongside the
// shared resolver state.
type typeResolverHooks struct {
	tr        *ExprTypeResolver
	curMethod *ast.MethodDecl

	// qualified marks the member names in field position: those consumed as
	// the second operand of a member access.  They bind through their
	// receiver, never standalone, so a same-named member of the enclosing
	// class cannot shadow the receiver's member.
	qualified map[*ast.MemberName]bool
}

// markQualifiedNames records the field-position member names of the
// expression: the builder always emits the field name directly before its
// member access op.
func (hk *typeResolverHooks) markQualifiedNames(expr *ast.Expr) {
	for i := 1; i < len(expr.Nodes); i++ {
		if _, ok := expr.Nodes[i].(*ast.MemberAccess); !ok {
			continue
		}

		if name, ok := expr.Nodes[i-1].(*ast.MemberName); ok {
			hk.qualified[name] = true
		}
	}
}

// typeError raises a type-kind diagnostic at the current op.
func (hk *typeResolverHooks) typeError(msg string, args ...interface{}) error {
	return report.Raise(report.KindType, hk.tr.eval.OpSpan(), msg, args...)
}

// requireValue rejects operands that are not plain values: unbound names,
// package references, type names, and void call results.
func (hk *typeResolverHooks) requireValue(tv typeValue) (typeValue, error) {
	if tv.pending != nil {
		return tv, report.Raise(report.KindResolution, tv.pending.Span(),
			"undefined name: `%s`", tv.pending.Name)
	}

	if tv.pkg != nil {
		return tv, hk.typeError("package name cannot be used as a value")
	}

	if tv.isTypeName {
		return tv, hk.typeError("type name cannot be used as a value")
	}

	if tv.isVoid || tv.ty == nil {
		return tv, hk.typeError("void value cannot be used in an expression")
	}

	return tv, nil
}

// -----------------------------------------------------------------------------
// Value mapping and name binding.

func (hk *typeResolverHooks) MapValue(node ast.ExprValue) (typeValue, error) {
	tr := hk.tr

	switch n := node.(type) {
	case *ast.ThisNode:
		if n.IsTypeResolved() {
			return typeValue{ty: n.Type(), decl: n.Decl()}, nil
		}

		if tr.curClass == nil {
			return typeValue{}, report.Raise(report.KindType, n.Span(),
				"cannot use `this` outside of a class")
		}

		ty := ast.NewReferenceType(tr.curClass, n.Span())
		n.ResolveDeclType(tr.curClass, ty)
		return typeValue{ty: ty, decl: tr.curClass}, nil

	case *ast.LiteralNode:
		if n.IsTypeResolved() {
			return typeValue{ty: n.Type()}, nil
		}

		var kind ast.BuiltInKind
		switch n.Kind {
		case ast.LitInt:
			kind = ast.IntKind
		case ast.LitChar:
			kind = ast.CharKind
		case ast.LitString:
			kind = ast.StringKind
		case ast.LitBool:
			kind = ast.BooleanKind
		default:
			kind = ast.NoneKind
		}

		ty := ast.NewBuiltInType(kind, n.Span())
		n.ResolveDeclType(nil, ty)
		return typeValue{ty: ty}, nil

	case *ast.TypeNode:
		ty := n.NamedType()
		if !ty.IsResolved() {
			return typeValue{}, report.Raise(report.KindResolution, n.Span(),
				"unresolved type in expression: `%s`", ty)
		}

		return typeValue{ty: ty, isTypeName: true}, nil

	case *ast.MemberName:
		return hk.bindMemberName(n)
	}

	report.ReportICE("unknown expression value node")
	return typeValue{}, nil
}

// bindMemberName resolves a bare member name: locals and parameters first,
// then fields of the enclosing class and its superclasses, then type names
// in the unit's import scope.  A name none of those bind stays pending; the
// enclosing member access or invocation gives it a receiver.
func (hk *typeResolverHooks) bindMemberName(n *ast.MemberName) (typeValue, error) {
	tr := hk.tr

	// Field-position names wait for their receiver.
	if hk.qualified[n] {
		if n.IsTypeResolved() {
			return typeValue{ty: n.Type(), decl: n.Decl(), pending: n}, nil
		}

		return typeValue{pending: n}, nil
	}

	if n.IsTypeResolved() {
		tv := typeValue{ty: n.Type(), decl: n.Decl()}
		switch n.Decl().(type) {
		case *ast.ClassDecl, *ast.InterfaceDecl:
			tv.isTypeName = true
		case *ast.MethodDecl:
			tv.pending = n
		}

		return tv, nil
	}

	// 1. Locals and parameters of the enclosing method.
	if hk.curMethod != nil {
		for _, decl := range hk.curMethod.Decls() {
			v := decl.(*ast.VarDecl)
			if v.Name() == n.Name {
				n.ResolveDeclType(v, v.Type)
				return typeValue{ty: v.Type, decl: v}, nil
			}
		}
	}

	// 2. Fields of the enclosing class, including inherited ones.
	if tr.curClass != nil {
		if field := tr.h.findField(tr.curClass, n.Name); field != nil {
			n.ResolveDeclType(field, field.Type)
			return typeValue{ty: field.Type, decl: field}, nil
		}

		// A bare method name: leave it pending for the invocation op, which
		// knows the argument types.
		if len(tr.h.methodsNamed(tr.curClass, n.Name)) > 0 {
			return typeValue{pending: n, methodOwner: tr.curClass}, nil
		}
	}

	// 3. Type and package names in the unit's import scope.
	if entry, ok := tr.resolver.LookupInScope(tr.cu, n.Name); ok {
		if entry.IsAmbiguous() {
			return typeValue{}, report.Raise(report.KindResolution, n.Span(),
				"ambiguous import: `%s` is imported by multiple import-on-demand declarations", n.Name)
		}

		if entry.IsDecl() {
			decl := entry.AsDecl()
			ty := ast.NewReferenceType(decl, n.Span())
			n.ResolveDeclType(decl, ty)
			return typeValue{ty: ty, decl: decl, isTypeName: true}, nil
		}

		return typeValue{pkg: entry.AsPkg()}, nil
	}

	return typeValue{pending: n}, nil
}

// -----------------------------------------------------------------------------
// Operator hooks.

func (hk *typeResolverHooks) EvalBinaryOp(op *ast.BinaryOp, lhs, rhs typeValue) (typeValue, error) {
	if cached := op.ResultType(); cached != nil {
		return typeValue{ty: cached}, nil
	}

	// Every operator, assignment included, needs plain values on both sides;
	// a name bound to a local or field already is one.
	lhs, err := hk.requireValue(lhs)
	if err != nil {
		return typeValue{}, err
	}

	rhs, err = hk.requireValue(rhs)
	if err != nil {
		return typeValue{}, err
	}

	tr := hk.tr

	switch op.Op {
	case ast.BinAssign:
		if !tr.isAssignableTo(lhs.ty, rhs.ty) {
			return typeValue{}, hk.typeError(
				"invalid assignment: `%s` is not assignable to `%s`", rhs.ty, lhs.ty)
		}

		return typeValue{ty: op.ResolveResultType(lhs.ty)}, nil

	case ast.BinGreaterThan, ast.BinGreaterThanOrEqual, ast.BinLessThan, ast.BinLessThanOrEqual:
		if !ast.IsNumeric(lhs.ty) || !ast.IsNumeric(rhs.ty) {
			return typeValue{}, hk.typeError(
				"invalid types for `%s` operation, operands are non-numeric", op.Op)
		}

		return typeValue{ty: op.ResolveResultType(tr.boolType(op))}, nil

	case ast.BinEqual, ast.BinNotEqual:
		if ast.IsNumeric(lhs.ty) && ast.IsNumeric(rhs.ty) {
			return typeValue{ty: op.ResolveResultType(tr.boolType(op))}, nil
		}

		if ast.IsBoolean(lhs.ty) && ast.IsBoolean(rhs.ty) {
			return typeValue{ty: op.ResolveResultType(tr.boolType(op))}, nil
		}

		lhsRef := tr.isReferenceLike(lhs.ty)
		rhsRef := tr.isReferenceLike(rhs.ty)
		if (ast.IsNull(lhs.ty) || lhsRef) && (ast.IsNull(rhs.ty) || rhsRef) &&
			(tr.isValidCast(lhs.ty, rhs.ty) || tr.isValidCast(rhs.ty, lhs.ty)) {
			return typeValue{ty: op.ResolveResultType(tr.boolType(op))}, nil
		}

		return typeValue{}, hk.typeError(
			"invalid types for `%s` operation, operands are not comparable: `%s` and `%s`",
			op.Op, lhs.ty, rhs.ty)

	case ast.BinAdd:
		if tr.isStringLike(lhs.ty) || tr.isStringLike(rhs.ty) {
			return typeValue{ty: op.ResolveResultType(tr.stringType(op))}, nil
		}

		if ast.IsNumeric(lhs.ty) && ast.IsNumeric(rhs.ty) {
			return typeValue{ty: op.ResolveResultType(tr.intType(op))}, nil
		}

		return typeValue{}, hk.typeError("invalid types for arithmetic `%s` operation", op.Op)

	case ast.BinSubtract, ast.BinMultiply, ast.BinDivide, ast.BinModulo:
		if !ast.IsNumeric(lhs.ty) || !ast.IsNumeric(rhs.ty) {
			return typeValue{}, hk.typeError(
				"invalid types for `%s` operation, operands are non-numeric", op.Op)
		}

		return typeValue{ty: op.ResolveResultType(tr.intType(op))}, nil

	case ast.BinAnd, ast.BinOr, ast.BinBitAnd, ast.BinBitOr, ast.BinBitXor:
		if !ast.IsBoolean(lhs.ty) || !ast.IsBoolean(rhs.ty) {
			return typeValue{}, hk.typeError(
				"invalid types for `%s` operation, operands are non-boolean", op.Op)
		}

		return typeValue{ty: op.ResolveResultType(tr.boolType(op))}, nil

	case ast.BinInstanceOf:
		lhsRef := tr.isReferenceLike(lhs.ty) || ast.IsArray(lhs.ty)
		rhsRef := tr.isReferenceLike(rhs.ty) || ast.IsArray(rhs.ty)
		if (ast.IsNull(lhs.ty) || lhsRef) && !ast.IsNull(rhs.ty) && rhsRef &&
			tr.isValidCast(rhs.ty, lhs.ty) {
			return typeValue{ty: op.ResolveResultType(tr.boolType(op))}, nil
		}

		return typeValue{}, hk.typeError(
			"invalid types for `instanceof` operation, operands are null or reference types that can't be casted")
	}

	return typeValue{}, hk.typeError("invalid binary operation")
}

func (hk *typeResolverHooks) EvalUnaryOp(op *ast.UnaryOp, val typeValue) (typeValue, error) {
	if cached := op.ResultType(); cached != nil {
		return typeValue{ty: cached}, nil
	}

	val, err := hk.requireValue(val)
	if err != nil {
		return typeValue{}, err
	}

	switch op.Op {
	case ast.UnaryPlus, ast.UnaryMinus, ast.UnaryBitNot:
		if !ast.IsNumeric(val.ty) {
			return typeValue{}, hk.typeError("invalid type for unary `%s`, non-numeric", op.Op)
		}

		return typeValue{ty: op.ResolveResultType(hk.tr.intType(op))}, nil

	case ast.UnaryNot:
		if !ast.IsBoolean(val.ty) {
			return typeValue{}, hk.typeError("invalid type for unary not, non-boolean")
		}

		return typeValue{ty: op.ResolveResultType(hk.tr.boolType(op))}, nil
	}

	return typeValue{}, hk.typeError("invalid unary operation")
}

// EvalMemberAccess binds `lhs . name`: package traversal, the array length
// field, or a field/method of the receiver's class.
func (hk *typeResolverHooks) EvalMemberAccess(op *ast.MemberAccess, lhs, field typeValue) (typeValue, error) {
	tr := hk.tr

	// The field operand is always a member name.
	name := field.pending
	if name == nil {
		return typeValue{}, hk.typeError("member access requires a member name")
	}

	// Bound by a previous pass: the cached binding stands.
	if name.IsTypeResolved() {
		if _, ok := name.Decl().(*ast.MethodDecl); ok {
			return typeValue{pending: name}, nil
		}

		return typeValue{ty: op.ResolveResultType(name.Type()), decl: name.Decl()}, nil
	}

	// Package traversal: `java.lang` → `java.lang.String`.
	if lhs.pkg != nil {
		entry, ok := lhs.pkg.Child(name.Name)
		if !ok {
			return typeValue{}, report.Raise(report.KindResolution, name.Span(),
				"failed to resolve name as package member does not exist: `%s`", name.Name)
		}

		if entry.IsDecl() {
			decl := entry.AsDecl()
			ty := ast.NewReferenceType(decl, name.Span())
			name.ResolveDeclType(decl, ty)
			return typeValue{ty: ty, decl: decl, isTypeName: true}, nil
		}

		return typeValue{pkg: entry.AsPkg()}, nil
	}

	if lhs.pending != nil {
		return typeValue{}, report.Raise(report.KindResolution, lhs.pending.Span(),
			"undefined name: `%s`", lhs.pending.Name)
	}

	// Array member access resolves against the synthesised array prototype.
	if ast.IsArray(lhs.ty) {
		fieldDecl := tr.h.findField(tr.builtins.ArrayPrototype, name.Name)
		if fieldDecl == nil {
			return typeValue{}, hk.typeError("array type has no member `%s`", name.Name)
		}

		name.ResolveDeclType(fieldDecl, fieldDecl.Type)
		return typeValue{ty: op.ResolveResultType(fieldDecl.Type), decl: fieldDecl}, nil
	}

	// Otherwise the receiver must be reference-like: a value of class type
	// or a type name for static access.
	recvDecl, ok := tr.receiverDecl(lhs)
	if !ok {
		return typeValue{}, hk.typeError("member access on non-reference type")
	}

	if fieldDecl := tr.h.findField(recvDecl, name.Name); fieldDecl != nil {
		name.ResolveDeclType(fieldDecl, fieldDecl.Type)
		return typeValue{ty: op.ResolveResultType(fieldDecl.Type), decl: fieldDecl}, nil
	}

	// A method name: leave it for the invocation that follows.
	if len(tr.h.methodsNamed(recvDecl, name.Name)) > 0 {
		return typeValue{pending: name, methodOwner: recvDecl}, nil
	}

	return typeValue{}, hk.typeError("`%s` has no member named `%s`", recvDecl.Name(), name.Name)
}

// EvalMethodCall resolves the method operand to a method type and checks
// the call: arity must match and each argument must be assignable to the
// corresponding parameter.
func (hk *typeResolverHooks) EvalMethodCall(op *ast.MethodInvocation, method typeValue, args []typeValue) (typeValue, error) {
	tr := hk.tr

	for i := range args {
		var err error
		args[i], err = hk.requireValue(args[i])
		if err != nil {
			return typeValue{}, err
		}
	}

	var methodType *ast.MethodType

	switch {
	case method.pending != nil && method.pending.IsTypeResolved():
		// Bound by a previous pass.
		if md, ok := method.pending.Decl().(*ast.MethodDecl); ok {
			methodType = ast.NewMethodType(md)
		}

	case method.pending != nil:
		owner := method.methodOwner
		if owner == nil {
			owner = ast.Decl(tr.curClass)
		}

		candidates := tr.h.methodsNamed(owner, method.pending.Name)
		selected := tr.selectCallable(candidates, args)
		if selected == nil {
			return typeValue{}, hk.typeError(
				"no method `%s` matching the given arguments", method.pending.Name)
		}

		methodType = ast.NewMethodType(selected)
		method.pending.ResolveDeclType(selected, methodType)

	case method.ty != nil:
		if mt, ok := method.ty.(*ast.MethodType); ok {
			methodType = mt
		}
	}

	if methodType == nil {
		return typeValue{}, hk.typeError("called name does not resolve to a method")
	}

	if len(methodType.Params) != len(args) {
		return typeValue{}, hk.typeError(
			"method `%s` expects %d arguments, got %d",
			methodType.Method.Name(), len(methodType.Params), len(args))
	}

	for i, arg := range args {
		if !tr.isAssignableTo(methodType.Params[i], arg.ty) {
			return typeValue{}, hk.typeError(
				"invalid argument type for method call: `%s` is not assignable to `%s`",
				arg.ty, methodType.Params[i])
		}
	}

	if methodType.Return == nil {
		return typeValue{isVoid: true}, nil
	}

	return typeValue{ty: op.ResolveResultType(methodType.Return)}, nil
}

// EvalNewObject resolves the constructor and checks the arguments; the
// expression yields a reference to the created class.
func (hk *typeResolverHooks) EvalNewObject(op *ast.ClassInstanceCreation, ctor typeValue, args []typeValue) (typeValue, error) {
	tr := hk.tr

	if cached := op.ResultType(); cached != nil {
		return typeValue{ty: cached}, nil
	}

	for i := range args {
		var err error
		args[i], err = hk.requireValue(args[i])
		if err != nil {
			return typeValue{}, err
		}
	}

	var class *ast.ClassDecl
	if ctor.decl != nil {
		class, _ = ctor.decl.(*ast.ClassDecl)
	} else if ctor.pending != nil {
		return typeValue{}, report.Raise(report.KindResolution, ctor.pending.Span(),
			"undefined class name: `%s`", ctor.pending.Name)
	}

	if class == nil {
		return typeValue{}, hk.typeError("`new` requires a class type")
	}

	if len(class.Constructors) > 0 {
		selected := tr.selectCallable(class.Constructors, args)
		if selected == nil {
			return typeValue{}, hk.typeError(
				"no constructor of `%s` matching the given arguments", class.Name())
		}
	} else if len(args) > 0 {
		return typeValue{}, hk.typeError(
			"no constructor of `%s` matching the given arguments", class.Name())
	}

	ty := ast.NewReferenceType(class, op.Span())
	return typeValue{ty: op.ResolveResultType(ty)}, nil
}

// EvalNewArray checks the length operand and yields an array type built
// from a copy of the element type.
func (hk *typeResolverHooks) EvalNewArray(op *ast.ArrayInstanceCreation, elem, size typeValue) (typeValue, error) {
	tr := hk.tr

	if cached := op.ResultType(); cached != nil {
		return typeValue{ty: cached}, nil
	}

	if elem.ty == nil {
		return typeValue{}, hk.typeError("invalid element type for array creation")
	}

	size, err := hk.requireValue(size)
	if err != nil {
		return typeValue{}, err
	}

	if !ast.IsNumeric(size.ty) {
		return typeValue{}, hk.typeError("invalid type for array size, non-numeric")
	}

	copied := tr.copyType(elem.ty, op.Span())
	if copied == nil {
		return typeValue{}, hk.typeError("invalid base type for array creation")
	}

	arrayTy := ast.NewArrayType(copied, op.Span())
	return typeValue{ty: op.ResolveResultType(arrayTy)}, nil
}

func (hk *typeResolverHooks) EvalArrayAccess(op *ast.ArrayAccess, arr, idx typeValue) (typeValue, error) {
	if cached := op.ResultType(); cached != nil {
		return typeValue{ty: cached}, nil
	}

	arr, err := hk.requireValue(arr)
	if err != nil {
		return typeValue{}, err
	}

	idx, err = hk.requireValue(idx)
	if err != nil {
		return typeValue{}, err
	}

	arrayTy, ok := arr.ty.(*ast.ArrayType)
	if !ok {
		return typeValue{}, hk.typeError("array access on non-array type `%s`", arr.ty)
	}

	if !ast.IsNumeric(idx.ty) {
		return typeValue{}, hk.typeError("invalid type for array index, non-numeric")
	}

	return typeValue{ty: op.ResolveResultType(arrayTy.Elem)}, nil
}

func (hk *typeResolverHooks) EvalCast(op *ast.Cast, ty, val typeValue) (typeValue, error) {
	if cached := op.ResultType(); cached != nil {
		return typeValue{ty: cached}, nil
	}

	if !ty.isTypeName || ty.ty == nil {
		return typeValue{}, hk.typeError("cast requires a type operand")
	}

	val, err := hk.requireValue(val)
	if err != nil {
		return typeValue{}, err
	}

	if !hk.tr.isValidCast(val.ty, ty.ty) {
		return typeValue{}, hk.typeError("invalid cast from `%s` to `%s`", val.ty, ty.ty)
	}

	return typeValue{ty: op.ResolveResultType(ty.ty)}, nil
}

// -----------------------------------------------------------------------------
// Helpers.

// receiverDecl extracts the class or interface declaration a member access
// receiver refers to, for both values and type names.
func (tr *ExprTypeResolver) receiverDecl(tv typeValue) (ast.Decl, bool) {
	if tv.ty == nil {
		return nil, false
	}

	// The built-in string type behaves as java.lang.String where available.
	if ast.IsBuiltInString(tv.ty) {
		if s := tr.builtins.String(); s != nil {
			return s, true
		}

		return nil, false
	}

	if decl, ok := ast.AsReference(tv.ty); ok {
		return decl, true
	}

	return nil, false
}

// selectCallable picks the first candidate whose arity matches and whose
// parameters accept the argument types.
func (tr *ExprTypeResolver) selectCallable(candidates []*ast.MethodDecl, args []typeValue) *ast.MethodDecl {
	for _, cand := range candidates {
		if len(cand.Params) != len(args) {
			continue
		}

		match := true
		for i, arg := range args {
			if !tr.isAssignableTo(cand.Params[i].Type, arg.ty) {
				match = false
				break
			}
		}

		if match {
			return cand
		}
	}

	return nil
}

// copyType builds a fresh type equal to t, so the array type produced by
// `new T[n]` does not alias the type node of the operand.
func (tr *ExprTypeResolver) copyType(t ast.Type, span report.SourceRange) ast.Type {
	switch v := t.(type) {
	case *ast.BuiltInType:
		return ast.NewBuiltInType(v.Kind, span)
	case *ast.ReferenceType:
		return ast.NewReferenceType(v.Decl(), span)
	case *ast.UnresolvedType:
		if v.Decl() != nil {
			return ast.NewReferenceType(v.Decl(), span)
		}
	case *ast.ArrayType:
		if elem := tr.copyType(v.Elem, span); elem != nil {
			return ast.NewArrayType(elem, span)
		}
	}

	return nil
}

func (tr *ExprTypeResolver) boolType(node ast.Node) ast.Type {
	return ast.NewBuiltInType(ast.BooleanKind, node.Span())
}

func (tr *ExprTypeResolver) intType(node ast.Node) ast.Type {
	return ast.NewBuiltInType(ast.IntKind, node.Span())
}

func (tr *ExprTypeResolver) stringType(node ast.Node) ast.Type {
	return ast.NewBuiltInType(ast.StringKind, node.Span())
}

// isStringLike accepts both the built-in string type and a reference to the
// cached java.lang.String declaration.
func (tr *ExprTypeResolver) isStringLike(t ast.Type) bool {
	if ast.IsBuiltInString(t) {
		return true
	}

	if decl, ok := ast.AsReference(t); ok {
		return decl == tr.builtins.String() && decl != nil
	}

	return false
}

// isReferenceLike returns whether t refers to a class or interface,
// including the built-in string type.
func (tr *ExprTypeResolver) isReferenceLike(t ast.Type) bool {
	if _, ok := ast.AsReference(t); ok {
		return true
	}

	return ast.IsBuiltInString(t) && tr.builtins.String() != nil
}
