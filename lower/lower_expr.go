package lower

import (
	"joosc/ast"
	"joosc/ir"
	"joosc/report"
)

// cgKind classifies the values flowing through the code-generating
// expression evaluator.
type cgKind int

const (
	kindLValue   cgKind = iota // a storage location; loads to read
	kindRValue                 // a computed value
	kindStaticFn               // a static function reference
	kindMemberFn               // a bound instance method: function + receiver
	kindAstType                // a type operand of new/cast
	kindAstDecl                // a declaration awaiting its receiver
)

// cgValue is the tagged value of the code generator's RPN evaluation.  It
// carries both the IR type and the AST type so boolean context can insert
// short-circuit control flow and array accesses can emit bounds checks.
type cgValue struct {
	kind    cgKind
	astType ast.Type
	irType  ir.Type
	val     ir.Value
	decl    ast.Decl
	fn      *ir.Function
	recv    ir.Value
}

func lvalueOf(astTy ast.Type, irTy ir.Type, ptr ir.Value) cgValue {
	return cgValue{kind: kindLValue, astType: astTy, irType: irTy, val: ptr}
}

func rvalueOf(astTy ast.Type, val ir.Value) cgValue {
	return cgValue{kind: kindRValue, astType: astTy, irType: val.Type(), val: val}
}

// asRValue materializes the value: l-values load through their pointer,
// r-values pass through.
func (v cgValue) asRValue(l *Lowerer) ir.Value {
	switch v.kind {
	case kindLValue:
		return l.builder.BuildLoad(v.irType, v.val)
	case kindRValue:
		return v.val
	}

	report.ReportICE("IR value required in expression position")
	return nil
}

// asLValue returns the storage pointer of an l-value.
func (v cgValue) asLValue() ir.Value {
	if v.kind != kindLValue {
		report.ReportICE("assignment target is not an l-value")
	}

	return v.val
}

// -----------------------------------------------------------------------------

// emitExpr lowers one expression and returns its resulting value.
func (l *Lowerer) emitExpr(expr *ast.Expr) (cgValue, error) {
	hooks := &cgHooks{l: l}
	hooks.eval = ast.NewExprEvaluator[cgValue](hooks)
	return hooks.eval.Evaluate(expr)
}

// cgHooks implements the evaluator hooks that emit IR.
type cgHooks struct {
	l    *Lowerer
	eval *ast.ExprEvaluator[cgValue]
}

func (hk *cgHooks) MapValue(node ast.ExprValue) (cgValue, error) {
	l := hk.l

	switch n := node.(type) {
	case *ast.MemberName:
		return hk.mapMemberName(n)

	case *ast.ThisNode:
		if l.thisSlot == nil {
			return cgValue{}, report.Raise(report.KindType, n.Span(),
				"no receiver available for `this`")
		}

		return lvalueOf(n.Type(), l.ctx.PointerTy(), l.thisSlot), nil

	case *ast.LiteralNode:
		return hk.mapLiteral(n)

	case *ast.TypeNode:
		return cgValue{kind: kindAstType, astType: n.NamedType()}, nil
	}

	report.ReportICE("unknown expression value in codegen")
	return cgValue{}, nil
}

func (hk *cgHooks) mapMemberName(n *ast.MemberName) (cgValue, error) {
	l := hk.l

	switch decl := n.Decl().(type) {
	case *ast.VarDecl:
		slot, ok := l.valueMap[decl]
		if !ok {
			report.ReportICE("local `%s` has no stack slot", decl.Name())
		}

		return lvalueOf(n.Type(), l.emitType(decl.Type), slot), nil

	case *ast.FieldDecl:
		if decl.Modifiers.IsStatic() {
			gv, ok := l.gvMap[decl]
			if !ok {
				report.ReportICE("static field `%s` has no global", decl.Name())
			}

			return lvalueOf(n.Type(), l.emitType(decl.Type), gv), nil
		}

		// Instance fields wait for their receiver in member access.
		return cgValue{kind: kindAstDecl, decl: decl}, nil

	case *ast.MethodDecl:
		fn, ok := l.gvMap[decl].(*ir.Function)
		if !ok {
			report.ReportICE("method `%s` has no function", decl.Name())
		}

		if decl.Modifiers.IsStatic() {
			return cgValue{kind: kindStaticFn, fn: fn}, nil
		}

		// Instance methods bind their receiver at the access or call site.
		return cgValue{kind: kindAstDecl, decl: decl, fn: fn}, nil

	case *ast.ClassDecl, *ast.InterfaceDecl:
		return cgValue{kind: kindAstDecl, decl: n.Decl()}, nil
	}

	report.ReportICE("member name `%s` was never resolved", n.Name)
	return cgValue{}, nil
}

func (hk *cgHooks) mapLiteral(n *ast.LiteralNode) (cgValue, error) {
	l := hk.l

	switch n.Kind {
	case ast.LitInt:
		return rvalueOf(n.Type(), l.ctx.ConstInt32(n.AsInt())), nil
	case ast.LitChar:
		return rvalueOf(n.Type(), l.ctx.ConstInt(l.ctx.Int16Type(), n.AsInt())), nil
	case ast.LitBool:
		return rvalueOf(n.Type(), l.ctx.ConstBool(n.AsInt() != 0)), nil
	case ast.LitString:
		// String interning is provided by the runtime; the literal lowers
		// to a null pointer until then.
		return rvalueOf(n.Type(), l.ctx.NullPointer()), nil
	default:
		return rvalueOf(n.Type(), l.ctx.NullPointer()), nil
	}
}

// -----------------------------------------------------------------------------

func binOpOf(op ast.BinaryOpKind) ir.BinOp {
	switch op {
	case ast.BinBitAnd:
		return ir.BinAnd
	case ast.BinBitOr:
		return ir.BinOr
	case ast.BinBitXor:
		return ir.BinXor
	case ast.BinAdd:
		return ir.BinAdd
	case ast.BinSubtract:
		return ir.BinSub
	case ast.BinMultiply:
		return ir.BinMul
	case ast.BinDivide:
		return ir.BinDiv
	default:
		return ir.BinRem
	}
}

func predicateOf(op ast.BinaryOpKind) ir.Predicate {
	switch op {
	case ast.BinGreaterThan:
		return ir.PredGT
	case ast.BinGreaterThanOrEqual:
		return ir.PredGE
	case ast.BinLessThan:
		return ir.PredLT
	case ast.BinLessThanOrEqual:
		return ir.PredLE
	case ast.BinEqual:
		return ir.PredEQ
	default:
		return ir.PredNE
	}
}

func (hk *cgHooks) EvalBinaryOp(op *ast.BinaryOp, lhs, rhs cgValue) (cgValue, error) {
	l := hk.l
	aTy := op.ResultType()

	switch op.Op {
	case ast.BinAssign:
		l.builder.BuildStore(rhs.asRValue(l), lhs.asLValue())
		return lhs, nil

	case ast.BinGreaterThan, ast.BinGreaterThanOrEqual, ast.BinLessThan,
		ast.BinLessThanOrEqual, ast.BinEqual, ast.BinNotEqual:
		lv := lhs.asRValue(l)
		rv := rhs.asRValue(l)

		// Mixed-width integer comparisons happen in i32.
		lv, rv = l.promotePair(lhs, lv, rhs, rv)
		inst := l.builder.BuildCmp(predicateOf(op.Op), lv, rv)
		return rvalueOf(aTy, inst), nil

	case ast.BinAnd:
		// The short-circuit shape:
		//   v0 = eval(lhs); store v0, tmp; br v0, bb.true, bb.after
		//   bb.true: v1 = eval(rhs); store v1, tmp; br bb.after
		//   bb.after: tmp as lvalue
		tmp := l.curFn.CreateAlloca(l.ctx.Int1Type())
		tmp.SetName("and.tmp")
		bbTrue := l.curFn.NewBlock()
		bbTrue.SetName("and.true")
		bbAfter := l.curFn.NewBlock()
		bbAfter.SetName("and.after")

		v0 := lhs.asRValue(l)
		l.builder.BuildStore(v0, tmp)
		l.builder.BuildCondBr(v0, bbTrue, bbAfter)
		l.builder.MoveToEnd(bbTrue)
		v1 := rhs.asRValue(l)
		l.builder.BuildStore(v1, tmp)
		l.builder.BuildBr(bbAfter)
		l.builder.MoveToEnd(bbAfter)
		return lvalueOf(aTy, l.ctx.Int1Type(), tmp), nil

	case ast.BinOr:
		// Mirror of the conjunction with the branch targets swapped.
		tmp := l.curFn.CreateAlloca(l.ctx.Int1Type())
		tmp.SetName("or.tmp")
		bbFalse := l.curFn.NewBlock()
		bbFalse.SetName("or.false")
		bbAfter := l.curFn.NewBlock()
		bbAfter.SetName("or.after")

		v0 := lhs.asRValue(l)
		l.builder.BuildStore(v0, tmp)
		l.builder.BuildCondBr(v0, bbAfter, bbFalse)
		l.builder.MoveToEnd(bbFalse)
		v1 := rhs.asRValue(l)
		l.builder.BuildStore(v1, tmp)
		l.builder.BuildBr(bbAfter)
		l.builder.MoveToEnd(bbAfter)
		return lvalueOf(aTy, l.ctx.Int1Type(), tmp), nil

	case ast.BinBitAnd, ast.BinBitOr, ast.BinBitXor,
		ast.BinAdd, ast.BinSubtract, ast.BinMultiply, ast.BinDivide, ast.BinModulo:
		// Boolean & | ^ operate on i1 directly; numeric operands compute in
		// i32 and narrow back to the result type.
		if ast.IsBoolean(aTy) && ast.IsBoolean(lhs.astType) {
			inst := l.builder.BuildBinary(binOpOf(op.Op), lhs.asRValue(l), rhs.asRValue(l))
			return rvalueOf(aTy, inst), nil
		}

		lhsP := l.castIntegerType(aTy, l.ctx.Int32Type(), lhs)
		rhsP := l.castIntegerType(aTy, l.ctx.Int32Type(), rhs)
		res := l.builder.BuildBinary(binOpOf(op.Op), lhsP.asRValue(l), rhsP.asRValue(l))
		return l.castIntegerType(aTy, l.emitType(aTy), rvalueOf(aTy, res)), nil

	case ast.BinInstanceOf:
		// Runtime type information is not modelled yet.
		return rvalueOf(aTy, l.ctx.ConstBool(false)), nil
	}

	report.ReportICE("cannot lower binary operation")
	return cgValue{}, nil
}

func (hk *cgHooks) EvalUnaryOp(op *ast.UnaryOp, val cgValue) (cgValue, error) {
	l := hk.l
	aTy := op.ResultType()

	switch op.Op {
	case ast.UnaryPlus:
		return val, nil

	case ast.UnaryNot, ast.UnaryBitNot:
		v := val.asRValue(l)
		intTy, ok := v.Type().(*ir.IntegerType)
		if !ok {
			report.ReportICE("logical not on non-integer value")
		}

		inst := l.builder.BuildBinary(ir.BinXor, v, l.ctx.AllOnes(intTy))
		return rvalueOf(aTy, inst), nil

	case ast.UnaryMinus:
		v := val.asRValue(l)
		intTy, ok := v.Type().(*ir.IntegerType)
		if !ok {
			report.ReportICE("negation on non-integer value")
		}

		inst := l.builder.BuildBinary(ir.BinSub, l.ctx.Zero(intTy), v)
		return rvalueOf(aTy, inst), nil
	}

	report.ReportICE("cannot lower unary operation")
	return cgValue{}, nil
}

// EvalMemberAccess lowers `lhs . member`: the array length field loads from
// the array struct, static members resolve to globals, and instance methods
// bind their receiver.
func (hk *cgHooks) EvalMemberAccess(op *ast.MemberAccess, lhs, field cgValue) (cgValue, error) {
	l := hk.l
	aTy := op.ResultType()

	// array.length loads the length word of the array struct.
	if fieldDecl, ok := field.decl.(*ast.FieldDecl); ok && fieldDecl == l.builtins.ArrayLengthField {
		arrTy := l.arrayStructType()
		szGep := l.builder.BuildGEP(arrTy, lhs.asLValue(), l.ctx.ConstInt32(0))
		szGep.SetName("arr.gep.sz")
		sz := l.builder.BuildLoad(l.ctx.Int32Type(), szGep)
		sz.SetName("arr.sz")
		return rvalueOf(aTy, sz), nil
	}

	switch fieldDecl := field.decl.(type) {
	case *ast.FieldDecl:
		if fieldDecl.Modifiers.IsStatic() {
			gv, ok := l.gvMap[fieldDecl]
			if !ok {
				report.ReportICE("static field `%s` has no global", fieldDecl.Name())
			}

			return lvalueOf(aTy, l.emitType(fieldDecl.Type), gv), nil
		}

		// Object field layouts are not modelled yet.
		return cgValue{}, report.Raise(report.KindInternal, op.Span(),
			"instance field access is not supported by the code generator")

	case *ast.MethodDecl:
		fn, ok := l.gvMap[fieldDecl].(*ir.Function)
		if !ok {
			report.ReportICE("method `%s` has no function", fieldDecl.Name())
		}

		if fieldDecl.Modifiers.IsStatic() {
			return cgValue{kind: kindStaticFn, fn: fn}, nil
		}

		return cgValue{kind: kindMemberFn, fn: fn, recv: lhs.asRValue(l)}, nil
	}

	// Field came in pre-resolved as a value (static access through a type
	// name chain).
	if field.kind == kindLValue || field.kind == kindRValue {
		return field, nil
	}

	return cgValue{}, report.Raise(report.KindInternal, op.Span(),
		"member access was not resolved before lowering")
}

func (hk *cgHooks) EvalMethodCall(op *ast.MethodInvocation, method cgValue, args []cgValue) (cgValue, error) {
	l := hk.l
	aTy := op.ResultType()

	var callArgs []ir.Value
	var callee *ir.Function

	switch method.kind {
	case kindStaticFn:
		callee = method.fn
	case kindMemberFn:
		callee = method.fn
		callArgs = append(callArgs, method.recv)
	case kindAstDecl:
		// A bare instance method call takes the enclosing receiver.
		md, ok := method.decl.(*ast.MethodDecl)
		if !ok || md.Modifiers.IsStatic() || l.thisSlot == nil || method.fn == nil {
			return cgValue{}, report.Raise(report.KindInternal, op.Span(),
				"called method was not resolved before lowering")
		}

		callee = method.fn
		callArgs = append(callArgs, l.builder.BuildLoad(l.ctx.PointerTy(), l.thisSlot))
	default:
		return cgValue{}, report.Raise(report.KindInternal, op.Span(),
			"called method was not resolved before lowering")
	}

	for _, arg := range args {
		callArgs = append(callArgs, arg.asRValue(l))
	}

	call := l.builder.BuildCall(callee, callArgs...)
	return rvalueOf(aTy, call), nil
}

func (hk *cgHooks) EvalNewObject(op *ast.ClassInstanceCreation, ctor cgValue, args []cgValue) (cgValue, error) {
	l := hk.l

	// Evaluate the arguments for effect; object layouts and constructor
	// dispatch are not modelled yet, so the expression yields null.
	for _, arg := range args {
		arg.asRValue(l)
	}

	return rvalueOf(op.ResultType(), l.ctx.NullPointer()), nil
}

// EvalNewArray allocates len*sizeof(elem) bytes through the malloc
// intrinsic, stores length and data pointer into a stack struct, and yields
// an l-value pointer to that struct.
func (hk *cgHooks) EvalNewArray(op *ast.ArrayInstanceCreation, elem, size cgValue) (cgValue, error) {
	l := hk.l
	aTy := op.ResultType()
	arrTy := l.arrayStructType()
	elemTy := l.emitType(elem.astType)

	arrLength := l.castIntegerType(nil, l.ctx.Int32Type(), size).asRValue(l)
	elemBytes := elemTy.SizeBits(l.ctx.TI()) / 8
	if elemBytes == 0 {
		elemBytes = 1
	}

	totalSz := l.builder.BuildBinary(ir.BinMul, arrLength, l.ctx.ConstInt32(int64(elemBytes)))
	totalSz.SetName("arr.sz")

	arrPtr := l.builder.BuildCall(l.unit.Intrinsic(ir.IntrinsicMalloc), totalSz)
	arrPtr.SetName("arr.ptr")

	slot := l.curFn.CreateAlloca(arrTy)
	slot.SetName("arr.alloca")

	szGep := l.builder.BuildGEP(arrTy, slot, l.ctx.ConstInt32(0))
	szGep.SetName("arr.gep.sz")
	l.builder.BuildStore(arrLength, szGep)

	ptrGep := l.builder.BuildGEP(arrTy, slot, l.ctx.ConstInt32(1))
	ptrGep.SetName("arr.gep.ptr")
	l.builder.BuildStore(arrPtr, ptrGep)

	return lvalueOf(aTy, arrTy, slot), nil
}

// EvalArrayAccess emits the bounds-checked element access: load the length,
// compare the index, branch to an out-of-bounds block that calls
// __exception, and compute the element address in the in-bounds block.
func (hk *cgHooks) EvalArrayAccess(op *ast.ArrayAccess, arr, idx cgValue) (cgValue, error) {
	l := hk.l
	elemAstTy := op.ResultType()
	arrTy := l.arrayStructType()

	arrSlot := arr.asLValue()

	szGep := l.builder.BuildGEP(arrTy, arrSlot, l.ctx.ConstInt32(0))
	szGep.SetName("arr.gep.sz")
	arrSz := l.builder.BuildLoad(l.ctx.Int32Type(), szGep)
	arrSz.SetName("arr.sz")

	ptrGep := l.builder.BuildGEP(arrTy, arrSlot, l.ctx.ConstInt32(1))
	ptrGep.SetName("arr.gep.ptr")
	arrPtr := l.builder.BuildLoad(l.ctx.PointerTy(), ptrGep)
	arrPtr.SetName("arr.ptr")

	idxVal := l.castIntegerType(nil, l.ctx.Int32Type(), idx).asRValue(l)
	inBounds := l.builder.BuildCmp(ir.PredLT, idxVal, arrSz)

	bbOOB := l.curFn.NewBlock()
	bbOOB.SetName("array.oob")
	bbIn := l.curFn.NewBlock()
	bbIn.SetName("array.inbounds")

	l.builder.BuildCondBr(inBounds, bbIn, bbOOB)

	l.builder.MoveToEnd(bbOOB)
	l.builder.BuildCall(l.unit.Intrinsic(ir.IntrinsicException))
	l.builder.BuildBr(bbIn)

	l.builder.MoveToEnd(bbIn)
	elemPtr := l.builder.BuildGEP(arrTy, arrPtr, idxVal)
	return lvalueOf(elemAstTy, l.emitType(elemAstTy), elemPtr), nil
}

func (hk *cgHooks) EvalCast(op *ast.Cast, ty, val cgValue) (cgValue, error) {
	l := hk.l
	aTy := op.ResultType()
	castType := ty.astType

	if ast.IsNumeric(castType) {
		return l.castIntegerType(aTy, l.emitType(castType), val), nil
	}

	// Boolean casts are identity; reference and array casts do not change
	// the representation.
	return val, nil
}

// -----------------------------------------------------------------------------

// promotePair widens mixed-width integer comparison operands to i32.
func (l *Lowerer) promotePair(lhs cgValue, lv ir.Value, rhs cgValue, rv ir.Value) (ir.Value, ir.Value) {
	lt, lok := lv.Type().(*ir.IntegerType)
	rt, rok := rv.Type().(*ir.IntegerType)
	if !lok || !rok || lt.Bits == rt.Bits {
		return lv, rv
	}

	i32 := l.ctx.Int32Type()
	lv = l.castIntegerType(lhs.astType, i32, rvalueOf(lhs.astType, lv)).asRValue(l)
	rv = l.castIntegerType(rhs.astType, i32, rvalueOf(rhs.astType, rv)).asRValue(l)
	return lv, rv
}

// castIntegerType converts a value to the destination integer width:
// narrowing truncates, widening sign-extends for signed sources and
// zero-extends for char.
func (l *Lowerer) castIntegerType(aTy ast.Type, ty ir.Type, value cgValue) cgValue {
	destInt, ok := ty.(*ir.IntegerType)
	if !ok {
		return value
	}

	v := value.asRValue(l)
	srcInt, ok := v.Type().(*ir.IntegerType)
	if !ok {
		return value
	}

	switch {
	case destInt.Bits < srcInt.Bits:
		return rvalueOf(aTy, l.builder.BuildICast(ir.CastTrunc, v, destInt))
	case destInt.Bits > srcInt.Bits && isUnsignedSource(value.astType):
		return rvalueOf(aTy, l.builder.BuildICast(ir.CastZExt, v, destInt))
	case destInt.Bits > srcInt.Bits:
		return rvalueOf(aTy, l.builder.BuildICast(ir.CastSExt, v, destInt))
	default:
		return rvalueOf(aTy, v)
	}
}
