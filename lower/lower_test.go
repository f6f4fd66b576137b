package lower

import (
	"testing"

	"joosc/arena"
	"joosc/ast"
	"joosc/ir"
	"joosc/report"
	"joosc/resolve"
	"joosc/walk"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var nowhere = report.SourceRange{}

// compile builds, resolves, checks, and lowers a set of compilation units.
func compile(t *testing.T, units ...*ast.CompilationUnit) *ir.CompilationUnit {
	t.Helper()
	report.InitReporter(report.LogLevelSilent, nil)

	lu := ast.NewLinkingUnit(units)
	resolver := resolve.NewResolver(arena.New(), lu)
	resolver.Resolve()
	require.False(t, report.AnyErrors(), "resolution failed")

	walk.NewWalker(resolver, lu).Walk()
	require.False(t, report.AnyErrors(), "type checking failed")

	ctx := ir.NewContext(ir.DefaultTarget)
	unit := NewLowerer(ctx, resolver, lu).Lower()
	require.False(t, report.AnyErrors(), "lowering failed")
	return unit
}

func classUnit(pkg, name string, body ...ast.Decl) *ast.CompilationUnit {
	class := ast.NewClassDecl(name, ast.Modifiers{}, nil, nil, nil, body, nowhere)
	return ast.NewCompilationUnit(ast.NewUnresolvedType([]string{pkg}, nowhere), nil, class, nowhere)
}

func boolType() *ast.BuiltInType {
	return ast.NewBuiltInType(ast.BooleanKind, nowhere)
}

func intType() *ast.BuiltInType {
	return ast.NewBuiltInType(ast.IntKind, nowhere)
}

func staticMods() ast.Modifiers {
	var mods ast.Modifiers
	mods.Set(ast.ModStatic, nowhere)
	return mods
}

func nameRef(name string) []ast.ExprNode {
	return []ast.ExprNode{ast.NewMemberName(name, nowhere)}
}

// instrs flattens every instruction of a function.
func instrs(fn *ir.Function) []ir.Instruction {
	var out []ir.Instruction
	for _, bb := range fn.Blocks() {
		out = append(out, bb.Instrs()...)
	}

	return out
}

// -----------------------------------------------------------------------------

func TestLower_ShortCircuitAnd(t *testing.T) {
	// static boolean f(boolean p, boolean q) { boolean r = p && q; return r; }
	p := ast.NewVarDecl("p", boolType(), nil, nil, true, nowhere)
	q := ast.NewVarDecl("q", boolType(), nil, nil, true, nowhere)

	andExpr := ast.NewExpr(append(append(nameRef("p"), nameRef("q")...),
		ast.NewBinaryOp(ast.BinAnd, nowhere)), nowhere)

	r := ast.NewVarDecl("r", boolType(), andExpr, nil, false, nowhere)

	body := ast.NewBlockStmt([]ast.Stmt{
		ast.NewDeclStmt(r, nowhere),
		ast.NewReturnStmt(ast.NewExpr(nameRef("r"), nowhere), nowhere),
	}, nowhere)

	method := ast.NewMethodDecl("f", staticMods(), boolType(), []*ast.VarDecl{p, q}, false, body, nowhere)
	method.AddLocals([]*ast.VarDecl{r})

	unit := compile(t, classUnit("m", "Main", method))

	fn := unit.FindFunction("m.Main.f")
	require.NotNil(t, fn)

	// Exactly one scratch i1 slot, two stores into it, and two branches.
	var scratch *ir.AllocaInst
	scratchCount := 0
	branchCount := 0
	for _, inst := range instrs(fn) {
		switch in := inst.(type) {
		case *ir.AllocaInst:
			if in.Name() == "and.tmp" {
				scratch = in
				scratchCount++
			}
		case *ir.BranchInst:
			branchCount++
		}
	}

	require.Equal(t, 1, scratchCount)
	assert.Equal(t, 2, branchCount)
	assert.True(t, ir.SameIRType(scratch.AllocTy, ir.Type(&ir.IntegerType{Bits: 1})))

	// The scratch slot's users are the two stores plus the final load.
	stores := 0
	loads := 0
	for _, user := range scratch.Users() {
		switch user.(type) {
		case *ir.StoreInst:
			stores++
		case *ir.LoadInst:
			loads++
		}
	}

	assert.Equal(t, 2, stores)
	assert.Equal(t, 1, loads)

	// The conditional branch precedes the unconditional one, and the rhs
	// store happens in the taken block.
	require.Len(t, fn.Blocks(), 3)
	assert.Equal(t, "and.true", fn.Blocks()[1].Name())
	assert.Equal(t, "and.after", fn.Blocks()[2].Name())
}

func TestLower_ShortCircuitOrSwapsTargets(t *testing.T) {
	p := ast.NewVarDecl("p", boolType(), nil, nil, true, nowhere)
	q := ast.NewVarDecl("q", boolType(), nil, nil, true, nowhere)

	orExpr := ast.NewExpr(append(append(nameRef("p"), nameRef("q")...),
		ast.NewBinaryOp(ast.BinOr, nowhere)), nowhere)

	body := ast.NewBlockStmt([]ast.Stmt{
		ast.NewReturnStmt(orExpr, nowhere),
	}, nowhere)

	method := ast.NewMethodDecl("f", staticMods(), boolType(), []*ast.VarDecl{p, q}, false, body, nowhere)
	unit := compile(t, classUnit("m", "Main", method))

	fn := unit.FindFunction("m.Main.f")
	require.NotNil(t, fn)

	// The conditional branch of a disjunction jumps to the after block
	// when the lhs is already true.
	var condBr *ir.BranchInst
	for _, inst := range instrs(fn) {
		if br, ok := inst.(*ir.BranchInst); ok && br.IsConditional() {
			condBr = br
			break
		}
	}

	require.NotNil(t, condBr)
	assert.Equal(t, "or.after", condBr.Operand(1).(*ir.BasicBlock).Name())
	assert.Equal(t, "or.false", condBr.Operand(2).(*ir.BasicBlock).Name())
}

func TestLower_ArrayAccessBoundsCheck(t *testing.T) {
	// static int f(int[] arr, int i) { return arr[i]; }
	arr := ast.NewVarDecl("arr", ast.NewArrayType(intType(), nowhere), nil, nil, true, nowhere)
	idx := ast.NewVarDecl("i", intType(), nil, nil, true, nowhere)

	access := ast.NewExpr([]ast.ExprNode{
		ast.NewMemberName("arr", nowhere),
		ast.NewMemberName("i", nowhere),
		ast.NewArrayAccess(nowhere),
	}, nowhere)

	body := ast.NewBlockStmt([]ast.Stmt{
		ast.NewReturnStmt(access, nowhere),
	}, nowhere)

	method := ast.NewMethodDecl("f", staticMods(), intType(), []*ast.VarDecl{arr, idx}, false, body, nowhere)
	unit := compile(t, classUnit("m", "Main", method))

	fn := unit.FindFunction("m.Main.f")
	require.NotNil(t, fn)

	// A cmp LT between the index and the loaded length feeds a branch
	// whose false edge enters the out-of-bounds block.
	var cmp *ir.CmpInst
	var condBr *ir.BranchInst
	for _, inst := range instrs(fn) {
		switch in := inst.(type) {
		case *ir.CmpInst:
			cmp = in
		case *ir.BranchInst:
			if in.IsConditional() && condBr == nil {
				condBr = in
			}
		}
	}

	require.NotNil(t, cmp)
	assert.Equal(t, ir.PredLT, cmp.Pred)

	lenLoad, ok := cmp.Operand(1).(*ir.LoadInst)
	require.True(t, ok)
	assert.Equal(t, "arr.sz", lenLoad.Name())

	require.NotNil(t, condBr)
	oob := condBr.Operand(2).(*ir.BasicBlock)
	assert.Equal(t, "array.oob", oob.Name())

	// The out-of-bounds block calls __exception before the in-bounds
	// element access runs.
	require.NotEmpty(t, oob.Instrs())
	call, ok := oob.Instrs()[0].(*ir.CallInst)
	require.True(t, ok)
	assert.Equal(t, "__exception", call.Callee().Name())
}

func TestLower_ArrayCreationCallsMalloc(t *testing.T) {
	// static int f() { int[] a = new int[4]; return a.length; }
	newArr := ast.NewExpr([]ast.ExprNode{
		ast.NewTypeNode(intType(), nowhere),
		ast.NewLiteralNode(ast.LitInt, "4", nowhere),
		ast.NewArrayInstanceCreation(nowhere),
	}, nowhere)

	a := ast.NewVarDecl("a", ast.NewArrayType(intType(), nowhere), newArr, nil, false, nowhere)

	lengthExpr := ast.NewExpr([]ast.ExprNode{
		ast.NewMemberName("a", nowhere),
		ast.NewMemberName("length", nowhere),
		ast.NewMemberAccess(nowhere),
	}, nowhere)

	body := ast.NewBlockStmt([]ast.Stmt{
		ast.NewDeclStmt(a, nowhere),
		ast.NewReturnStmt(lengthExpr, nowhere),
	}, nowhere)

	method := ast.NewMethodDecl("f", staticMods(), intType(), nil, false, body, nowhere)
	method.AddLocals([]*ast.VarDecl{a})

	unit := compile(t, classUnit("m", "Main", method))

	fn := unit.FindFunction("m.Main.f")
	require.NotNil(t, fn)

	// The allocation size is len * sizeof(elem) fed into malloc.
	var mallocCall *ir.CallInst
	var sizeMul *ir.BinaryInst
	for _, inst := range instrs(fn) {
		switch in := inst.(type) {
		case *ir.CallInst:
			if in.Callee().Name() == "malloc" {
				mallocCall = in
			}
		case *ir.BinaryInst:
			if in.Op == ir.BinMul {
				sizeMul = in
			}
		}
	}

	require.NotNil(t, mallocCall)
	require.NotNil(t, sizeMul)
	assert.Equal(t, ir.Value(sizeMul), mallocCall.Operand(1))

	elemBytes, ok := sizeMul.Operand(1).(*ir.ConstantInt)
	require.True(t, ok)
	assert.Equal(t, int64(4), elemBytes.Value())
}

func TestLower_StaticFieldsAndInit(t *testing.T) {
	// class C { static int x = 5; }
	init := ast.NewExpr([]ast.ExprNode{
		ast.NewLiteralNode(ast.LitInt, "5", nowhere),
	}, nowhere)

	field := ast.NewFieldDecl("x", staticMods(), intType(), init, ast.NewScope().Child(), nowhere)
	unit := compile(t, classUnit("p", "C", field))

	gv := unit.FindGlobalVariable("p.C.x")
	require.NotNil(t, gv)
	assert.True(t, ir.SameIRType(gv.ValueTy, ir.Type(&ir.IntegerType{Bits: 32})))

	initFn := unit.FindFunction("__static_init")
	require.NotNil(t, initFn)

	foundStore := false
	for _, inst := range instrs(initFn) {
		if st, ok := inst.(*ir.StoreInst); ok && st.Operand(1) == ir.Value(gv) {
			foundStore = true
			c, ok := st.Operand(0).(*ir.ConstantInt)
			require.True(t, ok)
			assert.Equal(t, int64(5), c.Value())
		}
	}

	assert.True(t, foundStore)
}

func TestLower_StaticMethodCall(t *testing.T) {
	// class C { static int g() { return 7; }  static int f() { return g(); } }
	gBody := ast.NewBlockStmt([]ast.Stmt{
		ast.NewReturnStmt(ast.NewExpr([]ast.ExprNode{
			ast.NewLiteralNode(ast.LitInt, "7", nowhere),
		}, nowhere), nowhere),
	}, nowhere)
	g := ast.NewMethodDecl("g", staticMods(), intType(), nil, false, gBody, nowhere)

	callExpr := ast.NewExpr([]ast.ExprNode{
		ast.NewMemberName("g", nowhere),
		ast.NewMethodInvocation(1, nowhere),
	}, nowhere)

	fBody := ast.NewBlockStmt([]ast.Stmt{
		ast.NewReturnStmt(callExpr, nowhere),
	}, nowhere)
	f := ast.NewMethodDecl("f", staticMods(), intType(), nil, false, fBody, nowhere)

	unit := compile(t, classUnit("p", "C", g, f))

	fn := unit.FindFunction("p.C.f")
	require.NotNil(t, fn)

	var call *ir.CallInst
	for _, inst := range instrs(fn) {
		if in, ok := inst.(*ir.CallInst); ok {
			call = in
		}
	}

	require.NotNil(t, call)
	assert.Equal(t, "p.C.g", call.Callee().Name())
}

func TestLower_ArithmeticPromotion(t *testing.T) {
	// static int f(short a, short b) { return a + b; }
	a := ast.NewVarDecl("a", ast.NewBuiltInType(ast.ShortKind, nowhere), nil, nil, true, nowhere)
	b := ast.NewVarDecl("b", ast.NewBuiltInType(ast.ShortKind, nowhere), nil, nil, true, nowhere)

	sum := ast.NewExpr(append(append(nameRef("a"), nameRef("b")...),
		ast.NewBinaryOp(ast.BinAdd, nowhere)), nowhere)

	body := ast.NewBlockStmt([]ast.Stmt{
		ast.NewReturnStmt(sum, nowhere),
	}, nowhere)

	method := ast.NewMethodDecl("f", staticMods(), intType(), []*ast.VarDecl{a, b}, false, body, nowhere)
	unit := compile(t, classUnit("m", "Main", method))

	fn := unit.FindFunction("m.Main.f")
	require.NotNil(t, fn)

	// Both short operands widen to i32 before the add.
	sexts := 0
	var add *ir.BinaryInst
	for _, inst := range instrs(fn) {
		switch in := inst.(type) {
		case *ir.ICastInst:
			if in.Op == ir.CastSExt {
				sexts++
			}
		case *ir.BinaryInst:
			add = in
		}
	}

	assert.Equal(t, 2, sexts)
	require.NotNil(t, add)
	assert.True(t, ir.SameIRType(add.Type(), ir.Type(&ir.IntegerType{Bits: 32})))
}
