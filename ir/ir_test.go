package ir

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_PrintedForms(t *testing.T) {
	ctx := NewContext(DefaultTarget)
	cu := NewCompilationUnit(ctx)

	fn := cu.CreateFunction(NewFunctionType(ctx.Int32Type(), ctx.Int32Type()), "f")
	require.NotNil(t, fn)

	entry := fn.NewBlock()
	entry.SetName("entry")

	b := ctx.NewBuilder()
	b.MoveToEnd(entry)

	slot := b.BuildAlloca(ctx.Int32Type())
	slot.SetName("x")

	// Values print as %name.id; functions as @name.
	assert.Contains(t, slot.String(), "%x.")
	assert.Contains(t, slot.String(), "= alloca i32")
	assert.Equal(t, "@f", fn.RefString())

	b.BuildStore(fn.Args()[0], slot)
	load := b.BuildLoad(ctx.Int32Type(), slot)
	b.BuildRet(load)

	printed := fn.String()
	assert.Contains(t, printed, "function i32 @f(")
	assert.Contains(t, printed, "store i32 %arg.")
	assert.Contains(t, printed, "= load i32, ptr %x.")
	assert.Contains(t, printed, "ret i32 %")
}

func TestFunction_ExternalPrintedForm(t *testing.T) {
	ctx := NewContext(DefaultTarget)
	cu := NewCompilationUnit(ctx)

	printed := cu.String()
	assert.Contains(t, printed, "function external ptr @malloc(i32 %arg.")
	assert.Contains(t, printed, "function external void @__exception() noreturn")
}

func TestUser_OperandRegistrationAppendsUser(t *testing.T) {
	ctx := NewContext(DefaultTarget)
	cu := NewCompilationUnit(ctx)

	fn := cu.CreateFunction(NewFunctionType(ctx.VoidTy()), "f")
	entry := fn.NewBlock()

	b := ctx.NewBuilder()
	b.MoveToEnd(entry)

	slot := b.BuildAlloca(ctx.Int32Type())
	st := b.BuildStore(ctx.ConstInt32(1), slot)
	ld := b.BuildLoad(ctx.Int32Type(), slot)

	users := slot.Users()
	require.Len(t, users, 2)
	assert.Contains(t, users, User(st))
	assert.Contains(t, users, User(ld))

	// Deleting an instruction walks the user lists of its operands.
	entry.RemoveInstr(ld)
	users = slot.Users()
	require.Len(t, users, 1)
	assert.Contains(t, users, User(st))
}

func TestCall_NoReturnTerminatesBlock(t *testing.T) {
	ctx := NewContext(DefaultTarget)
	cu := NewCompilationUnit(ctx)

	fn := cu.CreateFunction(NewFunctionType(ctx.VoidTy()), "f")
	entry := fn.NewBlock()

	b := ctx.NewBuilder()
	b.MoveToEnd(entry)

	call := b.BuildCall(cu.Intrinsic(IntrinsicException))
	assert.True(t, call.IsTerminator())
	assert.Contains(t, call.String(), "call @__exception()")
	assert.Contains(t, call.String(), "noreturn")

	term, ok := entry.Terminator()
	require.True(t, ok)
	assert.Equal(t, Instruction(call), term)
}

func TestIntrinsics_Registry(t *testing.T) {
	ctx := NewContext(DefaultTarget)
	cu := NewCompilationUnit(ctx)

	malloc := cu.Intrinsic(IntrinsicMalloc)
	require.NotNil(t, malloc)
	assert.Equal(t, "malloc", malloc.Name())
	assert.True(t, malloc.Attrs().Intrinsic)
	require.Len(t, malloc.FuncType().Params, 1)
	assert.True(t, SameIRType(malloc.FuncType().Params[0], ctx.Int32Type()))
	assert.True(t, SameIRType(malloc.ReturnType(), ctx.PointerTy()))

	exception := cu.Intrinsic(IntrinsicException)
	require.NotNil(t, exception)
	assert.True(t, exception.IsNoReturn())
}

func TestBranch_PrintedForms(t *testing.T) {
	ctx := NewContext(DefaultTarget)
	cu := NewCompilationUnit(ctx)

	fn := cu.CreateFunction(NewFunctionType(ctx.VoidTy()), "f")
	bb0 := fn.NewBlock()
	bb1 := fn.NewBlock()
	bb2 := fn.NewBlock()

	b := ctx.NewBuilder()
	b.MoveToEnd(bb0)

	cond := ctx.ConstBool(true)
	cb := b.BuildCondBr(cond, bb1, bb2)
	assert.True(t, cb.IsConditional())
	assert.True(t, strings.HasPrefix(cb.String(), "br i1 1, %bb."))

	b.MoveToEnd(bb1)
	ub := b.BuildBr(bb2)
	assert.False(t, ub.IsConditional())
	assert.True(t, strings.HasPrefix(ub.String(), "br %bb."))
}

func TestStructAndArrayTypes(t *testing.T) {
	ctx := NewContext(DefaultTarget)

	arr := NewStructType(ctx.Int32Type(), ctx.PointerTy())
	assert.Equal(t, "{i32, ptr}", arr.String())
	assert.Equal(t, 96, arr.SizeBits(ctx.TI()))

	vec := NewArrayType(ctx.Int8Type(), 4)
	assert.Equal(t, "[4 x i8]", vec.String())
	assert.Equal(t, 32, vec.SizeBits(ctx.TI()))
}
