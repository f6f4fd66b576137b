package generate

import (
	"strings"
	"testing"

	irx "joosc/ir"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_SimpleFunction(t *testing.T) {
	ctx := irx.NewContext(irx.DefaultTarget)
	cu := irx.NewCompilationUnit(ctx)

	fn := cu.CreateFunction(irx.NewFunctionType(ctx.Int32Type(), ctx.Int32Type()), "double")
	entry := fn.NewBlock()
	entry.SetName("entry")

	b := ctx.NewBuilder()
	b.MoveToEnd(entry)

	sum := b.BuildBinary(irx.BinAdd, fn.Args()[0], fn.Args()[0])
	b.BuildRet(sum)

	mod := NewGenerator(cu).Generate()
	text := mod.String()

	assert.Contains(t, text, "define i32 @double(i32 %arg0)")
	assert.Contains(t, text, "add i32")
	assert.Contains(t, text, "ret i32")

	// The intrinsics come through as external declarations.
	assert.Contains(t, text, "declare external i8* @malloc(i32 %arg0)")
	assert.Contains(t, text, "declare external void @__exception()")
}

func TestGenerate_ControlFlowAndMemory(t *testing.T) {
	ctx := irx.NewContext(irx.DefaultTarget)
	cu := irx.NewCompilationUnit(ctx)

	cu.CreateGlobalVariable(ctx.Int32Type(), "counter")

	fn := cu.CreateFunction(irx.NewFunctionType(ctx.VoidTy(), ctx.Int1Type()), "bump")
	entry := fn.NewBlock()
	thenBB := fn.NewBlock()
	afterBB := fn.NewBlock()

	b := ctx.NewBuilder()
	b.MoveToEnd(entry)
	b.BuildCondBr(fn.Args()[0], thenBB, afterBB)

	b.MoveToEnd(thenBB)
	gv := cu.FindGlobalVariable("counter")
	loaded := b.BuildLoad(ctx.Int32Type(), gv)
	bumped := b.BuildBinary(irx.BinAdd, loaded, ctx.ConstInt32(1))
	b.BuildStore(bumped, gv)
	b.BuildBr(afterBB)

	b.MoveToEnd(afterBB)
	b.BuildRet(nil)

	mod := NewGenerator(cu).Generate()
	text := mod.String()

	assert.Contains(t, text, "@counter = global i32")
	assert.Contains(t, text, "br i1 %arg0")
	assert.Contains(t, text, "load i32")
	assert.Contains(t, text, "store i32")
	assert.True(t, strings.Contains(text, "ret void"))
}

func TestGenerate_NoReturnCallGetsUnreachable(t *testing.T) {
	ctx := irx.NewContext(irx.DefaultTarget)
	cu := irx.NewCompilationUnit(ctx)

	fn := cu.CreateFunction(irx.NewFunctionType(ctx.VoidTy()), "die")
	entry := fn.NewBlock()

	b := ctx.NewBuilder()
	b.MoveToEnd(entry)
	b.BuildCall(cu.Intrinsic(irx.IntrinsicException))

	mod := NewGenerator(cu).Generate()
	text := mod.String()

	require.Contains(t, text, "call void @__exception()")

	// The joosc block ends at the noreturn call; LLVM requires an explicit
	// terminator after it.
	assert.Contains(t, text, "unreachable")
}
