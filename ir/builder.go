package ir

import "joosc/report"

// IRBuilder appends instructions at an insert point.  Apart from entry-block
// allocas, which Function.CreateAlloca places directly, instruction
// construction in the code generator goes through a builder so every
// instruction lands in a block.
type IRBuilder struct {
	ctx   *Context
	block *BasicBlock
}

// NewBuilder creates a builder for the given context with no insert point.
func (ctx *Context) NewBuilder() *IRBuilder {
	return &IRBuilder{ctx: ctx}
}

// Ctx returns the builder's context.
func (b *IRBuilder) Ctx() *Context {
	return b.ctx
}

// MoveToEnd positions the builder at the end of the given block.
func (b *IRBuilder) MoveToEnd(block *BasicBlock) {
	b.block = block
}

// Block returns the block the builder is positioned on.
func (b *IRBuilder) Block() *BasicBlock {
	return b.block
}

func (b *IRBuilder) insert(inst Instruction) {
	if b.block == nil {
		report.ReportICE("IR builder has no insert point")
	}

	b.block.appendInstr(inst)
}

// -----------------------------------------------------------------------------

// BuildAlloca reserves a stack slot at the current insert point.
func (b *IRBuilder) BuildAlloca(ty Type) *AllocaInst {
	inst := &AllocaInst{
		instrBase: instrBase{b.ctx.newUserBase(b.ctx.PointerTy())},
		AllocTy:   ty,
	}
	b.insert(inst)
	return inst
}

// BuildLoad reads a value of type ty through ptr.
func (b *IRBuilder) BuildLoad(ty Type, ptr Value) *LoadInst {
	inst := newLoad(b.ctx, ty, ptr)
	b.insert(inst)
	return inst
}

// BuildStore writes val through ptr.
func (b *IRBuilder) BuildStore(val, ptr Value) *StoreInst {
	inst := newStore(b.ctx, val, ptr)
	b.insert(inst)
	return inst
}

// BuildGEP computes an element address into the given struct layout.
func (b *IRBuilder) BuildGEP(structTy *StructType, base Value, indices ...Value) *GetElementPtrInst {
	inst := newGEP(b.ctx, structTy, base, indices)
	b.insert(inst)
	return inst
}

// BuildBinary applies a binary operation.
func (b *IRBuilder) BuildBinary(op BinOp, lhs, rhs Value) *BinaryInst {
	inst := newBinary(b.ctx, op, lhs, rhs)
	b.insert(inst)
	return inst
}

// BuildCmp compares two values and yields i1.
func (b *IRBuilder) BuildCmp(pred Predicate, lhs, rhs Value) *CmpInst {
	inst := newCmp(b.ctx, pred, lhs, rhs)
	b.insert(inst)
	return inst
}

// BuildICast converts an integer value to the destination width.
func (b *IRBuilder) BuildICast(op CastOp, val Value, destTy Type) *ICastInst {
	inst := newICast(b.ctx, op, val, destTy)
	b.insert(inst)
	return inst
}

// BuildCall calls a function with the given arguments.
func (b *IRBuilder) BuildCall(callee *Function, args ...Value) *CallInst {
	inst := newCall(b.ctx, callee, args)
	b.insert(inst)
	return inst
}

// BuildBr branches unconditionally to target.
func (b *IRBuilder) BuildBr(target *BasicBlock) *BranchInst {
	inst := newBr(b.ctx, target)
	b.insert(inst)
	return inst
}

// BuildCondBr branches on cond to ifTrue or ifFalse.
func (b *IRBuilder) BuildCondBr(cond Value, ifTrue, ifFalse *BasicBlock) *BranchInst {
	inst := newCondBr(b.ctx, cond, ifTrue, ifFalse)
	b.insert(inst)
	return inst
}

// BuildRet returns from the function; val may be nil for void.
func (b *IRBuilder) BuildRet(val Value) *ReturnInst {
	inst := newRet(b.ctx, val)
	b.insert(inst)
	return inst
}
