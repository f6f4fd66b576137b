package ir

import (
	"fmt"
	"strings"
)

// Opcode tags every instruction kind.
type Opcode int

// Enumeration of instruction opcodes.
const (
	OpAlloca Opcode = iota
	OpLoad
	OpStore
	OpGetElementPtr
	OpBinary
	OpCmp
	OpICast
	OpCall
	OpBr
	OpRet
)

// Instruction is a user with an opcode tag, owned by a basic block.
type Instruction interface {
	User

	// Opcode returns the opcode tag.
	Opcode() Opcode

	// IsTerminator returns whether the instruction ends its block.
	IsTerminator() bool

	// String returns the printed instruction line.
	String() string

	// drop unlinks the instruction from its operands' user lists.
	drop()

	// base exposes the value base for in-package plumbing.
	base() *valueBase
}

// instrBase is the common embedding of all instructions.
type instrBase struct {
	userBase
}

func (ib *instrBase) IsTerminator() bool {
	return false
}

func (ib *instrBase) base() *valueBase {
	return &ib.valueBase
}

// -----------------------------------------------------------------------------

// BinOp enumerates the arithmetic and bitwise binary operations.
type BinOp int

const (
	BinAdd BinOp = iota
	BinSub
	BinMul
	BinDiv
	BinRem
	BinAnd
	BinOr
	BinXor
)

var binOpNames = [...]string{"add", "sub", "mul", "div", "rem", "and", "or", "xor"}

func (op BinOp) String() string {
	return binOpNames[op]
}

// Predicate enumerates the comparison predicates.
type Predicate int

const (
	PredEQ Predicate = iota
	PredNE
	PredLT
	PredLE
	PredGT
	PredGE
)

var predicateNames = [...]string{"eq", "ne", "lt", "le", "gt", "ge"}

func (p Predicate) String() string {
	return predicateNames[p]
}

// CastOp enumerates the integer cast operations.
type CastOp int

const (
	CastTrunc CastOp = iota
	CastSExt
	CastZExt
)

var castOpNames = [...]string{"trunc", "sext", "zext"}

func (op CastOp) String() string {
	return castOpNames[op]
}

// -----------------------------------------------------------------------------

// AllocaInst reserves a stack slot and yields a pointer to it.
type AllocaInst struct {
	instrBase

	// AllocTy is the type of the reserved storage.
	AllocTy Type
}

func (in *AllocaInst) Opcode() Opcode { return OpAlloca }
func (in *AllocaInst) drop()          { in.dropOperands(in) }

func (in *AllocaInst) String() string {
	return fmt.Sprintf("%s = alloca %s", in.printName(), in.AllocTy)
}

// -----------------------------------------------------------------------------

// LoadInst reads a value of the given type through a pointer.
type LoadInst struct {
	instrBase
}

func newLoad(ctx *Context, ty Type, ptr Value) *LoadInst {
	in := &LoadInst{instrBase{ctx.newUserBase(ty)}}
	in.addOperand(in, ptr)
	return in
}

func (in *LoadInst) Opcode() Opcode { return OpLoad }
func (in *LoadInst) drop()          { in.dropOperands(in) }

func (in *LoadInst) String() string {
	return fmt.Sprintf("%s = load %s, %s", in.printName(), in.ty, in.Operand(0).RefString())
}

// -----------------------------------------------------------------------------

// StoreInst writes a value through a pointer; it yields void.
type StoreInst struct {
	instrBase
}

func newStore(ctx *Context, val, ptr Value) *StoreInst {
	in := &StoreInst{instrBase{ctx.newUserBase(ctx.VoidTy())}}
	in.addOperand(in, val)
	in.addOperand(in, ptr)
	return in
}

func (in *StoreInst) Opcode() Opcode { return OpStore }
func (in *StoreInst) drop()          { in.dropOperands(in) }

func (in *StoreInst) String() string {
	return fmt.Sprintf("store %s, %s", in.Operand(0).RefString(), in.Operand(1).RefString())
}

// -----------------------------------------------------------------------------

// GetElementPtrInst computes a field or element address from a base pointer
// and indices into a struct layout.
type GetElementPtrInst struct {
	instrBase

	// StructTy is the layout the indices address into.
	StructTy *StructType
}

func newGEP(ctx *Context, structTy *StructType, base Value, indices []Value) *GetElementPtrInst {
	in := &GetElementPtrInst{
		instrBase: instrBase{ctx.newUserBase(ctx.PointerTy())},
		StructTy:  structTy,
	}
	in.addOperand(in, base)
	for _, idx := range indices {
		in.addOperand(in, idx)
	}

	return in
}

func (in *GetElementPtrInst) Opcode() Opcode { return OpGetElementPtr }
func (in *GetElementPtrInst) drop()          { in.dropOperands(in) }

func (in *GetElementPtrInst) String() string {
	return fmt.Sprintf("%s = getelementptr %s, %s",
		in.printName(), in.StructTy, operandList(in.operands))
}

// -----------------------------------------------------------------------------

// BinaryInst applies an arithmetic or bitwise operation to two operands of
// the same type.
type BinaryInst struct {
	instrBase

	// Op is the operation kind.
	Op BinOp
}

func newBinary(ctx *Context, op BinOp, lhs, rhs Value) *BinaryInst {
	in := &BinaryInst{
		instrBase: instrBase{ctx.newUserBase(lhs.Type())},
		Op:        op,
	}
	in.addOperand(in, lhs)
	in.addOperand(in, rhs)
	return in
}

func (in *BinaryInst) Opcode() Opcode { return OpBinary }
func (in *BinaryInst) drop()          { in.dropOperands(in) }

func (in *BinaryInst) String() string {
	return fmt.Sprintf("%s = %s %s, %s",
		in.printName(), in.Op, in.ty, operandList(in.operands))
}

// -----------------------------------------------------------------------------

// CmpInst compares two operands under a predicate and yields i1.
type CmpInst struct {
	instrBase

	// Pred is the comparison predicate.
	Pred Predicate
}

func newCmp(ctx *Context, pred Predicate, lhs, rhs Value) *CmpInst {
	in := &CmpInst{
		instrBase: instrBase{ctx.newUserBase(ctx.Int1Type())},
		Pred:      pred,
	}
	in.addOperand(in, lhs)
	in.addOperand(in, rhs)
	return in
}

func (in *CmpInst) Opcode() Opcode { return OpCmp }
func (in *CmpInst) drop()          { in.dropOperands(in) }

func (in *CmpInst) String() string {
	return fmt.Sprintf("%s = cmp %s %s, %s",
		in.printName(), in.Pred, in.Operand(0).Type(), operandList(in.operands))
}

// -----------------------------------------------------------------------------

// ICastInst converts an integer value to another integer width.
type ICastInst struct {
	instrBase

	// Op is the cast kind.
	Op CastOp
}

func newICast(ctx *Context, op CastOp, val Value, destTy Type) *ICastInst {
	in := &ICastInst{
		instrBase: instrBase{ctx.newUserBase(destTy)},
		Op:        op,
	}
	in.addOperand(in, val)
	return in
}

func (in *ICastInst) Opcode() Opcode { return OpICast }
func (in *ICastInst) drop()          { in.dropOperands(in) }

func (in *ICastInst) String() string {
	return fmt.Sprintf("%s = icast %s %s to %s",
		in.printName(), in.Op, in.Operand(0).RefString(), in.ty)
}

// -----------------------------------------------------------------------------

// CallInst calls a function.  Calls to noreturn callees terminate their
// block.
type CallInst struct {
	instrBase
}

func newCall(ctx *Context, callee *Function, args []Value) *CallInst {
	in := &CallInst{instrBase{ctx.newUserBase(callee.ReturnType())}}
	in.addOperand(in, callee)
	for _, arg := range args {
		in.addOperand(in, arg)
	}

	return in
}

// Callee returns the called function.
func (in *CallInst) Callee() *Function {
	return in.Operand(0).(*Function)
}

func (in *CallInst) Opcode() Opcode { return OpCall }
func (in *CallInst) drop()          { in.dropOperands(in) }

func (in *CallInst) IsTerminator() bool {
	return in.Callee().IsNoReturn()
}

func (in *CallInst) String() string {
	sb := strings.Builder{}
	if _, isVoid := in.ty.(*VoidType); !isVoid {
		sb.WriteString(in.printName())
		sb.WriteString(" = ")
	}

	sb.WriteString("call @")
	sb.WriteString(in.Callee().Name())
	sb.WriteRune('(')
	sb.WriteString(operandList(in.operands[1:]))
	sb.WriteRune(')')

	if in.IsTerminator() {
		sb.WriteString(" noreturn")
	}

	return sb.String()
}

// -----------------------------------------------------------------------------

// BranchInst transfers control: unconditionally with one label operand, or
// conditionally with a condition and two labels.
type BranchInst struct {
	instrBase
}

func newBr(ctx *Context, target *BasicBlock) *BranchInst {
	in := &BranchInst{instrBase{ctx.newUserBase(ctx.VoidTy())}}
	in.addOperand(in, target)
	return in
}

func newCondBr(ctx *Context, cond Value, ifTrue, ifFalse *BasicBlock) *BranchInst {
	in := &BranchInst{instrBase{ctx.newUserBase(ctx.VoidTy())}}
	in.addOperand(in, cond)
	in.addOperand(in, ifTrue)
	in.addOperand(in, ifFalse)
	return in
}

// IsConditional returns whether the branch carries a condition.
func (in *BranchInst) IsConditional() bool {
	return len(in.operands) == 3
}

func (in *BranchInst) Opcode() Opcode     { return OpBr }
func (in *BranchInst) drop()              { in.dropOperands(in) }
func (in *BranchInst) IsTerminator() bool { return true }

func (in *BranchInst) String() string {
	return "br " + operandList(in.operands)
}

// -----------------------------------------------------------------------------

// ReturnInst returns from the enclosing function, optionally with a value.
type ReturnInst struct {
	instrBase
}

func newRet(ctx *Context, val Value) *ReturnInst {
	ty := Type(ctx.VoidTy())
	if val != nil {
		ty = val.Type()
	}

	in := &ReturnInst{instrBase{ctx.newUserBase(ty)}}
	if val != nil {
		in.addOperand(in, val)
	}

	return in
}

func (in *ReturnInst) Opcode() Opcode     { return OpRet }
func (in *ReturnInst) drop()              { in.dropOperands(in) }
func (in *ReturnInst) IsTerminator() bool { return true }

func (in *ReturnInst) String() string {
	if len(in.operands) == 0 {
		return "ret"
	}

	return "ret " + in.Operand(0).RefString()
}
