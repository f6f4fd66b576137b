package ir

import "fmt"

// ConstantInt is an integer or boolean constant.
type ConstantInt struct {
	valueBase

	val int64
}

// ConstInt creates an integer constant of the given type.
func (ctx *Context) ConstInt(ty *IntegerType, val int64) *ConstantInt {
	return &ConstantInt{valueBase: ctx.newValueBase(ty), val: val}
}

// ConstInt32 creates an i32 constant.
func (ctx *Context) ConstInt32(val int64) *ConstantInt {
	return ctx.ConstInt(ctx.Int32Type(), val)
}

// ConstBool creates an i1 constant.
func (ctx *Context) ConstBool(val bool) *ConstantInt {
	v := int64(0)
	if val {
		v = 1
	}

	return ctx.ConstInt(ctx.Int1Type(), v)
}

// AllOnes creates a constant with every bit of the given type set.
func (ctx *Context) AllOnes(ty *IntegerType) *ConstantInt {
	if ty.Bits >= 64 {
		return ctx.ConstInt(ty, -1)
	}

	return ctx.ConstInt(ty, (1<<uint(ty.Bits))-1)
}

// Zero creates the zero constant of the given type.
func (ctx *Context) Zero(ty *IntegerType) *ConstantInt {
	return ctx.ConstInt(ty, 0)
}

// Value returns the constant's integer value.
func (ci *ConstantInt) Value() int64 {
	return ci.val
}

// RefString prints a constant inline as `type value`.
func (ci *ConstantInt) RefString() string {
	return fmt.Sprintf("%s %d", ci.ty, ci.val)
}

// -----------------------------------------------------------------------------

// ConstantNullPointer is the null pointer constant, interned per context.
type ConstantNullPointer struct {
	valueBase
}

// NullPointer returns the interned null pointer constant.
func (ctx *Context) NullPointer() *ConstantNullPointer {
	return ctx.nullPointer
}

func (cn *ConstantNullPointer) RefString() string {
	return "ptr null"
}
