package ir

// TargetInfo describes the properties of the machine the IR is lowered for.
type TargetInfo struct {
	// PointerSizeBits is the width of a pointer in bits.
	PointerSizeBits int

	// StackAlignment is the stack alignment in bytes.
	StackAlignment int
}

// DefaultTarget is a 64-bit target with 16-byte stack alignment.
var DefaultTarget = TargetInfo{PointerSizeBits: 64, StackAlignment: 16}

// Context owns the interned IR types and hands out the unique value IDs
// every value carries.  All values created against a context live as long as
// the context does.
type Context struct {
	ti TargetInfo

	valueCounter int

	voidTy    *VoidType
	labelTy   *LabelType
	pointerTy *PointerType
	intTys    map[int]*IntegerType

	nullPointer *ConstantNullPointer
}

// NewContext creates a context for the given target.
func NewContext(ti TargetInfo) *Context {
	ctx := &Context{
		ti:        ti,
		voidTy:    &VoidType{},
		labelTy:   &LabelType{},
		pointerTy: &PointerType{},
		intTys:    make(map[int]*IntegerType),
	}

	ctx.nullPointer = &ConstantNullPointer{valueBase: ctx.newValueBase(ctx.pointerTy)}
	return ctx
}

// TI returns the target info of the context.
func (ctx *Context) TI() TargetInfo {
	return ctx.ti
}

// nextValueID hands out the next unique value ID.
func (ctx *Context) nextValueID() int {
	id := ctx.valueCounter
	ctx.valueCounter++
	return id
}
