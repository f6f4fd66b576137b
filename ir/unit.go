package ir

import "strings"

// IntrinsicKind keys the registry of runtime intrinsics.
type IntrinsicKind int

// Enumeration of intrinsic kinds.
const (
	// IntrinsicMalloc is the runtime allocator: malloc(i32) -> ptr.
	IntrinsicMalloc IntrinsicKind = iota

	// IntrinsicException is the runtime exception trampoline:
	// __exception() -> void, noreturn.
	IntrinsicException
)

var intrinsicNames = [...]string{"malloc", "__exception"}

// IntrinsicName returns the reserved function name of the given intrinsic.
func IntrinsicName(kind IntrinsicKind) string {
	return intrinsicNames[kind]
}

// -----------------------------------------------------------------------------

// CompilationUnit owns the global objects of one IR module: functions,
// global variables, and the intrinsic registry.
type CompilationUnit struct {
	ctx *Context

	globals map[string]GlobalObject
	order   []GlobalObject

	intrinsics map[IntrinsicKind]*Function
}

// NewCompilationUnit creates an empty unit and registers the runtime
// intrinsics.
func NewCompilationUnit(ctx *Context) *CompilationUnit {
	cu := &CompilationUnit{
		ctx:        ctx,
		globals:    make(map[string]GlobalObject),
		intrinsics: make(map[IntrinsicKind]*Function),
	}

	cu.registerIntrinsics()
	return cu
}

// Ctx returns the unit's context.
func (cu *CompilationUnit) Ctx() *Context {
	return cu.ctx
}

// CreateFunction creates a function with the given type and name, or
// returns nil if the name is taken.
func (cu *CompilationUnit) CreateFunction(ty *FunctionType, name string) *Function {
	if _, ok := cu.globals[name]; ok {
		return nil
	}

	fn := newFunction(cu.ctx, ty, name)
	cu.globals[name] = fn
	cu.order = append(cu.order, fn)
	return fn
}

// CreateGlobalVariable creates a global variable with the given storage
// type and name, or returns nil if the name is taken.
func (cu *CompilationUnit) CreateGlobalVariable(ty Type, name string) *GlobalVariable {
	if _, ok := cu.globals[name]; ok {
		return nil
	}

	gv := newGlobalVariable(cu.ctx, ty, name)
	cu.globals[name] = gv
	cu.order = append(cu.order, gv)
	return gv
}

// FindFunction returns the function registered under name, if any.
func (cu *CompilationUnit) FindFunction(name string) *Function {
	if fn, ok := cu.globals[name].(*Function); ok {
		return fn
	}

	return nil
}

// FindGlobalVariable returns the global variable registered under name, if
// any.
func (cu *CompilationUnit) FindGlobalVariable(name string) *GlobalVariable {
	if gv, ok := cu.globals[name].(*GlobalVariable); ok {
		return gv
	}

	return nil
}

// RemoveGlobalObject drops the global registered under name.
func (cu *CompilationUnit) RemoveGlobalObject(name string) {
	obj, ok := cu.globals[name]
	if !ok {
		return
	}

	delete(cu.globals, name)
	for i, o := range cu.order {
		if o == obj {
			cu.order = append(cu.order[:i], cu.order[i+1:]...)
			return
		}
	}
}

// GlobalObjects returns every global object in creation order.
func (cu *CompilationUnit) GlobalObjects() []GlobalObject {
	out := make([]GlobalObject, len(cu.order))
	copy(out, cu.order)
	return out
}

// Functions returns every function in creation order.
func (cu *CompilationUnit) Functions() []*Function {
	var fns []*Function
	for _, obj := range cu.order {
		if fn, ok := obj.(*Function); ok {
			fns = append(fns, fn)
		}
	}

	return fns
}

// GlobalVariables returns every global variable in creation order.
func (cu *CompilationUnit) GlobalVariables() []*GlobalVariable {
	var gvs []*GlobalVariable
	for _, obj := range cu.order {
		if gv, ok := obj.(*GlobalVariable); ok {
			gvs = append(gvs, gv)
		}
	}

	return gvs
}

// -----------------------------------------------------------------------------

// Intrinsic returns the function backing the given intrinsic kind.
func (cu *CompilationUnit) Intrinsic(kind IntrinsicKind) *Function {
	return cu.intrinsics[kind]
}

// registerIntrinsics declares the runtime intrinsics as external functions.
func (cu *CompilationUnit) registerIntrinsics() {
	ctx := cu.ctx

	malloc := cu.CreateFunction(NewFunctionType(ctx.PointerTy(), ctx.Int32Type()), IntrinsicName(IntrinsicMalloc))
	malloc.SetAttrs(FuncAttrs{Intrinsic: true})
	cu.intrinsics[IntrinsicMalloc] = malloc

	exception := cu.CreateFunction(NewFunctionType(ctx.VoidTy()), IntrinsicName(IntrinsicException))
	exception.SetAttrs(FuncAttrs{Intrinsic: true, NoReturn: true})
	cu.intrinsics[IntrinsicException] = exception
}

// -----------------------------------------------------------------------------

// String prints the unit in its textual form: external declarations first,
// then global variables, then function bodies.
func (cu *CompilationUnit) String() string {
	sb := strings.Builder{}

	for _, fn := range cu.Functions() {
		if !fn.HasBody() {
			sb.WriteString(fn.String())
			sb.WriteRune('\n')
		}
	}

	for _, gv := range cu.GlobalVariables() {
		sb.WriteString(gv.String())
		sb.WriteRune('\n')
	}

	for _, fn := range cu.Functions() {
		if fn.HasBody() {
			sb.WriteRune('\n')
			sb.WriteString(fn.String())
		}
	}

	return sb.String()
}
