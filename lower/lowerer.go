package lower

import (
	"joosc/ast"
	"joosc/ir"
	"joosc/report"
	"joosc/resolve"
)

// Lowerer converts a checked linking unit into a typed IR compilation unit:
// one IR function per defined method and constructor, one global per static
// field, and a synthetic initializer function for static field
// initializers.
type Lowerer struct {
	ctx     *ir.Context
	unit    *ir.CompilationUnit
	builder *ir.IRBuilder

	resolver *resolve.Resolver
	builtins *resolve.Builtins
	lu       *ast.LinkingUnit

	// gvMap maps static fields to their globals and methods to their
	// functions.
	gvMap map[ast.Decl]ir.Value

	// valueMap maps locals and parameters to their stack slots within the
	// function currently being generated.
	valueMap map[*ast.VarDecl]ir.Value

	// curFn is the function currently being generated; thisSlot holds the
	// receiver slot of instance methods.
	curFn    *ir.Function
	thisSlot ir.Value
	curClass *ast.ClassDecl
}

// NewLowerer creates a lowerer for the given linking unit.
func NewLowerer(ctx *ir.Context, resolver *resolve.Resolver, lu *ast.LinkingUnit) *Lowerer {
	return &Lowerer{
		ctx:      ctx,
		unit:     ir.NewCompilationUnit(ctx),
		builder:  ctx.NewBuilder(),
		resolver: resolver,
		builtins: resolver.Builtins(),
		lu:       lu,
		gvMap:    make(map[ast.Decl]ir.Value),
	}
}

// Lower generates the IR unit: globals and function declarations first so
// bodies can reference them in any order, then the bodies themselves.
func (l *Lowerer) Lower() *ir.CompilationUnit {
	for _, cu := range l.lu.Units {
		if class, ok := cu.Body.(*ast.ClassDecl); ok && !cu.Poisoned {
			l.declareClass(class)
		}
	}

	for _, cu := range l.lu.Units {
		if class, ok := cu.Body.(*ast.ClassDecl); ok && !cu.Poisoned {
			l.generateClass(class)
		}
	}

	l.generateStaticInit()

	return l.unit
}

// Unit returns the IR unit being generated.
func (l *Lowerer) Unit() *ir.CompilationUnit {
	return l.unit
}

// -----------------------------------------------------------------------------
// Declarations.

// declareClass creates the globals and function declarations for one class.
func (l *Lowerer) declareClass(class *ast.ClassDecl) {
	for _, field := range class.Fields {
		if !field.Modifiers.IsStatic() {
			continue
		}

		gv := l.unit.CreateGlobalVariable(l.emitType(field.Type), l.mangle(field))
		if gv == nil {
			report.ReportICE("duplicate global for field `%s`", field.CanonicalName())
		}

		l.gvMap[field] = gv
	}

	for _, method := range class.Methods {
		l.declareMethod(class, method)
	}

	for _, ctor := range class.Constructors {
		l.declareMethod(class, ctor)
	}
}

// declareMethod creates the IR function for a method or constructor.
// Instance methods and constructors take the receiver as a leading pointer
// parameter.
func (l *Lowerer) declareMethod(class *ast.ClassDecl, method *ast.MethodDecl) {
	var params []ir.Type
	if !method.Modifiers.IsStatic() {
		params = append(params, l.ctx.PointerTy())
	}

	for _, param := range method.Params {
		params = append(params, l.emitType(param.Type))
	}

	var ret ir.Type = l.ctx.VoidTy()
	if method.ReturnType != nil {
		ret = l.emitType(method.ReturnType)
	}

	fn := l.unit.CreateFunction(ir.NewFunctionType(ret, params...), l.mangle(method))
	if fn == nil {
		report.ReportICE("duplicate function for method `%s`", method.CanonicalName())
	}

	l.gvMap[method] = fn
}

// mangle derives the IR symbol name of a declaration from its canonical
// name.
func (l *Lowerer) mangle(decl ast.Decl) string {
	if name := decl.CanonicalName(); name != "" {
		return name
	}

	return decl.Name()
}

// -----------------------------------------------------------------------------

// emitType converts a source type to its machine-level IR type.
func (l *Lowerer) emitType(ty ast.Type) ir.Type {
	switch t := ty.(type) {
	case *ast.BuiltInType:
		switch t.Kind {
		case ast.ByteKind:
			return l.ctx.Int8Type()
		case ast.ShortKind:
			return l.ctx.Int16Type()
		case ast.IntKind:
			return l.ctx.Int32Type()
		case ast.CharKind:
			return l.ctx.Int16Type()
		case ast.BooleanKind:
			return l.ctx.Int1Type()
		default:
			// String and null lower to pointers.
			return l.ctx.PointerTy()
		}
	case *ast.ArrayType:
		return l.arrayStructType()
	case *ast.ReferenceType, *ast.UnresolvedType:
		return l.ctx.PointerTy()
	}

	report.ReportICE("cannot emit IR type for `%s`", ty)
	return nil
}

// arrayStructType is the {length, data} layout shared by every array value.
func (l *Lowerer) arrayStructType() *ir.StructType {
	return ir.NewStructType(l.ctx.Int32Type(), l.ctx.PointerTy())
}

// isUnsignedSource returns whether the source type widens with zero
// extension; only char is unsigned.
func isUnsignedSource(ty ast.Type) bool {
	bt, ok := ty.(*ast.BuiltInType)
	return ok && bt.Kind == ast.CharKind
}
