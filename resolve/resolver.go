package resolve

import (
	"joosc/arena"
	"joosc/ast"
	"joosc/report"
)

// Resolver turns every unresolved type in the linking unit into a reference
// to a declaration, and publishes the built-in declaration cache and the
// array prototype used by the later passes.
type Resolver struct {
	arena *arena.Arena
	lu    *ast.LinkingUnit

	// rootPkg is the root of the package tree.
	rootPkg *Pkg

	// importsMap is the import scope of the compilation unit currently being
	// resolved.
	importsMap map[string]Entry

	// cu is the compilation unit currently being resolved.
	cu *ast.CompilationUnit

	// scopes retains each unit's import scope so later passes can look up
	// simple type names in expression position.
	scopes map[*ast.CompilationUnit]map[string]Entry

	// builtins caches the predefined declarations once the symbol table is
	// built.
	builtins Builtins

	// arrayProto is the synthesised class shared by all array types.
	arrayProto *ast.ClassDecl
}

// NewResolver creates a resolver over the given linking unit.
func NewResolver(a *arena.Arena, lu *ast.LinkingUnit) *Resolver {
	return &Resolver{arena: a, lu: lu, scopes: make(map[*ast.CompilationUnit]map[string]Entry)}
}

// LookupInScope looks up a simple name in the import scope of the given
// compilation unit.  Only valid after Resolve has run over that unit.
func (r *Resolver) LookupInScope(cu *ast.CompilationUnit, name string) (Entry, bool) {
	scope, ok := r.scopes[cu]
	if !ok {
		return Entry{}, false
	}

	entry, ok := scope[name]
	return entry, ok
}

// Builtins returns the built-in declaration cache.  Only valid after
// Resolve has run.
func (r *Resolver) Builtins() *Builtins {
	return &r.builtins
}

// ArrayPrototype returns the synthesised array prototype class.  Only valid
// after Resolve has run.
func (r *Resolver) ArrayPrototype() *ast.ClassDecl {
	return r.arrayProto
}

// RootPackage exposes the package tree for inspection.
func (r *Resolver) RootPackage() *Pkg {
	return r.rootPkg
}

// -----------------------------------------------------------------------------

// Resolve runs name resolution over the whole linking unit: it builds the
// package tree, populates the built-in cache, and resolves every type name
// in every compilation unit.  Running it twice is equivalent to running it
// once.
func (r *Resolver) Resolve() {
	r.buildSymbolTable()
	r.initBuiltins()

	for _, cu := range r.lu.Units {
		if cu.Poisoned {
			continue
		}

		r.beginContext(cu)

		switch body := cu.Body.(type) {
		case *ast.ClassDecl:
			r.resolveClass(body)
		case *ast.InterfaceDecl:
			r.resolveInterface(body)
		case nil:
			// An empty unit has nothing to resolve.
		default:
			report.ReportICE("unknown top-level declaration kind for `%s`", body.Name())
		}
	}
}

// ResolveType resolves a dotted type name against the current unit's import
// scope: the first part is looked up in the scope, subsequent parts traverse
// subpackages, and the final part must be a declaration.  Resolution is
// monotonic: a resolved type is left untouched.
func (r *Resolver) ResolveType(ty *ast.UnresolvedType) {
	if ty == nil || ty.IsResolved() {
		return
	}

	parts := ty.Parts()
	if len(parts) == 0 {
		report.ReportError(report.KindResolution, ty.Span(), "empty type name")
		return
	}

	cur, ok := r.importsMap[parts[0]]
	if !ok {
		report.ReportError(report.KindResolution, ty.Span(),
			"failed to resolve type as name does not exist: `%s`", parts[0])
		return
	}

	if cur.IsAmbiguous() {
		report.ReportError(report.KindResolution, ty.Span(),
			"ambiguous import: `%s` is imported by multiple import-on-demand declarations", parts[0])
		return
	}

	for _, id := range parts[1:] {
		if cur.IsDecl() {
			report.ReportError(report.KindResolution, ty.Span(),
				"failed to resolve type as subpackage is a declaration: `%s`", id)
			return
		}

		child, ok := cur.AsPkg().Child(id)
		if !ok {
			report.ReportError(report.KindResolution, ty.Span(),
				"failed to resolve type as subpackage does not exist: `%s`", id)
			return
		}

		cur = child
	}

	if !cur.IsDecl() {
		report.ReportError(report.KindResolution, ty.Span(),
			"failed to resolve type, is not a declaration: `%s`", ty)
		return
	}

	ty.Resolve(cur.AsDecl())
}

// -----------------------------------------------------------------------------

// resolveAnyType resolves a type of any shape: unresolved names directly,
// array types through their element.
func (r *Resolver) resolveAnyType(ty ast.Type) {
	switch t := ty.(type) {
	case *ast.UnresolvedType:
		r.ResolveType(t)
	case *ast.ArrayType:
		r.resolveAnyType(t.Elem)
	}
}

func (r *Resolver) resolveClass(decl *ast.ClassDecl) {
	for _, iface := range decl.Interfaces {
		r.ResolveType(iface)
	}

	for _, super := range decl.SuperClasses {
		if super != nil {
			r.ResolveType(super)
		}
	}

	for _, field := range decl.Fields {
		r.resolveAnyType(field.Type)
		if field.Init != nil {
			r.resolveExpr(field.Init)
		}
	}

	for _, method := range decl.Methods {
		r.resolveMethod(method)
	}

	for _, ctor := range decl.Constructors {
		r.resolveMethod(ctor)
	}
}

func (r *Resolver) resolveInterface(decl *ast.InterfaceDecl) {
	for _, ext := range decl.Extends {
		r.ResolveType(ext)
	}

	for _, method := range decl.Methods {
		r.resolveMethod(method)
	}
}

func (r *Resolver) resolveMethod(decl *ast.MethodDecl) {
	for _, param := range decl.Params {
		r.resolveAnyType(param.Type)
	}

	for _, local := range decl.Locals {
		r.resolveAnyType(local.Type)
		if local.Init != nil {
			r.resolveExpr(local.Init)
		}
	}

	if decl.ReturnType != nil {
		r.resolveAnyType(decl.ReturnType)
	}

	ast.WalkStmts(decl.Body, func(stmt ast.Stmt) {
		for _, expr := range stmt.Exprs() {
			r.resolveExpr(expr)
		}
	})
}

// resolveExpr resolves the type names embedded in an expression: the
// operands of casts, instanceof, and array/object creation.
func (r *Resolver) resolveExpr(expr *ast.Expr) {
	for _, node := range expr.Nodes {
		if tn, ok := node.(*ast.TypeNode); ok {
			r.resolveAnyType(tn.NamedType())
		}
	}
}
