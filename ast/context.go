package ast

import (
	"strings"

	"joosc/report"
)

// ClassDecl is a class declaration.  Its body declarations are partitioned
// into fields, methods, and constructors at construction.
type ClassDecl struct {
	NodeBase
	DeclBase

	// Modifiers of the class.
	Modifiers Modifiers

	// SuperClasses always has exactly two slots; either may be nil to encode
	// "no explicit super" (and thus an implicit Object).
	SuperClasses [2]*UnresolvedType

	// Interfaces the class implements.
	Interfaces []*UnresolvedType

	// Fields, Methods, and Constructors partition the class body.
	Fields       []*FieldDecl
	Methods      []*MethodDecl
	Constructors []*MethodDecl
}

// NewClassDecl creates a class declaration from its body declarations,
// partitioning them and claiming each as a child.
func NewClassDecl(name string, mods Modifiers, super1, super2 *UnresolvedType, interfaces []*UnresolvedType, body []Decl, span report.SourceRange) *ClassDecl {
	cd := &ClassDecl{
		NodeBase:     NewNodeBaseOn(span),
		DeclBase:     NewDeclBase(name),
		Modifiers:    mods,
		SuperClasses: [2]*UnresolvedType{super1, super2},
		Interfaces:   interfaces,
	}

	for _, decl := range body {
		switch d := decl.(type) {
		case *FieldDecl:
			cd.Fields = append(cd.Fields, d)
		case *MethodDecl:
			if d.IsConstructor {
				cd.Constructors = append(cd.Constructors, d)
			} else {
				cd.Methods = append(cd.Methods, d)
			}
		default:
			panic(report.Raise(report.KindInternal, decl.Span(),
				"illegal declaration in class body: `%s`", decl.Name()))
		}

		decl.SetParent(cd)
	}

	return cd
}

func (cd *ClassDecl) SetParent(parent DeclContext) {
	cd.setParentOnce(parent)
	cd.setCanonical(qualifyIn(parent, cd.Name()))

	// Member canonical names depend on the class canonical name, so they are
	// filled in once it is known.
	for _, field := range cd.Fields {
		field.setCanonical(qualifyIn(cd, field.Name()))
	}

	for _, method := range cd.Methods {
		method.setCanonical(qualifyIn(cd, method.Name()))
	}

	for _, ctor := range cd.Constructors {
		ctor.setCanonical(qualifyIn(cd, ctor.Name()))
	}
}

func (cd *ClassDecl) HasCanonicalName() bool {
	return true
}

func (cd *ClassDecl) Decls() []Decl {
	decls := make([]Decl, 0, len(cd.Fields)+len(cd.Methods)+len(cd.Constructors))
	for _, field := range cd.Fields {
		decls = append(decls, field)
	}

	for _, method := range cd.Methods {
		decls = append(decls, method)
	}

	for _, ctor := range cd.Constructors {
		decls = append(decls, ctor)
	}

	return decls
}

// -----------------------------------------------------------------------------

// InterfaceDecl is an interface declaration.
type InterfaceDecl struct {
	NodeBase
	DeclBase

	// Modifiers of the interface.
	Modifiers Modifiers

	// Extends lists the super-interfaces.
	Extends []*UnresolvedType

	// Methods declared by the interface.
	Methods []*MethodDecl
}

// NewInterfaceDecl creates an interface declaration from its body
// declarations.
func NewInterfaceDecl(name string, mods Modifiers, extends []*UnresolvedType, body []Decl, span report.SourceRange) *InterfaceDecl {
	id := &InterfaceDecl{
		NodeBase:  NewNodeBaseOn(span),
		DeclBase:  NewDeclBase(name),
		Modifiers: mods,
		Extends:   extends,
	}

	for _, decl := range body {
		method, ok := decl.(*MethodDecl)
		if !ok {
			panic(report.Raise(report.KindInternal, decl.Span(),
				"illegal declaration in interface body: `%s`", decl.Name()))
		}

		id.Methods = append(id.Methods, method)
		method.SetParent(id)
	}

	return id
}

func (id *InterfaceDecl) SetParent(parent DeclContext) {
	id.setParentOnce(parent)
	id.setCanonical(qualifyIn(parent, id.Name()))

	for _, method := range id.Methods {
		method.setCanonical(qualifyIn(id, method.Name()))
	}
}

func (id *InterfaceDecl) HasCanonicalName() bool {
	return true
}

func (id *InterfaceDecl) Decls() []Decl {
	decls := make([]Decl, len(id.Methods))
	for i, method := range id.Methods {
		decls[i] = method
	}

	return decls
}

// -----------------------------------------------------------------------------

// MethodDecl is a method or constructor declaration.  It is also a
// declaration context: its children are its parameters and locals.
type MethodDecl struct {
	NodeBase
	DeclBase

	// Modifiers of the method.
	Modifiers Modifiers

	// ReturnType is the declared return type; nil encodes void.
	ReturnType Type

	// Params are the formal parameters in order.
	Params []*VarDecl

	// Locals are all local variables declared in the body, collected from
	// the statement tree.
	Locals []*VarDecl

	// Body is the method body; nil for abstract and interface methods.
	Body Stmt

	// IsConstructor marks constructor declarations.
	IsConstructor bool
}

// NewMethodDecl creates a method or constructor declaration.
func NewMethodDecl(name string, mods Modifiers, returnType Type, params []*VarDecl, isConstructor bool, body Stmt, span report.SourceRange) *MethodDecl {
	md := &MethodDecl{
		NodeBase:      NewNodeBaseOn(span),
		DeclBase:      NewDeclBase(name),
		Modifiers:     mods,
		ReturnType:    returnType,
		Params:        params,
		Body:          body,
		IsConstructor: isConstructor,
	}

	for _, param := range params {
		param.SetParent(md)
	}

	return md
}

// AddLocals appends locals collected from the statement tree and claims them
// as children.
func (md *MethodDecl) AddLocals(locals []*VarDecl) {
	for _, local := range locals {
		local.SetParent(md)
	}

	md.Locals = append(md.Locals, locals...)
}

func (md *MethodDecl) SetParent(parent DeclContext) {
	md.setParentOnce(parent)
	md.setCanonical(qualifyIn(parent, md.Name()))
}

func (md *MethodDecl) HasCanonicalName() bool {
	return true
}

func (md *MethodDecl) Decls() []Decl {
	decls := make([]Decl, 0, len(md.Params)+len(md.Locals))
	for _, param := range md.Params {
		decls = append(decls, param)
	}

	for _, local := range md.Locals {
		decls = append(decls, local)
	}

	return decls
}

// -----------------------------------------------------------------------------

// ImportDecl is a single import declaration of a compilation unit.
type ImportDecl struct {
	// Type is the imported dotted name.
	Type *UnresolvedType

	// IsOnDemand marks wildcard (import-on-demand) imports.
	IsOnDemand bool
}

// SimpleName returns the last part of the imported name.
func (imp ImportDecl) SimpleName() string {
	parts := imp.Type.Parts()
	return parts[len(parts)-1]
}

// Span returns the location of the import.
func (imp ImportDecl) Span() report.SourceRange {
	return imp.Type.Span()
}

// -----------------------------------------------------------------------------

// CompilationUnit is one source file's package declaration, imports, and
// top-level declaration.
type CompilationUnit struct {
	NodeBase

	// Package is the dotted package name; an empty part list encodes the
	// default package.  It is locked, never resolved.
	Package *UnresolvedType

	// Imports in declaration order.
	Imports []ImportDecl

	// Body is the top-level declaration; nil for an empty unit.
	Body Decl

	// Poisoned marks a unit whose parse tree failed to build; downstream
	// phases skip poisoned units.
	Poisoned bool
}

// NewCompilationUnit creates a compilation unit and claims the body
// declaration as its child.
func NewCompilationUnit(pkg *UnresolvedType, imports []ImportDecl, body Decl, span report.SourceRange) *CompilationUnit {
	pkg.Lock()

	cu := &CompilationUnit{
		NodeBase: NewNodeBaseOn(span),
		Package:  pkg,
		Imports:  imports,
		Body:     body,
	}

	if body != nil {
		body.SetParent(cu)
	}

	return cu
}

// PackageName returns the dotted package name; empty for the default
// package.
func (cu *CompilationUnit) PackageName() string {
	return strings.Join(cu.Package.Parts(), ".")
}

// IsDefaultPackage returns whether the unit lives in the unnamed package.
func (cu *CompilationUnit) IsDefaultPackage() bool {
	return len(cu.Package.Parts()) == 0
}

func (cu *CompilationUnit) Decls() []Decl {
	if cu.Body == nil {
		return nil
	}

	return []Decl{cu.Body}
}

// -----------------------------------------------------------------------------

// LinkingUnit owns all compilation units passed to the compiler, in input
// order.  It is the root declaration context and has no canonical name.
type LinkingUnit struct {
	NodeBase

	// Units in input order.
	Units []*CompilationUnit
}

// NewLinkingUnit creates a linking unit over the given compilation units.
func NewLinkingUnit(units []*CompilationUnit) *LinkingUnit {
	return &LinkingUnit{Units: units}
}

func (lu *LinkingUnit) Decls() []Decl {
	var decls []Decl
	for _, cu := range lu.Units {
		if cu.Body != nil {
			decls = append(decls, cu.Body)
		}
	}

	return decls
}
