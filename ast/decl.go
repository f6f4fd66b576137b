package ast

import "joosc/report"

// Decl is the base interface for all declarations.  A declaration owns a
// simple name and a parent declaration context which is assigned exactly
// once, after construction, when the declaration is inserted into its
// context.
type Decl interface {
	Node

	// Name returns the simple name of the declaration.
	Name() string

	// Parent returns the context the declaration is contained in.
	Parent() DeclContext

	// SetParent assigns the parent context.  Assigning a parent twice is an
	// internal invariant violation.
	SetParent(parent DeclContext)

	// HasCanonicalName returns whether the declaration has a fully qualified
	// name.
	HasCanonicalName() bool

	// CanonicalName returns the fully qualified name.  Only meaningful when
	// HasCanonicalName returns true and the parent has been assigned.
	CanonicalName() string
}

// DeclContext is the base interface for all declaration contexts: the
// declarations that lexically contain other declarations.
type DeclContext interface {
	Node

	// Decls enumerates the child declarations of the context.
	Decls() []Decl
}

// -----------------------------------------------------------------------------

// DeclBase carries the name/parent/canonical-name state shared by all
// declarations.
type DeclBase struct {
	name      string
	parent    DeclContext
	canonical string
}

// NewDeclBase creates a declaration base with the given simple name.
func NewDeclBase(name string) DeclBase {
	return DeclBase{name: name}
}

func (db *DeclBase) Name() string {
	return db.name
}

func (db *DeclBase) Parent() DeclContext {
	return db.parent
}

// setParentOnce assigns the parent, enforcing the set-once invariant.
func (db *DeclBase) setParentOnce(parent DeclContext) {
	if db.parent != nil {
		panic(report.Raise(report.KindInternal, report.SourceRange{},
			"parent of declaration `%s` assigned twice", db.name))
	}

	db.parent = parent
}

func (db *DeclBase) CanonicalName() string {
	return db.canonical
}

// setCanonical records the fully qualified name computed at parent-set time.
func (db *DeclBase) setCanonical(canonical string) {
	db.canonical = canonical
}

// qualifyIn computes the canonical name of a declaration named name inside
// the given parent context.
func qualifyIn(parent DeclContext, name string) string {
	switch p := parent.(type) {
	case *CompilationUnit:
		if pkg := p.PackageName(); pkg != "" {
			return pkg + "." + name
		}

		return name
	case *ClassDecl:
		return p.CanonicalName() + "." + name
	case *InterfaceDecl:
		return p.CanonicalName() + "." + name
	case *MethodDecl:
		return p.CanonicalName() + "." + name
	}

	return name
}

// -----------------------------------------------------------------------------

// VarDecl is a local variable or formal parameter declaration.
type VarDecl struct {
	NodeBase
	DeclBase

	// Type is the declared type of the variable.
	Type Type

	// Init is the initializer expression; nil if the variable is declared
	// without one (parameters never have one).
	Init *Expr

	// Scope is the lexical position of the declaration.
	Scope *ScopeID

	// IsParam distinguishes formal parameters from locals.
	IsParam bool
}

// NewVarDecl creates a local variable or parameter declaration.
func NewVarDecl(name string, ty Type, init *Expr, scope *ScopeID, isParam bool, span report.SourceRange) *VarDecl {
	return &VarDecl{
		NodeBase: NewNodeBaseOn(span),
		DeclBase: NewDeclBase(name),
		Type:     ty,
		Init:     init,
		Scope:    scope,
		IsParam:  isParam,
	}
}

func (vd *VarDecl) SetParent(parent DeclContext) {
	vd.setParentOnce(parent)
}

func (vd *VarDecl) HasCanonicalName() bool {
	return false
}

// -----------------------------------------------------------------------------

// FieldDecl is a class field declaration.
type FieldDecl struct {
	NodeBase
	DeclBase

	// Modifiers of the field.
	Modifiers Modifiers

	// Type is the declared type of the field.
	Type Type

	// Init is the field initializer; nil if absent.
	Init *Expr

	// Scope is the lexical position of the field in the class body, used to
	// enforce the initializer forward-reference rule.
	Scope *ScopeID
}

// NewFieldDecl creates a field declaration.
func NewFieldDecl(name string, mods Modifiers, ty Type, init *Expr, scope *ScopeID, span report.SourceRange) *FieldDecl {
	return &FieldDecl{
		NodeBase:  NewNodeBaseOn(span),
		DeclBase:  NewDeclBase(name),
		Modifiers: mods,
		Type:      ty,
		Init:      init,
		Scope:     scope,
	}
}

func (fd *FieldDecl) SetParent(parent DeclContext) {
	fd.setParentOnce(parent)
	fd.setCanonical(qualifyIn(parent, fd.Name()))
}

func (fd *FieldDecl) HasCanonicalName() bool {
	return true
}
