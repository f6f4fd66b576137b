package resolve

import (
	"joosc/ast"
	"joosc/report"
)

// BuiltinKind keys the cache of predefined declarations.
type BuiltinKind int

// Enumeration of predefined declarations.
const (
	BuiltinObject BuiltinKind = iota
	BuiltinString
	BuiltinInteger
	BuiltinBoolean
	BuiltinByte
	BuiltinShort
	BuiltinCharacter
	BuiltinNumber
	BuiltinClass
	BuiltinSystem
	BuiltinCloneable
	BuiltinSerializable

	numBuiltins
)

// builtinPaths maps each builtin to its dotted path in the package tree.
var builtinPaths = [numBuiltins][]string{
	BuiltinObject:       {"java", "lang", "Object"},
	BuiltinString:       {"java", "lang", "String"},
	BuiltinInteger:      {"java", "lang", "Integer"},
	BuiltinBoolean:      {"java", "lang", "Boolean"},
	BuiltinByte:         {"java", "lang", "Byte"},
	BuiltinShort:        {"java", "lang", "Short"},
	BuiltinCharacter:    {"java", "lang", "Character"},
	BuiltinNumber:       {"java", "lang", "Number"},
	BuiltinClass:        {"java", "lang", "Class"},
	BuiltinSystem:       {"java", "lang", "System"},
	BuiltinCloneable:    {"java", "lang", "Cloneable"},
	BuiltinSerializable: {"java", "io", "Serializable"},
}

// Builtins is the cache of predefined declarations published by the
// resolver after the symbol table is built.  Entries are nil when the
// corresponding declaration is not part of the linking unit.
type Builtins struct {
	decls [numBuiltins]ast.Decl

	// ArrayPrototype is the synthesised class shared by all array types.
	ArrayPrototype *ast.ClassDecl

	// ArrayLengthField is the prototype's single `length` field.
	ArrayLengthField *ast.FieldDecl
}

// Get returns the cached declaration for the given builtin, or nil if the
// linking unit does not define it.
func (b *Builtins) Get(kind BuiltinKind) ast.Decl {
	return b.decls[kind]
}

// Object returns the java.lang.Object declaration, if present.
func (b *Builtins) Object() ast.Decl {
	return b.decls[BuiltinObject]
}

// String returns the java.lang.String declaration, if present.
func (b *Builtins) String() ast.Decl {
	return b.decls[BuiltinString]
}

// Cloneable returns the java.lang.Cloneable declaration, if present.
func (b *Builtins) Cloneable() ast.Decl {
	return b.decls[BuiltinCloneable]
}

// Serializable returns the java.io.Serializable declaration, if present.
func (b *Builtins) Serializable() ast.Decl {
	return b.decls[BuiltinSerializable]
}

// -----------------------------------------------------------------------------

// initBuiltins populates the cache of predefined declarations from the
// symbol table and synthesises the array prototype class.
func (r *Resolver) initBuiltins() {
	for kind := BuiltinKind(0); kind < numBuiltins; kind++ {
		cur := pkgEntry(r.rootPkg)
		found := true
		for _, id := range builtinPaths[kind] {
			if !cur.IsPkg() {
				found = false
				break
			}

			child, ok := cur.AsPkg().Child(id)
			if !ok {
				found = false
				break
			}

			cur = child
		}

		if found && cur.IsDecl() {
			r.builtins.decls[kind] = cur.AsDecl()
		}
	}

	r.synthesizeArrayPrototype()
	r.builtins.ArrayPrototype = r.arrayProto
}

// synthesizeArrayPrototype materialises, once per run, the class backing
// every array type: a single `public final int length` field and a trivial
// constructor.  Array member access reuses ordinary field-access machinery
// through this class.
func (r *Resolver) synthesizeArrayPrototype() {
	if r.arrayProto != nil {
		return
	}

	span := report.SourceRange{}

	var lengthMods ast.Modifiers
	lengthMods.Set(ast.ModPublic, span)
	lengthMods.Set(ast.ModFinal, span)

	scope := ast.NewScope().Child()
	length := ast.NewFieldDecl(
		r.arena.Intern("length"),
		lengthMods,
		ast.NewBuiltInType(ast.IntKind, span),
		nil,
		scope,
		span,
	)

	var ctorMods ast.Modifiers
	ctorMods.Set(ast.ModPublic, span)

	ctor := ast.NewMethodDecl(
		r.arena.Intern("Array"),
		ctorMods,
		nil,
		nil,
		true,
		ast.NewBlockStmt(nil, span),
		span,
	)

	var classMods ast.Modifiers
	classMods.Set(ast.ModPublic, span)
	classMods.Set(ast.ModFinal, span)

	r.arrayProto = ast.NewClassDecl(
		r.arena.Intern("Array"),
		classMods,
		nil, nil, nil,
		[]ast.Decl{length, ctor},
		span,
	)

	r.builtins.ArrayLengthField = length
}
