package resolve

import (
	"sort"

	"joosc/ast"
	"joosc/report"
)

// entryKind discriminates the values stored in the package tree and import
// scopes.
type entryKind int

const (
	entryNone entryKind = iota
	entryPkg
	entryDecl
	entryAmbiguous
)

// Entry is a tagged value in the symbol table: a subpackage, a declaration,
// or the ambiguity sentinel left behind when two import-on-demand
// declarations collide on a simple name.
type Entry struct {
	kind entryKind
	pkg  *Pkg
	decl ast.Decl
}

func pkgEntry(pkg *Pkg) Entry {
	return Entry{kind: entryPkg, pkg: pkg}
}

func declEntry(decl ast.Decl) Entry {
	return Entry{kind: entryDecl, decl: decl}
}

func ambiguousEntry() Entry {
	return Entry{kind: entryAmbiguous}
}

// IsValid returns whether the entry holds anything.
func (e Entry) IsValid() bool {
	return e.kind != entryNone
}

// IsPkg returns whether the entry holds a subpackage.
func (e Entry) IsPkg() bool {
	return e.kind == entryPkg
}

// IsDecl returns whether the entry holds a declaration.
func (e Entry) IsDecl() bool {
	return e.kind == entryDecl
}

// IsAmbiguous returns whether the entry is the ambiguity sentinel.
func (e Entry) IsAmbiguous() bool {
	return e.kind == entryAmbiguous
}

// AsPkg returns the subpackage held by the entry.
func (e Entry) AsPkg() *Pkg {
	return e.pkg
}

// AsDecl returns the declaration held by the entry.
func (e Entry) AsDecl() ast.Decl {
	return e.decl
}

// -----------------------------------------------------------------------------

// Pkg is a node of the package tree.  Children are keyed by simple
// identifier and hold either a subpackage or a top-level declaration.
type Pkg struct {
	name     string
	children map[string]Entry
}

func newPkg(name string) *Pkg {
	return &Pkg{name: name, children: make(map[string]Entry)}
}

// Child looks up a child entry by name.
func (p *Pkg) Child(name string) (Entry, bool) {
	e, ok := p.children[name]
	return e, ok
}

// childNames returns the child names in sorted order so iteration is
// deterministic.
func (p *Pkg) childNames() []string {
	names := make([]string, 0, len(p.children))
	for name := range p.children {
		names = append(names, name)
	}

	sort.Strings(names)
	return names
}

// unnamedPackage is the key of the unnamed (default) package under the root.
const unnamedPackage = ""

// -----------------------------------------------------------------------------

// buildSymbolTable constructs the package tree from every compilation unit:
// the package parts are traversed, creating nodes as needed, and the unit's
// top-level declaration is inserted as a leaf.  An identifier collision
// between a subpackage and a declaration is a fatal import error at that
// scope.
func (r *Resolver) buildSymbolTable() {
	r.rootPkg = newPkg("")
	r.rootPkg.children[unnamedPackage] = pkgEntry(newPkg(unnamedPackage))

	for _, cu := range r.lu.Units {
		if cu.Poisoned {
			continue
		}

		// The package name is locked: it is a path, never a resolved type.
		cu.Package.Lock()

		subPkg := r.rootPkg
		for _, id := range cu.Package.Parts() {
			child, ok := subPkg.children[id]
			if !ok {
				next := newPkg(id)
				subPkg.children[id] = pkgEntry(next)
				subPkg = next
				continue
			}

			// A declaration with the same name as the subpackage is an
			// error at this scope.
			if child.IsDecl() {
				report.ReportError(report.KindImport, cu.Span(),
					"subpackage name cannot be the same as a declaration: `%s`", id)
				subPkg = nil
				break
			}

			subPkg = child.AsPkg()
		}

		if subPkg == nil {
			continue
		}

		if cu.IsDefaultPackage() {
			subPkg = r.rootPkg.children[unnamedPackage].AsPkg()
		}

		if cu.Body == nil {
			continue
		}

		// The declaration must be unique within its subpackage.
		if _, ok := subPkg.children[cu.Body.Name()]; ok {
			report.ReportError(report.KindImport, cu.Body.Span(),
				"declaration name is not unique in the subpackage: `%s`", cu.Body.Name())
			continue
		}

		subPkg.children[cu.Body.Name()] = declEntry(cu.Body)
	}
}
