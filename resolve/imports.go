package resolve

import (
	"joosc/ast"
	"joosc/report"
)

// beginContext populates the import scope of the given compilation unit.
// The scope is filled in strict shadowing order: entries added by a later
// step replace whatever an earlier step put at the same simple name.
//
//  1. Import-on-demand declarations.  Two distinct IODs importing the same
//     simple name mark that name ambiguous.
//  2. All top-level subpackages not already shadowed.
//  3. All declarations in the unit's own package.
//  4. Single-type-import declarations.
//  5. The unit's own top-level declaration.
func (r *Resolver) beginContext(cu *ast.CompilationUnit) {
	r.cu = cu
	r.importsMap = make(map[string]Entry)

	// 1. Import-on-demand declarations.  Populated first so IODs can be
	// checked for shadowing each other.
	for _, imp := range cu.Imports {
		if !imp.IsOnDemand {
			continue
		}

		target, ok := r.resolveImport(imp.Type)
		if !ok {
			continue
		}

		if !target.IsPkg() {
			report.ReportError(report.KindImport, imp.Span(),
				"failed to resolve import-on-demand as subpackage is a declaration: `%s`",
				imp.SimpleName())
			continue
		}

		// Only declarations are imported on demand, never subpackages.
		pkg := target.AsPkg()
		for _, name := range pkg.childNames() {
			child := pkg.children[name]
			if !child.IsDecl() {
				continue
			}

			if prev, ok := r.importsMap[name]; ok {
				if prev.IsDecl() && prev.AsDecl() == child.AsDecl() {
					continue // same declaration, no conflict
				}

				// Two IODs collide on this simple name: poison it with the
				// ambiguity sentinel so any later use is a hard error.
				r.importsMap[name] = ambiguousEntry()
				continue
			}

			r.importsMap[name] = child
		}
	}

	// 2. Top-level subpackages, unless shadowed by an IOD.
	for _, name := range r.rootPkg.childNames() {
		child := r.rootPkg.children[name]
		if !child.IsPkg() {
			continue
		}

		if _, ok := r.importsMap[name]; ok {
			continue
		}

		r.importsMap[name] = child
	}

	// 3. All declarations in the unit's own package, shadowing anything
	// already present.
	if own, ok := r.resolveImport(cu.Package); ok && own.IsPkg() {
		pkg := own.AsPkg()
		for _, name := range pkg.childNames() {
			if child := pkg.children[name]; child.IsDecl() {
				r.importsMap[name] = child
			}
		}
	}

	// 4. Single-type-import declarations.
	for _, imp := range cu.Imports {
		if imp.IsOnDemand {
			continue
		}

		target, ok := r.resolveImport(imp.Type)
		if !ok {
			continue
		}

		if !target.IsDecl() {
			report.ReportError(report.KindImport, imp.Span(),
				"failed to resolve single-type-import as a declaration: `%s`",
				imp.SimpleName())
			continue
		}

		decl := target.AsDecl()

		// A single-type-import that renames the unit's own declaration
		// under a different target is a hard error.
		if cu.Body != nil && decl.Name() == cu.Body.Name() && decl != cu.Body {
			report.ReportError(report.KindImport, cu.Span(),
				"single-type-import is the same as the class/interface name: `%s`",
				decl.Name())
			continue
		}

		r.importsMap[imp.SimpleName()] = declEntry(decl)
	}

	// 5. The unit's own top-level declaration shadows everything.
	if cu.Body != nil {
		r.importsMap[cu.Body.Name()] = declEntry(cu.Body)
	}

	r.scopes[cu] = r.importsMap
}

// resolveImport traverses a dotted import path through the package tree,
// starting at the root.  An empty path is the unnamed package.
func (r *Resolver) resolveImport(ty *ast.UnresolvedType) (Entry, bool) {
	if len(ty.Parts()) == 0 {
		return r.rootPkg.children[unnamedPackage], true
	}

	cur := pkgEntry(r.rootPkg)
	for _, id := range ty.Parts() {
		// Hitting a declaration before the path is exhausted is an error.
		if cur.IsDecl() {
			report.ReportError(report.KindImport, ty.Span(),
				"failed to resolve import as subpackage is a declaration: `%s`", id)
			return Entry{}, false
		}

		child, ok := cur.AsPkg().Child(id)
		if !ok {
			report.ReportError(report.KindImport, ty.Span(),
				"failed to resolve import as subpackage does not exist: `%s`", id)
			return Entry{}, false
		}

		cur = child
	}

	return cur, true
}
