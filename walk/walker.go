package walk

import (
	"joosc/ast"
	"joosc/report"
	"joosc/resolve"
)

// Walker runs expression type resolution and the static-usage checks over a
// name-resolved linking unit.  A failing expression is reported and
// abandoned; the walk continues with the next expression so as many errors
// as possible surface in one run.
type Walker struct {
	resolver *resolve.Resolver
	lu       *ast.LinkingUnit
}

// NewWalker creates a walker over the given linking unit.
func NewWalker(resolver *resolve.Resolver, lu *ast.LinkingUnit) *Walker {
	return &Walker{resolver: resolver, lu: lu}
}

// Walk runs both expression passes over every compilation unit.
func (w *Walker) Walk() {
	for _, cu := range w.lu.Units {
		if cu.Poisoned {
			continue
		}

		switch body := cu.Body.(type) {
		case *ast.ClassDecl:
			w.walkClass(cu, body)
		case *ast.InterfaceDecl:
			// Interface methods have no bodies and interfaces have no
			// fields, so there are no expressions to check.
		}
	}
}

// -----------------------------------------------------------------------------

func (w *Walker) walkClass(cu *ast.CompilationUnit, class *ast.ClassDecl) {
	for _, field := range class.Fields {
		if field.Init == nil {
			continue
		}

		w.checkExpr(cu, class, nil, field.Init, field.Modifiers.IsStatic(), field)
	}

	for _, method := range class.Methods {
		w.walkMethod(cu, class, method)
	}

	for _, ctor := range class.Constructors {
		w.walkMethod(cu, class, ctor)
	}
}

func (w *Walker) walkMethod(cu *ast.CompilationUnit, class *ast.ClassDecl, method *ast.MethodDecl) {
	if method.Body == nil {
		return
	}

	isStatic := method.Modifiers.IsStatic()

	ast.WalkStmts(method.Body, func(stmt ast.Stmt) {
		for _, expr := range stmt.Exprs() {
			w.checkExpr(cu, class, method, expr, isStatic, nil)
		}

		// A local declaration also checks its initializer against the
		// declared type.
		if ds, ok := stmt.(*ast.DeclStmt); ok && ds.Var.Init != nil {
			w.checkInitAssignable(cu, class, method, ds.Var)
		}
	})
}

// checkExpr runs the type resolver and then the static checker over one
// expression.  Either failure aborts only this expression.
func (w *Walker) checkExpr(cu *ast.CompilationUnit, class *ast.ClassDecl, method *ast.MethodDecl, expr *ast.Expr, isStaticContext bool, field *ast.FieldDecl) {
	tr := NewExprTypeResolver(w.resolver, cu, class, method)
	ty, err := tr.Resolve(expr)
	if err != nil {
		report.Report(report.AsDiagnostic(err))
		return
	}

	// A field initializer's value must be assignable to the field's type.
	if field != nil && ty != nil && !tr.isAssignableTo(field.Type, ty) {
		report.ReportError(report.KindType, expr.Span(),
			"invalid assignment: `%s` is not assignable to `%s`", ty, field.Type)
		return
	}

	isInstFieldInit := field != nil && !field.Modifiers.IsStatic()

	var fieldScope *ast.ScopeID
	if field != nil {
		fieldScope = field.Scope
	}

	sc := NewExprStaticChecker(class, isStaticContext, isInstFieldInit, fieldScope)
	if err := sc.Check(expr); err != nil {
		report.Report(report.AsDiagnostic(err))
	}
}

// checkInitAssignable verifies a local initializer against the declared
// type of the local.
func (w *Walker) checkInitAssignable(cu *ast.CompilationUnit, class *ast.ClassDecl, method *ast.MethodDecl, v *ast.VarDecl) {
	tr := NewExprTypeResolver(w.resolver, cu, class, method)
	ty, err := tr.Resolve(v.Init)
	if err != nil {
		// Already reported by the expression walk.
		return
	}

	if ty != nil && !tr.isAssignableTo(v.Type, ty) {
		report.ReportError(report.KindType, v.Init.Span(),
			"invalid assignment: `%s` is not assignable to `%s`", ty, v.Type)
	}
}
