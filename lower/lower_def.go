package lower

import (
	"joosc/ast"
	"joosc/ir"
	"joosc/report"
)

// generateClass generates the bodies of one class's methods and
// constructors.
func (l *Lowerer) generateClass(class *ast.ClassDecl) {
	for _, method := range class.Methods {
		if method.Body != nil {
			l.generateMethodBody(class, method)
		}
	}

	for _, ctor := range class.Constructors {
		if ctor.Body != nil {
			l.generateMethodBody(class, ctor)
		}
	}
}

// generateMethodBody generates the body of one method: an entry block of
// parameter slots, the lowered statement tree, and an implicit return for
// functions that fall off the end.
func (l *Lowerer) generateMethodBody(class *ast.ClassDecl, method *ast.MethodDecl) {
	fn, ok := l.gvMap[method].(*ir.Function)
	if !ok {
		report.ReportICE("method `%s` was never declared", method.Name())
	}

	l.curFn = fn
	l.curClass = class
	l.valueMap = make(map[*ast.VarDecl]ir.Value)
	l.thisSlot = nil

	entry := fn.NewBlock()
	entry.SetName("entry")
	l.builder.MoveToEnd(entry)

	// Spill every argument into a stack slot so the body can treat
	// parameters as ordinary l-values.
	args := fn.Args()
	if !method.Modifiers.IsStatic() {
		slot := l.builder.BuildAlloca(l.ctx.PointerTy())
		slot.SetName("this")
		l.builder.BuildStore(args[0], slot)
		l.thisSlot = slot
		args = args[1:]
	}

	for i, param := range method.Params {
		slot := l.builder.BuildAlloca(l.emitType(param.Type))
		slot.SetName(param.Name())
		l.builder.BuildStore(args[i], slot)
		l.valueMap[param] = slot
	}

	l.lowerStmt(method.Body)

	// A body that falls off the end returns void implicitly.
	if _, terminated := l.builder.Block().Terminator(); !terminated {
		l.builder.BuildRet(nil)
	}
}

// -----------------------------------------------------------------------------

// generateStaticInit emits the synthetic `__static_init` function that
// evaluates every static field initializer and stores the results into the
// field globals.
func (l *Lowerer) generateStaticInit() {
	var inits []*ast.FieldDecl
	var classes []*ast.ClassDecl

	for _, cu := range l.lu.Units {
		class, ok := cu.Body.(*ast.ClassDecl)
		if !ok || cu.Poisoned {
			continue
		}

		for _, field := range class.Fields {
			if field.Modifiers.IsStatic() && field.Init != nil {
				inits = append(inits, field)
				classes = append(classes, class)
			}
		}
	}

	if len(inits) == 0 {
		return
	}

	fn := l.unit.CreateFunction(ir.NewFunctionType(l.ctx.VoidTy()), "__static_init")
	if fn == nil {
		report.ReportICE("duplicate __static_init function")
	}

	l.curFn = fn
	l.thisSlot = nil
	l.valueMap = make(map[*ast.VarDecl]ir.Value)

	entry := fn.NewBlock()
	entry.SetName("entry")
	l.builder.MoveToEnd(entry)

	for i, field := range inits {
		l.curClass = classes[i]

		val, err := l.emitExpr(field.Init)
		if err != nil {
			report.Report(report.AsDiagnostic(err))
			continue
		}

		l.builder.BuildStore(val.asRValue(l), l.gvMap[field])
	}

	l.builder.BuildRet(nil)
}
