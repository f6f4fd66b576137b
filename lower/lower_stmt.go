package lower

import (
	"joosc/ast"
	"joosc/report"
)

// lowerStmt lowers one statement into the current block.
func (l *Lowerer) lowerStmt(stmt ast.Stmt) {
	if stmt == nil {
		return
	}

	// Nothing is reachable after a terminator.
	if _, terminated := l.builder.Block().Terminator(); terminated {
		return
	}

	switch s := stmt.(type) {
	case *ast.BlockStmt:
		for _, sub := range s.Stmts {
			l.lowerStmt(sub)
		}

	case *ast.NullStmt:
		// Nothing to emit.

	case *ast.DeclStmt:
		l.lowerDeclStmt(s)

	case *ast.ExprStmt:
		if _, err := l.emitExpr(s.E); err != nil {
			report.Report(report.AsDiagnostic(err))
		}

	case *ast.IfStmt:
		l.lowerIfStmt(s)

	case *ast.WhileStmt:
		l.lowerWhileStmt(s)

	case *ast.ForStmt:
		l.lowerForStmt(s)

	case *ast.ReturnStmt:
		l.lowerReturnStmt(s)

	default:
		report.ReportICE("cannot lower statement")
	}
}

// lowerDeclStmt reserves a slot for the local and stores its initializer.
func (l *Lowerer) lowerDeclStmt(s *ast.DeclStmt) {
	slot := l.curFn.CreateAlloca(l.emitType(s.Var.Type))
	slot.SetName(s.Var.Name())
	l.valueMap[s.Var] = slot

	if s.Var.Init == nil {
		return
	}

	val, err := l.emitExpr(s.Var.Init)
	if err != nil {
		report.Report(report.AsDiagnostic(err))
		return
	}

	l.builder.BuildStore(val.asRValue(l), slot)
}

func (l *Lowerer) lowerIfStmt(s *ast.IfStmt) {
	cond, err := l.emitExpr(s.Cond)
	if err != nil {
		report.Report(report.AsDiagnostic(err))
		return
	}

	bbThen := l.curFn.NewBlock()
	bbThen.SetName("if.then")
	bbAfter := l.curFn.NewBlock()
	bbAfter.SetName("if.after")

	bbElse := bbAfter
	if s.Else != nil {
		bbElse = l.curFn.NewBlock()
		bbElse.SetName("if.else")
	}

	l.builder.BuildCondBr(cond.asRValue(l), bbThen, bbElse)

	l.builder.MoveToEnd(bbThen)
	l.lowerStmt(s.Then)
	if _, terminated := l.builder.Block().Terminator(); !terminated {
		l.builder.BuildBr(bbAfter)
	}

	if s.Else != nil {
		l.builder.MoveToEnd(bbElse)
		l.lowerStmt(s.Else)
		if _, terminated := l.builder.Block().Terminator(); !terminated {
			l.builder.BuildBr(bbAfter)
		}
	}

	l.builder.MoveToEnd(bbAfter)
}

func (l *Lowerer) lowerWhileStmt(s *ast.WhileStmt) {
	bbCond := l.curFn.NewBlock()
	bbCond.SetName("while.cond")
	bbBody := l.curFn.NewBlock()
	bbBody.SetName("while.body")
	bbAfter := l.curFn.NewBlock()
	bbAfter.SetName("while.after")

	l.builder.BuildBr(bbCond)

	l.builder.MoveToEnd(bbCond)
	cond, err := l.emitExpr(s.Cond)
	if err != nil {
		report.Report(report.AsDiagnostic(err))
		return
	}

	l.builder.BuildCondBr(cond.asRValue(l), bbBody, bbAfter)

	l.builder.MoveToEnd(bbBody)
	l.lowerStmt(s.Body)
	if _, terminated := l.builder.Block().Terminator(); !terminated {
		l.builder.BuildBr(bbCond)
	}

	l.builder.MoveToEnd(bbAfter)
}

func (l *Lowerer) lowerForStmt(s *ast.ForStmt) {
	l.lowerStmt(s.Init)

	bbCond := l.curFn.NewBlock()
	bbCond.SetName("for.cond")
	bbBody := l.curFn.NewBlock()
	bbBody.SetName("for.body")
	bbAfter := l.curFn.NewBlock()
	bbAfter.SetName("for.after")

	l.builder.BuildBr(bbCond)

	l.builder.MoveToEnd(bbCond)
	if s.Cond != nil {
		cond, err := l.emitExpr(s.Cond)
		if err != nil {
			report.Report(report.AsDiagnostic(err))
			return
		}

		l.builder.BuildCondBr(cond.asRValue(l), bbBody, bbAfter)
	} else {
		l.builder.BuildBr(bbBody)
	}

	l.builder.MoveToEnd(bbBody)
	l.lowerStmt(s.Body)
	l.lowerStmt(s.Update)
	if _, terminated := l.builder.Block().Terminator(); !terminated {
		l.builder.BuildBr(bbCond)
	}

	l.builder.MoveToEnd(bbAfter)
}

func (l *Lowerer) lowerReturnStmt(s *ast.ReturnStmt) {
	if s.Value == nil {
		l.builder.BuildRet(nil)
		return
	}

	val, err := l.emitExpr(s.Value)
	if err != nil {
		report.Report(report.AsDiagnostic(err))
		return
	}

	l.builder.BuildRet(val.asRValue(l))
}
