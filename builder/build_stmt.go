package builder

import (
	"joosc/ast"
	"joosc/parsetree"
)

// stmtScope tracks the statement walk state: the locals collected so far
// for the enclosing method and the current lexical scope position.
type stmtScope struct {
	locals *[]*ast.VarDecl
	parent *ast.ScopeID
	pos    *ast.ScopeID
}

func newStmtScope() *stmtScope {
	parent := ast.NewScope()
	return &stmtScope{locals: new([]*ast.VarDecl), parent: parent, pos: parent.Child()}
}

// nested returns the scope state for a nested block.
func (sc *stmtScope) nested() *stmtScope {
	return &stmtScope{locals: sc.locals, parent: sc.pos, pos: sc.pos.Child()}
}

// declare records a local at the current position and advances it.
func (sc *stmtScope) declare(v *ast.VarDecl) {
	v.Scope = sc.pos
	*sc.locals = append(*sc.locals, v)
	sc.pos = sc.pos.Next(sc.parent)
}

// visitBlockCollectingLocals builds a method body block and returns the
// locals declared anywhere inside it, in declaration order.
func (b *Builder) visitBlockCollectingLocals(node *parsetree.Node) (ast.Stmt, []*ast.VarDecl, error) {
	sc := newStmtScope()
	stmt, err := b.visitBlock(node, sc)
	if err != nil {
		return nil, nil, err
	}

	return stmt, *sc.locals, nil
}

// visitBlock builds a block statement.  Shape: (blockStatementListOpt).
func (b *Builder) visitBlock(node *parsetree.Node, sc *stmtScope) (ast.Stmt, error) {
	if err := checkKind(node, parsetree.KindBlock); err != nil {
		return nil, err
	}

	if err := checkChildren(node, 0, 1); err != nil {
		return nil, err
	}

	var stmts []ast.Stmt
	if node.NumChildren() == 1 && node.Child(0) != nil {
		var err error
		stmts, err = visitList(b, node.Child(0), parsetree.KindBlockStatementList, func(n *parsetree.Node) (ast.Stmt, error) {
			return b.visitStatement(n, sc)
		})
		if err != nil {
			return nil, err
		}
	}

	return ast.NewBlockStmt(stmts, node.Span()), nil
}

// visitStatement builds a single statement of any kind.
func (b *Builder) visitStatement(node *parsetree.Node, sc *stmtScope) (ast.Stmt, error) {
	switch node.Kind() {
	case parsetree.KindStatement:
		// Wrapper node around the concrete statement; an empty wrapper is
		// the null statement.
		if err := checkChildren(node, 0, 1); err != nil {
			return nil, err
		}

		if node.NumChildren() == 0 || node.Child(0) == nil {
			return ast.NewNullStmt(node.Span()), nil
		}

		return b.visitStatement(node.Child(0), sc)

	case parsetree.KindBlock:
		return b.visitBlock(node, sc.nested())

	case parsetree.KindLocalVariableDeclaration:
		return b.visitLocalVariableDeclaration(node, sc)

	case parsetree.KindIfThenStatement:
		return b.visitIfThenStatement(node, sc)

	case parsetree.KindWhileStatement:
		return b.visitWhileStatement(node, sc)

	case parsetree.KindForStatement:
		return b.visitForStatement(node, sc)

	case parsetree.KindReturnStatement:
		return b.visitReturnStatement(node)

	case parsetree.KindStatementExpression:
		expr, err := b.visitStatementExpression(node)
		if err != nil {
			return nil, err
		}

		return ast.NewExprStmt(expr, node.Span()), nil
	}

	return nil, shapeError(node, "expected statement, found %s", node.Kind())
}

// visitLocalVariableDeclaration builds a local declaration statement.
// Shape: (type, declarator).
func (b *Builder) visitLocalVariableDeclaration(node *parsetree.Node, sc *stmtScope) (ast.Stmt, error) {
	if err := checkChildren(node, 2, 2); err != nil {
		return nil, err
	}

	ty, err := b.visitType(node.Child(0))
	if err != nil {
		return nil, err
	}

	name, init, err := b.visitVariableDeclarator(node.Child(1))
	if err != nil {
		return nil, err
	}

	v := ast.NewVarDecl(name, ty, init, nil, false, node.Span())
	sc.declare(v)
	return ast.NewDeclStmt(v, node.Span()), nil
}

// visitIfThenStatement builds an if statement.
// Shape: (cond, then[, else]).
func (b *Builder) visitIfThenStatement(node *parsetree.Node, sc *stmtScope) (ast.Stmt, error) {
	if err := checkChildren(node, 2, 3); err != nil {
		return nil, err
	}

	cond, err := b.visitExpression(node.Child(0))
	if err != nil {
		return nil, err
	}

	then, err := b.visitStatement(node.Child(1), sc.nested())
	if err != nil {
		return nil, err
	}

	var els ast.Stmt
	if node.NumChildren() == 3 && node.Child(2) != nil {
		els, err = b.visitStatement(node.Child(2), sc.nested())
		if err != nil {
			return nil, err
		}
	}

	return ast.NewIfStmt(cond, then, els, node.Span()), nil
}

// visitWhileStatement builds a while statement.  Shape: (cond, body).
func (b *Builder) visitWhileStatement(node *parsetree.Node, sc *stmtScope) (ast.Stmt, error) {
	if err := checkChildren(node, 2, 2); err != nil {
		return nil, err
	}

	cond, err := b.visitExpression(node.Child(0))
	if err != nil {
		return nil, err
	}

	body, err := b.visitStatement(node.Child(1), sc.nested())
	if err != nil {
		return nil, err
	}

	return ast.NewWhileStmt(cond, body, node.Span()), nil
}

// visitForStatement builds a for statement.
// Shape: (initOpt, condOpt, updateOpt, body).
func (b *Builder) visitForStatement(node *parsetree.Node, sc *stmtScope) (ast.Stmt, error) {
	if err := checkChildren(node, 4, 4); err != nil {
		return nil, err
	}

	inner := sc.nested()

	var init ast.Stmt
	var err error
	if node.Child(0) != nil {
		init, err = b.visitStatement(node.Child(0), inner)
		if err != nil {
			return nil, err
		}
	}

	var cond *ast.Expr
	if node.Child(1) != nil {
		cond, err = b.visitExpression(node.Child(1))
		if err != nil {
			return nil, err
		}
	}

	var update ast.Stmt
	if node.Child(2) != nil {
		update, err = b.visitStatement(node.Child(2), inner)
		if err != nil {
			return nil, err
		}
	}

	body, err := b.visitStatement(node.Child(3), inner)
	if err != nil {
		return nil, err
	}

	return ast.NewForStmt(init, cond, update, body, node.Span()), nil
}

// visitReturnStatement builds a return statement.  Shape: (exprOpt).
func (b *Builder) visitReturnStatement(node *parsetree.Node) (ast.Stmt, error) {
	if err := checkChildren(node, 0, 1); err != nil {
		return nil, err
	}

	var value *ast.Expr
	var err error
	if node.NumChildren() == 1 && node.Child(0) != nil {
		value, err = b.visitExpression(node.Child(0))
		if err != nil {
			return nil, err
		}
	}

	return ast.NewReturnStmt(value, node.Span()), nil
}
