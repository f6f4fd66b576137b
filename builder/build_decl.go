package builder

import (
	"joosc/ast"
	"joosc/parsetree"
	"joosc/report"
)

// visitCompilationUnit builds a compilation unit from its parse tree:
// package declaration, import list, and optional top-level declaration.
func (b *Builder) visitCompilationUnit(node *parsetree.Node) (*ast.CompilationUnit, error) {
	if err := checkKind(node, parsetree.KindCompilationUnit); err != nil {
		return nil, err
	}

	if err := checkChildren(node, 3, 3); err != nil {
		return nil, err
	}

	pkg, err := b.visitPackageDeclaration(node.Child(0))
	if err != nil {
		return nil, err
	}

	imports, err := visitList(b, node.Child(1), parsetree.KindImportDeclarationList, b.visitImportDeclaration)
	if err != nil {
		return nil, err
	}

	var body ast.Decl
	if bodyNode := node.Child(2); bodyNode != nil {
		switch bodyNode.Kind() {
		case parsetree.KindClassDeclaration:
			body, err = b.visitClassDeclaration(bodyNode)
		case parsetree.KindInterfaceDeclaration:
			body, err = b.visitInterfaceDeclaration(bodyNode)
		default:
			err = shapeError(bodyNode, "expected class or interface declaration, found %s", bodyNode.Kind())
		}

		if err != nil {
			return nil, err
		}
	}

	return ast.NewCompilationUnit(pkg, imports, body, node.Span()), nil
}

// visitPackageDeclaration builds the package name of a unit.  A nil node is
// the default package.
func (b *Builder) visitPackageDeclaration(node *parsetree.Node) (*ast.UnresolvedType, error) {
	if node == nil {
		return ast.NewUnresolvedType(nil, report.SourceRange{}), nil
	}

	if err := checkKind(node, parsetree.KindPackageDeclaration); err != nil {
		return nil, err
	}

	if err := checkChildren(node, 1, 1); err != nil {
		return nil, err
	}

	return b.visitQualifiedIdentifier(node.Child(0))
}

// visitImportDeclaration builds one import declaration, either single-type
// or on-demand.
func (b *Builder) visitImportDeclaration(node *parsetree.Node) (ast.ImportDecl, error) {
	switch node.Kind() {
	case parsetree.KindSingleTypeImportDeclaration, parsetree.KindTypeImportOnDemandDeclaration:
		if err := checkChildren(node, 1, 1); err != nil {
			return ast.ImportDecl{}, err
		}

		ty, err := b.visitQualifiedIdentifier(node.Child(0))
		if err != nil {
			return ast.ImportDecl{}, err
		}

		return ast.ImportDecl{
			Type:       ty,
			IsOnDemand: node.Kind() == parsetree.KindTypeImportOnDemandDeclaration,
		}, nil
	}

	return ast.ImportDecl{}, shapeError(node, "expected import declaration, found %s", node.Kind())
}

// -----------------------------------------------------------------------------

// visitClassDeclaration builds a class declaration.
// Shape: (modifiers, name, superOpt, interfaceTypeList, classBodyDeclList).
func (b *Builder) visitClassDeclaration(node *parsetree.Node) (*ast.ClassDecl, error) {
	if err := checkChildren(node, 5, 5); err != nil {
		return nil, err
	}

	mods, err := b.visitModifiers(node.Child(0))
	if err != nil {
		return nil, err
	}

	name, err := b.visitIdentifier(node.Child(1))
	if err != nil {
		return nil, err
	}

	super, err := b.visitSuperOpt(node.Child(2))
	if err != nil {
		return nil, err
	}

	interfaces, err := visitList(b, node.Child(3), parsetree.KindInterfaceTypeList, b.visitQualifiedIdentifier)
	if err != nil {
		return nil, err
	}

	body, err := visitList(b, node.Child(4), parsetree.KindClassBodyDeclarationList, b.visitClassBodyDeclaration)
	if err != nil {
		return nil, err
	}

	// Assign lexical scope positions in class body order; the static checker
	// compares these to enforce the initializer forward-reference rule.
	classScope := ast.NewScope()
	pos := classScope.Child()
	for _, decl := range body {
		if field, ok := decl.(*ast.FieldDecl); ok {
			field.Scope = pos
		}

		pos = pos.Next(classScope)
	}

	return ast.NewClassDecl(name, mods, super, nil, interfaces, body, node.Span()), nil
}

// visitSuperOpt builds the optional explicit superclass reference.
func (b *Builder) visitSuperOpt(node *parsetree.Node) (*ast.UnresolvedType, error) {
	if node == nil {
		return nil, nil
	}

	if err := checkKind(node, parsetree.KindSuperOpt); err != nil {
		return nil, err
	}

	if err := checkChildren(node, 1, 1); err != nil {
		return nil, err
	}

	return b.visitQualifiedIdentifier(node.Child(0))
}

// visitClassBodyDeclaration builds one member of a class body.
func (b *Builder) visitClassBodyDeclaration(node *parsetree.Node) (ast.Decl, error) {
	switch node.Kind() {
	case parsetree.KindFieldDeclaration:
		return b.visitFieldDeclaration(node)
	case parsetree.KindMethodDeclaration:
		return b.visitMethodDeclaration(node)
	case parsetree.KindConstructorDeclaration:
		return b.visitConstructorDeclaration(node)
	}

	return nil, shapeError(node, "expected class body declaration, found %s", node.Kind())
}

// visitFieldDeclaration builds a field declaration.
// Shape: (modifiers, type, declarator).
func (b *Builder) visitFieldDeclaration(node *parsetree.Node) (*ast.FieldDecl, error) {
	if err := checkChildren(node, 3, 3); err != nil {
		return nil, err
	}

	mods, err := b.visitModifiers(node.Child(0))
	if err != nil {
		return nil, err
	}

	ty, err := b.visitType(node.Child(1))
	if err != nil {
		return nil, err
	}

	name, init, err := b.visitVariableDeclarator(node.Child(2))
	if err != nil {
		return nil, err
	}

	// The field's scope position is assigned by the caller: positions follow
	// class body order, so visitClassDeclaration fills them in when the class
	// is assembled.
	return ast.NewFieldDecl(name, mods, ty, init, nil, node.Span()), nil
}

// visitVariableDeclarator builds a (name, optional initializer) pair.
func (b *Builder) visitVariableDeclarator(node *parsetree.Node) (string, *ast.Expr, error) {
	if err := checkKind(node, parsetree.KindVariableDeclarator); err != nil {
		return "", nil, err
	}

	if err := checkChildren(node, 1, 2); err != nil {
		return "", nil, err
	}

	name, err := b.visitIdentifier(node.Child(0))
	if err != nil {
		return "", nil, err
	}

	var init *ast.Expr
	if node.NumChildren() == 2 && node.Child(1) != nil {
		init, err = b.visitExpression(node.Child(1))
		if err != nil {
			return "", nil, err
		}
	}

	return name, init, nil
}

// -----------------------------------------------------------------------------

// visitInterfaceDeclaration builds an interface declaration.
// Shape: (modifiers, name, extendsList, memberList).
func (b *Builder) visitInterfaceDeclaration(node *parsetree.Node) (*ast.InterfaceDecl, error) {
	if err := checkChildren(node, 4, 4); err != nil {
		return nil, err
	}

	mods, err := b.visitModifiers(node.Child(0))
	if err != nil {
		return nil, err
	}

	name, err := b.visitIdentifier(node.Child(1))
	if err != nil {
		return nil, err
	}

	extends, err := visitList(b, node.Child(2), parsetree.KindInterfaceTypeList, b.visitQualifiedIdentifier)
	if err != nil {
		return nil, err
	}

	body, err := visitList(b, node.Child(3), parsetree.KindInterfaceMemberDeclarationList, func(n *parsetree.Node) (ast.Decl, error) {
		if err := checkKind(n, parsetree.KindAbstractMethodDeclaration); err != nil {
			return nil, err
		}

		return b.visitAbstractMethodDeclaration(n)
	})
	if err != nil {
		return nil, err
	}

	return ast.NewInterfaceDecl(name, mods, extends, body, node.Span()), nil
}

// -----------------------------------------------------------------------------

// visitMethodDeclaration builds a concrete method declaration.
// Shape: (methodHeader, block).
func (b *Builder) visitMethodDeclaration(node *parsetree.Node) (*ast.MethodDecl, error) {
	if err := checkChildren(node, 2, 2); err != nil {
		return nil, err
	}

	mods, name, returnType, params, err := b.visitMethodHeader(node.Child(0))
	if err != nil {
		return nil, err
	}

	var body ast.Stmt
	var locals []*ast.VarDecl
	if node.Child(1) != nil {
		body, locals, err = b.visitBlockCollectingLocals(node.Child(1))
		if err != nil {
			return nil, err
		}
	}

	md := ast.NewMethodDecl(name, mods, returnType, params, false, body, node.Span())
	md.AddLocals(locals)
	return md, nil
}

// visitConstructorDeclaration builds a constructor declaration.
// Shape: (modifiers, name, formalParameterList, block).
func (b *Builder) visitConstructorDeclaration(node *parsetree.Node) (*ast.MethodDecl, error) {
	if err := checkChildren(node, 4, 4); err != nil {
		return nil, err
	}

	mods, err := b.visitModifiers(node.Child(0))
	if err != nil {
		return nil, err
	}

	name, err := b.visitIdentifier(node.Child(1))
	if err != nil {
		return nil, err
	}

	params, err := visitList(b, node.Child(2), parsetree.KindFormalParameterList, b.visitFormalParameter)
	if err != nil {
		return nil, err
	}

	body, locals, err := b.visitBlockCollectingLocals(node.Child(3))
	if err != nil {
		return nil, err
	}

	md := ast.NewMethodDecl(name, mods, nil, params, true, body, node.Span())
	md.AddLocals(locals)
	return md, nil
}

// visitAbstractMethodDeclaration builds an abstract (bodiless) method.
// Shape: (methodHeader).
func (b *Builder) visitAbstractMethodDeclaration(node *parsetree.Node) (*ast.MethodDecl, error) {
	if err := checkChildren(node, 1, 1); err != nil {
		return nil, err
	}

	mods, name, returnType, params, err := b.visitMethodHeader(node.Child(0))
	if err != nil {
		return nil, err
	}

	return ast.NewMethodDecl(name, mods, returnType, params, false, nil, node.Span()), nil
}

// visitMethodHeader builds the shared header of method declarations.
// Shape: (modifiers, returnTypeOpt, name, formalParameterList).
func (b *Builder) visitMethodHeader(node *parsetree.Node) (ast.Modifiers, string, ast.Type, []*ast.VarDecl, error) {
	if err := checkKind(node, parsetree.KindMethodHeader); err != nil {
		return ast.Modifiers{}, "", nil, nil, err
	}

	if err := checkChildren(node, 4, 4); err != nil {
		return ast.Modifiers{}, "", nil, nil, err
	}

	mods, err := b.visitModifiers(node.Child(0))
	if err != nil {
		return ast.Modifiers{}, "", nil, nil, err
	}

	// A nil return type node encodes void.
	var returnType ast.Type
	if node.Child(1) != nil {
		returnType, err = b.visitType(node.Child(1))
		if err != nil {
			return ast.Modifiers{}, "", nil, nil, err
		}
	}

	name, err := b.visitIdentifier(node.Child(2))
	if err != nil {
		return ast.Modifiers{}, "", nil, nil, err
	}

	params, err := visitList(b, node.Child(3), parsetree.KindFormalParameterList, b.visitFormalParameter)
	if err != nil {
		return ast.Modifiers{}, "", nil, nil, err
	}

	return mods, name, returnType, params, nil
}

// visitFormalParameter builds one formal parameter.
// Shape: (type, name).
func (b *Builder) visitFormalParameter(node *parsetree.Node) (*ast.VarDecl, error) {
	if err := checkKind(node, parsetree.KindFormalParameter); err != nil {
		return nil, err
	}

	if err := checkChildren(node, 2, 2); err != nil {
		return nil, err
	}

	ty, err := b.visitType(node.Child(0))
	if err != nil {
		return nil, err
	}

	name, err := b.visitIdentifier(node.Child(1))
	if err != nil {
		return nil, err
	}

	return ast.NewVarDecl(name, ty, nil, nil, true, node.Span()), nil
}
