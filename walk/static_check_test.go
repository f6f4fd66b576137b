package walk

import (
	"testing"

	"joosc/ast"
	"joosc/report"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staticErrors(t *testing.T) []*report.Diagnostic {
	t.Helper()

	var out []*report.Diagnostic
	for _, d := range report.Diagnostics() {
		if d.Severity == report.SevError && d.Kind == report.KindStaticUse {
			out = append(out, d)
		}
	}

	return out
}

func TestStaticCheck_ForwardReferenceInInitializer(t *testing.T) {
	report.InitReporter(report.LogLevelSilent, nil)

	// class C { int a = b + 1; int b = 2; }
	initA := ast.NewExpr([]ast.ExprNode{
		ast.NewMemberName("b", nowhere),
		ast.NewLiteralNode(ast.LitInt, "1", nowhere),
		ast.NewBinaryOp(ast.BinAdd, nowhere),
	}, nowhere)

	initB := ast.NewExpr([]ast.ExprNode{
		ast.NewLiteralNode(ast.LitInt, "2", nowhere),
	}, nowhere)

	fieldA := fieldOf("a", intType(), initA, 0)
	fieldB := fieldOf("b", intType(), initB, 1)

	// The two positions must share a parent scope.
	classScope := ast.NewScope()
	fieldA.Scope = classScope.Child()
	fieldB.Scope = fieldA.Scope.Next(classScope)

	cu, _ := classIn("p", "C", fieldA, fieldB)
	resolver, lu := program(t, cu)
	NewWalker(resolver, lu).Walk()

	errs := staticErrors(t)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message(), "forward reference")
	assert.Contains(t, errs[0].Message(), "b")
}

func TestStaticCheck_BackwardReferenceIsFine(t *testing.T) {
	report.InitReporter(report.LogLevelSilent, nil)

	// class C { int a = 2; int b = a + 1; }
	initA := ast.NewExpr([]ast.ExprNode{
		ast.NewLiteralNode(ast.LitInt, "2", nowhere),
	}, nowhere)

	initB := ast.NewExpr([]ast.ExprNode{
		ast.NewMemberName("a", nowhere),
		ast.NewLiteralNode(ast.LitInt, "1", nowhere),
		ast.NewBinaryOp(ast.BinAdd, nowhere),
	}, nowhere)

	fieldA := fieldOf("a", intType(), initA, 0)
	fieldB := fieldOf("b", intType(), initB, 1)

	classScope := ast.NewScope()
	fieldA.Scope = classScope.Child()
	fieldB.Scope = fieldA.Scope.Next(classScope)

	cu, _ := classIn("p", "C", fieldA, fieldB)
	resolver, lu := program(t, cu)
	NewWalker(resolver, lu).Walk()

	assert.Empty(t, staticErrors(t))
	assert.False(t, report.AnyErrors())
}

func TestStaticCheck_ThisInStaticMethod(t *testing.T) {
	report.InitReporter(report.LogLevelSilent, nil)

	// class C { int x; static int f() { return this.x; } }
	fieldX := fieldOf("x", intType(), nil, 0)

	returnExpr := ast.NewExpr([]ast.ExprNode{
		ast.NewThisNode(nowhere),
		ast.NewMemberName("x", nowhere),
		ast.NewMemberAccess(nowhere),
	}, nowhere)

	body := ast.NewBlockStmt([]ast.Stmt{
		ast.NewReturnStmt(returnExpr, nowhere),
	}, nowhere)

	var staticMods ast.Modifiers
	staticMods.Set(ast.ModStatic, nowhere)
	method := ast.NewMethodDecl("f", staticMods, intType(), nil, false, body, nowhere)

	cu, _ := classIn("p", "C", fieldX, method)
	resolver, lu := program(t, cu)
	NewWalker(resolver, lu).Walk()

	errs := staticErrors(t)
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Message(), "this")
	assert.Contains(t, errs[0].Message(), "static")
}

func TestStaticCheck_InstanceMemberInStaticContext(t *testing.T) {
	report.InitReporter(report.LogLevelSilent, nil)

	// class C { int x; static int f() { return x; } }
	fieldX := fieldOf("x", intType(), nil, 0)

	returnExpr := ast.NewExpr([]ast.ExprNode{
		ast.NewMemberName("x", nowhere),
		ast.NewLiteralNode(ast.LitInt, "1", nowhere),
		ast.NewBinaryOp(ast.BinAdd, nowhere),
	}, nowhere)

	body := ast.NewBlockStmt([]ast.Stmt{
		ast.NewReturnStmt(returnExpr, nowhere),
	}, nowhere)

	var staticMods ast.Modifiers
	staticMods.Set(ast.ModStatic, nowhere)
	method := ast.NewMethodDecl("f", staticMods, intType(), nil, false, body, nowhere)

	cu, _ := classIn("p", "C", fieldX, method)
	resolver, lu := program(t, cu)
	NewWalker(resolver, lu).Walk()

	errs := staticErrors(t)
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Message(), "instance members in a static context")
}

func TestStaticCheck_StaticFieldThroughInstance(t *testing.T) {
	report.InitReporter(report.LogLevelSilent, nil)

	// class C { static int s; int f(C c) { return c.s; } }
	var staticMods ast.Modifiers
	staticMods.Set(ast.ModStatic, nowhere)
	fieldS := ast.NewFieldDecl("s", staticMods, intType(), nil, ast.NewScope().Child(), nowhere)

	param := ast.NewVarDecl("c", ast.NewUnresolvedType([]string{"C"}, nowhere), nil, nil, true, nowhere)

	returnExpr := ast.NewExpr([]ast.ExprNode{
		ast.NewMemberName("c", nowhere),
		ast.NewMemberName("s", nowhere),
		ast.NewMemberAccess(nowhere),
	}, nowhere)

	body := ast.NewBlockStmt([]ast.Stmt{
		ast.NewReturnStmt(returnExpr, nowhere),
	}, nowhere)

	method := ast.NewMethodDecl("f", ast.Modifiers{}, intType(), []*ast.VarDecl{param}, false, body, nowhere)

	cu, _ := classIn("p", "C", fieldS, method)
	resolver, lu := program(t, cu)
	NewWalker(resolver, lu).Walk()

	errs := staticErrors(t)
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Message(), "static field through an instance")
}

func TestStaticCheck_StaticAccessThroughTypeName(t *testing.T) {
	report.InitReporter(report.LogLevelSilent, nil)

	// class C { static int s; static int f() { return C.s; } }
	var staticMods ast.Modifiers
	staticMods.Set(ast.ModStatic, nowhere)
	fieldS := ast.NewFieldDecl("s", staticMods, intType(), nil, ast.NewScope().Child(), nowhere)

	returnExpr := ast.NewExpr([]ast.ExprNode{
		ast.NewMemberName("C", nowhere),
		ast.NewMemberName("s", nowhere),
		ast.NewMemberAccess(nowhere),
	}, nowhere)

	body := ast.NewBlockStmt([]ast.Stmt{
		ast.NewReturnStmt(returnExpr, nowhere),
	}, nowhere)

	method := ast.NewMethodDecl("f", staticMods, intType(), nil, false, body, nowhere)

	cu, _ := classIn("p", "C", fieldS, method)
	resolver, lu := program(t, cu)
	NewWalker(resolver, lu).Walk()

	// Static access through the type name is legal, even in a static
	// context.
	assert.Empty(t, staticErrors(t))
	assert.False(t, report.AnyErrors())
}
