package walk

import (
	"testing"

	"joosc/arena"
	"joosc/ast"
	"joosc/report"
	"joosc/resolve"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var nowhere = report.SourceRange{}

// program wires a set of compilation units through name resolution so the
// expression passes can run over them.
func program(t *testing.T, units ...*ast.CompilationUnit) (*resolve.Resolver, *ast.LinkingUnit) {
	t.Helper()

	lu := ast.NewLinkingUnit(units)
	r := resolve.NewResolver(arena.New(), lu)
	r.Resolve()
	require.False(t, report.AnyErrors(), "unexpected resolution errors")
	return r, lu
}

func classIn(pkg, name string, body ...ast.Decl) (*ast.CompilationUnit, *ast.ClassDecl) {
	class := ast.NewClassDecl(name, ast.Modifiers{}, nil, nil, nil, body, nowhere)
	cu := ast.NewCompilationUnit(ast.NewUnresolvedType([]string{pkg}, nowhere), nil, class, nowhere)
	return cu, class
}

// subclassIn builds `class <name> extends <super>`.
func subclassIn(pkg, name, super string, body ...ast.Decl) (*ast.CompilationUnit, *ast.ClassDecl) {
	superTy := ast.NewUnresolvedType([]string{super}, nowhere)
	class := ast.NewClassDecl(name, ast.Modifiers{}, superTy, nil, nil, body, nowhere)
	cu := ast.NewCompilationUnit(ast.NewUnresolvedType([]string{pkg}, nowhere), nil, class, nowhere)
	return cu, class
}

func intType() *ast.BuiltInType {
	return ast.NewBuiltInType(ast.IntKind, nowhere)
}

func fieldOf(name string, ty ast.Type, init *ast.Expr, pos int) *ast.FieldDecl {
	scope := ast.NewScope().Child()
	for i := 0; i < pos; i++ {
		scope = scope.Next(scope.Parent())
	}

	return ast.NewFieldDecl(name, ast.Modifiers{}, ty, init, scope, nowhere)
}

// newObjectExpr builds the RPN of `new <name>()`.
func newObjectExpr(name string) *ast.Expr {
	return ast.NewExpr([]ast.ExprNode{
		ast.NewMemberName(name, nowhere),
		ast.NewClassInstanceCreation(1, nowhere),
	}, nowhere)
}

// -----------------------------------------------------------------------------

func TestAssignability_WideningToSuperclass(t *testing.T) {
	report.InitReporter(report.LogLevelSilent, nil)

	// class A {}; class B extends A {}; class Main { A x = new B(); }
	cuA, _ := classIn("p", "A")
	cuB, _ := subclassIn("p", "B", "A")

	field := fieldOf("x", ast.NewUnresolvedType([]string{"A"}, nowhere), newObjectExpr("B"), 0)
	cuMain, _ := classIn("p", "Main", field)

	resolver, lu := program(t, cuA, cuB, cuMain)
	NewWalker(resolver, lu).Walk()

	assert.False(t, report.AnyErrors())
}

func TestAssignability_NarrowingRejectedNamingBothTypes(t *testing.T) {
	report.InitReporter(report.LogLevelSilent, nil)

	// class Main { B y = new A(); } is a type error naming both types.
	cuA, _ := classIn("p", "A")
	cuB, _ := subclassIn("p", "B", "A")

	field := fieldOf("y", ast.NewUnresolvedType([]string{"B"}, nowhere), newObjectExpr("A"), 0)
	cuMain, _ := classIn("p", "Main", field)

	resolver, lu := program(t, cuA, cuB, cuMain)
	NewWalker(resolver, lu).Walk()

	require.True(t, report.AnyErrors())

	found := false
	for _, d := range report.Diagnostics() {
		if d.Severity == report.SevError {
			assert.Equal(t, report.KindType, d.Kind)
			assert.Contains(t, d.Message(), "A")
			assert.Contains(t, d.Message(), "B")
			found = true
		}
	}

	assert.True(t, found)
}

func TestAssignability_PrimitiveWidening(t *testing.T) {
	report.InitReporter(report.LogLevelSilent, nil)

	cuA, _ := classIn("p", "A")
	resolver, _ := program(t, cuA)

	tr := NewExprTypeResolver(resolver, cuA, nil, nil)

	byteTy := ast.NewBuiltInType(ast.ByteKind, nowhere)
	shortTy := ast.NewBuiltInType(ast.ShortKind, nowhere)
	charTy := ast.NewBuiltInType(ast.CharKind, nowhere)
	intTy := intType()

	assert.True(t, tr.isAssignableTo(shortTy, byteTy))
	assert.True(t, tr.isAssignableTo(intTy, byteTy))
	assert.True(t, tr.isAssignableTo(intTy, shortTy))
	assert.True(t, tr.isAssignableTo(intTy, charTy))

	assert.False(t, tr.isAssignableTo(byteTy, intTy))
	assert.False(t, tr.isAssignableTo(shortTy, intTy))
	assert.False(t, tr.isAssignableTo(charTy, shortTy))
	assert.False(t, tr.isAssignableTo(shortTy, charTy))
}

func TestAssignability_NullAndArrays(t *testing.T) {
	report.InitReporter(report.LogLevelSilent, nil)

	cuA, classA := classIn("p", "A")
	cuObj, _ := classIn2(t, []string{"java", "lang"}, "Object")
	resolver, _ := program(t, cuA, cuObj)

	tr := NewExprTypeResolver(resolver, cuA, classA, nil)

	refA := ast.NewReferenceType(classA, nowhere)
	nullTy := ast.NewBuiltInType(ast.NoneKind, nowhere)
	arrA := ast.NewArrayType(refA, nowhere)
	arrInt := ast.NewArrayType(intType(), nowhere)
	objRef := ast.NewReferenceType(resolver.Builtins().Object(), nowhere)

	// Null is assignable to any reference or array type, never to
	// primitives.
	assert.True(t, tr.isAssignableTo(refA, nullTy))
	assert.True(t, tr.isAssignableTo(arrA, nullTy))
	assert.False(t, tr.isAssignableTo(intType(), nullTy))

	// Arrays widen to Object; reference-element arrays widen pairwise.
	assert.True(t, tr.isAssignableTo(objRef, arrA))
	assert.True(t, tr.isAssignableTo(objRef, arrInt))
	assert.False(t, tr.isAssignableTo(arrA, arrInt))
}

// classIn2 is classIn for multi-part package names.
func classIn2(t *testing.T, pkg []string, name string) (*ast.CompilationUnit, *ast.ClassDecl) {
	t.Helper()
	class := ast.NewClassDecl(name, ast.Modifiers{}, nil, nil, nil, nil, nowhere)
	cu := ast.NewCompilationUnit(ast.NewUnresolvedType(pkg, nowhere), nil, class, nowhere)
	return cu, class
}

func TestValidCast_InterfacesAndFinalClasses(t *testing.T) {
	report.InitReporter(report.LogLevelSilent, nil)

	iface := ast.NewInterfaceDecl("I", ast.Modifiers{}, nil, nil, nowhere)
	cuI := ast.NewCompilationUnit(ast.NewUnresolvedType([]string{"p"}, nowhere), nil, iface, nowhere)

	iface2 := ast.NewInterfaceDecl("J", ast.Modifiers{}, nil, nil, nowhere)
	cuJ := ast.NewCompilationUnit(ast.NewUnresolvedType([]string{"p"}, nowhere), nil, iface2, nowhere)

	cuA, classA := classIn("p", "A")

	var finalMods ast.Modifiers
	finalMods.Set(ast.ModFinal, nowhere)
	finalClass := ast.NewClassDecl("F", finalMods, nil, nil, nil, nil, nowhere)
	cuF := ast.NewCompilationUnit(ast.NewUnresolvedType([]string{"p"}, nowhere), nil, finalClass, nowhere)

	resolver, _ := program(t, cuI, cuJ, cuA, cuF)
	tr := NewExprTypeResolver(resolver, cuA, classA, nil)

	refI := ast.NewReferenceType(iface, nowhere)
	refJ := ast.NewReferenceType(iface2, nowhere)
	refA := ast.NewReferenceType(classA, nowhere)
	refF := ast.NewReferenceType(finalClass, nowhere)

	// Two interfaces always cast; interface to non-final class casts; a
	// final class unrelated to the interface does not.
	assert.True(t, tr.isValidCast(refI, refJ))
	assert.True(t, tr.isValidCast(refI, refA))
	assert.True(t, tr.isValidCast(refA, refI))
	assert.False(t, tr.isValidCast(refI, refF))

	// Primitive casts widen in either direction.
	byteTy := ast.NewBuiltInType(ast.ByteKind, nowhere)
	assert.True(t, tr.isValidCast(byteTy, intType()))
	assert.True(t, tr.isValidCast(intType(), byteTy))
}

func TestTypeResolver_BinaryOpRules(t *testing.T) {
	report.InitReporter(report.LogLevelSilent, nil)

	cuA, classA := classIn("p", "A")
	resolver, _ := program(t, cuA)

	cases := []struct {
		name    string
		expr    *ast.Expr
		wantErr bool
		check   func(t *testing.T, ty ast.Type)
	}{
		{
			name: "numeric comparison yields boolean",
			expr: ast.NewExpr([]ast.ExprNode{
				ast.NewLiteralNode(ast.LitInt, "1", nowhere),
				ast.NewLiteralNode(ast.LitInt, "2", nowhere),
				ast.NewBinaryOp(ast.BinLessThan, nowhere),
			}, nowhere),
			check: func(t *testing.T, ty ast.Type) {
				assert.True(t, ast.IsBoolean(ty))
			},
		},
		{
			name: "arithmetic yields int",
			expr: ast.NewExpr([]ast.ExprNode{
				ast.NewLiteralNode(ast.LitInt, "1", nowhere),
				ast.NewLiteralNode(ast.LitInt, "2", nowhere),
				ast.NewBinaryOp(ast.BinMultiply, nowhere),
			}, nowhere),
			check: func(t *testing.T, ty ast.Type) {
				assert.True(t, ast.IsNumeric(ty))
			},
		},
		{
			name: "string concatenation yields string",
			expr: ast.NewExpr([]ast.ExprNode{
				ast.NewLiteralNode(ast.LitString, "a", nowhere),
				ast.NewLiteralNode(ast.LitInt, "2", nowhere),
				ast.NewBinaryOp(ast.BinAdd, nowhere),
			}, nowhere),
			check: func(t *testing.T, ty ast.Type) {
				assert.True(t, ast.IsBuiltInString(ty))
			},
		},
		{
			name: "logical and requires booleans",
			expr: ast.NewExpr([]ast.ExprNode{
				ast.NewLiteralNode(ast.LitInt, "1", nowhere),
				ast.NewLiteralNode(ast.LitBool, "true", nowhere),
				ast.NewBinaryOp(ast.BinAnd, nowhere),
			}, nowhere),
			wantErr: true,
		},
		{
			name: "subtraction rejects booleans",
			expr: ast.NewExpr([]ast.ExprNode{
				ast.NewLiteralNode(ast.LitBool, "true", nowhere),
				ast.NewLiteralNode(ast.LitBool, "false", nowhere),
				ast.NewBinaryOp(ast.BinSubtract, nowhere),
			}, nowhere),
			wantErr: true,
		},
		{
			name: "unary not requires boolean",
			expr: ast.NewExpr([]ast.ExprNode{
				ast.NewLiteralNode(ast.LitInt, "3", nowhere),
				ast.NewUnaryOp(ast.UnaryNot, nowhere),
			}, nowhere),
			wantErr: true,
		},
		{
			name: "null equality with null",
			expr: ast.NewExpr([]ast.ExprNode{
				ast.NewLiteralNode(ast.LitNull, "null", nowhere),
				ast.NewLiteralNode(ast.LitNull, "null", nowhere),
				ast.NewBinaryOp(ast.BinEqual, nowhere),
			}, nowhere),
			check: func(t *testing.T, ty ast.Type) {
				assert.True(t, ast.IsBoolean(ty))
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tr := NewExprTypeResolver(resolver, cuA, classA, nil)
			ty, err := tr.Resolve(tc.expr)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			tc.check(t, ty)
		})
	}
}

func TestTypeResolver_ResultTypeCaching(t *testing.T) {
	report.InitReporter(report.LogLevelSilent, nil)

	cuA, classA := classIn("p", "A")
	resolver, _ := program(t, cuA)

	op := ast.NewBinaryOp(ast.BinAdd, nowhere)
	expr := ast.NewExpr([]ast.ExprNode{
		ast.NewLiteralNode(ast.LitInt, "1", nowhere),
		ast.NewLiteralNode(ast.LitInt, "2", nowhere),
		op,
	}, nowhere)

	tr := NewExprTypeResolver(resolver, cuA, classA, nil)
	first, err := tr.Resolve(expr)
	require.NoError(t, err)

	cached := op.ResultType()
	require.NotNil(t, cached)

	// A second pass returns the identical cached type.
	tr2 := NewExprTypeResolver(resolver, cuA, classA, nil)
	second, err := tr2.Resolve(expr)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, cached, op.ResultType())
}

func TestTypeResolver_ArrayAccessAndCreation(t *testing.T) {
	report.InitReporter(report.LogLevelSilent, nil)

	cuA, classA := classIn("p", "A")
	resolver, _ := program(t, cuA)

	// new int[3] yields int[]; indexing it yields int; its length is int.
	arrVar := ast.NewVarDecl("arr", ast.NewArrayType(intType(), nowhere), nil, nil, false, nowhere)
	method := ast.NewMethodDecl("f", ast.Modifiers{}, nil, nil, false, ast.NewBlockStmt(nil, nowhere), nowhere)
	method.AddLocals([]*ast.VarDecl{arrVar})
	method.SetParent(classA)

	newArr := ast.NewExpr([]ast.ExprNode{
		ast.NewTypeNode(intType(), nowhere),
		ast.NewLiteralNode(ast.LitInt, "3", nowhere),
		ast.NewArrayInstanceCreation(nowhere),
	}, nowhere)

	tr := NewExprTypeResolver(resolver, cuA, classA, method)
	ty, err := tr.Resolve(newArr)
	require.NoError(t, err)

	arrTy, ok := ty.(*ast.ArrayType)
	require.True(t, ok)
	assert.True(t, ast.IsNumeric(arrTy.Elem))

	access := ast.NewExpr([]ast.ExprNode{
		ast.NewMemberName("arr", nowhere),
		ast.NewLiteralNode(ast.LitInt, "0", nowhere),
		ast.NewArrayAccess(nowhere),
	}, nowhere)

	ty, err = tr.Resolve(access)
	require.NoError(t, err)
	assert.True(t, ast.IsNumeric(ty))

	length := ast.NewExpr([]ast.ExprNode{
		ast.NewMemberName("arr", nowhere),
		ast.NewMemberName("length", nowhere),
		ast.NewMemberAccess(nowhere),
	}, nowhere)

	ty, err = tr.Resolve(length)
	require.NoError(t, err)
	assert.True(t, ast.IsNumeric(ty))
}
