package resolve

import (
	"testing"

	"joosc/arena"
	"joosc/ast"
	"joosc/report"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var nowhere = report.SourceRange{}

// unitOf builds a compilation unit holding a class with the given name in
// the given package.
func unitOf(pkg []string, className string, imports ...ast.ImportDecl) *ast.CompilationUnit {
	class := ast.NewClassDecl(className, ast.Modifiers{}, nil, nil, nil, nil, nowhere)
	return ast.NewCompilationUnit(ast.NewUnresolvedType(pkg, nowhere), imports, class, nowhere)
}

func onDemand(parts ...string) ast.ImportDecl {
	return ast.ImportDecl{Type: ast.NewUnresolvedType(parts, nowhere), IsOnDemand: true}
}

func singleImport(parts ...string) ast.ImportDecl {
	return ast.ImportDecl{Type: ast.NewUnresolvedType(parts, nowhere)}
}

func TestResolve_SimpleCrossPackageType(t *testing.T) {
	report.InitReporter(report.LogLevelSilent, nil)
	a := arena.New()

	target := unitOf([]string{"p"}, "X")
	user := unitOf([]string{"q"}, "Y", singleImport("p", "X"))

	lu := ast.NewLinkingUnit([]*ast.CompilationUnit{target, user})
	r := NewResolver(a, lu)
	r.Resolve()

	require.False(t, report.AnyErrors())

	// A type written `X` in unit Y resolves through the single-type
	// import.
	r.beginContext(user)
	ty := ast.NewUnresolvedType([]string{"X"}, nowhere)
	r.ResolveType(ty)

	require.True(t, ty.IsResolved())
	assert.Equal(t, "X", ty.Decl().Name())
}

func TestResolve_QualifiedTypeName(t *testing.T) {
	report.InitReporter(report.LogLevelSilent, nil)
	a := arena.New()

	target := unitOf([]string{"p", "sub"}, "X")
	user := unitOf([]string{"q"}, "Y")

	lu := ast.NewLinkingUnit([]*ast.CompilationUnit{target, user})
	r := NewResolver(a, lu)
	r.Resolve()
	require.False(t, report.AnyErrors())

	r.beginContext(user)
	ty := ast.NewUnresolvedType([]string{"p", "sub", "X"}, nowhere)
	r.ResolveType(ty)

	require.True(t, ty.IsResolved())
	assert.Equal(t, ast.Decl(target.Body), ty.Decl())
}

func TestResolve_AmbiguousImportOnDemand(t *testing.T) {
	report.InitReporter(report.LogLevelSilent, nil)
	a := arena.New()

	pX := unitOf([]string{"p"}, "X")
	qX := unitOf([]string{"q"}, "X")
	user := unitOf([]string{"m"}, "Main", onDemand("p"), onDemand("q"))

	lu := ast.NewLinkingUnit([]*ast.CompilationUnit{pX, qX, user})
	r := NewResolver(a, lu)
	r.Resolve()
	require.False(t, report.AnyErrors())

	// Resolving the ambiguous simple name is a hard error naming the
	// ambiguity.
	r.beginContext(user)
	ty := ast.NewUnresolvedType([]string{"X"}, nowhere)
	r.ResolveType(ty)

	assert.False(t, ty.IsResolved())
	require.True(t, report.AnyErrors())

	diags := report.Diagnostics()
	found := false
	for _, d := range diags {
		if d.Severity == report.SevError {
			assert.Contains(t, d.Message(), "ambiguous import")
			found = true
		}
	}

	assert.True(t, found)
}

func TestResolve_PackageDeclCollision(t *testing.T) {
	report.InitReporter(report.LogLevelSilent, nil)
	a := arena.New()

	// The declaration p.X collides with the subpackage p.X of unit p.X.Y.
	decl := unitOf([]string{"p"}, "X")
	nested := unitOf([]string{"p", "X"}, "Y")

	lu := ast.NewLinkingUnit([]*ast.CompilationUnit{decl, nested})
	r := NewResolver(a, lu)
	r.Resolve()

	assert.True(t, report.AnyErrors())
}

func TestResolve_SingleImportRenamingOwnDecl(t *testing.T) {
	report.InitReporter(report.LogLevelSilent, nil)
	a := arena.New()

	other := unitOf([]string{"p"}, "Main")
	user := unitOf([]string{"q"}, "Main", singleImport("p", "Main"))

	lu := ast.NewLinkingUnit([]*ast.CompilationUnit{other, user})
	r := NewResolver(a, lu)
	r.Resolve()

	assert.True(t, report.AnyErrors())
}

func TestResolve_OwnDeclarationShadowsImports(t *testing.T) {
	report.InitReporter(report.LogLevelSilent, nil)
	a := arena.New()

	pX := unitOf([]string{"p"}, "X")
	user := unitOf([]string{"q"}, "X", onDemand("p"))

	lu := ast.NewLinkingUnit([]*ast.CompilationUnit{pX, user})
	r := NewResolver(a, lu)
	r.Resolve()
	require.False(t, report.AnyErrors())

	r.beginContext(user)
	ty := ast.NewUnresolvedType([]string{"X"}, nowhere)
	r.ResolveType(ty)

	require.True(t, ty.IsResolved())
	assert.Equal(t, ast.Decl(user.Body), ty.Decl())
}

func TestResolve_Idempotent(t *testing.T) {
	report.InitReporter(report.LogLevelSilent, nil)
	a := arena.New()

	target := unitOf([]string{"p"}, "X")
	user := unitOf([]string{"p"}, "Y")

	// Give Y's class a field of type X so Resolve touches a real type.
	field := ast.NewFieldDecl("x", ast.Modifiers{}, ast.NewUnresolvedType([]string{"X"}, nowhere), nil, ast.NewScope().Child(), nowhere)
	class := ast.NewClassDecl("Y2", ast.Modifiers{}, nil, nil, nil, []ast.Decl{field}, nowhere)
	withField := ast.NewCompilationUnit(ast.NewUnresolvedType([]string{"p"}, nowhere), nil, class, nowhere)

	lu := ast.NewLinkingUnit([]*ast.CompilationUnit{target, user, withField})
	r := NewResolver(a, lu)

	r.Resolve()
	require.False(t, report.AnyErrors())

	fieldTy := field.Type.(*ast.UnresolvedType)
	require.True(t, fieldTy.IsResolved())
	resolved := fieldTy.Decl()

	// Running the resolver twice is equivalent to running it once.
	r.Resolve()
	assert.False(t, report.AnyErrors())
	assert.Equal(t, resolved, fieldTy.Decl())
}

func TestBuiltins_CacheAndArrayPrototype(t *testing.T) {
	report.InitReporter(report.LogLevelSilent, nil)
	a := arena.New()

	object := unitOf([]string{"java", "lang"}, "Object")
	str := unitOf([]string{"java", "lang"}, "String")
	serializable := unitOf([]string{"java", "io"}, "Serializable")

	lu := ast.NewLinkingUnit([]*ast.CompilationUnit{object, str, serializable})
	r := NewResolver(a, lu)
	r.Resolve()
	require.False(t, report.AnyErrors())

	builtins := r.Builtins()
	assert.Equal(t, ast.Decl(object.Body), builtins.Object())
	assert.Equal(t, ast.Decl(str.Body), builtins.String())
	assert.Equal(t, ast.Decl(serializable.Body), builtins.Serializable())
	assert.Nil(t, builtins.Cloneable())

	// The array prototype is a synthesised final class with a single
	// public final int length field and a trivial constructor.
	proto := r.ArrayPrototype()
	require.NotNil(t, proto)
	require.Len(t, proto.Fields, 1)

	length := proto.Fields[0]
	assert.Equal(t, "length", length.Name())
	assert.True(t, length.Modifiers.IsPublic())
	assert.True(t, length.Modifiers.IsFinal())
	assert.False(t, length.Modifiers.IsStatic())

	require.Len(t, proto.Constructors, 1)
	assert.Empty(t, proto.Constructors[0].Params)

	// Materialised once per run.
	r.Resolve()
	assert.Equal(t, proto, r.ArrayPrototype())
}
