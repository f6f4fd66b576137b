package ast

import (
	"testing"

	"joosc/report"

	"github.com/stretchr/testify/assert"
)

func TestSameType(t *testing.T) {
	span := report.SourceRange{}

	intTy := NewBuiltInType(IntKind, span)
	intTy2 := NewBuiltInType(IntKind, span)
	boolTy := NewBuiltInType(BooleanKind, span)

	assert.True(t, SameType(intTy, intTy2))
	assert.False(t, SameType(intTy, boolTy))

	arr1 := NewArrayType(intTy, span)
	arr2 := NewArrayType(intTy2, span)
	assert.True(t, SameType(arr1, arr2))
	assert.False(t, SameType(arr1, NewArrayType(boolTy, span)))

	classA := NewClassDecl("A", Modifiers{}, nil, nil, nil, nil, span)
	classB := NewClassDecl("B", Modifiers{}, nil, nil, nil, nil, span)
	refA := NewReferenceType(classA, span)
	refA2 := NewReferenceType(classA, span)
	refB := NewReferenceType(classB, span)

	assert.True(t, SameType(refA, refA2))
	assert.False(t, SameType(refA, refB))
}

func TestUnresolvedType_MonotonicResolve(t *testing.T) {
	span := report.SourceRange{}

	classA := NewClassDecl("A", Modifiers{}, nil, nil, nil, nil, span)
	classB := NewClassDecl("B", Modifiers{}, nil, nil, nil, nil, span)

	ut := NewUnresolvedType([]string{"p", "A"}, span)
	assert.False(t, ut.IsResolved())

	ut.Resolve(classA)
	assert.True(t, ut.IsResolved())
	assert.Equal(t, Decl(classA), ut.Decl())

	// A second resolution is a no-op.
	ut.Resolve(classB)
	assert.Equal(t, Decl(classA), ut.Decl())
}

func TestUnresolvedType_ComparesAsReference(t *testing.T) {
	span := report.SourceRange{}

	classA := NewClassDecl("A", Modifiers{}, nil, nil, nil, nil, span)
	ut := NewUnresolvedType([]string{"A"}, span)
	ut.Resolve(classA)

	assert.True(t, SameType(ut, NewReferenceType(classA, span)))
}

func TestDecl_ParentSetOnce(t *testing.T) {
	span := report.SourceRange{}

	field := NewFieldDecl("x", Modifiers{}, NewBuiltInType(IntKind, span), nil, nil, span)
	class := NewClassDecl("C", Modifiers{}, nil, nil, nil, []Decl{field}, span)

	assert.Equal(t, DeclContext(class), field.Parent())

	// Assigning the parent twice violates an internal invariant.
	assert.Panics(t, func() {
		field.SetParent(class)
	})
}

func TestCanonicalNames(t *testing.T) {
	span := report.SourceRange{}

	field := NewFieldDecl("x", Modifiers{}, NewBuiltInType(IntKind, span), nil, nil, span)
	method := NewMethodDecl("f", Modifiers{}, nil, nil, false, nil, span)
	class := NewClassDecl("C", Modifiers{}, nil, nil, nil, []Decl{field, method}, span)

	pkg := NewUnresolvedType([]string{"p", "q"}, span)
	cu := NewCompilationUnit(pkg, nil, class, span)

	assert.Equal(t, "p.q", cu.PackageName())
	assert.Equal(t, "p.q.C", class.CanonicalName())
	assert.Equal(t, "p.q.C.x", field.CanonicalName())
	assert.Equal(t, "p.q.C.f", method.CanonicalName())
}
