package ast

import (
	"strings"

	"joosc/report"
)

// Type is the base interface for all AST types.
type Type interface {
	Node

	// String returns the display form of the type.
	String() string

	// IsResolved returns whether the type is fully resolved: ie. whether it
	// no longer refers to declarations by name only.
	IsResolved() bool
}

// TypeResolver is the abstract interface of a stateful pass that resolves
// unresolved types to declarations.
type TypeResolver interface {
	ResolveType(ty *UnresolvedType)
}

// -----------------------------------------------------------------------------

// BuiltInKind identifies a built-in type.
type BuiltInKind int

// Enumeration of built-in type kinds.  NoneKind is the type of the null
// literal.
const (
	ByteKind BuiltInKind = iota
	ShortKind
	IntKind
	CharKind
	BooleanKind
	StringKind
	NoneKind
)

var builtInNames = [...]string{
	"byte", "short", "int", "char", "boolean", "String", "null",
}

func (bk BuiltInKind) String() string {
	return builtInNames[bk]
}

// BuiltInType is a primitive type, the built-in string type, or the null
// type.
type BuiltInType struct {
	NodeBase

	Kind BuiltInKind
}

// NewBuiltInType creates a built-in type of the given kind.
func NewBuiltInType(kind BuiltInKind, span report.SourceRange) *BuiltInType {
	return &BuiltInType{NodeBase: NewNodeBaseOn(span), Kind: kind}
}

func (bt *BuiltInType) String() string {
	return bt.Kind.String()
}

func (bt *BuiltInType) IsResolved() bool {
	return true
}

// -----------------------------------------------------------------------------

// ArrayType is an array of some element type.
type ArrayType struct {
	NodeBase

	Elem Type
}

// NewArrayType creates an array type over the given element type.
func NewArrayType(elem Type, span report.SourceRange) *ArrayType {
	return &ArrayType{NodeBase: NewNodeBaseOn(span), Elem: elem}
}

func (at *ArrayType) String() string {
	return at.Elem.String() + "[]"
}

func (at *ArrayType) IsResolved() bool {
	return at.Elem.IsResolved()
}

// -----------------------------------------------------------------------------

// ReferenceType is a resolved reference to a class or interface declaration.
type ReferenceType struct {
	NodeBase

	decl Decl
}

// NewReferenceType creates a reference type to the given declaration.
func NewReferenceType(decl Decl, span report.SourceRange) *ReferenceType {
	return &ReferenceType{NodeBase: NewNodeBaseOn(span), decl: decl}
}

// Decl returns the declaration the reference type refers to.
func (rt *ReferenceType) Decl() Decl {
	return rt.decl
}

func (rt *ReferenceType) String() string {
	return rt.decl.Name()
}

func (rt *ReferenceType) IsResolved() bool {
	return true
}

// -----------------------------------------------------------------------------

// UnresolvedType is a dotted type name as written in source.  Name resolution
// mutates it exactly once by setting its declaration; the mutation is
// monotonic and guarded by the locked flag.
type UnresolvedType struct {
	NodeBase

	parts  []string
	decl   Decl
	locked bool
}

// NewUnresolvedType creates an unresolved type from its identifier parts.
func NewUnresolvedType(parts []string, span report.SourceRange) *UnresolvedType {
	return &UnresolvedType{NodeBase: NewNodeBaseOn(span), parts: parts}
}

// Parts returns the identifier parts of the dotted name.
func (ut *UnresolvedType) Parts() []string {
	return ut.parts
}

// AddPart appends another identifier part.  Only legal before the type is
// locked.
func (ut *UnresolvedType) AddPart(part string) {
	if ut.locked {
		panic("cannot extend a locked type")
	}

	ut.parts = append(ut.parts, part)
}

// Lock marks the type immutable.  Package names are locked without ever
// being resolved.
func (ut *UnresolvedType) Lock() {
	ut.locked = true
}

// Decl returns the resolved declaration, or nil before resolution.
func (ut *UnresolvedType) Decl() Decl {
	return ut.decl
}

// Resolve records the declaration the type name resolves to.  Resolution is
// monotonic: a second call is a no-op.
func (ut *UnresolvedType) Resolve(decl Decl) {
	if ut.decl != nil {
		return
	}

	ut.decl = decl
	ut.locked = true
}

func (ut *UnresolvedType) String() string {
	return strings.Join(ut.parts, ".")
}

func (ut *UnresolvedType) IsResolved() bool {
	return ut.decl != nil
}

// -----------------------------------------------------------------------------

// MethodType is the type of a method or constructor operand inside an
// expression.  It is produced by the expression type resolver and never
// written in source.
type MethodType struct {
	NodeBase

	// Method is the declaration the type describes.
	Method *MethodDecl

	// Params are the declared parameter types in order.
	Params []Type

	// Return is the declared return type; nil encodes void.
	Return Type
}

// NewMethodType creates the method type of the given declaration.
func NewMethodType(method *MethodDecl) *MethodType {
	params := make([]Type, len(method.Params))
	for i, param := range method.Params {
		params[i] = param.Type
	}

	return &MethodType{
		NodeBase: NewNodeBaseOn(method.Span()),
		Method:   method,
		Params:   params,
		Return:   method.ReturnType,
	}
}

func (mt *MethodType) String() string {
	sb := strings.Builder{}
	sb.WriteString(mt.Method.Name())
	sb.WriteRune('(')
	for i, param := range mt.Params {
		if i > 0 {
			sb.WriteString(", ")
		}

		sb.WriteString(param.String())
	}
	sb.WriteRune(')')
	return sb.String()
}

func (mt *MethodType) IsResolved() bool {
	return true
}

// -----------------------------------------------------------------------------
// Type predicates and structural comparison.

// AsReference extracts the referenced declaration from a reference type or a
// resolved unresolved type.
func AsReference(t Type) (Decl, bool) {
	switch v := t.(type) {
	case *ReferenceType:
		return v.decl, true
	case *UnresolvedType:
		if v.decl != nil {
			return v.decl, true
		}
	}

	return nil, false
}

// IsNumeric returns whether t is one of the numeric built-in types.
func IsNumeric(t Type) bool {
	if bt, ok := t.(*BuiltInType); ok {
		switch bt.Kind {
		case ByteKind, ShortKind, IntKind, CharKind:
			return true
		}
	}

	return false
}

// IsBoolean returns whether t is the boolean built-in type.
func IsBoolean(t Type) bool {
	bt, ok := t.(*BuiltInType)
	return ok && bt.Kind == BooleanKind
}

// IsNull returns whether t is the null type.
func IsNull(t Type) bool {
	bt, ok := t.(*BuiltInType)
	return ok && bt.Kind == NoneKind
}

// IsBuiltInString returns whether t is the built-in string type.
func IsBuiltInString(t Type) bool {
	bt, ok := t.(*BuiltInType)
	return ok && bt.Kind == StringKind
}

// IsArray returns whether t is an array type.
func IsArray(t Type) bool {
	_, ok := t.(*ArrayType)
	return ok
}

// SameType compares two types structurally: built-ins by kind, arrays by
// element type, references by declaration identity.
func SameType(a, b Type) bool {
	if a == nil || b == nil {
		return a == b
	}

	switch av := a.(type) {
	case *BuiltInType:
		bv, ok := b.(*BuiltInType)
		return ok && av.Kind == bv.Kind
	case *ArrayType:
		bv, ok := b.(*ArrayType)
		return ok && SameType(av.Elem, bv.Elem)
	case *ReferenceType, *UnresolvedType:
		adecl, aok := AsReference(a)
		bdecl, bok := AsReference(b)
		return aok && bok && adecl == bdecl
	case *MethodType:
		return a == b
	}

	return false
}
