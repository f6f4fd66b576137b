package ast

import (
	"strconv"

	"joosc/report"
)

// ExprNode is a single node of an expression in reverse-Polish order.  Nodes
// are const-lockable: the evaluator pins every node of a list while walking
// it, so an accidental re-entrant evaluation of the same list is caught.
type ExprNode interface {
	Node

	// Lock pins the node for the duration of an evaluation.
	Lock()

	// Unlock releases the node.
	Unlock()

	// IsLocked returns whether the node is currently pinned.
	IsLocked() bool
}

// ExprNodeBase is the base struct for all expression nodes.
type ExprNodeBase struct {
	NodeBase

	locked bool
}

// NewExprNodeBase creates an expression node base with the given span.
func NewExprNodeBase(span report.SourceRange) ExprNodeBase {
	return ExprNodeBase{NodeBase: NewNodeBaseOn(span)}
}

func (enb *ExprNodeBase) Lock() {
	enb.locked = true
}

func (enb *ExprNodeBase) Unlock() {
	enb.locked = false
}

func (enb *ExprNodeBase) IsLocked() bool {
	return enb.locked
}

// -----------------------------------------------------------------------------
// Value nodes.

// ExprValue is an expression node that denotes a value, a name, or a type:
// the arity-0 nodes of the RPN form.  Each value node carries a declaration
// and a type which are resolved monotonically by the semantic passes.
type ExprValue interface {
	ExprNode

	// Decl returns the declaration the value resolves to; nil for literals,
	// `this`, and type nodes.
	Decl() Decl

	// Type returns the resolved type of the value, or nil before
	// resolution.
	Type() Type

	// IsTypeResolved returns whether the type has been resolved.
	IsTypeResolved() bool

	// ResolveDeclType records the declaration and type of the value.  The
	// resolution is monotonic: later calls do not overwrite it.
	ResolveDeclType(decl Decl, ty Type)
}

// ExprValueBase is the base struct for all value nodes.
type ExprValueBase struct {
	ExprNodeBase

	decl Decl
	ty   Type
}

// NewExprValueBase creates a value node base with the given span.
func NewExprValueBase(span report.SourceRange) ExprValueBase {
	return ExprValueBase{ExprNodeBase: NewExprNodeBase(span)}
}

func (evb *ExprValueBase) Decl() Decl {
	return evb.decl
}

func (evb *ExprValueBase) Type() Type {
	return evb.ty
}

func (evb *ExprValueBase) IsTypeResolved() bool {
	return evb.ty != nil
}

func (evb *ExprValueBase) ResolveDeclType(decl Decl, ty Type) {
	if evb.ty != nil {
		return
	}

	evb.decl = decl
	evb.ty = ty
}

// MemberName is a named reference; it resolves to a declaration.
type MemberName struct {
	ExprValueBase

	// Name is the referenced simple name.
	Name string
}

// NewMemberName creates a member name node.
func NewMemberName(name string, span report.SourceRange) *MemberName {
	return &MemberName{ExprValueBase: NewExprValueBase(span), Name: name}
}

// ThisNode is a reference to the current instance.
type ThisNode struct {
	ExprValueBase
}

// NewThisNode creates a `this` node.
func NewThisNode(span report.SourceRange) *ThisNode {
	return &ThisNode{ExprValueBase: NewExprValueBase(span)}
}

// LiteralKind identifies the kind of a literal node.
type LiteralKind int

// Enumeration of literal kinds.
const (
	LitInt LiteralKind = iota
	LitChar
	LitString
	LitBool
	LitNull
)

// LiteralNode is an integer, character, string, boolean, or null literal.
type LiteralNode struct {
	ExprValueBase

	// Kind of the literal.
	Kind LiteralKind

	// Text is the literal as written; sign excluded.
	Text string

	// Negative records a folded unary minus on a numeric literal.
	Negative bool
}

// NewLiteralNode creates a literal node.
func NewLiteralNode(kind LiteralKind, text string, span report.SourceRange) *LiteralNode {
	return &LiteralNode{ExprValueBase: NewExprValueBase(span), Kind: kind, Text: text}
}

// AsInt returns the literal as an integer value: the numeric value of
// integer literals, the code point of character literals, and 0/1 for
// booleans.
func (ln *LiteralNode) AsInt() int64 {
	switch ln.Kind {
	case LitInt:
		v, _ := strconv.ParseInt(ln.Text, 10, 64)
		if ln.Negative {
			return -v
		}

		return v
	case LitChar:
		for _, r := range ln.Text {
			return int64(r)
		}

		return 0
	case LitBool:
		if ln.Text == "true" {
			return 1
		}

		return 0
	}

	return 0
}

// TypeNode names a type inside an expression: the operand of `new`, array
// creation, and casts.
type TypeNode struct {
	ExprValueBase
}

// NewTypeNode creates a type node for the given type.
func NewTypeNode(ty Type, span report.SourceRange) *TypeNode {
	tn := &TypeNode{ExprValueBase: NewExprValueBase(span)}
	tn.ty = ty
	return tn
}

// NamedType returns the type the node names.
func (tn *TypeNode) NamedType() Type {
	return tn.ty
}

// -----------------------------------------------------------------------------
// Operator nodes.

// ExprOp is an expression node that consumes values from the stack.  Each op
// records the number of values it consumes and, after type checking, caches
// its result type.
type ExprOp interface {
	ExprNode

	// Nargs returns the number of values the op consumes.
	Nargs() int

	// ResultType returns the cached result type, or nil before type
	// checking.
	ResultType() Type

	// ResolveResultType caches the result type on first resolution and
	// returns the cached type.
	ResolveResultType(ty Type) Type
}

// ExprOpBase is the base struct for all operator nodes.
type ExprOpBase struct {
	ExprNodeBase

	nargs  int
	result Type
}

// NewExprOpBase creates an op node base with the given arity.
func NewExprOpBase(nargs int, span report.SourceRange) ExprOpBase {
	return ExprOpBase{ExprNodeBase: NewExprNodeBase(span), nargs: nargs}
}

func (eob *ExprOpBase) Nargs() int {
	return eob.nargs
}

func (eob *ExprOpBase) ResultType() Type {
	return eob.result
}

func (eob *ExprOpBase) ResolveResultType(ty Type) Type {
	if eob.result == nil {
		eob.result = ty
	}

	return eob.result
}

// MemberAccess is the binary `lhs . field` op.
type MemberAccess struct {
	ExprOpBase
}

// NewMemberAccess creates a member access op.
func NewMemberAccess(span report.SourceRange) *MemberAccess {
	return &MemberAccess{ExprOpBase: NewExprOpBase(2, span)}
}

// MethodInvocation consumes the method operand plus nargs-1 arguments.
type MethodInvocation struct {
	ExprOpBase
}

// NewMethodInvocation creates a method invocation op consuming nargs values.
func NewMethodInvocation(nargs int, span report.SourceRange) *MethodInvocation {
	return &MethodInvocation{ExprOpBase: NewExprOpBase(nargs, span)}
}

// ClassInstanceCreation consumes the constructor operand plus nargs-1
// arguments.
type ClassInstanceCreation struct {
	ExprOpBase
}

// NewClassInstanceCreation creates a class instance creation op consuming
// nargs values.
func NewClassInstanceCreation(nargs int, span report.SourceRange) *ClassInstanceCreation {
	return &ClassInstanceCreation{ExprOpBase: NewExprOpBase(nargs, span)}
}

// ArrayInstanceCreation consumes an element type and a length.
type ArrayInstanceCreation struct {
	ExprOpBase
}

// NewArrayInstanceCreation creates an array creation op.
func NewArrayInstanceCreation(span report.SourceRange) *ArrayInstanceCreation {
	return &ArrayInstanceCreation{ExprOpBase: NewExprOpBase(2, span)}
}

// ArrayAccess consumes an array and an index.
type ArrayAccess struct {
	ExprOpBase
}

// NewArrayAccess creates an array access op.
func NewArrayAccess(span report.SourceRange) *ArrayAccess {
	return &ArrayAccess{ExprOpBase: NewExprOpBase(2, span)}
}

// Cast consumes a target type and a value.
type Cast struct {
	ExprOpBase
}

// NewCast creates a cast op.
func NewCast(span report.SourceRange) *Cast {
	return &Cast{ExprOpBase: NewExprOpBase(2, span)}
}

// UnaryOpKind identifies a unary operator.
type UnaryOpKind int

// Enumeration of unary operators.
const (
	UnaryNot UnaryOpKind = iota
	UnaryBitNot
	UnaryPlus
	UnaryMinus
)

var unaryOpNames = [...]string{"!", "~", "+", "-"}

func (uk UnaryOpKind) String() string {
	return unaryOpNames[uk]
}

// UnaryOp applies a unary operator to one value.
type UnaryOp struct {
	ExprOpBase

	// Op is the operator kind.
	Op UnaryOpKind
}

// NewUnaryOp creates a unary operator node.
func NewUnaryOp(op UnaryOpKind, span report.SourceRange) *UnaryOp {
	return &UnaryOp{ExprOpBase: NewExprOpBase(1, span), Op: op}
}

// BinaryOpKind identifies a binary operator.
type BinaryOpKind int

// Enumeration of binary operators.
const (
	BinAssign BinaryOpKind = iota
	BinGreaterThan
	BinGreaterThanOrEqual
	BinLessThan
	BinLessThanOrEqual
	BinEqual
	BinNotEqual
	BinAnd
	BinOr
	BinBitAnd
	BinBitOr
	BinBitXor
	BinAdd
	BinSubtract
	BinMultiply
	BinDivide
	BinModulo
	BinInstanceOf
)

var binaryOpNames = [...]string{
	"=", ">", ">=", "<", "<=", "==", "!=", "&&", "||",
	"&", "|", "^", "+", "-", "*", "/", "%", "instanceof",
}

func (bk BinaryOpKind) String() string {
	return binaryOpNames[bk]
}

// BinaryOp applies a binary operator to two values.
type BinaryOp struct {
	ExprOpBase

	// Op is the operator kind.
	Op BinaryOpKind
}

// NewBinaryOp creates a binary operator node.
func NewBinaryOp(op BinaryOpKind, span report.SourceRange) *BinaryOp {
	return &BinaryOp{ExprOpBase: NewExprOpBase(2, span), Op: op}
}
