package parsetree

import (
	"strings"

	"joosc/arena"
	"joosc/report"
)

// Kind tags every parse tree node.  The enumeration is closed: the parser
// may only produce nodes of these kinds.
type Kind int

// Enumeration of parse tree node kinds.
const (
	// Leaf nodes
	KindLiteral Kind = iota
	KindQualifiedIdentifier
	KindIdentifier
	KindOperator
	KindBasicType
	KindModifier
	KindArrayType
	KindType
	KindPoison

	// Compilation unit
	KindCompilationUnit
	KindPackageDeclaration
	KindImportDeclarationList
	KindSingleTypeImportDeclaration
	KindTypeImportOnDemandDeclaration

	// Modifiers
	KindModifierList

	// Classes
	KindClassDeclaration
	KindFieldDeclaration
	KindClassBodyDeclarationList
	KindConstructorDeclaration
	KindSuperOpt

	// Interfaces
	KindInterfaceDeclaration
	KindInterfaceMemberDeclarationList
	KindInterfaceTypeList

	// Methods
	KindAbstractMethodDeclaration
	KindMethodHeader
	KindMethodDeclaration
	KindFormalParameterList
	KindFormalParameter

	// Statements
	KindStatement
	KindBlock
	KindBlockStatementList
	KindIfThenStatement
	KindWhileStatement
	KindForStatement
	KindReturnStatement
	KindStatementExpression

	// Variable declarations
	KindVariableDeclarator
	KindLocalVariableDeclaration
	KindVariableDeclaratorList

	// Expressions
	KindExpression
	KindArgumentList
	KindFieldAccess
	KindArrayAccess
	KindArrayCastType
	KindCastExpression
	KindMethodInvocation
	KindArrayCreationExpression
	KindClassInstanceCreationExpression
	KindDims
)

var kindNames = [...]string{
	"Literal",
	"QualifiedIdentifier",
	"Identifier",
	"Operator",
	"BasicType",
	"Modifier",
	"ArrayType",
	"Type",
	"Poison",
	"CompilationUnit",
	"PackageDeclaration",
	"ImportDeclarationList",
	"SingleTypeImportDeclaration",
	"TypeImportOnDemandDeclaration",
	"ModifierList",
	"ClassDeclaration",
	"FieldDeclaration",
	"ClassBodyDeclarationList",
	"ConstructorDeclaration",
	"SuperOpt",
	"InterfaceDeclaration",
	"InterfaceMemberDeclarationList",
	"InterfaceTypeList",
	"AbstractMethodDeclaration",
	"MethodHeader",
	"MethodDeclaration",
	"FormalParameterList",
	"FormalParameter",
	"Statement",
	"Block",
	"BlockStatementList",
	"IfThenStatement",
	"WhileStatement",
	"ForStatement",
	"ReturnStatement",
	"StatementExpression",
	"VariableDeclarator",
	"LocalVariableDeclaration",
	"VariableDeclaratorList",
	"Expression",
	"ArgumentList",
	"FieldAccess",
	"ArrayAccess",
	"ArrayCastType",
	"CastExpression",
	"MethodInvocation",
	"ArrayCreationExpression",
	"ClassInstanceCreationExpression",
	"Dims",
}

func (k Kind) String() string {
	return kindNames[k]
}

// -----------------------------------------------------------------------------

// Node is the basic type-tagged node in the parse tree.  Nodes are built by
// the parser and read-only afterwards; children may be nil to encode omitted
// optional clauses.
type Node struct {
	kind     Kind
	children []*Node
	span     report.SourceRange

	// pay carries the payload of leaf nodes; nil for non-leaf nodes.
	pay *payload
}

// NewNode creates a non-leaf node with the given children.
func NewNode(kind Kind, span report.SourceRange, children ...*Node) *Node {
	return &Node{kind: kind, children: children, span: span}
}

// NewPoison creates a poison node marking a parse failure.
func NewPoison(span report.SourceRange) *Node {
	return &Node{kind: KindPoison, span: span}
}

// Kind returns the kind tag of the node.
func (n *Node) Kind() Kind {
	return n.kind
}

// NumChildren returns the number of children of the node.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// Child returns the i-th child of the node; it may be nil.
func (n *Node) Child(i int) *Node {
	return n.children[i]
}

// Span returns the source range the node covers.
func (n *Node) Span() report.SourceRange {
	return n.span
}

// IsPoisoned reports whether the node or any node below it is a poison node.
func (n *Node) IsPoisoned() bool {
	if n.kind == KindPoison {
		return true
	}

	for _, child := range n.children {
		if child != nil && child.IsPoisoned() {
			return true
		}
	}

	return false
}

func (n *Node) String() string {
	sb := strings.Builder{}
	n.repr(&sb)
	return sb.String()
}

func (n *Node) repr(sb *strings.Builder) {
	switch n.kind {
	case KindLiteral:
		lit := n.Literal()
		sb.WriteString("Literal(")
		if lit.Negative {
			sb.WriteRune('-')
		}
		sb.WriteString(lit.Text)
		sb.WriteRune(')')
		return
	case KindIdentifier:
		sb.WriteString("Id(")
		sb.WriteString(n.Identifier())
		sb.WriteRune(')')
		return
	case KindOperator:
		sb.WriteString(n.Operator().String())
		return
	}

	sb.WriteString(n.kind.String())
	if len(n.children) > 0 {
		sb.WriteRune('(')
		for i, child := range n.children {
			if i > 0 {
				sb.WriteString(", ")
			}

			if child == nil {
				sb.WriteString("<nil>")
			} else {
				child.repr(sb)
			}
		}
		sb.WriteRune(')')
	}
}

// -----------------------------------------------------------------------------

// leaf payloads are stored beside the node rather than in subclasses; the
// accessors assert the node kind.

// LiteralPayload is the payload of a literal leaf.
type LiteralPayload struct {
	Kind     LiteralKind
	Negative bool
	Text     string
}

type payload struct {
	literal   LiteralPayload
	ident     string
	op        OperatorKind
	modifier  ModifierKind
	basicType BasicTypeKind
}

// LiteralKind enumerates the literal variants.
type LiteralKind int

// Enumeration of literal kinds.
const (
	LiteralInteger LiteralKind = iota
	LiteralCharacter
	LiteralString
	LiteralBoolean
	LiteralNull
)

// OperatorKind enumerates the operator leaf variants.
type OperatorKind int

// Enumeration of operator kinds.
const (
	OpAssign OperatorKind = iota
	OpGreaterThan
	OpLessThan
	OpNot
	OpEqual
	OpLessThanOrEqual
	OpGreaterThanOrEqual
	OpNotEqual
	OpAnd
	OpOr
	OpBitwiseAnd
	OpBitwiseOr
	OpBitwiseXor
	OpBitwiseNot
	OpAdd
	OpSubtract
	OpMultiply
	OpDivide
	OpModulo
	OpPlus
	OpMinus
	OpInstanceOf
)

var operatorNames = [...]string{
	"=", ">", "<", "!", "==", "<=", ">=", "!=", "&&", "||",
	"&", "|", "^", "~", "+", "-", "*", "/", "%", "+", "-", "instanceof",
}

func (op OperatorKind) String() string {
	return operatorNames[op]
}

// ModifierKind enumerates the modifier leaf variants.
type ModifierKind int

// Enumeration of modifier kinds.
const (
	ModPublic ModifierKind = iota
	ModProtected
	ModStatic
	ModAbstract
	ModFinal
	ModNative
)

// BasicTypeKind enumerates the basic type leaf variants.
type BasicTypeKind int

// Enumeration of basic type kinds.
const (
	BasicByte BasicTypeKind = iota
	BasicShort
	BasicInt
	BasicChar
	BasicBoolean
)

// -----------------------------------------------------------------------------

// NewLiteral creates a literal leaf node.  The literal text is interned.
func NewLiteral(a *arena.Arena, span report.SourceRange, kind LiteralKind, text string) *Node {
	return &Node{
		kind: KindLiteral,
		span: span,
		pay:  &payload{literal: LiteralPayload{Kind: kind, Text: a.Intern(text)}},
	}
}

// NewIdentifier creates an identifier leaf node.  The name is interned.
func NewIdentifier(a *arena.Arena, span report.SourceRange, name string) *Node {
	return &Node{kind: KindIdentifier, span: span, pay: &payload{ident: a.Intern(name)}}
}

// NewOperator creates an operator leaf node.
func NewOperator(span report.SourceRange, op OperatorKind) *Node {
	return &Node{kind: KindOperator, span: span, pay: &payload{op: op}}
}

// NewModifier creates a modifier leaf node.
func NewModifier(span report.SourceRange, mod ModifierKind) *Node {
	return &Node{kind: KindModifier, span: span, pay: &payload{modifier: mod}}
}

// NewBasicType creates a basic type leaf node.
func NewBasicType(span report.SourceRange, bt BasicTypeKind) *Node {
	return &Node{kind: KindBasicType, span: span, pay: &payload{basicType: bt}}
}

// Literal returns the literal payload of a literal leaf.
func (n *Node) Literal() LiteralPayload {
	return n.pay.literal
}

// SetNegative marks an integer literal as negative.  Used by the AST builder
// when folding unary minus into the literal.
func (n *Node) SetNegative() {
	n.pay.literal.Negative = true
}

// Identifier returns the name of an identifier leaf.
func (n *Node) Identifier() string {
	return n.pay.ident
}

// Operator returns the operator kind of an operator leaf.
func (n *Node) Operator() OperatorKind {
	return n.pay.op
}

// Modifier returns the modifier kind of a modifier leaf.
func (n *Node) Modifier() ModifierKind {
	return n.pay.modifier
}

// BasicType returns the basic type kind of a basic type leaf.
func (n *Node) BasicType() BasicTypeKind {
	return n.pay.basicType
}
