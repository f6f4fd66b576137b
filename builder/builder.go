package builder

import (
	"joosc/arena"
	"joosc/ast"
	"joosc/parsetree"
	"joosc/report"
)

// Builder lowers parse trees into AST compilation units.  Each parse tree
// node kind has an expected shape; a shape mismatch is a fatal builder error
// attached to the offending node, and the compilation unit is poisoned.
type Builder struct {
	arena *arena.Arena
}

// New creates a builder interning into the given arena.
func New(a *arena.Arena) *Builder {
	return &Builder{arena: a}
}

// BuildLinkingUnit builds the linking unit from the parse trees of all
// compilation units, in input order.
func (b *Builder) BuildLinkingUnit(roots []*parsetree.Node) *ast.LinkingUnit {
	units := make([]*ast.CompilationUnit, 0, len(roots))
	for _, root := range roots {
		if cu := b.BuildCompilationUnit(root); cu != nil {
			units = append(units, cu)
		}
	}

	return ast.NewLinkingUnit(units)
}

// BuildCompilationUnit builds a single compilation unit.  A poisoned parse
// tree short-circuits the builder: the diagnostic already reported by the
// parser stands, and a poisoned placeholder unit is returned.
func (b *Builder) BuildCompilationUnit(root *parsetree.Node) *ast.CompilationUnit {
	if root.IsPoisoned() {
		cu := ast.NewCompilationUnit(ast.NewUnresolvedType(nil, root.Span()), nil, nil, root.Span())
		cu.Poisoned = true
		return cu
	}

	cu, err := b.visitCompilationUnit(root)
	if err != nil {
		report.Report(report.AsDiagnostic(err))
		cu = ast.NewCompilationUnit(ast.NewUnresolvedType(nil, root.Span()), nil, nil, root.Span())
		cu.Poisoned = true
	}

	return cu
}

// -----------------------------------------------------------------------------
// Shape check helpers.

// shapeError raises a fatal builder error attached to the given node.
func shapeError(node *parsetree.Node, msg string, args ...interface{}) error {
	return report.Raise(report.KindBuilder, node.Span(), msg, args...)
}

// checkKind asserts that the node has the expected kind.
func checkKind(node *parsetree.Node, kind parsetree.Kind) error {
	if node.Kind() != kind {
		return shapeError(node, "expected %s node, found %s", kind, node.Kind())
	}

	return nil
}

// checkChildren asserts that the node's child count lies in [min, max].
func checkChildren(node *parsetree.Node, min, max int) error {
	if node.NumChildren() < min || node.NumChildren() > max {
		return shapeError(node, "%s node has %d children, expected %d to %d",
			node.Kind(), node.NumChildren(), min, max)
	}

	return nil
}

// visitList visits a list-pattern node: a node that is recursive in its
// first child, yielding a flat sequence.  The node has one or two children;
// with two, the first child is the rest of the list.  A nil node is an empty
// list.
func visitList[T any](b *Builder, node *parsetree.Node, kind parsetree.Kind, visit func(*parsetree.Node) (T, error)) ([]T, error) {
	if node == nil {
		return nil, nil
	}

	if err := checkKind(node, kind); err != nil {
		return nil, err
	}

	if err := checkChildren(node, 1, 2); err != nil {
		return nil, err
	}

	if node.NumChildren() == 1 {
		item, err := visit(node.Child(0))
		if err != nil {
			return nil, err
		}

		return []T{item}, nil
	}

	rest, err := visitList(b, node.Child(0), kind, visit)
	if err != nil {
		return nil, err
	}

	item, err := visit(node.Child(1))
	if err != nil {
		return nil, err
	}

	return append(rest, item), nil
}

// -----------------------------------------------------------------------------
// Leaf visitors.

// visitIdentifier extracts the interned name from an identifier leaf.
func (b *Builder) visitIdentifier(node *parsetree.Node) (string, error) {
	if err := checkKind(node, parsetree.KindIdentifier); err != nil {
		return "", err
	}

	return b.arena.Intern(node.Identifier()), nil
}

// visitQualifiedIdentifier flattens a qualified identifier into an
// unresolved type.  The node is recursive in its first child.
func (b *Builder) visitQualifiedIdentifier(node *parsetree.Node) (*ast.UnresolvedType, error) {
	if err := checkKind(node, parsetree.KindQualifiedIdentifier); err != nil {
		return nil, err
	}

	if err := checkChildren(node, 1, 2); err != nil {
		return nil, err
	}

	if node.NumChildren() == 1 {
		name, err := b.visitIdentifier(node.Child(0))
		if err != nil {
			return nil, err
		}

		return ast.NewUnresolvedType([]string{name}, node.Span()), nil
	}

	prefix, err := b.visitQualifiedIdentifier(node.Child(0))
	if err != nil {
		return nil, err
	}

	name, err := b.visitIdentifier(node.Child(1))
	if err != nil {
		return nil, err
	}

	prefix.AddPart(name)
	return prefix, nil
}

// visitModifiers folds a modifier list into a modifier set, erroring on
// duplicates.
func (b *Builder) visitModifiers(node *parsetree.Node) (ast.Modifiers, error) {
	var mods ast.Modifiers

	leaves, err := visitList(b, node, parsetree.KindModifierList, func(n *parsetree.Node) (*parsetree.Node, error) {
		if err := checkKind(n, parsetree.KindModifier); err != nil {
			return nil, err
		}

		return n, nil
	})
	if err != nil {
		return mods, err
	}

	for _, leaf := range leaves {
		kind := convertModifier(leaf.Modifier())
		if mods.Set(kind, leaf.Span()) {
			return mods, shapeError(leaf, "duplicate modifier `%s`", kind)
		}
	}

	return mods, nil
}

func convertModifier(mod parsetree.ModifierKind) ast.ModifierKind {
	switch mod {
	case parsetree.ModPublic:
		return ast.ModPublic
	case parsetree.ModProtected:
		return ast.ModProtected
	case parsetree.ModStatic:
		return ast.ModStatic
	case parsetree.ModAbstract:
		return ast.ModAbstract
	case parsetree.ModFinal:
		return ast.ModFinal
	default:
		return ast.ModNative
	}
}

// visitType builds an AST type from a type node: a basic type, a qualified
// name, or an array of either.
func (b *Builder) visitType(node *parsetree.Node) (ast.Type, error) {
	switch node.Kind() {
	case parsetree.KindBasicType:
		return ast.NewBuiltInType(convertBasicType(node.BasicType()), node.Span()), nil
	case parsetree.KindQualifiedIdentifier:
		return b.visitQualifiedIdentifier(node)
	case parsetree.KindArrayType:
		if err := checkChildren(node, 1, 1); err != nil {
			return nil, err
		}

		elem, err := b.visitType(node.Child(0))
		if err != nil {
			return nil, err
		}

		return ast.NewArrayType(elem, node.Span()), nil
	case parsetree.KindType:
		if err := checkChildren(node, 1, 1); err != nil {
			return nil, err
		}

		return b.visitType(node.Child(0))
	}

	return nil, shapeError(node, "expected type node, found %s", node.Kind())
}

func convertBasicType(bt parsetree.BasicTypeKind) ast.BuiltInKind {
	switch bt {
	case parsetree.BasicByte:
		return ast.ByteKind
	case parsetree.BasicShort:
		return ast.ShortKind
	case parsetree.BasicInt:
		return ast.IntKind
	case parsetree.BasicChar:
		return ast.CharKind
	default:
		return ast.BooleanKind
	}
}
