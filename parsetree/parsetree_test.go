package parsetree

import (
	"testing"

	"joosc/arena"
	"joosc/report"

	"github.com/stretchr/testify/assert"
)

func TestNode_IsPoisoned(t *testing.T) {
	a := arena.New()
	span := report.SourceRange{}

	clean := NewNode(KindExpression, span,
		NewLiteral(a, span, LiteralInteger, "1"))
	assert.False(t, clean.IsPoisoned())

	// Poison is detected anywhere in the tree, through nil children.
	poisoned := NewNode(KindExpression, span,
		nil,
		NewNode(KindExpression, span, NewPoison(span)))
	assert.True(t, poisoned.IsPoisoned())
}

func TestLeafPayloads(t *testing.T) {
	a := arena.New()
	span := report.SourceRange{}

	lit := NewLiteral(a, span, LiteralInteger, "42")
	assert.Equal(t, KindLiteral, lit.Kind())
	assert.Equal(t, "42", lit.Literal().Text)
	assert.False(t, lit.Literal().Negative)

	lit.SetNegative()
	assert.True(t, lit.Literal().Negative)

	id := NewIdentifier(a, span, "foo")
	assert.Equal(t, "foo", id.Identifier())

	op := NewOperator(span, OpInstanceOf)
	assert.Equal(t, OpInstanceOf, op.Operator())

	mod := NewModifier(span, ModStatic)
	assert.Equal(t, ModStatic, mod.Modifier())

	bt := NewBasicType(span, BasicChar)
	assert.Equal(t, BasicChar, bt.BasicType())
}

func TestArenaInternsLeafText(t *testing.T) {
	a := arena.New()
	span := report.SourceRange{}

	id1 := NewIdentifier(a, span, "name")
	id2 := NewIdentifier(a, span, "name")

	assert.Equal(t, id1.Identifier(), id2.Identifier())
	assert.Equal(t, 1, a.NumInterned())
}
