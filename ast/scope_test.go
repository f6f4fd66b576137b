package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScopeID_CanViewSiblings(t *testing.T) {
	parent := NewScope()
	first := parent.Child()
	second := first.Next(parent)
	third := second.Next(parent)

	// Later positions can view earlier ones, never the reverse.
	assert.True(t, second.CanView(first))
	assert.True(t, third.CanView(first))
	assert.True(t, third.CanView(second))

	assert.False(t, first.CanView(second))
	assert.False(t, first.CanView(third))
	assert.False(t, second.CanView(third))
}

func TestScopeID_CannotViewSelf(t *testing.T) {
	parent := NewScope()
	pos := parent.Child()

	assert.False(t, pos.CanView(pos))
}

func TestScopeID_NestedScopeSeesEnclosing(t *testing.T) {
	parent := NewScope()
	outer := parent.Child()
	second := outer.Next(parent)

	inner := second.Child()

	assert.True(t, inner.CanView(outer))
	assert.False(t, inner.CanView(second.Next(parent)))
}

func TestScopeID_NilAndString(t *testing.T) {
	parent := NewScope()
	pos := parent.Child()

	assert.False(t, pos.CanView(nil))
	assert.NotEmpty(t, pos.String())
}
