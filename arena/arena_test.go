package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArena_Intern(t *testing.T) {
	a := New()

	s1 := a.Intern("hello")
	s2 := a.Intern("hello")
	s3 := a.Intern("world")

	assert.Equal(t, s1, s2)
	assert.NotEqual(t, s1, s3)
	assert.Equal(t, 2, a.NumInterned())
}

func TestArena_IDsAndReset(t *testing.T) {
	a := New()

	id1 := a.NextID()
	id2 := a.NextID()
	assert.NotEqual(t, id1, id2)

	gen := a.Generation()
	a.Reset()

	assert.Equal(t, gen+1, a.Generation())
	assert.Equal(t, 0, a.NumInterned())
	assert.Equal(t, id1, a.NextID())
}
