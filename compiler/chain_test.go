package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInclusionChain(t *testing.T) {
	c := NewInclusionChain()
	assert.Equal(t, 0, c.Depth())
	assert.False(t, c.Contains("/a"))

	c.Push("/a")
	c.Push("/b")
	assert.Equal(t, 2, c.Depth())
	assert.True(t, c.Contains("/a"))
	assert.Equal(t, []string{"/a", "/b", "/a"}, c.Cycle("/a"))
	assert.Equal(t, "/a -> /b -> /a", formatCycle(c.Cycle("/a")))

	c.Pop()
	assert.False(t, c.Contains("/b"))
	assert.Equal(t, []string{"/a"}, c.Paths())

	// Re-entering a popped path is a sibling include, not a cycle.
	c.Push("/b")
	assert.Equal(t, []string{"/a", "/b"}, c.Paths())

	c.Pop()
	c.Pop()
	c.Pop()
	assert.Equal(t, 0, c.Depth())
}

func TestInclusionChainDoublePushPanics(t *testing.T) {
	c := NewInclusionChain()
	c.Push("/a")
	assert.Panics(t, func() { c.Push("/a") })
}

func TestInclusionChainPathsIsCopy(t *testing.T) {
	c := NewInclusionChain()
	c.Push("/a")
	paths := c.Paths()
	paths[0] = "/mutated"
	assert.True(t, c.Contains("/a"))
	assert.Equal(t, []string{"/a"}, c.Paths())
}
