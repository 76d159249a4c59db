package compiler

import "strings"

// InclusionChain is the ordered set of files currently being expanded.
// It lives for one top-level compile and is never shared between compiles.
type InclusionChain struct {
	paths []string
	index map[string]int
}

// NewInclusionChain returns an empty chain.
func NewInclusionChain() *InclusionChain {
	return &InclusionChain{index: make(map[string]int)}
}

// Contains reports whether path is already being expanded.
func (c *InclusionChain) Contains(path string) bool {
	_, ok := c.index[path]
	return ok
}

// Push enters path. Callers check Contains first; pushing a path twice panics.
func (c *InclusionChain) Push(path string) {
	if c.Contains(path) {
		panic("compiler: path pushed twice onto inclusion chain: " + path)
	}
	c.index[path] = len(c.paths)
	c.paths = append(c.paths, path)
}

// Pop leaves the most recently entered path.
func (c *InclusionChain) Pop() {
	if len(c.paths) == 0 {
		return
	}
	last := c.paths[len(c.paths)-1]
	delete(c.index, last)
	c.paths = c.paths[:len(c.paths)-1]
}

// Depth is the number of files on the chain.
func (c *InclusionChain) Depth() int {
	return len(c.paths)
}

// Paths returns a copy of the chain, outermost file first.
func (c *InclusionChain) Paths() []string {
	return append([]string(nil), c.paths...)
}

// Cycle returns the chain followed by the repeated path.
func (c *InclusionChain) Cycle(repeated string) []string {
	return append(c.Paths(), repeated)
}

// formatCycle renders a cycle as "a -> b -> a".
func formatCycle(cycle []string) string {
	return strings.Join(cycle, " -> ")
}
