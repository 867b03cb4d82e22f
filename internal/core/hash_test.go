package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashName(t *testing.T) {
	assert.Equal(t, uint32(3581), HashName(""))
	assert.NotEqual(t, uint32(0), HashName("x"))
	assert.Equal(t, HashName("vertices"), HashName("vertices"))
	assert.NotEqual(t, HashName("vertices"), HashName("indices"))
}

func TestHashName_NeverZeroInPractice(t *testing.T) {
	// Hash 0 is reserved to mean "no name"; verify a handful of common
	// names don't collide with it (not a formal guarantee, just a smoke
	// check on the chosen seed).
	for _, name := range []string{"root", "mesh", "layer", "points", "colors"} {
		assert.NotEqual(t, uint32(0), HashName(name), name)
	}
}
