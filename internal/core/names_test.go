package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNames_AddAndFinalize(t *testing.T) {
	var n Names
	n.Add("beta", HashName("beta"))
	n.Add("alpha", HashName("alpha"))
	assert.Equal(t, 2, n.Len())

	require.NoError(t, n.Finalize())
	assert.Len(t, n.Entries, 2)
	assert.LessOrEqual(t, n.Entries[0].Hash, n.Entries[1].Hash)
	assert.Equal(t, 0, len(n.Strings)%8)
}

func TestNames_Lookup(t *testing.T) {
	var n Names
	n.Add("vertices", HashName("vertices"))
	n.Add("indices", HashName("indices"))
	require.NoError(t, n.Finalize())

	ref := n.AsRef()

	got, err := ref.Lookup(HashName("vertices"))
	require.NoError(t, err)
	assert.Equal(t, "vertices", got)

	got, err = ref.Lookup(HashName("indices"))
	require.NoError(t, err)
	assert.Equal(t, "indices", got)
}

func TestNames_Lookup_ZeroHashIsAlwaysAnError(t *testing.T) {
	var n Names
	n.Add("x", HashName("x"))
	require.NoError(t, n.Finalize())
	_, err := n.AsRef().Lookup(0)
	assert.Error(t, err)
}

func TestNames_Lookup_NotFound(t *testing.T) {
	var n Names
	n.Add("x", HashName("x"))
	require.NoError(t, n.Finalize())
	_, err := n.AsRef().Lookup(HashName("y"))
	assert.Error(t, err)
}

func TestNames_Find(t *testing.T) {
	var n Names
	n.Add("first", HashName("first"))
	n.Add("second", HashName("second"))
	require.NoError(t, n.Finalize())

	ref := n.AsRef()
	hash, ok := ref.Find("second")
	require.True(t, ok)
	assert.Equal(t, HashName("second"), hash)

	_, ok = ref.Find("missing")
	assert.False(t, ok)
}

func TestNames_FileSize(t *testing.T) {
	var n Names
	n.Add("abc", HashName("abc"))
	require.NoError(t, n.Finalize())
	ref := n.AsRef()
	assert.Equal(t, len(ref.Entries)*int(lookupEntrySize)+len(ref.Strings), ref.FileSize())
}

func TestNames_Finalize_DuplicateHashFails(t *testing.T) {
	var n Names
	n.Add("a", 1)
	n.Add("b", 1)
	err := n.Finalize()
	assert.Error(t, err)
}

func TestAlignUp8(t *testing.T) {
	cases := map[int]int{0: 0, 1: 8, 7: 8, 8: 8, 9: 16, 16: 16}
	for in, want := range cases {
		assert.Equal(t, want, alignUp8(in), "alignUp8(%d)", in)
	}
}
