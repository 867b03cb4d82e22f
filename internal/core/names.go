package core

import (
	"fmt"
	"sort"
	"unicode/utf8"
)

// Names is the in-memory, append-only builder for a dataset's name
// dictionary: a list of LookupEntry descriptors plus the UTF-8 string pool
// they index into.
type Names struct {
	Entries []LookupEntry
	Strings []byte
}

// Add registers a name and its precomputed hash, appending it to the
// string pool. Names are not deduplicated by the caller; Finalize sorts
// entries by hash for binary search, so duplicate hashes must be resolved
// by the caller before finalizing.
func (n *Names) Add(name string, hash uint32) {
	offset := uint16(len(n.Strings))
	length := uint16(len(name))
	n.Entries = append(n.Entries, LookupEntry{Hash: hash, Offset: offset, Len: length})
	n.Strings = append(n.Strings, name...)
}

// Len returns the number of names registered.
func (n *Names) Len() int {
	return len(n.Entries)
}

// Finalize sorts the entries by hash to enable binary search and pads the
// string pool to a multiple of 8 bytes, as required by DatasetHeader.StringLen.
// It fails if two names share a hash, since Lookup could then never
// distinguish between them.
func (n *Names) Finalize() error {
	sort.Slice(n.Entries, func(i, j int) bool {
		return n.Entries[i].Hash < n.Entries[j].Hash
	})

	for i := 1; i < len(n.Entries); i++ {
		if n.Entries[i].Hash == n.Entries[i-1].Hash {
			return fmt.Errorf("duplicate name hash %#08x: %w", n.Entries[i].Hash, ErrInvalidFormat)
		}
	}

	newLen := alignUp8(len(n.Strings))
	if newLen > len(n.Strings) {
		n.Strings = append(n.Strings, make([]byte, newLen-len(n.Strings))...)
	}
	return nil
}

func alignUp8(n int) int {
	return (n + 7) &^ 7
}

// AsRef produces a read-only view over the builder's current contents.
func (n *Names) AsRef() NamesRef {
	return NamesRef{Entries: n.Entries, Strings: n.Strings}
}

// NamesRef is a binary-search-based name lookup table parsed directly out
// of a dataset's storage region. Entries must be sorted ascending by hash.
type NamesRef struct {
	Entries []LookupEntry
	Strings []byte
}

// Lookup translates a hash back into its name string. It returns an error
// if the hash is zero, not present, or refers to out-of-bounds or invalid
// UTF-8 string data.
func (n NamesRef) Lookup(hash uint32) (string, error) {
	if hash == 0 {
		return "", fmt.Errorf("hash 0 has no associated name: %w", ErrInvalidFormat)
	}
	idx := sort.Search(len(n.Entries), func(i int) bool {
		return n.Entries[i].Hash >= hash
	})
	if idx >= len(n.Entries) || n.Entries[idx].Hash != hash {
		return "", fmt.Errorf("name hash %#08x not found: %w", hash, ErrInvalidFormat)
	}
	return n.name(n.Entries[idx])
}

func (n NamesRef) name(desc LookupEntry) (string, error) {
	start := int(desc.Offset)
	end := start + int(desc.Len)
	if start < 0 || end > len(n.Strings) || start > end {
		return "", fmt.Errorf("name string out of bounds [%d,%d): %w", start, end, ErrOutOfBounds)
	}
	if !utf8.Valid(n.Strings[start:end]) {
		return "", fmt.Errorf("name string [%d,%d) is not valid UTF-8: %w", start, end, ErrInvalidFormat)
	}
	return string(n.Strings[start:end]), nil
}

// Find returns the hash of a name string, or false if not present.
func (n NamesRef) Find(name string) (uint32, bool) {
	for _, desc := range n.Entries {
		s, err := n.name(desc)
		if err == nil && s == name {
			return desc.Hash, true
		}
	}
	return 0, false
}

// FileSize returns the byte length of the entries and strings regions
// combined, as they would be written to a file.
func (n NamesRef) FileSize() int {
	return len(n.Entries)*int(lookupEntrySize) + len(n.Strings)
}
