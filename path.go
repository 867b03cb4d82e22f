package udf

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/scigolib/udf/internal/core"
)

// PathElement is one `.`-separated component of a dataset path: either a
// bare table name (a terminal reference) or a `name[index]` pair that
// follows a child-dataset offset table and recurses into element index.
type PathElement struct {
	Name     string
	HasIndex bool
	Index    uint32
}

// ParsePath splits a dotted path string into its elements. Each element is
// either `name` or `name[index]`; at most one `[` is allowed per element,
// and an element containing `[` must end in `]`. An empty path yields a
// single empty-name element, referring to the current dataset.
func ParsePath(path string) ([]PathElement, error) {
	var elems []PathElement
	state := path

	for {
		segment, rest, hasMore := cutPathSegment(state)
		el, err := parsePathElement(segment)
		if err != nil {
			return nil, err
		}
		elems = append(elems, el)
		if !hasMore {
			break
		}
		state = rest
	}

	return elems, nil
}

// cutPathSegment splits off the next `.`-delimited segment of state,
// reporting whether more segments remain.
func cutPathSegment(state string) (segment, rest string, hasMore bool) {
	if i := strings.IndexByte(state, '.'); i >= 0 {
		return state[:i], state[i+1:], true
	}
	return state, "", false
}

func parsePathElement(segment string) (PathElement, error) {
	bracket := strings.IndexByte(segment, '[')
	if bracket < 0 {
		return PathElement{Name: segment}, nil
	}

	if strings.IndexByte(segment[bracket+1:], '[') >= 0 {
		return PathElement{}, fmt.Errorf("path element %q: %w", segment, core.ErrInvalidFormat)
	}
	if !strings.HasSuffix(segment, "]") {
		return PathElement{}, fmt.Errorf("path element %q: missing closing ']': %w", segment, core.ErrInvalidFormat)
	}

	name := segment[:bracket]
	indexStr := segment[bracket+1 : len(segment)-1]
	index, err := strconv.ParseUint(indexStr, 10, 32)
	if err != nil {
		return PathElement{}, fmt.Errorf("path element %q: invalid index: %w", segment, core.ErrInvalidFormat)
	}

	return PathElement{Name: name, HasIndex: true, Index: uint32(index)}, nil
}

// Resolve navigates from root following path, returning the file offset of
// the dataset it names. Each indexed element must name a child-dataset
// offset table (type_info == core.TFileOffset); its element at Index is
// read as the next FileOffset to follow.
func (f *File) Resolve(root core.FileOffset, path string) (core.FileOffset, error) {
	elems, err := ParsePath(path)
	if err != nil {
		return core.FileOffset{}, err
	}

	current := root
	for _, el := range elems {
		if el.Name == "" && !el.HasIndex {
			continue
		}

		ds, err := f.ReadDataset(current)
		if err != nil {
			return core.FileOffset{}, err
		}

		hash := core.HashName(el.Name)
		table, ok := ds.AsRef().FindTable(hash)
		if !ok {
			return core.FileOffset{}, fmt.Errorf("path element %q: name not found: %w", el.Name, core.ErrInvalidFormat)
		}

		if !el.HasIndex {
			return core.FileOffset{}, fmt.Errorf("path element %q: terminal element used as intermediate node: %w", el.Name, core.ErrInvalidFormat)
		}

		if table.TypeInfo != core.TFileOffset {
			return core.FileOffset{}, fmt.Errorf("path element %q: not a child-dataset table: %w", el.Name, core.ErrInvalidFormat)
		}

		data, ok := ds.AsRef().GetDataRef(table)
		if !ok {
			return core.FileOffset{}, fmt.Errorf("path element %q: %w", el.Name, core.ErrOutOfBounds)
		}

		offsets, ok := core.StructSlice[core.FileOffset](data.Bytes, len(data.Bytes)/16)
		if !ok || int(el.Index) >= len(offsets) {
			return core.FileOffset{}, fmt.Errorf("path element %q: index %d out of range: %w", el.Name, el.Index, core.ErrOutOfBounds)
		}

		current = offsets[el.Index]
	}

	return current, nil
}
