package udf

import (
	"fmt"

	"github.com/scigolib/udf/internal/core"
)

// Walk traverses the dataset tree rooted at root in depth-first order,
// calling fn with the path (dot-separated, matching ParsePath's form) and
// the dataset at each node it visits. It follows every table whose
// type_info is core.TFileOffset as a set of child datasets.
//
// A visited set of file offsets guards against cyclic references: revisiting
// an already-visited non-null offset is reported as core.ErrCyclicReference
// instead of recursing forever.
func Walk(file *File, root core.FileOffset, fn func(path string, ds *core.Dataset) error) error {
	visited := make(map[core.FileOffset]bool)
	return walkDataset(file, root, "", visited, fn)
}

func walkDataset(file *File, fo core.FileOffset, path string, visited map[core.FileOffset]bool, fn func(string, *core.Dataset) error) error {
	if fo.IsNull() {
		return nil
	}
	if visited[fo] {
		return fmt.Errorf("walk at %q, offset %+v: %w", path, fo, core.ErrCyclicReference)
	}
	visited[fo] = true

	ds, err := file.ReadDataset(fo)
	if err != nil {
		return err
	}

	if err := fn(path, ds); err != nil {
		return err
	}

	ref := ds.AsRef()
	for i := range ref.Tables {
		table := &ref.Tables[i]
		if table.TypeInfo != core.TFileOffset {
			continue
		}

		data, ok := ref.GetDataRef(table)
		if !ok {
			return fmt.Errorf("walk at %q: %w", path, core.ErrOutOfBounds)
		}

		name, err := ref.Names.Lookup(table.KeyName)
		if err != nil {
			name = fmt.Sprintf("#%08x", table.KeyName)
		}

		offsets, ok := core.StructSlice[core.FileOffset](data.Bytes, len(data.Bytes)/16)
		if !ok {
			return fmt.Errorf("walk at %q: %w", path, core.ErrOutOfBounds)
		}

		for idx, child := range offsets {
			childPath := fmt.Sprintf("%s[%d]", name, idx)
			if path != "" {
				childPath = path + "." + childPath
			}
			if err := walkDataset(file, child, childPath, visited, fn); err != nil {
				return err
			}
		}
	}

	return nil
}
