// Package udf implements the Untitled Data Format: a binary container for
// packaging typed, multi-dimensional numeric arrays into a single file with
// a tree-of-datasets structure and string<->hash name dictionaries.
package udf

import (
	"fmt"

	"github.com/scigolib/udf/internal/core"
	"github.com/scigolib/udf/internal/utils"
	"github.com/scigolib/udf/internal/writer"
)

// headerSize is the byte offset of the first dataset region; the allocator
// never hands out space below it.
const headerSize = 64

// File manipulates a UDF container through direct file I/O: creating,
// opening, or editing it, and adding/reading dataset regions.
//
// Not safe for concurrent use; exactly one *File should own a given path at
// a time.
type File struct {
	w      *writer.FileWriter
	header core.UdfHeader
}

// Create creates a new UDF file, truncating it if it already exists, and
// writes a fresh header with the given application id and a null root.
func Create(path string, id [4]byte) (*File, error) {
	w, err := writer.NewFileWriter(path, writer.ModeTruncate, headerSize)
	if err != nil {
		return nil, utils.WrapError("udf.Create", err)
	}

	f := &File{
		w: w,
		header: core.UdfHeader{
			Magic: core.Magic,
			ID:    id,
		},
	}
	if err := f.WriteHeader(); err != nil {
		w.Close()
		return nil, utils.WrapError("udf.Create", err)
	}
	return f, nil
}

// Open opens an existing UDF file read-only. Write operations on the
// returned File fail at the OS level.
func Open(path string) (*File, error) {
	return openExisting(path, writer.OpenReadOnly)
}

// Edit opens an existing UDF file for reading and writing. It does not
// create the file if it is absent; call Create first for a new file.
func Edit(path string) (*File, error) {
	return openExisting(path, writer.OpenReadWrite)
}

func openExisting(path string, mode writer.OpenMode) (*File, error) {
	w, err := writer.OpenFileWriter(path, mode)
	if err != nil {
		return nil, utils.WrapError("udf.openExisting", err)
	}

	var headerBuf [headerSize]byte
	if _, err := w.ReadAt(headerBuf[:], 0); err != nil {
		w.Close()
		return nil, utils.WrapError("udf.openExisting: read header", err)
	}

	headers, ok := core.StructSlice[core.UdfHeader](headerBuf[:], 1)
	if !ok {
		w.Close()
		return nil, fmt.Errorf("udf.openExisting: %w", core.ErrOutOfBounds)
	}
	header := headers[0]

	if header.Magic != core.Magic {
		w.Close()
		return nil, fmt.Errorf("udf.openExisting: bad magic %q: %w", header.Magic, core.ErrInvalidFormat)
	}

	return &File{w: w, header: header}, nil
}

// ID returns the file's 4-byte application id.
func (f *File) ID() [4]byte { return f.header.ID }

// SetID sets the file's application id in memory. Call WriteHeader to
// persist the change.
func (f *File) SetID(id [4]byte) { f.header.ID = id }

// Root returns the file offset of the root dataset.
func (f *File) Root() core.FileOffset { return f.header.Root }

// SetRoot sets the root dataset's file offset in memory. Call WriteHeader
// to persist the change.
func (f *File) SetRoot(root core.FileOffset) { f.header.Root = root }

// WriteHeader persists the in-memory header to the start of the file.
func (f *File) WriteHeader() error {
	buf := core.StructBytes([]core.UdfHeader{f.header})
	if err := f.w.WriteAtAddress(buf, 0); err != nil {
		return utils.WrapError("udf.File.WriteHeader", err)
	}
	return nil
}

// Allocate reserves a 16-byte-aligned region at the end of the file, sized
// to hold at least size bytes.
func (f *File) Allocate(size uint64) (core.FileOffset, error) {
	offset, err := f.w.Allocate(size)
	if err != nil {
		return core.FileOffset{}, utils.WrapError("udf.File.Allocate", err)
	}
	aligned := f.w.EndOfFile() - offset
	return core.FileOffset{Offset: offset, Size: aligned}, nil
}

// AddDataset allocates a region for ds and writes it there.
func (f *File) AddDataset(ds core.DatasetRef) (core.FileOffset, error) {
	fo, err := f.Allocate(uint64(ds.FileSize()))
	if err != nil {
		return core.FileOffset{}, err
	}
	if err := f.WriteDataset(fo, ds); err != nil {
		return core.FileOffset{}, err
	}
	return fo, nil
}

// WriteDataset writes ds at the given file offset, zero-padding any
// trailing space up to fo.Size. fo must come from Allocate: it must be
// non-null, 16-byte aligned, and large enough to hold ds.
func (f *File) WriteDataset(fo core.FileOffset, ds core.DatasetRef) error {
	if fo.IsNull() || !fo.IsAligned() {
		return fmt.Errorf("udf.File.WriteDataset: file offset %+v: %w", fo, core.ErrAlignment)
	}

	size := uint64(ds.FileSize())
	if fo.Size < size {
		return fmt.Errorf("udf.File.WriteDataset: region size %d smaller than dataset size %d: %w", fo.Size, size, core.ErrOutOfBounds)
	}

	scratch := utils.GetBuffer(int(size))
	defer utils.ReleaseBuffer(scratch)

	bw := &byteSliceWriter{buf: scratch[:0]}
	if err := ds.Write(bw); err != nil {
		return utils.WrapError("udf.File.WriteDataset", err)
	}

	padded := make([]byte, fo.Size)
	copy(padded, bw.buf)

	if err := f.w.WriteAtAddress(padded, fo.Offset); err != nil {
		return utils.WrapError("udf.File.WriteDataset", err)
	}
	return nil
}

// ReadDataset reads the dataset region at fo and parses it into an owned
// Dataset.
func (f *File) ReadDataset(fo core.FileOffset) (*core.Dataset, error) {
	if fo.IsNull() || !fo.IsAligned() {
		return nil, fmt.Errorf("udf.File.ReadDataset: file offset %+v: %w", fo, core.ErrAlignment)
	}

	raw := make([]byte, fo.Size)
	if _, err := f.w.ReadAt(raw, int64(fo.Offset)); err != nil {
		return nil, utils.WrapError("udf.File.ReadDataset", err)
	}

	storage, ok := core.StructSlice[uint64](raw, len(raw)/8)
	if !ok {
		return nil, fmt.Errorf("udf.File.ReadDataset: %w", core.ErrOutOfBounds)
	}

	ref, err := core.ParseDataset(storage)
	if err != nil {
		return nil, utils.WrapError("udf.File.ReadDataset", err)
	}
	return ref.ToOwned(), nil
}

// Flush commits all writes to disk.
func (f *File) Flush() error {
	if err := f.w.Flush(); err != nil {
		return utils.WrapError("udf.File.Flush", err)
	}
	return nil
}

// Close closes the underlying file.
func (f *File) Close() error {
	return f.w.Close()
}

// byteSliceWriter adapts a pooled scratch buffer to io.Writer so
// WriteDataset can reuse a buffer across calls instead of allocating one
// per dataset.
type byteSliceWriter struct {
	buf []byte
}

func (b *byteSliceWriter) Write(p []byte) (int, error) {
	b.buf = append(b.buf, p...)
	return len(p), nil
}
