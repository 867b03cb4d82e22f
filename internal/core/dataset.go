package core

import (
	"fmt"
	"io"
)

// TableRef describes one table to be added to a Dataset: its key name hash,
// its raw data, and the hashes of any index/related table it refers to.
type TableRef struct {
	KeyName     uint32
	Data        DataRef
	IndexName   uint32
	RelatedName uint32
}

// Dataset is the in-memory builder for a single dataset region: a header,
// a list of table descriptors, a name dictionary and a storage blob that
// backs every table's data.
type Dataset struct {
	Header  DatasetHeader
	Descs   []TableDesc
	Names   Names
	Storage []uint64
}

// NewDataset returns an empty Dataset ready to accept tables.
func NewDataset() *Dataset {
	return &Dataset{}
}

// AsRef produces a read-only view over the builder's current contents.
func (d *Dataset) AsRef() DatasetRef {
	return DatasetRef{
		Header:  &d.Header,
		Tables:  d.Descs,
		Names:   d.Names.AsRef(),
		Storage: d.Storage,
	}
}

// Len returns the number of tables in this dataset.
func (d *Dataset) Len() int {
	return len(d.Descs)
}

// AddTable adds a table record and copies its data into internal storage.
// It always succeeds; duplicate key names are not rejected, matching the
// on-disk format's linear-scan lookup which simply returns the first match.
func (d *Dataset) AddTable(table TableRef) error {
	memStart, memEnd := d.writeData(table.Data.Bytes)

	d.Descs = append(d.Descs, TableDesc{
		KeyName:      table.KeyName,
		TypeInfo:     table.Data.TypeInfo,
		CompressInfo: table.Data.CompressInfo,
		MemStart:     memStart,
		MemEnd:       memEnd,
		DataSize:     uint32(len(table.Data.Bytes)),
		DataShape:    encodeShape(table.Data.Shape),
		IndexName:    table.IndexName,
		RelatedName:  table.RelatedName,
	})
	return nil
}

func encodeShape(s Shape) [2]uint32 {
	_, shape := s.Encode()
	return shape
}

// writeData appends storage to the dataset's u64-word-aligned storage blob
// and returns the [memStart, memEnd) word range it now occupies.
func (d *Dataset) writeData(storage []byte) (uint32, uint32) {
	if len(storage) == 0 {
		return 0, 0
	}

	oldLen := len(d.Storage)
	newLen := oldLen + (len(storage)-1)/8 + 1
	grown := make([]uint64, newLen)
	copy(grown, d.Storage)
	d.Storage = grown

	dest := StructBytes(d.Storage)[oldLen*8 : oldLen*8+len(storage)]
	copy(dest, storage)

	return uint32(oldLen), uint32(newLen)
}

// Finalize fixes up the header size fields and sorts the name dictionary,
// returning a read-only view ready to be written to disk.
func (d *Dataset) Finalize() (DatasetRef, error) {
	d.Header.Check = DatasetCheck
	if err := d.Names.Finalize(); err != nil {
		return DatasetRef{}, err
	}

	size := int(datasetHeaderSize)
	size += len(d.Descs) * int(tableDescSize)
	size += d.Names.AsRef().FileSize()
	if size%8 != 0 {
		return DatasetRef{}, fmt.Errorf("dataset size %d is not 8-byte aligned: %w", size, ErrAlignment)
	}
	d.Header.Size = uint16(size)

	d.Header.DescsLen = uint16(len(d.Descs))
	d.Header.LookupLen = uint16(len(d.Names.Entries))
	d.Header.StringLen = uint16(len(d.Names.Strings))

	return d.AsRef(), nil
}

// DatasetRef is a read-only view over a dataset, either parsed directly out
// of file storage or produced by Dataset.AsRef/Finalize.
type DatasetRef struct {
	Header  *DatasetHeader
	Tables  []TableDesc
	Names   NamesRef
	Storage []uint64
}

// ParseDataset parses a dataset out of a word-aligned storage buffer, as
// read directly from a file region.
func ParseDataset(storage []uint64) (DatasetRef, error) {
	header, ok := StructSlice[DatasetHeader](StructBytes(storage), 1)
	if !ok || len(header) != 1 {
		return DatasetRef{}, fmt.Errorf("dataset header: %w", ErrOutOfBounds)
	}
	hdr := &header[0]

	if hdr.Check != DatasetCheck {
		return DatasetRef{}, fmt.Errorf("dataset check word %#08x: %w", hdr.Check, ErrInvalidFormat)
	}

	if hdr.Size%8 != 0 {
		return DatasetRef{}, fmt.Errorf("dataset header size %d: %w", hdr.Size, ErrAlignment)
	}

	all := StructBytes(storage)
	if int(hdr.Size) > len(all) {
		return DatasetRef{}, fmt.Errorf("dataset header size %d exceeds storage length %d: %w", hdr.Size, len(all), ErrOutOfBounds)
	}
	head := all[:hdr.Size]

	offset := int(datasetHeaderSize)
	descs, ok := StructSlice[TableDesc](head[offset:], int(hdr.DescsLen))
	if !ok {
		return DatasetRef{}, fmt.Errorf("table descriptors: %w", ErrOutOfBounds)
	}
	offset += len(descs) * int(tableDescSize)

	entries, ok := StructSlice[LookupEntry](head[offset:], int(hdr.LookupLen))
	if !ok {
		return DatasetRef{}, fmt.Errorf("lookup entries: %w", ErrOutOfBounds)
	}
	offset += len(entries) * int(lookupEntrySize)

	if offset+int(hdr.StringLen) > len(head) {
		return DatasetRef{}, fmt.Errorf("string pool: %w", ErrOutOfBounds)
	}
	strings := head[offset : offset+int(hdr.StringLen)]

	names := NamesRef{Entries: entries, Strings: strings}

	wordsUsed := int(hdr.Size) / 8
	if wordsUsed > len(storage) {
		return DatasetRef{}, fmt.Errorf("dataset header size exceeds storage words: %w", ErrOutOfBounds)
	}
	remaining := storage[wordsUsed:]

	return DatasetRef{Header: hdr, Tables: descs, Names: names, Storage: remaining}, nil
}

// ToOwned copies a DatasetRef into an independent, mutable Dataset.
func (d DatasetRef) ToOwned() *Dataset {
	descs := make([]TableDesc, len(d.Tables))
	copy(descs, d.Tables)
	entries := make([]LookupEntry, len(d.Names.Entries))
	copy(entries, d.Names.Entries)
	strings := make([]byte, len(d.Names.Strings))
	copy(strings, d.Names.Strings)
	storage := make([]uint64, len(d.Storage))
	copy(storage, d.Storage)

	return &Dataset{
		Header:  *d.Header,
		Descs:   descs,
		Names:   Names{Entries: entries, Strings: strings},
		Storage: storage,
	}
}

// Len returns the number of tables in this dataset.
func (d DatasetRef) Len() int {
	return len(d.Tables)
}

// FindTable finds a table descriptor by its key name hash. Lookup is a
// linear scan over the descriptor list rather than a binary search, since
// descriptors are not required to be sorted by key name.
func (d DatasetRef) FindTable(keyName uint32) (*TableDesc, bool) {
	for i := range d.Tables {
		if d.Tables[i].KeyName == keyName {
			return &d.Tables[i], true
		}
	}
	return nil, false
}

// GetDataRef returns the raw data referenced by a table descriptor.
func (d DatasetRef) GetDataRef(table *TableDesc) (DataRef, bool) {
	if table.MemStart > table.MemEnd || int(table.MemEnd) > len(d.Storage) {
		return DataRef{}, false
	}
	words := d.Storage[table.MemStart:table.MemEnd]
	bytes := StructBytes(words)
	if int(table.DataSize) > len(bytes) {
		return DataRef{}, false
	}
	shape := FromTypeInfo(table.TypeInfo, table.DataShape)
	if _, err := shape.LenChecked(); err != nil {
		return DataRef{}, false
	}
	return DataRef{
		Bytes:        bytes[:table.DataSize],
		TypeInfo:     table.TypeInfo,
		CompressInfo: table.CompressInfo,
		Shape:        shape,
	}, true
}

// FileSize returns the byte length this dataset occupies on disk.
func (d DatasetRef) FileSize() int {
	return int(datasetHeaderSize) + len(d.Tables)*int(tableDescSize) + d.Names.FileSize() + len(d.Storage)*8
}

// Write serializes the dataset region, in order: header, table descriptors,
// name dictionary, storage.
func (d DatasetRef) Write(w io.Writer) error {
	if _, err := w.Write(StructBytes([]DatasetHeader{*d.Header})); err != nil {
		return err
	}
	if _, err := w.Write(StructBytes(d.Tables)); err != nil {
		return err
	}
	if _, err := w.Write(StructBytes(d.Names.Entries)); err != nil {
		return err
	}
	if _, err := w.Write(d.Names.Strings); err != nil {
		return err
	}
	if _, err := w.Write(StructBytes(d.Storage)); err != nil {
		return err
	}
	return nil
}
