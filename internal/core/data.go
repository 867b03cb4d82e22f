package core

import (
	"github.com/scigolib/udf/internal/codec"
)

// DataRef is a read-only reference to a single table's raw data, still
// carrying its type and compression so the caller can decide how to
// interpret or decompress it.
type DataRef struct {
	Bytes        []byte
	TypeInfo     uint16
	CompressInfo uint16
	Shape        Shape
}

// Len returns the total number of elements in the referenced data.
func (d DataRef) Len() uint64 {
	return d.Shape.Len()
}

// IsCompressed reports whether the data requires decompression before use.
func (d DataRef) IsCompressed() bool {
	return d.CompressInfo != CompressNone
}

// Decompress returns an uncompressed DataRef backed by storage. If the
// data is already uncompressed, or the compression scheme is unsupported
// or the stream is corrupt, Decompress returns d unchanged.
func (d DataRef) Decompress(storage *[]uint64) DataRef {
	switch d.CompressInfo {
	case CompressSimpleU32:
		n := int(d.Shape.Len())
		*storage = growU64(*storage, n)
		dst, ok := AsSlice[uint32](StructBytes(*storage))
		if !ok || len(dst) < n {
			return d
		}
		if !codec.SimpleU32Decompress(dst[:n], d.Bytes) {
			return d
		}
		return DataRef{
			Bytes:        StructBytes(dst[:n]),
			CompressInfo: CompressNone,
			Shape:        d.Shape,
			TypeInfo:     d.TypeInfo,
		}
	case CompressSimpleF32:
		n := int(d.Shape.Len())
		*storage = growU64(*storage, n)
		dst, ok := AsSlice[float32](StructBytes(*storage))
		if !ok || len(dst) < n {
			return d
		}
		if !codec.SimpleF32Decompress(dst[:n], d.Bytes) {
			return d
		}
		return DataRef{
			Bytes:        StructBytes(dst[:n]),
			CompressInfo: CompressNone,
			Shape:        d.Shape,
			TypeInfo:     d.TypeInfo,
		}
	default:
		return d
	}
}

func growU64(storage []uint64, nElements int) []uint64 {
	need := nElements/2 + 1
	if cap(storage) < need {
		storage = make([]uint64, need)
	} else {
		storage = storage[:need]
		for i := range storage {
			storage[i] = 0
		}
	}
	return storage
}
