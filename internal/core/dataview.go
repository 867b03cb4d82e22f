package core

import "unsafe"

// Primitive lists the Go types that may back a table's raw storage.
type Primitive interface {
	~uint8 | ~int8 | ~uint16 | ~int16 | ~uint32 | ~int32 | ~uint64 | ~int64 | ~float32 | ~float64
}

// AsSlice reinterprets bytes as a slice of T without copying. It returns
// false if bytes is misaligned for T or its length isn't a whole number
// of T values.
//
//nolint:gosec // G103: unsafe.Pointer required to reinterpret raw table storage
func AsSlice[T Primitive](bytes []byte) ([]T, bool) {
	var zero T
	size := unsafe.Sizeof(zero)
	if len(bytes) == 0 {
		return nil, true
	}
	if uintptr(unsafe.Pointer(&bytes[0]))%unsafe.Alignof(zero) != 0 {
		return nil, false
	}
	if len(bytes)%int(size) != 0 {
		return nil, false
	}
	n := len(bytes) / int(size)
	return unsafe.Slice((*T)(unsafe.Pointer(&bytes[0])), n), true
}

// Bytes reinterprets a slice of T as its raw bytes without copying.
//
//nolint:gosec // G103: unsafe.Pointer required to expose raw table storage
func Bytes[T Primitive](values []T) []byte {
	if len(values) == 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	return unsafe.Slice((*byte)(unsafe.Pointer(&values[0])), uintptr(len(values))*size)
}

// StructBytes reinterprets a slice of fixed-layout structs (TableDesc,
// LookupEntry, DatasetHeader, UdfHeader, ...) as raw bytes without
// copying. Used to serialize on-disk records directly from their Go struct
// representation.
//
//nolint:gosec // G103: unsafe.Pointer required to serialize fixed-layout records
func StructBytes[T any](values []T) []byte {
	if len(values) == 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	return unsafe.Slice((*byte)(unsafe.Pointer(&values[0])), uintptr(len(values))*size)
}

// StructSlice reinterprets bytes as a slice of n fixed-layout structs
// without copying. Returns false if there aren't enough bytes to hold n
// values of T.
//
//nolint:gosec // G103: unsafe.Pointer required to parse fixed-layout records
func StructSlice[T any](bytes []byte, n int) ([]T, bool) {
	var zero T
	size := unsafe.Sizeof(zero)
	need := uintptr(n) * size
	if uintptr(len(bytes)) < need {
		return nil, false
	}
	if n == 0 {
		return nil, true
	}
	return unsafe.Slice((*T)(unsafe.Pointer(&bytes[0])), n), true
}
