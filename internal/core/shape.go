package core

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/scigolib/udf/internal/utils"
)

// Shape is the multidimensional extent of a table's data, up to three
// axes. The on-disk encoding reserves 32 bits for the first axis, 24 bits
// for the second, and 8 bits for the third; every axis of the shape's
// dimensionality counts toward Len.
type Shape struct {
	X, Y uint32
	Z    uint8
	dim  int // 0=scalar, 1, 2, 3
}

// ScalarShape is the shape of a single value.
var ScalarShape = Shape{dim: 0}

// Shape1D returns a 1-dimensional shape of length x.
func Shape1D(x uint32) Shape { return Shape{X: x, dim: 1} }

// Shape2D returns a 2-dimensional shape.
func Shape2D(x, y uint32) Shape { return Shape{X: x, Y: y & 0xffffff, dim: 2} }

// Shape3D returns a 3-dimensional shape.
func Shape3D(x, y uint32, z uint8) Shape { return Shape{X: x, Y: y & 0xffffff, Z: z, dim: 3} }

// FromTypeInfo decodes a Shape strictly according to the dimension bits of
// type_info, ignoring whether the trailing axes happen to be zero.
func FromTypeInfo(typeInfo uint16, shape [2]uint32) Shape {
	switch typeInfo & TypeDimMask {
	case TypeDimScalar:
		return ScalarShape
	case TypeDim1D:
		return Shape1D(shape[0])
	case TypeDim2D:
		return Shape2D(shape[0], shape[1])
	case TypeDim3D:
		return Shape3D(shape[0], shape[1]&0xffffff, uint8(shape[1]>>24))
	default:
		return ScalarShape
	}
}

// FromShape decodes a Shape by inferring the smallest dimensionality that
// fits the packed words, collapsing trailing zero axes below type_info's
// declared dimension.
func FromShape(typeInfo uint16, shape [2]uint32) Shape {
	typeDims := typeInfo & TypeDimMask
	x := shape[0]
	y := shape[1] & 0xffffff
	z := uint8(shape[1] >> 24)
	if z == 0 && typeDims < TypeDim3D {
		if y == 0 && typeDims < TypeDim2D {
			if x == 0 && typeDims < TypeDim1D {
				return ScalarShape
			}
			return Shape1D(x)
		}
		return Shape2D(x, y)
	}
	return Shape3D(x, y, z)
}

// Len returns the total number of elements described by the shape.
func (s Shape) Len() uint64 {
	switch s.dim {
	case 0:
		return 1
	case 1:
		return uint64(s.X)
	case 2:
		return uint64(s.X) * uint64(s.Y)
	default:
		return uint64(s.X) * uint64(s.Y) * uint64(s.Z)
	}
}

// LenChecked is like Len but rejects implausibly large element counts with
// ErrOverflow. Guards the element count the same way dataset storage bounds
// are guarded, since a corrupt DataShape can otherwise overflow downstream
// size arithmetic.
func (s Shape) LenChecked() (uint64, error) {
	x, y, z := uint64(s.X), uint64(1), uint64(1)
	switch s.dim {
	case 0:
		return 1, nil
	case 2:
		y = uint64(s.Y)
	case 3:
		y = uint64(s.Y)
		z = uint64(s.Z)
	}

	total, err := utils.CalculateShapeElements(x, y, z)
	if err != nil {
		return 0, fmt.Errorf("shape %s: %v: %w", s, err, ErrOverflow)
	}
	return total, nil
}

// Flatten reshapes the shape as a 1D array of the same length.
func (s Shape) Flatten() Shape {
	return Shape1D(uint32(s.Len()))
}

// Encode packs the shape into the on-disk type_info dimension bits and the
// data_shape words.
func (s Shape) Encode() (uint16, [2]uint32) {
	switch s.dim {
	case 0:
		return TypeDimScalar, [2]uint32{0, 0}
	case 1:
		return TypeDim1D, [2]uint32{s.X, 0}
	case 2:
		return TypeDim2D, [2]uint32{s.X, s.Y & 0xffffff}
	default:
		return TypeDim3D, [2]uint32{s.X, (s.Y & 0xffffff) | uint32(s.Z)<<24}
	}
}

func (s Shape) String() string {
	switch s.dim {
	case 0:
		return "scalar"
	case 1:
		return strconv.FormatUint(uint64(s.X), 10)
	case 2:
		return fmt.Sprintf("%dx%d", s.X, s.Y)
	default:
		return fmt.Sprintf("%dx%dx%d", s.X, s.Y, s.Z)
	}
}

// ParseShape parses a shape from its string form: "scalar", "x", "xxy" or
// "xxyxz", as produced by Shape.String.
func ParseShape(str string) (Shape, error) {
	if str == "scalar" {
		return ScalarShape, nil
	}
	parts := strings.Split(str, "x")
	if len(parts) > 3 {
		return Shape{}, fmt.Errorf("invalid shape %q: %w", str, ErrInvalidFormat)
	}
	x, err := strconv.ParseUint(parts[0], 10, 32)
	if err != nil {
		return Shape{}, fmt.Errorf("invalid shape %q: %v: %w", str, err, ErrInvalidFormat)
	}
	if len(parts) == 1 {
		return Shape1D(uint32(x)), nil
	}
	y, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil {
		return Shape{}, fmt.Errorf("invalid shape %q: %v: %w", str, err, ErrInvalidFormat)
	}
	if y >= 1<<24 {
		return Shape{}, fmt.Errorf("invalid shape %q: second axis overflows 24 bits: %w", str, ErrOverflow)
	}
	if len(parts) == 2 {
		return Shape2D(uint32(x), uint32(y)), nil
	}
	z, err := strconv.ParseUint(parts[2], 10, 32)
	if err != nil {
		return Shape{}, fmt.Errorf("invalid shape %q: %v: %w", str, err, ErrInvalidFormat)
	}
	if z >= 1<<8 {
		return Shape{}, fmt.Errorf("invalid shape %q: third axis overflows 8 bits: %w", str, ErrOverflow)
	}
	return Shape3D(uint32(x), uint32(y), uint8(z)), nil
}
