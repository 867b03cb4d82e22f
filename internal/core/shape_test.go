package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShape_Len(t *testing.T) {
	assert.Equal(t, uint64(1), ScalarShape.Len())
	assert.Equal(t, uint64(10), Shape1D(10).Len())
	assert.Equal(t, uint64(6), Shape2D(2, 3).Len())
	assert.Equal(t, uint64(24), Shape3D(2, 3, 4).Len())
}

func TestShape_EncodeRoundTrip(t *testing.T) {
	cases := []Shape{
		ScalarShape,
		Shape1D(42),
		Shape2D(4, 5),
		Shape3D(4, 5, 6),
	}
	for _, s := range cases {
		dim, shape := s.Encode()
		got := FromTypeInfo(dim, shape)
		assert.Equal(t, s, got)
	}
}

func TestShape_FromShape_InfersDimensionality(t *testing.T) {
	got := FromShape(TypeDimScalar, [2]uint32{5, 0})
	assert.Equal(t, Shape1D(5), got)

	got = FromShape(TypeDimScalar, [2]uint32{0, 0})
	assert.Equal(t, ScalarShape, got)

	got = FromShape(TypeDimScalar, [2]uint32{4, 3})
	assert.Equal(t, Shape2D(4, 3), got)
}

func TestShape_Flatten(t *testing.T) {
	assert.Equal(t, Shape1D(24), Shape3D(2, 3, 4).Flatten())
}

func TestShape_String(t *testing.T) {
	assert.Equal(t, "scalar", ScalarShape.String())
	assert.Equal(t, "10", Shape1D(10).String())
	assert.Equal(t, "2x3", Shape2D(2, 3).String())
	assert.Equal(t, "2x3x4", Shape3D(2, 3, 4).String())
}

func TestParseShape(t *testing.T) {
	s, err := ParseShape("scalar")
	require.NoError(t, err)
	assert.Equal(t, ScalarShape, s)

	s, err = ParseShape("10")
	require.NoError(t, err)
	assert.Equal(t, Shape1D(10), s)

	s, err = ParseShape("2x3")
	require.NoError(t, err)
	assert.Equal(t, Shape2D(2, 3), s)

	s, err = ParseShape("2x3x4")
	require.NoError(t, err)
	assert.Equal(t, Shape3D(2, 3, 4), s)
}

func TestParseShape_Invalid(t *testing.T) {
	_, err := ParseShape("2x3x4x5")
	assert.Error(t, err)

	_, err = ParseShape("nope")
	assert.Error(t, err)

	_, err = ParseShape("2xnope")
	assert.Error(t, err)

	_, err = ParseShape("2x16777216")
	assert.Error(t, err)

	_, err = ParseShape("2x3x256")
	assert.Error(t, err)
}

func TestShape_LenChecked(t *testing.T) {
	n, err := Shape3D(2, 3, 4).LenChecked()
	require.NoError(t, err)
	assert.Equal(t, uint64(24), n)

	n, err = ScalarShape.LenChecked()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), n)
}

func TestShape_LenChecked_RejectsImplausiblyLargeShape(t *testing.T) {
	huge := Shape3D(0xffffffff, 0xffffff, 0xff)
	_, err := huge.LenChecked()
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestShape_StringParseRoundTrip(t *testing.T) {
	cases := []Shape{ScalarShape, Shape1D(7), Shape2D(3, 9), Shape3D(1, 2, 3)}
	for _, s := range cases {
		got, err := ParseShape(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
}
