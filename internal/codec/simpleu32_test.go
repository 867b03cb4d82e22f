package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roundTripU32(t *testing.T, data []uint32) []byte {
	t.Helper()
	stream := SimpleU32Compress(nil, data)
	out := make([]uint32, len(data))
	require.True(t, SimpleU32Decompress(out, stream), "decompress failed for %v", data)
	assert.Equal(t, data, out)
	return stream
}

func TestSimpleU32_Regressions(t *testing.T) {
	cases := map[string][]uint32{
		"rle-into-short-rle":      {0, 1},
		"uncompressed-values-run": {16209, 59, 3994, 59},
		"short-sequence":          {45, 11},
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			roundTripU32(t, data)
		})
	}
}

func TestSimpleU32_Empty(t *testing.T) {
	stream := SimpleU32Compress(nil, nil)
	assert.Empty(t, stream)
	var out []uint32
	assert.True(t, SimpleU32Decompress(out, stream))
}

func TestSimpleU32_Delta1(t *testing.T) {
	// Small deltas (within -32..32) should round-trip using a single opcode
	// byte each. The encoder starts from lastv = 0, so the first value must
	// also lie within that range.
	data := []uint32{10, 15, 12, 40, 9}
	stream := roundTripU32(t, data)
	assert.Len(t, stream, len(data))
	for _, b := range stream {
		assert.Equal(t, byte(0), b&0b11_000000)
	}
}

func TestSimpleU32_Delta2(t *testing.T) {
	data := []uint32{1000, 9000, 500, 12000}
	roundTripU32(t, data)
}

func TestSimpleU32_Delta3(t *testing.T) {
	data := []uint32{0, 400000, 100, 450000}
	roundTripU32(t, data)
}

func TestSimpleU32_Delta4(t *testing.T) {
	data := []uint32{0, 100_000_000, 5, 120_000_000}
	roundTripU32(t, data)
}

func TestSimpleU32_RepeatRun(t *testing.T) {
	data := make([]uint32, 40)
	for i := range data {
		data[i] = 7
	}
	stream := roundTripU32(t, data)
	// 40 repeats of the same value compresses to far fewer than 40 bytes.
	assert.Less(t, len(stream), len(data))
}

func TestSimpleU32_RepeatMaxBoundary(t *testing.T) {
	// The first 42 is coded as a delta; the 16 copies that follow fill
	// exactly one OP_REPEAT_MAX run, which does not advance lastv.
	data := make([]uint32, 17)
	for i := range data {
		data[i] = 42
	}
	roundTripU32(t, data)
}

func TestSimpleU32_IncrementingRun(t *testing.T) {
	// A run of consecutive repeats followed by a non-max repeat advances
	// lastv by 1, letting an incrementing sequence fold into the run.
	data := []uint32{5, 5, 5, 6, 6, 7}
	roundTripU32(t, data)
}

func TestSimpleU32_LookupIndex(t *testing.T) {
	data := []uint32{123456, 7, 654321, 123456, 999, 123456}
	roundTripU32(t, data)
}

func TestSimpleU32_ValuesFallback(t *testing.T) {
	// Large, unrelated values that won't hit delta, repeat, or index paths.
	data := []uint32{0xFFFFFFFF, 0x00000001, 0x80000000, 0x7FFFFFFF}
	roundTripU32(t, data)
}

func TestSimpleU32_Decompress_TruncatedStream(t *testing.T) {
	stream := []byte{opDelta2} // missing second byte
	out := make([]uint32, 1)
	assert.False(t, SimpleU32Decompress(out, stream))
}

func TestSimpleU32_Decompress_WrongLength(t *testing.T) {
	stream := SimpleU32Compress(nil, []uint32{1, 2, 3})
	out := make([]uint32, 2)
	assert.False(t, SimpleU32Decompress(out, stream))
}

func TestHash32_Deterministic(t *testing.T) {
	assert.Equal(t, hash32(42), hash32(42))
	assert.NotEqual(t, hash32(42), hash32(43))
}

func TestSignExtend32(t *testing.T) {
	assert.Equal(t, int32(-1), signExtend32(0b111111, 6))
	assert.Equal(t, int32(31), signExtend32(0b011111, 6))
	assert.Equal(t, int32(-32), signExtend32(0b100000, 6))
}
