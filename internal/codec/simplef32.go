package codec

import "math"

// SimpleF32Compress quantizes data to integer multiples of unit and encodes
// the result with the SimpleU32 opcode stream, prefixed by a 4-byte
// little-endian unit value so the decoder can recover the scale.
func SimpleF32Compress(buf []byte, data []float32, unit float32) []byte {
	bits := math.Float32bits(unit)
	buf = append(buf, byte(bits), byte(bits>>8), byte(bits>>16), byte(bits>>24))

	invUnit := 1.0 / unit
	quantized := make([]uint32, len(data))
	for i, x := range data {
		q := int32(roundFloat32(x * invUnit))
		quantized[i] = uint32(q)
	}

	return simpleU32CompressValues(buf, quantized)
}

// SimpleF32Decompress decodes stream into storage, dequantizing each value
// as int32(q) * unit. It returns false if the stream is too short to hold
// the unit prelude, or is truncated, malformed, or produces the wrong
// number of values.
func SimpleF32Decompress(storage []float32, stream []byte) bool {
	if len(stream) < 4 {
		return false
	}
	bits := uint32(stream[0]) | uint32(stream[1])<<8 | uint32(stream[2])<<16 | uint32(stream[3])<<24
	unit := math.Float32frombits(bits)

	quantized := make([]uint32, len(storage))
	if !simpleU32DecompressValues(quantized, stream[4:]) {
		return false
	}
	for i, q := range quantized {
		storage[i] = float32(int32(q)) * unit
	}
	return true
}

// roundFloat32 rounds to the nearest integer, halfway cases away from
// zero, matching Rust's f32::round.
func roundFloat32(x float32) float32 {
	return float32(math.Round(float64(x)))
}
