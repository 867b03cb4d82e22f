// Package codec implements the bespoke compression schemes used to pack
// 32-bit table storage: a delta/run-length/lookup-index byte stream
// (SimpleU32) and a quantized variant for floating point data (SimpleF32).
package codec

const (
	opDelta1 byte = 0b00_000000 // delta of -32..32 (1 byte)
	opDelta2 byte = 0b01_000000 // delta of -8192..8192 (2 byte)
	opIndex  byte = 0b10_000000 // 6-bit index (1 byte)
	opDelta3 byte = 0b1100_0000 // delta of -524288..524288 (3 byte)
	opDelta4 byte = 0b1101_0000 // delta of -134217728..134217728 (4 byte)
	opRepeat byte = 0b1110_0000 // repeat last value up to 16 times (1 byte)
	opValues byte = 0b1111_0000 // copy uncompressed values up to 16 (1+4n byte)

	opDelta1Bits = 6
	opDelta2Bits = 6 + 8
	opDelta3Bits = 4 + 8 + 8
	opDelta4Bits = 4 + 8 + 8 + 8

	opRepeatMax = 16
	opValuesMax = 16
)

var (
	opDelta1Val = int32(1<<opDelta1Bits) / 2
	opDelta2Val = int32(1<<opDelta2Bits) / 2
	opDelta3Val = int32(1<<opDelta3Bits) / 2
	opDelta4Val = int32(1<<opDelta4Bits) / 2
)

// hash32 is Bob Jenkins' 32-bit integer mix, used to pick a slot in the
// 64-entry lookup table shared by encoder and decoder.
// https://burtleburtle.net/bob/hash/integer.html
func hash32(a uint32) uint32 {
	a = (a ^ 61) ^ (a >> 16)
	a = a + (a << 3)
	a = a ^ (a >> 4)
	a = a * 0x27d4eb2d
	a = a ^ (a >> 15)
	return a
}

func signExtend32(v uint32, bits uint) int32 {
	mask := uint32(1)<<bits - 1
	if v&(1<<(bits-1)) == 0 {
		return int32(v & mask)
	}
	return int32(v | ^mask)
}

// SimpleU32Compress encodes data using the delta/index/repeat/raw opcode
// stream and appends the result to buf.
func SimpleU32Compress(buf []byte, data []uint32) []byte {
	return simpleU32CompressValues(buf, data)
}

// simpleU32CompressValues implements the opcode stream shared by
// SimpleU32Compress and SimpleF32Compress (which quantizes floats to u32
// before calling this).
func simpleU32CompressValues(buf []byte, data []uint32) []byte {
	var lastv uint32
	run := 0
	unc := 0
	var lookup [64]uint32

	for _, v := range data {
		if v == lastv {
			run++
			if run == opRepeatMax {
				buf = append(buf, opRepeat|byte(run-1))
				run = 0
				unc = 0
			}
		} else {
			if run > 0 {
				buf = append(buf, opRepeat|byte(run-1))
				run = 0
				unc = 0

				lastv++
				if v == lastv {
					run = 1
					lastv = v
					continue
				}
			}

			index := hash32(v) % uint32(len(lookup))
			if lookup[index] == v {
				buf = append(buf, opIndex|byte(index))
				unc = 0
			} else {
				lookup[index] = v

				dv := int32(v - lastv)
				if dv > 0 {
					dv--
				}

				switch {
				case dv >= -opDelta1Val && dv < opDelta1Val:
					buf = append(buf, opDelta1|byte(dv&0b00_111111))
					unc = 0
				case dv >= -opDelta2Val && dv < opDelta2Val:
					buf = append(buf,
						opDelta2|byte((dv>>8)&0b00_111111),
						byte(dv&0xff),
					)
					unc = 0
				case dv >= -opDelta3Val && dv < opDelta3Val:
					buf = append(buf,
						opDelta3|byte((dv>>16)&0b0000_1111),
						byte((dv>>8)&0xff),
						byte(dv&0xff),
					)
				case dv >= -opDelta4Val && dv < opDelta4Val:
					buf = append(buf,
						opDelta4|byte((dv>>24)&0b0000_1111),
						byte((dv>>16)&0xff),
						byte((dv>>8)&0xff),
						byte(dv&0xff),
					)
				default:
					// unc is reset to 0 on every VALUES emission and is never
					// incremented, so the run-extension branch below never
					// actually triggers; ported as-is to match the reference
					// encoder's output byte-for-byte (each uncompressed value
					// gets its own single-value VALUES opcode).
					if unc == 0 || unc == opValuesMax {
						buf = append(buf, opValues)
						unc = 0
					} else {
						pos := len(buf) - (1 + unc*4)
						buf[pos]++
					}
					buf = append(buf,
						byte(v),
						byte(v>>8),
						byte(v>>16),
						byte(v>>24),
					)
				}
			}
		}

		lastv = v
	}

	if run > 0 {
		buf = append(buf, opRepeat|byte(run-1))
	}

	return buf
}

// SimpleU32Decompress decodes stream into storage, which must already have
// the exact expected element count. It returns false if the stream is
// truncated, malformed, or produces fewer or more values than len(storage).
func SimpleU32Decompress(storage []uint32, stream []byte) bool {
	return simpleU32DecompressValues(storage, stream)
}

// simpleU32DecompressValues implements the opcode stream shared by
// SimpleU32Decompress and SimpleF32Decompress (which reads the stream
// following the 4-byte unit prelude).
func simpleU32DecompressValues(storage []uint32, stream []byte) bool {
	var lastv uint32
	var lookup [64]uint32

	i := 0
	k := 0
	for i < len(stream) {
		b := stream[i]
		i++

		switch {
		case b&0b11_000000 == opDelta1, b&0b11_000000 == opDelta2, b&0b11_000000 == opIndex:
			if b&0b11_000000 == opIndex {
				index := int(b & 0b00_111111)
				v := lookup[index]
				if k >= len(storage) {
					return false
				}
				storage[k] = v
				k++
				lastv = v
				continue
			}

			var dv int32
			if b&0b11_000000 == opDelta1 {
				dv = signExtend32(uint32(b&0b00_111111), opDelta1Bits)
			} else {
				if i >= len(stream) {
					return false
				}
				b2 := stream[i]
				i++
				dv = signExtend32(uint32(b&0b00_111111)<<8|uint32(b2), opDelta2Bits)
			}
			if dv >= 0 {
				dv++
			}
			v := lastv + uint32(dv)
			if k >= len(storage) {
				return false
			}
			storage[k] = v
			k++
			lastv = v
			lookup[hash32(lastv)%uint32(len(lookup))] = lastv

		case b&0b1111_0000 == opDelta3:
			if i+1 >= len(stream) {
				return false
			}
			b2, b3 := stream[i], stream[i+1]
			i += 2
			dv := signExtend32(uint32(b&0b0000_1111)<<16|uint32(b2)<<8|uint32(b3), opDelta3Bits)
			if dv >= 0 {
				dv++
			}
			v := lastv + uint32(dv)
			if k >= len(storage) {
				return false
			}
			storage[k] = v
			k++
			lastv = v
			lookup[hash32(lastv)%uint32(len(lookup))] = lastv

		case b&0b1111_0000 == opDelta4:
			if i+2 >= len(stream) {
				return false
			}
			b2, b3, b4 := stream[i], stream[i+1], stream[i+2]
			i += 3
			dv := signExtend32(uint32(b&0b0000_1111)<<24|uint32(b2)<<16|uint32(b3)<<8|uint32(b4), opDelta4Bits)
			if dv >= 0 {
				dv++
			}
			v := lastv + uint32(dv)
			if k >= len(storage) {
				return false
			}
			storage[k] = v
			k++
			lastv = v
			lookup[hash32(lastv)%uint32(len(lookup))] = lastv

		case b&0b1111_0000 == opRepeat:
			count := int(b&0b0000_1111) + 1
			if count > len(storage)-k {
				return false
			}
			for j := 0; j < count; j++ {
				storage[k] = lastv
				k++
			}
			if count != opRepeatMax {
				lastv++
			}

		case b&0b1111_0000 == opValues:
			count := int(b&0b0000_1111) + 1
			for j := 0; j < count; j++ {
				if len(stream)-i < 4 {
					return false
				}
				v := uint32(stream[i]) | uint32(stream[i+1])<<8 | uint32(stream[i+2])<<16 | uint32(stream[i+3])<<24
				i += 4
				if k >= len(storage) {
					return false
				}
				storage[k] = v
				k++
				lastv = v
				lookup[hash32(lastv)%uint32(len(lookup))] = lastv
			}

		default:
			return false
		}
	}

	return k == len(storage)
}
