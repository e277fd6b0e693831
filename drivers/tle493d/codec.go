package tle493d

// Sample is one pair of signed 14-bit field components.
type Sample struct {
	X int16
	Y int16
}

// DecodeAxis reconstructs X and Y from a Bx/By burst.
//
// Each axis is the high byte followed by the low six bits of the next byte,
// packed into the top of an int16 and arithmetic-shifted back by two so the
// 14-bit two's-complement sign is extended. Bytes missing from a short
// payload read as zero; bytes past the fourth are ignored.
func DecodeAxis(payload []byte) Sample {
	var b [dataSize]byte
	copy(b[:], payload)
	return Sample{
		X: decode14(b[0], b[1]),
		Y: decode14(b[2], b[3]),
	}
}

func decode14(hi, lo byte) int16 {
	return int16(uint16(hi)<<8|uint16(lo&0x3F)<<2) >> 2
}

// EncodeAxis is the inverse of the per-axis decode for v in [-8192, 8191].
// Bits above 14 are discarded.
func EncodeAxis(v int16) (hi, lo byte) {
	u := uint16(v) << 2
	return byte(u >> 8), byte(u) >> 2
}

// EncodeSample packs s into the 4-byte burst layout.
func EncodeSample(s Sample) [4]byte {
	var b [4]byte
	b[0], b[1] = EncodeAxis(s.X)
	b[2], b[3] = EncodeAxis(s.Y)
	return b
}
