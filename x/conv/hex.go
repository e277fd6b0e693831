package conv

const hexd = "0123456789ABCDEF"

// U32Hex writes 8-digit uppercase hex without 0x, zero-padded.
func U32Hex(buf []byte, n uint32) []byte {
	if len(buf) < 8 {
		return buf[:0]
	}
	i := len(buf)
	for j := 0; j < 8; j++ {
		i--
		buf[i] = hexd[n&0xF]
		n >>= 4
	}
	return buf[i:]
}

// U8Hex writes a bus-address style "0xNN" (uppercase digits) into buf.
// buf must be at least 4 bytes long.
func U8Hex(buf []byte, n uint8) []byte {
	if len(buf) < 4 {
		return buf[:0]
	}
	i := len(buf) - 4
	buf[i] = '0'
	buf[i+1] = 'x'
	buf[i+2] = hexd[n>>4]
	buf[i+3] = hexd[n&0xF]
	return buf[i:]
}
