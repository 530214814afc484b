package steg

// BytesToBits expands data into bits, eight per byte, most significant first.
func BytesToBits(data []byte) []bool {
	out := make([]bool, len(data)*8)
	for i, b := range data {
		for j := 0; j < 8; j++ {
			out[i*8+j] = b&(0x80>>j) != 0
		}
	}
	return out
}

// BitsToBytes packs bits into bytes, most significant first. A trailing
// group shorter than eight bits is dropped.
func BitsToBytes(bits []bool) []byte {
	out := make([]byte, len(bits)/8)
	for i := range out {
		var b byte
		for j, bit := range bits[i*8 : i*8+8] {
			if bit {
				b |= 0x80 >> j
			}
		}
		out[i] = b
	}
	return out
}
