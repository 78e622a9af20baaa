package box

// widthCode maps a 2-bit selector (as used by tfra, §4.7) to a byte width.
func widthCode(code uint8) int {
	switch code & 0b11 {
	case 0:
		return 1
	case 1:
		return 2
	case 2:
		return 3
	default:
		return 4
	}
}

// widthCodeFor returns the narrowest 2-bit width code able to represent
// every value in vs.
func widthCodeFor(vs []uint32) uint8 {
	var max uint32
	for _, v := range vs {
		if v > max {
			max = v
		}
	}
	switch {
	case max <= 0xFF:
		return 0
	case max <= 0xFFFF:
		return 1
	case max <= 0xFFFFFF:
		return 2
	default:
		return 3
	}
}

// readVarWidth reads a value encoded at the given byte width (1-4).
func readVarWidth(c *Cursor, width int) (uint32, error) {
	switch width {
	case 1:
		v, err := c.U8()
		return uint32(v), err
	case 2:
		v, err := c.U16()
		return uint32(v), err
	case 3:
		return c.U24()
	default:
		return c.U32()
	}
}

// writeVarWidth writes v at the given byte width (1-4), truncating to it;
// callers must have already selected a width wide enough for v.
func writeVarWidth(s *Sink, v uint32, width int) {
	switch width {
	case 1:
		s.WriteU8(uint8(v))
	case 2:
		s.WriteU16(uint16(v))
	case 3:
		s.WriteU24(v)
	default:
		s.WriteU32(v)
	}
}

// sampleSizeFieldBits selects stz2's packed field width (§4.7): 16 if any
// value exceeds 255, 8 if any value is at least 16, else 4.
func sampleSizeFieldBits(sizes []uint16) uint8 {
	var max uint16
	for _, v := range sizes {
		if v > max {
			max = v
		}
	}
	switch {
	case max > 255:
		return 16
	case max >= 16:
		return 8
	default:
		return 4
	}
}

// packNibbles packs sizes two-per-byte, most-significant nibble first,
// zero-padding a trailing odd entry's low nibble.
func packNibbles(sizes []uint16) []byte {
	out := make([]byte, (len(sizes)+1)/2)
	for i, v := range sizes {
		nib := byte(v & 0x0F)
		if i%2 == 0 {
			out[i/2] |= nib << 4
		} else {
			out[i/2] |= nib
		}
	}
	return out
}

// unpackNibbles reverses packNibbles for exactly count entries.
func unpackNibbles(data []byte, count int) []uint16 {
	out := make([]uint16, count)
	for i := 0; i < count; i++ {
		b := data[i/2]
		if i%2 == 0 {
			out[i] = uint16(b >> 4)
		} else {
			out[i] = uint16(b & 0x0F)
		}
	}
	return out
}
