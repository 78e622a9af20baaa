package box

import "io"

// Header is the (kind, size) pair at the front of every box. Size is nil
// when the box's payload runs to the end of its enclosing envelope (the
// size-field-0 case).
type Header struct {
	Kind FourCC
	Size *uint64 // payload bytes, not counting the header itself
}

// headerLen returns how many bytes this header itself occupies on the
// wire: 8 normally, 16 when the 64-bit extended size form was used.
func (h Header) headerLen(extended bool) int {
	if extended {
		return 16
	}
	return 8
}

// decodeHeader reads a header from c, leaving c positioned at the start
// of the body. It does not know the enclosing envelope size; callers that
// need size-field-0 resolved to a concrete length must do so themselves
// using the bytes remaining in their own envelope.
func decodeHeader(c *Cursor) (Header, error) {
	size32, err := c.U32()
	if err != nil {
		return Header{}, err
	}
	kind, err := c.FourCC()
	if err != nil {
		return Header{}, err
	}
	switch size32 {
	case 0:
		return Header{Kind: kind, Size: nil}, nil
	case 1:
		ext, err := c.U64()
		if err != nil {
			return Header{}, err
		}
		if ext < 16 {
			return Header{}, newErr(ErrInvalidSize)
		}
		sz := ext - 16
		return Header{Kind: kind, Size: &sz}, nil
	default:
		if size32 < 8 {
			return Header{}, newErr(ErrInvalidSize)
		}
		sz := uint64(size32 - 8)
		return Header{Kind: kind, Size: &sz}, nil
	}
}

// readHeaderFrom reads a header from a stream, per the read_from driver's
// minimum-header-then-maybe-extend rule. ok is false only on a clean EOF
// before any byte of the header was read.
func readHeaderFrom(r io.Reader) (h Header, ok bool, err error) {
	var buf [8]byte
	n, err := io.ReadFull(r, buf[:])
	if err != nil {
		if n == 0 && err == io.EOF {
			return Header{}, false, nil
		}
		return Header{}, false, newErr(ErrShortRead)
	}
	c := NewCursor(buf[:])
	size32, _ := c.U32()
	kind, _ := c.FourCC()
	switch size32 {
	case 0:
		return Header{Kind: kind, Size: nil}, true, nil
	case 1:
		var extBuf [8]byte
		if _, err := io.ReadFull(r, extBuf[:]); err != nil {
			return Header{}, false, newErr(ErrShortRead)
		}
		ext := NewCursor(extBuf[:])
		v, _ := ext.U64()
		if v < 16 {
			return Header{}, false, newErr(ErrInvalidSize)
		}
		sz := v - 16
		return Header{Kind: kind, Size: &sz}, true, nil
	default:
		if size32 < 8 {
			return Header{}, false, newErr(ErrInvalidSize)
		}
		sz := uint64(size32 - 8)
		return Header{Kind: kind, Size: &sz}, true, nil
	}
}

// encodeHeaderPlaceholder writes a zero-size placeholder header (kind
// known, size not yet known) and returns the sink offset the real size
// word must later be backfilled into.
func encodeHeaderPlaceholder(s *Sink, kind FourCC) int {
	pos := s.Len()
	s.WriteU32(0)
	s.WriteFourCC(kind)
	return pos
}

// backfillSize overwrites the placeholder at pos with the final size,
// upgrading to the 64-bit extended form automatically when the total atom
// size would not fit in 32 bits (see SPEC_FULL.md's Open Question on the
// 4 GiB escape hatch).
func backfillSize(s *Sink, pos int, kind FourCC) error {
	total := uint64(s.Len() - pos)
	if total <= 0xFFFFFFFF {
		var b [4]byte
		b[0], b[1], b[2], b[3] = byte(total>>24), byte(total>>16), byte(total>>8), byte(total)
		return s.SetSlice(pos, b[:])
	}
	// Need the extended form: splice an 8-byte extended size in after the
	// FourCC and set the leading size field to 1. Since the placeholder
	// only reserved 4 bytes for size, make room by rebuilding the tail.
	tail := append([]byte(nil), s.buf[pos+8:]...)
	s.buf = s.buf[:pos+8]
	var one [4]byte
	one[3] = 1
	if err := s.SetSlice(pos, one[:]); err != nil {
		return err
	}
	extTotal := total + 8 // account for the 8 extra bytes about to be inserted
	s.WriteU64(extTotal)
	s.WriteBytes(tail)
	return nil
}

const maxUint32 = 0xFFFFFFFF
