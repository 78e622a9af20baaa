package box

func init() { register(kindStz2, func() Atom { return &Stz2{} }) }

var kindStz2 = NewFourCC("stz2")

// Stz2 is the CompactSampleSizeBox (ISO/IEC 14496-12 §8.7.3.3): a packed
// alternative to Stsz for tracks whose sample sizes all fit in 4, 8, or 16
// bits, chosen automatically on encode from the widest value present.
type Stz2 struct {
	EntrySizes []uint16
}

func (*Stz2) AtomKind() FourCC { return kindStz2 }

func (a *Stz2) DecodeBody(c *Cursor) error {
	ext, err := decodeExtPrefix(c)
	if err != nil {
		return err
	}
	if err := checkVersion(ext.Version, 0); err != nil {
		return err
	}
	if _, err := c.U24(); err != nil { // reserved
		return err
	}
	fieldSize, err := c.U8()
	if err != nil {
		return err
	}
	sampleCount, err := c.U32()
	if err != nil {
		return err
	}
	var sizes []uint16
	switch fieldSize {
	case 4:
		packed, err := c.Bytes(int((sampleCount + 1) / 2))
		if err != nil {
			return err
		}
		sizes = unpackNibbles(packed, int(sampleCount))
	case 8:
		sizes = make([]uint16, 0, sampleCount)
		for i := uint32(0); i < sampleCount; i++ {
			v, err := c.U8()
			if err != nil {
				return err
			}
			sizes = append(sizes, uint16(v))
		}
	case 16:
		sizes = make([]uint16, 0, sampleCount)
		for i := uint32(0); i < sampleCount; i++ {
			v, err := c.U16()
			if err != nil {
				return err
			}
			sizes = append(sizes, v)
		}
	default:
		return errMsg(ErrInvalidData, "stz2 field_size must be 4, 8, or 16")
	}
	a.EntrySizes = sizes
	return nil
}

func (a *Stz2) EncodeBody(s *Sink) error {
	encodeExtPrefix(s, ExtPrefix{})
	s.WriteU24(0) // reserved
	fieldSize := sampleSizeFieldBits(a.EntrySizes)
	s.WriteU8(fieldSize)
	if len(a.EntrySizes) > maxUint32 {
		return errMsg(ErrTooLarge, "stz2 sample count exceeds 32 bits")
	}
	s.WriteU32(uint32(len(a.EntrySizes)))
	switch fieldSize {
	case 16:
		for _, v := range a.EntrySizes {
			s.WriteU16(v)
		}
	case 8:
		for _, v := range a.EntrySizes {
			s.WriteU8(uint8(v))
		}
	default:
		s.WriteBytes(packNibbles(a.EntrySizes))
	}
	return nil
}
