package box

func init() { register(kindTfra, func() Atom { return &Tfra{} }) }

var kindTfra = NewFourCC("tfra")

// FragmentInfo is one random-access point recorded by a Tfra table.
type FragmentInfo struct {
	Time         uint64
	MoofOffset   uint64
	TrafNumber   uint32
	TrunNumber   uint32
	SampleDelta  uint32
}

// Tfra is the TrackFragmentRandomAccessBox (ISO/IEC 14496-12 §8.8.10): a
// per-track index of random-access points, found in a movie fragment random
// access box (mfra) at the end of a fragmented file.
type Tfra struct {
	TrackID uint32
	Entries []FragmentInfo
}

func (*Tfra) AtomKind() FourCC { return kindTfra }

func (a *Tfra) DecodeBody(c *Cursor) error {
	ext, err := decodeExtPrefix(c)
	if err != nil {
		return err
	}
	if err := checkVersion(ext.Version, 0, 1); err != nil {
		return err
	}
	trackID, err := c.U32()
	if err != nil {
		return err
	}
	lengths, err := c.U32()
	if err != nil {
		return err
	}
	// high 26 bits reserved; low 6 bits hold three 2-bit width codes.
	sampleNumWidth := widthCode(uint8(lengths & 0b11))
	trunNumWidth := widthCode(uint8((lengths >> 2) & 0b11))
	trafNumWidth := widthCode(uint8((lengths >> 4) & 0b11))
	numberOfEntry, err := c.U32()
	if err != nil {
		return err
	}
	cap := numberOfEntry
	if cap > 128 {
		cap = 128
	}
	entries := make([]FragmentInfo, 0, cap)
	for i := uint32(0); i < numberOfEntry; i++ {
		var time, moofOffset uint64
		if ext.Version == 1 {
			time, err = c.U64()
			if err != nil {
				return err
			}
			moofOffset, err = c.U64()
			if err != nil {
				return err
			}
		} else {
			v, err := c.U32()
			if err != nil {
				return err
			}
			time = uint64(v)
			v2, err := c.U32()
			if err != nil {
				return err
			}
			moofOffset = uint64(v2)
		}
		trafNumber, err := readVarWidth(c, trafNumWidth)
		if err != nil {
			return err
		}
		trunNumber, err := readVarWidth(c, trunNumWidth)
		if err != nil {
			return err
		}
		sampleDelta, err := readVarWidth(c, sampleNumWidth)
		if err != nil {
			return err
		}
		entries = append(entries, FragmentInfo{
			Time:        time,
			MoofOffset:  moofOffset,
			TrafNumber:  trafNumber,
			TrunNumber:  trunNumber,
			SampleDelta: sampleDelta,
		})
	}
	a.TrackID = trackID
	a.Entries = entries
	return nil
}

// requiredLengths returns the narrowest 2-bit width codes able to hold
// every entry's traf/trun/sample fields, and whether any time or
// moof_offset value needs a 64-bit version.
func (a *Tfra) requiredLengths() (trafCode, trunCode, sampleCode uint8, version uint8) {
	var trafVals, trunVals, sampleVals []uint32
	for _, e := range a.Entries {
		if e.Time > maxUint32 || e.MoofOffset > maxUint32 {
			version = 1
		}
		trafVals = append(trafVals, e.TrafNumber)
		trunVals = append(trunVals, e.TrunNumber)
		sampleVals = append(sampleVals, e.SampleDelta)
	}
	return widthCodeFor(trafVals), widthCodeFor(trunVals), widthCodeFor(sampleVals), version
}

func (a *Tfra) EncodeBody(s *Sink) error {
	trafCode, trunCode, sampleCode, version := a.requiredLengths()
	encodeExtPrefix(s, ExtPrefix{Version: version})
	s.WriteU32(a.TrackID)
	lengths := (uint32(trafCode) << 4) | (uint32(trunCode) << 2) | uint32(sampleCode)
	s.WriteU32(lengths)
	if len(a.Entries) > maxUint32 {
		return errMsg(ErrTooLarge, "tfra entry count exceeds 32 bits")
	}
	s.WriteU32(uint32(len(a.Entries)))
	trafWidth := widthCode(trafCode)
	trunWidth := widthCode(trunCode)
	sampleWidth := widthCode(sampleCode)
	for _, e := range a.Entries {
		if version == 1 {
			s.WriteU64(e.Time)
			s.WriteU64(e.MoofOffset)
		} else {
			s.WriteU32(uint32(e.Time))
			s.WriteU32(uint32(e.MoofOffset))
		}
		writeVarWidth(s, e.TrafNumber, trafWidth)
		writeVarWidth(s, e.TrunNumber, trunWidth)
		writeVarWidth(s, e.SampleDelta, sampleWidth)
	}
	return nil
}
