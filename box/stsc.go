package box

func init() { register(kindStsc, func() Atom { return &Stsc{} }) }

var kindStsc = NewFourCC("stsc")

// StscEntry is one run of chunks sharing a samples-per-chunk count and
// sample description index. FirstSample is derived during decode, not
// carried on the wire.
type StscEntry struct {
	FirstChunk             uint32
	SamplesPerChunk        uint32
	SampleDescriptionIndex uint32
	FirstSample            uint32
}

// Stsc is the SampleToChunkBox (ISO/IEC 14496-12 §8.7.4): maps samples to
// the chunks that contain them via a compact run-length table.
type Stsc struct {
	Entries []StscEntry
}

func (*Stsc) AtomKind() FourCC { return kindStsc }

func (a *Stsc) DecodeBody(c *Cursor) error {
	ext, err := decodeExtPrefix(c)
	if err != nil {
		return err
	}
	if err := checkVersion(ext.Version, 0); err != nil {
		return err
	}
	entryCount, err := c.U32()
	if err != nil {
		return err
	}
	entries := make([]StscEntry, 0, entryCount)
	for i := uint32(0); i < entryCount; i++ {
		firstChunk, err := c.U32()
		if err != nil {
			return err
		}
		samplesPerChunk, err := c.U32()
		if err != nil {
			return err
		}
		sdIndex, err := c.U32()
		if err != nil {
			return err
		}
		entries = append(entries, StscEntry{
			FirstChunk:             firstChunk,
			SamplesPerChunk:        samplesPerChunk,
			SampleDescriptionIndex: sdIndex,
		})
	}
	// FirstSample is derived in the same uint32 width as the wire fields
	// it's computed from, so the running sum is kept in uint64 only to
	// detect when that derived value would overflow uint32.
	sampleID := uint64(1)
	for i := range entries {
		entries[i].FirstSample = uint32(sampleID)
		if uint32(i) < entryCount-1 {
			next := entries[i+1]
			delta := uint64(next.FirstChunk - entries[i].FirstChunk)
			product := delta * uint64(entries[i].SamplesPerChunk)
			sampleID += product
			if sampleID > maxUint32 {
				return errBox(ErrDivideByZero, kindStsc)
			}
		}
	}
	a.Entries = entries
	return nil
}

func (a *Stsc) EncodeBody(s *Sink) error {
	encodeExtPrefix(s, ExtPrefix{})
	if len(a.Entries) > maxUint32 {
		return errMsg(ErrTooLarge, "stsc entry count exceeds 32 bits")
	}
	s.WriteU32(uint32(len(a.Entries)))
	for _, e := range a.Entries {
		s.WriteU32(e.FirstChunk)
		s.WriteU32(e.SamplesPerChunk)
		s.WriteU32(e.SampleDescriptionIndex)
	}
	return nil
}
