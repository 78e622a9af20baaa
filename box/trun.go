package box

func init() { register(kindTrun, func() Atom { return &Trun{} }) }

var kindTrun = NewFourCC("trun")

const (
	trunFlagDataOffset        = 0
	trunFlagFirstSampleFlags  = 2
	trunFlagSampleDuration    = 8
	trunFlagSampleSize        = 9
	trunFlagSampleFlags       = 10
	trunFlagSampleCTS         = 11
)

// TrunEntry is one sample's per-row fields in a track run. A nil field
// means that column is absent from the wire encoding for every sample.
type TrunEntry struct {
	Duration *uint32
	Size     *uint32
	Flags    *uint32
	CTS      *int32
}

// Trun is the TrackRunBox (ISO/IEC 14496-12 §8.8.8): one contiguous run of
// samples within a track fragment. FirstSampleFlags, when present,
// overrides Flags for entry 0 only — a common encoder shorthand for "every
// sample after the first is identical, except this one's a sync sample".
type Trun struct {
	DataOffset       *int32
	FirstSampleFlags *uint32
	Entries          []TrunEntry
}

func (*Trun) AtomKind() FourCC { return kindTrun }

func (a *Trun) DecodeBody(c *Cursor) error {
	ext, err := decodeExtPrefix(c)
	if err != nil {
		return err
	}
	if err := checkVersion(ext.Version, 0, 1); err != nil {
		return err
	}
	sampleCount, err := c.U32()
	if err != nil {
		return err
	}
	var dataOffset *int32
	if flagBit(ext.Flags, trunFlagDataOffset) {
		v, err := c.I32()
		if err != nil {
			return err
		}
		dataOffset = &v
	}
	var firstSampleFlags *uint32
	if flagBit(ext.Flags, trunFlagFirstSampleFlags) {
		v, err := c.U32()
		if err != nil {
			return err
		}
		firstSampleFlags = &v
	}
	entries := make([]TrunEntry, 0, sampleCount)
	for i := uint32(0); i < sampleCount; i++ {
		var entry TrunEntry
		if flagBit(ext.Flags, trunFlagSampleDuration) {
			v, err := c.U32()
			if err != nil {
				return err
			}
			entry.Duration = &v
		}
		if flagBit(ext.Flags, trunFlagSampleSize) {
			v, err := c.U32()
			if err != nil {
				return err
			}
			entry.Size = &v
		}
		if i == 0 && firstSampleFlags != nil {
			v := *firstSampleFlags
			entry.Flags = &v
		} else if flagBit(ext.Flags, trunFlagSampleFlags) {
			v, err := c.U32()
			if err != nil {
				return err
			}
			entry.Flags = &v
		}
		if flagBit(ext.Flags, trunFlagSampleCTS) {
			v, err := c.I32()
			if err != nil {
				return err
			}
			entry.CTS = &v
		}
		entries = append(entries, entry)
	}
	a.DataOffset = dataOffset
	a.FirstSampleFlags = firstSampleFlags
	a.Entries = entries
	return nil
}

func (a *Trun) EncodeBody(s *Sink) error {
	var flags uint32
	setFlagBit(&flags, trunFlagDataOffset, a.DataOffset != nil)
	setFlagBit(&flags, trunFlagFirstSampleFlags, a.FirstSampleFlags != nil)
	allHave := func(get func(TrunEntry) bool) bool {
		for _, e := range a.Entries {
			if !get(e) {
				return false
			}
		}
		return len(a.Entries) > 0
	}
	sampleDuration := allHave(func(e TrunEntry) bool { return e.Duration != nil })
	sampleSize := allHave(func(e TrunEntry) bool { return e.Size != nil })
	sampleCTS := allHave(func(e TrunEntry) bool { return e.CTS != nil })
	// sample_flags applies to entries after the first when
	// FirstSampleFlags overrides entry 0.
	sampleFlags := true
	for i, e := range a.Entries {
		if i == 0 && a.FirstSampleFlags != nil {
			continue
		}
		if e.Flags == nil {
			sampleFlags = false
			break
		}
	}
	if len(a.Entries) == 0 {
		sampleFlags = false
	}
	setFlagBit(&flags, trunFlagSampleDuration, sampleDuration)
	setFlagBit(&flags, trunFlagSampleSize, sampleSize)
	setFlagBit(&flags, trunFlagSampleFlags, sampleFlags)
	setFlagBit(&flags, trunFlagSampleCTS, sampleCTS)

	encodeExtPrefix(s, ExtPrefix{Version: 1, Flags: flags})
	if len(a.Entries) > maxUint32 {
		return errMsg(ErrTooLarge, "trun sample count exceeds 32 bits")
	}
	s.WriteU32(uint32(len(a.Entries)))
	if a.DataOffset != nil {
		s.WriteI32(*a.DataOffset)
	}
	if a.FirstSampleFlags != nil {
		s.WriteU32(*a.FirstSampleFlags)
	}
	for i, e := range a.Entries {
		if sampleDuration {
			s.WriteU32(*e.Duration)
		}
		if sampleSize {
			s.WriteU32(*e.Size)
		}
		if sampleFlags && !(i == 0 && a.FirstSampleFlags != nil) {
			s.WriteU32(*e.Flags)
		}
		if sampleCTS {
			s.WriteI32(*e.CTS)
		}
	}
	return nil
}
