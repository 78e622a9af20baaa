package box

func init() {
	register(kindSbgp, func() Atom { return &Sbgp{} })
	register(kindSgpd, func() Atom { return &Sgpd{} })
}

var (
	kindSbgp = NewFourCC("sbgp")
	kindSgpd = NewFourCC("sgpd")
)

// SbgpEntry maps a run of consecutive samples to one sample group
// description entry.
type SbgpEntry struct {
	SampleCount            uint32
	GroupDescriptionIndex  uint32
}

// Sbgp is the SampleToGroupBox (ISO/IEC 14496-12 §8.9.2): assigns samples
// to groups of a particular grouping_type, by run length.
type Sbgp struct {
	GroupingType          FourCC
	GroupingTypeParameter *uint32
	Entries               []SbgpEntry
}

func (*Sbgp) AtomKind() FourCC { return kindSbgp }

func (a *Sbgp) DecodeBody(c *Cursor) error {
	ext, err := decodeExtPrefix(c)
	if err != nil {
		return err
	}
	if err := checkVersion(ext.Version, 0, 1); err != nil {
		return err
	}
	groupingType, err := c.FourCC()
	if err != nil {
		return err
	}
	var param *uint32
	if ext.Version == 1 {
		v, err := c.U32()
		if err != nil {
			return err
		}
		param = &v
	}
	entryCount, err := c.U32()
	if err != nil {
		return err
	}
	cap := entryCount
	if cap > 1024 {
		cap = 1024
	}
	entries := make([]SbgpEntry, 0, cap)
	for i := uint32(0); i < entryCount; i++ {
		sampleCount, err := c.U32()
		if err != nil {
			return err
		}
		groupDescIndex, err := c.U32()
		if err != nil {
			return err
		}
		entries = append(entries, SbgpEntry{SampleCount: sampleCount, GroupDescriptionIndex: groupDescIndex})
	}
	a.GroupingType = groupingType
	a.GroupingTypeParameter = param
	a.Entries = entries
	return nil
}

func (a *Sbgp) EncodeBody(s *Sink) error {
	version := uint8(0)
	if a.GroupingTypeParameter != nil {
		version = 1
	}
	encodeExtPrefix(s, ExtPrefix{Version: version})
	s.WriteFourCC(a.GroupingType)
	if a.GroupingTypeParameter != nil {
		s.WriteU32(*a.GroupingTypeParameter)
	}
	if len(a.Entries) > maxUint32 {
		return errMsg(ErrTooLarge, "sbgp entry count exceeds 32 bits")
	}
	s.WriteU32(uint32(len(a.Entries)))
	for _, e := range a.Entries {
		s.WriteU32(e.SampleCount)
		s.WriteU32(e.GroupDescriptionIndex)
	}
	return nil
}

const (
	sgpdStaticGroupDescriptionFlag = 0
	sgpdStaticMappingFlag          = 1
)

// SampleGroupEntry is a sample group description entry body. The closed set
// of per-grouping-type entry layouts (e.g. "roll", "seig") is out of scope;
// every grouping type decodes to its opaque bytes via UnknownGroupEntry.
type SampleGroupEntry interface {
	sampleGroupEntry()
}

// UnknownGroupEntry is the opaque fallback used for every grouping type.
type UnknownGroupEntry struct {
	GroupingType FourCC
	Data         []byte
}

func (UnknownGroupEntry) sampleGroupEntry() {}

func decodeSampleGroupEntry(c *Cursor, groupingType FourCC, length *uint32) (SampleGroupEntry, error) {
	var data []byte
	var err error
	if length != nil {
		data, err = c.Bytes(int(*length))
	} else {
		data = c.RestBytes()
	}
	if err != nil {
		return nil, err
	}
	return UnknownGroupEntry{GroupingType: groupingType, Data: data}, nil
}

func encodeSampleGroupEntry(s *Sink, e SampleGroupEntry) {
	switch v := e.(type) {
	case UnknownGroupEntry:
		s.WriteBytes(v.Data)
	}
}

// SgpdEntry pairs one sample group description entry with the length that
// was recorded alongside it (present from version 1 onward, and only
// per-entry when DefaultLength is zero).
type SgpdEntry struct {
	DescriptionLength *uint32
	Entry             SampleGroupEntry
}

// Sgpd is the SampleGroupDescriptionBox (ISO/IEC 14496-12 §8.9.3): the
// group description entries referenced by a matching Sbgp's
// GroupingType.
type Sgpd struct {
	GroupingType                 FourCC
	DefaultLength                *uint32
	DefaultGroupDescriptionIndex *uint32
	StaticGroupDescription       bool
	StaticMapping                bool
	Essential                    bool
	Entries                      []SgpdEntry
}

func (*Sgpd) AtomKind() FourCC { return kindSgpd }

func (a *Sgpd) DecodeBody(c *Cursor) error {
	ext, err := decodeExtPrefix(c)
	if err != nil {
		return err
	}
	if err := checkVersion(ext.Version, 0, 1, 2, 3); err != nil {
		return err
	}
	groupingType, err := c.FourCC()
	if err != nil {
		return err
	}
	var defaultLength *uint32
	if ext.Version >= 1 {
		v, err := c.U32()
		if err != nil {
			return err
		}
		defaultLength = &v
	}
	var defaultGroupDescIndex *uint32
	if ext.Version >= 2 {
		v, err := c.U32()
		if err != nil {
			return err
		}
		defaultGroupDescIndex = &v
	}
	entryCount, err := c.U32()
	if err != nil {
		return err
	}
	entries := make([]SgpdEntry, 0, entryCount)
	for i := uint32(0); i < entryCount; i++ {
		var descLength *uint32
		if defaultLength != nil && *defaultLength == 0 {
			v, err := c.U32()
			if err != nil {
				return err
			}
			descLength = &v
		} else {
			descLength = defaultLength
		}
		entry, err := decodeSampleGroupEntry(c, groupingType, descLength)
		if err != nil {
			return err
		}
		entries = append(entries, SgpdEntry{DescriptionLength: descLength, Entry: entry})
	}
	a.GroupingType = groupingType
	a.DefaultLength = defaultLength
	a.DefaultGroupDescriptionIndex = defaultGroupDescIndex
	a.StaticGroupDescription = flagBit(ext.Flags, sgpdStaticGroupDescriptionFlag)
	a.StaticMapping = flagBit(ext.Flags, sgpdStaticMappingFlag)
	a.Essential = ext.Version == 3
	a.Entries = entries
	return nil
}

func (a *Sgpd) EncodeBody(s *Sink) error {
	version := uint8(0)
	switch {
	case a.Essential:
		version = 3
	case a.DefaultGroupDescriptionIndex != nil:
		version = 2
	case a.DefaultLength != nil:
		version = 1
	}
	var flags uint32
	setFlagBit(&flags, sgpdStaticGroupDescriptionFlag, a.StaticGroupDescription)
	setFlagBit(&flags, sgpdStaticMappingFlag, a.StaticMapping)
	encodeExtPrefix(s, ExtPrefix{Version: version, Flags: flags})
	s.WriteFourCC(a.GroupingType)
	if a.DefaultLength != nil {
		s.WriteU32(*a.DefaultLength)
	}
	if a.DefaultGroupDescriptionIndex != nil {
		s.WriteU32(*a.DefaultGroupDescriptionIndex)
	}
	if len(a.Entries) > maxUint32 {
		return errMsg(ErrTooLarge, "sgpd entry count exceeds 32 bits")
	}
	s.WriteU32(uint32(len(a.Entries)))
	for _, e := range a.Entries {
		if a.DefaultLength != nil && *a.DefaultLength == 0 {
			if e.DescriptionLength != nil {
				s.WriteU32(*e.DescriptionLength)
			}
		}
		encodeSampleGroupEntry(s, e.Entry)
	}
	return nil
}
