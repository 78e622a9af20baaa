package box

func init() {
	register(kindMdia, func() Atom { return &Mdia{} })
	register(kindMdhd, func() Atom { return &Mdhd{} })
	register(kindHdlr, func() Atom { return &Hdlr{} })
	register(kindMinf, func() Atom { return &Minf{} })
	register(kindVmhd, func() Atom { return &Vmhd{} })
	register(kindSmhd, func() Atom { return &Smhd{} })
	register(kindHmhd, func() Atom { return &Hmhd{} })
	register(kindSthd, func() Atom { return &Sthd{} })
	register(kindDinf, func() Atom { return &Dinf{} })
	register(kindDref, func() Atom { return &Dref{} })
	register(kindURL, func() Atom { return &urlEntry{} })
	register(kindURN, func() Atom { return &urnEntry{} })
}

var (
	kindMdia = NewFourCC("mdia")
	kindMdhd = NewFourCC("mdhd")
	kindHdlr = NewFourCC("hdlr")
	kindMinf = NewFourCC("minf")
	kindVmhd = NewFourCC("vmhd")
	kindSmhd = NewFourCC("smhd")
	kindHmhd = NewFourCC("hmhd")
	kindSthd = NewFourCC("sthd")
	kindDinf = NewFourCC("dinf")
	kindDref = NewFourCC("dref")
)

// Mdia is the MediaBox (ISO/IEC 14496-12 §8.4.1): a track's media
// declarations, wrapping its timing, handler type, and media information.
type Mdia struct {
	Mdhd Mdhd
	Hdlr Hdlr
	Minf Minf
}

func (*Mdia) AtomKind() FourCC { return kindMdia }

var mdiaSpec = containerSpec{Required: []FourCC{kindMdhd, kindHdlr, kindMinf}}

func (a *Mdia) DecodeBody(c *Cursor) error {
	res, err := decodeContainer(c, mdiaSpec)
	if err != nil {
		return err
	}
	a.Mdhd = *res.Single[kindMdhd].Body.(*Mdhd)
	a.Hdlr = *res.Single[kindHdlr].Body.(*Hdlr)
	a.Minf = *res.Single[kindMinf].Body.(*Minf)
	return nil
}

func (a *Mdia) EncodeBody(s *Sink) error {
	res := &containerResult{Single: map[FourCC]Box{
		kindMdhd: {kind: kindMdhd, Body: &a.Mdhd},
		kindHdlr: {kind: kindHdlr, Body: &a.Hdlr},
		kindMinf: {kind: kindMinf, Body: &a.Minf},
	}}
	return encodeContainer(s, mdiaSpec, res)
}

// Mdhd is the MediaHeaderBox (ISO/IEC 14496-12 §8.4.2): the media
// timeline's own timescale/duration plus an ISO 639-2/T language code.
type Mdhd struct {
	CreationTime     uint64
	ModificationTime uint64
	Timescale        uint32
	Duration         uint64
	Language         string // 3-letter ISO 639-2/T code, or "und"
}

func (*Mdhd) AtomKind() FourCC { return kindMdhd }

func (a *Mdhd) DecodeBody(c *Cursor) error {
	ext, err := decodeExtPrefix(c)
	if err != nil {
		return err
	}
	if err := checkVersion(ext.Version, 0, 1); err != nil {
		return err
	}
	var creation, modification, duration uint64
	var timescale uint32
	if ext.Version == 1 {
		if creation, err = c.U64(); err != nil {
			return err
		}
		if modification, err = c.U64(); err != nil {
			return err
		}
		if timescale, err = c.U32(); err != nil {
			return err
		}
		if duration, err = c.U64(); err != nil {
			return err
		}
	} else {
		v, err := c.U32()
		if err != nil {
			return err
		}
		creation = uint64(v)
		if v, err = c.U32(); err != nil {
			return err
		}
		modification = uint64(v)
		if timescale, err = c.U32(); err != nil {
			return err
		}
		if v, err = c.U32(); err != nil {
			return err
		}
		duration = uint64(v)
	}
	packed, err := c.U16()
	if err != nil {
		return err
	}
	lang := []byte{
		byte(((packed>>10)&0x1F)+0x60),
		byte(((packed>>5)&0x1F)+0x60),
		byte((packed&0x1F)+0x60),
	}
	if _, err := c.U16(); err != nil { // pre_defined
		return err
	}
	a.CreationTime = creation
	a.ModificationTime = modification
	a.Timescale = timescale
	a.Duration = duration
	a.Language = string(lang)
	return nil
}

func (a *Mdhd) EncodeBody(s *Sink) error {
	version := uint8(0)
	if a.CreationTime > maxUint32 || a.ModificationTime > maxUint32 || a.Duration > maxUint32 {
		version = 1
	}
	encodeExtPrefix(s, ExtPrefix{Version: version})
	if version == 1 {
		s.WriteU64(a.CreationTime)
		s.WriteU64(a.ModificationTime)
		s.WriteU32(a.Timescale)
		s.WriteU64(a.Duration)
	} else {
		s.WriteU32(uint32(a.CreationTime))
		s.WriteU32(uint32(a.ModificationTime))
		s.WriteU32(a.Timescale)
		s.WriteU32(uint32(a.Duration))
	}
	lang := a.Language
	if len(lang) != 3 {
		lang = "und"
	}
	packed := (uint16(lang[0]-0x60) << 10) | (uint16(lang[1]-0x60) << 5) | uint16(lang[2]-0x60)
	s.WriteU16(packed)
	s.WriteU16(0)
	return nil
}

// Hdlr is the HandlerBox (ISO/IEC 14496-12 §8.4.3): declares the media's
// handler type ("vide", "soun", "hint", "meta", ...) and a human-readable
// name.
type Hdlr struct {
	HandlerType FourCC
	Name        string
}

func (*Hdlr) AtomKind() FourCC { return kindHdlr }

func (a *Hdlr) DecodeBody(c *Cursor) error {
	ext, err := decodeExtPrefix(c)
	if err != nil {
		return err
	}
	if err := checkVersion(ext.Version, 0); err != nil {
		return err
	}
	if _, err := c.U32(); err != nil { // pre_defined
		return err
	}
	handlerType, err := c.FourCC()
	if err != nil {
		return err
	}
	for i := 0; i < 3; i++ {
		if _, err := c.U32(); err != nil { // reserved[3]
			return err
		}
	}
	name, err := c.BoxString()
	if err != nil {
		return err
	}
	// Some encoders write the name as a NUL-terminated string rather than
	// consuming the rest of the box; trim a trailing NUL either way.
	if n := len(name); n > 0 && name[n-1] == 0 {
		name = name[:n-1]
	}
	a.HandlerType = handlerType
	a.Name = name
	return nil
}

func (a *Hdlr) EncodeBody(s *Sink) error {
	encodeExtPrefix(s, ExtPrefix{})
	s.WriteU32(0)
	s.WriteFourCC(a.HandlerType)
	s.WriteU32(0)
	s.WriteU32(0)
	s.WriteU32(0)
	s.WriteCString(a.Name)
	return nil
}

// Minf is the MediaInformationBox (ISO/IEC 14496-12 §8.4.4): the
// media-type-specific header plus the data and sample table information.
type Minf struct {
	Vmhd *Vmhd
	Smhd *Smhd
	Hmhd *Hmhd
	Sthd *Sthd
	Dinf Dinf
	Stbl Stbl
}

func (*Minf) AtomKind() FourCC { return kindMinf }

var minfSpec = containerSpec{
	Required: []FourCC{kindDinf, kindStbl},
	Optional: []FourCC{kindVmhd, kindSmhd, kindHmhd, kindSthd},
}

func (a *Minf) DecodeBody(c *Cursor) error {
	res, err := decodeContainer(c, minfSpec)
	if err != nil {
		return err
	}
	a.Dinf = *res.Single[kindDinf].Body.(*Dinf)
	a.Stbl = *res.Single[kindStbl].Body.(*Stbl)
	if b, ok := res.Single[kindVmhd]; ok {
		v := *b.Body.(*Vmhd)
		a.Vmhd = &v
	}
	if b, ok := res.Single[kindSmhd]; ok {
		v := *b.Body.(*Smhd)
		a.Smhd = &v
	}
	if b, ok := res.Single[kindHmhd]; ok {
		v := *b.Body.(*Hmhd)
		a.Hmhd = &v
	}
	if b, ok := res.Single[kindSthd]; ok {
		v := *b.Body.(*Sthd)
		a.Sthd = &v
	}
	return nil
}

func (a *Minf) EncodeBody(s *Sink) error {
	res := &containerResult{Single: map[FourCC]Box{
		kindDinf: {kind: kindDinf, Body: &a.Dinf},
		kindStbl: {kind: kindStbl, Body: &a.Stbl},
	}}
	if a.Vmhd != nil {
		res.Single[kindVmhd] = Box{kind: kindVmhd, Body: a.Vmhd}
	}
	if a.Smhd != nil {
		res.Single[kindSmhd] = Box{kind: kindSmhd, Body: a.Smhd}
	}
	if a.Hmhd != nil {
		res.Single[kindHmhd] = Box{kind: kindHmhd, Body: a.Hmhd}
	}
	if a.Sthd != nil {
		res.Single[kindSthd] = Box{kind: kindSthd, Body: a.Sthd}
	}
	return encodeContainer(s, minfSpec, res)
}

// Hmhd is the HintMediaHeaderBox (ISO/IEC 14496-12 §8.4.5.3): bitrate and
// PDU size stats for a hint track.
type Hmhd struct {
	MaxPDUSize uint16
	AvgPDUSize uint16
	MaxBitrate uint32
	AvgBitrate uint32
}

func (*Hmhd) AtomKind() FourCC { return kindHmhd }

func (a *Hmhd) DecodeBody(c *Cursor) error {
	ext, err := decodeExtPrefix(c)
	if err != nil {
		return err
	}
	if err := checkVersion(ext.Version, 0); err != nil {
		return err
	}
	maxPDU, err := c.U16()
	if err != nil {
		return err
	}
	avgPDU, err := c.U16()
	if err != nil {
		return err
	}
	maxBitrate, err := c.U32()
	if err != nil {
		return err
	}
	avgBitrate, err := c.U32()
	if err != nil {
		return err
	}
	if _, err := c.U32(); err != nil { // reserved
		return err
	}
	a.MaxPDUSize = maxPDU
	a.AvgPDUSize = avgPDU
	a.MaxBitrate = maxBitrate
	a.AvgBitrate = avgBitrate
	return nil
}

func (a *Hmhd) EncodeBody(s *Sink) error {
	encodeExtPrefix(s, ExtPrefix{})
	s.WriteU16(a.MaxPDUSize)
	s.WriteU16(a.AvgPDUSize)
	s.WriteU32(a.MaxBitrate)
	s.WriteU32(a.AvgBitrate)
	s.WriteU32(0)
	return nil
}

// Sthd is the SubtitleMediaHeaderBox (ISO/IEC 14496-12 §12.6.3): a trivial
// full box carrying no fields of its own beyond version and flags.
type Sthd struct{}

func (*Sthd) AtomKind() FourCC { return kindSthd }

func (a *Sthd) DecodeBody(c *Cursor) error {
	ext, err := decodeExtPrefix(c)
	if err != nil {
		return err
	}
	return checkVersion(ext.Version, 0)
}

func (a *Sthd) EncodeBody(s *Sink) error {
	encodeExtPrefix(s, ExtPrefix{})
	return nil
}

// Vmhd is the VideoMediaHeaderBox (ISO/IEC 14496-12 §12.1.2).
type Vmhd struct {
	GraphicsMode uint16
	OpColor      [3]uint16
}

func (*Vmhd) AtomKind() FourCC { return kindVmhd }

func (a *Vmhd) DecodeBody(c *Cursor) error {
	ext, err := decodeExtPrefix(c)
	if err != nil {
		return err
	}
	if err := checkVersion(ext.Version, 0); err != nil {
		return err
	}
	mode, err := c.U16()
	if err != nil {
		return err
	}
	var op [3]uint16
	for i := range op {
		if op[i], err = c.U16(); err != nil {
			return err
		}
	}
	a.GraphicsMode = mode
	a.OpColor = op
	return nil
}

func (a *Vmhd) EncodeBody(s *Sink) error {
	encodeExtPrefix(s, ExtPrefix{Flags: 1})
	s.WriteU16(a.GraphicsMode)
	for _, v := range a.OpColor {
		s.WriteU16(v)
	}
	return nil
}

// Smhd is the SoundMediaHeaderBox (ISO/IEC 14496-12 §12.2.2).
type Smhd struct {
	Balance Fixed8
}

func (*Smhd) AtomKind() FourCC { return kindSmhd }

func (a *Smhd) DecodeBody(c *Cursor) error {
	ext, err := decodeExtPrefix(c)
	if err != nil {
		return err
	}
	if err := checkVersion(ext.Version, 0); err != nil {
		return err
	}
	balance, err := decodeFixed8(c)
	if err != nil {
		return err
	}
	if _, err := c.U16(); err != nil { // reserved
		return err
	}
	a.Balance = balance
	return nil
}

func (a *Smhd) EncodeBody(s *Sink) error {
	encodeExtPrefix(s, ExtPrefix{})
	a.Balance.encode(s)
	s.WriteU16(0)
	return nil
}

// Dinf is the DataInformationBox (ISO/IEC 14496-12 §8.7.1): a container
// for the data reference table.
type Dinf struct {
	Dref Dref
}

func (*Dinf) AtomKind() FourCC { return kindDinf }

var dinfSpec = containerSpec{Required: []FourCC{kindDref}}

func (a *Dinf) DecodeBody(c *Cursor) error {
	res, err := decodeContainer(c, dinfSpec)
	if err != nil {
		return err
	}
	a.Dref = *res.Single[kindDref].Body.(*Dref)
	return nil
}

func (a *Dinf) EncodeBody(s *Sink) error {
	res := &containerResult{Single: map[FourCC]Box{
		kindDref: {kind: kindDref, Body: &a.Dref},
	}}
	return encodeContainer(s, dinfSpec, res)
}

const drefEntryFlagSelfContained = 0

// DataEntry is one data reference table entry: either a URL, a URN+URL
// pair, or an opaque (unrecognized) entry kind preserved verbatim.
type DataEntry struct {
	Kind           FourCC
	SelfContained  bool
	Name, Location string // URN's name/location; Location alone for a plain URL
	Opaque         []byte // set only when Kind is neither "url " nor "urn "
}

// Dref is the DataReferenceBox (ISO/IEC 14496-12 §8.7.2): the table of
// locations media data may be found at.
type Dref struct {
	Entries []DataEntry
}

func (*Dref) AtomKind() FourCC { return kindDref }

var (
	kindURL  = NewFourCC("url ")
	kindURN  = NewFourCC("urn ")
)

func (a *Dref) DecodeBody(c *Cursor) error {
	ext, err := decodeExtPrefix(c)
	if err != nil {
		return err
	}
	if err := checkVersion(ext.Version, 0); err != nil {
		return err
	}
	count, err := c.U32()
	if err != nil {
		return err
	}
	entries := make([]DataEntry, 0, count)
	for i := uint32(0); i < count; i++ {
		b, err := DecodeBox(c)
		if err != nil {
			return err
		}
		entry := DataEntry{Kind: b.Kind()}
		if b.IsUnknown() {
			entry.Opaque = b.Raw
		} else {
			switch de := b.Body.(type) {
			case *urlEntry:
				entry.SelfContained = de.SelfContained
				entry.Location = de.Location
			case *urnEntry:
				entry.SelfContained = de.SelfContained
				entry.Name = de.Name
				entry.Location = de.Location
			}
		}
		entries = append(entries, entry)
	}
	a.Entries = entries
	return nil
}

func (a *Dref) EncodeBody(s *Sink) error {
	encodeExtPrefix(s, ExtPrefix{})
	if len(a.Entries) > maxUint32 {
		return errMsg(ErrTooLarge, "dref entry count exceeds 32 bits")
	}
	s.WriteU32(uint32(len(a.Entries)))
	for _, e := range a.Entries {
		switch e.Kind {
		case kindURL:
			if err := EncodeAtom(s, kindURL, &urlEntry{SelfContained: e.SelfContained, Location: e.Location}); err != nil {
				return err
			}
		case kindURN:
			if err := EncodeAtom(s, kindURN, &urnEntry{SelfContained: e.SelfContained, Name: e.Name, Location: e.Location}); err != nil {
				return err
			}
		default:
			if err := EncodeBox(s, Box{kind: e.Kind, Raw: e.Opaque}); err != nil {
				return err
			}
		}
	}
	return nil
}

// urlEntry/urnEntry are the data reference table's own registered atom
// bodies; Dref.Entries flattens them into DataEntry for callers.
type urlEntry struct {
	SelfContained bool
	Location      string
}

func (*urlEntry) AtomKind() FourCC { return kindURL }

func (a *urlEntry) DecodeBody(c *Cursor) error {
	ext, err := decodeExtPrefix(c)
	if err != nil {
		return err
	}
	a.SelfContained = flagBit(ext.Flags, drefEntryFlagSelfContained)
	if !a.SelfContained {
		loc, err := c.BoxString()
		if err != nil {
			return err
		}
		if n := len(loc); n > 0 && loc[n-1] == 0 {
			loc = loc[:n-1]
		}
		a.Location = loc
	}
	return nil
}

func (a *urlEntry) EncodeBody(s *Sink) error {
	var flags uint32
	setFlagBit(&flags, drefEntryFlagSelfContained, a.SelfContained)
	encodeExtPrefix(s, ExtPrefix{Flags: flags})
	if !a.SelfContained {
		s.WriteCString(a.Location)
	}
	return nil
}

type urnEntry struct {
	SelfContained bool
	Name          string
	Location      string
}

func (*urnEntry) AtomKind() FourCC { return kindURN }

func (a *urnEntry) DecodeBody(c *Cursor) error {
	ext, err := decodeExtPrefix(c)
	if err != nil {
		return err
	}
	a.SelfContained = flagBit(ext.Flags, drefEntryFlagSelfContained)
	if !a.SelfContained {
		name, err := c.CString()
		if err != nil {
			return err
		}
		loc, err := c.BoxString()
		if err != nil {
			return err
		}
		if n := len(loc); n > 0 && loc[n-1] == 0 {
			loc = loc[:n-1]
		}
		a.Name = name
		a.Location = loc
	}
	return nil
}

func (a *urnEntry) EncodeBody(s *Sink) error {
	var flags uint32
	setFlagBit(&flags, drefEntryFlagSelfContained, a.SelfContained)
	encodeExtPrefix(s, ExtPrefix{Flags: flags})
	if !a.SelfContained {
		s.WriteCString(a.Name)
		s.WriteCString(a.Location)
	}
	return nil
}
