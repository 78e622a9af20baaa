package box

func init() {
	register(kindMeta, func() Atom { return &Meta{} })
	register(kindIinf, func() Atom { return &Iinf{} })
	register(kindInfe, func() Atom { return &Infe{} })
	register(kindPitm, func() Atom { return &Pitm{} })
}

var (
	kindMeta = NewFourCC("meta")
	kindIinf = NewFourCC("iinf")
	kindInfe = NewFourCC("infe")
	kindPitm = NewFourCC("pitm")
)

// Meta is the MetaBox (ISO/IEC 14496-12 §8.11.1): the item-based metadata
// container used by HEIF/AVIF still-image files and MP4's item metadata.
// Children this package has no typed use for (e.g. "idat", "xml ") pass
// through as Unexpected rather than being rejected (§4.4 fault tolerance).
type Meta struct {
	Hdlr  *Hdlr
	Iinf  *Iinf
	Pitm  *Pitm
	Iloc  *Iloc
	Iref  *Iref
	Iprp  *Iprp
	Extra []Box
}

func (*Meta) AtomKind() FourCC { return kindMeta }

var metaSpec = containerSpec{
	Optional:      []FourCC{kindHdlr, kindIinf, kindPitm, kindIloc, kindIref, kindIprp},
	FaultTolerant: true,
}

func (a *Meta) DecodeBody(c *Cursor) error {
	ext, err := decodeExtPrefix(c)
	if err != nil {
		return err
	}
	if err := checkVersion(ext.Version, 0); err != nil {
		return err
	}
	res, err := decodeContainer(c, metaSpec)
	if err != nil {
		return err
	}
	if b, ok := res.Single[kindHdlr]; ok {
		v := *b.Body.(*Hdlr)
		a.Hdlr = &v
	}
	if b, ok := res.Single[kindIinf]; ok {
		v := *b.Body.(*Iinf)
		a.Iinf = &v
	}
	if b, ok := res.Single[kindPitm]; ok {
		v := *b.Body.(*Pitm)
		a.Pitm = &v
	}
	if b, ok := res.Single[kindIloc]; ok {
		v := *b.Body.(*Iloc)
		a.Iloc = &v
	}
	if b, ok := res.Single[kindIref]; ok {
		v := *b.Body.(*Iref)
		a.Iref = &v
	}
	if b, ok := res.Single[kindIprp]; ok {
		v := *b.Body.(*Iprp)
		a.Iprp = &v
	}
	a.Extra = res.Unexpected
	return nil
}

func (a *Meta) EncodeBody(s *Sink) error {
	encodeExtPrefix(s, ExtPrefix{})
	res := &containerResult{Single: map[FourCC]Box{}}
	if a.Hdlr != nil {
		res.Single[kindHdlr] = Box{kind: kindHdlr, Body: a.Hdlr}
	}
	if a.Iinf != nil {
		res.Single[kindIinf] = Box{kind: kindIinf, Body: a.Iinf}
	}
	if a.Pitm != nil {
		res.Single[kindPitm] = Box{kind: kindPitm, Body: a.Pitm}
	}
	if a.Iloc != nil {
		res.Single[kindIloc] = Box{kind: kindIloc, Body: a.Iloc}
	}
	if a.Iref != nil {
		res.Single[kindIref] = Box{kind: kindIref, Body: a.Iref}
	}
	if a.Iprp != nil {
		res.Single[kindIprp] = Box{kind: kindIprp, Body: a.Iprp}
	}
	if err := encodeContainer(s, metaSpec, res); err != nil {
		return err
	}
	for _, b := range a.Extra {
		if err := EncodeBox(s, b); err != nil {
			return err
		}
	}
	return nil
}

// Iinf is the ItemInfoBox (ISO/IEC 14496-12 §8.11.6): the table of
// per-item metadata entries.
type Iinf struct {
	Entries []Infe
}

func (*Iinf) AtomKind() FourCC { return kindIinf }

func (a *Iinf) DecodeBody(c *Cursor) error {
	ext, err := decodeExtPrefix(c)
	if err != nil {
		return err
	}
	if err := checkVersion(ext.Version, 0, 1); err != nil {
		return err
	}
	var count uint32
	if ext.Version == 0 {
		v, err := c.U16()
		if err != nil {
			return err
		}
		count = uint32(v)
	} else {
		if count, err = c.U32(); err != nil {
			return err
		}
	}
	entries := make([]Infe, 0, count)
	for i := uint32(0); i < count; i++ {
		b, err := DecodeBox(c)
		if err != nil {
			return err
		}
		if b.IsUnknown() || b.Kind() != kindInfe {
			return errBox(ErrUnexpectedBox, b.Kind())
		}
		entries = append(entries, *b.Body.(*Infe))
	}
	a.Entries = entries
	return nil
}

func (a *Iinf) EncodeBody(s *Sink) error {
	version := uint8(0)
	if len(a.Entries) > 0xFFFF {
		version = 1
	}
	encodeExtPrefix(s, ExtPrefix{Version: version})
	if version == 0 {
		s.WriteU16(uint16(len(a.Entries)))
	} else {
		if len(a.Entries) > maxUint32 {
			return errMsg(ErrTooLarge, "iinf entry count exceeds 32 bits")
		}
		s.WriteU32(uint32(len(a.Entries)))
	}
	for i := range a.Entries {
		if err := EncodeAtom(s, kindInfe, &a.Entries[i]); err != nil {
			return err
		}
	}
	return nil
}

// Infe is the ItemInfoEntry (ISO/IEC 14496-12 §8.11.6.2): one item's ID,
// protection index, and type/name. Only the version 2/3 layout is
// handled; version 0/1 entries are rejected as an unknown version.
type Infe struct {
	ItemID             uint32
	ItemProtectionIndex uint16
	ItemType           FourCC
	ItemName           string
}

func (*Infe) AtomKind() FourCC { return kindInfe }

func (a *Infe) DecodeBody(c *Cursor) error {
	ext, err := decodeExtPrefix(c)
	if err != nil {
		return err
	}
	if err := checkVersion(ext.Version, 2, 3); err != nil {
		return err
	}
	var itemID uint32
	if ext.Version == 2 {
		v, err := c.U16()
		if err != nil {
			return err
		}
		itemID = uint32(v)
	} else {
		if itemID, err = c.U32(); err != nil {
			return err
		}
	}
	protIndex, err := c.U16()
	if err != nil {
		return err
	}
	itemType, err := c.FourCC()
	if err != nil {
		return err
	}
	name, err := c.CString()
	if err != nil {
		return err
	}
	a.ItemID = itemID
	a.ItemProtectionIndex = protIndex
	a.ItemType = itemType
	a.ItemName = name
	return nil
}

func (a *Infe) EncodeBody(s *Sink) error {
	version := uint8(2)
	if a.ItemID > 0xFFFF {
		version = 3
	}
	encodeExtPrefix(s, ExtPrefix{Version: version})
	if version == 2 {
		s.WriteU16(uint16(a.ItemID))
	} else {
		s.WriteU32(a.ItemID)
	}
	s.WriteU16(a.ItemProtectionIndex)
	s.WriteFourCC(a.ItemType)
	s.WriteCString(a.ItemName)
	return nil
}

// Pitm is the PrimaryItemBox (ISO/IEC 14496-12 §8.11.4): identifies the
// default/primary item in a Meta container (e.g. the cover image of an
// AVIF/HEIF file).
type Pitm struct {
	ItemID uint32
}

func (*Pitm) AtomKind() FourCC { return kindPitm }

func (a *Pitm) DecodeBody(c *Cursor) error {
	ext, err := decodeExtPrefix(c)
	if err != nil {
		return err
	}
	if err := checkVersion(ext.Version, 0, 1); err != nil {
		return err
	}
	var itemID uint32
	if ext.Version == 0 {
		v, err := c.U16()
		if err != nil {
			return err
		}
		itemID = uint32(v)
	} else {
		if itemID, err = c.U32(); err != nil {
			return err
		}
	}
	a.ItemID = itemID
	return nil
}

func (a *Pitm) EncodeBody(s *Sink) error {
	version := uint8(0)
	if a.ItemID > 0xFFFF {
		version = 1
	}
	encodeExtPrefix(s, ExtPrefix{Version: version})
	if version == 0 {
		s.WriteU16(uint16(a.ItemID))
	} else {
		s.WriteU32(a.ItemID)
	}
	return nil
}
