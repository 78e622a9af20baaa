package box

func init() { register(kindIref, func() Atom { return &Iref{} }) }

var kindIref = NewFourCC("iref")

// ItemReference is one "box" inside an iref table: an item-relationship
// type (e.g. "dimg", "thmb", "cdsc") linking one item to a list of others.
type ItemReference struct {
	ReferenceType FourCC
	FromItemID    uint32
	ToItemIDs     []uint32
}

// Iref is the ItemReferenceBox (ISO/IEC 14496-12 §8.11.12): a table of
// single-type boxes, each itself framed with its own 4-byte length prefix
// and FourCC rather than going through the general box registry.
type Iref struct {
	References []ItemReference
}

func (*Iref) AtomKind() FourCC { return kindIref }

func (a *Iref) DecodeBody(c *Cursor) error {
	ext, err := decodeExtPrefix(c)
	if err != nil {
		return err
	}
	if err := checkVersion(ext.Version, 0, 1); err != nil {
		return err
	}
	var refs []ItemReference
	for c.Remaining() > 0 {
		if _, err := c.U32(); err != nil { // per-reference box length, unused: envelope already bounds us
			return err
		}
		refType, err := c.FourCC()
		if err != nil {
			return err
		}
		var fromItemID uint32
		if ext.Version == 0 {
			v, err := c.U16()
			if err != nil {
				return err
			}
			fromItemID = uint32(v)
		} else {
			fromItemID, err = c.U32()
			if err != nil {
				return err
			}
		}
		refCount, err := c.U16()
		if err != nil {
			return err
		}
		toIDs := make([]uint32, 0, refCount)
		for i := uint16(0); i < refCount; i++ {
			if ext.Version == 0 {
				v, err := c.U16()
				if err != nil {
					return err
				}
				toIDs = append(toIDs, uint32(v))
			} else {
				v, err := c.U32()
				if err != nil {
					return err
				}
				toIDs = append(toIDs, v)
			}
		}
		refs = append(refs, ItemReference{ReferenceType: refType, FromItemID: fromItemID, ToItemIDs: toIDs})
	}
	a.References = refs
	return nil
}

func (a *Iref) EncodeBody(s *Sink) error {
	version := uint8(0)
	for _, r := range a.References {
		if r.FromItemID > 0xFFFF {
			version = 1
			break
		}
		for _, id := range r.ToItemIDs {
			if id > 0xFFFF {
				version = 1
				break
			}
		}
	}
	encodeExtPrefix(s, ExtPrefix{Version: version})
	idWidth := uint32(2)
	if version == 1 {
		idWidth = 4
	}
	for _, r := range a.References {
		size := 4 + 4 + idWidth + 2 + idWidth*uint32(len(r.ToItemIDs))
		s.WriteU32(size)
		s.WriteFourCC(r.ReferenceType)
		if version == 0 {
			s.WriteU16(uint16(r.FromItemID))
		} else {
			s.WriteU32(r.FromItemID)
		}
		if len(r.ToItemIDs) > 0xFFFF {
			return errMsg(ErrTooLarge, "iref reference count exceeds 16 bits")
		}
		s.WriteU16(uint16(len(r.ToItemIDs)))
		for _, id := range r.ToItemIDs {
			if version == 0 {
				s.WriteU16(uint16(id))
			} else {
				s.WriteU32(id)
			}
		}
	}
	return nil
}
