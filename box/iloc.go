package box

func init() { register(kindIloc, func() Atom { return &Iloc{} }) }

var kindIloc = NewFourCC("iloc")

// ItemLocationExtent is one (offset, length) run of an item's data,
// optionally preceded by an index when the item spans multiple
// construction sources (§4.8 iloc).
type ItemLocationExtent struct {
	ItemReferenceIndex uint64
	Offset             uint64
	Length             uint64
}

// ItemLocation is one item's entry in an iloc table.
type ItemLocation struct {
	ItemID             uint32
	ConstructionMethod uint16
	DataReferenceIndex uint16
	BaseOffset         uint64
	Extents            []ItemLocationExtent
}

// Iloc is the ItemLocationBox (ISO/IEC 14496-12 §8.11.3): per-item byte
// ranges within the file or an alternate data source.
type Iloc struct {
	Items []ItemLocation
}

func (*Iloc) AtomKind() FourCC { return kindIloc }

func readSizedUint(c *Cursor, size int) (uint64, error) {
	switch size {
	case 0:
		return 0, nil
	case 4:
		v, err := c.U32()
		return uint64(v), err
	case 8:
		return c.U64()
	default:
		return 0, errMsg(ErrInvalidData, "iloc field size must be 0, 4, or 8")
	}
}

func writeSizedUint(s *Sink, v uint64, size int) error {
	switch size {
	case 0:
		return nil
	case 4:
		if v > maxUint32 {
			return errMsg(ErrInvalidData, "iloc value does not fit in 32 bits")
		}
		s.WriteU32(uint32(v))
	case 8:
		s.WriteU64(v)
	default:
		return errMsg(ErrInvalidData, "iloc field size must be 0, 4, or 8")
	}
	return nil
}

func (a *Iloc) DecodeBody(c *Cursor) error {
	ext, err := decodeExtPrefix(c)
	if err != nil {
		return err
	}
	if err := checkVersion(ext.Version, 0, 1, 2); err != nil {
		return err
	}
	sizes0, err := c.U8()
	if err != nil {
		return err
	}
	offsetSize := nibbleToSize(sizes0 >> 4)
	lengthSize := nibbleToSize(sizes0 & 0x0F)
	if offsetSize < 0 || lengthSize < 0 {
		return errMsg(ErrInvalidData, "iloc offset/length size must be 0, 4, or 8")
	}

	// sizes1 is present for every version; only its index_size nibble is
	// actually meaningful for V1/V2 (V0 has no per-extent index field).
	sizes1, err := c.U8()
	if err != nil {
		return err
	}
	baseOffsetSize := nibbleToSize(sizes1 >> 4)
	indexSize := nibbleToSize(sizes1 & 0x0F)
	if baseOffsetSize < 0 || indexSize < 0 {
		return errMsg(ErrInvalidData, "iloc base_offset/index size must be 0, 4, or 8")
	}
	if ext.Version == 0 {
		indexSize = 0
	}

	var itemCount uint32
	if ext.Version < 2 {
		v, err := c.U16()
		if err != nil {
			return err
		}
		itemCount = uint32(v)
	} else {
		itemCount, err = c.U32()
		if err != nil {
			return err
		}
	}

	items := make([]ItemLocation, 0, itemCount)
	for i := uint32(0); i < itemCount; i++ {
		var item ItemLocation
		if ext.Version < 2 {
			v, err := c.U16()
			if err != nil {
				return err
			}
			item.ItemID = uint32(v)
		} else {
			item.ItemID, err = c.U32()
			if err != nil {
				return err
			}
		}
		if ext.Version == 1 || ext.Version == 2 {
			v, err := c.U16()
			if err != nil {
				return err
			}
			item.ConstructionMethod = v & 0x000F
		}
		dri, err := c.U16()
		if err != nil {
			return err
		}
		item.DataReferenceIndex = dri
		item.BaseOffset, err = readSizedUint(c, baseOffsetSize)
		if err != nil {
			return err
		}
		extentCount, err := c.U16()
		if err != nil {
			return err
		}
		item.Extents = make([]ItemLocationExtent, 0, extentCount)
		for e := uint16(0); e < extentCount; e++ {
			var ext2 ItemLocationExtent
			if (ext.Version == 1 || ext.Version == 2) && indexSize > 0 {
				ext2.ItemReferenceIndex, err = readSizedUint(c, indexSize)
				if err != nil {
					return err
				}
			}
			ext2.Offset, err = readSizedUint(c, offsetSize)
			if err != nil {
				return err
			}
			ext2.Length, err = readSizedUint(c, lengthSize)
			if err != nil {
				return err
			}
			item.Extents = append(item.Extents, ext2)
		}
		items = append(items, item)
	}
	a.Items = items
	return nil
}

// nibbleToSize validates a 4-bit on-wire size selector is one of the
// three permitted byte widths (§4.8: "reject widths outside {0,4,8}").
func nibbleToSize(n uint8) int {
	switch n & 0x0F {
	case 0:
		return 0
	case 4:
		return 4
	case 8:
		return 8
	default:
		return -1
	}
}

func (a *Iloc) EncodeBody(s *Sink) error {
	// Always emits V0 with offset_size=4, length_size=4, index_size=0,
	// and base_offset_size chosen from the data (§4.8).
	var maxBase uint64
	for _, it := range a.Items {
		if it.BaseOffset > maxBase {
			maxBase = it.BaseOffset
		}
	}
	baseOffsetSize := 0
	switch {
	case maxBase == 0:
		baseOffsetSize = 0
	case maxBase <= maxUint32:
		baseOffsetSize = 4
	default:
		baseOffsetSize = 8
	}

	encodeExtPrefix(s, ExtPrefix{Version: 0})
	s.WriteU8(uint8(4<<4 | 4))
	s.WriteU8(uint8(baseOffsetSize<<4 | 0))
	if len(a.Items) > 0xFFFF {
		return errMsg(ErrTooLarge, "iloc item count exceeds 16 bits in V0")
	}
	s.WriteU16(uint16(len(a.Items)))
	for _, it := range a.Items {
		if it.ItemID > 0xFFFF {
			return errMsg(ErrTooLarge, "iloc item id exceeds 16 bits in V0")
		}
		s.WriteU16(uint16(it.ItemID))
		s.WriteU16(it.DataReferenceIndex)
		if err := writeSizedUint(s, it.BaseOffset, baseOffsetSize); err != nil {
			return err
		}
		if len(it.Extents) > 0xFFFF {
			return errMsg(ErrTooLarge, "iloc extent count exceeds 16 bits")
		}
		s.WriteU16(uint16(len(it.Extents)))
		for _, e := range it.Extents {
			if err := writeSizedUint(s, e.Offset, 4); err != nil {
				return err
			}
			if err := writeSizedUint(s, e.Length, 4); err != nil {
				return err
			}
		}
	}
	return nil
}

