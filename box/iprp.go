package box

func init() {
	register(kindIprp, func() Atom { return &Iprp{} })
	register(kindIpco, func() Atom { return &Ipco{} })
	register(kindIpma, func() Atom { return &Ipma{} })
}

var (
	kindIprp = NewFourCC("iprp")
	kindIpco = NewFourCC("ipco")
	kindIpma = NewFourCC("ipma")
)

// Iprp is the ItemPropertiesBox (ISO/IEC 14496-12 §8.11.14): a container
// pairing one ItemPropertyContainerBox with one or more item-property
// association tables.
type Iprp struct {
	Ipco Ipco
	Ipma []Ipma
}

func (*Iprp) AtomKind() FourCC { return kindIprp }

var iprpSpec = containerSpec{
	Required: []FourCC{kindIpco},
	Multiple: []FourCC{kindIpma},
}

func (a *Iprp) DecodeBody(c *Cursor) error {
	res, err := decodeContainer(c, iprpSpec)
	if err != nil {
		return err
	}
	a.Ipco = *res.Single[kindIpco].Body.(*Ipco)
	for _, b := range res.Multi[kindIpma] {
		a.Ipma = append(a.Ipma, *b.Body.(*Ipma))
	}
	return nil
}

func (a *Iprp) EncodeBody(s *Sink) error {
	res := &containerResult{
		Single: map[FourCC]Box{kindIpco: {kind: kindIpco, Body: &a.Ipco}},
		Multi:  map[FourCC][]Box{},
	}
	for i := range a.Ipma {
		res.Multi[kindIpma] = append(res.Multi[kindIpma], Box{kind: kindIpma, Body: &a.Ipma[i]})
	}
	return encodeContainer(s, iprpSpec, res)
}

// Ipco is the ItemPropertyContainerBox: an ordered list of arbitrary boxes
// ("properties"), referenced by 1-based index from Ipma associations. Order
// matters and duplicates are permitted, so this does not go through the
// general nested-composition helper.
type Ipco struct {
	Properties []Box
}

func (*Ipco) AtomKind() FourCC { return kindIpco }

func (a *Ipco) DecodeBody(c *Cursor) error {
	var props []Box
	for c.Remaining() > 0 {
		b, present, err := DecodeMaybeBox(c)
		if err != nil {
			return err
		}
		if !present {
			break
		}
		props = append(props, b)
	}
	a.Properties = props
	return nil
}

func (a *Ipco) EncodeBody(s *Sink) error {
	for _, p := range a.Properties {
		if err := EncodeBox(s, p); err != nil {
			return err
		}
	}
	return nil
}

const ipmaPropIndex15BitsFlag = 0

// PropertyAssociation is one (essential, property_index) pair linking an
// item to one entry of the enclosing Ipco's property list (1-based).
type PropertyAssociation struct {
	Essential      bool
	PropertyIndex  uint16
}

// PropertyAssociations is the full set of property associations for one
// item.
type PropertyAssociations struct {
	ItemID       uint32
	Associations []PropertyAssociation
}

// Ipma is the ItemPropertyAssociationBox: maps each item to the Ipco
// properties that apply to it.
type Ipma struct {
	ItemProperties []PropertyAssociations
}

func (*Ipma) AtomKind() FourCC { return kindIpma }

func (a *Ipma) DecodeBody(c *Cursor) error {
	ext, err := decodeExtPrefix(c)
	if err != nil {
		return err
	}
	if err := checkVersion(ext.Version, 0, 1); err != nil {
		return err
	}
	wide := flagBit(ext.Flags, ipmaPropIndex15BitsFlag)
	entryCount, err := c.U32()
	if err != nil {
		return err
	}
	items := make([]PropertyAssociations, 0, entryCount)
	for i := uint32(0); i < entryCount; i++ {
		var itemID uint32
		if ext.Version == 0 {
			v, err := c.U16()
			if err != nil {
				return err
			}
			itemID = uint32(v)
		} else {
			itemID, err = c.U32()
			if err != nil {
				return err
			}
		}
		assocCount, err := c.U8()
		if err != nil {
			return err
		}
		assocs := make([]PropertyAssociation, 0, assocCount)
		for j := uint8(0); j < assocCount; j++ {
			if wide {
				v, err := c.U16()
				if err != nil {
					return err
				}
				assocs = append(assocs, PropertyAssociation{Essential: v&0x8000 != 0, PropertyIndex: v & 0x7FFF})
			} else {
				v, err := c.U8()
				if err != nil {
					return err
				}
				assocs = append(assocs, PropertyAssociation{Essential: v&0x80 != 0, PropertyIndex: uint16(v & 0x7F)})
			}
		}
		items = append(items, PropertyAssociations{ItemID: itemID, Associations: assocs})
	}
	a.ItemProperties = items
	return nil
}

func (a *Ipma) EncodeBody(s *Sink) error {
	version := uint8(0)
	wide := false
	for _, ip := range a.ItemProperties {
		if ip.ItemID > 0xFFFF {
			version = 1
		}
		for _, assoc := range ip.Associations {
			if assoc.PropertyIndex > 0x7F {
				wide = true
			}
		}
	}
	var flags uint32
	setFlagBit(&flags, ipmaPropIndex15BitsFlag, wide)
	encodeExtPrefix(s, ExtPrefix{Version: version, Flags: flags})
	if len(a.ItemProperties) > maxUint32 {
		return errMsg(ErrTooLarge, "ipma entry count exceeds 32 bits")
	}
	s.WriteU32(uint32(len(a.ItemProperties)))
	for _, ip := range a.ItemProperties {
		if version == 0 {
			s.WriteU16(uint16(ip.ItemID))
		} else {
			s.WriteU32(ip.ItemID)
		}
		if len(ip.Associations) > 0xFF {
			return errMsg(ErrTooLarge, "ipma association count exceeds 8 bits")
		}
		s.WriteU8(uint8(len(ip.Associations)))
		for _, assoc := range ip.Associations {
			if wide {
				v := assoc.PropertyIndex & 0x7FFF
				if assoc.Essential {
					v |= 0x8000
				}
				s.WriteU16(v)
			} else {
				v := uint8(assoc.PropertyIndex & 0x7F)
				if assoc.Essential {
					v |= 0x80
				}
				s.WriteU8(v)
			}
		}
	}
	return nil
}
