package box

func init() { register(kindSidx, func() Atom { return &Sidx{} }) }

var kindSidx = NewFourCC("sidx")

// SegmentReference is one entry of a segment index's reference table
// (ISO/IEC 14496-12 §8.16.3): whether it points at another sidx or at
// media, its byte size and duration, and its stream access point info.
type SegmentReference struct {
	ReferenceType      bool // true: refers to another sidx; false: refers to media
	ReferenceSize      uint32
	SubsegmentDuration uint32
	StartsWithSAP      bool
	SAPType            uint8 // low 3 bits
	SAPDeltaTime       uint32 // low 28 bits
}

// Sidx is the SegmentIndexBox, used by CMAF and DASH to locate segment
// boundaries and stream access points without scanning media data.
type Sidx struct {
	ReferenceID              uint32
	Timescale                uint32
	EarliestPresentationTime uint64
	FirstOffset              uint64
	References               []SegmentReference
}

func (*Sidx) AtomKind() FourCC { return kindSidx }

func (a *Sidx) DecodeBody(c *Cursor) error {
	ext, err := decodeExtPrefix(c)
	if err != nil {
		return err
	}
	if err := checkVersion(ext.Version, 0, 1); err != nil {
		return err
	}
	refID, err := c.U32()
	if err != nil {
		return err
	}
	timescale, err := c.U32()
	if err != nil {
		return err
	}
	var earliest, firstOffset uint64
	if ext.Version == 0 {
		v, err := c.U32()
		if err != nil {
			return err
		}
		earliest = uint64(v)
		v, err = c.U32()
		if err != nil {
			return err
		}
		firstOffset = uint64(v)
	} else {
		earliest, err = c.U64()
		if err != nil {
			return err
		}
		firstOffset, err = c.U64()
		if err != nil {
			return err
		}
	}
	if _, err := c.U16(); err != nil { // reserved
		return err
	}
	refCount, err := c.U16()
	if err != nil {
		return err
	}
	refs := make([]SegmentReference, 0, refCount)
	for i := uint16(0); i < refCount; i++ {
		typeAndSize, err := c.U32()
		if err != nil {
			return err
		}
		subsegmentDuration, err := c.U32()
		if err != nil {
			return err
		}
		sapWord, err := c.U32()
		if err != nil {
			return err
		}
		refs = append(refs, SegmentReference{
			ReferenceType:      typeAndSize&0x80000000 != 0,
			ReferenceSize:      typeAndSize & 0x7FFFFFFF,
			SubsegmentDuration: subsegmentDuration,
			StartsWithSAP:      sapWord&0x80000000 != 0,
			SAPType:            uint8((sapWord >> 28) & 0b111),
			SAPDeltaTime:       sapWord & 0x0FFFFFFF,
		})
	}
	a.ReferenceID = refID
	a.Timescale = timescale
	a.EarliestPresentationTime = earliest
	a.FirstOffset = firstOffset
	a.References = refs
	return nil
}

func (a *Sidx) EncodeBody(s *Sink) error {
	version := uint8(0)
	if a.EarliestPresentationTime > maxUint32 || a.FirstOffset > maxUint32 {
		version = 1
	}
	encodeExtPrefix(s, ExtPrefix{Version: version})
	s.WriteU32(a.ReferenceID)
	s.WriteU32(a.Timescale)
	if version == 0 {
		s.WriteU32(uint32(a.EarliestPresentationTime))
		s.WriteU32(uint32(a.FirstOffset))
	} else {
		s.WriteU64(a.EarliestPresentationTime)
		s.WriteU64(a.FirstOffset)
	}
	s.WriteU16(0) // reserved
	if len(a.References) > 0xFFFF {
		return errMsg(ErrTooLarge, "sidx reference count exceeds 16 bits")
	}
	s.WriteU16(uint16(len(a.References)))
	for _, r := range a.References {
		typeAndSize := r.ReferenceSize & 0x7FFFFFFF
		if r.ReferenceType {
			typeAndSize |= 0x80000000
		}
		s.WriteU32(typeAndSize)
		s.WriteU32(r.SubsegmentDuration)
		sapWord := uint32(r.SAPType&0b111)<<28 | r.SAPDeltaTime&0x0FFFFFFF
		if r.StartsWithSAP {
			sapWord |= 0x80000000
		}
		s.WriteU32(sapWord)
	}
	return nil
}
