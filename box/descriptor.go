package box

// Descriptor tags, MPEG-4 systems (ISO/IEC 14496-1) §7.2.6.
const (
	descrTagESDescr           uint8 = 0x03
	descrTagDecoderConfig     uint8 = 0x04
	descrTagDecSpecificInfo   uint8 = 0x05
	descrTagSLConfigDescr     uint8 = 0x06
)

// Descriptor is the closed descriptor union parallel to the atom
// registry: a tag, a variable-length length, and a body. Unknown tags
// become an opaque payload rather than an error (§4.6, §3).
type Descriptor struct {
	Tag  uint8
	Body DescriptorBody // nil for unknown tags
	Raw  []byte         // only set when Body == nil
}

// DescriptorBody is implemented by each recognized descriptor payload.
type DescriptorBody interface {
	decodeDescriptorBody(c *Cursor) error
	encodeDescriptorBody(s *Sink) error
}

var descriptorRegistry = map[uint8]func() DescriptorBody{
	descrTagESDescr:         func() DescriptorBody { return &ESDescr{} },
	descrTagDecoderConfig:   func() DescriptorBody { return &DecoderConfigDescr{} },
	descrTagDecSpecificInfo: func() DescriptorBody { return &DecSpecificInfo{} },
	descrTagSLConfigDescr:   func() DescriptorBody { return &SLConfigDescr{} },
}

// decodeDescriptorLen reads the 1-4 byte continuation-encoded length:
// each byte contributes its low 7 bits, and the high bit means "more
// follows".
func decodeDescriptorLen(c *Cursor) (uint32, error) {
	var v uint32
	for i := 0; i < 4; i++ {
		b, err := c.U8()
		if err != nil {
			return 0, err
		}
		v = v<<7 | uint32(b&0x7F)
		if b&0x80 == 0 {
			return v, nil
		}
	}
	return v, nil
}

// encodeDescriptorLen writes n in the continuation-encoded form, using
// the minimum number of bytes.
func encodeDescriptorLen(s *Sink, n uint32) {
	// Determine minimum byte count (1-4) able to hold n in 7-bit groups.
	nbytes := 1
	for shift := uint(7); n>>shift != 0 && nbytes < 4; shift += 7 {
		nbytes++
	}
	for i := nbytes - 1; i >= 0; i-- {
		b := byte((n >> uint(7*i)) & 0x7F)
		if i > 0 {
			b |= 0x80
		}
		s.WriteU8(b)
	}
}

// DecodeDescriptor reads one tag+length+body triple from c.
func DecodeDescriptor(c *Cursor) (Descriptor, error) {
	tag, err := c.U8()
	if err != nil {
		return Descriptor{}, err
	}
	n, err := decodeDescriptorLen(c)
	if err != nil {
		return Descriptor{}, err
	}
	inner, err := c.Slice(int(n))
	if err != nil {
		return Descriptor{}, errMsg(ErrOutOfBounds, "descriptor body exceeds envelope")
	}
	newBody, ok := descriptorRegistry[tag]
	if !ok {
		return Descriptor{Tag: tag, Raw: inner.RestBytes()}, nil
	}
	body := newBody()
	if err := body.decodeDescriptorBody(inner); err != nil {
		return Descriptor{}, err
	}
	return Descriptor{Tag: tag, Body: body}, nil
}

// EncodeDescriptor writes a tag+length+body triple, measuring the body
// into a scratch sink first since the length must precede it.
func EncodeDescriptor(s *Sink, d Descriptor) error {
	scratch := NewSink()
	if d.Body != nil {
		if err := d.Body.encodeDescriptorBody(scratch); err != nil {
			return err
		}
	} else {
		scratch.WriteBytes(d.Raw)
	}
	s.WriteU8(d.Tag)
	encodeDescriptorLen(s, uint32(scratch.Len()))
	s.WriteBytes(scratch.Bytes())
	return nil
}

// ESDescr (tag 3): the top-level elementary stream descriptor wrapping an
// esds body. DecSpecificInfo coverage here, as in the donor, is limited
// to opaque passthrough of AudioSpecificConfig bytes rather than a fully
// parsed MPEG-4 object-type union (SPEC_FULL.md §9).
type ESDescr struct {
	ESID                 uint16
	StreamDependenceFlag bool
	URLFlag              bool
	OCRStreamFlag        bool
	StreamPriority       uint8 // low 5 bits
	DependsOnESID        uint16
	URL                  string
	OCRESID              uint16
	DecoderConfig        *DecoderConfigDescr
	SLConfig             *SLConfigDescr
}

func (d *ESDescr) decodeDescriptorBody(c *Cursor) error {
	esid, err := c.U16()
	if err != nil {
		return err
	}
	flags, err := c.U8()
	if err != nil {
		return err
	}
	d.ESID = esid
	d.StreamDependenceFlag = flags&0x80 != 0
	d.URLFlag = flags&0x40 != 0
	d.OCRStreamFlag = flags&0x20 != 0
	d.StreamPriority = flags & 0x1F
	if d.StreamDependenceFlag {
		v, err := c.U16()
		if err != nil {
			return err
		}
		d.DependsOnESID = v
	}
	if d.URLFlag {
		n, err := c.U8()
		if err != nil {
			return err
		}
		b, err := c.Bytes(int(n))
		if err != nil {
			return err
		}
		d.URL = string(b)
	}
	if d.OCRStreamFlag {
		v, err := c.U16()
		if err != nil {
			return err
		}
		d.OCRESID = v
	}
	for c.Remaining() > 0 {
		desc, err := DecodeDescriptor(c)
		if err != nil {
			return err
		}
		switch body := desc.Body.(type) {
		case *DecoderConfigDescr:
			d.DecoderConfig = body
		case *SLConfigDescr:
			d.SLConfig = body
		}
	}
	return nil
}

func (d *ESDescr) encodeDescriptorBody(s *Sink) error {
	s.WriteU16(d.ESID)
	var flags uint8
	if d.StreamDependenceFlag {
		flags |= 0x80
	}
	if d.URLFlag {
		flags |= 0x40
	}
	if d.OCRStreamFlag {
		flags |= 0x20
	}
	flags |= d.StreamPriority & 0x1F
	s.WriteU8(flags)
	if d.StreamDependenceFlag {
		s.WriteU16(d.DependsOnESID)
	}
	if d.URLFlag {
		s.WriteU8(uint8(len(d.URL)))
		s.WriteBytes([]byte(d.URL))
	}
	if d.OCRStreamFlag {
		s.WriteU16(d.OCRESID)
	}
	if d.DecoderConfig != nil {
		if err := EncodeDescriptor(s, Descriptor{Tag: descrTagDecoderConfig, Body: d.DecoderConfig}); err != nil {
			return err
		}
	}
	if d.SLConfig != nil {
		if err := EncodeDescriptor(s, Descriptor{Tag: descrTagSLConfigDescr, Body: d.SLConfig}); err != nil {
			return err
		}
	}
	return nil
}

// DecoderConfigDescr (tag 4): codec object type plus an opaque
// DecSpecificInfo payload (commonly AAC AudioSpecificConfig).
type DecoderConfigDescr struct {
	ObjectTypeIndication uint8
	StreamType           uint8 // high 6 bits of the stream-type byte
	UpStream             bool
	BufferSizeDB         uint32 // 24 bits
	MaxBitrate           uint32
	AvgBitrate           uint32
	DecSpecificInfo      []byte
}

func (d *DecoderConfigDescr) decodeDescriptorBody(c *Cursor) error {
	v, err := c.U8()
	if err != nil {
		return err
	}
	d.ObjectTypeIndication = v
	b, err := c.U8()
	if err != nil {
		return err
	}
	d.StreamType = b >> 2
	d.UpStream = b&0x02 != 0
	bsdb, err := c.U24()
	if err != nil {
		return err
	}
	d.BufferSizeDB = bsdb
	if d.MaxBitrate, err = c.U32(); err != nil {
		return err
	}
	if d.AvgBitrate, err = c.U32(); err != nil {
		return err
	}
	for c.Remaining() > 0 {
		desc, err := DecodeDescriptor(c)
		if err != nil {
			return err
		}
		if desc.Tag == descrTagDecSpecificInfo {
			if dsi, ok := desc.Body.(*DecSpecificInfo); ok {
				d.DecSpecificInfo = dsi.Data
			} else {
				d.DecSpecificInfo = desc.Raw
			}
		}
	}
	return nil
}

func (d *DecoderConfigDescr) encodeDescriptorBody(s *Sink) error {
	s.WriteU8(d.ObjectTypeIndication)
	s.WriteU8(d.StreamType<<2 | boolBit(d.UpStream, 0x02) | 0x01)
	s.WriteU24(d.BufferSizeDB)
	s.WriteU32(d.MaxBitrate)
	s.WriteU32(d.AvgBitrate)
	if len(d.DecSpecificInfo) > 0 {
		dsi := &DecSpecificInfo{Data: d.DecSpecificInfo}
		if err := EncodeDescriptor(s, Descriptor{Tag: descrTagDecSpecificInfo, Body: dsi}); err != nil {
			return err
		}
	}
	return nil
}

func boolBit(v bool, bit uint8) uint8 {
	if v {
		return bit
	}
	return 0
}

// DecSpecificInfo (tag 5): opaque codec-specific config, e.g. AAC
// AudioSpecificConfig. Left unparsed deliberately (SPEC_FULL.md §9/§4.6).
type DecSpecificInfo struct {
	Data []byte
}

func (d *DecSpecificInfo) decodeDescriptorBody(c *Cursor) error {
	d.Data = c.RestBytes()
	return nil
}

func (d *DecSpecificInfo) encodeDescriptorBody(s *Sink) error {
	s.WriteBytes(d.Data)
	return nil
}

// SLConfigDescr (tag 6): sync-layer configuration; this library only
// round-trips the common "predefined" single-byte form.
type SLConfigDescr struct {
	Predefined uint8
}

func (d *SLConfigDescr) decodeDescriptorBody(c *Cursor) error {
	v, err := c.U8()
	if err != nil {
		return err
	}
	d.Predefined = v
	return nil
}

func (d *SLConfigDescr) encodeDescriptorBody(s *Sink) error {
	s.WriteU8(d.Predefined)
	return nil
}
