package box

func init() {
	register(kindAvc1, func() Atom { return &Avc1{} })
	register(kindMp4a, func() Atom { return &Mp4a{} })
	register(kindFlaC, func() Atom { return &FlaC{} })
	register(kindEsds, func() Atom { return &Esds{} })
	register(kindAvcC, func() Atom { return &AvcC{} })
}

var (
	kindAvc1 = NewFourCC("avc1")
	kindMp4a = NewFourCC("mp4a")
	kindFlaC = NewFourCC("flaC")
	kindEsds = NewFourCC("esds")
	kindAvcC = NewFourCC("avcC")
)

// sampleEntryHeader is the 8-byte prefix shared by every sample entry
// body (reserved[6] + data_reference_index), ISO/IEC 14496-12 §8.5.2.
func decodeSampleEntryHeader(c *Cursor) (dataReferenceIndex uint16, err error) {
	if _, err = c.Bytes(6); err != nil {
		return 0, err
	}
	return c.U16()
}

func encodeSampleEntryHeader(s *Sink, dataReferenceIndex uint16) {
	s.WriteBytes(make([]byte, 6))
	s.WriteU16(dataReferenceIndex)
}

// Avc1 is the AVCSampleEntry (ISO/IEC 14496-15 §5.4.2): an H.264 video
// sample entry. The avcC configuration record is kept opaque (its own
// internal NAL-unit-length/SPS/PPS framing is out of scope here) while
// still round-tripping byte-exact.
type Avc1 struct {
	DataReferenceIndex uint16
	Width, Height      uint16
	HorizResolution    Fixed16
	VertResolution     Fixed16
	FrameCount         uint16
	CompressorName     string // 32-byte fixed Pascal-ish string field
	Depth              uint16
	AvcC               *AvcC
	Extra              []Box // any other children (e.g. "pasp", "btrt"), preserved verbatim
}

func (*Avc1) AtomKind() FourCC { return kindAvc1 }

func (a *Avc1) DecodeBody(c *Cursor) error {
	dri, err := decodeSampleEntryHeader(c)
	if err != nil {
		return err
	}
	if _, err := c.U16(); err != nil { // pre_defined
		return err
	}
	if _, err := c.U16(); err != nil { // reserved
		return err
	}
	for i := 0; i < 3; i++ {
		if _, err := c.U32(); err != nil { // pre_defined[3]
			return err
		}
	}
	width, err := c.U16()
	if err != nil {
		return err
	}
	height, err := c.U16()
	if err != nil {
		return err
	}
	horiz, err := decodeFixed16(c)
	if err != nil {
		return err
	}
	vert, err := decodeFixed16(c)
	if err != nil {
		return err
	}
	if _, err := c.U32(); err != nil { // reserved
		return err
	}
	frameCount, err := c.U16()
	if err != nil {
		return err
	}
	compressor, err := c.FixedString(32)
	if err != nil {
		return err
	}
	depth, err := c.U16()
	if err != nil {
		return err
	}
	if _, err := c.I16(); err != nil { // pre_defined = -1
		return err
	}
	a.DataReferenceIndex = dri
	a.Width = width
	a.Height = height
	a.HorizResolution = horiz
	a.VertResolution = vert
	a.FrameCount = frameCount
	a.CompressorName = compressor
	a.Depth = depth
	for c.Remaining() > 0 {
		b, err := DecodeBox(c)
		if err != nil {
			return err
		}
		if b.Kind() == kindAvcC && !b.IsUnknown() {
			v := *b.Body.(*AvcC)
			a.AvcC = &v
			continue
		}
		a.Extra = append(a.Extra, b)
	}
	return nil
}

func (a *Avc1) EncodeBody(s *Sink) error {
	encodeSampleEntryHeader(s, a.DataReferenceIndex)
	s.WriteU16(0)
	s.WriteU16(0)
	s.WriteU32(0)
	s.WriteU32(0)
	s.WriteU32(0)
	s.WriteU16(a.Width)
	s.WriteU16(a.Height)
	a.HorizResolution.encode(s)
	a.VertResolution.encode(s)
	s.WriteU32(0)
	s.WriteU16(a.FrameCount)
	s.WriteFixedString(a.CompressorName, 32)
	s.WriteU16(a.Depth)
	s.WriteI16(-1)
	if a.AvcC != nil {
		if err := EncodeAtom(s, kindAvcC, a.AvcC); err != nil {
			return err
		}
	}
	for _, b := range a.Extra {
		if err := EncodeBox(s, b); err != nil {
			return err
		}
	}
	return nil
}

// AvcC is the AVCConfigurationBox (ISO/IEC 14496-15 §5.3.3.1): the raw
// AVCDecoderConfigurationRecord, kept opaque since nothing in this
// package needs to inspect individual parameter sets.
type AvcC struct {
	Raw []byte
}

func (*AvcC) AtomKind() FourCC { return kindAvcC }

func (a *AvcC) DecodeBody(c *Cursor) error {
	a.Raw = c.RestBytes()
	return nil
}

func (a *AvcC) EncodeBody(s *Sink) error {
	s.WriteBytes(a.Raw)
	return nil
}

// Mp4a is the MP4AudioSampleEntry (ISO/IEC 14496-14 §6.7.1): an MPEG-4
// audio (typically AAC) sample entry wrapping an esds configuration box.
type Mp4a struct {
	DataReferenceIndex uint16
	ChannelCount       uint16
	SampleSize         uint16
	SampleRate         Fixed16 // high 16 bits carry the integer rate; low 16 are always zero on the wire
	Esds               Esds
	Extra              []Box
}

func (*Mp4a) AtomKind() FourCC { return kindMp4a }

func (a *Mp4a) DecodeBody(c *Cursor) error {
	dri, err := decodeSampleEntryHeader(c)
	if err != nil {
		return err
	}
	for i := 0; i < 2; i++ {
		if _, err := c.U32(); err != nil { // reserved[2]
			return err
		}
	}
	channelCount, err := c.U16()
	if err != nil {
		return err
	}
	sampleSize, err := c.U16()
	if err != nil {
		return err
	}
	if _, err := c.U16(); err != nil { // pre_defined
		return err
	}
	if _, err := c.U16(); err != nil { // reserved
		return err
	}
	sampleRate, err := decodeFixed16(c)
	if err != nil {
		return err
	}
	a.DataReferenceIndex = dri
	a.ChannelCount = channelCount
	a.SampleSize = sampleSize
	a.SampleRate = sampleRate
	sawEsds := false
	for c.Remaining() > 0 {
		b, err := DecodeBox(c)
		if err != nil {
			return err
		}
		if b.Kind() == kindEsds && !b.IsUnknown() {
			a.Esds = *b.Body.(*Esds)
			sawEsds = true
			continue
		}
		a.Extra = append(a.Extra, b)
	}
	if !sawEsds {
		return errBox(ErrMissingBox, kindEsds)
	}
	return nil
}

func (a *Mp4a) EncodeBody(s *Sink) error {
	encodeSampleEntryHeader(s, a.DataReferenceIndex)
	s.WriteU32(0)
	s.WriteU32(0)
	s.WriteU16(a.ChannelCount)
	s.WriteU16(a.SampleSize)
	s.WriteU16(0)
	s.WriteU16(0)
	a.SampleRate.encode(s)
	if err := EncodeAtom(s, kindEsds, &a.Esds); err != nil {
		return err
	}
	for _, b := range a.Extra {
		if err := EncodeBox(s, b); err != nil {
			return err
		}
	}
	return nil
}

// Esds is the ESDBox (ISO/IEC 14496-14 §6.7.2): a full box wrapping
// exactly one ES_Descriptor. The descriptor framing itself (tag + 7-bit
// continuation length) lives in descriptor.go.
type Esds struct {
	Descriptor ESDescr
}

func (*Esds) AtomKind() FourCC { return kindEsds }

func (a *Esds) DecodeBody(c *Cursor) error {
	ext, err := decodeExtPrefix(c)
	if err != nil {
		return err
	}
	if err := checkVersion(ext.Version, 0); err != nil {
		return err
	}
	d, err := DecodeDescriptor(c)
	if err != nil {
		return err
	}
	if d.Body == nil {
		return errDescriptor(ErrUnexpectedDescriptor, d.Tag)
	}
	es, ok := d.Body.(*ESDescr)
	if !ok {
		return errDescriptor(ErrUnexpectedDescriptor, d.Tag)
	}
	a.Descriptor = *es
	return nil
}

func (a *Esds) EncodeBody(s *Sink) error {
	encodeExtPrefix(s, ExtPrefix{})
	d := a.Descriptor
	return EncodeDescriptor(s, Descriptor{Tag: descrTagESDescr, Body: &d})
}

// FlaC is the FLACSampleEntry (the "FLAC in ISOBMFF" mapping's audio
// sample entry): identical header layout to Mp4a, wrapping a dfLa box
// instead of esds.
type FlaC struct {
	DataReferenceIndex uint16
	ChannelCount       uint16
	SampleSize         uint16
	SampleRate         Fixed16
	Dfla               Dfla
	Extra              []Box
}

func (*FlaC) AtomKind() FourCC { return kindFlaC }

func (a *FlaC) DecodeBody(c *Cursor) error {
	dri, err := decodeSampleEntryHeader(c)
	if err != nil {
		return err
	}
	for i := 0; i < 2; i++ {
		if _, err := c.U32(); err != nil { // reserved[2]
			return err
		}
	}
	channelCount, err := c.U16()
	if err != nil {
		return err
	}
	sampleSize, err := c.U16()
	if err != nil {
		return err
	}
	if _, err := c.U16(); err != nil { // pre_defined
		return err
	}
	if _, err := c.U16(); err != nil { // reserved
		return err
	}
	sampleRate, err := decodeFixed16(c)
	if err != nil {
		return err
	}
	a.DataReferenceIndex = dri
	a.ChannelCount = channelCount
	a.SampleSize = sampleSize
	a.SampleRate = sampleRate
	sawDfla := false
	for c.Remaining() > 0 {
		b, err := DecodeBox(c)
		if err != nil {
			return err
		}
		if b.Kind() == kindDfLa && !b.IsUnknown() {
			a.Dfla = *b.Body.(*Dfla)
			sawDfla = true
			continue
		}
		a.Extra = append(a.Extra, b)
	}
	if !sawDfla {
		return errBox(ErrMissingBox, kindDfLa)
	}
	return nil
}

func (a *FlaC) EncodeBody(s *Sink) error {
	encodeSampleEntryHeader(s, a.DataReferenceIndex)
	s.WriteU32(0)
	s.WriteU32(0)
	s.WriteU16(a.ChannelCount)
	s.WriteU16(a.SampleSize)
	s.WriteU16(0)
	s.WriteU16(0)
	a.SampleRate.encode(s)
	if err := EncodeAtom(s, kindDfLa, &a.Dfla); err != nil {
		return err
	}
	for _, b := range a.Extra {
		if err := EncodeBox(s, b); err != nil {
			return err
		}
	}
	return nil
}
