package box

func init() { register(kindChnl, func() Atom { return &Chnl{} }) }

var kindChnl = NewFourCC("chnl")

// AudioChannelPosition enumerates ISO/IEC 23091-3 loudspeaker positions.
// Values 32-35 and 45-125 are reserved and never decode successfully.
type AudioChannelPosition uint8

const (
	ChannelFrontLeft          AudioChannelPosition = 0
	ChannelFrontRight         AudioChannelPosition = 1
	ChannelFrontCenter        AudioChannelPosition = 2
	ChannelLfe1               AudioChannelPosition = 3
	ChannelLeftSurround       AudioChannelPosition = 4
	ChannelRightSurround      AudioChannelPosition = 5
	ChannelFrontLeftOfCenter  AudioChannelPosition = 6
	ChannelFrontRightOfCenter AudioChannelPosition = 7
	ChannelRearLeft           AudioChannelPosition = 8
	ChannelRearRight          AudioChannelPosition = 9
	ChannelRearCenter         AudioChannelPosition = 10
	ChannelSurroundLeft       AudioChannelPosition = 11
	ChannelSurroundRight      AudioChannelPosition = 12
	ChannelSideLeft           AudioChannelPosition = 13
	ChannelSideRight          AudioChannelPosition = 14
	ChannelFrontLeftWide      AudioChannelPosition = 15
	ChannelFrontRightWide     AudioChannelPosition = 16
	ChannelTopFrontLeft       AudioChannelPosition = 17
	ChannelTopFrontRight      AudioChannelPosition = 18
	ChannelTopFrontCenter     AudioChannelPosition = 19
	ChannelTopRearLeft        AudioChannelPosition = 20
	ChannelTopRearRight       AudioChannelPosition = 21
	ChannelTopRearCenter      AudioChannelPosition = 22
	ChannelTopSideLeft        AudioChannelPosition = 23
	ChannelTopSideRight       AudioChannelPosition = 24
	ChannelTopCenter          AudioChannelPosition = 25
	ChannelLfe2               AudioChannelPosition = 26
	ChannelBottomFrontLeft    AudioChannelPosition = 27
	ChannelBottomFrontRight   AudioChannelPosition = 28
	ChannelBottomFrontCenter  AudioChannelPosition = 29
	ChannelTopSurroundLeft    AudioChannelPosition = 30
	ChannelTopSurroundRight   AudioChannelPosition = 31
	ChannelLfe3               AudioChannelPosition = 36
	ChannelLeos               AudioChannelPosition = 37
	ChannelReos               AudioChannelPosition = 38
	ChannelHwbcal             AudioChannelPosition = 39
	ChannelHwbcar             AudioChannelPosition = 40
	ChannelLbs                AudioChannelPosition = 41
	ChannelRbs                AudioChannelPosition = 42
	ChannelLeftEar            AudioChannelPosition = 43
	ChannelRightEar           AudioChannelPosition = 44
	ChannelUnknown            AudioChannelPosition = 127
)

func validAudioChannelPosition(v uint8) bool {
	switch {
	case v <= 31:
		return true
	case v >= 36 && v <= 44:
		return true
	case v == 127:
		return true
	default:
		return false
	}
}

// channelLayoutSizes gives each pre-defined layout's channel count (ISO/IEC
// 23091-3:2018/Amd.1:2022 Table 3), indexed by layout number. A zero entry
// at an otherwise-valid index (8) or any index beyond the table is an empty
// or reserved layout.
var channelLayoutSizes = []int{
	0, 1, 2, 3, 4, 5, 6, 8, 0, 3, 4, 7, 8, 23, 8, 12, 10, 12, 14, 12, 14, 2,
}

func channelLayoutChannelCount(layout uint8) int {
	if int(layout) < len(channelLayoutSizes) {
		return channelLayoutSizes[layout]
	}
	return 0
}

// ExplicitSpeakerPosition is an azimuth/elevation pair used when a speaker
// position is not one of the predefined AudioChannelPosition values.
type ExplicitSpeakerPosition struct {
	Azimuth   int16
	Elevation int8
}

// SpeakerPosition is one entry of an explicit-positions channel structure:
// either a standard predefined position or an explicit azimuth/elevation.
type SpeakerPosition struct {
	Standard AudioChannelPosition
	Explicit *ExplicitSpeakerPosition // non-nil means Explicit, not Standard
}

// ChannelStructure is either an explicit list of speaker positions or a
// reference to a pre-defined layout, optionally with an omitted-channels
// bitmap and (version 1 only) a channel order definition.
type ChannelStructure struct {
	Positions               []SpeakerPosition // set iff this is explicit positions
	Layout                  uint8             // set iff this is a defined layout (Positions == nil)
	OmittedChannelsMap      *uint64
	ChannelOrderDefinition  *uint8
}

func (cs *ChannelStructure) isExplicit() bool { return cs.Positions != nil }

func (cs *ChannelStructure) channelCount() uint8 {
	if cs.isExplicit() {
		return uint8(len(cs.Positions))
	}
	return uint8(channelLayoutChannelCount(cs.Layout))
}

// Chnl is the ChannelLayoutBox (ISO/IEC 14496-12:2022 §12.2.4): the
// loudspeaker or object layout of an audio sample entry's channels.
//
// Version 0 and version 1 carry different field sets; ObjectCount,
// FormatOrdering and BaseChannelCount are only meaningful (non-nil) for the
// version that defines them. DecodeBody decodes both versions. Version 0's
// explicit speaker positions carry no count of their own, so DecodeBody
// reads them up to the end of the box (less a trailing object_count byte
// when the layout is also object-structured); DecodeBodyWithChannelCount takes
// that count from the enclosing sample entry instead.
type Chnl struct {
	ChannelStructure *ChannelStructure
	ObjectCount      *uint8
	FormatOrdering   *uint8
	BaseChannelCount *uint8
}

func (*Chnl) AtomKind() FourCC { return kindChnl }

func decodeSpeakerPosition(c *Cursor) (SpeakerPosition, error) {
	v, err := c.U8()
	if err != nil {
		return SpeakerPosition{}, err
	}
	if v == 126 {
		azimuth, err := c.I16()
		if err != nil {
			return SpeakerPosition{}, err
		}
		elevation, err := c.I8()
		if err != nil {
			return SpeakerPosition{}, err
		}
		return SpeakerPosition{Explicit: &ExplicitSpeakerPosition{Azimuth: azimuth, Elevation: elevation}}, nil
	}
	if !validAudioChannelPosition(v) {
		return SpeakerPosition{}, errMsg(ErrUnsupported, "invalid speaker position")
	}
	return SpeakerPosition{Standard: AudioChannelPosition(v)}, nil
}

func encodeSpeakerPosition(s *Sink, p SpeakerPosition) {
	if p.Explicit != nil {
		s.WriteU8(126)
		s.WriteI16(p.Explicit.Azimuth)
		s.WriteI8(p.Explicit.Elevation)
		return
	}
	s.WriteU8(uint8(p.Standard))
}

type chnlStreamStructure struct {
	channelStructured bool
	objectStructured  bool
}

func decodeStreamStructureV0(c *Cursor) (chnlStreamStructure, error) {
	v, err := c.U8()
	if err != nil {
		return chnlStreamStructure{}, err
	}
	return chnlStreamStructure{channelStructured: v&0x01 != 0, objectStructured: v&0x02 != 0}, nil
}

func decodeStreamStructureV1(c *Cursor) (chnlStreamStructure, uint8, error) {
	b, err := c.U8()
	if err != nil {
		return chnlStreamStructure{}, 0, err
	}
	ss := (b >> 4) & 0x0F
	formatOrdering := b & 0x0F
	return chnlStreamStructure{channelStructured: ss&0x01 != 0, objectStructured: ss&0x02 != 0}, formatOrdering, nil
}

func decodeChannelStructureV0(c *Cursor, channelCount *uint16, objectStructured bool) (*ChannelStructure, error) {
	layout, err := c.U8()
	if err != nil {
		return nil, err
	}
	if layout == 0 {
		var positions []SpeakerPosition
		if channelCount != nil {
			positions = make([]SpeakerPosition, 0, *channelCount)
			for i := uint16(0); i < *channelCount; i++ {
				p, err := decodeSpeakerPosition(c)
				if err != nil {
					return nil, err
				}
				positions = append(positions, p)
			}
		} else {
			// Channel count unknown: read until end of envelope, reserving
			// the trailing object_count byte when object-structured.
			reserved := 0
			if objectStructured {
				reserved = 1
			}
			for c.Remaining() > reserved {
				p, err := decodeSpeakerPosition(c)
				if err != nil {
					return nil, err
				}
				positions = append(positions, p)
			}
		}
		return &ChannelStructure{Positions: positions}, nil
	}
	omitted, err := c.U64()
	if err != nil {
		return nil, err
	}
	return &ChannelStructure{Layout: layout, OmittedChannelsMap: &omitted}, nil
}

func decodeChannelStructureV1(c *Cursor) (*ChannelStructure, error) {
	layout, err := c.U8()
	if err != nil {
		return nil, err
	}
	if layout == 0 {
		n, err := c.U8()
		if err != nil {
			return nil, err
		}
		positions := make([]SpeakerPosition, 0, n)
		for i := uint8(0); i < n; i++ {
			p, err := decodeSpeakerPosition(c)
			if err != nil {
				return nil, err
			}
			positions = append(positions, p)
		}
		return &ChannelStructure{Positions: positions}, nil
	}
	b, err := c.U8()
	if err != nil {
		return nil, err
	}
	orderDef := (b >> 1) & 0x07
	if orderDef > 4 {
		return nil, errMsg(ErrUnsupported, "invalid channel order definition")
	}
	var omitted *uint64
	if b&0x01 != 0 {
		v, err := c.U64()
		if err != nil {
			return nil, err
		}
		omitted = &v
	}
	return &ChannelStructure{Layout: layout, OmittedChannelsMap: omitted, ChannelOrderDefinition: &orderDef}, nil
}

// objectCountV1 derives the version-1 implicit object count (ISO/IEC
// 14496-12:2022 §12.2.4.3): baseChannelCount minus the channel structure's
// channel count, or nil if that comes out to zero.
func objectCountV1(cs *ChannelStructure, baseChannelCount uint8) *uint8 {
	if cs == nil {
		return nil
	}
	count := baseChannelCount
	cc := cs.channelCount()
	if cc > count {
		count = 0
	} else {
		count -= cc
	}
	if count == 0 {
		return nil
	}
	return &count
}

func encodeChannelStructureV0(s *Sink, cs *ChannelStructure) error {
	if cs == nil {
		return nil
	}
	if cs.isExplicit() {
		s.WriteU8(0)
		for _, p := range cs.Positions {
			encodeSpeakerPosition(s, p)
		}
		return nil
	}
	s.WriteU8(cs.Layout)
	if cs.OmittedChannelsMap == nil {
		return errMsg(ErrUnsupported, "omitted_channels_map required for version 0 defined layout")
	}
	s.WriteU64(*cs.OmittedChannelsMap)
	return nil
}

func encodeChannelStructureV1(s *Sink, cs *ChannelStructure) {
	if cs == nil {
		return
	}
	if cs.isExplicit() {
		s.WriteU8(0)
		s.WriteU8(uint8(len(cs.Positions)))
		for _, p := range cs.Positions {
			encodeSpeakerPosition(s, p)
		}
		return
	}
	s.WriteU8(cs.Layout)
	var orderDef uint8
	if cs.ChannelOrderDefinition != nil {
		orderDef = *cs.ChannelOrderDefinition
	}
	var omittedBit uint8
	if cs.OmittedChannelsMap != nil {
		omittedBit = 1
	}
	s.WriteU8(orderDef<<1 | omittedBit)
	if cs.OmittedChannelsMap != nil {
		s.WriteU64(*cs.OmittedChannelsMap)
	}
}

func decodeChnlBodyV0(c *Cursor, channelCount *uint16) (*Chnl, error) {
	ss, err := decodeStreamStructureV0(c)
	if err != nil {
		return nil, err
	}
	var cs *ChannelStructure
	if ss.channelStructured {
		cs, err = decodeChannelStructureV0(c, channelCount, ss.objectStructured)
		if err != nil {
			return nil, err
		}
	}
	var objectCount *uint8
	if ss.objectStructured {
		v, err := c.U8()
		if err != nil {
			return nil, err
		}
		objectCount = &v
	}
	return &Chnl{ChannelStructure: cs, ObjectCount: objectCount}, nil
}

func decodeChnlBodyV1(c *Cursor) (*Chnl, error) {
	ss, formatOrdering, err := decodeStreamStructureV1(c)
	if err != nil {
		return nil, err
	}
	baseChannelCount, err := c.U8()
	if err != nil {
		return nil, err
	}
	var cs *ChannelStructure
	if ss.channelStructured {
		cs, err = decodeChannelStructureV1(c)
		if err != nil {
			return nil, err
		}
	}
	computed := (*uint8)(nil)
	if ss.objectStructured {
		computed = objectCountV1(cs, baseChannelCount)
	}
	var decoded *uint8
	if ss.objectStructured {
		v, err := c.U8()
		if err != nil {
			return nil, err
		}
		decoded = &v
	}
	if ss.objectStructured && !uint8PtrEqual(computed, decoded) {
		return nil, errMsg(ErrUnsupported, "computed object count does not match decoded object count")
	}
	return &Chnl{
		ChannelStructure: cs,
		ObjectCount:      decoded,
		FormatOrdering:   &formatOrdering,
		BaseChannelCount: &baseChannelCount,
	}, nil
}

func uint8PtrEqual(a, b *uint8) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// DecodeBodyWithChannelCount decodes a chnl body given the audio sample
// entry's channel count, needed by version 0's explicit-positions form when
// no position count is otherwise encoded. Callers reading chnl from inside
// an audio sample entry should prefer this over DecodeBody.
func (a *Chnl) DecodeBodyWithChannelCount(c *Cursor, channelCount uint16) error {
	versionAndFlags, err := c.U32()
	if err != nil {
		return err
	}
	version := uint8(versionAndFlags >> 24)
	flags := versionAndFlags & 0x00FFFFFF
	if flags != 0 {
		return errMsg(ErrUnsupported, "chnl box with non-zero flags")
	}
	var decoded *Chnl
	switch version {
	case 0:
		cc := channelCount
		decoded, err = decodeChnlBodyV0(c, &cc)
	case 1:
		decoded, err = decodeChnlBodyV1(c)
	default:
		return errVersion(version)
	}
	if err != nil {
		return err
	}
	*a = *decoded
	return nil
}

func (a *Chnl) DecodeBody(c *Cursor) error {
	ext, err := decodeExtPrefix(c)
	if err != nil {
		return err
	}
	if ext.Flags != 0 {
		return errMsg(ErrUnsupported, "chnl box with non-zero flags")
	}
	var decoded *Chnl
	switch ext.Version {
	case 0:
		decoded, err = decodeChnlBodyV0(c, nil)
	case 1:
		decoded, err = decodeChnlBodyV1(c)
	default:
		return errVersion(ext.Version)
	}
	if err != nil {
		return err
	}
	*a = *decoded
	return nil
}

func (a *Chnl) EncodeBody(s *Sink) error {
	if a.FormatOrdering != nil && a.BaseChannelCount != nil {
		return a.encodeBodyV1(s)
	}
	return a.encodeBodyV0(s)
}

func (a *Chnl) encodeBodyV0(s *Sink) error {
	encodeExtPrefix(s, ExtPrefix{Version: 0})
	var ss uint8
	if a.ChannelStructure != nil {
		ss |= 0x01
	}
	if a.ObjectCount != nil {
		ss |= 0x02
	}
	s.WriteU8(ss)
	if err := encodeChannelStructureV0(s, a.ChannelStructure); err != nil {
		return err
	}
	if a.ObjectCount != nil {
		s.WriteU8(*a.ObjectCount)
	}
	return nil
}

func (a *Chnl) encodeBodyV1(s *Sink) error {
	baseChannelCount := *a.BaseChannelCount
	formatOrdering := uint8(1)
	if a.FormatOrdering != nil {
		formatOrdering = *a.FormatOrdering
	}
	if formatOrdering > 2 {
		return errMsg(ErrUnsupported, "format ordering must be 0, 1 or 2")
	}
	objectCount := objectCountV1(a.ChannelStructure, baseChannelCount)
	objectStructured := objectCount != nil
	channelStructured := a.ChannelStructure != nil

	var ss uint8
	if channelStructured {
		ss |= 0x01
	}
	if objectStructured {
		ss |= 0x02
	}
	encodeExtPrefix(s, ExtPrefix{Version: 1})
	s.WriteU8(ss<<4 | formatOrdering&0x0F)
	s.WriteU8(baseChannelCount)
	encodeChannelStructureV1(s, a.ChannelStructure)
	if objectStructured {
		s.WriteU8(*objectCount)
	}
	return nil
}
