package box

func init() { register(kindPrft, func() Atom { return &Prft{} }) }

var kindPrft = NewFourCC("prft")

// PrftReferenceTime classifies which NTP/media time pair a ProducerReferenceTime
// box describes (ISO/IEC 14496-12 §8.16.5), in priority order matching decode:
// RealTime and Consistent take precedence over Written/Finalised/Output/Input
// when multiple flag bits are set.
type PrftReferenceTime uint8

const (
	PrftInput PrftReferenceTime = iota
	PrftOutput
	PrftFinalised
	PrftWritten
	PrftConsistent
	PrftRealTime
)

const (
	prftFlagOutputTime         = 0
	prftFlagFragmentFinalised  = 1
	prftFlagFragmentWritten    = 2
	prftFlagConsistentOffset   = 3
	prftFlagRealTime           = 4
)

// Prft is the ProducerReferenceTimeBox: an NTP wall-clock timestamp paired
// with the media-time value it corresponds to, for A/V sync across
// independently-produced fragmented streams.
type Prft struct {
	ReferenceTrackID      uint32
	NTPTimestamp          uint64
	MediaTime             uint64
	UTCTimeSemantics      PrftReferenceTime
}

func (*Prft) AtomKind() FourCC { return kindPrft }

func (a *Prft) DecodeBody(c *Cursor) error {
	ext, err := decodeExtPrefix(c)
	if err != nil {
		return err
	}
	if err := checkVersion(ext.Version, 0, 1); err != nil {
		return err
	}
	trackID, err := c.U32()
	if err != nil {
		return err
	}
	ntp, err := c.U64()
	if err != nil {
		return err
	}
	var mediaTime uint64
	if ext.Version == 0 {
		v, err := c.U32()
		if err != nil {
			return err
		}
		mediaTime = uint64(v)
	} else {
		mediaTime, err = c.U64()
		if err != nil {
			return err
		}
	}
	a.ReferenceTrackID = trackID
	a.NTPTimestamp = ntp
	a.MediaTime = mediaTime
	a.UTCTimeSemantics = prftSemanticsFromFlags(ext.Flags)
	return nil
}

// prftSemanticsFromFlags applies the decode priority ladder: real-time plus
// consistent-offset wins outright, then consistent-offset alone, then
// written, finalised, output, and finally plain input time.
func prftSemanticsFromFlags(flags uint32) PrftReferenceTime {
	realTime := flagBit(flags, prftFlagRealTime)
	consistent := flagBit(flags, prftFlagConsistentOffset)
	switch {
	case realTime && consistent:
		return PrftRealTime
	case consistent:
		return PrftConsistent
	case flagBit(flags, prftFlagFragmentWritten):
		return PrftWritten
	case flagBit(flags, prftFlagFragmentFinalised):
		return PrftFinalised
	case flagBit(flags, prftFlagOutputTime):
		return PrftOutput
	default:
		return PrftInput
	}
}

func prftFlagsFromSemantics(sem PrftReferenceTime) uint32 {
	var flags uint32
	switch sem {
	case PrftRealTime:
		setFlagBit(&flags, prftFlagRealTime, true)
		setFlagBit(&flags, prftFlagConsistentOffset, true)
	case PrftConsistent:
		setFlagBit(&flags, prftFlagConsistentOffset, true)
	case PrftWritten:
		setFlagBit(&flags, prftFlagFragmentWritten, true)
	case PrftFinalised:
		setFlagBit(&flags, prftFlagFragmentFinalised, true)
	case PrftOutput:
		setFlagBit(&flags, prftFlagOutputTime, true)
	}
	return flags
}

func (a *Prft) EncodeBody(s *Sink) error {
	version := uint8(0)
	if a.MediaTime > maxUint32 {
		version = 1
	}
	encodeExtPrefix(s, ExtPrefix{Version: version, Flags: prftFlagsFromSemantics(a.UTCTimeSemantics)})
	s.WriteU32(a.ReferenceTrackID)
	s.WriteU64(a.NTPTimestamp)
	if version == 0 {
		s.WriteU32(uint32(a.MediaTime))
	} else {
		s.WriteU64(a.MediaTime)
	}
	return nil
}
