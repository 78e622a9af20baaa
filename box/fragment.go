package box

func init() {
	register(kindMoof, func() Atom { return &Moof{} })
	register(kindMfhd, func() Atom { return &Mfhd{} })
	register(kindTraf, func() Atom { return &Traf{} })
	register(kindTfhd, func() Atom { return &Tfhd{} })
	register(kindTfdt, func() Atom { return &Tfdt{} })
}

var (
	kindMoof = NewFourCC("moof")
	kindMfhd = NewFourCC("mfhd")
	kindTraf = NewFourCC("traf")
	kindTfhd = NewFourCC("tfhd")
	kindTfdt = NewFourCC("tfdt")
)

// Moof is the MovieFragmentBox (ISO/IEC 14496-12 §8.8.4): one fragment's
// worth of additional track runs appended to a fragmented movie.
type Moof struct {
	Mfhd Mfhd
	Traf []Traf
}

func (*Moof) AtomKind() FourCC { return kindMoof }

var moofSpec = containerSpec{Required: []FourCC{kindMfhd}, Multiple: []FourCC{kindTraf}}

func (a *Moof) DecodeBody(c *Cursor) error {
	res, err := decodeContainer(c, moofSpec)
	if err != nil {
		return err
	}
	a.Mfhd = *res.Single[kindMfhd].Body.(*Mfhd)
	for _, b := range res.Multi[kindTraf] {
		a.Traf = append(a.Traf, *b.Body.(*Traf))
	}
	return nil
}

func (a *Moof) EncodeBody(s *Sink) error {
	res := &containerResult{
		Single: map[FourCC]Box{kindMfhd: {kind: kindMfhd, Body: &a.Mfhd}},
		Multi:  map[FourCC][]Box{},
	}
	for i := range a.Traf {
		res.Multi[kindTraf] = append(res.Multi[kindTraf], Box{kind: kindTraf, Body: &a.Traf[i]})
	}
	return encodeContainer(s, moofSpec, res)
}

// Mfhd is the MovieFragmentHeaderBox (ISO/IEC 14496-12 §8.8.5): a
// fragment's sequence number.
type Mfhd struct {
	SequenceNumber uint32
}

func (*Mfhd) AtomKind() FourCC { return kindMfhd }

func (a *Mfhd) DecodeBody(c *Cursor) error {
	ext, err := decodeExtPrefix(c)
	if err != nil {
		return err
	}
	if err := checkVersion(ext.Version, 0); err != nil {
		return err
	}
	seq, err := c.U32()
	if err != nil {
		return err
	}
	a.SequenceNumber = seq
	return nil
}

func (a *Mfhd) EncodeBody(s *Sink) error {
	encodeExtPrefix(s, ExtPrefix{})
	s.WriteU32(a.SequenceNumber)
	return nil
}

// Traf is the TrackFragmentBox (ISO/IEC 14496-12 §8.8.6): one track's
// contribution to a movie fragment.
type Traf struct {
	Tfhd Tfhd
	Tfdt *Tfdt
	Trun []Trun
	Saiz []Saiz
	Saio []Saio
}

func (*Traf) AtomKind() FourCC { return kindTraf }

var trafSpec = containerSpec{
	Required: []FourCC{kindTfhd},
	Optional: []FourCC{kindTfdt},
	Multiple: []FourCC{kindTrun, kindSaiz, kindSaio},
}

func (a *Traf) DecodeBody(c *Cursor) error {
	res, err := decodeContainer(c, trafSpec)
	if err != nil {
		return err
	}
	a.Tfhd = *res.Single[kindTfhd].Body.(*Tfhd)
	if b, ok := res.Single[kindTfdt]; ok {
		v := *b.Body.(*Tfdt)
		a.Tfdt = &v
	}
	for _, b := range res.Multi[kindTrun] {
		a.Trun = append(a.Trun, *b.Body.(*Trun))
	}
	for _, b := range res.Multi[kindSaiz] {
		a.Saiz = append(a.Saiz, *b.Body.(*Saiz))
	}
	for _, b := range res.Multi[kindSaio] {
		a.Saio = append(a.Saio, *b.Body.(*Saio))
	}
	return nil
}

func (a *Traf) EncodeBody(s *Sink) error {
	res := &containerResult{
		Single: map[FourCC]Box{kindTfhd: {kind: kindTfhd, Body: &a.Tfhd}},
		Multi:  map[FourCC][]Box{},
	}
	if a.Tfdt != nil {
		res.Single[kindTfdt] = Box{kind: kindTfdt, Body: a.Tfdt}
	}
	for i := range a.Trun {
		res.Multi[kindTrun] = append(res.Multi[kindTrun], Box{kind: kindTrun, Body: &a.Trun[i]})
	}
	for i := range a.Saiz {
		res.Multi[kindSaiz] = append(res.Multi[kindSaiz], Box{kind: kindSaiz, Body: &a.Saiz[i]})
	}
	for i := range a.Saio {
		res.Multi[kindSaio] = append(res.Multi[kindSaio], Box{kind: kindSaio, Body: &a.Saio[i]})
	}
	return encodeContainer(s, trafSpec, res)
}

const (
	tfhdFlagBaseDataOffsetPresent         = 0
	tfhdFlagSampleDescriptionIndexPresent = 1
	tfhdFlagDefaultSampleDurationPresent  = 3
	tfhdFlagDefaultSampleSizePresent      = 4
	tfhdFlagDefaultSampleFlagsPresent     = 5
	tfhdFlagDurationIsEmpty               = 16
	tfhdFlagDefaultBaseIsMoof             = 17
)

// Tfhd is the TrackFragmentHeaderBox (ISO/IEC 14496-12 §8.8.7): defaults
// applied to every sample run in this fragment's track unless overridden.
type Tfhd struct {
	TrackID                   uint32
	BaseDataOffset            *uint64
	SampleDescriptionIndex    *uint32
	DefaultSampleDuration     *uint32
	DefaultSampleSize         *uint32
	DefaultSampleFlags        *uint32
	DurationIsEmpty           bool
	DefaultBaseIsMoof         bool
}

func (*Tfhd) AtomKind() FourCC { return kindTfhd }

func (a *Tfhd) DecodeBody(c *Cursor) error {
	ext, err := decodeExtPrefix(c)
	if err != nil {
		return err
	}
	if err := checkVersion(ext.Version, 0); err != nil {
		return err
	}
	trackID, err := c.U32()
	if err != nil {
		return err
	}
	a.TrackID = trackID
	if flagBit(ext.Flags, tfhdFlagBaseDataOffsetPresent) {
		v, err := c.U64()
		if err != nil {
			return err
		}
		a.BaseDataOffset = &v
	}
	if flagBit(ext.Flags, tfhdFlagSampleDescriptionIndexPresent) {
		v, err := c.U32()
		if err != nil {
			return err
		}
		a.SampleDescriptionIndex = &v
	}
	if flagBit(ext.Flags, tfhdFlagDefaultSampleDurationPresent) {
		v, err := c.U32()
		if err != nil {
			return err
		}
		a.DefaultSampleDuration = &v
	}
	if flagBit(ext.Flags, tfhdFlagDefaultSampleSizePresent) {
		v, err := c.U32()
		if err != nil {
			return err
		}
		a.DefaultSampleSize = &v
	}
	if flagBit(ext.Flags, tfhdFlagDefaultSampleFlagsPresent) {
		v, err := c.U32()
		if err != nil {
			return err
		}
		a.DefaultSampleFlags = &v
	}
	a.DurationIsEmpty = flagBit(ext.Flags, tfhdFlagDurationIsEmpty)
	a.DefaultBaseIsMoof = flagBit(ext.Flags, tfhdFlagDefaultBaseIsMoof)
	return nil
}

func (a *Tfhd) EncodeBody(s *Sink) error {
	var flags uint32
	setFlagBit(&flags, tfhdFlagBaseDataOffsetPresent, a.BaseDataOffset != nil)
	setFlagBit(&flags, tfhdFlagSampleDescriptionIndexPresent, a.SampleDescriptionIndex != nil)
	setFlagBit(&flags, tfhdFlagDefaultSampleDurationPresent, a.DefaultSampleDuration != nil)
	setFlagBit(&flags, tfhdFlagDefaultSampleSizePresent, a.DefaultSampleSize != nil)
	setFlagBit(&flags, tfhdFlagDefaultSampleFlagsPresent, a.DefaultSampleFlags != nil)
	setFlagBit(&flags, tfhdFlagDurationIsEmpty, a.DurationIsEmpty)
	setFlagBit(&flags, tfhdFlagDefaultBaseIsMoof, a.DefaultBaseIsMoof)
	encodeExtPrefix(s, ExtPrefix{Flags: flags})
	s.WriteU32(a.TrackID)
	if a.BaseDataOffset != nil {
		s.WriteU64(*a.BaseDataOffset)
	}
	if a.SampleDescriptionIndex != nil {
		s.WriteU32(*a.SampleDescriptionIndex)
	}
	if a.DefaultSampleDuration != nil {
		s.WriteU32(*a.DefaultSampleDuration)
	}
	if a.DefaultSampleSize != nil {
		s.WriteU32(*a.DefaultSampleSize)
	}
	if a.DefaultSampleFlags != nil {
		s.WriteU32(*a.DefaultSampleFlags)
	}
	return nil
}

// Tfdt is the TrackFragmentBaseMediaDecodeTimeBox (ISO/IEC 14496-12
// §8.8.12): the absolute decode time of the fragment's first sample.
type Tfdt struct {
	BaseMediaDecodeTime uint64
}

func (*Tfdt) AtomKind() FourCC { return kindTfdt }

func (a *Tfdt) DecodeBody(c *Cursor) error {
	ext, err := decodeExtPrefix(c)
	if err != nil {
		return err
	}
	if err := checkVersion(ext.Version, 0, 1); err != nil {
		return err
	}
	if ext.Version == 1 {
		v, err := c.U64()
		if err != nil {
			return err
		}
		a.BaseMediaDecodeTime = v
	} else {
		v, err := c.U32()
		if err != nil {
			return err
		}
		a.BaseMediaDecodeTime = uint64(v)
	}
	return nil
}

func (a *Tfdt) EncodeBody(s *Sink) error {
	version := uint8(0)
	if a.BaseMediaDecodeTime > maxUint32 {
		version = 1
	}
	encodeExtPrefix(s, ExtPrefix{Version: version})
	if version == 1 {
		s.WriteU64(a.BaseMediaDecodeTime)
	} else {
		s.WriteU32(uint32(a.BaseMediaDecodeTime))
	}
	return nil
}
