package box

func init() {
	register(kindStbl, func() Atom { return &Stbl{} })
	register(kindStsd, func() Atom { return &Stsd{} })
	register(kindStts, func() Atom { return &Stts{} })
	register(kindStsz, func() Atom { return &Stsz{} })
	register(kindStss, func() Atom { return &Stss{} })
	register(kindCtts, func() Atom { return &Ctts{} })
	register(kindStco, func() Atom { return &Stco{} })
	register(kindCo64, func() Atom { return &Co64{} })
}

var (
	kindStbl = NewFourCC("stbl")
	kindStsd = NewFourCC("stsd")
	kindStts = NewFourCC("stts")
	kindStsz = NewFourCC("stsz")
	kindStss = NewFourCC("stss")
	kindCtts = NewFourCC("ctts")
	kindStco = NewFourCC("stco")
	kindCo64 = NewFourCC("co64")
)

// Stbl is the SampleTableBox (ISO/IEC 14496-12 §8.5.1): every table
// describing how a track's samples map onto the media data.
type Stbl struct {
	Stsd Stsd
	Stts Stts
	Stsz Stsz
	Stsc Stsc
	ChunkOffsets []uint64 // from whichever of stco/co64 was present; Encode picks the narrowest that fits
	Stss *Stss
	Ctts *Ctts
	Sbgp []Sbgp
	Sgpd []Sgpd
	Saiz []Saiz
	Saio []Saio
}

func (*Stbl) AtomKind() FourCC { return kindStbl }

var stblSpec = containerSpec{
	Required: []FourCC{kindStsd, kindStts, kindStsz, kindStsc},
	Optional: []FourCC{kindStco, kindCo64, kindStss, kindCtts},
	Multiple: []FourCC{kindSbgp, kindSgpd, kindSaiz, kindSaio},
}

func (a *Stbl) DecodeBody(c *Cursor) error {
	res, err := decodeContainer(c, stblSpec)
	if err != nil {
		return err
	}
	a.Stsd = *res.Single[kindStsd].Body.(*Stsd)
	a.Stts = *res.Single[kindStts].Body.(*Stts)
	a.Stsz = *res.Single[kindStsz].Body.(*Stsz)
	a.Stsc = *res.Single[kindStsc].Body.(*Stsc)
	if b, ok := res.Single[kindStco]; ok {
		for _, v := range b.Body.(*Stco).Offsets {
			a.ChunkOffsets = append(a.ChunkOffsets, uint64(v))
		}
	} else if b, ok := res.Single[kindCo64]; ok {
		a.ChunkOffsets = b.Body.(*Co64).Offsets
	}
	if b, ok := res.Single[kindStss]; ok {
		v := *b.Body.(*Stss)
		a.Stss = &v
	}
	if b, ok := res.Single[kindCtts]; ok {
		v := *b.Body.(*Ctts)
		a.Ctts = &v
	}
	for _, b := range res.Multi[kindSbgp] {
		a.Sbgp = append(a.Sbgp, *b.Body.(*Sbgp))
	}
	for _, b := range res.Multi[kindSgpd] {
		a.Sgpd = append(a.Sgpd, *b.Body.(*Sgpd))
	}
	for _, b := range res.Multi[kindSaiz] {
		a.Saiz = append(a.Saiz, *b.Body.(*Saiz))
	}
	for _, b := range res.Multi[kindSaio] {
		a.Saio = append(a.Saio, *b.Body.(*Saio))
	}
	return nil
}

func (a *Stbl) EncodeBody(s *Sink) error {
	res := &containerResult{
		Single: map[FourCC]Box{
			kindStsd: {kind: kindStsd, Body: &a.Stsd},
			kindStts: {kind: kindStts, Body: &a.Stts},
			kindStsz: {kind: kindStsz, Body: &a.Stsz},
			kindStsc: {kind: kindStsc, Body: &a.Stsc},
		},
		Multi: map[FourCC][]Box{},
	}
	needsWide := false
	for _, v := range a.ChunkOffsets {
		if v > maxUint32 {
			needsWide = true
			break
		}
	}
	if a.ChunkOffsets != nil {
		if needsWide {
			res.Single[kindCo64] = Box{kind: kindCo64, Body: &Co64{Offsets: a.ChunkOffsets}}
		} else {
			narrow := make([]uint32, len(a.ChunkOffsets))
			for i, v := range a.ChunkOffsets {
				narrow[i] = uint32(v)
			}
			res.Single[kindStco] = Box{kind: kindStco, Body: &Stco{Offsets: narrow}}
		}
	}
	if a.Stss != nil {
		res.Single[kindStss] = Box{kind: kindStss, Body: a.Stss}
	}
	if a.Ctts != nil {
		res.Single[kindCtts] = Box{kind: kindCtts, Body: a.Ctts}
	}
	for i := range a.Sbgp {
		res.Multi[kindSbgp] = append(res.Multi[kindSbgp], Box{kind: kindSbgp, Body: &a.Sbgp[i]})
	}
	for i := range a.Sgpd {
		res.Multi[kindSgpd] = append(res.Multi[kindSgpd], Box{kind: kindSgpd, Body: &a.Sgpd[i]})
	}
	for i := range a.Saiz {
		res.Multi[kindSaiz] = append(res.Multi[kindSaiz], Box{kind: kindSaiz, Body: &a.Saiz[i]})
	}
	for i := range a.Saio {
		res.Multi[kindSaio] = append(res.Multi[kindSaio], Box{kind: kindSaio, Body: &a.Saio[i]})
	}
	spec := stblSpec
	if needsWide {
		spec.Optional = []FourCC{kindCo64, kindStco, kindStss, kindCtts}
	}
	return encodeContainer(s, spec, res)
}

// Stsd is the SampleDescriptionBox (ISO/IEC 14496-12 §8.5.2): the table
// of sample entries describing the coded format of a track's samples.
// Each entry is itself a registry-dispatched Box, so recognized codecs
// decode into their typed body and anything else survives as Unknown.
type Stsd struct {
	Entries []Box
}

func (*Stsd) AtomKind() FourCC { return kindStsd }

func (a *Stsd) DecodeBody(c *Cursor) error {
	ext, err := decodeExtPrefix(c)
	if err != nil {
		return err
	}
	if err := checkVersion(ext.Version, 0); err != nil {
		return err
	}
	count, err := c.U32()
	if err != nil {
		return err
	}
	entries := make([]Box, 0, count)
	for i := uint32(0); i < count; i++ {
		b, err := DecodeBox(c)
		if err != nil {
			return err
		}
		entries = append(entries, b)
	}
	a.Entries = entries
	return nil
}

func (a *Stsd) EncodeBody(s *Sink) error {
	encodeExtPrefix(s, ExtPrefix{})
	if len(a.Entries) > maxUint32 {
		return errMsg(ErrTooLarge, "stsd entry count exceeds 32 bits")
	}
	s.WriteU32(uint32(len(a.Entries)))
	for _, b := range a.Entries {
		if err := EncodeBox(s, b); err != nil {
			return err
		}
	}
	return nil
}

// SttsEntry is one run of consecutive samples sharing a decode delta.
type SttsEntry struct {
	SampleCount uint32
	SampleDelta uint32
}

// Stts is the TimeToSampleBox (ISO/IEC 14496-12 §8.6.1.2).
type Stts struct {
	Entries []SttsEntry
}

func (*Stts) AtomKind() FourCC { return kindStts }

func (a *Stts) DecodeBody(c *Cursor) error {
	ext, err := decodeExtPrefix(c)
	if err != nil {
		return err
	}
	if err := checkVersion(ext.Version, 0); err != nil {
		return err
	}
	count, err := c.U32()
	if err != nil {
		return err
	}
	entries := make([]SttsEntry, 0, count)
	for i := uint32(0); i < count; i++ {
		sc, err := c.U32()
		if err != nil {
			return err
		}
		sd, err := c.U32()
		if err != nil {
			return err
		}
		entries = append(entries, SttsEntry{SampleCount: sc, SampleDelta: sd})
	}
	a.Entries = entries
	return nil
}

func (a *Stts) EncodeBody(s *Sink) error {
	encodeExtPrefix(s, ExtPrefix{})
	if len(a.Entries) > maxUint32 {
		return errMsg(ErrTooLarge, "stts entry count exceeds 32 bits")
	}
	s.WriteU32(uint32(len(a.Entries)))
	for _, e := range a.Entries {
		s.WriteU32(e.SampleCount)
		s.WriteU32(e.SampleDelta)
	}
	return nil
}

// Stsz is the SampleSizeBox (ISO/IEC 14496-12 §8.7.3.2): either a single
// uniform sample size (Sizes nil) or one size per sample.
type Stsz struct {
	UniformSize uint32 // 0 means per-sample sizes in Sizes
	SampleCount uint32
	Sizes       []uint32
}

func (*Stsz) AtomKind() FourCC { return kindStsz }

func (a *Stsz) DecodeBody(c *Cursor) error {
	ext, err := decodeExtPrefix(c)
	if err != nil {
		return err
	}
	if err := checkVersion(ext.Version, 0); err != nil {
		return err
	}
	uniform, err := c.U32()
	if err != nil {
		return err
	}
	count, err := c.U32()
	if err != nil {
		return err
	}
	a.UniformSize = uniform
	a.SampleCount = count
	if uniform == 0 {
		sizes := make([]uint32, 0, count)
		for i := uint32(0); i < count; i++ {
			v, err := c.U32()
			if err != nil {
				return err
			}
			sizes = append(sizes, v)
		}
		a.Sizes = sizes
	}
	return nil
}

func (a *Stsz) EncodeBody(s *Sink) error {
	encodeExtPrefix(s, ExtPrefix{})
	s.WriteU32(a.UniformSize)
	s.WriteU32(a.SampleCount)
	if a.UniformSize == 0 {
		for _, v := range a.Sizes {
			s.WriteU32(v)
		}
	}
	return nil
}

// Stss is the SyncSampleBox (ISO/IEC 14496-12 §8.6.2): the 1-indexed
// sample numbers that are random access points.
type Stss struct {
	SampleNumbers []uint32
}

func (*Stss) AtomKind() FourCC { return kindStss }

func (a *Stss) DecodeBody(c *Cursor) error {
	ext, err := decodeExtPrefix(c)
	if err != nil {
		return err
	}
	if err := checkVersion(ext.Version, 0); err != nil {
		return err
	}
	count, err := c.U32()
	if err != nil {
		return err
	}
	nums := make([]uint32, 0, count)
	for i := uint32(0); i < count; i++ {
		v, err := c.U32()
		if err != nil {
			return err
		}
		nums = append(nums, v)
	}
	a.SampleNumbers = nums
	return nil
}

func (a *Stss) EncodeBody(s *Sink) error {
	encodeExtPrefix(s, ExtPrefix{})
	if len(a.SampleNumbers) > maxUint32 {
		return errMsg(ErrTooLarge, "stss entry count exceeds 32 bits")
	}
	s.WriteU32(uint32(len(a.SampleNumbers)))
	for _, v := range a.SampleNumbers {
		s.WriteU32(v)
	}
	return nil
}

// CttsEntry is one run of samples sharing a composition-time offset.
type CttsEntry struct {
	SampleCount  uint32
	SampleOffset int32 // always signed in memory; V0's unsigned wire encoding is never negative
}

// Ctts is the CompositionOffsetBox (ISO/IEC 14496-12 §8.6.1.3): maps
// decode order onto presentation order for B-frame-bearing tracks.
type Ctts struct {
	Entries []CttsEntry
}

func (*Ctts) AtomKind() FourCC { return kindCtts }

func (a *Ctts) DecodeBody(c *Cursor) error {
	ext, err := decodeExtPrefix(c)
	if err != nil {
		return err
	}
	if err := checkVersion(ext.Version, 0, 1); err != nil {
		return err
	}
	count, err := c.U32()
	if err != nil {
		return err
	}
	entries := make([]CttsEntry, 0, count)
	for i := uint32(0); i < count; i++ {
		sc, err := c.U32()
		if err != nil {
			return err
		}
		offset, err := c.I32()
		if err != nil {
			return err
		}
		entries = append(entries, CttsEntry{SampleCount: sc, SampleOffset: offset})
	}
	a.Entries = entries
	return nil
}

func (a *Ctts) EncodeBody(s *Sink) error {
	version := uint8(0)
	for _, e := range a.Entries {
		if e.SampleOffset < 0 {
			version = 1
			break
		}
	}
	encodeExtPrefix(s, ExtPrefix{Version: version})
	if len(a.Entries) > maxUint32 {
		return errMsg(ErrTooLarge, "ctts entry count exceeds 32 bits")
	}
	s.WriteU32(uint32(len(a.Entries)))
	for _, e := range a.Entries {
		s.WriteU32(e.SampleCount)
		s.WriteI32(e.SampleOffset)
	}
	return nil
}

// Stco is the ChunkOffsetBox (ISO/IEC 14496-12 §8.7.5): 32-bit chunk
// offsets into the media data.
type Stco struct {
	Offsets []uint32
}

func (*Stco) AtomKind() FourCC { return kindStco }

func (a *Stco) DecodeBody(c *Cursor) error {
	ext, err := decodeExtPrefix(c)
	if err != nil {
		return err
	}
	if err := checkVersion(ext.Version, 0); err != nil {
		return err
	}
	count, err := c.U32()
	if err != nil {
		return err
	}
	offsets := make([]uint32, 0, count)
	for i := uint32(0); i < count; i++ {
		v, err := c.U32()
		if err != nil {
			return err
		}
		offsets = append(offsets, v)
	}
	a.Offsets = offsets
	return nil
}

func (a *Stco) EncodeBody(s *Sink) error {
	encodeExtPrefix(s, ExtPrefix{})
	if len(a.Offsets) > maxUint32 {
		return errMsg(ErrTooLarge, "stco entry count exceeds 32 bits")
	}
	s.WriteU32(uint32(len(a.Offsets)))
	for _, v := range a.Offsets {
		s.WriteU32(v)
	}
	return nil
}

// Co64 is the ChunkLargeOffsetBox (ISO/IEC 14496-12 §8.7.5): stco's
// 64-bit-offset counterpart, used once a movie's media data exceeds 4GiB.
type Co64 struct {
	Offsets []uint64
}

func (*Co64) AtomKind() FourCC { return kindCo64 }

func (a *Co64) DecodeBody(c *Cursor) error {
	ext, err := decodeExtPrefix(c)
	if err != nil {
		return err
	}
	if err := checkVersion(ext.Version, 0); err != nil {
		return err
	}
	count, err := c.U32()
	if err != nil {
		return err
	}
	offsets := make([]uint64, 0, count)
	for i := uint32(0); i < count; i++ {
		v, err := c.U64()
		if err != nil {
			return err
		}
		offsets = append(offsets, v)
	}
	a.Offsets = offsets
	return nil
}

func (a *Co64) EncodeBody(s *Sink) error {
	encodeExtPrefix(s, ExtPrefix{})
	if len(a.Offsets) > maxUint32 {
		return errMsg(ErrTooLarge, "co64 entry count exceeds 32 bits")
	}
	s.WriteU32(uint32(len(a.Offsets)))
	for _, v := range a.Offsets {
		s.WriteU64(v)
	}
	return nil
}
