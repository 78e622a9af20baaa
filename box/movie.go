package box

func init() {
	register(kindFtyp, func() Atom { return &FileType{} })
	register(kindStyp, func() Atom { return &FileType{} })
	register(kindMoov, func() Atom { return &Moov{} })
	register(kindMvhd, func() Atom { return &Mvhd{} })
	register(kindTrak, func() Atom { return &Trak{} })
	register(kindTkhd, func() Atom { return &Tkhd{} })
	register(kindEdts, func() Atom { return &Edts{} })
	register(kindElst, func() Atom { return &Elst{} })
}

var (
	kindFtyp = NewFourCC("ftyp")
	kindStyp = NewFourCC("styp")
	kindMoov = NewFourCC("moov")
	kindMvhd = NewFourCC("mvhd")
	kindTrak = NewFourCC("trak")
	kindTkhd = NewFourCC("tkhd")
	kindEdts = NewFourCC("edts")
	kindElst = NewFourCC("elst")
)

// Moov is the MovieBox (ISO/IEC 14496-12 §8.2.1): the root container for
// a movie's non-media-data metadata — its header, every track, and (for
// a fragmented movie) the movie-extends declarations.
type Moov struct {
	Mvhd Mvhd
	Trak []Trak
	Mvex *Mvex
	Udta *Udta
}

func (*Moov) AtomKind() FourCC { return kindMoov }

var moovSpec = containerSpec{
	Required: []FourCC{kindMvhd},
	Optional: []FourCC{kindMvex, kindUdta},
	Multiple: []FourCC{kindTrak},
}

func (a *Moov) DecodeBody(c *Cursor) error {
	res, err := decodeContainer(c, moovSpec)
	if err != nil {
		return err
	}
	a.Mvhd = *res.Single[kindMvhd].Body.(*Mvhd)
	for _, b := range res.Multi[kindTrak] {
		a.Trak = append(a.Trak, *b.Body.(*Trak))
	}
	if b, ok := res.Single[kindMvex]; ok {
		v := *b.Body.(*Mvex)
		a.Mvex = &v
	}
	if b, ok := res.Single[kindUdta]; ok {
		v := *b.Body.(*Udta)
		a.Udta = &v
	}
	return nil
}

func (a *Moov) EncodeBody(s *Sink) error {
	res := &containerResult{
		Single: map[FourCC]Box{kindMvhd: {kind: kindMvhd, Body: &a.Mvhd}},
		Multi:  map[FourCC][]Box{},
	}
	for i := range a.Trak {
		res.Multi[kindTrak] = append(res.Multi[kindTrak], Box{kind: kindTrak, Body: &a.Trak[i]})
	}
	if a.Mvex != nil {
		res.Single[kindMvex] = Box{kind: kindMvex, Body: a.Mvex}
	}
	if a.Udta != nil {
		res.Single[kindUdta] = Box{kind: kindUdta, Body: a.Udta}
	}
	return encodeContainer(s, moovSpec, res)
}

// FileType is the shared body of FileTypeBox (ftyp) and SegmentTypeBox
// (styp): a major brand, its minor version, and a list of compatible
// brands a reader may treat this file as conforming to.
type FileType struct {
	MajorBrand       FourCC
	MinorVersion     uint32
	CompatibleBrands []FourCC
}

// AtomKind reports ftyp; styp shares this body type but is registered and
// encoded under its own kind via EncodeAtom's explicit kind argument.
func (*FileType) AtomKind() FourCC { return kindFtyp }

func (a *FileType) DecodeBody(c *Cursor) error {
	major, err := c.FourCC()
	if err != nil {
		return err
	}
	minor, err := c.U32()
	if err != nil {
		return err
	}
	var brands []FourCC
	for c.Remaining() > 0 {
		b, err := c.FourCC()
		if err != nil {
			return err
		}
		brands = append(brands, b)
	}
	a.MajorBrand = major
	a.MinorVersion = minor
	a.CompatibleBrands = brands
	return nil
}

func (a *FileType) EncodeBody(s *Sink) error {
	s.WriteFourCC(a.MajorBrand)
	s.WriteU32(a.MinorVersion)
	for _, b := range a.CompatibleBrands {
		s.WriteFourCC(b)
	}
	return nil
}

// Mvhd is the MovieHeaderBox (ISO/IEC 14496-12 §8.2.2): overall movie
// timing and the next available track ID.
type Mvhd struct {
	CreationTime     uint64
	ModificationTime uint64
	Timescale        uint32
	Duration         uint64
	Rate             Fixed16
	Volume           Fixed8
	Matrix           [9]int32
	NextTrackID      uint32
}

func (*Mvhd) AtomKind() FourCC { return kindMvhd }

func (a *Mvhd) DecodeBody(c *Cursor) error {
	ext, err := decodeExtPrefix(c)
	if err != nil {
		return err
	}
	if err := checkVersion(ext.Version, 0, 1); err != nil {
		return err
	}
	var creation, modification, duration uint64
	var timescale uint32
	if ext.Version == 1 {
		if creation, err = c.U64(); err != nil {
			return err
		}
		if modification, err = c.U64(); err != nil {
			return err
		}
		if timescale, err = c.U32(); err != nil {
			return err
		}
		if duration, err = c.U64(); err != nil {
			return err
		}
	} else {
		v, err := c.U32()
		if err != nil {
			return err
		}
		creation = uint64(v)
		if v, err = c.U32(); err != nil {
			return err
		}
		modification = uint64(v)
		if timescale, err = c.U32(); err != nil {
			return err
		}
		if v, err = c.U32(); err != nil {
			return err
		}
		duration = uint64(v)
	}
	rate, err := decodeFixed16(c)
	if err != nil {
		return err
	}
	volume, err := decodeFixed8(c)
	if err != nil {
		return err
	}
	if _, err := c.U16(); err != nil { // reserved
		return err
	}
	for i := 0; i < 2; i++ {
		if _, err := c.U32(); err != nil { // reserved[2]
			return err
		}
	}
	var matrix [9]int32
	for i := range matrix {
		if matrix[i], err = c.I32(); err != nil {
			return err
		}
	}
	for i := 0; i < 6; i++ {
		if _, err := c.U32(); err != nil { // pre_defined[6]
			return err
		}
	}
	nextTrackID, err := c.U32()
	if err != nil {
		return err
	}
	a.CreationTime = creation
	a.ModificationTime = modification
	a.Timescale = timescale
	a.Duration = duration
	a.Rate = rate
	a.Volume = volume
	a.Matrix = matrix
	a.NextTrackID = nextTrackID
	return nil
}

func (a *Mvhd) EncodeBody(s *Sink) error {
	version := uint8(0)
	if a.CreationTime > maxUint32 || a.ModificationTime > maxUint32 || a.Duration > maxUint32 {
		version = 1
	}
	encodeExtPrefix(s, ExtPrefix{Version: version})
	if version == 1 {
		s.WriteU64(a.CreationTime)
		s.WriteU64(a.ModificationTime)
		s.WriteU32(a.Timescale)
		s.WriteU64(a.Duration)
	} else {
		s.WriteU32(uint32(a.CreationTime))
		s.WriteU32(uint32(a.ModificationTime))
		s.WriteU32(a.Timescale)
		s.WriteU32(uint32(a.Duration))
	}
	a.Rate.encode(s)
	a.Volume.encode(s)
	s.WriteU16(0)
	s.WriteU32(0)
	s.WriteU32(0)
	for _, v := range a.Matrix {
		s.WriteI32(v)
	}
	for i := 0; i < 6; i++ {
		s.WriteU32(0)
	}
	s.WriteU32(a.NextTrackID)
	return nil
}

// Trak is the TrackBox (ISO/IEC 14496-12 §8.3.1): one media track within
// a movie.
type Trak struct {
	Tkhd Tkhd
	Edts *Edts
	Tref *Tref
	Mdia Mdia
	Udta *Udta
	Meta *Meta
}

func (*Trak) AtomKind() FourCC { return kindTrak }

var trakSpec = containerSpec{
	Required: []FourCC{kindTkhd, kindMdia},
	Optional: []FourCC{kindEdts, kindTref, kindUdta, kindMeta},
}

func (a *Trak) DecodeBody(c *Cursor) error {
	res, err := decodeContainer(c, trakSpec)
	if err != nil {
		return err
	}
	a.Tkhd = *res.Single[kindTkhd].Body.(*Tkhd)
	a.Mdia = *res.Single[kindMdia].Body.(*Mdia)
	if b, ok := res.Single[kindEdts]; ok {
		v := *b.Body.(*Edts)
		a.Edts = &v
	}
	if b, ok := res.Single[kindTref]; ok {
		v := *b.Body.(*Tref)
		a.Tref = &v
	}
	if b, ok := res.Single[kindUdta]; ok {
		v := *b.Body.(*Udta)
		a.Udta = &v
	}
	if b, ok := res.Single[kindMeta]; ok {
		v := *b.Body.(*Meta)
		a.Meta = &v
	}
	return nil
}

func (a *Trak) EncodeBody(s *Sink) error {
	res := &containerResult{Single: map[FourCC]Box{
		kindTkhd: {kind: kindTkhd, Body: &a.Tkhd},
		kindMdia: {kind: kindMdia, Body: &a.Mdia},
	}}
	if a.Edts != nil {
		res.Single[kindEdts] = Box{kind: kindEdts, Body: a.Edts}
	}
	if a.Tref != nil {
		res.Single[kindTref] = Box{kind: kindTref, Body: a.Tref}
	}
	if a.Udta != nil {
		res.Single[kindUdta] = Box{kind: kindUdta, Body: a.Udta}
	}
	if a.Meta != nil {
		res.Single[kindMeta] = Box{kind: kindMeta, Body: a.Meta}
	}
	return encodeContainer(s, trakSpec, res)
}

const (
	tkhdFlagEnabled  = 0
	tkhdFlagInMovie  = 1
	tkhdFlagInPreview = 2
)

// Tkhd is the TrackHeaderBox (ISO/IEC 14496-12 §8.3.2): per-track timing,
// presentation geometry, and the enabled/in-movie/in-preview flag bits.
type Tkhd struct {
	Enabled          bool
	InMovie          bool
	InPreview        bool
	CreationTime     uint64
	ModificationTime uint64
	TrackID          uint32
	Duration         uint64
	Layer            int16
	AlternateGroup   int16
	Volume           Fixed8
	Matrix           [9]int32
	Width            Fixed16
	Height           Fixed16
}

func (*Tkhd) AtomKind() FourCC { return kindTkhd }

func (a *Tkhd) DecodeBody(c *Cursor) error {
	ext, err := decodeExtPrefix(c)
	if err != nil {
		return err
	}
	if err := checkVersion(ext.Version, 0, 1); err != nil {
		return err
	}
	var creation, modification, duration uint64
	var trackID uint32
	if ext.Version == 1 {
		if creation, err = c.U64(); err != nil {
			return err
		}
		if modification, err = c.U64(); err != nil {
			return err
		}
		if trackID, err = c.U32(); err != nil {
			return err
		}
		if _, err := c.U32(); err != nil { // reserved
			return err
		}
		if duration, err = c.U64(); err != nil {
			return err
		}
	} else {
		v, err := c.U32()
		if err != nil {
			return err
		}
		creation = uint64(v)
		if v, err = c.U32(); err != nil {
			return err
		}
		modification = uint64(v)
		if trackID, err = c.U32(); err != nil {
			return err
		}
		if _, err := c.U32(); err != nil { // reserved
			return err
		}
		if v, err = c.U32(); err != nil {
			return err
		}
		duration = uint64(v)
	}
	for i := 0; i < 2; i++ {
		if _, err := c.U32(); err != nil { // reserved[2]
			return err
		}
	}
	layer, err := c.I16()
	if err != nil {
		return err
	}
	altGroup, err := c.I16()
	if err != nil {
		return err
	}
	volume, err := decodeFixed8(c)
	if err != nil {
		return err
	}
	if _, err := c.U16(); err != nil { // reserved
		return err
	}
	var matrix [9]int32
	for i := range matrix {
		if matrix[i], err = c.I32(); err != nil {
			return err
		}
	}
	width, err := decodeFixed16(c)
	if err != nil {
		return err
	}
	height, err := decodeFixed16(c)
	if err != nil {
		return err
	}
	a.Enabled = flagBit(ext.Flags, tkhdFlagEnabled)
	a.InMovie = flagBit(ext.Flags, tkhdFlagInMovie)
	a.InPreview = flagBit(ext.Flags, tkhdFlagInPreview)
	a.CreationTime = creation
	a.ModificationTime = modification
	a.TrackID = trackID
	a.Duration = duration
	a.Layer = layer
	a.AlternateGroup = altGroup
	a.Volume = volume
	a.Matrix = matrix
	a.Width = width
	a.Height = height
	return nil
}

func (a *Tkhd) EncodeBody(s *Sink) error {
	version := uint8(0)
	if a.CreationTime > maxUint32 || a.ModificationTime > maxUint32 || a.Duration > maxUint32 {
		version = 1
	}
	var flags uint32
	setFlagBit(&flags, tkhdFlagEnabled, a.Enabled)
	setFlagBit(&flags, tkhdFlagInMovie, a.InMovie)
	setFlagBit(&flags, tkhdFlagInPreview, a.InPreview)
	encodeExtPrefix(s, ExtPrefix{Version: version, Flags: flags})
	if version == 1 {
		s.WriteU64(a.CreationTime)
		s.WriteU64(a.ModificationTime)
		s.WriteU32(a.TrackID)
		s.WriteU32(0)
		s.WriteU64(a.Duration)
	} else {
		s.WriteU32(uint32(a.CreationTime))
		s.WriteU32(uint32(a.ModificationTime))
		s.WriteU32(a.TrackID)
		s.WriteU32(0)
		s.WriteU32(uint32(a.Duration))
	}
	s.WriteU32(0)
	s.WriteU32(0)
	s.WriteI16(a.Layer)
	s.WriteI16(a.AlternateGroup)
	a.Volume.encode(s)
	s.WriteU16(0)
	for _, v := range a.Matrix {
		s.WriteI32(v)
	}
	a.Width.encode(s)
	a.Height.encode(s)
	return nil
}

// Edts is the EditBox (ISO/IEC 14496-12 §8.6.5): an optional edit list
// container.
type Edts struct {
	Elst *Elst
}

func (*Edts) AtomKind() FourCC { return kindEdts }

var edtsSpec = containerSpec{Optional: []FourCC{kindElst}}

func (a *Edts) DecodeBody(c *Cursor) error {
	res, err := decodeContainer(c, edtsSpec)
	if err != nil {
		return err
	}
	if b, ok := res.Single[kindElst]; ok {
		v := *b.Body.(*Elst)
		a.Elst = &v
	}
	return nil
}

func (a *Edts) EncodeBody(s *Sink) error {
	res := &containerResult{Single: map[FourCC]Box{}}
	if a.Elst != nil {
		res.Single[kindElst] = Box{kind: kindElst, Body: a.Elst}
	}
	return encodeContainer(s, edtsSpec, res)
}

// ElstEntry is one edit list segment.
type ElstEntry struct {
	SegmentDuration      uint64
	MediaTime            int64
	MediaRateInteger     int16
	MediaRateFraction    int16
}

// Elst is the EditListBox (ISO/IEC 14496-12 §8.6.6): maps presentation
// time ranges onto the track's media timeline.
type Elst struct {
	Entries []ElstEntry
}

func (*Elst) AtomKind() FourCC { return kindElst }

func (a *Elst) DecodeBody(c *Cursor) error {
	ext, err := decodeExtPrefix(c)
	if err != nil {
		return err
	}
	if err := checkVersion(ext.Version, 0, 1); err != nil {
		return err
	}
	entryCount, err := c.U32()
	if err != nil {
		return err
	}
	entries := make([]ElstEntry, 0, entryCount)
	for i := uint32(0); i < entryCount; i++ {
		var segDuration uint64
		var mediaTime int64
		if ext.Version == 1 {
			if segDuration, err = c.U64(); err != nil {
				return err
			}
			if mediaTime, err = c.I64(); err != nil {
				return err
			}
		} else {
			v, err := c.U32()
			if err != nil {
				return err
			}
			segDuration = uint64(v)
			mt, err := c.I32()
			if err != nil {
				return err
			}
			mediaTime = int64(mt)
		}
		rateInt, err := c.I16()
		if err != nil {
			return err
		}
		rateFrac, err := c.I16()
		if err != nil {
			return err
		}
		entries = append(entries, ElstEntry{
			SegmentDuration:   segDuration,
			MediaTime:         mediaTime,
			MediaRateInteger:  rateInt,
			MediaRateFraction: rateFrac,
		})
	}
	a.Entries = entries
	return nil
}

func (a *Elst) EncodeBody(s *Sink) error {
	version := uint8(0)
	for _, e := range a.Entries {
		if e.SegmentDuration > maxUint32 || e.MediaTime > 0x7FFFFFFF || e.MediaTime < -0x80000000 {
			version = 1
			break
		}
	}
	encodeExtPrefix(s, ExtPrefix{Version: version})
	if len(a.Entries) > maxUint32 {
		return errMsg(ErrTooLarge, "elst entry count exceeds 32 bits")
	}
	s.WriteU32(uint32(len(a.Entries)))
	for _, e := range a.Entries {
		if version == 1 {
			s.WriteU64(e.SegmentDuration)
			s.WriteI64(e.MediaTime)
		} else {
			s.WriteU32(uint32(e.SegmentDuration))
			s.WriteI32(int32(e.MediaTime))
		}
		s.WriteI16(e.MediaRateInteger)
		s.WriteI16(e.MediaRateFraction)
	}
	return nil
}
