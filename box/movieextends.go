package box

func init() {
	register(kindMvex, func() Atom { return &Mvex{} })
	register(kindMehd, func() Atom { return &Mehd{} })
	register(kindTrex, func() Atom { return &Trex{} })
}

var (
	kindMvex = NewFourCC("mvex")
	kindMehd = NewFourCC("mehd")
	kindTrex = NewFourCC("trex")
)

// Mvex is the MovieExtendsBox (ISO/IEC 14496-12 §8.8.1): declares that a
// movie is fragmented and lists each track's per-fragment defaults.
type Mvex struct {
	Mehd *Mehd
	Trex []Trex
}

func (*Mvex) AtomKind() FourCC { return kindMvex }

var mvexSpec = containerSpec{Optional: []FourCC{kindMehd}, Multiple: []FourCC{kindTrex}}

func (a *Mvex) DecodeBody(c *Cursor) error {
	res, err := decodeContainer(c, mvexSpec)
	if err != nil {
		return err
	}
	if b, ok := res.Single[kindMehd]; ok {
		v := *b.Body.(*Mehd)
		a.Mehd = &v
	}
	for _, b := range res.Multi[kindTrex] {
		a.Trex = append(a.Trex, *b.Body.(*Trex))
	}
	return nil
}

func (a *Mvex) EncodeBody(s *Sink) error {
	res := &containerResult{Single: map[FourCC]Box{}, Multi: map[FourCC][]Box{}}
	if a.Mehd != nil {
		res.Single[kindMehd] = Box{kind: kindMehd, Body: a.Mehd}
	}
	for i := range a.Trex {
		res.Multi[kindTrex] = append(res.Multi[kindTrex], Box{kind: kindTrex, Body: &a.Trex[i]})
	}
	return encodeContainer(s, mvexSpec, res)
}

// Mehd is the MovieExtendsHeaderBox (ISO/IEC 14496-12 §8.8.2): the
// fragmented movie's overall intended duration.
type Mehd struct {
	FragmentDuration uint64
}

func (*Mehd) AtomKind() FourCC { return kindMehd }

func (a *Mehd) DecodeBody(c *Cursor) error {
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
		a.FragmentDuration = v
	} else {
		v, err := c.U32()
		if err != nil {
			return err
		}
		a.FragmentDuration = uint64(v)
	}
	return nil
}

func (a *Mehd) EncodeBody(s *Sink) error {
	version := uint8(0)
	if a.FragmentDuration > maxUint32 {
		version = 1
	}
	encodeExtPrefix(s, ExtPrefix{Version: version})
	if version == 1 {
		s.WriteU64(a.FragmentDuration)
	} else {
		s.WriteU32(uint32(a.FragmentDuration))
	}
	return nil
}

// Trex is the TrackExtendsBox (ISO/IEC 14496-12 §8.8.3): a track's
// fragment-local defaults, overridable per-fragment by tfhd.
type Trex struct {
	TrackID                       uint32
	DefaultSampleDescriptionIndex uint32
	DefaultSampleDuration         uint32
	DefaultSampleSize             uint32
	DefaultSampleFlags            uint32
}

func (*Trex) AtomKind() FourCC { return kindTrex }

func (a *Trex) DecodeBody(c *Cursor) error {
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
	sdi, err := c.U32()
	if err != nil {
		return err
	}
	dur, err := c.U32()
	if err != nil {
		return err
	}
	size, err := c.U32()
	if err != nil {
		return err
	}
	flags, err := c.U32()
	if err != nil {
		return err
	}
	a.TrackID = trackID
	a.DefaultSampleDescriptionIndex = sdi
	a.DefaultSampleDuration = dur
	a.DefaultSampleSize = size
	a.DefaultSampleFlags = flags
	return nil
}

func (a *Trex) EncodeBody(s *Sink) error {
	encodeExtPrefix(s, ExtPrefix{})
	s.WriteU32(a.TrackID)
	s.WriteU32(a.DefaultSampleDescriptionIndex)
	s.WriteU32(a.DefaultSampleDuration)
	s.WriteU32(a.DefaultSampleSize)
	s.WriteU32(a.DefaultSampleFlags)
	return nil
}
