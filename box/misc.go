package box

func init() {
	register(kindMdat, func() Atom { return &Mdat{} })
	register(kindFree, func() Atom { return &Free{} })
	register(kindSkip, func() Atom { return &Free{} })
	register(kindUdta, func() Atom { return &Udta{} })
}

var (
	kindMdat = NewFourCC("mdat")
	kindFree = NewFourCC("free")
	kindSkip = NewFourCC("skip")
	kindUdta = NewFourCC("udta")
)

// Mdat is the MediaDataBox (ISO/IEC 14496-12 §8.1.1): raw sample bytes,
// opaque to this package beyond their extent. A zero-size mdat declaring
// "rest of file" (the streaming convention, §4.2/§4.5) is represented the
// same as any other box here: DecodeBox/ReadFromStream already resolve
// that at the header/cursor level before this body ever sees it.
type Mdat struct {
	Data []byte
}

func (*Mdat) AtomKind() FourCC { return kindMdat }

func (a *Mdat) DecodeBody(c *Cursor) error {
	a.Data = c.RestBytes()
	return nil
}

func (a *Mdat) EncodeBody(s *Sink) error {
	s.WriteBytes(a.Data)
	return nil
}

// Free is the shared body of FreeSpaceBox (free) and SkipBox (skip):
// padding bytes with no semantic meaning, preserved byte-for-byte.
type Free struct {
	Data []byte
}

// AtomKind reports free; skip shares this body type and is registered
// and encoded under its own kind via EncodeAtom's explicit kind argument.
func (*Free) AtomKind() FourCC { return kindFree }

func (a *Free) DecodeBody(c *Cursor) error {
	a.Data = c.RestBytes()
	return nil
}

func (a *Free) EncodeBody(s *Sink) error {
	s.WriteBytes(a.Data)
	return nil
}

// Udta is the UserDataBox (ISO/IEC 14496-12 §8.10.1): a fault-tolerant
// bag of vendor- and application-specific children (e.g. "meta", "©too")
// that this package preserves without needing to recognize every kind.
type Udta struct {
	Meta     *Meta
	Children []Box
}

func (*Udta) AtomKind() FourCC { return kindUdta }

var udtaSpec = containerSpec{Optional: []FourCC{kindMeta}, FaultTolerant: true}

func (a *Udta) DecodeBody(c *Cursor) error {
	res, err := decodeContainer(c, udtaSpec)
	if err != nil {
		return err
	}
	if b, ok := res.Single[kindMeta]; ok {
		v := *b.Body.(*Meta)
		a.Meta = &v
	}
	a.Children = res.Unexpected
	return nil
}

func (a *Udta) EncodeBody(s *Sink) error {
	res := &containerResult{Single: map[FourCC]Box{}}
	if a.Meta != nil {
		res.Single[kindMeta] = Box{kind: kindMeta, Body: a.Meta}
	}
	if err := encodeContainer(s, udtaSpec, res); err != nil {
		return err
	}
	for _, b := range a.Children {
		if err := EncodeBox(s, b); err != nil {
			return err
		}
	}
	return nil
}
