package box

func init() { register(kindEmsg, func() Atom { return &Emsg{} }) }

var kindEmsg = NewFourCC("emsg")

// Emsg is the EventMessageBox (ISO/IEC 23009-1 §5.10.3.3): an in-band DASH
// event carried in a media segment. Unlike the other full-box atoms here,
// version 0 and version 1 place their fields in different ORDER rather than
// just different widths, so Emsg implements Atom directly instead of going
// through ExtPrefix/checkVersion.
type Emsg struct {
	Version                 uint8
	Flags                   uint32 // low 24 bits
	PresentationTimeDelta   uint32 // version 0 only
	PresentationTime        uint64 // version 1 only
	Timescale               uint32
	EventDuration           uint32
	ID                      uint32
	SchemeIDURI             string
	Value                   string
	MessageData             []byte
}

func (*Emsg) AtomKind() FourCC { return kindEmsg }

func (a *Emsg) DecodeBody(c *Cursor) error {
	version, err := c.U8()
	if err != nil {
		return err
	}
	flags, err := c.U24()
	if err != nil {
		return err
	}
	a.Version = version
	a.Flags = flags
	switch version {
	case 0:
		schemeIDURI, err := c.CString()
		if err != nil {
			return err
		}
		value, err := c.CString()
		if err != nil {
			return err
		}
		timescale, err := c.U32()
		if err != nil {
			return err
		}
		presentationTimeDelta, err := c.U32()
		if err != nil {
			return err
		}
		eventDuration, err := c.U32()
		if err != nil {
			return err
		}
		id, err := c.U32()
		if err != nil {
			return err
		}
		a.SchemeIDURI = schemeIDURI
		a.Value = value
		a.Timescale = timescale
		a.PresentationTimeDelta = presentationTimeDelta
		a.EventDuration = eventDuration
		a.ID = id
	case 1:
		timescale, err := c.U32()
		if err != nil {
			return err
		}
		presentationTime, err := c.U64()
		if err != nil {
			return err
		}
		eventDuration, err := c.U32()
		if err != nil {
			return err
		}
		id, err := c.U32()
		if err != nil {
			return err
		}
		schemeIDURI, err := c.CString()
		if err != nil {
			return err
		}
		value, err := c.CString()
		if err != nil {
			return err
		}
		a.Timescale = timescale
		a.PresentationTime = presentationTime
		a.EventDuration = eventDuration
		a.ID = id
		a.SchemeIDURI = schemeIDURI
		a.Value = value
	default:
		return errVersion(version)
	}
	a.MessageData = c.RestBytes()
	return nil
}

func (a *Emsg) EncodeBody(s *Sink) error {
	s.WriteU8(a.Version)
	s.WriteU24(a.Flags)
	switch a.Version {
	case 0:
		s.WriteCString(a.SchemeIDURI)
		s.WriteCString(a.Value)
		s.WriteU32(a.Timescale)
		s.WriteU32(a.PresentationTimeDelta)
		s.WriteU32(a.EventDuration)
		s.WriteU32(a.ID)
	case 1:
		s.WriteU32(a.Timescale)
		s.WriteU64(a.PresentationTime)
		s.WriteU32(a.EventDuration)
		s.WriteU32(a.ID)
		s.WriteCString(a.SchemeIDURI)
		s.WriteCString(a.Value)
	default:
		return errVersion(a.Version)
	}
	s.WriteBytes(a.MessageData)
	return nil
}
