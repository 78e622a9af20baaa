package box

func init() { register(kindTref, func() Atom { return &Tref{} }) }

var kindTref = NewFourCC("tref")

// TrackReference is one typed entry inside a Tref table: a reference type
// (e.g. "hint", "cdsc", "font", "vdep") and the track IDs it points at.
// Unlike Iref's entries, there is no per-entry "from" item and no version
// byte — just a FourCC and a flat array of track IDs filling the entry.
type TrackReference struct {
	ReferenceType FourCC
	TrackIDs      []uint32
}

// Tref is the TrackReferenceBox (ISO/IEC 14496-12 §8.3.3): unlike Iref,
// this is not a full box, and its children are framed the same
// size+FourCC way real atoms are but are never registered in the Box
// union, so a reference type can't collide with an unrelated atom kind
// reusing the same four letters elsewhere in the tree.
type Tref struct {
	References []TrackReference
}

func (*Tref) AtomKind() FourCC { return kindTref }

func (a *Tref) DecodeBody(c *Cursor) error {
	var refs []TrackReference
	for c.Remaining() > 0 {
		h, err := decodeHeader(c)
		if err != nil {
			return err
		}
		n := c.Remaining()
		if h.Size != nil {
			n = int(*h.Size)
		}
		inner, err := c.Slice(n)
		if err != nil {
			return errBox(ErrOverDecode, h.Kind)
		}
		var ids []uint32
		for inner.Remaining() >= 4 {
			id, err := inner.U32()
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}
		// A trailing 1-3 byte remainder is not a well-formed track ID,
		// but tref tolerates it rather than failing the whole box.
		refs = append(refs, TrackReference{ReferenceType: h.Kind, TrackIDs: ids})
	}
	a.References = refs
	return nil
}

func (a *Tref) EncodeBody(s *Sink) error {
	for _, r := range a.References {
		pos := encodeHeaderPlaceholder(s, r.ReferenceType)
		for _, id := range r.TrackIDs {
			s.WriteU32(id)
		}
		if err := backfillSize(s, pos, r.ReferenceType); err != nil {
			return err
		}
	}
	return nil
}
