package box

// Box is the closed, polymorphic atom value: either one of the recognized
// kinds (Body non-nil) or an opaque Unknown payload (Body nil, Raw set).
// This is the Go rendering of the donor's tagged union — a map-dispatched
// constructor table plays the role of the macro-expanded enum (see
// DESIGN.md and SPEC_FULL.md §9 on that tradeoff).
type Box struct {
	kind FourCC
	Body Atom   // nil for Unknown boxes
	Raw  []byte // only set when Body == nil
}

// Kind returns the box's FourCC, whether recognized or Unknown.
func (b Box) Kind() FourCC { return b.kind }

// IsUnknown reports whether this box fell through to the Unknown case.
func (b Box) IsUnknown() bool { return b.Body == nil }

// registryEntry is one row of the closed atom table: a FourCC and a
// constructor for a fresh, zero-valued body of that kind.
type registryEntry struct {
	kind    FourCC
	newBody func() Atom
}

var registry = map[FourCC]func() Atom{}

// register adds kind to the closed atom table. Called from each atom
// file's init(), so the table's membership is visible by grepping for
// register( calls rather than hidden behind reflection or file scanning.
func register(kind FourCC, newBody func() Atom) {
	registry[kind] = newBody
}

// DecodeBox reads one box (header + body) from c, dispatching on FourCC
// into the registered body type, or into Unknown if the kind is not
// recognized. Unknown kinds are not an error (§3/§7): they are data.
func DecodeBox(c *Cursor) (Box, error) {
	h, err := decodeHeader(c)
	if err != nil {
		return Box{}, err
	}
	n := c.Remaining()
	if h.Size != nil {
		n = int(*h.Size)
	}
	inner, err := c.Slice(n)
	if err != nil {
		return Box{}, errBox(ErrOverDecode, h.Kind)
	}
	return decodeBoxBody(h.Kind, inner)
}

func decodeBoxBody(kind FourCC, inner *Cursor) (Box, error) {
	newBody, ok := registry[kind]
	if !ok {
		return Box{kind: kind, Raw: inner.RestBytes()}, nil
	}
	body := newBody()
	if err := body.DecodeBody(inner); err != nil {
		if e, ok := err.(*Error); ok && e.Kind == ErrOutOfBounds {
			return Box{}, errBox(ErrOverDecode, kind)
		}
		return Box{}, err
	}
	if inner.Remaining() != 0 {
		return Box{}, errBox(ErrUnderDecode, kind)
	}
	return Box{kind: kind, Body: body}, nil
}

// DecodeMaybeBox is driver #2 dispatched through the registry (§4.3): it
// never fails on a clean "not enough bytes yet" situation, returning
// present=false instead, so streaming callers can ask for more data.
func DecodeMaybeBox(c *Cursor) (Box, bool, error) {
	_, present, err := decodeHeaderMaybe(c)
	if err != nil || !present {
		return Box{}, present, err
	}
	// decodeHeaderMaybe left c untouched at the header start, having only
	// confirmed a full box fits; decode it for real now.
	h, err := decodeHeader(c)
	if err != nil {
		return Box{}, true, err
	}
	n := c.Remaining()
	if h.Size != nil {
		n = int(*h.Size)
	}
	inner, err := c.Slice(n)
	if err != nil {
		return Box{}, true, errBox(ErrOverDecode, h.Kind)
	}
	box, err := decodeBoxBody(h.Kind, inner)
	return box, true, err
}

// EncodeBox writes a box's header and body with deferred size backfill.
func EncodeBox(s *Sink, b Box) error {
	if b.IsUnknown() {
		pos := encodeHeaderPlaceholder(s, b.kind)
		s.WriteBytes(b.Raw)
		return backfillSize(s, pos, b.kind)
	}
	return EncodeAtom(s, b.kind, b.Body)
}
