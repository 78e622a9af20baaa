package box

import "io"

// Atom is implemented by every box body this package knows how to decode
// and encode. KindedAtom's AtomKind identifies the FourCC; DecodeBody/EncodeBody operate
// on the body only — the shared drivers below handle the size+FourCC
// header framing around it.
type Atom interface {
	DecodeBody(c *Cursor) error
	EncodeBody(s *Sink) error
}

// KindedAtom is implemented by concrete atom body types, which expose
// their KIND as a method (Go has no const-in-interface equivalent to the
// donor's associated KIND constant).
type KindedAtom interface {
	Atom
	AtomKind() FourCC
}

// DecodeAtom is driver #1 (§4.2): decode a buffer known to contain
// exactly one box of the expected kind. It enforces the envelope
// discipline: trailing bytes are UnderDecode, over-reads are OverDecode.
func DecodeAtom(c *Cursor, expected FourCC, body Atom) error {
	h, err := decodeHeader(c)
	if err != nil {
		return err
	}
	if h.Kind != expected {
		return errBox(ErrUnexpectedBox, h.Kind)
	}
	n := c.Remaining()
	if h.Size != nil {
		n = int(*h.Size)
	}
	inner, err := c.Slice(n)
	if err != nil {
		return errBox(ErrOverDecode, expected)
	}
	if err := body.DecodeBody(inner); err != nil {
		if e, ok := err.(*Error); ok && e.Kind == ErrOutOfBounds {
			return errBox(ErrOverDecode, expected)
		}
		return err
	}
	if inner.Remaining() != 0 {
		return errBox(ErrUnderDecode, expected)
	}
	return nil
}

// EncodeAtom is the encode half of driver #1: write the header
// placeholder, run the body encoder, then backfill the real size.
func EncodeAtom(s *Sink, kind FourCC, body Atom) error {
	pos := encodeHeaderPlaceholder(s, kind)
	if err := body.EncodeBody(s); err != nil {
		return err
	}
	return backfillSize(s, pos, kind)
}

// minHeaderBytes is the smallest number of bytes decodeMaybe needs to see
// before it can tell whether a full box is present.
const minHeaderBytes = 8

// DecodeMaybeResult reports whether a box was present and, if so, its
// header.
type DecodeMaybeResult struct {
	Present bool
	Header  Header
}

// decodeHeaderMaybe implements driver #2's header half: zero bytes means
// "none"; fewer bytes than a full header (or, if declared, fewer than the
// full declared size) also means "none" (the caller is streaming); a
// complete header otherwise decodes normally.
func decodeHeaderMaybe(c *Cursor) (Header, bool, error) {
	if c.Remaining() == 0 {
		return Header{}, false, nil
	}
	if c.Remaining() < minHeaderBytes {
		return Header{}, false, nil
	}
	save := *c
	h, err := decodeHeader(&save)
	if err != nil {
		return Header{}, false, err
	}
	if h.Size != nil {
		declaredHeaderLen := 8
		if save.pos-c.pos == 16 {
			declaredHeaderLen = 16
		}
		total := declaredHeaderLen + int(*h.Size)
		if c.Remaining() < total {
			return Header{}, false, nil
		}
	}
	// c is left unchanged (at headerStart): the caller re-decodes the
	// header for real via decodeHeader once it knows a full box fits.
	return h, true, nil
}

// ReadFromStream is driver #3: read one box (header + full payload) from
// an io.Reader. ok is false only on a clean EOF before any header byte.
func ReadFromStream(r io.Reader) (h Header, payload []byte, ok bool, err error) {
	h, ok, err = readHeaderFrom(r)
	if err != nil || !ok {
		return h, nil, ok, err
	}
	if h.Size == nil {
		// "rest of stream": drain everything remaining.
		buf, err := io.ReadAll(r)
		if err != nil {
			return h, nil, true, newErr(ErrShortRead)
		}
		return h, buf, true, nil
	}
	buf := make([]byte, *h.Size)
	if _, err := io.ReadFull(r, buf); err != nil {
		return h, nil, true, newErr(ErrShortRead)
	}
	return h, buf, true, nil
}

// ReadUntilKind is driver #4: repeatedly read and discard boxes from r
// until one matching kind is found (returned undecoded, payload only)
// or EOF is reached (ok=false).
func ReadUntilKind(r io.Reader, kind FourCC) (payload []byte, ok bool, err error) {
	for {
		h, body, present, err := ReadFromStream(r)
		if err != nil {
			return nil, false, err
		}
		if !present {
			return nil, false, nil
		}
		if h.Kind == kind {
			return body, true, nil
		}
	}
}
