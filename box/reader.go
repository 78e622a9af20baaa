package box

import "io"

// Reader is a single-pass driver over any io.Reader: each call to Next
// yields one top-level box's header and full raw payload, leaving the
// decision of whether (and how) to decode it to the caller. This is the
// shape a "watch a growing file" client needs — drain whatever top-level
// boxes have landed, decode the ones it cares about, skip the rest (a
// large mdat, say) without ever materializing them as a typed tree.
//
// The core engine itself has no notion of time or blocking; Reader only
// sequences the existing ReadFromStream driver (§4.2) against a stream,
// leaving timeouts and cancellation to the caller, who wraps r with
// whatever deadline or context-aware reader its own I/O layer provides.
type Reader struct {
	r io.Reader
}

// NewReader wraps r for single-pass, box-at-a-time reading.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// Next reads the next top-level box's header and full payload. It
// returns io.EOF (unwrapped, so callers can use the usual for-loop idiom)
// when the stream ends cleanly between boxes; any other error means the
// stream ended, or was malformed, mid-box.
func (rd *Reader) Next() (Header, []byte, error) {
	h, payload, ok, err := ReadFromStream(rd.r)
	if err != nil {
		return Header{}, nil, err
	}
	if !ok {
		return Header{}, nil, io.EOF
	}
	return h, payload, nil
}

// Decode parses a payload previously returned by Next into a typed Box,
// dispatching through the same registry DecodeBox uses (so an Unknown
// kind is still not an error — it becomes an opaque Box, per §3/§7).
func (rd *Reader) Decode(h Header, payload []byte) (Box, error) {
	return decodeBoxBody(h.Kind, NewCursor(payload))
}

// Until reads and discards boxes until one matching kind is found,
// returning it undecoded (header + raw payload), or io.EOF if the stream
// ends first. It is Next's counterpart to driver #4 (ReadUntilKind),
// exposed at the Header granularity Reader's other methods use.
func (rd *Reader) Until(kind FourCC) (Header, []byte, error) {
	for {
		h, payload, err := rd.Next()
		if err != nil {
			return Header{}, nil, err
		}
		if h.Kind == kind {
			return h, payload, nil
		}
	}
}
