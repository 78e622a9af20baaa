package box

import "encoding/binary"

// Sink is a growable byte buffer exposing fixed-width big-endian appends
// plus a targeted overwrite used to backfill a size word after the body
// has been written. It is the engine's "write sink".
//
// This is the direct descendant of the donor remuxer's ExcludeBuffer type
// (core/remux.go in the donor), generalized from "MP4 atom writer" to
// "any box codec writer" and widened to every integer width the buffer
// codec needs, not just the handful the donor's remuxer used.
type Sink struct {
	buf []byte
}

// NewSink returns an empty write sink.
func NewSink() *Sink { return &Sink{} }

// Len returns the current number of bytes written.
func (s *Sink) Len() int { return len(s.buf) }

// Bytes returns the accumulated buffer.
func (s *Sink) Bytes() []byte { return s.buf }

func (s *Sink) WriteBytes(b []byte) { s.buf = append(s.buf, b...) }

func (s *Sink) WriteU8(v uint8) { s.buf = append(s.buf, v) }

func (s *Sink) WriteI8(v int8) { s.WriteU8(uint8(v)) }

func (s *Sink) WriteU16(v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	s.buf = append(s.buf, b[:]...)
}

func (s *Sink) WriteI16(v int16) { s.WriteU16(uint16(v)) }

func (s *Sink) WriteU24(v uint32) {
	s.buf = append(s.buf, byte(v>>16), byte(v>>8), byte(v))
}

func (s *Sink) WriteU32(v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	s.buf = append(s.buf, b[:]...)
}

func (s *Sink) WriteI32(v int32) { s.WriteU32(uint32(v)) }

func (s *Sink) WriteU48(v uint64) {
	s.buf = append(s.buf,
		byte(v>>40), byte(v>>32), byte(v>>24),
		byte(v>>16), byte(v>>8), byte(v))
}

func (s *Sink) WriteU64(v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	s.buf = append(s.buf, b[:]...)
}

func (s *Sink) WriteI64(v int64) { s.WriteU64(uint64(v)) }

func (s *Sink) WriteFourCC(f FourCC) { s.buf = append(s.buf, f[:]...) }

// WriteCString writes s followed by a NUL terminator.
func (s *Sink) WriteCString(str string) {
	s.buf = append(s.buf, str...)
	s.buf = append(s.buf, 0)
}

// WriteFixedString writes s truncated/zero-padded to exactly n bytes.
func (s *Sink) WriteFixedString(str string, n int) {
	b := make([]byte, n)
	copy(b, str)
	s.buf = append(s.buf, b...)
}

// SetSlice overwrites the n bytes starting at pos with data, used to
// backfill a size placeholder once the body's length is known. It is an
// error to target past the current length.
func (s *Sink) SetSlice(pos int, data []byte) error {
	if pos < 0 || pos+len(data) > len(s.buf) {
		return newErr(ErrOutOfBounds)
	}
	copy(s.buf[pos:pos+len(data)], data)
	return nil
}
