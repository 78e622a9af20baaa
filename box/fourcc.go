// Package box implements a decoder/encoder for the ISO Base Media File
// Format (ISO/IEC 14496-12) and the container families built on top of it:
// MP4, CMAF, fragmented MP4/DASH segments, and HEIF/AVIF still images.
//
// The format is a tree of self-describing, size-prefixed binary boxes
// ("atoms"). This package turns a byte stream into a typed tree and back,
// exactly for the box kinds it recognizes, while preserving unrecognized
// boxes as opaque payloads so a round trip never silently drops data.
package box

import "encoding/binary"

// FourCC is a four-byte box type code, compared as a big-endian uint32.
type FourCC [4]byte

// NewFourCC builds a FourCC from a 4-byte ASCII string literal.
func NewFourCC(s string) FourCC {
	var f FourCC
	copy(f[:], s)
	return f
}

func (f FourCC) String() string {
	return string(f[:])
}

// Uint32 returns the FourCC as a big-endian integer, used for fast
// comparisons and as a map key where that reads more naturally than the
// array form.
func (f FourCC) Uint32() uint32 {
	return binary.BigEndian.Uint32(f[:])
}

func fourCCFromUint32(v uint32) FourCC {
	var f FourCC
	binary.BigEndian.PutUint32(f[:], v)
	return f
}
