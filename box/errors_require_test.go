package box

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// These assert on the *kind* of a failure rather than deep-equality of the
// full tree, so they use testify/require rather than go-cmp.

func TestDecodeAtomWrongKind(t *testing.T) {
	s := NewSink()
	require.NoError(t, EncodeAtom(s, kindFree, &Free{Data: []byte{1}}))

	c := NewCursor(s.Bytes())
	var got Mfhd
	err := DecodeAtom(c, kindMfhd, &got)
	require.Error(t, err)
	boxErr, ok := err.(*Error)
	require.True(t, ok, "expected *Error, got %T", err)
	require.Equal(t, ErrUnexpectedBox, boxErr.Kind)
}

func TestMoovMissingMvhd(t *testing.T) {
	s := NewSink()
	require.NoError(t, EncodeAtom(s, kindTrak, &Trak{
		Tkhd: Tkhd{TrackID: 1},
		Mdia: Mdia{
			Mdhd: Mdhd{Timescale: 1000},
			Hdlr: Hdlr{HandlerType: NewFourCC("soun")},
			Minf: Minf{Smhd: &Smhd{}, Dinf: Dinf{Dref: Dref{Entries: []DataEntry{{Kind: kindURL, SelfContained: true}}}}},
		},
	}))

	// Wrap the lone trak as though it were moov's body: no mvhd present.
	c := NewCursor(s.Bytes())
	_, err := DecodeBox(c)
	require.NoError(t, err, "decoding the trak itself should succeed")

	var moov Moov
	body := NewCursor(s.Bytes())
	err = moov.DecodeBody(body)
	require.Error(t, err)
	boxErr, ok := err.(*Error)
	require.True(t, ok, "expected *Error, got %T", err)
	require.Equal(t, ErrMissingBox, boxErr.Kind)
	require.Equal(t, kindMvhd, boxErr.Box)
}
