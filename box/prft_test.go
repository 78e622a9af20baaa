package box

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// encodedPrftV1 is from the MPEG File Format Conformance suite's
// 21_segment.mp4 (decoded values per 21_segment_gpac.json).
var encodedPrftV1 = []byte{
	0x00, 0x00, 0x00, 0x20, 0x70, 0x72, 0x66, 0x74, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x01, 0xda, 0x74, 0xca, 0x46, 0x6b, 0xc6, 0xa7, 0xef, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	0xff, 0xf8,
}

var decodedPrftV1 = &Prft{
	ReferenceTrackID: 1,
	NTPTimestamp:     15741429001371428847,
	MediaTime:        18446744073709551608,
	UTCTimeSemantics: PrftInput,
}

func TestPrftV1Decode(t *testing.T) {
	c := NewCursor(encodedPrftV1)
	b, err := DecodeBox(c)
	if err != nil {
		t.Fatalf("DecodeBox: %v", err)
	}
	got := b.Body.(*Prft)
	if diff := cmp.Diff(decodedPrftV1, got); diff != "" {
		t.Fatalf("decoded Prft mismatch (-want +got):\n%s", diff)
	}
}

func TestPrftV1Encode(t *testing.T) {
	s := NewSink()
	if err := EncodeAtom(s, kindPrft, decodedPrftV1); err != nil {
		t.Fatalf("EncodeAtom: %v", err)
	}
	if diff := cmp.Diff(encodedPrftV1, s.Bytes()); diff != "" {
		t.Fatalf("encoded bytes mismatch (-want +got):\n%s", diff)
	}
}

func TestPrftV0RoundTrip(t *testing.T) {
	orig := &Prft{
		ReferenceTrackID: 7,
		NTPTimestamp:     15741429001371428847,
		MediaTime:        0xFFFFFFFF,
		UTCTimeSemantics: PrftWritten,
	}
	want := []byte{
		0x00, 0x00, 0x00, 0x1C, 0x70, 0x72, 0x66, 0x74, 0x00, 0x00, 0x00, 0x04, 0x00, 0x00,
		0x00, 0x07, 0xda, 0x74, 0xca, 0x46, 0x6b, 0xc6, 0xa7, 0xef, 0xff, 0xff, 0xff, 0xff,
	}
	s := NewSink()
	if err := EncodeAtom(s, kindPrft, orig); err != nil {
		t.Fatalf("EncodeAtom: %v", err)
	}
	if diff := cmp.Diff(want, s.Bytes()); diff != "" {
		t.Fatalf("encoded bytes mismatch (-want +got):\n%s", diff)
	}
	c := NewCursor(s.Bytes())
	b, err := DecodeBox(c)
	if err != nil {
		t.Fatalf("DecodeBox: %v", err)
	}
	got := b.Body.(*Prft)
	if diff := cmp.Diff(orig, got); diff != "" {
		t.Fatalf("round-trip mismatch (-want +got):\n%s", diff)
	}
}

func TestPrftRealTimeRoundTrip(t *testing.T) {
	orig := &Prft{
		ReferenceTrackID: 1,
		NTPTimestamp:     16571585696146385000,
		MediaTime:        41234604048,
		UTCTimeSemantics: PrftRealTime,
	}
	want := []byte{
		0x00, 0x00, 0x00, 0x20, 0x70, 0x72, 0x66, 0x74, 0x01, 0x00, 0x00, 0x18, 0x00, 0x00,
		0x00, 0x01, 0xe5, 0xfa, 0x19, 0x63, 0xff, 0xbf, 0xe8, 0x68, 0x00, 0x00, 0x00, 0x09,
		0x99, 0xc6, 0x20, 0x10,
	}
	s := NewSink()
	if err := EncodeAtom(s, kindPrft, orig); err != nil {
		t.Fatalf("EncodeAtom: %v", err)
	}
	if diff := cmp.Diff(want, s.Bytes()); diff != "" {
		t.Fatalf("encoded bytes mismatch (-want +got):\n%s", diff)
	}
	c := NewCursor(s.Bytes())
	b, err := DecodeBox(c)
	if err != nil {
		t.Fatalf("DecodeBox: %v", err)
	}
	got := b.Body.(*Prft)
	if diff := cmp.Diff(orig, got); diff != "" {
		t.Fatalf("round-trip mismatch (-want +got):\n%s", diff)
	}
}
