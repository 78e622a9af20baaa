package box

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// From the MPEG File Format Conformance suite, adjusted to require V1.
var encodedTfraV1 = []byte{
	0x00, 0x00, 0x00, 0x2c, 0x74, 0x66, 0x72, 0x61, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x03, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x09, 0x68, 0x45, 0x01, 0x02, 0xFF, 0xFF,
}

var decodedTfraV1 = &Tfra{
	TrackID: 3,
	Entries: []FragmentInfo{
		{
			Time:        0,
			MoofOffset:  1099512244293,
			TrafNumber:  1,
			TrunNumber:  2,
			SampleDelta: 65535,
		},
	},
}

func TestTfraV1Decode(t *testing.T) {
	c := NewCursor(encodedTfraV1)
	b, err := DecodeBox(c)
	if err != nil {
		t.Fatalf("DecodeBox: %v", err)
	}
	got := b.Body.(*Tfra)
	if diff := cmp.Diff(decodedTfraV1, got); diff != "" {
		t.Fatalf("decoded mismatch (-want +got):\n%s", diff)
	}
}

func TestTfraV1Encode(t *testing.T) {
	s := NewSink()
	if err := EncodeAtom(s, kindTfra, decodedTfraV1); err != nil {
		t.Fatalf("EncodeAtom: %v", err)
	}
	if diff := cmp.Diff(encodedTfraV1, s.Bytes()); diff != "" {
		t.Fatalf("encoded bytes mismatch (-want +got):\n%s", diff)
	}
}

func TestTfraV0RoundTrip(t *testing.T) {
	orig := &Tfra{
		TrackID: 1,
		Entries: []FragmentInfo{
			{Time: 10, MoofOffset: 200, TrafNumber: 1, TrunNumber: 1, SampleDelta: 5},
			{Time: 20, MoofOffset: 400, TrafNumber: 1, TrunNumber: 1, SampleDelta: 6},
		},
	}
	s := NewSink()
	if err := EncodeAtom(s, kindTfra, orig); err != nil {
		t.Fatalf("EncodeAtom: %v", err)
	}
	c := NewCursor(s.Bytes())
	b, err := DecodeBox(c)
	if err != nil {
		t.Fatalf("DecodeBox: %v", err)
	}
	got := b.Body.(*Tfra)
	if diff := cmp.Diff(orig, got); diff != "" {
		t.Fatalf("round-trip mismatch (-want +got):\n%s", diff)
	}
}
