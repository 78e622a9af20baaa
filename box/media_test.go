package box

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestHmhdRoundTrip(t *testing.T) {
	orig := &Hmhd{MaxPDUSize: 1500, AvgPDUSize: 800, MaxBitrate: 256000, AvgBitrate: 128000}
	s := NewSink()
	if err := EncodeAtom(s, kindHmhd, orig); err != nil {
		t.Fatalf("EncodeAtom: %v", err)
	}
	c := NewCursor(s.Bytes())
	b, err := DecodeBox(c)
	if err != nil {
		t.Fatalf("DecodeBox: %v", err)
	}
	if diff := cmp.Diff(orig, b.Body.(*Hmhd)); diff != "" {
		t.Fatalf("decoded mismatch (-want +got):\n%s", diff)
	}
}

func TestSthdRoundTrip(t *testing.T) {
	orig := &Sthd{}
	s := NewSink()
	if err := EncodeAtom(s, kindSthd, orig); err != nil {
		t.Fatalf("EncodeAtom: %v", err)
	}
	c := NewCursor(s.Bytes())
	b, err := DecodeBox(c)
	if err != nil {
		t.Fatalf("DecodeBox: %v", err)
	}
	if diff := cmp.Diff(orig, b.Body.(*Sthd)); diff != "" {
		t.Fatalf("decoded mismatch (-want +got):\n%s", diff)
	}
}

func TestMinfWithHmhdRoundTrip(t *testing.T) {
	orig := &Minf{
		Hmhd: &Hmhd{MaxPDUSize: 1500, AvgPDUSize: 700, MaxBitrate: 64000, AvgBitrate: 32000},
		Dinf: Dinf{Dref: Dref{Entries: []DataEntry{{Kind: kindURL, SelfContained: true}}}},
		Stbl: Stbl{Stsd: Stsd{Entries: []Box{}}, Stts: Stts{Entries: []SttsEntry{}}, Stsz: Stsz{Sizes: []uint32{}}, Stsc: Stsc{Entries: []StscEntry{}}},
	}
	s := NewSink()
	if err := EncodeAtom(s, kindMinf, orig); err != nil {
		t.Fatalf("EncodeAtom: %v", err)
	}
	c := NewCursor(s.Bytes())
	b, err := DecodeBox(c)
	if err != nil {
		t.Fatalf("DecodeBox: %v", err)
	}
	if diff := cmp.Diff(orig, b.Body.(*Minf)); diff != "" {
		t.Fatalf("decoded mismatch (-want +got):\n%s", diff)
	}
}
