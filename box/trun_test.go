package box

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func u32p(v uint32) *uint32 { return &v }
func i32p(v int32) *int32   { return &v }

func TestTrunRoundTripAllColumns(t *testing.T) {
	orig := &Trun{
		DataOffset: i32p(512),
		Entries: []TrunEntry{
			{Duration: u32p(1000), Size: u32p(4096), Flags: u32p(0x1000000), CTS: i32p(0)},
			{Duration: u32p(1000), Size: u32p(2048), Flags: u32p(0x1010000), CTS: i32p(33)},
		},
	}
	s := NewSink()
	if err := EncodeAtom(s, kindTrun, orig); err != nil {
		t.Fatalf("EncodeAtom: %v", err)
	}
	c := NewCursor(s.Bytes())
	b, err := DecodeBox(c)
	if err != nil {
		t.Fatalf("DecodeBox: %v", err)
	}
	got := b.Body.(*Trun)
	if diff := cmp.Diff(orig, got); diff != "" {
		t.Fatalf("round-trip mismatch (-want +got):\n%s", diff)
	}
}

func TestTrunRoundTripFirstSampleFlagsOverride(t *testing.T) {
	orig := &Trun{
		FirstSampleFlags: u32p(0x2000000),
		Entries: []TrunEntry{
			{Duration: u32p(512), Size: u32p(100)},
			{Duration: u32p(512), Size: u32p(120), Flags: u32p(0x1010000)},
			{Duration: u32p(512), Size: u32p(130), Flags: u32p(0x1010000)},
		},
	}
	s := NewSink()
	if err := EncodeAtom(s, kindTrun, orig); err != nil {
		t.Fatalf("EncodeAtom: %v", err)
	}
	c := NewCursor(s.Bytes())
	b, err := DecodeBox(c)
	if err != nil {
		t.Fatalf("DecodeBox: %v", err)
	}
	got := b.Body.(*Trun)

	want := &Trun{
		FirstSampleFlags: u32p(0x2000000),
		Entries: []TrunEntry{
			{Duration: u32p(512), Size: u32p(100), Flags: u32p(0x2000000)},
			{Duration: u32p(512), Size: u32p(120), Flags: u32p(0x1010000)},
			{Duration: u32p(512), Size: u32p(130), Flags: u32p(0x1010000)},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("round-trip mismatch (-want +got):\n%s", diff)
	}
}

func TestTrunRoundTripMinimal(t *testing.T) {
	orig := &Trun{
		Entries: []TrunEntry{{}, {}, {}},
	}
	s := NewSink()
	if err := EncodeAtom(s, kindTrun, orig); err != nil {
		t.Fatalf("EncodeAtom: %v", err)
	}
	c := NewCursor(s.Bytes())
	b, err := DecodeBox(c)
	if err != nil {
		t.Fatalf("DecodeBox: %v", err)
	}
	got := b.Body.(*Trun)
	if diff := cmp.Diff(orig, got); diff != "" {
		t.Fatalf("round-trip mismatch (-want +got):\n%s", diff)
	}
}
