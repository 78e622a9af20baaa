package box

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// encodedIlocLibavif is a single-item, single-extent V0 iloc body captured
// from a libavif-produced AVIF file: item 1, base offset 0, one extent at
// byte offset 312 length 26.
var encodedIlocLibavif = []byte{
	0x00, 0x00, 0x00, 0x1e, 'i', 'l', 'o', 'c',
	0x00, 0x00, 0x00, 0x00, // version 0, flags 0
	0x44,       // offset_size=4, length_size=4
	0x00,       // base_offset_size=0, index_size=0
	0x00, 0x01, // item_count=1
	0x00, 0x01, // item_id=1
	0x00, 0x00, // data_reference_index=0
	0x00, 0x01, // extent_count=1
	0x00, 0x00, 0x01, 0x38, // extent_offset=312
	0x00, 0x00, 0x00, 0x1a, // extent_length=26
}

func TestIlocDecodeLibavif(t *testing.T) {
	c := NewCursor(encodedIlocLibavif)
	b, err := DecodeBox(c)
	if err != nil {
		t.Fatalf("DecodeBox: %v", err)
	}
	if b.Kind() != kindIloc {
		t.Fatalf("kind = %v, want iloc", b.Kind())
	}
	got, ok := b.Body.(*Iloc)
	if !ok {
		t.Fatalf("body type = %T, want *Iloc", b.Body)
	}
	want := &Iloc{
		Items: []ItemLocation{
			{
				ItemID:             1,
				DataReferenceIndex: 0,
				BaseOffset:         0,
				Extents: []ItemLocationExtent{
					{Offset: 312, Length: 26},
				},
			},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("decoded Iloc mismatch (-want +got):\n%s", diff)
	}
}

func TestIlocRoundTrip(t *testing.T) {
	orig := &Iloc{
		Items: []ItemLocation{
			{
				ItemID:             1,
				DataReferenceIndex: 0,
				BaseOffset:         0,
				Extents: []ItemLocationExtent{
					{Offset: 312, Length: 26},
				},
			},
		},
	}
	s := NewSink()
	if err := EncodeAtom(s, kindIloc, orig); err != nil {
		t.Fatalf("EncodeAtom: %v", err)
	}
	if diff := cmp.Diff(encodedIlocLibavif, s.Bytes()); diff != "" {
		t.Fatalf("encoded bytes mismatch (-want +got):\n%s", diff)
	}

	c := NewCursor(s.Bytes())
	b, err := DecodeBox(c)
	if err != nil {
		t.Fatalf("DecodeBox: %v", err)
	}
	got := b.Body.(*Iloc)
	if diff := cmp.Diff(orig, got); diff != "" {
		t.Fatalf("round-trip mismatch (-want +got):\n%s", diff)
	}
}

func TestIlocMultiItemBaseOffset64(t *testing.T) {
	orig := &Iloc{
		Items: []ItemLocation{
			{ItemID: 1, DataReferenceIndex: 0, BaseOffset: 1 << 40, Extents: []ItemLocationExtent{
				{Offset: 100, Length: 200},
				{Offset: 300, Length: 50},
			}},
			{ItemID: 2, DataReferenceIndex: 0, BaseOffset: 1 << 40, Extents: []ItemLocationExtent{
				{Offset: 400, Length: 10},
			}},
		},
	}
	s := NewSink()
	if err := EncodeAtom(s, kindIloc, orig); err != nil {
		t.Fatalf("EncodeAtom: %v", err)
	}
	c := NewCursor(s.Bytes())
	b, err := DecodeBox(c)
	if err != nil {
		t.Fatalf("DecodeBox: %v", err)
	}
	got := b.Body.(*Iloc)
	if diff := cmp.Diff(orig, got); diff != "" {
		t.Fatalf("round-trip mismatch (-want +got):\n%s", diff)
	}
}
