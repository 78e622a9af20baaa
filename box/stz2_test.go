package box

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestStz2Field8RoundTrip(t *testing.T) {
	orig := &Stz2{EntrySizes: []uint16{15, 16, 3}}
	s := NewSink()
	if err := EncodeAtom(s, kindStz2, orig); err != nil {
		t.Fatalf("EncodeAtom: %v", err)
	}
	want := []byte{
		0x00, 0x00, 0x00, 23, 's', 't', 'z', '2', 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x08, 0x00, 0x00, 0x00, 0x03, 0x0f, 0x10, 0x03,
	}
	if diff := cmp.Diff(want, s.Bytes()); diff != "" {
		t.Fatalf("encoded bytes mismatch (-want +got):\n%s", diff)
	}
	c := NewCursor(s.Bytes())
	b, err := DecodeBox(c)
	if err != nil {
		t.Fatalf("DecodeBox: %v", err)
	}
	got := b.Body.(*Stz2)
	if diff := cmp.Diff(orig, got); diff != "" {
		t.Fatalf("round-trip mismatch (-want +got):\n%s", diff)
	}
}

func TestStz2Field4OddCountRoundTrip(t *testing.T) {
	orig := &Stz2{EntrySizes: []uint16{15, 3, 6}}
	s := NewSink()
	if err := EncodeAtom(s, kindStz2, orig); err != nil {
		t.Fatalf("EncodeAtom: %v", err)
	}
	want := []byte{
		0x00, 0x00, 0x00, 22, 's', 't', 'z', '2', 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x04, 0x00, 0x00, 0x00, 0x03, 0xf3, 0x60,
	}
	if diff := cmp.Diff(want, s.Bytes()); diff != "" {
		t.Fatalf("encoded bytes mismatch (-want +got):\n%s", diff)
	}
	c := NewCursor(s.Bytes())
	b, err := DecodeBox(c)
	if err != nil {
		t.Fatalf("DecodeBox: %v", err)
	}
	got := b.Body.(*Stz2)
	if diff := cmp.Diff(orig, got); diff != "" {
		t.Fatalf("round-trip mismatch (-want +got):\n%s", diff)
	}
}

func TestStz2Field4EvenCountRoundTrip(t *testing.T) {
	orig := &Stz2{EntrySizes: []uint16{15, 3, 6, 8}}
	s := NewSink()
	if err := EncodeAtom(s, kindStz2, orig); err != nil {
		t.Fatalf("EncodeAtom: %v", err)
	}
	want := []byte{
		0x00, 0x00, 0x00, 22, 's', 't', 'z', '2', 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x04, 0x00, 0x00, 0x00, 0x04, 0xf3, 0x68,
	}
	if diff := cmp.Diff(want, s.Bytes()); diff != "" {
		t.Fatalf("encoded bytes mismatch (-want +got):\n%s", diff)
	}
	c := NewCursor(s.Bytes())
	b, err := DecodeBox(c)
	if err != nil {
		t.Fatalf("DecodeBox: %v", err)
	}
	got := b.Body.(*Stz2)
	if diff := cmp.Diff(orig, got); diff != "" {
		t.Fatalf("round-trip mismatch (-want +got):\n%s", diff)
	}
}

func TestStz2Field16RoundTrip(t *testing.T) {
	orig := &Stz2{EntrySizes: []uint16{255, 256, 65535}}
	s := NewSink()
	if err := EncodeAtom(s, kindStz2, orig); err != nil {
		t.Fatalf("EncodeAtom: %v", err)
	}
	want := []byte{
		0x00, 0x00, 0x00, 26, 's', 't', 'z', '2', 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x10, 0x00, 0x00, 0x00, 0x03, 0x00, 0xff, 0x01, 0x00, 0xff, 0xff,
	}
	if diff := cmp.Diff(want, s.Bytes()); diff != "" {
		t.Fatalf("encoded bytes mismatch (-want +got):\n%s", diff)
	}
	c := NewCursor(s.Bytes())
	b, err := DecodeBox(c)
	if err != nil {
		t.Fatalf("DecodeBox: %v", err)
	}
	got := b.Body.(*Stz2)
	if diff := cmp.Diff(orig, got); diff != "" {
		t.Fatalf("round-trip mismatch (-want +got):\n%s", diff)
	}
}
