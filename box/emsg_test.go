package box

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEmsgVersion0RoundTrip(t *testing.T) {
	orig := &Emsg{
		Version:               0,
		Flags:                 0,
		PresentationTimeDelta: 100,
		Timescale:             48000,
		EventDuration:         200,
		ID:                    8,
		SchemeIDURI:           "foo",
		Value:                 "foo",
		MessageData:           []byte{1, 2, 3},
	}
	s := NewSink()
	if err := EncodeAtom(s, kindEmsg, orig); err != nil {
		t.Fatalf("EncodeAtom: %v", err)
	}
	c := NewCursor(s.Bytes())
	b, err := DecodeBox(c)
	if err != nil {
		t.Fatalf("DecodeBox: %v", err)
	}
	got := b.Body.(*Emsg)
	if diff := cmp.Diff(orig, got); diff != "" {
		t.Fatalf("round-trip mismatch (-want +got):\n%s", diff)
	}
}

func TestEmsgVersion1RoundTrip(t *testing.T) {
	orig := &Emsg{
		Version:          1,
		Flags:            0,
		PresentationTime: 50000,
		Timescale:        48000,
		EventDuration:    200,
		ID:               8,
		SchemeIDURI:      "foo",
		Value:            "foo",
		MessageData:      []byte{3, 2, 1},
	}
	s := NewSink()
	if err := EncodeAtom(s, kindEmsg, orig); err != nil {
		t.Fatalf("EncodeAtom: %v", err)
	}
	c := NewCursor(s.Bytes())
	b, err := DecodeBox(c)
	if err != nil {
		t.Fatalf("DecodeBox: %v", err)
	}
	got := b.Body.(*Emsg)
	if diff := cmp.Diff(orig, got); diff != "" {
		t.Fatalf("round-trip mismatch (-want +got):\n%s", diff)
	}
}
