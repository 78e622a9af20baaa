package box

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestStscDecodeDerivesFirstSample(t *testing.T) {
	orig := &Stsc{
		Entries: []StscEntry{
			{FirstChunk: 1, SamplesPerChunk: 1, SampleDescriptionIndex: 1},
			{FirstChunk: 19026, SamplesPerChunk: 14, SampleDescriptionIndex: 1},
		},
	}
	s := NewSink()
	if err := EncodeAtom(s, kindStsc, orig); err != nil {
		t.Fatalf("EncodeAtom: %v", err)
	}
	c := NewCursor(s.Bytes())
	b, err := DecodeBox(c)
	if err != nil {
		t.Fatalf("DecodeBox: %v", err)
	}
	got := b.Body.(*Stsc)
	want := &Stsc{
		Entries: []StscEntry{
			{FirstChunk: 1, SamplesPerChunk: 1, SampleDescriptionIndex: 1, FirstSample: 1},
			{FirstChunk: 19026, SamplesPerChunk: 14, SampleDescriptionIndex: 1, FirstSample: 19026},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("decoded mismatch (-want +got):\n%s", diff)
	}
}

func TestStscDecodeOverflowIsError(t *testing.T) {
	orig := &Stsc{
		Entries: []StscEntry{
			{FirstChunk: 0, SamplesPerChunk: 2, SampleDescriptionIndex: 1},
			{FirstChunk: 0x80000000, SamplesPerChunk: 1, SampleDescriptionIndex: 1},
		},
	}
	s := NewSink()
	if err := EncodeAtom(s, kindStsc, orig); err != nil {
		t.Fatalf("EncodeAtom: %v", err)
	}
	c := NewCursor(s.Bytes())
	_, err := DecodeBox(c)
	if err == nil {
		t.Fatalf("DecodeBox: expected overflow error, got nil")
	}
	boxErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *Error, got %T", err)
	}
	if boxErr.Kind != ErrDivideByZero {
		t.Fatalf("Kind = %v, want ErrDivideByZero", boxErr.Kind)
	}
}
