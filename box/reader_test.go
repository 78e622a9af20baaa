package box

import (
	"bytes"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestWriterReaderRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	ftyp := &FileType{MajorBrand: NewFourCC("isom"), MinorVersion: 0, CompatibleBrands: []FourCC{NewFourCC("isom")}}
	if err := w.PutAtom(kindFtyp, ftyp); err != nil {
		t.Fatalf("PutAtom ftyp: %v", err)
	}
	free := &Free{Data: []byte{1, 2, 3, 4}}
	if err := w.PutAtom(kindFree, free); err != nil {
		t.Fatalf("PutAtom free: %v", err)
	}

	r := NewReader(&buf)
	h1, payload1, err := r.Next()
	if err != nil {
		t.Fatalf("Next #1: %v", err)
	}
	if h1.Kind != kindFtyp {
		t.Fatalf("Next #1 kind = %v, want ftyp", h1.Kind)
	}
	b1, err := r.Decode(h1, payload1)
	if err != nil {
		t.Fatalf("Decode #1: %v", err)
	}
	if diff := cmp.Diff(ftyp, b1.Body.(*FileType)); diff != "" {
		t.Fatalf("decoded ftyp mismatch (-want +got):\n%s", diff)
	}

	h2, payload2, err := r.Next()
	if err != nil {
		t.Fatalf("Next #2: %v", err)
	}
	if h2.Kind != kindFree {
		t.Fatalf("Next #2 kind = %v, want free", h2.Kind)
	}
	b2, err := r.Decode(h2, payload2)
	if err != nil {
		t.Fatalf("Decode #2: %v", err)
	}
	if diff := cmp.Diff(free, b2.Body.(*Free)); diff != "" {
		t.Fatalf("decoded free mismatch (-want +got):\n%s", diff)
	}

	if _, _, err := r.Next(); err != io.EOF {
		t.Fatalf("Next at end = %v, want io.EOF", err)
	}
}

func TestReaderUntil(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	if err := w.PutAtom(kindFree, &Free{Data: []byte{0}}); err != nil {
		t.Fatalf("PutAtom free: %v", err)
	}
	if err := w.PutAtom(kindMfhd, &Mfhd{SequenceNumber: 7}); err != nil {
		t.Fatalf("PutAtom mfhd: %v", err)
	}

	r := NewReader(&buf)
	h, payload, err := r.Until(kindMfhd)
	if err != nil {
		t.Fatalf("Until: %v", err)
	}
	b, err := r.Decode(h, payload)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	got := b.Body.(*Mfhd)
	if got.SequenceNumber != 7 {
		t.Fatalf("SequenceNumber = %d, want 7", got.SequenceNumber)
	}
}
