package box

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// encodedSidxV0 is from the MPEG File Format Conformance suite's
// 21_segment.mp4 (decoded values per 21_segment_gpac.json).
var encodedSidxV0 = []byte{
	0x00, 0x00, 0x00, 0x2c, 0x73, 0x69, 0x64, 0x78, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x01, 0x00, 0x00, 0x00, 0x64, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x01, 0x00, 0x04, 0xfc, 0x80, 0x00, 0x00, 0x13, 0x80, 0x90, 0x00, 0x00, 0x00,
}

var decodedSidxV0 = &Sidx{
	ReferenceID:              1,
	Timescale:                100,
	EarliestPresentationTime: 0,
	FirstOffset:              0,
	References: []SegmentReference{
		{
			ReferenceType:      false,
			ReferenceSize:      326784,
			SubsegmentDuration: 4992,
			StartsWithSAP:      true,
			SAPType:            1,
			SAPDeltaTime:       0,
		},
	},
}

func TestSidxV0Decode(t *testing.T) {
	c := NewCursor(encodedSidxV0)
	b, err := DecodeBox(c)
	if err != nil {
		t.Fatalf("DecodeBox: %v", err)
	}
	got := b.Body.(*Sidx)
	if diff := cmp.Diff(decodedSidxV0, got); diff != "" {
		t.Fatalf("decoded Sidx mismatch (-want +got):\n%s", diff)
	}
}

func TestSidxV0Encode(t *testing.T) {
	s := NewSink()
	if err := EncodeAtom(s, kindSidx, decodedSidxV0); err != nil {
		t.Fatalf("EncodeAtom: %v", err)
	}
	if diff := cmp.Diff(encodedSidxV0, s.Bytes()); diff != "" {
		t.Fatalf("encoded bytes mismatch (-want +got):\n%s", diff)
	}
}
