package box

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFtypRoundTrip(t *testing.T) {
	orig := &FileType{
		MajorBrand:       NewFourCC("isom"),
		MinorVersion:     512,
		CompatibleBrands: []FourCC{NewFourCC("isom"), NewFourCC("iso2"), NewFourCC("mp41")},
	}
	s := NewSink()
	if err := EncodeAtom(s, kindFtyp, orig); err != nil {
		t.Fatalf("EncodeAtom: %v", err)
	}
	c := NewCursor(s.Bytes())
	b, err := DecodeBox(c)
	if err != nil {
		t.Fatalf("DecodeBox: %v", err)
	}
	got := b.Body.(*FileType)
	if diff := cmp.Diff(orig, got); diff != "" {
		t.Fatalf("round-trip mismatch (-want +got):\n%s", diff)
	}
}

func TestMvhdV0RoundTrip(t *testing.T) {
	orig := &Mvhd{
		CreationTime:     1000,
		ModificationTime: 2000,
		Timescale:        1000,
		Duration:         48000,
		Rate:             Fixed16{Int: 1, Frac: 0},
		Volume:           Fixed8{Int: 1, Frac: 0},
		Matrix:           [9]int32{0x10000, 0, 0, 0, 0x10000, 0, 0, 0, 0x40000000},
		NextTrackID:      2,
	}
	s := NewSink()
	if err := EncodeAtom(s, kindMvhd, orig); err != nil {
		t.Fatalf("EncodeAtom: %v", err)
	}
	c := NewCursor(s.Bytes())
	b, err := DecodeBox(c)
	if err != nil {
		t.Fatalf("DecodeBox: %v", err)
	}
	got := b.Body.(*Mvhd)
	if diff := cmp.Diff(orig, got); diff != "" {
		t.Fatalf("round-trip mismatch (-want +got):\n%s", diff)
	}
}

func TestMvhdV1RoundTrip(t *testing.T) {
	orig := &Mvhd{
		CreationTime:     1 << 40,
		ModificationTime: 2000,
		Timescale:        1000,
		Duration:         48000,
		Rate:             Fixed16{Int: 1, Frac: 0},
		Volume:           Fixed8{Int: 1, Frac: 0},
		NextTrackID:      2,
	}
	s := NewSink()
	if err := EncodeAtom(s, kindMvhd, orig); err != nil {
		t.Fatalf("EncodeAtom: %v", err)
	}
	c := NewCursor(s.Bytes())
	b, err := DecodeBox(c)
	if err != nil {
		t.Fatalf("DecodeBox: %v", err)
	}
	got := b.Body.(*Mvhd)
	if diff := cmp.Diff(orig, got); diff != "" {
		t.Fatalf("round-trip mismatch (-want +got):\n%s", diff)
	}
}

func TestTkhdRoundTrip(t *testing.T) {
	orig := &Tkhd{
		Enabled:        true,
		InMovie:        true,
		TrackID:        1,
		Duration:       48000,
		Volume:         Fixed8{Int: 1, Frac: 0},
		Matrix:         [9]int32{0x10000, 0, 0, 0, 0x10000, 0, 0, 0, 0x40000000},
		Width:          Fixed16{Int: 1920, Frac: 0},
		Height:         Fixed16{Int: 1080, Frac: 0},
	}
	s := NewSink()
	if err := EncodeAtom(s, kindTkhd, orig); err != nil {
		t.Fatalf("EncodeAtom: %v", err)
	}
	c := NewCursor(s.Bytes())
	b, err := DecodeBox(c)
	if err != nil {
		t.Fatalf("DecodeBox: %v", err)
	}
	got := b.Body.(*Tkhd)
	if diff := cmp.Diff(orig, got); diff != "" {
		t.Fatalf("round-trip mismatch (-want +got):\n%s", diff)
	}
}

func TestElstRoundTrip(t *testing.T) {
	orig := &Elst{
		Entries: []ElstEntry{
			{SegmentDuration: 1000, MediaTime: -1, MediaRateInteger: 1, MediaRateFraction: 0},
			{SegmentDuration: 48000, MediaTime: 0, MediaRateInteger: 1, MediaRateFraction: 0},
		},
	}
	s := NewSink()
	if err := EncodeAtom(s, kindElst, orig); err != nil {
		t.Fatalf("EncodeAtom: %v", err)
	}
	c := NewCursor(s.Bytes())
	b, err := DecodeBox(c)
	if err != nil {
		t.Fatalf("DecodeBox: %v", err)
	}
	got := b.Body.(*Elst)
	if diff := cmp.Diff(orig, got); diff != "" {
		t.Fatalf("round-trip mismatch (-want +got):\n%s", diff)
	}
}

func TestMdhdRoundTrip(t *testing.T) {
	orig := &Mdhd{CreationTime: 1, ModificationTime: 2, Timescale: 48000, Duration: 96000, Language: "eng"}
	s := NewSink()
	if err := EncodeAtom(s, kindMdhd, orig); err != nil {
		t.Fatalf("EncodeAtom: %v", err)
	}
	c := NewCursor(s.Bytes())
	b, err := DecodeBox(c)
	if err != nil {
		t.Fatalf("DecodeBox: %v", err)
	}
	got := b.Body.(*Mdhd)
	if diff := cmp.Diff(orig, got); diff != "" {
		t.Fatalf("round-trip mismatch (-want +got):\n%s", diff)
	}
}

func TestHdlrRoundTrip(t *testing.T) {
	orig := &Hdlr{HandlerType: NewFourCC("soun"), Name: "SoundHandler"}
	s := NewSink()
	if err := EncodeAtom(s, kindHdlr, orig); err != nil {
		t.Fatalf("EncodeAtom: %v", err)
	}
	c := NewCursor(s.Bytes())
	b, err := DecodeBox(c)
	if err != nil {
		t.Fatalf("DecodeBox: %v", err)
	}
	got := b.Body.(*Hdlr)
	if diff := cmp.Diff(orig, got); diff != "" {
		t.Fatalf("round-trip mismatch (-want +got):\n%s", diff)
	}
}

func TestStscStsdStblRoundTrip(t *testing.T) {
	orig := &Stbl{
		Stsd: Stsd{Entries: []Box{
			{kind: kindFlaC, Body: &FlaC{
				DataReferenceIndex: 1,
				ChannelCount:       2,
				SampleSize:         16,
				SampleRate:         Fixed16{Int: 44100},
				Dfla:               *decodedDfla(),
			}},
		}},
		Stts: Stts{Entries: []SttsEntry{{SampleCount: 10, SampleDelta: 1024}}},
		Stsz: Stsz{UniformSize: 0, SampleCount: 2, Sizes: []uint32{100, 200}},
		Stsc: Stsc{Entries: []StscEntry{{FirstChunk: 1, SamplesPerChunk: 1, SampleDescriptionIndex: 1}}},
		ChunkOffsets: []uint64{48, 148},
	}
	s := NewSink()
	if err := EncodeAtom(s, kindStbl, orig); err != nil {
		t.Fatalf("EncodeAtom: %v", err)
	}
	c := NewCursor(s.Bytes())
	b, err := DecodeBox(c)
	if err != nil {
		t.Fatalf("DecodeBox: %v", err)
	}
	got := b.Body.(*Stbl)
	want := *orig
	want.Stsc.Entries[0].FirstSample = 1 // derived on decode, absent from the wire
	if diff := cmp.Diff(&want, got, cmp.AllowUnexported(Box{})); diff != "" {
		t.Fatalf("round-trip mismatch (-want +got):\n%s", diff)
	}
}

func TestStblChunkOffsetWidensToCo64(t *testing.T) {
	orig := &Stbl{
		Stsd:         Stsd{},
		Stts:         Stts{},
		Stsz:         Stsz{},
		Stsc:         Stsc{},
		ChunkOffsets: []uint64{1 << 40},
	}
	s := NewSink()
	if err := EncodeAtom(s, kindStbl, orig); err != nil {
		t.Fatalf("EncodeAtom: %v", err)
	}
	c := NewCursor(s.Bytes())
	b, err := DecodeBox(c)
	if err != nil {
		t.Fatalf("DecodeBox: %v", err)
	}
	got := b.Body.(*Stbl)
	if diff := cmp.Diff(orig.ChunkOffsets, got.ChunkOffsets); diff != "" {
		t.Fatalf("chunk offsets mismatch (-want +got):\n%s", diff)
	}
}

func TestMp4aEsdsRoundTrip(t *testing.T) {
	orig := &Mp4a{
		DataReferenceIndex: 1,
		ChannelCount:       2,
		SampleSize:         16,
		SampleRate:         Fixed16{Int: 44100},
		Esds: Esds{Descriptor: ESDescr{
			ESID: 1,
			DecoderConfig: &DecoderConfigDescr{
				ObjectTypeIndication: 0x40,
				StreamType:           5,
				BufferSizeDB:         0,
				MaxBitrate:           128000,
				AvgBitrate:           128000,
				DecSpecificInfo:      []byte{0x12, 0x10},
			},
			SLConfig: &SLConfigDescr{},
		}},
	}
	s := NewSink()
	if err := EncodeAtom(s, kindMp4a, orig); err != nil {
		t.Fatalf("EncodeAtom: %v", err)
	}
	c := NewCursor(s.Bytes())
	b, err := DecodeBox(c)
	if err != nil {
		t.Fatalf("DecodeBox: %v", err)
	}
	got := b.Body.(*Mp4a)
	if diff := cmp.Diff(orig, got); diff != "" {
		t.Fatalf("round-trip mismatch (-want +got):\n%s", diff)
	}
}

func TestMoofTrafRoundTrip(t *testing.T) {
	dur := uint32(1024)
	orig := &Moof{
		Mfhd: Mfhd{SequenceNumber: 1},
		Traf: []Traf{{
			Tfhd: Tfhd{TrackID: 1, DefaultSampleDuration: &dur, DefaultBaseIsMoof: true},
			Tfdt: &Tfdt{BaseMediaDecodeTime: 0},
			Trun: []Trun{{Entries: []TrunEntry{}}},
		}},
	}
	s := NewSink()
	if err := EncodeAtom(s, kindMoof, orig); err != nil {
		t.Fatalf("EncodeAtom: %v", err)
	}
	c := NewCursor(s.Bytes())
	b, err := DecodeBox(c)
	if err != nil {
		t.Fatalf("DecodeBox: %v", err)
	}
	got := b.Body.(*Moof)
	if diff := cmp.Diff(orig, got); diff != "" {
		t.Fatalf("round-trip mismatch (-want +got):\n%s", diff)
	}
}

func TestMvexTrexRoundTrip(t *testing.T) {
	orig := &Mvex{
		Mehd: &Mehd{FragmentDuration: 48000},
		Trex: []Trex{{TrackID: 1, DefaultSampleDescriptionIndex: 1, DefaultSampleDuration: 1024, DefaultSampleSize: 0, DefaultSampleFlags: 0x1010000}},
	}
	s := NewSink()
	if err := EncodeAtom(s, kindMvex, orig); err != nil {
		t.Fatalf("EncodeAtom: %v", err)
	}
	c := NewCursor(s.Bytes())
	b, err := DecodeBox(c)
	if err != nil {
		t.Fatalf("DecodeBox: %v", err)
	}
	got := b.Body.(*Mvex)
	if diff := cmp.Diff(orig, got); diff != "" {
		t.Fatalf("round-trip mismatch (-want +got):\n%s", diff)
	}
}

func TestMetaItemRoundTrip(t *testing.T) {
	orig := &Meta{
		Hdlr: &Hdlr{HandlerType: NewFourCC("pict")},
		Iinf: &Iinf{Entries: []Infe{
			{ItemID: 1, ItemType: NewFourCC("av01"), ItemName: "Image"},
		}},
		Pitm: &Pitm{ItemID: 1},
	}
	s := NewSink()
	if err := EncodeAtom(s, kindMeta, orig); err != nil {
		t.Fatalf("EncodeAtom: %v", err)
	}
	c := NewCursor(s.Bytes())
	b, err := DecodeBox(c)
	if err != nil {
		t.Fatalf("DecodeBox: %v", err)
	}
	got := b.Body.(*Meta)
	if diff := cmp.Diff(orig, got); diff != "" {
		t.Fatalf("round-trip mismatch (-want +got):\n%s", diff)
	}
}

func TestUdtaFaultTolerantRoundTrip(t *testing.T) {
	orig := &Udta{
		Children: []Box{{kind: NewFourCC("©too"), Raw: []byte("my encoder")}},
	}
	s := NewSink()
	if err := EncodeAtom(s, kindUdta, orig); err != nil {
		t.Fatalf("EncodeAtom: %v", err)
	}
	c := NewCursor(s.Bytes())
	b, err := DecodeBox(c)
	if err != nil {
		t.Fatalf("DecodeBox: %v", err)
	}
	got := b.Body.(*Udta)
	if diff := cmp.Diff(orig, got, cmp.AllowUnexported(Box{})); diff != "" {
		t.Fatalf("round-trip mismatch (-want +got):\n%s", diff)
	}
}

func TestMoovRoundTrip(t *testing.T) {
	orig := &Moov{
		Mvhd: Mvhd{Timescale: 1000, Duration: 5000, Rate: Fixed16{Int: 1}, Volume: Fixed8{Int: 1}, NextTrackID: 2},
		Trak: []Trak{
			{
				Tkhd: Tkhd{Enabled: true, TrackID: 1, Duration: 5000, Volume: Fixed8{Int: 1}},
				Mdia: Mdia{
					Mdhd: Mdhd{Timescale: 1000, Duration: 5000, Language: "und"},
					Hdlr: Hdlr{HandlerType: NewFourCC("soun")},
					Minf: Minf{
						Smhd: &Smhd{},
						Dinf: Dinf{Dref: Dref{Entries: []DataEntry{{Kind: kindURL, SelfContained: true}}}},
						Stbl: Stbl{
							Stsd: Stsd{Entries: []Box{}},
							Stts: Stts{Entries: []SttsEntry{}},
							Stsz: Stsz{Sizes: []uint32{}},
							Stsc: Stsc{Entries: []StscEntry{}},
						},
					},
				},
			},
		},
		Mvex: &Mvex{Trex: []Trex{{TrackID: 1, DefaultSampleDescriptionIndex: 1}}},
	}
	s := NewSink()
	if err := EncodeAtom(s, kindMoov, orig); err != nil {
		t.Fatalf("EncodeAtom: %v", err)
	}
	c := NewCursor(s.Bytes())
	b, err := DecodeBox(c)
	if err != nil {
		t.Fatalf("DecodeBox: %v", err)
	}
	got := b.Body.(*Moov)
	if diff := cmp.Diff(orig, got); diff != "" {
		t.Fatalf("round-trip mismatch (-want +got):\n%s", diff)
	}
}

func TestTrefRoundTrip(t *testing.T) {
	orig := &Tref{
		References: []TrackReference{
			{ReferenceType: NewFourCC("hint"), TrackIDs: []uint32{2}},
			{ReferenceType: NewFourCC("cdsc"), TrackIDs: []uint32{1, 3}},
		},
	}
	s := NewSink()
	if err := EncodeAtom(s, kindTref, orig); err != nil {
		t.Fatalf("EncodeAtom: %v", err)
	}
	c := NewCursor(s.Bytes())
	b, err := DecodeBox(c)
	if err != nil {
		t.Fatalf("DecodeBox: %v", err)
	}
	got := b.Body.(*Tref)
	if diff := cmp.Diff(orig, got); diff != "" {
		t.Fatalf("round-trip mismatch (-want +got):\n%s", diff)
	}
}

func TestFreeSkipRoundTrip(t *testing.T) {
	orig := &Free{Data: []byte{0, 0, 0, 0}}
	s := NewSink()
	if err := EncodeAtom(s, kindSkip, orig); err != nil {
		t.Fatalf("EncodeAtom: %v", err)
	}
	c := NewCursor(s.Bytes())
	b, err := DecodeBox(c)
	if err != nil {
		t.Fatalf("DecodeBox: %v", err)
	}
	got := b.Body.(*Free)
	if diff := cmp.Diff(orig, got); diff != "" {
		t.Fatalf("round-trip mismatch (-want +got):\n%s", diff)
	}
}
