package box

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mewkiz/flac/meta"
)

// Streaminfo metadata block only.
var encodedDfla = []byte{
	0x00, 0x00, 0x00, 0x32, 0x64, 0x66, 0x4c, 0x61, 0x00, 0x00, 0x00, 0x00, 0x80, 0x00, 0x00,
	0x22, 0x12, 0x00, 0x12, 0x00, 0x00, 0x00, 0x10, 0x00, 0x23, 0x8e, 0x0a, 0xc4, 0x43, 0x70,
	0x00, 0x01, 0xd8, 0x00, 0x75, 0x30, 0x88, 0x11, 0x2d, 0xd5, 0x7a, 0x13, 0xe7, 0xf7, 0x22,
	0xd0, 0xee, 0x56, 0xae, 0xa3,
}

func decodedDfla() *Dfla {
	return &Dfla{
		Blocks: []FlacMetadataBlock{{
			Type: flacBlockTypeStreamInfo,
			StreamInfo: &meta.StreamInfo{
				BlockSizeMin:  4608,
				BlockSizeMax:  4608,
				FrameSizeMin:  16,
				FrameSizeMax:  9102,
				SampleRate:    44100,
				NChannels:     2,
				BitsPerSample: 24,
				NSamples:      120832,
				MD5sum: [16]byte{
					117, 48, 136, 17, 45, 213, 122, 19, 231, 247, 34, 208, 238, 86, 174, 163,
				},
			},
		}},
	}
}

func TestDflaDecode(t *testing.T) {
	c := NewCursor(encodedDfla)
	b, err := DecodeBox(c)
	if err != nil {
		t.Fatalf("DecodeBox: %v", err)
	}
	got := b.Body.(*Dfla)
	if diff := cmp.Diff(decodedDfla(), got); diff != "" {
		t.Fatalf("decoded mismatch (-want +got):\n%s", diff)
	}
}

func TestDflaEncode(t *testing.T) {
	s := NewSink()
	if err := EncodeAtom(s, kindDfLa, decodedDfla()); err != nil {
		t.Fatalf("EncodeAtom: %v", err)
	}
	if diff := cmp.Diff(encodedDfla, s.Bytes()); diff != "" {
		t.Fatalf("encoded bytes mismatch (-want +got):\n%s", diff)
	}
}

// Streaminfo metadata block plus Vorbis Comment metadata block.
var encodedDfla2 = []byte{
	0x00, 0x00, 0x00, 0x7c, 0x64, 0x66, 0x4c, 0x61, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x22, 0x12, 0x00, 0x12, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x0a, 0xc4, 0x40, 0x70,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x84, 0x00, 0x00, 0x46, 0x20, 0x00, 0x00, 0x00, 0x72, 0x65,
	0x66, 0x65, 0x72, 0x65, 0x6e, 0x63, 0x65, 0x20, 0x6c, 0x69, 0x62, 0x46, 0x4c, 0x41, 0x43,
	0x20, 0x31, 0x2e, 0x34, 0x2e, 0x33, 0x20, 0x32, 0x30, 0x32, 0x33, 0x30, 0x36, 0x32, 0x33,
	0x01, 0x00, 0x00, 0x00, 0x1a, 0x00, 0x00, 0x00, 0x44, 0x45, 0x53, 0x43, 0x52, 0x49, 0x50,
	0x54, 0x49, 0x4f, 0x4e, 0x3d, 0x61, 0x75, 0x64, 0x69, 0x6f, 0x74, 0x65, 0x73, 0x74, 0x20,
	0x77, 0x61, 0x76, 0x65,
}

func decodedDfla2() *Dfla {
	return &Dfla{
		Blocks: []FlacMetadataBlock{
			{
				Type: flacBlockTypeStreamInfo,
				StreamInfo: &meta.StreamInfo{
					BlockSizeMin:  4608,
					BlockSizeMax:  4608,
					FrameSizeMin:  0,
					FrameSizeMax:  0,
					SampleRate:    44100,
					NChannels:     1,
					BitsPerSample: 8,
					NSamples:      0,
					MD5sum:        [16]byte{},
				},
			},
			{
				Type: flacBlockTypeVorbisComment,
				VorbisComment: &meta.VorbisComment{
					Vendor: "reference libFLAC 1.4.3 20230623",
					Tags:   [][2]string{{"DESCRIPTION", "audiotest wave"}},
				},
			},
		},
	}
}

func TestDfla2Decode(t *testing.T) {
	c := NewCursor(encodedDfla2)
	b, err := DecodeBox(c)
	if err != nil {
		t.Fatalf("DecodeBox: %v", err)
	}
	got := b.Body.(*Dfla)
	if diff := cmp.Diff(decodedDfla2(), got); diff != "" {
		t.Fatalf("decoded mismatch (-want +got):\n%s", diff)
	}
}

func TestDfla2Encode(t *testing.T) {
	s := NewSink()
	if err := EncodeAtom(s, kindDfLa, decodedDfla2()); err != nil {
		t.Fatalf("EncodeAtom: %v", err)
	}
	if diff := cmp.Diff(encodedDfla2, s.Bytes()); diff != "" {
		t.Fatalf("encoded bytes mismatch (-want +got):\n%s", diff)
	}
}
