package box

import (
	"bytes"
	"encoding/binary"

	"github.com/mewkiz/flac/meta"
)

func init() { register(kindDfLa, func() Atom { return &Dfla{} }) }

var kindDfLa = NewFourCC("dfLa")

const (
	flacBlockTypeStreamInfo    = 0
	flacBlockTypePadding       = 1
	flacBlockTypeApplication   = 2
	flacBlockTypeSeekTable     = 3
	flacBlockTypeVorbisComment = 4
	flacBlockTypeCueSheet      = 5
	flacBlockTypePicture       = 6
	flacBlockTypeForbidden     = 127
)

// FlacMetadataBlock is one block of the FLAC metadata stream carried inside
// a dfLa box. StreamInfo and VorbisComment bodies are parsed into
// github.com/mewkiz/flac/meta's own types; every other block type is kept
// opaque (this library has no use for seek tables, pictures, or cue sheets
// beyond preserving them across a round trip).
type FlacMetadataBlock struct {
	Type          uint8
	StreamInfo    *meta.StreamInfo
	VorbisComment *meta.VorbisComment
	Opaque        []byte // populated for every block type other than the two above
}

// Dfla is the FLACSpecificBox (defined by the "FLAC in ISOBMFF" mapping
// used by CMAF/fMP4 FLAC tracks): the FLAC metadata blocks that would
// otherwise follow a standalone file's "fLaC" marker, verbatim.
type Dfla struct {
	Blocks []FlacMetadataBlock
}

func (*Dfla) AtomKind() FourCC { return kindDfLa }

func decodeFlacStreamInfo(data []byte) (*meta.StreamInfo, error) {
	si, err := meta.ParseStreamInfo(bytes.NewReader(data))
	if err != nil {
		return nil, errMsg(ErrInvalidData, "dfLa StreamInfo: "+err.Error())
	}
	return si, nil
}

func decodeFlacVorbisComment(data []byte) (*meta.VorbisComment, error) {
	vc, err := meta.ParseVorbisComment(bytes.NewReader(data))
	if err != nil {
		return nil, errMsg(ErrInvalidData, "dfLa VorbisComment: "+err.Error())
	}
	return vc, nil
}

func (a *Dfla) DecodeBody(c *Cursor) error {
	ext, err := decodeExtPrefix(c)
	if err != nil {
		return err
	}
	if err := checkVersion(ext.Version, 0); err != nil {
		return err
	}
	var blocks []FlacMetadataBlock
	for c.Remaining() > 0 {
		header, err := c.U32()
		if err != nil {
			return err
		}
		isLast := header&0x80000000 != 0
		blockType := uint8((header >> 24) & 0x7F)
		length := header & 0x00FFFFFF
		data, err := c.Bytes(int(length))
		if err != nil {
			return err
		}
		block := FlacMetadataBlock{Type: blockType}
		switch blockType {
		case flacBlockTypeStreamInfo:
			si, err := decodeFlacStreamInfo(data)
			if err != nil {
				return err
			}
			block.StreamInfo = si
		case flacBlockTypeVorbisComment:
			vc, err := decodeFlacVorbisComment(data)
			if err != nil {
				return err
			}
			block.VorbisComment = vc
		default:
			block.Opaque = data
		}
		blocks = append(blocks, block)
		if isLast {
			break
		}
	}
	a.Blocks = blocks
	return nil
}

// encodeFlacStreamInfo writes RFC 9639 §8.2's packed STREAMINFO body.
// mewkiz/flac/meta is decode-only, so the wire layout is reassembled here
// from the parsed fields exactly as the block was originally packed.
func encodeFlacStreamInfo(si *meta.StreamInfo) []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.BigEndian, si.BlockSizeMin)
	binary.Write(&buf, binary.BigEndian, si.BlockSizeMax)
	buf.WriteByte(byte(si.FrameSizeMin >> 16))
	buf.WriteByte(byte(si.FrameSizeMin >> 8))
	buf.WriteByte(byte(si.FrameSizeMin))
	buf.WriteByte(byte(si.FrameSizeMax >> 16))
	buf.WriteByte(byte(si.FrameSizeMax >> 8))
	buf.WriteByte(byte(si.FrameSizeMax))
	packed := (uint64(si.SampleRate) << 44) |
		(uint64(si.NChannels-1) << 41) |
		(uint64(si.BitsPerSample-1) << 36) |
		(si.NSamples & 0x0000000FFFFFFFFF)
	var packedBytes [8]byte
	binary.BigEndian.PutUint64(packedBytes[:], packed)
	buf.Write(packedBytes[:])
	buf.Write(si.MD5sum[:])
	return buf.Bytes()
}

// encodeFlacVorbisComment writes the little-endian Vorbis comment body
// (RFC 9639 §8.6; little-endian for Vorbis compatibility, unlike the rest
// of the big-endian dfLa/ISOBMFF container it lives inside).
func encodeFlacVorbisComment(vc *meta.VorbisComment) []byte {
	var buf bytes.Buffer
	writeLE32String := func(s string) {
		var n [4]byte
		binary.LittleEndian.PutUint32(n[:], uint32(len(s)))
		buf.Write(n[:])
		buf.WriteString(s)
	}
	writeLE32String(vc.Vendor)
	var count [4]byte
	binary.LittleEndian.PutUint32(count[:], uint32(len(vc.Tags)))
	buf.Write(count[:])
	for _, tag := range vc.Tags {
		writeLE32String(tag[0] + "=" + tag[1])
	}
	return buf.Bytes()
}

func (a *Dfla) EncodeBody(s *Sink) error {
	if len(a.Blocks) == 0 {
		return errMsg(ErrInvalidData, "dfLa requires at least a StreamInfo block")
	}
	encodeExtPrefix(s, ExtPrefix{})
	for i, block := range a.Blocks {
		isLast := i+1 == len(a.Blocks)
		var data []byte
		switch block.Type {
		case flacBlockTypeStreamInfo:
			if block.StreamInfo == nil {
				return errMsg(ErrInvalidData, "dfLa StreamInfo block missing its body")
			}
			data = encodeFlacStreamInfo(block.StreamInfo)
		case flacBlockTypeVorbisComment:
			if block.VorbisComment == nil {
				return errMsg(ErrInvalidData, "dfLa VorbisComment block missing its body")
			}
			data = encodeFlacVorbisComment(block.VorbisComment)
		default:
			data = block.Opaque
		}
		if len(data) > 0xFFFFFF {
			return errMsg(ErrTooLarge, "dfLa metadata block exceeds 24-bit length")
		}
		header := uint32(block.Type&0x7F) << 24
		if isLast {
			header |= 0x80000000
		}
		header |= uint32(len(data))
		s.WriteU32(header)
		s.WriteBytes(data)
	}
	return nil
}
