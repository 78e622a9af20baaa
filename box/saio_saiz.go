package box

func init() {
	register(kindSaiz, func() Atom { return &Saiz{} })
	register(kindSaio, func() Atom { return &Saio{} })
}

var (
	kindSaiz = NewFourCC("saiz")
	kindSaio = NewFourCC("saio")
)

const auxInfoTypePresentFlag = 0

// AuxInfo names which kind of sample auxiliary information a saiz/saio box
// describes (e.g. "cenc" for Common Encryption), needed when a track carries
// more than one kind.
type AuxInfo struct {
	AuxInfoType          FourCC
	AuxInfoTypeParameter uint32
}

func decodeAuxInfo(c *Cursor, present bool) (*AuxInfo, error) {
	if !present {
		return nil, nil
	}
	kind, err := c.FourCC()
	if err != nil {
		return nil, err
	}
	param, err := c.U32()
	if err != nil {
		return nil, err
	}
	return &AuxInfo{AuxInfoType: kind, AuxInfoTypeParameter: param}, nil
}

func encodeAuxInfo(s *Sink, a *AuxInfo) {
	if a == nil {
		return
	}
	s.WriteFourCC(a.AuxInfoType)
	s.WriteU32(a.AuxInfoTypeParameter)
}

// Saiz is the SampleAuxiliaryInformationSizesBox (ISO/IEC 14496-12 §8.7.8):
// per-sample sizes of auxiliary information, or a single default size when
// every sample's auxiliary data is the same length.
type Saiz struct {
	AuxInfo               *AuxInfo
	DefaultSampleInfoSize uint8
	SampleCount           uint32
	SampleInfoSize        []uint8 // only populated when DefaultSampleInfoSize == 0
}

func (*Saiz) AtomKind() FourCC { return kindSaiz }

func (a *Saiz) DecodeBody(c *Cursor) error {
	ext, err := decodeExtPrefix(c)
	if err != nil {
		return err
	}
	if err := checkVersion(ext.Version, 0); err != nil {
		return err
	}
	auxInfo, err := decodeAuxInfo(c, flagBit(ext.Flags, auxInfoTypePresentFlag))
	if err != nil {
		return err
	}
	defaultSize, err := c.U8()
	if err != nil {
		return err
	}
	sampleCount, err := c.U32()
	if err != nil {
		return err
	}
	var sizes []uint8
	if defaultSize == 0 {
		sizes = make([]uint8, 0, sampleCount)
		for i := uint32(0); i < sampleCount; i++ {
			v, err := c.U8()
			if err != nil {
				return err
			}
			sizes = append(sizes, v)
		}
	}
	a.AuxInfo = auxInfo
	a.DefaultSampleInfoSize = defaultSize
	a.SampleCount = sampleCount
	a.SampleInfoSize = sizes
	return nil
}

func (a *Saiz) EncodeBody(s *Sink) error {
	var flags uint32
	setFlagBit(&flags, auxInfoTypePresentFlag, a.AuxInfo != nil)
	encodeExtPrefix(s, ExtPrefix{Version: 0, Flags: flags})
	encodeAuxInfo(s, a.AuxInfo)
	s.WriteU8(a.DefaultSampleInfoSize)
	s.WriteU32(a.SampleCount)
	if a.DefaultSampleInfoSize == 0 {
		for _, v := range a.SampleInfoSize {
			s.WriteU8(v)
		}
	}
	return nil
}

// Saio is the SampleAuxiliaryInformationOffsetsBox (ISO/IEC 14496-12
// §8.7.9): the byte offset of each sample's auxiliary information.
type Saio struct {
	AuxInfo *AuxInfo
	Offsets []uint64
}

func (*Saio) AtomKind() FourCC { return kindSaio }

func (a *Saio) DecodeBody(c *Cursor) error {
	ext, err := decodeExtPrefix(c)
	if err != nil {
		return err
	}
	if err := checkVersion(ext.Version, 0, 1); err != nil {
		return err
	}
	auxInfo, err := decodeAuxInfo(c, flagBit(ext.Flags, auxInfoTypePresentFlag))
	if err != nil {
		return err
	}
	entryCount, err := c.U32()
	if err != nil {
		return err
	}
	offsets := make([]uint64, 0, entryCount)
	for i := uint32(0); i < entryCount; i++ {
		if ext.Version == 0 {
			v, err := c.U32()
			if err != nil {
				return err
			}
			offsets = append(offsets, uint64(v))
		} else {
			v, err := c.U64()
			if err != nil {
				return err
			}
			offsets = append(offsets, v)
		}
	}
	a.AuxInfo = auxInfo
	a.Offsets = offsets
	return nil
}

func (a *Saio) EncodeBody(s *Sink) error {
	version := uint8(0)
	for _, off := range a.Offsets {
		if off > maxUint32 {
			version = 1
			break
		}
	}
	var flags uint32
	setFlagBit(&flags, auxInfoTypePresentFlag, a.AuxInfo != nil)
	encodeExtPrefix(s, ExtPrefix{Version: version, Flags: flags})
	encodeAuxInfo(s, a.AuxInfo)
	if len(a.Offsets) > maxUint32 {
		return errMsg(ErrTooLarge, "saio entry count exceeds 32 bits")
	}
	s.WriteU32(uint32(len(a.Offsets)))
	for _, off := range a.Offsets {
		if version == 0 {
			s.WriteU32(uint32(off))
		} else {
			s.WriteU64(off)
		}
	}
	return nil
}
