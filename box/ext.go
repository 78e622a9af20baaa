package box

// ExtPrefix is the decoded form of a full box's shared 4-byte prefix:
// version:u8 || flags:u24. Individual atoms check the version with
// checkVersion and map flag bits onto their own named fields with
// flagBit/setFlagBit (see e.g. trun.go's trunFlag* constants) rather than
// exposing the raw flags integer to callers.
type ExtPrefix struct {
	Version uint8
	Flags   uint32 // low 24 bits significant
}

// decodeExtPrefix reads the shared 4-byte version+flags prefix.
func decodeExtPrefix(c *Cursor) (ExtPrefix, error) {
	v, err := c.U32()
	if err != nil {
		return ExtPrefix{}, err
	}
	return ExtPrefix{Version: uint8(v >> 24), Flags: v & 0x00FFFFFF}, nil
}

// encodeExtPrefix writes the shared 4-byte version+flags prefix.
func encodeExtPrefix(s *Sink, p ExtPrefix) {
	s.WriteU32(uint32(p.Version)<<24 | (p.Flags & 0x00FFFFFF))
}

// flagBit reports whether bit is set in flags (bit 0 is the field's least
// significant bit, matching the real ISOBMFF wire layout of version:u8 ||
// flags:u24 — not the donor Rust source's ext! macro, which indexes flag
// bits directly into the 4-byte array including the version byte; that
// collides bits 0-7 with the version for any atom using them and is not
// followed here, see DESIGN.md).
func flagBit(flags uint32, bit uint) bool {
	return flags&(1<<bit) != 0
}

func setFlagBit(flags *uint32, bit uint, v bool) {
	if v {
		*flags |= 1 << bit
	}
}

func checkVersion(v uint8, allowed ...uint8) error {
	for _, a := range allowed {
		if v == a {
			return nil
		}
	}
	return errVersion(v)
}
