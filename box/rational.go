package box

// Fixed16 is a 16.16 fixed-point rational, the wire format of mvhd/tkhd's
// rate field and of width/height in tkhd.
type Fixed16 struct {
	Int  uint16
	Frac uint16
}

func decodeFixed16(c *Cursor) (Fixed16, error) {
	i, err := c.U16()
	if err != nil {
		return Fixed16{}, err
	}
	f, err := c.U16()
	if err != nil {
		return Fixed16{}, err
	}
	return Fixed16{Int: i, Frac: f}, nil
}

func (r Fixed16) encode(s *Sink) {
	s.WriteU16(r.Int)
	s.WriteU16(r.Frac)
}

// Float64 returns the rational as a float64 for display purposes.
func (r Fixed16) Float64() float64 {
	return float64(r.Int) + float64(r.Frac)/65536.0
}

// Fixed8 is an 8.8 fixed-point rational, the wire format of mvhd/tkhd's
// volume field.
type Fixed8 struct {
	Int  int8
	Frac uint8
}

func decodeFixed8(c *Cursor) (Fixed8, error) {
	i, err := c.I8()
	if err != nil {
		return Fixed8{}, err
	}
	f, err := c.U8()
	if err != nil {
		return Fixed8{}, err
	}
	return Fixed8{Int: i, Frac: f}, nil
}

func (r Fixed8) encode(s *Sink) {
	s.WriteI8(r.Int)
	s.WriteU8(r.Frac)
}

func (r Fixed8) Float64() float64 {
	return float64(r.Int) + float64(r.Frac)/256.0
}
