package box

// containerSpec names the three child-kind sets the nested composition
// helper (§4.4) needs: each required kind must appear exactly once, each
// optional kind at most once, and multiple-kind children are collected in
// arrival order. FaultTolerant selects whether children outside this
// union are rejected (strict) or collected into a side list (tolerant).
type containerSpec struct {
	Required      []FourCC
	Optional      []FourCC
	Multiple      []FourCC
	FaultTolerant bool
}

// containerResult is the decoded shape of a container body: named single
// boxes for required/optional kinds, ordered lists for multiple kinds,
// and (fault-tolerant mode only) a side list of boxes whose kind fell
// outside the declared union.
type containerResult struct {
	Single     map[FourCC]Box
	Multi      map[FourCC][]Box
	Unexpected []Box
}

func toSet(kinds []FourCC) map[FourCC]bool {
	m := make(map[FourCC]bool, len(kinds))
	for _, k := range kinds {
		m[k] = true
	}
	return m
}

// decodeContainer runs the loop described in §4.4 over the bytes
// remaining in c.
func decodeContainer(c *Cursor, spec containerSpec) (*containerResult, error) {
	required := toSet(spec.Required)
	optional := toSet(spec.Optional)
	multiple := toSet(spec.Multiple)

	res := &containerResult{Single: map[FourCC]Box{}, Multi: map[FourCC][]Box{}}
	for c.Remaining() > 0 {
		b, present, err := DecodeMaybeBox(c)
		if err != nil {
			return nil, err
		}
		if !present {
			break
		}
		k := b.Kind()
		switch {
		case required[k] || optional[k]:
			if _, dup := res.Single[k]; dup {
				return nil, errBox(ErrDuplicateBox, k)
			}
			res.Single[k] = b
		case multiple[k]:
			res.Multi[k] = append(res.Multi[k], b)
		default:
			// Either an Unknown kind, or a recognized kind this
			// container did not declare: both are "unexpected" here
			// (§4.4 — unknown kinds are logged and dropped/stored,
			// which this implementation treats identically to any
			// other undeclared child).
			if spec.FaultTolerant {
				res.Unexpected = append(res.Unexpected, b)
			} else {
				return nil, errBox(ErrUnexpectedBox, k)
			}
		}
	}
	for _, k := range spec.Required {
		if _, ok := res.Single[k]; !ok {
			return nil, errBox(ErrMissingBox, k)
		}
	}
	return res, nil
}

// encodeContainer emits children in declaration order: required, then
// present optionals, then each multiple list in its stored order.
// Unexpected children are not emitted here; the fault-tolerant containers
// (Meta, Udta) write their side lists back themselves.
func encodeContainer(s *Sink, spec containerSpec, res *containerResult) error {
	for _, k := range spec.Required {
		if err := EncodeBox(s, res.Single[k]); err != nil {
			return err
		}
	}
	for _, k := range spec.Optional {
		if b, ok := res.Single[k]; ok {
			if err := EncodeBox(s, b); err != nil {
				return err
			}
		}
	}
	for _, k := range spec.Multiple {
		for _, b := range res.Multi[k] {
			if err := EncodeBox(s, b); err != nil {
				return err
			}
		}
	}
	return nil
}
