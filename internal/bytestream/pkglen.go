package bytestream

import "firmwarebc/internal/amlerr"

// DecodePkgLength reads the variable-length 1-4 byte package length prefix
// that precedes every variably sized construct in the grammar (C2).
//
// The lead byte's top two bits give the follow-on byte count (0-3). The low
// nibble of the lead byte holds the low four bits of the raw length; each
// follow-on byte contributes the next eight bits. The raw length includes
// the length field itself, so the value returned here -- the number of
// bytes making up the construct's body -- is raw_length minus
// (follow_on_count + 1).
//
// Edge case: when there are zero follow-on bytes, the encoding uses the low
// six bits of the lead byte (mask 0x3F), not just the low nibble, since
// there are no follow-on bytes to carry the remaining two bits.
func DecodePkgLength(s *Stream, production string) (bodyLen int, err error) {
	lead, ok := s.Next()
	if !ok {
		return 0, &amlerr.ParseError{Kind: amlerr.UnexpectedEndOfStream, Offset: s.Offset(), Production: production}
	}

	followOn := int(lead >> 6)
	var raw uint32

	if followOn == 0 {
		raw = uint32(lead & 0x3F)
		return int(raw) - 1, nil
	}

	raw = uint32(lead & 0x0F)
	for i := 0; i < followOn; i++ {
		b, ok := s.Next()
		if !ok {
			return 0, &amlerr.ParseError{Kind: amlerr.UnexpectedEndOfStream, Offset: s.Offset(), Production: production}
		}
		raw |= uint32(b) << uint(4+8*i)
	}

	return int(raw) - (followOn + 1), nil
}

// DecodePkgLengthRaw decodes the same variable-length lead-byte encoding as
// DecodePkgLength but returns the undecoded raw value together with the
// exact bytes consumed, with no "minus the header" adjustment applied. Field
// element bit widths (NamedField, ReservedField) reuse this encoding's
// bit-layout to carry a plain integer rather than a sub-stream length, so
// the subtraction DecodePkgLength applies for carving sub-streams does not
// apply here.
func DecodePkgLengthRaw(s *Stream, production string) (value uint32, raw []byte, err error) {
	lead, ok := s.Next()
	if !ok {
		return 0, nil, &amlerr.ParseError{Kind: amlerr.UnexpectedEndOfStream, Offset: s.Offset(), Production: production}
	}
	raw = []byte{lead}

	followOn := int(lead >> 6)
	if followOn == 0 {
		return uint32(lead), raw, nil
	}

	value = uint32(lead & 0x0F)
	for i := 0; i < followOn; i++ {
		b, ok := s.Next()
		if !ok {
			return 0, nil, &amlerr.ParseError{Kind: amlerr.UnexpectedEndOfStream, Offset: s.Offset(), Production: production}
		}
		raw = append(raw, b)
		value |= uint32(b) << uint(4+8*i)
	}
	return value, raw, nil
}

// DecodePkgLengthAsSubStream composes DecodePkgLength with
// Stream.TakeAsStream: it decodes the length prefix and immediately carves
// the body out as its own sub-stream, advancing s past the whole construct.
func DecodePkgLengthAsSubStream(s *Stream, production string) (*Stream, error) {
	n, err := DecodePkgLength(s, production)
	if err != nil {
		return nil, err
	}
	return s.TakeAsStream(n, production)
}
