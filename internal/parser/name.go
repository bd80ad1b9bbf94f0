package parser

import (
	"firmwarebc/internal/amlerr"
	"firmwarebc/internal/amlname"
	"firmwarebc/internal/bytestream"
)

const nameProduction = "Name"

// parsePrefix reads the root/super/relative prefix of a name path without
// consuming past it: '\' selects Root, one or more '^' selects Super(count),
// anything else leaves the stream untouched and selects None.
func parsePrefix(s *bytestream.Stream) (kind amlname.PrefixKind, superCount int) {
	b, ok := s.Peek()
	if !ok {
		return amlname.PrefixNone, 0
	}

	switch b {
	case '\\':
		s.Next()
		return amlname.PrefixRoot, 0
	case '^':
		count := 0
		for {
			b, ok := s.Peek()
			if !ok || b != '^' {
				break
			}
			s.Next()
			count++
		}
		return amlname.PrefixSuper, count
	default:
		return amlname.PrefixNone, 0
	}
}

// parseNameSeg reads a single four-byte segment and validates it against
// the restricted alphabet, failing with InvalidName at the segment's start
// offset.
func parseNameSeg(s *bytestream.Stream) (amlname.Name, error) {
	start := s.Offset()
	var n amlname.Name
	raw, err := s.Take(4, nameProduction)
	if err != nil {
		return n, err
	}
	copy(n[:], raw)
	if !n.Valid() {
		return n, &amlerr.ParseError{Kind: amlerr.InvalidName, Offset: start, Production: nameProduction}
	}
	return n, nil
}

// parseBody parses the body of a name path after its prefix has already
// been consumed: a single segment, a dual-name (0x2E) pair, a multi-name
// (0x2F + count) sequence, or a null name (0x00). When the body carries N
// segments, the first N-1 become Segments and the N-th becomes Terminal.
func parseBody(s *bytestream.Stream) (segments []amlname.Name, terminal *amlname.Name, err error) {
	b, ok := s.Peek()
	if !ok {
		return nil, nil, &amlerr.ParseError{Kind: amlerr.UnexpectedEndOfStream, Offset: s.Offset(), Production: nameProduction}
	}

	switch {
	case b == 0x00:
		s.Next()
		return nil, nil, nil
	case b == 0x2E:
		s.Next()
		first, err := parseNameSeg(s)
		if err != nil {
			return nil, nil, err
		}
		second, err := parseNameSeg(s)
		if err != nil {
			return nil, nil, err
		}
		return []amlname.Name{first}, &second, nil
	case b == 0x2F:
		s.Next()
		countByte, ok := s.Next()
		if !ok {
			return nil, nil, &amlerr.ParseError{Kind: amlerr.UnexpectedEndOfStream, Offset: s.Offset(), Production: nameProduction}
		}
		count := int(countByte)
		if count == 0 {
			return nil, nil, nil
		}
		segs := make([]amlname.Name, count)
		for i := 0; i < count; i++ {
			seg, err := parseNameSeg(s)
			if err != nil {
				return nil, nil, err
			}
			segs[i] = seg
		}
		term := segs[count-1]
		return segs[:count-1], &term, nil
	case (b >= 'A' && b <= 'Z') || b == '_':
		seg, err := parseNameSeg(s)
		if err != nil {
			return nil, nil, err
		}
		return nil, &seg, nil
	default:
		return nil, nil, &amlerr.ParseError{Kind: amlerr.UnexpectedByte, Offset: s.Offset(), Production: nameProduction, Byte: b, HasByte: true}
	}
}

// ParseNameString parses a complete name path: prefix followed by body.
func ParseNameString(s *bytestream.Stream) (amlname.Path, error) {
	kind, superCount := parsePrefix(s)
	segments, terminal, err := parseBody(s)
	if err != nil {
		return amlname.Path{}, err
	}
	return amlname.Path{Kind: kind, SuperCount: superCount, Segments: segments, Terminal: terminal}, nil
}
