package parser

import (
	"firmwarebc/internal/amlerr"
	"firmwarebc/internal/amlname"
	"firmwarebc/internal/astnode"
	"firmwarebc/internal/bytestream"
)

// parseField handles DefField/DefIndexField/DefBankField. The three share
// one field-element grammar, per the field-list open question's resolution;
// what differs is how many register names (and, for BankField, a bank
// value expression) precede the flags byte and field-unit list. RegionPath
// always holds the field's primary backing register (the plain region, the
// index register, or the banked region); IndexPath and BankPath hold the
// extra register names IndexField and BankField carry.
func (p *Parser) parseField(s *bytestream.Stream, at int, kind astnode.FieldKind) (astnode.Term, error) {
	body, err := bytestream.DecodePkgLengthAsSubStream(s, "Field")
	if err != nil {
		return nil, err
	}

	regionPath, err := ParseNameString(body)
	if err != nil {
		return nil, err
	}

	var indexPath, bankPath amlname.Path
	var bankValue astnode.Term
	switch kind {
	case astnode.FieldIndex:
		indexPath, err = ParseNameString(body)
		if err != nil {
			return nil, err
		}
	case astnode.FieldBank:
		bankPath, err = ParseNameString(body)
		if err != nil {
			return nil, err
		}
		bankValue, err = p.parseTermArg(body)
		if err != nil {
			return nil, err
		}
	}

	flagsRaw, err := body.Take(1, "Field")
	if err != nil {
		return nil, err
	}
	flags := astnode.DecodeFieldFlags(flagsRaw[0])

	units, err := p.parseFieldUnits(body)
	if err != nil {
		return nil, err
	}

	return &astnode.Field{
		Base: astnode.Base{At: at}, Kind: kind,
		RegionPath: regionPath, IndexPath: indexPath, BankPath: bankPath, BankValue: bankValue,
		Flags: flags, Units: units,
	}, nil
}

// parseFieldUnits reads field-unit entries until the carved field body is
// exhausted: a NamedField (a four-byte segment plus a bit length encoded
// with the same variable-length format as PkgLength), a ReservedField
// (0x00 plus a bit length, no name), an AccessField (0x01, access type,
// access attribute), or an ExtendedAccessField / ConnectField (0x03 or
// 0x02, shapes this parser retains the raw bytes of rather than fully
// decoding, since the execution engine -- not the loader -- needs them).
func (p *Parser) parseFieldUnits(body *bytestream.Stream) ([]astnode.FieldUnit, error) {
	var units []astnode.FieldUnit
	for body.Remaining() > 0 {
		b, ok := body.Peek()
		if !ok {
			break
		}
		switch {
		case b == 0x00:
			body.Next()
			bitLen, raw, err := bytestream.DecodePkgLengthRaw(body, "ReservedField")
			if err != nil {
				return nil, err
			}
			units = append(units, astnode.FieldUnit{Kind: astnode.FieldUnitReserved, BitLength: int(bitLen), Raw: raw})
		case b == 0x01:
			body.Next()
			raw, err := body.Take(2, "AccessField")
			if err != nil {
				return nil, err
			}
			units = append(units, astnode.FieldUnit{Kind: astnode.FieldUnitAccess, Raw: raw})
		case b == 0x02:
			body.Next()
			peek, ok := body.Peek()
			start := body.Offset()
			if ok && peek == byte(opBuffer) {
				if _, err := p.parseConnectBuffer(body); err != nil {
					return nil, err
				}
			} else {
				if _, err := ParseNameString(body); err != nil {
					return nil, err
				}
			}
			raw := append([]byte(nil), body.Slice(start, body.Offset())...)
			units = append(units, astnode.FieldUnit{Kind: astnode.FieldUnitConnect, Raw: raw})
		case b == 0x03:
			body.Next()
			raw, err := body.Take(3, "ExtendedAccessField")
			if err != nil {
				return nil, err
			}
			units = append(units, astnode.FieldUnit{Kind: astnode.FieldUnitExtendedAccess, Raw: raw})
		case (b >= 'A' && b <= 'Z') || b == '_':
			seg, err := parseNameSeg(body)
			if err != nil {
				return nil, err
			}
			bitLen, raw, err := bytestream.DecodePkgLengthRaw(body, "NamedField")
			if err != nil {
				return nil, err
			}
			units = append(units, astnode.FieldUnit{Kind: astnode.FieldUnitNamed, Name: seg, BitLength: int(bitLen), Raw: raw})
		default:
			return nil, &amlerr.ParseError{Kind: amlerr.UnexpectedByte, Offset: body.Offset(), Production: "FieldList", Byte: b, HasByte: true}
		}
	}
	return units, nil
}

// parseConnectBuffer consumes a ConnectField's inline resource-descriptor
// buffer, reusing the generic buffer-object parser since ConnectField's
// buffer alternative has exactly DefBuffer's shape.
func (p *Parser) parseConnectBuffer(s *bytestream.Stream) (astnode.Term, error) {
	at := s.Offset()
	op, _, ok := nextOpcode(s)
	if !ok || op != opBuffer {
		return nil, &amlerr.ParseError{Kind: amlerr.UnexpectedByte, Offset: at, Production: "ConnectField"}
	}
	return p.parseBuffer(s, at)
}

// parseCreateField handles the CreateBitField/CreateByteField/
// CreateWordField/CreateDWordField/CreateQWordField/CreateField family:
// a source buffer and a bit or byte index, both TermArgs, a bit-length
// TermArg for the one arbitrary-width variant, and the new field's name.
func (p *Parser) parseCreateField(s *bytestream.Stream, at int, op opcode) (astnode.Term, error) {
	var kind astnode.BufferFieldKind
	switch op {
	case opCreateBitField:
		kind = astnode.BufferFieldBit
	case opCreateByteField:
		kind = astnode.BufferFieldByte
	case opCreateWordField:
		kind = astnode.BufferFieldWord
	case opCreateDWordField:
		kind = astnode.BufferFieldDWord
	case opCreateQWordField:
		kind = astnode.BufferFieldQWord
	case opCreateField:
		kind = astnode.BufferFieldArbitrary
	}

	source, err := p.parseTermArg(s)
	if err != nil {
		return nil, err
	}
	bitOffset, err := p.parseTermArg(s)
	if err != nil {
		return nil, err
	}
	var bitLength astnode.Term
	if kind == astnode.BufferFieldArbitrary {
		bitLength, err = p.parseTermArg(s)
		if err != nil {
			return nil, err
		}
	}
	path, err := ParseNameString(s)
	if err != nil {
		return nil, err
	}

	return &astnode.BufferField{
		Base: astnode.Base{At: at}, Kind: kind, SourceBuf: source, BitOffset: bitOffset, BitLength: bitLength, Path: path,
	}, nil
}
