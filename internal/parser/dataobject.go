package parser

import (
	"firmwarebc/internal/amlerr"
	"firmwarebc/internal/astnode"
	"firmwarebc/internal/bytestream"
)

const dataProduction = "Data"

// parseDataObject parses the literal/constructor data objects: Zero, One,
// Ones, the fixed-width integer prefixes, String, Buffer, Package, and
// VarPackage. op has already been consumed from s.
func (p *Parser) parseDataObject(s *bytestream.Stream, op opcode, at int) (astnode.Term, error) {
	switch op {
	case opZero:
		return &astnode.Data{Base: astnode.Base{At: at}, Kind: astnode.DataZero}, nil
	case opOne:
		return &astnode.Data{Base: astnode.Base{At: at}, Kind: astnode.DataOne}, nil
	case opOnes:
		return &astnode.Data{Base: astnode.Base{At: at}, Kind: astnode.DataOnes}, nil
	case opBytePrefix:
		raw, err := s.Take(1, dataProduction)
		if err != nil {
			return nil, err
		}
		return &astnode.Data{Base: astnode.Base{At: at}, Kind: astnode.DataByte, Int: uint64(raw[0])}, nil
	case opWordPrefix:
		return p.parseIntLiteral(s, at, 2, astnode.DataWord)
	case opDwordPrefix:
		return p.parseIntLiteral(s, at, 4, astnode.DataDWord)
	case opQwordPrefix:
		return p.parseIntLiteral(s, at, 8, astnode.DataQWord)
	case opStringPrefix:
		return p.parseString(s, at)
	case opBuffer:
		return p.parseBuffer(s, at)
	case opPackage:
		return p.parsePackage(s, at, false)
	case opVarPackage:
		return p.parsePackage(s, at, true)
	default:
		return nil, &amlerr.ParseError{Kind: amlerr.UnexpectedByte, Offset: at, Production: dataProduction}
	}
}

func (p *Parser) parseIntLiteral(s *bytestream.Stream, at, width int, kind astnode.DataKind) (astnode.Term, error) {
	raw, err := s.Take(width, dataProduction)
	if err != nil {
		return nil, err
	}
	var v uint64
	for i := 0; i < width; i++ {
		v |= uint64(raw[i]) << uint(8*i)
	}
	return &astnode.Data{Base: astnode.Base{At: at}, Kind: kind, Int: v}, nil
}

// parseString reads a NUL-terminated ASCII string.
func (p *Parser) parseString(s *bytestream.Stream, at int) (astnode.Term, error) {
	var str []byte
	for {
		b, ok := s.Next()
		if !ok {
			return nil, &amlerr.ParseError{Kind: amlerr.UnexpectedEndOfStream, Offset: s.Offset(), Production: "String"}
		}
		if b == 0x00 {
			break
		}
		str = append(str, b)
	}
	return &astnode.Data{Base: astnode.Base{At: at}, Kind: astnode.DataString, Str: str}, nil
}

// parseBuffer handles DefBuffer := BufferOp PkgLength BufferSize
// ByteList: a length-prefixed sub-stream whose first field is a TermArg
// giving the buffer's byte size and whose remaining bytes are its literal
// initial contents (fewer bytes than BufferSize are zero-padded at
// evaluation time by the execution engine, not here).
func (p *Parser) parseBuffer(s *bytestream.Stream, at int) (astnode.Term, error) {
	body, err := bytestream.DecodePkgLengthAsSubStream(s, "Buffer")
	if err != nil {
		return nil, err
	}
	sizeExpr, err := p.parseTermArg(body)
	if err != nil {
		return nil, err
	}
	initial := append([]byte(nil), body.Bytes()...)
	return &astnode.Data{Base: astnode.Base{At: at}, Kind: astnode.DataBuffer, SizeExpr: sizeExpr, InitialBytes: initial}, nil
}

// parsePackage handles DefPackage/DefVarPackage: a length-prefixed
// sub-stream whose first field is either a literal byte count (Package)
// or a TermArg count expression (VarPackage), followed by elements until
// the sub-stream is exhausted. Each element is either a nested data object
// or a name path; the data-object alternatives are attempted first and
// name parsing is the fallback, per the grammar's own PackageElement rule.
func (p *Parser) parsePackage(s *bytestream.Stream, at int, isVar bool) (astnode.Term, error) {
	body, err := bytestream.DecodePkgLengthAsSubStream(s, "Package")
	if err != nil {
		return nil, err
	}

	var sizeExpr astnode.Term
	var count int
	if isVar {
		sizeExpr, err = p.parseTermArg(body)
		if err != nil {
			return nil, err
		}
	} else {
		raw, err := body.Take(1, "Package")
		if err != nil {
			return nil, err
		}
		count = int(raw[0])
	}

	var elements []astnode.Term
	for body.Remaining() > 0 {
		el, err := p.parsePackageElement(body)
		if err != nil {
			return nil, err
		}
		elements = append(elements, el)
	}

	kind := astnode.DataPackage
	if isVar {
		kind = astnode.DataVarPackage
	}
	return &astnode.Data{Base: astnode.Base{At: at}, Kind: kind, SizeExpr: sizeExpr, Count: count, Elements: elements}, nil
}

// parsePackageElement parses one element of a package body: a data object
// if the next opcode identifies one, otherwise a bare name path reference.
func (p *Parser) parsePackageElement(s *bytestream.Stream) (astnode.Term, error) {
	op, at, ok := nextOpcode(s)
	if !ok {
		return nil, &amlerr.ParseError{Kind: amlerr.UnexpectedEndOfStream, Offset: s.Offset(), Production: "Package"}
	}
	switch op {
	case opZero, opOne, opOnes, opBytePrefix, opWordPrefix, opDwordPrefix, opQwordPrefix, opStringPrefix, opBuffer, opPackage, opVarPackage:
		return p.parseDataObject(s, op, at)
	default:
		s.StepBack()
		path, err := ParseNameString(s)
		if err != nil {
			return nil, err
		}
		return &astnode.PathRef{Base: astnode.Base{At: at}, Path: path}, nil
	}
}
