package parser

import (
	"firmwarebc/internal/amlerr"
	"firmwarebc/internal/amlname"
	"firmwarebc/internal/astnode"
	"firmwarebc/internal/bytestream"
)

// resolvedPath joins p against the context's current path, the way every
// named-object production must before recursing into its body: children
// parsed inside that body resolve relative names against the object's own
// path, not its parent's.
func (p *Parser) resolvedPath(path amlname.Path, at int) (amlname.Absolute, error) {
	abs, ok := resolveAgainstCurrent(p.ctx.current, path)
	if !ok {
		return amlname.Absolute{}, &amlerr.ParseError{Kind: amlerr.UnknownName, Offset: at, Production: "Name"}
	}
	return abs, nil
}

// parseNamedBlock handles Scope/Device/ThermalZone, the three named-object
// productions that carry nothing beyond a PkgLength, a NameString, and a
// nested term list.
func (p *Parser) parseNamedBlock(s *bytestream.Stream, at int, kind astnode.ScopeKind) (astnode.Term, error) {
	body, err := bytestream.DecodePkgLengthAsSubStream(s, "NamedBlock")
	if err != nil {
		return nil, err
	}
	path, err := ParseNameString(body)
	if err != nil {
		return nil, err
	}
	abs, err := p.resolvedPath(path, at)
	if err != nil {
		return nil, err
	}

	p.ctx.PushPath(abs)
	terms, err := p.ParseTermList(body)
	p.ctx.PopPath()
	if err != nil {
		return nil, err
	}

	return &astnode.NamedBlock{Base: astnode.Base{At: at}, Kind: kind, Path: path, Body: terms.Terms}, nil
}

// parseProcessor handles DefProcessor, a NamedBlock with three extra literal
// fields ahead of the object list: a one-byte processor ID, a four-byte
// P_BLK address, and a one-byte P_BLK length.
func (p *Parser) parseProcessor(s *bytestream.Stream, at int) (astnode.Term, error) {
	body, err := bytestream.DecodePkgLengthAsSubStream(s, "Processor")
	if err != nil {
		return nil, err
	}
	path, err := ParseNameString(body)
	if err != nil {
		return nil, err
	}
	abs, err := p.resolvedPath(path, at)
	if err != nil {
		return nil, err
	}

	procID, err := body.Take(1, "Processor")
	if err != nil {
		return nil, err
	}
	addrRaw, err := body.Take(4, "Processor")
	if err != nil {
		return nil, err
	}
	blkLen, err := body.Take(1, "Processor")
	if err != nil {
		return nil, err
	}
	var addr uint32
	for i := 0; i < 4; i++ {
		addr |= uint32(addrRaw[i]) << uint(8*i)
	}

	p.ctx.PushPath(abs)
	terms, err := p.ParseTermList(body)
	p.ctx.PopPath()
	if err != nil {
		return nil, err
	}

	return &astnode.NamedBlock{
		Base: astnode.Base{At: at}, Kind: astnode.KindProcessor, Path: path, Body: terms.Terms,
		ProcessorID: procID[0], RegBlockAddr: addr, RegBlockLen: blkLen[0],
	}, nil
}

// parsePowerResource handles DefPowerRes, a NamedBlock with a one-byte
// system level and a two-byte resource order ahead of the object list.
func (p *Parser) parsePowerResource(s *bytestream.Stream, at int) (astnode.Term, error) {
	body, err := bytestream.DecodePkgLengthAsSubStream(s, "PowerResource")
	if err != nil {
		return nil, err
	}
	path, err := ParseNameString(body)
	if err != nil {
		return nil, err
	}
	abs, err := p.resolvedPath(path, at)
	if err != nil {
		return nil, err
	}

	level, err := body.Take(1, "PowerResource")
	if err != nil {
		return nil, err
	}
	orderRaw, err := body.Take(2, "PowerResource")
	if err != nil {
		return nil, err
	}
	order := uint16(orderRaw[0]) | uint16(orderRaw[1])<<8

	p.ctx.PushPath(abs)
	terms, err := p.ParseTermList(body)
	p.ctx.PopPath()
	if err != nil {
		return nil, err
	}

	return &astnode.NamedBlock{
		Base: astnode.Base{At: at}, Kind: astnode.KindPowerResource, Path: path, Body: terms.Terms,
		SystemLevel: level[0], ResourceOrder: order,
	}, nil
}

// parseMethod handles DefMethod: a PkgLength, a NameString, a one-byte
// flags field (ArgCount in bits 0-2, SerializeFlag in bit 3, SyncLevel in
// bits 4-7), and a ByteList body that is registered into the method
// dictionary and retained raw rather than recursed into, per the
// deferred-execution resolution of the body-parsing open question.
func (p *Parser) parseMethod(s *bytestream.Stream, at int) (astnode.Term, error) {
	body, err := bytestream.DecodePkgLengthAsSubStream(s, "Method")
	if err != nil {
		return nil, err
	}
	path, err := ParseNameString(body)
	if err != nil {
		return nil, err
	}
	flags, err := body.Take(1, "Method")
	if err != nil {
		return nil, err
	}
	argCount := flags[0] & 0x07
	serialized := flags[0]&0x08 != 0
	syncLevel := flags[0] >> 4

	if err := p.ctx.AddMethod(path, argCount, at); err != nil {
		return nil, err
	}

	bodyOffset := body.Offset()
	raw := append([]byte(nil), body.Bytes()...)

	return &astnode.Method{
		Base: astnode.Base{At: at}, Path: path, ArgCount: argCount, Serialized: serialized,
		SyncLevel: syncLevel, Body: raw, BodyOffset: bodyOffset,
	}, nil
}

// parseExternal handles DefExternal: unlike every other named object it
// carries no PkgLength, since it declares rather than defines. Registering
// it into the method dictionary lets forward invocations inside the same
// definition block be parsed with a known arity even though the real
// definition lives in a different table entirely.
func (p *Parser) parseExternal(s *bytestream.Stream, at int) (astnode.Term, error) {
	path, err := ParseNameString(s)
	if err != nil {
		return nil, err
	}
	objType, err := s.Take(1, "External")
	if err != nil {
		return nil, err
	}
	argCount, err := s.Take(1, "External")
	if err != nil {
		return nil, err
	}
	if err := p.ctx.AddMethod(path, argCount[0], at); err != nil {
		return nil, err
	}
	_ = objType
	return &astnode.External{Base: astnode.Base{At: at}, Path: path, ArgCount: argCount[0]}, nil
}

// parseName handles DefName: NameString followed by a single data-object
// argument bound directly, no PkgLength.
func (p *Parser) parseName(s *bytestream.Stream, at int) (astnode.Term, error) {
	path, err := ParseNameString(s)
	if err != nil {
		return nil, err
	}
	data, err := p.parseTermArg(s)
	if err != nil {
		return nil, err
	}
	return &astnode.Name{Base: astnode.Base{At: at}, Path: path, Data: data}, nil
}

// parseAlias handles DefAlias: two NameStrings, the existing target first
// and the new alias name second.
func (p *Parser) parseAlias(s *bytestream.Stream, at int) (astnode.Term, error) {
	target, err := ParseNameString(s)
	if err != nil {
		return nil, err
	}
	newName, err := ParseNameString(s)
	if err != nil {
		return nil, err
	}
	return &astnode.Alias{Base: astnode.Base{At: at}, Target: target, NewName: newName}, nil
}

// parseMutex handles DefMutex: a NameString and a one-byte SyncFlags field
// whose low nibble is the sync level.
func (p *Parser) parseMutex(s *bytestream.Stream, at int) (astnode.Term, error) {
	path, err := ParseNameString(s)
	if err != nil {
		return nil, err
	}
	flags, err := s.Take(1, "Mutex")
	if err != nil {
		return nil, err
	}
	return &astnode.Mutex{Base: astnode.Base{At: at}, Path: path, SyncLevel: flags[0] & 0x0F}, nil
}

// parseEvent handles DefEvent: a bare NameString, no body at all.
func (p *Parser) parseEvent(s *bytestream.Stream, at int) (astnode.Term, error) {
	path, err := ParseNameString(s)
	if err != nil {
		return nil, err
	}
	return &astnode.Event{Base: astnode.Base{At: at}, Path: path}, nil
}

// parseOperationRegion handles DefOpRegion: a NameString, a one-byte region
// space, and two TermArg expressions giving the offset and length. The
// space byte is decoded against the standard table with the OEM/unknown
// fallback the region-space open question resolves.
func (p *Parser) parseOperationRegion(s *bytestream.Stream, at int) (astnode.Term, error) {
	path, err := ParseNameString(s)
	if err != nil {
		return nil, err
	}
	spaceRaw, err := s.Take(1, "OperationRegion")
	if err != nil {
		return nil, err
	}
	space, raw := astnode.StandardRegionSpace(spaceRaw[0])
	offset, err := p.parseTermArg(s)
	if err != nil {
		return nil, err
	}
	length, err := p.parseTermArg(s)
	if err != nil {
		return nil, err
	}
	if space == astnode.SpaceOther {
		p.log.Warnf("OperationRegion %s: non-standard region space 0x%x", path.String(), raw)
	}
	return &astnode.OperationRegion{Base: astnode.Base{At: at}, Path: path, Space: space, Raw: raw, Offset: offset, Length: length}, nil
}

// parseDataRegion handles DefDataRegion: a NameString and three TermArg
// expressions naming the OEM signature, OEM ID, and OEM table ID strings
// the execution engine uses to locate the backing table at load time.
func (p *Parser) parseDataRegion(s *bytestream.Stream, at int) (astnode.Term, error) {
	path, err := ParseNameString(s)
	if err != nil {
		return nil, err
	}
	sig, err := p.parseTermArg(s)
	if err != nil {
		return nil, err
	}
	oemID, err := p.parseTermArg(s)
	if err != nil {
		return nil, err
	}
	oemTableID, err := p.parseTermArg(s)
	if err != nil {
		return nil, err
	}
	return &astnode.DataRegion{
		Base: astnode.Base{At: at}, Path: path,
		SignatureExpr: sig, OEMIDExpr: oemID, OEMTableIDExpr: oemTableID,
	}, nil
}
