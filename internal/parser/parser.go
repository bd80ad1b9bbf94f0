// Package parser implements the opcode parser (C4) together with the
// parse context (C5) it threads through recursion. It turns a definition
// block's bytes into the transient parse tree defined by internal/astnode,
// grounded on the recursive-descent shape of aml/parser/parser.go: peek an
// opcode, consume it, carve a length-prefixed sub-stream where the
// production has one, parse inner fields in declared order recursing for
// argument expressions, and record side effects (method arity) on the
// parse context as they are discovered.
package parser

import (
	"firmwarebc/internal/amlerr"
	"firmwarebc/internal/astnode"
	"firmwarebc/internal/bytestream"
)

// Parser holds the mutable state of one definition-block parse: the
// context and logger. The Stream is threaded explicitly through every
// call instead of being stored on Parser, since term lists recurse into
// sub-streams carved by package-length headers and each must keep its own
// cursor independent of its parent's.
type Parser struct {
	ctx *Context
	log *Logger
}

// New creates a Parser. log may be nil, in which case diagnostics are
// discarded.
func New(log *Logger) *Parser {
	return &Parser{ctx: NewContext(), log: log}
}

// Context returns the parser's context, so a loader driving a second
// definition block against the same method dictionary (e.g. DSDT then an
// SSDT) can share it.
func (p *Parser) Context() *Context { return p.ctx }

// ParseTermList parses a sequence of terms from s until end-of-stream,
// the grammar's top-level production.
func (p *Parser) ParseTermList(s *bytestream.Stream) (*astnode.TermList, error) {
	at := s.Offset()
	list := &astnode.TermList{}
	list.At = at
	for s.Remaining() > 0 {
		term, err := p.parseTerm(s)
		if err != nil {
			return nil, err
		}
		list.Terms = append(list.Terms, term)
	}
	return list, nil
}

// nextOpcode reads one opcode, transparently handling the two-byte
// extended form introduced by the 0x5B prefix.
func nextOpcode(s *bytestream.Stream) (opcode, int, bool) {
	at := s.Offset()
	b, ok := s.Next()
	if !ok {
		return 0, at, false
	}
	if b == extPrefix {
		b2, ok := s.Next()
		if !ok {
			return 0, at, false
		}
		return opcode(extBase) + opcode(b2), at, true
	}
	return opcode(b), at, true
}

const termProduction = "Term"

// parseTerm parses exactly one top-level term: a statement, a named
// object, or (when none of those opcodes match) a bare expression
// statement.
func (p *Parser) parseTerm(s *bytestream.Stream) (astnode.Term, error) {
	op, at, ok := nextOpcode(s)
	if !ok {
		return nil, &amlerr.ParseError{Kind: amlerr.UnexpectedEndOfStream, Offset: s.Offset(), Production: termProduction}
	}

	switch op {
	case opScope:
		return p.parseNamedBlock(s, at, astnode.KindScope)
	case opDevice:
		return p.parseNamedBlock(s, at, astnode.KindDevice)
	case opProcessor:
		return p.parseProcessor(s, at)
	case opPowerRes:
		return p.parsePowerResource(s, at)
	case opThermalZone:
		return p.parseNamedBlock(s, at, astnode.KindThermalZone)
	case opMethod:
		return p.parseMethod(s, at)
	case opExternal:
		return p.parseExternal(s, at)
	case opName:
		return p.parseName(s, at)
	case opAlias:
		return p.parseAlias(s, at)
	case opMutex:
		return p.parseMutex(s, at)
	case opEvent:
		return p.parseEvent(s, at)
	case opOpRegion:
		return p.parseOperationRegion(s, at)
	case opDataRegion:
		return p.parseDataRegion(s, at)
	case opField:
		return p.parseField(s, at, astnode.FieldPlain)
	case opIndexField:
		return p.parseField(s, at, astnode.FieldIndex)
	case opBankField:
		return p.parseField(s, at, astnode.FieldBank)
	case opCreateBitField, opCreateByteField, opCreateWordField, opCreateDWordField, opCreateQWordField, opCreateField:
		return p.parseCreateField(s, at, op)
	case opIf:
		return p.parseIf(s, at)
	case opWhile:
		return p.parseWhile(s, at)
	case opReturn:
		value, err := p.parseOptionalTermArg(s)
		if err != nil {
			return nil, err
		}
		return &astnode.Return{Base: astnode.Base{At: at}, Value: value}, nil
	case opBreak, opContinue, opNoop, opBreakPoint:
		return &astnode.Break{Base: astnode.Base{At: at}}, nil
	case opElse:
		// A bare Else with no preceding If in this term list is malformed,
		// but the grammar's own shape makes that unreachable here: the
		// parser attaches Else blocks to the If immediately before them
		// inside parseIf, so Else is only ever consumed from there. Treat a
		// stray one as UnexpectedByte.
		return nil, &amlerr.ParseError{Kind: amlerr.UnexpectedByte, Offset: at, Production: "Else", Byte: byte(opElse), HasByte: true}
	default:
		// Not a statement or named-object opcode: fall through to the
		// shared expression dispatcher with the opcode already consumed,
		// the way a term in statement position (Store, Notify, a bare
		// invocation, ...) is just a TermArg evaluated for effect.
		return p.parseTermArgFromOpcode(s, op, at)
	}
}
