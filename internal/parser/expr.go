package parser

import (
	"firmwarebc/internal/amlerr"
	"firmwarebc/internal/astnode"
	"firmwarebc/internal/bytestream"
)

// opSpec describes the fixed arity of a generic arithmetic/logical/
// reference/misc opcode: how many TermArg operands it consumes, and how
// many Target (SuperName | NullName) slots follow them. Opcodes whose
// shape does not fit this uniform pattern (Divide's two targets, Match's
// embedded match-opcode bytes, Acquire's literal timeout, Fatal's literal
// type/code, ...) are parsed by their own dedicated function instead of
// appearing here.
var genericOps = map[opcode]struct {
	op       astnode.Op
	operands int
	targets  int
}{
	opAdd:              {astnode.OpAdd, 2, 1},
	opSubtract:         {astnode.OpSubtract, 2, 1},
	opMultiply:         {astnode.OpMultiply, 2, 1},
	opMod:              {astnode.OpMod, 2, 1},
	opAnd:              {astnode.OpAnd, 2, 1},
	opNand:             {astnode.OpNand, 2, 1},
	opOr:               {astnode.OpOr, 2, 1},
	opNor:              {astnode.OpNor, 2, 1},
	opXor:              {astnode.OpXor, 2, 1},
	opShiftLeft:        {astnode.OpShiftLeft, 2, 1},
	opShiftRight:       {astnode.OpShiftRight, 2, 1},
	opNot:              {astnode.OpNot, 1, 1},
	opFindSetLeftBit:   {astnode.OpFindSetLeftBit, 1, 1},
	opFindSetRightBit:  {astnode.OpFindSetRightBit, 1, 1},
	opIncrement:        {astnode.OpIncrement, 1, 0},
	opDecrement:        {astnode.OpDecrement, 1, 0},
	opLAnd:             {astnode.OpLAnd, 2, 0},
	opLOr:              {astnode.OpLOr, 2, 0},
	opLNot:             {astnode.OpLNot, 1, 0},
	opLEqual:           {astnode.OpLEqual, 2, 0},
	opLGreater:         {astnode.OpLGreater, 2, 0},
	opLLess:            {astnode.OpLLess, 2, 0},
	opStore:            {astnode.OpStore, 1, 1},
	opRefOf:            {astnode.OpRefOf, 1, 0},
	opDerefOf:          {astnode.OpDerefOf, 1, 0},
	opCondRefOf:        {astnode.OpCondRefOf, 1, 1},
	opSizeOf:           {astnode.OpSizeOf, 1, 0},
	opObjectType:       {astnode.OpObjectType, 1, 0},
	opCopyObject:       {astnode.OpCopyObject, 1, 1},
	opConcat:           {astnode.OpConcat, 2, 1},
	opConcatRes:        {astnode.OpConcatRes, 2, 1},
	opToBuffer:         {astnode.OpToBuffer, 1, 1},
	opToHexString:      {astnode.OpToHexString, 1, 1},
	opToDecimalString:  {astnode.OpToDecimalString, 1, 1},
	opToInteger:        {astnode.OpToInteger, 1, 1},
	opToString:         {astnode.OpToString, 1, 1},
	opFromBCD:          {astnode.OpToInteger, 1, 1}, // BCD conversions share ToInteger's shape; execution semantics are out of scope here.
	opToBCD:            {astnode.OpToInteger, 1, 1},
	opIndex:            {astnode.OpIndex, 2, 1},
	opMid:              {astnode.OpMid, 3, 1},
	opNotify:           {astnode.OpNotify, 2, 0},
	opRelease:          {astnode.OpRelease, 1, 0},
	opSignal:           {astnode.OpSignal, 1, 0},
	opReset:            {astnode.OpReset, 1, 0},
	opWait:             {astnode.OpWait, 2, 0},
	opStall:            {astnode.OpStall, 1, 0},
	opSleep:            {astnode.OpSleep, 1, 0},
	opUnload:           {astnode.OpUnload, 1, 0},
	opLoad:             {astnode.OpLoad, 1, 1},
	opLoadTable:        {astnode.OpLoadTable, 6, 0},
	opTimer:            {astnode.OpTimer, 0, 0},
	opRevision:         {astnode.OpRevision, 0, 0},
}

const exprProduction = "Expr"

// parseTermArg parses one argument expression: a data object, a local/arg
// reference, a name reference or method invocation, or a nested generic
// expression opcode.
func (p *Parser) parseTermArg(s *bytestream.Stream) (astnode.Term, error) {
	op, at, ok := nextOpcode(s)
	if !ok {
		return nil, &amlerr.ParseError{Kind: amlerr.UnexpectedEndOfStream, Offset: s.Offset(), Production: exprProduction}
	}
	return p.parseTermArgFromOpcode(s, op, at)
}

// parseOptionalTermArg parses a TermArg if any bytes remain, or returns nil
// if the stream (or carved sub-stream) is already exhausted. Used for
// Return, whose argument expression is sometimes omitted by the compiler.
func (p *Parser) parseOptionalTermArg(s *bytestream.Stream) (astnode.Term, error) {
	if s.Remaining() == 0 {
		return nil, nil
	}
	return p.parseTermArg(s)
}

// parseTermArgFromOpcode dispatches on an opcode already consumed from s --
// shared by parseTermArg (which reads its own opcode) and parseTerm's
// default case (a statement that turned out to be a bare expression).
func (p *Parser) parseTermArgFromOpcode(s *bytestream.Stream, op opcode, at int) (astnode.Term, error) {
	switch {
	case op == opZero || op == opOne || op == opOnes ||
		op == opBytePrefix || op == opWordPrefix || op == opDwordPrefix || op == opQwordPrefix ||
		op == opStringPrefix || op == opBuffer || op == opPackage || op == opVarPackage:
		return p.parseDataObject(s, op, at)
	case isLocalArg(op):
		return &astnode.LocalRef{Base: astnode.Base{At: at}, Index: int(op - opLocal0)}, nil
	case isMethodArg(op):
		return &astnode.ArgRef{Base: astnode.Base{At: at}, Index: int(op - opArg0)}, nil
	case op == opDebug:
		return &astnode.Expr{Base: astnode.Base{At: at}, Op: astnode.OpDebug}, nil
	case op == opDivide:
		return p.parseDivide(s, at)
	case op == opMatch:
		return p.parseMatch(s, at)
	case op == opAcquire:
		return p.parseAcquire(s, at)
	case op == opFatal:
		return p.parseFatal(s, at)
	}

	if spec, ok := genericOps[op]; ok {
		return p.parseGenericExpr(s, at, spec.op, spec.operands, spec.targets)
	}

	// Not an opcode at all: this is a name path, either a bare reference or
	// (if the method dictionary knows its arity) an invocation.
	return p.parseNameOrInvocation(s, op, at)
}

func (p *Parser) parseGenericExpr(s *bytestream.Stream, at int, op astnode.Op, operandCount, targetCount int) (astnode.Term, error) {
	operands := make([]astnode.Term, operandCount)
	for i := 0; i < operandCount; i++ {
		arg, err := p.parseTermArg(s)
		if err != nil {
			return nil, err
		}
		operands[i] = arg
	}
	targets := make([]astnode.Term, targetCount)
	for i := 0; i < targetCount; i++ {
		t, err := p.parseTarget(s)
		if err != nil {
			return nil, err
		}
		targets[i] = t
	}
	return &astnode.Expr{Base: astnode.Base{At: at}, Op: op, Operands: operands, Targets: targets}, nil
}

// parseDivide handles DefDivide := DivideOp Dividend Divisor Remainder
// Quotient, the one arithmetic opcode with two store targets.
func (p *Parser) parseDivide(s *bytestream.Stream, at int) (astnode.Term, error) {
	dividend, err := p.parseTermArg(s)
	if err != nil {
		return nil, err
	}
	divisor, err := p.parseTermArg(s)
	if err != nil {
		return nil, err
	}
	remainder, err := p.parseTarget(s)
	if err != nil {
		return nil, err
	}
	quotient, err := p.parseTarget(s)
	if err != nil {
		return nil, err
	}
	return &astnode.Expr{
		Base:     astnode.Base{At: at},
		Op:       astnode.OpDivide,
		Operands: []astnode.Term{dividend, divisor},
		Targets:  []astnode.Term{remainder, quotient},
	}, nil
}

// parseMatch handles DefMatch := MatchOp SearchPkg MatchOpcode Operand1
// MatchOpcode Operand2 StartIndex. The two MatchOpcode bytes are literal
// bytes (0-5), not TermArgs; they are kept as raw Data(Byte) operands
// alongside the real expressions so the operand list stays positional.
func (p *Parser) parseMatch(s *bytestream.Stream, at int) (astnode.Term, error) {
	pkg, err := p.parseTermArg(s)
	if err != nil {
		return nil, err
	}
	op1, err := p.readRawByteOperand(s, at)
	if err != nil {
		return nil, err
	}
	operand1, err := p.parseTermArg(s)
	if err != nil {
		return nil, err
	}
	op2, err := p.readRawByteOperand(s, at)
	if err != nil {
		return nil, err
	}
	operand2, err := p.parseTermArg(s)
	if err != nil {
		return nil, err
	}
	startIndex, err := p.parseTermArg(s)
	if err != nil {
		return nil, err
	}
	return &astnode.Expr{
		Base:     astnode.Base{At: at},
		Op:       astnode.OpMatch,
		Operands: []astnode.Term{pkg, op1, operand1, op2, operand2, startIndex},
	}, nil
}

// parseAcquire handles DefAcquire := AcquireOp MutexObject Timeout, where
// Timeout is a literal 16-bit value rather than a general TermArg.
func (p *Parser) parseAcquire(s *bytestream.Stream, at int) (astnode.Term, error) {
	mutex, err := p.parseTermArg(s)
	if err != nil {
		return nil, err
	}
	raw, err := s.Take(2, "Acquire")
	if err != nil {
		return nil, err
	}
	timeout := &astnode.Data{Base: astnode.Base{At: at}, Kind: astnode.DataWord, Int: uint64(raw[0]) | uint64(raw[1])<<8}
	return &astnode.Expr{Base: astnode.Base{At: at}, Op: astnode.OpAcquire, Operands: []astnode.Term{mutex, timeout}}, nil
}

// parseFatal handles DefFatal := FatalOp FatalType FatalCode FatalArg,
// where Type is a literal byte and Code a literal dword.
func (p *Parser) parseFatal(s *bytestream.Stream, at int) (astnode.Term, error) {
	typeByte, err := s.Take(1, "Fatal")
	if err != nil {
		return nil, err
	}
	codeRaw, err := s.Take(4, "Fatal")
	if err != nil {
		return nil, err
	}
	var code uint64
	for i := 0; i < 4; i++ {
		code |= uint64(codeRaw[i]) << uint(8*i)
	}
	arg, err := p.parseTermArg(s)
	if err != nil {
		return nil, err
	}
	return &astnode.Expr{
		Base: astnode.Base{At: at},
		Op:   astnode.OpFatal,
		Operands: []astnode.Term{
			&astnode.Data{Base: astnode.Base{At: at}, Kind: astnode.DataByte, Int: uint64(typeByte[0])},
			&astnode.Data{Base: astnode.Base{At: at}, Kind: astnode.DataDWord, Int: code},
			arg,
		},
	}, nil
}

func (p *Parser) readRawByteOperand(s *bytestream.Stream, at int) (astnode.Term, error) {
	raw, err := s.Take(1, "Match")
	if err != nil {
		return nil, err
	}
	return &astnode.Data{Base: astnode.Base{At: at}, Kind: astnode.DataByte, Int: uint64(raw[0])}, nil
}

// parseNameOrInvocation handles the fallback case at the bottom of
// parseTermArgFromOpcode: op matched no opcode at all, so the byte already
// consumed from s is actually the first byte of a NameString (a prefix
// character, a name-segment letter, or the null-name marker). It steps back
// and reparses as a name path, then consults the method dictionary to tell
// a bare reference from an invocation -- the byte-code itself carries no
// other marker, per the forward-reference resolution the method dictionary
// exists for.
func (p *Parser) parseNameOrInvocation(s *bytestream.Stream, op opcode, at int) (astnode.Term, error) {
	s.StepBack()
	path, err := ParseNameString(s)
	if err != nil {
		return nil, err
	}
	if argCount, ok := p.ctx.MethodArgumentCount(path); ok {
		args := make([]astnode.Term, argCount)
		for i := 0; i < int(argCount); i++ {
			arg, err := p.parseTermArg(s)
			if err != nil {
				return nil, err
			}
			args[i] = arg
		}
		return &astnode.Invocation{Base: astnode.Base{At: at}, Path: path, Args: args}, nil
	}
	return &astnode.NameRef{Base: astnode.Base{At: at}, Path: path}, nil
}

// parseTarget parses a Target production: either the NullName marker
// (0x00, meaning "no target requested") or a SuperName, which this parser
// treats identically to a TermArg since both ultimately resolve to a
// reference.
func (p *Parser) parseTarget(s *bytestream.Stream) (astnode.Term, error) {
	b, ok := s.Peek()
	if ok && b == 0x00 {
		s.Next()
		return nil, nil
	}
	return p.parseTermArg(s)
}
