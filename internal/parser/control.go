package parser

import (
	"firmwarebc/internal/astnode"
	"firmwarebc/internal/bytestream"
)

// parseIf handles DefIfElse: IfOp PkgLength Predicate TermList, optionally
// followed -- in the outer stream, not inside the If's own carved body --
// by a DefElse (ElseOp PkgLength TermList).
func (p *Parser) parseIf(s *bytestream.Stream, at int) (astnode.Term, error) {
	body, err := bytestream.DecodePkgLengthAsSubStream(s, "If")
	if err != nil {
		return nil, err
	}
	predicate, err := p.parseTermArg(body)
	if err != nil {
		return nil, err
	}
	thenList, err := p.ParseTermList(body)
	if err != nil {
		return nil, err
	}

	var elseTerms []astnode.Term
	if b, ok := s.Peek(); ok && b == byte(opElse) {
		s.Next()
		elseBody, err := bytestream.DecodePkgLengthAsSubStream(s, "Else")
		if err != nil {
			return nil, err
		}
		elseList, err := p.ParseTermList(elseBody)
		if err != nil {
			return nil, err
		}
		elseTerms = elseList.Terms
	}

	return &astnode.If{Base: astnode.Base{At: at}, Predicate: predicate, Then: thenList.Terms, Else: elseTerms}, nil
}

// parseWhile handles DefWhile: WhileOp PkgLength Predicate TermList.
func (p *Parser) parseWhile(s *bytestream.Stream, at int) (astnode.Term, error) {
	body, err := bytestream.DecodePkgLengthAsSubStream(s, "While")
	if err != nil {
		return nil, err
	}
	predicate, err := p.parseTermArg(body)
	if err != nil {
		return nil, err
	}
	terms, err := p.ParseTermList(body)
	if err != nil {
		return nil, err
	}
	return &astnode.While{Base: astnode.Base{At: at}, Predicate: predicate, Body: terms.Terms}, nil
}
