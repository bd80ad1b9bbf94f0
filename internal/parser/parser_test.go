package parser

import (
	"testing"

	"firmwarebc/internal/amlname"
	"firmwarebc/internal/astnode"
	"firmwarebc/internal/bytestream"
)

// Name(_REV, 0x02): a DefName binding a byte literal directly, no
// PkgLength involved anywhere in the grammar. Exercises the unprefixed
// single-segment NameString path plus the BytePrefix data object.
func TestParseNameByteLiteral(t *testing.T) {
	raw := []byte{0x08, '_', 'R', 'E', 'V', 0x0A, 0x02}
	p := New(nil)
	list, err := p.ParseTermList(bytestream.New(raw))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list.Terms) != 1 {
		t.Fatalf("got %d terms, want 1", len(list.Terms))
	}
	name, ok := list.Terms[0].(*astnode.Name)
	if !ok {
		t.Fatalf("term is %T, want *astnode.Name", list.Terms[0])
	}
	if got := name.Path.String(); got != "_REV" {
		t.Fatalf("Path.String() = %q, want _REV", got)
	}
	data, ok := name.Data.(*astnode.Data)
	if !ok || data.Kind != astnode.DataByte || data.Int != 2 {
		t.Fatalf("Data = %+v, want Byte(2)", name.Data)
	}
}

func TestParseDeviceUnderScope(t *testing.T) {
	// Scope(\_SB_) { Device(DEV0) {} }. The device's own PkgLength covers
	// its NameString body only (4 bytes: "DEV0"), so its lead byte encodes
	// raw = 4+1 = 5. The Scope's PkgLength covers its NameString (root
	// prefix + single segment "_SB_", 5 bytes) plus the whole nested
	// Device term (2 opcode bytes + 1 pkglen byte + 4 name bytes = 7
	// bytes), so its lead byte encodes raw = 12+1 = 13.
	device := []byte{0x5B, 0x82, 0x05, 'D', 'E', 'V', '0'}
	nameBytes := []byte{'\\', '_', 'S', 'B', '_'}
	innerBody := append(append([]byte{}, nameBytes...), device...)
	pkglen := byte(len(innerBody) + 1)
	full := append([]byte{0x10, pkglen}, innerBody...)

	p := New(nil)
	list, err := p.ParseTermList(bytestream.New(full))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list.Terms) != 1 {
		t.Fatalf("got %d terms, want 1", len(list.Terms))
	}
	block, ok := list.Terms[0].(*astnode.NamedBlock)
	if !ok || block.Kind != astnode.KindScope {
		t.Fatalf("term = %+v, want Scope NamedBlock", list.Terms[0])
	}
	if len(block.Body) != 1 {
		t.Fatalf("Scope body has %d terms, want 1", len(block.Body))
	}
	inner, ok := block.Body[0].(*astnode.NamedBlock)
	if !ok || inner.Kind != astnode.KindDevice {
		t.Fatalf("inner term = %+v, want Device NamedBlock", block.Body[0])
	}
	if got := inner.Path.String(); got != "DEV0" {
		t.Fatalf("device Path.String() = %q, want DEV0", got)
	}
}

func TestParseNameOrInvocationWithKnownArity(t *testing.T) {
	p := New(nil)
	terminal := amlname.Name{'M', 'E', 'T', 'H'}
	if err := p.ctx.AddMethod(amlname.Path{Terminal: &terminal}, 2, 0); err != nil {
		t.Fatalf("AddMethod: %v", err)
	}

	// Invocation of METH with two Zero-literal arguments.
	raw := []byte{'M', 'E', 'T', 'H', 0x00, 0x00}
	term, err := p.parseTermArg(bytestream.New(raw))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	inv, ok := term.(*astnode.Invocation)
	if !ok {
		t.Fatalf("term is %T, want *astnode.Invocation", term)
	}
	if len(inv.Args) != 2 {
		t.Fatalf("got %d args, want 2", len(inv.Args))
	}
}

func TestParseNameOrInvocationUnknownArityIsReference(t *testing.T) {
	p := New(nil)
	raw := []byte{'F', 'O', 'O', '_'}
	term, err := p.parseTermArg(bytestream.New(raw))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ref, ok := term.(*astnode.NameRef)
	if !ok {
		t.Fatalf("term is %T, want *astnode.NameRef", term)
	}
	if got := ref.Path.String(); got != "FOO_" {
		t.Fatalf("Path.String() = %q, want FOO_", got)
	}
}

func TestAddMethodCollision(t *testing.T) {
	ctx := NewContext()
	terminal := amlname.Name{'M', 'E', 'T', 'H'}
	path := amlname.Path{Terminal: &terminal}
	if err := ctx.AddMethod(path, 1, 0); err != nil {
		t.Fatalf("first AddMethod: %v", err)
	}
	if err := ctx.AddMethod(path, 2, 10); err == nil {
		t.Fatalf("expected NameCollision on re-registration")
	}
}

func TestParseIfElse(t *testing.T) {
	// If (Zero) { Return (One) } Else { Return (Zero) }
	thenBody := []byte{0xA4, 0x01} // Return(One)
	ifBody := append([]byte{0x00}, thenBody...) // predicate Zero, then ByteList
	ifPkglen := byte(len(ifBody) + 1)

	elseBody := []byte{0xA4, 0x00} // Return(Zero)
	elsePkglen := byte(len(elseBody) + 1)

	raw := append([]byte{0xA0, ifPkglen}, ifBody...)
	raw = append(raw, 0xA1, elsePkglen)
	raw = append(raw, elseBody...)

	p := New(nil)
	list, err := p.ParseTermList(bytestream.New(raw))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ifTerm, ok := list.Terms[0].(*astnode.If)
	if !ok {
		t.Fatalf("term is %T, want *astnode.If", list.Terms[0])
	}
	if len(ifTerm.Then) != 1 || len(ifTerm.Else) != 1 {
		t.Fatalf("Then/Else lengths = %d/%d, want 1/1", len(ifTerm.Then), len(ifTerm.Else))
	}
}

func TestParseFieldNamedUnit(t *testing.T) {
	// Field(REGN, ByteAcc) { STA0, 8 }
	region := []byte{'R', 'E', 'G', 'N'}
	flags := byte(0x01)
	unit := append([]byte{'S', 'T', 'A', '0'}, 0x08)
	fieldBody := append(append(append([]byte{}, region...), flags), unit...)
	pkglen := byte(len(fieldBody) + 1)

	raw := append([]byte{0x5B, 0x81, pkglen}, fieldBody...)

	p := New(nil)
	list, err := p.ParseTermList(bytestream.New(raw))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	field, ok := list.Terms[0].(*astnode.Field)
	if !ok {
		t.Fatalf("term is %T, want *astnode.Field", list.Terms[0])
	}
	if field.Kind != astnode.FieldPlain {
		t.Fatalf("Kind = %v, want FieldPlain", field.Kind)
	}
	if got := field.RegionPath.String(); got != "REGN" {
		t.Fatalf("RegionPath.String() = %q, want REGN", got)
	}
	if len(field.Units) != 1 {
		t.Fatalf("got %d units, want 1", len(field.Units))
	}
	u := field.Units[0]
	if u.Kind != astnode.FieldUnitNamed || u.Name.String() != "STA0" || u.BitLength != 8 {
		t.Fatalf("unit = %+v, want Named STA0 bitlen 8", u)
	}
}
