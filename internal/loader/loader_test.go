package loader

import (
	"testing"

	"firmwarebc/internal/amlerr"
	"firmwarebc/internal/amlname"
	"firmwarebc/internal/astnode"
	"firmwarebc/internal/namespace"
)

func sbPath(segs ...amlname.Name) amlname.Path {
	terminal := segs[len(segs)-1]
	return amlname.Path{Kind: amlname.PrefixRoot, Segments: segs[:len(segs)-1], Terminal: &terminal}
}

func name(s string) amlname.Name {
	var n amlname.Name
	copy(n[:], s)
	return n
}

func TestLoadScopeReentryIsNoop(t *testing.T) {
	ns := namespace.New()
	l := New(ns, nil, nil)

	block := &astnode.NamedBlock{Kind: astnode.KindScope, Path: sbPath(name("_SB_"))}
	list := &astnode.TermList{Terms: []astnode.Term{block}}
	if err := l.Load(list); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sb, ok := ns.Root().FindChild(name("_SB_")).(*namespace.Scope)
	if !ok {
		t.Fatalf("_SB_ missing or not a Scope after reentry")
	}
	if len(sb.Children()) != 0 {
		t.Fatalf("reentering an existing scope with an empty body should add no children, got %d", len(sb.Children()))
	}
}

func TestLoadDeviceUnderSB(t *testing.T) {
	ns := namespace.New()
	l := New(ns, nil, nil)

	block := &astnode.NamedBlock{Kind: astnode.KindDevice, Path: sbPath(name("_SB_"), name("DEV0"))}
	list := &astnode.TermList{Terms: []astnode.Term{block}}
	if err := l.Load(list); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dev, ok := ns.GetAbsolute(amlname.Absolute{Segments: []amlname.Name{name("_SB_"), name("DEV0")}})
	if !ok {
		t.Fatalf("\\_SB_.DEV0 not found after load")
	}
	if _, ok := dev.(*namespace.Device); !ok {
		t.Fatalf("\\_SB_.DEV0 is %T, want *namespace.Device", dev)
	}
}

func TestLoadNameCollision(t *testing.T) {
	ns := namespace.New()
	l := New(ns, nil, nil)

	first := &astnode.Name{Path: sbPath(name("_SB_"), name("REV_")), Data: &astnode.Data{Kind: astnode.DataOne}}
	second := &astnode.Name{Path: sbPath(name("_SB_"), name("REV_")), Data: &astnode.Data{Kind: astnode.DataZero}}
	list := &astnode.TermList{Terms: []astnode.Term{first, second}}

	err := l.Load(list)
	if err == nil {
		t.Fatalf("expected a collision error on the second Name")
	}
	loadErr, ok := err.(*amlerr.LoadError)
	if !ok || loadErr.Kind != amlerr.NameCollision {
		t.Fatalf("err = %v, want NameCollision LoadError", err)
	}
}

func TestLoadUnknownParentFails(t *testing.T) {
	ns := namespace.New()
	l := New(ns, nil, nil)

	block := &astnode.NamedBlock{Kind: astnode.KindDevice, Path: sbPath(name("_SB_"), name("NOPE"), name("DEV0"))}
	list := &astnode.TermList{Terms: []astnode.Term{block}}

	err := l.Load(list)
	if err == nil {
		t.Fatalf("expected UnknownName for a device under a nonexistent parent")
	}
	loadErr, ok := err.(*amlerr.LoadError)
	if !ok || loadErr.Kind != amlerr.UnknownName {
		t.Fatalf("err = %v, want UnknownName LoadError", err)
	}
}

func TestLoadAliasChainCollapsesOneHop(t *testing.T) {
	ns := namespace.New()
	l := New(ns, nil, nil)

	original := &astnode.Name{Path: sbPath(name("_SB_"), name("FOO_")), Data: &astnode.Data{Kind: astnode.DataOne}}
	alias1 := &astnode.Alias{Target: sbPath(name("_SB_"), name("FOO_")), NewName: sbPath(name("_SB_"), name("AL1_"))}
	alias2 := &astnode.Alias{Target: sbPath(name("_SB_"), name("AL1_")), NewName: sbPath(name("_SB_"), name("AL2_"))}
	list := &astnode.TermList{Terms: []astnode.Term{original, alias1, alias2}}

	if err := l.Load(list); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	foo, _ := ns.GetAbsolute(amlname.Absolute{Segments: []amlname.Name{name("_SB_"), name("FOO_")}})
	al2Node, ok := ns.GetAbsolute(amlname.Absolute{Segments: []amlname.Name{name("_SB_"), name("AL2_")}})
	if !ok {
		t.Fatalf("\\_SB_.AL2_ not found after load")
	}
	al2, ok := al2Node.(*namespace.Alias)
	if !ok {
		t.Fatalf("\\_SB_.AL2_ is %T, want *namespace.Alias", al2Node)
	}
	if al2.Target != foo {
		t.Fatalf("AL2_'s Target did not collapse through AL1_ to FOO_ directly")
	}
}

func TestLoadOperationRegionAndField(t *testing.T) {
	ns := namespace.New()
	l := New(ns, nil, nil)

	region := &astnode.OperationRegion{
		Path:   sbPath(name("_SB_"), name("REGN")),
		Space:  astnode.SpaceSystemMemory,
		Offset: &astnode.Data{Kind: astnode.DataDWord, Int: 0x1000},
		Length: &astnode.Data{Kind: astnode.DataByte, Int: 4},
	}
	field := &astnode.Field{
		Kind:       astnode.FieldPlain,
		RegionPath: sbPath(name("_SB_"), name("REGN")),
		Units: []astnode.FieldUnit{
			{Kind: astnode.FieldUnitNamed, Name: name("STA0"), BitLength: 8},
		},
	}
	list := &astnode.TermList{Terms: []astnode.Term{region, field}}

	if err := l.Load(list); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	regNode, ok := ns.GetAbsolute(amlname.Absolute{Segments: []amlname.Name{name("_SB_"), name("REGN")}})
	if !ok {
		t.Fatalf("\\_SB_.REGN not found after load")
	}
	region2 := regNode.(*namespace.OperationRegion)
	if region2.Offset != 0x1000 || region2.Length != 4 {
		t.Fatalf("region = %+v, want Offset 0x1000 Length 4", region2)
	}

	fieldNode := region2.FindChild(name("STA0"))
	if fieldNode == nil {
		t.Fatalf("STA0 field not attached under REGN")
	}
	f, ok := fieldNode.(*namespace.Field)
	if !ok || f.ParentRegion != namespace.Container(region2) {
		t.Fatalf("STA0's ParentRegion did not resolve back to REGN")
	}
	if f.BitOffset != 0 {
		t.Fatalf("BitOffset = %d, want 0 for the first unit in the list", f.BitOffset)
	}
}

// TestLoadFieldAccumulatesOffsetsAcrossUnits covers spec.md's Field list
// with a leading Reserved run and an AccessField between two named units,
// the common real-world shape a single-unit fixture can't exercise: every
// named field's BitOffset must reflect everything that precedes it, and
// every named field must retain the complete ordered unit list, not just
// its own entry.
func TestLoadFieldAccumulatesOffsetsAcrossUnits(t *testing.T) {
	ns := namespace.New()
	l := New(ns, nil, nil)

	region := &astnode.OperationRegion{
		Path:   sbPath(name("_SB_"), name("REGN")),
		Space:  astnode.SpaceSystemMemory,
		Offset: &astnode.Data{Kind: astnode.DataDWord, Int: 0x1000},
		Length: &astnode.Data{Kind: astnode.DataByte, Int: 4},
	}
	units := []astnode.FieldUnit{
		{Kind: astnode.FieldUnitReserved, BitLength: 4},
		{Kind: astnode.FieldUnitNamed, Name: name("STA0"), BitLength: 1},
		{Kind: astnode.FieldUnitAccess, Raw: []byte{0x01, 0x00}},
		{Kind: astnode.FieldUnitNamed, Name: name("STA1"), BitLength: 3},
	}
	field := &astnode.Field{
		Kind:       astnode.FieldPlain,
		RegionPath: sbPath(name("_SB_"), name("REGN")),
		Units:      units,
	}
	list := &astnode.TermList{Terms: []astnode.Term{region, field}}

	if err := l.Load(list); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	regNode, _ := ns.GetAbsolute(amlname.Absolute{Segments: []amlname.Name{name("_SB_"), name("REGN")}})
	region2 := regNode.(*namespace.OperationRegion)

	sta0, ok := region2.FindChild(name("STA0")).(*namespace.Field)
	if !ok {
		t.Fatalf("STA0 not attached under REGN")
	}
	if sta0.BitOffset != 4 {
		t.Fatalf("STA0.BitOffset = %d, want 4 (after the 4-bit Reserved run)", sta0.BitOffset)
	}

	sta1, ok := region2.FindChild(name("STA1")).(*namespace.Field)
	if !ok {
		t.Fatalf("STA1 not attached under REGN")
	}
	if sta1.BitOffset != 5 {
		t.Fatalf("STA1.BitOffset = %d, want 5 (4 Reserved + 1 for STA0, AccessField consumes no bits)", sta1.BitOffset)
	}

	if len(sta0.Units) != len(units) || len(sta1.Units) != len(units) {
		t.Fatalf("expected both fields to retain the full %d-unit list, got %d and %d", len(units), len(sta0.Units), len(sta1.Units))
	}
}

func TestLoadRejectsWhileExecuting(t *testing.T) {
	ns := namespace.New()
	l := New(ns, nil, nil)
	l.BeginExecution()
	defer l.EndExecution()

	list := &astnode.TermList{}
	err := l.Load(list)
	if err == nil {
		t.Fatalf("expected InvalidState while a method is executing")
	}
	loadErr, ok := err.(*amlerr.LoadError)
	if !ok || loadErr.Kind != amlerr.InvalidState {
		t.Fatalf("err = %v, want InvalidState LoadError", err)
	}
}

func TestEvalIntRejectsNonLiteralWithoutEvaluator(t *testing.T) {
	ns := namespace.New()
	l := New(ns, nil, nil)

	region := &astnode.OperationRegion{
		Path:   sbPath(name("_SB_"), name("REGN")),
		Space:  astnode.SpaceSystemMemory,
		Offset: &astnode.NameRef{Path: sbPath(name("_SB_"), name("OFF_"))},
		Length: &astnode.Data{Kind: astnode.DataByte, Int: 4},
	}
	list := &astnode.TermList{Terms: []astnode.Term{region}}

	err := l.Load(list)
	if err == nil {
		t.Fatalf("expected InvalidType when no ArgumentEvaluator is configured")
	}
	loadErr, ok := err.(*amlerr.LoadError)
	if !ok || loadErr.Kind != amlerr.InvalidType {
		t.Fatalf("err = %v, want InvalidType LoadError", err)
	}
}
