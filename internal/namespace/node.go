// Package namespace implements the hierarchical object namespace (C6) and
// the name resolver that walks it (C7). The root is pre-populated with the
// five standard ACPI sub-scopes before any loading begins.
package namespace

import (
	"firmwarebc/internal/amlname"
	"firmwarebc/internal/astnode"
)

// Node is any entry in the namespace tree. Every node but the root carries
// a parent link; in Go this is a plain pointer rather than the
// weak-reference-plus-handle scheme a systems language needs, because the
// garbage collector already reclaims parent/child pointer cycles that have
// become unreachable from the root.
type Node interface {
	Parent() Node
	setParent(Node)
	Name() (amlname.Name, bool)
	Path() amlname.Absolute
	setPath(amlname.Absolute)
}

// Container is implemented by every node variant with the "owns children"
// capability: Scope, Device, Processor, PowerResource, ThermalZone, and
// OperationRegion and DataRegion (which own attached Field nodes).
type Container interface {
	Node
	Children() []Node
	FindChild(amlname.Name) Node
	// AddChild attaches child under this container. It returns false on a
	// name collision; the caller translates that into NameCollision.
	AddChild(child Node) bool
}

type nodeBase struct {
	parent  Node
	name    amlname.Name
	hasName bool
	path    amlname.Absolute
}

func (n *nodeBase) Parent() Node                  { return n.parent }
func (n *nodeBase) setParent(p Node)              { n.parent = p }
func (n *nodeBase) Path() amlname.Absolute        { return n.path }
func (n *nodeBase) setPath(p amlname.Absolute)    { n.path = p }
func (n *nodeBase) Name() (amlname.Name, bool)    { return n.name, n.hasName }

type containerBase struct {
	nodeBase
	children     []Node
	childByName  map[amlname.Name]Node
}

func newContainerBase(name amlname.Name, hasName bool) containerBase {
	return containerBase{
		nodeBase:    nodeBase{name: name, hasName: hasName},
		childByName: make(map[amlname.Name]Node),
	}
}

func (c *containerBase) Children() []Node { return c.children }

func (c *containerBase) FindChild(n amlname.Name) Node {
	return c.childByName[n]
}

// addChild records child under this container's child map/slice and
// stamps its path, but does NOT set its parent pointer -- Go embedding has
// no virtual dispatch, so only the concrete wrapper (Scope.AddChild,
// Device.AddChild, ...) knows the right Node identity to hand back as the
// parent. Every concrete AddChild calls this, then sets the parent itself.
func (c *containerBase) addChild(child Node) bool {
	name, ok := child.Name()
	if !ok {
		return false
	}
	if _, exists := c.childByName[name]; exists {
		return false
	}
	child.setPath(c.path.Child(name))
	c.childByName[name] = child
	c.children = append(c.children, child)
	return true
}

// Scope is a namespace node that owns children but carries no device
// semantics of its own. The root is a Scope with no name.
type Scope struct {
	containerBase
}

func NewScope(name amlname.Name, hasName bool) *Scope {
	s := &Scope{containerBase: newContainerBase(name, hasName)}
	return s
}

func (s *Scope) AddChild(child Node) bool {
	ok := s.containerBase.addChild(child)
	if ok {
		child.setParent(s)
	}
	return ok
}

// Device is a named device node.
type Device struct {
	containerBase
}

func NewDevice(name amlname.Name) *Device {
	return &Device{containerBase: newContainerBase(name, true)}
}
func (d *Device) AddChild(child Node) bool {
	ok := d.containerBase.addChild(child)
	if ok {
		child.setParent(d)
	}
	return ok
}

// Method is a named callable whose body is parsed lazily at invocation
// time; the loader attaches it with the raw byte-code slice still intact.
type Method struct {
	nodeBase
	ArgCount       uint8
	Serialized     bool
	SyncLevel      uint8
	Body           []byte
	EnclosingScope amlname.Absolute
}

func NewMethod(name amlname.Name, argCount uint8, serialized bool, syncLevel uint8, body []byte, enclosing amlname.Absolute) *Method {
	return &Method{
		nodeBase:       nodeBase{name: name, hasName: true},
		ArgCount:       argCount,
		Serialized:     serialized,
		SyncLevel:      syncLevel,
		Body:           body,
		EnclosingScope: enclosing,
	}
}

// OperationRegion is a named window over a typed address space. It owns
// Field children attached to it by the loader.
type OperationRegion struct {
	containerBase
	Space  astnode.RegionSpace
	Raw    uint8
	Offset int64
	Length int64
}

func NewOperationRegion(name amlname.Name, space astnode.RegionSpace, raw uint8, offset, length int64) *OperationRegion {
	return &OperationRegion{
		containerBase: newContainerBase(name, true),
		Space:         space,
		Raw:           raw,
		Offset:        offset,
		Length:        length,
	}
}
func (r *OperationRegion) AddChild(child Node) bool {
	ok := r.containerBase.addChild(child)
	if ok {
		child.setParent(r)
	}
	return ok
}

// Field is a bit-level view into a backing region; it is attached as a
// child of that region. ParentRegion is a Container rather than a concrete
// *OperationRegion because IndexField and BankField may equally back onto a
// DataRegion. BitOffset is this field's own absolute bit offset within the
// region, precomputed by accumulating every preceding unit's width
// (Reserved padding included) in the enclosing Field/IndexField/BankField
// statement. Units retains that entire statement's ordered unit list
// unabridged -- not just this field's own entry -- so the execution engine
// can still recover neighbouring Reserved/AccessField/ConnectField entries
// the way it would by re-walking the original byte-code field list.
type Field struct {
	nodeBase
	ParentRegion Container
	Kind         astnode.FieldKind
	Flags        astnode.FieldFlags
	BitOffset    int
	Units        []astnode.FieldUnit
}

func NewField(name amlname.Name, region Container, kind astnode.FieldKind, flags astnode.FieldFlags, bitOffset int, units []astnode.FieldUnit) *Field {
	return &Field{
		nodeBase:     nodeBase{name: name, hasName: true},
		ParentRegion: region,
		Kind:         kind,
		Flags:        flags,
		BitOffset:    bitOffset,
		Units:        units,
	}
}

// DataRegion is a named region whose backing address comes from OEM
// firmware identification strings rather than a literal offset/length, so
// the three identifying expressions are kept unevaluated for the execution
// engine. It owns Field children the same way OperationRegion does.
type DataRegion struct {
	containerBase
	SignatureExpr  astnode.Term
	OEMIDExpr      astnode.Term
	OEMTableIDExpr astnode.Term
}

func NewDataRegion(name amlname.Name, sig, oemID, oemTableID astnode.Term) *DataRegion {
	return &DataRegion{
		containerBase:  newContainerBase(name, true),
		SignatureExpr:  sig,
		OEMIDExpr:      oemID,
		OEMTableIDExpr: oemTableID,
	}
}
func (d *DataRegion) AddChild(child Node) bool {
	ok := d.containerBase.addChild(child)
	if ok {
		child.setParent(d)
	}
	return ok
}

// BufferField is a buffer-relative field view created by the CreateField
// family, distinct from Field because its bit offset indexes into a Buffer
// value rather than a hardware region.
type BufferField struct {
	nodeBase
	Kind      astnode.BufferFieldKind
	SourceBuf astnode.Term
	BitOffset astnode.Term
	BitLength astnode.Term
}

func NewBufferField(name amlname.Name, kind astnode.BufferFieldKind, source, bitOffset, bitLength astnode.Term) *BufferField {
	return &BufferField{
		nodeBase:  nodeBase{name: name, hasName: true},
		Kind:      kind,
		SourceBuf: source,
		BitOffset: bitOffset,
		BitLength: bitLength,
	}
}

// Mutex is a named synchronization primitive.
type Mutex struct {
	nodeBase
	SyncLevel uint8
}

func NewMutex(name amlname.Name, syncLevel uint8) *Mutex {
	return &Mutex{nodeBase: nodeBase{name: name, hasName: true}, SyncLevel: syncLevel}
}

// Event is a named synchronization event.
type Event struct {
	nodeBase
}

func NewEvent(name amlname.Name) *Event {
	return &Event{nodeBase: nodeBase{name: name, hasName: true}}
}

// Processor is a named CPU object.
type Processor struct {
	containerBase
	ID      uint8
	Address uint32
	Length  uint8
}

func NewProcessor(name amlname.Name, id uint8, addr uint32, length uint8) *Processor {
	return &Processor{containerBase: newContainerBase(name, true), ID: id, Address: addr, Length: length}
}
func (p *Processor) AddChild(child Node) bool {
	ok := p.containerBase.addChild(child)
	if ok {
		child.setParent(p)
	}
	return ok
}

// PowerResource is a named power resource object.
type PowerResource struct {
	containerBase
	SystemLevel uint8
	Order       uint16
}

func NewPowerResource(name amlname.Name, systemLevel uint8, order uint16) *PowerResource {
	return &PowerResource{containerBase: newContainerBase(name, true), SystemLevel: systemLevel, Order: order}
}
func (p *PowerResource) AddChild(child Node) bool {
	ok := p.containerBase.addChild(child)
	if ok {
		child.setParent(p)
	}
	return ok
}

// ThermalZone is a named thermal zone object.
type ThermalZone struct {
	containerBase
}

func NewThermalZone(name amlname.Name) *ThermalZone {
	return &ThermalZone{containerBase: newContainerBase(name, true)}
}
func (t *ThermalZone) AddChild(child Node) bool {
	ok := t.containerBase.addChild(child)
	if ok {
		child.setParent(t)
	}
	return ok
}

// Name binds a name to a stored data object. Data is the parsed literal
// term (astnode.Data, or a resolved reference for an Alias-like binding);
// it is kept in its parsed form rather than re-decoded into a separate
// runtime value type since literals are immutable once parsed.
type Name struct {
	nodeBase
	Data astnode.Term
}

func NewName(name amlname.Name, data astnode.Term) *Name {
	return &Name{nodeBase: nodeBase{name: name, hasName: true}, Data: data}
}

// Alias delegates name resolution to Target: looking up an Alias node
// should be treated by callers as looking up Target directly.
type Alias struct {
	nodeBase
	Target Node
}

func NewAlias(name amlname.Name, target Node) *Alias {
	return &Alias{nodeBase: nodeBase{name: name, hasName: true}, Target: target}
}
