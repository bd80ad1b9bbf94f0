// Package astnode holds the transient parse tree produced by the opcode
// parser (C4) and consumed by the namespace loader (C8). One Go type exists
// per distinct grammar shape rather than one per opcode: most of the
// arithmetic, logical, reference, and miscellaneous opcodes share the same
// shape (an operator tag plus a fixed operand count and an optional store
// target) and are represented uniformly by Expr, the way a hand-rolled
// recursive-descent parser keeps its own node count small. Every node
// carries the absolute byte offset at which it was parsed, for diagnostics.
package astnode

import "firmwarebc/internal/amlname"

// Term is any top-level or nested production in the tree: a statement, a
// named/modifier object, or an expression.
type Term interface {
	Offset() int
}

type Base struct {
	At int
}

func (b Base) Offset() int { return b.At }

// TermList is a sequence of terms parsed until end-of-stream or end of a
// carved sub-stream, the grammar's top-level production.
type TermList struct {
	Base
	Terms []Term
}

// DataKind identifies a Data object's concrete shape.
type DataKind int

const (
	DataZero DataKind = iota
	DataOne
	DataOnes
	DataByte
	DataWord
	DataDWord
	DataQWord
	DataString
	DataBuffer
	DataPackage
	DataVarPackage
)

// Data is the decoded-literal / constructor sum type: Zero, One, Ones,
// fixed-width integers, strings, buffers, and (var-)packages.
type Data struct {
	Base
	Kind DataKind

	Int uint64 // Byte/Word/DWord/QWord
	Str []byte // String

	SizeExpr     Term   // Buffer/VarPackage: byte-count / element-count expression
	InitialBytes []byte // Buffer: literal initial contents
	Count        int    // Package: literal element count
	Elements     []Term // Package/VarPackage: elements, each Data or a name Path reference
}

// PathRef is a package element or expression operand that names a path
// rather than carrying a literal value.
type PathRef struct {
	Base
	Path amlname.Path
}

// LocalRef refers to one of the eight local variables (opcodes 0x60-0x67).
type LocalRef struct {
	Base
	Index int
}

// ArgRef refers to one of the seven method arguments (opcodes 0x68-0x6E).
type ArgRef struct {
	Base
	Index int
}

// NameRef is a bare name appearing in expression position that the parser
// determined, via the method dictionary, was not an invocation.
type NameRef struct {
	Base
	Path amlname.Path
}

// Invocation is a method call: the callee's path plus its argument
// sub-expressions, whose count was fixed by the method dictionary at parse
// time.
type Invocation struct {
	Base
	Path amlname.Path
	Args []Term
}

// Op identifies the operator of a generic Expr node.
type Op int

const (
	OpAdd Op = iota
	OpSubtract
	OpMultiply
	OpDivide
	OpMod
	OpAnd
	OpNand
	OpOr
	OpNor
	OpXor
	OpNot
	OpShiftLeft
	OpShiftRight
	OpIncrement
	OpDecrement
	OpLAnd
	OpLOr
	OpLNot
	OpLEqual
	OpLGreater
	OpLLess
	OpLNotEqual
	OpLGreaterEqual
	OpLLessEqual
	OpStore
	OpRefOf
	OpDerefOf
	OpIndex
	OpCondRefOf
	OpSizeOf
	OpObjectType
	OpCopyObject
	OpToBuffer
	OpToHexString
	OpToDecimalString
	OpToInteger
	OpToString
	OpMid
	OpConcat
	OpConcatRes
	OpMatch
	OpFindSetLeftBit
	OpFindSetRightBit
	OpNotify
	OpAcquire
	OpRelease
	OpSignal
	OpWait
	OpReset
	OpStall
	OpSleep
	OpFatal
	OpLoad
	OpLoadTable
	OpUnload
	OpTimer
	OpRevision
	OpDebug
)

// Expr is the generic arithmetic/logical/reference/misc expression node.
// Operands holds the operator's fixed-arity argument list in declared
// order. Targets holds the operator's store targets, if any -- almost
// always 0 or 1, except DefDivide which carries both a remainder and a
// quotient target. A nil entry in Targets (or Targets being shorter than
// the operator normally allows) means the byte-code supplied the NullName
// "no target requested" marker.
type Expr struct {
	Base
	Op       Op
	Operands []Term
	Targets  []Term
}

// If is the if/else statement. Else is nil when no else block followed.
type If struct {
	Base
	Predicate Term
	Then      []Term
	Else      []Term
}

// While is the while loop.
type While struct {
	Base
	Predicate Term
	Body      []Term
}

// Return carries the value expression of a Return statement (may be nil).
type Return struct {
	Base
	Value Term
}

// Break is the break statement; it carries no data.
type Break struct {
	Base
}

// ScopeKind identifies which children-bearing named construct a NamedBlock
// represents.
type ScopeKind int

const (
	KindScope ScopeKind = iota
	KindDevice
	KindProcessor
	KindPowerResource
	KindThermalZone
)

// NamedBlock covers Scope/Device/Processor/PowerResource/ThermalZone: a
// named construct that owns a nested term list, plus the handful of extra
// fields Processor and PowerResource carry.
type NamedBlock struct {
	Base
	Kind ScopeKind
	Path amlname.Path
	Body []Term

	// Processor only.
	ProcessorID  uint8
	RegBlockAddr uint32
	RegBlockLen  uint8

	// PowerResource only.
	SystemLevel   uint8
	ResourceOrder uint16
}

// Method is a method definition: name, decoded flag byte fields, and the
// raw byte-code slice of its body, which is parsed lazily at invocation
// time rather than here.
type Method struct {
	Base
	Path       amlname.Path
	ArgCount   uint8
	Serialized bool
	SyncLevel  uint8
	Body       []byte
	BodyOffset int
}

// External declares a method (or other object) ahead of its definition so
// forward invocations can be parsed with a known arity.
type External struct {
	Base
	Path     amlname.Path
	ArgCount uint8
}

// Name binds a name directly to a data object.
type Name struct {
	Base
	Path amlname.Path
	Data Term
}

// Alias makes NewName resolve through to Target.
type Alias struct {
	Base
	Target  amlname.Path
	NewName amlname.Path
}

// Mutex declares a named synchronization primitive.
type Mutex struct {
	Base
	Path      amlname.Path
	SyncLevel uint8
}

// Event declares a named synchronization event.
type Event struct {
	Base
	Path amlname.Path
}

// OperationRegion declares a named window over an address space; Offset
// and Length are argument expressions evaluated by the execution engine at
// load time, not literals.
type OperationRegion struct {
	Base
	Path   amlname.Path
	Space  RegionSpace
	Raw    uint8 // the undecoded region-space byte, kept for OEM/Other diagnostics
	Offset Term
	Length Term
}

// DataRegion is a table-data-derived region: its address comes from OEM
// firmware identification strings rather than a literal offset/length.
// Present in the original ACPI grammar (DefDataRegion, extended opcode
// 0x88) but folded away by a generic "region" treatment in less complete
// summaries.
type DataRegion struct {
	Base
	Path           amlname.Path
	SignatureExpr  Term
	OEMIDExpr      Term
	OEMTableIDExpr Term
}

// RegionSpace is the closed enumeration of standard address spaces plus
// the OEM/unknown catch-all. Per the specification's chosen resolution of
// its own open question, bytes outside the standard table (including the
// undefined [0x0B,0x7F] gap) become Other(value) unconditionally rather
// than being rejected, so OEM platforms still load; the parser logs a
// warning when it sees one.
type RegionSpace uint8

const (
	SpaceSystemMemory RegionSpace = iota
	SpaceSystemIO
	SpacePCIConfig
	SpaceEmbeddedControl
	SpaceSMBus
	SpaceSystemCMOS
	SpacePCIBarTarget
	SpaceIPMI
	SpaceGeneralPurposeIO
	SpaceGenericSerialBus
	SpacePCC
	SpaceOther // the OEM/unknown byte itself is kept in OperationRegion.Raw
)

// StandardRegionSpace decodes a region-space byte into one of the 11
// standard spaces, or SpaceOther with the raw byte preserved for anything
// else (including the [0x0B,0x7F] gap the standard table leaves
// undefined).
func StandardRegionSpace(b uint8) (space RegionSpace, raw uint8) {
	switch b {
	case 0x00:
		return SpaceSystemMemory, b
	case 0x01:
		return SpaceSystemIO, b
	case 0x02:
		return SpacePCIConfig, b
	case 0x03:
		return SpaceEmbeddedControl, b
	case 0x04:
		return SpaceSMBus, b
	case 0x05:
		return SpaceSystemCMOS, b
	case 0x06:
		return SpacePCIBarTarget, b
	case 0x07:
		return SpaceIPMI, b
	case 0x08:
		return SpaceGeneralPurposeIO, b
	case 0x09:
		return SpaceGenericSerialBus, b
	case 0x0A:
		return SpacePCC, b
	default:
		return SpaceOther, b
	}
}

// FieldAccessType is the access_type component of a field flags byte.
type FieldAccessType uint8

const (
	AccessAny FieldAccessType = iota
	AccessByte
	AccessWord
	AccessDWord
	AccessQWord
	AccessBuffer
)

// FieldLockRule is the lock_rule component of a field flags byte.
type FieldLockRule uint8

const (
	LockNone FieldLockRule = iota
	LockRequired
)

// FieldUpdateRule is the update_rule component of a field flags byte.
type FieldUpdateRule uint8

const (
	UpdatePreserve FieldUpdateRule = iota
	UpdateWriteAsOnes
	UpdateWriteAsZeros
)

// FieldFlags decodes the single flags byte of a field definition.
type FieldFlags struct {
	Access FieldAccessType
	Lock   FieldLockRule
	Update FieldUpdateRule
}

// DecodeFieldFlags unpacks access_type (bits 0-3), lock_rule (bit 4), and
// update_rule (bits 5-6) from the raw flags byte.
func DecodeFieldFlags(b uint8) FieldFlags {
	return FieldFlags{
		Access: FieldAccessType(b & 0x0F),
		Lock:   FieldLockRule((b >> 4) & 0x1),
		Update: FieldUpdateRule((b >> 5) & 0x3),
	}
}

// FieldUnitKind identifies one entry of a field list.
type FieldUnitKind int

const (
	FieldUnitNamed FieldUnitKind = iota
	FieldUnitReserved
	FieldUnitAccess
	FieldUnitConnect
	FieldUnitExtendedAccess
)

// FieldUnit is one element of a field list: either a named bitfield (with
// its own segment and bit length) or a reserved/access/connect control
// entry that changes how subsequent named fields are accessed. The raw
// bytes of every unit are retained verbatim so the execution engine can
// recompute exactly what the byte-code specified.
type FieldUnit struct {
	Kind      FieldUnitKind
	Name      amlname.Name // FieldUnitNamed only
	BitLength int
	Raw       []byte
}

// FieldKind distinguishes the three region-relative field families the
// specification's open question treats as sharing one field-element
// grammar (plain Field, IndexField, BankField) from the buffer-relative
// CreateField family.
type FieldKind int

const (
	FieldPlain FieldKind = iota
	FieldIndex
	FieldBank
)

// Field covers Field/IndexField/BankField: a flags byte plus a field-unit
// list, attached to an operation region. RegionPath is always the primary
// backing register (the plain region for Field, the index register for
// IndexField, the banked region for BankField); IndexPath is IndexField's
// data register, and BankPath/BankValue are BankField's bank register and
// selector expression.
type Field struct {
	Base
	Kind       FieldKind
	RegionPath amlname.Path
	IndexPath  amlname.Path // IndexField only
	BankPath   amlname.Path // BankField only
	BankValue  Term         // BankField only
	Flags      FieldFlags
	Units      []FieldUnit
}

// BufferFieldKind identifies which CreateXField shape produced a
// BufferField.
type BufferFieldKind int

const (
	BufferFieldBit BufferFieldKind = iota
	BufferFieldByte
	BufferFieldWord
	BufferFieldDWord
	BufferFieldQWord
	BufferFieldArbitrary // CreateField: bit offset and bit length are both expressions
)

// BufferField covers CreateField/CreateBitField/CreateByteField/
// CreateWordField/CreateDWordField/CreateQWordField: a buffer-relative
// field view, distinct from the region-relative Field family because the
// execution engine must know whether it is indexing into a Buffer value
// or a hardware region.
type BufferField struct {
	Base
	Kind       BufferFieldKind
	SourceBuf  Term
	BitOffset  Term
	BitLength  Term // only set for BufferFieldArbitrary; the others imply a fixed width
	Path       amlname.Path
}

// Processor/PowerResource/ThermalZone/Device reuse NamedBlock above;
// Mutex/Event/Name/Alias/OperationRegion/DataRegion/Field/BufferField get
// their own types because their field sets diverge enough that folding
// them into NamedBlock would need more optional fields than it would save.
