// Package loader implements the namespace loader (C8): it walks the
// transient parse tree (internal/astnode) produced by internal/parser and
// inserts typed nodes into an internal/namespace.Namespace, resolving each
// named object's parent container through the name resolver (C7) and
// rejecting the structural failures spec.md §7 assigns to this layer
// (NameCollision, UnknownName, InvalidParent, InvalidState).
package loader

import (
	"sync/atomic"

	"firmwarebc/internal/amlerr"
	"firmwarebc/internal/amlname"
	"firmwarebc/internal/astnode"
	"firmwarebc/internal/namespace"
	"firmwarebc/internal/parser"
)

// executionGuard is the one bit of state genuinely shared between a load
// pass and a re-entrant Notify/field access the execution engine might be
// driving concurrently with it; everywhere else the loader is
// single-threaded per spec.md §5, so this needs no busy-wait or ticket
// discipline -- a single atomic flag is the whole contract.
type executionGuard struct {
	flag uint32
}

func (g *executionGuard) set(v bool) {
	var n uint32
	if v {
		n = 1
	}
	atomic.StoreUint32(&g.flag, n)
}

func (g *executionGuard) get() bool {
	return atomic.LoadUint32(&g.flag) != 0
}

// ArgumentEvaluator is the one hook the loader calls back into the
// execution engine for: resolving an OperationRegion's Offset/Length to a
// concrete value when the expression is not itself a static literal.
// DataRegion expressions are not passed to it. An error an implementation
// returns for an expression it cannot evaluate is returned by Load
// unchanged, matching spec.md §6's stated boundary between structural
// loading and execution.
type ArgumentEvaluator func(expr astnode.Term, ns *namespace.Namespace) (int64, error)

// Loader is the namespace loader (C8). The zero value is not valid; use
// New.
type Loader struct {
	ns   *namespace.Namespace
	log  *parser.Logger
	eval ArgumentEvaluator

	executing executionGuard
}

// New creates a Loader that inserts nodes into ns, logging through log (nil
// discards diagnostics) and evaluating region offset/length expressions
// through eval (nil rejects any non-literal expression with InvalidType).
func New(ns *namespace.Namespace, log *parser.Logger, eval ArgumentEvaluator) *Loader {
	return &Loader{ns: ns, log: log, eval: eval}
}

// BeginExecution marks the namespace as owned by a concurrently running
// execution engine, causing any subsequent Load to fail with InvalidState
// until EndExecution is called. This is the one piece of state genuinely
// shared between a load pass and a re-entrant Notify/field access the
// execution engine might be driving; everywhere else the loader is
// single-threaded per spec.md §5.
func (l *Loader) BeginExecution() {
	l.executing.set(true)
}

// EndExecution clears the flag BeginExecution set.
func (l *Loader) EndExecution() {
	l.executing.set(false)
}

func (l *Loader) isExecuting() bool {
	return l.executing.get()
}

// Load walks list, inserting every named object it contains under the
// namespace's root. Statements and bare expressions (If/While/Return/
// Break/Expr/Invocation/...) that reach the loader -- which only happens
// if they appear outside a Method body, since Method bodies are retained
// raw and never walked here -- carry no namespace representation and are
// silently skipped; the loader's job is structural insertion, not
// execution.
func (l *Loader) Load(list *astnode.TermList) error {
	return l.LoadInto(list, l.ns.Root())
}

// LoadInto is Load with an explicit starting container, for loading a
// second definition block (an SSDT) against scopes a DSDT already
// populated.
func (l *Loader) LoadInto(list *astnode.TermList, parent namespace.Node) error {
	if l.isExecuting() {
		return &amlerr.LoadError{Kind: amlerr.InvalidState, Offset: list.Offset()}
	}
	l.log.Infof("loading block of %d terms", len(list.Terms))
	err := l.loadTerms(list.Terms, parent)
	l.log.Infof("finished loading block")
	return err
}

func (l *Loader) loadTerms(terms []astnode.Term, parent namespace.Node) error {
	for _, t := range terms {
		if err := l.loadTerm(t, parent); err != nil {
			return err
		}
	}
	return nil
}

func (l *Loader) loadTerm(t astnode.Term, parent namespace.Node) error {
	l.log.Debugf("loading term at offset %d", t.Offset())
	switch v := t.(type) {
	case *astnode.NamedBlock:
		return l.loadNamedBlock(v, parent)
	case *astnode.Method:
		return l.loadMethod(v, parent)
	case *astnode.External:
		return nil
	case *astnode.Name:
		return l.loadName(v, parent)
	case *astnode.Alias:
		return l.loadAlias(v, parent)
	case *astnode.Mutex:
		return l.loadMutex(v, parent)
	case *astnode.Event:
		return l.loadEvent(v, parent)
	case *astnode.OperationRegion:
		return l.loadOperationRegion(v, parent)
	case *astnode.DataRegion:
		return l.loadDataRegion(v, parent)
	case *astnode.Field:
		return l.loadField(v, parent)
	case *astnode.BufferField:
		return l.loadBufferField(v, parent)
	default:
		return nil
	}
}

// attachContainer resolves path's enclosing container relative to parent --
// every segment but the terminal -- and returns it alongside the terminal
// name a new node should be registered under. Used by every named-object
// production that creates a brand new node (everything except Scope, which
// reopens an existing one).
func (l *Loader) attachContainer(path amlname.Path, parent namespace.Node, at int) (namespace.Container, amlname.Name, error) {
	if !path.HasTerminal() {
		return nil, amlname.Name{}, &amlerr.LoadError{Kind: amlerr.InvalidName, Path: path, Offset: at}
	}
	node, ok := namespace.Resolve(parent, l.ns.Root(), path, false)
	if !ok {
		return nil, amlname.Name{}, &amlerr.LoadError{Kind: amlerr.UnknownName, Path: path, Offset: at}
	}
	container, ok := node.(namespace.Container)
	if !ok {
		return nil, amlname.Name{}, &amlerr.LoadError{Kind: amlerr.InvalidParent, Path: path, Offset: at}
	}
	return container, *path.Terminal, nil
}

func (l *Loader) addOrCollide(container namespace.Container, child namespace.Node, path amlname.Path, at int) error {
	if !container.AddChild(child) {
		return &amlerr.LoadError{Kind: amlerr.NameCollision, Path: path, Offset: at}
	}
	return nil
}

// loadNamedBlock handles Scope/Device/Processor/PowerResource/ThermalZone.
// Scope is the one named object that does not create a new node: per the
// grammar it reopens an object that must already exist (the five standard
// sub-scopes, or one a prior Device/Processor definition already created),
// so its whole path -- terminal segment included -- is resolved against an
// existing node rather than split into container+new-name.
func (l *Loader) loadNamedBlock(v *astnode.NamedBlock, parent namespace.Node) error {
	if v.Kind == astnode.KindScope {
		node, ok := namespace.Resolve(parent, l.ns.Root(), v.Path, true)
		if !ok {
			return &amlerr.LoadError{Kind: amlerr.UnknownName, Path: v.Path, Offset: v.Offset()}
		}
		container, ok := node.(namespace.Container)
		if !ok {
			return &amlerr.LoadError{Kind: amlerr.InvalidParent, Path: v.Path, Offset: v.Offset()}
		}
		return l.loadTerms(v.Body, container)
	}

	container, name, err := l.attachContainer(v.Path, parent, v.Offset())
	if err != nil {
		return err
	}

	var node namespace.Node
	switch v.Kind {
	case astnode.KindDevice:
		node = namespace.NewDevice(name)
	case astnode.KindThermalZone:
		node = namespace.NewThermalZone(name)
	case astnode.KindProcessor:
		node = namespace.NewProcessor(name, v.ProcessorID, v.RegBlockAddr, v.RegBlockLen)
	case astnode.KindPowerResource:
		node = namespace.NewPowerResource(name, v.SystemLevel, v.ResourceOrder)
	}
	if err := l.addOrCollide(container, node, v.Path, v.Offset()); err != nil {
		return err
	}
	return l.loadTerms(v.Body, node)
}

// loadMethod registers a Method node but never walks its body: the body's
// statements and expressions are parsed lazily by the execution engine at
// invocation time, per the deferred-parse resolution of the method-body
// open question.
func (l *Loader) loadMethod(v *astnode.Method, parent namespace.Node) error {
	container, name, err := l.attachContainer(v.Path, parent, v.Offset())
	if err != nil {
		return err
	}
	m := namespace.NewMethod(name, v.ArgCount, v.Serialized, v.SyncLevel, v.Body, container.Path())
	return l.addOrCollide(container, m, v.Path, v.Offset())
}

func (l *Loader) loadName(v *astnode.Name, parent namespace.Node) error {
	container, name, err := l.attachContainer(v.Path, parent, v.Offset())
	if err != nil {
		return err
	}
	n := namespace.NewName(name, v.Data)
	return l.addOrCollide(container, n, v.Path, v.Offset())
}

// loadAlias resolves Target to a live node and registers NewName pointing
// straight at it. When Target is itself an Alias, one hop is enough: the
// earlier Alias was already collapsed to its own final target when it was
// loaded, since an Alias's target must already exist at parse time.
func (l *Loader) loadAlias(v *astnode.Alias, parent namespace.Node) error {
	target, ok := namespace.Resolve(parent, l.ns.Root(), v.Target, true)
	if !ok {
		return &amlerr.LoadError{Kind: amlerr.UnknownName, Path: v.Target, Offset: v.Offset()}
	}
	if chained, ok := target.(*namespace.Alias); ok {
		target = chained.Target
	}

	container, name, err := l.attachContainer(v.NewName, parent, v.Offset())
	if err != nil {
		return err
	}
	a := namespace.NewAlias(name, target)
	return l.addOrCollide(container, a, v.NewName, v.Offset())
}

func (l *Loader) loadMutex(v *astnode.Mutex, parent namespace.Node) error {
	container, name, err := l.attachContainer(v.Path, parent, v.Offset())
	if err != nil {
		return err
	}
	m := namespace.NewMutex(name, v.SyncLevel)
	return l.addOrCollide(container, m, v.Path, v.Offset())
}

func (l *Loader) loadEvent(v *astnode.Event, parent namespace.Node) error {
	container, name, err := l.attachContainer(v.Path, parent, v.Offset())
	if err != nil {
		return err
	}
	e := namespace.NewEvent(name)
	return l.addOrCollide(container, e, v.Path, v.Offset())
}

func (l *Loader) loadOperationRegion(v *astnode.OperationRegion, parent namespace.Node) error {
	container, name, err := l.attachContainer(v.Path, parent, v.Offset())
	if err != nil {
		return err
	}
	offset, err := l.evalInt(v.Offset, v.Path)
	if err != nil {
		return err
	}
	length, err := l.evalInt(v.Length, v.Path)
	if err != nil {
		return err
	}
	r := namespace.NewOperationRegion(name, v.Space, v.Raw, offset, length)
	return l.addOrCollide(container, r, v.Path, v.Offset())
}

// loadDataRegion registers a DataRegion without evaluating its identifying
// expressions: the OEM table that supplies its real address is resolved by
// the execution engine against live firmware tables, which this loader has
// no access to.
func (l *Loader) loadDataRegion(v *astnode.DataRegion, parent namespace.Node) error {
	container, name, err := l.attachContainer(v.Path, parent, v.Offset())
	if err != nil {
		return err
	}
	r := namespace.NewDataRegion(name, v.SignatureExpr, v.OEMIDExpr, v.OEMTableIDExpr)
	return l.addOrCollide(container, r, v.Path, v.Offset())
}

// loadField resolves the backing region (an OperationRegion or DataRegion,
// both Containers) and attaches one namespace.Field per named field unit.
// Reserved, AccessField, ConnectField, and ExtendedAccessField units carry
// no name of their own and so cannot become namespace nodes, but Reserved
// units do consume bits: this walks the full ordered v.Units once,
// accumulating bit offset across every unit (Reserved included) the same
// way the byte-code's own field list does, so each named field's BitOffset
// reflects everything that precedes it. Every named field is handed the
// complete, unabridged v.Units slice -- not just its own entry -- matching
// "a Field description (flags + raw units slice)" attached to the node.
func (l *Loader) loadField(v *astnode.Field, parent namespace.Node) error {
	region, ok := namespace.Resolve(parent, l.ns.Root(), v.RegionPath, true)
	if !ok {
		return &amlerr.LoadError{Kind: amlerr.UnknownName, Path: v.RegionPath, Offset: v.Offset()}
	}
	var container namespace.Container
	switch r := region.(type) {
	case *namespace.OperationRegion:
		container = r
	case *namespace.DataRegion:
		container = r
	default:
		return &amlerr.LoadError{Kind: amlerr.InvalidParent, Path: v.RegionPath, Offset: v.Offset()}
	}

	offset := 0
	for _, unit := range v.Units {
		switch unit.Kind {
		case astnode.FieldUnitNamed:
			f := namespace.NewField(unit.Name, container, v.Kind, v.Flags, offset, v.Units)
			if !container.AddChild(f) {
				return &amlerr.LoadError{Kind: amlerr.NameCollision, Path: v.RegionPath, Offset: v.Offset()}
			}
			offset += unit.BitLength
		case astnode.FieldUnitReserved:
			offset += unit.BitLength
		default:
			// AccessField/ConnectField/ExtendedAccessField change how
			// subsequent named fields are accessed but contribute no bits
			// of their own.
		}
	}
	return nil
}

func (l *Loader) loadBufferField(v *astnode.BufferField, parent namespace.Node) error {
	container, name, err := l.attachContainer(v.Path, parent, v.Offset())
	if err != nil {
		return err
	}
	f := namespace.NewBufferField(name, v.Kind, v.SourceBuf, v.BitOffset, v.BitLength)
	return l.addOrCollide(container, f, v.Path, v.Offset())
}

// evalInt evaluates a region offset/length expression down to an integer.
// Literal Data(Byte/Word/DWord/QWord) values are resolved directly; anything
// else is handed to the configured ArgumentEvaluator, matching spec.md §6's
// boundary between structural loading and execution. path names the object
// being defined and is carried by the InvalidType error.
func (l *Loader) evalInt(expr astnode.Term, path amlname.Path) (int64, error) {
	if data, ok := expr.(*astnode.Data); ok {
		switch data.Kind {
		case astnode.DataZero:
			return 0, nil
		case astnode.DataOne:
			return 1, nil
		case astnode.DataByte, astnode.DataWord, astnode.DataDWord, astnode.DataQWord:
			return int64(data.Int), nil
		}
	}
	if l.eval == nil {
		return 0, &amlerr.LoadError{Kind: amlerr.InvalidType, Path: path, Offset: expr.Offset()}
	}
	return l.eval(expr, l.ns)
}
