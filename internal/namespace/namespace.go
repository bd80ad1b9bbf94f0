package namespace

import "firmwarebc/internal/amlname"

// standardScopes lists the five sub-scopes every namespace root is
// pre-populated with before any loading begins.
var standardScopes = []amlname.Name{
	{'_', 'G', 'P', 'E'},
	{'_', 'P', 'R', '_'},
	{'_', 'S', 'B', '_'},
	{'_', 'S', 'I', '_'},
	{'_', 'T', 'Z', '_'},
}

// Namespace is the hierarchical object namespace (C6). The zero value is
// not valid; use New.
type Namespace struct {
	root *Scope
}

// New builds a fresh namespace: an unnamed root Scope carrying the five
// standard ACPI sub-scopes as children.
func New() *Namespace {
	root := NewScope(amlname.Name{}, false)
	ns := &Namespace{root: root}
	for _, name := range standardScopes {
		root.AddChild(NewScope(name, true))
	}
	return ns
}

// Root returns the namespace's root node.
func (ns *Namespace) Root() *Scope {
	return ns.root
}

// Get descends from the root along literal segments, returning the node
// and true, or nil and false if any segment along the way is missing or
// the path runs through a non-container node.
func (ns *Namespace) Get(segments []amlname.Name) (Node, bool) {
	var cur Node = ns.root
	for _, seg := range segments {
		container, ok := cur.(Container)
		if !ok {
			return nil, false
		}
		child := container.FindChild(seg)
		if child == nil {
			return nil, false
		}
		cur = child
	}
	return cur, true
}

// GetAbsolute is Get, keyed by an already-resolved Absolute path.
func (ns *Namespace) GetAbsolute(p amlname.Absolute) (Node, bool) {
	return ns.Get(p.Segments)
}
