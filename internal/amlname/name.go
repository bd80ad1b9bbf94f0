// Package amlname holds the value types for the byte-code's name codec: the
// fixed four-character Name and the Path triple (prefix, segments,
// terminal) built from it. Parsing lives in internal/parser; this package
// only holds the data model and the pure operations (joining, comparison,
// string rendering) the resolver and loader need.
package amlname

// Name is a four-byte identifier from the alphabet A-Z, 0-9, '_', where
// position 0 is never a digit. Shorter logical names are right-padded with
// '_'. Names are value types: cheap to copy and compare.
type Name [4]byte

// Valid reports whether n is built from the restricted alphabet with a
// non-digit leading character.
func (n Name) Valid() bool {
	for i, c := range n {
		switch {
		case c >= 'A' && c <= 'Z':
		case c == '_':
		case c >= '0' && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func (n Name) String() string {
	return string(n[:])
}

// PrefixKind is the shape of a Path's root-relative prefix.
type PrefixKind int

const (
	// PrefixNone means the path is relative to the current scope.
	PrefixNone PrefixKind = iota
	// PrefixRoot means the path starts from the namespace root ('\').
	PrefixRoot
	// PrefixSuper means the path starts SuperCount parents above current ('^'...).
	PrefixSuper
)

// Path is the (prefix, inner segments, optional terminal) triple the name
// codec produces. When a body is parsed with N segments, the first N-1 go
// into Segments and the N-th becomes Terminal.
type Path struct {
	Kind       PrefixKind
	SuperCount int // only meaningful when Kind == PrefixSuper
	Segments   []Name
	Terminal   *Name
}

// HasTerminal reports whether the path carries a terminal segment.
func (p Path) HasTerminal() bool {
	return p.Terminal != nil
}

// AllSegments returns the full ordered segment list, including the
// terminal if present.
func (p Path) AllSegments() []Name {
	if p.Terminal == nil {
		return p.Segments
	}
	out := make([]Name, 0, len(p.Segments)+1)
	out = append(out, p.Segments...)
	out = append(out, *p.Terminal)
	return out
}

// Empty reports whether the path carries no segments at all (the null-name
// form, prefix aside).
func (p Path) Empty() bool {
	return len(p.Segments) == 0 && p.Terminal == nil
}

func (p Path) String() string {
	s := ""
	switch p.Kind {
	case PrefixRoot:
		s = "\\"
	case PrefixSuper:
		for i := 0; i < p.SuperCount; i++ {
			s += "^"
		}
	}
	segs := p.AllSegments()
	for i, seg := range segs {
		if i > 0 {
			s += "."
		}
		s += seg.String()
	}
	return s
}

// Absolute is a fully resolved, root-anchored name path: no prefix
// ambiguity remains. The method dictionary keys on its String() form, and
// the namespace looks nodes up by it (Namespace.GetAbsolute).
type Absolute struct {
	Segments []Name
}

func (a Absolute) String() string {
	s := "\\"
	for i, seg := range a.Segments {
		if i > 0 {
			s += "."
		}
		s += seg.String()
	}
	return s
}

// Equal reports whether two absolute paths name the same node.
func (a Absolute) Equal(b Absolute) bool {
	if len(a.Segments) != len(b.Segments) {
		return false
	}
	for i := range a.Segments {
		if a.Segments[i] != b.Segments[i] {
			return false
		}
	}
	return true
}

// Child returns the absolute path obtained by appending a single segment.
func (a Absolute) Child(n Name) Absolute {
	segs := make([]Name, len(a.Segments)+1)
	copy(segs, a.Segments)
	segs[len(a.Segments)] = n
	return Absolute{Segments: segs}
}

// Parent returns the absolute path one level up, and false if a is already
// the root.
func (a Absolute) Parent() (Absolute, bool) {
	if len(a.Segments) == 0 {
		return Absolute{}, false
	}
	return Absolute{Segments: append([]Name(nil), a.Segments[:len(a.Segments)-1]...)}, true
}
