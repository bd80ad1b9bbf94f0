package parser

import (
	"firmwarebc/internal/amlerr"
	"firmwarebc/internal/amlname"
)

// Context is the parse context (C5): the current symbolic path, a stack of
// saved paths for entering/leaving nested scopes, and the method
// dictionary that lets the opcode parser tell a bare name reference apart
// from a method invocation before any namespace exists to ask.
type Context struct {
	current amlname.Absolute
	stack   []amlname.Absolute
	methods map[string]uint8
}

// NewContext creates a parse context rooted at the namespace root.
func NewContext() *Context {
	return &Context{methods: make(map[string]uint8)}
}

// Current returns the in-progress absolute path.
func (c *Context) Current() amlname.Absolute { return c.current }

// PushPath makes p, an already-resolved absolute path, the current path
// and saves the previous value on the stack.
func (c *Context) PushPath(p amlname.Absolute) {
	c.stack = append(c.stack, c.current)
	c.current = p
}

// PopPath restores the path saved by the matching PushPath.
func (c *Context) PopPath() {
	if len(c.stack) == 0 {
		return
	}
	c.current = c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
}

// AddMethod resolves p against the current path to an absolute path and
// records its argument count, failing with NameCollision if a method (or
// external) is already registered at that absolute path.
func (c *Context) AddMethod(p amlname.Path, argCount uint8, offset int) error {
	abs, ok := resolveAgainstCurrent(c.current, p)
	if !ok {
		return &amlerr.ParseError{Kind: amlerr.UnknownName, Offset: offset, Production: "Method"}
	}
	key := abs.String()
	if _, exists := c.methods[key]; exists {
		return &amlerr.ParseError{Kind: amlerr.NameCollision, Offset: offset, Production: "Method"}
	}
	c.methods[key] = argCount
	return nil
}

// MethodArgumentCount implements the §4.5 resolution rule: an absolute
// path if Root; Super(n) joins against current; None walks upward,
// joining against current and, on a miss, dropping current's last segment
// and retrying, until current is empty. Returns (0, false) if never found,
// which the caller treats as "not a method invocation, just a reference".
func (c *Context) MethodArgumentCount(p amlname.Path) (uint8, bool) {
	switch p.Kind {
	case amlname.PrefixRoot:
		abs := amlname.Absolute{Segments: p.AllSegments()}
		n, ok := c.methods[abs.String()]
		return n, ok
	case amlname.PrefixSuper:
		base := c.current
		for i := 0; i < p.SuperCount; i++ {
			var ok bool
			base, ok = base.Parent()
			if !ok {
				return 0, false
			}
		}
		abs := joinAbs(base, p.AllSegments())
		n, ok := c.methods[abs.String()]
		return n, ok
	default:
		probe := c.current
		for {
			abs := joinAbs(probe, p.AllSegments())
			if n, ok := c.methods[abs.String()]; ok {
				return n, true
			}
			if len(probe.Segments) == 0 {
				return 0, false
			}
			var ok bool
			probe, ok = probe.Parent()
			if !ok {
				return 0, false
			}
		}
	}
}

func resolveAgainstCurrent(current amlname.Absolute, p amlname.Path) (amlname.Absolute, bool) {
	switch p.Kind {
	case amlname.PrefixRoot:
		return amlname.Absolute{Segments: p.AllSegments()}, true
	case amlname.PrefixSuper:
		base := current
		for i := 0; i < p.SuperCount; i++ {
			var ok bool
			base, ok = base.Parent()
			if !ok {
				return amlname.Absolute{}, false
			}
		}
		return joinAbs(base, p.AllSegments()), true
	default:
		return joinAbs(current, p.AllSegments()), true
	}
}

func joinAbs(base amlname.Absolute, segs []amlname.Name) amlname.Absolute {
	out := make([]amlname.Name, 0, len(base.Segments)+len(segs))
	out = append(out, base.Segments...)
	out = append(out, segs...)
	return amlname.Absolute{Segments: out}
}
