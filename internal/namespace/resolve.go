package namespace

import "firmwarebc/internal/amlname"

// Resolve implements the name resolver (C7): given a starting node, the
// root, a Path, and whether the terminal segment must also be matched, it
// returns the target node.
//
// - Root prefix searches from root.
// - Super(n) prefix walks up n parents from start, then searches.
// - None (relative) prefix searches from start; on a miss it retries from
//   start's parent, and so on, stopping at the root. This is the upward
//   search rule unprefixed names use.
//
// A search step walks the path's segments (and, if includeTerminal, the
// terminal) through Children(). A missing child aborts only that attempt,
// not the whole resolution -- the caller (this function, for the None
// case) then retries one level up.
func Resolve(start Node, root *Scope, path amlname.Path, includeTerminal bool) (Node, bool) {
	switch path.Kind {
	case amlname.PrefixRoot:
		return searchFrom(root, path, includeTerminal)
	case amlname.PrefixSuper:
		cur := start
		for i := 0; i < path.SuperCount; i++ {
			if cur == nil {
				return nil, false
			}
			cur = cur.Parent()
		}
		if cur == nil {
			return nil, false
		}
		return searchFrom(cur, path, includeTerminal)
	default: // PrefixNone
		for cur := start; cur != nil; cur = cur.Parent() {
			if n, ok := searchFrom(cur, path, includeTerminal); ok {
				return n, true
			}
		}
		return nil, false
	}
}

// searchFrom walks path's segments (then terminal, if requested) down from
// node via Children(). It does not apply the upward-retry rule; callers
// that want that behavior loop searchFrom themselves.
func searchFrom(node Node, path amlname.Path, includeTerminal bool) (Node, bool) {
	segs := path.Segments
	if includeTerminal && path.Terminal != nil {
		segs = append(append([]amlname.Name(nil), path.Segments...), *path.Terminal)
	}

	cur := node
	for _, seg := range segs {
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

// ToAbsolute turns path into an absolute path relative to current without
// consulting a live Namespace: Root maps directly; Super(n) pops n levels
// off current and joins (ok=false if that would pass the root); None joins
// directly against current, with no upward retry.
func ToAbsolute(current amlname.Absolute, path amlname.Path) (amlname.Absolute, bool) {
	switch path.Kind {
	case amlname.PrefixRoot:
		return amlname.Absolute{Segments: path.AllSegments()}, true
	case amlname.PrefixSuper:
		base := current
		for i := 0; i < path.SuperCount; i++ {
			var ok bool
			base, ok = base.Parent()
			if !ok {
				return amlname.Absolute{}, false
			}
		}
		return joinAbsolute(base, path.AllSegments()), true
	default:
		return joinAbsolute(current, path.AllSegments()), true
	}
}

func joinAbsolute(base amlname.Absolute, segs []amlname.Name) amlname.Absolute {
	out := amlname.Absolute{Segments: make([]amlname.Name, 0, len(base.Segments)+len(segs))}
	out.Segments = append(out.Segments, base.Segments...)
	out.Segments = append(out.Segments, segs...)
	return out
}
