package amlname

import "testing"

func TestNameValid(t *testing.T) {
	specs := []struct {
		name string
		n    Name
		want bool
	}{
		{"all letters", Name{'D', 'E', 'V', '0'}, true},
		{"leading underscore", Name{'_', 'S', 'B', '_'}, true},
		{"digit in segment but not leading", Name{'A', '1', '2', '3'}, true},
		{"leading digit rejected", Name{'0', 'A', 'B', 'C'}, false},
		{"lowercase rejected", Name{'d', 'E', 'V', '0'}, false},
		{"punctuation rejected", Name{'D', 'E', 'V', '-'}, false},
	}
	for _, spec := range specs {
		t.Run(spec.name, func(t *testing.T) {
			if got := spec.n.Valid(); got != spec.want {
				t.Errorf("Valid() = %v, want %v", got, spec.want)
			}
		})
	}
}

func TestPathString(t *testing.T) {
	terminal := Name{'D', 'E', 'V', '0'}
	specs := []struct {
		name string
		p    Path
		want string
	}{
		{"root terminal only", Path{Kind: PrefixRoot, Terminal: &terminal}, `\DEV0`},
		{"relative with segments", Path{Segments: []Name{{'_', 'S', 'B', '_'}}, Terminal: &terminal}, "_SB_.DEV0"},
		{"super two", Path{Kind: PrefixSuper, SuperCount: 2, Terminal: &terminal}, "^^DEV0"},
		{"empty", Path{}, ""},
	}
	for _, spec := range specs {
		t.Run(spec.name, func(t *testing.T) {
			if got := spec.p.String(); got != spec.want {
				t.Errorf("String() = %q, want %q", got, spec.want)
			}
		})
	}
}

func TestAbsoluteChildParent(t *testing.T) {
	root := Absolute{}
	sb := root.Child(Name{'_', 'S', 'B', '_'})
	dev := sb.Child(Name{'D', 'E', 'V', '0'})

	if got := dev.String(); got != `\_SB_.DEV0` {
		t.Fatalf("Child chain String() = %q", got)
	}

	parent, ok := dev.Parent()
	if !ok || !parent.Equal(sb) {
		t.Fatalf("Parent() = %+v, %v; want %+v, true", parent, ok, sb)
	}

	root2, ok := sb.Parent()
	if !ok || !root2.Equal(root) {
		t.Fatalf("Parent() of single-segment path should be empty root")
	}

	if _, ok := root.Parent(); ok {
		t.Fatalf("Parent() of root should report ok=false")
	}
}

func TestPathHasTerminalAndEmpty(t *testing.T) {
	var p Path
	if p.HasTerminal() {
		t.Fatalf("zero-value Path should have no terminal")
	}
	if !p.Empty() {
		t.Fatalf("zero-value Path should be Empty")
	}

	terminal := Name{'F', 'O', 'O', '0'}
	p.Terminal = &terminal
	if !p.HasTerminal() {
		t.Fatalf("expected HasTerminal after setting Terminal")
	}
	if p.Empty() {
		t.Fatalf("Path with a terminal should not be Empty")
	}
	if got := p.AllSegments(); len(got) != 1 || got[0] != terminal {
		t.Fatalf("AllSegments() = %v", got)
	}
}
