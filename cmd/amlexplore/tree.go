package main

import (
	"sort"

	"firmwarebc/internal/amlname"
	"firmwarebc/internal/namespace"
)

// row is one flattened line of the namespace tree: a node at a given
// nesting depth, with its display kind precomputed so the TUI and --dump
// output share one rendering vocabulary.
type row struct {
	depth int
	label string
	kind  string
	node  namespace.Node
}

// kindOf names a namespace node's concrete variant the way a debugger's
// type column would: the bare variant name rather than fmt's
// package-qualified %T form.
func kindOf(n namespace.Node) string {
	switch n.(type) {
	case *namespace.Scope:
		return "Scope"
	case *namespace.Device:
		return "Device"
	case *namespace.Processor:
		return "Processor"
	case *namespace.PowerResource:
		return "PowerResource"
	case *namespace.ThermalZone:
		return "ThermalZone"
	case *namespace.Method:
		return "Method"
	case *namespace.Name:
		return "Name"
	case *namespace.Alias:
		return "Alias"
	case *namespace.Mutex:
		return "Mutex"
	case *namespace.Event:
		return "Event"
	case *namespace.OperationRegion:
		return "OperationRegion"
	case *namespace.DataRegion:
		return "DataRegion"
	case *namespace.Field:
		return "Field"
	case *namespace.BufferField:
		return "BufferField"
	default:
		return "?"
	}
}

// buildRows walks root depth-first, sorting each container's children by
// name so the tree renders in a stable order across runs.
func buildRows(root namespace.Container) []row {
	var rows []row
	var walk func(namespace.Node, int)
	walk = func(n namespace.Node, depth int) {
		label := "\\"
		if name, ok := n.Name(); ok {
			label = name.String()
		}
		rows = append(rows, row{depth: depth, label: label, kind: kindOf(n), node: n})

		container, ok := n.(namespace.Container)
		if !ok {
			return
		}
		children := append([]namespace.Node(nil), container.Children()...)
		sort.Slice(children, func(i, j int) bool {
			ni, _ := children[i].Name()
			nj, _ := children[j].Name()
			return ni.String() < nj.String()
		})
		for _, c := range children {
			walk(c, depth+1)
		}
	}
	walk(root, 0)
	return rows
}

func pathOf(n namespace.Node) amlname.Absolute {
	return n.Path()
}
