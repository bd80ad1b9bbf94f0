package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"

	"firmwarebc/internal/namespace"
)

var (
	styleSelected = lipgloss.NewStyle().Reverse(true)
	styleKind     = lipgloss.NewStyle().Faint(true)
	styleHeader   = lipgloss.NewStyle().Bold(true)
)

// model is the explorer's bubbletea state: the flattened namespace tree,
// which row is selected, and whether the detail pane is showing a spew
// dump of the selected node.
type model struct {
	ns       *namespace.Namespace
	prefs    preferences
	rows     []row
	cursor   int
	showDump bool
}

func newModel(ns *namespace.Namespace, prefs preferences) model {
	return model{
		ns:    ns,
		prefs: prefs,
		rows:  buildRows(ns.Root()),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "j", "down":
			if m.cursor < len(m.rows)-1 {
				m.cursor++
			}
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "g":
			m.cursor = 0
		case "G":
			m.cursor = len(m.rows) - 1
		case "enter", " ":
			m.showDump = !m.showDump
		}
	}
	return m, nil
}

func (m model) View() string {
	if len(m.rows) == 0 {
		return "empty namespace\n"
	}

	var tree strings.Builder
	for i, r := range m.rows {
		line := fmt.Sprintf("%s%s %s", strings.Repeat("  ", r.depth), r.label, styleKind.Render(r.kind))
		if i == m.cursor {
			line = styleSelected.Render(line)
		}
		tree.WriteString(line)
		tree.WriteString("\n")
	}

	selected := m.rows[m.cursor]
	detail := fmt.Sprintf("path: %s\nkind: %s", pathOf(selected.node).String(), selected.kind)
	if m.showDump {
		detail = spew.Sdump(selected.node)
	}

	help := "j/k: move  g/G: top/bottom  enter: toggle dump  q: quit"

	return lipgloss.JoinVertical(
		lipgloss.Left,
		styleHeader.Render(fmt.Sprintf("amlexplore  (theme=%s)", m.prefs.Theme)),
		lipgloss.JoinHorizontal(lipgloss.Top, tree.String(), "  ", detail),
		"",
		help,
	)
}
