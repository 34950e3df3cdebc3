package cli

import (
	"slices"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/linkgraph/pkg/graph"
	"github.com/matzehuels/linkgraph/pkg/linkgraph"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m ExplorerModel, keys ...string) ExplorerModel {
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(ExplorerModel)
	}
	return m
}

func starGraph() *linkgraph.Graph[string] {
	g := linkgraph.New[string]()
	g.AddConnections("hub", "a", "b", "c")
	g.AddConnection("c", "d")
	return g
}

func TestExplorerNavigation(t *testing.T) {
	m := NewExplorerModel(starGraph(), "net.json")
	if want := []string{"a", "b", "c", "d", "hub"}; !slices.Equal(m.Rows, want) {
		t.Fatalf("Rows = %v, want %v", m.Rows, want)
	}

	m = press(m, "j", "j", "j", "j", "j", "j")
	if m.Cursor != 4 {
		t.Errorf("Cursor = %d, want clamped to 4", m.Cursor)
	}
	m = press(m, "k")
	if m.Cursor != 3 {
		t.Errorf("Cursor = %d, want 3", m.Cursor)
	}

	// Drill from hub into c, then back out.
	m = press(m, "j", "enter")
	if m.Focus != "hub" || !slices.Equal(m.Rows, []string{"a", "b", "c"}) {
		t.Fatalf("Focus = %q Rows = %v", m.Focus, m.Rows)
	}
	m = press(m, "j", "j", "enter")
	if m.Focus != "c" || !slices.Equal(m.Trail, []string{"hub"}) {
		t.Fatalf("Focus = %q Trail = %v", m.Focus, m.Trail)
	}
	m = press(m, "backspace")
	if m.Focus != "hub" {
		t.Errorf("Focus after back = %q, want hub", m.Focus)
	}
	m = press(m, "backspace")
	if m.Focus != "" || len(m.Rows) != 5 {
		t.Errorf("Focus = %q Rows = %v, want full list", m.Focus, m.Rows)
	}
}

func TestExplorerCollapse(t *testing.T) {
	g := starGraph()
	m := NewExplorerModel(g, "net.json")

	m = press(m, "j", "j", "j", "j", "c")
	if g.Contains("hub") {
		t.Fatal("hub still present after collapse")
	}
	if !g.ContainsConnection("a", "b") || !g.ContainsConnection("a", "c") {
		t.Error("collapse did not connect former neighbours")
	}
	if !m.Dirty || !strings.Contains(m.Status, "collapsed hub") {
		t.Errorf("Dirty = %v Status = %q", m.Dirty, m.Status)
	}
	if m.Cursor >= len(m.Rows) {
		t.Errorf("Cursor %d out of range for %d rows", m.Cursor, len(m.Rows))
	}
}

func TestExplorerClearFocusedNeighbour(t *testing.T) {
	g := linkgraph.New[string]()
	g.AddConnection("a", "b")
	m := NewExplorerModel(g, "net.json")

	// Focus a, select b, clear it: a loses its only neighbour and is pruned.
	m = press(m, "enter", "x")
	if g.Len() != 0 {
		t.Errorf("graph has %d nodes, want 0", g.Len())
	}
	if m.Focus != "" || len(m.Rows) != 0 {
		t.Errorf("Focus = %q Rows = %v, want reset to empty list", m.Focus, m.Rows)
	}
	_ = m.View()
}

func TestExplorerWrite(t *testing.T) {
	newTestCLI(t)
	g := starGraph()
	m := NewExplorerModel(g, "net.json")

	m = press(m, "x", "w")
	if m.Dirty {
		t.Error("Dirty after write")
	}
	saved, err := graph.ReadGraphFile("net.json")
	if err != nil {
		t.Fatal(err)
	}
	if saved.Contains("a") {
		t.Error("written graph still contains cleared node a")
	}
}

func TestExplorerQuit(t *testing.T) {
	m := NewExplorerModel(starGraph(), "net.json")
	for _, k := range []string{"q", "esc"} {
		msg := key(k)
		if k == "esc" {
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		}
		if _, cmd := m.Update(msg); cmd == nil {
			t.Errorf("%s did not return a quit command", k)
		}
	}
}

func TestExplorerView(t *testing.T) {
	m := NewExplorerModel(starGraph(), "net.json")
	view := m.View()
	for _, want := range []string{"net.json", "5 nodes", "Degree", "hub", "[1/5]"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	m = press(m, "j", "j", "j", "j", "enter")
	if view := m.View(); !strings.Contains(view, "Neighbours of hub") {
		t.Errorf("focused view missing title:\n%s", view)
	}
}
