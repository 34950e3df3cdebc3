package cli

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/linkgraph/pkg/graph"
	"github.com/matzehuels/linkgraph/pkg/linkgraph"
)

// exploreCommand creates the explore command.
func (c *CLI) exploreCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "explore <graph.json>",
		Short: "Browse and edit a graph interactively",
		Long: `Explore opens a terminal browser over a graph file.

Select a node to list its neighbours, collapse it into a clique of its
neighbours, or clear all of its connections. Press w to write changes back.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExplore(cmd.Context(), args[0])
		},
	}
}

func (c *CLI) runExplore(ctx context.Context, path string) error {
	g, err := graph.ReadGraphFile(path)
	if err != nil {
		return err
	}
	p := tea.NewProgram(NewExplorerModel(g, path), tea.WithContext(ctx), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(ExplorerModel); ok && m.Dirty {
		printWarning(c.Out, "Unsaved changes to %s were discarded", path)
	}
	return nil
}

var (
	exploreHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	exploreCursorStyle = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	exploreStatusStyle = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// ExplorerModel
// =============================================================================

// ExplorerModel is the bubbletea model behind `linkgraph explore`.
//
// The list shows every node, or the neighbours of Focus when set. Trail
// holds previously focused nodes for navigating back.
type ExplorerModel struct {
	Graph  *linkgraph.Graph[string]
	Path   string
	Focus  string
	Trail  []string
	Rows   []string
	Cursor int
	Offset int
	Height int
	Status string
	Dirty  bool
}

// NewExplorerModel creates an explorer listing every node of g.
func NewExplorerModel(g *linkgraph.Graph[string], path string) ExplorerModel {
	m := ExplorerModel{Graph: g, Path: path, Height: 15}
	m.reload()
	return m
}

// reload recomputes the visible rows and clamps the cursor.
func (m *ExplorerModel) reload() {
	if m.Focus != "" && !m.Graph.Contains(m.Focus) {
		m.Focus = ""
	}
	if m.Focus == "" {
		m.Rows = m.Graph.Nodes()
	} else {
		m.Rows = m.Graph.ConnectedNodes(m.Focus).Slice()
	}
	slices.Sort(m.Rows)

	m.Cursor = min(m.Cursor, max(len(m.Rows)-1, 0))
	m.Offset = min(m.Offset, m.Cursor)
}

func (m ExplorerModel) selected() (string, bool) {
	if len(m.Rows) == 0 {
		return "", false
	}
	return m.Rows[m.Cursor], true
}

func (m ExplorerModel) Init() tea.Cmd {
	return nil
}

func (m ExplorerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.Status = ""
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Rows)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter", "right", "l":
			if node, ok := m.selected(); ok {
				if m.Focus != "" {
					m.Trail = append(m.Trail, m.Focus)
				}
				m.Focus = node
				m.Cursor, m.Offset = 0, 0
				m.reload()
			}
		case "backspace", "left", "h":
			m.Focus = ""
			if n := len(m.Trail); n > 0 {
				m.Focus = m.Trail[n-1]
				m.Trail = m.Trail[:n-1]
			}
			m.Cursor, m.Offset = 0, 0
			m.reload()
		case "c":
			if node, ok := m.selected(); ok {
				degree := m.Graph.ConnectionCount(node)
				m.Graph.Collapse(node)
				m.Dirty = true
				m.Status = fmt.Sprintf("collapsed %s into %d neighbours", node, degree)
				m.reload()
			}
		case "x":
			if node, ok := m.selected(); ok {
				m.Graph.ClearConnections(node)
				m.Dirty = true
				m.Status = "cleared " + node
				m.reload()
			}
		case "w":
			if err := graph.WriteGraphFile(m.Graph, m.Path); err != nil {
				m.Status = "write failed: " + err.Error()
			} else {
				m.Dirty = false
				m.Status = "wrote " + m.Path
			}
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
	}
	return m, nil
}

func (m ExplorerModel) View() string {
	var b strings.Builder

	title := fmt.Sprintf("%s  %d nodes · %d edges", m.Path, m.Graph.Len(), m.Graph.EdgeCount())
	if m.Focus != "" {
		title = fmt.Sprintf("Neighbours of %s", m.Focus)
	}
	b.WriteString(styleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(styleDim.Render("↑/↓ navigate  ⏎ neighbours  ⌫ back  c collapse  x clear  w write  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Rows))
	rows := make([][]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		node := m.Rows[i]
		rows = append(rows, []string{cursor, node, strconv.Itoa(m.Graph.ConnectionCount(node))})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Node", "Degree").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return exploreHeaderStyle
			}
			if m.Offset+row == m.Cursor {
				return exploreCursorStyle
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(styleDim.Render(fmt.Sprintf("  [%d/%d]", min(m.Cursor+1, len(m.Rows)), len(m.Rows))))
	if m.Dirty {
		b.WriteString(styleDim.Render("  modified"))
	}
	if m.Status != "" {
		b.WriteString("\n")
		b.WriteString(exploreStatusStyle.Render("  " + m.Status))
	}
	return b.String()
}
