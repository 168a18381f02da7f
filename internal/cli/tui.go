package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/stackgraph/pkg/diagram"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// =============================================================================
// InspectModel - Interactive node table
// =============================================================================

// nodeRow is one node as shown by the inspector.
type nodeRow struct {
	ID       string
	Label    string
	Shape    string
	Implicit bool
	Rank     int
	Order    int
	X, Y     float64
	W, H     float64
	Degree   int
}

func nodeRows(a *diagram.Anchored) []nodeRow {
	degree := make([]int, a.NodeCount())
	for _, e := range a.Edges() {
		degree[e.Source]++
		degree[e.Target]++
	}
	rows := make([]nodeRow, a.NodeCount())
	for i, n := range a.Nodes() {
		p, b := a.Placement(i), a.Box(i)
		rows[i] = nodeRow{
			ID:       n.ID,
			Label:    n.Label,
			Shape:    n.Shape.String(),
			Implicit: n.Provenance == diagram.Implicit,
			Rank:     p.Rank,
			Order:    p.Order,
			X:        p.Center.X,
			Y:        p.Center.Y,
			W:        b.W,
			H:        b.H,
			Degree:   degree[i],
		}
	}
	return rows
}

// InspectModel is the bubbletea model for browsing a laid out diagram.
type InspectModel struct {
	Title  string
	Rows   []nodeRow
	Cursor int
	Height int
	Offset int
}

// NewInspectModel creates an inspector for a.
func NewInspectModel(title string, a *diagram.Anchored) InspectModel {
	return InspectModel{Title: title, Rows: nodeRows(a), Height: 15}
}

func (m InspectModel) Init() tea.Cmd {
	return nil
}

func (m InspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
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
		case "home", "g":
			m.Cursor, m.Offset = 0, 0
		case "end", "G":
			m.Cursor = max(len(m.Rows)-1, 0)
			m.Offset = max(m.Cursor-m.Height+1, 0)
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
	}
	return m, nil
}

func (m InspectModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  g/G first/last  q quit"))
	b.WriteString("\n\n")
	b.WriteString(m.table(m.Offset, min(m.Offset+m.Height, len(m.Rows)), true))
	b.WriteString("\n\n")
	if len(m.Rows) > 0 {
		b.WriteString(m.detail(m.Rows[m.Cursor]))
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Rows))))
	} else {
		b.WriteString(listDimStyle.Render("  empty diagram"))
	}
	return b.String()
}

// table renders rows [from, to) with an optional cursor column.
func (m InspectModel) table(from, to int, cursor bool) string {
	rows := [][]string{}
	for i := from; i < to; i++ {
		r := m.Rows[i]
		mark := "  "
		if cursor && i == m.Cursor {
			mark = "▸ "
		}
		label := r.Label
		if label == "" {
			label = "—"
		}
		rows = append(rows, []string{
			mark, r.ID, label, r.Shape,
			strconv.Itoa(r.Rank), strconv.Itoa(r.Order),
			fmt.Sprintf("%.0f,%.0f", r.X, r.Y),
			fmt.Sprintf("%.0f×%.0f", r.W, r.H),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Node", "Label", "Shape", "Rank", "Order", "Center", "Size").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := from + row
			if idx >= len(m.Rows) {
				return lipgloss.NewStyle()
			}
			base := lipgloss.NewStyle()
			if col >= 4 {
				base = base.Foreground(colorGray)
			}
			if m.Rows[idx].Implicit {
				base = base.Foreground(colorDim)
			}
			if cursor && idx == m.Cursor {
				return base.Foreground(colorCyan).Bold(true)
			}
			return base
		})
	return t.Render()
}

func (m InspectModel) detail(r nodeRow) string {
	provenance := "explicit"
	if r.Implicit {
		provenance = "implicit"
	}
	return fmt.Sprintf("  %s %s  %s  %s",
		StyleHighlight.Render(r.ID),
		listDimStyle.Render(provenance),
		listDimStyle.Render(fmt.Sprintf("degree %d", r.Degree)),
		listDimStyle.Render(fmt.Sprintf("rank %d, slot %d", r.Rank, r.Order)))
}

// Static renders the whole table without the cursor, for non-interactive output.
func (m InspectModel) Static() string {
	return m.table(0, len(m.Rows), false)
}
