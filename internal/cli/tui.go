package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/1mgroot/Tracil-sub000/pkg/standards"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// StandardListModel - Interactive standard selection
// =============================================================================

// StandardListModel is the bubbletea model for picking a CDISC standard.
type StandardListModel struct {
	Collection standards.Collection
	Names      []string
	Cursor     int
	Selected   string
}

// NewStandardListModel creates a new standard list model.
func NewStandardListModel(c standards.Collection) StandardListModel {
	return StandardListModel{
		Collection: c,
		Names:      c.Names(),
	}
}

func (m StandardListModel) Init() tea.Cmd {
	return nil
}

func (m StandardListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Names)-1 {
				m.Cursor++
			}
		case "enter":
			name := m.Names[m.Cursor]
			s, ok := m.Collection.Standard(name)
			if !ok || len(s.DatasetEntities) == 0 {
				return m, nil
			}
			m.Selected = name
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m StandardListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Standard"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	for i, name := range m.Names {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		s, _ := m.Collection.Standard(name)
		count := len(s.DatasetEntities)
		detail := fmt.Sprintf("%d datasets", count)
		if count == 1 {
			detail = "1 dataset"
		}
		badge := styleForGroup(s.Group()).Render("●")

		line := fmt.Sprintf("%s%s %-10s  %s", cursor, badge, name, listDimStyle.Render(detail))

		switch {
		case i == m.Cursor:
			b.WriteString(listSelectedStyle.Render(line))
		case count == 0:
			b.WriteString(listDimStyle.Render(line))
		default:
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// =============================================================================
// DatasetListModel - Interactive dataset selection
// =============================================================================

// DatasetListModel is the bubbletea model for picking a dataset entity.
type DatasetListModel struct {
	Standard string
	Datasets []standards.DatasetEntity
	Cursor   int
	Selected *standards.DatasetEntity
	Height   int
	Offset   int
}

// NewDatasetListModel creates a new dataset list model.
func NewDatasetListModel(standard string, datasets []standards.DatasetEntity) DatasetListModel {
	return DatasetListModel{
		Standard: standard,
		Datasets: datasets,
		Height:   15,
	}
}

func (m DatasetListModel) Init() tea.Cmd {
	return nil
}

func (m DatasetListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Datasets)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			d := m.Datasets[m.Cursor]
			if len(d.Variables) == 0 {
				return m, nil
			}
			m.Selected = &d
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m DatasetListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Dataset"))
	b.WriteString(listDimStyle.Render("  (" + m.Standard + ")"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Datasets) {
		end = len(m.Datasets)
	}

	for i := m.Offset; i < end; i++ {
		d := m.Datasets[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		label := d.Label
		if label == "" {
			label = "—"
		}
		detail := fmt.Sprintf("%-40s  %d variables", label, len(d.Variables))

		line := fmt.Sprintf("%s%-10s  %s", cursor, d.Name, listDimStyle.Render(detail))

		switch {
		case i == m.Cursor:
			b.WriteString(listSelectedStyle.Render(line))
		case len(d.Variables) == 0:
			b.WriteString(listDimStyle.Render(line))
		default:
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Datasets))))

	return b.String()
}

// =============================================================================
// VariableListModel - Interactive variable selection
// =============================================================================

// VariableSelection holds the result of the variable selection.
type VariableSelection struct {
	Dataset  string
	Variable standards.Variable
}

// VariableListModel is the bubbletea model for picking a variable.
type VariableListModel struct {
	Dataset   standards.DatasetEntity
	Variables []standards.Variable
	Cursor    int
	Selected  *VariableSelection
	Height    int
	Offset    int
}

// NewVariableListModel creates a new variable list model.
func NewVariableListModel(d standards.DatasetEntity) VariableListModel {
	return VariableListModel{
		Dataset:   d,
		Variables: d.Variables,
		Height:    15,
	}
}

func (m VariableListModel) Init() tea.Cmd {
	return nil
}

func (m VariableListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Variables)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			m.Selected = &VariableSelection{
				Dataset:  m.Dataset.Name,
				Variable: m.Variables[m.Cursor],
			}
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m VariableListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Variable"))
	b.WriteString(listDimStyle.Render("  (" + m.Dataset.Name + ")"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ trace lineage  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Variables) {
		end = len(m.Variables)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		v := m.Variables[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		mandatory := ""
		if v.Mandatory {
			mandatory = "✓"
		}

		role := v.Role
		if role == "" {
			role = "—"
		}

		rows = append(rows, []string{cursor, v.Name, v.Label, v.Type, role, mandatory})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Variable", "Label", "Type", "Role", "Req").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}

			actualIdx := m.Offset + row
			if actualIdx >= len(m.Variables) {
				return lipgloss.NewStyle()
			}
			isCurrent := actualIdx == m.Cursor

			base := lipgloss.NewStyle()
			if col >= 3 {
				base = base.Foreground(colorDim)
			}

			if isCurrent {
				if col < 3 {
					return base.Foreground(colorCyan).Bold(true)
				}
				return base.Bold(true)
			}
			if col < 3 {
				return base.Foreground(colorWhite)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Variables))))

	return b.String()
}
