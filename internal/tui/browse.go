// Package tui provides the interactive table browser.
package tui

import (
	"errors"
	"fmt"
	"strings"

	btable "github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Continuous-Collision-Detection/CCD-Wrapper/internal/render"
	"github.com/Continuous-Collision-Detection/CCD-Wrapper/internal/table"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	tabStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Padding(0, 1)
	activeTab  = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62")).Padding(0, 1)
	gridStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
	helpStyle  = lipgloss.NewStyle().Faint(true)
)

// model is the Bubble Tea model for browsing one or more tables.
type model struct {
	tables  []*table.Table
	current int
	grid    btable.Model
	width   int
	height  int
}

func newModel(tables []*table.Table) *model {
	m := &model{tables: tables}
	m.grid = btable.New(btable.WithFocused(true), btable.WithHeight(12))
	styles := btable.DefaultStyles()
	styles.Header = styles.Header.BorderStyle(lipgloss.NormalBorder()).BorderBottom(true).Bold(true)
	styles.Selected = styles.Selected.Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62"))
	m.grid.SetStyles(styles)
	m.load()
	return m
}

// load fills the grid with the current table, summary rows last.
func (m *model) load() {
	t := m.tables[m.current]
	header := render.Header(t)
	rows := make([]btable.Row, 0, len(t.Rows)+len(t.Footer))
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = len(h)
	}
	for _, row := range render.AllRows(t) {
		fields := render.Fields(t, row)
		for i, f := range fields {
			widths[i] = max(widths[i], len(f))
		}
		rows = append(rows, btable.Row(fields))
	}

	cols := make([]btable.Column, len(header))
	for i, h := range header {
		cols[i] = btable.Column{Title: h, Width: widths[i] + 1}
	}
	// Clear rows so stale rows are never rendered against new columns.
	m.grid.SetRows(nil)
	m.grid.SetColumns(cols)
	m.grid.SetRows(rows)
	m.grid.GotoTop()
}

func (m *model) Init() tea.Cmd {
	return nil
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.grid.SetHeight(max(msg.Height-7, 3))
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "tab":
			m.current = (m.current + 1) % len(m.tables)
			m.load()
			return m, nil
		case "shift+tab":
			m.current = (m.current + len(m.tables) - 1) % len(m.tables)
			m.load()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.grid, cmd = m.grid.Update(msg)
	return m, cmd
}

func (m *model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("ccdbench"))
	b.WriteString("\n")
	tabs := make([]string, len(m.tables))
	for i, t := range m.tables {
		style := tabStyle
		if i == m.current {
			style = activeTab
		}
		tabs[i] = style.Render(tableName(t, i))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("\n")
	b.WriteString(gridStyle.Render(m.grid.View()))
	b.WriteString("\n")
	help := "↑/↓ scroll  q quit"
	if len(m.tables) > 1 {
		help = "↑/↓ scroll  tab next table  q quit"
	}
	b.WriteString(helpStyle.Render(help))
	return b.String()
}

func tableName(t *table.Table, i int) string {
	switch {
	case t.Title != "":
		return t.Title
	case t.CollisionType != "":
		return t.CollisionType.Title()
	default:
		return fmt.Sprintf("Table %d", i+1)
	}
}

// Browse runs the interactive browser until the user quits.
func Browse(tables []*table.Table) error {
	if len(tables) == 0 {
		return errors.New("no tables to browse")
	}
	p := tea.NewProgram(newModel(tables), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
