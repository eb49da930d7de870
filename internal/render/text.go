package render

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"

	"github.com/Continuous-Collision-Detection/CCD-Wrapper/internal/table"
)

var (
	textTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	textHeaderStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	textCellStyle   = lipgloss.NewStyle().Padding(0, 1)
	textFooterStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")).Padding(0, 1)
)

// Text writes a bordered terminal table.
func Text(w io.Writer, t *table.Table) error {
	if err := checkShape(t); err != nil {
		return err
	}

	rows := make([][]string, 0, len(t.Rows)+len(t.Footer))
	for _, row := range AllRows(t) {
		rows = append(rows, Fields(t, row))
	}
	footerStart := len(t.Rows)

	tbl := ltable.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers(Header(t)...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == ltable.HeaderRow:
				return textHeaderStyle
			case row >= footerStart:
				return textFooterStyle
			default:
				return textCellStyle
			}
		})

	if title := textTitle(t); title != "" {
		if _, err := fmt.Fprintln(w, textTitleStyle.Render(title)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, tbl.Render())
	return err
}

func textTitle(t *table.Table) string {
	switch {
	case t.Title != "":
		return t.Title
	case t.CollisionType != "":
		title := t.CollisionType.Title()
		if t.Threshold != "" {
			title += " (threshold " + t.Threshold + ")"
		}
		return title
	default:
		return ""
	}
}
