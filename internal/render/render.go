// Package render formats tables as LaTeX, text, CSV, JSON or HTML. Renderers
// only format; they never change values.
package render

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/Continuous-Collision-Detection/CCD-Wrapper/internal/table"
)

const (
	// NotApplicableText is printed for NA cells.
	NotApplicableText = "-"
	// NoDataText is printed for aggregates over zero queries.
	NoDataText = "no data"
	// QueriesHeader heads the query-count column.
	QueriesHeader = "n"
)

// Renderer writes a table to w.
type Renderer interface {
	Render(w io.Writer, t *table.Table) error
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(w io.Writer, t *table.Table) error

func (f RendererFunc) Render(w io.Writer, t *table.Table) error { return f(w, t) }

var renderers = map[string]Renderer{
	"latex": RendererFunc(LaTeX),
	"text":  RendererFunc(Text),
	"csv":   RendererFunc(CSV),
	"json":  RendererFunc(JSON),
	"html":  RendererFunc(HTML),
}

// Formats lists the supported format names.
func Formats() []string {
	names := make([]string, 0, len(renderers))
	for name := range renderers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New returns the renderer for format.
func New(format string) (Renderer, error) {
	r, ok := renderers[strings.ToLower(strings.TrimSpace(format))]
	if !ok {
		return nil, fmt.Errorf("unknown format %q (supported: %s)", format, strings.Join(Formats(), ", "))
	}
	return r, nil
}

// FormatCell prints floats with two decimals, counts as integers, NA as a dash.
func FormatCell(metric table.Metric, c table.Cell) string {
	switch {
	case c.NA:
		return NotApplicableText
	case c.NoData:
		return NoDataText
	case metric.Weighted():
		return strconv.FormatFloat(c.Value, 'f', 2, 64)
	default:
		return strconv.FormatInt(int64(math.Round(c.Value)), 10)
	}
}

// ColumnHeader is the single-line header for a column, e.g. "RP t".
func ColumnHeader(c table.Column) string {
	if c.Metric == "" {
		return c.Label
	}
	return c.Label + " " + c.Metric.Short()
}

// Header returns the flat header line: row header, query count, columns.
func Header(t *table.Table) []string {
	out := make([]string, 0, len(t.Columns)+2)
	out = append(out, rowHeader(t), QueriesHeader)
	for _, c := range t.Columns {
		out = append(out, ColumnHeader(c))
	}
	return out
}

// Fields formats one row as strings aligned with Header.
func Fields(t *table.Table, row table.Row) []string {
	out := make([]string, 0, len(row.Cells)+2)
	out = append(out, row.Label, strconv.Itoa(row.Queries))
	for i, c := range row.Cells {
		out = append(out, FormatCell(t.MetricAt(row, i), c))
	}
	return out
}

// AllRows returns body rows followed by footer rows.
func AllRows(t *table.Table) []table.Row {
	out := make([]table.Row, 0, len(t.Rows)+len(t.Footer))
	out = append(out, t.Rows...)
	return append(out, t.Footer...)
}

func rowHeader(t *table.Table) string {
	if t.RowHeader == "" {
		return "Scene"
	}
	return t.RowHeader
}

func checkShape(t *table.Table) error {
	for _, row := range AllRows(t) {
		if len(row.Cells) != len(t.Columns) {
			return fmt.Errorf("row %s has %d cells, table has %d columns", row.Label, len(row.Cells), len(t.Columns))
		}
	}
	return nil
}
