package publish

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/Continuous-Collision-Detection/CCD-Wrapper/internal/logging"
	"github.com/Continuous-Collision-Detection/CCD-Wrapper/internal/render"
	"github.com/Continuous-Collision-Detection/CCD-Wrapper/internal/table"
)

// ErrSceneNotInSheet means a table row has no matching label in the sheet's
// index column.
var ErrSceneNotInSheet = errors.New("scene not found in sheet")

// DefaultIndexColumn holds the scene names in the target sheet.
const DefaultIndexColumn = "A"

// Options selects the target of a publish run.
type Options struct {
	SpreadsheetID string
	Sheet         string
	IndexColumn   string
	// SkipUnknown logs and skips scenes missing from the sheet instead of failing.
	SkipUnknown bool
}

// Result lists what a publish run wrote.
type Result struct {
	Updated []string
	Skipped []string
}

// Publish writes each table row into its sheet row, found by matching the row
// label against the sheet's index column. Values go to B{row}:{last}{row}.
// Footer rows are written only when the sheet has a row for them. An unknown
// scene fails the run before anything is written.
func Publish(ctx context.Context, c *Client, t *table.Table, opts Options) (Result, error) {
	var res Result
	if strings.TrimSpace(opts.SpreadsheetID) == "" {
		return res, fmt.Errorf("spreadsheet id is required")
	}
	if strings.TrimSpace(opts.Sheet) == "" {
		return res, fmt.Errorf("sheet name is required")
	}
	column := strings.ToUpper(strings.TrimSpace(opts.IndexColumn))
	if column == "" {
		column = DefaultIndexColumn
	}
	if _, err := ColumnNumber(column); err != nil {
		return res, err
	}

	labels, err := c.ReadColumn(ctx, opts.SpreadsheetID, opts.Sheet, column)
	if err != nil {
		return res, err
	}
	rows := IndexRows(labels)

	// Every row is resolved before the first write so an unknown scene
	// leaves the sheet untouched.
	type target struct {
		row table.Row
		n   int
	}
	var plan []target
	for _, row := range t.Rows {
		n, ok := rows[row.Label]
		if ok {
			plan = append(plan, target{row, n})
			continue
		}
		if !opts.SkipUnknown {
			return res, fmt.Errorf("%w: %s (sheet %s)", ErrSceneNotInSheet, row.Label, opts.Sheet)
		}
		logging.Warn("scene %s not in sheet %s, skipping", row.Label, opts.Sheet)
		res.Skipped = append(res.Skipped, row.Label)
	}
	for _, row := range t.Footer {
		if n, ok := rows[row.Label]; ok {
			plan = append(plan, target{row, n})
		}
	}

	// B is the first value column; values are the query count then every cell.
	lastCol := ColumnLetter(len(t.Columns) + 2)
	for _, p := range plan {
		rng := A1(opts.Sheet, fmt.Sprintf("B%d:%s%d", p.n, lastCol, p.n))
		values := RowValues(t, p.row)
		logging.LogRequest("OUT", opts.Sheet, rng, values)
		if err := c.UpdateRow(ctx, opts.SpreadsheetID, rng, values); err != nil {
			return res, err
		}
		res.Updated = append(res.Updated, p.row.Label)
	}
	logging.LogEvent("published %d rows to %s (%d skipped)", len(res.Updated), opts.Sheet, len(res.Skipped))
	return res, nil
}

// IndexRows maps each non-empty label to its 1-based sheet row. The first
// occurrence of a label wins.
func IndexRows(labels []string) map[string]int {
	rows := make(map[string]int, len(labels))
	for i, label := range labels {
		if label == "" {
			continue
		}
		if _, dup := rows[label]; !dup {
			rows[label] = i + 1
		}
	}
	return rows
}

// RowValues converts a row to sheet values: query count, then raw numbers,
// with NA and no-data cells as text.
func RowValues(t *table.Table, row table.Row) []any {
	values := make([]any, 0, len(row.Cells)+1)
	values = append(values, row.Queries)
	for i, c := range row.Cells {
		switch {
		case c.NA:
			values = append(values, render.NotApplicableText)
		case c.NoData:
			values = append(values, render.NoDataText)
		case t.MetricAt(row, i).Weighted():
			values = append(values, c.Value)
		default:
			values = append(values, int64(math.Round(c.Value)))
		}
	}
	return values
}
