package aggregate

import (
	"fmt"
	"sort"

	"github.com/Continuous-Collision-Detection/CCD-Wrapper/internal/record"
	"github.com/Continuous-Collision-Detection/CCD-Wrapper/internal/suite"
	"github.com/Continuous-Collision-Detection/CCD-Wrapper/internal/table"
)

// Sweep summarizes the records once per separation distance. The result has
// one row per distance, largest first, labelled like "1e-08", each holding the
// cross-scene summary at that threshold.
func Sweep(records []record.Record, methods []suite.Method, distances []string) (*table.Table, error) {
	if len(distances) == 0 {
		return nil, fmt.Errorf("sweep: no distances")
	}

	type sweepRow struct {
		value float64
		row   table.Row
	}
	rows := make([]sweepRow, 0, len(distances))
	seen := make(map[float64]string, len(distances))
	var columns []table.Column
	for _, d := range distances {
		sel, err := table.NewSelector(d)
		if err != nil {
			return nil, err
		}
		if prev, dup := seen[sel.Value]; dup {
			return nil, fmt.Errorf("sweep: distance %s repeats %s", d, prev)
		}
		seen[sel.Value] = d
		t, err := table.Build(records, methods, sel)
		if err != nil {
			return nil, fmt.Errorf("distance %s: %w", d, err)
		}
		if columns == nil {
			columns = t.Columns
		} else if len(t.Columns) != len(columns) {
			return nil, fmt.Errorf("distance %s: peak memory reported at some distances only", d)
		}
		s, err := Summarize(t)
		if err != nil {
			return nil, fmt.Errorf("distance %s: %w", d, err)
		}
		if err := s.Err(); err != nil {
			return nil, fmt.Errorf("distance %s: %w", d, err)
		}
		row := s.Row()
		row.Label = fmt.Sprintf("%.0e", sel.Value)
		rows = append(rows, sweepRow{value: sel.Value, row: row})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].value > rows[j].value })

	out := &table.Table{
		RowHeader: "Distance",
		Columns:   columns,
		Rows:      make([]table.Row, len(rows)),
	}
	if len(records) > 0 {
		out.CollisionType = records[0].CollisionType
	}
	for i, r := range rows {
		out.Rows[i] = r.row
	}
	return out, nil
}
