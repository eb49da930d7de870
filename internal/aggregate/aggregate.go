// Package aggregate computes query-weighted summaries of benchmark tables.
package aggregate

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/Continuous-Collision-Detection/CCD-Wrapper/internal/table"
)

var (
	// ErrNoData means a weighted mean was requested over zero queries.
	ErrNoData = errors.New("no data")
	// ErrMixedApplicability means a column holds both NA and numeric cells.
	ErrMixedApplicability = errors.New("column mixes not-applicable and numeric cells")
)

// TotalLabel labels the summary row.
const TotalLabel = "Total"

// WeightedMean returns sum(v*w)/sum(w).
func WeightedMean(values, weights []float64) (float64, error) {
	if len(values) != len(weights) {
		return 0, fmt.Errorf("weighted mean: %d values but %d weights", len(values), len(weights))
	}
	total := 0.0
	for _, w := range weights {
		total += w
	}
	if total == 0 {
		return 0, ErrNoData
	}
	return stat.Mean(values, weights), nil
}

// Sum adds values; the sum of nothing is 0.
func Sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}

// Summary holds one aggregated cell per table column.
type Summary struct {
	CollisionType string
	Columns       []table.Column
	Cells         []table.Cell
	Queries       int
}

// Summarize aggregates every column of t. Timing columns are query-weighted
// means, count columns are sums, NA columns stay NA. A timing column over zero
// queries yields a NoData cell; see Summary.Err.
func Summarize(t *table.Table) (*Summary, error) {
	s := &Summary{
		CollisionType: string(t.CollisionType),
		Columns:       t.Columns,
		Cells:         make([]table.Cell, len(t.Columns)),
		Queries:       t.TotalQueries(),
	}
	weights := t.Weights()
	for i, col := range t.Columns {
		cell, err := summarizeColumn(col, t.ColumnCells(i), weights)
		if err != nil {
			return nil, fmt.Errorf("column %s/%s: %w", col.Method, col.Metric, err)
		}
		s.Cells[i] = cell
	}
	return s, nil
}

func summarizeColumn(col table.Column, cells []table.Cell, weights []float64) (table.Cell, error) {
	values := make([]float64, 0, len(cells))
	na := 0
	for _, c := range cells {
		if c.NA {
			na++
			continue
		}
		values = append(values, c.Value)
	}
	switch {
	case na > 0 && na < len(cells):
		return table.Cell{}, ErrMixedApplicability
	case na > 0 || col.NotApplicable:
		return table.NA(), nil
	}

	if !col.Metric.Weighted() {
		return table.Val(Sum(values)), nil
	}
	mean, err := WeightedMean(values, weights)
	if errors.Is(err, ErrNoData) {
		return table.NoData(), nil
	}
	if err != nil {
		return table.Cell{}, err
	}
	return table.Val(mean), nil
}

// Err reports ErrNoData when any timing column could not be averaged.
func (s *Summary) Err() error {
	for i, c := range s.Cells {
		if c.NoData {
			return fmt.Errorf("%s %s: %w", s.Columns[i].Label, s.Columns[i].Metric, ErrNoData)
		}
	}
	return nil
}

// Row returns the summary as a table footer row.
func (s *Summary) Row() table.Row {
	return table.Row{Label: TotalLabel, Queries: s.Queries, Cells: append([]table.Cell(nil), s.Cells...)}
}

// ByMetric condenses the summary to one row per metric with one column per
// method.
func (s *Summary) ByMetric() *table.Table {
	out := &table.Table{RowHeader: "Metric"}
	index := make(map[string]int)
	for _, col := range s.Columns {
		if _, ok := index[col.Method]; ok {
			continue
		}
		index[col.Method] = len(out.Columns)
		out.Columns = append(out.Columns, table.Column{Method: col.Method, Label: col.Label})
	}
	present := make(map[table.Metric]bool)
	for _, col := range s.Columns {
		present[col.Metric] = true
	}
	for _, metric := range table.MemoryMetrics {
		if !present[metric] {
			continue
		}
		row := table.Row{Label: string(metric), Queries: s.Queries, Cells: make([]table.Cell, len(out.Columns))}
		for i := range row.Cells {
			row.Cells[i] = table.NA()
		}
		for i, col := range s.Columns {
			if col.Metric == metric {
				row.Cells[index[col.Method]] = s.Cells[i]
			}
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}

// WithSummary returns t with the summary appended as its footer.
func WithSummary(t *table.Table) (*table.Table, *Summary, error) {
	s, err := Summarize(t)
	if err != nil {
		return nil, nil, err
	}
	out := *t
	out.Footer = append(append([]table.Row(nil), t.Footer...), s.Row())
	return &out, s, nil
}
