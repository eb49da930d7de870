// Package table reshapes benchmark records into a uniform scene-by-column table.
package table

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Continuous-Collision-Detection/CCD-Wrapper/internal/record"
	"github.com/Continuous-Collision-Detection/CCD-Wrapper/internal/suite"
)

var (
	// ErrMissingMethod means a record lacks a requested method.
	ErrMissingMethod = errors.New("method missing from record")
	// ErrMissingMetric means a method entry lacks a required metric.
	ErrMissingMetric = errors.New("metric missing from record")
)

// Metric is one measured quantity per method.
type Metric string

const (
	AvgQueryTime   Metric = "avg_query_time"
	PeakMemory     Metric = "peak_memory"
	FalsePositives Metric = "num_false_positives"
	FalseNegatives Metric = "num_false_negatives"
)

// Metrics lists the per-method metrics in column order.
var Metrics = []Metric{AvgQueryTime, FalsePositives, FalseNegatives}

// MemoryMetrics is Metrics with peak memory, used when records report it.
var MemoryMetrics = []Metric{AvgQueryTime, PeakMemory, FalsePositives, FalseNegatives}

// Weighted reports whether the metric is a per-query quantity that aggregates
// as a query-weighted mean rather than a sum.
func (m Metric) Weighted() bool {
	return m == AvgQueryTime || m == PeakMemory
}

// Short returns the compact header used in printed tables.
func (m Metric) Short() string {
	switch m {
	case AvgQueryTime:
		return "t"
	case PeakMemory:
		return "mem"
	case FalsePositives:
		return "FP"
	case FalseNegatives:
		return "FN"
	default:
		return string(m)
	}
}

// Cell is one table value. NA marks a metric the method has no notion of; it
// is distinct from a zero count. NoData marks an aggregate over zero queries.
type Cell struct {
	Value  float64 `json:"value"`
	NA     bool    `json:"na,omitempty"`
	NoData bool    `json:"no_data,omitempty"`
}

func Val(v float64) Cell { return Cell{Value: v} }
func NA() Cell           { return Cell{NA: true} }
func NoData() Cell       { return Cell{NoData: true} }

// Column identifies one (method, metric) pair.
type Column struct {
	Method        string `json:"method"`
	Label         string `json:"label"`
	Metric        Metric `json:"metric"`
	NotApplicable bool   `json:"not_applicable,omitempty"`
}

// Row is one scene (or one aggregate) with its query count.
type Row struct {
	Label   string `json:"label"`
	Queries int    `json:"queries"`
	Cells   []Cell `json:"cells"`
}

// Table is a scene-by-column view of a set of records. Every row has exactly
// len(Columns) cells.
type Table struct {
	Title         string               `json:"title,omitempty"`
	CollisionType record.CollisionType `json:"collision_type,omitempty"`
	Threshold     string               `json:"threshold,omitempty"`
	RowHeader     string               `json:"row_header"`
	Columns       []Column             `json:"columns"`
	Rows          []Row                `json:"rows"`
	Footer        []Row                `json:"footer,omitempty"`
}

// Shape is the information needed to recreate a table's layout.
type Shape struct {
	Rows    int
	Methods []string
	Columns int
}

// Shape re-derives the scene count, method list and column count.
func (t *Table) Shape() Shape {
	return Shape{Rows: len(t.Rows), Methods: t.Methods(), Columns: len(t.Columns)}
}

// Methods returns the distinct methods in column order.
func (t *Table) Methods() []string {
	var out []string
	seen := make(map[string]bool)
	for _, c := range t.Columns {
		if !seen[c.Method] {
			seen[c.Method] = true
			out = append(out, c.Method)
		}
	}
	return out
}

// ColumnCells returns the cells of column i across the body rows.
func (t *Table) ColumnCells(i int) []Cell {
	out := make([]Cell, len(t.Rows))
	for r, row := range t.Rows {
		out[r] = row.Cells[i]
	}
	return out
}

// MetricAt returns the metric of cell col in row. Condensed tables leave the
// column metric empty and name the metric in the row label instead.
func (t *Table) MetricAt(row Row, col int) Metric {
	if m := t.Columns[col].Metric; m != "" {
		return m
	}
	return Metric(row.Label)
}

// Weights returns each body row's query count.
func (t *Table) Weights() []float64 {
	out := make([]float64, len(t.Rows))
	for r, row := range t.Rows {
		out[r] = float64(row.Queries)
	}
	return out
}

// TotalQueries sums the body rows' query counts.
func (t *Table) TotalQueries() int {
	total := 0
	for _, row := range t.Rows {
		total += row.Queries
	}
	return total
}

// Columns builds the column schema for methods in order.
func Columns(methods []suite.Method) []Column {
	return ColumnsOf(methods, Metrics)
}

// ColumnsOf builds the column schema for methods in order with the given
// per-method metrics.
func ColumnsOf(methods []suite.Method, metrics []Metric) []Column {
	cols := make([]Column, 0, len(methods)*len(metrics))
	for _, m := range methods {
		for _, metric := range metrics {
			cols = append(cols, Column{
				Method:        m.Name,
				Label:         m.Label(),
				Metric:        metric,
				NotApplicable: m.Exact && !metric.Weighted(),
			})
		}
	}
	return cols
}

// Build produces one row per record, sorted by scene name, with columns
// [(metric x method) for each method]. Distance-keyed results are resolved
// through sel. Peak memory columns are added when any method reports peak
// memory; methods that report it in no scene get NA there.
func Build(records []record.Record, methods []suite.Method, sel Selector) (*Table, error) {
	sorted := append([]record.Record(nil), records...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Scene < sorted[j].Scene })

	resolved := make([][]record.Metrics, len(sorted))
	for r, rec := range sorted {
		resolved[r] = make([]record.Metrics, len(methods))
		for i, m := range methods {
			result, ok := rec.Methods[m.Name]
			if !ok {
				return nil, fmt.Errorf("scene %s: %w: %s", rec.Scene, ErrMissingMethod, m.Name)
			}
			metrics, err := sel.Select(result)
			if err != nil {
				return nil, fmt.Errorf("scene %s method %s: %w", rec.Scene, m.Name, err)
			}
			resolved[r][i] = metrics
		}
	}

	memory, err := memoryReport(sorted, methods, resolved)
	if err != nil {
		return nil, err
	}
	metrics := Metrics
	if memory != nil {
		metrics = MemoryMetrics
	}

	t := &Table{
		Threshold: sel.Key,
		RowHeader: "Scene",
		Columns:   ColumnsOf(methods, metrics),
		Rows:      make([]Row, 0, len(sorted)),
	}
	for i, c := range t.Columns {
		if c.Metric == PeakMemory && !memory[c.Method] {
			t.Columns[i].NotApplicable = true
		}
	}
	if len(sorted) > 0 {
		t.CollisionType = sorted[0].CollisionType
	}

	for r, rec := range sorted {
		row := Row{Label: rec.Scene, Queries: rec.NumQueries, Cells: make([]Cell, 0, len(t.Columns))}
		for i, m := range methods {
			cells, err := methodCells(m, resolved[r][i], memory != nil, memory[m.Name])
			if err != nil {
				return nil, fmt.Errorf("scene %s method %s: %w", rec.Scene, m.Name, err)
			}
			row.Cells = append(row.Cells, cells...)
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// memoryReport returns the methods that report peak memory, or nil when none
// do. A method must report it in every scene or in none.
func memoryReport(records []record.Record, methods []suite.Method, resolved [][]record.Metrics) (map[string]bool, error) {
	reports := make(map[string]bool)
	for i, m := range methods {
		n := 0
		for r := range records {
			if resolved[r][i].PeakMemory != nil {
				n++
			}
		}
		if n == 0 {
			continue
		}
		if n < len(records) {
			for r, rec := range records {
				if resolved[r][i].PeakMemory == nil {
					return nil, fmt.Errorf("scene %s method %s: %w: %s", rec.Scene, m.Name, ErrMissingMetric, PeakMemory)
				}
			}
		}
		reports[m.Name] = true
	}
	if len(reports) == 0 {
		return nil, nil
	}
	return reports, nil
}

func methodCells(m suite.Method, metrics record.Metrics, memColumn, memReported bool) ([]Cell, error) {
	cells := []Cell{Val(metrics.AvgQueryTime)}
	switch {
	case memReported:
		cells = append(cells, Val(*metrics.PeakMemory))
	case memColumn:
		cells = append(cells, NA())
	}
	if m.Exact {
		return append(cells, NA(), NA()), nil
	}
	if metrics.FalsePositives == nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingMetric, FalsePositives)
	}
	if metrics.FalseNegatives == nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingMetric, FalseNegatives)
	}
	return append(cells, Val(float64(*metrics.FalsePositives)), Val(float64(*metrics.FalseNegatives))), nil
}
