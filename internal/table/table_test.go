package table

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Continuous-Collision-Detection/CCD-Wrapper/internal/record"
	"github.com/Continuous-Collision-Detection/CCD-Wrapper/internal/suite"
)

func intp(v int) *int { return &v }

func direct(t float64, fp, fn int) record.MethodResult {
	return record.MethodResult{Direct: &record.Metrics{AvgQueryTime: t, FalsePositives: intp(fp), FalseNegatives: intp(fn)}}
}

var (
	rp  = suite.Method{Name: "RootParity", Abbreviation: "RP"}
	rrp = suite.Method{Name: "RationalRootParity", Abbreviation: "RRP", Exact: true}
	ms  = suite.Method{Name: "MinSeparationRootParity", Abbreviation: "MS-RP", MinSeparation: true}
)

func fixtures() []record.Record {
	return []record.Record{
		{
			Scene: "golf-ball", CollisionType: record.VertexFace, NumQueries: 300,
			Methods: map[string]record.MethodResult{
				"RootParity":         direct(6.0, 0, 2),
				"RationalRootParity": {Direct: &record.Metrics{AvgQueryTime: 40}},
			},
		},
		{
			Scene: "chain", CollisionType: record.VertexFace, NumQueries: 100,
			Methods: map[string]record.MethodResult{
				"RootParity":         direct(2.0, 1, 0),
				"RationalRootParity": direct(20, 7, 7),
			},
		},
	}
}

func TestBuild(t *testing.T) {
	tbl, err := Build(fixtures(), []suite.Method{rp, rrp}, MustSelector(""))
	require.NoError(t, err)

	assert.Equal(t, record.VertexFace, tbl.CollisionType)
	assert.Equal(t, DefaultThreshold, tbl.Threshold)

	want := []Row{
		{Label: "chain", Queries: 100, Cells: []Cell{Val(2), Val(1), Val(0), Val(20), NA(), NA()}},
		{Label: "golf-ball", Queries: 300, Cells: []Cell{Val(6), Val(0), Val(2), Val(40), NA(), NA()}},
	}
	if diff := cmp.Diff(want, tbl.Rows); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}

	require.Len(t, tbl.Columns, 6)
	assert.Equal(t, Column{Method: "RootParity", Label: "RP", Metric: AvgQueryTime}, tbl.Columns[0])
	assert.Equal(t, Column{Method: "RationalRootParity", Label: "RRP", Metric: FalseNegatives, NotApplicable: true}, tbl.Columns[5])
	assert.Equal(t, []float64{100, 300}, tbl.Weights())
	assert.Equal(t, 400, tbl.TotalQueries())
	assert.Equal(t, []Cell{Val(1), Val(0)}, tbl.ColumnCells(1))
}

func TestBuildShapeRoundTrip(t *testing.T) {
	methods := []suite.Method{rrp, rp}
	tbl, err := Build(fixtures(), methods, MustSelector(""))
	require.NoError(t, err)

	shape := tbl.Shape()
	assert.Equal(t, 2, shape.Rows)
	assert.Equal(t, []string{"RationalRootParity", "RootParity"}, shape.Methods)
	assert.Equal(t, len(methods)*len(Metrics), shape.Columns)
	for _, row := range tbl.Rows {
		assert.Len(t, row.Cells, shape.Columns)
	}
}

func TestBuildEmpty(t *testing.T) {
	tbl, err := Build(nil, []suite.Method{rp}, MustSelector(""))
	require.NoError(t, err)
	assert.Empty(t, tbl.Rows)
	assert.Len(t, tbl.Columns, 3)
	assert.Equal(t, 0, tbl.Shape().Rows)
}

func TestBuildErrors(t *testing.T) {
	t.Run("missing method", func(t *testing.T) {
		_, err := Build(fixtures(), []suite.Method{ms}, MustSelector(""))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrMissingMethod))
		assert.Contains(t, err.Error(), "chain")
	})

	t.Run("missing count on inexact method", func(t *testing.T) {
		recs := []record.Record{{
			Scene: "chain", NumQueries: 1,
			Methods: map[string]record.MethodResult{
				"RootParity": {Direct: &record.Metrics{AvgQueryTime: 1, FalsePositives: intp(0)}},
			},
		}}
		_, err := Build(recs, []suite.Method{rp}, MustSelector(""))
		require.ErrorIs(t, err, ErrMissingMetric)
		assert.Contains(t, err.Error(), string(FalseNegatives))
	})

	t.Run("threshold missing", func(t *testing.T) {
		recs := []record.Record{{
			Scene: "chain", NumQueries: 1,
			Methods: map[string]record.MethodResult{
				"MinSeparationRootParity": {ByDistance: map[string]record.Metrics{
					"0.01": {AvgQueryTime: 3, FalsePositives: intp(0), FalseNegatives: intp(0)},
				}},
			},
		}}
		_, err := Build(recs, []suite.Method{ms}, MustSelector("1e-8"))
		require.ErrorIs(t, err, ErrThresholdMissing)
	})
}

func TestBuildKeyedSelectsThreshold(t *testing.T) {
	recs := []record.Record{{
		Scene: "chain", NumQueries: 10,
		Methods: map[string]record.MethodResult{
			"MinSeparationRootParity": {ByDistance: map[string]record.Metrics{
				"0.01":  {AvgQueryTime: 9, FalsePositives: intp(5), FalseNegatives: intp(0)},
				"1e-08": {AvgQueryTime: 3, FalsePositives: intp(1), FalseNegatives: intp(0)},
			}},
		},
	}}

	for _, key := range []string{"1e-8", "1e-08", "0.00000001"} {
		tbl, err := Build(recs, []suite.Method{ms}, MustSelector(key))
		require.NoError(t, err, key)
		assert.Equal(t, []Cell{Val(3), Val(1), Val(0)}, tbl.Rows[0].Cells, key)
	}

	tbl, err := Build(recs, []suite.Method{ms}, MustSelector("0.01"))
	require.NoError(t, err)
	assert.Equal(t, Val(9), tbl.Rows[0].Cells[0])
}

func TestNewSelector(t *testing.T) {
	s, err := NewSelector("  ")
	require.NoError(t, err)
	assert.Equal(t, DefaultThreshold, s.Key)
	assert.Equal(t, 1e-8, s.Value)

	_, err = NewSelector("tiny")
	assert.Error(t, err)
	_, err = NewSelector("-1")
	assert.Error(t, err)

	assert.Panics(t, func() { MustSelector("tiny") })
}

func TestMetricProperties(t *testing.T) {
	assert.True(t, AvgQueryTime.Weighted())
	assert.False(t, FalsePositives.Weighted())
	assert.Equal(t, "FN", FalseNegatives.Short())
}

func withMemory(r record.MethodResult, mem float64) record.MethodResult {
	m := *r.Direct
	m.PeakMemory = &mem
	return record.MethodResult{Direct: &m}
}

func TestBuildPeakMemory(t *testing.T) {
	t.Run("absent everywhere adds no columns", func(t *testing.T) {
		tbl, err := Build(fixtures(), []suite.Method{rp}, MustSelector(""))
		require.NoError(t, err)
		require.Len(t, tbl.Columns, len(Metrics))
	})

	t.Run("reported method fills the column", func(t *testing.T) {
		recs := fixtures()
		recs[0].Methods["RootParity"] = withMemory(recs[0].Methods["RootParity"], 64)
		recs[1].Methods["RootParity"] = withMemory(recs[1].Methods["RootParity"], 32)

		tbl, err := Build(recs, []suite.Method{rp, rrp}, MustSelector(""))
		require.NoError(t, err)

		var metrics []Metric
		for _, c := range tbl.Columns {
			metrics = append(metrics, c.Metric)
		}
		assert.Equal(t, append(append([]Metric(nil), MemoryMetrics...), MemoryMetrics...), metrics)
		assert.False(t, tbl.Columns[1].NotApplicable)
		// RRP never reports memory.
		assert.True(t, tbl.Columns[5].NotApplicable)

		want := []Row{
			{Label: "chain", Queries: 100, Cells: []Cell{Val(2), Val(32), Val(1), Val(0), Val(20), NA(), NA(), NA()}},
			{Label: "golf-ball", Queries: 300, Cells: []Cell{Val(6), Val(64), Val(0), Val(2), Val(40), NA(), NA(), NA()}},
		}
		if diff := cmp.Diff(want, tbl.Rows); diff != "" {
			t.Fatalf("rows mismatch (-want +got):\n%s", diff)
		}
		assert.True(t, PeakMemory.Weighted())
		assert.Equal(t, "mem", PeakMemory.Short())
	})

	t.Run("partial report is an error", func(t *testing.T) {
		recs := fixtures()
		recs[0].Methods["RootParity"] = withMemory(recs[0].Methods["RootParity"], 64)

		_, err := Build(recs, []suite.Method{rp}, MustSelector(""))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrMissingMetric))
		assert.Contains(t, err.Error(), "chain")
		assert.Contains(t, err.Error(), string(PeakMemory))
	})
}
