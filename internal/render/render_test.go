package render

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Continuous-Collision-Detection/CCD-Wrapper/internal/record"
	"github.com/Continuous-Collision-Detection/CCD-Wrapper/internal/table"
)

func sampleTable() *table.Table {
	return &table.Table{
		CollisionType: record.VertexFace,
		Threshold:     "1e-08",
		RowHeader:     "Scene",
		Columns: []table.Column{
			{Method: "RootParity", Label: "RP", Metric: table.AvgQueryTime},
			{Method: "RootParity", Label: "RP", Metric: table.FalsePositives},
			{Method: "RootParity", Label: "RP", Metric: table.FalseNegatives},
			{Method: "RationalRootParity", Label: "RRP", Metric: table.AvgQueryTime},
			{Method: "RationalRootParity", Label: "RRP", Metric: table.FalsePositives, NotApplicable: true},
			{Method: "RationalRootParity", Label: "RRP", Metric: table.FalseNegatives, NotApplicable: true},
		},
		Rows: []table.Row{
			{Label: "chain", Queries: 100, Cells: []table.Cell{table.Val(2), table.Val(1), table.Val(0), table.Val(20.456), table.NA(), table.NA()}},
			{Label: "golf_ball", Queries: 300, Cells: []table.Cell{table.Val(6), table.Val(0), table.Val(2), table.Val(40), table.NA(), table.NA()}},
		},
		Footer: []table.Row{
			{Label: "Total", Queries: 400, Cells: []table.Cell{table.Val(5), table.Val(1), table.Val(2), table.Val(35.114), table.NA(), table.NA()}},
		},
	}
}

func TestNew(t *testing.T) {
	for _, name := range []string{"latex", "text", "csv", "json", "html", " LaTeX "} {
		r, err := New(name)
		require.NoError(t, err, name)
		assert.NotNil(t, r)
	}
	_, err := New("xlsx")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "csv, html, json, latex, text")
}

func TestFormatCell(t *testing.T) {
	assert.Equal(t, "2.00", FormatCell(table.AvgQueryTime, table.Val(2)))
	assert.Equal(t, "0.13", FormatCell(table.AvgQueryTime, table.Val(0.125001)))
	assert.Equal(t, "7", FormatCell(table.FalsePositives, table.Val(7)))
	assert.Equal(t, "0", FormatCell(table.FalseNegatives, table.Val(0)))
	assert.Equal(t, "-", FormatCell(table.FalsePositives, table.NA()))
	assert.Equal(t, "-", FormatCell(table.AvgQueryTime, table.NA()))
	assert.Equal(t, NoDataText, FormatCell(table.AvgQueryTime, table.NoData()))
}

func TestCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, CSV(&buf, sampleTable()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	want := [][]string{
		{"Scene", "n", "RP t", "RP FP", "RP FN", "RRP t", "RRP FP", "RRP FN"},
		{"chain", "100", "2.00", "1", "0", "20.46", "-", "-"},
		{"golf_ball", "300", "6.00", "0", "2", "40.00", "-", "-"},
		{"Total", "400", "5.00", "1", "2", "35.11", "-", "-"},
	}
	if diff := cmp.Diff(want, records); diff != "" {
		t.Fatalf("csv mismatch (-want +got):\n%s", diff)
	}
}

func TestLaTeX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, LaTeX(&buf, sampleTable()))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "\\begin{tabular}{l|r|ccc|ccc}\n"), out)
	assert.Contains(t, out, `\multicolumn{3}{c|}{RP} & \multicolumn{3}{c}{RRP} \\`)
	assert.Contains(t, out, `golf\_ball`)
	assert.True(t, strings.HasSuffix(out, "\\bottomrule\n\\end{tabular}\n"))

	var dataLines []string
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "chain") || strings.HasPrefix(line, "golf") || strings.HasPrefix(line, "Total") || strings.HasPrefix(line, "Scene") {
			dataLines = append(dataLines, line)
		}
	}
	require.Len(t, dataLines, 4)
	for _, line := range dataLines[1:] {
		assert.Equal(t, len(dataLines[0]), len(line), "rows are padded to fixed widths:\n%s", out)
	}
	assert.Contains(t, dataLines[1], "20.46")
	assert.Contains(t, dataLines[1], " & -  & - ")
	assert.Equal(t, 2, strings.Count(out, `\midrule`))
}

func TestTextMarksNotApplicable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Text(&buf, sampleTable()))
	out := buf.String()

	assert.Contains(t, out, "Vertex-Face (threshold 1e-08)")
	assert.Contains(t, out, "RRP FN")
	assert.Contains(t, out, "35.11")
	assert.Contains(t, out, " - ")
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, sampleTable()))

	var doc struct {
		CollisionType string `json:"collision_type"`
		Header        []string
		Rows          []struct {
			Label  string
			Values []*float64
			Text   []string
		}
		Footer []struct{ Label string }
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "vertex-face", doc.CollisionType)
	require.Len(t, doc.Rows, 2)
	assert.Nil(t, doc.Rows[0].Values[4])
	require.NotNil(t, doc.Rows[0].Values[3])
	assert.Equal(t, 20.456, *doc.Rows[0].Values[3])
	assert.Equal(t, "-", doc.Rows[0].Text[4])
	assert.Equal(t, "Total", doc.Footer[0].Label)
}

func TestHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, HTML(&buf, sampleTable()))
	out := buf.String()

	assert.Contains(t, out, "<title>ccdbench: Vertex-Face (threshold 1e-08)</title>")
	assert.Contains(t, out, `<th colspan="3">RRP</th>`)
	assert.Contains(t, out, "<td>golf_ball</td>")
	assert.Contains(t, out, "<tfoot>")
	assert.Contains(t, out, `const tableData = {"collision_type":"vertex-face"`)
	// Rows carry their index into tableData, which supplies the sort keys.
	assert.Contains(t, out, `<tr data-row="1">`)
	assert.Contains(t, out, "tableData.rows[row]")
	assert.NotContains(t, out, "console.debug")
}

func TestRenderersRejectRaggedRows(t *testing.T) {
	tbl := sampleTable()
	tbl.Rows[0].Cells = tbl.Rows[0].Cells[:2]
	for _, name := range Formats() {
		r, err := New(name)
		require.NoError(t, err)
		assert.Error(t, r.Render(&bytes.Buffer{}, tbl), name)
	}
}

func TestCondensedTableUsesRowMetric(t *testing.T) {
	tbl := &table.Table{
		RowHeader: "Metric",
		Columns:   []table.Column{{Method: "RootParity", Label: "RP"}},
		Rows: []table.Row{
			{Label: string(table.AvgQueryTime), Queries: 4, Cells: []table.Cell{table.Val(1.5)}},
			{Label: string(table.FalsePositives), Queries: 4, Cells: []table.Cell{table.Val(3)}},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, CSV(&buf, tbl))
	assert.Equal(t, "Metric,n,RP\navg_query_time,4,1.50\nnum_false_positives,4,3\n", buf.String())

	buf.Reset()
	require.NoError(t, LaTeX(&buf, tbl))
	assert.Contains(t, buf.String(), "{l|r|c}")
	assert.NotContains(t, buf.String(), `\multicolumn`)
}
