package render

import (
	"encoding/json"
	"html/template"
	"io"

	"github.com/Continuous-Collision-Detection/CCD-Wrapper/internal/table"
)

type htmlGroup struct {
	Label string
	Span  int
}

type htmlReportData struct {
	Title     string
	Groups    []htmlGroup
	TwoLevel  bool
	RowHeader string
	Metrics   []string
	Rows      [][]string
	Footer    [][]string
	TableJSON template.JS
}

// HTML writes a standalone page with the table and its data embedded as JSON.
func HTML(w io.Writer, t *table.Table) error {
	if err := checkShape(t); err != nil {
		return err
	}

	payload, err := json.Marshal(t)
	if err != nil {
		return err
	}

	data := htmlReportData{
		Title:     "ccdbench",
		RowHeader: rowHeader(t),
		TableJSON: template.JS(payload),
	}
	if title := textTitle(t); title != "" {
		data.Title = "ccdbench: " + title
	}
	for _, g := range methodGroups(t.Columns) {
		data.Groups = append(data.Groups, htmlGroup{Label: g.label, Span: g.span})
	}
	for _, c := range t.Columns {
		if c.Metric != "" {
			data.TwoLevel = true
		}
	}
	for _, c := range t.Columns {
		if data.TwoLevel {
			data.Metrics = append(data.Metrics, c.Metric.Short())
		} else {
			data.Metrics = append(data.Metrics, c.Label)
		}
	}
	for _, row := range t.Rows {
		data.Rows = append(data.Rows, Fields(t, row))
	}
	for _, row := range t.Footer {
		data.Footer = append(data.Footer, Fields(t, row))
	}
	return htmlReportTemplate.Execute(w, data)
}

var htmlReportTemplate = template.Must(template.New("table-report").Parse(htmlReportTemplateHTML))

const htmlReportTemplateHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{ .Title }}</title>
  <link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/bootstrap@5.3.3/dist/css/bootstrap.min.css">
  <style>
    :root {
      --primary: #334155;
      --accent: #3B82F6;
      --light: #F1F5F9;
      --text: #0F172A;
      --border: #E2E8F0;
    }
    body { background-color: var(--light); color: var(--text); }
    .navbar-dark { background-color: var(--primary) !important; }
    .table thead th { cursor: pointer; text-align: center; }
    .table td { font-variant-numeric: tabular-nums; text-align: right; }
    .table td:first-child { text-align: left; }
    .table tfoot td { font-weight: 600; border-top: 2px solid var(--accent); }
  </style>
</head>
<body>
  <nav class="navbar navbar-dark mb-4">
    <div class="container-fluid"><span class="navbar-brand">{{ .Title }}</span></div>
  </nav>
  <main class="container-fluid">
    <div class="card">
      <div class="card-body table-responsive">
        <table class="table table-sm table-striped table-bordered" id="results">
          <thead>
            {{- if .TwoLevel }}
            <tr>
              <th colspan="2"></th>
              {{- range .Groups }}
              <th colspan="{{ .Span }}">{{ .Label }}</th>
              {{- end }}
            </tr>
            {{- end }}
            <tr>
              <th data-col="0">{{ .RowHeader }}</th>
              <th data-col="1">n</th>
              {{- range $i, $m := .Metrics }}
              <th>{{ $m }}</th>
              {{- end }}
            </tr>
          </thead>
          <tbody>
            {{- range $i, $r := .Rows }}
            <tr data-row="{{ $i }}">{{ range $r }}<td>{{ . }}</td>{{ end }}</tr>
            {{- end }}
          </tbody>
          {{- if .Footer }}
          <tfoot>
            {{- range .Footer }}
            <tr>{{ range . }}<td>{{ . }}</td>{{ end }}</tr>
            {{- end }}
          </tfoot>
          {{- end }}
        </table>
      </div>
    </div>
  </main>
  <script>
    const tableData = {{ .TableJSON }};
    // Sort keys come from the raw table, not the formatted text: NA and
    // no-data cells are null and sort last.
    const sortKey = (row, idx) => {
      const r = tableData.rows[row];
      if (idx === 0) return r.label;
      if (idx === 1) return r.queries;
      const c = r.cells[idx - 2];
      return c.na || c.no_data ? null : c.value;
    };
    document.querySelectorAll('#results thead tr:last-child th').forEach((th, idx) => {
      th.addEventListener('click', () => {
        const body = document.querySelector('#results tbody');
        const rows = Array.from(body.rows);
        const asc = th.dataset.dir !== 'asc';
        th.dataset.dir = asc ? 'asc' : 'desc';
        rows.sort((a, b) => {
          const x = sortKey(+a.dataset.row, idx), y = sortKey(+b.dataset.row, idx);
          if (x === null || y === null) return (x === null) - (y === null);
          const cmp = typeof x === 'string' ? x.localeCompare(y) : x - y;
          return asc ? cmp : -cmp;
        });
        rows.forEach(r => body.appendChild(r));
      });
    });
  </script>
</body>
</html>
`
