package render

import (
	"encoding/json"
	"io"

	"github.com/Continuous-Collision-Detection/CCD-Wrapper/internal/table"
)

type jsonDocument struct {
	Title         string         `json:"title,omitempty"`
	CollisionType string         `json:"collision_type,omitempty"`
	Threshold     string         `json:"threshold,omitempty"`
	Header        []string       `json:"header"`
	Columns       []table.Column `json:"columns"`
	Rows          []jsonRow      `json:"rows"`
	Footer        []jsonRow      `json:"footer,omitempty"`
}

type jsonRow struct {
	Label   string `json:"label"`
	Queries int    `json:"queries"`
	// Values are null for NA and no-data cells.
	Values []*float64 `json:"values"`
	Text   []string   `json:"text"`
}

// JSON writes the table with both raw values and their formatted text.
func JSON(w io.Writer, t *table.Table) error {
	if err := checkShape(t); err != nil {
		return err
	}
	doc := jsonDocument{
		Title:         t.Title,
		CollisionType: string(t.CollisionType),
		Threshold:     t.Threshold,
		Header:        Header(t),
		Columns:       t.Columns,
		Rows:          jsonRows(t, t.Rows),
		Footer:        jsonRows(t, t.Footer),
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func jsonRows(t *table.Table, rows []table.Row) []jsonRow {
	out := make([]jsonRow, 0, len(rows))
	for _, row := range rows {
		jr := jsonRow{Label: row.Label, Queries: row.Queries, Values: make([]*float64, len(row.Cells))}
		for i, c := range row.Cells {
			if !c.NA && !c.NoData {
				v := c.Value
				jr.Values[i] = &v
			}
		}
		jr.Text = Fields(t, row)[2:]
		out = append(out, jr)
	}
	return out
}
