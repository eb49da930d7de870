package render

import (
	"encoding/csv"
	"io"

	"github.com/Continuous-Collision-Detection/CCD-Wrapper/internal/table"
)

// CSV writes the flat header followed by body and footer rows.
func CSV(w io.Writer, t *table.Table) error {
	if err := checkShape(t); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(Header(t)); err != nil {
		return err
	}
	for _, row := range AllRows(t) {
		if err := cw.Write(Fields(t, row)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
