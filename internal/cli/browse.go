package ccdbench

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Continuous-Collision-Detection/CCD-Wrapper/internal/table"
	"github.com/Continuous-Collision-Detection/CCD-Wrapper/internal/tui"
)

// startBrowser is replaced in tests.
var startBrowser = tui.Browse

func newBrowseCmd(a *app) *cobra.Command {
	var methods []string
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse the benchmark table and its summary interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, s, err := a.buildTable(cmd.ErrOrStderr(), methods, true)
			if err != nil {
				return err
			}
			t.Title = fmt.Sprintf("%s %s", a.ct.Title(), a.dataset)
			summary := s.ByMetric()
			summary.Title = fmt.Sprintf("%s summary", a.ct.Title())
			return startBrowser([]*table.Table{t, summary})
		},
	}
	cmd.Flags().StringSliceVarP(&methods, "methods", "m", nil, "methods in column order (default every plain method)")
	cmd.Flags().String("threshold", "", "separation distance for distance-keyed results (default \"1e-08\")")
	return cmd
}
