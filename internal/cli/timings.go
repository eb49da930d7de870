package ccdbench

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Continuous-Collision-Detection/CCD-Wrapper/internal/aggregate"
	"github.com/Continuous-Collision-Detection/CCD-Wrapper/internal/record"
	"github.com/Continuous-Collision-Detection/CCD-Wrapper/internal/table"
)

const defaultTimingMethod = "MinSeparationRootParity"

func newTimingsCmd(a *app) *cobra.Command {
	var method string
	cmd := &cobra.Command{
		Use:   "timings",
		Short: "Break a method's query time down into root finding and separation evaluation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, ok := a.suite.Method(method)
			if !ok {
				return fmt.Errorf("unknown method %q", method)
			}
			kind := record.Benchmark
			if m.MinSeparation {
				kind = record.MinSeparation
			}
			sel, err := table.NewSelector(a.cfg.ThresholdKey())
			if err != nil {
				return err
			}
			recs, err := a.loadRecords(cmd.ErrOrStderr(), kind)
			if err != nil {
				return err
			}
			b, err := aggregate.TimingBreakdown(recs, m.Name, sel)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s, threshold %s): %d scenes, %d queries\n", m.Label(), a.ct.Title(), sel.Key, b.Scenes, b.Queries)
			fmt.Fprintf(out, "  Root finder: %6.2f%%\n", b.RootFinderPercent)
			fmt.Fprintf(out, "  Phi:         %6.2f%%\n", b.PhiPercent)
			fmt.Fprintf(out, "  Other:       %6.2f%%\n", b.Other())
			return nil
		},
	}
	cmd.Flags().StringVar(&method, "method", defaultTimingMethod, "method to break down")
	cmd.Flags().String("threshold", "", "separation distance for distance-keyed results (default \"1e-08\")")
	return cmd
}
