package ccdbench

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Continuous-Collision-Detection/CCD-Wrapper/internal/logging"
	"github.com/Continuous-Collision-Detection/CCD-Wrapper/internal/plot"
	"github.com/Continuous-Collision-Detection/CCD-Wrapper/internal/queries"
	"github.com/Continuous-Collision-Detection/CCD-Wrapper/internal/record"
)

func newPlotCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Draw benchmark figures",
	}
	cmd.PersistentFlags().String("out-dir", "", "directory for figures (default \".\")")
	cmd.PersistentFlags().String("ext", plot.DefaultExt, "figure format: pdf, svg, png or eps")
	cmd.AddCommand(newPlotSeparationCmd(a), newPlotRoundingCmd(a))
	return cmd
}

func newPlotSeparationCmd(a *app) *cobra.Command {
	var scene, method string
	cmd := &cobra.Command{
		Use:   "separation",
		Short: "Plot average query time against separation distance for one scene",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			recs, err := record.Load(a.cfg.DataDirPath(), a.ct, []string{scene}, record.MinSeparation)
			if err != nil {
				return err
			}
			if len(recs) == 0 {
				return fmt.Errorf("no %s record for scene %s", record.MinSeparation, scene)
			}
			result, ok := recs[0].Methods[method]
			if !ok || !result.Keyed() {
				return fmt.Errorf("scene %s has no per-distance results for %s", scene, method)
			}

			ext, _ := cmd.Flags().GetString("ext")
			path := plot.FileName(a.cfg.PlotDir(), a.ct, scene, ext)
			title := fmt.Sprintf("%s %s", scene, a.ct.Title())
			if err := plot.SeparationTimings(plot.TimingPoints(result), title, path); err != nil {
				return err
			}
			logging.LogEvent("wrote %s", path)
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().StringVar(&scene, "scene", "", "scene to plot")
	cmd.Flags().StringVar(&method, "method", defaultTimingMethod, "minimum-separation method")
	_ = cmd.MarkFlagRequired("scene")
	return cmd
}

func newPlotRoundingCmd(a *app) *cobra.Command {
	var (
		filter string
		bins   int
	)
	cmd := &cobra.Command{
		Use:   "rounding",
		Short: "Plot a histogram of recorded rounding errors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			scenes, err := queries.RoundingErrors(a.cfg.DataDirPath(), a.ct, filter, readers())
			if err != nil {
				return err
			}
			var errs []float64
			for _, s := range scenes {
				errs = append(errs, s.Errors...)
			}

			ext, _ := cmd.Flags().GetString("ext")
			path := plot.FileName(a.cfg.PlotDir(), a.ct, "rounding-errors", ext)
			title := fmt.Sprintf("%s rounding error", a.ct.Title())
			if err := plot.RoundingHistogram(errs, bins, title, path); err != nil {
				return err
			}
			logging.LogEvent("wrote %s", path)
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().StringVar(&filter, "filter", "", "only scenes whose name contains this")
	cmd.Flags().IntVar(&bins, "bins", 50, "histogram bins")
	return cmd
}
