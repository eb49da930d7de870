package ccdbench

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/Continuous-Collision-Detection/CCD-Wrapper/internal/queries"
	"github.com/Continuous-Collision-Detection/CCD-Wrapper/internal/queries/h5"
)

// readers returns every container reader this build supports.
func readers() queries.Readers {
	return h5.Register(queries.DefaultReaders())
}

func summaryTable(headers ...string) *ltable.Table {
	return ltable.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...)
}

func newQueriesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "queries",
		Short: "Count the queries stored for each scene",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			scenes, err := a.scenes()
			if err != nil {
				return err
			}
			counts, err := queries.Scan(a.cfg.DataDirPath(), a.ct, scenes, readers())
			if err != nil {
				return err
			}

			t := summaryTable("Scene", "Files", "Queries", "Positives")
			var total queries.SceneCount
			for _, c := range counts {
				t.Row(c.Scene, fmt.Sprint(c.Files), fmt.Sprint(c.Queries), fmt.Sprint(c.Positives))
				total.Files += c.Files
				total.Queries += c.Queries
				total.Positives += c.Positives
			}
			t.Row("Total", fmt.Sprint(total.Files), fmt.Sprint(total.Queries), fmt.Sprint(total.Positives))
			fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			return nil
		},
	}
}

func newRoundingCmd(a *app) *cobra.Command {
	var filter string
	cmd := &cobra.Command{
		Use:   "rounding",
		Short: "Summarize the rounding error recorded in query containers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			scenes, err := queries.RoundingErrors(a.cfg.DataDirPath(), a.ct, filter, readers())
			if err != nil {
				return err
			}
			if len(scenes) == 0 {
				return fmt.Errorf("%w under %s", queries.ErrNoRoundingData, a.cfg.DataDirPath())
			}

			t := summaryTable("Scene", "Queries", "Max |err|", "Mean err")
			var all []float64
			for _, s := range scenes {
				t.Row(s.Scene, fmt.Sprint(s.Stats.Count), fmt.Sprintf("%.3e", s.Stats.MaxAbs), fmt.Sprintf("%.3e", s.Stats.Mean))
				all = append(all, s.Errors...)
			}
			total, err := queries.SummarizeErrors(all)
			if err != nil {
				return err
			}
			t.Row("Total", fmt.Sprint(total.Count), fmt.Sprintf("%.3e", total.MaxAbs), fmt.Sprintf("%.3e", total.Mean))
			fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			return nil
		},
	}
	cmd.Flags().StringVar(&filter, "filter", "", "only scenes whose name contains this")
	return cmd
}
