package ccdbench

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Continuous-Collision-Detection/CCD-Wrapper/internal/aggregate"
	"github.com/Continuous-Collision-Detection/CCD-Wrapper/internal/record"
	"github.com/Continuous-Collision-Detection/CCD-Wrapper/internal/render"
	"github.com/Continuous-Collision-Detection/CCD-Wrapper/internal/suite"
)

func newSweepCmd(a *app) *cobra.Command {
	var (
		methods   []string
		distances []string
		output    string
	)
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Summarize minimum-separation methods at every separation distance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			selected, err := a.sweepMethods(methods)
			if err != nil {
				return err
			}
			if len(distances) == 0 {
				distances = a.suite.Distances
			}
			renderer, err := render.New(a.cfg.OutputFormat())
			if err != nil {
				return err
			}
			recs, err := a.loadRecords(cmd.ErrOrStderr(), record.MinSeparation)
			if err != nil {
				return err
			}
			t, err := aggregate.Sweep(recs, selected, distances)
			if err != nil {
				return err
			}
			t.CollisionType = a.ct
			t.Title = fmt.Sprintf("%s separation sweep", a.ct.Title())
			return writeOutput(output, cmd.OutOrStdout(), func(w io.Writer) error {
				return renderer.Render(w, t)
			})
		},
	}
	f := cmd.Flags()
	f.StringSliceVarP(&methods, "methods", "m", nil, "minimum-separation methods (default all)")
	f.StringSliceVar(&distances, "distances", nil, "separation distances (default from the suite)")
	f.StringP("format", "f", "", "output format: "+strings.Join(render.Formats(), ", ")+" (default \"text\")")
	f.StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	return cmd
}

func (a *app) sweepMethods(names []string) ([]suite.Method, error) {
	if len(names) == 0 {
		return a.suite.MinSeparationMethods(), nil
	}
	methods, err := a.suite.Select(names)
	if err != nil {
		return nil, err
	}
	for _, m := range methods {
		if !m.MinSeparation {
			return nil, fmt.Errorf("method %s has no per-distance results", m.Name)
		}
	}
	return methods, nil
}
