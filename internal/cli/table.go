package ccdbench

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Continuous-Collision-Detection/CCD-Wrapper/internal/aggregate"
	"github.com/Continuous-Collision-Detection/CCD-Wrapper/internal/logging"
	"github.com/Continuous-Collision-Detection/CCD-Wrapper/internal/record"
	"github.com/Continuous-Collision-Detection/CCD-Wrapper/internal/render"
	"github.com/Continuous-Collision-Detection/CCD-Wrapper/internal/suite"
	"github.com/Continuous-Collision-Detection/CCD-Wrapper/internal/table"
)

type tableOptions struct {
	methods  []string
	output   string
	summary  bool
	byMetric bool
}

func newTableCmd(a *app) *cobra.Command {
	var opts tableOptions
	cmd := &cobra.Command{
		Use:   "table",
		Short: "Render the per-scene benchmark table",
		Long: `Build the scene-by-method table for one collision type and dataset,
optionally with a query-weighted summary row, and render it as LaTeX, text,
CSV, JSON or HTML.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTable(cmd, opts)
		},
	}
	f := cmd.Flags()
	f.StringSliceVarP(&opts.methods, "methods", "m", nil, "methods in column order (default every plain method)")
	f.String("threshold", "", "separation distance for distance-keyed results (default \"1e-08\")")
	f.StringP("format", "f", "", "output format: "+strings.Join(render.Formats(), ", ")+" (default \"text\")")
	f.StringVarP(&opts.output, "output", "o", "", "write to file instead of stdout")
	f.BoolVar(&opts.summary, "summary", false, "append the weighted summary row")
	f.BoolVar(&opts.byMetric, "by-metric", false, "render only the summary, one row per metric")
	return cmd
}

func (a *app) runTable(cmd *cobra.Command, opts tableOptions) error {
	renderer, err := render.New(a.cfg.OutputFormat())
	if err != nil {
		return err
	}
	t, s, err := a.buildTable(cmd.ErrOrStderr(), opts.methods, opts.summary || opts.byMetric)
	if err != nil {
		return err
	}
	if opts.byMetric {
		t = s.ByMetric()
		t.Title = fmt.Sprintf("%s summary", a.ct.Title())
	}
	return writeOutput(opts.output, cmd.OutOrStdout(), func(w io.Writer) error {
		return renderer.Render(w, t)
	})
}

// buildTable loads the records the selected methods need and builds their
// table. With summary set, the returned table carries the summary footer.
func (a *app) buildTable(debug io.Writer, methodNames []string, summary bool) (*table.Table, *aggregate.Summary, error) {
	methods, err := a.suite.Select(methodNames)
	if err != nil {
		return nil, nil, err
	}
	kind, err := kindFor(methods)
	if err != nil {
		return nil, nil, err
	}
	sel, err := table.NewSelector(a.cfg.ThresholdKey())
	if err != nil {
		return nil, nil, err
	}
	recs, err := a.loadRecords(debug, kind)
	if err != nil {
		return nil, nil, err
	}

	t, err := table.Build(recs, methods, sel)
	if err != nil {
		return nil, nil, err
	}
	t.CollisionType = a.ct
	if !summary {
		return t, nil, nil
	}

	t, s, err := aggregate.WithSummary(t)
	if err != nil {
		return nil, nil, err
	}
	if err := s.Err(); err != nil {
		logging.Warn("%s %s: %v", a.ct, a.dataset, err)
	}
	return t, s, nil
}

// kindFor picks the record file holding every method. Minimum-separation
// methods live in their own file, so the two kinds cannot share a table.
func kindFor(methods []suite.Method) (record.Kind, error) {
	minSep := 0
	for _, m := range methods {
		if m.MinSeparation {
			minSep++
		}
	}
	switch minSep {
	case 0:
		return record.Benchmark, nil
	case len(methods):
		return record.MinSeparation, nil
	default:
		return "", fmt.Errorf("cannot mix minimum-separation and plain methods in one table")
	}
}
