package aggregate

import (
	"fmt"

	"github.com/Continuous-Collision-Detection/CCD-Wrapper/internal/record"
	"github.com/Continuous-Collision-Detection/CCD-Wrapper/internal/table"
)

// Breakdown is the share of a minimum-separation method's query time spent in
// the root finder and in evaluating the separation function.
type Breakdown struct {
	Method            string
	Scenes            int
	Queries           int
	RootFinderPercent float64
	PhiPercent        float64
}

// Other is the remaining share of query time.
func (b Breakdown) Other() float64 {
	return 100 - b.RootFinderPercent - b.PhiPercent
}

// TimingBreakdown computes the query-weighted mean of root_finder_percent and
// phi_percent for method across records.
func TimingBreakdown(records []record.Record, method string, sel table.Selector) (Breakdown, error) {
	b := Breakdown{Method: method, Scenes: len(records)}
	weights := make([]float64, 0, len(records))
	rootFinder := make([]float64, 0, len(records))
	phi := make([]float64, 0, len(records))

	for _, rec := range records {
		result, ok := rec.Methods[method]
		if !ok {
			return Breakdown{}, fmt.Errorf("scene %s: %w: %s", rec.Scene, table.ErrMissingMethod, method)
		}
		m, err := sel.Select(result)
		if err != nil {
			return Breakdown{}, fmt.Errorf("scene %s: %w", rec.Scene, err)
		}
		if m.RootFinderPercent == nil {
			return Breakdown{}, fmt.Errorf("scene %s: %w: root_finder_percent", rec.Scene, table.ErrMissingMetric)
		}
		if m.PhiPercent == nil {
			return Breakdown{}, fmt.Errorf("scene %s: %w: phi_percent", rec.Scene, table.ErrMissingMetric)
		}
		weights = append(weights, float64(rec.NumQueries))
		rootFinder = append(rootFinder, *m.RootFinderPercent)
		phi = append(phi, *m.PhiPercent)
		b.Queries += rec.NumQueries
	}

	var err error
	if b.RootFinderPercent, err = WeightedMean(rootFinder, weights); err != nil {
		return Breakdown{}, fmt.Errorf("%s root finder share: %w", method, err)
	}
	if b.PhiPercent, err = WeightedMean(phi, weights); err != nil {
		return Breakdown{}, fmt.Errorf("%s phi share: %w", method, err)
	}
	return b, nil
}
