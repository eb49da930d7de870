package queries

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ErrNoRoundingData means no rounding errors were recorded.
var ErrNoRoundingData = errors.New("no rounding errors recorded")

// ErrorStats summarizes the rounding error of one scene.
type ErrorStats struct {
	Count int
	// MaxAbs is the infinity norm of the errors.
	MaxAbs float64
	Mean   float64
}

// SummarizeErrors computes the infinity norm and mean of errs.
func SummarizeErrors(errs []float64) (ErrorStats, error) {
	if len(errs) == 0 {
		return ErrorStats{}, ErrNoRoundingData
	}
	return ErrorStats{
		Count:  len(errs),
		MaxAbs: floats.Norm(errs, math.Inf(1)),
		Mean:   stat.Mean(errs, nil),
	}, nil
}
