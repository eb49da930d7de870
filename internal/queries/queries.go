// Package queries reads the CCD query containers a benchmark run consumes and
// summarizes the rounding error recorded for them.
package queries

import (
	"errors"
	"path/filepath"
	"strings"
)

// PointsPerQuery is the number of vertices in one query: four at t=0 and four
// at t=1.
const PointsPerQuery = 8

// ErrMalformed reports a container whose shape does not match the query layout.
var ErrMalformed = errors.New("malformed query container")

// Query is one vertex-face or edge-edge CCD query with its ground truth.
type Query struct {
	Points [PointsPerQuery][3]float64
	Result bool
}

// Set is the content of one container file.
type Set struct {
	Path    string
	Queries []Query
	// HasResults is false for containers that store only points.
	HasResults bool
	// RoundingErrors holds one entry per query when the container carries
	// rounded copies of its queries.
	RoundingErrors []float64
}

// Positives counts queries whose ground truth is a collision.
func (s *Set) Positives() int {
	n := 0
	for _, q := range s.Queries {
		if q.Result {
			n++
		}
	}
	return n
}

// Reader loads a container file.
type Reader func(path string) (*Set, error)

// Readers maps a lower-case file extension to its reader.
type Readers map[string]Reader

// DefaultReaders handles the formats readable without cgo.
func DefaultReaders() Readers {
	return Readers{".csv": ReadRationalCSV}
}

// For returns the reader for path's extension.
func (r Readers) For(path string) (Reader, bool) {
	fn, ok := r[strings.ToLower(filepath.Ext(path))]
	return fn, ok
}
