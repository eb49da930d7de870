package table

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Continuous-Collision-Detection/CCD-Wrapper/internal/record"
)

// DefaultThreshold is the separation distance the producer uses when looking
// for zero-distance collisions.
const DefaultThreshold = "1e-08"

// ErrThresholdMissing means a distance-keyed result has no entry for the
// selected threshold.
var ErrThresholdMissing = errors.New("threshold missing from record")

// Selector resolves a method result to a single metrics bundle. Un-keyed
// results are used as-is; keyed results must contain an entry numerically
// equal to the selector's threshold.
type Selector struct {
	Key   string
	Value float64
}

// NewSelector parses key. An empty key selects DefaultThreshold.
func NewSelector(key string) (Selector, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		key = DefaultThreshold
	}
	v, err := strconv.ParseFloat(key, 64)
	if err != nil {
		return Selector{}, fmt.Errorf("invalid threshold %q: %w", key, err)
	}
	if v < 0 {
		return Selector{}, fmt.Errorf("invalid threshold %q: must not be negative", key)
	}
	return Selector{Key: key, Value: v}, nil
}

// MustSelector is NewSelector for constant keys.
func MustSelector(key string) Selector {
	s, err := NewSelector(key)
	if err != nil {
		panic(err)
	}
	return s
}

func (s Selector) Select(r record.MethodResult) (record.Metrics, error) {
	if !r.Keyed() {
		return *r.Direct, nil
	}
	m, ok := r.Lookup(s.Value)
	if !ok {
		return record.Metrics{}, fmt.Errorf("%w: %s", ErrThresholdMissing, s.Key)
	}
	return m, nil
}
