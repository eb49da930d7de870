// Package record reads the per-scene benchmark records written by the CCD
// benchmark producer.
package record

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// CollisionType names the primitive pair a record covers.
type CollisionType string

const (
	VertexFace CollisionType = "vertex-face"
	EdgeEdge   CollisionType = "edge-edge"
)

// CollisionTypes lists every collision type in report order.
var CollisionTypes = []CollisionType{VertexFace, EdgeEdge}

// ParseCollisionType accepts the folder names and the producer's short forms.
func ParseCollisionType(s string) (CollisionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "vertex-face", "vf":
		return VertexFace, nil
	case "edge-edge", "ee":
		return EdgeEdge, nil
	default:
		names := make([]string, len(CollisionTypes))
		for i, ct := range CollisionTypes {
			names[i] = string(ct)
		}
		return "", fmt.Errorf("unknown collision type %q (want %s)", s, strings.Join(names, " or "))
	}
}

// Title returns the display form, e.g. "Vertex-Face".
func (c CollisionType) Title() string {
	parts := strings.Split(string(c), "-")
	for i, p := range parts {
		if p != "" {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, "-")
}

// Kind selects which record file is read from a scene folder.
type Kind string

const (
	Benchmark     Kind = "benchmark.json"
	MinSeparation Kind = "min-separation-benchmark.json"
)

// ErrInvalidRecord reports a record file that does not match the record schema.
var ErrInvalidRecord = errors.New("invalid benchmark record")

// Metrics is one method's measurement bundle.
type Metrics struct {
	AvgQueryTime float64 `json:"avg_query_time"`
	// nil when the producer did not write the count.
	FalsePositives    *int     `json:"num_false_positives,omitempty"`
	FalseNegatives    *int     `json:"num_false_negatives,omitempty"`
	PeakMemory        *float64 `json:"peak_memory,omitempty"`
	RootFinderPercent *float64 `json:"root_finder_percent,omitempty"`
	PhiPercent        *float64 `json:"phi_percent,omitempty"`
}

// MethodResult holds either a single Metrics bundle or one bundle per
// separation distance.
type MethodResult struct {
	Direct     *Metrics
	ByDistance map[string]Metrics
}

// Keyed reports whether the result is split by separation distance.
func (r MethodResult) Keyed() bool {
	return r.Direct == nil
}

func (r *MethodResult) UnmarshalJSON(data []byte) error {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	if _, ok := probe["avg_query_time"]; ok {
		var m Metrics
		if err := json.Unmarshal(data, &m); err != nil {
			return err
		}
		r.Direct = &m
		r.ByDistance = nil
		return nil
	}

	byDistance := make(map[string]Metrics, len(probe))
	for key, raw := range probe {
		var m Metrics
		if err := json.Unmarshal(raw, &m); err != nil {
			return fmt.Errorf("distance %q: %w", key, err)
		}
		byDistance[key] = m
	}
	r.Direct = nil
	r.ByDistance = byDistance
	return nil
}

func (r MethodResult) MarshalJSON() ([]byte, error) {
	if r.Direct != nil {
		return json.Marshal(r.Direct)
	}
	return json.Marshal(r.ByDistance)
}

// Distance is one entry of a distance-keyed result.
type Distance struct {
	Key     string
	Value   float64
	Metrics Metrics
}

// Distances returns the numeric distance entries in ascending order. Keys that
// do not parse as numbers are ignored.
func (r MethodResult) Distances() []Distance {
	out := make([]Distance, 0, len(r.ByDistance))
	for key, m := range r.ByDistance {
		v, err := strconv.ParseFloat(key, 64)
		if err != nil || math.IsNaN(v) {
			continue
		}
		out = append(out, Distance{Key: key, Value: v, Metrics: m})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Value < out[j].Value })
	return out
}

// Lookup finds the entry whose key is numerically equal to distance, so "1e-8"
// and "1e-08" select the same entry.
func (r MethodResult) Lookup(distance float64) (Metrics, bool) {
	for _, d := range r.Distances() {
		if d.Value == distance {
			return d.Metrics, true
		}
	}
	return Metrics{}, false
}

// Record is one scene's benchmark file for one collision type.
type Record struct {
	Scene         string                  `json:"scene"`
	CollisionType CollisionType           `json:"collision_type"`
	Path          string                  `json:"-"`
	NumQueries    int                     `json:"num_queries"`
	Methods       map[string]MethodResult `json:"methods"`
}

// MethodNames returns the method keys present in the record, sorted.
func (r Record) MethodNames() []string {
	names := make([]string, 0, len(r.Methods))
	for name := range r.Methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// reservedKeys are top-level record fields that are not methods.
var reservedKeys = map[string]bool{
	"num_queries":    true,
	"collision_type": true,
}

// Decode validates data against the record schema and decodes it.
func Decode(data []byte) (Record, error) {
	if err := Validate(data); err != nil {
		return Record{}, err
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}

	var rec Record
	if err := json.Unmarshal(top["num_queries"], &rec.NumQueries); err != nil {
		return Record{}, fmt.Errorf("%w: num_queries: %v", ErrInvalidRecord, err)
	}

	rec.Methods = make(map[string]MethodResult, len(top))
	for key, raw := range top {
		if reservedKeys[key] {
			continue
		}
		var mr MethodResult
		if err := json.Unmarshal(raw, &mr); err != nil {
			return Record{}, fmt.Errorf("%w: method %q: %v", ErrInvalidRecord, key, err)
		}
		rec.Methods[key] = mr
	}
	return rec, nil
}
