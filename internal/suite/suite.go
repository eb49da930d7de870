// Package suite describes which scenes and CCD methods a report covers.
package suite

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultManifest []byte

// AllDatasets selects the union of every dataset in the suite.
const AllDatasets = "all"

// Suite is the parsed scene/method manifest.
type Suite struct {
	Datasets  map[string][]string `yaml:"datasets"`
	Methods   []Method            `yaml:"methods"`
	Distances []string            `yaml:"distances"`
}

// Method describes one CCD method as it appears in benchmark records.
type Method struct {
	Name         string `yaml:"name"`
	Abbreviation string `yaml:"abbreviation"`
	// Exact methods are ground truth: false positive/negative counts do not apply.
	Exact         bool `yaml:"exact"`
	MinSeparation bool `yaml:"min_separation"`
}

// Label returns the abbreviation, or the name when none is set.
func (m Method) Label() string {
	if m.Abbreviation != "" {
		return m.Abbreviation
	}
	return m.Name
}

// Default returns the embedded manifest.
func Default() *Suite {
	s, err := Parse(defaultManifest)
	if err != nil {
		panic(fmt.Sprintf("embedded suite manifest: %v", err))
	}
	return s
}

// LoadFromFile reads a manifest from path. An empty path yields Default.
func LoadFromFile(path string) (*Suite, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read suite file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Suite, error) {
	var s Suite
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse suite YAML: %w", err)
	}
	if err := validate(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

func validate(s *Suite) error {
	if len(s.Methods) == 0 {
		return fmt.Errorf("suite has no methods")
	}
	seen := make(map[string]bool, len(s.Methods))
	for i, m := range s.Methods {
		if m.Name == "" {
			return fmt.Errorf("method at index %d has no name", i)
		}
		if seen[m.Name] {
			return fmt.Errorf("method %q listed twice", m.Name)
		}
		seen[m.Name] = true
	}
	if _, ok := s.Datasets[AllDatasets]; ok {
		return fmt.Errorf("dataset name %q is reserved", AllDatasets)
	}
	for name, scenes := range s.Datasets {
		if len(scenes) == 0 {
			return fmt.Errorf("dataset %q has no scenes", name)
		}
	}
	for _, d := range s.Distances {
		if _, err := strconv.ParseFloat(d, 64); err != nil {
			return fmt.Errorf("distance %q is not a number", d)
		}
	}
	return nil
}

// DatasetNames returns dataset names in sorted order.
func (s *Suite) DatasetNames() []string {
	names := make([]string, 0, len(s.Datasets))
	for name := range s.Datasets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Scenes returns the scene set for a dataset. AllDatasets and "" return the
// union of every dataset.
func (s *Suite) Scenes(dataset string) ([]string, error) {
	if dataset == "" || dataset == AllDatasets {
		var all []string
		for _, name := range s.DatasetNames() {
			all = append(all, s.Datasets[name]...)
		}
		sort.Strings(all)
		return all, nil
	}
	scenes, ok := s.Datasets[dataset]
	if !ok {
		return nil, fmt.Errorf("unknown dataset %q (known: %s)", dataset, strings.Join(s.DatasetNames(), ", "))
	}
	out := append([]string(nil), scenes...)
	sort.Strings(out)
	return out, nil
}

// Method looks up a method by name.
func (s *Suite) Method(name string) (Method, bool) {
	for _, m := range s.Methods {
		if m.Name == name {
			return m, true
		}
	}
	return Method{}, false
}

// Select resolves method names in the given order. No names selects every
// method that is not a minimum-separation method, mirroring the plain CCD report.
func (s *Suite) Select(names []string) ([]Method, error) {
	if len(names) == 0 {
		var out []Method
		for _, m := range s.Methods {
			if !m.MinSeparation {
				out = append(out, m)
			}
		}
		return out, nil
	}
	out := make([]Method, 0, len(names))
	for _, name := range names {
		m, ok := s.Method(strings.TrimSpace(name))
		if !ok {
			return nil, fmt.Errorf("unknown method %q", name)
		}
		out = append(out, m)
	}
	return out, nil
}

// MinSeparationMethods returns the methods that report per-distance results.
func (s *Suite) MinSeparationMethods() []Method {
	var out []Method
	for _, m := range s.Methods {
		if m.MinSeparation {
			out = append(out, m)
		}
	}
	return out
}
