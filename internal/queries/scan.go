package queries

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Continuous-Collision-Detection/CCD-Wrapper/internal/logging"
	"github.com/Continuous-Collision-Detection/CCD-Wrapper/internal/record"
)

// SceneCount is the query inventory of one scene folder.
type SceneCount struct {
	Scene     string
	Files     int
	Queries   int
	Positives int
}

// Scan counts queries and ground-truth positives in every readable container
// under <dataDir>/<scene>/<ct> for the given scenes (nil selects all). Files
// without a registered reader are ignored.
func Scan(dataDir string, ct record.CollisionType, scenes []string, readers Readers) ([]SceneCount, error) {
	var out []SceneCount
	err := eachContainer(dataDir, ct, scenes, readers, func(scene string, set *Set) {
		if n := len(out); n == 0 || out[n-1].Scene != scene {
			out = append(out, SceneCount{Scene: scene})
		}
		c := &out[len(out)-1]
		c.Files++
		c.Queries += len(set.Queries)
		c.Positives += set.Positives()
	})
	return out, err
}

// SceneErrors is the rounding error summary of one scene.
type SceneErrors struct {
	Scene  string
	Errors []float64
	Stats  ErrorStats
}

// RoundingErrors collects the recorded rounding errors of every scene whose
// name contains filter (empty matches all). Scenes without rounding data are
// left out.
func RoundingErrors(dataDir string, ct record.CollisionType, filter string, readers Readers) ([]SceneErrors, error) {
	byScene := make(map[string][]float64)
	var order []string
	err := eachContainer(dataDir, ct, nil, readers, func(scene string, set *Set) {
		if !strings.Contains(scene, filter) || len(set.RoundingErrors) == 0 {
			return
		}
		if _, ok := byScene[scene]; !ok {
			order = append(order, scene)
		}
		byScene[scene] = append(byScene[scene], set.RoundingErrors...)
	})
	if err != nil {
		return nil, err
	}

	out := make([]SceneErrors, 0, len(order))
	for _, scene := range order {
		stats, err := SummarizeErrors(byScene[scene])
		if err != nil {
			return nil, fmt.Errorf("scene %s: %w", scene, err)
		}
		out = append(out, SceneErrors{Scene: scene, Errors: byScene[scene], Stats: stats})
	}
	return out, nil
}

// eachContainer visits scenes in name order and their containers in file
// name order. Each container is read, and closed, before the next is opened.
func eachContainer(dataDir string, ct record.CollisionType, scenes []string, readers Readers, visit func(scene string, set *Set)) error {
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		return fmt.Errorf("read data directory %s: %w", dataDir, err)
	}
	var wanted map[string]bool
	if scenes != nil {
		wanted = make(map[string]bool, len(scenes))
		for _, s := range scenes {
			wanted[s] = true
		}
	}

	for _, entry := range entries {
		scene := entry.Name()
		if !entry.IsDir() || (wanted != nil && !wanted[scene]) {
			continue
		}
		dir := filepath.Join(dataDir, scene, string(ct))
		files, err := os.ReadDir(dir)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return err
		}
		names := make([]string, 0, len(files))
		for _, f := range files {
			if !f.IsDir() {
				names = append(names, f.Name())
			}
		}
		sort.Strings(names)

		for _, name := range names {
			path := filepath.Join(dir, name)
			read, ok := readers.For(path)
			if !ok {
				continue
			}
			set, err := read(path)
			if err != nil {
				return err
			}
			logging.LogEvent("read %d queries from %s", len(set.Queries), path)
			visit(scene, set)
		}
	}
	return nil
}
