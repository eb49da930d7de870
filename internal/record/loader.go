package record

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Continuous-Collision-Detection/CCD-Wrapper/internal/logging"
)

// Load reads the kind record of collision type ct for every immediate
// subdirectory of dataDir whose name is in scenes. A nil scenes slice selects
// every subdirectory. Scenes without the collision-type folder or record file
// are skipped with a warning. Records are returned sorted by scene name.
func Load(dataDir string, ct CollisionType, scenes []string, kind Kind) ([]Record, error) {
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		return nil, fmt.Errorf("read data directory %s: %w", dataDir, err)
	}

	var wanted map[string]bool
	if scenes != nil {
		wanted = make(map[string]bool, len(scenes))
		for _, s := range scenes {
			wanted[s] = true
		}
	}

	found := make(map[string]bool)
	var records []Record
	// os.ReadDir returns entries sorted by name.
	for _, entry := range entries {
		name := entry.Name()
		if wanted != nil && !wanted[name] {
			continue
		}
		info, err := os.Stat(filepath.Join(dataDir, name))
		if err != nil || !info.IsDir() {
			continue
		}
		found[name] = true

		path := filepath.Join(dataDir, name, string(ct), string(kind))
		rec, err := LoadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			logging.Warn("missing %s", path)
			continue
		}
		if err != nil {
			return nil, err
		}
		rec.Scene = name
		rec.CollisionType = ct
		records = append(records, rec)
	}

	for _, s := range scenes {
		if !found[s] {
			logging.Warn("missing scene directory %s", filepath.Join(dataDir, s))
		}
	}
	return records, nil
}

// LoadFile reads and decodes a single record file. The file is closed before
// LoadFile returns.
func LoadFile(path string) (Record, error) {
	data, err := readAll(path)
	if err != nil {
		return Record{}, err
	}
	rec, err := Decode(data)
	if err != nil {
		return Record{}, fmt.Errorf("%s: %w", path, err)
	}
	rec.Path = path
	return rec, nil
}

func readAll(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}
