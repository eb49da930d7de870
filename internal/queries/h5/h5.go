// Package h5 reads HDF5 query containers. It needs cgo and libhdf5.
package h5

import (
	"fmt"

	"gonum.org/v1/hdf5"

	"github.com/Continuous-Collision-Detection/CCD-Wrapper/internal/queries"
)

// Register adds the HDF5 reader for .hdf5 and .h5 files.
func Register(r queries.Readers) queries.Readers {
	r[".hdf5"] = Read
	r[".h5"] = Read
	return r
}

// Read loads either the per-query layout (one group per query holding points,
// result and optionally shifted/{points,result,error}) or the packed layout
// (points, result and optionally rounded/{points,result,error} at the root).
func Read(path string) (*queries.Set, error) {
	file, err := hdf5.OpenFile(path, hdf5.F_ACC_RDONLY)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	var set *queries.Set
	if file.LinkExists("points") {
		set, err = readPacked(file)
	} else {
		set, err = readGrouped(file)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	set.Path = path
	return set, nil
}

func readPacked(file *hdf5.File) (*queries.Set, error) {
	points, err := readFloats(&file.CommonFG, "points")
	if err != nil {
		return nil, err
	}
	if len(points)%(queries.PointsPerQuery*3) != 0 {
		return nil, fmt.Errorf("%w: %d point values", queries.ErrMalformed, len(points))
	}
	n := len(points) / (queries.PointsPerQuery * 3)
	set := &queries.Set{Queries: make([]queries.Query, n)}
	for i := range set.Queries {
		fillPoints(&set.Queries[i], points[i*queries.PointsPerQuery*3:])
	}

	if file.LinkExists("result") {
		results, err := readBytes(&file.CommonFG, "result")
		if err != nil {
			return nil, err
		}
		if len(results) != n {
			return nil, fmt.Errorf("%w: %d results for %d queries", queries.ErrMalformed, len(results), n)
		}
		for i, r := range results {
			set.Queries[i].Result = r != 0
		}
		set.HasResults = true
	}

	if file.LinkExists("rounded") {
		grp, err := file.OpenGroup("rounded")
		if err != nil {
			return nil, err
		}
		defer grp.Close()
		if grp.LinkExists("error") {
			if set.RoundingErrors, err = readFloats(&grp.CommonFG, "error"); err != nil {
				return nil, err
			}
		}
	}
	return set, nil
}

func readGrouped(file *hdf5.File) (*queries.Set, error) {
	count, err := file.NumObjects()
	if err != nil {
		return nil, err
	}
	set := &queries.Set{HasResults: count > 0}
	for i := uint(0); i < count; i++ {
		name, err := file.ObjectNameByIndex(i)
		if err != nil {
			return nil, err
		}
		q, hasResult, shiftErr, err := readQueryGroup(file, name)
		if err != nil {
			return nil, fmt.Errorf("query %s: %w", name, err)
		}
		set.Queries = append(set.Queries, q)
		set.HasResults = set.HasResults && hasResult
		if shiftErr != nil {
			set.RoundingErrors = append(set.RoundingErrors, *shiftErr)
		}
	}
	return set, nil
}

func readQueryGroup(file *hdf5.File, name string) (queries.Query, bool, *float64, error) {
	var q queries.Query
	grp, err := file.OpenGroup(name)
	if err != nil {
		return q, false, nil, err
	}
	defer grp.Close()

	points, err := readFloats(&grp.CommonFG, "points")
	if err != nil {
		return q, false, nil, err
	}
	if len(points) != queries.PointsPerQuery*3 {
		return q, false, nil, fmt.Errorf("%w: %d point values", queries.ErrMalformed, len(points))
	}
	fillPoints(&q, points)

	hasResult := grp.LinkExists("result")
	if hasResult {
		r, err := readBytes(&grp.CommonFG, "result")
		if err != nil {
			return q, false, nil, err
		}
		q.Result = len(r) > 0 && r[0] != 0
	}

	if !grp.LinkExists("shifted") {
		return q, hasResult, nil, nil
	}
	shifted, err := grp.OpenGroup("shifted")
	if err != nil {
		return q, false, nil, err
	}
	defer shifted.Close()
	if !shifted.LinkExists("error") {
		return q, hasResult, nil, nil
	}
	errs, err := readFloats(&shifted.CommonFG, "error")
	if err != nil {
		return q, false, nil, err
	}
	if len(errs) == 0 {
		return q, hasResult, nil, nil
	}
	return q, hasResult, &errs[0], nil
}

func fillPoints(q *queries.Query, values []float64) {
	for v := 0; v < queries.PointsPerQuery; v++ {
		for axis := 0; axis < 3; axis++ {
			q.Points[v][axis] = values[3*v+axis]
		}
	}
}

func readFloats(loc *hdf5.CommonFG, name string) ([]float64, error) {
	ds, n, err := openDataset(loc, name)
	if err != nil {
		return nil, err
	}
	defer ds.Close()
	out := make([]float64, n)
	if n == 0 {
		return out, nil
	}
	if err := ds.Read(&out); err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return out, nil
}

func readBytes(loc *hdf5.CommonFG, name string) ([]uint8, error) {
	ds, n, err := openDataset(loc, name)
	if err != nil {
		return nil, err
	}
	defer ds.Close()
	out := make([]uint8, n)
	if n == 0 {
		return out, nil
	}
	if err := ds.Read(&out); err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return out, nil
}

// openDataset opens name and returns its element count. Scalar datasets have
// one element.
func openDataset(loc *hdf5.CommonFG, name string) (*hdf5.Dataset, int, error) {
	ds, err := loc.OpenDataset(name)
	if err != nil {
		return nil, 0, fmt.Errorf("open %s: %w", name, err)
	}
	space := ds.Space()
	defer space.Close()
	dims, _, err := space.SimpleExtentDims()
	if err != nil {
		ds.Close()
		return nil, 0, fmt.Errorf("shape of %s: %w", name, err)
	}
	n := 1
	for _, d := range dims {
		n *= int(d)
	}
	return ds, n, nil
}
