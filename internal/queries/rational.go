package queries

import (
	"encoding/csv"
	"fmt"
	"io"
	"math/big"
	"os"
	"strings"
)

// ReadRationalCSV loads a rational CSV container. Each line is
// x_num,x_den,y_num,y_den,z_num,z_den,result and every eight lines form one
// query; the query's result is taken from its first line.
func ReadRationalCSV(path string) (*Set, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	set, err := ParseRationalCSV(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	set.Path = path
	return set, nil
}

// ParseRationalCSV parses rational CSV rows from r.
func ParseRationalCSV(r io.Reader) (*Set, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 7
	reader.TrimLeadingSpace = true

	set := &Set{HasResults: true}
	var current Query
	line := 0
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}

		vertex := line % PointsPerQuery
		for axis := 0; axis < 3; axis++ {
			v, err := parseRational(fields[2*axis], fields[2*axis+1])
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrMalformed, line+1, err)
			}
			current.Points[vertex][axis] = v
		}
		if vertex == 0 {
			hit, err := parseResult(fields[6])
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrMalformed, line+1, err)
			}
			current.Result = hit
		}
		if vertex == PointsPerQuery-1 {
			set.Queries = append(set.Queries, current)
			current = Query{}
		}
		line++
	}
	if line%PointsPerQuery != 0 {
		return nil, fmt.Errorf("%w: %d lines is not a multiple of %d", ErrMalformed, line, PointsPerQuery)
	}
	return set, nil
}

func parseRational(num, den string) (float64, error) {
	r, ok := new(big.Rat).SetString(strings.TrimSpace(num) + "/" + strings.TrimSpace(den))
	if !ok {
		return 0, fmt.Errorf("invalid rational %s/%s", num, den)
	}
	f, _ := r.Float64()
	return f, nil
}

func parseResult(s string) (bool, error) {
	switch strings.TrimSpace(s) {
	case "1", "true":
		return true, nil
	case "0", "false":
		return false, nil
	default:
		return false, fmt.Errorf("invalid result %q", s)
	}
}
