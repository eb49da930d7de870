package record

import (
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

const recordSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["num_queries"],
  "properties": {
    "num_queries": {"type": "integer", "minimum": 1},
    "collision_type": {"type": "string"}
  },
  "additionalProperties": {
    "oneOf": [
      {"$ref": "#/definitions/metrics"},
      {"$ref": "#/definitions/keyed"}
    ]
  },
  "definitions": {
    "count": {
      "oneOf": [
        {"type": "integer", "minimum": 0},
        {"type": "null"}
      ]
    },
    "metrics": {
      "type": "object",
      "required": ["avg_query_time"],
      "properties": {
        "avg_query_time": {"type": "number", "minimum": 0},
        "num_false_positives": {"$ref": "#/definitions/count"},
        "num_false_negatives": {"$ref": "#/definitions/count"},
        "peak_memory": {"type": "number"},
        "root_finder_percent": {"type": "number"},
        "phi_percent": {"type": "number"}
      }
    },
    "keyed": {
      "type": "object",
      "minProperties": 1,
      "not": {"required": ["avg_query_time"]},
      "additionalProperties": {"$ref": "#/definitions/metrics"}
    }
  }
}`

var (
	schemaOnce sync.Once
	schema     *gojsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(recordSchema))
	})
	return schema, schemaErr
}

// Validate checks raw record JSON against the record schema.
func Validate(data []byte) error {
	s, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile record schema: %w", err)
	}

	result, err := s.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	if result.Valid() {
		return nil
	}

	var errs []string
	for _, desc := range result.Errors() {
		errs = append(errs, desc.String())
	}
	return fmt.Errorf("%w: %s", ErrInvalidRecord, strings.Join(errs, ", "))
}
