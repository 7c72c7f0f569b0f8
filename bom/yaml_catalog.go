package bom

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

const catalogSchemaURL = "isopipe://catalog.schema.json"

// catalogSchema describes a YAML pricing catalog:
//
//	materials:
//	  CS:   {unit_cost: 12.5, weight_per_unit_length: 8.6}
//	  SS316: {unit_cost: 41, weight_per_unit_length: 8.9}
const catalogSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["materials"],
  "properties": {
    "materials": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "properties": {
          "unit_cost": {"type": "number", "minimum": 0},
          "weight_per_unit_length": {"type": "number", "minimum": 0}
        },
        "additionalProperties": false
      }
    }
  },
  "additionalProperties": false
}`

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func loadCatalogSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiledSchema, schemaErr = jsonschema.CompileString(catalogSchemaURL, catalogSchema)
	})
	return compiledSchema, schemaErr
}

type catalogFile struct {
	Materials map[string]Price `json:"materials"`
}

// ParseYAMLCatalog validates raw YAML against the catalog schema and decodes it.
// Numeric material codes such as 316 are read as strings.
func ParseYAMLCatalog(raw []byte) (MapCatalog, error) {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("catalog yaml: %w", err)
	}

	// The validator works on JSON values, so round-trip the YAML document.
	asJSON, err := json.Marshal(stringKeys(doc))
	if err != nil {
		return nil, fmt.Errorf("catalog yaml: unsupported structure: %w", err)
	}
	var value any
	if err := json.Unmarshal(asJSON, &value); err != nil {
		return nil, fmt.Errorf("catalog yaml: %w", err)
	}

	schema, err := loadCatalogSchema()
	if err != nil {
		return nil, fmt.Errorf("catalog schema: %w", err)
	}
	if err := schema.Validate(value); err != nil {
		return nil, fmt.Errorf("catalog invalid: %w", err)
	}

	var file catalogFile
	if err := json.Unmarshal(asJSON, &file); err != nil {
		return nil, fmt.Errorf("catalog yaml: %w", err)
	}
	return MapCatalog(file.Materials).Normalize(), nil
}

// stringKeys rewrites every mapping in a decoded YAML tree to use string keys.
// yaml.v3 decodes a mapping with any non-string key into map[any]any, which
// encoding/json cannot marshal.
func stringKeys(v any) any {
	switch t := v.(type) {
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = stringKeys(val)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = stringKeys(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = stringKeys(val)
		}
		return out
	default:
		return v
	}
}

// LoadYAMLCatalog reads and validates a YAML catalog file.
func LoadYAMLCatalog(path string) (MapCatalog, error) {
	if path == "" {
		return nil, ErrEmptyCatalogPath
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	catalog, err := ParseYAMLCatalog(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return catalog, nil
}
