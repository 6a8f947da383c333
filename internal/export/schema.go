package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// RecordSchema describes one JSON Lines row.
var RecordSchema = map[string]any{
	"$schema":              "http://json-schema.org/draft-07/schema#",
	"type":                 "object",
	"additionalProperties": false,
	"required":             []any{"file_name", "name", "mobile", "email", "name_hints"},
	"properties": map[string]any{
		"file_name":   map[string]any{"type": "string", "minLength": 1},
		"name":        map[string]any{"type": "string", "pattern": "^[A-Za-z -]*$"},
		"mobile":      map[string]any{"type": "string"},
		"email":       map[string]any{"type": "string"},
		"name_hints":  map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		"source_path": map[string]any{"type": "string"},
		"format":      map[string]any{"type": "string", "enum": []any{"DOC", "DOCX", "PDF"}},
		"text_path":   map[string]any{"type": "string"},
	},
}

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func recordSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiledSchema, schemaErr = compileSchema(RecordSchema)
	})
	return compiledSchema, schemaErr
}

func compileSchema(schemaMap map[string]any) (*jsonschema.Schema, error) {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("record.json", bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("record.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

// ValidateRecordJSON checks one encoded record against RecordSchema.
func ValidateRecordJSON(data []byte) error {
	schema, err := recordSchema()
	if err != nil {
		return err
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("record does not match schema: %w", err)
	}
	return nil
}
