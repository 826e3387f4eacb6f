package corpus

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Data files are produced by an external pipeline; every document is
// schema-checked before decoding so a malformed file fails loudly at load
// time instead of surfacing as a zero-valued exercise later.

const manifestSchema = `{
	"type": "object",
	"required": ["total", "chunks", "chunk_size", "languages"],
	"properties": {
		"total": {"type": "integer", "minimum": 0},
		"chunks": {"type": "integer", "minimum": 0},
		"chunk_size": {"type": "integer", "minimum": 1},
		"languages": {"type": "array", "items": {"type": "string", "minLength": 1}}
	}
}`

const chunkSchema = `{
	"type": "array",
	"items": {
		"type": "object",
		"required": ["id", "en", "translations"],
		"properties": {
			"id": {"type": "integer", "minimum": 0},
			"en": {"type": "string"},
			"translations": {
				"type": "object",
				"minProperties": 1,
				"additionalProperties": {
					"type": "object",
					"required": ["text", "tokens"],
					"properties": {
						"text": {"type": "string"},
						"tokens": {"type": "array", "items": {"type": "string"}}
					}
				}
			}
		}
	}
}`

const distractorsSchema = `{
	"type": "object",
	"additionalProperties": {
		"type": "array",
		"items": {"type": "string"}
	}
}`

// schemaCache caches compiled schemas by name.
var schemaCache sync.Map // map[string]*jsonschema.Schema

var schemaSources = map[string]string{
	"manifest":    manifestSchema,
	"chunk":       chunkSchema,
	"distractors": distractorsSchema,
}

// validateDocument validates raw JSON against the named embedded schema.
func validateDocument(name string, raw []byte) error {
	compiled, err := compiledSchema(name)
	if err != nil {
		return err
	}

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	if err := compiled.Validate(parsed); err != nil {
		return fmt.Errorf("schema %q: %w", name, err)
	}
	return nil
}

// compiledSchema returns a cached compiled schema or compiles and caches it.
func compiledSchema(name string) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	src, ok := schemaSources[name]
	if !ok {
		return nil, fmt.Errorf("unknown schema %q", name)
	}

	// The jsonschema library expects a parsed JSON value, not raw bytes.
	var def any
	if err := json.Unmarshal([]byte(src), &def); err != nil {
		return nil, fmt.Errorf("parse schema %q: %w", name, err)
	}

	c := jsonschema.NewCompiler()
	schemaURL := fmt.Sprintf("schema://%s.json", name)
	if err := c.AddResource(schemaURL, def); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile schema %q: %w", name, err)
	}

	schemaCache.Store(name, compiled)
	return compiled, nil
}
