// Package schema holds the JSON Schemas describing what valid LLM responses
// look like. The same schema is sent outbound as the structured response
// format and used inbound to validate the payload before any acceptance
// logic runs on it.
package schema

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// Schema names.
const (
	// ZoneMapping describes a page-range-to-zone inference response.
	ZoneMapping = "zone_mapping"
	// ZoneAnalysis describes a per-zone regulatory analysis response.
	ZoneAnalysis = "zone_analysis"
)

var registry = []string{ZoneMapping, ZoneAnalysis}

var (
	mu       sync.Mutex
	compiled = map[string]*jsonschema.Schema{}
)

// Names returns all registered schema names.
func Names() []string {
	out := make([]string, len(registry))
	copy(out, registry)
	return out
}

// Raw returns the raw JSON Schema document by name, suitable for sending as
// a structured response format.
func Raw(name string) (json.RawMessage, error) {
	content, err := schemaFS.ReadFile(fmt.Sprintf("schemas/%s.json", name))
	if err != nil {
		return nil, fmt.Errorf("schema not found: %s", name)
	}
	return content, nil
}

// Compile returns the compiled schema by name, caching compilations.
func Compile(name string) (*jsonschema.Schema, error) {
	mu.Lock()
	defer mu.Unlock()

	if s, ok := compiled[name]; ok {
		return s, nil
	}

	raw, err := Raw(name)
	if err != nil {
		return nil, err
	}

	compiler := jsonschema.NewCompiler()
	resource := name + ".json"
	if err := compiler.AddResource(resource, bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("failed to load schema %s: %w", name, err)
	}
	s, err := compiler.Compile(resource)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema %s: %w", name, err)
	}

	compiled[name] = s
	return s, nil
}

// Validate checks a raw JSON payload against a registered schema.
func Validate(name string, payload json.RawMessage) error {
	s, err := Compile(name)
	if err != nil {
		return err
	}

	var value any
	if err := json.Unmarshal(payload, &value); err != nil {
		return fmt.Errorf("payload is not valid JSON: %w", err)
	}
	if err := s.Validate(value); err != nil {
		return fmt.Errorf("payload does not match schema %s: %w", name, err)
	}
	return nil
}
