// Package config loads the formatter registry: a JSON file mapping file
// extensions to the external tool invocation that formats them. The registry
// is validated against a schema before use so a broken config surfaces as one
// clear error instead of a confusing tool failure later.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/coderelay/fmtbridge/internal/format"
)

// Entry describes one formatter invocation in the registry.
type Entry struct {
	Tool string   `json:"tool"`
	Args []string `json:"args,omitempty"`
	Cwd  string   `json:"cwd,omitempty"`
}

// Registry maps file extensions (".py", ".go", ...) to formatter entries.
type Registry struct {
	Formatters map[string]Entry `json:"formatters"`
}

// Lookup resolves the descriptor for a file extension.
func (r Registry) Lookup(ext string) (format.Descriptor, bool) {
	entry, ok := r.Formatters[strings.ToLower(ext)]
	if !ok {
		return format.Descriptor{}, false
	}
	return format.Descriptor{Tool: entry.Tool, Args: entry.Args, Cwd: entry.Cwd}, true
}

// ValidationError aggregates the schema violations found in a registry file.
type ValidationError struct {
	Path   string
	Issues []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid formatter registry %s: %s", e.Path, strings.Join(e.Issues, "; "))
}

var (
	registrySchemaLoader gojsonschema.JSONLoader
	registrySchemaOnce   sync.Once
)

func registrySchema() gojsonschema.JSONLoader {
	registrySchemaOnce.Do(func() {
		registrySchemaLoader = gojsonschema.NewGoLoader(map[string]any{
			"type":                 "object",
			"required":             []any{"formatters"},
			"additionalProperties": false,
			"properties": map[string]any{
				"formatters": map[string]any{
					"type": "object",
					"patternProperties": map[string]any{
						`^\.[^.]+$`: map[string]any{
							"type":                 "object",
							"required":             []any{"tool"},
							"additionalProperties": false,
							"properties": map[string]any{
								"tool": map[string]any{"type": "string", "minLength": 1},
								"args": map[string]any{
									"type":  "array",
									"items": map[string]any{"type": "string"},
								},
								"cwd": map[string]any{"type": "string"},
							},
						},
					},
					"additionalProperties": false,
				},
			},
		})
	})
	return registrySchemaLoader
}

// Load reads and validates a registry file.
func Load(path string) (Registry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Registry{}, fmt.Errorf("read formatter registry: %w", err)
	}
	return Parse(path, raw)
}

// Parse validates raw registry JSON and unmarshals it. The path is only used
// in error messages.
func Parse(path string, raw []byte) (Registry, error) {
	result, err := gojsonschema.Validate(registrySchema(), gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return Registry{}, fmt.Errorf("formatter registry %s: %w", path, err)
	}
	if !result.Valid() {
		issues := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			issues = append(issues, desc.String())
		}
		return Registry{}, &ValidationError{Path: path, Issues: issues}
	}

	var reg Registry
	if err := json.Unmarshal(raw, &reg); err != nil {
		return Registry{}, fmt.Errorf("formatter registry %s: %w", path, err)
	}
	return reg, nil
}
