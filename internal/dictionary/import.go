package dictionary

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// importSchema validates JSON dictionary files before they are loaded.
const importSchema = `{
	"type": "array",
	"items": {
		"type": "object",
		"properties": {
			"pattern": {"type": "string", "minLength": 1},
			"replacement": {"type": "string"}
		},
		"required": ["pattern", "replacement"],
		"additionalProperties": false
	}
}`

var compiledSchema = jsonschema.MustCompileString("dictionary.schema.json", importSchema)

// ImportFile loads entries from a JSON or YAML file into the given scope.
// Entries whose pattern already exists in the scope are skipped; the
// count of newly added entries is returned.
func (d *Dictionary) ImportFile(path string, scope Scope) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read dictionary file: %w", err)
	}

	var entries []Entry
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		entries, err = parseJSON(data)
	case ".yaml", ".yml":
		entries, err = parseYAML(data)
	default:
		return 0, fmt.Errorf("unsupported dictionary format: %s", filepath.Ext(path))
	}
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}

	added := 0
	for _, e := range entries {
		if err := d.Add(scope, e); err != nil {
			if errors.Is(err, ErrDuplicatePattern) {
				continue
			}
			return added, err
		}
		added++
	}
	return added, nil
}

func parseJSON(data []byte) ([]Entry, error) {
	// Validate shape first; the schema wants the decoded document.
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if err := compiledSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("schema validation: %w", err)
	}

	raw, ok := doc.([]interface{})
	if !ok {
		return nil, fmt.Errorf("expected a JSON array")
	}

	entries := make([]Entry, 0, len(raw))
	for _, item := range raw {
		obj := item.(map[string]interface{})
		entries = append(entries, Entry{
			Pattern:     obj["pattern"].(string),
			Replacement: obj["replacement"].(string),
		})
	}
	return entries, nil
}

func parseYAML(data []byte) ([]Entry, error) {
	var entries []Entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	for i, e := range entries {
		if e.Pattern == "" {
			return nil, fmt.Errorf("entry %d: pattern cannot be empty", i)
		}
	}
	return entries, nil
}
