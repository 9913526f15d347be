package schema

import (
	"encoding/json"
	"io/fs"
	"strings"
	"testing"
)

// TestEmbeddedSchemasAreValidJSON verifies that all embedded schema files are valid JSON.
func TestEmbeddedSchemasAreValidJSON(t *testing.T) {
	t.Parallel()

	entries, err := fs.ReadDir(FS, ".")
	if err != nil {
		t.Fatalf("failed to read embedded FS: %v", err)
	}

	schemaCount := 0
	for _, entry := range entries {
		entry := entry
		if !strings.HasSuffix(entry.Name(), ".schema.json") {
			continue
		}
		schemaCount++

		t.Run(entry.Name(), func(t *testing.T) {
			t.Parallel()

			data, err := FS.ReadFile(entry.Name())
			if err != nil {
				t.Fatalf("failed to read %s: %v", entry.Name(), err)
			}

			var v interface{}
			if err := json.Unmarshal(data, &v); err != nil {
				t.Errorf("%s is not valid JSON: %v", entry.Name(), err)
			}
			if _, ok := v.(map[string]interface{}); !ok {
				t.Errorf("%s root is not an object", entry.Name())
			}
		})
	}

	if schemaCount == 0 {
		t.Error("no schema files found in embedded FS")
	}
}

// TestSchemaStructure verifies that the arcconfig schema describes every adapter key.
func TestSchemaStructure(t *testing.T) {
	t.Parallel()

	data, err := FS.ReadFile("arcconfig.schema.json")
	if err != nil {
		t.Fatalf("failed to read arcconfig.schema.json: %v", err)
	}

	var schema struct {
		Schema     string                 `json:"$schema"`
		Type       string                 `json:"type"`
		Properties map[string]interface{} `json:"properties"`
	}
	if err := json.Unmarshal(data, &schema); err != nil {
		t.Fatalf("failed to parse schema: %v", err)
	}

	if schema.Schema == "" {
		t.Error("missing $schema field")
	}
	if schema.Type != "object" {
		t.Errorf("type = %q, want object", schema.Type)
	}

	for _, key := range []string{
		"unit.phpunit.test-dirs",
		"unit.phpunit.config",
		"unit.phpunit.binary",
		"unit.phpunit.coverage",
		"unit.phpunit.coverage-path",
	} {
		if _, ok := schema.Properties[key]; !ok {
			t.Errorf("schema missing property %q", key)
		}
	}
}
