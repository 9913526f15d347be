// Package schema validates .arcconfig content against the embedded schema.
package schema

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	schemafs "github.com/AndreyAkinshin/arcphpunit/schema"
)

const arcconfigSchemaName = "arcconfig.schema.json"

var (
	arcconfigSchema *jsonschema.Schema
	compileOnce     sync.Once
	compileErr      error
)

// compileSchemas compiles the embedded schema once.
func compileSchemas() error {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()

		data, err := schemafs.FS.ReadFile(arcconfigSchemaName)
		if err != nil {
			compileErr = fmt.Errorf("read arcconfig schema: %w", err)
			return
		}

		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
		if err != nil {
			compileErr = fmt.Errorf("unmarshal arcconfig schema: %w", err)
			return
		}

		if err := compiler.AddResource(arcconfigSchemaName, doc); err != nil {
			compileErr = fmt.Errorf("add arcconfig schema resource: %w", err)
			return
		}

		arcconfigSchema, err = compiler.Compile(arcconfigSchemaName)
		if err != nil {
			compileErr = fmt.Errorf("compile arcconfig schema: %w", err)
			return
		}
	})

	return compileErr
}

// ValidateArcconfig validates JSON data against the arcconfig schema.
func ValidateArcconfig(data []byte) error {
	if err := compileSchemas(); err != nil {
		return err
	}

	v, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	if err := arcconfigSchema.Validate(v); err != nil {
		return fmt.Errorf("arcconfig validation failed: %w", err)
	}

	return nil
}

// Arcconfig returns the embedded JSON schema for the unit.phpunit.* keys.
func Arcconfig() ([]byte, error) {
	return schemafs.FS.ReadFile(arcconfigSchemaName)
}
