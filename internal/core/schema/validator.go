// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kusari-oss/readmegen/internal/core/options"
	"github.com/kusari-oss/readmegen/internal/defaults"
	"github.com/xeipuuv/gojsonschema"
)

// ValidationError lists every schema violation found in a document
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	return "option validation failed:\n- " + strings.Join(e.Issues, "\n- ")
}

// Validator checks documents against a compiled JSON schema
type Validator struct {
	schema *gojsonschema.Schema
}

// NewValidator compiles the given JSON schema
func NewValidator(schemaBytes []byte) (*Validator, error) {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaBytes))
	if err != nil {
		return nil, fmt.Errorf("schema validation error: failed to load schema: %w", err)
	}
	return &Validator{schema: compiled}, nil
}

// NewOptionsValidator compiles the embedded generation options schema
func NewOptionsValidator() (*Validator, error) {
	return NewValidator(defaults.OptionsSchema())
}

// Validate checks params against the schema
func (v *Validator) Validate(params map[string]interface{}) error {
	paramsBytes, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("schema validation error: failed to serialize params: %w", err)
	}

	result, err := v.schema.Validate(gojsonschema.NewBytesLoader(paramsBytes))
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}

	if !result.Valid() {
		issues := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			issues = append(issues, desc.String())
		}
		return &ValidationError{Issues: issues}
	}

	return nil
}

// ValidateOptions checks generation options against the embedded schema
func (v *Validator) ValidateOptions(opts options.GenerationOptions) error {
	return v.Validate(opts.ToMap())
}
