// Package schema holds the JSON Schema for widgets.yml and validates
// configurations against it.
package schema

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/grovetools/widgets/errors"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed widgets.embedded.schema.json
var embeddedSchemaData []byte

const resourceName = "widgets.json"

// Embedded returns a copy of the embedded schema document.
func Embedded() []byte {
	out := make([]byte, len(embeddedSchemaData))
	copy(out, embeddedSchemaData)
	return out
}

// Validator validates configuration against the embedded JSON Schema.
type Validator struct {
	schema *jsonschema.Schema
}

// NewValidator compiles the embedded schema.
func NewValidator() (*Validator, error) {
	return NewValidatorFromBytes(embeddedSchemaData)
}

// NewValidatorFromBytes compiles an alternative schema document.
func NewValidatorFromBytes(data []byte) (*Validator, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft7
	if err := compiler.AddResource(resourceName, strings.NewReader(string(data))); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}

	schema, err := compiler.Compile(resourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	return &Validator{schema: schema}, nil
}

// Validate checks any value that marshals to JSON. Violations are returned
// as a CONFIG_VALIDATION error listing each failing location.
func (v *Validator) Validate(configData interface{}) error {
	jsonData, err := json.Marshal(configData)
	if err != nil {
		return fmt.Errorf("failed to marshal config to JSON for validation: %w", err)
	}

	var document interface{}
	if err := json.Unmarshal(jsonData, &document); err != nil {
		return fmt.Errorf("failed to unmarshal JSON for validation: %w", err)
	}

	err = v.schema.Validate(document)
	if err == nil {
		return nil
	}
	validationErr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return fmt.Errorf("schema validation failed: %w", err)
	}

	violations := Violations(validationErr)
	return errors.New(errors.ErrCodeConfigValidation,
		fmt.Sprintf("schema validation failed:\n%s", strings.Join(violations, "\n"))).
		WithDetail("violations", violations)
}

// Violations flattens a validation error into sorted "- location: message"
// lines, leaf causes only.
func Violations(err *jsonschema.ValidationError) []string {
	var messages []string
	collectErrors(err, &messages)
	sort.Strings(messages)
	return messages
}

func collectErrors(err *jsonschema.ValidationError, messages *[]string) {
	if len(err.Causes) == 0 {
		location := err.InstanceLocation
		if location == "" {
			location = "/"
		}
		*messages = append(*messages, fmt.Sprintf("- %s: %s", location, err.Message))
		return
	}
	for _, cause := range err.Causes {
		collectErrors(cause, messages)
	}
}
