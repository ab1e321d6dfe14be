package config

import (
	"sync"

	"github.com/grovetools/widgets/schema"
)

// SchemaValidator checks decoded configuration against the embedded schema.
type SchemaValidator struct {
	validator *schema.Validator
}

var (
	sharedOnce      sync.Once
	sharedValidator *SchemaValidator
	sharedErr       error
)

// NewSchemaValidator returns the process-wide validator. The embedded
// schema is compiled once; watch reloads reuse it.
func NewSchemaValidator() (*SchemaValidator, error) {
	sharedOnce.Do(func() {
		v, err := schema.NewValidator()
		if err != nil {
			sharedErr = err
			return
		}
		sharedValidator = &SchemaValidator{validator: v}
	})
	return sharedValidator, sharedErr
}

// Validate reports every violation in cfg as one CONFIG_VALIDATION error.
func (v *SchemaValidator) Validate(cfg *Config) error {
	return v.validator.Validate(cfg)
}
