package config

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// GenerateSchema generates the JSON Schema for widgets.yml. Extensions are
// not part of it; each component documents its own section.
func GenerateSchema() ([]byte, error) {
	r := &jsonschema.Reflector{
		AllowAdditionalProperties: false,
		ExpandedStruct:            true,
		FieldNameTag:              "yaml",
	}

	type Datum struct {
		Label string  `yaml:"label" jsonschema:"required,minLength=1,description=Slice or point label"`
		Value float64 `yaml:"value" jsonschema:"required,minimum=0,description=Non-negative value"`
		Color string  `yaml:"color,omitempty" jsonschema:"description=CSS color; defaults to the palette entry at this position"`
	}
	type Source struct {
		Type string  `yaml:"type" jsonschema:"required,description=static or placeholder or a library.* source"`
		Data []Datum `yaml:"data,omitempty" jsonschema:"description=Inline data for static sources"`
	}
	type Widget struct {
		Mount      string `yaml:"mount" jsonschema:"required,minLength=1,description=Mount point id"`
		Kind       string `yaml:"kind,omitempty" jsonschema:"description=Chart kind (doughnut or bar or line)"`
		Legend     string `yaml:"legend,omitempty" jsonschema:"pattern=^\\s*(?i:top|bottom|left|right)\\s*$,description=Legend position"`
		Title      string `yaml:"title,omitempty" jsonschema:"description=Chart title"`
		Responsive *bool  `yaml:"responsive,omitempty" jsonschema:"description=Resize with the container"`
		Source     Source `yaml:"source" jsonschema:"required"`
	}
	type Watch struct {
		DebounceMs int `yaml:"debounce_ms,omitempty" jsonschema:"minimum=0,description=Quiet period before a change is reloaded"`
	}
	type BaseConfig struct {
		Version  string   `yaml:"version" jsonschema:"description=Configuration version (e.g. '1.0')"`
		Renderer string   `yaml:"renderer,omitempty" jsonschema:"description=Renderer name (chartjs or terminal)"`
		Database string   `yaml:"database,omitempty" jsonschema:"description=Path to the library SQLite database"`
		Widgets  []Widget `yaml:"widgets" jsonschema:"description=Widgets to bind"`
		Watch    Watch    `yaml:"watch,omitempty"`
	}

	schema := r.Reflect(&BaseConfig{})
	schema.Title = "Widgets Configuration"
	schema.Description = "Schema for widgets.yml dashboard configuration."
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return json.MarshalIndent(schema, "", "  ")
}

