package config

import (
	"fmt"
	"time"

	"github.com/grovetools/widgets/chart"
	"github.com/mitchellh/mapstructure"
)

// Source types a widget can be bound to besides the library sources.
const (
	SourceStatic      = "static"
	SourcePlaceholder = "placeholder"
)

// DefaultRenderer is used when a config names none.
const DefaultRenderer = "chartjs"

// DefaultDebounceMs is the watch debounce when none is configured.
const DefaultDebounceMs = 100

// Config represents a widgets.yml dashboard configuration
type Config struct {
	Version  string         `yaml:"version" json:"version"`
	Renderer string         `yaml:"renderer,omitempty" json:"renderer,omitempty"`
	Database string         `yaml:"database,omitempty" json:"database,omitempty"`
	Widgets  []WidgetConfig `yaml:"widgets" json:"widgets"`
	Watch    WatchConfig    `yaml:"watch,omitempty" json:"watch,omitempty"`

	// Extensions captures all other top-level keys (e.g. logging) for
	// other components to decode themselves.
	Extensions map[string]interface{} `yaml:",inline" json:"-"`

	path string
}

// WidgetConfig binds one mount to one data source.
type WidgetConfig struct {
	Mount      string       `yaml:"mount" json:"mount"`
	Kind       string       `yaml:"kind,omitempty" json:"kind,omitempty"`
	Legend     string       `yaml:"legend,omitempty" json:"legend,omitempty"`
	Title      string       `yaml:"title,omitempty" json:"title,omitempty"`
	Responsive *bool        `yaml:"responsive,omitempty" json:"responsive,omitempty"`
	Source     SourceConfig `yaml:"source" json:"source"`
}

// SourceConfig selects a widget's data source. Data is only read for the
// static type.
type SourceConfig struct {
	Type string        `yaml:"type,omitempty" json:"type,omitempty"`
	Data []chart.Datum `yaml:"data,omitempty" json:"data,omitempty"`
}

// WatchConfig tunes the config file watcher.
type WatchConfig struct {
	DebounceMs int `yaml:"debounce_ms,omitempty" json:"debounce_ms,omitempty"`
}

// Path is the file the config was loaded from, empty for in-memory configs.
func (c *Config) Path() string {
	return c.path
}

// SetDefaults fills in default values
func (c *Config) SetDefaults() {
	if c.Version == "" {
		c.Version = "1.0"
	}
	if c.Renderer == "" {
		c.Renderer = DefaultRenderer
	}
	if c.Watch.DebounceMs <= 0 {
		c.Watch.DebounceMs = DefaultDebounceMs
	}

	for i := range c.Widgets {
		w := &c.Widgets[i]
		if w.Source.Type == "" {
			w.Source.Type = SourcePlaceholder
		}
		if w.Kind == "" && w.Source.Type != SourcePlaceholder && w.Source.Type != SourceStatic {
			// Library sources choose their own kind.
			continue
		}
		if w.Kind == "" {
			w.Kind = string(chart.KindDoughnut)
		}
	}
}

// Debounce returns the watcher debounce interval.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.Watch.DebounceMs) * time.Millisecond
}

// Widget returns the widget bound to mount.
func (c *Config) Widget(mount string) (WidgetConfig, bool) {
	for _, w := range c.Widgets {
		if w.Mount == mount {
			return w, true
		}
	}
	return WidgetConfig{}, false
}

// Options builds the chart options for w.
func (w WidgetConfig) Options() chart.Options {
	opts := chart.DefaultOptions()
	opts.LegendPosition = chart.ParseLegendPosition(w.Legend)
	opts.Title = w.Title
	if w.Responsive != nil {
		opts.Responsive = *w.Responsive
	}
	return opts
}

// UnmarshalExtension decodes an extension's configuration into a target struct.
// A missing key leaves target untouched.
func (c *Config) UnmarshalExtension(key string, target interface{}) error {
	extensionConfig, ok := c.Extensions[key]
	if !ok {
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "yaml",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create mapstructure decoder: %w", err)
	}

	if err := decoder.Decode(extensionConfig); err != nil {
		return fmt.Errorf("failed to decode extension config for '%s': %w", key, err)
	}

	return nil
}
