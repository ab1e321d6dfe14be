package logging

// Config defines the `logging` section of widgets.yml.
type Config struct {
	// Level is the minimum log level to output (e.g., "debug", "info", "warn", "error").
	// Can be overridden by the WIDGETS_LOG_LEVEL environment variable.
	Level string `yaml:"level" json:"level,omitempty" jsonschema:"enum=debug,enum=info,enum=warn,enum=error"`

	// ReportCaller, if true, includes the file, line, and function name in the log output.
	// Can be enabled with the WIDGETS_LOG_CALLER=true environment variable.
	ReportCaller bool `yaml:"report_caller" json:"report_caller,omitempty"`

	// File configures logging to a file.
	File FileSinkConfig `yaml:"file" json:"file,omitempty"`

	// Format configures the appearance of the log output.
	Format FormatConfig `yaml:"format" json:"format,omitempty"`
}

// FileSinkConfig configures the file logging sink.
type FileSinkConfig struct {
	Enabled bool `yaml:"enabled" json:"enabled,omitempty"`
	// Path is the full path to the log file.
	Path string `yaml:"path" json:"path,omitempty"`
}

// FormatConfig controls the log output format.
type FormatConfig struct {
	// Preset can be "default" (rich text), "simple" (minimal text), or "json".
	Preset string `yaml:"preset" json:"preset,omitempty" jsonschema:"enum=default,enum=simple,enum=json"`
	// DisableTimestamp disables the timestamp from the "default" and "simple" formats.
	DisableTimestamp bool `yaml:"disable_timestamp" json:"disable_timestamp,omitempty"`
	// DisableComponent disables the component name from the "default" and "simple" formats.
	DisableComponent bool `yaml:"disable_component" json:"disable_component,omitempty"`
	// StructuredToStderr controls when structured logs are sent to stderr.
	// Can be "auto" (default), "always", or "never".
	StructuredToStderr string `yaml:"structured_to_stderr" json:"structured_to_stderr,omitempty" jsonschema:"enum=auto,enum=always,enum=never"`
}
