package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grovetools/widgets/chart"
	"github.com/grovetools/widgets/errors"
)

const dashboardYAML = `
version: "1.0"
renderer: terminal
database: ${LIBRARY_DB:-library.db}
widgets:
  - mount: genre-chart
  - mount: rentals
    source:
      type: library.rentals_per_month
  - mount: loans
    kind: bar
    legend: top
    title: Loans
    responsive: false
    source:
      type: static
      data:
        - label: Open
          value: 4
        - label: Closed
          value: 9
          color: "#00FF00"
watch:
  debounce_ms: 250
logging:
  level: debug
  report_caller: true
`

// TestLoadDashboard verifies widgets, defaults and env expansion
func TestLoadDashboard(t *testing.T) {
	t.Setenv("LIBRARY_DB", "/var/lib/library.db")

	cfg, err := LoadFromBytes([]byte(dashboardYAML))
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Renderer != "terminal" {
		t.Errorf("Expected renderer 'terminal', got '%s'", cfg.Renderer)
	}
	if cfg.Database != "/var/lib/library.db" {
		t.Errorf("Expected database from env, got '%s'", cfg.Database)
	}
	if len(cfg.Widgets) != 3 {
		t.Fatalf("Expected 3 widgets, got %d", len(cfg.Widgets))
	}

	genre := cfg.Widgets[0]
	if genre.Source.Type != SourcePlaceholder {
		t.Errorf("Expected default source 'placeholder', got '%s'", genre.Source.Type)
	}
	if genre.Kind != "doughnut" {
		t.Errorf("Expected default kind 'doughnut', got '%s'", genre.Kind)
	}

	rentals := cfg.Widgets[1]
	if rentals.Kind != "" {
		t.Errorf("Library sources should keep an empty kind, got '%s'", rentals.Kind)
	}

	loans, ok := cfg.Widget("loans")
	if !ok {
		t.Fatal("Expected widget 'loans'")
	}
	opts := loans.Options()
	if opts.LegendPosition != chart.LegendTop || opts.Title != "Loans" || opts.Responsive {
		t.Errorf("Unexpected options: %+v", opts)
	}
	if len(loans.Source.Data) != 2 || loans.Source.Data[1].Color != "#00FF00" {
		t.Errorf("Unexpected static data: %+v", loans.Source.Data)
	}

	if cfg.Debounce().Milliseconds() != 250 {
		t.Errorf("Expected 250ms debounce, got %v", cfg.Debounce())
	}
}

// TestExtensions verifies that unknown sections are kept for other components
func TestExtensions(t *testing.T) {
	cfg, err := LoadFromBytes([]byte(dashboardYAML))
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if _, ok := cfg.Extensions["logging"]; !ok {
		t.Fatal("Expected 'logging' extension to be present")
	}

	type LoggingConfig struct {
		Level        string `yaml:"level"`
		ReportCaller bool   `yaml:"report_caller"`
	}
	var logCfg LoggingConfig
	if err := cfg.UnmarshalExtension("logging", &logCfg); err != nil {
		t.Fatalf("Failed to unmarshal logging extension: %v", err)
	}
	if logCfg.Level != "debug" || !logCfg.ReportCaller {
		t.Errorf("Unexpected logging extension: %+v", logCfg)
	}

	var missing LoggingConfig
	if err := cfg.UnmarshalExtension("unknown", &missing); err != nil {
		t.Fatalf("UnmarshalExtension should not error for non-existent keys: %v", err)
	}
	if missing.Level != "" {
		t.Error("Target should stay zero-valued for a missing extension")
	}
}

func TestDefaults(t *testing.T) {
	cfg, err := LoadFromBytes([]byte("widgets: []\n"))
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Version != "1.0" {
		t.Errorf("Expected default version '1.0', got '%s'", cfg.Version)
	}
	if cfg.Renderer != DefaultRenderer {
		t.Errorf("Expected default renderer '%s', got '%s'", DefaultRenderer, cfg.Renderer)
	}
	if cfg.Watch.DebounceMs != DefaultDebounceMs {
		t.Errorf("Expected default debounce %d, got %d", DefaultDebounceMs, cfg.Watch.DebounceMs)
	}
}

func TestLoadTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "widgets.toml")
	content := `
version = "1.0"
renderer = "chartjs"

[[widgets]]
mount = "genre-chart"
legend = "right"

[widgets.source]
type = "static"
data = [
  { label = "Fiction", value = 12 },
  { label = "Science", value = 3 },
]

[logging]
level = "warn"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load TOML config: %v", err)
	}
	if cfg.Path() != path {
		t.Errorf("Expected path %s, got %s", path, cfg.Path())
	}
	w := cfg.Widgets[0]
	if w.Legend != "right" || len(w.Source.Data) != 2 || w.Source.Data[0].Value != 12 {
		t.Errorf("Unexpected widget: %+v", w)
	}
	if _, ok := cfg.Extensions["logging"]; !ok {
		t.Error("Expected TOML 'logging' section kept as extension")
	}
}

func TestValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		code errors.ErrorCode
	}{
		{"duplicate mount", "widgets:\n  - mount: a\n  - mount: a\n", errors.ErrCodeConfigValidation},
		{"static without data", "widgets:\n  - mount: a\n    source:\n      type: static\n", errors.ErrCodeConfigValidation},
		{"placeholder with data", "widgets:\n  - mount: a\n    source:\n      type: placeholder\n      data:\n        - label: x\n          value: 1\n", errors.ErrCodeConfigValidation},
		{"library without database", "widgets:\n  - mount: a\n    source:\n      type: library.genres\n", errors.ErrCodeConfigValidation},
		{"schema violation", "widgets:\n  - mount: a\n    legend: middle\n", errors.ErrCodeConfigInvalid},
		{"bad yaml", "widgets: [\n", errors.ErrCodeConfigInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromBytes([]byte(tt.yaml))
			if err == nil {
				t.Fatal("Expected an error")
			}
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("Expected code %s, got %s (%v)", tt.code, got, err)
			}
		})
	}
}

func TestFindConfigFile(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(root, "widgets.yml")
	if err := os.WriteFile(want, []byte("widgets: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := FindConfigFile(nested)
	if err != nil {
		t.Fatalf("FindConfigFile failed: %v", err)
	}
	if got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}

	cfg, err := LoadFrom(nested)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if cfg.Path() != want {
		t.Errorf("Expected config path %s, got %s", want, cfg.Path())
	}
}

func TestFindConfigFileEnvOverride(t *testing.T) {
	dir := t.TempDir()
	explicit := filepath.Join(dir, "dashboard.yaml")
	if err := os.WriteFile(explicit, []byte("widgets: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv(EnvConfigPath, explicit)
	got, err := FindConfigFile(t.TempDir())
	if err != nil || got != explicit {
		t.Fatalf("Expected %s, got %s (%v)", explicit, got, err)
	}

	t.Setenv(EnvConfigPath, filepath.Join(dir, "missing.yml"))
	_, err = FindConfigFile(dir)
	if !errors.Is(err, errors.ErrCodeConfigNotFound) {
		t.Errorf("Expected CONFIG_NOT_FOUND, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "widgets.yml"))
	if !errors.Is(err, errors.ErrCodeConfigNotFound) {
		t.Errorf("Expected CONFIG_NOT_FOUND, got %v", err)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("WIDGETS_TEST_SET", "value")
	cases := map[string]string{
		"${WIDGETS_TEST_SET}":             "value",
		"${WIDGETS_TEST_UNSET:-fallback}": "fallback",
		"${WIDGETS_TEST_UNSET}":           "",
		"plain":                           "plain",
	}
	for in, want := range cases {
		if got := expandEnvVars(in); got != want {
			t.Errorf("expandEnvVars(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestGenerateSchema(t *testing.T) {
	data, err := GenerateSchema()
	if err != nil {
		t.Fatalf("GenerateSchema failed: %v", err)
	}
	for _, want := range []string{`"widgets"`, `"debounce_ms"`, `"mount"`, `"Widgets Configuration"`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("Generated schema missing %s", want)
		}
	}
}


func TestLegendIsCaseInsensitive(t *testing.T) {
	cfg, err := LoadFromBytes([]byte("widgets:\n  - mount: a\n    legend: \" Bottom \"\n  - mount: b\n    legend: LEFT\n"))
	if err != nil {
		t.Fatalf("Expected mixed-case legend to load, got: %v", err)
	}
	if got := cfg.Widgets[0].Options().LegendPosition; got != chart.LegendBottom {
		t.Errorf("Expected bottom legend, got %s", got)
	}
	if got := cfg.Widgets[1].Options().LegendPosition; got != chart.LegendLeft {
		t.Errorf("Expected left legend, got %s", got)
	}
}
