package config

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/grovetools/widgets/errors"
	"github.com/pelletier/go-toml/v2"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

// EnvConfigPath names an explicit config file, skipping discovery.
const EnvConfigPath = "WIDGETS_CONFIG"

// configNames are searched in order in each directory.
var configNames = []string{
	"widgets.yml",
	"widgets.yaml",
	"widgets.toml",
	".widgets.yml",
	".widgets.yaml",
}

// Format is a config file syntax.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatOf picks the format from a file extension. Anything that is not
// .toml is read as YAML.
func FormatOf(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatYAML
}

// Load reads and parses a widgets configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigNotFound(path)
		}
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to read config file").
			WithDetail("path", path)
	}

	cfg, err := LoadFromBytesFormat(data, FormatOf(path))
	if err != nil {
		if we, ok := err.(*errors.WidgetError); ok {
			return nil, we.WithDetail("path", path)
		}
		return nil, err
	}
	cfg.path = path
	return cfg, nil
}

// LoadDefault finds and loads the configuration for the current directory.
func LoadDefault() (*Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to get current directory")
	}

	return LoadFrom(cwd)
}

// LoadFrom finds the nearest config file starting at startDir and loads it.
func LoadFrom(startDir string) (*Config, error) {
	return LoadFromWithLogger(startDir, logrus.New())
}

// LoadFromWithLogger is LoadFrom with an explicit logger.
func LoadFromWithLogger(startDir string, logger *logrus.Logger) (*Config, error) {
	path, err := FindConfigFile(startDir)
	if err != nil {
		return nil, err
	}

	logger.WithField("path", path).Debug("Loading widgets configuration")
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if logger.IsLevelEnabled(logrus.DebugLevel) {
		if data, err := yaml.Marshal(cfg); err == nil {
			logger.Debugf("Loaded configuration:\n%s", string(data))
		}
	}
	return cfg, nil
}

// LoadFromBytes parses YAML configuration from a byte array
func LoadFromBytes(data []byte) (*Config, error) {
	return LoadFromBytesFormat(data, FormatYAML)
}

// LoadFromBytesFormat parses configuration in the given format, validates it
// against the schema, applies defaults and runs semantic validation.
func LoadFromBytesFormat(data []byte, format Format) (*Config, error) {
	expanded := expandEnvVars(string(data))

	config, err := decode([]byte(expanded), format)
	if err != nil {
		return nil, err
	}

	validator, err := NewSchemaValidator()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to create validator")
	}
	if err := validator.Validate(config); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "schema validation failed")
	}

	config.SetDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// decode unmarshals YAML directly. TOML is decoded to a generic map and
// re-encoded as YAML so both formats share field tags and extension capture.
func decode(data []byte, format Format) (*Config, error) {
	if format == FormatTOML {
		var raw map[string]interface{}
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse TOML configuration")
		}
		normalized, err := yaml.Marshal(raw)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to normalize TOML configuration")
		}
		data = normalized
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse YAML configuration")
	}
	if config.Widgets == nil {
		config.Widgets = []WidgetConfig{}
	}
	return &config, nil
}

// FindConfigFile returns the config named by WIDGETS_CONFIG, or searches
// from startDir up to the filesystem root for the first known config name.
func FindConfigFile(startDir string) (string, error) {
	if explicit := os.Getenv(EnvConfigPath); explicit != "" {
		if info, err := os.Stat(explicit); err == nil && !info.IsDir() {
			return explicit, nil
		}
		return "", errors.ConfigNotFound(explicit).WithDetail("env", EnvConfigPath)
	}

	dir := startDir
	for {
		for _, name := range configNames {
			path := filepath.Join(dir, name)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", errors.ConfigNotFound(startDir).WithDetail("searchPath", startDir)
}

// expandEnvVars replaces ${VAR} with environment variable values
func expandEnvVars(content string) string {
	return envVarRegex.ReplaceAllStringFunc(content, func(match string) string {
		varName := envVarRegex.FindStringSubmatch(match)[1]

		// Handle default values: ${VAR:-default}
		parts := strings.SplitN(varName, ":-", 2)
		varName = parts[0]
		defaultValue := ""
		if len(parts) > 1 {
			defaultValue = parts[1]
		}

		if value := os.Getenv(varName); value != "" {
			return value
		}

		return defaultValue
	})
}
