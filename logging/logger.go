package logging

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/grovetools/widgets/config"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

var (
	loggers   = make(map[string]*logrus.Entry)
	loggersMu sync.Mutex
)

// NewLogger creates and returns a pre-configured logger for a specific component.
// It uses a singleton pattern per component to avoid re-initializing.
func NewLogger(component string) *logrus.Entry {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	if logger, exists := loggers[component]; exists {
		return logger
	}

	var logCfg Config
	cfg, err := config.LoadDefault()
	if err == nil {
		if err := cfg.UnmarshalExtension("logging", &logCfg); err != nil {
			logrus.Warnf("Failed to parse 'logging' config: %v", err)
		}
	}

	entry := newConfiguredLogger(logCfg).WithField("component", component)
	loggers[component] = entry
	return entry
}

// NewLoggerWithConfig builds an uncached component logger from an explicit config.
func NewLoggerWithConfig(component string, logCfg Config) *logrus.Entry {
	return newConfiguredLogger(logCfg).WithField("component", component)
}

func newConfiguredLogger(logCfg Config) *logrus.Logger {
	logger := logrus.New()

	levelStr := "info"
	if env := os.Getenv("WIDGETS_LOG_LEVEL"); env != "" {
		levelStr = env
	} else if logCfg.Level != "" {
		levelStr = logCfg.Level
	}
	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if os.Getenv("WIDGETS_LOG_CALLER") == "true" || logCfg.ReportCaller {
		logger.SetReportCaller(true)
	}

	switch logCfg.Format.Preset {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "simple":
		logger.SetFormatter(&TextFormatter{Config: FormatConfig{
			DisableTimestamp: true,
			DisableComponent: true,
		}})
	default:
		logger.SetFormatter(&TextFormatter{Config: logCfg.Format})
	}

	var writers []io.Writer

	if logCfg.File.Enabled && logCfg.File.Path != "" {
		path := expandPath(logCfg.File.Path)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			logger.Warnf("Failed to create log directory %s: %v", filepath.Dir(path), err)
		} else if file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666); err == nil {
			writers = append(writers, file)
		} else {
			logger.Warnf("Failed to open log file %s: %v", path, err)
		}
	}

	if shouldLogToStderr(logCfg.Format.StructuredToStderr, logger.GetLevel()) {
		writers = append(writers, defaultGlobalWriter)
	}

	switch len(writers) {
	case 0:
		logger.SetOutput(io.Discard)
	case 1:
		logger.SetOutput(writers[0])
	default:
		logger.SetOutput(io.MultiWriter(writers...))
	}

	return logger
}

// shouldLogToStderr decides the stderr sink. In "auto" mode structured logs
// reach stderr only when debugging or when stderr is not a terminal.
func shouldLogToStderr(mode string, level logrus.Level) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	isDebug := os.Getenv("WIDGETS_DEBUG") == "1" || level >= logrus.DebugLevel
	isInteractive := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	return isDebug || !isInteractive
}

// expandPath expands tilde in file paths
func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
