package config

import (
	"fmt"
	"strings"

	"github.com/grovetools/widgets/chart"
	"github.com/grovetools/widgets/errors"
)

// LibrarySourcePrefix marks sources served from the library database.
const LibrarySourcePrefix = "library."

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Renderer == "" {
		return errors.New(errors.ErrCodeConfigValidation, "renderer cannot be empty")
	}

	seen := make(map[string]bool, len(c.Widgets))
	for i, w := range c.Widgets {
		if err := validateWidget(w); err != nil {
			return errors.Wrap(err, errors.ErrCodeConfigValidation, fmt.Sprintf("invalid widget %d", i)).
				WithDetail("mount", w.Mount)
		}
		if seen[w.Mount] {
			return errors.New(errors.ErrCodeConfigValidation, fmt.Sprintf("mount '%s' is bound more than once", w.Mount)).
				WithDetail("mount", w.Mount)
		}
		seen[w.Mount] = true

		if strings.HasPrefix(w.Source.Type, LibrarySourcePrefix) && c.Database == "" {
			return errors.New(errors.ErrCodeConfigValidation,
				fmt.Sprintf("widget '%s' uses source '%s' but no database is configured", w.Mount, w.Source.Type)).
				WithDetail("mount", w.Mount)
		}
	}

	if c.Watch.DebounceMs < 0 {
		return errors.New(errors.ErrCodeConfigValidation, "watch.debounce_ms cannot be negative")
	}
	return nil
}

func validateWidget(w WidgetConfig) error {
	if strings.TrimSpace(w.Mount) == "" {
		return errors.InvalidInput("mount", "must not be empty")
	}
	if w.Legend != "" && !chart.ParseLegendPosition(w.Legend).Valid() {
		return errors.InvalidInput("legend", fmt.Sprintf("unknown position '%s'", w.Legend))
	}

	switch {
	case w.Source.Type == SourceStatic:
		if len(w.Source.Data) == 0 {
			return errors.InvalidInput("source.data", "static source needs data")
		}
		for j, d := range w.Source.Data {
			if strings.TrimSpace(d.Label) == "" {
				return errors.InvalidInput(fmt.Sprintf("source.data[%d].label", j), "must not be empty")
			}
		}
	case w.Source.Type == SourcePlaceholder, strings.HasPrefix(w.Source.Type, LibrarySourcePrefix):
		if len(w.Source.Data) > 0 {
			return errors.InvalidInput("source.data", fmt.Sprintf("'%s' source does not take data", w.Source.Type))
		}
	default:
		return errors.InvalidInput("source.type", fmt.Sprintf("unknown source type '%s'", w.Source.Type))
	}
	return nil
}
