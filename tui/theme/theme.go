package theme

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const defaultThemeName = "chartjs"

// Chart.js default dataset palette, in the order the library cycles it.
const (
	chartjsRed    = "#FF6384"
	chartjsBlue   = "#36A2EB"
	chartjsYellow = "#FFCE56"
	chartjsTeal   = "#4BC0C0"
	chartjsPurple = "#9966FF"
	chartjsOrange = "#FF9F40"
	chartjsGrey   = "#C9CBCF"
)

// --- Kanagawa Dragon (dark) palette ---
const (
	kanagawaDarkGreen     = "#98BB6C"
	kanagawaDarkYellow    = "#FF9E3B"
	kanagawaDarkRed       = "#FF5D62"
	kanagawaDarkCyan      = "#7E9CD8"
	kanagawaDarkViolet    = "#957FB8"
	kanagawaDarkMutedText = "#727169"
	kanagawaDarkBorder    = "#363646"
)

// --- Kanagawa Wave (light-inspired) palette ---
const (
	kanagawaLightGreen     = "#4E7C5A"
	kanagawaLightYellow    = "#A68A64"
	kanagawaLightRed       = "#C34043"
	kanagawaLightCyan      = "#5B8BBE"
	kanagawaLightViolet    = "#674D7A"
	kanagawaLightMutedText = "#6C7086"
	kanagawaLightBorder    = "#B5BDC5"
)

// ANSI fallbacks for terminals without truecolor.
const (
	terminalGreen     = "2"
	terminalYellow    = "3"
	terminalRed       = "1"
	terminalCyan      = "6"
	terminalViolet    = "5"
	terminalMutedText = "8"
	terminalBorder    = "8"
)

// Colors encapsulates the palette used by a theme. lipgloss.TerminalColor
// allows a mix of adaptive and static colors.
type Colors struct {
	Green     lipgloss.TerminalColor
	Yellow    lipgloss.TerminalColor
	Red       lipgloss.TerminalColor
	Cyan      lipgloss.TerminalColor
	Violet    lipgloss.TerminalColor
	MutedText lipgloss.TerminalColor
	Border    lipgloss.TerminalColor

	// Series is the dataset palette, cycled by datum position.
	Series []string
}

// Theme holds the pre-configured styles for widget output.
type Theme struct {
	Name   string
	Colors Colors

	Header  lipgloss.Style
	Title   lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Muted   lipgloss.Style
	Accent  lipgloss.Style

	// Widget is the frame drawn around a rendered chart.
	Widget lipgloss.Style
	// Legend styles the legend block.
	Legend lipgloss.Style
}

var themeRegistry = map[string]func() Colors{
	"chartjs":  newChartJSColors,
	"kanagawa": newKanagawaColors,
	"terminal": newTerminalColors,
}

var themeAliases = map[string]string{
	"chart.js":        "chartjs",
	"default":         "chartjs",
	"kanagawa-dark":   "kanagawa",
	"kanagawa-dragon": "kanagawa",
	"ansi":            "terminal",
}

// DefaultTheme is selected from WIDGETS_THEME at start-up.
var DefaultTheme = NewThemeWithName(os.Getenv("WIDGETS_THEME"))

// NewThemeWithName constructs a theme from a specific palette name.
// Unknown names fall back to the Chart.js palette.
func NewThemeWithName(name string) *Theme {
	key := resolveThemeName(name)
	return newThemeFromColors(themeRegistry[key](), key)
}

// SeriesColor returns the palette color for the datum at index i.
func (t *Theme) SeriesColor(i int) string {
	if len(t.Colors.Series) == 0 {
		return chartjsGrey
	}
	return t.Colors.Series[i%len(t.Colors.Series)]
}

// Swatch returns a foreground style for a hex or ANSI color string.
func (t *Theme) Swatch(color string) lipgloss.Style {
	if strings.TrimSpace(color) == "" {
		return lipgloss.NewStyle().Foreground(t.Colors.MutedText)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

// RenderStatus renders text with the appropriate status style.
func RenderStatus(status, text string) string {
	switch status {
	case "error":
		return DefaultTheme.Error.Render(text)
	case "warning":
		return DefaultTheme.Warning.Render(text)
	default:
		return text
	}
}

func newThemeFromColors(colors Colors, name string) *Theme {
	return &Theme{
		Name:   name,
		Colors: colors,

		Header: lipgloss.NewStyle().
			Bold(true).
			MarginBottom(1),

		Title: lipgloss.NewStyle().
			Bold(true).
			Underline(true),

		Error: lipgloss.NewStyle().
			Foreground(colors.Red).
			Bold(true),

		Warning: lipgloss.NewStyle().
			Foreground(colors.Yellow).
			Bold(true),

		Muted: lipgloss.NewStyle().
			Faint(true),

		Accent: lipgloss.NewStyle().
			Foreground(colors.Violet).
			Bold(true),

		Widget: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colors.Border).
			Padding(0, 1),

		Legend: lipgloss.NewStyle().
			Foreground(colors.MutedText),
	}
}

func resolveThemeName(name string) string {
	key := normalizeThemeName(name)
	if alias, ok := themeAliases[key]; ok {
		key = alias
	}
	if _, ok := themeRegistry[key]; ok {
		return key
	}
	return defaultThemeName
}

func normalizeThemeName(name string) string {
	normalized := strings.ToLower(strings.TrimSpace(name))
	normalized = strings.ReplaceAll(normalized, " ", "-")
	normalized = strings.ReplaceAll(normalized, "_", "-")
	return normalized
}

func newChartJSColors() Colors {
	return Colors{
		Green:     lipgloss.Color(chartjsTeal),
		Yellow:    lipgloss.Color(chartjsYellow),
		Red:       lipgloss.Color(chartjsRed),
		Cyan:      lipgloss.Color(chartjsBlue),
		Violet:    lipgloss.Color(chartjsPurple),
		MutedText: lipgloss.Color(chartjsGrey),
		Border:    lipgloss.Color(chartjsGrey),
		Series: []string{
			chartjsRed, chartjsBlue, chartjsYellow,
			chartjsTeal, chartjsPurple, chartjsOrange, chartjsGrey,
		},
	}
}

func newKanagawaColors() Colors {
	return Colors{
		Green:     lipgloss.AdaptiveColor{Light: kanagawaLightGreen, Dark: kanagawaDarkGreen},
		Yellow:    lipgloss.AdaptiveColor{Light: kanagawaLightYellow, Dark: kanagawaDarkYellow},
		Red:       lipgloss.AdaptiveColor{Light: kanagawaLightRed, Dark: kanagawaDarkRed},
		Cyan:      lipgloss.AdaptiveColor{Light: kanagawaLightCyan, Dark: kanagawaDarkCyan},
		Violet:    lipgloss.AdaptiveColor{Light: kanagawaLightViolet, Dark: kanagawaDarkViolet},
		MutedText: lipgloss.AdaptiveColor{Light: kanagawaLightMutedText, Dark: kanagawaDarkMutedText},
		Border:    lipgloss.AdaptiveColor{Light: kanagawaLightBorder, Dark: kanagawaDarkBorder},
		Series: []string{
			kanagawaDarkRed, kanagawaDarkCyan, kanagawaDarkYellow,
			kanagawaDarkGreen, kanagawaDarkViolet,
		},
	}
}

func newTerminalColors() Colors {
	return Colors{
		Green:     lipgloss.Color(terminalGreen),
		Yellow:    lipgloss.Color(terminalYellow),
		Red:       lipgloss.Color(terminalRed),
		Cyan:      lipgloss.Color(terminalCyan),
		Violet:    lipgloss.Color(terminalViolet),
		MutedText: lipgloss.Color(terminalMutedText),
		Border:    lipgloss.Color(terminalBorder),
		Series: []string{
			terminalRed, terminalCyan, terminalYellow,
			terminalGreen, terminalViolet,
		},
	}
}
