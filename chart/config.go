package chart

import (
	"fmt"
	"math"
	"strings"

	"github.com/grovetools/widgets/errors"
)

// DefaultPalette is the Chart.js dataset palette. Data without an explicit
// color take the palette entry at their position.
var DefaultPalette = []string{"#FF6384", "#36A2EB", "#FFCE56", "#4BC0C0", "#9966FF", "#FF9F40", "#C9CBCF"}

// Datum is one labeled value.
type Datum struct {
	Label string  `json:"label" yaml:"label"`
	Value float64 `json:"value" yaml:"value"`
	Color string  `json:"color,omitempty" yaml:"color,omitempty"`
}

// Options are the display options translated into renderer plugin options.
type Options struct {
	LegendPosition LegendPosition `json:"legendPosition" yaml:"legend_position"`
	Responsive     bool           `json:"responsive" yaml:"responsive"`
	Title          string         `json:"title,omitempty" yaml:"title,omitempty"`
}

// DefaultOptions returns a bottom legend on a responsive chart.
func DefaultOptions() Options {
	return Options{LegendPosition: LegendBottom, Responsive: true}
}

// Config is an ordered sequence of data plus kind and options.
type Config struct {
	Kind    Kind    `json:"kind" yaml:"kind"`
	Data    []Datum `json:"data" yaml:"data"`
	Options Options `json:"options" yaml:"options"`
}

// New builds a Config from parallel columns. Missing colors are filled
// from DefaultPalette; extra colors are ignored.
func New(kind Kind, labels []string, values []float64, colors []string) (Config, error) {
	if len(labels) != len(values) {
		return Config{}, errors.InvalidInput("data",
			fmt.Sprintf("%d labels but %d values", len(labels), len(values)))
	}
	cfg := Config{Kind: kind, Options: DefaultOptions(), Data: make([]Datum, len(labels))}
	for i := range labels {
		d := Datum{Label: labels[i], Value: values[i]}
		if i < len(colors) {
			d.Color = colors[i]
		}
		cfg.Data[i] = d
	}
	cfg.Normalize()
	return cfg, nil
}

// Placeholder is the library genre doughnut shipped before real data exists.
func Placeholder() Config {
	cfg, _ := New(KindDoughnut,
		[]string{"Fiction", "Non-Fiction", "Sci-Fi"},
		[]float64{12, 19, 7},
		[]string{"#FF6384", "#36A2EB", "#FFCE56"})
	return cfg
}

// Normalize fills defaults in place: empty colors from the palette, an
// empty legend position as bottom, and trims labels.
func (c *Config) Normalize() {
	for i := range c.Data {
		c.Data[i].Label = strings.TrimSpace(c.Data[i].Label)
		if strings.TrimSpace(c.Data[i].Color) == "" {
			c.Data[i].Color = DefaultPalette[i%len(DefaultPalette)]
		}
	}
	if c.Options.LegendPosition == "" {
		c.Options.LegendPosition = LegendBottom
	}
}

// Validate checks the datum invariants and the legend position. The kind
// is not checked here.
func (c Config) Validate() error {
	for i, d := range c.Data {
		field := fmt.Sprintf("data[%d]", i)
		if strings.TrimSpace(d.Label) == "" {
			return errors.InvalidInput(field+".label", "must not be empty")
		}
		if math.IsNaN(d.Value) || math.IsInf(d.Value, 0) {
			return errors.InvalidInput(field+".value", "must be finite")
		}
		if d.Value < 0 {
			return errors.InvalidInput(field+".value", fmt.Sprintf("must be >= 0, got %v", d.Value))
		}
	}
	if !c.Options.LegendPosition.Valid() {
		return errors.InvalidInput("options.legendPosition",
			fmt.Sprintf("unknown position '%s'", c.Options.LegendPosition))
	}
	return nil
}

// Clone returns a deep copy.
func (c Config) Clone() Config {
	out := c
	if c.Data != nil {
		out.Data = make([]Datum, len(c.Data))
		copy(out.Data, c.Data)
	}
	return out
}

// Labels returns the labels in order.
func (c Config) Labels() []string {
	out := make([]string, len(c.Data))
	for i, d := range c.Data {
		out[i] = d.Label
	}
	return out
}

// Values returns the values in order.
func (c Config) Values() []float64 {
	out := make([]float64, len(c.Data))
	for i, d := range c.Data {
		out[i] = d.Value
	}
	return out
}

// Colors returns the colors in order.
func (c Config) Colors() []string {
	out := make([]string, len(c.Data))
	for i, d := range c.Data {
		out[i] = d.Color
	}
	return out
}

// Total sums all values.
func (c Config) Total() float64 {
	var total float64
	for _, d := range c.Data {
		total += d.Value
	}
	return total
}
