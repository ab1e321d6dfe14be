package chart

import (
	"math"
	"testing"

	"github.com/grovetools/widgets/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceholder(t *testing.T) {
	cfg := Placeholder()
	assert.Equal(t, KindDoughnut, cfg.Kind)
	assert.Equal(t, []string{"Fiction", "Non-Fiction", "Sci-Fi"}, cfg.Labels())
	assert.Equal(t, []float64{12, 19, 7}, cfg.Values())
	assert.Equal(t, []string{"#FF6384", "#36A2EB", "#FFCE56"}, cfg.Colors())
	assert.Equal(t, LegendBottom, cfg.Options.LegendPosition)
	assert.True(t, cfg.Options.Responsive)
	assert.Equal(t, float64(38), cfg.Total())
	require.NoError(t, cfg.Validate())
}

func TestNewFillsPaletteColors(t *testing.T) {
	cfg, err := New(KindBar, []string{"a", "b"}, []float64{1, 2}, []string{"#000000"})
	require.NoError(t, err)
	assert.Equal(t, []string{"#000000", DefaultPalette[1]}, cfg.Colors())
}

func TestNewMismatchedColumns(t *testing.T) {
	_, err := New(KindBar, []string{"a"}, []float64{1, 2}, nil)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		mod   func(*Config)
		field string
	}{
		{"negative value", func(c *Config) { c.Data[0].Value = -1 }, "data[0].value"},
		{"nan value", func(c *Config) { c.Data[1].Value = math.NaN() }, "data[1].value"},
		{"inf value", func(c *Config) { c.Data[2].Value = math.Inf(1) }, "data[2].value"},
		{"blank label", func(c *Config) { c.Data[1].Label = "  " }, "data[1].label"},
		{"bad legend", func(c *Config) { c.Options.LegendPosition = "center" }, "options.legendPosition"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Placeholder()
			tt.mod(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
			var we *errors.WidgetError
			require.ErrorAs(t, err, &we)
			assert.Equal(t, tt.field, we.Details["field"])
		})
	}
}

func TestValidateAllowsZeroAndDuplicateColors(t *testing.T) {
	cfg, err := New(KindDoughnut, []string{"a", "b"}, []float64{0, 0}, []string{"#fff", "#fff"})
	require.NoError(t, err)
	assert.NoError(t, cfg.Validate())
}

func TestValidateIgnoresUnknownKind(t *testing.T) {
	cfg := Placeholder()
	cfg.Kind = "radar"
	assert.NoError(t, cfg.Validate())
}

func TestCloneIsDeep(t *testing.T) {
	cfg := Placeholder()
	clone := cfg.Clone()
	clone.Data[0].Value = 99
	assert.Equal(t, float64(12), cfg.Data[0].Value)
}

func TestParse(t *testing.T) {
	assert.Equal(t, KindLine, ParseKind(" LINE "))
	assert.True(t, ParseKind("bar").Known())
	assert.False(t, ParseKind("radar").Known())
	assert.Equal(t, LegendBottom, ParseLegendPosition(""))
	assert.Equal(t, LegendLeft, ParseLegendPosition("Left"))
	assert.False(t, ParseLegendPosition("middle").Valid())
}
