package datasource

import (
	"context"
	"errors"
	"testing"

	"github.com/grovetools/widgets/chart"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticReturnsFreshClone(t *testing.T) {
	src := Placeholder()
	a, err := src.Fetch(context.Background())
	require.NoError(t, err)
	a.Data[0].Value = 100

	b, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, float64(12), b.Data[0].Value)
}

func TestStaticHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Placeholder().Fetch(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWithOptions(t *testing.T) {
	opts := chart.Options{LegendPosition: chart.LegendRight, Title: "Genres"}
	cfg, err := WithOptions(Placeholder(), chart.KindBar, opts).Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, chart.KindBar, cfg.Kind)
	assert.Equal(t, opts, cfg.Options)

	cfg, err = WithOptions(Placeholder(), "", chart.Options{}).Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, chart.KindDoughnut, cfg.Kind)
	assert.Equal(t, chart.LegendBottom, cfg.Options.LegendPosition)
}

func TestWithOptionsPropagatesError(t *testing.T) {
	boom := errors.New("boom")
	src := Func(func(context.Context) (chart.Config, error) { return chart.Config{}, boom })
	_, err := WithOptions(src, chart.KindLine, chart.DefaultOptions()).Fetch(context.Background())
	assert.ErrorIs(t, err, boom)
}
