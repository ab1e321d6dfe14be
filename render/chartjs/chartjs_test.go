package chartjs

import (
	"testing"

	"github.com/grovetools/widgets/chart"
	"github.com/grovetools/widgets/errors"
	"github.com/grovetools/widgets/mount"
	"github.com/grovetools/widgets/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderPlaceholderDoughnut(t *testing.T) {
	doc := mount.NewDocument("doughnutChart")
	m, _ := doc.GetMountByID("doughnutChart")
	cfg := chart.Placeholder()

	inst, err := New().Render(m, string(cfg.Kind), cfg, render.TranslateOptions(cfg.Options))
	require.NoError(t, err)

	children := m.Children()
	require.Len(t, children, 1)
	assert.Equal(t, "canvas", children[0].Kind)
	assert.Equal(t, inst.ID(), children[0].ID)

	out, err := Decode(children[0].Payload)
	require.NoError(t, err)
	assert.Equal(t, "doughnut", out.Type)
	assert.Equal(t, []string{"Fiction", "Non-Fiction", "Sci-Fi"}, out.Data.Labels)
	require.Len(t, out.Data.Datasets, 1)
	assert.Equal(t, []float64{12, 19, 7}, out.Data.Datasets[0].Data)
	assert.Equal(t, []string{"#FF6384", "#36A2EB", "#FFCE56"}, out.Data.Datasets[0].BackgroundColor)
	assert.Equal(t, true, out.Options["responsive"])
	assert.Equal(t, chart.LegendBottom, render.LegendPosition(out.Options))

	require.NoError(t, inst.Destroy())
	assert.Empty(t, m.Children())
}

func TestRenderUnknownKindLeavesMountUntouched(t *testing.T) {
	doc := mount.NewDocument("m")
	m, _ := doc.GetMountByID("m")
	cfg := chart.Placeholder()

	_, err := New().Render(m, "radar", cfg, render.TranslateOptions(cfg.Options))
	assert.True(t, errors.Is(err, errors.ErrCodeRenderFailed))
	assert.Equal(t, 0, doc.Mutations("m"))
}

func TestBuildLineSetsBorderColor(t *testing.T) {
	cfg, err := chart.New(chart.KindLine, []string{"May", "June"}, []float64{3, 5}, nil)
	require.NoError(t, err)
	out, err := Build("line", cfg, render.TranslateOptions(chart.Options{LegendPosition: chart.LegendTop, Title: "Rentals"}))
	require.NoError(t, err)
	assert.Equal(t, chart.DefaultPalette[0], out.Data.Datasets[0].BorderColor)
	assert.Equal(t, "Rentals", out.Data.Datasets[0].Label)
}

func TestRenderOnRemovedMount(t *testing.T) {
	doc := mount.NewDocument("m")
	m, _ := doc.GetMountByID("m")
	doc.RemoveMount("m")
	cfg := chart.Placeholder()

	_, err := New().Render(m, "doughnut", cfg, render.TranslateOptions(cfg.Options))
	assert.True(t, errors.Is(err, errors.ErrCodeRenderFailed))
}
