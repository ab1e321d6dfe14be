package render

import (
	"testing"

	"github.com/grovetools/widgets/chart"
	"github.com/grovetools/widgets/errors"
	"github.com/grovetools/widgets/mount"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslateOptions(t *testing.T) {
	opts := TranslateOptions(chart.DefaultOptions())
	assert.Equal(t, map[string]any{
		"responsive": true,
		"plugins": map[string]any{
			"legend": map[string]any{"position": "bottom"},
		},
	}, opts)
	assert.Equal(t, chart.LegendBottom, LegendPosition(opts))
	assert.Empty(t, Title(opts))
}

func TestTranslateOptionsWithTitle(t *testing.T) {
	opts := TranslateOptions(chart.Options{LegendPosition: chart.LegendLeft, Title: "Books by genre"})
	assert.Equal(t, chart.LegendLeft, LegendPosition(opts))
	assert.Equal(t, "Books by genre", Title(opts))
	assert.Equal(t, false, opts["responsive"])
}

func TestCheckKind(t *testing.T) {
	assert.NoError(t, CheckKind("doughnut"))
	err := CheckKind("radar")
	assert.True(t, errors.Is(err, errors.ErrCodeRenderFailed))
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	reg.Register("noop", func() Renderer {
		return RendererFunc(func(m mount.MountRef, kind string, data chart.Config, options map[string]any) (Instance, error) {
			return nil, nil
		})
	})
	reg.Register("another", func() Renderer { return nil })
	assert.Equal(t, []string{"another", "noop"}, reg.Names())

	r, err := reg.New("noop")
	require.NoError(t, err)
	assert.NotNil(t, r)

	_, err = reg.New("missing")
	assert.True(t, errors.Is(err, errors.ErrCodeConfigInvalid))
}

func TestNodeInstanceDestroyIsIdempotent(t *testing.T) {
	doc := mount.NewDocument("m")
	m, _ := doc.GetMountByID("m")

	inst, err := Attach(m, mount.Node{ID: "n", Kind: "canvas"})
	require.NoError(t, err)
	assert.Equal(t, "n", inst.ID())
	assert.Len(t, m.Children(), 1)

	require.NoError(t, inst.Destroy())
	require.NoError(t, inst.Destroy())
	assert.Empty(t, m.Children())
	assert.Equal(t, 2, doc.Mutations("m"))
}
