// Package terminal renders widgets as styled text for terminals. Doughnut
// charts draw one share bar per datum, bar charts draw value bars and line
// charts draw a sparkline.
package terminal

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/grovetools/widgets/chart"
	"github.com/grovetools/widgets/errors"
	"github.com/grovetools/widgets/mount"
	"github.com/grovetools/widgets/render"
	"github.com/grovetools/widgets/tui/theme"
)

// Name is the registry name of this renderer.
const Name = "terminal"

const defaultWidth = 48

var sparkTicks = []rune("▁▂▃▄▅▆▇█")

// Renderer draws charts as text nodes.
type Renderer struct {
	Theme *theme.Theme
	// Width is the chart body width in cells, excluding the frame.
	Width int
}

// New returns a terminal renderer using the default theme.
func New() *Renderer {
	return &Renderer{Theme: theme.DefaultTheme, Width: defaultWidth}
}

// Render implements render.Renderer.
func (r *Renderer) Render(m mount.MountRef, kind string, data chart.Config, options map[string]any) (render.Instance, error) {
	text, err := r.Text(kind, data, options)
	if err != nil {
		return nil, err
	}
	inst, err := render.Attach(m, mount.Node{
		ID:      "terminal-" + uuid.NewString(),
		Kind:    "text",
		Payload: []byte(text),
	})
	if err != nil {
		return nil, errors.RenderFailed(kind, err)
	}
	return inst, nil
}

// Text renders the chart without attaching it anywhere.
func (r *Renderer) Text(kind string, data chart.Config, options map[string]any) (string, error) {
	if err := render.CheckKind(kind); err != nil {
		return "", err
	}
	th := r.Theme
	if th == nil {
		th = theme.DefaultTheme
	}
	width := r.Width
	if width <= 0 {
		width = defaultWidth
	}

	var body string
	if len(data.Data) == 0 {
		body = th.Muted.Render("(no data)")
	} else {
		switch chart.Kind(kind) {
		case chart.KindDoughnut:
			body = shareBars(th, data, width)
		case chart.KindBar:
			body = valueBars(th, data, width)
		case chart.KindLine:
			body = sparkline(th, data)
		}
	}

	legend := renderLegend(th, data, render.LegendPosition(options))
	var content string
	switch render.LegendPosition(options) {
	case chart.LegendTop:
		content = lipgloss.JoinVertical(lipgloss.Left, legend, "", body)
	case chart.LegendLeft:
		content = lipgloss.JoinHorizontal(lipgloss.Top, legend, "  ", body)
	case chart.LegendRight:
		content = lipgloss.JoinHorizontal(lipgloss.Top, body, "  ", legend)
	default:
		content = lipgloss.JoinVertical(lipgloss.Left, body, "", legend)
	}

	if title := render.Title(options); title != "" {
		content = lipgloss.JoinVertical(lipgloss.Left, th.Title.Render(title), "", content)
	}
	return th.Widget.Render(content), nil
}

func labelWidth(data chart.Config) int {
	w := 0
	for _, d := range data.Data {
		w = max(w, lipgloss.Width(d.Label))
	}
	return w
}

func shareBars(th *theme.Theme, data chart.Config, width int) string {
	total := data.Total()
	lw := labelWidth(data)
	barMax := max(1, width-lw-10)
	lines := make([]string, 0, len(data.Data))
	for _, d := range data.Data {
		share := 0.0
		if total > 0 {
			share = d.Value / total
		}
		bar := strings.Repeat("█", int(math.Round(share*float64(barMax))))
		lines = append(lines, fmt.Sprintf("%-*s %s %5.1f%%",
			lw, d.Label, th.Swatch(d.Color).Render(padRight(bar, barMax)), share*100))
	}
	return strings.Join(lines, "\n")
}

func valueBars(th *theme.Theme, data chart.Config, width int) string {
	maxV := 0.0
	for _, d := range data.Data {
		maxV = math.Max(maxV, d.Value)
	}
	if maxV <= 0 {
		maxV = 1
	}
	lw := labelWidth(data)
	barMax := max(1, width-lw-10)
	lines := make([]string, 0, len(data.Data))
	for _, d := range data.Data {
		bar := strings.Repeat("█", int(math.Round(d.Value/maxV*float64(barMax))))
		lines = append(lines, fmt.Sprintf("%-*s %s %s",
			lw, d.Label, th.Swatch(d.Color).Render(padRight(bar, barMax)), formatValue(d.Value)))
	}
	return strings.Join(lines, "\n")
}

func sparkline(th *theme.Theme, data chart.Config) string {
	minV, maxV := math.Inf(1), math.Inf(-1)
	for _, d := range data.Data {
		minV = math.Min(minV, d.Value)
		maxV = math.Max(maxV, d.Value)
	}
	var b strings.Builder
	for _, d := range data.Data {
		idx := len(sparkTicks) - 1
		if maxV > minV {
			idx = int((d.Value - minV) / (maxV - minV) * float64(len(sparkTicks)-1))
		}
		b.WriteRune(sparkTicks[idx])
	}
	line := th.Swatch(data.Data[0].Color).Render(b.String())
	first, last := data.Data[0], data.Data[len(data.Data)-1]
	axis := th.Muted.Render(fmt.Sprintf("%s → %s  (min %s, max %s)",
		first.Label, last.Label, formatValue(minV), formatValue(maxV)))
	return lipgloss.JoinVertical(lipgloss.Left, line, axis)
}

func renderLegend(th *theme.Theme, data chart.Config, pos chart.LegendPosition) string {
	items := make([]string, 0, len(data.Data))
	for _, d := range data.Data {
		items = append(items, th.Swatch(d.Color).Render("■")+" "+th.Legend.Render(d.Label))
	}
	if pos == chart.LegendLeft || pos == chart.LegendRight {
		return strings.Join(items, "\n")
	}
	return strings.Join(items, "  ")
}

func padRight(s string, width int) string {
	if n := width - lipgloss.Width(s); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}

func formatValue(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}
