// Package chartjs renders widgets as Chart.js configuration documents. The
// document is attached to the mount as a "canvas" node whose payload is the
// JSON a browser would hand to `new Chart(ctx, config)`.
package chartjs

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/grovetools/widgets/chart"
	"github.com/grovetools/widgets/errors"
	"github.com/grovetools/widgets/mount"
	"github.com/grovetools/widgets/render"
)

// Name is the registry name of this renderer.
const Name = "chartjs"

// Document is a Chart.js chart configuration.
type Document struct {
	Type    string         `json:"type"`
	Data    Data           `json:"data"`
	Options map[string]any `json:"options"`
}

// Data is the Chart.js data block.
type Data struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// Dataset is a single Chart.js dataset.
type Dataset struct {
	Label           string    `json:"label,omitempty"`
	Data            []float64 `json:"data"`
	BackgroundColor []string  `json:"backgroundColor"`
	BorderColor     string    `json:"borderColor,omitempty"`
}

// Renderer builds Chart.js documents.
type Renderer struct{}

// New returns a Chart.js renderer.
func New() *Renderer { return &Renderer{} }

// Build translates a chart config into a Chart.js document without
// touching any mount.
func Build(kind string, data chart.Config, options map[string]any) (Document, error) {
	if err := render.CheckKind(kind); err != nil {
		return Document{}, err
	}
	ds := Dataset{
		Label:           render.Title(options),
		Data:            data.Values(),
		BackgroundColor: data.Colors(),
	}
	if chart.Kind(kind) == chart.KindLine && len(ds.BackgroundColor) > 0 {
		ds.BorderColor = ds.BackgroundColor[0]
	}
	return Document{
		Type: kind,
		Data: Data{
			Labels:   data.Labels(),
			Datasets: []Dataset{ds},
		},
		Options: options,
	}, nil
}

// Render implements render.Renderer.
func (r *Renderer) Render(m mount.MountRef, kind string, data chart.Config, options map[string]any) (render.Instance, error) {
	doc, err := Build(kind, data, options)
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(doc)
	if err != nil {
		return nil, errors.RenderFailed(kind, err)
	}
	inst, err := render.Attach(m, mount.Node{
		ID:      "chartjs-" + uuid.NewString(),
		Kind:    "canvas",
		Payload: payload,
	})
	if err != nil {
		return nil, errors.RenderFailed(kind, err)
	}
	return inst, nil
}

// Decode parses a payload produced by Render.
func Decode(payload []byte) (Document, error) {
	var doc Document
	err := json.Unmarshal(payload, &doc)
	return doc, err
}
