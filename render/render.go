// Package render defines the rendering capability the binder consumes and
// the translation of chart options into library plugin options.
package render

import (
	"fmt"
	"sort"
	"sync"

	"github.com/grovetools/widgets/chart"
	"github.com/grovetools/widgets/errors"
	"github.com/grovetools/widgets/mount"
)

// Instance is a live rendered chart.
type Instance interface {
	ID() string
	// Destroy releases the instance and detaches it from its mount.
	// Calling it more than once is a no-op.
	Destroy() error
}

// Renderer is the external charting capability. Implementations must not
// touch the mount when they reject a configuration.
type Renderer interface {
	Render(m mount.MountRef, kind string, data chart.Config, options map[string]any) (Instance, error)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(m mount.MountRef, kind string, data chart.Config, options map[string]any) (Instance, error)

// Render calls f.
func (f RendererFunc) Render(m mount.MountRef, kind string, data chart.Config, options map[string]any) (Instance, error) {
	return f(m, kind, data, options)
}

// TranslateOptions maps chart options verbatim onto Chart.js style plugin
// options.
func TranslateOptions(opts chart.Options) map[string]any {
	plugins := map[string]any{
		"legend": map[string]any{
			"position": string(opts.LegendPosition),
		},
	}
	if opts.Title != "" {
		plugins["title"] = map[string]any{
			"display": true,
			"text":    opts.Title,
		}
	}
	return map[string]any{
		"responsive": opts.Responsive,
		"plugins":    plugins,
	}
}

// LegendPosition reads the legend position back out of translated options.
func LegendPosition(options map[string]any) chart.LegendPosition {
	plugins, _ := options["plugins"].(map[string]any)
	legend, _ := plugins["legend"].(map[string]any)
	pos, _ := legend["position"].(string)
	return chart.ParseLegendPosition(pos)
}

// Title reads the title plugin text out of translated options.
func Title(options map[string]any) string {
	plugins, _ := options["plugins"].(map[string]any)
	title, _ := plugins["title"].(map[string]any)
	text, _ := title["text"].(string)
	return text
}

// CheckKind returns the RENDER_FAILED error for an unsupported kind.
func CheckKind(kind string) error {
	if !chart.Kind(kind).Known() {
		return errors.UnknownKind(kind)
	}
	return nil
}

// Factory constructs a renderer.
type Factory func() Renderer

// Registry maps renderer names to factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory. A repeated name replaces the earlier one.
func (r *Registry) Register(name string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = f
}

// New builds the named renderer.
func (r *Registry) New(name string) (Renderer, error) {
	r.mu.RLock()
	f, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, errors.ConfigInvalid(fmt.Sprintf("unknown renderer '%s'", name)).
			WithDetail("renderer", name).
			WithDetail("available", r.Names())
	}
	return f(), nil
}

// Names lists registered renderer names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
