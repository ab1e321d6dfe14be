// Package dashboard turns a widgets configuration into bound widgets. It is
// the module a host initializes: on every ready signal all widgets are
// (re)bound concurrently, one goroutine per mount.
package dashboard

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/grovetools/widgets/binder"
	"github.com/grovetools/widgets/chart"
	"github.com/grovetools/widgets/config"
	"github.com/grovetools/widgets/datasource"
	"github.com/grovetools/widgets/errors"
	"github.com/grovetools/widgets/host"
	"github.com/grovetools/widgets/logging"
	"github.com/grovetools/widgets/mount"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// ModuleName is the name the dashboard registers under.
const ModuleName = "library.dashboard"

// FallbackMessage replaces a chart whose data or rendering failed.
const FallbackMessage = "Chart unavailable"

// FallbackKind is the node kind of a fallback message.
const FallbackKind = "fallback"

// Widget is a configured mount and the source bound to it.
type Widget struct {
	Mount  string
	Config config.WidgetConfig
	Source datasource.DataSource
}

// Result is the outcome of binding one widget.
type Result struct {
	Mount    string
	Handle   *binder.Handle
	Err      error
	Fallback bool
}

// Dashboard binds configured widgets through a Binder.
type Dashboard struct {
	widgets  []Widget
	resolver mount.Resolver
	binder   *binder.Binder
	logger   *logrus.Entry

	mu        sync.Mutex
	fallbacks map[string]mount.MountRef
	handles   map[string]*binder.Handle
	// gens counts binds started per mount; only the latest may attach a fallback.
	gens  map[string]uint64
	unsub func()
}

// New resolves every widget's source. Library sources are looked up by
// name in sources; an unknown name is CONFIG_INVALID.
func New(cfg *config.Config, resolver mount.Resolver, b *binder.Binder, sources map[string]datasource.DataSource) (*Dashboard, error) {
	widgets, err := resolveWidgets(cfg, sources)
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		widgets:   widgets,
		resolver:  resolver,
		binder:    b,
		logger:    logging.NewLogger("dashboard"),
		fallbacks: make(map[string]mount.MountRef),
		handles:   make(map[string]*binder.Handle),
		gens:      make(map[string]uint64),
	}, nil
}

// Reconfigure replaces the widget set. Live charts stay until the next
// ready signal rebinds their mounts, which supersedes them.
func (d *Dashboard) Reconfigure(cfg *config.Config, sources map[string]datasource.DataSource) error {
	widgets, err := resolveWidgets(cfg, sources)
	if err != nil {
		return err
	}
	d.mu.Lock()
	d.widgets = widgets
	d.mu.Unlock()
	return nil
}

func resolveWidgets(cfg *config.Config, sources map[string]datasource.DataSource) ([]Widget, error) {
	widgets := make([]Widget, 0, len(cfg.Widgets))
	for _, wc := range cfg.Widgets {
		src, err := resolveSource(wc, sources)
		if err != nil {
			return nil, err
		}
		widgets = append(widgets, Widget{Mount: wc.Mount, Config: wc, Source: src})
	}
	return widgets, nil
}

func resolveSource(wc config.WidgetConfig, sources map[string]datasource.DataSource) (datasource.DataSource, error) {
	kind := chart.Kind(wc.Kind)
	opts := wc.Options()

	switch {
	case wc.Source.Type == config.SourceStatic:
		data := make([]chart.Datum, len(wc.Source.Data))
		copy(data, wc.Source.Data)
		cfg := chart.Config{Kind: kind, Data: data, Options: opts}
		cfg.Normalize()
		return datasource.Static(cfg), nil
	case wc.Source.Type == config.SourcePlaceholder || wc.Source.Type == "":
		return datasource.WithOptions(datasource.Placeholder(), kind, opts), nil
	case strings.HasPrefix(wc.Source.Type, config.LibrarySourcePrefix):
		src, ok := sources[wc.Source.Type]
		if !ok {
			return nil, errors.ConfigInvalid(fmt.Sprintf("unknown source '%s' for mount '%s'", wc.Source.Type, wc.Mount)).
				WithDetail("mount", wc.Mount).
				WithDetail("source", wc.Source.Type)
		}
		return datasource.WithOptions(src, kind, opts), nil
	default:
		return nil, errors.ConfigInvalid(fmt.Sprintf("unknown source type '%s'", wc.Source.Type)).
			WithDetail("mount", wc.Mount)
	}
}

// Widgets returns the configured widgets in configuration order.
func (d *Dashboard) Widgets() []Widget {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Widget, len(d.widgets))
	copy(out, d.widgets)
	return out
}

// Module is the host registration: it subscribes BindAll to ready signals.
func (d *Dashboard) Module() host.Module {
	return func(ctx context.Context, h *host.Host) error {
		d.mu.Lock()
		defer d.mu.Unlock()
		if d.unsub != nil {
			d.unsub()
		}
		d.unsub = h.OnReady(func(ctx context.Context) error {
			_, err := d.BindAll(ctx)
			return err
		})
		return nil
	}
}

// BindAll binds every widget concurrently and returns one result per
// widget in configuration order. Missing mounts are skipped. Data source
// and render failures put the fallback message in the mount. The error is
// only set when ctx ends first.
func (d *Dashboard) BindAll(ctx context.Context) ([]Result, error) {
	widgets := d.Widgets()
	results := make([]Result, len(widgets))

	eg, egCtx := errgroup.WithContext(ctx)
	for i, w := range widgets {
		eg.Go(func() error {
			results[i] = d.bind(egCtx, w)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return results, err
	}

	bound := 0
	for _, r := range results {
		if r.Err == nil {
			bound++
		}
	}
	d.logger.WithFields(logrus.Fields{
		"widgets": len(results),
		"bound":   bound,
	}).Info("Dashboard bound")

	return results, ctx.Err()
}

func (d *Dashboard) bind(ctx context.Context, w Widget) Result {
	log := d.logger.WithField("mount", w.Mount)
	gen := d.begin(w.Mount)

	h, err := d.binder.Bind(ctx, w.Mount, w.Source)
	res := Result{Mount: w.Mount, Handle: h, Err: err}

	switch {
	case err == nil:
		d.mu.Lock()
		d.handles[w.Mount] = h
		d.mu.Unlock()
	case errors.Is(err, errors.ErrCodeMountNotFound):
		log.Debug("Mount not present, widget skipped")
	case errors.Is(err, errors.ErrCodeCancelled):
		log.Debug("Bind superseded")
	case errors.Is(err, errors.ErrCodeDataSourceFailed), errors.Is(err, errors.ErrCodeRenderFailed):
		log.WithError(err).Warn("Widget failed, showing fallback")
		res.Fallback = d.attachFallback(w.Mount, gen)
	default:
		log.WithError(err).Error("Widget bind failed")
	}
	return res
}

// begin starts a bind generation for mountID and removes any fallback an
// earlier bind left behind.
func (d *Dashboard) begin(mountID string) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gens[mountID]++
	if m, ok := d.fallbacks[mountID]; ok {
		delete(d.fallbacks, mountID)
		m.Detach(fallbackID(mountID))
	}
	return d.gens[mountID]
}

// attachFallback puts the fallback message in mountID unless a later bind
// has started or the mount already shows a live chart. The check and the
// attach hold d.mu so a concurrent begin either sees the node or wins.
func (d *Dashboard) attachFallback(mountID string, gen uint64) bool {
	m, ok := d.resolver.GetMountByID(mountID)
	if !ok {
		return false
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.gens[mountID] != gen {
		return false
	}
	if _, live := d.binder.Live(mountID); live {
		return false
	}
	node := mount.Node{ID: fallbackID(mountID), Kind: FallbackKind, Payload: []byte(FallbackMessage)}
	if err := m.Attach(node); err != nil {
		d.logger.WithError(err).WithField("mount", mountID).Warn("Could not attach fallback")
		return false
	}
	d.fallbacks[mountID] = m
	return true
}

func fallbackID(mountID string) string {
	return "fallback-" + mountID
}

// Close unsubscribes from the host, destroys the handles this dashboard
// created and removes its fallback messages.
func (d *Dashboard) Close() error {
	d.mu.Lock()
	if d.unsub != nil {
		d.unsub()
		d.unsub = nil
	}
	handles := d.handles
	d.handles = make(map[string]*binder.Handle)
	fallbacks := d.fallbacks
	d.fallbacks = make(map[string]mount.MountRef)
	d.mu.Unlock()

	var firstErr error
	for _, h := range handles {
		if err := h.Destroy(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	for id, m := range fallbacks {
		m.Detach(fallbackID(id))
	}
	return firstErr
}
