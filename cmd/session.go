package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"time"

	"github.com/grovetools/widgets/binder"
	"github.com/grovetools/widgets/config"
	"github.com/grovetools/widgets/dashboard"
	"github.com/grovetools/widgets/datasource"
	"github.com/grovetools/widgets/datasource/library"
	"github.com/grovetools/widgets/errors"
	"github.com/grovetools/widgets/host"
	"github.com/grovetools/widgets/mount"
	"github.com/grovetools/widgets/render"
	"github.com/grovetools/widgets/render/chartjs"
	"github.com/grovetools/widgets/render/terminal"
	"github.com/sirupsen/logrus"
)

// session is one loaded dashboard: an in-memory document holding the
// selected mounts, a binder, and a host with the dashboard module defined.
type session struct {
	cfg      *config.Config
	renderer string
	doc      *mount.Document
	binder   *binder.Binder
	dash     *dashboard.Dashboard
	host     *host.Host
	store    *library.Store
	sources  map[string]datasource.DataSource
	mounts   []string
}

// output is what one mount shows after binding.
type output struct {
	Mount string
	Node  mount.Node
}

// newRegistry registers the built-in renderers. width sizes the terminal
// renderer.
func newRegistry(width int) *render.Registry {
	reg := render.NewRegistry()
	reg.Register(chartjs.Name, func() render.Renderer { return chartjs.New() })
	reg.Register(terminal.Name, func() render.Renderer {
		r := terminal.New()
		if width > 0 {
			r.Width = width
		}
		return r
	})
	return reg
}

// openSession builds a session. rendererName overrides the config's
// renderer when set; only restricts the document to the named mounts.
func openSession(ctx context.Context, cfg *config.Config, rendererName string, width int, only []string, logger *logrus.Entry) (*session, error) {
	name := effectiveRenderer(cfg, rendererName)
	renderer, err := newRegistry(width).New(name)
	if err != nil {
		return nil, err
	}

	mounts, err := selectMounts(cfg, only)
	if err != nil {
		return nil, err
	}
	doc := mount.NewDocument(mounts...)

	s := &session{cfg: cfg, renderer: name, doc: doc, mounts: mounts}

	sources := map[string]datasource.DataSource{}
	if cfg.Database != "" {
		store, err := library.Open(databasePath(cfg))
		if err != nil {
			return nil, err
		}
		s.store = store
		if n, err := store.MarkOverdue(ctx, time.Now()); err != nil {
			logger.WithError(err).Warn("Could not update overdue rentals")
		} else if n > 0 {
			logger.WithField("rentals", n).Info("Marked rentals overdue")
		}
		sources = library.Sources(store, time.Now)
	}
	s.sources = sources

	s.binder = binder.New(doc, renderer, nil)
	s.dash, err = dashboard.New(cfg, doc, s.binder, sources)
	if err != nil {
		_ = s.Close()
		return nil, err
	}

	s.host = host.New(nil)
	if err := s.host.Define(dashboard.ModuleName, s.dash.Module()); err != nil {
		_ = s.Close()
		return nil, err
	}
	if err := s.host.Init(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

func effectiveRenderer(cfg *config.Config, override string) string {
	if override != "" {
		return override
	}
	return cfg.Renderer
}

// Reload swaps next into the running dashboard when it keeps the same
// renderer, database and mounts, so the following Ready supersedes the
// live charts on the same binder. It reports false when next needs a new
// session.
func (s *session) Reload(next *config.Config, rendererName string) (bool, error) {
	if effectiveRenderer(next, rendererName) != s.renderer || databasePath(next) != databasePath(s.cfg) {
		return false, nil
	}
	mounts, err := selectMounts(next, nil)
	if err != nil || !slices.Equal(mounts, s.mounts) {
		return false, err
	}
	if err := s.dash.Reconfigure(next, s.sources); err != nil {
		return false, err
	}
	s.cfg = next
	return true, nil
}

func selectMounts(cfg *config.Config, only []string) ([]string, error) {
	if len(only) == 0 {
		mounts := make([]string, len(cfg.Widgets))
		for i, w := range cfg.Widgets {
			mounts[i] = w.Mount
		}
		return mounts, nil
	}
	for _, id := range only {
		if _, ok := cfg.Widget(id); !ok {
			return nil, errors.InvalidInput("widget", fmt.Sprintf("no widget is bound to mount '%s'", id))
		}
	}
	return only, nil
}

// databasePath resolves a relative database path against the config file.
func databasePath(cfg *config.Config) string {
	if filepath.IsAbs(cfg.Database) || cfg.Path() == "" {
		return cfg.Database
	}
	return filepath.Join(filepath.Dir(cfg.Path()), cfg.Database)
}

// Ready fires the content-ready signal, binding every selected widget.
func (s *session) Ready(ctx context.Context) error {
	return s.host.Ready(ctx)
}

// Outputs lists the node each selected mount shows, in config order.
// Mounts left empty are omitted.
func (s *session) Outputs() []output {
	var out []output
	for _, id := range s.mounts {
		m, ok := s.doc.GetMountByID(id)
		if !ok {
			continue
		}
		for _, node := range m.Children() {
			out = append(out, output{Mount: id, Node: node})
		}
	}
	return out
}

// Close tears down the dashboard, binder and store.
func (s *session) Close() error {
	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if s.dash != nil {
		keep(s.dash.Close())
	}
	if s.binder != nil {
		keep(s.binder.Close())
	}
	if s.store != nil {
		keep(s.store.Close())
	}
	return firstErr
}
