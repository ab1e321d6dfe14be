// Package datasource provides the producers a widget binds to. A data source
// is a zero-argument producer of a chart config; whether it returns a literal
// or queries a store is invisible to the binder.
package datasource

import (
	"context"

	"github.com/grovetools/widgets/chart"
)

// DataSource produces a fresh chart config per call. Fetch may block and
// must honor ctx cancellation.
type DataSource interface {
	Fetch(ctx context.Context) (chart.Config, error)
}

// Func adapts a function to DataSource.
type Func func(ctx context.Context) (chart.Config, error)

// Fetch calls f(ctx).
func (f Func) Fetch(ctx context.Context) (chart.Config, error) {
	return f(ctx)
}

// Static returns a source that always yields a clone of cfg.
func Static(cfg chart.Config) DataSource {
	return Func(func(ctx context.Context) (chart.Config, error) {
		if err := ctx.Err(); err != nil {
			return chart.Config{}, err
		}
		return cfg.Clone(), nil
	})
}

// Placeholder is the static genre doughnut used until real data is wired.
func Placeholder() DataSource {
	return Static(chart.Placeholder())
}

// WithOptions wraps src and overrides kind and options on every result.
// An empty kind keeps what src produced.
func WithOptions(src DataSource, kind chart.Kind, opts chart.Options) DataSource {
	return Func(func(ctx context.Context) (chart.Config, error) {
		cfg, err := src.Fetch(ctx)
		if err != nil {
			return chart.Config{}, err
		}
		if kind != "" {
			cfg.Kind = kind
		}
		cfg.Options = opts
		cfg.Normalize()
		return cfg, nil
	})
}
