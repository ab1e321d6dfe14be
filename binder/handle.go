package binder

import (
	"context"

	"github.com/grovetools/widgets/chart"
	"github.com/grovetools/widgets/datasource"
	"github.com/grovetools/widgets/errors"
	"github.com/grovetools/widgets/mount"
	"github.com/grovetools/widgets/render"
	"github.com/sirupsen/logrus"
)

// State is the lifecycle position of a handle.
type State string

const (
	StatePending   State = "pending"
	StateLive      State = "live"
	StateFailed    State = "failed"
	StateDestroyed State = "destroyed"
)

// Handle is the result of a bind. It lets the caller tear the chart down.
type Handle struct {
	id      string
	mountID string
	mount   mount.MountRef
	slot    *slot
	cancel  func()
	done    chan struct{}
	logger  *logrus.Entry

	// guarded by slot.mu
	state    State
	instance render.Instance
	err      error
}

// ID is a unique id for this bind.
func (h *Handle) ID() string { return h.id }

// MountID is the mount this handle was bound to.
func (h *Handle) MountID() string { return h.mountID }

// Done is closed once the bind settles, successfully or not.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Wait blocks until the bind settles and returns its error, or ctx's error
// if ctx ends first.
func (h *Handle) Wait(ctx context.Context) error {
	select {
	case <-h.done:
		return h.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Err returns the bind error once settled.
func (h *Handle) Err() error {
	h.slot.mu.Lock()
	defer h.slot.mu.Unlock()
	return h.err
}

// State reports the handle's lifecycle state.
func (h *Handle) State() State {
	h.slot.mu.Lock()
	defer h.slot.mu.Unlock()
	return h.state
}

// Instance returns the live chart instance, or nil.
func (h *Handle) Instance() render.Instance {
	h.slot.mu.Lock()
	defer h.slot.mu.Unlock()
	return h.instance
}

// Destroy tears down the rendered chart, cancels a pending fetch and
// releases the mount. It is safe to call more than once.
func (h *Handle) Destroy() error {
	h.slot.mu.Lock()
	defer h.slot.mu.Unlock()
	return h.destroyLocked()
}

func (h *Handle) destroyLocked() error {
	if h.slot.owner == h {
		h.slot.owner = nil
	}
	if h.state == StateDestroyed {
		return nil
	}
	h.state = StateDestroyed
	h.cancel()

	if h.instance == nil {
		return nil
	}
	inst := h.instance
	h.instance = nil
	if err := inst.Destroy(); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "destroy chart instance").
			WithDetail("mount", h.mountID)
	}
	h.logger.WithField("instance", inst.ID()).Debug("Chart destroyed")
	return nil
}

func (h *Handle) run(ctx context.Context, renderer render.Renderer, src datasource.DataSource) {
	defer close(h.done)
	defer h.cancel()

	cfg, err := fetch(ctx, src)

	h.slot.mu.Lock()
	defer h.slot.mu.Unlock()

	// A cancelled fetch context means the handle was destroyed or the
	// caller gave up; either way the result is discarded.
	if h.state == StateDestroyed || h.slot.owner != h || ctx.Err() != nil {
		h.settleLocked(errors.Cancelled(h.mountID))
		h.logger.Debug("Bind cancelled before render")
		return
	}
	if err != nil {
		h.settleLocked(errors.DataSourceFailed(h.mountID, err))
		h.logger.WithError(err).Error("Data source failed")
		return
	}

	// The source may hand out a shared config; only the copy is normalized.
	data := cfg.Clone()
	data.Normalize()
	if err := data.Validate(); err != nil {
		h.settleLocked(errors.RenderFailed(string(data.Kind), err))
		h.logger.WithError(err).Error("Chart config rejected")
		return
	}

	inst, err := draw(renderer, h.mount, data)
	if err != nil {
		if !errors.Is(err, errors.ErrCodeRenderFailed) {
			err = errors.RenderFailed(string(data.Kind), err)
		}
		h.settleLocked(err)
		h.logger.WithError(err).Error("Render failed")
		return
	}

	h.instance = inst
	h.state = StateLive
	h.logger.WithFields(logrus.Fields{
		"instance": inst.ID(),
		"kind":     data.Kind,
		"data":     len(data.Data),
	}).Debug("Chart rendered")
}

// settleLocked records a failed outcome and gives the mount back.
func (h *Handle) settleLocked(err error) {
	h.err = err
	if h.state != StateDestroyed {
		h.state = StateFailed
	}
	if h.slot.owner == h {
		h.slot.owner = nil
	}
}

func fetch(ctx context.Context, src datasource.DataSource) (cfg chart.Config, err error) {
	defer recoverPanic("data source", &err)
	return src.Fetch(ctx)
}

func draw(renderer render.Renderer, m mount.MountRef, data chart.Config) (inst render.Instance, err error) {
	defer recoverPanic("renderer", &err)
	inst, err = renderer.Render(m, string(data.Kind), data, render.TranslateOptions(data.Options))
	if err == nil && inst == nil {
		err = errors.New(errors.ErrCodeInternal, "renderer returned no instance")
	}
	return inst, err
}
