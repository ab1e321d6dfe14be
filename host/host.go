// Package host is the explicit startup surface a page-level host drives:
// modules are defined by name, initialized once, and subscribe to the
// content-ready signal through OnReady.
package host

import (
	"context"
	goerrors "errors"
	"fmt"
	"sync"

	"github.com/grovetools/widgets/errors"
	"github.com/grovetools/widgets/logging"
	"github.com/sirupsen/logrus"
)

// Module is a registration factory. It runs once during Init and usually
// subscribes to OnReady.
type Module func(ctx context.Context, h *Host) error

// ReadyFunc is called on every content-ready signal.
type ReadyFunc func(ctx context.Context) error

type definition struct {
	name    string
	factory Module
}

type subscription struct {
	id int
	cb ReadyFunc
}

// Host holds module definitions and ready subscribers.
type Host struct {
	mu          sync.Mutex
	defs        []definition
	names       map[string]bool
	initialized bool
	subs        []subscription
	nextSub     int
	logger      *logrus.Entry
}

// New creates an empty host. A nil logger uses the "host" component logger.
func New(logger *logrus.Entry) *Host {
	if logger == nil {
		logger = logging.NewLogger("host")
	}
	return &Host{names: make(map[string]bool), logger: logger}
}

// Define registers a module under a unique name.
func (h *Host) Define(name string, factory Module) error {
	if name == "" {
		return errors.InvalidInput("name", "module name must not be empty")
	}
	if factory == nil {
		return errors.InvalidInput("factory", fmt.Sprintf("module '%s' has no factory", name))
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.names[name] {
		return errors.InvalidInput("name", fmt.Sprintf("module '%s' is already defined", name))
	}
	if h.initialized {
		return errors.InvalidInput("name", fmt.Sprintf("module '%s' defined after init", name))
	}
	h.names[name] = true
	h.defs = append(h.defs, definition{name: name, factory: factory})
	return nil
}

// Modules lists defined module names in definition order.
func (h *Host) Modules() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	names := make([]string, len(h.defs))
	for i, d := range h.defs {
		names[i] = d.name
	}
	return names
}

// Init runs every module factory once, in definition order. Later calls
// do nothing. Factory errors are joined; a failing factory does not stop
// the ones after it.
func (h *Host) Init(ctx context.Context) error {
	h.mu.Lock()
	if h.initialized {
		h.mu.Unlock()
		return nil
	}
	h.initialized = true
	defs := append([]definition(nil), h.defs...)
	h.mu.Unlock()

	var errs []error
	for _, d := range defs {
		if err := runModule(ctx, h, d); err != nil {
			h.logger.WithError(err).WithField("module", d.name).Error("Module init failed")
			errs = append(errs, err)
			continue
		}
		h.logger.WithField("module", d.name).Debug("Module initialized")
	}
	return goerrors.Join(errs...)
}

// OnReady subscribes cb to content-ready signals. The returned function
// removes the subscription.
func (h *Host) OnReady(cb ReadyFunc) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextSub++
	id := h.nextSub
	h.subs = append(h.subs, subscription{id: id, cb: cb})

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			for i, s := range h.subs {
				if s.id == id {
					h.subs = append(h.subs[:i:i], h.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// Ready signals content ready. Subscribers run in subscription order; their
// errors and panics are logged and joined into the result.
func (h *Host) Ready(ctx context.Context) error {
	h.mu.Lock()
	subs := append([]subscription(nil), h.subs...)
	h.mu.Unlock()

	var errs []error
	for _, s := range subs {
		if err := runReady(ctx, s.cb); err != nil {
			h.logger.WithError(err).WithField("subscriber", s.id).Error("Ready callback failed")
			errs = append(errs, err)
		}
	}
	return goerrors.Join(errs...)
}

func runModule(ctx context.Context, h *Host, d definition) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.New(errors.ErrCodeInternal, fmt.Sprintf("module '%s' panicked: %v", d.name, r))
		}
	}()
	return d.factory(ctx, h)
}

func runReady(ctx context.Context, cb ReadyFunc) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.New(errors.ErrCodeInternal, fmt.Sprintf("ready callback panicked: %v", r))
		}
	}()
	return cb(ctx)
}
