// Package binder binds chart widgets to mounts. A bind resolves the mount,
// awaits the data source and hands the result to the renderer. Each mount
// has at most one owning handle; a newer bind supersedes the older one.
package binder

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/grovetools/widgets/datasource"
	"github.com/grovetools/widgets/errors"
	"github.com/grovetools/widgets/logging"
	"github.com/grovetools/widgets/mount"
	"github.com/grovetools/widgets/render"
	"github.com/sirupsen/logrus"
)

// Binder owns the mapping from mount ids to their current handles.
type Binder struct {
	resolver mount.Resolver
	renderer render.Renderer
	logger   *logrus.Entry

	mu     sync.Mutex
	slots  map[string]*slot
	closed bool
	wg     sync.WaitGroup
}

// slot serializes ownership changes and rendering for one mount id.
type slot struct {
	mu    sync.Mutex
	owner *Handle
}

// New creates a Binder. A nil logger uses the "binder" component logger.
func New(resolver mount.Resolver, renderer render.Renderer, logger *logrus.Entry) *Binder {
	if logger == nil {
		logger = logging.NewLogger("binder")
	}
	return &Binder{
		resolver: resolver,
		renderer: renderer,
		logger:   logger,
		slots:    make(map[string]*slot),
	}
}

// Bind binds src to the mount and blocks until the chart is rendered or the
// bind fails. On failure no handle is returned and the mount keeps no
// reference to this bind.
func (b *Binder) Bind(ctx context.Context, mountID string, src datasource.DataSource) (*Handle, error) {
	h, err := b.Start(ctx, mountID, src)
	if err != nil {
		return nil, err
	}
	if err := h.Wait(ctx); err != nil {
		if ctx.Err() == nil {
			return nil, err
		}
		// The caller gave up; tear down whatever the bind got to.
		_ = h.Destroy()
		<-h.Done()
		if err := h.Err(); err != nil {
			return nil, err
		}
		return nil, errors.Cancelled(mountID)
	}
	return h, nil
}

// Start resolves and claims the mount, then fetches and renders in the
// background. Only a missing mount is reported synchronously; everything
// else is reported by Wait.
func (b *Binder) Start(ctx context.Context, mountID string, src datasource.DataSource) (*Handle, error) {
	m, ok := b.resolver.GetMountByID(mountID)
	if !ok {
		err := errors.NotFound(mountID)
		b.logger.WithField("mount", mountID).Warn("Mount not found, skipping widget")
		return nil, err
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil, errors.New(errors.ErrCodeInternal, "binder is closed")
	}
	s, ok := b.slots[mountID]
	if !ok {
		s = &slot{}
		b.slots[mountID] = s
	}
	b.wg.Add(1)
	b.mu.Unlock()

	fetchCtx, cancel := context.WithCancel(ctx)
	h := &Handle{
		id:      uuid.NewString(),
		mountID: mountID,
		mount:   m,
		slot:    s,
		cancel:  cancel,
		done:    make(chan struct{}),
		state:   StatePending,
		logger:  b.logger.WithField("mount", mountID),
	}

	s.mu.Lock()
	prev := s.owner
	s.owner = h
	if prev != nil {
		prev.destroyLocked()
		h.logger.WithField("superseded", prev.id).Debug("Superseded previous handle")
	}
	s.mu.Unlock()

	go func() {
		defer b.wg.Done()
		h.run(fetchCtx, b.renderer, src)
	}()
	return h, nil
}

// Live returns the handle that currently owns mountID.
func (b *Binder) Live(mountID string) (*Handle, bool) {
	b.mu.Lock()
	s, ok := b.slots[mountID]
	b.mu.Unlock()
	if !ok {
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.owner, s.owner != nil
}

// Mounts lists the mount ids that currently have an owner, sorted.
func (b *Binder) Mounts() []string {
	b.mu.Lock()
	slots := make(map[string]*slot, len(b.slots))
	for id, s := range b.slots {
		slots[id] = s
	}
	b.mu.Unlock()

	var ids []string
	for id, s := range slots {
		s.mu.Lock()
		if s.owner != nil {
			ids = append(ids, id)
		}
		s.mu.Unlock()
	}
	sort.Strings(ids)
	return ids
}

// Close destroys every handle and waits for pending binds to settle.
// Further binds fail.
func (b *Binder) Close() error {
	b.mu.Lock()
	b.closed = true
	slots := make([]*slot, 0, len(b.slots))
	for _, s := range b.slots {
		slots = append(slots, s)
	}
	b.mu.Unlock()

	var firstErr error
	for _, s := range slots {
		s.mu.Lock()
		owner := s.owner
		s.mu.Unlock()
		if owner == nil {
			continue
		}
		if err := owner.Destroy(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	b.wg.Wait()
	return firstErr
}

func recoverPanic(what string, err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("%s panicked: %v", what, r)
	}
}
