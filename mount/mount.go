// Package mount models the host's named attachment points. A Document is an
// in-memory stand-in for the page DOM: renderers attach nodes to mounts and
// tests count the mutations.
package mount

import (
	"fmt"
	"sort"
	"sync"
)

// Node is what a renderer attaches under a mount.
type Node struct {
	ID      string
	Kind    string // "canvas", "text", "fallback"
	Payload []byte
}

// MountRef is a resolved attachment point.
type MountRef interface {
	ID() string
	Attach(node Node) error
	Detach(nodeID string) bool
	Children() []Node
}

// Resolver resolves mount ids, the getMountById capability of the host.
type Resolver interface {
	GetMountByID(id string) (MountRef, bool)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(id string) (MountRef, bool)

// GetMountByID calls f(id).
func (f ResolverFunc) GetMountByID(id string) (MountRef, bool) {
	return f(id)
}

// Document is a concurrency-safe set of mounts.
type Document struct {
	mu     sync.RWMutex
	mounts map[string]*element
}

// NewDocument creates a document holding the given mount ids.
func NewDocument(ids ...string) *Document {
	d := &Document{mounts: make(map[string]*element)}
	for _, id := range ids {
		d.AddMount(id)
	}
	return d
}

// AddMount creates an empty mount. Adding an existing id keeps the current one.
func (d *Document) AddMount(id string) MountRef {
	d.mu.Lock()
	defer d.mu.Unlock()
	if el, ok := d.mounts[id]; ok {
		return el
	}
	el := &element{id: id}
	d.mounts[id] = el
	return el
}

// RemoveMount drops a mount, as partial page replacement does. Nodes still
// attached are discarded with it.
func (d *Document) RemoveMount(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if el, ok := d.mounts[id]; ok {
		el.markRemoved()
		delete(d.mounts, id)
	}
}

// GetMountByID implements Resolver.
func (d *Document) GetMountByID(id string) (MountRef, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	el, ok := d.mounts[id]
	if !ok {
		return nil, false
	}
	return el, true
}

// MountIDs lists mount ids in sorted order.
func (d *Document) MountIDs() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	ids := make([]string, 0, len(d.mounts))
	for id := range d.mounts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Mutations returns how many attach/detach operations hit mount id.
func (d *Document) Mutations(id string) int {
	d.mu.RLock()
	el, ok := d.mounts[id]
	d.mu.RUnlock()
	if !ok {
		return 0
	}
	el.mu.Lock()
	defer el.mu.Unlock()
	return el.mutations
}

type element struct {
	mu        sync.Mutex
	id        string
	children  []Node
	mutations int
	removed   bool
}

func (e *element) ID() string { return e.id }

func (e *element) Attach(node Node) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.removed {
		return fmt.Errorf("mount '%s' was removed from the document", e.id)
	}
	for _, c := range e.children {
		if c.ID == node.ID {
			return fmt.Errorf("node '%s' already attached to mount '%s'", node.ID, e.id)
		}
	}
	e.children = append(e.children, node)
	e.mutations++
	return nil
}

func (e *element) Detach(nodeID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, c := range e.children {
		if c.ID == nodeID {
			e.children = append(e.children[:i], e.children[i+1:]...)
			e.mutations++
			return true
		}
	}
	return false
}

func (e *element) Children() []Node {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Node, len(e.children))
	copy(out, e.children)
	return out
}

func (e *element) markRemoved() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.removed = true
	e.children = nil
}
