package render

import (
	"sync"

	"github.com/grovetools/widgets/mount"
)

// NodeInstance is an Instance backed by a single node attached to a mount.
// Renderers that draw one node per chart can return it directly.
type NodeInstance struct {
	once  sync.Once
	mount mount.MountRef
	node  mount.Node
}

// Attach attaches node to m and returns the owning instance.
func Attach(m mount.MountRef, node mount.Node) (*NodeInstance, error) {
	if err := m.Attach(node); err != nil {
		return nil, err
	}
	return &NodeInstance{mount: m, node: node}, nil
}

// ID returns the node id.
func (n *NodeInstance) ID() string { return n.node.ID }

// Node returns the attached node.
func (n *NodeInstance) Node() mount.Node { return n.node }

// Destroy detaches the node.
func (n *NodeInstance) Destroy() error {
	n.once.Do(func() {
		n.mount.Detach(n.node.ID)
	})
	return nil
}
