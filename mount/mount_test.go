package mount

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentResolve(t *testing.T) {
	doc := NewDocument("doughnutChart")

	m, ok := doc.GetMountByID("doughnutChart")
	require.True(t, ok)
	assert.Equal(t, "doughnutChart", m.ID())

	_, ok = doc.GetMountByID("missing")
	assert.False(t, ok)
}

func TestAttachDetachCountsMutations(t *testing.T) {
	doc := NewDocument("m")
	m, _ := doc.GetMountByID("m")

	require.NoError(t, m.Attach(Node{ID: "n1", Kind: "canvas"}))
	assert.Error(t, m.Attach(Node{ID: "n1", Kind: "canvas"}), "duplicate node id")
	assert.Len(t, m.Children(), 1)
	assert.Equal(t, 1, doc.Mutations("m"))

	assert.True(t, m.Detach("n1"))
	assert.False(t, m.Detach("n1"))
	assert.Empty(t, m.Children())
	assert.Equal(t, 2, doc.Mutations("m"))
}

func TestRemovedMountRejectsAttach(t *testing.T) {
	doc := NewDocument("m")
	m, _ := doc.GetMountByID("m")
	doc.RemoveMount("m")

	assert.Error(t, m.Attach(Node{ID: "n"}))
	_, ok := doc.GetMountByID("m")
	assert.False(t, ok)
	assert.Equal(t, 0, doc.Mutations("m"))
}

func TestAddMountIsIdempotent(t *testing.T) {
	doc := NewDocument()
	a := doc.AddMount("b")
	doc.AddMount("a")
	assert.Same(t, a, doc.AddMount("b"))
	assert.Equal(t, []string{"a", "b"}, doc.MountIDs())
}

func TestResolverFunc(t *testing.T) {
	doc := NewDocument("x")
	var r Resolver = ResolverFunc(func(id string) (MountRef, bool) {
		return doc.GetMountByID(id)
	})
	_, ok := r.GetMountByID("x")
	assert.True(t, ok)
}
