package surface

import (
	"testing"

	"github.com/bnema/wayseat/internal/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_AddLookupRemove(t *testing.T) {
	r := NewRegistry()
	s := &Surface{ID: 10, Client: 1}

	h := r.Add(s)
	require.False(t, h.IsNone())

	got, ok := r.Lookup(h)
	require.True(t, ok)
	assert.Same(t, s, got)
	assert.Equal(t, 1, r.Len())

	assert.True(t, r.Remove(h))
	_, ok = r.Lookup(h)
	assert.False(t, ok, "removed handle must be stale")
	assert.False(t, r.Remove(h), "double remove is a no-op")
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_ReusedSlotDoesNotResurrectOldHandle(t *testing.T) {
	r := NewRegistry()
	old := r.Add(&Surface{ID: 1})
	r.Remove(old)

	fresh := r.Add(&Surface{ID: 2})
	assert.NotEqual(t, old, fresh)
	assert.False(t, r.Alive(old))

	got, ok := r.Lookup(fresh)
	require.True(t, ok)
	assert.Equal(t, uint32(2), got.ID)
}

func TestRegistry_NoneNeverResolves(t *testing.T) {
	r := NewRegistry()
	r.Add(&Surface{})
	_, ok := r.Lookup(None)
	assert.False(t, ok)
	assert.Equal(t, "none", None.String())
}

func TestActor(t *testing.T) {
	r := NewRegistry()
	h := r.Add(&Surface{ID: 3})
	a := NewActor(scene.NewNode("win", 10, 20, 100, 100), h)

	assert.Equal(t, h, a.Surface())
	x, y, ok := a.TransformStagePoint(15, 30)
	assert.True(t, ok)
	assert.Equal(t, 5.0, x)
	assert.Equal(t, 10.0, y)
}
