// Package surface tracks client surfaces behind generation-checked handles so
// that holders of a handle never observe a destroyed surface.
package surface

import (
	"fmt"
	"sync"

	"github.com/bnema/wayseat/internal/protocol"
	"github.com/bnema/wayseat/internal/scene"
	"github.com/bnema/wayseat/internal/wm"
)

// Handle is a weak reference to a surface. The zero value refers to no
// surface.
type Handle struct {
	index uint32
	gen   uint32
}

// None is the handle of no surface.
var None Handle

// IsNone reports whether h is the empty handle.
func (h Handle) IsNone() bool { return h.gen == 0 }

func (h Handle) String() string {
	if h.IsNone() {
		return "none"
	}
	return fmt.Sprintf("surface#%d.%d", h.index, h.gen)
}

// Surface is a client drawable addressable over the protocol.
type Surface struct {
	ID     uint32            // protocol object id
	Client protocol.ClientID // owning client
	Window *wm.Window        // nil if the surface is not a managed window
	Actor  scene.Actor       // actor the surface is drawn by
}

type slot struct {
	gen     uint32
	surface *Surface
}

// Registry owns the handle space.
type Registry struct {
	mu    sync.RWMutex
	slots []slot
	free  []uint32
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Add registers s and returns its handle.
func (r *Registry) Add(s *Surface) Handle {
	r.mu.Lock()
	defer r.mu.Unlock()

	var idx uint32
	if n := len(r.free); n > 0 {
		idx = r.free[n-1]
		r.free = r.free[:n-1]
	} else {
		idx = uint32(len(r.slots))
		r.slots = append(r.slots, slot{})
	}

	sl := &r.slots[idx]
	sl.gen++
	if sl.gen == 0 {
		sl.gen = 1
	}
	sl.surface = s
	return Handle{index: idx, gen: sl.gen}
}

// Remove invalidates h. Removing a stale handle is a no-op.
func (r *Registry) Remove(h Handle) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	sl, ok := r.slot(h)
	if !ok {
		return false
	}
	sl.surface = nil
	sl.gen++
	if sl.gen == 0 {
		sl.gen = 1
	}
	r.free = append(r.free, h.index)
	return true
}

// Lookup resolves h. Stale and empty handles report false.
func (r *Registry) Lookup(h Handle) (*Surface, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sl, ok := r.slot(h)
	if !ok {
		return nil, false
	}
	return sl.surface, true
}

// Alive reports whether h still refers to a surface.
func (r *Registry) Alive(h Handle) bool {
	_, ok := r.Lookup(h)
	return ok
}

// Len returns the number of live surfaces.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.slots) - len(r.free)
}

func (r *Registry) slot(h Handle) (*slot, bool) {
	if h.IsNone() || int(h.index) >= len(r.slots) {
		return nil, false
	}
	sl := &r.slots[h.index]
	if sl.gen != h.gen || sl.surface == nil {
		return nil, false
	}
	return sl, true
}

// Actor is a scene node that draws a surface.
type Actor struct {
	*scene.Node
	handle Handle
}

// NewActor binds node to the surface behind h.
func NewActor(node *scene.Node, h Handle) *Actor {
	return &Actor{Node: node, handle: h}
}

// Surface returns the handle of the drawn surface.
func (a *Actor) Surface() Handle { return a.handle }
