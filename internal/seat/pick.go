package seat

import (
	"github.com/bnema/wayseat/internal/scene"
	"github.com/bnema/wayseat/internal/surface"
)

// Repick finds the surface under the pointer. hint is the actor the caller
// already picked for the current event; nil performs a fresh reactive pick.
// The active grab's Focus is only called when the surface changes.
func (d *Device) Repick(time uint32, hint scene.Actor) {
	d.dropDeadPointerFocus()

	actor := hint
	if actor == nil {
		actor = d.stage.ActorAt(scene.PickReactive, d.x, d.y)
	}

	next := surface.None
	if sa, ok := actor.(SurfaceActor); ok && d.alive(sa.Surface()) {
		next = sa.Surface()
		if ax, ay, ok := sa.TransformStagePoint(d.x, d.y); ok {
			d.currentX, d.currentY = ax, ay
		}
	}

	cur := d.current
	if !d.alive(cur) {
		cur = surface.None
	}
	if next != cur {
		d.grab.Focus(time, next, d.currentX, d.currentY)
	}
	d.current = next

	f := d.grab.Tracking()
	if s, ok := d.surfaces.Lookup(f.Surface); ok && s.Actor != nil {
		if ax, ay, ok := s.Actor.TransformStagePoint(d.x, d.y); ok {
			f.X, f.Y = ax, ay
		}
	}
}

func (d *Device) alive(h surface.Handle) bool {
	_, ok := d.surfaces.Lookup(h)
	return ok
}
