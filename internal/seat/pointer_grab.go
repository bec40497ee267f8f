package seat

import "github.com/bnema/wayseat/internal/surface"

// PointerGrab is the normal pointer behaviour and the device's default grab.
// Pointer focus follows the surface under the pointer while no button is
// held. While buttons are held the focused surface keeps receiving events
// (implicit grab) until the last release.
type PointerGrab struct {
	GrabFocus
	dev *Device
}

// Name implements status reporting.
func (g *PointerGrab) Name() string { return "pointer" }

func (g *PointerGrab) Focus(time uint32, s surface.Handle, x, y float64) {
	if g.dev.buttonCount > 0 {
		return
	}
	g.dev.setPointerFocus(time, s, x, y)
}

func (g *PointerGrab) Motion(time uint32, x, y float64) {
	d := g.dev
	d.dropDeadPointerFocus()
	if r := d.pointerFocusRc; r != nil && r.Alive() {
		r.Motion(time, d.x, d.y, x, y)
	}
}

func (g *PointerGrab) Button(time uint32, button uint32, pressed bool) {
	d := g.dev
	d.dropDeadPointerFocus()
	if r := d.pointerFocusRc; r != nil && r.Alive() {
		r.Button(time, button, pressed)
	}
	if d.buttonCount == 0 && !pressed {
		d.setPointerFocus(time, d.current, d.currentX, d.currentY)
	}
}
