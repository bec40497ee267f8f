package seat

import (
	"math"

	"github.com/bnema/wayseat/internal/surface"
	"github.com/bnema/wayseat/internal/wm"
)

// MoveGrab drags a window with the pointer until every button is released.
type MoveGrab struct {
	GrabFocus
	dev    *Device
	window *wm.Window
	origin wm.Rect
}

// NewMoveGrab creates a move grab for w anchored at the press that started
// the current button sequence.
func (d *Device) NewMoveGrab(w *wm.Window) *MoveGrab {
	return &MoveGrab{dev: d, window: w, origin: w.Rect}
}

func (g *MoveGrab) Name() string { return "move" }

// Focus is ignored; the window keeps following the pointer across surfaces.
func (g *MoveGrab) Focus(uint32, surface.Handle, float64, float64) {}

func (g *MoveGrab) Motion(time uint32, _, _ float64) {
	dx, dy := g.dev.delta()
	g.dev.shell.MoveWindow(g.window, g.origin.X+dx, g.origin.Y+dy)
}

func (g *MoveGrab) Button(time uint32, _ uint32, pressed bool) {
	if !pressed && g.dev.buttonCount <= 0 {
		g.dev.EndGrab(time)
	}
}

// delta is the pointer travel since the press that started the current
// button sequence, rounded to whole pixels.
func (d *Device) delta() (int, int) {
	return int(math.Round(d.x - d.grabX)), int(math.Round(d.y - d.grabY))
}
