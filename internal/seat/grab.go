package seat

import (
	"errors"

	"github.com/bnema/wayseat/internal/logger"
	"github.com/bnema/wayseat/internal/surface"
)

// ErrNilGrab is returned when a nil grab is installed.
var ErrNilGrab = errors.New("seat: nil grab")

// GrabFocus is the surface a grab tracks and the pointer position in that
// surface's local coordinates. The device keeps X and Y current on every
// repick while Surface is alive.
type GrabFocus struct {
	Surface surface.Handle
	X, Y    float64
}

// Tracking lets GrabFocus be embedded to satisfy Grab.
func (f *GrabFocus) Tracking() *GrabFocus { return f }

// Grab is the interaction mode currently handling pointer input. Every
// motion, button and focus event of a device goes to its active grab, which
// may act on it or ignore it.
type Grab interface {
	// Focus is called when the surface under the pointer changes.
	Focus(time uint32, s surface.Handle, x, y float64)
	// Motion receives the pointer position in the tracked surface's
	// coordinates.
	Motion(time uint32, x, y float64)
	Button(time uint32, button uint32, pressed bool)
	Tracking() *GrabFocus
}

// grabName returns a short name for status output.
func grabName(g Grab) string {
	if n, ok := g.(interface{ Name() string }); ok {
		return n.Name()
	}
	return "custom"
}

// StartGrab makes g the active grab and hands it the current surface. The
// previous grab is dropped without notification.
func (d *Device) StartGrab(g Grab, time uint32) error {
	if g == nil {
		return ErrNilGrab
	}
	d.grab = g
	f := g.Tracking()
	f.Surface = d.current
	f.X, f.Y = d.currentX, d.currentY
	g.Focus(time, d.current, d.currentX, d.currentY)
	logger.Debugf("Started %s grab", grabName(g))
	return nil
}

// EndGrab reinstalls the default pointer grab and refocuses the current
// surface.
func (d *Device) EndGrab(time uint32) {
	if d.grab == Grab(d.defaultGrab) {
		return
	}
	logger.Debugf("Ended %s grab", grabName(d.grab))
	d.grab = d.defaultGrab
	d.grab.Focus(time, d.current, d.currentX, d.currentY)
}

// ActiveGrab returns the grab handling input. It is never nil.
func (d *Device) ActiveGrab() Grab {
	return d.grab
}
