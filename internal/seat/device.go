// Package seat routes native input events of one pointer/keyboard device to
// protocol clients. It tracks held keys and buttons, keeps the surface under
// the pointer current and hands every pointer event to the active grab.
//
// A Device is not safe for concurrent use. Run it on a Loop.
package seat

import (
	"github.com/bnema/wayseat/internal/logger"
	"github.com/bnema/wayseat/internal/protocol"
	"github.com/bnema/wayseat/internal/scene"
	"github.com/bnema/wayseat/internal/surface"
	"github.com/bnema/wayseat/internal/wm"
)

// Stage hit-tests the scene.
type Stage interface {
	ActorAt(mode scene.PickMode, x, y float64) scene.Actor
}

// Shell carries out window manager requests made by input handling.
type Shell interface {
	RaiseWindow(w *wm.Window)
	MoveWindow(w *wm.Window, x, y int)
	ResizeWindow(w *wm.Window, r wm.Rect)
	SetCursor(buffer *protocol.Buffer, hotspotX, hotspotY int32)
	HideCursor()
}

// Surfaces resolves weak surface handles.
type Surfaces interface {
	Lookup(h surface.Handle) (*surface.Surface, bool)
}

// SurfaceActor is an actor that draws a client surface.
type SurfaceActor interface {
	scene.Actor
	Surface() surface.Handle
}

// Config wires a device to the rest of the compositor.
type Config struct {
	Stage        Stage
	Shell        Shell
	Surfaces     Surfaces
	RaiseOnClick bool
}

// Device is one seat's pointer and keyboard.
type Device struct {
	stage        Stage
	shell        Shell
	surfaces     Surfaces
	raiseOnClick bool

	// Pointer position in stage coordinates
	x, y float64
	// Timestamp of the last handled event
	time uint32

	// Surface under the pointer and the pointer position in its coordinates
	current            surface.Handle
	currentX, currentY float64

	keys        KeySet
	buttonCount int

	// Snapshot of the press that started the current button sequence
	grabButton     uint32
	grabTime       uint32
	grabX, grabY   float64
	grab           Grab
	defaultGrab    *PointerGrab
	resources      map[protocol.ClientID]protocol.Resource
	pointerFocus   surface.Handle
	pointerFocusRc protocol.Resource
	focusTime      uint32
	keyboardFocus  surface.Handle
	keyboardRc     protocol.Resource
}

// New creates a device with the default pointer grab active.
func New(cfg Config) *Device {
	d := &Device{
		stage:        cfg.Stage,
		shell:        cfg.Shell,
		surfaces:     cfg.Surfaces,
		raiseOnClick: cfg.RaiseOnClick,
		resources:    make(map[protocol.ClientID]protocol.Resource),
	}
	d.defaultGrab = &PointerGrab{dev: d}
	d.grab = d.defaultGrab
	return d
}

// Position returns the pointer position in stage coordinates.
func (d *Device) Position() (float64, float64) {
	return d.x, d.y
}

// Time returns the timestamp of the last event handled.
func (d *Device) Time() uint32 {
	return d.time
}

// Current returns the surface under the pointer and the pointer position in
// its coordinates.
func (d *Device) Current() (surface.Handle, float64, float64) {
	return d.current, d.currentX, d.currentY
}

// ButtonCount returns the number of held buttons. It goes negative after
// unmatched releases.
func (d *Device) ButtonCount() int {
	return d.buttonCount
}

// GrabOrigin returns the button, time and position of the press that started
// the current button sequence.
func (d *Device) GrabOrigin() (button, time uint32, x, y float64) {
	return d.grabButton, d.grabTime, d.grabX, d.grabY
}

// Keys returns the held key codes in press order.
func (d *Device) Keys() []uint32 {
	return d.keys.Codes()
}

// PointerFocus returns the surface receiving pointer events.
func (d *Device) PointerFocus() surface.Handle {
	return d.pointerFocus
}

// KeyboardFocus returns the surface receiving key events.
func (d *Device) KeyboardFocus() surface.Handle {
	return d.keyboardFocus
}

// Button accounts for a press or release of an evdev button and forwards it
// to the active grab.
func (d *Device) Button(time uint32, button uint32, pressed bool) {
	if pressed {
		if d.buttonCount == 0 {
			d.grabButton = button
			d.grabTime = time
			d.grabX, d.grabY = d.x, d.y
			d.raiseCurrent()
		}
		d.buttonCount++
	} else {
		d.buttonCount--
		if d.buttonCount < 0 {
			logger.Debugf("Button count went negative (%d) after release of 0x%x", d.buttonCount, button)
		}
	}

	d.grab.Button(time, button, pressed)
}

func (d *Device) raiseCurrent() {
	if !d.raiseOnClick {
		return
	}
	s, ok := d.surfaces.Lookup(d.current)
	if !ok || s.Window == nil || s.Window.ClientType != wm.ClientWayland {
		return
	}
	logger.Debugf("Raising window %d on click", s.Window.ID)
	d.shell.RaiseWindow(s.Window)
}

// key delivers a key event to the keyboard focus. The caller has already
// updated the key set. A destroyed focus surface clears the focus.
func (d *Device) key(time uint32, code uint32, pressed bool) {
	if d.keyboardRc != nil && !d.alive(d.keyboardFocus) {
		d.keyboardFocus, d.keyboardRc = surface.None, nil
	}
	if r := d.keyboardRc; r != nil && r.Alive() {
		r.Key(time, code, pressed)
	}
}

// dropDeadPointerFocus clears a pointer focus whose surface was destroyed.
// No leave is sent for it.
func (d *Device) dropDeadPointerFocus() {
	if d.pointerFocus.IsNone() || d.alive(d.pointerFocus) {
		return
	}
	logger.Debugf("Pointer focus %s destroyed", d.pointerFocus)
	d.pointerFocus, d.pointerFocusRc = surface.None, nil
	d.defaultGrab.Surface = surface.None
}

// Bind registers a client's resource for the device. A second bind by the
// same client replaces the first, and any focus held through the old
// resource moves to the new one.
func (d *Device) Bind(r protocol.Resource) {
	if old, ok := d.resources[r.Client()]; ok && old != r {
		if d.pointerFocusRc == old {
			d.pointerFocusRc = r
		}
		if d.keyboardRc == old {
			d.keyboardRc = r
		}
	}
	d.resources[r.Client()] = r
	logger.Debugf("Client %d bound input device", r.Client())
}

// Unbind drops a client's resource and any focus pointing at it.
func (d *Device) Unbind(client protocol.ClientID) {
	r, ok := d.resources[client]
	if !ok {
		return
	}
	delete(d.resources, client)
	if d.pointerFocusRc == r {
		d.pointerFocusRc = nil
		d.pointerFocus = surface.None
	}
	if d.keyboardRc == r {
		d.keyboardRc = nil
		d.keyboardFocus = surface.None
	}
	logger.Debugf("Client %d unbound input device", client)
}

// resourceFor returns the live resource of the client owning s.
func (d *Device) resourceFor(s *surface.Surface) protocol.Resource {
	r, ok := d.resources[s.Client]
	if !ok || !r.Alive() {
		return nil
	}
	return r
}

// setPointerFocus moves pointer focus to h, sending leave to the old focus
// and enter to the new one.
func (d *Device) setPointerFocus(time uint32, h surface.Handle, sx, sy float64) {
	if d.pointerFocusRc != nil && d.pointerFocus != h {
		if old, ok := d.surfaces.Lookup(d.pointerFocus); ok && d.pointerFocusRc.Alive() {
			d.pointerFocusRc.Leave(time, old.ID)
		}
	}

	var rc protocol.Resource
	s, ok := d.surfaces.Lookup(h)
	if ok {
		rc = d.resourceFor(s)
	} else {
		h = surface.None
	}
	if rc != nil && (d.pointerFocus != h || d.pointerFocusRc != rc) {
		rc.Enter(time, s.ID, sx, sy)
	}

	if d.pointerFocus != h {
		logger.Debugf("Pointer focus %s -> %s", d.pointerFocus, h)
	}
	d.pointerFocusRc = rc
	d.pointerFocus = h
	d.defaultGrab.Surface = h
	d.defaultGrab.X, d.defaultGrab.Y = sx, sy
	d.focusTime = time
}

// SetKeyboardFocus sends key events to the client owning h from now on.
// surface.None clears the focus.
func (d *Device) SetKeyboardFocus(h surface.Handle) {
	s, ok := d.surfaces.Lookup(h)
	if !ok {
		d.keyboardFocus, d.keyboardRc = surface.None, nil
		return
	}
	d.keyboardFocus = h
	d.keyboardRc = d.resourceFor(s)
	logger.Debugf("Keyboard focus -> %s", h)
}

// Attach sets the cursor image on behalf of client. Requests older than the
// current pointer focus, or from a client without pointer focus, are
// ignored. A nil buffer hides the cursor.
func (d *Device) Attach(client protocol.ClientID, time uint32, buffer *protocol.Buffer, hotspotX, hotspotY int32) {
	if time < d.focusTime {
		return
	}
	s, ok := d.surfaces.Lookup(d.pointerFocus)
	if !ok || s.Client != client {
		return
	}
	if buffer == nil {
		d.shell.HideCursor()
		return
	}
	d.shell.SetCursor(buffer, hotspotX, hotspotY)
}
