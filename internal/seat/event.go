package seat

import (
	"github.com/bnema/wayseat/internal/evcode"
	"github.com/bnema/wayseat/internal/logger"
	"github.com/bnema/wayseat/internal/native"
)

// HandleEvent translates a native event into motion, button and key
// handling. Event types the device does not consume are ignored.
func (d *Device) HandleEvent(ev *native.Event) {
	d.time = ev.Time
	switch ev.Type {
	case native.Motion:
		d.Motion(ev)
	case native.ButtonPress, native.ButtonRelease:
		d.Button(ev.Time, evcode.FromNativeButton(ev.Button), ev.Type == native.ButtonPress)
	case native.KeyPress, native.KeyRelease:
		d.handleKey(ev)
	case native.Scroll:
		d.handleScroll(ev)
	}
}

// Motion moves the pointer, repicks with the event's source actor and
// forwards the grab's tracked position to the grab.
func (d *Device) Motion(ev *native.Event) {
	d.x, d.y = ev.X, ev.Y
	d.Repick(ev.Time, ev.Source)

	f := d.grab.Tracking()
	d.grab.Motion(ev.Time, f.X, f.Y)
}

func (d *Device) handleScroll(ev *native.Event) {
	button, ok := evcode.FromScroll(ev.Direction)
	if !ok {
		return
	}
	d.Button(ev.Time, button, true)
	d.Button(ev.Time, button, false)
}

func (d *Device) handleKey(ev *native.Event) {
	if ev.Device == nil {
		return
	}
	code, ok := ev.Device.KeycodeToEvdev(ev.HardwareKeycode)
	if !ok {
		return
	}

	pressed := ev.Type == native.KeyPress
	if pressed {
		// Auto-repeat
		if !d.keys.Press(code) {
			return
		}
	} else if !d.keys.Release(code) {
		logger.Warnf("unexpected key release event for key 0x%x", code)
	}

	d.key(ev.Time, code, pressed)
}
