// Package native describes the toolkit's input event records as they arrive
// from the backend, before translation into the evdev vocabulary.
package native

import (
	"fmt"

	"github.com/bnema/wayseat/internal/evcode"
	"github.com/bnema/wayseat/internal/scene"
)

// EventType is the kind of a native event.
type EventType int

const (
	Nothing EventType = iota
	Motion
	ButtonPress
	ButtonRelease
	KeyPress
	KeyRelease
	Scroll
	Enter
	Leave
)

func (t EventType) String() string {
	switch t {
	case Nothing:
		return "nothing"
	case Motion:
		return "motion"
	case ButtonPress:
		return "button-press"
	case ButtonRelease:
		return "button-release"
	case KeyPress:
		return "key-press"
	case KeyRelease:
		return "key-release"
	case Scroll:
		return "scroll"
	case Enter:
		return "enter"
	case Leave:
		return "leave"
	}
	return fmt.Sprintf("EventType(%d)", int(t))
}

// Keymap converts hardware keycodes of an input device into evdev codes.
type Keymap interface {
	KeycodeToEvdev(hardware uint32) (uint32, bool)
}

// Event is one toolkit input event.
type Event struct {
	Type EventType
	Time uint32 // milliseconds

	// Motion, button and scroll
	X, Y float64

	// Button: toolkit numbering, 1 = primary, 2 = middle, 3 = secondary
	Button uint32

	// Keys
	HardwareKeycode uint32
	Device          Keymap // nil when the source device is unknown

	// Scroll
	Direction evcode.ScrollDirection

	// Source is the actor the toolkit already picked for this event, if any.
	Source scene.Actor
}

func (e *Event) String() string {
	switch e.Type {
	case Motion:
		return fmt.Sprintf("%s t=%d (%.1f,%.1f)", e.Type, e.Time, e.X, e.Y)
	case ButtonPress, ButtonRelease:
		return fmt.Sprintf("%s t=%d button=%d", e.Type, e.Time, e.Button)
	case KeyPress, KeyRelease:
		return fmt.Sprintf("%s t=%d keycode=%d", e.Type, e.Time, e.HardwareKeycode)
	case Scroll:
		return fmt.Sprintf("%s t=%d %s", e.Type, e.Time, e.Direction)
	}
	return fmt.Sprintf("%s t=%d", e.Type, e.Time)
}
