package seat

import (
	"fmt"

	"github.com/bnema/wayseat/internal/surface"
)

// Status is a snapshot of a device for display.
type Status struct {
	X, Y          float64
	Current       string
	CurrentX      float64
	CurrentY      float64
	PointerFocus  string
	KeyboardFocus string
	Grab          string
	ButtonCount   int
	GrabButton    uint32
	GrabTime      uint32
	Keys          []uint32
	Clients       int
}

// Status snapshots the device.
func (d *Device) Status() Status {
	return Status{
		X:             d.x,
		Y:             d.y,
		Current:       d.describe(d.current),
		CurrentX:      d.currentX,
		CurrentY:      d.currentY,
		PointerFocus:  d.describe(d.pointerFocus),
		KeyboardFocus: d.describe(d.keyboardFocus),
		Grab:          grabName(d.grab),
		ButtonCount:   d.buttonCount,
		GrabButton:    d.grabButton,
		GrabTime:      d.grabTime,
		Keys:          d.keys.Codes(),
		Clients:       len(d.resources),
	}
}

func (d *Device) describe(h surface.Handle) string {
	s, ok := d.surfaces.Lookup(h)
	if !ok {
		return "none"
	}
	if s.Window != nil {
		return fmt.Sprintf("surface %d (window %d, client %d)", s.ID, s.Window.ID, s.Client)
	}
	return fmt.Sprintf("surface %d (client %d)", s.ID, s.Client)
}
