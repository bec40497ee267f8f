// Package evcode holds the evdev button and key vocabulary used on the wire
// and the mapping from toolkit numbering into it.
package evcode

import (
	"fmt"

	evdev "github.com/gvalkov/golang-evdev"
)

// Pointer buttons
const (
	BtnLeft    uint32 = evdev.BTN_LEFT
	BtnRight   uint32 = evdev.BTN_RIGHT
	BtnMiddle  uint32 = evdev.BTN_MIDDLE
	BtnSide    uint32 = evdev.BTN_SIDE
	BtnExtra   uint32 = evdev.BTN_EXTRA
	BtnForward uint32 = evdev.BTN_FORWARD
	BtnBack    uint32 = evdev.BTN_BACK
	BtnTask    uint32 = evdev.BTN_TASK
)

// ScrollDirection is the toolkit's discrete scroll direction.
type ScrollDirection int

const (
	ScrollUp ScrollDirection = iota
	ScrollDown
	ScrollLeft
	ScrollRight
	ScrollSmooth
)

func (d ScrollDirection) String() string {
	switch d {
	case ScrollUp:
		return "up"
	case ScrollDown:
		return "down"
	case ScrollLeft:
		return "left"
	case ScrollRight:
		return "right"
	case ScrollSmooth:
		return "smooth"
	}
	return fmt.Sprintf("ScrollDirection(%d)", int(d))
}

// ParseScrollDirection parses the names produced by String.
func ParseScrollDirection(s string) (ScrollDirection, error) {
	for d := ScrollUp; d <= ScrollSmooth; d++ {
		if d.String() == s {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown scroll direction %q", s)
}

// FromNativeButton maps toolkit button numbering (1 = primary, 2 = middle,
// 3 = secondary) onto evdev codes, where middle and right are swapped.
func FromNativeButton(button uint32) uint32 {
	switch button {
	case 2:
		return BtnMiddle
	case 3:
		return BtnRight
	default:
		return button + BtnLeft - 1
	}
}

// ToNativeButton is the inverse of FromNativeButton.
func ToNativeButton(code uint32) uint32 {
	switch code {
	case BtnMiddle:
		return 2
	case BtnRight:
		return 3
	default:
		return code - BtnLeft + 1
	}
}

// FromScroll returns the side button a discrete scroll step is reported as.
// Directions without a button (smooth scrolling) report false.
func FromScroll(d ScrollDirection) (uint32, bool) {
	switch d {
	case ScrollUp:
		return BtnSide, true
	case ScrollDown:
		return BtnExtra, true
	case ScrollLeft:
		return BtnForward, true
	case ScrollRight:
		return BtnBack, true
	}
	return 0, false
}

// IsButton reports whether code falls in the pointer button range.
func IsButton(code uint32) bool {
	return code >= BtnLeft && code <= BtnTask
}

var buttonNames = map[uint32]string{
	BtnLeft:    "BTN_LEFT",
	BtnRight:   "BTN_RIGHT",
	BtnMiddle:  "BTN_MIDDLE",
	BtnSide:    "BTN_SIDE",
	BtnExtra:   "BTN_EXTRA",
	BtnForward: "BTN_FORWARD",
	BtnBack:    "BTN_BACK",
	BtnTask:    "BTN_TASK",
}

// Name returns the symbolic name of a pointer button, or the hex code for
// anything else.
func Name(code uint32) string {
	if name, ok := buttonNames[code]; ok {
		return name
	}
	return fmt.Sprintf("0x%x", code)
}
