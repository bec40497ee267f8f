package native

// DefaultKeycodeOffset is the X11/XKB distance between hardware keycodes and
// evdev codes.
const DefaultKeycodeOffset = 8

// maxEvdevKey is KEY_MAX in linux/input-event-codes.h.
const maxEvdevKey = 0x2ff

// XKBKeymap maps XKB hardware keycodes by subtracting a fixed offset.
type XKBKeymap struct {
	Offset uint32
}

// NewXKBKeymap creates a keymap with the given offset.
func NewXKBKeymap(offset uint32) XKBKeymap {
	return XKBKeymap{Offset: offset}
}

// KeycodeToEvdev reports false for keycodes below the offset or past KEY_MAX.
func (k XKBKeymap) KeycodeToEvdev(hardware uint32) (uint32, bool) {
	if hardware < k.Offset {
		return 0, false
	}
	code := hardware - k.Offset
	if code > maxEvdevKey {
		return 0, false
	}
	return code, true
}

// EvdevToKeycode is the inverse mapping, used by sources that read evdev
// directly.
func (k XKBKeymap) EvdevToKeycode(code uint32) uint32 {
	return code + k.Offset
}
