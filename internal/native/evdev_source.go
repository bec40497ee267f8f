package native

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bnema/wayseat/internal/evcode"
	"github.com/bnema/wayseat/internal/logger"
	"github.com/gvalkov/golang-evdev"
)

// SourceConfig selects the devices an EvdevSource reads from. Empty paths are
// detected automatically.
type SourceConfig struct {
	PointerPath  string
	KeyboardPath string
	Width        float64
	Height       float64
	Keymap       XKBKeymap
	Grab         bool // take exclusive access to the devices
}

// EvdevSource reads kernel input devices and turns them into native events
type EvdevSource struct {
	mu       sync.RWMutex
	cfg      SourceConfig
	pointer  *evdev.InputDevice
	keyboard *evdev.InputDevice
	onEvent  func(*Event)
	running  bool
	grabbed  bool
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// NewEvdevSource creates a source; nothing is opened until Start.
func NewEvdevSource(cfg SourceConfig) *EvdevSource {
	return &EvdevSource{cfg: cfg}
}

// OnEvent sets the callback receiving translated events. It is called from
// the reader goroutines.
func (s *EvdevSource) OnEvent(callback func(*Event)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onEvent = callback
}

// Start opens the devices and begins reading.
func (s *EvdevSource) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("already running")
	}

	pointer, err := openDevice(s.cfg.PointerPath, isPointer)
	if err != nil {
		return fmt.Errorf("failed to open pointer device: %w", err)
	}
	s.pointer = pointer
	logger.Infof("Using pointer device: %s at %s", pointer.Name, pointer.Fn)

	keyboard, err := openDevice(s.cfg.KeyboardPath, isKeyboard)
	if err != nil {
		// The pointer alone is still useful
		logger.Warnf("Failed to open keyboard device: %v", err)
	} else {
		s.keyboard = keyboard
		logger.Infof("Using keyboard device: %s at %s", keyboard.Name, keyboard.Fn)
	}

	return s.activate(ctx)
}

// activate grabs the opened devices if asked to and starts the readers. On
// failure every opened device is closed again.
func (s *EvdevSource) activate(ctx context.Context) error {
	if s.cfg.Grab {
		if err := s.grabDevices(); err != nil {
			s.closeDevices()
			return err
		}
	}

	s.ctx, s.cancel = context.WithCancel(ctx)
	s.running = true

	s.wg.Add(1)
	go s.readLoop(s.pointer, newDecoder(s.cfg))
	if s.keyboard != nil {
		s.wg.Add(1)
		go s.readLoop(s.keyboard, newDecoder(s.cfg))
	}

	logger.Info("Evdev input source started")
	return nil
}

// Stop releases the devices and waits for the readers to exit.
func (s *EvdevSource) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.cancel()
	if s.grabbed {
		s.releaseDevices()
	}
	s.closeDevices()
	s.running = false
	s.mu.Unlock()

	s.wg.Wait()
	logger.Info("Evdev input source stopped")
	return nil
}

// closeDevices closes whatever devices are open and forgets them.
func (s *EvdevSource) closeDevices() {
	for _, dev := range []*evdev.InputDevice{s.pointer, s.keyboard} {
		if dev != nil && dev.File != nil {
			if err := dev.File.Close(); err != nil {
				logger.Debugf("Failed to close %s: %v", dev.Fn, err)
			}
		}
	}
	s.pointer, s.keyboard = nil, nil
}

func (s *EvdevSource) grabDevices() error {
	if err := s.pointer.Grab(); err != nil {
		return fmt.Errorf("failed to grab pointer device: %w", err)
	}
	if s.keyboard != nil {
		if err := s.keyboard.Grab(); err != nil {
			s.pointer.Release()
			return fmt.Errorf("failed to grab keyboard device: %w", err)
		}
	}
	s.grabbed = true
	logger.Debug("Grabbed exclusive access to input devices")
	return nil
}

func (s *EvdevSource) releaseDevices() {
	if s.pointer != nil {
		s.pointer.Release()
	}
	if s.keyboard != nil {
		s.keyboard.Release()
	}
	s.grabbed = false
	logger.Debug("Released exclusive access to input devices")
}

func (s *EvdevSource) readLoop(dev *evdev.InputDevice, d *decoder) {
	defer s.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("Input reader panic on %s: %v", dev.Fn, r)
		}
	}()

	for {
		select {
		case <-s.ctx.Done():
			return
		default:
		}

		events, err := dev.Read()
		if err != nil {
			if s.ctx.Err() != nil {
				return
			}
			if !strings.Contains(err.Error(), "resource temporarily unavailable") {
				logger.Errorf("Error reading %s: %v", dev.Fn, err)
			}
			time.Sleep(5 * time.Millisecond)
			continue
		}

		s.mu.RLock()
		callback := s.onEvent
		s.mu.RUnlock()
		if callback == nil {
			continue
		}
		for i := range events {
			for _, ev := range d.feed(&events[i]) {
				callback(ev)
			}
		}
	}
}

func openDevice(path string, match func(*evdev.InputDevice) bool) (*evdev.InputDevice, error) {
	if path != "" {
		return evdev.Open(path)
	}
	devices, err := evdev.ListInputDevices("/dev/input/event*")
	if err != nil {
		return nil, err
	}
	for _, dev := range devices {
		if match(dev) {
			return dev, nil
		}
	}
	return nil, fmt.Errorf("no suitable device found")
}

func isPointer(dev *evdev.InputDevice) bool {
	for capType, caps := range dev.Capabilities {
		if capType.Type != evdev.EV_REL {
			continue
		}
		for _, c := range caps {
			if c.Code == evdev.REL_X {
				return true
			}
		}
	}
	return false
}

func isKeyboard(dev *evdev.InputDevice) bool {
	for capType, caps := range dev.Capabilities {
		if capType.Type != evdev.EV_KEY {
			continue
		}
		for _, c := range caps {
			if c.Code >= evdev.KEY_A && c.Code <= evdev.KEY_Z {
				return true
			}
		}
	}
	return false
}

// decoder turns one device's evdev stream into native events. Relative
// motion is accumulated until SYN_REPORT and applied to an absolute position
// kept inside the configured bounds.
type decoder struct {
	x, y          float64
	dx, dy        int32
	width, height float64
	keymap        XKBKeymap
}

func newDecoder(cfg SourceConfig) *decoder {
	return &decoder{
		x:      cfg.Width / 2,
		y:      cfg.Height / 2,
		width:  cfg.Width,
		height: cfg.Height,
		keymap: cfg.Keymap,
	}
}

func (d *decoder) feed(ev *evdev.InputEvent) []*Event {
	t := eventTime(ev)

	switch ev.Type {
	case evdev.EV_SYN:
		if ev.Code != evdev.SYN_REPORT || (d.dx == 0 && d.dy == 0) {
			return nil
		}
		d.x = clamp(d.x+float64(d.dx), d.width)
		d.y = clamp(d.y+float64(d.dy), d.height)
		d.dx, d.dy = 0, 0
		return []*Event{{Type: Motion, Time: t, X: d.x, Y: d.y}}

	case evdev.EV_REL:
		switch ev.Code {
		case evdev.REL_X:
			d.dx += ev.Value
		case evdev.REL_Y:
			d.dy += ev.Value
		case evdev.REL_WHEEL:
			return d.scroll(t, ev.Value, evcode.ScrollUp, evcode.ScrollDown)
		case evdev.REL_HWHEEL:
			return d.scroll(t, ev.Value, evcode.ScrollRight, evcode.ScrollLeft)
		}

	case evdev.EV_KEY:
		code := uint32(ev.Code)
		if evcode.IsButton(code) {
			// Buttons do not auto-repeat
			switch ev.Value {
			case 1:
				return []*Event{d.button(ButtonPress, t, code)}
			case 0:
				return []*Event{d.button(ButtonRelease, t, code)}
			}
			return nil
		}
		typ := KeyPress
		if ev.Value == 0 {
			typ = KeyRelease
		}
		return []*Event{{
			Type:            typ,
			Time:            t,
			HardwareKeycode: d.keymap.EvdevToKeycode(code),
			Device:          d.keymap,
		}}
	}
	return nil
}

func (d *decoder) button(typ EventType, t, code uint32) *Event {
	return &Event{Type: typ, Time: t, X: d.x, Y: d.y, Button: evcode.ToNativeButton(code)}
}

func (d *decoder) scroll(t uint32, value int32, positive, negative evcode.ScrollDirection) []*Event {
	dir := positive
	if value < 0 {
		dir = negative
		value = -value
	}
	out := make([]*Event, 0, value)
	for i := int32(0); i < value; i++ {
		out = append(out, &Event{Type: Scroll, Time: t, X: d.x, Y: d.y, Direction: dir})
	}
	return out
}

func clamp(v, limit float64) float64 {
	if v < 0 {
		return 0
	}
	if limit > 0 && v > limit-1 {
		return limit - 1
	}
	return v
}

func eventTime(ev *evdev.InputEvent) uint32 {
	return uint32(int64(ev.Time.Sec)*1000 + int64(ev.Time.Usec)/1000)
}
