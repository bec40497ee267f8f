package replay

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/bnema/wayseat/internal/config"
	"github.com/bnema/wayseat/internal/effects"
	"github.com/bnema/wayseat/internal/evcode"
	"github.com/bnema/wayseat/internal/logger"
	"github.com/bnema/wayseat/internal/native"
	"github.com/bnema/wayseat/internal/protocol"
	"github.com/bnema/wayseat/internal/scene"
	"github.com/bnema/wayseat/internal/seat"
	"github.com/bnema/wayseat/internal/surface"
	"github.com/bnema/wayseat/internal/wm"
)

// ErrFinished is returned by Next once every event has run.
var ErrFinished = errors.New("replay: no events left")

// Options configure the world a scenario runs in.
type Options struct {
	Width         int // stage size when the scenario leaves it unset
	Height        int
	RaiseOnClick  bool
	KeycodeOffset uint32
	Effects       bool   // register the built-in effects plugin
	EffectParams  string // plugin parameters, see effects.ParseParams
	Stream        io.Writer
	Observer      func(protocol.Delivery) // called for every delivery, in order
}

// OptionsFromConfig derives options from the seat and effects settings.
func OptionsFromConfig(c *config.Config) Options {
	return Options{
		Width:         c.Seat.StageWidth,
		Height:        c.Seat.StageHeight,
		RaiseOnClick:  c.Seat.RaiseOnClick,
		KeycodeOffset: c.Seat.KeycodeOffset,
		Effects:       c.Effects.Enabled,
		EffectParams:  c.EffectParams(),
	}
}

// Step is the outcome of one scenario event.
type Step struct {
	Index      int
	Event      Event
	Deliveries []protocol.Delivery
	Notes      []string
	Status     seat.Status
}

type windowState struct {
	window  *wm.Window
	surface *surface.Surface
	handle  surface.Handle
	actor   *surface.Actor
}

// World is the compositor side of a scenario: stage, window manager, surface
// registry and one recording client per window owner, all feeding a single
// input device. It is not safe for concurrent use.
type World struct {
	scenario *Scenario
	next     int

	stage    *scene.Stage
	shell    *wm.Manager
	fx       *effects.Manager
	surfaces *surface.Registry
	device   *seat.Device
	keymap   native.XKBKeymap

	windows map[wm.WindowID]*windowState
	clients map[protocol.ClientID]*protocol.Recorder

	stream    io.Writer
	streamErr error
	observer  func(protocol.Delivery)

	stepping bool
	pending  []protocol.Delivery
	notes    []string
	dirty    bool
}

// NewWorld builds the initial scene of sc.
func NewWorld(sc *Scenario, opts Options) (*World, error) {
	width, height := sc.Screen.Width, sc.Screen.Height
	if width == 0 {
		width = opts.Width
	}
	if height == 0 {
		height = opts.Height
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: no screen size", ErrInvalidScenario)
	}
	raise := opts.RaiseOnClick
	if sc.RaiseOnClick != nil {
		raise = *sc.RaiseOnClick
	}
	offset := opts.KeycodeOffset
	if offset == 0 {
		offset = native.DefaultKeycodeOffset
	}

	w := &World{
		scenario: sc,
		stage:    scene.NewStage(float64(width), float64(height)),
		surfaces: surface.NewRegistry(),
		keymap:   native.NewXKBKeymap(offset),
		windows:  make(map[wm.WindowID]*windowState),
		clients:  make(map[protocol.ClientID]*protocol.Recorder),
		stream:   opts.Stream,
		observer: opts.Observer,
	}

	if opts.Effects {
		area := effects.Rect{Width: width, Height: height}
		w.fx = effects.NewManager(width, height, []effects.Rect{area})
		if err := w.fx.Register(effects.NewInstant(), opts.EffectParams); err != nil {
			return nil, fmt.Errorf("failed to register effects plugin: %w", err)
		}
	}
	w.shell = wm.NewManager(sc.Workspaces, wm.Rect{Width: width, Height: height}, w.fx)
	w.shell.SetListener(sceneSync{w})

	w.device = seat.New(seat.Config{
		Stage:        w.stage,
		Shell:        w.shell,
		Surfaces:     w.surfaces,
		RaiseOnClick: raise,
	})

	for _, d := range sc.Decorations {
		node := scene.NewNode(d.Name, float64(d.X), float64(d.Y), float64(d.Width), float64(d.Height))
		node.Reactive = d.Reactive
		w.stage.Add(node)
	}

	for _, def := range sc.Windows {
		if err := w.addWindow(def); err != nil {
			return nil, err
		}
	}

	ids := make([]protocol.ClientID, 0, len(w.clients))
	for id := range w.clients {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		w.device.Bind(w.clients[id])
	}

	logger.Debugf("Replay world %dx%d with %d windows and %d clients", width, height, len(w.windows), len(w.clients))
	return w, nil
}

func (w *World) addWindow(def Window) error {
	ct, err := wm.ParseClientType(def.ClientType)
	if err != nil {
		return fmt.Errorf("%w: window %d: %v", ErrInvalidScenario, def.ID, err)
	}

	win := &wm.Window{
		ID:         wm.WindowID(def.ID),
		Title:      def.Title,
		ClientType: ct,
		Type:       effects.WindowNormal,
		Rect:       wm.Rect{X: def.X, Y: def.Y, Width: def.Width, Height: def.Height},
		Workspace:  def.Workspace,
	}
	if err := w.shell.Manage(win); err != nil {
		return fmt.Errorf("failed to manage window %d: %w", def.ID, err)
	}

	client := protocol.ClientID(def.Client)
	s := &surface.Surface{ID: def.Surface, Client: client, Window: win}
	h := w.surfaces.Add(s)

	title := def.Title
	if title == "" {
		title = fmt.Sprintf("window-%d", def.ID)
	}
	node := scene.NewNode(title, float64(def.X), float64(def.Y), float64(def.Width), float64(def.Height))
	if def.Reactive != nil {
		node.Reactive = *def.Reactive
	}
	node.Hidden = !win.OnWorkspace(w.shell.ActiveWorkspace().Index)
	actor := surface.NewActor(node, h)
	s.Actor = actor
	w.stage.Add(actor)

	w.windows[win.ID] = &windowState{window: win, surface: s, handle: h, actor: actor}

	if _, ok := w.clients[client]; !ok {
		rec := protocol.NewRecorder(client)
		rec.OnDelivery = w.collect
		w.clients[client] = rec
	}
	return nil
}

// Device returns the input device under test.
func (w *World) Device() *seat.Device { return w.device }

// Shell returns the window manager.
func (w *World) Shell() *wm.Manager { return w.shell }

// Stage returns the scene the device picks from.
func (w *World) Stage() *scene.Stage { return w.stage }

// Recorder returns the resource bound for client.
func (w *World) Recorder(client protocol.ClientID) (*protocol.Recorder, bool) {
	r, ok := w.clients[client]
	return r, ok
}

// SurfaceOf returns the surface handle of a window that is still managed.
func (w *World) SurfaceOf(id wm.WindowID) (surface.Handle, bool) {
	ws, ok := w.windows[id]
	if !ok {
		return surface.None, false
	}
	return ws.handle, true
}

// Len returns the number of events in the scenario.
func (w *World) Len() int { return len(w.scenario.Events) }

// Done reports whether every event has run.
func (w *World) Done() bool { return w.next >= len(w.scenario.Events) }

// StreamErr returns the error that stopped delivery streaming, if any.
func (w *World) StreamErr() error { return w.streamErr }

// Run executes the remaining events.
func (w *World) Run() ([]Step, error) {
	var steps []Step
	for !w.Done() {
		step, err := w.Next()
		if err != nil {
			return steps, err
		}
		steps = append(steps, step)
	}
	return steps, nil
}

// Next executes one event and reports what the clients received.
func (w *World) Next() (Step, error) {
	if w.Done() {
		return Step{}, ErrFinished
	}
	idx := w.next
	ev := w.scenario.Events[idx]
	w.next++

	w.pending, w.notes, w.dirty = nil, nil, false
	w.stepping = true
	defer func() { w.stepping = false }()
	grabBefore := w.device.Status().Grab
	cursorBefore := w.shell.Cursor()

	if err := w.apply(ev); err != nil {
		return Step{}, fmt.Errorf("event %d (%s): %w", idx, ev.Type, err)
	}
	if w.dirty {
		w.device.Repick(ev.Time, nil)
	}

	st := w.device.Status()
	if st.Grab != grabBefore {
		w.note("grab %s -> %s", grabBefore, st.Grab)
	}
	if c := w.shell.Cursor(); c != cursorBefore {
		if !c.Visible {
			w.note("cursor hidden")
		} else if c.Buffer != nil {
			w.note("cursor %dx%d hotspot (%d,%d)", c.Buffer.Width, c.Buffer.Height, c.HotspotX, c.HotspotY)
		}
	}

	return Step{
		Index:      idx,
		Event:      ev,
		Deliveries: w.pending,
		Notes:      w.notes,
		Status:     st,
	}, nil
}

// Handle feeds a live event to the device outside any scenario step and
// repicks when the scene changed under the pointer. Deliveries only reach the
// observer and the stream; recorders are cleared afterwards.
func (w *World) Handle(ev *native.Event) {
	w.dirty = false
	w.device.HandleEvent(ev)
	if w.dirty {
		w.device.Repick(ev.Time, nil)
	}
	for _, rec := range w.clients {
		rec.Reset()
	}
}

func (w *World) apply(ev Event) error {
	d := w.device
	switch ev.Type {
	case EventMotion:
		x, y := w.stage.Clamp(ev.X, ev.Y)
		d.HandleEvent(&native.Event{Type: native.Motion, Time: ev.Time, X: x, Y: y})
	case EventButton:
		typ := native.ButtonRelease
		if ev.Pressed {
			typ = native.ButtonPress
		}
		x, y := d.Position()
		d.HandleEvent(&native.Event{Type: typ, Time: ev.Time, X: x, Y: y, Button: ev.Button})
	case EventKey:
		typ := native.KeyRelease
		if ev.Pressed {
			typ = native.KeyPress
		}
		d.HandleEvent(&native.Event{Type: typ, Time: ev.Time, HardwareKeycode: ev.Keycode, Device: w.keymap})
	case EventScroll:
		dir, err := evcode.ParseScrollDirection(ev.Direction)
		if err != nil {
			return err
		}
		x, y := d.Position()
		d.HandleEvent(&native.Event{Type: native.Scroll, Time: ev.Time, X: x, Y: y, Direction: dir})
	case EventRepick:
		d.Repick(ev.Time, nil)
	case EventMove:
		ws, err := w.window(ev.Window)
		if err != nil {
			return err
		}
		return d.StartGrab(d.NewMoveGrab(ws.window), ev.Time)
	case EventResize:
		ws, err := w.window(ev.Window)
		if err != nil {
			return err
		}
		edges, ok := seat.ParseEdges(ev.Edges)
		if !ok {
			return fmt.Errorf("bad resize edges %v", ev.Edges)
		}
		return d.StartGrab(d.NewResizeGrab(ws.window, edges), ev.Time)
	case EventEndGrab:
		d.EndGrab(ev.Time)
	case EventAttach:
		var buf *protocol.Buffer
		var hx, hy int32
		if ev.Cursor != nil {
			buf = &protocol.Buffer{Width: ev.Cursor.Width, Height: ev.Cursor.Height}
			hx, hy = ev.Cursor.HotspotX, ev.Cursor.HotspotY
		}
		d.Attach(protocol.ClientID(ev.Client), ev.Time, buf, hx, hy)
	case EventFocus:
		ws, err := w.window(ev.Window)
		if err != nil {
			return err
		}
		d.SetKeyboardFocus(ws.handle)
	case EventDestroy:
		return w.shell.Unmanage(wm.WindowID(ev.Window))
	case EventUnbind:
		client := protocol.ClientID(ev.Client)
		d.Unbind(client)
		if rec, ok := w.clients[client]; ok {
			rec.Destroy()
		}
		w.note("client %d gone", client)
	case EventMinimize:
		return w.shell.Minimize(wm.WindowID(ev.Window))
	case EventSwitchWorkspace:
		return w.shell.SwitchWorkspace(ev.Workspace)
	default:
		return fmt.Errorf("unknown event type %q", ev.Type)
	}
	return nil
}

func (w *World) window(id uint32) (*windowState, error) {
	ws, ok := w.windows[wm.WindowID(id)]
	if !ok {
		return nil, fmt.Errorf("%w: %d", wm.ErrUnknownWindow, id)
	}
	return ws, nil
}

func (w *World) collect(d protocol.Delivery) {
	if w.stepping {
		w.pending = append(w.pending, d)
	}
	if w.observer != nil {
		w.observer(d)
	}
	if w.stream == nil {
		return
	}
	if err := protocol.WriteDelivery(w.stream, d); err != nil {
		logger.Warnf("Stopped streaming deliveries: %v", err)
		w.streamErr = err
		w.stream = nil
	}
}

func (w *World) note(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if !w.stepping {
		logger.Debug(msg)
		return
	}
	w.notes = append(w.notes, msg)
}

// sceneSync keeps stage actors in line with the window manager and marks the
// pick as stale.
type sceneSync struct{ w *World }

func (s sceneSync) WindowRestacked(win *wm.Window) {
	if ws, ok := s.w.windows[win.ID]; ok {
		s.w.stage.Raise(ws.actor)
		s.w.note("raised window %d", win.ID)
		s.w.dirty = true
	}
}

func (s sceneSync) WindowMoved(win *wm.Window) {
	if ws, ok := s.w.windows[win.ID]; ok {
		r := win.Rect
		ws.actor.SetGeometry(float64(r.X), float64(r.Y), float64(r.Width), float64(r.Height))
		s.w.note("window %d at %s", win.ID, r)
		s.w.dirty = true
	}
}

func (s sceneSync) WindowVisibility(win *wm.Window, visible bool) {
	if ws, ok := s.w.windows[win.ID]; ok {
		ws.actor.Hidden = !visible
		if visible {
			s.w.note("window %d shown", win.ID)
		} else {
			s.w.note("window %d hidden", win.ID)
		}
		s.w.dirty = true
	}
}

func (s sceneSync) WindowRemoved(win *wm.Window) {
	ws, ok := s.w.windows[win.ID]
	if !ok {
		return
	}
	s.w.stage.Remove(ws.actor)
	s.w.surfaces.Remove(ws.handle)
	delete(s.w.windows, win.ID)
	s.w.note("window %d destroyed", win.ID)
	s.w.dirty = true
}
