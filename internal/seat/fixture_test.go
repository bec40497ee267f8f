package seat

import (
	"fmt"
	"testing"

	"github.com/bnema/wayseat/internal/native"
	"github.com/bnema/wayseat/internal/protocol"
	"github.com/bnema/wayseat/internal/scene"
	"github.com/bnema/wayseat/internal/surface"
	"github.com/bnema/wayseat/internal/wm"
	"github.com/stretchr/testify/require"
)

type fakeShell struct {
	raised      []wm.WindowID
	moved       []wm.Rect
	resized     []wm.Rect
	cursor      *protocol.Buffer
	hotX, hotY  int32
	hidden      bool
	cursorCalls int
}

func (s *fakeShell) RaiseWindow(w *wm.Window) {
	s.raised = append(s.raised, w.ID)
}

func (s *fakeShell) MoveWindow(w *wm.Window, x, y int) {
	w.Rect.X, w.Rect.Y = x, y
	s.moved = append(s.moved, w.Rect)
}

func (s *fakeShell) ResizeWindow(w *wm.Window, r wm.Rect) {
	w.Rect = r
	s.resized = append(s.resized, r)
}

func (s *fakeShell) SetCursor(buffer *protocol.Buffer, hotspotX, hotspotY int32) {
	s.cursor, s.hotX, s.hotY, s.hidden = buffer, hotspotX, hotspotY, false
	s.cursorCalls++
}

func (s *fakeShell) HideCursor() {
	s.cursor, s.hidden = nil, true
	s.cursorCalls++
}

type focusCall struct {
	Time    uint32
	Surface surface.Handle
	X, Y    float64
}

type buttonCall struct {
	Time    uint32
	Button  uint32
	Pressed bool
}

// recordingGrab records everything routed to it and never changes its
// tracked surface on its own.
type recordingGrab struct {
	GrabFocus
	focus   []focusCall
	motion  [][2]float64
	buttons []buttonCall
}

func (g *recordingGrab) Focus(time uint32, s surface.Handle, x, y float64) {
	g.focus = append(g.focus, focusCall{Time: time, Surface: s, X: x, Y: y})
}

func (g *recordingGrab) Motion(_ uint32, x, y float64) {
	g.motion = append(g.motion, [2]float64{x, y})
}

func (g *recordingGrab) Button(time uint32, button uint32, pressed bool) {
	g.buttons = append(g.buttons, buttonCall{Time: time, Button: button, Pressed: pressed})
}

// flakyResource counts posts so tests can check nothing reaches a dead
// resource.
type flakyResource struct {
	client protocol.ClientID
	alive  bool
	posts  int
}

func (r *flakyResource) Client() protocol.ClientID                         { return r.client }
func (r *flakyResource) Alive() bool                                       { return r.alive }
func (r *flakyResource) Enter(uint32, uint32, float64, float64)            { r.posts++ }
func (r *flakyResource) Leave(uint32, uint32)                              { r.posts++ }
func (r *flakyResource) Motion(uint32, float64, float64, float64, float64) { r.posts++ }
func (r *flakyResource) Button(uint32, uint32, bool)                       { r.posts++ }
func (r *flakyResource) Key(uint32, uint32, bool)                          { r.posts++ }

type fixture struct {
	stage *scene.Stage
	reg   *surface.Registry
	shell *fakeShell
	dev   *Device
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		stage: scene.NewStage(800, 600),
		reg:   surface.NewRegistry(),
		shell: &fakeShell{},
	}
	f.dev = New(Config{Stage: f.stage, Shell: f.shell, Surfaces: f.reg, RaiseOnClick: true})
	return f
}

// addSurface puts a surface of client on top of the stage.
func (f *fixture) addSurface(id uint32, client protocol.ClientID, win *wm.Window, x, y, w, h float64) (surface.Handle, *surface.Actor) {
	s := &surface.Surface{ID: id, Client: client, Window: win}
	hd := f.reg.Add(s)
	a := surface.NewActor(scene.NewNode(fmt.Sprintf("surface-%d", id), x, y, w, h), hd)
	s.Actor = a
	f.stage.Add(a)
	return hd, a
}

func (f *fixture) bind(client protocol.ClientID) *protocol.Recorder {
	r := protocol.NewRecorder(client)
	f.dev.Bind(r)
	return r
}

// installRecorder makes a fresh recordingGrab active and forgets the focus
// call made on install.
func (f *fixture) installRecorder(t *testing.T) *recordingGrab {
	t.Helper()
	g := &recordingGrab{}
	require.NoError(t, f.dev.StartGrab(g, 0))
	g.focus = nil
	return g
}

func motion(time uint32, x, y float64) *native.Event {
	return &native.Event{Type: native.Motion, Time: time, X: x, Y: y}
}

func keyEvent(typ native.EventType, time, hardware uint32) *native.Event {
	return &native.Event{
		Type:            typ,
		Time:            time,
		HardwareKeycode: hardware,
		Device:          native.NewXKBKeymap(native.DefaultKeycodeOffset),
	}
}
