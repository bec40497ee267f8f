package wm

import (
	"errors"
	"fmt"

	"github.com/bnema/wayseat/internal/effects"
	"github.com/bnema/wayseat/internal/logger"
	"github.com/bnema/wayseat/internal/protocol"
)

var (
	// ErrUnknownWindow is returned for operations on unmanaged windows
	ErrUnknownWindow = errors.New("unknown window")
	// ErrWindowExists is returned when managing a window id twice
	ErrWindowExists = errors.New("window already managed")
	// ErrUnknownWorkspace is returned for an out of range workspace index
	ErrUnknownWorkspace = errors.New("unknown workspace")
)

// Listener follows window changes, typically to keep the scene in sync.
type Listener interface {
	WindowRestacked(w *Window)
	WindowMoved(w *Window)
	WindowVisibility(w *Window, visible bool)
	WindowRemoved(w *Window)
}

// CursorState is the visual pointer cursor.
type CursorState struct {
	Visible  bool
	Buffer   *protocol.Buffer
	HotspotX int32
	HotspotY int32
}

// Manager owns the stacking order and workspaces. It is driven from the
// compositor's event loop and is not safe for concurrent use.
type Manager struct {
	windows    map[WindowID]*Window
	stack      []*Window // bottom to top
	workspaces []*Workspace
	active     int
	effects    *effects.Manager
	listener   Listener
	cursor     CursorState
}

// NewManager creates n workspaces sharing workArea. fx may be nil.
func NewManager(n int, workArea Rect, fx *effects.Manager) *Manager {
	if n < 1 {
		n = 1
	}
	m := &Manager{
		windows: make(map[WindowID]*Window),
		effects: fx,
		cursor:  CursorState{Visible: true},
	}
	for i := 0; i < n; i++ {
		m.workspaces = append(m.workspaces, &Workspace{Index: i, WorkArea: workArea})
	}
	if fx != nil {
		fx.OnCompleted = m.effectCompleted
	}
	return m
}

// SetListener installs l; nil removes it.
func (m *Manager) SetListener(l Listener) {
	m.listener = l
}

// Manage puts w on top of the stack and runs the map effect.
func (m *Manager) Manage(w *Window) error {
	if _, ok := m.windows[w.ID]; ok {
		return fmt.Errorf("%w: %d", ErrWindowExists, w.ID)
	}
	if w.Workspace != Sticky && (w.Workspace < 0 || w.Workspace >= len(m.workspaces)) {
		return fmt.Errorf("%w: %d", ErrUnknownWorkspace, w.Workspace)
	}
	m.windows[w.ID] = w
	m.stack = append(m.stack, w)
	logger.Debugf("Managing window %d %q (%s) at %s", w.ID, w.Title, w.ClientType, w.Rect)

	if m.effects != nil {
		m.effects.Map(effects.ActorID(w.ID), w.Type, w.Workspace)
	}
	return nil
}

// Unmanage runs the destroy effect and drops the window once it completes.
func (m *Manager) Unmanage(id WindowID) error {
	w, ok := m.windows[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownWindow, id)
	}
	if w.closing {
		return nil
	}
	w.closing = true

	if m.effects != nil {
		m.effects.Kill(effects.ActorID(id), effects.AllEffects&^effects.Destroy)
		if m.effects.Destroy(effects.ActorID(id), w.Type, w.Workspace) {
			return nil
		}
	}
	m.remove(w)
	return nil
}

// Window looks up a managed window.
func (m *Manager) Window(id WindowID) (*Window, bool) {
	w, ok := m.windows[id]
	return w, ok
}

// Stack returns the windows bottom to top.
func (m *Manager) Stack() []*Window {
	out := make([]*Window, len(m.stack))
	copy(out, m.stack)
	return out
}

// ActiveWorkspace returns the current workspace.
func (m *Manager) ActiveWorkspace() *Workspace {
	return m.workspaces[m.active]
}

// Workspaces returns every workspace in index order.
func (m *Manager) Workspaces() []*Workspace {
	out := make([]*Workspace, len(m.workspaces))
	copy(out, m.workspaces)
	return out
}

// SwitchWorkspace makes workspace to active and updates window visibility.
func (m *Manager) SwitchWorkspace(to int) error {
	if to < 0 || to >= len(m.workspaces) {
		return fmt.Errorf("%w: %d", ErrUnknownWorkspace, to)
	}
	from := m.active
	if from == to {
		return nil
	}
	m.active = to

	var actors []effects.WorkspaceActor
	for _, w := range m.stack {
		actors = append(actors, effects.WorkspaceActor{Actor: effects.ActorID(w.ID), Workspace: w.Workspace})
		if w.Workspace == Sticky || w.Minimized {
			continue
		}
		if w.Workspace == from || w.Workspace == to {
			m.notifyVisibility(w, w.Workspace == to)
		}
	}
	if m.effects != nil {
		m.effects.SwitchWorkspace(actors, from, to)
	}
	logger.Debugf("Switched workspace %d -> %d", from, to)
	return nil
}

// Minimize hides a window.
func (m *Manager) Minimize(id WindowID) error {
	w, ok := m.windows[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownWindow, id)
	}
	if w.Minimized {
		return nil
	}
	w.Minimized = true
	if m.effects != nil {
		m.effects.Minimize(effects.ActorID(id), w.Type, w.Workspace)
	}
	m.notifyVisibility(w, false)
	return nil
}

// Maximize fills the work area of the window's workspace.
func (m *Manager) Maximize(id WindowID) error {
	w, ok := m.windows[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownWindow, id)
	}
	if w.Maximized {
		return nil
	}
	area := m.ActiveWorkspace().WorkArea
	if w.Workspace != Sticky {
		area = m.workspaces[w.Workspace].WorkArea
	}
	w.restore = w.Rect
	w.Maximized = true
	if m.effects != nil {
		m.effects.Maximize(effects.ActorID(id), w.Type, w.Workspace, effectsRect(area))
	}
	m.setRect(w, area)
	return nil
}

// Unmaximize restores the geometry from before Maximize.
func (m *Manager) Unmaximize(id WindowID) error {
	w, ok := m.windows[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownWindow, id)
	}
	if !w.Maximized {
		return nil
	}
	w.Maximized = false
	if m.effects != nil {
		m.effects.Unmaximize(effects.ActorID(id), w.Type, w.Workspace, effectsRect(w.restore))
	}
	m.setRect(w, w.restore)
	return nil
}

// RaiseWindow puts w on top of the stack.
func (m *Manager) RaiseWindow(w *Window) {
	i := m.index(w)
	if i < 0 {
		logger.Debugf("Ignoring raise of unmanaged window %d", w.ID)
		return
	}
	if i != len(m.stack)-1 {
		m.stack = append(m.stack[:i], m.stack[i+1:]...)
		m.stack = append(m.stack, w)
	}
	logger.Debugf("Raised window %d", w.ID)
	if m.listener != nil {
		m.listener.WindowRestacked(w)
	}
}

// MoveWindow places w's top-left corner at (x, y).
func (m *Manager) MoveWindow(w *Window, x, y int) {
	r := w.Rect
	r.X, r.Y = x, y
	m.setRect(w, r)
}

// ResizeWindow sets w's frame rectangle.
func (m *Manager) ResizeWindow(w *Window, r Rect) {
	if r.Width < 1 {
		r.Width = 1
	}
	if r.Height < 1 {
		r.Height = 1
	}
	m.setRect(w, r)
}

// SetCursor shows buffer as the pointer image.
func (m *Manager) SetCursor(buffer *protocol.Buffer, hotspotX, hotspotY int32) {
	m.cursor = CursorState{Visible: true, Buffer: buffer, HotspotX: hotspotX, HotspotY: hotspotY}
}

// HideCursor makes the pointer invisible.
func (m *Manager) HideCursor() {
	m.cursor = CursorState{}
}

// Cursor returns the current cursor state.
func (m *Manager) Cursor() CursorState {
	return m.cursor
}

func (m *Manager) setRect(w *Window, r Rect) {
	if w.Rect == r {
		return
	}
	w.Rect = r
	if m.listener != nil {
		m.listener.WindowMoved(w)
	}
}

func (m *Manager) notifyVisibility(w *Window, visible bool) {
	if m.listener != nil {
		m.listener.WindowVisibility(w, visible)
	}
}

func (m *Manager) effectCompleted(actor effects.ActorID, event effects.Feature) {
	if event != effects.Destroy {
		return
	}
	if w, ok := m.windows[WindowID(actor)]; ok && w.closing {
		m.remove(w)
	}
}

func (m *Manager) remove(w *Window) {
	if i := m.index(w); i >= 0 {
		m.stack = append(m.stack[:i], m.stack[i+1:]...)
	}
	delete(m.windows, w.ID)
	logger.Debugf("Unmanaged window %d", w.ID)
	if m.listener != nil {
		m.listener.WindowRemoved(w)
	}
}

func (m *Manager) index(w *Window) int {
	for i, s := range m.stack {
		if s == w {
			return i
		}
	}
	return -1
}

func effectsRect(r Rect) effects.Rect {
	return effects.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}
