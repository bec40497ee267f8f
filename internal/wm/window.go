// Package wm is the window manager's model of windows and workspaces, as far
// as the input seat and the effects host need it.
package wm

import (
	"fmt"

	"github.com/bnema/wayseat/internal/effects"
)

// ClientType tells how a window's client talks to the compositor.
type ClientType int

const (
	ClientX11 ClientType = iota
	ClientWayland
)

func (c ClientType) String() string {
	switch c {
	case ClientX11:
		return "x11"
	case ClientWayland:
		return "wayland"
	}
	return fmt.Sprintf("ClientType(%d)", int(c))
}

// ParseClientType parses the names produced by String.
func ParseClientType(s string) (ClientType, error) {
	switch s {
	case "x11":
		return ClientX11, nil
	case "wayland":
		return ClientWayland, nil
	}
	return 0, fmt.Errorf("unknown client type %q", s)
}

// WindowID identifies a managed window.
type WindowID uint32

// Rect is a window frame rectangle in stage coordinates.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Contains reports whether the point lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && y >= r.Y && x < r.X+r.Width && y < r.Y+r.Height
}

func (r Rect) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", r.Width, r.Height, r.X, r.Y)
}

// Sticky is the workspace index of windows shown on every workspace.
const Sticky = -1

// Window is a managed top-level window.
type Window struct {
	ID         WindowID
	Title      string
	ClientType ClientType
	Type       effects.WindowType
	Rect       Rect
	Workspace  int
	Minimized  bool
	Maximized  bool

	restore Rect
	closing bool
}

// OnWorkspace reports whether the window is shown on workspace index.
func (w *Window) OnWorkspace(index int) bool {
	return w.Workspace == Sticky || w.Workspace == index
}

// Workspace is one virtual desktop.
type Workspace struct {
	Index    int
	WorkArea Rect
}
