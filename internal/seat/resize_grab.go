package seat

import (
	"strings"

	"github.com/bnema/wayseat/internal/surface"
	"github.com/bnema/wayseat/internal/wm"
)

// Edge is a set of window edges a resize follows.
type Edge uint32

const (
	EdgeTop Edge = 1 << iota
	EdgeBottom
	EdgeLeft
	EdgeRight
)

func (e Edge) String() string {
	var parts []string
	for _, p := range []struct {
		e    Edge
		name string
	}{{EdgeTop, "top"}, {EdgeBottom, "bottom"}, {EdgeLeft, "left"}, {EdgeRight, "right"}} {
		if e&p.e != 0 {
			parts = append(parts, p.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// ParseEdges parses a list of edge names as produced by String.
func ParseEdges(names []string) (Edge, bool) {
	var e Edge
	for _, n := range names {
		switch n {
		case "top":
			e |= EdgeTop
		case "bottom":
			e |= EdgeBottom
		case "left":
			e |= EdgeLeft
		case "right":
			e |= EdgeRight
		default:
			return 0, false
		}
	}
	return e, true
}

// ResizeGrab resizes a window from the given edges until every button is
// released. The window never shrinks below one pixel; the opposite edge
// stays put.
type ResizeGrab struct {
	GrabFocus
	dev    *Device
	window *wm.Window
	edges  Edge
	origin wm.Rect
}

// NewResizeGrab creates a resize grab for w.
func (d *Device) NewResizeGrab(w *wm.Window, edges Edge) *ResizeGrab {
	return &ResizeGrab{dev: d, window: w, edges: edges, origin: w.Rect}
}

func (g *ResizeGrab) Name() string { return "resize" }

// Focus is ignored.
func (g *ResizeGrab) Focus(uint32, surface.Handle, float64, float64) {}

func (g *ResizeGrab) Motion(time uint32, _, _ float64) {
	dx, dy := g.dev.delta()
	r := g.origin

	if g.edges&EdgeLeft != 0 {
		r.Width = max(g.origin.Width-dx, 1)
		r.X = g.origin.X + g.origin.Width - r.Width
	} else if g.edges&EdgeRight != 0 {
		r.Width = max(g.origin.Width+dx, 1)
	}
	if g.edges&EdgeTop != 0 {
		r.Height = max(g.origin.Height-dy, 1)
		r.Y = g.origin.Y + g.origin.Height - r.Height
	} else if g.edges&EdgeBottom != 0 {
		r.Height = max(g.origin.Height+dy, 1)
	}

	g.dev.shell.ResizeWindow(g.window, r)
}

func (g *ResizeGrab) Button(time uint32, _ uint32, pressed bool) {
	if !pressed && g.dev.buttonCount <= 0 {
		g.dev.EndGrab(time)
	}
}
