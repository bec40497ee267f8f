package replay

import (
	"bytes"
	"strings"
	"testing"

	"github.com/bnema/wayseat/internal/evcode"
	"github.com/bnema/wayseat/internal/native"
	"github.com/bnema/wayseat/internal/protocol"
	"github.com/bnema/wayseat/internal/wm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoWindows = `
name = "two windows"

[screen]
width = 200
height = 100

[[window]]
id = 1
title = "term"
client = 1
width = 100
height = 100

[[window]]
id = 2
title = "editor"
client = 2
x = 50
width = 100
height = 100
`

func parse(t *testing.T, windows string, events ...string) *Scenario {
	t.Helper()
	var b strings.Builder
	b.WriteString(windows)
	for _, ev := range events {
		b.WriteString("\n[[event]]\n")
		b.WriteString(ev)
		b.WriteString("\n")
	}
	sc, err := Parse(strings.NewReader(b.String()))
	require.NoError(t, err)
	return sc
}

func newWorld(t *testing.T, sc *Scenario, opts Options) *World {
	t.Helper()
	if opts.KeycodeOffset == 0 {
		opts.KeycodeOffset = 8
	}
	w, err := NewWorld(sc, opts)
	require.NoError(t, err)
	return w
}

func kinds(ds []protocol.Delivery) []string {
	var out []string
	for _, d := range ds {
		out = append(out, d.Kind.String())
	}
	return out
}

func TestParseDefaults(t *testing.T) {
	sc := parse(t, twoWindows, `type = "button"`+"\n"+`pressed = true`)

	assert.Equal(t, "two windows", sc.Name)
	assert.Equal(t, 1, sc.Workspaces)
	assert.Equal(t, uint32(1), sc.Windows[0].Surface)
	assert.Equal(t, "wayland", sc.Windows[1].ClientType)
	assert.Equal(t, uint32(1), sc.Events[0].Button)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unknown key", twoWindows + "\ncolour = \"red\"\n"},
		{"unknown event type", twoWindows + "\n[[event]]\ntype = \"teleport\"\n"},
		{"missing event type", twoWindows + "\n[[event]]\ntime = 3\n"},
		{"unknown window", twoWindows + "\n[[event]]\ntype = \"move\"\nwindow = 9\n"},
		{"bad edges", twoWindows + "\n[[event]]\ntype = \"resize\"\nwindow = 1\nedges = [\"middle\"]\n"},
		{"bad direction", twoWindows + "\n[[event]]\ntype = \"scroll\"\ndirection = \"sideways\"\n"},
		{"unknown client", twoWindows + "\n[[event]]\ntype = \"unbind\"\nclient = 7\n"},
		{"key without keycode", twoWindows + "\n[[event]]\ntype = \"key\"\n"},
		{"duplicate window", twoWindows + "\n[[window]]\nid = 1\nclient = 3\nwidth = 1\nheight = 1\n"},
		{"window without client", "[[window]]\nid = 1\nwidth = 1\nheight = 1\n"},
		{"empty window", "[[window]]\nid = 1\nclient = 1\n"},
		{"bad client type", "[[window]]\nid = 1\nclient = 1\nclient_type = \"mir\"\nwidth = 1\nheight = 1\n"},
		{"workspace out of range", "[[window]]\nid = 1\nclient = 1\nworkspace = 2\nwidth = 1\nheight = 1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestNewWorldNeedsScreen(t *testing.T) {
	sc, err := Parse(strings.NewReader("[[window]]\nid = 1\nclient = 1\nwidth = 1\nheight = 1\n"))
	require.NoError(t, err)

	_, err = NewWorld(sc, Options{})
	assert.ErrorIs(t, err, ErrInvalidScenario)

	w := newWorld(t, sc, Options{Width: 10, Height: 10})
	width, height := w.Stage().Size()
	assert.Equal(t, 10.0, width)
	assert.Equal(t, 10.0, height)
}

func TestImplicitGrabSession(t *testing.T) {
	sc := parse(t, twoWindows,
		"type = \"motion\"\ntime = 1\nx = 10.0\ny = 10.0",
		"type = \"motion\"\ntime = 2\nx = 60.0\ny = 10.0",
		"type = \"button\"\ntime = 3\npressed = true",
		"type = \"motion\"\ntime = 4\nx = 20.0\ny = 10.0",
		"type = \"button\"\ntime = 5",
	)
	w := newWorld(t, sc, Options{RaiseOnClick: true})

	steps, err := w.Run()
	require.NoError(t, err)
	require.Len(t, steps, 5)
	assert.True(t, w.Done())

	// Enter window 1
	assert.Equal(t, []string{"enter", "motion"}, kinds(steps[0].Deliveries))
	assert.Equal(t, protocol.ClientID(1), steps[0].Deliveries[0].Client)
	assert.Equal(t, 10.0, steps[0].Deliveries[0].SX)

	// Window 2 overlaps window 1 from x=50
	assert.Equal(t, []string{"leave", "enter", "motion"}, kinds(steps[1].Deliveries))
	assert.Equal(t, protocol.ClientID(1), steps[1].Deliveries[0].Client)
	assert.Equal(t, protocol.ClientID(2), steps[1].Deliveries[1].Client)
	assert.Equal(t, uint32(2), steps[1].Deliveries[1].Surface)

	// Press raises and goes to window 2
	require.Len(t, steps[2].Deliveries, 1)
	assert.Equal(t, evcode.BtnLeft, steps[2].Deliveries[0].Code)
	assert.True(t, steps[2].Deliveries[0].Pressed)
	assert.Contains(t, steps[2].Notes, "raised window 2")
	assert.Equal(t, 1, steps[2].Status.ButtonCount)

	// Dragging over window 1 stays with window 2
	require.Len(t, steps[3].Deliveries, 1)
	d := steps[3].Deliveries[0]
	assert.Equal(t, protocol.ClientID(2), d.Client)
	assert.Equal(t, -30.0, d.SX)
	assert.Equal(t, 20.0, d.X)

	// Release hands focus to window 1
	assert.Equal(t, []string{"button", "leave", "enter"}, kinds(steps[4].Deliveries))
	assert.Equal(t, protocol.ClientID(1), steps[4].Deliveries[2].Client)
	assert.Equal(t, "surface 1 (window 1, client 1)", steps[4].Status.PointerFocus)

	_, err = w.Next()
	assert.ErrorIs(t, err, ErrFinished)
}

func TestKeysAndDestroy(t *testing.T) {
	sc := parse(t, twoWindows,
		"type = \"motion\"\ntime = 1\nx = 20.0\ny = 10.0",
		"type = \"focus\"\nwindow = 1",
		"type = \"key\"\ntime = 2\nkeycode = 38\npressed = true",
		"type = \"key\"\ntime = 3\nkeycode = 38\npressed = true",
		"type = \"key\"\ntime = 4\nkeycode = 38",
		"type = \"destroy\"\ntime = 5\nwindow = 1",
		"type = \"motion\"\ntime = 6\nx = 60.0\ny = 10.0",
		"type = \"key\"\ntime = 7\nkeycode = 38\npressed = true",
	)
	w := newWorld(t, sc, Options{Effects: true})

	steps, err := w.Run()
	require.NoError(t, err)

	// KEY_A is hardware keycode 38
	require.Len(t, steps[2].Deliveries, 1)
	assert.Equal(t, uint32(30), steps[2].Deliveries[0].Code)
	assert.Equal(t, []uint32{30}, steps[2].Status.Keys)

	// Auto-repeat is swallowed
	assert.Empty(t, steps[3].Deliveries)
	assert.Equal(t, []string{"key"}, kinds(steps[4].Deliveries))
	assert.Empty(t, steps[4].Status.Keys)

	// A destroyed surface gets no leave
	assert.Empty(t, steps[5].Deliveries)
	assert.Contains(t, steps[5].Notes, "window 1 destroyed")
	assert.Equal(t, "none", steps[5].Status.Current)
	_, ok := w.SurfaceOf(1)
	assert.False(t, ok)
	_, ok = w.Shell().Window(1)
	assert.False(t, ok)

	assert.Equal(t, []string{"enter", "motion"}, kinds(steps[6].Deliveries))
	assert.Equal(t, protocol.ClientID(2), steps[6].Deliveries[0].Client)

	// Keyboard focus died with window 1
	assert.Empty(t, steps[7].Deliveries)
}

func TestMoveGrab(t *testing.T) {
	sc := parse(t, twoWindows,
		"type = \"motion\"\ntime = 1\nx = 10.0\ny = 10.0",
		"type = \"button\"\ntime = 2\npressed = true",
		"type = \"move\"\ntime = 2\nwindow = 1",
		"type = \"motion\"\ntime = 3\nx = 30.0\ny = 15.0",
		"type = \"button\"\ntime = 4",
	)
	w := newWorld(t, sc, Options{})

	steps, err := w.Run()
	require.NoError(t, err)

	assert.Contains(t, steps[2].Notes, "grab pointer -> move")
	assert.Equal(t, "move", steps[2].Status.Grab)

	assert.Empty(t, steps[3].Deliveries)
	assert.Contains(t, steps[3].Notes, "window 1 at 100x100+20+5")
	win, ok := w.Shell().Window(1)
	require.True(t, ok)
	assert.Equal(t, wm.Rect{X: 20, Y: 5, Width: 100, Height: 100}, win.Rect)

	// The final release ends the grab
	assert.Contains(t, steps[4].Notes, "grab move -> pointer")
	assert.Equal(t, 0, steps[4].Status.ButtonCount)
}

func TestResizeGrab(t *testing.T) {
	sc := parse(t, twoWindows,
		"type = \"motion\"\ntime = 1\nx = 99.0\ny = 99.0",
		"type = \"button\"\ntime = 2\npressed = true",
		"type = \"resize\"\ntime = 2\nwindow = 2\nedges = [\"left\"]",
		"type = \"motion\"\ntime = 3\nx = 89.0\ny = 50.0",
		"type = \"end-grab\"\ntime = 4",
	)
	w := newWorld(t, sc, Options{})

	steps, err := w.Run()
	require.NoError(t, err)

	win, _ := w.Shell().Window(2)
	assert.Equal(t, wm.Rect{X: 40, Y: 0, Width: 110, Height: 100}, win.Rect)
	assert.Equal(t, "resize", steps[3].Status.Grab)
	assert.Equal(t, "pointer", steps[4].Status.Grab)
}

func TestRaiseOnClickOverride(t *testing.T) {
	off := "raise_on_click = false\n" + twoWindows
	sc := parse(t, off,
		"type = \"motion\"\ntime = 1\nx = 10.0\ny = 10.0",
		"type = \"button\"\ntime = 2\npressed = true",
	)
	w := newWorld(t, sc, Options{RaiseOnClick: true})

	steps, err := w.Run()
	require.NoError(t, err)
	assert.Empty(t, steps[1].Notes)

	stack := w.Shell().Stack()
	assert.Equal(t, wm.WindowID(2), stack[len(stack)-1].ID)
}

func TestRaiseOnClickX11(t *testing.T) {
	x11 := `
[screen]
width = 200
height = 100

[[window]]
id = 1
client = 1
client_type = "x11"
width = 100
height = 100

[[window]]
id = 2
client = 2
x = 150
width = 50
height = 100
`
	sc := parse(t, x11,
		"type = \"motion\"\ntime = 1\nx = 10.0\ny = 10.0",
		"type = \"button\"\ntime = 2\npressed = true",
	)
	w := newWorld(t, sc, Options{RaiseOnClick: true})

	steps, err := w.Run()
	require.NoError(t, err)
	assert.NotContains(t, steps[1].Notes, "raised window 1")
}

func TestWorkspacesAndMinimize(t *testing.T) {
	ws := `
workspaces = 2

[screen]
width = 200
height = 100

[[window]]
id = 1
client = 1
width = 200
height = 100

[[window]]
id = 2
client = 2
workspace = 1
width = 200
height = 100
`
	sc := parse(t, ws,
		"type = \"motion\"\ntime = 1\nx = 10.0\ny = 10.0",
		"type = \"switch-workspace\"\ntime = 2\nworkspace = 1",
		"type = \"minimize\"\ntime = 3\nwindow = 2",
	)
	w := newWorld(t, sc, Options{Effects: true})

	steps, err := w.Run()
	require.NoError(t, err)

	// Window 2 starts hidden on workspace 1
	assert.Equal(t, []string{"enter", "motion"}, kinds(steps[0].Deliveries))
	assert.Equal(t, protocol.ClientID(1), steps[0].Deliveries[0].Client)

	assert.Equal(t, []string{"leave", "enter"}, kinds(steps[1].Deliveries))
	assert.Equal(t, protocol.ClientID(2), steps[1].Deliveries[1].Client)
	assert.Contains(t, steps[1].Notes, "window 1 hidden")
	assert.Contains(t, steps[1].Notes, "window 2 shown")

	assert.Equal(t, []string{"leave"}, kinds(steps[2].Deliveries))
	assert.Equal(t, "none", steps[2].Status.PointerFocus)
}

func TestAttachAndUnbind(t *testing.T) {
	sc := parse(t, twoWindows,
		"type = \"motion\"\ntime = 1\nx = 10.0\ny = 10.0",
		"type = \"attach\"\ntime = 2\nclient = 2\n[event.cursor]\nwidth = 16\nheight = 16",
		"type = \"attach\"\ntime = 3\nclient = 1\n[event.cursor]\nwidth = 24\nheight = 24\nhotspot_x = 4\nhotspot_y = 2",
		"type = \"attach\"\ntime = 4\nclient = 1",
		"type = \"unbind\"\nclient = 1",
		"type = \"motion\"\ntime = 5\nx = 12.0\ny = 10.0",
	)
	w := newWorld(t, sc, Options{})

	steps, err := w.Run()
	require.NoError(t, err)

	// Only the focused client may set the cursor
	assert.Empty(t, steps[1].Notes)
	assert.Equal(t, []string{"cursor 24x24 hotspot (4,2)"}, steps[2].Notes)
	assert.Equal(t, []string{"cursor hidden"}, steps[3].Notes)

	assert.Equal(t, []string{"client 1 gone"}, steps[4].Notes)
	assert.Equal(t, "none", steps[4].Status.PointerFocus)
	assert.Equal(t, 1, steps[4].Status.Clients)
	assert.Empty(t, steps[5].Deliveries)
}

func TestScrollAsButtons(t *testing.T) {
	sc := parse(t, twoWindows,
		"type = \"motion\"\ntime = 1\nx = 10.0\ny = 10.0",
		"type = \"scroll\"\ntime = 2\ndirection = \"down\"",
		"type = \"scroll\"\ntime = 3\ndirection = \"smooth\"",
	)
	w := newWorld(t, sc, Options{})

	steps, err := w.Run()
	require.NoError(t, err)

	require.Len(t, steps[1].Deliveries, 2)
	assert.Equal(t, evcode.BtnExtra, steps[1].Deliveries[0].Code)
	assert.True(t, steps[1].Deliveries[0].Pressed)
	assert.False(t, steps[1].Deliveries[1].Pressed)
	assert.Empty(t, steps[2].Deliveries)
}

func TestDeliveryStream(t *testing.T) {
	sc := parse(t, twoWindows,
		"type = \"motion\"\ntime = 1\nx = 10.0\ny = 10.0",
		"type = \"motion\"\ntime = 2\nx = 60.0\ny = 10.0",
		"type = \"button\"\ntime = 3\npressed = true",
	)
	var buf bytes.Buffer
	w := newWorld(t, sc, Options{Stream: &buf})

	steps, err := w.Run()
	require.NoError(t, err)
	require.NoError(t, w.StreamErr())

	var want []protocol.Delivery
	for _, s := range steps {
		want = append(want, s.Deliveries...)
	}
	got, err := protocol.ReadDeliveries(&buf)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLiveEventsObserved(t *testing.T) {
	sc := parse(t, twoWindows, "type = \"motion\"\ntime = 2\nx = 60.0\ny = 10.0")
	var seen []protocol.Delivery
	w := newWorld(t, sc, Options{Observer: func(d protocol.Delivery) { seen = append(seen, d) }})

	w.Handle(&native.Event{Type: native.Motion, Time: 1, X: 10, Y: 10})
	assert.Equal(t, []string{"enter", "motion"}, kinds(seen))

	step, err := w.Next()
	require.NoError(t, err)
	assert.Equal(t, []string{"leave", "enter", "motion"}, kinds(step.Deliveries))
	assert.Len(t, seen, 5)
}

func TestLiveRaiseRepicks(t *testing.T) {
	sc := parse(t, twoWindows)
	var seen []protocol.Delivery
	w := newWorld(t, sc, Options{RaiseOnClick: true, Observer: func(d protocol.Delivery) { seen = append(seen, d) }})

	// Window 1 is below window 2 where they overlap; raise it by clicking
	// its uncovered part, then move into the overlap.
	w.Handle(&native.Event{Type: native.Motion, Time: 1, X: 10, Y: 10})
	w.Handle(&native.Event{Type: native.ButtonPress, Time: 2, X: 10, Y: 10, Button: 1})
	w.Handle(&native.Event{Type: native.ButtonRelease, Time: 3, X: 10, Y: 10, Button: 1})
	seen = nil

	w.Handle(&native.Event{Type: native.Motion, Time: 4, X: 60, Y: 10})
	assert.Equal(t, []string{"motion"}, kinds(seen))
	assert.Equal(t, protocol.ClientID(1), seen[0].Client)
}
