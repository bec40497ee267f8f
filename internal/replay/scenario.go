// Package replay drives an input device through a scripted session. A
// scenario file describes the windows on screen and a list of input and
// window manager events; running it yields every protocol delivery the
// clients would have received.
package replay

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/bnema/wayseat/internal/evcode"
	"github.com/bnema/wayseat/internal/seat"
	"github.com/bnema/wayseat/internal/wm"
	"github.com/pelletier/go-toml/v2"
)

// Event types understood in scenario files.
const (
	EventMotion          = "motion"
	EventButton          = "button"
	EventKey             = "key"
	EventScroll          = "scroll"
	EventRepick          = "repick"
	EventMove            = "move"
	EventResize          = "resize"
	EventEndGrab         = "end-grab"
	EventAttach          = "attach"
	EventFocus           = "focus"
	EventDestroy         = "destroy"
	EventUnbind          = "unbind"
	EventMinimize        = "minimize"
	EventSwitchWorkspace = "switch-workspace"
)

// ErrInvalidScenario wraps every validation failure.
var ErrInvalidScenario = errors.New("invalid scenario")

// Scenario is a parsed scenario file.
type Scenario struct {
	Name         string       `toml:"name"`
	Screen       Screen       `toml:"screen"`
	Workspaces   int          `toml:"workspaces"`
	RaiseOnClick *bool        `toml:"raise_on_click"`
	Windows      []Window     `toml:"window"`
	Decorations  []Decoration `toml:"decoration"`
	Events       []Event      `toml:"event"`
}

// Screen is the stage size. Zero values fall back to the seat config.
type Screen struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// Window is a managed client window backed by one surface.
type Window struct {
	ID         uint32 `toml:"id"`
	Title      string `toml:"title"`
	Client     uint32 `toml:"client"`
	ClientType string `toml:"client_type"` // wayland (default) or x11
	Surface    uint32 `toml:"surface"`     // protocol object id, defaults to the window id
	X          int    `toml:"x"`
	Y          int    `toml:"y"`
	Width      int    `toml:"width"`
	Height     int    `toml:"height"`
	Workspace  int    `toml:"workspace"`
	Reactive   *bool  `toml:"reactive"`
}

// Decoration is a stage actor that draws no client surface, such as a panel.
type Decoration struct {
	Name     string `toml:"name"`
	X        int    `toml:"x"`
	Y        int    `toml:"y"`
	Width    int    `toml:"width"`
	Height   int    `toml:"height"`
	Reactive bool   `toml:"reactive"`
}

// Cursor is a cursor buffer attached by a client.
type Cursor struct {
	Width    int32 `toml:"width"`
	Height   int32 `toml:"height"`
	HotspotX int32 `toml:"hotspot_x"`
	HotspotY int32 `toml:"hotspot_y"`
}

// Event is one scripted step. Which fields apply depends on Type.
type Event struct {
	Type      string   `toml:"type"`
	Time      uint32   `toml:"time"`
	X         float64  `toml:"x"`
	Y         float64  `toml:"y"`
	Button    uint32   `toml:"button"` // toolkit button number, 1 is primary
	Pressed   bool     `toml:"pressed"`
	Keycode   uint32   `toml:"keycode"` // hardware keycode
	Direction string   `toml:"direction"`
	Window    uint32   `toml:"window"`
	Edges     []string `toml:"edges"`
	Client    uint32   `toml:"client"`
	Cursor    *Cursor  `toml:"cursor"`
	Workspace int      `toml:"workspace"`
}

func (e Event) String() string {
	switch e.Type {
	case EventMotion:
		return fmt.Sprintf("motion t=%d (%.1f,%.1f)", e.Time, e.X, e.Y)
	case EventButton:
		return fmt.Sprintf("button t=%d %d %s", e.Time, e.Button, pressedWord(e.Pressed))
	case EventKey:
		return fmt.Sprintf("key t=%d keycode=%d %s", e.Time, e.Keycode, pressedWord(e.Pressed))
	case EventScroll:
		return fmt.Sprintf("scroll t=%d %s", e.Time, e.Direction)
	case EventMove:
		return fmt.Sprintf("move t=%d window=%d", e.Time, e.Window)
	case EventResize:
		return fmt.Sprintf("resize t=%d window=%d %v", e.Time, e.Window, e.Edges)
	case EventAttach:
		if e.Cursor == nil {
			return fmt.Sprintf("attach t=%d client=%d hide", e.Time, e.Client)
		}
		return fmt.Sprintf("attach t=%d client=%d %dx%d", e.Time, e.Client, e.Cursor.Width, e.Cursor.Height)
	case EventFocus, EventDestroy, EventMinimize:
		return fmt.Sprintf("%s t=%d window=%d", e.Type, e.Time, e.Window)
	case EventUnbind:
		return fmt.Sprintf("unbind client=%d", e.Client)
	case EventSwitchWorkspace:
		return fmt.Sprintf("switch-workspace t=%d to=%d", e.Time, e.Workspace)
	}
	return fmt.Sprintf("%s t=%d", e.Type, e.Time)
}

func pressedWord(pressed bool) string {
	if pressed {
		return "press"
	}
	return "release"
}

// Load reads and validates a scenario file.
func Load(path string) (*Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open scenario: %w", err)
	}
	defer f.Close()

	sc, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

// Parse decodes a scenario. Unknown keys are rejected.
func Parse(r io.Reader) (*Scenario, error) {
	var sc Scenario
	dec := toml.NewDecoder(r).DisallowUnknownFields()
	if err := dec.Decode(&sc); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidScenario, strict.String())
		}
		return nil, fmt.Errorf("failed to decode scenario: %w", err)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Validate checks references between events and windows and fills defaults.
func (sc *Scenario) Validate() error {
	if sc.Screen.Width < 0 || sc.Screen.Height < 0 {
		return fmt.Errorf("%w: negative screen size", ErrInvalidScenario)
	}
	if sc.Workspaces == 0 {
		sc.Workspaces = 1
	}
	if sc.Workspaces < 0 {
		return fmt.Errorf("%w: workspaces must be positive", ErrInvalidScenario)
	}

	windows := make(map[uint32]bool)
	surfaces := make(map[uint32]bool)
	clients := make(map[uint32]bool)
	for i := range sc.Windows {
		w := &sc.Windows[i]
		if w.ID == 0 {
			return fmt.Errorf("%w: window %d has no id", ErrInvalidScenario, i)
		}
		if windows[w.ID] {
			return fmt.Errorf("%w: duplicate window id %d", ErrInvalidScenario, w.ID)
		}
		windows[w.ID] = true
		if w.Surface == 0 {
			w.Surface = w.ID
		}
		if surfaces[w.Surface] {
			return fmt.Errorf("%w: duplicate surface id %d", ErrInvalidScenario, w.Surface)
		}
		surfaces[w.Surface] = true
		if w.Client == 0 {
			return fmt.Errorf("%w: window %d has no client", ErrInvalidScenario, w.ID)
		}
		clients[w.Client] = true
		if w.ClientType == "" {
			w.ClientType = wm.ClientWayland.String()
		}
		if _, err := wm.ParseClientType(w.ClientType); err != nil {
			return fmt.Errorf("%w: window %d: %v", ErrInvalidScenario, w.ID, err)
		}
		if w.Width <= 0 || w.Height <= 0 {
			return fmt.Errorf("%w: window %d has empty size", ErrInvalidScenario, w.ID)
		}
		if w.Workspace != wm.Sticky && (w.Workspace < 0 || w.Workspace >= sc.Workspaces) {
			return fmt.Errorf("%w: window %d on unknown workspace %d", ErrInvalidScenario, w.ID, w.Workspace)
		}
	}

	for i, d := range sc.Decorations {
		if d.Width <= 0 || d.Height <= 0 {
			return fmt.Errorf("%w: decoration %d has empty size", ErrInvalidScenario, i)
		}
	}

	for i := range sc.Events {
		if err := sc.validateEvent(&sc.Events[i], windows, clients); err != nil {
			return fmt.Errorf("%w: event %d: %v", ErrInvalidScenario, i, err)
		}
	}
	return nil
}

func (sc *Scenario) validateEvent(e *Event, windows, clients map[uint32]bool) error {
	needWindow := func() error {
		if !windows[e.Window] {
			return fmt.Errorf("%s references unknown window %d", e.Type, e.Window)
		}
		return nil
	}
	needClient := func() error {
		if !clients[e.Client] {
			return fmt.Errorf("%s references unknown client %d", e.Type, e.Client)
		}
		return nil
	}

	switch e.Type {
	case EventMotion, EventRepick, EventEndGrab:
		return nil
	case EventButton:
		if e.Button == 0 {
			e.Button = 1
		}
		return nil
	case EventKey:
		if e.Keycode == 0 {
			return errors.New("key without keycode")
		}
		return nil
	case EventScroll:
		_, err := evcode.ParseScrollDirection(e.Direction)
		return err
	case EventMove, EventFocus, EventDestroy, EventMinimize:
		return needWindow()
	case EventResize:
		if err := needWindow(); err != nil {
			return err
		}
		if _, ok := seat.ParseEdges(e.Edges); !ok {
			return fmt.Errorf("bad resize edges %v", e.Edges)
		}
		return nil
	case EventAttach, EventUnbind:
		return needClient()
	case EventSwitchWorkspace:
		if e.Workspace < 0 || e.Workspace >= sc.Workspaces {
			return fmt.Errorf("unknown workspace %d", e.Workspace)
		}
		return nil
	case "":
		return errors.New("missing type")
	}
	return fmt.Errorf("unknown type %q", e.Type)
}
