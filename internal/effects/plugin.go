// Package effects hosts window effect plugins. A plugin advertises the effects
// it implements and must report completion of each effect it starts exactly
// once, so the window manager knows when an actor is free again.
package effects

import (
	"fmt"
	"strings"
)

// APIVersion is the plugin interface version this host speaks.
const APIVersion = 1

// Feature is a bit set of effect kinds.
type Feature uint32

const (
	Minimize Feature = 1 << iota
	Maximize
	Unmaximize
	Map
	Destroy
	SwitchWorkspace

	AllEffects Feature = 0xffffffff
)

var featureNames = []struct {
	f    Feature
	name string
}{
	{Minimize, "minimize"},
	{Maximize, "maximize"},
	{Unmaximize, "unmaximize"},
	{Map, "map"},
	{Destroy, "destroy"},
	{SwitchWorkspace, "switch-workspace"},
}

func (f Feature) String() string {
	if f == AllEffects {
		return "all"
	}
	var names []string
	for _, fn := range featureNames {
		if f&fn.f != 0 {
			names = append(names, fn.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

// ParseFeature maps a single effect name to its flag.
func ParseFeature(name string) (Feature, error) {
	name = strings.TrimSpace(name)
	for _, fn := range featureNames {
		if fn.name == name {
			return fn.f, nil
		}
	}
	return 0, fmt.Errorf("unknown effect %q", name)
}

// WindowType is the compositor's classification of a window.
type WindowType int

const (
	WindowNormal WindowType = iota
	WindowDialog
	WindowModalDialog
	WindowMenu
	WindowDock
	WindowOverride
)

// ActorID identifies the actor an effect runs on.
type ActorID uint32

// Rect is a screen rectangle.
type Rect struct {
	X, Y          int
	Width, Height int
}

// WorkspaceActor pairs an actor with its workspace; a negative workspace
// marks a sticky window shown on every workspace.
type WorkspaceActor struct {
	Actor     ActorID
	Workspace int
}

// Info describes a plugin and the interface version it was built against.
type Info struct {
	Name         string
	VersionMajor int
	VersionMinor int
	VersionMicro int
	APIVersion   int
	Features     Feature
}

// Completer receives effect completions. Every effect a plugin starts must be
// completed exactly once, including effects cut short by KillEffect.
type Completer interface {
	Completed(actor ActorID, event Feature)
}

// Host is what a plugin gets at registration.
type Host struct {
	Completer    Completer
	Params       Params
	ScreenWidth  int
	ScreenHeight int
	WorkAreas    []Rect
}

// Plugin implements window effects. Plugins must restore any actor property
// they animate once the effect completes.
type Plugin interface {
	Info() Info
	Init(host *Host) error
	Reload(params Params) error

	Minimize(actor ActorID, t WindowType, workspace int)
	Maximize(actor ActorID, t WindowType, workspace int, target Rect)
	Unmaximize(actor ActorID, t WindowType, workspace int, target Rect)
	Map(actor ActorID, t WindowType, workspace int)
	Destroy(actor ActorID, t WindowType, workspace int)
	SwitchWorkspace(actors []WorkspaceActor, from, to int)
	KillEffect(actor ActorID, events Feature)
}
