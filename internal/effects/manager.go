package effects

import (
	"errors"
	"fmt"
	"sync"

	"github.com/bnema/wayseat/internal/logger"
)

var (
	// ErrVersionMismatch is returned when a plugin targets another API version
	ErrVersionMismatch = errors.New("plugin API version mismatch")
	// ErrDuplicatePlugin is returned when a plugin name is registered twice
	ErrDuplicatePlugin = errors.New("plugin already registered")
	// ErrUnknownPlugin is returned when reloading a plugin that is not registered
	ErrUnknownPlugin = errors.New("plugin not registered")
)

type pendingKey struct {
	actor ActorID
	event Feature
}

type registration struct {
	mgr      *Manager
	plugin   Plugin
	info     Info
	params   Params
	features Feature
	pending  map[pendingKey]int
	running  int
}

// Completed implements Completer for one plugin.
func (r *registration) Completed(actor ActorID, event Feature) {
	r.mgr.complete(r, actor, event)
}

// Manager dispatches window manager events to registered plugins and keeps
// the running-effect bookkeeping.
type Manager struct {
	mu           sync.Mutex
	plugins      []*registration
	screenWidth  int
	screenHeight int
	workAreas    []Rect

	// OnCompleted, if set, is called after a plugin completes an effect.
	OnCompleted func(actor ActorID, event Feature)
}

// NewManager creates a manager for a screen of the given size.
func NewManager(screenWidth, screenHeight int, workAreas []Rect) *Manager {
	return &Manager{
		screenWidth:  screenWidth,
		screenHeight: screenHeight,
		workAreas:    workAreas,
	}
}

// Register runs the version handshake and initializes p with its parameters.
func (m *Manager) Register(p Plugin, rawParams string) error {
	info := p.Info()
	if info.APIVersion != APIVersion {
		return fmt.Errorf("%w: %s wants %d, host speaks %d", ErrVersionMismatch, info.Name, info.APIVersion, APIVersion)
	}

	m.mu.Lock()
	for _, r := range m.plugins {
		if r.info.Name == info.Name {
			m.mu.Unlock()
			return fmt.Errorf("%w: %s", ErrDuplicatePlugin, info.Name)
		}
	}
	m.mu.Unlock()

	params := ParseParams(rawParams)
	r := &registration{
		mgr:      m,
		plugin:   p,
		info:     info,
		params:   params,
		features: info.Features &^ params.Disabled,
		pending:  make(map[pendingKey]int),
	}

	host := &Host{
		Completer:    r,
		Params:       params,
		ScreenWidth:  m.screenWidth,
		ScreenHeight: m.screenHeight,
		WorkAreas:    m.workAreas,
	}
	if err := p.Init(host); err != nil {
		return fmt.Errorf("failed to init plugin %s: %w", info.Name, err)
	}

	m.mu.Lock()
	m.plugins = append(m.plugins, r)
	m.mu.Unlock()

	logger.Infof("Loaded effects plugin %s %d.%d.%d (effects: %s)",
		info.Name, info.VersionMajor, info.VersionMinor, info.VersionMicro, r.features)
	return nil
}

// Reload passes new parameters to a registered plugin.
func (m *Manager) Reload(name, rawParams string) error {
	m.mu.Lock()
	var r *registration
	for _, reg := range m.plugins {
		if reg.info.Name == name {
			r = reg
			break
		}
	}
	m.mu.Unlock()
	if r == nil {
		return fmt.Errorf("%w: %s", ErrUnknownPlugin, name)
	}

	params := ParseParams(rawParams)
	if err := r.plugin.Reload(params); err != nil {
		return fmt.Errorf("failed to reload plugin %s: %w", name, err)
	}

	m.mu.Lock()
	r.params = params
	r.features = r.info.Features &^ params.Disabled
	m.mu.Unlock()
	return nil
}

// Running returns the number of effects started and not yet completed.
func (m *Manager) Running() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, r := range m.plugins {
		n += r.running
	}
	return n
}

// Minimize starts minimize effects. It reports whether any plugin took the
// event; if none did the caller completes the operation itself.
func (m *Manager) Minimize(actor ActorID, t WindowType, workspace int) bool {
	return m.dispatch(actor, Minimize, func(p Plugin) { p.Minimize(actor, t, workspace) })
}

// Maximize starts maximize effects towards target.
func (m *Manager) Maximize(actor ActorID, t WindowType, workspace int, target Rect) bool {
	return m.dispatch(actor, Maximize, func(p Plugin) { p.Maximize(actor, t, workspace, target) })
}

// Unmaximize starts unmaximize effects towards target.
func (m *Manager) Unmaximize(actor ActorID, t WindowType, workspace int, target Rect) bool {
	return m.dispatch(actor, Unmaximize, func(p Plugin) { p.Unmaximize(actor, t, workspace, target) })
}

// Map starts map effects.
func (m *Manager) Map(actor ActorID, t WindowType, workspace int) bool {
	return m.dispatch(actor, Map, func(p Plugin) { p.Map(actor, t, workspace) })
}

// Destroy starts destroy effects.
func (m *Manager) Destroy(actor ActorID, t WindowType, workspace int) bool {
	return m.dispatch(actor, Destroy, func(p Plugin) { p.Destroy(actor, t, workspace) })
}

// SwitchWorkspace starts workspace switch effects. Plugins may complete the
// switch with any actor from the list.
func (m *Manager) SwitchWorkspace(actors []WorkspaceActor, from, to int) bool {
	return m.dispatch(0, SwitchWorkspace, func(p Plugin) { p.SwitchWorkspace(actors, from, to) })
}

// Kill asks plugins to cut short the given effects on actor. Plugins still
// report completion for each killed effect.
func (m *Manager) Kill(actor ActorID, events Feature) {
	m.mu.Lock()
	var targets []*registration
	var masks []Feature
	for _, r := range m.plugins {
		var mask Feature
		for key, n := range r.pending {
			if n > 0 && key.event&events != 0 && (key.actor == actor || key.event == SwitchWorkspace) {
				mask |= key.event
			}
		}
		if mask != 0 {
			targets = append(targets, r)
			masks = append(masks, mask)
		}
	}
	m.mu.Unlock()

	for i, r := range targets {
		r.plugin.KillEffect(actor, masks[i])
	}
}

func (m *Manager) dispatch(actor ActorID, event Feature, call func(Plugin)) bool {
	m.mu.Lock()
	var targets []*registration
	for _, r := range m.plugins {
		if r.features&event == 0 {
			continue
		}
		r.pending[pendingKey{actor, event}]++
		r.running++
		targets = append(targets, r)
	}
	m.mu.Unlock()

	for _, r := range targets {
		if r.params.Debug {
			logger.Debugf("Effect %s on actor %d via %s", event, actor, r.info.Name)
		}
		call(r.plugin)
	}
	return len(targets) > 0
}

func (m *Manager) complete(r *registration, actor ActorID, event Feature) {
	key := pendingKey{actor, event}
	if event == SwitchWorkspace {
		key.actor = 0
	}

	m.mu.Lock()
	if r.pending[key] == 0 {
		m.mu.Unlock()
		logger.Warnf("Plugin %s completed %s on actor %d that was not running", r.info.Name, event, actor)
		return
	}
	r.pending[key]--
	if r.pending[key] == 0 {
		delete(r.pending, key)
	}
	r.running--
	cb := m.OnCompleted
	m.mu.Unlock()

	if cb != nil {
		cb(actor, event)
	}
}
