package effects

import "github.com/bnema/wayseat/internal/logger"

// Instant is the built-in plugin. It performs no animation and completes
// every effect as soon as it starts.
type Instant struct {
	host  *Host
	debug bool
}

// NewInstant creates the built-in plugin.
func NewInstant() *Instant {
	return &Instant{}
}

func (p *Instant) Info() Info {
	return Info{
		Name:         "instant",
		VersionMajor: 1,
		APIVersion:   APIVersion,
		Features:     AllEffects,
	}
}

func (p *Instant) Init(host *Host) error {
	p.host = host
	p.debug = host.Params.Debug
	return nil
}

func (p *Instant) Reload(params Params) error {
	p.debug = params.Debug
	return nil
}

func (p *Instant) Minimize(actor ActorID, t WindowType, workspace int) {
	p.done(actor, Minimize)
}

func (p *Instant) Maximize(actor ActorID, t WindowType, workspace int, target Rect) {
	p.done(actor, Maximize)
}

func (p *Instant) Unmaximize(actor ActorID, t WindowType, workspace int, target Rect) {
	p.done(actor, Unmaximize)
}

func (p *Instant) Map(actor ActorID, t WindowType, workspace int) {
	p.done(actor, Map)
}

func (p *Instant) Destroy(actor ActorID, t WindowType, workspace int) {
	p.done(actor, Destroy)
}

func (p *Instant) SwitchWorkspace(actors []WorkspaceActor, from, to int) {
	var actor ActorID
	if len(actors) > 0 {
		actor = actors[0].Actor
	}
	p.done(actor, SwitchWorkspace)
}

// KillEffect has nothing to cut short; every effect already completed.
func (p *Instant) KillEffect(actor ActorID, events Feature) {}

func (p *Instant) done(actor ActorID, event Feature) {
	if p.debug {
		logger.Debugf("instant: %s on actor %d", event, actor)
	}
	p.host.Completer.Completed(actor, event)
}
