// Package scene is a minimal stand-in for the compositor's scene graph: a
// stage of rectangular actors in stacking order with hit-testing and
// stage-to-actor coordinate transforms.
package scene

import "sync"

// PickMode selects which actors a hit test considers.
type PickMode int

const (
	// PickReactive only considers actors that accept input.
	PickReactive PickMode = iota
	// PickAll considers every visible actor.
	PickAll
)

// Actor is anything placed on the stage.
type Actor interface {
	// TransformStagePoint converts stage coordinates into actor-local
	// coordinates. ok is false if the actor has no valid transform.
	TransformStagePoint(x, y float64) (ax, ay float64, ok bool)
}

// Pickable is an actor the in-memory stage can hit-test.
type Pickable interface {
	Actor
	Contains(x, y float64) bool
	IsReactive() bool
	IsVisible() bool
}

// Node is a rectangular actor.
type Node struct {
	Name     string
	X, Y     float64
	Width    float64
	Height   float64
	Reactive bool
	Hidden   bool
}

// NewNode creates a visible, reactive node.
func NewNode(name string, x, y, width, height float64) *Node {
	return &Node{Name: name, X: x, Y: y, Width: width, Height: height, Reactive: true}
}

func (n *Node) TransformStagePoint(x, y float64) (float64, float64, bool) {
	return x - n.X, y - n.Y, true
}

func (n *Node) Contains(x, y float64) bool {
	return x >= n.X && y >= n.Y && x < n.X+n.Width && y < n.Y+n.Height
}

func (n *Node) IsReactive() bool { return n.Reactive }
func (n *Node) IsVisible() bool  { return !n.Hidden }

// SetGeometry moves and resizes the node.
func (n *Node) SetGeometry(x, y, width, height float64) {
	n.X, n.Y, n.Width, n.Height = x, y, width, height
}

// Stage holds actors bottom to top. The stage itself is the fallback pick
// result, so ActorAt never returns nil.
type Stage struct {
	mu     sync.RWMutex
	width  float64
	height float64
	actors []Pickable
}

// NewStage creates an empty stage of the given size.
func NewStage(width, height float64) *Stage {
	return &Stage{width: width, height: height}
}

// Size returns the stage dimensions.
func (s *Stage) Size() (float64, float64) {
	return s.width, s.height
}

// TransformStagePoint is the identity for the stage itself.
func (s *Stage) TransformStagePoint(x, y float64) (float64, float64, bool) {
	return x, y, true
}

// Add places a on top of the stack.
func (s *Stage) Add(a Pickable) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actors = append(s.actors, a)
}

// Remove takes a off the stage.
func (s *Stage) Remove(a Pickable) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.index(a); i >= 0 {
		s.actors = append(s.actors[:i], s.actors[i+1:]...)
	}
}

// Raise moves a to the top of the stack.
func (s *Stage) Raise(a Pickable) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(a)
	if i < 0 || i == len(s.actors)-1 {
		return
	}
	s.actors = append(s.actors[:i], s.actors[i+1:]...)
	s.actors = append(s.actors, a)
}

// Actors returns the stack bottom to top.
func (s *Stage) Actors() []Pickable {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Pickable, len(s.actors))
	copy(out, s.actors)
	return out
}

// ActorAt returns the topmost actor at (x, y), or the stage when nothing
// matches.
func (s *Stage) ActorAt(mode PickMode, x, y float64) Actor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := len(s.actors) - 1; i >= 0; i-- {
		a := s.actors[i]
		if !a.IsVisible() {
			continue
		}
		if mode == PickReactive && !a.IsReactive() {
			continue
		}
		if a.Contains(x, y) {
			return a
		}
	}
	return s
}

// Clamp limits a point to the stage bounds.
func (s *Stage) Clamp(x, y float64) (float64, float64) {
	if x < 0 {
		x = 0
	} else if x > s.width-1 {
		x = s.width - 1
	}
	if y < 0 {
		y = 0
	} else if y > s.height-1 {
		y = s.height - 1
	}
	return x, y
}

func (s *Stage) index(a Pickable) int {
	for i, b := range s.actors {
		if b == a {
			return i
		}
	}
	return -1
}
