// Package protocol models the client side of the input device global: the
// per-client resource that receives pointer and keyboard deliveries, and the
// wire encoding of those deliveries.
package protocol

import (
	"fmt"

	"github.com/bnema/wayseat/internal/evcode"
)

// ClientID identifies a connected protocol client.
type ClientID uint32

// Resource is one client's binding of the input device. A resource may be
// destroyed by the transport at any time; callers check Alive before posting.
type Resource interface {
	Client() ClientID
	Alive() bool

	Enter(time uint32, surface uint32, sx, sy float64)
	Leave(time uint32, surface uint32)
	Motion(time uint32, x, y, sx, sy float64)
	Button(time uint32, button uint32, pressed bool)
	Key(time uint32, key uint32, pressed bool)
}

// Buffer is a client buffer attached as the cursor image.
type Buffer struct {
	Width  int32
	Height int32
}

// Kind is the type of a delivery.
type Kind uint8

const (
	KindEnter Kind = iota + 1
	KindLeave
	KindMotion
	KindButton
	KindKey
)

func (k Kind) String() string {
	switch k {
	case KindEnter:
		return "enter"
	case KindLeave:
		return "leave"
	case KindMotion:
		return "motion"
	case KindButton:
		return "button"
	case KindKey:
		return "key"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Delivery is one event posted to a client resource.
type Delivery struct {
	Kind    Kind
	Client  ClientID
	Time    uint32
	Surface uint32
	X, Y    float64 // stage coordinates (motion)
	SX, SY  float64 // surface-local coordinates (enter, motion)
	Code    uint32  // button or key code
	Pressed bool
}

func (d Delivery) String() string {
	switch d.Kind {
	case KindEnter:
		return fmt.Sprintf("enter surface=%d local=(%.1f,%.1f)", d.Surface, d.SX, d.SY)
	case KindLeave:
		return fmt.Sprintf("leave surface=%d", d.Surface)
	case KindMotion:
		return fmt.Sprintf("motion (%.1f,%.1f) local=(%.1f,%.1f)", d.X, d.Y, d.SX, d.SY)
	case KindButton:
		return fmt.Sprintf("button %s %s", evcode.Name(d.Code), pressedString(d.Pressed))
	case KindKey:
		return fmt.Sprintf("key 0x%x %s", d.Code, pressedString(d.Pressed))
	}
	return d.Kind.String()
}

func pressedString(pressed bool) string {
	if pressed {
		return "pressed"
	}
	return "released"
}
