// Package input defines the viewport input model shared by every input
// surface: discrete press, move, release, wheel and touch events and the
// listener contract that consumes them.
package input

import (
	"fmt"

	"github.com/taigrr/globe/pkg/math3d"
)

// Kind identifies an input event.
type Kind int

const (
	KindPressStart Kind = iota + 1
	KindPressMove
	KindPressEnd
	KindWheel
	KindTouchStart
	KindTouchMove
	KindTouchEnd
)

var kindNames = map[Kind]string{
	KindPressStart: "pressStart",
	KindPressMove:  "pressMove",
	KindPressEnd:   "pressEnd",
	KindWheel:      "wheel",
	KindTouchStart: "touchStart",
	KindTouchMove:  "touchMove",
	KindTouchEnd:   "touchEnd",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind maps a wire name such as "pressMove" back to its Kind.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown input event type %q", s)
}

// Touch is one contact point. ID stays stable for the lifetime of the contact.
type Touch struct {
	ID  int
	Pos math3d.Vec2
}

// Event is a single viewport input event.
//
// Pos is set for press events, DeltaY for wheel events (negative is scroll
// up). For KindTouchStart and KindTouchMove, Touches lists every active
// contact; for KindTouchEnd it lists the contacts that were lifted.
type Event struct {
	Kind    Kind
	Pos     math3d.Vec2
	DeltaY  float64
	Touches []Touch
}

func (e Event) String() string {
	switch e.Kind {
	case KindWheel:
		return fmt.Sprintf("%s(%g)", e.Kind, e.DeltaY)
	case KindTouchStart, KindTouchMove, KindTouchEnd:
		return fmt.Sprintf("%s(%d contacts)", e.Kind, len(e.Touches))
	default:
		return fmt.Sprintf("%s(%g,%g)", e.Kind, e.Pos.X, e.Pos.Y)
	}
}
