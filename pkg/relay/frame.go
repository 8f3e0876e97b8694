package relay

import (
	"fmt"

	"github.com/taigrr/globe/pkg/input"
	"github.com/taigrr/globe/pkg/math3d"
)

// Frame is one JSON text message from the browser page.
type Frame struct {
	Type    string       `json:"type"`
	X       float64      `json:"x,omitempty"`
	Y       float64      `json:"y,omitempty"`
	DeltaY  float64      `json:"deltaY,omitempty"`
	Touches []TouchFrame `json:"touches,omitempty"`
}

// TouchFrame is one contact point of a touch frame.
type TouchFrame struct {
	ID int     `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// Reply is a message sent back to the page.
type Reply struct {
	Type    string `json:"type"` // "hello" or "error"
	Session string `json:"session,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Event converts f into an input event.
func (f Frame) Event() (input.Event, error) {
	kind, err := input.ParseKind(f.Type)
	if err != nil {
		return input.Event{}, err
	}
	ev := input.Event{Kind: kind}
	switch kind {
	case input.KindWheel:
		ev.DeltaY = f.DeltaY
	case input.KindTouchStart, input.KindTouchMove, input.KindTouchEnd:
		if len(f.Touches) == 0 {
			return input.Event{}, fmt.Errorf("%s frame without touches", f.Type)
		}
		ev.Touches = make([]input.Touch, len(f.Touches))
		for i, t := range f.Touches {
			ev.Touches[i] = input.Touch{ID: t.ID, Pos: math3d.V2(t.X, t.Y)}
		}
	default:
		ev.Pos = math3d.V2(f.X, f.Y)
	}
	return ev, nil
}

// FrameFor is the inverse of Frame.Event, used by clients and tests.
func FrameFor(ev input.Event) Frame {
	f := Frame{Type: ev.Kind.String()}
	switch ev.Kind {
	case input.KindWheel:
		f.DeltaY = ev.DeltaY
	case input.KindTouchStart, input.KindTouchMove, input.KindTouchEnd:
		f.Touches = make([]TouchFrame, len(ev.Touches))
		for i, t := range ev.Touches {
			f.Touches[i] = TouchFrame{ID: t.ID, X: t.Pos.X, Y: t.Pos.Y}
		}
	default:
		f.X, f.Y = ev.Pos.X, ev.Pos.Y
	}
	return f
}
