// Package term is the terminal front end of the viewer: it turns terminal
// mouse and focus events into viewport input, paints the framebuffer with
// half-block cells and draws the HUD overlay.
package term

import (
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/charmbracelet/x/ansi"
	"github.com/taigrr/globe/pkg/config"
	"github.com/taigrr/globe/pkg/input"
	"github.com/taigrr/globe/pkg/interaction"
	"github.com/taigrr/globe/pkg/math3d"
)

// wheelNotch is the DeltaY reported for one wheel click, matching a
// browser's pixel delta.
const wheelNotch = 100

// Terminal modes enabled while the surface runs: button and any-motion
// mouse tracking with SGR coordinates, plus focus reporting so a drag ends
// when the window loses focus.
var (
	enableModes  = ansi.SetModeMouseButtonEvent + ansi.SetModeMouseAnyEvent + ansi.SetModeMouseExtSgr + ansi.SetModeFocusEvent
	disableModes = ansi.ResetModeFocusEvent + ansi.ResetModeMouseExtSgr + ansi.ResetModeMouseAnyEvent + ansi.ResetModeMouseButtonEvent
)

// Surface is the terminal input surface. Terminal events are translated
// into input events, queued, and delivered to listeners on Flush, so
// listeners always run on the render loop.
type Surface struct {
	input.Hub

	cellW, cellH float64
	started      bool
	pressed      bool
	last         math3d.Vec2
	queue        []input.Event
}

var _ interaction.Surface = (*Surface)(nil)

// NewSurface creates a stopped surface. Cell coordinates are scaled by the
// configured cell size so drag distances are comparable to pixels.
func NewSurface(ui config.UI) *Surface {
	return &Surface{cellW: ui.CellWidth, cellH: ui.CellHeight}
}

// Start marks the surface available and returns the escape sequence that
// turns on mouse and focus reporting.
func (s *Surface) Start() string {
	s.started = true
	return enableModes
}

// Stop marks the surface unavailable, drops pending input and returns the
// sequence restoring the terminal modes.
func (s *Surface) Stop() string {
	s.started = false
	s.pressed = false
	s.queue = nil
	return disableModes
}

func (s *Surface) Started() bool { return s.started }

// AddListener registers l. It fails with interaction.ErrSurfaceUnavailable
// before Start.
func (s *Surface) AddListener(l input.Listener) error {
	if !s.started {
		return interaction.ErrSurfaceUnavailable
	}
	s.Add(l)
	return nil
}

func (s *Surface) RemoveListener(l input.Listener) { s.Remove(l) }

// Translate queues the input events for ev and reports whether ev was a
// pointer or focus event.
func (s *Surface) Translate(ev uv.Event) bool {
	switch ev := ev.(type) {
	case uv.MouseClickEvent:
		if ev.Button != uv.MouseLeft {
			return true
		}
		s.pressed = true
		s.push(input.Event{Kind: input.KindPressStart, Pos: s.pos(ev.X, ev.Y)})
	case uv.MouseMotionEvent:
		s.last = s.pos(ev.X, ev.Y)
		if s.pressed {
			s.push(input.Event{Kind: input.KindPressMove, Pos: s.last})
		}
	case uv.MouseReleaseEvent:
		if s.pressed {
			s.pressed = false
			s.push(input.Event{Kind: input.KindPressEnd, Pos: s.pos(ev.X, ev.Y)})
		}
	case uv.MouseWheelEvent:
		switch ev.Button {
		case uv.MouseWheelUp:
			s.push(input.Event{Kind: input.KindWheel, DeltaY: -wheelNotch})
		case uv.MouseWheelDown:
			s.push(input.Event{Kind: input.KindWheel, DeltaY: wheelNotch})
		}
	case uv.BlurEvent:
		if s.pressed {
			s.pressed = false
			s.push(input.Event{Kind: input.KindPressEnd, Pos: s.last})
		}
	case uv.FocusEvent:
	default:
		return false
	}
	return true
}

// Pending returns the number of queued events.
func (s *Surface) Pending() int { return len(s.queue) }

// Flush delivers the queued events in arrival order.
func (s *Surface) Flush() {
	queue := s.queue
	s.queue = nil
	for _, ev := range queue {
		s.Dispatch(ev)
	}
}

func (s *Surface) push(ev input.Event) {
	if !s.started {
		return
	}
	s.queue = append(s.queue, ev)
}

func (s *Surface) pos(x, y int) math3d.Vec2 {
	p := math3d.V2(float64(x)*s.cellW, float64(y)*s.cellH)
	s.last = p
	return p
}
