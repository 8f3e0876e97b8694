package input

import "github.com/taigrr/globe/pkg/math3d"

// Listener consumes input events. Surfaces call listeners from the goroutine
// that owns the render loop only.
type Listener interface {
	OnPressStart(pos math3d.Vec2)
	OnPressMove(pos math3d.Vec2)
	OnPressEnd(pos math3d.Vec2)
	OnWheel(deltaY float64)
	OnTouchStart(touches []Touch)
	OnTouchMove(touches []Touch)
	OnTouchEnd(touches []Touch)
}

// Hub keeps the listeners registered on a surface and fans events out to
// them. The zero value is ready to use. Hub is not safe for concurrent use.
type Hub struct {
	listeners []Listener
}

// Add registers l. Adding the same listener twice registers it twice.
func (h *Hub) Add(l Listener) {
	h.listeners = append(h.listeners, l)
}

// Remove unregisters the first registration of l. Unknown listeners are ignored.
func (h *Hub) Remove(l Listener) {
	for i, cur := range h.listeners {
		if cur == l {
			h.listeners = append(h.listeners[:i], h.listeners[i+1:]...)
			return
		}
	}
}

// Len returns the number of registrations.
func (h *Hub) Len() int {
	return len(h.listeners)
}

// Dispatch delivers ev to every registered listener in registration order.
func (h *Hub) Dispatch(ev Event) {
	for _, l := range h.listeners {
		Deliver(l, ev)
	}
}

// Deliver calls the Listener method matching ev.Kind. Unknown kinds are dropped.
func Deliver(l Listener, ev Event) {
	switch ev.Kind {
	case KindPressStart:
		l.OnPressStart(ev.Pos)
	case KindPressMove:
		l.OnPressMove(ev.Pos)
	case KindPressEnd:
		l.OnPressEnd(ev.Pos)
	case KindWheel:
		l.OnWheel(ev.DeltaY)
	case KindTouchStart:
		l.OnTouchStart(ev.Touches)
	case KindTouchMove:
		l.OnTouchMove(ev.Touches)
	case KindTouchEnd:
		l.OnTouchEnd(ev.Touches)
	}
}
