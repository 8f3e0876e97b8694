package interaction

import (
	"github.com/taigrr/globe/pkg/input"
)

// Touch input mirrors the pointer handlers for a single contact: the first
// contact of a gesture is tracked by ID and every other contact is ignored.

// OnTouchStart starts a drag with the first contact unless one is tracked.
func (c *Controller) OnTouchStart(touches []input.Touch) {
	if c.touchActive || c.dragging || len(touches) == 0 || !c.ready() {
		return
	}
	first := touches[0]
	c.touchActive = true
	c.touchID = first.ID
	c.beginDrag(first.Pos)
}

// OnTouchMove follows the tracked contact.
func (c *Controller) OnTouchMove(touches []input.Touch) {
	if !c.touchActive {
		return
	}
	if t, ok := findTouch(touches, c.touchID); ok {
		c.moveDrag(t.Pos)
	}
}

// OnTouchEnd releases the drag when the tracked contact is lifted.
func (c *Controller) OnTouchEnd(lifted []input.Touch) {
	if !c.touchActive {
		return
	}
	if t, ok := findTouch(lifted, c.touchID); ok {
		c.touchActive = false
		c.endDrag(t.Pos)
	}
}

func findTouch(touches []input.Touch, id int) (input.Touch, bool) {
	for _, t := range touches {
		if t.ID == id {
			return t, true
		}
	}
	return input.Touch{}, false
}
