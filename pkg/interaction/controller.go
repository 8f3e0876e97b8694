// Package interaction implements the globe interaction controller: it turns
// pointer, touch and wheel input into the orientation and scale of a render
// target, with momentum after release, optional auto-rotation and clamped
// zoom.
//
// A Controller is not safe for concurrent use. Input handlers and Tick must
// run on the same goroutine, normally the render loop.
package interaction

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"time"

	"fortio.org/log"
	"github.com/taigrr/globe/pkg/config"
	"github.com/taigrr/globe/pkg/input"
	"github.com/taigrr/globe/pkg/math3d"
)

const maxPitch = math.Pi / 2

// Controller owns the interaction state for one target.
type Controller struct {
	cfg config.Controls

	dragging    bool
	cursorPrev  math3d.Vec2
	pressOrigin math3d.Vec2
	velocity    Velocity
	significant Velocity
	hasSignif   bool
	autoRotate  bool
	scale       float64
	orient      Orientation

	touchActive bool
	touchID     int

	target  Target
	surface Surface
	extra   []Surface
	sink    DisplaySink

	unavailableLogged bool
}

var _ input.Listener = (*Controller)(nil)

// New creates a detached controller at the identity pose and scale 1.
func New(cfg config.Controls) *Controller {
	return &Controller{
		cfg:        cfg,
		autoRotate: cfg.AutoRotate,
		scale:      math3d.Clamp(1, cfg.MinScale, cfg.MaxScale),
	}
}

// Attach registers the controller on surface and binds target and the
// optional sink. The controller adopts the target's current pose, clamped.
// A surface that cannot take listeners yields ErrSurfaceUnavailable and
// leaves the controller detached, so Attach can be retried.
func (c *Controller) Attach(target Target, surface Surface, sink DisplaySink) error {
	if c.surface != nil {
		return ErrAlreadyAttached
	}
	if err := c.listen(surface); err != nil {
		return err
	}
	c.surface = surface
	c.target = target
	c.sink = sink
	c.unavailableLogged = false
	if target != nil {
		pitch, yaw := target.Orientation()
		c.orient = Orientation{Pitch: math3d.Clamp(pitch, -maxPitch, maxPitch), Yaw: yaw}
		c.scale = math3d.Clamp(target.Scale(), c.cfg.MinScale, c.cfg.MaxScale)
		c.apply()
	}
	c.notifyZoom()
	log.LogVf("interaction: attached (auto-rotate=%v, scale=%.2f)", c.autoRotate, c.scale)
	return nil
}

// AddSurface registers an attached controller on one more input source,
// such as the browser relay. Detach unregisters it along with the primary
// surface.
func (c *Controller) AddSurface(surface Surface) error {
	if c.surface == nil {
		return ErrNotAttached
	}
	if surface == c.surface || slices.Contains(c.extra, surface) {
		return nil
	}
	if err := c.listen(surface); err != nil {
		return err
	}
	c.extra = append(c.extra, surface)
	log.LogVf("interaction: added surface %T", surface)
	return nil
}

func (c *Controller) listen(surface Surface) error {
	if surface == nil {
		log.Warnf("interaction: attach: %v", ErrSurfaceUnavailable)
		return ErrSurfaceUnavailable
	}
	if err := surface.AddListener(c); err != nil {
		log.Warnf("interaction: attach: %v", err)
		if errors.Is(err, ErrSurfaceUnavailable) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrSurfaceUnavailable, err)
	}
	return nil
}

// Detach removes the controller from its surfaces and unbinds target and
// sink. An in-progress drag is abandoned; momentum and pose are kept.
// Detach on a detached controller is a no-op.
func (c *Controller) Detach() {
	if c.surface == nil {
		return
	}
	for _, s := range c.extra {
		s.RemoveListener(c)
	}
	c.surface.RemoveListener(c)
	c.surface = nil
	c.extra = nil
	c.target = nil
	c.sink = nil
	c.dragging = false
	c.touchActive = false
	log.LogVf("interaction: detached")
}

// Attached reports whether the controller is registered on a surface.
func (c *Controller) Attached() bool {
	return c.surface != nil
}

// ready reports whether a usable target is bound, logging the first miss of
// each unavailability episode.
func (c *Controller) ready() bool {
	ok := c.target != nil
	if ok {
		if r, isLoader := c.target.(Readiness); isLoader {
			ok = r.Ready()
		}
	}
	if ok {
		c.unavailableLogged = false
		return true
	}
	if !c.unavailableLogged {
		log.Warnf("interaction: %v, ignoring input", ErrTargetUnavailable)
		c.unavailableLogged = true
	}
	return false
}

// OnPressStart begins a drag. Momentum is cleared and auto-rotation is
// switched off; it stays off until ToggleAutoRotate. Pointer events are
// ignored while a touch contact owns the drag.
func (c *Controller) OnPressStart(pos math3d.Vec2) {
	if c.touchActive {
		return
	}
	c.beginDrag(pos)
}

// OnPressMove rotates the target by the pointer delta and samples momentum.
func (c *Controller) OnPressMove(pos math3d.Vec2) {
	if c.touchActive {
		return
	}
	c.moveDrag(pos)
}

// OnPressEnd ends a drag and picks the release momentum. Pointers usually
// slow down just before release, so the last significant sample wins over
// the final one; short slow gestures get a minimal push in their direction.
func (c *Controller) OnPressEnd(pos math3d.Vec2) {
	if c.touchActive {
		return
	}
	c.endDrag(pos)
}

func (c *Controller) beginDrag(pos math3d.Vec2) {
	if !c.ready() {
		return
	}
	c.dragging = true
	c.cursorPrev = pos
	c.pressOrigin = pos
	c.velocity = Velocity{}
	c.hasSignif = false
	if c.autoRotate {
		c.autoRotate = false
		log.Debugf("interaction: drag suspended auto-rotation")
	}
}

func (c *Controller) moveDrag(pos math3d.Vec2) {
	if !c.dragging || !c.ready() {
		return
	}
	delta := pos.Sub(c.cursorPrev)
	c.orient.Yaw += delta.X * c.cfg.RotateGain
	c.orient.Pitch = math3d.Clamp(c.orient.Pitch+delta.Y*c.cfg.RotateGain, -maxPitch, maxPitch)
	c.apply()

	c.velocity = Velocity{Pitch: delta.Y * c.cfg.VelocityGain, Yaw: delta.X * c.cfg.VelocityGain}
	if delta.MaxAbs() > c.cfg.SignificanceThreshold {
		c.significant = c.velocity
		c.hasSignif = true
	}
	c.cursorPrev = pos
}

func (c *Controller) endDrag(pos math3d.Vec2) {
	if !c.dragging {
		return
	}
	switch dir := c.releaseDirection(pos); {
	case c.hasSignif:
		c.velocity = c.significant
	case !dir.IsZero():
		c.velocity = Velocity{Pitch: dir.Y * c.cfg.MinimalInertia, Yaw: dir.X * c.cfg.MinimalInertia}
		log.Debugf("interaction: minimal inertia %+v", c.velocity)
	default:
		c.velocity = Velocity{}
	}
	c.dragging = false
	c.hasSignif = false
	c.touchActive = false
}

func (c *Controller) releaseDirection(pos math3d.Vec2) math3d.Vec2 {
	if dir := pos.Sub(c.cursorPrev).Sign(); !dir.IsZero() {
		return dir
	}
	return pos.Sub(c.pressOrigin).Sign()
}

// OnWheel zooms one step per event: negative deltaY (scroll up) zooms in.
func (c *Controller) OnWheel(deltaY float64) {
	if !c.ready() {
		return
	}
	direction := math3d.Sign(-deltaY)
	if direction == 0 {
		return
	}
	c.scale = math3d.Clamp(c.scale*(1+direction*c.cfg.ZoomStep), c.cfg.MinScale, c.cfg.MaxScale)
	c.target.SetScale(c.scale)
	c.notifyZoom()
}

// Tick advances one render frame: auto-rotation and decaying momentum both
// add to the pose. Nothing happens while dragging.
func (c *Controller) Tick() {
	c.advance(1)
}

// TickFor advances by elapsed time measured against the reference frame
// rate, so rotation speed and damping do not depend on the render rate.
func (c *Controller) TickFor(elapsed time.Duration) {
	frames := elapsed.Seconds() * float64(c.cfg.ReferenceFPS)
	if frames <= 0 {
		return
	}
	c.advance(frames)
}

func (c *Controller) advance(frames float64) {
	if !c.ready() || c.dragging {
		return
	}
	changed := false
	if c.autoRotate {
		c.orient.Yaw += c.cfg.AutoRotateSpeed * frames
		changed = true
	}
	floor := c.cfg.VelocityFloor
	if v := c.velocity; math.Abs(v.Pitch) > floor || math.Abs(v.Yaw) > floor {
		// Over f frames the velocity decays geometrically, so the pose moves by
		// v*(1-d^f)/(1-d), the same sum f single ticks would produce.
		damping, span := c.cfg.Damping, 1.0
		if frames != 1 {
			decay := math.Pow(damping, frames)
			span = (1 - decay) / (1 - damping)
			damping = decay
		}
		c.orient.Pitch = math3d.Clamp(c.orient.Pitch+v.Pitch*span, -maxPitch, maxPitch)
		c.orient.Yaw += v.Yaw * span

		v.Pitch = snap(v.Pitch*damping, floor)
		v.Yaw = snap(v.Yaw*damping, floor)
		c.velocity = v
		changed = true
	} else {
		// Sub-floor leftovers from tiny drags would otherwise linger forever.
		c.velocity = Velocity{}
	}
	if changed {
		c.apply()
	}
}

func snap(v, floor float64) float64 {
	if math.Abs(v) < floor {
		return 0
	}
	return v
}

// ToggleAutoRotate flips auto-rotation and returns the new setting.
func (c *Controller) ToggleAutoRotate() bool {
	c.autoRotate = !c.autoRotate
	log.Infof("interaction: auto-rotation %v", c.autoRotate)
	return c.autoRotate
}

// ResetOrientation returns to the identity pose and drops any momentum.
func (c *Controller) ResetOrientation() {
	c.orient = Orientation{}
	c.velocity = Velocity{}
	if c.target != nil {
		c.apply()
	}
}

// ResetScale returns the zoom to 1.
func (c *Controller) ResetScale() {
	c.scale = 1
	if c.target != nil {
		c.target.SetScale(c.scale)
	}
	c.notifyZoom()
}

// Orientation returns the current pose.
func (c *Controller) Orientation() Orientation {
	return c.orient
}

// Scale returns the current zoom scale.
func (c *Controller) Scale() float64 {
	return c.scale
}

// State returns a snapshot of the interaction state.
func (c *Controller) State() State {
	s := State{
		Dragging:    c.dragging,
		CursorPrev:  c.cursorPrev,
		PressOrigin: c.pressOrigin,
		Velocity:    c.velocity,
		AutoRotate:  c.autoRotate,
		Scale:       c.scale,
		Orientation: c.orient,
	}
	if c.hasSignif {
		v := c.significant
		s.Significant = &v
	}
	if c.touchActive {
		id := c.touchID
		s.TouchID = &id
	}
	return s
}

// Mode reports what the next Tick will do.
func (c *Controller) Mode() Mode {
	inertial := c.velocity.Pitch != 0 || c.velocity.Yaw != 0
	switch {
	case c.dragging:
		return ModeDragging
	case c.autoRotate && inertial:
		return ModeAutoRotateInertial
	case inertial:
		return ModeInertial
	case c.autoRotate:
		return ModeAutoRotate
	default:
		return ModeIdle
	}
}

func (c *Controller) apply() {
	c.target.SetOrientation(c.orient.Pitch, c.orient.Yaw)
	c.target.SetScale(c.scale)
}

func (c *Controller) notifyZoom() {
	if c.sink != nil {
		c.sink.SetZoomPercentage(int(math.Round(c.scale * 100)))
	}
}
