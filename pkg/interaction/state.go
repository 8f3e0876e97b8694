package interaction

import (
	"github.com/taigrr/globe/pkg/math3d"
)

// Velocity is an angular velocity in radians per tick.
type Velocity struct {
	Pitch, Yaw float64
}

// Orientation is the applied rotation of the target, in radians.
type Orientation struct {
	Pitch, Yaw float64
}

// State is a snapshot of the controller's interaction state.
type State struct {
	Dragging    bool
	CursorPrev  math3d.Vec2 // valid only while Dragging
	PressOrigin math3d.Vec2 // valid only while Dragging
	Velocity    Velocity

	// Significant is the last velocity sample of the current drag whose
	// input delta exceeded the significance threshold; nil when none was seen.
	Significant *Velocity

	AutoRotate  bool
	Scale       float64
	Orientation Orientation

	// TouchID is the tracked touch contact; nil when no touch drag is active.
	TouchID *int
}

// Mode is a tagged view of what the next Tick will do.
type Mode int

const (
	ModeIdle Mode = iota
	ModeAutoRotate
	ModeInertial
	ModeAutoRotateInertial
	ModeDragging
)

func (m Mode) String() string {
	switch m {
	case ModeAutoRotate:
		return "auto-rotate"
	case ModeInertial:
		return "inertia"
	case ModeAutoRotateInertial:
		return "auto-rotate+inertia"
	case ModeDragging:
		return "dragging"
	default:
		return "idle"
	}
}
