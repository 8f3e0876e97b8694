package interaction

import (
	"errors"

	"github.com/taigrr/globe/pkg/input"
)

var (
	// ErrTargetUnavailable means no render target is bound yet, or the bound
	// one is still loading. Operations are no-ops until it becomes ready.
	ErrTargetUnavailable = errors.New("render target unavailable")
	// ErrSurfaceUnavailable means the input surface cannot accept listeners
	// yet. Attach may be retried once the surface exists.
	ErrSurfaceUnavailable = errors.New("input surface unavailable")
	// ErrAlreadyAttached is returned by Attach on an attached controller.
	ErrAlreadyAttached = errors.New("controller already attached")
	// ErrNotAttached is returned by AddSurface before Attach.
	ErrNotAttached = errors.New("controller not attached")
)

// Target is the render target handle the controller drives. The controller
// never creates or disposes of it.
type Target interface {
	Orientation() (pitch, yaw float64)
	SetOrientation(pitch, yaw float64)
	Scale() float64
	SetScale(s float64)
}

// Readiness is implemented by targets that become usable asynchronously,
// e.g. while their texture loads.
type Readiness interface {
	Ready() bool
}

// Surface is an input source listeners can be added to and removed from.
type Surface interface {
	AddListener(l input.Listener) error
	RemoveListener(l input.Listener)
}

// DisplaySink receives the zoom readout after every zoom change.
type DisplaySink interface {
	SetZoomPercentage(percent int)
}
