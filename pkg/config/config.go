// Package config holds the viewer configuration: typed defaults, validation
// and the binding of every tunable to command line flags.
package config

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/charmbracelet/harmonica"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/taigrr/globe/pkg/math3d"
)

// Config is the full viewer configuration.
type Config struct {
	FPS              int    // Terminal frame rate
	FrameIndependent bool   // Scale controller ticks by elapsed time instead of per frame
	LogLevel         string // fortio log level name

	Globe    Globe
	Camera   Camera
	Controls Controls
	Lighting Lighting
	Stars    Stars
	Markers  Markers
	UI       UI
	Relay    Relay
}

// Globe describes the rendered sphere.
type Globe struct {
	Radius        float64
	TexturePath   string  // PNG/JPEG image or glTF/GLB file; empty uses the fallback colour
	FallbackColor string  // Hex colour used when no texture is available
	BaseYaw       float64 // Constant yaw added at render time so the map faces the camera
}

// Camera is a perspective camera on the +Z axis looking at the origin.
type Camera struct {
	FOV      float64 // Vertical field of view in degrees
	Distance float64
}

// Controls tunes the interaction controller. Rates are per tick at
// ReferenceFPS.
type Controls struct {
	RotateGain            float64 // radians of direct rotation per input unit
	VelocityGain          float64 // radians of momentum per input unit
	SignificanceThreshold float64 // input units a move must exceed to seed inertia
	MinimalInertia        float64 // radians per tick for short, slow gestures
	Damping               float64 // per-tick velocity multiplier, in (0, 1)
	VelocityFloor         float64 // velocities below this snap to zero
	AutoRotate            bool
	AutoRotateSpeed       float64 // radians of yaw per tick
	ZoomStep              float64 // fractional scale change per wheel notch
	MinScale              float64
	MaxScale              float64
	ReferenceFPS          int // frame rate the per-tick rates were tuned for
}

// Lighting is an ambient term plus one directional light.
type Lighting struct {
	Ambient     float64
	Directional float64
	Direction   math3d.Vec3 // Position of the directional light; it shines toward the origin
}

// Stars configures the backdrop.
type Stars struct {
	Count         int
	Spread        float64 // Edge length of the cube stars are scattered in
	RotationSpeed float64 // radians of yaw per tick
	Seed          uint64
}

// Markers configures points of interest.
type Markers struct {
	Path          string // JSON catalog; empty uses the built-in world cities
	Elevation     float64
	MinPulse      float64
	MaxPulse      float64
	PulsePeriod   time.Duration
	DefaultColor  string
	DefaultRadius float64
}

// UI configures terminal presentation.
type UI struct {
	Background           string // Hex background colour behind the stars
	NotificationDuration time.Duration
	ZoomFlash            time.Duration
	CellWidth            float64 // input units per terminal column
	CellHeight           float64 // input units per terminal row
	ShowHUD              bool
	SnapshotPath         string // PNG written by the snapshot key
}

// Relay configures the websocket input relay.
type Relay struct {
	Addr string // Listen address; empty disables the relay
	Path string
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		FPS:      30,
		LogLevel: "warning",
		Globe: Globe{
			Radius:        5,
			FallbackColor: "#2194ce",
			BaseYaw:       math.Pi,
		},
		Camera: Camera{
			FOV:      75,
			Distance: 15,
		},
		Controls: Controls{
			RotateGain:            0.0025,
			VelocityGain:          0.0005,
			SignificanceThreshold: 3,
			MinimalInertia:        0.002,
			Damping:               0.85,
			VelocityFloor:         1e-4,
			AutoRotate:            true,
			AutoRotateSpeed:       0.001,
			ZoomStep:              0.1,
			MinScale:              0.5,
			MaxScale:              2.0,
			ReferenceFPS:          60,
		},
		Lighting: Lighting{
			Ambient:     0.8,
			Directional: 0.3,
			Direction:   math3d.V3(5, 5, 5),
		},
		Stars: Stars{
			Count:         10000,
			Spread:        2000,
			RotationSpeed: 0.0001,
			Seed:          1,
		},
		Markers: Markers{
			Elevation:     0.1,
			MinPulse:      0.8,
			MaxPulse:      1.5,
			PulsePeriod:   2 * time.Second,
			DefaultColor:  "#ff0000",
			DefaultRadius: 0.08,
		},
		UI: UI{
			Background:           "#000008",
			NotificationDuration: 3 * time.Second,
			ZoomFlash:            500 * time.Millisecond,
			CellWidth:            8,
			CellHeight:           16,
			ShowHUD:              true,
			SnapshotPath:         "globe.png",
		},
		Relay: Relay{
			Path: "/input",
		},
	}
}

// FrameDelta returns the duration of one terminal frame in seconds.
func (c Config) FrameDelta() float64 {
	return harmonica.FPS(c.FPS)
}

// FrameInterval returns the duration of one terminal frame.
func (c Config) FrameInterval() time.Duration {
	return time.Duration(c.FrameDelta() * float64(time.Second))
}

// Validate reports every inconsistent setting at once.
func (c Config) Validate() error {
	var errs []error
	if c.FPS <= 0 {
		errs = append(errs, fmt.Errorf("fps must be positive, got %d", c.FPS))
	}
	if c.Globe.Radius <= 0 {
		errs = append(errs, fmt.Errorf("globe radius must be positive, got %g", c.Globe.Radius))
	}
	if c.Camera.FOV <= 0 || c.Camera.FOV >= 180 {
		errs = append(errs, fmt.Errorf("camera fov must be in (0, 180), got %g", c.Camera.FOV))
	}
	if c.Camera.Distance <= c.Globe.Radius*c.Controls.MaxScale {
		errs = append(errs, fmt.Errorf("camera distance %g is inside the fully zoomed globe", c.Camera.Distance))
	}
	errs = append(errs, c.Controls.validate()...)
	if c.Stars.Count < 0 {
		errs = append(errs, fmt.Errorf("star count must not be negative, got %d", c.Stars.Count))
	}
	if c.Markers.MinPulse <= 0 || c.Markers.MinPulse > c.Markers.MaxPulse {
		errs = append(errs, fmt.Errorf("marker pulse range [%g, %g] is invalid", c.Markers.MinPulse, c.Markers.MaxPulse))
	}
	if c.UI.CellWidth <= 0 || c.UI.CellHeight <= 0 {
		errs = append(errs, errors.New("cell size must be positive"))
	}
	for name, hex := range map[string]string{
		"globe fallback color": c.Globe.FallbackColor,
		"marker default color": c.Markers.DefaultColor,
		"background color":     c.UI.Background,
	} {
		if _, err := colorful.Hex(hex); err != nil {
			errs = append(errs, fmt.Errorf("%s %q: %w", name, hex, err))
		}
	}
	return errors.Join(errs...)
}

func (c Controls) validate() []error {
	var errs []error
	if c.Damping <= 0 || c.Damping >= 1 {
		errs = append(errs, fmt.Errorf("damping must be in (0, 1), got %g", c.Damping))
	}
	if c.MinScale <= 0 || c.MinScale > c.MaxScale {
		errs = append(errs, fmt.Errorf("zoom range [%g, %g] is invalid", c.MinScale, c.MaxScale))
	}
	if c.MinScale > 1 || c.MaxScale < 1 {
		errs = append(errs, fmt.Errorf("zoom range [%g, %g] must contain 1", c.MinScale, c.MaxScale))
	}
	if c.VelocityFloor <= 0 {
		errs = append(errs, fmt.Errorf("velocity floor must be positive, got %g", c.VelocityFloor))
	}
	if c.ZoomStep <= 0 || c.ZoomStep >= 1 {
		errs = append(errs, fmt.Errorf("zoom step must be in (0, 1), got %g", c.ZoomStep))
	}
	if c.ReferenceFPS <= 0 {
		errs = append(errs, fmt.Errorf("reference fps must be positive, got %d", c.ReferenceFPS))
	}
	return errs
}
