package scene

import (
	"math"

	"github.com/charmbracelet/harmonica"
	"github.com/taigrr/globe/pkg/config"
	"github.com/taigrr/globe/pkg/math3d"
	"github.com/taigrr/globe/pkg/render"
)

// Definition describes a marker to place.
type Definition struct {
	Name    string
	Lat     float64 // degrees, north positive
	Lon     float64 // degrees, east positive
	Color   render.Color
	Size    float64 // radius in globe units
	Opacity float64
}

// WorldCities returns a handful of well known cities.
func WorldCities() []Definition {
	return []Definition{
		{Name: "Paris", Lat: 48.8566, Lon: 2.3522, Color: render.RGB(0x00, 0x66, 0xcc), Size: 0.08, Opacity: 0.9},
		{Name: "New York", Lat: 40.7128, Lon: -74.0060, Color: render.RGB(0x00, 0xcc, 0x66), Size: 0.08, Opacity: 0.9},
		{Name: "Tokyo", Lat: 35.6762, Lon: 139.6503, Color: render.RGB(0xcc, 0x66, 0x00), Size: 0.08, Opacity: 0.9},
		{Name: "Sydney", Lat: -33.8688, Lon: 151.2093, Color: render.RGB(0xcc, 0x00, 0x66), Size: 0.08, Opacity: 0.9},
		{Name: "London", Lat: 51.5074, Lon: -0.1278, Color: render.RGB(0x66, 0x00, 0xcc), Size: 0.08, Opacity: 0.9},
	}
}

// GeoToCartesian converts latitude and longitude in degrees to a point on a
// sphere of the given radius, in the globe's object space. Longitude -180
// lies on the -X axis and the north pole on +Y.
func GeoToCartesian(lat, lon, radius float64) math3d.Vec3 {
	phi := (90 - lat) * math.Pi / 180
	theta := (lon + 180) * math.Pi / 180
	return math3d.V3(
		-radius*math.Sin(phi)*math.Cos(theta),
		radius*math.Cos(phi),
		radius*math.Sin(phi)*math.Sin(theta),
	)
}

// Marker is a placed, pulsing point of interest.
type Marker struct {
	Definition
	Position math3d.Vec3

	pulse    float64
	velocity float64
	target   float64
}

// Pulse returns the current size multiplier.
func (m *Marker) Pulse() float64 { return m.pulse }

// Markers is the set of markers on a globe. Each marker's size swings
// between the configured pulse bounds on a critically damped spring whose
// target flips at each end.
type Markers struct {
	cfg    config.Markers
	radius float64
	spring harmonica.Spring
	list   []*Marker
}

// flipRemaining is the fraction of the pulse span left when the target flips.
const flipRemaining = 0.05

// NewMarkers creates an empty set for a globe of the given radius, animated
// at fps frames per second.
func NewMarkers(cfg config.Markers, globeRadius float64, fps int) *Markers {
	// A critically damped spring covers 95% of a step in about 4.74/omega.
	omega := 2 * 4.74 / max(cfg.PulsePeriod.Seconds(), 0.1)
	return &Markers{
		cfg:    cfg,
		radius: globeRadius,
		spring: harmonica.NewSpring(harmonica.FPS(fps), omega, 1),
	}
}

// Add places a marker and returns it.
func (ms *Markers) Add(def Definition) *Marker {
	if def.Size <= 0 {
		def.Size = ms.cfg.DefaultRadius
	}
	if def.Opacity <= 0 || def.Opacity > 1 {
		def.Opacity = 1
	}
	m := &Marker{
		Definition: def,
		Position:   GeoToCartesian(def.Lat, def.Lon, ms.radius+ms.cfg.Elevation),
		pulse:      1,
		target:     ms.cfg.MaxPulse,
	}
	ms.list = append(ms.list, m)
	return m
}

// AddAll places every definition.
func (ms *Markers) AddAll(defs []Definition) {
	for _, d := range defs {
		ms.Add(d)
	}
}

// Remove deletes m and reports whether it was present.
func (ms *Markers) Remove(m *Marker) bool {
	for i, cur := range ms.list {
		if cur == m {
			ms.list = append(ms.list[:i], ms.list[i+1:]...)
			return true
		}
	}
	return false
}

// Clear removes every marker.
func (ms *Markers) Clear() {
	ms.list = nil
}

func (ms *Markers) Len() int { return len(ms.list) }

// All returns the markers in insertion order.
func (ms *Markers) All() []*Marker { return ms.list }

// Update advances every pulse by one frame.
func (ms *Markers) Update() {
	lo, hi := ms.cfg.MinPulse, ms.cfg.MaxPulse
	threshold := (hi - lo) * flipRemaining
	for _, m := range ms.list {
		m.pulse, m.velocity = ms.spring.Update(m.pulse, m.velocity, m.target)
		if math.Abs(m.target-m.pulse) < threshold {
			if m.target == hi {
				m.target = lo
			} else {
				m.target = hi
			}
		}
	}
}

// Render returns the markers as the renderer draws them.
func (ms *Markers) Render() []render.Marker {
	out := make([]render.Marker, len(ms.list))
	for i, m := range ms.list {
		pulse := math3d.Clamp(m.pulse, ms.cfg.MinPulse, ms.cfg.MaxPulse)
		out[i] = render.Marker{
			Position: m.Position,
			Radius:   m.Size * pulse,
			Color:    m.Color,
			Opacity:  m.Opacity,
		}
	}
	return out
}
