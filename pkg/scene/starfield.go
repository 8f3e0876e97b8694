package scene

import (
	"math/rand/v2"

	"github.com/taigrr/globe/pkg/config"
	"github.com/taigrr/globe/pkg/math3d"
)

// Starfield is a cube of random points slowly turning around the Y axis.
type Starfield struct {
	stars  []math3d.Vec3
	spread float64
	speed  float64
	yaw    float64
}

// NewStarfield scatters cfg.Count stars. The same seed gives the same sky.
func NewStarfield(cfg config.Stars) *Starfield {
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	stars := make([]math3d.Vec3, max(cfg.Count, 0))
	for i := range stars {
		stars[i] = math3d.V3(
			(rng.Float64()-0.5)*cfg.Spread,
			(rng.Float64()-0.5)*cfg.Spread,
			(rng.Float64()-0.5)*cfg.Spread,
		)
	}
	return &Starfield{stars: stars, spread: cfg.Spread, speed: cfg.RotationSpeed}
}

// Tick turns the field by one frame.
func (s *Starfield) Tick() {
	s.Advance(1)
}

// Advance turns the field by a fractional number of frames.
func (s *Starfield) Advance(frames float64) {
	s.yaw += s.speed * frames
}

func (s *Starfield) Stars() []math3d.Vec3 { return s.stars }

func (s *Starfield) Spread() float64 { return s.spread }

func (s *Starfield) Yaw() float64 { return s.yaw }

// Rotation returns the current rotation of the field.
func (s *Starfield) Rotation() math3d.Mat3 {
	return math3d.RotateY(s.yaw)
}
