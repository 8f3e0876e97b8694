// Package scene holds the objects of the globe scene: the globe itself,
// which the interaction controller drives, the starfield behind it and the
// markers on its surface.
package scene

import (
	"fmt"

	"fortio.org/log"
	"github.com/taigrr/globe/pkg/config"
	"github.com/taigrr/globe/pkg/interaction"
	"github.com/taigrr/globe/pkg/math3d"
	"github.com/taigrr/globe/pkg/render"
)

// Globe is the render target handle for the sphere. Until its texture load
// finishes it reports not ready.
type Globe struct {
	radius  float64
	baseYaw float64

	pitch, yaw float64
	scale      float64

	texture  *render.Texture
	fallback render.Color
	loading  bool
}

var (
	_ interaction.Target    = (*Globe)(nil)
	_ interaction.Readiness = (*Globe)(nil)
)

// NewGlobe creates a globe at the identity pose. It starts loading when
// cfg names a texture; otherwise it is ready and plain coloured.
func NewGlobe(cfg config.Globe) (*Globe, error) {
	fallback, err := render.ParseHex(cfg.FallbackColor)
	if err != nil {
		return nil, fmt.Errorf("globe fallback colour: %w", err)
	}
	return &Globe{
		radius:   cfg.Radius,
		baseYaw:  cfg.BaseYaw,
		scale:    1,
		fallback: fallback,
		loading:  cfg.TexturePath != "",
	}, nil
}

func (g *Globe) Orientation() (pitch, yaw float64) { return g.pitch, g.yaw }

func (g *Globe) SetOrientation(pitch, yaw float64) {
	g.pitch, g.yaw = pitch, yaw
}

func (g *Globe) Scale() float64 { return g.scale }

func (g *Globe) SetScale(s float64) { g.scale = s }

// Ready reports whether the texture load has completed, successfully or not.
func (g *Globe) Ready() bool { return !g.loading }

// Textured reports whether a texture is in use.
func (g *Globe) Textured() bool { return g.texture != nil }

// SetTexture installs a loaded texture and marks the globe ready.
func (g *Globe) SetTexture(tex *render.Texture) {
	g.texture = tex
	g.loading = false
	log.Infof("globe: texture ready (%dx%d)", tex.Width, tex.Height)
}

// TextureFailed marks the globe ready with its plain fallback colour.
func (g *Globe) TextureFailed(err error) {
	g.texture = nil
	g.loading = false
	log.Warnf("globe: texture unavailable, using %s: %v", g.fallback.Hex(), err)
}

// Rotation returns the object-to-world rotation including the base yaw
// that lines the map up with the camera.
func (g *Globe) Rotation() math3d.Mat3 {
	return math3d.EulerXY(g.pitch, g.yaw+g.baseYaw)
}

// Sphere returns the renderer's view of the globe.
func (g *Globe) Sphere() render.Sphere {
	return render.Sphere{
		Rotation: g.Rotation(),
		Radius:   g.radius,
		Scale:    g.scale,
		Texture:  g.texture,
		Color:    g.fallback,
	}
}
