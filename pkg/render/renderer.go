package render

import (
	"math"

	"github.com/taigrr/globe/pkg/math3d"
)

const nearPlane = 0.1

// Camera is a perspective camera on the +Z axis looking at the origin.
type Camera struct {
	FOV      float64 // vertical, degrees
	Distance float64
}

// Light is an ambient term plus one directional light placed at Position
// and shining toward the origin.
type Light struct {
	Ambient     float64
	Directional float64
	Position    math3d.Vec3
}

// Sphere is the globe as the renderer sees it.
type Sphere struct {
	Rotation math3d.Mat3 // object to world
	Radius   float64
	Scale    float64
	Texture  *Texture // nil draws Color
	Color    Color
}

// Marker is a disc drawn at an object-space position on the sphere.
type Marker struct {
	Position math3d.Vec3
	Radius   float64
	Color    Color
	Opacity  float64
}

// Scene is everything drawn in one frame.
type Scene struct {
	Sphere       Sphere
	Markers      []Marker
	Stars        []math3d.Vec3
	StarRotation math3d.Mat3
	StarSpread   float64
}

// Renderer rasterizes a Scene into a Framebuffer.
type Renderer struct {
	Camera     Camera
	Light      Light
	Background Color

	lightDir math3d.Vec3
}

// NewRenderer creates a renderer.
func NewRenderer(cam Camera, light Light, background Color) *Renderer {
	return &Renderer{
		Camera:     cam,
		Light:      light,
		Background: background,
		lightDir:   light.Position.Normalize(),
	}
}

func (r *Renderer) eye() math3d.Vec3 {
	return math3d.V3(0, 0, r.Camera.Distance)
}

// focal returns the focal length in pixels for fb.
func (r *Renderer) focal(fb *Framebuffer) float64 {
	half := r.Camera.FOV * math.Pi / 360
	return float64(fb.Height) / 2 / math.Tan(half)
}

// Project maps a world point to pixel coordinates and its distance from the
// camera. ok is false for points behind the near plane.
func (r *Renderer) Project(fb *Framebuffer, p math3d.Vec3) (x, y, dist float64, ok bool) {
	rel := p.Sub(r.eye())
	depth := -rel.Z
	if depth < nearPlane {
		return 0, 0, 0, false
	}
	f := r.focal(fb)
	x = float64(fb.Width)/2 + f*rel.X/depth
	y = float64(fb.Height)/2 - f*rel.Y/depth
	return x, y, rel.Len(), true
}

// Render clears fb and draws the stars, the sphere and its markers.
func (r *Renderer) Render(fb *Framebuffer, s Scene) {
	fb.Clear(r.Background)
	r.DrawStars(fb, s.Stars, s.StarRotation, s.StarSpread)
	r.DrawSphere(fb, s.Sphere)
	r.DrawMarkers(fb, s.Sphere, s.Markers)
}

// DrawStars plots one pixel per star. Far stars fade into the background.
func (r *Renderer) DrawStars(fb *Framebuffer, stars []math3d.Vec3, rotation math3d.Mat3, spread float64) {
	if spread <= 0 {
		spread = 1
	}
	for _, star := range stars {
		x, y, dist, ok := r.Project(fb, rotation.MulVec3(star))
		if !ok {
			continue
		}
		brightness := math3d.Clamp(1-dist/spread, 0.25, 1)
		fb.SetPixelDepth(int(x), int(y), dist, Blend(r.Background, ColorWhite, brightness))
	}
}

// DrawSphere traces one ray per pixel against the sphere and shades hits
// with the texture and the lights.
func (r *Renderer) DrawSphere(fb *Framebuffer, s Sphere) {
	radius := s.Radius * s.Scale
	if radius <= 0 {
		return
	}
	eye := r.eye()
	inverse := s.Rotation.Transpose()
	f := r.focal(fb)
	cx, cy := float64(fb.Width)/2, float64(fb.Height)/2
	for py := range fb.Height {
		for px := range fb.Width {
			dir := math3d.V3((float64(px)+0.5-cx)/f, -(float64(py)+0.5-cy)/f, -1).Normalize()
			t, hit := intersectSphere(eye, dir, radius)
			if !hit {
				continue
			}
			normal := eye.Add(dir.Scale(t)).Scale(1 / radius)
			base := s.Color
			if s.Texture != nil {
				base = s.Texture.Sample(SphereUV(inverse.MulVec3(normal)))
			}
			fb.SetPixelDepth(px, py, t, MultiplyColor(base, r.intensity(normal)))
		}
	}
}

func (r *Renderer) intensity(normal math3d.Vec3) float64 {
	return r.Light.Ambient + r.Light.Directional*max(0, normal.Dot(r.lightDir))
}

// DrawMarkers draws the markers facing the camera as filled discs.
func (r *Renderer) DrawMarkers(fb *Framebuffer, s Sphere, markers []Marker) {
	eye := r.eye()
	f := r.focal(fb)
	for _, m := range markers {
		world := s.Rotation.MulVec3(m.Position.Scale(s.Scale))
		if world.Dot(eye.Sub(world)) <= 0 {
			continue
		}
		x, y, dist, ok := r.Project(fb, world)
		if !ok {
			continue
		}
		size := max(f*m.Radius*s.Scale/dist, 0.75)
		depth := dist - m.Radius*s.Scale
		opacity := m.Opacity
		if opacity <= 0 {
			opacity = 1
		}
		x0, x1 := int(math.Floor(x-size)), int(math.Ceil(x+size))
		y0, y1 := int(math.Floor(y-size)), int(math.Ceil(y+size))
		for py := y0; py <= y1; py++ {
			for px := x0; px <= x1; px++ {
				dx, dy := float64(px)+0.5-x, float64(py)+0.5-y
				if dx*dx+dy*dy > size*size {
					continue
				}
				fb.SetPixelDepth(px, py, depth, Blend(fb.GetPixel(px, py), m.Color, opacity))
			}
		}
	}
}

// intersectSphere returns the distance along dir to the nearest hit on a
// sphere of the given radius centred at the origin.
func intersectSphere(origin, dir math3d.Vec3, radius float64) (float64, bool) {
	b := origin.Dot(dir)
	c := origin.Dot(origin) - radius*radius
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	t := -b - math.Sqrt(disc)
	if t < nearPlane {
		return 0, false
	}
	return t, true
}

// SphereUV maps an object-space unit normal to equirectangular texture
// coordinates. The seam lies on the -X axis and V=1 is the north pole.
func SphereUV(n math3d.Vec3) (u, v float64) {
	theta := math.Acos(math3d.Clamp(n.Y, -1, 1))
	phi := math.Atan2(n.Z, -n.X)
	u = phi / (2 * math.Pi)
	if u < 0 {
		u++
	}
	return u, 1 - theta/math.Pi
}
