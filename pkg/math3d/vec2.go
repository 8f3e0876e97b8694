// Package math3d provides the small vector and rotation toolkit shared by the
// interaction controller and the sphere renderer.
package math3d

import "math"

// Vec2 represents a 2D vector. Input positions, drag deltas and
// pitch/yaw velocity pairs are all carried as Vec2.
type Vec2 struct {
	X, Y float64
}

// V2 creates a new Vec2.
func V2(x, y float64) Vec2 {
	return Vec2{x, y}
}

// Add returns the vector sum a + b.
func (a Vec2) Add(b Vec2) Vec2 {
	return Vec2{a.X + b.X, a.Y + b.Y}
}

// Sub returns the vector difference a - b.
func (a Vec2) Sub(b Vec2) Vec2 {
	return Vec2{a.X - b.X, a.Y - b.Y}
}

// Scale returns the scalar product a * s.
func (a Vec2) Scale(s float64) Vec2 {
	return Vec2{a.X * s, a.Y * s}
}

// Len returns the length of the vector.
func (a Vec2) Len() float64 {
	return math.Sqrt(a.X*a.X + a.Y*a.Y)
}

// MaxAbs returns the largest absolute component (Chebyshev norm).
func (a Vec2) MaxAbs() float64 {
	return math.Max(math.Abs(a.X), math.Abs(a.Y))
}

// Sign returns the component-wise sign, each component in {-1, 0, 1}.
func (a Vec2) Sign() Vec2 {
	return Vec2{Sign(a.X), Sign(a.Y)}
}

// IsZero reports whether both components are exactly zero.
func (a Vec2) IsZero() bool {
	return a.X == 0 && a.Y == 0
}

// Distance returns the distance between two points.
func (a Vec2) Distance(b Vec2) float64 {
	return a.Sub(b).Len()
}

// Sign returns -1, 0 or 1 following the sign of v. NaN maps to 0.
func Sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// Clamp limits v to [lo, hi]. NaN maps to lo.
func Clamp(v, lo, hi float64) float64 {
	if !(v >= lo) {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
