package math3d

import "math"

// Mat3 is a row-major 3x3 matrix used for pure rotations.
type Mat3 [9]float64

// Identity3 returns the identity rotation.
func Identity3() Mat3 {
	return Mat3{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}
}

// RotateX returns a rotation of angle radians around the X axis.
func RotateX(angle float64) Mat3 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat3{
		1, 0, 0,
		0, c, -s,
		0, s, c,
	}
}

// RotateY returns a rotation of angle radians around the Y axis.
func RotateY(angle float64) Mat3 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat3{
		c, 0, s,
		0, 1, 0,
		-s, 0, c,
	}
}

// EulerXY returns the rotation for an object with X (pitch) and Y (yaw)
// angles applied in XYZ order, i.e. RotateX(pitch) * RotateY(yaw).
func EulerXY(pitch, yaw float64) Mat3 {
	return RotateX(pitch).Mul(RotateY(yaw))
}

// Mul returns the matrix product m * o.
func (m Mat3) Mul(o Mat3) Mat3 {
	var r Mat3
	for row := range 3 {
		for col := range 3 {
			r[row*3+col] = m[row*3]*o[col] + m[row*3+1]*o[3+col] + m[row*3+2]*o[6+col]
		}
	}
	return r
}

// MulVec3 transforms v by m.
func (m Mat3) MulVec3(v Vec3) Vec3 {
	return Vec3{
		m[0]*v.X + m[1]*v.Y + m[2]*v.Z,
		m[3]*v.X + m[4]*v.Y + m[5]*v.Z,
		m[6]*v.X + m[7]*v.Y + m[8]*v.Z,
	}
}

// Transpose returns the transpose, which is the inverse of a rotation.
func (m Mat3) Transpose() Mat3 {
	return Mat3{
		m[0], m[3], m[6],
		m[1], m[4], m[7],
		m[2], m[5], m[8],
	}
}
