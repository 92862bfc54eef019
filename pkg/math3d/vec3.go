// Package math3d provides the homogeneous vector and matrix kernel used by the
// glyph3d rendering pipeline.
//
// Matrices are row-major and act on row vectors: out = v * M.
package math3d

import "math"

// Vec3 is a point or direction in homogeneous 3-space.
// W is 1 for points; Dot and Cross ignore it.
type Vec3 struct {
	X, Y, Z, W float64
}

// V3 is shorthand for creating a point with W = 1.
func V3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z, W: 1}
}

// Zero3 returns the origin.
func Zero3() Vec3 {
	return Vec3{W: 1}
}

// Up returns the world up vector (0, 1, 0).
func Up() Vec3 {
	return V3(0, 1, 0)
}

// Forward returns the view-space forward vector (0, 0, 1).
func Forward() Vec3 {
	return V3(0, 0, 1)
}

// Add returns v + other. W is taken from v.
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{v.X + other.X, v.Y + other.Y, v.Z + other.Z, v.W}
}

// Sub returns v - other. W is taken from v.
func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{v.X - other.X, v.Y - other.Y, v.Z - other.Z, v.W}
}

// Scale returns v * s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s, v.W}
}

// Div returns v / s. Dividing by zero returns v unchanged.
func (v Vec3) Div(s float64) Vec3 {
	if s == 0 {
		return v
	}
	return Vec3{v.X / s, v.Y / s, v.Z / s, v.W}
}

// Dot returns the dot product of the xyz components.
func (v Vec3) Dot(other Vec3) float64 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Cross returns the cross product v × other.
func (v Vec3) Cross(other Vec3) Vec3 {
	return Vec3{
		X: v.Y*other.Z - v.Z*other.Y,
		Y: v.Z*other.X - v.X*other.Z,
		Z: v.X*other.Y - v.Y*other.X,
		W: 1,
	}
}

// Len returns the length of the xyz components.
func (v Vec3) Len() float64 {
	return math.Sqrt(v.LenSq())
}

// LenSq returns the squared length of the xyz components.
func (v Vec3) LenSq() float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

// Normalize returns a unit-length copy of v with W = 1.
// The zero vector normalizes to the zero vector.
func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l == 0 {
		return Vec3{W: 1}
	}
	return Vec3{v.X / l, v.Y / l, v.Z / l, 1}
}

// Negate returns -v.
func (v Vec3) Negate() Vec3 {
	return Vec3{-v.X, -v.Y, -v.Z, v.W}
}

// Lerp linearly interpolates xyz between v and other by t.
func (v Vec3) Lerp(other Vec3, t float64) Vec3 {
	return Vec3{
		X: v.X + (other.X-v.X)*t,
		Y: v.Y + (other.Y-v.Y)*t,
		Z: v.Z + (other.Z-v.Z)*t,
		W: v.W,
	}
}

// PerspectiveDivide divides xyz by W. A zero W leaves the vector untouched.
func (v Vec3) PerspectiveDivide() Vec3 {
	if v.W == 0 {
		return v
	}
	return Vec3{v.X / v.W, v.Y / v.W, v.Z / v.W, 1}
}

// Min returns the component-wise minimum.
func (v Vec3) Min(other Vec3) Vec3 {
	return Vec3{math.Min(v.X, other.X), math.Min(v.Y, other.Y), math.Min(v.Z, other.Z), v.W}
}

// Max returns the component-wise maximum.
func (v Vec3) Max(other Vec3) Vec3 {
	return Vec3{math.Max(v.X, other.X), math.Max(v.Y, other.Y), math.Max(v.Z, other.Z), v.W}
}

// ApproxEqual reports whether xyz of both vectors are within eps.
func (v Vec3) ApproxEqual(other Vec3, eps float64) bool {
	return math.Abs(v.X-other.X) <= eps &&
		math.Abs(v.Y-other.Y) <= eps &&
		math.Abs(v.Z-other.Z) <= eps
}
