package math3d

import "math"

// Mat4 is a 4x4 matrix stored row-major: element (row, col) lives at
// index row*4+col. Vectors are rows and multiply from the left, so
// translation occupies row 3 and v.MulVec(A.Mul(B)) applies A first.
type Mat4 [16]float64

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translate returns a translation matrix.
func Translate(v Vec3) Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		v.X, v.Y, v.Z, 1,
	}
}

// Scale returns a scaling matrix.
func Scale(v Vec3) Mat4 {
	return Mat4{
		v.X, 0, 0, 0,
		0, v.Y, 0, 0,
		0, 0, v.Z, 0,
		0, 0, 0, 1,
	}
}

// RotateX returns a rotation about the X axis by angle radians.
func RotateX(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat4{
		1, 0, 0, 0,
		0, c, s, 0,
		0, -s, c, 0,
		0, 0, 0, 1,
	}
}

// RotateY returns a rotation about the Y axis by angle radians.
func RotateY(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat4{
		c, 0, s, 0,
		0, 1, 0, 0,
		-s, 0, c, 0,
		0, 0, 0, 1,
	}
}

// RotateZ returns a rotation about the Z axis by angle radians.
func RotateZ(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat4{
		c, s, 0, 0,
		-s, c, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Projection builds a left-handed perspective projection.
// fovDeg is the field of view in degrees and aspect is height/width.
// The resulting W of a projected point equals its view-space Z.
func Projection(fovDeg, aspect, near, far float64) Mat4 {
	f := 1 / math.Tan(fovDeg*0.5/180*math.Pi)
	q := far / (far - near)

	var m Mat4
	m.Set(0, 0, aspect*f)
	m.Set(1, 1, f)
	m.Set(2, 2, q)
	m.Set(3, 2, -near*q)
	m.Set(2, 3, 1)
	return m
}

// PointAt builds the rigid transform that places an object at pos facing
// target. Its rows are right, up, forward and pos.
//
// When target-pos is parallel to up, an arbitrary perpendicular axis is used
// in place of up.
func PointAt(pos, target, up Vec3) Mat4 {
	forward := target.Sub(pos).Normalize()

	newUp := up.Sub(forward.Scale(up.Dot(forward)))
	if newUp.LenSq() < 1e-12 {
		alt := V3(1, 0, 0)
		if math.Abs(forward.X) > 0.9 {
			alt = V3(0, 1, 0)
		}
		newUp = alt.Sub(forward.Scale(alt.Dot(forward)))
	}
	newUp = newUp.Normalize()

	right := newUp.Cross(forward)

	return Mat4{
		right.X, right.Y, right.Z, 0,
		newUp.X, newUp.Y, newUp.Z, 0,
		forward.X, forward.Y, forward.Z, 0,
		pos.X, pos.Y, pos.Z, 1,
	}
}

// QuickInverse inverts a rotation+translation matrix by transposing the
// rotation block and rotating the negated translation.
// It is only correct for matrices without scale or shear; use Inverse for
// anything else.
func (m Mat4) QuickInverse() Mat4 {
	var r Mat4
	for row := range 3 {
		for col := range 3 {
			r[row*4+col] = m[col*4+row]
		}
	}
	tx, ty, tz := m[12], m[13], m[14]
	for col := range 3 {
		r[12+col] = -(tx*r[col] + ty*r[4+col] + tz*r[8+col])
	}
	r[15] = 1
	return r
}

// Mul returns m * other. Transforming by the result applies m first.
func (m Mat4) Mul(other Mat4) Mat4 {
	var r Mat4
	for row := range 4 {
		for col := range 4 {
			r[row*4+col] = m[row*4+0]*other[0*4+col] +
				m[row*4+1]*other[1*4+col] +
				m[row*4+2]*other[2*4+col] +
				m[row*4+3]*other[3*4+col]
		}
	}
	return r
}

// MulVec transforms the row vector v by m, including W.
func (m Mat4) MulVec(v Vec3) Vec3 {
	return Vec3{
		X: v.X*m[0] + v.Y*m[4] + v.Z*m[8] + v.W*m[12],
		Y: v.X*m[1] + v.Y*m[5] + v.Z*m[9] + v.W*m[13],
		Z: v.X*m[2] + v.Y*m[6] + v.Z*m[10] + v.W*m[14],
		W: v.X*m[3] + v.Y*m[7] + v.Z*m[11] + v.W*m[15],
	}
}

// Set sets the element at (row, col).
func (m *Mat4) Set(row, col int, v float64) {
	m[row*4+col] = v
}

// ApproxEqual reports whether every element differs by at most eps.
func (m Mat4) ApproxEqual(other Mat4, eps float64) bool {
	for i := range m {
		if math.Abs(m[i]-other[i]) > eps {
			return false
		}
	}
	return true
}
