package render

import (
	"github.com/taigrr/glyph3d/pkg/math3d"
)

// Frustum represents the 6 planes of a view frustum.
// Planes are ordered: Left, Right, Bottom, Top, Near, Far.
// Each plane's normal points inward.
type Frustum struct {
	Planes [6]Plane
}

// FrustumPlane indices for clarity.
const (
	FrustumLeft = iota
	FrustumRight
	FrustumBottom
	FrustumTop
	FrustumNear
	FrustumFar
)

// NewFrustumFromMatrix extracts frustum planes from a combined
// model-view-projection matrix (Gribb/Hartmann). With row vectors each clip
// component is the dot product of the point with one matrix column, and
// depth lands in [0, w], so the near plane is column 2 on its own.
// The planes come out in the space the matrix maps from.
func NewFrustumFromMatrix(m math3d.Mat4) Frustum {
	col := func(j int) (float64, float64, float64, float64) {
		return m[j], m[4+j], m[8+j], m[12+j]
	}
	x0, x1, x2, x3 := col(0)
	y0, y1, y2, y3 := col(1)
	z0, z1, z2, z3 := col(2)
	w0, w1, w2, w3 := col(3)

	plane := func(a, b, c, d float64) Plane {
		p := Plane{Normal: math3d.V3(a, b, c), D: d}
		p.Normalize()
		return p
	}

	var f Frustum
	f.Planes[FrustumLeft] = plane(w0+x0, w1+x1, w2+x2, w3+x3)
	f.Planes[FrustumRight] = plane(w0-x0, w1-x1, w2-x2, w3-x3)
	f.Planes[FrustumBottom] = plane(w0+y0, w1+y1, w2+y2, w3+y3)
	f.Planes[FrustumTop] = plane(w0-y0, w1-y1, w2-y2, w3-y3)
	f.Planes[FrustumNear] = plane(z0, z1, z2, z3)
	f.Planes[FrustumFar] = plane(w0-z0, w1-z1, w2-z2, w3-z3)
	return f
}

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min math3d.Vec3
	Max math3d.Vec3
}

// NewAABB creates an AABB from min and max points.
func NewAABB(min, max math3d.Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// IntersectAABB reports whether any part of box may be inside the frustum.
// For each plane only the corner furthest along the normal is tested; if
// even that corner is outside, so is the whole box.
func (f Frustum) IntersectAABB(box AABB) bool {
	for _, plane := range f.Planes {
		pVertex := math3d.V3(
			selectComponent(plane.Normal.X >= 0, box.Max.X, box.Min.X),
			selectComponent(plane.Normal.Y >= 0, box.Max.Y, box.Min.Y),
			selectComponent(plane.Normal.Z >= 0, box.Max.Z, box.Min.Z),
		)
		if plane.Distance(pVertex) < 0 {
			return false
		}
	}
	return true
}

func selectComponent(cond bool, a, b float64) float64 {
	if cond {
		return a
	}
	return b
}
