package render

import (
	"github.com/taigrr/glyph3d/pkg/math3d"
)

// Triangle is three homogeneous vertices, their texture coordinates and the
// flat cell chosen by shading. Untextured meshes leave T at its zero value.
type Triangle struct {
	P [3]math3d.Vec3
	T [3]math3d.Vec2
	Cell
}

// Tri builds an untextured triangle from three points.
func Tri(a, b, c math3d.Vec3) Triangle {
	return Triangle{P: [3]math3d.Vec3{a, b, c}, T: [3]math3d.Vec2{
		math3d.V2(0, 0), math3d.V2(0, 0), math3d.V2(0, 0),
	}}
}

// Transform returns t with every vertex multiplied by m. Texture
// coordinates and the cell are carried over.
func (t Triangle) Transform(m math3d.Mat4) Triangle {
	for i := range t.P {
		t.P[i] = m.MulVec(t.P[i])
	}
	return t
}

// AvgZ returns the mean depth of the three vertices.
func (t Triangle) AvgZ() float64 {
	return (t.P[0].Z + t.P[1].Z + t.P[2].Z) / 3
}

// Mesh is a read-only source of triangles.
type Mesh interface {
	TriangleCount() int
	Triangle(i int) Triangle
}

// BoundedMesh is a Mesh that can report its object-space bounds, allowing
// the renderer to reject it as a whole before any per-triangle work.
type BoundedMesh interface {
	Mesh
	Bounds() (min, max math3d.Vec3)
}

// TriangleList is a Mesh backed by a slice.
type TriangleList []Triangle

// TriangleCount returns the number of triangles.
func (l TriangleList) TriangleCount() int { return len(l) }

// Triangle returns the i-th triangle.
func (l TriangleList) Triangle(i int) Triangle { return l[i] }
