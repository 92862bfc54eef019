// Package models provides mesh and sprite loading for glyph3d.
package models

import (
	"github.com/taigrr/glyph3d/pkg/math3d"
	"github.com/taigrr/glyph3d/pkg/render"
)

// Mesh is an indexed triangle mesh. It implements render.BoundedMesh.
type Mesh struct {
	Name     string
	Vertices []MeshVertex
	Faces    []Face

	// Bounding box (calculated on load)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// MeshVertex holds all vertex attributes.
type MeshVertex struct {
	Position math3d.Vec3
	UV       math3d.Vec2
}

// Face is a triangle of indices into Mesh.Vertices. Faces wound clockwise
// as seen from outside the mesh are front facing.
type Face struct {
	V [3]int
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{
		Name:      name,
		Vertices:  make([]MeshVertex, 0),
		Faces:     make([]Face, 0),
		BoundsMin: math3d.Zero3(),
		BoundsMax: math3d.Zero3(),
	}
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		return
	}

	m.BoundsMin = m.Vertices[0].Position
	m.BoundsMax = m.Vertices[0].Position

	for _, v := range m.Vertices[1:] {
		m.BoundsMin = m.BoundsMin.Min(v.Position)
		m.BoundsMax = m.BoundsMax.Max(v.Position)
	}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// Triangle assembles face i for the renderer.
func (m *Mesh) Triangle(i int) render.Triangle {
	var t render.Triangle
	for k, idx := range m.Faces[i].V {
		v := m.Vertices[idx]
		t.P[k] = v.Position
		t.T[k] = v.UV
	}
	return t
}

// Bounds returns the axis-aligned bounding box.
func (m *Mesh) Bounds() (min, max math3d.Vec3) {
	return m.BoundsMin, m.BoundsMax
}

// Transform applies a transformation matrix to all vertices.
func (m *Mesh) Transform(mat math3d.Mat4) {
	for i := range m.Vertices {
		m.Vertices[i].Position = mat.MulVec(m.Vertices[i].Position)
	}
	m.CalculateBounds()
}

// Normalize centers the mesh on the origin and scales it uniformly so its
// largest dimension equals size.
func (m *Mesh) Normalize(size float64) {
	m.CalculateBounds()
	extent := m.Size()
	largest := max(extent.X, extent.Y, extent.Z)
	if largest == 0 {
		m.Transform(math3d.Translate(m.Center().Negate()))
		return
	}
	k := size / largest
	m.Transform(math3d.Translate(m.Center().Negate()).Mul(math3d.Scale(math3d.V3(k, k, k))))
}

// NewCube returns the unit cube spanning [0, 1] on every axis, two
// triangles per side. Each side maps the full texture.
func NewCube() *Mesh {
	m := NewMesh("cube")
	v := math3d.V3
	sides := [][4]math3d.Vec3{
		{v(0, 0, 0), v(0, 1, 0), v(1, 1, 0), v(1, 0, 0)}, // south
		{v(1, 0, 0), v(1, 1, 0), v(1, 1, 1), v(1, 0, 1)}, // east
		{v(1, 0, 1), v(1, 1, 1), v(0, 1, 1), v(0, 0, 1)}, // north
		{v(0, 0, 1), v(0, 1, 1), v(0, 1, 0), v(0, 0, 0)}, // west
		{v(0, 1, 0), v(0, 1, 1), v(1, 1, 1), v(1, 1, 0)}, // top
		{v(1, 0, 1), v(0, 0, 1), v(0, 0, 0), v(1, 0, 0)}, // bottom
	}
	uvs := [4]math3d.Vec2{
		math3d.V2(0, 1), math3d.V2(0, 0), math3d.V2(1, 0), math3d.V2(1, 1),
	}

	for _, side := range sides {
		base := len(m.Vertices)
		for k, p := range side {
			m.Vertices = append(m.Vertices, MeshVertex{Position: p, UV: uvs[k]})
		}
		m.Faces = append(m.Faces,
			Face{V: [3]int{base, base + 1, base + 2}},
			Face{V: [3]int{base, base + 2, base + 3}},
		)
	}
	m.CalculateBounds()
	return m
}
