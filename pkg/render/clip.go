package render

import (
	"fmt"

	"github.com/taigrr/glyph3d/pkg/math3d"
)

// Plane represents a plane in 3D space using the equation: Ax + By + Cz + D = 0
// where (A, B, C) is the unit normal. Points with a non-negative distance are
// inside.
type Plane struct {
	Normal math3d.Vec3
	D      float64
}

// NewPlane builds the plane through point with the given normal.
// The normal is normalized.
func NewPlane(point, normal math3d.Vec3) Plane {
	n := normal.Normalize()
	return Plane{Normal: n, D: -n.Dot(point)}
}

// Normalize normalizes the plane equation so the normal has unit length.
func (p *Plane) Normalize() {
	l := p.Normal.Len()
	if l == 0 {
		return
	}
	p.Normal = p.Normal.Scale(1.0 / l)
	p.D /= l
}

// Distance returns the signed distance from the plane to point.
// Positive is on the side the normal points to.
func (p Plane) Distance(point math3d.Vec3) float64 {
	return p.Normal.Dot(point) + p.D
}

// IntersectPlane returns where the segment start->end crosses p, and the
// segment parameter t of that point. A segment parallel to the plane yields
// t = 0.
func IntersectPlane(p Plane, start, end math3d.Vec3) (math3d.Vec3, float64) {
	ad := p.Normal.Dot(start)
	bd := p.Normal.Dot(end)
	denom := bd - ad
	if denom == 0 {
		return start, 0
	}
	t := (-p.D - ad) / denom
	return start.Lerp(end, t), t
}

// ClipAgainstPlane clips in against p and returns the surviving pieces.
// n is 0 when the triangle lies fully outside, 1 when it is fully inside
// (a is then in, unchanged) or one vertex is inside, and 2 when two vertices
// are inside and the remaining quad is split into a and b.
// Texture coordinates, including their W, are interpolated with the same t
// as positions. The cell is copied to every output.
func ClipAgainstPlane(p Plane, in Triangle) (a, b Triangle, n int) {
	var inside, outside [3]int
	var ni, no int
	for i := range in.P {
		if p.Distance(in.P[i]) >= 0 {
			inside[ni] = i
			ni++
		} else {
			outside[no] = i
			no++
		}
	}

	edge := func(from, to int) (math3d.Vec3, math3d.Vec2) {
		pt, t := IntersectPlane(p, in.P[from], in.P[to])
		return pt, in.T[from].Lerp(in.T[to], t)
	}

	switch ni {
	case 0:
		return a, b, 0

	case 3:
		return in, b, 1

	case 1:
		i0, o0, o1 := inside[0], outside[0], outside[1]
		a.Cell = in.Cell
		a.P[0], a.T[0] = in.P[i0], in.T[i0]
		a.P[1], a.T[1] = edge(i0, o0)
		a.P[2], a.T[2] = edge(i0, o1)
		return a, b, 1

	case 2:
		i0, i1, o0 := inside[0], inside[1], outside[0]
		a.Cell = in.Cell
		a.P[0], a.T[0] = in.P[i0], in.T[i0]
		a.P[1], a.T[1] = in.P[i1], in.T[i1]
		a.P[2], a.T[2] = edge(i0, o0)

		b.Cell = in.Cell
		b.P[0], b.T[0] = in.P[i1], in.T[i1]
		b.P[1], b.T[1] = a.P[2], a.T[2]
		b.P[2], b.T[2] = edge(i1, o0)
		return a, b, 2

	default:
		panic(fmt.Sprintf("render: clip classified %d of 3 vertices inside", ni))
	}
}

// ScreenClipper clips screen-space triangles against the four edges of a
// w x h raster. Its buffers are reused between calls.
type ScreenClipper struct {
	planes    [4]Plane
	cur, next []Triangle
}

// NewScreenClipper creates a clipper for a w x h raster.
func NewScreenClipper(w, h int) *ScreenClipper {
	c := &ScreenClipper{}
	c.Resize(w, h)
	return c
}

// Resize moves the bottom and right edges to match a w x h raster.
func (c *ScreenClipper) Resize(w, h int) {
	fw, fh := float64(w-1), float64(h-1)
	c.planes = [4]Plane{
		NewPlane(math3d.V3(0, 0, 0), math3d.V3(0, 1, 0)),   // top
		NewPlane(math3d.V3(0, fh, 0), math3d.V3(0, -1, 0)), // bottom
		NewPlane(math3d.V3(0, 0, 0), math3d.V3(1, 0, 0)),   // left
		NewPlane(math3d.V3(fw, 0, 0), math3d.V3(-1, 0, 0)), // right
	}
}

// Clip returns the pieces of t that lie on screen. Each edge is applied once
// to the complete output of the previous edge. The returned slice is only
// valid until the next call.
func (c *ScreenClipper) Clip(t Triangle) []Triangle {
	c.cur = append(c.cur[:0], t)
	for _, p := range c.planes {
		c.next = c.next[:0]
		for _, tri := range c.cur {
			a, b, n := ClipAgainstPlane(p, tri)
			switch n {
			case 2:
				c.next = append(c.next, a, b)
			case 1:
				c.next = append(c.next, a)
			}
		}
		c.cur, c.next = c.next, c.cur
		if len(c.cur) == 0 {
			break
		}
	}
	return c.cur
}

// ClipToScreen clips t against the edges of a w x h raster.
func ClipToScreen(t Triangle, w, h int) []Triangle {
	out := NewScreenClipper(w, h).Clip(t)
	return append([]Triangle(nil), out...)
}
