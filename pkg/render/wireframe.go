package render

import (
	"github.com/taigrr/glyph3d/pkg/math3d"
)

// DrawTriangle outlines a screen-space triangle.
func DrawTriangle(s Surface, x1, y1, x2, y2, x3, y3 int, c Cell) {
	DrawLine(s, x1, y1, x2, y2, c)
	DrawLine(s, x2, y2, x3, y3, c)
	DrawLine(s, x3, y3, x1, y1, c)
}

// DrawLine3D draws a world-space segment through the renderer's current
// camera and projection. The segment is cut at the near plane and then to
// the surface rectangle.
func (r *Renderer) DrawLine3D(cam *Camera, a, b math3d.Vec3, c Cell) {
	view := math3d.Identity()
	if cam != nil {
		view = cam.ViewMatrix()
	}
	a, b = view.MulVec(a), view.MulVec(b)

	near := NewPlane(math3d.V3(0, 0, r.Near), math3d.Forward())
	da, db := near.Distance(a), near.Distance(b)
	switch {
	case da < 0 && db < 0:
		return
	case da < 0:
		a, _ = IntersectPlane(near, a, b)
	case db < 0:
		b, _ = IntersectPlane(near, b, a)
	}

	w, h := r.surface.Width(), r.surface.Height()
	seg := ProjectTriangle(Tri(a, b, b), r.projection, w, h)
	x0, y0, x1, y1, ok := clipSegment(seg.P[0].X, seg.P[0].Y, seg.P[1].X, seg.P[1].Y, float64(w-1), float64(h-1))
	if !ok {
		return
	}
	DrawLine(r.surface, int(x0), int(y0), int(x1), int(y1), c)
}

// clipSegment cuts the segment (x0, y0)-(x1, y1) to the rectangle
// [0, maxX] x [0, maxY] with the Liang-Barsky method. It reports false when
// no part of the segment lies inside.
func clipSegment(x0, y0, x1, y1, maxX, maxY float64) (float64, float64, float64, float64, bool) {
	if maxX < 0 || maxY < 0 || !finite(x0) || !finite(y0) || !finite(x1) || !finite(y1) {
		return 0, 0, 0, 0, false
	}
	dx, dy := x1-x0, y1-y0
	t0, t1 := 0.0, 1.0
	for _, e := range [4][2]float64{
		{-dx, x0},
		{dx, maxX - x0},
		{-dy, y0},
		{dy, maxY - y0},
	} {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return 0, 0, 0, 0, false
			}
			t0 = max(t0, t)
		} else {
			if t < t0 {
				return 0, 0, 0, 0, false
			}
			t1 = min(t1, t)
		}
	}
	return x0 + t0*dx, y0 + t0*dy, x0 + t1*dx, y0 + t1*dy, true
}

// DrawAxes draws the world X, Y and Z axes from the origin in red, green and
// blue.
func (r *Renderer) DrawAxes(cam *Camera, length float64) {
	o := math3d.Zero3()
	r.DrawLine3D(cam, o, math3d.V3(length, 0, 0), Solid(Red))
	r.DrawLine3D(cam, o, math3d.V3(0, length, 0), Solid(Green))
	r.DrawLine3D(cam, o, math3d.V3(0, 0, length), Solid(Blue))
}

// DrawGrid draws a square grid on the y = 0 plane centered on the origin.
func (r *Renderer) DrawGrid(cam *Camera, size, step float64, c Cell) {
	if step <= 0 {
		return
	}
	half := size / 2
	for v := -half; v <= half+1e-9; v += step {
		r.DrawLine3D(cam, math3d.V3(v, 0, -half), math3d.V3(v, 0, half), c)
		r.DrawLine3D(cam, math3d.V3(-half, 0, v), math3d.V3(half, 0, v), c)
	}
}
