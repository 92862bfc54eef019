package render

import (
	"github.com/taigrr/glyph3d/pkg/math3d"
)

// countingSurface records every draw call.
type countingSurface struct {
	w, h  int
	draws int
}

func (s *countingSurface) Draw(x, y int, c Cell) { s.draws++ }
func (s *countingSurface) Width() int            { return s.w }
func (s *countingSurface) Height() int           { return s.h }

// unitCube returns a cube spanning [0, 1] on every axis, wound so that
// outward faces are front facing.
func unitCube() TriangleList {
	v := math3d.V3
	uv := func(a, b, c math3d.Vec2) [3]math3d.Vec2 { return [3]math3d.Vec2{a, b, c} }
	first := uv(math3d.V2(0, 1), math3d.V2(0, 0), math3d.V2(1, 0))
	second := uv(math3d.V2(0, 1), math3d.V2(1, 0), math3d.V2(1, 1))

	quads := [][4]math3d.Vec3{
		{v(0, 0, 0), v(0, 1, 0), v(1, 1, 0), v(1, 0, 0)}, // south
		{v(1, 0, 0), v(1, 1, 0), v(1, 1, 1), v(1, 0, 1)}, // east
		{v(1, 0, 1), v(1, 1, 1), v(0, 1, 1), v(0, 0, 1)}, // north
		{v(0, 0, 1), v(0, 1, 1), v(0, 1, 0), v(0, 0, 0)}, // west
		{v(0, 1, 0), v(0, 1, 1), v(1, 1, 1), v(1, 1, 0)}, // top
		{v(1, 0, 1), v(0, 0, 1), v(0, 0, 0), v(1, 0, 0)}, // bottom
	}

	var out TriangleList
	for _, q := range quads {
		out = append(out,
			Triangle{P: [3]math3d.Vec3{q[0], q[1], q[2]}, T: first},
			Triangle{P: [3]math3d.Vec3{q[0], q[2], q[3]}, T: second},
		)
	}
	return out
}

// boundedList is a TriangleList that reports bounds.
type boundedList struct {
	TriangleList
	min, max math3d.Vec3
}

func (b boundedList) Bounds() (math3d.Vec3, math3d.Vec3) { return b.min, b.max }

// countNot returns how many cells of buf differ from c.
func countNot(buf *CellBuffer, c Cell) int {
	n := 0
	for _, cell := range buf.Cells {
		if cell != c {
			n++
		}
	}
	return n
}
