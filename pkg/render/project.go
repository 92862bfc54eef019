package render

import (
	"slices"

	"github.com/taigrr/glyph3d/pkg/math3d"
)

// ProjectTriangle maps a view-space triangle to screen space on a w x h
// raster: projection, perspective divide, Y flip, then scaling from [-1, 1]
// to pixels.
//
// Texture coordinates are divided by the clip-space w and their W becomes
// 1/w, ready for perspective-correct interpolation. A vertex with w == 0 is
// left undivided.
func ProjectTriangle(t Triangle, proj math3d.Mat4, w, h int) Triangle {
	out := t
	for i, v := range t.P {
		p := proj.MulVec(v)
		out.T[i] = t.T[i].Div(p.W)
		p = p.PerspectiveDivide()

		p.Y = -p.Y
		p.X = (p.X + 1) * 0.5 * float64(w)
		p.Y = (p.Y + 1) * 0.5 * float64(h)
		out.P[i] = p
	}
	return out
}

// SortByDepth orders tris back to front by average Z. Ties have no
// particular order.
func SortByDepth(tris []Triangle) {
	slices.SortFunc(tris, func(a, b Triangle) int {
		za, zb := a.AvgZ(), b.AvgZ()
		switch {
		case za > zb:
			return -1
		case za < zb:
			return 1
		default:
			return 0
		}
	})
}
