package render

// DepthBuffer stores one inverse depth (1/w) per pixel. Larger values are
// nearer; a cleared buffer holds 0, which every visible surface beats.
type DepthBuffer struct {
	W, H int
	Z    []float64
}

// NewDepthBuffer creates a cleared w x h depth buffer.
func NewDepthBuffer(w, h int) *DepthBuffer {
	return &DepthBuffer{W: w, H: h, Z: make([]float64, w*h)}
}

// Resize reallocates the buffer when the dimensions change.
func (d *DepthBuffer) Resize(w, h int) {
	if w == d.W && h == d.H {
		return
	}
	d.W, d.H = w, h
	d.Z = make([]float64, w*h)
}

// Clear resets every pixel to 0 (infinitely far).
func (d *DepthBuffer) Clear() {
	clear(d.Z)
}

// At returns the stored inverse depth at (x, y), or 0 when out of range.
func (d *DepthBuffer) At(x, y int) float64 {
	if x < 0 || x >= d.W || y < 0 || y >= d.H {
		return 0
	}
	return d.Z[y*d.W+x]
}

// testAndSet stores invW at (x, y) if it is nearer than the stored value.
// Out-of-range pixels always fail.
func (d *DepthBuffer) testAndSet(x, y int, invW float64) bool {
	if x < 0 || x >= d.W || y < 0 || y >= d.H {
		return false
	}
	i := y*d.W + x
	if invW > d.Z[i] {
		d.Z[i] = invW
		return true
	}
	return false
}

// edge walks a line with Bresenham's algorithm one scanline at a time.
// The start point must not be below the end point.
type edge struct {
	x, y   int
	x1, y1 int
	dx, dy int
	sx     int
	err    int
	done   bool
}

func newEdge(x0, y0, x1, y1 int) edge {
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	dx, dy := abs(x1-x0), -abs(y1-y0)
	return edge{x: x0, y: y0, x1: x1, y1: y1, dx: dx, dy: dy, sx: sx, err: dx + dy}
}

// next returns the x extent the line covers on its current scanline and
// advances to the first pixel of the following one.
func (e *edge) next() (lo, hi int) {
	lo, hi = e.x, e.x
	row := e.y
	for !e.done && e.y == row {
		if e.x == e.x1 && e.y == e.y1 {
			e.done = true
			break
		}
		e2 := 2 * e.err
		if e2 >= e.dy {
			e.err += e.dy
			e.x += e.sx
		}
		if e2 <= e.dx {
			e.err += e.dx
			e.y++
		}
		if e.y == row {
			lo, hi = min(lo, e.x), max(hi, e.x)
		}
	}
	return lo, hi
}

// FillTriangle fills the triangle with a single cell. The vertices are
// sorted by y, then the long edge and the two short edges are walked
// together with integer error accumulation, filling the span between them
// on every row. Flat tops, flat bottoms and degenerate triangles need no
// special case.
func FillTriangle(s Surface, x1, y1, x2, y2, x3, y3 int, c Cell) {
	if y2 < y1 {
		x1, y1, x2, y2 = x2, y2, x1, y1
	}
	if y3 < y1 {
		x1, y1, x3, y3 = x3, y3, x1, y1
	}
	if y3 < y2 {
		x2, y2, x3, y3 = x3, y3, x2, y2
	}

	long := newEdge(x1, y1, x3, y3)
	upper := newEdge(x1, y1, x2, y2)
	lower := newEdge(x2, y2, x3, y3)

	w, h := s.Width(), s.Height()
	for y := y1; y <= y3; y++ {
		lo, hi := long.next()
		if y <= y2 {
			a, b := upper.next()
			lo, hi = min(lo, a), max(hi, b)
		}
		if y >= y2 {
			a, b := lower.next()
			lo, hi = min(lo, a), max(hi, b)
		}
		if y < 0 || y >= h {
			continue
		}
		for x := max(lo, 0); x <= min(hi, w-1); x++ {
			s.Draw(x, y, c)
		}
	}
}

// texVertex is a screen vertex with perspective-divided texture coordinates.
type texVertex struct {
	x, y    int
	u, v, w float64
}

// TextureTriangle fills a projected triangle from sprite with
// perspective-correct sampling. u/w, v/w and 1/w (carried in t.T) are
// interpolated linearly down the edges and across each span, and the true
// u, v are recovered per pixel. A pixel is drawn only if its 1/w is larger
// than the depth buffer's, which is then updated.
func TextureTriangle(s Surface, depth *DepthBuffer, t Triangle, sprite *Sprite) {
	vs := [3]texVertex{}
	for i := range vs {
		vs[i] = texVertex{
			x: int(t.P[i].X), y: int(t.P[i].Y),
			u: t.T[i].U, v: t.T[i].V, w: t.T[i].W,
		}
	}
	if vs[1].y < vs[0].y {
		vs[0], vs[1] = vs[1], vs[0]
	}
	if vs[2].y < vs[0].y {
		vs[0], vs[2] = vs[2], vs[0]
	}
	if vs[2].y < vs[1].y {
		vs[1], vs[2] = vs[2], vs[1]
	}
	a, b, c := vs[0], vs[1], vs[2]

	// The long edge a->c bounds every span on one side.
	long := newTexStep(a, c)
	if b.y > a.y {
		short := newTexStep(a, b)
		for y := a.y; y <= b.y; y++ {
			texSpan(s, depth, sprite, y, short.at(a, y-a.y), long.at(a, y-a.y))
		}
	}
	if c.y > b.y {
		short := newTexStep(b, c)
		for y := b.y; y <= c.y; y++ {
			texSpan(s, depth, sprite, y, short.at(b, y-b.y), long.at(a, y-a.y))
		}
	}
}

// texStep is the per-scanline increment of an edge's attributes.
type texStep struct {
	x, u, v, w float64
}

func newTexStep(from, to texVertex) texStep {
	dy := float64(abs(to.y - from.y))
	if dy == 0 {
		return texStep{}
	}
	return texStep{
		x: float64(to.x-from.x) / dy,
		u: (to.u - from.u) / dy,
		v: (to.v - from.v) / dy,
		w: (to.w - from.w) / dy,
	}
}

// at returns the edge point n scanlines below from.
func (s texStep) at(from texVertex, n int) texVertex {
	k := float64(n)
	return texVertex{
		x: int(float64(from.x) + k*s.x),
		u: from.u + k*s.u,
		v: from.v + k*s.v,
		w: from.w + k*s.w,
	}
}

// texSpan draws the half-open span [l.x, r.x) on row y.
func texSpan(s Surface, depth *DepthBuffer, sprite *Sprite, y int, l, r texVertex) {
	if l.x > r.x {
		l, r = r, l
	}
	if l.x == r.x {
		return
	}
	step := 1 / float64(r.x-l.x)
	halfU, halfV := 0.5/float64(max(sprite.W, 1)), 0.5/float64(max(sprite.H, 1))

	t := 0.0
	for x := l.x; x < r.x; x++ {
		u := (1-t)*l.u + t*r.u
		v := (1-t)*l.v + t*r.v
		w := (1-t)*l.w + t*r.w
		t += step

		if !depth.testAndSet(x, y, w) {
			continue
		}
		s.Draw(x, y, sprite.Sample(u/w-halfU, v/w-halfV))
	}
}
