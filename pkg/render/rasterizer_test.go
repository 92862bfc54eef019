package render

import (
	"math"
	"testing"

	"github.com/taigrr/glyph3d/pkg/math3d"
)

func TestFillTriangleCoverage(t *testing.T) {
	type pt struct{ x, y int }
	verts := [3]pt{{0, 0}, {10, 0}, {0, 10}}
	orders := [][3]int{{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0}}
	fill := Solid(Red)
	blank := Cell{Glyph: GlyphEmpty}

	for _, o := range orders {
		a, b, c := verts[o[0]], verts[o[1]], verts[o[2]]
		buf := NewCellBuffer(20, 20)
		FillTriangle(buf, a.x, a.y, b.x, b.y, c.x, c.y, fill)

		for y := range 20 {
			for x := range 20 {
				got := buf.At(x, y)
				if x+y <= 10 && got != fill {
					t.Errorf("order %v: (%d, %d) not filled", o, x, y)
				}
				if x+y > 10 && got != blank {
					t.Errorf("order %v: (%d, %d) filled outside the triangle", o, x, y)
				}
			}
		}
	}
}

func TestFillTriangleFlatBottom(t *testing.T) {
	buf := NewCellBuffer(20, 20)
	FillTriangle(buf, 5, 0, 0, 8, 10, 8, Solid(Blue))

	for x := 0; x <= 10; x++ {
		if buf.At(x, 8) != Solid(Blue) {
			t.Errorf("bottom row pixel %d not filled", x)
		}
	}
	if buf.At(5, 0) != Solid(Blue) {
		t.Error("apex not filled")
	}
	if buf.At(0, 0) == Solid(Blue) || buf.At(10, 0) == Solid(Blue) {
		t.Error("filled beyond the apex row")
	}
}

func TestFillTriangleDegenerate(t *testing.T) {
	tests := []struct {
		name                   string
		x1, y1, x2, y2, x3, y3 int
		want                   int
	}{
		{"horizontal line", 2, 5, 8, 5, 4, 5, 7},
		{"vertical line", 3, 1, 3, 4, 3, 2, 4},
		{"single point", 6, 6, 6, 6, 6, 6, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := NewCellBuffer(10, 10)
			FillTriangle(buf, tt.x1, tt.y1, tt.x2, tt.y2, tt.x3, tt.y3, Solid(White))
			if got := countNot(buf, Cell{Glyph: GlyphEmpty}); got != tt.want {
				t.Errorf("filled %d cells, want %d", got, tt.want)
			}
		})
	}
}

func TestFillTriangleClipsToSurface(t *testing.T) {
	s := &countingSurface{w: 10, h: 10}
	FillTriangle(s, -100, -100, 100, -100, 0, 100, Solid(White))
	if s.draws == 0 || s.draws > 100 {
		t.Errorf("draws = %d, want between 1 and 100", s.draws)
	}
}

func screenTexTri(w float64) Triangle {
	return Triangle{
		P: [3]math3d.Vec3{math3d.V3(0, 0, 0), math3d.V3(20, 0, 0), math3d.V3(0, 20, 0)},
		T: [3]math3d.Vec2{{W: w}, {W: w}, {W: w}},
	}
}

func solidSprite(c Color) *Sprite {
	s := NewSprite(1, 1)
	s.Set(0, 0, Solid(c))
	return s
}

func TestTextureTriangleDepthTest(t *testing.T) {
	buf := NewCellBuffer(30, 30)
	depth := NewDepthBuffer(30, 30)

	TextureTriangle(buf, depth, screenTexTri(0.5), solidSprite(Red))
	if buf.At(2, 2) != Solid(Red) {
		t.Fatalf("first draw missing, got %v", buf.At(2, 2))
	}
	if math.Abs(depth.At(2, 2)-0.5) > 1e-9 {
		t.Errorf("depth = %v, want 0.5", depth.At(2, 2))
	}

	// Farther surface is rejected.
	TextureTriangle(buf, depth, screenTexTri(0.25), solidSprite(Blue))
	if buf.At(2, 2) != Solid(Red) {
		t.Errorf("farther surface overwrote nearer one: %v", buf.At(2, 2))
	}

	// Nearer surface wins.
	TextureTriangle(buf, depth, screenTexTri(1), solidSprite(Green))
	if buf.At(2, 2) != Solid(Green) {
		t.Errorf("nearer surface rejected: %v", buf.At(2, 2))
	}

	depth.Clear()
	if depth.At(2, 2) != 0 {
		t.Error("Clear did not reset depth")
	}
}

func TestTextureTrianglePerspectiveSampling(t *testing.T) {
	// Left half red, right half blue; u runs 0..1 across the span.
	sprite := NewSprite(2, 1)
	sprite.Set(0, 0, Solid(Red))
	sprite.Set(1, 0, Solid(Blue))

	tri := Triangle{
		P: [3]math3d.Vec3{math3d.V3(0, 0, 0), math3d.V3(20, 0, 0), math3d.V3(0, 10, 0)},
		T: [3]math3d.Vec2{{U: 0, W: 1}, {U: 1, W: 1}, {U: 0, W: 1}},
	}
	buf := NewCellBuffer(30, 30)
	TextureTriangle(buf, NewDepthBuffer(30, 30), tri, sprite)

	if buf.At(1, 1) != Solid(Red) {
		t.Errorf("left of span = %v, want red", buf.At(1, 1))
	}
	if buf.At(15, 1) != Solid(Blue) {
		t.Errorf("right of span = %v, want blue", buf.At(15, 1))
	}
}

func TestTextureTriangleZeroWeightNeverDraws(t *testing.T) {
	s := &countingSurface{w: 30, h: 30}
	TextureTriangle(s, NewDepthBuffer(30, 30), screenTexTri(0), solidSprite(Red))
	if s.draws != 0 {
		t.Errorf("draws = %d, want 0", s.draws)
	}
}

func TestDrawTriangleOutline(t *testing.T) {
	buf := NewCellBuffer(12, 12)
	DrawTriangle(buf, 0, 0, 10, 0, 0, 10, Solid(White))
	if buf.At(5, 0) != Solid(White) || buf.At(0, 5) != Solid(White) || buf.At(5, 5) != Solid(White) {
		t.Error("edges not drawn")
	}
	if buf.At(2, 2) == Solid(White) {
		t.Error("outline filled the interior")
	}
}

func BenchmarkFillTriangle(b *testing.B) {
	buf := NewCellBuffer(200, 100)
	for b.Loop() {
		FillTriangle(buf, 10, 5, 190, 40, 60, 95, Solid(Grey))
	}
}

func BenchmarkTextureTriangle(b *testing.B) {
	buf := NewCellBuffer(200, 100)
	depth := NewDepthBuffer(200, 100)
	sprite := NewCheckerSprite(8, 8, 2, Solid(White), Solid(Black))
	tri := Triangle{
		P: [3]math3d.Vec3{math3d.V3(10, 5, 0), math3d.V3(190, 40, 0), math3d.V3(60, 95, 0)},
		T: [3]math3d.Vec2{{U: 0, V: 0, W: 1}, {U: 1, V: 0, W: 1}, {U: 0, V: 1, W: 1}},
	}
	for b.Loop() {
		depth.Clear()
		TextureTriangle(buf, depth, tri, sprite)
	}
}
