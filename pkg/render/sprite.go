package render

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"math"
	"os"

	"github.com/lucasb-eyer/go-colorful"
	_ "golang.org/x/image/bmp" // Register BMP decoder
	xdraw "golang.org/x/image/draw"
)

// Sprite is a fixed-size grid of cells sampled with wraparound.
type Sprite struct {
	W, H  int
	Cells []Cell // Row-major cell data
}

// NewSprite creates a sprite of blank cells.
func NewSprite(w, h int) *Sprite {
	s := &Sprite{W: w, H: h, Cells: make([]Cell, w*h)}
	for i := range s.Cells {
		s.Cells[i] = Cell{Glyph: GlyphEmpty}
	}
	return s
}

// Set sets the cell at (x, y). Out-of-range coordinates are ignored.
func (s *Sprite) Set(x, y int, c Cell) {
	if x < 0 || x >= s.W || y < 0 || y >= s.H {
		return
	}
	s.Cells[y*s.W+x] = c
}

// At returns the cell at (x, y), or a blank black cell when out of range.
func (s *Sprite) At(x, y int) Cell {
	if x < 0 || x >= s.W || y < 0 || y >= s.H {
		return Cell{Glyph: GlyphEmpty}
	}
	return s.Cells[y*s.W+x]
}

// Sample returns the cell at normalized coordinates (u, v). Coordinates
// outside [0, 1) wrap around, so Sample(u+1, v) == Sample(u, v).
// Non-finite coordinates sample a blank cell.
func (s *Sprite) Sample(u, v float64) Cell {
	if s.W == 0 || s.H == 0 || !finite(u) || !finite(v) {
		return Cell{Glyph: GlyphEmpty}
	}
	x := int(math.Round(wrapCoord(u)*float64(s.W))) % s.W
	y := int(math.Round(wrapCoord(v)*float64(s.H))) % s.H
	return s.Cells[y*s.W+x]
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// wrapCoord keeps the fractional part of coord in [0, 1).
func wrapCoord(coord float64) float64 {
	f := coord - math.Floor(coord)
	if f >= 1 {
		return 0
	}
	return f
}

// NewCheckerSprite creates a checkerboard of squares of size checkSize.
func NewCheckerSprite(w, h, checkSize int, a, b Cell) *Sprite {
	s := NewSprite(w, h)
	checkSize = max(checkSize, 1)
	for y := range h {
		for x := range w {
			if ((x/checkSize)+(y/checkSize))%2 == 0 {
				s.Set(x, y, a)
			} else {
				s.Set(x, y, b)
			}
		}
	}
	return s
}

// LoadImageSprite decodes a PNG, JPEG or BMP file into a sprite no larger
// than maxW x maxH.
func LoadImageSprite(path string, maxW, maxH int) (*Sprite, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return SpriteFromImage(img, maxW, maxH), nil
}

// SpriteFromImage quantizes img into console cells. Images larger than
// maxW x maxH are first scaled down, keeping the aspect ratio.
// Each pixel becomes the glyph and color pair whose blend is closest in Lab.
func SpriteFromImage(img image.Image, maxW, maxH int) *Sprite {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxW > 0 && maxH > 0 && (w > maxW || h > maxH) {
		k := math.Min(float64(maxW)/float64(w), float64(maxH)/float64(h))
		w = max(int(float64(w)*k), 1)
		h = max(int(float64(h)*k), 1)
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
		img = dst
		b = dst.Bounds()
	}

	q := newQuantizer()
	s := NewSprite(w, h)
	for y := range h {
		for x := range w {
			s.Cells[y*w+x] = q.cell(img.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return s
}

// quantizer matches colors against every distinct cell blend.
type quantizer struct {
	cells []Cell
	lab   [][3]float64
	cache map[colorful.Color]Cell
}

func newQuantizer() *quantizer {
	q := &quantizer{cache: make(map[colorful.Color]Cell)}
	add := func(c Cell) {
		l, a, b := colorfulOf(c.RGBA()).Lab()
		q.cells = append(q.cells, c)
		q.lab = append(q.lab, [3]float64{l, a, b})
	}
	for fg := Black; fg <= White; fg++ {
		add(Solid(fg))
		for bg := Black; bg <= White; bg++ {
			if bg == fg {
				continue
			}
			for _, g := range []rune{GlyphQuarter, GlyphHalf, GlyphThreeQuarters} {
				add(Cell{Glyph: g, Fg: fg, Bg: bg})
			}
		}
	}
	return q
}

func colorfulOf(c color.Color) colorful.Color {
	cc, _ := colorful.MakeColor(c)
	return cc
}

func (q *quantizer) cell(c color.Color) Cell {
	cc, ok := colorful.MakeColor(c)
	if !ok {
		return Cell{Glyph: GlyphEmpty}
	}
	if hit, found := q.cache[cc]; found {
		return hit
	}
	l, a, b := cc.Lab()
	best, bestDist := 0, math.Inf(1)
	for i, ref := range q.lab {
		dl, da, db := l-ref[0], a-ref[1], b-ref[2]
		if d := dl*dl + da*da + db*db; d < bestDist {
			best, bestDist = i, d
		}
	}
	q.cache[cc] = q.cells[best]
	return q.cells[best]
}
