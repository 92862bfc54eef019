// Package render implements the glyph3d software rasterization pipeline:
// transform, cull, shade, clip, project, sort and fill.
package render

import (
	"fmt"
	"image"
	"image/png"
	"os"

	xdraw "golang.org/x/image/draw"
)

// Surface is the drawing target the pipeline writes into.
// Out-of-range writes must be silently ignored.
type Surface interface {
	Draw(x, y int, c Cell)
	Width() int
	Height() int
}

// CellBuffer is an in-memory Surface of glyph cells.
type CellBuffer struct {
	W, H  int
	Cells []Cell // Row-major cell data
}

// NewCellBuffer creates a buffer of w x h cells cleared to black.
func NewCellBuffer(w, h int) *CellBuffer {
	b := &CellBuffer{
		W:     w,
		H:     h,
		Cells: make([]Cell, w*h),
	}
	b.Clear(Cell{Glyph: GlyphEmpty})
	return b
}

// Width returns the buffer width in cells.
func (b *CellBuffer) Width() int { return b.W }

// Height returns the buffer height in cells.
func (b *CellBuffer) Height() int { return b.H }

// Clear fills every cell with c.
func (b *CellBuffer) Clear(c Cell) {
	for i := range b.Cells {
		b.Cells[i] = c
	}
}

// Draw sets the cell at (x, y). Out-of-range coordinates are a no-op.
func (b *CellBuffer) Draw(x, y int, c Cell) {
	if x < 0 || x >= b.W || y < 0 || y >= b.H {
		return
	}
	b.Cells[y*b.W+x] = c
}

// At returns the cell at (x, y), or the zero Cell when out of range.
func (b *CellBuffer) At(x, y int) Cell {
	if x < 0 || x >= b.W || y < 0 || y >= b.H {
		return Cell{}
	}
	return b.Cells[y*b.W+x]
}

// Resize reallocates the buffer when the dimensions change.
func (b *CellBuffer) Resize(w, h int) {
	if w == b.W && h == b.H {
		return
	}
	b.W, b.H = w, h
	b.Cells = make([]Cell, w*h)
	b.Clear(Cell{Glyph: GlyphEmpty})
}

// DrawLine draws a line from (x0, y0) to (x1, y1) using Bresenham's algorithm.
func DrawLine(s Surface, x0, y0, x1, y1 int, c Cell) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		s.Draw(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// ToImage converts the buffer to an image with one pixel per cell.
// Each pixel blends the cell's colors by glyph coverage.
func (b *CellBuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, b.W, b.H))
	for y := 0; y < b.H; y++ {
		for x := 0; x < b.W; x++ {
			img.SetRGBA(x, y, b.Cells[y*b.W+x].RGBA())
		}
	}
	return img
}

// ScaledImage returns ToImage enlarged by integer factors, for display
// surfaces whose cells are not square.
func (b *CellBuffer) ScaledImage(sx, sy int) *image.RGBA {
	src := b.ToImage()
	if sx <= 1 && sy <= 1 {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, b.W*max(sx, 1), b.H*max(sy, 1)))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}

// SavePNG writes the buffer as a PNG, scaling each cell to sx x sy pixels.
func (b *CellBuffer) SavePNG(path string, sx, sy int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, b.ScaledImage(sx, sy)); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}
