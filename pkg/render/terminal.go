package render

import (
	uv "github.com/charmbracelet/ultraviolet"
)

// DrawTo copies the buffer onto an ultraviolet screen, one cell per terminal
// cell. Cells outside area are skipped.
func (b *CellBuffer) DrawTo(scr uv.Screen, area uv.Rectangle) {
	for row := area.Min.Y; row < area.Max.Y && row < b.H; row++ {
		for col := area.Min.X; col < area.Max.X && col < b.W; col++ {
			scr.SetCell(col, row, b.Cells[row*b.W+col].UV())
		}
	}
}

// UV converts c into an ultraviolet cell.
func (c Cell) UV() *uv.Cell {
	g := c.Glyph
	if g == 0 {
		g = GlyphEmpty
	}
	return &uv.Cell{
		Content: string(g),
		Width:   1,
		Style: uv.Style{
			Fg: c.Fg.ANSI(),
			Bg: c.Bg.ANSI(),
		},
	}
}
