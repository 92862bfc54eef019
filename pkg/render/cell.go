package render

import (
	"image/color"

	"github.com/charmbracelet/x/ansi"
)

// Color is one of the 16 console palette entries.
// Values match the classic console attribute nibble.
type Color uint8

const (
	Black Color = iota
	DarkBlue
	DarkGreen
	DarkCyan
	DarkRed
	DarkMagenta
	DarkYellow
	Grey
	DarkGrey
	Blue
	Green
	Cyan
	Red
	Magenta
	Yellow
	White
)

// palette holds the sRGB value of each console color.
var palette = [16]color.RGBA{
	{0, 0, 0, 255},
	{0, 0, 128, 255},
	{0, 128, 0, 255},
	{0, 128, 128, 255},
	{128, 0, 0, 255},
	{128, 0, 128, 255},
	{128, 128, 0, 255},
	{192, 192, 192, 255},
	{128, 128, 128, 255},
	{0, 0, 255, 255},
	{0, 255, 0, 255},
	{0, 255, 255, 255},
	{255, 0, 0, 255},
	{255, 0, 255, 255},
	{255, 255, 0, 255},
	{255, 255, 255, 255},
}

// ansiColors maps console colors onto the terminal's 16 basic colors.
// The console orders blue before red; ANSI does the opposite.
var ansiColors = [16]ansi.BasicColor{
	ansi.Black,
	ansi.Blue,
	ansi.Green,
	ansi.Cyan,
	ansi.Red,
	ansi.Magenta,
	ansi.Yellow,
	ansi.White,
	ansi.BrightBlack,
	ansi.BrightBlue,
	ansi.BrightGreen,
	ansi.BrightCyan,
	ansi.BrightRed,
	ansi.BrightMagenta,
	ansi.BrightYellow,
	ansi.BrightWhite,
}

// RGBA returns the palette value of c.
func (c Color) RGBA() color.RGBA {
	return palette[c&0x0f]
}

// ANSI returns the terminal color for c.
func (c Color) ANSI() ansi.BasicColor {
	return ansiColors[c&0x0f]
}

// Shade glyphs, ordered by coverage.
const (
	GlyphSolid         rune = 0x2588
	GlyphThreeQuarters rune = 0x2593
	GlyphHalf          rune = 0x2592
	GlyphQuarter       rune = 0x2591
	GlyphEmpty         rune = ' '
)

// Cell is a single glyph with its foreground and background colors.
type Cell struct {
	Glyph rune
	Fg    Color
	Bg    Color
}

// Solid returns a fully covered cell of color c.
func Solid(c Color) Cell {
	return Cell{Glyph: GlyphSolid, Fg: c, Bg: c}
}

// Attr packs the colors into a console attribute: fg in the low nibble,
// bg in the high nibble.
func (c Cell) Attr() uint16 {
	return uint16(c.Fg&0x0f) | uint16(c.Bg&0x0f)<<4
}

// CellFromAttr unpacks a console glyph and attribute pair.
func CellFromAttr(glyph, attr uint16) Cell {
	return Cell{
		Glyph: rune(glyph),
		Fg:    Color(attr & 0x0f),
		Bg:    Color((attr >> 4) & 0x0f),
	}
}

// coverage returns how much of the cell the foreground covers.
func coverage(g rune) float64 {
	switch g {
	case GlyphSolid:
		return 1
	case GlyphThreeQuarters:
		return 0.75
	case GlyphHalf:
		return 0.5
	case GlyphQuarter:
		return 0.25
	case GlyphEmpty, 0:
		return 0
	default:
		return 0.5
	}
}

// RGBA blends the foreground over the background by glyph coverage.
func (c Cell) RGBA() color.RGBA {
	fg, bg := c.Fg.RGBA(), c.Bg.RGBA()
	k := coverage(c.Glyph)
	mix := func(a, b uint8) uint8 {
		return uint8(float64(a)*k + float64(b)*(1-k) + 0.5)
	}
	return color.RGBA{mix(fg.R, bg.R), mix(fg.G, bg.G), mix(fg.B, bg.B), 255}
}
