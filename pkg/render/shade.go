package render

import (
	"math"

	"github.com/taigrr/glyph3d/pkg/math3d"
)

// Unclamped disables the shading floor: intensities down to -1 map to the
// darkest level.
const Unclamped = -1.0

// DefaultShadeFloor keeps faces turned away from the light faintly visible.
const DefaultShadeFloor = 0.1

// ShadeLevels is the number of discrete shading steps.
const ShadeLevels = 13

// shadeTable maps each level to its cell, darkest first. Every band of four
// ramps the foreground over the background through the glyph densities.
var shadeTable = [ShadeLevels]Cell{
	{GlyphSolid, Black, Black},

	{GlyphQuarter, DarkGrey, Black},
	{GlyphHalf, DarkGrey, Black},
	{GlyphThreeQuarters, DarkGrey, Black},
	{GlyphSolid, DarkGrey, Black},

	{GlyphQuarter, Grey, DarkGrey},
	{GlyphHalf, Grey, DarkGrey},
	{GlyphThreeQuarters, Grey, DarkGrey},
	{GlyphSolid, Grey, DarkGrey},

	{GlyphQuarter, White, Grey},
	{GlyphHalf, White, Grey},
	{GlyphThreeQuarters, White, Grey},
	{GlyphSolid, White, Grey},
}

// FaceNormal returns the unit normal of t from the cross product of its
// edges from vertex 0. A degenerate triangle yields the zero vector.
func FaceNormal(t Triangle) math3d.Vec3 {
	e1 := t.P[1].Sub(t.P[0])
	e2 := t.P[2].Sub(t.P[0])
	return e1.Cross(e2).Normalize()
}

// Visible reports whether t faces a camera at cam, and returns its normal.
// Faces seen edge-on or from behind are not visible. A degenerate triangle
// has a zero normal and so is never visible.
func Visible(t Triangle, cam math3d.Vec3) (math3d.Vec3, bool) {
	n := FaceNormal(t)
	return n, n.Dot(t.P[0].Sub(cam)) < 0
}

// Lambert returns the diffuse intensity of a face with the given normal lit
// from direction light, raised to at least floor.
func Lambert(normal, light math3d.Vec3, floor float64) float64 {
	return math.Max(floor, normal.Dot(light))
}

// Shade quantizes an intensity into one of the ShadeLevels cells.
// Intensities below 0 use the darkest level and 1 or above the brightest.
func Shade(intensity float64) Cell {
	level := int(ShadeLevels * intensity)
	if level < 0 || math.IsNaN(intensity) {
		level = 0
	}
	if level >= ShadeLevels {
		level = ShadeLevels - 1
	}
	return shadeTable[level]
}
