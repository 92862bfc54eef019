package math3d

// Vec2 is a texture coordinate with a perspective weight.
// After projection W carries 1/w of the clip-space vertex, and U and V carry
// u/w and v/w, so all three interpolate linearly in screen space.
type Vec2 struct {
	U, V, W float64
}

// V2 creates a texture coordinate with W = 1.
func V2(u, v float64) Vec2 {
	return Vec2{U: u, V: v, W: 1}
}

// Lerp linearly interpolates all three components by t.
func (t Vec2) Lerp(other Vec2, s float64) Vec2 {
	return Vec2{
		U: t.U + (other.U-t.U)*s,
		V: t.V + (other.V-t.V)*s,
		W: t.W + (other.W-t.W)*s,
	}
}

// Div divides all three components by w. Dividing by zero returns t unchanged.
func (t Vec2) Div(w float64) Vec2 {
	if w == 0 {
		return t
	}
	return Vec2{t.U / w, t.V / w, t.W / w}
}
