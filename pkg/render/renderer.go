package render

import (
	"github.com/taigrr/glyph3d/pkg/math3d"
)

// Mode selects how screen triangles are rasterized.
type Mode int

const (
	ModeFlat      Mode = iota // Shaded solid fill, painter's order
	ModeTextured              // Perspective-correct sprite fill, depth tested
	ModeWireframe             // Triangle outlines only
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeFlat:
		return "flat"
	case ModeTextured:
		return "textured"
	case ModeWireframe:
		return "wireframe"
	default:
		return "unknown"
	}
}

// Stats counts what happened to the triangles of the current frame.
type Stats struct {
	Triangles    int // Triangles submitted
	BackFaces    int // Dropped by back-face culling
	NearClipped  int // Dropped entirely by the near plane
	Drawn        int // Screen triangles rasterized after edge clipping
	MeshesTested int // Meshes tested against the frustum
	MeshesCulled int // Meshes rejected before per-triangle work
}

// Scene is one mesh to draw with its pose and lighting.
type Scene struct {
	Mesh  Mesh
	Model math3d.Mat4 // Object to world

	// Camera may be nil, in which case world space is view space and the
	// viewer sits at the origin looking down +Z.
	Camera *Camera

	// Light is the direction faces are lit from; it is normalized here.
	Light math3d.Vec3

	// Sprite textures the mesh in ModeTextured. Without one the textured
	// mode falls back to flat fill.
	Sprite *Sprite
}

// Renderer runs the full pipeline against a Surface. It owns the per-frame
// scratch space and the depth buffer.
type Renderer struct {
	FOV  float64 // Field of view in degrees
	Near float64 // Near plane distance; also the near clip plane
	Far  float64 // Far plane distance

	// ShadeFloor is the minimum Lambert intensity. Use Unclamped to let
	// faces turned from the light go fully dark.
	ShadeFloor float64

	Mode       Mode
	Background Cell // Cell the surface is cleared to each frame
	Wire       Cell // Cell used for outlines
	Outline    bool // Outline filled triangles as well

	Stats Stats

	surface    Surface
	depth      *DepthBuffer
	clipper    *ScreenClipper
	projection math3d.Mat4
	projKey    projectionKey
	toDraw     []Triangle
}

type projectionKey struct {
	w, h           int
	fov, near, far float64
}

// NewRenderer creates a renderer with a 90 degree field of view, a near
// plane at 0.1 and a far plane at 1000.
func NewRenderer(s Surface) *Renderer {
	r := &Renderer{
		FOV:        90,
		Near:       0.1,
		Far:        1000,
		ShadeFloor: DefaultShadeFloor,
		Mode:       ModeFlat,
		Background: Solid(Black),
		Wire:       Solid(White),
		surface:    s,
		depth:      NewDepthBuffer(0, 0),
		clipper:    NewScreenClipper(0, 0),
	}
	r.updateProjection()
	return r
}

// BuildProjectionMatrix builds the perspective projection used by the
// pipeline. aspect is height/width.
func BuildProjectionMatrix(fovDeg, aspect, near, far float64) math3d.Mat4 {
	return math3d.Projection(fovDeg, aspect, near, far)
}

// SetSurface replaces the drawing target. Buffers follow on the next frame.
func (r *Renderer) SetSurface(s Surface) {
	r.surface = s
}

// Surface returns the drawing target.
func (r *Renderer) Surface() Surface {
	return r.surface
}

// Depth returns the depth buffer used by the textured mode.
func (r *Renderer) Depth() *DepthBuffer {
	return r.depth
}

// Projection returns the current projection matrix.
func (r *Renderer) Projection() math3d.Mat4 {
	r.updateProjection()
	return r.projection
}

// updateProjection rebuilds the projection and resizes the buffers when the
// surface size or lens settings changed.
func (r *Renderer) updateProjection() {
	w, h := r.surface.Width(), r.surface.Height()
	key := projectionKey{w: w, h: h, fov: r.FOV, near: r.Near, far: r.Far}
	if key == r.projKey {
		return
	}
	r.projKey = key

	aspect := 1.0
	if w > 0 {
		aspect = float64(h) / float64(w)
	}
	r.projection = BuildProjectionMatrix(r.FOV, aspect, r.Near, r.Far)
	r.depth.Resize(w, h)
	r.clipper.Resize(w, h)
	Logger().Info("projection updated", "width", w, "height", h, "fov", r.FOV, "near", r.Near, "far", r.Far)
}

// BeginFrame clears the surface and the depth buffer, resets the
// statistics and picks up any change of surface size.
func (r *Renderer) BeginFrame() {
	r.updateProjection()
	r.Stats = Stats{}
	r.depth.Clear()
	w, h := r.surface.Width(), r.surface.Height()
	for y := range h {
		for x := range w {
			r.surface.Draw(x, y, r.Background)
		}
	}
}

// RenderFrame clears the frame and draws a single scene.
func (r *Renderer) RenderFrame(s Scene) {
	r.BeginFrame()
	r.Draw(s)
}

// Draw runs one mesh through the pipeline: model transform, back-face
// culling and shading in world space, view transform, near-plane clipping,
// projection, depth ordering, screen-edge clipping and rasterization.
// Rejected triangles are dropped silently.
func (r *Renderer) Draw(s Scene) {
	if s.Mesh == nil {
		return
	}
	r.updateProjection()
	w, h := r.surface.Width(), r.surface.Height()
	if w <= 0 || h <= 0 {
		return
	}

	view := math3d.Identity()
	camPos := math3d.Zero3()
	if s.Camera != nil {
		view = s.Camera.ViewMatrix()
		camPos = s.Camera.Position
	}
	light := s.Light.Normalize()

	if bm, ok := s.Mesh.(BoundedMesh); ok {
		r.Stats.MeshesTested++
		f := NewFrustumFromMatrix(s.Model.Mul(view).Mul(r.projection))
		if !f.IntersectAABB(NewAABB(bm.Bounds())) {
			r.Stats.MeshesCulled++
			return
		}
	}

	near := NewPlane(math3d.V3(0, 0, r.Near), math3d.Forward())
	r.toDraw = r.toDraw[:0]

	n := s.Mesh.TriangleCount()
	r.Stats.Triangles += n
	for i := range n {
		tri := s.Mesh.Triangle(i).Transform(s.Model)

		normal, ok := Visible(tri, camPos)
		if !ok {
			r.Stats.BackFaces++
			continue
		}
		tri.Cell = Shade(Lambert(normal, light, r.ShadeFloor))

		a, b, pieces := ClipAgainstPlane(near, tri.Transform(view))
		switch pieces {
		case 0:
			r.Stats.NearClipped++
		case 1:
			r.toDraw = append(r.toDraw, ProjectTriangle(a, r.projection, w, h))
		case 2:
			r.toDraw = append(r.toDraw,
				ProjectTriangle(a, r.projection, w, h),
				ProjectTriangle(b, r.projection, w, h))
		}
	}

	mode := r.Mode
	if mode == ModeTextured && s.Sprite == nil {
		mode = ModeFlat
	}
	if mode != ModeTextured {
		SortByDepth(r.toDraw)
	}

	for _, t := range r.toDraw {
		for _, c := range r.clipper.Clip(t) {
			r.rasterize(mode, c, s.Sprite)
		}
	}

	Logger().Debug("mesh drawn",
		"mode", mode.String(),
		"triangles", r.Stats.Triangles,
		"back_faces", r.Stats.BackFaces,
		"near_clipped", r.Stats.NearClipped,
		"drawn", r.Stats.Drawn,
	)
}

func (r *Renderer) rasterize(mode Mode, t Triangle, sprite *Sprite) {
	r.Stats.Drawn++
	x1, y1 := int(t.P[0].X), int(t.P[0].Y)
	x2, y2 := int(t.P[1].X), int(t.P[1].Y)
	x3, y3 := int(t.P[2].X), int(t.P[2].Y)

	switch mode {
	case ModeWireframe:
		DrawTriangle(r.surface, x1, y1, x2, y2, x3, y3, r.Wire)
		return
	case ModeTextured:
		TextureTriangle(r.surface, r.depth, t, sprite)
	default:
		FillTriangle(r.surface, x1, y1, x2, y2, x3, y3, t.Cell)
	}
	if r.Outline {
		DrawTriangle(r.surface, x1, y1, x2, y2, x3, y3, r.Wire)
	}
}
