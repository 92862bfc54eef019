package render

import (
	"math"
	"testing"

	"github.com/taigrr/glyph3d/pkg/math3d"
)

func cubeScene(z float64) Scene {
	return Scene{
		Mesh:  unitCube(),
		Model: math3d.Translate(math3d.V3(-0.5, -0.5, z)),
		Light: math3d.V3(0, 0, -1),
	}
}

func TestRendererCubeFrontFace(t *testing.T) {
	buf := NewCellBuffer(40, 40)
	r := NewRenderer(buf)
	r.RenderFrame(cubeScene(3))

	if got := buf.At(20, 20); got != Shade(1) {
		t.Errorf("center cell = %+v, want %+v", got, Shade(1))
	}
	if got := buf.At(18, 18); got != Shade(1) {
		t.Errorf("interior cell = %+v, want %+v", got, Shade(1))
	}
	if got := buf.At(2, 2); got != r.Background {
		t.Errorf("corner cell = %+v, want background", got)
	}
	if r.Stats.Triangles != 12 || r.Stats.BackFaces != 10 {
		t.Errorf("stats = %+v, want 12 triangles with 10 back faces", r.Stats)
	}
	if r.Stats.Drawn != 2 {
		t.Errorf("Drawn = %d, want 2", r.Stats.Drawn)
	}
}

func TestRendererBehindCamera(t *testing.T) {
	buf := NewCellBuffer(40, 40)
	r := NewRenderer(buf)
	r.RenderFrame(cubeScene(-5))

	if n := countNot(buf, r.Background); n != 0 {
		t.Errorf("%d cells drawn for a mesh behind the camera", n)
	}
	if r.Stats.Drawn != 0 {
		t.Errorf("Drawn = %d, want 0", r.Stats.Drawn)
	}
	if r.Stats.NearClipped == 0 {
		t.Error("expected the camera-facing far side to be near clipped")
	}
}

func TestRendererStraddlingNearPlane(t *testing.T) {
	buf := NewCellBuffer(40, 40)
	r := NewRenderer(buf)
	// A large floor quad running from behind the camera into the distance.
	floor := TriangleList{
		Tri(math3d.V3(-5, -1, -5), math3d.V3(-5, -1, 20), math3d.V3(5, -1, 20)),
		Tri(math3d.V3(-5, -1, -5), math3d.V3(5, -1, 20), math3d.V3(5, -1, -5)),
	}
	r.RenderFrame(Scene{Mesh: floor, Model: math3d.Identity(), Light: math3d.V3(0, 1, 0)})

	if r.Stats.BackFaces != 0 {
		t.Fatalf("BackFaces = %d, floor should face the camera", r.Stats.BackFaces)
	}
	if r.Stats.Drawn == 0 {
		t.Fatal("nothing drawn for a floor crossing the near plane")
	}
	if got := buf.At(20, 35); got == r.Background {
		t.Error("bottom center should show the floor")
	}
	if got := buf.At(20, 5); got != r.Background {
		t.Error("top of the screen should stay clear")
	}
}

func TestRendererFrustumCull(t *testing.T) {
	buf := NewCellBuffer(40, 40)
	r := NewRenderer(buf)
	mesh := boundedList{TriangleList: unitCube(), min: math3d.Zero3(), max: math3d.V3(1, 1, 1)}

	r.RenderFrame(Scene{Mesh: mesh, Model: math3d.Translate(math3d.V3(0, 0, -10)), Light: math3d.V3(0, 0, -1)})
	if r.Stats.MeshesTested != 1 || r.Stats.MeshesCulled != 1 {
		t.Errorf("stats = %+v, want the mesh tested and culled", r.Stats)
	}
	if r.Stats.Triangles != 0 {
		t.Errorf("Triangles = %d, want 0 for a culled mesh", r.Stats.Triangles)
	}

	r.RenderFrame(Scene{Mesh: mesh, Model: math3d.Translate(math3d.V3(-0.5, -0.5, 3)), Light: math3d.V3(0, 0, -1)})
	if r.Stats.MeshesCulled != 0 || r.Stats.Drawn == 0 {
		t.Errorf("stats = %+v, want the mesh drawn", r.Stats)
	}
}

func TestRendererTextured(t *testing.T) {
	buf := NewCellBuffer(40, 40)
	r := NewRenderer(buf)
	r.Mode = ModeTextured

	s := cubeScene(3)
	s.Sprite = NewCheckerSprite(8, 8, 1, Solid(Red), Solid(Blue))
	r.RenderFrame(s)

	if d := r.Depth().At(20, 20); math.Abs(d-1.0/3) > 1e-6 {
		t.Errorf("depth at center = %v, want 1/3", d)
	}
	if got := buf.At(20, 20); got != Solid(Red) && got != Solid(Blue) {
		t.Errorf("center cell = %+v, want a sprite texel", got)
	}
	if got := buf.At(2, 2); got != r.Background {
		t.Errorf("corner cell = %+v, want background", got)
	}
}

func TestRendererTexturedWithoutSprite(t *testing.T) {
	buf := NewCellBuffer(40, 40)
	r := NewRenderer(buf)
	r.Mode = ModeTextured
	r.RenderFrame(cubeScene(3))

	if got := buf.At(20, 20); got != Shade(1) {
		t.Errorf("center cell = %+v, want flat shading", got)
	}
}

func TestRendererWireframe(t *testing.T) {
	buf := NewCellBuffer(40, 40)
	r := NewRenderer(buf)
	r.Mode = ModeWireframe
	r.RenderFrame(cubeScene(3))

	if n := countNot(buf, r.Background); n == 0 {
		t.Fatal("wireframe drew nothing")
	}
	if got := buf.At(18, 18); got != r.Background {
		t.Errorf("face interior = %+v, want background", got)
	}
}

func TestRendererFollowsResize(t *testing.T) {
	buf := NewCellBuffer(40, 40)
	r := NewRenderer(buf)
	r.RenderFrame(cubeScene(3))

	buf.Resize(60, 30)
	r.RenderFrame(cubeScene(3))
	if d := r.Depth(); d.W != 60 || d.H != 30 {
		t.Errorf("depth buffer is %dx%d, want 60x30", d.W, d.H)
	}
	if got := buf.At(30, 15); got != Shade(1) {
		t.Errorf("center cell after resize = %+v, want %+v", got, Shade(1))
	}

	want := BuildProjectionMatrix(r.FOV, 0.5, r.Near, r.Far)
	if !r.Projection().ApproxEqual(want, 1e-12) {
		t.Error("projection did not pick up the new aspect ratio")
	}
}

func TestRendererCameraTurnedAway(t *testing.T) {
	buf := NewCellBuffer(40, 40)
	r := NewRenderer(buf)
	cam := NewCamera()
	cam.SetYaw(math.Pi)

	s := cubeScene(3)
	s.Camera = cam
	r.RenderFrame(s)

	if n := countNot(buf, r.Background); n != 0 {
		t.Errorf("%d cells drawn behind the camera", n)
	}
}

func TestRendererCameraWalksAround(t *testing.T) {
	buf := NewCellBuffer(40, 40)
	r := NewRenderer(buf)
	cam := NewCamera()
	// Stand on the far side of the cube looking back at it.
	cam.SetPosition(math3d.V3(0, 0, 7))
	cam.SetYaw(math.Pi)

	s := cubeScene(3)
	s.Camera = cam
	r.RenderFrame(s)

	if r.Stats.Drawn == 0 {
		t.Fatal("cube not drawn from behind")
	}
	if got := buf.At(20, 20); got != Shade(DefaultShadeFloor) {
		t.Errorf("unlit far face = %+v, want %+v", got, Shade(DefaultShadeFloor))
	}
}

func TestRendererEmptySurface(t *testing.T) {
	s := &countingSurface{}
	r := NewRenderer(s)
	r.RenderFrame(cubeScene(3))
	if s.draws != 0 {
		t.Errorf("draws = %d, want 0", s.draws)
	}
}

func TestModeString(t *testing.T) {
	for m, want := range map[Mode]string{ModeFlat: "flat", ModeTextured: "textured", ModeWireframe: "wireframe", Mode(9): "unknown"} {
		if got := m.String(); got != want {
			t.Errorf("Mode(%d).String() = %q, want %q", int(m), got, want)
		}
	}
}

func TestDrawLine3D(t *testing.T) {
	buf := NewCellBuffer(40, 40)
	r := NewRenderer(buf)
	r.BeginFrame()

	r.DrawLine3D(nil, math3d.V3(-1, 0, 5), math3d.V3(1, 0, 5), Solid(Yellow))
	if got := buf.At(20, 20); got != Solid(Yellow) {
		t.Errorf("center = %+v, want the line", got)
	}

	// Entirely behind the viewer.
	buf.Clear(r.Background)
	r.DrawLine3D(nil, math3d.V3(-1, 0, -5), math3d.V3(1, 0, -5), Solid(Yellow))
	if n := countNot(buf, r.Background); n != 0 {
		t.Errorf("%d cells drawn for a line behind the camera", n)
	}
}

func TestDrawLine3DClipsToSurface(t *testing.T) {
	s := &countingSurface{w: 40, h: 40}
	r := NewRenderer(s)
	r.BeginFrame()
	s.draws = 0

	// Projects thousands of cells past both side edges.
	r.DrawLine3D(nil, math3d.V3(-1000, 0, 5), math3d.V3(1000, 0, 5), Solid(Yellow))
	if s.draws == 0 || s.draws > 40 {
		t.Errorf("draws = %d, want one row of at most 40", s.draws)
	}

	// Off screen to the right.
	s.draws = 0
	r.DrawLine3D(nil, math3d.V3(100, -1, 5), math3d.V3(100, 1, 5), Solid(Yellow))
	if s.draws != 0 {
		t.Errorf("draws = %d for an off screen line, want 0", s.draws)
	}
}

func TestClipSegment(t *testing.T) {
	tests := []struct {
		name           string
		x0, y0, x1, y1 float64
		want           [4]float64
		ok             bool
	}{
		{"inside", 1, 1, 5, 5, [4]float64{1, 1, 5, 5}, true},
		{"across", -10, 5, 20, 5, [4]float64{0, 5, 9, 5}, true},
		{"reversed", 20, 5, -10, 5, [4]float64{9, 5, 0, 5}, true},
		{"diagonal", -5, -5, 15, 15, [4]float64{0, 0, 9, 9}, true},
		{"vertical", 3, -100, 3, 100, [4]float64{3, 0, 3, 9}, true},
		{"left", -5, 0, -1, 9, [4]float64{}, false},
		{"below", 0, 12, 9, 20, [4]float64{}, false},
		{"corner miss", -5, 4, 4, -5, [4]float64{}, false},
		{"nan", math.NaN(), 0, 5, 5, [4]float64{}, false},
		{"inf", 0, 0, math.Inf(1), 5, [4]float64{}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			x0, y0, x1, y1, ok := clipSegment(tc.x0, tc.y0, tc.x1, tc.y1, 9, 9)
			if ok != tc.ok {
				t.Fatalf("ok = %v, want %v", ok, tc.ok)
			}
			if !ok {
				return
			}
			got := [4]float64{x0, y0, x1, y1}
			for i := range got {
				if math.Abs(got[i]-tc.want[i]) > 1e-9 {
					t.Errorf("got %v, want %v", got, tc.want)
					break
				}
			}
		})
	}
}

func BenchmarkRenderCube(b *testing.B) {
	buf := NewCellBuffer(160, 90)
	r := NewRenderer(buf)
	s := cubeScene(3)
	theta := 0.0
	for b.Loop() {
		theta += 0.01
		s.Model = math3d.RotateZ(theta).Mul(math3d.RotateX(theta * 0.5)).Mul(math3d.Translate(math3d.V3(0, 0, 3)))
		r.RenderFrame(s)
	}
}
