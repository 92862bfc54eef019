package main

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/harmonica"

	"github.com/taigrr/glyph3d/pkg/host"
	"github.com/taigrr/glyph3d/pkg/math3d"
	"github.com/taigrr/glyph3d/pkg/models"
	"github.com/taigrr/glyph3d/pkg/render"
)

// Largest sprite taken from an image file.
const spriteMaxSide = 64

// sceneApp is a demo that runs on any host or headless.
type sceneApp interface {
	host.App
	Renderer() *render.Renderer
	Title() string
}

// sceneNames lists the demos in the order they are documented.
var sceneNames = []string{"cube", "walk", "textured"}

// newScene builds the demo called name.
func newScene(name string, cfg Config, in *host.Input) (sceneApp, error) {
	if in == nil {
		in = host.NewInput(host.DefaultHold)
	}
	switch name {
	case "cube":
		return newCubeScene(cfg, in)
	case "walk":
		return newWalkScene(cfg, in)
	case "textured":
		return newTexturedScene(cfg, in)
	default:
		return nil, fmt.Errorf("unknown scene %q (want one of %s)", name, strings.Join(sceneNames, ", "))
	}
}

// loadMesh loads an OBJ or glTF file. The sprite is the glTF's embedded
// image, if any.
func loadMesh(path string) (*models.Mesh, *render.Sprite, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".obj":
		m, err := models.LoadOBJ(path)
		return m, nil, err
	case ".gltf", ".glb":
		return models.LoadGLTFSprite(path, spriteMaxSide, spriteMaxSide)
	default:
		return nil, nil, fmt.Errorf("unsupported model format %q (use .obj, .gltf or .glb)", filepath.Ext(path))
	}
}

// loadSprite reads a binary sprite or converts an image.
func loadSprite(path string) (*render.Sprite, error) {
	if strings.EqualFold(filepath.Ext(path), ".spr") {
		return models.LoadSprite(path)
	}
	return render.LoadImageSprite(path, spriteMaxSide, spriteMaxSide)
}

// checkerSprite is the texture used when nothing else is available.
func checkerSprite() *render.Sprite {
	return render.NewCheckerSprite(16, 16, 4,
		render.Solid(render.White),
		render.Cell{Glyph: render.GlyphHalf, Fg: render.Cyan, Bg: render.DarkBlue})
}

// walkKeys moves a camera from held keys: forward and back along the look
// direction, turning about Y, and straight up and down.
func walkKeys(cam *render.Camera, in *host.Input, move, turn, dt float64) {
	if in.Held("w") || in.Held(host.KeyUp) {
		cam.MoveForward(move * dt)
	}
	if in.Held("s") || in.Held(host.KeyDown) {
		cam.MoveForward(-move * dt)
	}
	if in.Held("a") || in.Held(host.KeyLeft) {
		cam.Turn(turn * dt)
	}
	if in.Held("d") || in.Held(host.KeyRight) {
		cam.Turn(-turn * dt)
	}
	if in.Held(host.KeySpace) {
		cam.MoveUp(move * dt)
	}
	if in.Held(host.KeyShift) || in.Held("c") {
		cam.MoveUp(-move * dt)
	}
}

// keyEdges turns held keys into single presses: a key counts once when it
// becomes held and again only after it has been released.
type keyEdges struct {
	in   *host.Input
	held map[string]bool
}

func newKeyEdges(in *host.Input) *keyEdges {
	return &keyEdges{in: in, held: make(map[string]bool)}
}

// pressed reports whether key became held since the last call for it.
func (k *keyEdges) pressed(key string) bool {
	now := k.in.Held(key)
	was := k.held[key]
	k.held[key] = now
	return now && !was
}

// modeKeys switches the raster mode of a renderer: t flips between
// textured and flat, x turns wireframe on and back off.
type modeKeys struct {
	keys  *keyEdges
	solid render.Mode // restored when wireframe is turned off
}

func newModeKeys(in *host.Input) modeKeys {
	return modeKeys{keys: newKeyEdges(in)}
}

func (m *modeKeys) apply(r *render.Renderer) {
	if m.keys.pressed("t") {
		if r.Mode == render.ModeTextured {
			r.Mode = render.ModeFlat
		} else {
			r.Mode = render.ModeTextured
		}
	}
	if m.keys.pressed("x") {
		if r.Mode == render.ModeWireframe {
			r.Mode = m.solid
		} else {
			m.solid = r.Mode
			r.Mode = render.ModeWireframe
		}
	}
}

// cubeScene spins a mesh in front of a fixed viewer, lit head on with no
// ambient floor. + and - change the spin speed and a spring eases toward it.
type cubeScene struct {
	cfg   Config
	in    *host.Input
	mesh  render.Mesh
	name  string
	r     *render.Renderer
	modes modeKeys

	theta  float64
	spin   float64
	spinV  float64
	target float64
	spring harmonica.Spring
}

const (
	defaultSpin = 1.0 // radians per second
	spinAccel   = 1.5 // change of target spin per second of key hold
)

func newCubeScene(cfg Config, in *host.Input) (*cubeScene, error) {
	var mesh *models.Mesh
	if cfg.Model == "" {
		mesh = models.NewCube()
	} else {
		m, _, err := loadMesh(cfg.Model)
		if err != nil {
			return nil, err
		}
		m.Normalize(2)
		mesh = m
	}
	return &cubeScene{
		cfg:    cfg,
		in:     in,
		mesh:   mesh,
		name:   mesh.Name,
		modes:  newModeKeys(in),
		spin:   defaultSpin,
		target: defaultSpin,
		spring: harmonica.NewSpring(harmonica.FPS(max(cfg.FPS, 1)), 4.0, 1.0),
	}, nil
}

func (c *cubeScene) OnInit(s render.Surface) bool {
	r, err := newRenderer(s, c.cfg)
	if err != nil {
		render.Logger().Error("cube scene", "error", err)
		return false
	}
	r.ShadeFloor = render.Unclamped
	c.r = r
	return true
}

func (c *cubeScene) OnFrame(dt float64) bool {
	c.modes.apply(c.r)
	switch {
	case c.in.Held("+"):
		c.target += spinAccel * dt
	case c.in.Held("-"):
		c.target -= spinAccel * dt
	case c.in.Held("r"):
		c.target = defaultSpin
	}
	c.spin, c.spinV = c.spring.Update(c.spin, c.spinV, c.target)
	c.theta += c.spin * dt
	c.r.RenderFrame(c.scene())
	return true
}

// scene rotates about Z, then X, then pushes the mesh away from the viewer.
func (c *cubeScene) scene() render.Scene {
	return render.Scene{
		Mesh: c.mesh,
		Model: math3d.RotateZ(c.theta).
			Mul(math3d.RotateX(c.theta)).
			Mul(math3d.Translate(math3d.V3(0, 0, c.cfg.Distance))),
		Light: math3d.V3(0, 0, -1),
	}
}

func (c *cubeScene) Renderer() *render.Renderer { return c.r }
func (c *cubeScene) Title() string              { return c.name }

// walkScene is a first-person walk through a field of cubes, or around a
// loaded model, over a ground grid.
type walkScene struct {
	cfg   Config
	in    *host.Input
	cam   *render.Camera
	props []prop
	r     *render.Renderer
	modes modeKeys
	title string
}

// prop is one placed mesh.
type prop struct {
	mesh   render.Mesh
	at     math3d.Vec3
	center math3d.Vec3
}

const (
	walkSpeed = 8.0
	walkTurn  = walkSpeed / 2
	fieldSize = 5   // cubes per side
	fieldStep = 4.0 // spacing between cubes
)

func newWalkScene(cfg Config, in *host.Input) (*walkScene, error) {
	w := &walkScene{cfg: cfg, in: in, cam: render.NewCamera(), modes: newModeKeys(in)}
	w.cam.SetPosition(math3d.V3(0, 1.5, -8))

	if cfg.Model != "" {
		m, _, err := loadMesh(cfg.Model)
		if err != nil {
			return nil, err
		}
		m.Normalize(4)
		w.props = []prop{{mesh: m, at: math3d.V3(0, 2, 0), center: math3d.V3(0, 2, 0)}}
		w.title = m.Name
		return w, nil
	}

	cube := models.NewCube()
	half := float64(fieldSize-1) * fieldStep / 2
	for i := range fieldSize {
		for j := range fieldSize {
			at := math3d.V3(float64(i)*fieldStep-half, 0, float64(j)*fieldStep)
			w.props = append(w.props, prop{
				mesh:   cube,
				at:     at,
				center: at.Add(math3d.V3(0.5, 0.5, 0.5)),
			})
		}
	}
	w.title = fmt.Sprintf("%d cubes", len(w.props))
	return w, nil
}

func (w *walkScene) OnInit(s render.Surface) bool {
	r, err := newRenderer(s, w.cfg)
	if err != nil {
		render.Logger().Error("walk scene", "error", err)
		return false
	}
	w.r = r
	return true
}

func (w *walkScene) OnFrame(dt float64) bool {
	walkKeys(w.cam, w.in, walkSpeed, walkTurn, dt)
	w.modes.apply(w.r)

	w.r.BeginFrame()
	w.r.DrawGrid(w.cam, 40, 2, render.Solid(render.DarkGrey))
	w.r.DrawAxes(w.cam, 2)

	// Far props first so nearer ones paint over them.
	pos := w.cam.Position
	slices.SortFunc(w.props, func(a, b prop) int {
		da, db := a.center.Sub(pos).LenSq(), b.center.Sub(pos).LenSq()
		switch {
		case da > db:
			return -1
		case da < db:
			return 1
		default:
			return 0
		}
	})
	for _, p := range w.props {
		w.r.Draw(render.Scene{
			Mesh:   p.mesh,
			Model:  math3d.Translate(p.at),
			Camera: w.cam,
			Light:  math3d.V3(0, 1, -1),
		})
	}
	return true
}

func (w *walkScene) Renderer() *render.Renderer { return w.r }
func (w *walkScene) Title() string              { return w.title }

// texturedScene orbits a textured mesh slowly about the origin, drawn with
// the depth buffer, and lets the viewer walk around it.
type texturedScene struct {
	cfg    Config
	in     *host.Input
	mesh   render.Mesh
	sprite *render.Sprite
	cam    *render.Camera
	r      *render.Renderer
	modes  modeKeys
	title  string
	theta  float64
}

const (
	texturedSpin  = 0.05
	texturedSpeed = 4.0
	texturedTurn  = texturedSpeed / 2
)

func newTexturedScene(cfg Config, in *host.Input) (*texturedScene, error) {
	t := &texturedScene{cfg: cfg, in: in, cam: render.NewCamera(), modes: newModeKeys(in)}

	var mesh *models.Mesh
	if cfg.Model == "" {
		mesh = models.NewCube()
	} else {
		m, embedded, err := loadMesh(cfg.Model)
		if err != nil {
			return nil, err
		}
		mesh, t.sprite = m, embedded
	}
	mesh.Normalize(1)
	t.mesh, t.title = mesh, mesh.Name

	if cfg.Sprite != "" {
		s, err := loadSprite(cfg.Sprite)
		if err != nil {
			return nil, fmt.Errorf("load sprite: %w", err)
		}
		t.sprite = s
	}
	if t.sprite == nil {
		t.sprite = checkerSprite()
	}
	return t, nil
}

func (t *texturedScene) OnInit(s render.Surface) bool {
	r, err := newRenderer(s, t.cfg)
	if err != nil {
		render.Logger().Error("textured scene", "error", err)
		return false
	}
	if r.Mode == render.ModeFlat {
		r.Mode = render.ModeTextured
	}
	t.modes.solid = render.ModeTextured
	t.r = r
	return true
}

func (t *texturedScene) OnFrame(dt float64) bool {
	walkKeys(t.cam, t.in, texturedSpeed, texturedTurn, dt)
	t.modes.apply(t.r)
	t.theta += texturedSpin * dt
	t.r.RenderFrame(t.scene())
	return true
}

// scene offsets the mesh from the origin, then rotates about X at half the
// rate of Z so it orbits.
func (t *texturedScene) scene() render.Scene {
	return render.Scene{
		Mesh: t.mesh,
		Model: math3d.Translate(math3d.V3(0, 0, 1)).
			Mul(math3d.RotateX(0.5 * t.theta)).
			Mul(math3d.RotateZ(t.theta)),
		Camera: t.cam,
		Light:  math3d.V3(0, 1, -1),
		Sprite: t.sprite,
	}
}

func (t *texturedScene) Renderer() *render.Renderer { return t.r }
func (t *texturedScene) Title() string              { return t.title }
