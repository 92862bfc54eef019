//go:build cgo

package host

import (
	"context"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/taigrr/glyph3d/pkg/render"
)

// Window runs an App in a desktop window. The cell buffer has a fixed size
// and each cell is drawn as a CellW x CellH block of pixels.
type Window struct {
	Title         string
	Width, Height int // In cells
	CellW, CellH  int // Pixels per cell
	FPS           int
	Input         *Input
}

// windowKeys maps polled ebiten keys to key names.
var windowKeys = []struct {
	key  ebiten.Key
	name string
}{
	{ebiten.KeyW, "w"},
	{ebiten.KeyA, "a"},
	{ebiten.KeyS, "s"},
	{ebiten.KeyD, "d"},
	{ebiten.KeyC, "c"},
	{ebiten.KeyR, "r"},
	{ebiten.KeyT, "t"},
	{ebiten.KeyX, "x"},
	{ebiten.KeyH, "h"},
	{ebiten.KeyArrowUp, KeyUp},
	{ebiten.KeyArrowDown, KeyDown},
	{ebiten.KeyArrowLeft, KeyLeft},
	{ebiten.KeyArrowRight, KeyRight},
	{ebiten.KeySpace, KeySpace},
	{ebiten.KeyShiftLeft, KeyShift},
	{ebiten.KeyEqual, "+"},
	{ebiten.KeyMinus, "-"},
}

type windowGame struct {
	ctx   context.Context
	app   App
	in    *Input
	buf   *render.CellBuffer
	img   *ebiten.Image
	cw    int
	ch    int
	dt    float64
	ready bool
}

// Run opens the window and blocks until the app stops, the context is done,
// Esc is pressed or the window is closed.
func (w *Window) Run(ctx context.Context, app App) error {
	if w.Input == nil {
		w.Input = NewInput(DefaultHold)
	}
	fps := w.FPS
	if fps <= 0 {
		fps = 60
	}
	cw, ch := max(w.CellW, 1), max(w.CellH, 1)

	g := &windowGame{
		ctx: ctx,
		app: app,
		in:  w.Input,
		buf: render.NewCellBuffer(w.Width, w.Height),
		cw:  cw,
		ch:  ch,
		dt:  1 / float64(fps),
	}
	if !app.OnInit(g.buf) {
		return ErrInit
	}
	g.img = ebiten.NewImage(w.Width*cw, w.Height*ch)

	ebiten.SetWindowTitle(w.Title)
	ebiten.SetWindowSize(w.Width*cw, w.Height*ch)
	ebiten.SetTPS(fps)
	render.Logger().Info("window host started", "width", w.Width, "height", w.Height, "fps", fps)

	if err := ebiten.RunGame(g); err != nil {
		return fmt.Errorf("run window: %w", err)
	}
	return nil
}

func (g *windowGame) Update() error {
	if g.ctx.Err() != nil || ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	for _, k := range windowKeys {
		g.in.Set(k.name, ebiten.IsKeyPressed(k.key))
	}
	if !g.app.OnFrame(g.dt) {
		return ebiten.Termination
	}
	g.ready = true
	return nil
}

func (g *windowGame) Draw(screen *ebiten.Image) {
	if !g.ready {
		return
	}
	g.img.WritePixels(g.buf.ScaledImage(g.cw, g.ch).Pix)
	screen.DrawImage(g.img, nil)
}

func (g *windowGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.buf.W * g.cw, g.buf.H * g.ch
}
