package host

import (
	"context"
	"fmt"
	"time"

	"fortio.org/terminal/ansipixels"

	"github.com/taigrr/glyph3d/pkg/render"
)

// Pixels runs an App on a terminal as a true-color image: each character
// cell shows two vertically stacked pixels, and each pixel is one glyph
// cell blended to a single color.
type Pixels struct {
	FPS   int
	Input *Input
}

// pixelKeys maps raw input sequences to key names.
var pixelKeys = map[string]string{
	"\x1b[A": KeyUp,
	"\x1b[B": KeyDown,
	"\x1b[C": KeyRight,
	"\x1b[D": KeyLeft,
	"\x1bOA": KeyUp,
	"\x1bOB": KeyDown,
	"\x1bOC": KeyRight,
	"\x1bOD": KeyLeft,
	" ":      KeySpace,
}

// Run opens the terminal in raw mode and runs app until it stops, the
// context is done or the user presses Esc or Ctrl+C.
func (p *Pixels) Run(ctx context.Context, app App) error {
	if p.Input == nil {
		p.Input = NewInput(DefaultHold)
	}
	fps := p.FPS
	if fps <= 0 {
		fps = 60
	}

	ap := ansipixels.NewAnsiPixels(float64(fps))
	if err := ap.Open(); err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	defer func() {
		ap.ShowCursor()
		ap.ClearScreen()
		ap.Restore()
	}()
	ap.HideCursor()
	ap.ClearScreen()

	buf := render.NewCellBuffer(ap.W, ap.H*2)
	ap.OnResize = func() error {
		buf.Resize(ap.W, ap.H*2)
		ap.ClearScreen()
		render.Logger().Info("pixels resized", "width", ap.W, "height", ap.H*2)
		return nil
	}
	if !app.OnInit(buf) {
		return ErrInit
	}
	render.Logger().Info("pixels host started", "width", ap.W, "height", ap.H*2, "fps", fps, "truecolor", ap.ColorOutput.TrueColor)

	clock := newFrameClock(fps)
	var drawErr error
	err := ap.FPSTicks(ctx, func(context.Context) bool {
		if p.handleInput(ap.Data) {
			return false
		}
		if !app.OnFrame(clock.tick(time.Now())) {
			return false
		}

		img := buf.ToImage()
		ap.StartSyncMode()
		if ap.ColorOutput.TrueColor {
			drawErr = ap.DrawTrueColorImage(0, 0, img)
		} else {
			drawErr = ap.Draw216ColorImage(0, 0, img)
		}
		ap.EndSyncMode()
		return drawErr == nil
	})
	if drawErr != nil {
		return fmt.Errorf("draw frame: %w", drawErr)
	}
	if err != nil {
		return fmt.Errorf("frame loop: %w", err)
	}
	return nil
}

// handleInput presses the keys found in one read and reports whether the
// user asked to quit. A read may carry several keys, so escape sequences
// are consumed whole before the remaining bytes are taken as letters.
func (p *Pixels) handleInput(data []byte) bool {
	for i := 0; i < len(data); {
		b := data[i]
		switch {
		case b == 0x03:
			return true
		case b == 0x1b:
			n := csiLen(data[i:])
			if n == 0 {
				return true
			}
			if k, ok := pixelKeys[string(data[i:i+n])]; ok {
				p.Input.Press(k)
			}
			i += n
			continue
		case b == ' ':
			p.Input.Press(KeySpace)
		case b >= 'A' && b <= 'Z':
			p.Input.Press(KeyShift)
			p.Input.Press(string(b + 'a' - 'A'))
		case b >= 'a' && b <= 'z' || b == '+' || b == '-':
			p.Input.Press(string(b))
		}
		i++
	}
	return false
}

// csiLen returns the length of the escape sequence at the start of data,
// either ESC [ params final or ESC O final, or 0 when data does not start
// with a complete one.
func csiLen(data []byte) int {
	if len(data) < 3 || data[0] != 0x1b {
		return 0
	}
	switch data[1] {
	case 'O':
		return 3
	case '[':
		for i := 2; i < len(data); i++ {
			if data[i] >= 0x40 && data[i] <= 0x7e {
				return i + 1
			}
		}
	}
	return 0
}
