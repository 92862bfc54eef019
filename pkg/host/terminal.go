package host

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"golang.org/x/sync/errgroup"

	"github.com/taigrr/glyph3d/pkg/render"
)

// errStop ends the frame loop without reporting an error.
var errStop = errors.New("stop")

// terminalKeys lists the keys forwarded to Input, matched in order.
var terminalKeys = []string{
	"w", "a", "s", "d", "c", "r", "t", "x", "h",
	KeyUp, KeyDown, KeyLeft, KeyRight, KeySpace, KeyShift,
	"+", "-",
}

// Terminal runs an App on the controlling terminal with one glyph cell per
// character cell, through ultraviolet.
type Terminal struct {
	FPS   int
	Input *Input

	// Overlay, if set, is called after each frame is displayed and its
	// output written to the terminal as is. Use it for status lines made of
	// escape sequences.
	Overlay func(width, height int) string

	// Output receives the overlay. Defaults to os.Stdout.
	Output io.Writer
}

// Run starts the terminal, runs app until it stops, the context is done or
// the user presses Esc or Ctrl+C, then restores the terminal.
func (t *Terminal) Run(ctx context.Context, app App) (err error) {
	if t.Input == nil {
		t.Input = NewInput(DefaultHold)
	}
	out := t.Output
	if out == nil {
		out = os.Stdout
	}

	term := uv.DefaultTerminal()
	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	defer func() {
		term.ExitAltScreen()
		term.ShowCursor()
		if serr := term.Shutdown(context.Background()); serr != nil && err == nil {
			err = fmt.Errorf("shutdown terminal: %w", serr)
		}
	}()

	buf := render.NewCellBuffer(width, height)
	if !app.OnInit(buf) {
		return ErrInit
	}
	render.Logger().Info("terminal host started", "width", width, "height", height, "fps", t.FPS)

	g, ctx := errgroup.WithContext(ctx)
	resized := make(chan [2]int, 1)

	g.Go(func() error {
		events := term.Events()
		for {
			select {
			case <-ctx.Done():
				return nil
			case ev, ok := <-events:
				if !ok {
					return errStop
				}
				if t.handleEvent(ev, resized) {
					return errStop
				}
			}
		}
	})

	g.Go(func() error {
		clock := newFrameClock(t.FPS)
		for {
			start := time.Now()
			select {
			case <-ctx.Done():
				return nil
			case size := <-resized:
				term.Erase()
				term.Resize(size[0], size[1])
				buf.Resize(size[0], size[1])
				width, height = size[0], size[1]
				render.Logger().Info("terminal resized", "width", width, "height", height)
			default:
			}

			if !app.OnFrame(clock.tick(start)) {
				return errStop
			}
			buf.DrawTo(term, uv.Rect(0, 0, width, height))
			if err := term.Display(); err != nil {
				return fmt.Errorf("display: %w", err)
			}
			if t.Overlay != nil {
				if _, err := io.WriteString(out, t.Overlay(width, height)); err != nil {
					return fmt.Errorf("write overlay: %w", err)
				}
			}
			clock.wait(ctx, start)
		}
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errStop) {
		return err
	}
	return nil
}

// handleEvent applies one terminal event and reports whether the user asked
// to quit.
func (t *Terminal) handleEvent(ev any, resized chan [2]int) bool {
	switch ev := ev.(type) {
	case uv.WindowSizeEvent:
		// Keep only the latest size.
		select {
		case <-resized:
		default:
		}
		resized <- [2]int{ev.Width, ev.Height}

	case uv.KeyPressEvent:
		if ev.MatchString("escape", "ctrl+c") {
			return true
		}
		for _, k := range terminalKeys {
			if ev.MatchString(k) {
				t.Input.Press(k)
				break
			}
		}

	case uv.KeyReleaseEvent:
		for _, k := range terminalKeys {
			if ev.MatchString(k) {
				t.Input.Release(k)
				break
			}
		}
	}
	return false
}
