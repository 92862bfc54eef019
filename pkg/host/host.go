// Package host runs glyph3d applications against an output device: a
// terminal, a true-color terminal image or a desktop window.
package host

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/taigrr/glyph3d/pkg/render"
)

// App is a frame-driven application. Hosts call OnInit once with the
// surface to draw into, then OnFrame once per frame with the elapsed time in
// seconds. Returning false from either stops the host.
type App interface {
	OnInit(s render.Surface) bool
	OnFrame(dt float64) bool
}

// Host runs an App until it stops, the context is canceled or the user
// quits.
type Host interface {
	Run(ctx context.Context, app App) error
}

// ErrInit is returned when an App's OnInit reports failure.
var ErrInit = errors.New("app failed to initialize")

// Key names understood by every host.
const (
	KeyUp    = "up"
	KeyDown  = "down"
	KeyLeft  = "left"
	KeyRight = "right"
	KeySpace = "space"
	KeyShift = "shift"
	KeyEsc   = "esc"
)

// DefaultHold is how long a key counts as held after a press event when the
// device never reports the release.
const DefaultHold = 150 * time.Millisecond

// Input tracks which keys are held. Terminals often report only presses
// (with auto-repeat), so a press holds the key for a short window that each
// repeat extends; an explicit release ends it at once. Safe for concurrent
// use.
type Input struct {
	mu    sync.Mutex
	until map[string]time.Time
	hold  time.Duration
	now   func() time.Time
}

// NewInput creates an Input whose presses last hold without a release.
// A non-positive hold uses DefaultHold.
func NewInput(hold time.Duration) *Input {
	if hold <= 0 {
		hold = DefaultHold
	}
	return &Input{
		until: make(map[string]time.Time),
		hold:  hold,
		now:   time.Now,
	}
}

// Press marks key held for the hold window.
func (in *Input) Press(key string) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.until[key] = in.now().Add(in.hold)
}

// Release marks key up.
func (in *Input) Release(key string) {
	in.mu.Lock()
	defer in.mu.Unlock()
	delete(in.until, key)
}

// Set records the state of a polled key. A key set down stays held until
// it is set up again.
func (in *Input) Set(key string, down bool) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if down {
		in.until[key] = time.Time{}
	} else {
		delete(in.until, key)
	}
}

// Held reports whether key is currently down.
func (in *Input) Held(key string) bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	t, ok := in.until[key]
	if !ok {
		return false
	}
	if t.IsZero() || in.now().Before(t) {
		return true
	}
	delete(in.until, key)
	return false
}

// Reset releases every key.
func (in *Input) Reset() {
	in.mu.Lock()
	defer in.mu.Unlock()
	clear(in.until)
}

// frameClock paces a frame loop and measures the time between frames.
type frameClock struct {
	last   time.Time
	period time.Duration
	maxDt  float64
}

func newFrameClock(fps int) *frameClock {
	if fps <= 0 {
		fps = 60
	}
	return &frameClock{
		last:   time.Now(),
		period: time.Second / time.Duration(fps),
		maxDt:  0.1,
	}
}

// tick returns the seconds elapsed since the previous tick, capped so a
// stall does not teleport the scene.
func (c *frameClock) tick(now time.Time) float64 {
	dt := now.Sub(c.last).Seconds()
	c.last = now
	return min(max(dt, 0), c.maxDt)
}

// wait sleeps out the rest of the frame that started at start, returning
// early if ctx is done.
func (c *frameClock) wait(ctx context.Context, start time.Time) {
	rest := c.period - time.Since(start)
	if rest <= 0 {
		return
	}
	t := time.NewTimer(rest)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
