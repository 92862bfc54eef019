package host

import (
	"context"
	"testing"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
)

// fakeClock is a manually advanced time source.
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func newTestInput(hold time.Duration) (*Input, *fakeClock) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	in := NewInput(hold)
	in.now = clock.now
	return in, clock
}

func TestInputPressDecays(t *testing.T) {
	in, clock := newTestInput(100 * time.Millisecond)

	in.Press("w")
	if !in.Held("w") {
		t.Fatal("key not held right after press")
	}

	clock.t = clock.t.Add(60 * time.Millisecond)
	if !in.Held("w") {
		t.Error("key released before the hold window ended")
	}

	// A repeat extends the hold.
	in.Press("w")
	clock.t = clock.t.Add(60 * time.Millisecond)
	if !in.Held("w") {
		t.Error("repeat did not extend the hold")
	}

	clock.t = clock.t.Add(60 * time.Millisecond)
	if in.Held("w") {
		t.Error("key still held after the hold window")
	}
}

func TestInputRelease(t *testing.T) {
	in, _ := newTestInput(time.Second)
	in.Press(KeySpace)
	in.Release(KeySpace)
	if in.Held(KeySpace) {
		t.Error("key held after release")
	}
	if in.Held("never") {
		t.Error("unpressed key reported held")
	}
}

func TestInputSet(t *testing.T) {
	in, clock := newTestInput(10 * time.Millisecond)

	in.Set(KeyShift, true)
	clock.t = clock.t.Add(time.Hour)
	if !in.Held(KeyShift) {
		t.Error("polled key should stay held until set up")
	}

	in.Set(KeyShift, false)
	if in.Held(KeyShift) {
		t.Error("polled key still held after set up")
	}
}

func TestInputReset(t *testing.T) {
	in, _ := newTestInput(time.Second)
	in.Press("a")
	in.Set("d", true)
	in.Reset()
	if in.Held("a") || in.Held("d") {
		t.Error("Reset left keys held")
	}
}

func TestNewInputDefaultHold(t *testing.T) {
	if in := NewInput(0); in.hold != DefaultHold {
		t.Errorf("hold = %v, want %v", in.hold, DefaultHold)
	}
}

func TestFrameClockTick(t *testing.T) {
	c := newFrameClock(30)
	if c.period != time.Second/30 {
		t.Errorf("period = %v", c.period)
	}

	start := c.last
	if dt := c.tick(start.Add(20 * time.Millisecond)); dt < 0.0199 || dt > 0.0201 {
		t.Errorf("dt = %v, want 0.02", dt)
	}
	if dt := c.tick(c.last.Add(5 * time.Second)); dt != c.maxDt {
		t.Errorf("stalled dt = %v, want capped at %v", dt, c.maxDt)
	}
	if dt := c.tick(c.last.Add(-time.Second)); dt != 0 {
		t.Errorf("backwards dt = %v, want 0", dt)
	}
}

func TestFrameClockWaitHonorsContext(t *testing.T) {
	c := newFrameClock(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	begin := time.Now()
	c.wait(ctx, begin)
	if time.Since(begin) > 500*time.Millisecond {
		t.Error("wait ignored a canceled context")
	}
}

func TestPixelsHandleInput(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		quit    bool
		held    []string
		notHeld []string
	}{
		{"nothing", "", false, nil, nil},
		{"escape", "\x1b", true, nil, nil},
		{"ctrl+c", "\x03", true, nil, nil},
		{"ctrl+c after letters", "w\x03", true, []string{"w"}, nil},
		{"arrow", "\x1b[A", false, []string{KeyUp}, []string{"a", KeyShift}},
		{"space", " ", false, []string{KeySpace}, nil},
		{"letters", "wd", false, []string{"w", "d"}, []string{KeyShift}},
		{"capital", "W", false, []string{"w", KeyShift}, nil},
		{"repeated arrows", "\x1b[A\x1b[A", false, []string{KeyUp}, []string{"a", KeyShift}},
		{"letter then arrow", "w\x1b[A", false, []string{"w", KeyUp}, []string{"a", KeyShift}},
		{"arrow then space", "\x1b[D ", false, []string{KeyLeft, KeySpace}, []string{"d", KeyShift}},
		{"arrow then letter", "\x1b[Cs", false, []string{KeyRight, "s"}, []string{"c", KeyShift}},
		{"unknown sequence", "\x1b[1;5Aw", false, []string{"w"}, []string{"a", KeyUp, KeyShift}},
		{"application arrow", "\x1bOB", false, []string{KeyDown}, []string{"b", KeyShift}},
		{"truncated sequence", "\x1b[", true, nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Pixels{Input: NewInput(time.Minute)}
			if got := p.handleInput([]byte(tt.data)); got != tt.quit {
				t.Errorf("quit = %v, want %v", got, tt.quit)
			}
			for _, k := range tt.held {
				if !p.Input.Held(k) {
					t.Errorf("%q not held", k)
				}
			}
			for _, k := range tt.notHeld {
				if p.Input.Held(k) {
					t.Errorf("%q held", k)
				}
			}
		})
	}
}

func TestCSILen(t *testing.T) {
	tests := []struct {
		data string
		want int
	}{
		{"\x1b[A", 3},
		{"\x1b[Aw", 3},
		{"\x1b[1;5A", 6},
		{"\x1b[", 0},
		{"\x1b", 0},
		{"\x1bOA", 3},
		{"\x1bx", 0},
		{"w", 0},
	}
	for _, tt := range tests {
		if got := csiLen([]byte(tt.data)); got != tt.want {
			t.Errorf("csiLen(%q) = %d, want %d", tt.data, got, tt.want)
		}
	}
}

func TestTerminalResizeKeepsLatest(t *testing.T) {
	term := &Terminal{Input: NewInput(time.Minute)}
	resized := make(chan [2]int, 1)

	term.handleEvent(uv.WindowSizeEvent{Width: 80, Height: 24}, resized)
	term.handleEvent(uv.WindowSizeEvent{Width: 120, Height: 40}, resized)

	if got := <-resized; got != [2]int{120, 40} {
		t.Errorf("size = %v, want [120 40]", got)
	}
}
