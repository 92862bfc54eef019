package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/taigrr/glyph3d/pkg/models"
	"github.com/taigrr/glyph3d/pkg/render"
)

// execute runs the root command with args and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestSnapshotCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cube.png")
	out, err := execute(t, "snapshot", "cube", "-o", path,
		"--width", "20", "--height", "10", "--frames", "2", "--scale-x", "2", "--scale-y", "3")
	if err != nil {
		t.Fatalf("snapshot: %v\n%s", err, out)
	}
	if !strings.Contains(out, "wrote "+path) {
		t.Errorf("unexpected output %q", out)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 40 || b.Dy() != 30 {
		t.Errorf("image is %dx%d, want 40x30", b.Dx(), b.Dy())
	}
}

func TestSnapshotUnknownScene(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.png")
	if _, err := execute(t, "snapshot", "teapot", "-o", path); err == nil {
		t.Error("expected an error for an unknown scene")
	}
	if _, err := os.Stat(path); err == nil {
		t.Error("a file was written for a failed snapshot")
	}
}

func TestSpriteCommand(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	img := image.NewRGBA(image.Rect(0, 0, 32, 16))
	for y := range 16 {
		for x := range 32 {
			img.Set(x, y, color.RGBA{uint8(x * 8), 0, 0, 255})
		}
	}
	f, err := os.Create(in)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	f.Close()

	out := filepath.Join(dir, "out.spr")
	if msg, err := execute(t, "sprite", in, out, "--max-w", "8", "--max-h", "8"); err != nil {
		t.Fatalf("sprite: %v\n%s", err, msg)
	}

	s, err := models.LoadSprite(out)
	if err != nil {
		t.Fatalf("LoadSprite: %v", err)
	}
	if s.W != 8 || s.H != 4 {
		t.Errorf("sprite is %dx%d, want 8x4", s.W, s.H)
	}
}

func TestBench(t *testing.T) {
	cfg := testConfig()
	scene, err := newScene("walk", cfg, nil)
	if err != nil {
		t.Fatalf("newScene: %v", err)
	}
	scene.OnInit(render.NewCellBuffer(cfg.Width, cfg.Height))

	res := bench(scene, 5, 1.0/30)
	if res.Frames != 5 {
		t.Errorf("Frames = %d, want 5", res.Frames)
	}
	if res.Stats.MeshesTested != fieldSize*fieldSize {
		t.Errorf("stats not taken from the last frame: %+v", res.Stats)
	}

	var out bytes.Buffer
	printBench(&out, "walk", cfg, res)
	for _, want := range []string{"cpu:", "scene:      walk 40x20 flat", "frames:     5"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("report missing %q:\n%s", want, out.String())
		}
	}
}

func TestBenchResultRates(t *testing.T) {
	tests := []struct {
		name     string
		res      benchResult
		perFrame time.Duration
		fps      float64
	}{
		{"empty", benchResult{}, 0, 0},
		{"steady", benchResult{Frames: 50, Elapsed: time.Second}, 20 * time.Millisecond, 50},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.res.perFrame(); got != tc.perFrame {
				t.Errorf("perFrame = %v, want %v", got, tc.perFrame)
			}
			if got := tc.res.fps(); got != tc.fps {
				t.Errorf("fps = %v, want %v", got, tc.fps)
			}
		})
	}
}
