package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"fortio.org/struct2env"
	"github.com/spf13/pflag"

	"github.com/taigrr/glyph3d/pkg/host"
	"github.com/taigrr/glyph3d/pkg/render"
)

// envPrefix prefixes every environment override, e.g. GLYPH3D_FPS.
const envPrefix = "GLYPH3D_"

// Config holds the settings shared by every command. Defaults come from
// defaultConfig, then the environment, then flags.
type Config struct {
	Host     string  // terminal, pixels or window
	FPS      int     // Target frame rate
	FOV      float64 // Field of view in degrees
	Near     float64
	Far      float64
	Mode     string // flat, textured or wireframe
	Outline  bool
	Width    int // Window and snapshot size, in cells
	Height   int
	CellW    int // Window pixels per cell
	CellH    int
	Model    string  // OBJ or glTF file; empty uses the built-in scene
	Sprite   string  // .spr or image file for the textured mode
	Distance float64 // How far in front of the viewer spinning meshes sit
	HUD      bool
	LogLevel string
}

func defaultConfig() Config {
	return Config{
		Host:     "terminal",
		FPS:      30,
		FOV:      90,
		Near:     0.1,
		Far:      1000,
		Mode:     render.ModeFlat.String(),
		Width:    160,
		Height:   60,
		CellW:    6,
		CellH:    12,
		Distance: 3,
		HUD:      true,
		LogLevel: "warn",
	}
}

// loadConfig returns the defaults overridden from the environment. Bad
// values are logged and skipped.
func loadConfig() Config {
	cfg := defaultConfig()
	for _, err := range struct2env.SetFromEnv(envPrefix, &cfg) {
		slog.Warn("ignoring environment override", "err", err)
	}
	return cfg
}

// bindFlags registers the persistent flags, defaulting from cfg.
func bindFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.Host, "host", cfg.Host, "output device: terminal, pixels or window")
	fs.IntVar(&cfg.FPS, "fps", cfg.FPS, "target frames per second")
	fs.Float64Var(&cfg.FOV, "fov", cfg.FOV, "field of view in degrees")
	fs.Float64Var(&cfg.Near, "near", cfg.Near, "near plane distance")
	fs.Float64Var(&cfg.Far, "far", cfg.Far, "far plane distance")
	fs.StringVar(&cfg.Mode, "mode", cfg.Mode, "rasterization: flat, textured or wireframe")
	fs.BoolVar(&cfg.Outline, "outline", cfg.Outline, "outline filled triangles")
	fs.IntVar(&cfg.Width, "width", cfg.Width, "window and snapshot width in cells")
	fs.IntVar(&cfg.Height, "height", cfg.Height, "window and snapshot height in cells")
	fs.IntVar(&cfg.CellW, "cell-w", cfg.CellW, "window pixels per cell, horizontally")
	fs.IntVar(&cfg.CellH, "cell-h", cfg.CellH, "window pixels per cell, vertically")
	fs.StringVarP(&cfg.Model, "model", "m", cfg.Model, "OBJ or glTF model to show")
	fs.StringVar(&cfg.Sprite, "sprite", cfg.Sprite, "sprite (.spr) or image used as texture")
	fs.Float64Var(&cfg.Distance, "distance", cfg.Distance, "distance of spinning meshes from the viewer")
	fs.BoolVar(&cfg.HUD, "hud", cfg.HUD, "show the status line")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn or error")
}

// parseMode maps a mode name to a render.Mode.
func parseMode(name string) (render.Mode, error) {
	for _, m := range []render.Mode{render.ModeFlat, render.ModeTextured, render.ModeWireframe} {
		if strings.EqualFold(name, m.String()) {
			return m, nil
		}
	}
	return render.ModeFlat, fmt.Errorf("unknown mode %q", name)
}

// parseLevel maps a level name to a slog.Level.
func parseLevel(name string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelWarn, fmt.Errorf("unknown log level %q", name)
	}
	return l, nil
}

// setupLogger installs a text handler on stderr for the render, models and
// host packages.
func setupLogger(cfg Config) error {
	level, err := parseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	render.SetLogger(logger)
	return nil
}

// newRenderer applies the lens and raster settings of cfg to a renderer
// drawing on s.
func newRenderer(s render.Surface, cfg Config) (*render.Renderer, error) {
	mode, err := parseMode(cfg.Mode)
	if err != nil {
		return nil, err
	}
	r := render.NewRenderer(s)
	r.FOV = cfg.FOV
	r.Near = cfg.Near
	r.Far = cfg.Far
	r.Mode = mode
	r.Outline = cfg.Outline
	return r, nil
}

// newHost builds the output device named by cfg.Host.
func newHost(cfg Config, in *host.Input, overlay func(w, h int) string) (host.Host, error) {
	switch strings.ToLower(cfg.Host) {
	case "terminal", "":
		return &host.Terminal{FPS: cfg.FPS, Input: in, Overlay: overlay}, nil
	case "pixels":
		return &host.Pixels{FPS: cfg.FPS, Input: in}, nil
	case "window":
		return &host.Window{
			Title:  "glyph3d",
			Width:  cfg.Width,
			Height: cfg.Height,
			CellW:  cfg.CellW,
			CellH:  cfg.CellH,
			FPS:    cfg.FPS,
			Input:  in,
		}, nil
	default:
		return nil, fmt.Errorf("unknown host %q", cfg.Host)
	}
}
