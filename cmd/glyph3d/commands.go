package main

import (
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/klauspost/cpuid/v2"
	"github.com/spf13/cobra"

	"github.com/taigrr/glyph3d/pkg/host"
	"github.com/taigrr/glyph3d/pkg/models"
	"github.com/taigrr/glyph3d/pkg/render"
)

const (
	cubeHint = "+/- spin  r reset  t/x mode  h hud  esc quit"
	walkHint = "wasd move  space/shift up/down  t/x mode  h hud  esc quit"
)

func newRootCmd() *cobra.Command {
	cfg := loadConfig()

	root := &cobra.Command{
		Use:   "glyph3d",
		Short: "Software 3D rendering to console glyphs",
		Long: "glyph3d renders triangle meshes into a grid of shaded glyphs.\n" +
			"Settings can also be given as GLYPH3D_* environment variables.",
		SilenceUsage: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return setupLogger(cfg)
		},
	}
	bindFlags(root.PersistentFlags(), &cfg)

	root.AddCommand(
		newSceneCmd(&cfg, "cube", "Spin a mesh in front of the viewer", cubeHint),
		newSceneCmd(&cfg, "walk", "Walk through a field of cubes", walkHint),
		newSceneCmd(&cfg, "textured", "Orbit a textured mesh", walkHint),
		newSnapshotCmd(&cfg),
		newBenchCmd(&cfg),
		newSpriteCmd(),
	)
	return root
}

// newSceneCmd runs one scene on the configured host.
func newSceneCmd(cfg *Config, name, short, hint string) *cobra.Command {
	return &cobra.Command{
		Use:   name,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := host.NewInput(host.DefaultHold)
			scene, err := newScene(name, *cfg, in)
			if err != nil {
				return err
			}
			var overlay func(w, h int) string
			if cfg.HUD {
				overlay = newHUD(scene, hint, in).Overlay
			}
			h, err := newHost(*cfg, in, overlay)
			if err != nil {
				return err
			}
			return h.Run(cmd.Context(), scene)
		},
	}
}

// runHeadless renders frames of a scene into a fresh cell buffer, stepping
// time by one frame period each.
func runHeadless(scene sceneApp, cfg Config, frames int) (*render.CellBuffer, error) {
	buf := render.NewCellBuffer(cfg.Width, cfg.Height)
	if !scene.OnInit(buf) {
		return nil, host.ErrInit
	}
	dt := 1 / float64(max(cfg.FPS, 1))
	for range max(frames, 1) {
		if !scene.OnFrame(dt) {
			break
		}
	}
	return buf, nil
}

func newSnapshotCmd(cfg *Config) *cobra.Command {
	var (
		out    string
		frames int
		scaleX int
		scaleY int
	)
	cmd := &cobra.Command{
		Use:   "snapshot <scene>",
		Short: "Render a scene without a display and save it as PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scene, err := newScene(args[0], *cfg, nil)
			if err != nil {
				return err
			}
			buf, err := runHeadless(scene, *cfg, frames)
			if err != nil {
				return err
			}
			if err := buf.SavePNG(out, scaleX, scaleY); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%dx%d cells, %d triangles drawn)\n",
				out, buf.W, buf.H, scene.Renderer().Stats.Drawn)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "glyph3d.png", "PNG file to write")
	cmd.Flags().IntVar(&frames, "frames", 30, "frames to advance before saving")
	cmd.Flags().IntVar(&scaleX, "scale-x", 6, "pixels per cell, horizontally")
	cmd.Flags().IntVar(&scaleY, "scale-y", 12, "pixels per cell, vertically")
	return cmd
}

// benchResult is the timing of a headless run.
type benchResult struct {
	Frames  int
	Elapsed time.Duration
	Stats   render.Stats
}

func (b benchResult) perFrame() time.Duration {
	if b.Frames == 0 {
		return 0
	}
	return b.Elapsed / time.Duration(b.Frames)
}

func (b benchResult) fps() float64 {
	if b.Elapsed <= 0 {
		return 0
	}
	return float64(b.Frames) / b.Elapsed.Seconds()
}

// bench times frames of an initialized scene.
func bench(scene sceneApp, frames int, dt float64) benchResult {
	start := time.Now()
	n := 0
	for range frames {
		if !scene.OnFrame(dt) {
			break
		}
		n++
	}
	return benchResult{Frames: n, Elapsed: time.Since(start), Stats: scene.Renderer().Stats}
}

func printBench(w io.Writer, name string, cfg Config, res benchResult) {
	fmt.Fprintf(w, "cpu:        %s (%d cores, %d threads, GOMAXPROCS %d)\n",
		cpuid.CPU.BrandName, cpuid.CPU.PhysicalCores, cpuid.CPU.LogicalCores, runtime.GOMAXPROCS(0))
	fmt.Fprintf(w, "scene:      %s %dx%d %s\n", name, cfg.Width, cfg.Height, cfg.Mode)
	fmt.Fprintf(w, "frames:     %d in %s\n", res.Frames, res.Elapsed.Round(time.Millisecond))
	fmt.Fprintf(w, "per frame:  %s (%.1f fps)\n", res.perFrame(), res.fps())
	fmt.Fprintf(w, "last frame: %d triangles, %d drawn, %d back faces, %d near clipped\n",
		res.Stats.Triangles, res.Stats.Drawn, res.Stats.BackFaces, res.Stats.NearClipped)
}

func newBenchCmd(cfg *Config) *cobra.Command {
	var frames int
	cmd := &cobra.Command{
		Use:   "bench <scene>",
		Short: "Time headless rendering of a scene",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scene, err := newScene(args[0], *cfg, nil)
			if err != nil {
				return err
			}
			if !scene.OnInit(render.NewCellBuffer(cfg.Width, cfg.Height)) {
				return host.ErrInit
			}
			res := bench(scene, frames, 1/float64(max(cfg.FPS, 1)))
			printBench(cmd.OutOrStdout(), args[0], *cfg, res)
			return nil
		},
	}
	cmd.Flags().IntVar(&frames, "frames", 300, "frames to render")
	return cmd
}

func newSpriteCmd() *cobra.Command {
	var maxW, maxH int
	cmd := &cobra.Command{
		Use:   "sprite <image> <out.spr>",
		Short: "Convert a PNG, JPEG or BMP image into a sprite file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := render.LoadImageSprite(args[0], maxW, maxH)
			if err != nil {
				return err
			}
			if err := models.SaveSprite(args[1], s); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%dx%d)\n", args[1], s.W, s.H)
			return nil
		},
	}
	cmd.Flags().IntVar(&maxW, "max-w", spriteMaxSide, "largest sprite width")
	cmd.Flags().IntVar(&maxH, "max-h", spriteMaxSide, "largest sprite height")
	return cmd
}
