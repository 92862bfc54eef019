// glyph3d - software 3D rendering to console glyphs
//
// Scenes:
//
//	cube      - spinning mesh lit head on, +/- change the spin
//	walk      - first-person walk through a field of cubes
//	textured  - textured mesh orbiting the origin, depth buffered
//
// Controls (walk and textured):
//
//	W/S, Up/Down     - Move forward/back
//	A/D, Left/Right  - Turn left/right
//	Space            - Move up
//	Shift or C       - Move down
//	Esc, Ctrl+C      - Quit
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/fang"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := fang.Execute(ctx, newRootCmd())
	stop()
	if err != nil {
		os.Exit(1)
	}
}
