package main

import (
	"fmt"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/taigrr/glyph3d/pkg/host"
)

var (
	hudFPS   = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	hudTitle = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true)
	hudStats = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	hudHint  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Faint(true)
)

// hud is the status line drawn on the bottom row of the terminal. The h
// key hides and shows it.
type hud struct {
	scene  sceneApp
	hint   string
	keys   *keyEdges
	hidden bool

	fps    float64
	frames int
	since  time.Time
	now    func() time.Time
}

func newHUD(scene sceneApp, hint string, in *host.Input) *hud {
	return &hud{scene: scene, hint: hint, keys: newKeyEdges(in), since: time.Now(), now: time.Now}
}

// tick counts a frame and refreshes the rate once a second.
func (h *hud) tick() {
	h.frames++
	now := h.now()
	if elapsed := now.Sub(h.since); elapsed >= time.Second {
		h.fps = float64(h.frames) / elapsed.Seconds()
		h.frames = 0
		h.since = now
	}
}

// line returns the styled status text, cut to width cells.
func (h *hud) line(width int) string {
	r := h.scene.Renderer()
	st := r.Stats
	text := hudFPS.Render(fmt.Sprintf(" %.0f FPS ", h.fps)) +
		hudTitle.Render(h.scene.Title()+" ") +
		hudStats.Render(fmt.Sprintf("%s  %d/%d tris  %d culled ", r.Mode, st.Drawn, st.Triangles, st.MeshesCulled)) +
		hudHint.Render(h.hint)
	return ansi.Truncate(text, width, "")
}

// Overlay draws the status line on the last row. It is called once per
// displayed frame.
func (h *hud) Overlay(width, height int) string {
	h.tick()
	toggled := h.keys.pressed("h")
	if toggled {
		h.hidden = !h.hidden
	}
	if width <= 0 || height <= 0 {
		return ""
	}
	if h.hidden {
		if toggled {
			return ansi.CursorPosition(1, height) + ansi.EraseEntireLine
		}
		return ""
	}
	return ansi.CursorPosition(1, height) + ansi.EraseEntireLine + h.line(width)
}
