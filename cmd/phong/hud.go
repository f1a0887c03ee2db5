package main

import (
	"fmt"
	"image/color"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/charmbracelet/x/ansi"
)

var (
	hudBg    = color.RGBA{0, 0, 0, 255}
	hudFPS   = uv.Style{Fg: color.RGBA{80, 250, 120, 255}, Bg: hudBg}
	hudTitle = uv.Style{Fg: color.RGBA{255, 255, 255, 255}, Bg: hudBg, Attrs: uv.AttrBold}
	hudCount = uv.Style{Fg: color.RGBA{90, 220, 250, 255}, Bg: hudBg, Attrs: uv.AttrBold}
	hudModes = uv.Style{Fg: color.RGBA{255, 255, 255, 255}, Bg: hudBg}
)

// HUD is the overlay with frame rate, model name and toggles.
type HUD struct {
	name      string
	triangles int

	fps       float64
	fpsFrames int
	fpsTime   time.Time
}

// NewHUD returns a HUD for a model.
func NewHUD(name string, triangles int) *HUD {
	return &HUD{name: name, triangles: triangles, fpsTime: time.Now()}
}

// UpdateFPS counts a frame. Call it once per frame.
func (h *HUD) UpdateFPS(now time.Time) {
	h.fpsFrames++
	if elapsed := now.Sub(h.fpsTime); elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = now
	}
}

// Draw paints the top and bottom rows of a width x height screen.
func (h *HUD) Draw(scr uv.Screen, width, height int, v *viewer) {
	drawText(scr, 0, 0, fmt.Sprintf(" %.0f FPS ", h.fps), hudFPS)

	title := " " + h.name + " "
	drawText(scr, max((width-ansi.StringWidth(title))/2, 0), 0, title, hudTitle)

	count := fmt.Sprintf(" %d tris ", h.triangles)
	drawText(scr, max(width-ansi.StringWidth(count), 0), 0, count, hudCount)

	modes := fmt.Sprintf(" M: %s  %s X-ray (wireframe) ", v.mode, checkbox(v.wireframe))
	drawText(scr, 0, height-1, modes, hudModes)
}

func checkbox(on bool) string {
	if on {
		return "[✓]"
	}
	return "[ ]"
}

// drawText writes s one cell per rune starting at (x, y), clipped to the
// screen bounds.
func drawText(scr uv.Screen, x, y int, s string, style uv.Style) {
	bounds := scr.Bounds()
	if y < bounds.Min.Y || y >= bounds.Max.Y {
		return
	}
	for _, r := range s {
		if x >= bounds.Max.X {
			return
		}
		if x >= bounds.Min.X {
			scr.SetCell(x, y, &uv.Cell{Content: string(r), Width: 1, Style: style})
		}
		x++
	}
}
