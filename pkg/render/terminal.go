package render

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// Draw paints the framebuffer into area using upper half blocks: each cell
// takes its foreground from an even pixel row and its background from the
// odd row below it.
func (fb *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	for row := area.Min.Y; row < area.Max.Y; row++ {
		top := (row - area.Min.Y) * 2
		for col := area.Min.X; col < area.Max.X; col++ {
			x := col - area.Min.X
			if x >= fb.Width {
				break
			}
			scr.SetCell(col, row, &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: cellColor(fb.GetPixel(x, top)),
					Bg: cellColor(fb.GetPixel(x, top+1)),
				},
			})
		}
	}
}

// cellColor maps transparent pixels to the terminal default color.
func cellColor(c color.RGBA) color.Color {
	if c.A == 0 {
		return nil
	}
	return c
}

// Color is an alias for color.RGBA for convenience.
type Color = color.RGBA

// RGB creates an opaque color.
func RGB(r, g, b uint8) Color {
	return Color{r, g, b, 255}
}

// Display is the part of a terminal the renderer draws on.
// *uv.Terminal satisfies it.
type Display interface {
	uv.Screen
	Display() error
}

// TerminalRenderer presents framebuffers on a terminal screen.
type TerminalRenderer struct {
	out           Display
	width, height int
}

// NewTerminalRenderer returns a renderer for a width x height cell screen.
func NewTerminalRenderer(out Display, width, height int) *TerminalRenderer {
	return &TerminalRenderer{out: out, width: width, height: height}
}

// FramebufferSize returns the pixel size that exactly covers the screen.
func (t *TerminalRenderer) FramebufferSize() (width, height int) {
	return t.width, t.height * 2
}

// Render draws fb over the whole screen. Nothing reaches the terminal
// until Flush.
func (t *TerminalRenderer) Render(fb *Framebuffer) {
	fb.Draw(t.out, uv.Rect(0, 0, t.width, t.height))
}

// Flush writes the pending frame to the terminal.
func (t *TerminalRenderer) Flush() error {
	return t.out.Display()
}
