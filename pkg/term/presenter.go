package term

import (
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/taigrr/globe/pkg/render"
)

// upperHalf is drawn with the top pixel as foreground and the bottom pixel
// as background, giving two square pixels per terminal cell.
const upperHalf = "▀"

// FramebufferSize returns the framebuffer dimensions for a terminal of
// cols x rows cells.
func FramebufferSize(cols, rows int) (width, height int) {
	return max(cols, 0), 2 * max(rows, 0)
}

// Present paints fb onto scr, two framebuffer rows per cell row. Cells
// outside scr's bounds are skipped.
func Present(scr uv.Screen, fb *render.Framebuffer) {
	area := scr.Bounds()
	rows := (fb.Height + 1) / 2
	for row := range min(rows, area.Dy()) {
		for x := range min(fb.Width, area.Dx()) {
			top := fb.GetPixel(x, 2*row)
			bottom := fb.GetPixel(x, 2*row+1)
			scr.SetCell(area.Min.X+x, area.Min.Y+row, &uv.Cell{
				Content: upperHalf,
				Width:   1,
				Style:   uv.Style{Fg: top, Bg: bottom},
			})
		}
	}
}
