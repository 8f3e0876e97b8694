package term

import (
	"fmt"
	"image/color"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/taigrr/globe/pkg/config"
	"github.com/taigrr/globe/pkg/interaction"
	"github.com/taigrr/globe/pkg/render"
)

// Zoom readout colours: zoomed in, zoomed out, and at rest.
var (
	zoomInColor  = render.RGB(0x00, 0xd4, 0xff)
	zoomOutColor = render.RGB(0xff, 0x99, 0x00)
	textColor    = render.ColorWhite
	dimColor     = render.RGB(0x88, 0x88, 0x88)
)

const helpLine = "drag rotate  wheel zoom  space spin  r reset  s snapshot  ? hud  esc quit"

// HUD is the text overlay: frame rate, zoom readout, controller mode and
// transient notifications. It is the controller's DisplaySink.
type HUD struct {
	cfg config.UI
	now func() time.Time

	Visible bool
	Mode    string
	Status  string

	zoom   int
	zoomAt time.Time

	notice   string
	noticeAt time.Time

	fps       float64
	fpsFrames int
	fpsTime   time.Time
}

var _ interaction.DisplaySink = (*HUD)(nil)

// NewHUD creates a HUD reading the time from now, or time.Now when nil.
func NewHUD(cfg config.UI, now func() time.Time) *HUD {
	if now == nil {
		now = time.Now
	}
	return &HUD{
		cfg:     cfg,
		now:     now,
		Visible: cfg.ShowHUD,
		zoom:    100,
		fpsTime: now(),
	}
}

// SetZoomPercentage updates the readout and starts its colour flash.
func (h *HUD) SetZoomPercentage(percent int) {
	h.zoom = percent
	h.zoomAt = h.now()
}

func (h *HUD) Zoom() int { return h.zoom }

// ZoomColor is cyan when zoomed in and orange when zoomed out, fading to
// white over the flash duration.
func (h *HUD) ZoomColor() render.Color {
	var flash render.Color
	switch {
	case h.zoom > 100:
		flash = zoomInColor
	case h.zoom < 100:
		flash = zoomOutColor
	default:
		return textColor
	}
	if h.cfg.ZoomFlash <= 0 {
		return textColor
	}
	t := float64(h.now().Sub(h.zoomAt)) / float64(h.cfg.ZoomFlash)
	return render.Blend(flash, textColor, t)
}

// Notify shows msg for the configured notification duration.
func (h *HUD) Notify(msg string) {
	h.notice = msg
	h.noticeAt = h.now()
}

// Notification returns the message still on screen, if any.
func (h *HUD) Notification() (string, bool) {
	if h.notice == "" || h.now().Sub(h.noticeAt) >= h.cfg.NotificationDuration {
		return "", false
	}
	return h.notice, true
}

// UpdateFPS counts a frame; the rate is refreshed once a second.
func (h *HUD) UpdateFPS() {
	h.fpsFrames++
	now := h.now()
	elapsed := now.Sub(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = now
	}
}

func (h *HUD) FPS() float64 { return h.fps }

// Draw writes the overlay onto scr. Notifications show even when the HUD is
// hidden.
func (h *HUD) Draw(scr uv.Screen) {
	area := scr.Bounds()
	w, bottom := area.Dx(), area.Dy()-1
	if msg, ok := h.Notification(); ok {
		drawText(scr, w-len([]rune(msg))-1, 1, msg, textColor)
	}
	if !h.Visible {
		return
	}
	drawText(scr, 0, 0, fmt.Sprintf("%.0f FPS", h.fps), textColor)
	zoom := fmt.Sprintf("%d%%", h.zoom)
	drawText(scr, w-len(zoom)-1, 0, zoom, h.ZoomColor())
	if h.Status != "" {
		drawText(scr, (w-len([]rune(h.Status)))/2, 0, h.Status, dimColor)
	}
	if bottom > 0 {
		drawText(scr, 0, bottom, h.Mode, textColor)
		drawText(scr, w-len(helpLine), bottom, helpLine, dimColor)
	}
}

// drawText writes s starting at (x, y), keeping the background of the cells
// it covers. Runes off screen are clipped.
func drawText(scr uv.Screen, x, y int, s string, fg color.Color) {
	area := scr.Bounds()
	if y < area.Min.Y || y >= area.Max.Y {
		return
	}
	for _, r := range s {
		if x >= area.Max.X {
			return
		}
		if x >= area.Min.X {
			var bg color.Color
			if under := scr.CellAt(x, y); under != nil {
				bg = under.Style.Bg
			}
			scr.SetCell(x, y, &uv.Cell{
				Content: string(r),
				Width:   1,
				Style:   uv.Style{Fg: fg, Bg: bg},
			})
		}
		x++
	}
}
