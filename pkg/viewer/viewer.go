// Package viewer wires the globe scene, the interaction controller and the
// terminal front end into one single-goroutine application loop.
package viewer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fortio.org/log"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/taigrr/globe/pkg/config"
	"github.com/taigrr/globe/pkg/interaction"
	"github.com/taigrr/globe/pkg/models"
	"github.com/taigrr/globe/pkg/render"
	"github.com/taigrr/globe/pkg/scene"
	"github.com/taigrr/globe/pkg/term"
)

// zoomKeyDelta is the wheel delta sent for the +/- keys.
const zoomKeyDelta = 100

// Viewer owns every component of a running globe. All methods must be
// called from the loop goroutine.
type Viewer struct {
	cfg config.Config

	Globe    *scene.Globe
	Stars    *scene.Starfield
	Markers  *scene.Markers
	Ctrl     *interaction.Controller
	Surface  *term.Surface
	HUD      *term.HUD
	renderer *render.Renderer
	fb       *render.Framebuffer

	texture <-chan models.TextureResult
	frame   int
}

// New validates cfg and builds the scene. Marker catalogs are read here;
// the texture loads asynchronously once Start is called.
func New(cfg config.Config, now func() time.Time) (*Viewer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	globe, err := scene.NewGlobe(cfg.Globe)
	if err != nil {
		return nil, err
	}
	bg, err := render.ParseHex(cfg.UI.Background)
	if err != nil {
		return nil, fmt.Errorf("background colour: %w", err)
	}
	defs := scene.WorldCities()
	if cfg.Markers.Path != "" {
		defs, err = models.LoadMarkers(cfg.Markers.Path, cfg.Markers)
		if err != nil {
			return nil, err
		}
	}
	markers := scene.NewMarkers(cfg.Markers, cfg.Globe.Radius, cfg.FPS)
	markers.AddAll(defs)
	log.Infof("viewer: %d markers", markers.Len())

	renderer := render.NewRenderer(
		render.Camera{FOV: cfg.Camera.FOV, Distance: cfg.Camera.Distance},
		render.Light{Ambient: cfg.Lighting.Ambient, Directional: cfg.Lighting.Directional, Position: cfg.Lighting.Direction},
		bg,
	)
	return &Viewer{
		cfg:      cfg,
		Globe:    globe,
		Stars:    scene.NewStarfield(cfg.Stars),
		Markers:  markers,
		Ctrl:     interaction.New(cfg.Controls),
		Surface:  term.NewSurface(cfg.UI),
		HUD:      term.NewHUD(cfg.UI, now),
		renderer: renderer,
		fb:       render.NewFramebuffer(0, 0),
	}, nil
}

// Start enables the input surface, attaches the controller and kicks off
// the texture load. It returns the terminal mode sequence to write.
func (v *Viewer) Start(ctx context.Context) (string, error) {
	modes := v.Surface.Start()
	if err := v.Ctrl.Attach(v.Globe, v.Surface, v.HUD); err != nil {
		v.Surface.Stop()
		return "", fmt.Errorf("attach controller: %w", err)
	}
	if path := v.cfg.Globe.TexturePath; path != "" {
		v.HUD.Status = "loading texture..."
		v.texture = models.LoadTextureAsync(ctx, path)
	}
	v.HUD.Mode = v.Ctrl.Mode().String()
	return modes, nil
}

// Stop detaches the controller and returns the sequence restoring the
// terminal modes.
func (v *Viewer) Stop() string {
	v.Ctrl.Detach()
	return v.Surface.Stop()
}

// TextureLoaded returns the pending texture load, or nil once it finished.
func (v *Viewer) TextureLoaded() <-chan models.TextureResult { return v.texture }

// HandleTexture installs a finished texture load, falling back to the
// plain globe on error.
func (v *Viewer) HandleTexture(res models.TextureResult) {
	v.texture = nil
	v.HUD.Status = ""
	if res.Err != nil {
		v.Globe.TextureFailed(res.Err)
		v.HUD.Notify("Texture unavailable, showing a plain globe")
		return
	}
	log.Infof("viewer: texture %s %dx%d loaded in %v", res.Path, res.Texture.Width, res.Texture.Height, res.Elapsed)
	v.Globe.SetTexture(res.Texture)
}

// HandleEvent processes one terminal event and reports whether the viewer
// should quit.
func (v *Viewer) HandleEvent(ev uv.Event) bool {
	switch ev := ev.(type) {
	case uv.WindowSizeEvent:
		v.Resize(ev.Width, ev.Height)
	case uv.KeyPressEvent:
		return v.HandleKey(ev)
	default:
		v.Surface.Translate(ev)
	}
	return false
}

// HandleKey applies a key binding and reports whether the viewer should
// quit.
func (v *Viewer) HandleKey(k uv.KeyPressEvent) bool {
	switch {
	case k.MatchString("esc", "ctrl+c", "q"):
		return true
	case k.MatchString("space"):
		if v.Ctrl.ToggleAutoRotate() {
			v.HUD.Notify("Auto-rotation on")
		} else {
			v.HUD.Notify("Auto-rotation off")
		}
	case k.MatchString("r", "R"):
		v.Ctrl.ResetOrientation()
		v.Ctrl.ResetScale()
		v.HUD.Notify("View reset")
	case k.MatchString("+", "="):
		v.Ctrl.OnWheel(-zoomKeyDelta)
	case k.MatchString("-", "_"):
		v.Ctrl.OnWheel(zoomKeyDelta)
	case k.MatchString("?"):
		v.HUD.Visible = !v.HUD.Visible
	case k.MatchString("s"):
		if err := v.Snapshot(); err != nil {
			log.Warnf("viewer: %v", err)
			v.HUD.Notify("Snapshot failed")
		} else {
			v.HUD.Notify("Saved " + v.cfg.UI.SnapshotPath)
		}
	}
	return false
}

// Snapshot writes the last rendered frame to the configured PNG path.
func (v *Viewer) Snapshot() error {
	path := v.cfg.UI.SnapshotPath
	if path == "" {
		return errors.New("snapshot: no output path")
	}
	if err := v.fb.SavePNG(path); err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	log.Infof("viewer: saved %dx%d frame to %s", v.fb.Width, v.fb.Height, path)
	return nil
}

// Resize adapts the framebuffer to a terminal of cols x rows cells.
func (v *Viewer) Resize(cols, rows int) {
	w, h := term.FramebufferSize(cols, rows)
	v.fb.Resize(w, h)
	log.LogVf("viewer: resized to %dx%d cells", cols, rows)
}

// Step delivers queued input and advances the animation by one frame that
// took elapsed.
func (v *Viewer) Step(elapsed time.Duration) {
	v.Surface.Flush()
	if v.cfg.FrameIndependent {
		v.Ctrl.TickFor(elapsed)
		v.Stars.Advance(elapsed.Seconds() * float64(v.cfg.Controls.ReferenceFPS))
	} else {
		v.Ctrl.Tick()
		v.Stars.Tick()
	}
	v.Markers.Update()
	v.HUD.Mode = v.Ctrl.Mode().String()
	v.HUD.UpdateFPS()
	v.frame++
}

// Frames returns the number of steps taken.
func (v *Viewer) Frames() int { return v.frame }

// Framebuffer returns the buffer the last Draw rendered into.
func (v *Viewer) Framebuffer() *render.Framebuffer { return v.fb }

// Draw renders the scene and the HUD onto scr.
func (v *Viewer) Draw(scr uv.Screen) {
	v.renderer.Render(v.fb, render.Scene{
		Sphere:       v.Globe.Sphere(),
		Markers:      v.Markers.Render(),
		Stars:        v.Stars.Stars(),
		StarRotation: v.Stars.Rotation(),
		StarSpread:   v.Stars.Spread(),
	})
	term.Present(scr, v.fb)
	v.HUD.Draw(scr)
}
