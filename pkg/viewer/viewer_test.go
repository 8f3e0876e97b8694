package viewer

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/taigrr/globe/pkg/config"
	"github.com/taigrr/globe/pkg/input"
	"github.com/taigrr/globe/pkg/interaction"
	"github.com/taigrr/globe/pkg/models"
	"github.com/taigrr/globe/pkg/relay"
	"github.com/taigrr/globe/pkg/render"
)

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Stars.Count = 50
	return cfg
}

func started(t *testing.T, cfg config.Config) *Viewer {
	t.Helper()
	clk := time.Unix(1000, 0)
	v, err := New(cfg, func() time.Time { return clk })
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := v.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	v.Resize(40, 12)
	return v
}

func key(code rune, text string) uv.KeyPressEvent {
	return uv.KeyPressEvent{Code: code, Text: text}
}

func TestNewRejectsBadConfig(t *testing.T) {
	cfg := testConfig()
	cfg.FPS = 0
	if _, err := New(cfg, nil); err == nil {
		t.Error("New accepted fps 0")
	}
	cfg = testConfig()
	cfg.Markers.Path = filepath.Join(t.TempDir(), "missing.json")
	if _, err := New(cfg, nil); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing marker catalog: %v", err)
	}
}

func TestKeys(t *testing.T) {
	v := started(t, testConfig())
	if !v.Ctrl.State().AutoRotate {
		t.Fatal("auto-rotation should start on")
	}
	v.HandleKey(key(uv.KeySpace, " "))
	if v.Ctrl.State().AutoRotate {
		t.Error("space did not toggle auto-rotation")
	}
	if msg, ok := v.HUD.Notification(); !ok || msg != "Auto-rotation off" {
		t.Errorf("notification = %q", msg)
	}

	v.HandleKey(key('+', "+"))
	if v.Globe.Scale() <= 1 || v.HUD.Zoom() != 110 {
		t.Errorf("+ left scale %v, readout %d", v.Globe.Scale(), v.HUD.Zoom())
	}
	v.HandleKey(key('-', "-"))
	v.HandleKey(key('-', "-"))
	if v.Globe.Scale() >= 1 {
		t.Errorf("- left scale %v", v.Globe.Scale())
	}

	v.Globe.SetOrientation(0.4, 2)
	v.HandleKey(key('r', "r"))
	if p, y := v.Globe.Orientation(); p != 0 || y != 0 || v.Globe.Scale() != 1 {
		t.Errorf("reset left pose (%v, %v) scale %v", p, y, v.Globe.Scale())
	}
	if msg, _ := v.HUD.Notification(); msg != "View reset" {
		t.Errorf("notification = %q", msg)
	}

	visible := v.HUD.Visible
	v.HandleKey(key('?', "?"))
	if v.HUD.Visible == visible {
		t.Error("? did not toggle the HUD")
	}
}

func TestQuitKeys(t *testing.T) {
	v := started(t, testConfig())
	for _, k := range []uv.KeyPressEvent{
		{Code: uv.KeyEscape},
		{Code: 'c', Mod: uv.ModCtrl},
	} {
		if !v.HandleEvent(k) {
			t.Errorf("%v did not quit", k)
		}
	}
	if v.HandleEvent(key('x', "x")) {
		t.Error("x quit the viewer")
	}
}

func TestMouseDragRotatesGlobe(t *testing.T) {
	cfg := testConfig()
	cfg.Controls.AutoRotate = false
	v := started(t, cfg)
	v.HandleEvent(uv.MouseClickEvent{X: 10, Y: 5, Button: uv.MouseLeft})
	v.HandleEvent(uv.MouseMotionEvent{X: 14, Y: 5, Button: uv.MouseLeft})
	if _, yaw := v.Globe.Orientation(); yaw != 0 {
		t.Fatal("input applied before the frame step")
	}
	v.Step(cfg.FrameInterval())
	_, yaw := v.Globe.Orientation()
	if want := 4 * cfg.UI.CellWidth * cfg.Controls.RotateGain; yaw != want {
		t.Errorf("yaw = %v, want %v", yaw, want)
	}
	v.HandleEvent(uv.MouseReleaseEvent{X: 14, Y: 5, Button: uv.MouseLeft})
	v.Step(cfg.FrameInterval())
	if _, after := v.Globe.Orientation(); after <= yaw {
		t.Error("no momentum after release")
	}
}

func TestStepAdvancesScene(t *testing.T) {
	v := started(t, testConfig())
	v.Step(time.Second / 30)
	if _, yaw := v.Globe.Orientation(); yaw != v.cfg.Controls.AutoRotateSpeed {
		t.Errorf("yaw after one tick = %v", yaw)
	}
	if v.Stars.Yaw() != v.cfg.Stars.RotationSpeed {
		t.Errorf("stars yaw = %v", v.Stars.Yaw())
	}
	if v.HUD.Mode != "auto-rotate" || v.Frames() != 1 {
		t.Errorf("mode %q frames %d", v.HUD.Mode, v.Frames())
	}
}

func TestFrameIndependentStep(t *testing.T) {
	cfg := testConfig()
	cfg.FrameIndependent = true
	v := started(t, cfg)
	v.Step(time.Second / 30)
	_, yaw := v.Globe.Orientation()
	if want := 2 * cfg.Controls.AutoRotateSpeed; yaw < want*0.999 || yaw > want*1.001 {
		t.Errorf("yaw after 1/30 s = %v, want %v", yaw, want)
	}
}

func TestDrawPaintsGlobe(t *testing.T) {
	v := started(t, testConfig())
	v.Step(time.Second / 30)
	scr := uv.NewScreenBuffer(40, 12)
	v.Draw(scr)
	fb := v.Framebuffer()
	if fb.Width != 40 || fb.Height != 24 {
		t.Fatalf("framebuffer %dx%d", fb.Width, fb.Height)
	}
	if d := fb.DepthAt(20, 12); d > v.cfg.Camera.Distance {
		t.Errorf("centre depth %v: globe missing", d)
	}
	cell := scr.CellAt(20, 6)
	if cell.Style.Fg != fb.GetPixel(20, 12) {
		t.Errorf("cell colour %v does not match the framebuffer", cell.Style.Fg)
	}
}

func TestTextureFailureFallsBack(t *testing.T) {
	cfg := testConfig()
	cfg.Globe.TexturePath = filepath.Join(t.TempDir(), "missing.png")
	v := started(t, cfg)
	if v.Globe.Ready() || v.HUD.Status == "" {
		t.Fatal("globe should be loading")
	}
	var res models.TextureResult
	select {
	case res = <-v.TextureLoaded():
	case <-time.After(5 * time.Second):
		t.Fatal("texture load never finished")
	}
	v.HandleTexture(res)
	if !v.Globe.Ready() || v.Globe.Textured() {
		t.Error("failed load did not leave a plain ready globe")
	}
	if v.TextureLoaded() != nil {
		t.Error("texture channel kept after completion")
	}
	if _, ok := v.HUD.Notification(); !ok {
		t.Error("failure was not announced")
	}
}

func TestTextureLoads(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 4))
	for i := range img.Pix {
		img.Pix[i] = 200
	}
	img.Set(0, 0, color.RGBA{G: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "earth.png")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := testConfig()
	cfg.Globe.TexturePath = path
	v := started(t, cfg)
	v.HandleKey(key('+', "+"))
	if v.Globe.Scale() != 1 {
		t.Error("zoom applied while the texture loads")
	}
	v.HandleTexture(<-v.TextureLoaded())
	if !v.Globe.Textured() || v.Globe.Sphere().Texture.GetPixel(0, 0) != render.RGB(0, 255, 0) {
		t.Error("texture not installed")
	}
	v.HandleKey(key('+', "+"))
	if v.Globe.Scale() <= 1 {
		t.Error("zoom ignored once ready")
	}
}

func TestStopDetaches(t *testing.T) {
	v := started(t, testConfig())
	if modes := v.Stop(); modes == "" {
		t.Error("Stop returned no restore sequence")
	}
	if v.Ctrl.Attached() {
		t.Error("controller still attached")
	}
	if err := v.Ctrl.Attach(v.Globe, v.Surface, v.HUD); !errors.Is(err, interaction.ErrSurfaceUnavailable) {
		t.Errorf("attach to a stopped surface = %v", err)
	}
}

func TestSnapshotKey(t *testing.T) {
	cfg := testConfig()
	cfg.UI.SnapshotPath = filepath.Join(t.TempDir(), "frame.png")
	v := started(t, cfg)
	v.Step(time.Second / 30)
	v.Draw(uv.NewScreenBuffer(40, 12))
	v.HandleKey(key('s', "s"))
	if msg, _ := v.HUD.Notification(); msg != "Saved "+cfg.UI.SnapshotPath {
		t.Errorf("notification = %q", msg)
	}
	f, err := os.Open(cfg.UI.SnapshotPath)
	if err != nil {
		t.Fatalf("snapshot not written: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 40 || b.Dy() != 24 {
		t.Errorf("snapshot is %dx%d, want 40x24", b.Dx(), b.Dy())
	}

	v.cfg.UI.SnapshotPath = filepath.Join(t.TempDir(), "missing", "frame.png")
	v.HandleKey(key('s', "s"))
	if msg, _ := v.HUD.Notification(); msg != "Snapshot failed" {
		t.Errorf("notification after a failed save = %q", msg)
	}
	v.cfg.UI.SnapshotPath = ""
	if err := v.Snapshot(); err == nil {
		t.Error("Snapshot with no path succeeded")
	}
}

func TestRelayDrivesController(t *testing.T) {
	v := started(t, testConfig())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	srv := relay.New(config.Relay{Addr: "127.0.0.1:0"})
	if _, err := srv.Listen(ctx); err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer srv.Close()
	if err := v.Ctrl.AddSurface(srv); err != nil {
		t.Fatalf("AddSurface: %v", err)
	}
	srv.Dispatch(input.Event{Kind: input.KindWheel, DeltaY: -1})
	if v.HUD.Zoom() != 110 {
		t.Errorf("zoom after a relay wheel event = %d, want 110", v.HUD.Zoom())
	}
	v.Stop()
	if srv.Len() != 0 {
		t.Errorf("relay keeps %d listeners after Stop", srv.Len())
	}
}
