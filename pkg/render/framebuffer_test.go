package render

import (
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestFramebufferSavePNG(t *testing.T) {
	fb := NewFramebuffer(100, 50)
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			fb.SetPixel(x, y, RGB(uint8(x*2), uint8(y*4), 128))
		}
	}

	path := filepath.Join(t.TempDir(), "frame.png")
	if err := fb.SavePNG(path); err != nil {
		t.Fatalf("SavePNG failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("File not created: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if img.Bounds().Dx() != 100 || img.Bounds().Dy() != 50 {
		t.Errorf("Decoded size %v", img.Bounds())
	}
	r, g, b, _ := img.At(10, 5).RGBA()
	if r>>8 != 20 || g>>8 != 20 || b>>8 != 128 {
		t.Errorf("Pixel (10,5) = %d,%d,%d", r>>8, g>>8, b>>8)
	}
}

func TestFramebufferSavePNGBadPath(t *testing.T) {
	fb := NewFramebuffer(2, 2)
	if err := fb.SavePNG(filepath.Join(t.TempDir(), "missing", "x.png")); err == nil {
		t.Fatal("SavePNG into a missing directory succeeded")
	}
}

func TestFramebufferToImage(t *testing.T) {
	fb := NewFramebuffer(50, 50)
	fb.SetPixel(10, 20, ColorRed)
	fb.SetPixel(30, 40, ColorGreen)

	img := fb.ToImage()

	if img.Bounds().Dx() != 50 || img.Bounds().Dy() != 50 {
		t.Errorf("Image dimensions wrong: got %dx%d", img.Bounds().Dx(), img.Bounds().Dy())
	}

	r, g, b, a := img.At(10, 20).RGBA()
	if r>>8 != 255 || g>>8 != 0 || b>>8 != 0 {
		t.Errorf("Red pixel wrong: got %d,%d,%d,%d", r>>8, g>>8, b>>8, a>>8)
	}

	r, g, b, a = img.At(30, 40).RGBA()
	if r>>8 != 0 || g>>8 != 255 || b>>8 != 0 {
		t.Errorf("Green pixel wrong: got %d,%d,%d,%d", r>>8, g>>8, b>>8, a>>8)
	}
}

func TestFramebufferDepthTest(t *testing.T) {
	fb := NewFramebuffer(4, 4)
	if !fb.SetPixelDepth(1, 1, 10, ColorRed) {
		t.Fatal("first write rejected")
	}
	if fb.SetPixelDepth(1, 1, 20, ColorGreen) {
		t.Error("farther write accepted")
	}
	if !fb.SetPixelDepth(1, 1, 5, ColorBlue) {
		t.Error("nearer write rejected")
	}
	if c := fb.GetPixel(1, 1); c != ColorBlue {
		t.Errorf("GetPixel = %v, want blue", c)
	}
	if fb.SetPixelDepth(-1, 9, 0, ColorWhite) {
		t.Error("out of bounds write accepted")
	}

	fb.Clear(ColorWhite)
	if d := fb.DepthAt(1, 1); !math.IsInf(d, 1) {
		t.Errorf("depth after Clear = %v, want +Inf", d)
	}
	if c := fb.GetPixel(3, 3); c != ColorWhite {
		t.Errorf("GetPixel after Clear = %v", c)
	}
}

func TestFramebufferResize(t *testing.T) {
	fb := NewFramebuffer(4, 4)
	fb.SetPixel(0, 0, ColorRed)
	fb.Resize(8, 2)
	if fb.Width != 8 || fb.Height != 2 || len(fb.Pixels) != 16 || len(fb.Depth) != 16 {
		t.Fatalf("Resize gave %dx%d with %d pixels", fb.Width, fb.Height, len(fb.Pixels))
	}
	if c := fb.GetPixel(0, 0); c != ColorBlack {
		t.Errorf("Resize did not clear: %v", c)
	}
	fb.Resize(-3, 2)
	if fb.Width != 0 || len(fb.Pixels) != 0 {
		t.Errorf("negative width gave %d pixels", len(fb.Pixels))
	}
}
