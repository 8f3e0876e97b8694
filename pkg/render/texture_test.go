package render

import (
	"image"
	"image/color"
	"testing"
)

func TestNewTexture(t *testing.T) {
	tex := NewTexture(64, 32)
	if tex.Width != 64 || tex.Height != 32 {
		t.Errorf("Expected 64x32, got %dx%d", tex.Width, tex.Height)
	}
	if len(tex.Pixels) != 64*32 {
		t.Errorf("Expected %d pixels, got %d", 64*32, len(tex.Pixels))
	}
	if tex.WrapU != WrapRepeat || tex.WrapV != WrapClamp {
		t.Errorf("Expected repeat/clamp wrapping for a world map, got %v/%v", tex.WrapU, tex.WrapV)
	}
}

func TestCheckerTexture(t *testing.T) {
	tex := NewCheckerTexture(64, 64, 8, ColorWhite, ColorBlack)
	if c := tex.GetPixel(4, 4); c != ColorWhite {
		t.Errorf("Expected white at (4,4), got %v", c)
	}
	if c := tex.GetPixel(12, 4); c != ColorBlack {
		t.Errorf("Expected black at (12,4), got %v", c)
	}
	if c := tex.GetPixel(12, 12); c != ColorWhite {
		t.Errorf("Expected white at (12,12), got %v", c)
	}
}

func TestTextureFromImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(10, 10, 13, 12))
	img.Set(10, 10, color.RGBA{R: 255, A: 255})
	img.Set(12, 11, color.RGBA{B: 255, A: 255})
	tex := TextureFromImage(img)
	if tex.Width != 3 || tex.Height != 2 {
		t.Fatalf("Expected 3x2, got %dx%d", tex.Width, tex.Height)
	}
	if c := tex.GetPixel(0, 0); c != ColorRed {
		t.Errorf("GetPixel(0,0) = %v, want red", c)
	}
	if c := tex.GetPixel(2, 1); c != ColorBlue {
		t.Errorf("GetPixel(2,1) = %v, want blue", c)
	}
}

func TestTextureSampleNearest(t *testing.T) {
	tex := NewTexture(2, 2)
	tex.SetPixel(0, 0, RGB(255, 0, 0))   // Red at top-left
	tex.SetPixel(1, 0, RGB(0, 255, 0))   // Green at top-right
	tex.SetPixel(0, 1, RGB(0, 0, 255))   // Blue at bottom-left
	tex.SetPixel(1, 1, RGB(255, 255, 0)) // Yellow at bottom-right
	tex.FilterMode = FilterNearest
	// V is flipped, so V=1 is image Y=0
	tests := []struct {
		u, v     float64
		expected Color
		name     string
	}{
		{0.01, 0.99, RGB(255, 0, 0), "top-left (red)"},
		{0.99, 0.99, RGB(0, 255, 0), "top-right (green)"},
		{0.01, 0.01, RGB(0, 0, 255), "bottom-left (blue)"},
		{0.99, 0.01, RGB(255, 255, 0), "bottom-right (yellow)"},
	}
	for _, tt := range tests {
		c := tex.Sample(tt.u, tt.v)
		if c != tt.expected {
			t.Errorf("Sample(%v, %v) = %v, want %v (%s)", tt.u, tt.v, c, tt.expected, tt.name)
		}
	}
}

func TestTextureSampleBilinear(t *testing.T) {
	tex := NewTexture(2, 1)
	tex.SetPixel(0, 0, ColorBlack)
	tex.SetPixel(1, 0, ColorWhite)
	tex.WrapU = WrapClamp
	// Halfway between the two texel centres.
	c := tex.Sample(0.5, 0.5)
	if c.R != 127 || c.G != 127 || c.B != 127 {
		t.Errorf("Sample(0.5, 0.5) = %v, want gray(127)", c)
	}
	if c := tex.Sample(0.25, 0.5); c != ColorBlack {
		t.Errorf("Sample at the black texel centre = %v", c)
	}
}

func TestTextureWrapRepeat(t *testing.T) {
	tex := NewTexture(2, 2)
	tex.SetPixel(0, 0, RGB(255, 0, 0))
	tex.WrapU = WrapRepeat
	tex.WrapV = WrapRepeat
	tex.FilterMode = FilterNearest
	// U=1.01 should wrap to U=0.01
	c1 := tex.Sample(0.01, 0.99)
	c2 := tex.Sample(1.01, 0.99)
	if c1 != c2 {
		t.Errorf("Wrap repeat failed: Sample(0.01, 0.99)=%v != Sample(1.01, 0.99)=%v", c1, c2)
	}
	c3 := tex.Sample(-0.99, 0.99)
	if c1 != c3 {
		t.Errorf("Wrap repeat failed for negative U: %v != %v", c1, c3)
	}
}

func TestTextureWrapClamp(t *testing.T) {
	tex := NewTexture(2, 2)
	tex.SetPixel(0, 0, RGB(255, 0, 0)) // Red top-left
	tex.SetPixel(1, 0, RGB(0, 255, 0)) // Green top-right
	tex.WrapU = WrapClamp
	tex.WrapV = WrapClamp
	tex.FilterMode = FilterNearest
	c := tex.Sample(-0.5, 0.99)
	if c != ColorRed {
		t.Errorf("Wrap clamp failed: Sample(-0.5, 0.99)=%v, want red", c)
	}
	c = tex.Sample(1.5, 0.99)
	if c != ColorGreen {
		t.Errorf("Wrap clamp failed: Sample(1.5, 0.99)=%v, want green", c)
	}
}

func TestMultiplyColor(t *testing.T) {
	c := RGB(200, 100, 50)
	result := MultiplyColor(c, 0.5)
	if result.R != 100 || result.G != 50 || result.B != 25 {
		t.Errorf("MultiplyColor failed: got %v", result)
	}
	result = MultiplyColor(c, 2.0)
	if result.R != 255 {
		t.Errorf("MultiplyColor should clamp to 255, got %d", result.R)
	}
}

func TestModulateColor(t *testing.T) {
	red := RGB(255, 0, 0)
	if result := ModulateColor(ColorWhite, red); result != red {
		t.Errorf("ModulateColor(white, red) = %v, want %v", result, red)
	}
	half := RGB(128, 128, 128)
	result := ModulateColor(half, ColorWhite)
	if result.R != 128 || result.G != 128 || result.B != 128 {
		t.Errorf("ModulateColor(half, white) = %v, want gray", result)
	}
}

func TestLerpColor(t *testing.T) {
	mid := lerpColor(ColorBlack, ColorWhite, 0.5)
	if mid.R != 127 || mid.G != 127 || mid.B != 127 {
		t.Errorf("lerpColor midpoint = %v, want gray(127)", mid)
	}
	if start := lerpColor(ColorBlack, ColorWhite, 0.0); start != ColorBlack {
		t.Errorf("lerpColor(0.0) = %v, want black", start)
	}
	if end := lerpColor(ColorBlack, ColorWhite, 1.0); end != ColorWhite {
		t.Errorf("lerpColor(1.0) = %v, want white", end)
	}
}

func TestBlendEndpoints(t *testing.T) {
	cyan := RGB(0, 255, 255)
	if c := Blend(cyan, ColorWhite, 0); c != cyan {
		t.Errorf("Blend(t=0) = %v, want %v", c, cyan)
	}
	if c := Blend(cyan, ColorWhite, 1); c != ColorWhite {
		t.Errorf("Blend(t=1) = %v, want white", c)
	}
	mid := Blend(ColorBlack, ColorWhite, 0.5)
	if mid.R < 64 || mid.R > 192 || absDiff(mid.R, mid.G) > 1 || absDiff(mid.G, mid.B) > 1 {
		t.Errorf("Blend midpoint = %v, want a neutral gray", mid)
	}
}

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#2194ce")
	if err != nil {
		t.Fatalf("ParseHex: %v", err)
	}
	if c != RGB(0x21, 0x94, 0xce) {
		t.Errorf("ParseHex = %v", c)
	}
	if got := c.Hex(); got != "#2194ce" {
		t.Errorf("Hex() = %q", got)
	}
	if _, err := ParseHex("blue"); err == nil {
		t.Error("ParseHex(\"blue\") succeeded")
	}
}

func absDiff(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}
