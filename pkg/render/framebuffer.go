package render

import (
	"fmt"
	"image"
	"image/png"
	"math"
	"os"
)

// Framebuffer is a colour buffer with a depth buffer. Smaller depths are
// nearer to the camera.
type Framebuffer struct {
	Width, Height int
	Pixels        []Color
	Depth         []float64
}

// NewFramebuffer creates a cleared framebuffer.
func NewFramebuffer(width, height int) *Framebuffer {
	fb := &Framebuffer{}
	fb.Resize(width, height)
	return fb
}

// Resize reallocates the buffers when the size changes and clears them.
func (fb *Framebuffer) Resize(width, height int) {
	width, height = max(width, 0), max(height, 0)
	if width != fb.Width || height != fb.Height || fb.Pixels == nil {
		fb.Width, fb.Height = width, height
		fb.Pixels = make([]Color, width*height)
		fb.Depth = make([]float64, width*height)
	}
	fb.Clear(ColorBlack)
}

// Clear fills the colour buffer with c and resets depth to infinity.
func (fb *Framebuffer) Clear(c Color) {
	for i := range fb.Pixels {
		fb.Pixels[i] = c
		fb.Depth[i] = math.Inf(1)
	}
}

// SetPixel writes c at (x, y) ignoring depth.
func (fb *Framebuffer) SetPixel(x, y int, c Color) {
	if x < 0 || y < 0 || x >= fb.Width || y >= fb.Height {
		return
	}
	fb.Pixels[y*fb.Width+x] = c
}

// GetPixel returns the colour at (x, y), or black outside the buffer.
func (fb *Framebuffer) GetPixel(x, y int) Color {
	if x < 0 || y < 0 || x >= fb.Width || y >= fb.Height {
		return ColorBlack
	}
	return fb.Pixels[y*fb.Width+x]
}

// DepthAt returns the stored depth at (x, y).
func (fb *Framebuffer) DepthAt(x, y int) float64 {
	if x < 0 || y < 0 || x >= fb.Width || y >= fb.Height {
		return math.Inf(1)
	}
	return fb.Depth[y*fb.Width+x]
}

// SetPixelDepth writes c at (x, y) if depth is nearer than what is stored
// and reports whether it did.
func (fb *Framebuffer) SetPixelDepth(x, y int, depth float64, c Color) bool {
	if x < 0 || y < 0 || x >= fb.Width || y >= fb.Height {
		return false
	}
	i := y*fb.Width + x
	if depth >= fb.Depth[i] {
		return false
	}
	fb.Depth[i] = depth
	fb.Pixels[i] = c
	return true
}

// ToImage copies the colour buffer into an image.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := range fb.Height {
		for x := range fb.Width {
			c := fb.Pixels[y*fb.Width+x]
			off := img.PixOffset(x, y)
			img.Pix[off] = c.R
			img.Pix[off+1] = c.G
			img.Pix[off+2] = c.B
			img.Pix[off+3] = 255
		}
	}
	return img
}

// SavePNG writes the colour buffer to path.
func (fb *Framebuffer) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, fb.ToImage()); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
