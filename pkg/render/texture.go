package render

import (
	"image"
	"math"
)

// FilterMode selects how Sample reconstructs colours between texels.
type FilterMode int

const (
	FilterBilinear FilterMode = iota
	FilterNearest
)

// WrapMode selects how Sample treats coordinates outside [0, 1].
type WrapMode int

const (
	WrapRepeat WrapMode = iota
	WrapClamp
)

// Texture is an RGB image sampled with UV coordinates. V grows upward, so
// V=1 is the first image row.
type Texture struct {
	Width, Height int
	Pixels        []Color
	FilterMode    FilterMode
	WrapU, WrapV  WrapMode
}

// NewTexture creates a black texture that repeats horizontally and clamps
// vertically, the layout of an equirectangular map.
func NewTexture(width, height int) *Texture {
	return &Texture{
		Width:  width,
		Height: height,
		Pixels: make([]Color, width*height),
		WrapU:  WrapRepeat,
		WrapV:  WrapClamp,
	}
}

// NewCheckerTexture creates a checkerboard of cell-sized squares, a first
// and b alternating.
func NewCheckerTexture(width, height, cell int, a, b Color) *Texture {
	tex := NewTexture(width, height)
	if cell <= 0 {
		cell = 1
	}
	for y := range height {
		for x := range width {
			c := a
			if (x/cell+y/cell)%2 == 1 {
				c = b
			}
			tex.Pixels[y*width+x] = c
		}
	}
	return tex
}

// TextureFromImage copies img into a new texture.
func TextureFromImage(img image.Image) *Texture {
	bounds := img.Bounds()
	tex := NewTexture(bounds.Dx(), bounds.Dy())
	for y := range tex.Height {
		for x := range tex.Width {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			tex.Pixels[y*tex.Width+x] = Color{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)}
		}
	}
	return tex
}

// GetPixel returns the texel at (x, y), or black outside the texture.
func (t *Texture) GetPixel(x, y int) Color {
	if x < 0 || y < 0 || x >= t.Width || y >= t.Height {
		return ColorBlack
	}
	return t.Pixels[y*t.Width+x]
}

// SetPixel sets the texel at (x, y). Out of range writes are ignored.
func (t *Texture) SetPixel(x, y int, c Color) {
	if x < 0 || y < 0 || x >= t.Width || y >= t.Height {
		return
	}
	t.Pixels[y*t.Width+x] = c
}

// Sample returns the colour at (u, v).
func (t *Texture) Sample(u, v float64) Color {
	if t.Width == 0 || t.Height == 0 {
		return ColorBlack
	}
	if t.FilterMode == FilterNearest {
		x := texelIndex(u*float64(t.Width), t.Width, t.WrapU)
		y := texelIndex((1-v)*float64(t.Height), t.Height, t.WrapV)
		return t.Pixels[y*t.Width+x]
	}
	fx := u*float64(t.Width) - 0.5
	fy := (1-v)*float64(t.Height) - 0.5
	if t.WrapU == WrapRepeat {
		fx = wrapCoord(fx, t.Width)
	}
	if t.WrapV == WrapRepeat {
		fy = wrapCoord(fy, t.Height)
	}
	x0, y0 := math.Floor(fx), math.Floor(fy)
	tx, ty := fx-x0, fy-y0
	ix0 := texelIndex(x0, t.Width, t.WrapU)
	ix1 := texelIndex(x0+1, t.Width, t.WrapU)
	iy0 := texelIndex(y0, t.Height, t.WrapV)
	iy1 := texelIndex(y0+1, t.Height, t.WrapV)
	top := lerpColor(t.Pixels[iy0*t.Width+ix0], t.Pixels[iy0*t.Width+ix1], tx)
	bottom := lerpColor(t.Pixels[iy1*t.Width+ix0], t.Pixels[iy1*t.Width+ix1], tx)
	return lerpColor(top, bottom, ty)
}

// texelIndex maps a continuous texel coordinate to an index in [0, n).
func texelIndex(f float64, n int, mode WrapMode) int {
	i := int(math.Floor(f))
	if mode == WrapRepeat {
		i %= n
		if i < 0 {
			i += n
		}
		return i
	}
	return min(max(i, 0), n-1)
}

func wrapCoord(f float64, n int) float64 {
	size := float64(n)
	f = math.Mod(f, size)
	if f < 0 {
		f += size
	}
	return f
}
