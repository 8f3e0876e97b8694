// Package render draws the globe scene into a software framebuffer: a lit,
// textured sphere traced per pixel, a projected starfield behind it and
// marker discs on its surface.
package render

import (
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is an opaque 8-bit RGB colour.
type Color struct {
	R, G, B uint8
}

var _ color.Color = Color{}

// Common colors.
var (
	ColorBlack = RGB(0, 0, 0)
	ColorWhite = RGB(255, 255, 255)
	ColorRed   = RGB(255, 0, 0)
	ColorGreen = RGB(0, 255, 0)
	ColorBlue  = RGB(0, 0, 255)
)

// RGB creates a Color.
func RGB(r, g, b uint8) Color {
	return Color{r, g, b}
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R) * 0x101
	g = uint32(c.G) * 0x101
	b = uint32(c.B) * 0x101
	return r, g, b, 0xffff
}

// Colorful converts c for blending in perceptual spaces.
func (c Color) Colorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// Hex returns the #rrggbb form of c.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// FromColorful converts a colorful colour, clamping it to the RGB gamut.
func FromColorful(c colorful.Color) Color {
	r, g, b := c.Clamped().RGB255()
	return Color{r, g, b}
}

// ParseHex parses a #rrggbb or #rgb colour.
func ParseHex(s string) (Color, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("parse colour %q: %w", s, err)
	}
	return FromColorful(c), nil
}

// Blend mixes a toward b in CIE-L*a*b* space; t=0 is a and t=1 is b.
func Blend(a, b Color, t float64) Color {
	switch {
	case t <= 0:
		return a
	case t >= 1:
		return b
	}
	return FromColorful(a.Colorful().BlendLab(b.Colorful(), t))
}

// MultiplyColor scales every channel by f, saturating at 255.
func MultiplyColor(c Color, f float64) Color {
	return Color{scaleChannel(c.R, f), scaleChannel(c.G, f), scaleChannel(c.B, f)}
}

// ModulateColor multiplies two colours channel by channel.
func ModulateColor(a, b Color) Color {
	return Color{
		uint8(uint16(a.R) * uint16(b.R) / 255),
		uint8(uint16(a.G) * uint16(b.G) / 255),
		uint8(uint16(a.B) * uint16(b.B) / 255),
	}
}

func lerpColor(a, b Color, t float64) Color {
	return Color{lerpChannel(a.R, b.R, t), lerpChannel(a.G, b.G, t), lerpChannel(a.B, b.B, t)}
}

func lerpChannel(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t)
}

func scaleChannel(v uint8, f float64) uint8 {
	s := float64(v) * f
	switch {
	case s >= 255:
		return 255
	case s <= 0:
		return 0
	}
	return uint8(s)
}
