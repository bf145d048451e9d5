package bitmaptext

import (
	"fmt"
	"image/color"
	"strings"
)

// DefaultTint leaves the page texture colors unchanged.
const DefaultTint uint32 = 0xFFFFFF

// RGBA represents a color with red, green, blue, and alpha components.
// Each component is in the range [0, 1].
type RGBA struct {
	R, G, B, A float64
}

// TintRGBA converts a 0xRRGGBB tint to an opaque color.
func TintRGBA(tint uint32) RGBA {
	return RGBA{
		R: float64(tint>>16&0xFF) / 255,
		G: float64(tint>>8&0xFF) / 255,
		B: float64(tint&0xFF) / 255,
		A: 1,
	}
}

// Tint packs the color channels into 0xRRGGBB, dropping alpha.
func (c RGBA) Tint() uint32 {
	return uint32(clamp255(c.R*255+0.5))<<16 |
		uint32(clamp255(c.G*255+0.5))<<8 |
		uint32(clamp255(c.B*255+0.5))
}

// Color converts RGBA to the standard color.Color interface.
func (c RGBA) Color() color.Color {
	return color.NRGBA{
		R: uint8(clamp255(c.R * 255)),
		G: uint8(clamp255(c.G * 255)),
		B: uint8(clamp255(c.B * 255)),
		A: uint8(clamp255(c.A * 255)),
	}
}

// Premultiply returns a premultiplied color.
func (c RGBA) Premultiply() RGBA {
	return RGBA{
		R: c.R * c.A,
		G: c.G * c.A,
		B: c.B * c.A,
		A: c.A,
	}
}

// ParseHex parses "RGB", "RGBA", "RRGGBB" or "RRGGBBAA" with an optional
// leading '#' or "0x".
func ParseHex(s string) (RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(s), "#"), "0x")

	var r, g, b uint32
	a := uint32(255)
	ok := true
	switch len(hex) {
	case 3:
		ok = parseHex(hex[0:1], &r) && parseHex(hex[1:2], &g) && parseHex(hex[2:3], &b)
		r, g, b = r*17, g*17, b*17
	case 4:
		ok = parseHex(hex[0:1], &r) && parseHex(hex[1:2], &g) && parseHex(hex[2:3], &b) && parseHex(hex[3:4], &a)
		r, g, b, a = r*17, g*17, b*17, a*17
	case 6:
		ok = parseHex(hex[0:2], &r) && parseHex(hex[2:4], &g) && parseHex(hex[4:6], &b)
	case 8:
		ok = parseHex(hex[0:2], &r) && parseHex(hex[2:4], &g) && parseHex(hex[4:6], &b) && parseHex(hex[6:8], &a)
	default:
		ok = false
	}
	if !ok {
		return RGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return RGBA{
		R: float64(r) / 255,
		G: float64(g) / 255,
		B: float64(b) / 255,
		A: float64(a) / 255,
	}, nil
}

// ParseTint parses a hex color into a 0xRRGGBB tint.
func ParseTint(s string) (uint32, error) {
	c, err := ParseHex(s)
	if err != nil {
		return 0, err
	}
	return c.Tint(), nil
}

func parseHex(s string, val *uint32) bool {
	*val = 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		*val *= 16
		switch {
		case '0' <= c && c <= '9':
			*val += uint32(c - '0')
		case 'a' <= c && c <= 'f':
			*val += uint32(c - 'a' + 10)
		case 'A' <= c && c <= 'F':
			*val += uint32(c - 'A' + 10)
		default:
			return false
		}
	}
	return true
}

func clamp255(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 255 {
		return 255
	}
	return x
}
