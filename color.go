package fractal

import (
	"fmt"
	"image/color"

	icolor "github.com/gogpu/fractal/internal/color"
)

// RGB is an opaque color with channels in [0, 1].
type RGB struct {
	R, G, B float64
}

// Common colors
var (
	Black  = RGB{0, 0, 0}
	White  = RGB{1, 1, 1}
	Blue   = RGB{0, 0, 1}
	Cyan   = RGB{0, 1, 1}
	Yellow = RGB{1, 1, 0}
	Red    = RGB{1, 0, 0}
)

// Color converts RGB to an opaque color.NRGBA.
func (c RGB) Color() color.NRGBA {
	return color.NRGBA{
		R: icolor.Quantize(c.R),
		G: icolor.Quantize(c.G),
		B: icolor.Quantize(c.B),
		A: 255,
	}
}

// FromColor converts a standard color.Color to RGB, discarding alpha.
func FromColor(c color.Color) RGB {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGB{
		R: icolor.Channel(n.R),
		G: icolor.Channel(n.G),
		B: icolor.Channel(n.B),
	}
}

// Hex creates a color from a hex string.
// Supports formats: "RGB" and "RRGGBB", with or without a leading '#'.
// Malformed input yields black.
func Hex(hex string) RGB {
	if hex != "" && hex[0] == '#' {
		hex = hex[1:]
	}

	var r, g, b uint32
	switch len(hex) {
	case 3:
		if !parseHex(hex[0:1], &r) || !parseHex(hex[1:2], &g) || !parseHex(hex[2:3], &b) {
			return Black
		}
		r, g, b = r*17, g*17, b*17
	case 6:
		if !parseHex(hex[0:2], &r) || !parseHex(hex[2:4], &g) || !parseHex(hex[4:6], &b) {
			return Black
		}
	default:
		return Black
	}

	return RGB{
		R: float64(r) / 255,
		G: float64(g) / 255,
		B: float64(b) / 255,
	}
}

// parseHex is a helper for hex parsing
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

// String returns the color as "#rrggbb".
func (c RGB) String() string {
	n := c.Color()
	return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B)
}

// Lerp performs linear interpolation between two colors.
func (c RGB) Lerp(other RGB, t float64) RGB {
	return RGB{
		R: c.R + (other.R-c.R)*t,
		G: c.G + (other.G-c.G)*t,
		B: c.B + (other.B-c.B)*t,
	}
}

// Clamp restricts every channel to [0, 1].
func (c RGB) Clamp() RGB {
	return RGB{R: clamp01(c.R), G: clamp01(c.G), B: clamp01(c.B)}
}

// Luminance returns the relative luminance of the quantized color.
func (c RGB) Luminance() float64 {
	n := c.Color()
	return icolor.Luminance(n.R, n.G, n.B)
}

// clamp01 restricts a value to [0, 1]; NaN maps to 0.
func clamp01(x float64) float64 {
	if !(x > 0) {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
