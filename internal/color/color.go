// Package color quantizes floating point palette colors to 8-bit channels
// and measures how bright they appear on screen.
package color

// Quantize maps a channel in [0,1] to [0,255] with rounding.
// Values outside the range are clamped and NaN maps to 0.
func Quantize(v float64) uint8 {
	if !(v > 0) {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255.0 + 0.5)
}

// Channel maps an 8-bit channel back to [0,1].
func Channel(b uint8) float64 {
	return float64(b) / 255.0
}
