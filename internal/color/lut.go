package color

import "math"

// toLinearLUT converts an 8-bit sRGB channel to linear light.
var toLinearLUT [256]float64

func init() {
	for i := range 256 {
		toLinearLUT[i] = toLinearSlow(uint8(i))
	}
}

// ToLinear converts an sRGB byte to linear light in [0,1] using a lookup
// table.
//
// Example:
//
//	l := ToLinear(128) // ~0.2159 (not 0.5!)
func ToLinear(s uint8) float64 {
	return toLinearLUT[s]
}

// toLinearSlow is the reference sRGB EOTF.
func toLinearSlow(s uint8) float64 {
	v := float64(s) / 255.0
	if v <= 0.04045 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

// Luminance returns the relative luminance of an sRGB color, in [0,1].
// Weights are the Rec. 709 primaries.
func Luminance(r, g, b uint8) float64 {
	return 0.2126*ToLinear(r) + 0.7152*ToLinear(g) + 0.0722*ToLinear(b)
}

// ContrastRatio returns the contrast between two relative luminances, in
// [1,21]. Argument order does not matter.
func ContrastRatio(l1, l2 float64) float64 {
	if l1 < l2 {
		l1, l2 = l2, l1
	}
	return (l1 + 0.05) / (l2 + 0.05)
}

// PreferDarkText reports whether black text reads better than white text
// on a background of luminance l.
func PreferDarkText(l float64) bool {
	return ContrastRatio(l, 0) >= ContrastRatio(1, l)
}
