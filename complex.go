package fractal

import (
	"math"
	"strconv"
)

// Complex is an immutable point in the complex plane.
// All operations return new values; NaN and Inf propagate per IEEE-754.
type Complex struct {
	Re, Im float64
}

// C creates a complex value from its real and imaginary parts.
func C(re, im float64) Complex {
	return Complex{Re: re, Im: im}
}

// Square returns z² = (re²−im², 2·re·im).
func (z Complex) Square() Complex {
	return Complex{
		Re: z.Re*z.Re - z.Im*z.Im,
		Im: 2 * z.Re * z.Im,
	}
}

// Add returns the componentwise sum z + w.
func (z Complex) Add(w Complex) Complex {
	return Complex{Re: z.Re + w.Re, Im: z.Im + w.Im}
}

// MagnitudeSquared returns re² + im².
func (z Complex) MagnitudeSquared() float64 {
	return z.Re*z.Re + z.Im*z.Im
}

// Conjugate returns (re, −im).
func (z Complex) Conjugate() Complex {
	return Complex{Re: z.Re, Im: -z.Im}
}

// Abs returns (|re|, |im|). This is the componentwise fold used by the
// Burning Ship family, not the modulus.
func (z Complex) Abs() Complex {
	return Complex{Re: math.Abs(z.Re), Im: math.Abs(z.Im)}
}

// Scale returns k·z.
func (z Complex) Scale(k float64) Complex {
	return Complex{Re: k * z.Re, Im: k * z.Im}
}

// Pow returns z^d computed in polar form. Zero maps to zero for any d.
func (z Complex) Pow(d float64) Complex {
	if z.Re == 0 && z.Im == 0 {
		return Complex{}
	}
	r := math.Pow(math.Sqrt(z.MagnitudeSquared()), d)
	sin, cos := math.Sincos(d * math.Atan2(z.Im, z.Re))
	return Complex{Re: r * cos, Im: r * sin}
}

// IsFinite reports whether both components are finite.
func (z Complex) IsFinite() bool {
	return !math.IsNaN(z.Re) && !math.IsInf(z.Re, 0) &&
		!math.IsNaN(z.Im) && !math.IsInf(z.Im, 0)
}

// String formats z as "re+imi".
func (z Complex) String() string {
	im := strconv.FormatFloat(z.Im, 'g', -1, 64)
	if z.Im >= 0 || math.IsNaN(z.Im) {
		im = "+" + im
	}
	return strconv.FormatFloat(z.Re, 'g', -1, 64) + im + "i"
}
