package fractal

import (
	"fmt"
	"math"
	"strings"
)

// EscapeRadiusSquared is the squared orbit magnitude at which a point is
// considered to have escaped. The smooth coloring term log(log(256))/log(2)
// assumes this value, so every family uses it.
const EscapeRadiusSquared = 256.0

// Family identifies an escape-time fractal family.
type Family uint8

const (
	// Mandelbrot iterates z² + c from z₀ = 0.
	Mandelbrot Family = iota
	// Julia iterates z² + p from z₀ = the tested point.
	Julia
	// BurningShip iterates (|Re z|, |Im z|)² + c from z₀ = 0.
	BurningShip
	// Tricorn iterates conj(z)² + c from z₀ = 0.
	Tricorn
	// Multibrot iterates z^d + c from z₀ = 0.
	Multibrot
	// Phoenix iterates z² + c + p·z₋₁ from z₀ = z₋₁ = 0.
	Phoenix

	familyCount
)

var familyNames = [familyCount]string{
	Mandelbrot:  "mandelbrot",
	Julia:       "julia",
	BurningShip: "burningship",
	Tricorn:     "tricorn",
	Multibrot:   "multibrot",
	Phoenix:     "phoenix",
}

// String returns the lower-case identifier of the family.
func (f Family) String() string {
	if f < familyCount {
		return familyNames[f]
	}
	return fmt.Sprintf("Family(%d)", f)
}

// Families returns every family in declaration order.
func Families() []Family {
	out := make([]Family, familyCount)
	for i := range out {
		out[i] = Family(i)
	}
	return out
}

// ParseFamily resolves a family identifier. Matching ignores case,
// spaces, dashes and underscores, so "Burning Ship" and "burning_ship"
// both resolve to BurningShip.
func ParseFamily(s string) (Family, error) {
	key := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '_':
			return -1
		}
		return r
	}, strings.ToLower(strings.TrimSpace(s)))
	for i, name := range familyNames {
		if key == name {
			return Family(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFamily, s)
}

// Well-known Julia parameters.
var (
	JuliaDendrite   = C(0, 1)
	JuliaRabbit     = C(-0.123, 0.745)
	JuliaDragon     = C(-0.8, 0.156)
	JuliaSpiral     = C(0.285, 0.01)
	JuliaFeather    = C(-0.4, 0.6)
	JuliaSanMarco   = C(-0.75, 0)
	JuliaSiegelDisk = C(-0.391, -0.587)
)

// Default parameters used by New.
const (
	DefaultMultibrotPower = 3.0
	DefaultPhoenixP       = 0.56667
)

// Fractal is a tagged escape-time formula. The zero value is the
// Mandelbrot set. Each family carries only its own parameters; values are
// immutable and safe to share between goroutines.
type Fractal struct {
	family Family
	param  Complex // Julia constant
	power  float64 // Multibrot exponent
	p      float64 // Phoenix feedback coefficient
}

// New returns a fractal of the given family with default parameters.
func New(family Family) Fractal {
	switch family {
	case Julia:
		return NewJulia(JuliaDragon)
	case Multibrot:
		return NewMultibrot(DefaultMultibrotPower)
	case Phoenix:
		return NewPhoenix(DefaultPhoenixP)
	default:
		return Fractal{family: family}
	}
}

// NewMandelbrot returns the classic Mandelbrot set.
func NewMandelbrot() Fractal { return Fractal{family: Mandelbrot} }

// NewJulia returns the Julia set for parameter c.
func NewJulia(c Complex) Fractal { return Fractal{family: Julia, param: c} }

// NewBurningShip returns the Burning Ship fractal.
func NewBurningShip() Fractal { return Fractal{family: BurningShip} }

// NewTricorn returns the Tricorn (Mandelbar) fractal.
func NewTricorn() Fractal { return Fractal{family: Tricorn} }

// NewMultibrot returns the Multibrot fractal of degree d.
func NewMultibrot(d float64) Fractal { return Fractal{family: Multibrot, power: d} }

// NewPhoenix returns the Phoenix fractal with feedback coefficient p.
func NewPhoenix(p float64) Fractal { return Fractal{family: Phoenix, p: p} }

// Family returns the family tag.
func (f Fractal) Family() Family { return f.family }

// Parameter returns the Julia constant. It is zero for other families.
func (f Fractal) Parameter() Complex { return f.param }

// Power returns the Multibrot degree. It is zero for other families.
func (f Fractal) Power() float64 { return f.power }

// P returns the Phoenix coefficient. It is zero for other families.
func (f Fractal) P() float64 { return f.p }

// Iterate returns the number of iterations before the orbit of point
// escapes, or maxIterations if it stays bounded.
func (f Fractal) Iterate(point Complex, maxIterations uint32) uint32 {
	switch f.family {
	case Julia:
		return iterateJulia(point, f.param, maxIterations)
	case BurningShip:
		return iterateBurningShip(point, maxIterations)
	case Tricorn:
		return iterateTricorn(point, maxIterations)
	case Multibrot:
		return iterateMultibrot(point, f.power, maxIterations)
	case Phoenix:
		return iteratePhoenix(point, f.p, maxIterations)
	default:
		return iterateMandelbrot(point, maxIterations)
	}
}

// The loops below compare with < so that a NaN magnitude ends the loop;
// the iteration bound alone guarantees termination.

func iterateMandelbrot(c Complex, maxIterations uint32) uint32 {
	var z Complex
	n := uint32(0)
	for z.MagnitudeSquared() < EscapeRadiusSquared && n < maxIterations {
		z = z.Square().Add(c)
		n++
	}
	return n
}

func iterateJulia(z, p Complex, maxIterations uint32) uint32 {
	n := uint32(0)
	for z.MagnitudeSquared() < EscapeRadiusSquared && n < maxIterations {
		z = z.Square().Add(p)
		n++
	}
	return n
}

func iterateBurningShip(c Complex, maxIterations uint32) uint32 {
	var z Complex
	n := uint32(0)
	for z.MagnitudeSquared() < EscapeRadiusSquared && n < maxIterations {
		z = z.Abs().Square().Add(c)
		n++
	}
	return n
}

func iterateTricorn(c Complex, maxIterations uint32) uint32 {
	var z Complex
	n := uint32(0)
	for z.MagnitudeSquared() < EscapeRadiusSquared && n < maxIterations {
		z = z.Conjugate().Square().Add(c)
		n++
	}
	return n
}

func iterateMultibrot(c Complex, d float64, maxIterations uint32) uint32 {
	var z Complex
	n := uint32(0)
	for z.MagnitudeSquared() < EscapeRadiusSquared && n < maxIterations {
		z = z.Pow(d).Add(c)
		n++
	}
	return n
}

func iteratePhoenix(c Complex, p float64, maxIterations uint32) uint32 {
	var z, prev Complex
	n := uint32(0)
	for z.MagnitudeSquared() < EscapeRadiusSquared && n < maxIterations {
		z, prev = z.Square().Add(c).Add(prev.Scale(p)), z
		n++
	}
	return n
}

// Name returns a display name including any parameter.
func (f Fractal) Name() string {
	switch f.family {
	case Julia:
		return fmt.Sprintf("Julia Set (c = %.3f + %.3fi)", f.param.Re, f.param.Im)
	case BurningShip:
		return "Burning Ship"
	case Tricorn:
		return "Tricorn"
	case Multibrot:
		return fmt.Sprintf("Multibrot (d=%.1f)", f.power)
	case Phoenix:
		return fmt.Sprintf("Phoenix (p=%.3f)", f.p)
	default:
		return "Mandelbrot Set"
	}
}

// Description returns the recurrence in textual form.
func (f Fractal) Description() string {
	switch f.family {
	case Julia:
		return fmt.Sprintf("Julia set: z(n+1) = z(n)² + c, where c = %.3f + %.3fi", f.param.Re, f.param.Im)
	case BurningShip:
		return "Burning Ship fractal: z(n+1) = (|Re(z)| + i|Im(z)|)² + c"
	case Tricorn:
		return "Tricorn (Mandelbar) fractal: z(n+1) = conjugate(z(n))² + c"
	case Multibrot:
		return fmt.Sprintf("Multibrot fractal: z(n+1) = z(n)^%.1f + c", f.power)
	case Phoenix:
		return fmt.Sprintf("Phoenix fractal: z(n+1) = z(n)² + c + %.3f*z(n-1)", f.p)
	default:
		return "The classic Mandelbrot set: z(n+1) = z(n)² + c"
	}
}

// DefaultCenter returns the initial view center for the family.
func (f Fractal) DefaultCenter() Complex {
	switch f.family {
	case Mandelbrot:
		return C(-0.5, 0)
	case BurningShip:
		return C(-0.5, -0.5)
	default:
		return C(0, 0)
	}
}

// DefaultZoom returns the initial zoom (pixels per unit) for the family.
func (f Fractal) DefaultZoom() float64 {
	switch f.family {
	case Julia, BurningShip:
		return 150
	case Multibrot:
		if f.power > 1 {
			return 200 / math.Sqrt(f.power-1)
		}
		return 200
	default:
		return 200
	}
}

// RequiresParameter reports whether the family is driven by a caller
// supplied parameter.
func (f Fractal) RequiresParameter() bool {
	return f.family == Julia || f.family == Phoenix
}
