package fractal

import (
	"fmt"
	"image"
	"math"
	"strings"
	"sync"

	"github.com/lucasb-eyer/go-colorful"
)

// PaletteSize is the number of entries in every palette gradient.
const PaletteSize = 256

// Palette selects a color gradient.
type Palette uint8

const (
	// Classic blends blue, cyan, yellow and red.
	Classic Palette = iota
	// Smooth runs from dark navy through blue and near-white to orange.
	Smooth
	// Fire ramps red, then green, then blue up to white.
	Fire
	// Ocean runs through five blue tones.
	Ocean
	// Rainbow sweeps the full hue circle.
	Rainbow
	// Grayscale runs from black to white.
	Grayscale

	paletteCount
)

// DefaultPalette is the palette used when none is specified.
const DefaultPalette = Smooth

var paletteNames = [paletteCount]string{
	Classic:   "classic",
	Smooth:    "smooth",
	Fire:      "fire",
	Ocean:     "ocean",
	Rainbow:   "rainbow",
	Grayscale: "grayscale",
}

var paletteDisplayNames = [paletteCount]string{
	Classic:   "Classic",
	Smooth:    "Smooth",
	Fire:      "Fire",
	Ocean:     "Ocean",
	Rainbow:   "Rainbow",
	Grayscale: "Grayscale",
}

// String returns the identifier accepted by ParsePalette.
func (p Palette) String() string {
	if p < paletteCount {
		return paletteNames[p]
	}
	return fmt.Sprintf("Palette(%d)", p)
}

// DisplayName returns a human readable name.
func (p Palette) DisplayName() string {
	if p < paletteCount {
		return paletteDisplayNames[p]
	}
	return p.String()
}

// Palettes returns every palette in declaration order.
func Palettes() []Palette {
	ps := make([]Palette, paletteCount)
	for i := range ps {
		ps[i] = Palette(i)
	}
	return ps
}

// ParsePalette resolves a palette identifier, ignoring case.
func ParsePalette(s string) (Palette, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "greyscale" || name == "gray" || name == "grey" {
		return Grayscale, nil
	}
	for i, n := range paletteNames {
		if n == name {
			return Palette(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPalette, s)
}

// =============================================================================
// Gradients
// =============================================================================

// gradients are built on first use and shared by every render.
var gradients = [paletteCount]func() *[PaletteSize]RGB{
	Classic:   sync.OnceValue(classicGradient),
	Smooth:    sync.OnceValue(func() *[PaletteSize]RGB { return keyGradient(smoothKeys) }),
	Fire:      sync.OnceValue(fireGradient),
	Ocean:     sync.OnceValue(func() *[PaletteSize]RGB { return keyGradient(oceanKeys) }),
	Rainbow:   sync.OnceValue(rainbowGradient),
	Grayscale: sync.OnceValue(grayscaleGradient),
}

var (
	smoothKeys = []string{"#000764", "#206BCB", "#EDFFFF", "#FFAA00", "#000200"}
	oceanKeys  = []string{"#001B3A", "#0353A4", "#1B98E0", "#7FDBFF", "#E0F7FF"}
)

// gradient returns the shared table for p. Unknown palettes use Classic.
func (p Palette) gradient() *[PaletteSize]RGB {
	if p >= paletteCount {
		p = Classic
	}
	return gradients[p]()
}

// Gradient returns a copy of the palette's color table.
func (p Palette) Gradient() [PaletteSize]RGB {
	return *p.gradient()
}

func classicGradient() *[PaletteSize]RGB {
	var g [PaletteSize]RGB
	for i := range g {
		t := float64(i) / PaletteSize
		switch {
		case t < 0.3:
			g[i] = Blue.Lerp(Cyan, t/0.3)
		case t < 0.7:
			g[i] = Cyan.Lerp(Yellow, (t-0.3)/0.4)
		default:
			g[i] = Yellow.Lerp(Red, (t-0.7)/0.3)
		}
		g[i] = g[i].Clamp()
	}
	return &g
}

// keyGradient spreads evenly spaced key colors over the table and blends
// linearly between neighbours.
func keyGradient(hexes []string) *[PaletteSize]RGB {
	keys := make([]colorful.Color, len(hexes))
	for i, h := range hexes {
		c, err := colorful.Hex(strings.ToLower(h))
		if err != nil {
			panic(fmt.Sprintf("fractal: bad palette key %q: %v", h, err))
		}
		keys[i] = c
	}

	var g [PaletteSize]RGB
	segments := float64(len(keys) - 1)
	for i := range g {
		pos := float64(i) / (PaletteSize - 1) * segments
		k := min(int(pos), len(keys)-2)
		c := keys[k].BlendRgb(keys[k+1], pos-float64(k))
		g[i] = RGB{c.R, c.G, c.B}.Clamp()
	}
	return &g
}

func fireGradient() *[PaletteSize]RGB {
	var g [PaletteSize]RGB
	for i := range g {
		t := float64(i) / (PaletteSize - 1)
		g[i] = RGB{
			R: clamp01(3 * t),
			G: clamp01(3*t - 1),
			B: clamp01(3*t - 2),
		}
	}
	return &g
}

func rainbowGradient() *[PaletteSize]RGB {
	var g [PaletteSize]RGB
	for i := range g {
		c := colorful.Hsv(360*float64(i)/PaletteSize, 1, 1).Clamped()
		g[i] = RGB{c.R, c.G, c.B}
	}
	return &g
}

func grayscaleGradient() *[PaletteSize]RGB {
	var g [PaletteSize]RGB
	for i := range g {
		v := float64(i) / (PaletteSize - 1)
		g[i] = RGB{v, v, v}
	}
	return &g
}

// =============================================================================
// Color mapping
// =============================================================================

// smoothOffset is log(log(256))/log(2), the normalization term of the
// continuous escape count for an escape radius of 16.
var smoothOffset = math.Log(math.Log(EscapeRadiusSquared)) / math.Log(2)

// ColorFor maps an iteration count to a color.
//
// Points that never escaped (iterations == maxIterations) are black. Other
// counts are smoothed, scaled onto the gradient and interpolated between
// the two nearest entries. The result depends only on its arguments.
func ColorFor(iterations, maxIterations uint32, p Palette) RGB {
	if maxIterations == 0 || iterations >= maxIterations {
		return Black
	}

	limit := float64(maxIterations)
	s := float64(iterations) + 1 - smoothOffset
	s = math.Max(0, math.Min(s, limit))

	idx := s / limit * (PaletteSize - 1)
	lo := int(idx)
	hi := min(lo+1, PaletteSize-1)

	g := p.gradient()
	return g[lo].Lerp(g[hi], idx-float64(lo)).Clamp()
}

// Colorize renders a grid to an image, coloring each pixel with ColorFor.
// Colors are looked up once per distinct count.
func Colorize(g *Grid, p Palette) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, g.Width, g.Height))

	lut := make([][4]uint8, int(g.MaxIterations)+1)
	for i := range lut {
		c := ColorFor(uint32(i), g.MaxIterations, p).Color()
		lut[i] = [4]uint8{c.R, c.G, c.B, c.A}
	}

	for y := 0; y < g.Height; y++ {
		row := g.Row(y)
		pix := img.Pix[y*img.Stride : y*img.Stride+4*g.Width]
		for x, n := range row {
			n = min(n, g.MaxIterations)
			copy(pix[4*x:4*x+4], lut[n][:])
		}
	}
	return img
}
