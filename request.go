package fractal

import (
	"fmt"
	"strings"
)

// Defaults applied to fields left empty in a RenderRequest.
const (
	DefaultWidth         = 1000
	DefaultHeight        = 800
	DefaultMaxIterations = 100

	// ZoomFactor is the zoom step of one interactive zoom in.
	ZoomFactor = 1.5
)

var juliaPresets = map[string]Complex{
	"dendrite":    JuliaDendrite,
	"rabbit":      JuliaRabbit,
	"dragon":      JuliaDragon,
	"spiral":      JuliaSpiral,
	"feather":     JuliaFeather,
	"sanmarco":    JuliaSanMarco,
	"siegeldisk":  JuliaSiegelDisk,
	"siegel":      JuliaSiegelDisk,
	"douady":      JuliaRabbit,
	"san-marco":   JuliaSanMarco,
	"siegel-disk": JuliaSiegelDisk,
}

// JuliaPreset looks up a well-known Julia parameter by name, ignoring case.
func JuliaPreset(name string) (Complex, bool) {
	c, ok := juliaPresets[strings.ToLower(strings.TrimSpace(name))]
	return c, ok
}

// RenderRequest describes one render in wire form. Zero fields take the
// defaults of the selected fractal family.
type RenderRequest struct {
	// ID is echoed back by streaming front ends so clients can match
	// frames to requests.
	ID uint64 `json:"id,omitempty"`

	Fractal       string   `json:"fractal,omitempty"`
	Palette       string   `json:"palette,omitempty"`
	Width         int      `json:"width,omitempty"`
	Height        int      `json:"height,omitempty"`
	CenterRe      *float64 `json:"center_re,omitempty"`
	CenterIm      *float64 `json:"center_im,omitempty"`
	Zoom          float64  `json:"zoom,omitempty"`
	MaxIterations uint32   `json:"max_iterations,omitempty"`

	// Julia selects a preset parameter; CRe and CIm override it.
	Julia string   `json:"julia,omitempty"`
	CRe   *float64 `json:"c_re,omitempty"`
	CIm   *float64 `json:"c_im,omitempty"`

	// Power is the Multibrot exponent.
	Power float64 `json:"power,omitempty"`
	// P is the Phoenix feedback coefficient.
	P *float64 `json:"p,omitempty"`
}

// Resolve applies defaults and returns the validated viewport, formula and
// palette the request describes.
func (r RenderRequest) Resolve() (Viewport, Fractal, Palette, error) {
	f, err := r.formula()
	if err != nil {
		return Viewport{}, Fractal{}, 0, err
	}

	p := DefaultPalette
	if r.Palette != "" {
		if p, err = ParsePalette(r.Palette); err != nil {
			return Viewport{}, Fractal{}, 0, err
		}
	}

	v := DefaultViewport(f, orDefault(r.Width, DefaultWidth), orDefault(r.Height, DefaultHeight), DefaultMaxIterations)
	if r.MaxIterations > 0 {
		v.MaxIterations = r.MaxIterations
	}
	if r.Zoom != 0 {
		v.Zoom = r.Zoom
	}
	if r.CenterRe != nil {
		v.Center.Re = *r.CenterRe
	}
	if r.CenterIm != nil {
		v.Center.Im = *r.CenterIm
	}
	if err := v.Validate(); err != nil {
		return Viewport{}, Fractal{}, 0, err
	}
	return v, f, p, nil
}

func (r RenderRequest) formula() (Fractal, error) {
	family := Mandelbrot
	if r.Fractal != "" {
		var err error
		if family, err = ParseFamily(r.Fractal); err != nil {
			return Fractal{}, err
		}
	}

	f := New(family)
	switch family {
	case Julia:
		c := f.Parameter()
		if r.Julia != "" {
			preset, ok := JuliaPreset(r.Julia)
			if !ok {
				return Fractal{}, fmt.Errorf("%w: unknown julia preset %q", ErrUnknownFamily, r.Julia)
			}
			c = preset
		}
		if r.CRe != nil {
			c.Re = *r.CRe
		}
		if r.CIm != nil {
			c.Im = *r.CIm
		}
		f = NewJulia(c)
	case Multibrot:
		if r.Power != 0 {
			f = NewMultibrot(r.Power)
		}
	case Phoenix:
		if r.P != nil {
			f = NewPhoenix(*r.P)
		}
	}
	return f, nil
}

func orDefault(n, def int) int {
	if n == 0 {
		return def
	}
	return n
}
