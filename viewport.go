package fractal

import (
	"fmt"
	"math"
)

// Zoom bounds applied by interactive front ends. Validate does not
// enforce them; any positive finite zoom is accepted by the engine.
const (
	MinZoom = 50.0
	MaxZoom = 1e15
)

// Viewport maps a pixel grid onto the complex plane.
//
// Zoom is expressed in pixels per unit: pixel (x, y) maps to
//
//	re = (x − Width/2) / Zoom + Center.Re
//	im = (y − Height/2) / Zoom + Center.Im
type Viewport struct {
	Width, Height int
	Center        Complex
	Zoom          float64
	MaxIterations uint32
}

// DefaultViewport returns a viewport of the given size framed on the
// family's default center and zoom.
func DefaultViewport(f Fractal, width, height int, maxIterations uint32) Viewport {
	return Viewport{
		Width:         width,
		Height:        height,
		Center:        f.DefaultCenter(),
		Zoom:          f.DefaultZoom(),
		MaxIterations: maxIterations,
	}
}

// Validate checks the viewport invariants. The returned error wraps
// ErrInvalidViewport.
func (v Viewport) Validate() error {
	switch {
	case v.Width < 1 || v.Height < 1:
		return fmt.Errorf("%w: dimensions must be positive, got %dx%d", ErrInvalidViewport, v.Width, v.Height)
	case !(v.Zoom > 0) || math.IsInf(v.Zoom, 0):
		return fmt.Errorf("%w: zoom must be positive and finite, got %g", ErrInvalidViewport, v.Zoom)
	case v.MaxIterations < 1:
		return fmt.Errorf("%w: max iterations must be at least 1", ErrInvalidViewport)
	case !v.Center.IsFinite():
		return fmt.Errorf("%w: center must be finite, got %v", ErrInvalidViewport, v.Center)
	}
	return nil
}

// PixelToComplex maps pixel (x, y) to its point in the complex plane.
// Every computation strategy uses this transform, which is what makes
// their outputs identical.
func (v Viewport) PixelToComplex(x, y int) Complex {
	return Complex{
		Re: (float64(x)-float64(v.Width)/2)/v.Zoom + v.Center.Re,
		Im: (float64(y)-float64(v.Height)/2)/v.Zoom + v.Center.Im,
	}
}

// ComplexToPixel is the inverse of PixelToComplex. The result is not
// rounded and may lie outside the grid.
func (v Viewport) ComplexToPixel(c Complex) (x, y float64) {
	x = (c.Re-v.Center.Re)*v.Zoom + float64(v.Width)/2
	y = (c.Im-v.Center.Im)*v.Zoom + float64(v.Height)/2
	return x, y
}

// ZoomAt scales the zoom by factor while keeping the complex point under
// pixel (px, py) in place. Factors above 1 zoom in.
func (v Viewport) ZoomAt(px, py, factor float64) Viewport {
	anchor := Complex{
		Re: (px-float64(v.Width)/2)/v.Zoom + v.Center.Re,
		Im: (py-float64(v.Height)/2)/v.Zoom + v.Center.Im,
	}
	v.Zoom *= factor
	v.Center = Complex{
		Re: anchor.Re - (px-float64(v.Width)/2)/v.Zoom,
		Im: anchor.Im - (py-float64(v.Height)/2)/v.Zoom,
	}
	return v
}

// Pan shifts the center by the given fractions of the visible width and
// height. Positive dx moves right, positive dy moves down.
func (v Viewport) Pan(dx, dy float64) Viewport {
	v.Center.Re += dx * float64(v.Width) / v.Zoom
	v.Center.Im += dy * float64(v.Height) / v.Zoom
	return v
}

// ClampZoom limits the zoom to [lo, hi].
func (v Viewport) ClampZoom(lo, hi float64) Viewport {
	v.Zoom = math.Min(math.Max(v.Zoom, lo), hi)
	return v
}

// Resize returns the viewport with new pixel dimensions. Center and zoom
// are unchanged, so the same region is shown at a different extent.
func (v Viewport) Resize(width, height int) Viewport {
	v.Width, v.Height = width, height
	return v
}

// Pixels returns Width × Height.
func (v Viewport) Pixels() int {
	return v.Width * v.Height
}
