package fractal

import (
	"errors"
	"math"
	"testing"
)

func TestViewport_PixelToComplex(t *testing.T) {
	v := Viewport{Width: 800, Height: 600, Center: C(-0.5, 0), Zoom: 200, MaxIterations: 100}

	tests := []struct {
		x, y int
		want Complex
	}{
		{400, 300, C(-0.5, 0)},
		{0, 0, C(-2.5, -1.5)},
		{800, 600, C(1.5, 1.5)},
		{600, 300, C(0.5, 0)},
	}
	for _, tt := range tests {
		if got := v.PixelToComplex(tt.x, tt.y); !nearC(got, tt.want) {
			t.Errorf("PixelToComplex(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestViewport_ImaginaryGrowsDownward(t *testing.T) {
	v := DefaultViewport(NewMandelbrot(), 100, 100, 50)
	top := v.PixelToComplex(50, 0)
	bottom := v.PixelToComplex(50, 99)
	if !(bottom.Im > top.Im) {
		t.Errorf("Im at bottom %v should exceed Im at top %v", bottom.Im, top.Im)
	}
}

func TestViewport_ComplexToPixelInverse(t *testing.T) {
	v := Viewport{Width: 640, Height: 480, Center: C(0.3, -0.2), Zoom: 1234.5, MaxIterations: 10}
	for _, p := range [][2]int{{0, 0}, {17, 301}, {639, 479}, {320, 240}} {
		x, y := v.ComplexToPixel(v.PixelToComplex(p[0], p[1]))
		if math.Abs(x-float64(p[0])) > 1e-6 || math.Abs(y-float64(p[1])) > 1e-6 {
			t.Errorf("round trip of %v = (%v, %v)", p, x, y)
		}
	}
}

func TestViewport_Validate(t *testing.T) {
	valid := Viewport{Width: 10, Height: 10, Zoom: 100, MaxIterations: 1}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}

	tests := []struct {
		name   string
		mutate func(*Viewport)
	}{
		{"zero width", func(v *Viewport) { v.Width = 0 }},
		{"negative height", func(v *Viewport) { v.Height = -3 }},
		{"zero zoom", func(v *Viewport) { v.Zoom = 0 }},
		{"negative zoom", func(v *Viewport) { v.Zoom = -1 }},
		{"nan zoom", func(v *Viewport) { v.Zoom = math.NaN() }},
		{"inf zoom", func(v *Viewport) { v.Zoom = math.Inf(1) }},
		{"zero iterations", func(v *Viewport) { v.MaxIterations = 0 }},
		{"nan center", func(v *Viewport) { v.Center = C(math.NaN(), 0) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := valid
			tt.mutate(&v)
			if err := v.Validate(); !errors.Is(err, ErrInvalidViewport) {
				t.Errorf("Validate() = %v, want ErrInvalidViewport", err)
			}
		})
	}
}

func TestViewport_ZoomAtKeepsAnchor(t *testing.T) {
	v := DefaultViewport(NewMandelbrot(), 800, 600, 100)
	before := v.PixelToComplex(123, 456)

	z := v.ZoomAt(123, 456, ZoomFactor)
	if !near(z.Zoom, v.Zoom*ZoomFactor) {
		t.Errorf("Zoom = %v, want %v", z.Zoom, v.Zoom*ZoomFactor)
	}
	if after := z.PixelToComplex(123, 456); !nearC(before, after) {
		t.Errorf("anchor moved from %v to %v", before, after)
	}

	out := z.ZoomAt(123, 456, 1/ZoomFactor)
	if !nearC(out.Center, v.Center) {
		t.Errorf("zoom in then out center = %v, want %v", out.Center, v.Center)
	}
}

func TestViewport_Pan(t *testing.T) {
	v := Viewport{Width: 200, Height: 100, Center: C(0, 0), Zoom: 100, MaxIterations: 1}
	p := v.Pan(0.1, -0.5)
	if want := C(0.2, -0.5); !nearC(p.Center, want) {
		t.Errorf("Pan() center = %v, want %v", p.Center, want)
	}
	if v.Center != C(0, 0) {
		t.Error("Pan() mutated receiver")
	}
}

func TestViewport_ClampZoomAndResize(t *testing.T) {
	v := Viewport{Width: 10, Height: 10, Zoom: 1, MaxIterations: 1}
	if got := v.ClampZoom(MinZoom, MaxZoom).Zoom; got != MinZoom {
		t.Errorf("ClampZoom low = %v, want %v", got, MinZoom)
	}
	v.Zoom = 1e20
	if got := v.ClampZoom(MinZoom, MaxZoom).Zoom; got != MaxZoom {
		t.Errorf("ClampZoom high = %v, want %v", got, MaxZoom)
	}

	r := v.Resize(30, 20)
	if r.Width != 30 || r.Height != 20 || r.Zoom != v.Zoom || r.Center != v.Center {
		t.Errorf("Resize() = %+v", r)
	}
	if r.Pixels() != 600 {
		t.Errorf("Pixels() = %d, want 600", r.Pixels())
	}
}

func TestDefaultViewport(t *testing.T) {
	v := DefaultViewport(NewBurningShip(), 300, 200, 77)
	if v.Width != 300 || v.Height != 200 || v.MaxIterations != 77 {
		t.Errorf("DefaultViewport() = %+v", v)
	}
	if v.Center != C(-0.5, -0.5) || v.Zoom != 150 {
		t.Errorf("DefaultViewport() framing = %v @ %v", v.Center, v.Zoom)
	}
	if err := v.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}
