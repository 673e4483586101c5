package fractal

import (
	"math"
	"testing"
)

const eps = 1e-12

func near(a, b float64) bool {
	return math.Abs(a-b) <= eps*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

func nearC(a, b Complex) bool {
	return near(a.Re, b.Re) && near(a.Im, b.Im)
}

func TestComplex_Arithmetic(t *testing.T) {
	z := C(3, -2)
	w := C(-1, 5)

	if got, want := z.Square(), C(5, -12); got != want {
		t.Errorf("Square() = %v, want %v", got, want)
	}
	if got, want := z.Add(w), C(2, 3); got != want {
		t.Errorf("Add() = %v, want %v", got, want)
	}
	if got := z.MagnitudeSquared(); got != 13 {
		t.Errorf("MagnitudeSquared() = %v, want 13", got)
	}
	if got, want := z.Conjugate(), C(3, 2); got != want {
		t.Errorf("Conjugate() = %v, want %v", got, want)
	}
	if got, want := C(-3, -2).Abs(), C(3, 2); got != want {
		t.Errorf("Abs() = %v, want %v", got, want)
	}
	if got, want := z.Scale(0.5), C(1.5, -1); got != want {
		t.Errorf("Scale() = %v, want %v", got, want)
	}
}

func TestComplex_Immutable(t *testing.T) {
	z := C(1, 2)
	_ = z.Square()
	_ = z.Add(C(5, 5))
	_ = z.Conjugate()
	if z != C(1, 2) {
		t.Errorf("operations mutated receiver: %v", z)
	}
}

func TestComplex_Pow(t *testing.T) {
	tests := []struct {
		z    Complex
		d    float64
		want Complex
	}{
		{C(1, 1), 2, C(1, 1).Square()},
		{C(-0.4, 0.7), 2, C(-0.4, 0.7).Square()},
		{C(1, 1), 3, C(-2, 2)},
		{C(2, 0), 0.5, C(math.Sqrt2, 0)},
		{C(0, 0), 3, C(0, 0)},
		{C(0, 0), 0.5, C(0, 0)},
	}
	for _, tt := range tests {
		if got := tt.z.Pow(tt.d); !nearC(got, tt.want) {
			t.Errorf("%v.Pow(%v) = %v, want %v", tt.z, tt.d, got, tt.want)
		}
	}
}

func TestComplex_NaNPropagates(t *testing.T) {
	z := C(math.NaN(), 0)
	if !math.IsNaN(z.Square().Re) {
		t.Error("Square() should propagate NaN")
	}
	if !math.IsNaN(z.MagnitudeSquared()) {
		t.Error("MagnitudeSquared() should propagate NaN")
	}
	if z.IsFinite() {
		t.Error("IsFinite() = true for NaN")
	}
	if C(math.Inf(1), 0).IsFinite() {
		t.Error("IsFinite() = true for +Inf")
	}
	if !C(1, -1).IsFinite() {
		t.Error("IsFinite() = false for finite value")
	}
}

func TestComplex_String(t *testing.T) {
	tests := []struct {
		z    Complex
		want string
	}{
		{C(1, 2), "1+2i"},
		{C(-0.5, -0.25), "-0.5-0.25i"},
		{C(0, 0), "0+0i"},
	}
	for _, tt := range tests {
		if got := tt.z.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
