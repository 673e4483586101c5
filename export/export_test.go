package export

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/fractal"
)

// =============================================================================
// Formats
// =============================================================================

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"png", PNG},
		{".PNG", PNG},
		{"jpg", JPEG},
		{"jpeg", JPEG},
		{".JPEG", JPEG},
		{"bmp", BMP},
		{"tif", TIFF},
		{"tiff", TIFF},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseFormat("gif")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestFormatFromPath(t *testing.T) {
	f, err := FormatFromPath("out/mandelbrot.jpeg")
	require.NoError(t, err)
	assert.Equal(t, JPEG, f)
	assert.Equal(t, "jpg", f.String())

	f, err = FormatFromPath("mandelbrot")
	require.NoError(t, err)
	assert.Equal(t, PNG, f)

	_, err = FormatFromPath("mandelbrot.webp")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestEncodeDecode(t *testing.T) {
	src := solid(8, 6, color.NRGBA{R: 200, G: 40, B: 10, A: 255})

	for _, f := range []Format{PNG, JPEG, BMP, TIFF} {
		t.Run(f.String(), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, src, f, 0))

			img, name, err := image.Decode(&buf)
			require.NoError(t, err)
			assert.Equal(t, src.Bounds(), img.Bounds())
			assert.NotEmpty(t, name)
		})
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "frame.png")
	require.NoError(t, WriteFile(path, solid(4, 4, color.NRGBA{A: 255}), 0))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	cfg, name, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "png", name)
	assert.Equal(t, 4, cfg.Width)

	err = WriteFile(filepath.Join(dir, "frame.gif"), solid(1, 1, color.NRGBA{}), 0)
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

// =============================================================================
// Resolutions
// =============================================================================

func TestParseResolution(t *testing.T) {
	tests := []struct {
		in   string
		w, h int
	}{
		{"fhd", 1920, 1080},
		{"1080p", 1920, 1080},
		{"2K", 2560, 1440},
		{"4k", 3840, 2160},
		{"8k", 7680, 4320},
		{"800x600", 800, 600},
		{"15360x8640", 15360, 8640},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			r, err := ParseResolution(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.w, r.Width)
			assert.Equal(t, tt.h, r.Height)
		})
	}

	for _, bad := range []string{"", "huge", "0x10", "15361x100", "100x8641", "axb"} {
		_, err := ParseResolution(bad)
		assert.ErrorIs(t, err, ErrResolution, "input %q", bad)
	}
}

func TestFrameKeepsRegion(t *testing.T) {
	f := fractal.NewMandelbrot()
	v := fractal.DefaultViewport(f, 1000, 800, 100)

	out := Frame(v, Resolution{Width: 2000, Height: 1600})
	assert.Equal(t, 2000, out.Width)
	assert.InDelta(t, v.Zoom*2, out.Zoom, 1e-9)

	// The corners of the source view are still on screen.
	tl := v.PixelToComplex(0, 0)
	x, y := out.ComplexToPixel(tl)
	assert.InDelta(t, 0, x, 1e-6)
	assert.InDelta(t, 0, y, 1e-6)

	wide := Frame(v, Resolution{Width: 4000, Height: 800})
	assert.InDelta(t, v.Zoom, wide.Zoom, 1e-9)
}

// =============================================================================
// Image processing
// =============================================================================

func TestDownsample(t *testing.T) {
	c := color.NRGBA{R: 255, G: 128, B: 0, A: 255}
	out := Downsample(solid(8, 6, c), 2)

	require.Equal(t, image.Rect(0, 0, 4, 3), out.Bounds())
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			got := out.NRGBAAt(x, y)
			assert.InDelta(t, c.R, got.R, 1)
			assert.InDelta(t, c.G, got.G, 1)
			assert.InDelta(t, c.B, got.B, 1)
		}
	}

	same := solid(3, 3, c)
	assert.Same(t, same, Downsample(same, 1))
}

func TestMeasureText(t *testing.T) {
	w0, err := MeasureText("", 14)
	require.NoError(t, err)
	assert.Zero(t, w0)

	short, err := MeasureText("Zoom", 14)
	require.NoError(t, err)
	long, err := MeasureText("Zoom: 1,000,000", 14)
	require.NoError(t, err)

	assert.Greater(t, short, 0.0)
	assert.Greater(t, long, short)

	double, err := MeasureText("Zoom", 28)
	require.NoError(t, err)
	assert.InDelta(t, 2*short, double, 1)
}

func TestCaptionLines(t *testing.T) {
	f := fractal.NewJulia(fractal.JuliaDragon)
	v := fractal.DefaultViewport(f, 100, 100, 10000)

	lines := CaptionLines(v, f, fractal.Ocean)
	require.Len(t, lines, 5)
	assert.Equal(t, f.Name(), lines[0])
	assert.Contains(t, strings.Join(lines, "\n"), "Iterations: 10,000")
	assert.Equal(t, "Palette: Ocean", lines[4])
}

func TestDrawCaptionContrast(t *testing.T) {
	lines := []string{"Mandelbrot Set", "Iterations: 100"}

	dark := solid(240, 120, color.NRGBA{A: 255})
	require.NoError(t, DrawCaption(dark, lines, 14))
	assert.True(t, anyPixel(dark, func(c color.NRGBA) bool { return c.R > 200 }),
		"expected light text on a dark background")

	light := solid(240, 120, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	require.NoError(t, DrawCaption(light, lines, 14))
	assert.True(t, anyPixel(light, func(c color.NRGBA) bool { return c.R < 60 }),
		"expected dark text on a light background")

	// The top right corner is outside the panel.
	assert.Equal(t, color.NRGBA{A: 255}, dark.NRGBAAt(239, 0))
}

func TestDrawCaptionEmpty(t *testing.T) {
	img := solid(10, 10, color.NRGBA{A: 255})
	require.NoError(t, DrawCaption(img, nil, 0))
	assert.False(t, anyPixel(img, func(c color.NRGBA) bool { return c.R != 0 }))
}

func TestRender(t *testing.T) {
	s := fractal.NewSequential()
	defer s.Close()

	f := fractal.NewMandelbrot()
	v := fractal.DefaultViewport(f, 40, 30, 50)

	img, err := Render(context.Background(), s, v, f, fractal.Fire, Options{Supersample: 2})
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 40, 30), img.Bounds())

	plain, err := Render(context.Background(), s, v, f, fractal.Fire, Options{})
	require.NoError(t, err)
	assert.Equal(t, fractal.Colorize(mustCompute(t, s, v, f), fractal.Fire).Pix, plain.Pix)

	_, err = Render(context.Background(), s, fractal.Viewport{}, f, fractal.Fire, Options{})
	assert.ErrorIs(t, err, fractal.ErrInvalidViewport)
}

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func anyPixel(img *image.NRGBA, pred func(color.NRGBA) bool) bool {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if pred(img.NRGBAAt(x, y)) {
				return true
			}
		}
	}
	return false
}

func mustCompute(t *testing.T, s fractal.Strategy, v fractal.Viewport, f fractal.Fractal) *fractal.Grid {
	t.Helper()
	g, err := s.Compute(context.Background(), v, f)
	require.NoError(t, err)
	return g
}
