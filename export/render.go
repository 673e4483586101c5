package export

import (
	"context"
	"image"
	"time"

	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/fractal"
)

// MaxSupersample bounds the supersampling factor.
const MaxSupersample = 4

// Options controls Render.
type Options struct {
	// Supersample renders at this multiple of the target size and scales
	// down, smoothing edges. Values below 2 disable it.
	Supersample int

	// Caption stamps the render parameters onto the image.
	Caption bool

	// CaptionSize is the caption font size; zero selects
	// DefaultCaptionSize.
	CaptionSize float64
}

// Render computes v with s and returns the colored image, applying
// supersampling and the caption as requested.
func Render(ctx context.Context, s fractal.Strategy, v fractal.Viewport, f fractal.Fractal, p fractal.Palette, opts Options) (*image.NRGBA, error) {
	start := time.Now()
	n := min(max(opts.Supersample, 1), MaxSupersample)

	work := v
	if n > 1 {
		work = v.Resize(v.Width*n, v.Height*n)
		work.Zoom = v.Zoom * float64(n)
	}

	g, err := s.Compute(ctx, work, f)
	if err != nil {
		return nil, err
	}

	img := fractal.Colorize(g, p)
	if n > 1 {
		img = Downsample(img, n)
	}
	if opts.Caption {
		if err := DrawCaption(img, CaptionLines(v, f, p), opts.CaptionSize); err != nil {
			return nil, err
		}
	}

	fractal.Logger().Debug("export: image rendered",
		"width", v.Width,
		"height", v.Height,
		"supersample", n,
		"palette", p,
		"elapsed", time.Since(start))
	return img, nil
}

// Downsample shrinks src by an integer factor with a Catmull-Rom filter.
// A factor below 2 returns src converted to NRGBA.
func Downsample(src image.Image, factor int) *image.NRGBA {
	b := src.Bounds()
	if factor < 2 {
		if n, ok := src.(*image.NRGBA); ok {
			return n
		}
		dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		xdraw.Draw(dst, dst.Bounds(), src, b.Min, xdraw.Src)
		return dst
	}

	dst := image.NewNRGBA(image.Rect(0, 0, max(b.Dx()/factor, 1), max(b.Dy()/factor, 1)))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)
	return dst
}
