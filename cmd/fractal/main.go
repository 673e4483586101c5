// Command fractal renders an escape-time fractal to an image file.
//
// Usage:
//
//	fractal [flags]
//
// Examples:
//
//	fractal -o mandelbrot.png
//	fractal -fractal julia -julia rabbit -palette ocean -res 4k -o rabbit.jpg
//	fractal -fractal multibrot -power 4 -iter 500 -supersample 2 -caption
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/fractal"
	"github.com/gogpu/fractal/export"
)

func main() {
	var (
		family     = flag.String("fractal", "mandelbrot", "fractal family: mandelbrot, julia, burningship, tricorn, multibrot, phoenix")
		julia      = flag.String("julia", "dragon", "julia preset: dendrite, rabbit, dragon, spiral, feather, sanmarco, siegeldisk")
		cre        = flag.Float64("c-re", 0, "julia parameter real part (overrides -julia when -c-re or -c-im is set)")
		cim        = flag.Float64("c-im", 0, "julia parameter imaginary part")
		power      = flag.Float64("power", fractal.DefaultMultibrotPower, "multibrot exponent")
		phoenixP   = flag.Float64("p", fractal.DefaultPhoenixP, "phoenix feedback coefficient")
		palette    = flag.String("palette", fractal.DefaultPalette.String(), "palette: classic, smooth, fire, ocean, rainbow, grayscale")
		width      = flag.Int("width", fractal.DefaultWidth, "image width")
		height     = flag.Int("height", fractal.DefaultHeight, "image height")
		res        = flag.String("res", "", "export resolution preset (fhd, 2k, 4k, 8k) or WxH; keeps the framed region")
		centerRe   = flag.Float64("cx", 0, "center real part (default: family default)")
		centerIm   = flag.Float64("cy", 0, "center imaginary part (default: family default)")
		zoom       = flag.Float64("zoom", 0, "zoom in pixels per unit (default: family default)")
		iterations = flag.Uint("iter", fractal.DefaultMaxIterations, "maximum iterations")
		strategy   = flag.String("strategy", "forkjoin", "computation strategy: sequential, bandpool, forkjoin")
		workers    = flag.Int("workers", 0, "worker count (0 = GOMAXPROCS)")
		threshold  = flag.Int("threshold", 0, "fork-join split threshold in rows (0 = 50)")
		super      = flag.Int("supersample", 1, "supersampling factor (1..4)")
		caption    = flag.Bool("caption", false, "stamp render parameters onto the image")
		quality    = flag.Int("quality", export.DefaultJPEGQuality, "JPEG quality (1..100)")
		output     = flag.String("o", "fractal.png", "output file (.png, .jpg, .bmp, .tiff)")
		verbose    = flag.Bool("v", false, "verbose logging")
	)
	flag.Parse()

	if *verbose {
		fractal.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	req := fractal.RenderRequest{
		Fractal:       *family,
		Palette:       *palette,
		Width:         *width,
		Height:        *height,
		Zoom:          *zoom,
		MaxIterations: uint32(min(*iterations, 1<<31)),
		Julia:         *julia,
		Power:         *power,
		P:             phoenixP,
	}
	if set["cx"] {
		req.CenterRe = centerRe
	}
	if set["cy"] {
		req.CenterIm = centerIm
	}
	if set["c-re"] || set["c-im"] {
		req.CRe, req.CIm = cre, cim
	}

	v, f, p, err := req.Resolve()
	if err != nil {
		log.Fatalf("Invalid parameters: %v", err)
	}
	if *res != "" {
		r, err := export.ParseResolution(*res)
		if err != nil {
			log.Fatalf("Invalid resolution: %v", err)
		}
		v = export.Frame(v, r)
	}

	kind, err := fractal.ParseStrategy(*strategy)
	if err != nil {
		log.Fatalf("Invalid strategy: %v", err)
	}
	s := fractal.NewStrategy(kind,
		fractal.WithWorkers(*workers),
		fractal.WithSplitThreshold(*threshold))
	defer func() {
		if err := s.Close(); err != nil {
			log.Printf("Close: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	img, err := export.Render(ctx, s, v, f, p, export.Options{
		Supersample: *super,
		Caption:     *caption,
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			log.Printf("Interrupted")
			return
		}
		log.Fatalf("Render failed: %v", err)
	}
	elapsed := time.Since(start)

	if err := export.WriteFile(*output, img, *quality); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}

	pr := message.NewPrinter(language.English)
	log.Print(pr.Sprintf("%s saved to %s (%dx%d, %d pixels, %s, %s)",
		f.Name(), *output, v.Width, v.Height, v.Pixels(), kind.DisplayName(), elapsed.Round(time.Millisecond)))
	fmt.Fprintln(os.Stderr, f.Description())
}
