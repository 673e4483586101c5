package fractal

import (
	"context"
	"sync"
)

// defaultStrategy is the process-wide pool behind ComputeGrid.
var defaultStrategy = sync.OnceValue(func() Strategy {
	return sharedStrategy{NewStrategy(StrategyBandPool)}
})

// sharedStrategy ignores Close so the process-wide pool stays usable.
type sharedStrategy struct {
	Strategy
}

func (sharedStrategy) Close() error { return nil }

// DefaultStrategy returns the process-wide StrategyBandPool sized to
// GOMAXPROCS. It is created on first use and holds no viewport state, so
// concurrent callers may share it. Close on the returned value is a no-op.
func DefaultStrategy() Strategy {
	return defaultStrategy()
}

// ComputeGrid computes an iteration grid with the default strategy.
//
// Example:
//
//	g, err := fractal.ComputeGrid(ctx, 800, 600, -0.5, 0, 200, 100, fractal.NewMandelbrot())
//	if err != nil {
//	    return err
//	}
//	img := fractal.Colorize(g, fractal.Smooth)
func ComputeGrid(ctx context.Context, width, height int, centerRe, centerIm, zoom float64, maxIterations uint32, f Fractal) (*Grid, error) {
	v := Viewport{
		Width:         width,
		Height:        height,
		Center:        Complex{Re: centerRe, Im: centerIm},
		Zoom:          zoom,
		MaxIterations: maxIterations,
	}
	return DefaultStrategy().Compute(ctx, v, f)
}
