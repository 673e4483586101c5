// Package fractal computes escape-time fractals and maps them to colors.
//
// # Overview
//
// A render takes a Viewport (pixel size, center, zoom, iteration limit)
// and a Fractal formula and produces a Grid of iteration counts, one per
// pixel. ColorFor and Colorize turn counts into colors through one of six
// memoized 256-entry palettes with smooth interpolation.
//
// # Quick Start
//
//	import "github.com/gogpu/fractal"
//
//	s := fractal.NewStrategy(fractal.StrategyForkJoin)
//	defer s.Close()
//
//	f := fractal.NewJulia(fractal.JuliaDragon)
//	v := fractal.DefaultViewport(f, 800, 600, 500)
//
//	g, err := s.Compute(ctx, v, f)
//	if err != nil {
//	    return err
//	}
//	img := fractal.Colorize(g, fractal.Smooth)
//
// # Formulas
//
// Six families are supported: Mandelbrot, Julia, BurningShip, Tricorn,
// Multibrot and Phoenix. Every family iterates until the squared magnitude
// reaches EscapeRadiusSquared or the iteration limit is hit, so NaN and
// infinite orbits always terminate.
//
// # Strategies
//
// Three strategies fill the grid and produce identical results:
//
//   - StrategySequential: single goroutine, the reference implementation.
//   - StrategyBandPool: one row band per worker on a fixed worker pool.
//   - StrategyForkJoin: recursive midpoint splitting down to 50 rows.
//
// Tasks write disjoint row ranges of the grid, so no locking is needed.
// A panic in any task aborts the render with ErrComputationAborted and no
// partial grid is returned. Cancelling the context aborts the render the
// same way. Session builds on this for interactive views where a new
// request supersedes the one in flight.
//
// # Logging
//
// The package is silent by default. Use SetLogger to route render and
// lifecycle events to a slog.Logger.
//
// # Precision
//
// All arithmetic is float64. Beyond a zoom of roughly 1e15 neighbouring
// pixels map to the same point and the image degrades into blocks.
package fractal
