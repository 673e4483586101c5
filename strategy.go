package fractal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gogpu/fractal/internal/parallel"
)

// Strategy fills an iteration grid for a viewport.
//
// Every implementation produces bit-identical grids for identical inputs.
// A strategy owns its scheduler and must be released with Close; Compute
// after Close returns ErrClosed.
//
// Thread safety: all strategies are safe for concurrent use. Concurrent
// renders never share a grid.
type Strategy interface {
	// Compute validates v and returns a fully populated grid. On failure
	// it returns a nil grid and an error matching ErrInvalidViewport,
	// ErrComputationAborted or ErrClosed.
	Compute(ctx context.Context, v Viewport, f Fractal) (*Grid, error)

	// Kind identifies the implementation.
	Kind() StrategyKind

	// Close stops accepting work and releases the scheduler, waiting for
	// in-flight renders up to the close timeout.
	Close() error
}

// StrategyKind identifies a grid computation strategy.
type StrategyKind uint8

const (
	// StrategySequential computes every pixel on the calling goroutine.
	// It is the reference implementation.
	StrategySequential StrategyKind = iota
	// StrategyBandPool splits the grid into one contiguous row band per
	// worker and runs the bands on a fixed worker pool.
	StrategyBandPool
	// StrategyForkJoin splits row ranges recursively at the midpoint until
	// they fall under the split threshold.
	StrategyForkJoin
)

// String returns the identifier accepted by ParseStrategy.
func (k StrategyKind) String() string {
	switch k {
	case StrategySequential:
		return "sequential"
	case StrategyBandPool:
		return "bandpool"
	case StrategyForkJoin:
		return "forkjoin"
	default:
		return fmt.Sprintf("StrategyKind(%d)", k)
	}
}

// DisplayName returns a human readable name.
func (k StrategyKind) DisplayName() string {
	switch k {
	case StrategySequential:
		return "Single Thread"
	case StrategyBandPool:
		return "Fixed Worker Pool"
	case StrategyForkJoin:
		return "Recursive Work-Splitting"
	default:
		return k.String()
	}
}

// ParseStrategy resolves a strategy identifier, ignoring case.
func ParseStrategy(s string) (StrategyKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sequential", "single":
		return StrategySequential, nil
	case "bandpool", "pool", "executor":
		return StrategyBandPool, nil
	case "forkjoin", "fj", "split":
		return StrategyForkJoin, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
}

// NewStrategy creates a strategy of the given kind. Unknown kinds fall
// back to StrategySequential.
func NewStrategy(kind StrategyKind, opts ...Option) Strategy {
	var s Strategy
	switch kind {
	case StrategyBandPool:
		s = NewBandPool(opts...)
	case StrategyForkJoin:
		s = NewForkJoin(opts...)
	default:
		s = NewSequential()
	}
	Logger().Info("fractal: strategy created", "strategy", s.Kind())
	return s
}

// rowKernel computes rows [y0, y1) into dst, which holds exactly those
// rows. It is a variable so tests can inject failures.
var rowKernel = computeRows

func computeRows(ctx context.Context, dst []uint32, y0, y1 int, v Viewport, f Fractal) error {
	w := v.Width
	for y := y0; y < y1; y++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		row := dst[(y-y0)*w : (y-y0+1)*w]
		for x := range row {
			row[x] = f.Iterate(v.PixelToComplex(x, y), v.MaxIterations)
		}
	}
	return nil
}

// =============================================================================
// Sequential
// =============================================================================

// Sequential computes the grid on the calling goroutine.
type Sequential struct {
	closed atomic.Bool
}

// NewSequential creates a sequential strategy.
func NewSequential() *Sequential {
	return &Sequential{}
}

// Compute implements Strategy.
func (s *Sequential) Compute(ctx context.Context, v Viewport, f Fractal) (*Grid, error) {
	if err := v.Validate(); err != nil {
		return nil, err
	}
	if s.closed.Load() {
		return nil, ErrClosed
	}

	start := time.Now()
	g := NewGrid(v.Width, v.Height, v.MaxIterations)
	err := protect(func() error {
		return rowKernel(ctx, g.Counts, 0, v.Height, v, f)
	})
	return finish(StrategySequential, v, f, g, start, err)
}

// Kind implements Strategy.
func (s *Sequential) Kind() StrategyKind { return StrategySequential }

// Close implements Strategy.
func (s *Sequential) Close() error {
	s.closed.Store(true)
	return nil
}

// protect converts a panic in fn into an error.
func protect(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &parallel.PanicError{Value: r}
		}
	}()
	return fn()
}

// =============================================================================
// BandPool
// =============================================================================

// BandPool partitions the grid into one contiguous row band per worker
// and dispatches the bands to a fixed worker pool. The partition is
// static: the last band absorbs the remainder rows and there is no
// rebalancing between bands beyond the pool's work stealing.
type BandPool struct {
	pool         *parallel.WorkerPool
	closeTimeout time.Duration
}

// NewBandPool creates a band-partitioned strategy backed by its own
// worker pool.
func NewBandPool(opts ...Option) *BandPool {
	o := applyOptions(opts)
	return &BandPool{
		pool:         parallel.NewWorkerPool(o.workers),
		closeTimeout: o.closeTimeout,
	}
}

// Workers returns the number of workers and bands.
func (s *BandPool) Workers() int {
	return s.pool.Workers()
}

// Compute implements Strategy.
func (s *BandPool) Compute(ctx context.Context, v Viewport, f Fractal) (*Grid, error) {
	if err := v.Validate(); err != nil {
		return nil, err
	}
	if !s.pool.IsRunning() {
		return nil, ErrClosed
	}

	start := time.Now()
	g := NewGrid(v.Width, v.Height, v.MaxIterations)

	bands := parallel.RowBands(v.Height, s.pool.Workers())
	tasks := make([]parallel.Task, 0, len(bands))
	for _, b := range bands {
		if b.Empty() {
			continue
		}
		dst := g.Rows(b.Y0, b.Y1)
		tasks = append(tasks, func(ctx context.Context) error {
			return rowKernel(ctx, dst, b.Y0, b.Y1, v, f)
		})
	}

	err := s.pool.Run(ctx, tasks)
	return finish(StrategyBandPool, v, f, g, start, err)
}

// Kind implements Strategy.
func (s *BandPool) Kind() StrategyKind { return StrategyBandPool }

// Close implements Strategy.
func (s *BandPool) Close() error {
	return closeScheduler(StrategyBandPool, s.pool.Close(s.closeTimeout))
}

// =============================================================================
// ForkJoin
// =============================================================================

// ForkJoin splits the row range recursively at its midpoint until each
// piece is at most the split threshold, forking halves onto a bounded set
// of goroutines. It balances uneven workloads better than BandPool at the
// cost of a little scheduling overhead.
type ForkJoin struct {
	fj           *parallel.ForkJoin
	closeTimeout time.Duration
}

// NewForkJoin creates a recursive work-splitting strategy.
func NewForkJoin(opts ...Option) *ForkJoin {
	o := applyOptions(opts)
	return &ForkJoin{
		fj:           parallel.NewForkJoin(o.workers, o.splitThreshold),
		closeTimeout: o.closeTimeout,
	}
}

// Threshold returns the split threshold in rows.
func (s *ForkJoin) Threshold() int {
	return s.fj.Threshold()
}

// Compute implements Strategy.
func (s *ForkJoin) Compute(ctx context.Context, v Viewport, f Fractal) (*Grid, error) {
	if err := v.Validate(); err != nil {
		return nil, err
	}
	if !s.fj.IsRunning() {
		return nil, ErrClosed
	}

	start := time.Now()
	g := NewGrid(v.Width, v.Height, v.MaxIterations)
	err := s.fj.Invoke(ctx, 0, v.Height, func(ctx context.Context, lo, hi int) error {
		return rowKernel(ctx, g.Rows(lo, hi), lo, hi, v, f)
	})
	return finish(StrategyForkJoin, v, f, g, start, err)
}

// Kind implements Strategy.
func (s *ForkJoin) Kind() StrategyKind { return StrategyForkJoin }

// Close implements Strategy.
func (s *ForkJoin) Close() error {
	return closeScheduler(StrategyForkJoin, s.fj.Close(s.closeTimeout))
}

// =============================================================================
// Shared helpers
// =============================================================================

// finish logs the outcome of a render and never lets a partial grid escape.
func finish(kind StrategyKind, v Viewport, f Fractal, g *Grid, start time.Time, err error) (*Grid, error) {
	log := Logger()
	if err != nil {
		if errors.Is(err, parallel.ErrPoolClosed) {
			err = ErrClosed
		}
		log.Warn("fractal: render aborted",
			"strategy", kind, "fractal", f.Family(), "error", err)
		return nil, aborted(kind, err)
	}
	if log.Enabled(context.Background(), slog.LevelDebug) {
		log.Debug("fractal: render complete",
			"strategy", kind,
			"fractal", f.Family(),
			"width", v.Width,
			"height", v.Height,
			"max_iterations", v.MaxIterations,
			"elapsed", time.Since(start))
	}
	return g, nil
}

func closeScheduler(kind StrategyKind, err error) error {
	if errors.Is(err, parallel.ErrCloseTimeout) {
		Logger().Warn("fractal: close timed out, in-flight renders cancelled", "strategy", kind)
		return ErrCloseTimeout
	}
	Logger().Info("fractal: strategy closed", "strategy", kind)
	return err
}
