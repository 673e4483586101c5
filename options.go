package fractal

import "time"

// DefaultCloseTimeout bounds how long Close waits for in-flight renders
// before cancelling them.
const DefaultCloseTimeout = 60 * time.Second

// Option configures a Strategy during creation.
// Use functional options to customize strategy behavior.
//
// Example:
//
//	// Default: one worker per GOMAXPROCS
//	s := fractal.NewStrategy(fractal.StrategyBandPool)
//
//	// Four workers, finer recursive splits
//	s := fractal.NewStrategy(fractal.StrategyForkJoin,
//	    fractal.WithWorkers(4),
//	    fractal.WithSplitThreshold(16))
type Option func(*options)

// options holds optional configuration for strategy creation.
type options struct {
	workers        int
	splitThreshold int
	closeTimeout   time.Duration
}

// defaultOptions returns the default strategy options.
func defaultOptions() options {
	return options{
		workers:        0, // GOMAXPROCS
		splitThreshold: 0, // parallel.DefaultSplitThreshold
		closeTimeout:   DefaultCloseTimeout,
	}
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// WithWorkers sets the number of parallel workers. For StrategyBandPool
// this is also the number of row bands. Zero or negative means
// runtime.GOMAXPROCS(0). Ignored by StrategySequential.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithSplitThreshold sets the largest row range StrategyForkJoin computes
// without splitting. Zero or negative selects the default of 50 rows.
func WithSplitThreshold(rows int) Option {
	return func(o *options) {
		o.splitThreshold = rows
	}
}

// WithCloseTimeout sets how long Close waits for in-flight renders to
// drain before cancelling them. Zero or negative waits indefinitely.
func WithCloseTimeout(d time.Duration) Option {
	return func(o *options) {
		o.closeTimeout = d
	}
}
