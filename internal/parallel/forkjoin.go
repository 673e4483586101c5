package parallel

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultSplitThreshold is the largest row range computed without
// splitting.
const DefaultSplitThreshold = 50

// RangeFunc computes rows [lo, hi).
type RangeFunc func(ctx context.Context, lo, hi int) error

// ForkJoin executes a row range by recursive midpoint splitting.
//
// A range larger than the threshold is split in two. The upper half is
// forked onto a free slot when one is available and run inline otherwise;
// the lower half always runs on the calling goroutine, and the two are
// joined before the split returns. Running inline when all slots are busy
// means a join never waits on work that cannot be scheduled.
//
// Thread safety: ForkJoin is safe for concurrent use.
type ForkJoin struct {
	parallelism int
	threshold   int

	// slots bounds the number of forked goroutines alive at once.
	slots chan struct{}

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.RWMutex
	inflight sync.WaitGroup
	running  atomic.Bool
}

// NewForkJoin creates a scheduler allowing up to parallelism concurrent
// goroutines per pool. Non-positive parallelism uses GOMAXPROCS and a
// non-positive threshold uses DefaultSplitThreshold.
func NewForkJoin(parallelism, threshold int) *ForkJoin {
	if parallelism <= 0 {
		parallelism = runtime.GOMAXPROCS(0)
	}
	if threshold <= 0 {
		threshold = DefaultSplitThreshold
	}

	ctx, cancel := context.WithCancel(context.Background())
	fj := &ForkJoin{
		parallelism: parallelism,
		threshold:   threshold,
		// The invoking goroutine is one of the workers.
		slots:  make(chan struct{}, parallelism-1),
		ctx:    ctx,
		cancel: cancel,
	}
	fj.running.Store(true)
	return fj
}

// Parallelism returns the maximum number of goroutines working at once.
func (fj *ForkJoin) Parallelism() int {
	return fj.parallelism
}

// Threshold returns the split threshold in rows.
func (fj *ForkJoin) Threshold() int {
	return fj.threshold
}

// Invoke computes [lo, hi) and blocks until every sub-range has joined.
// Failure semantics match WorkerPool.Run.
func (fj *ForkJoin) Invoke(ctx context.Context, lo, hi int, leaf RangeFunc) error {
	fj.mu.RLock()
	if !fj.running.Load() {
		fj.mu.RUnlock()
		return ErrPoolClosed
	}
	fj.inflight.Add(1)
	fj.mu.RUnlock()
	defer fj.inflight.Done()

	g, release := newGroup(ctx, fj.ctx)
	defer release()

	fj.split(g, lo, hi, leaf)
	return g.err()
}

func (fj *ForkJoin) split(g *group, lo, hi int, leaf RangeFunc) {
	if hi-lo <= fj.threshold {
		g.run(func(ctx context.Context) error { return leaf(ctx, lo, hi) })
		return
	}
	if g.ctx.Err() != nil {
		g.run(func(ctx context.Context) error { return ctx.Err() })
		return
	}

	mid := lo + (hi-lo)/2

	select {
	case fj.slots <- struct{}{}:
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer func() {
				<-fj.slots
				wg.Done()
			}()
			fj.split(g, mid, hi, leaf)
		}()
		fj.split(g, lo, mid, leaf)
		wg.Wait()
	default:
		fj.split(g, lo, mid, leaf)
		fj.split(g, mid, hi, leaf)
	}
}

// Close stops accepting work and waits for in-flight invocations. After
// timeout they are cancelled and ErrCloseTimeout is returned. A
// non-positive timeout waits indefinitely. Close is safe to call multiple
// times.
func (fj *ForkJoin) Close(timeout time.Duration) error {
	fj.mu.Lock()
	if !fj.running.CompareAndSwap(true, false) {
		fj.mu.Unlock()
		return nil
	}
	fj.mu.Unlock()

	finished := make(chan struct{})
	go func() {
		fj.inflight.Wait()
		close(finished)
	}()

	if timeout <= 0 {
		<-finished
		fj.cancel()
		return nil
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-finished:
		fj.cancel()
		return nil
	case <-timer.C:
		fj.cancel()
		return ErrCloseTimeout
	}
}

// IsRunning returns true if the scheduler is still accepting work.
func (fj *ForkJoin) IsRunning() bool {
	return fj.running.Load()
}
