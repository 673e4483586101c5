package parallel

import (
	"context"
	"errors"
	"runtime"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// recorder collects the leaf ranges visited by an invocation.
type recorder struct {
	mu     sync.Mutex
	ranges []Band
}

func (r *recorder) leaf(_ context.Context, lo, hi int) error {
	r.mu.Lock()
	r.ranges = append(r.ranges, Band{lo, hi})
	r.mu.Unlock()
	return nil
}

func (r *recorder) sorted() []Band {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := slices.Clone(r.ranges)
	slices.SortFunc(out, func(a, b Band) int { return a.Y0 - b.Y0 })
	return out
}

// =============================================================================
// ForkJoin Creation Tests
// =============================================================================

func TestForkJoin_Defaults(t *testing.T) {
	fj := NewForkJoin(0, 0)
	defer fj.Close(0)

	if fj.Parallelism() != runtime.GOMAXPROCS(0) {
		t.Errorf("Parallelism() = %d, want %d", fj.Parallelism(), runtime.GOMAXPROCS(0))
	}
	if fj.Threshold() != DefaultSplitThreshold {
		t.Errorf("Threshold() = %d, want %d", fj.Threshold(), DefaultSplitThreshold)
	}
	if !fj.IsRunning() {
		t.Error("ForkJoin should be running after creation")
	}
}

// =============================================================================
// Splitting Tests
// =============================================================================

func TestForkJoin_Splitting(t *testing.T) {
	tests := []struct {
		name      string
		threshold int
		hi        int
		want      []Band
	}{
		{"below threshold", 50, 40, []Band{{0, 40}}},
		{"at threshold", 50, 50, []Band{{0, 50}}},
		{"one split", 50, 100, []Band{{0, 50}, {50, 100}}},
		{"two levels", 50, 120, []Band{{0, 30}, {30, 60}, {60, 90}, {90, 120}}},
		{"odd range", 2, 5, []Band{{0, 2}, {2, 3}, {3, 5}}},
		{"empty range", 50, 0, []Band{{0, 0}}},
	}

	for _, tt := range tests {
		for _, parallelism := range []int{1, 4} {
			t.Run(tt.name, func(t *testing.T) {
				fj := NewForkJoin(parallelism, tt.threshold)
				defer fj.Close(0)

				var r recorder
				if err := fj.Invoke(context.Background(), 0, tt.hi, r.leaf); err != nil {
					t.Fatalf("Invoke() = %v", err)
				}
				if got := r.sorted(); !slices.Equal(got, tt.want) {
					t.Errorf("parallelism %d: leaves = %v, want %v", parallelism, got, tt.want)
				}
			})
		}
	}
}

func TestForkJoin_LeavesWithinThreshold(t *testing.T) {
	fj := NewForkJoin(4, 5)
	defer fj.Close(0)

	var r recorder
	if err := fj.Invoke(context.Background(), 0, 997, r.leaf); err != nil {
		t.Fatalf("Invoke() = %v", err)
	}

	next := 0
	for _, b := range r.sorted() {
		if b.Rows() > 5 {
			t.Errorf("leaf %v exceeds threshold", b)
		}
		if b.Y0 != next {
			t.Fatalf("leaf %v starts at %d, want %d", b, b.Y0, next)
		}
		next = b.Y1
	}
	if next != 997 {
		t.Errorf("leaves cover [0, %d), want [0, 997)", next)
	}
}

func TestForkJoin_BoundedConcurrency(t *testing.T) {
	const parallelism = 3
	fj := NewForkJoin(parallelism, 1)
	defer fj.Close(0)

	var active, peak atomic.Int64
	leaf := func(context.Context, int, int) error {
		n := active.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(time.Millisecond)
		active.Add(-1)
		return nil
	}

	if err := fj.Invoke(context.Background(), 0, 64, leaf); err != nil {
		t.Fatalf("Invoke() = %v", err)
	}
	if p := peak.Load(); p > parallelism {
		t.Errorf("peak concurrency = %d, want <= %d", p, parallelism)
	}
}

// =============================================================================
// Failure Tests
// =============================================================================

func TestForkJoin_Error(t *testing.T) {
	fj := NewForkJoin(4, 10)
	defer fj.Close(0)

	boom := errors.New("boom")
	err := fj.Invoke(context.Background(), 0, 100, func(ctx context.Context, lo, hi int) error {
		if lo == 0 {
			return boom
		}
		return ctx.Err()
	})
	if !errors.Is(err, boom) {
		t.Errorf("Invoke() = %v, want %v", err, boom)
	}
}

func TestForkJoin_Panic(t *testing.T) {
	fj := NewForkJoin(4, 10)
	defer fj.Close(0)

	err := fj.Invoke(context.Background(), 0, 100, func(_ context.Context, lo, hi int) error {
		if lo >= 50 {
			panic("leaf failed")
		}
		return nil
	})

	var pe *PanicError
	if !errors.As(err, &pe) {
		t.Fatalf("Invoke() = %v, want *PanicError", err)
	}
	if pe.Value != "leaf failed" {
		t.Errorf("PanicError.Value = %v, want %q", pe.Value, "leaf failed")
	}
}

func TestForkJoin_Cancelled(t *testing.T) {
	fj := NewForkJoin(2, 1)
	defer fj.Close(0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls atomic.Int64
	err := fj.Invoke(ctx, 0, 100, func(ctx context.Context, lo, hi int) error {
		calls.Add(1)
		return ctx.Err()
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Invoke() = %v, want context.Canceled", err)
	}
}

// =============================================================================
// Close Tests
// =============================================================================

func TestForkJoin_InvokeAfterClose(t *testing.T) {
	fj := NewForkJoin(2, 10)
	if err := fj.Close(time.Second); err != nil {
		t.Fatalf("Close() = %v", err)
	}
	if err := fj.Close(time.Second); err != nil {
		t.Errorf("second Close() = %v, want nil", err)
	}

	var r recorder
	if err := fj.Invoke(context.Background(), 0, 10, r.leaf); !errors.Is(err, ErrPoolClosed) {
		t.Errorf("Invoke() after Close = %v, want ErrPoolClosed", err)
	}
	if len(r.sorted()) != 0 {
		t.Error("leaf ran on closed scheduler")
	}
}

func TestForkJoin_CloseTimeout(t *testing.T) {
	fj := NewForkJoin(2, 10)

	started := make(chan struct{})
	var once sync.Once
	errc := make(chan error, 1)
	go func() {
		errc <- fj.Invoke(context.Background(), 0, 10, func(ctx context.Context, lo, hi int) error {
			once.Do(func() { close(started) })
			<-ctx.Done()
			return ctx.Err()
		})
	}()
	<-started

	if err := fj.Close(20 * time.Millisecond); !errors.Is(err, ErrCloseTimeout) {
		t.Fatalf("Close() = %v, want ErrCloseTimeout", err)
	}
	if err := <-errc; !errors.Is(err, ErrPoolClosed) {
		t.Errorf("Invoke() = %v, want ErrPoolClosed", err)
	}
}
