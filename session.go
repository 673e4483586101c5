package fractal

import (
	"context"
	"sync"
)

// Session serializes renders for one interactive view.
//
// Starting a render cancels the one still in flight and waits for it to
// return, so at most one render per session is computing at a time and a
// stale result never overtakes a newer one. The superseded call returns an
// error matching both ErrComputationAborted and context.Canceled.
//
// A Session does not own its strategy; closing the strategy is the
// caller's job.
type Session struct {
	strategy Strategy

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewSession creates a session rendering with s.
func NewSession(s Strategy) *Session {
	return &Session{strategy: s}
}

// Strategy returns the strategy used by the session.
func (s *Session) Strategy() Strategy {
	return s.strategy
}

// Render supersedes any in-flight render and computes v. If ctx is
// already done Render returns at once without touching the render in
// flight.
func (s *Session) Render(ctx context.Context, v Viewport, f Fractal) (*Grid, error) {
	rctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	s.mu.Lock()
	if err := ctx.Err(); err != nil {
		// Already superseded by the caller; leave the in-flight render alone.
		s.mu.Unlock()
		cancel()
		return nil, aborted(s.strategy.Kind(), context.Cause(ctx))
	}
	if s.cancel != nil {
		s.cancel()
	}
	prev := s.done
	s.cancel, s.done = cancel, done
	s.mu.Unlock()

	defer func() {
		cancel()
		s.mu.Lock()
		if s.done == done {
			s.cancel, s.done = nil, nil
		}
		s.mu.Unlock()
		close(done)
	}()

	if prev != nil {
		<-prev
	}
	return s.strategy.Compute(rctx, v, f)
}

// Cancel aborts the in-flight render, if any, without starting a new one.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
}
