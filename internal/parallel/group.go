package parallel

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
)

var (
	// ErrPoolClosed is returned when work is submitted to a closed pool,
	// and is the cancellation cause seen by tasks interrupted by Close.
	ErrPoolClosed = errors.New("parallel: pool closed")

	// ErrCloseTimeout is returned by Close when tasks are still running
	// after the close timeout.
	ErrCloseTimeout = errors.New("parallel: close timed out")
)

// Task is a unit of work. It should check ctx between rows and return
// ctx.Err() once it is done.
type Task func(ctx context.Context) error

// PanicError carries a value recovered from a panicking task.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("parallel: task panicked: %v", e.Value)
}

// group tracks the outcome of the tasks belonging to one render.
//
// The first real failure cancels the group's context so sibling tasks stop
// early. Errors that are only a consequence of that cancellation are not
// recorded, so the caller sees the failures that caused the abort.
type group struct {
	ctx    context.Context
	cancel context.CancelCauseFunc

	mu      sync.Mutex
	failed  []error
	aborted bool
}

// newGroup derives a cancellation scope from parent that is also cancelled
// with ErrPoolClosed when owner is done. The returned func releases it.
func newGroup(parent, owner context.Context) (*group, func()) {
	ctx, cancel := context.WithCancelCause(parent)
	stop := context.AfterFunc(owner, func() { cancel(ErrPoolClosed) })
	g := &group{ctx: ctx, cancel: cancel}
	return g, func() {
		stop()
		cancel(nil)
	}
}

// run executes task, recovering panics, and records its outcome.
func (g *group) run(task Task) {
	err := call(g.ctx, task)
	if err == nil {
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.ctx.Err() != nil && isCancellation(err) {
		g.aborted = true
		return
	}
	g.failed = append(g.failed, err)
	g.cancel(err)
}

// err returns the joined task failures, or the cancellation cause if
// tasks stopped only because the group was cancelled.
func (g *group) err() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.failed) > 0 {
		return errors.Join(g.failed...)
	}
	if g.aborted {
		return context.Cause(g.ctx)
	}
	return nil
}

func call(ctx context.Context, task Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	return task(ctx)
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, ErrPoolClosed)
}
