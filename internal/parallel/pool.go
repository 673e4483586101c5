package parallel

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// WorkerPool is a bounded pool of goroutines that render row bands.
//
// The pool distributes tasks across workers, each with its own queue.
// Workers steal from other queues when their own is empty, which keeps
// every worker busy when some bands are much slower than others.
//
// The pool holds no render state between calls to Run; it can be shared by
// concurrent renders, each of which gets its own cancellation scope.
//
// Thread safety: WorkerPool is safe for concurrent use.
type WorkerPool struct {
	// workers is the number of worker goroutines.
	workers int

	// workQueues holds per-worker work queues.
	// Each worker primarily pulls from its own queue but can steal from others.
	workQueues []chan func()

	// done signals workers to stop after draining their queues.
	done chan struct{}

	// ctx is cancelled to interrupt tasks that outlive the close timeout.
	ctx    context.Context
	cancel context.CancelFunc

	// wg waits for all workers to finish.
	wg sync.WaitGroup

	// inflight counts Run calls that have not returned.
	inflight sync.WaitGroup

	// mu orders enqueues against Close so nothing is queued after done.
	mu sync.RWMutex

	// running indicates whether the pool is accepting work.
	running atomic.Bool
}

// NewWorkerPool creates a new worker pool with the specified number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
// The pool starts immediately and workers begin waiting for work.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	queueSize := workers * 4
	if queueSize < 8 {
		queueSize = 8
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &WorkerPool{
		workers:    workers,
		workQueues: make([]chan func(), workers),
		done:       make(chan struct{}),
		ctx:        ctx,
		cancel:     cancel,
	}

	for i := range workers {
		p.workQueues[i] = make(chan func(), queueSize)
	}

	p.running.Store(true)

	p.wg.Add(workers)
	for i := range workers {
		go p.worker(i)
	}

	return p
}

// worker is the main loop for each worker goroutine.
func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()

	myQueue := p.workQueues[id]

	for {
		select {
		case <-p.done:
			p.drainQueue(myQueue)
			return

		case work := <-myQueue:
			work()

		default:
			if stolen := p.steal(id); stolen != nil {
				stolen()
				continue
			}
			// No work available anywhere, block on own queue
			select {
			case <-p.done:
				p.drainQueue(myQueue)
				return
			case work := <-myQueue:
				work()
			}
		}
	}
}

// drainQueue executes all remaining work in a queue.
func (p *WorkerPool) drainQueue(queue chan func()) {
	for {
		select {
		case work := <-queue:
			work()
		default:
			return
		}
	}
}

// steal attempts to take work from another worker's queue.
// Returns nil if no work is available.
func (p *WorkerPool) steal(myID int) func() {
	for i := range p.workers {
		if i == myID {
			continue
		}
		select {
		case work := <-p.workQueues[i]:
			return work
		default:
		}
	}
	return nil
}

// Run distributes tasks across workers and blocks until every task has
// returned.
//
// A panic or error in any task cancels the context seen by the others and
// Run returns the joined task failures. If ctx is cancelled, or the pool
// is forced down by Close, Run returns the cancellation cause. Run returns
// ErrPoolClosed without running anything once Close has been called.
func (p *WorkerPool) Run(ctx context.Context, tasks []Task) error {
	if len(tasks) == 0 {
		return nil
	}

	p.mu.RLock()
	if !p.running.Load() {
		p.mu.RUnlock()
		return ErrPoolClosed
	}
	p.inflight.Add(1)
	defer p.inflight.Done()

	g, release := newGroup(ctx, p.ctx)
	defer release()

	var completion sync.WaitGroup
	completion.Add(len(tasks))
	for i, task := range tasks {
		p.workQueues[i%p.workers] <- func() {
			defer completion.Done()
			g.run(task)
		}
	}
	p.mu.RUnlock()

	completion.Wait()
	return g.err()
}

// Close stops the pool from accepting work and waits for queued and
// running tasks to finish. If they have not finished within timeout, the
// remaining tasks are cancelled and ErrCloseTimeout is returned; those
// tasks observe cancellation at their next check and return on their own.
// A non-positive timeout waits indefinitely.
//
// Close is safe to call multiple times.
func (p *WorkerPool) Close(timeout time.Duration) error {
	p.mu.Lock()
	if !p.running.CompareAndSwap(true, false) {
		p.mu.Unlock()
		return nil
	}
	close(p.done)
	p.mu.Unlock()

	finished := make(chan struct{})
	go func() {
		p.wg.Wait()
		p.inflight.Wait()
		close(finished)
	}()

	if timeout <= 0 {
		<-finished
		p.cancel()
		return nil
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-finished:
		p.cancel()
		return nil
	case <-timer.C:
		p.cancel()
		return ErrCloseTimeout
	}
}

// Workers returns the number of workers in the pool.
func (p *WorkerPool) Workers() int {
	return p.workers
}

// IsRunning returns true if the pool is still accepting work.
func (p *WorkerPool) IsRunning() bool {
	return p.running.Load()
}

// QueuedWork returns the total number of work items currently queued.
// This is an approximation as queues can change while iterating.
func (p *WorkerPool) QueuedWork() int {
	total := 0
	for _, q := range p.workQueues {
		total += len(q)
	}
	return total
}
