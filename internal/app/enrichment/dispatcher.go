package enrichment

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Job is one unit of enrichment work. The context it receives carries the
// per-job timeout; a job that outlives it counts as failed and frees its slot.
type Job func(ctx context.Context) error

// Dispatcher is a FIFO queue with a fixed number of concurrent execution
// slots. It protects the rate-limited preview provider: at most maxConcurrent
// jobs run at once, the rest wait in submission order. A job failure or panic
// never stops the queue from draining. There is no retry and no cancellation;
// process exit abandons whatever is still queued.
type Dispatcher struct {
	mu            sync.Mutex
	cond          *sync.Cond
	queue         []queuedJob
	running       int
	maxConcurrent int
	jobTimeout    time.Duration
	closed        bool
	logger        *zap.SugaredLogger
}

type queuedJob struct {
	job  Job
	done chan error
}

func NewDispatcher(maxConcurrent int, jobTimeout time.Duration, logger *zap.Logger) *Dispatcher {
	if maxConcurrent < 1 {
		maxConcurrent = 3
	}
	if jobTimeout <= 0 {
		jobTimeout = 10 * time.Second
	}
	d := &Dispatcher{
		maxConcurrent: maxConcurrent,
		jobTimeout:    jobTimeout,
		logger:        logger.Sugar(),
	}
	d.cond = sync.NewCond(&d.mu)

	for i := 0; i < maxConcurrent; i++ {
		go d.worker()
	}

	return d
}

// Submit queues the job and returns a channel that receives its outcome
// exactly once. Jobs start in submission order; completion order is
// unspecified and callers must not rely on it.
func (d *Dispatcher) Submit(job Job) <-chan error {
	done := make(chan error, 1)

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		done <- fmt.Errorf("dispatcher is closed")
		return done
	}
	d.queue = append(d.queue, queuedJob{job: job, done: done})
	d.mu.Unlock()
	d.cond.Signal()

	return done
}

// Close stops workers once the queue drains. Used by tests and shutdown;
// submissions after Close fail immediately.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	d.cond.Broadcast()
}

func (d *Dispatcher) worker() {
	for {
		d.mu.Lock()
		for len(d.queue) == 0 && !d.closed {
			d.cond.Wait()
		}
		if len(d.queue) == 0 && d.closed {
			d.mu.Unlock()
			return
		}
		next := d.queue[0]
		d.queue = d.queue[1:]
		d.running++
		d.mu.Unlock()

		err := d.run(next.job)
		next.done <- err

		d.mu.Lock()
		d.running--
		d.mu.Unlock()
	}
}

func (d *Dispatcher) run(job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("enrichment job panicked: %v", r)
			d.logger.Errorw("Enrichment job panicked", "panic", r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), d.jobTimeout)
	defer cancel()

	return job(ctx)
}

// Pending reports queued-but-not-started jobs; Running reports occupied slots.
func (d *Dispatcher) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.queue)
}

func (d *Dispatcher) Running() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.running
}
