package parallel

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/dd0wney/cluso-routesim/pkg/logging"
)

// WorkerPool manages a pool of worker goroutines
type WorkerPool struct {
	workers   int
	taskQueue chan func()
	wg        sync.WaitGroup
	once      sync.Once
	mu        sync.RWMutex // Protects taskQueue from concurrent close during send
	closed    bool         // Protected by mu
	onPanic   func(recovered any)
}

// ErrTooManyWorkers is returned when the worker count exceeds the maximum allowed.
var ErrTooManyWorkers = fmt.Errorf("worker count exceeds maximum")

// ErrTaskPanic wraps a panic recovered from a task run by ForEach
var ErrTaskPanic = fmt.Errorf("task panicked")

// MaxWorkers is the maximum number of workers allowed in a pool.
const MaxWorkers = math.MaxInt / 2

// Option configures a WorkerPool
type Option func(*WorkerPool)

// WithPanicHandler replaces the default handler, which logs recovered panics
func WithPanicHandler(fn func(recovered any)) Option {
	return func(wp *WorkerPool) {
		wp.onPanic = fn
	}
}

// NewWorkerPool creates a new worker pool with specified number of workers.
// Returns an error if the worker count exceeds MaxWorkers.
func NewWorkerPool(workers int, opts ...Option) (*WorkerPool, error) {
	if workers <= 0 {
		workers = 1
	}

	// Prevent overflow in buffer size calculation
	if workers > MaxWorkers {
		return nil, fmt.Errorf("%w: %d exceeds %d", ErrTooManyWorkers, workers, MaxWorkers)
	}

	pool := &WorkerPool{
		workers:   workers,
		taskQueue: make(chan func(), workers*2), // Buffer for 2x workers
		onPanic: func(r any) {
			logging.ErrorLog("worker panic recovered", logging.Component("parallel"), logging.Any("panic", fmt.Sprint(r)))
		},
	}
	for _, opt := range opts {
		opt(pool)
	}

	pool.start()
	return pool, nil
}

// Workers returns the number of worker goroutines
func (wp *WorkerPool) Workers() int {
	return wp.workers
}

// start initializes the worker goroutines
func (wp *WorkerPool) start() {
	for i := 0; i < wp.workers; i++ {
		wp.wg.Add(1)
		go wp.worker()
	}
}

// worker processes tasks from the queue
func (wp *WorkerPool) worker() {
	defer wp.wg.Done()

	for task := range wp.taskQueue {
		// Recover from panics in tasks to prevent worker crash
		func() {
			defer func() {
				if r := recover(); r != nil {
					wp.onPanic(r)
				}
			}()
			task()
		}()
	}
}

// Submit adds a task to the worker pool
// Returns false if the pool is closed, true if task was submitted
func (wp *WorkerPool) Submit(task func()) bool {
	wp.mu.RLock()
	defer wp.mu.RUnlock()

	// Check if pool is closed while holding read lock
	if wp.closed {
		return false
	}

	// Safe to send because we hold the lock and pool is not closed
	wp.taskQueue <- task
	return true
}

// Close shuts down the worker pool
func (wp *WorkerPool) Close() {
	wp.once.Do(func() {
		// Acquire write lock before closing
		wp.mu.Lock()
		wp.closed = true
		close(wp.taskQueue)
		wp.mu.Unlock()
	})
	wp.wg.Wait()
}

// Wait waits for all submitted tasks to complete
func (wp *WorkerPool) Wait() {
	// Close the queue and wait for workers to finish
	wp.Close()
}

// ForEach runs fn for every index in [0, n) on a fresh pool of the given size and waits
// for all of them. The first error cancels the context handed to the remaining tasks,
// and tasks not yet started are skipped. A panicking task is reported as ErrTaskPanic.
// The returned error is the one from the lowest failing index.
func ForEach(ctx context.Context, workers, n int, fn func(ctx context.Context, i int) error) error {
	if n <= 0 {
		return ctx.Err()
	}
	if workers > n {
		workers = n
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errs := make([]error, n)
	var failed sync.Once
	fail := func(i int, err error) {
		errs[i] = err
		failed.Do(cancel)
	}

	pool, err := NewWorkerPool(workers)
	if err != nil {
		return err
	}

submit:
	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			break submit
		default:
		}

		pool.Submit(func() {
			if ctx.Err() != nil {
				return
			}
			defer func() {
				if r := recover(); r != nil {
					fail(i, fmt.Errorf("%w: index %d: %v", ErrTaskPanic, i, r))
				}
			}()
			if err := fn(ctx, i); err != nil {
				fail(i, err)
			}
		})
	}
	pool.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	// Cancellation from the caller rather than a task failure
	return context.Cause(ctx)
}
