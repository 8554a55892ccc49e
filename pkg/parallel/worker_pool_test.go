package parallel

import (
	"bytes"
	"context"
	"errors"
	"math"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dd0wney/cluso-routesim/pkg/logging"
)

func newPool(t *testing.T, workers int, opts ...Option) *WorkerPool {
	t.Helper()
	pool, err := NewWorkerPool(workers, opts...)
	if err != nil {
		t.Fatalf("NewWorkerPool(%d) failed: %v", workers, err)
	}
	return pool
}

// TestWorkerPoolBasicOperations tests basic worker pool functionality
func TestWorkerPoolBasicOperations(t *testing.T) {
	pool := newPool(t, 4)

	executed := false
	if !pool.Submit(func() { executed = true }) {
		t.Error("Task submission failed")
	}

	// Wait for task to complete
	pool.Close()

	if !executed {
		t.Error("Task was not executed")
	}
}

func TestWorkerPoolSizing(t *testing.T) {
	if _, err := NewWorkerPool(math.MaxInt); !errors.Is(err, ErrTooManyWorkers) {
		t.Errorf("Expected ErrTooManyWorkers, got %v", err)
	}

	tests := []struct {
		requested int
		expected  int
	}{
		{-5, 1},
		{0, 1},
		{1, 1},
		{16, 16},
	}
	for _, tt := range tests {
		pool := newPool(t, tt.requested)
		if pool.Workers() != tt.expected {
			t.Errorf("NewWorkerPool(%d).Workers() = %d, want %d", tt.requested, pool.Workers(), tt.expected)
		}
		if cap(pool.taskQueue) != tt.expected*2 {
			t.Errorf("Queue capacity = %d, want %d", cap(pool.taskQueue), tt.expected*2)
		}
		pool.Close()
	}
}

// TestWorkerPoolConcurrentSubmissions tests concurrent task submissions
func TestWorkerPoolConcurrentSubmissions(t *testing.T) {
	pool := newPool(t, 10)

	numTasks := 100
	var counter int64

	var wg sync.WaitGroup
	for i := 0; i < numTasks; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pool.Submit(func() {
				atomic.AddInt64(&counter, 1)
			})
		}()
	}

	wg.Wait()
	pool.Close()

	if counter != int64(numTasks) {
		t.Errorf("Expected counter %d, got %d", numTasks, counter)
	}
}

// TestWorkerPoolCloseRace validates that closing the pool while submitting tasks doesn't panic
func TestWorkerPoolCloseRace(t *testing.T) {
	for iteration := 0; iteration < 50; iteration++ {
		pool := newPool(t, 4)

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 10; j++ {
					// Might fail if closed
					pool.Submit(func() {
						time.Sleep(time.Millisecond)
					})
				}
			}()
		}

		time.Sleep(2 * time.Millisecond)
		pool.Close()
		wg.Wait()
	}
}

// TestWorkerPoolSubmitAfterClose tests that submissions after close return false
func TestWorkerPoolSubmitAfterClose(t *testing.T) {
	pool := newPool(t, 4)
	pool.Close()
	pool.Close()

	if pool.Submit(func() { t.Error("This task should never execute") }) {
		t.Error("Task submission after close should return false")
	}
}

func TestWorkerPoolPanicRecovery(t *testing.T) {
	var recovered atomic.Value
	pool := newPool(t, 2, WithPanicHandler(func(r any) { recovered.Store(r) }))

	var ran int64
	pool.Submit(func() { panic("bad mux") })
	for i := 0; i < 10; i++ {
		pool.Submit(func() { atomic.AddInt64(&ran, 1) })
	}
	pool.Wait()

	if recovered.Load() != "bad mux" {
		t.Errorf("Panic handler got %v, want bad mux", recovered.Load())
	}
	if ran != 10 {
		t.Errorf("Workers should survive a panic, ran %d of 10 tasks", ran)
	}
}

func TestWorkerPoolDefaultPanicHandlerLogs(t *testing.T) {
	var buf bytes.Buffer
	defer logging.SetDefaultLogger(logging.SetDefaultLogger(logging.NewJSONLogger(&buf, logging.InfoLevel)))

	pool := newPool(t, 1)
	pool.Submit(func() { panic("bad mux") })
	pool.Wait()

	out := buf.String()
	if !strings.Contains(out, "worker panic recovered") || !strings.Contains(out, "bad mux") {
		t.Errorf("Default panic handler should log through the default logger, got %q", out)
	}
}

func TestForEachRunsEveryIndex(t *testing.T) {
	for _, workers := range []int{1, 3, 64} {
		seen := make([]int32, 100)
		err := ForEach(context.Background(), workers, len(seen), func(_ context.Context, i int) error {
			atomic.AddInt32(&seen[i], 1)
			return nil
		})
		if err != nil {
			t.Fatalf("ForEach with %d workers failed: %v", workers, err)
		}
		for i, n := range seen {
			if n != 1 {
				t.Fatalf("Index %d ran %d times with %d workers", i, n, workers)
			}
		}
	}

	if err := ForEach(context.Background(), 4, 0, nil); err != nil {
		t.Errorf("ForEach over nothing should succeed, got %v", err)
	}
}

func TestForEachStopsOnFirstError(t *testing.T) {
	errBoom := errors.New("boom")
	var ran int64

	err := ForEach(context.Background(), 1, 1000, func(ctx context.Context, i int) error {
		atomic.AddInt64(&ran, 1)
		if i == 3 {
			return errBoom
		}
		return nil
	})

	if !errors.Is(err, errBoom) {
		t.Fatalf("Expected errBoom, got %v", err)
	}
	if ran >= 1000 {
		t.Errorf("Remaining tasks should be skipped after a failure, ran %d", ran)
	}
}

func TestForEachReportsLowestFailingIndex(t *testing.T) {
	err := ForEach(context.Background(), 4, 8, func(_ context.Context, i int) error {
		time.Sleep(time.Duration(8-i) * time.Millisecond)
		if i == 2 || i == 6 {
			return errors.New(string(rune('0' + i)))
		}
		return nil
	})
	if err == nil {
		t.Fatal("Expected an error")
	}
	if err.Error() != "2" && err.Error() != "6" {
		t.Errorf("Unexpected error %v", err)
	}
}

func TestForEachRecoversPanics(t *testing.T) {
	err := ForEach(context.Background(), 2, 4, func(_ context.Context, i int) error {
		if i == 1 {
			panic("unreachable block")
		}
		return nil
	})
	if !errors.Is(err, ErrTaskPanic) {
		t.Errorf("Expected ErrTaskPanic, got %v", err)
	}
}

func TestForEachHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var ran int64
	err := ForEach(ctx, 4, 100, func(context.Context, int) error {
		atomic.AddInt64(&ran, 1)
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if ran != 0 {
		t.Errorf("No task should run on a cancelled context, ran %d", ran)
	}
}
