package workerpool

import (
	"context"
	"errors"
	"runtime"
	"sync/atomic"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	pool := New(4)
	defer pool.Close()

	if pool.NumWorkers() != 4 {
		t.Errorf("NumWorkers() = %d, want 4", pool.NumWorkers())
	}
}

func TestNewDefault(t *testing.T) {
	pool := New(0)
	defer pool.Close()

	if pool.NumWorkers() != runtime.GOMAXPROCS(0) {
		t.Errorf("NumWorkers() = %d, want %d", pool.NumWorkers(), runtime.GOMAXPROCS(0))
	}
}

func TestForEachVisitsEveryIndex(t *testing.T) {
	pool := New(4)
	defer pool.Close()

	for _, n := range []int{0, 1, 3, 100} {
		results := make([]int, n)
		if err := pool.ForEach(context.Background(), n, 0, func(i int) {
			results[i] = i * 2
		}); err != nil {
			t.Fatalf("n=%d: ForEach() error = %v", n, err)
		}
		for i := range results {
			if results[i] != i*2 {
				t.Fatalf("n=%d: results[%d] = %d, want %d", n, i, results[i], i*2)
			}
		}
	}
}

func TestForEachRespectsLimit(t *testing.T) {
	pool := New(8)
	defer pool.Close()

	var running, peak atomic.Int32
	err := pool.ForEach(context.Background(), 64, 3, func(int) {
		cur := running.Add(1)
		for {
			old := peak.Load()
			if cur <= old || peak.CompareAndSwap(old, cur) {
				break
			}
		}
		time.Sleep(time.Millisecond)
		running.Add(-1)
	})
	if err != nil {
		t.Fatalf("ForEach() error = %v", err)
	}
	if p := peak.Load(); p > 3 {
		t.Fatalf("peak concurrency = %d, want <= 3", p)
	}
}

func TestForEachRecoversPanic(t *testing.T) {
	pool := New(2)
	defer pool.Close()

	var done atomic.Int32
	err := pool.ForEach(context.Background(), 10, 0, func(i int) {
		if i == 4 {
			panic("boom")
		}
		done.Add(1)
	})
	if !errors.Is(err, ErrTaskPanic) {
		t.Fatalf("err = %v, want ErrTaskPanic", err)
	}
	if done.Load() != 9 {
		t.Fatalf("%d tasks completed, want 9", done.Load())
	}

	// The pool must stay usable after a panic.
	if err := pool.ForEach(context.Background(), 4, 0, func(int) {}); err != nil {
		t.Fatalf("ForEach() after panic error = %v", err)
	}
}

func TestForEachCancelledContext(t *testing.T) {
	pool := New(2)
	defer pool.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var ran atomic.Bool
	err := pool.ForEach(ctx, 5, 0, func(int) { ran.Store(true) })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if ran.Load() {
		t.Fatal("no task should run when nothing could be scheduled")
	}
}

func TestClosedPool(t *testing.T) {
	pool := New(2)
	pool.Close()
	pool.Close()

	err := pool.ForEach(context.Background(), 3, 0, func(int) {})
	if !errors.Is(err, ErrClosed) {
		t.Fatalf("err = %v, want ErrClosed", err)
	}
}
