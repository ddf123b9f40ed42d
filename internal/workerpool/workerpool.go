// Package workerpool provides a long-lived worker pool for running batches of
// indexed tasks.
//
// A Pool is created once and reused across many batches. Each batch is
// submitted with a barrier and ForEach returns only after every task of the
// batch has finished, so no task outlives the call that scheduled it.
//
//	pool := workerpool.New(runtime.GOMAXPROCS(0))
//	defer pool.Close()
//
//	err := pool.ForEach(ctx, len(chunks), 4, func(i int) {
//	    out[i] = process(chunks[i])
//	})
package workerpool

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
)

var (
	// ErrClosed is returned when submitting to a closed pool.
	ErrClosed = errors.New("workerpool: pool is closed")
	// ErrTaskPanic is wrapped by the error ForEach returns when a task panics.
	ErrTaskPanic = errors.New("workerpool: task panicked")
)

// Pool is a fixed set of goroutines that execute submitted work items.
type Pool struct {
	numWorkers int
	workC      chan workItem
	wg         sync.WaitGroup
	closed     atomic.Bool
	submitMu   sync.RWMutex
}

type workItem struct {
	fn      func()
	barrier *sync.WaitGroup
}

// New starts a pool with numWorkers goroutines. If numWorkers <= 0,
// GOMAXPROCS is used.
func New(numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	p := &Pool{
		numWorkers: numWorkers,
		workC:      make(chan workItem, numWorkers*2),
	}

	p.wg.Add(numWorkers)
	for range numWorkers {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for item := range p.workC {
		item.fn()
		item.barrier.Done()
	}
}

// NumWorkers returns the number of worker goroutines.
func (p *Pool) NumWorkers() int {
	return p.numWorkers
}

// Close stops the workers after the queued work has run and waits for them
// to exit. Calling Close more than once is safe.
func (p *Pool) Close() {
	if !p.closed.CompareAndSwap(false, true) {
		return
	}
	p.submitMu.Lock()
	close(p.workC)
	p.submitMu.Unlock()
	p.wg.Wait()
}

// ForEach calls fn(i) for every i in [0, n) with at most limit calls running
// at once. limit is capped at the pool size; limit <= 0 means the pool size.
// Indexes are claimed in increasing order.
//
// ForEach blocks until every claimed index has finished. If ctx is cancelled
// before any worker could be scheduled, no index runs and ctx.Err() is
// returned. Once at least one worker is scheduled all n indexes run; ctx only
// reduces the parallelism. A panic inside fn is recovered, the remaining
// indexes still run, and the first panic is returned wrapped in ErrTaskPanic.
func (p *Pool) ForEach(ctx context.Context, n, limit int, fn func(i int)) error {
	if n <= 0 {
		return nil
	}
	if limit <= 0 || limit > p.numWorkers {
		limit = p.numWorkers
	}
	workers := min(limit, n)

	var (
		next     atomic.Int64
		panicked atomic.Pointer[panicValue]
		barrier  sync.WaitGroup
	)

	loop := func() {
		for {
			i := int(next.Add(1)) - 1
			if i >= n {
				return
			}
			if v := runTask(fn, i); v != nil {
				panicked.CompareAndSwap(nil, v)
			}
		}
	}

	submitted := 0
	var submitErr error
	for range workers {
		barrier.Add(1)
		if err := p.submit(ctx, workItem{fn: loop, barrier: &barrier}); err != nil {
			barrier.Done()
			submitErr = err
			break
		}
		submitted++
	}
	barrier.Wait()

	if submitted == 0 {
		return submitErr
	}
	if v := panicked.Load(); v != nil {
		return fmt.Errorf("%w: index %d: %v", ErrTaskPanic, v.index, v.value)
	}
	return nil
}

type panicValue struct {
	index int
	value any
}

func runTask(fn func(int), i int) (pv *panicValue) {
	defer func() {
		if r := recover(); r != nil {
			pv = &panicValue{index: i, value: r}
		}
	}()
	fn(i)
	return nil
}

func (p *Pool) submit(ctx context.Context, item workItem) error {
	p.submitMu.RLock()
	defer p.submitMu.RUnlock()

	if p.closed.Load() {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case p.workC <- item:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
