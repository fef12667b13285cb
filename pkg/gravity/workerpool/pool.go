// Package workerpool provides a fixed-size goroutine pool used by the
// octree to parallelise sibling subtree updates.
package workerpool

import (
	"runtime"
	"sync"

	sdkerrors "cosmossdk.io/errors"

	"github.com/oxygene76/gravity-octree/pkg/gravity/apperrors"
)

// Pool runs submitted work on a fixed number of goroutines.
type Pool struct {
	slots chan struct{}
}

// New returns a Pool that runs at most workers tasks concurrently. A
// workers value <= 0 defaults to runtime.GOMAXPROCS(0).
func New(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	return &Pool{slots: make(chan struct{}, workers)}
}

// Workers returns the pool's concurrency limit.
func (p *Pool) Workers() int {
	return cap(p.slots)
}

// Future is the result of a task submitted with SubmitAsync: its error,
// available once Wait returns.
type Future struct {
	wg  sync.WaitGroup
	err error
}

// Wait blocks until the task backing f has completed and returns its error.
func (f *Future) Wait() error {
	f.wg.Wait()
	return f.err
}

// Submit runs fn on a pool goroutine, blocking until a slot is free, and
// blocks until fn returns.
func (p *Pool) Submit(fn func() error) error {
	f := p.SubmitAsync(fn)
	return f.Wait()
}

// SubmitAsync runs fn on a pool goroutine, blocking only until a slot is
// free, and returns immediately with a Future for its result.
func (p *Pool) SubmitAsync(fn func() error) *Future {
	f := &Future{}
	f.wg.Add(1)

	p.slots <- struct{}{}
	go func() {
		defer func() { <-p.slots }()
		defer f.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				f.err = sdkerrors.Wrapf(apperrors.ErrAsyncTask, "panic: %v", r)
			}
		}()
		f.err = fn()
	}()

	return f
}

// ForEach applies fn to every element of items on the pool, blocking until
// every call has returned, and aggregates any failures into a single error
// wrapping apperrors.ErrAsyncTask.
func ForEach[T any](p *Pool, items []T, fn func(T) error) error {
	futures := ForEachAsync(p, items, fn)

	errs := make([]error, len(futures))
	for i, f := range futures {
		errs[i] = f.Wait()
	}

	return apperrors.Aggregate(errs)
}

// ForEachAsync applies fn to every element of items on the pool, returning
// one Future per element once every element has been started. Each start
// waits for a free slot, so with more items than workers it blocks until
// enough earlier calls have returned; it does not wait for the last ones.
func ForEachAsync[T any](p *Pool, items []T, fn func(T) error) []*Future {
	futures := make([]*Future, len(items))
	for i, item := range items {
		item := item
		futures[i] = p.SubmitAsync(func() error { return fn(item) })
	}
	return futures
}
