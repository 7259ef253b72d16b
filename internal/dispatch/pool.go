// Package dispatch provides the bounded worker pool that runs top-level
// contact operations off the caller's goroutine, delivering results through
// single-assignment futures rather than shared mutable state.
package dispatch

import (
	"context"
	"errors"

	"golang.org/x/sync/semaphore"
)

// ErrClosed is returned for work submitted after Close.
var ErrClosed = errors.New("dispatch: pool closed")

// Pool bounds the number of concurrently running operations. It is created
// once, shared, and never mutated except by Close.
type Pool struct {
	sem  *semaphore.Weighted
	done chan struct{}
}

// NewPool creates a pool running at most size operations at once.
func NewPool(size int) *Pool {
	if size <= 0 {
		size = 1
	}
	return &Pool{
		sem:  semaphore.NewWeighted(int64(size)),
		done: make(chan struct{}),
	}
}

// Close rejects further submissions. In-flight operations run to completion;
// the pool never cancels work it already accepted.
func (p *Pool) Close() {
	select {
	case <-p.done:
	default:
		close(p.done)
	}
}

func (p *Pool) closed() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// Future is a single-assignment result cell.
type Future[T any] struct {
	ch    chan struct{}
	value T
	err   error
}

// Wait blocks until the result is assigned or ctx is cancelled. Abandoning a
// future does not cancel the underlying work.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.ch:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Submit schedules fn on the pool and returns its future. fn starts once a
// worker slot frees up; slot acquisition respects ctx.
func Submit[T any](ctx context.Context, p *Pool, fn func() (T, error)) *Future[T] {
	f := &Future[T]{ch: make(chan struct{})}
	if p.closed() {
		f.err = ErrClosed
		close(f.ch)
		return f
	}
	if err := p.sem.Acquire(ctx, 1); err != nil {
		f.err = err
		close(f.ch)
		return f
	}
	go func() {
		defer p.sem.Release(1)
		f.value, f.err = fn()
		close(f.ch)
	}()
	return f
}

// Run schedules fn and waits for its result.
func Run[T any](ctx context.Context, p *Pool, fn func() (T, error)) (T, error) {
	return Submit(ctx, p, fn).Wait(ctx)
}
