// Package future carries the result of a background load back to the
// simulation goroutine. Producers run on their own goroutine; the frame loop
// polls Ready/Result instead of receiving callbacks.
package future

import (
	"context"
	"errors"
	"math"
	"sync"
	"sync/atomic"
)

var (
	// ErrCancelled is returned by futures whose context was cancelled before
	// the work finished.
	ErrCancelled = errors.New("future: cancelled")
	// ErrPending is returned by Result before the future settles.
	ErrPending = errors.New("future: pending")
)

// Reporter publishes fractional progress in [0, 1].
type Reporter func(fraction float64)

// Future is a single-assignment result.
type Future[T any] struct {
	done     chan struct{}
	once     sync.Once
	value    T
	err      error
	progress atomic.Uint64
}

// New returns an unresolved future and the function that settles it. Only the
// first call to resolve has an effect.
func New[T any]() (*Future[T], func(T, error)) {
	f := &Future[T]{done: make(chan struct{})}
	return f, f.resolve
}

// Go runs fn on a new goroutine and settles the future with its result.
func Go[T any](ctx context.Context, fn func(ctx context.Context, report Reporter) (T, error)) *Future[T] {
	f, resolve := New[T]()
	go func() {
		v, err := fn(ctx, f.setProgress)
		if err == nil && ctx.Err() != nil {
			err = ErrCancelled
		}
		resolve(v, err)
	}()
	return f
}

// Resolved returns a future that already holds v.
func Resolved[T any](v T) *Future[T] {
	f, resolve := New[T]()
	resolve(v, nil)
	return f
}

// Rejected returns a future that already failed with err.
func Rejected[T any](err error) *Future[T] {
	f, resolve := New[T]()
	var zero T
	resolve(zero, err)
	return f
}

func (f *Future[T]) resolve(v T, err error) {
	f.once.Do(func() {
		f.value = v
		f.err = err
		if err == nil {
			f.setProgress(1)
		}
		close(f.done)
	})
}

func (f *Future[T]) setProgress(p float64) {
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	f.progress.Store(math.Float64bits(p))
}

// Done is closed once the future settles.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Ready reports whether the future has settled.
func (f *Future[T]) Ready() bool {
	if f == nil {
		return false
	}
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Result returns the settled value, or ErrPending before the future settles.
func (f *Future[T]) Result() (T, error) {
	if !f.Ready() {
		var zero T
		return zero, ErrPending
	}
	return f.value, f.err
}

// Progress returns the last reported fraction.
func (f *Future[T]) Progress() float64 {
	if f == nil {
		return 0
	}
	return math.Float64frombits(f.progress.Load())
}

// Wait blocks until the future settles or ctx is done. Tools use it; the
// frame loop never does.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
