// Package future provides promise types used to deliver the results of
// operations that are performed in the background.
package future

import (
	"context"
	"sync"
	"sync/atomic"
)

// New returns a future that can be fulfilled with a value of type T or an
// error, and its associated resolver.
func New[T any]() (Future[T], Resolver[T]) {
	s := &state[T]{
		ready: make(chan struct{}),
	}

	return Future[T]{s}, Resolver[T]{s}
}

// Resolved returns a future that is already resolved with the given value and
// error.
func Resolved[T any](v T, err error) Future[T] {
	f, r := New[T]()
	r.resolve(v, err)
	return f
}

// Future represents the eventual result of an operation that produces a value
// of type T, or an error indicating that the operation failed.
type Future[T any] struct {
	s *state[T]
}

// Ready returns a channel that is closed when the result is ready.
func (f Future[T]) Ready() <-chan struct{} {
	return f.s.ready
}

// Get returns the result. It panics if the result is not ready.
func (f Future[T]) Get() (T, error) {
	if r := f.s.result.Load(); r != nil {
		return r.value, r.err
	}
	panic("future value is not ready")
}

// Wait blocks until the result is ready, then returns it.
//
// It returns ctx.Err() if ctx is canceled before the result is ready. This has
// no effect on the operation itself, which always runs to completion.
func (f Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case <-f.s.ready:
		return f.Get()
	}
}

// Then arranges for fn to be called with the result once it is ready.
//
// If the result is already available, fn is called immediately, on the calling
// goroutine. Otherwise, it is called on the goroutine that resolves the future.
func (f Future[T]) Then(fn func(T, error)) {
	f.s.m.Lock()

	if r := f.s.result.Load(); r != nil {
		f.s.m.Unlock()
		fn(r.value, r.err)
		return
	}

	f.s.callbacks = append(f.s.callbacks, fn)
	f.s.m.Unlock()
}

// Resolver is used to provide a result to a [Future].
type Resolver[T any] struct {
	s *state[T]
}

// Set resolves the future with the given value.
func (r Resolver[T]) Set(v T) {
	r.resolve(v, nil)
}

// Err resolves the future with the given error.
func (r Resolver[T]) Err(err error) {
	var zero T
	r.resolve(zero, err)
}

// IsResolved returns true if the future has been resolved, either successfully
// or with an error.
func (r Resolver[T]) IsResolved() bool {
	return r.s.result.Load() != nil
}

func (r Resolver[T]) resolve(v T, err error) {
	r.s.m.Lock()

	if !r.s.result.CompareAndSwap(nil, &result[T]{v, err}) {
		r.s.m.Unlock()
		panic("future has already been resolved")
	}

	callbacks := r.s.callbacks
	r.s.callbacks = nil
	close(r.s.ready)

	r.s.m.Unlock()

	for _, fn := range callbacks {
		fn(v, err)
	}
}

type state[T any] struct {
	ready  chan struct{}
	result atomic.Pointer[result[T]]

	m         sync.Mutex
	callbacks []func(T, error)
}

type result[T any] struct {
	value T
	err   error
}
