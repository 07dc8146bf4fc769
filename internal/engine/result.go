package engine

import (
	"context"
	"sync"
)

// Result is the completion token returned by every Engine operation. It is
// resolved exactly once, possibly before the call that created it returns.
type Result[T any] struct {
	done chan struct{}

	mu        sync.Mutex
	resolved  bool
	val       T
	err       error
	callbacks []func(T, error)
}

func newResult[T any]() *Result[T] {
	return &Result[T]{done: make(chan struct{})}
}

func resolvedResult[T any](v T) *Result[T] {
	r := newResult[T]()
	r.resolve(v, nil)
	return r
}

func failedResult[T any](err error) *Result[T] {
	r := newResult[T]()
	var zero T
	r.resolve(zero, err)
	return r
}

// resolve completes the result. Later calls are ignored and return false.
func (r *Result[T]) resolve(v T, err error) bool {
	r.mu.Lock()
	if r.resolved {
		r.mu.Unlock()
		return false
	}
	r.resolved = true
	r.val, r.err = v, err
	cbs := r.callbacks
	r.callbacks = nil
	close(r.done)
	r.mu.Unlock()

	for _, cb := range cbs {
		cb(v, err)
	}
	return true
}

// onResolve calls fn with the outcome, immediately if already resolved.
func (r *Result[T]) onResolve(fn func(T, error)) {
	r.mu.Lock()
	if !r.resolved {
		r.callbacks = append(r.callbacks, fn)
		r.mu.Unlock()
		return
	}
	v, err := r.val, r.err
	r.mu.Unlock()
	fn(v, err)
}

// Done is closed once the result is resolved.
func (r *Result[T]) Done() <-chan struct{} { return r.done }

// Wait blocks until the result is resolved or ctx is done.
func (r *Result[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-r.done:
		return r.Value()
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Value returns the outcome; both are zero until the result is resolved.
func (r *Result[T]) Value() (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.val, r.err
}

// Err returns the error of a resolved result, nil otherwise.
func (r *Result[T]) Err() error {
	_, err := r.Value()
	return err
}

// adapt erases the value type without spawning a goroutine.
func adapt[T any](r *Result[T]) *Result[any] {
	out := newResult[any]()
	r.onResolve(func(v T, err error) {
		if err != nil {
			out.resolve(nil, err)
			return
		}
		out.resolve(v, nil)
	})
	return out
}

func resolveAll(rs []*Result[struct{}], err error) {
	for _, r := range rs {
		r.resolve(struct{}{}, err)
	}
}
