package docpipe

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
)

var errAbandoned = errors.New("deferred computation panicked")

// Deferred is a value computed lazily, at most once, and shared by every
// caller of Await.
//
// The computation runs on the first call to Await, under that call's
// context. Concurrent callers block until it completes and then observe the
// same value and error. A computation that fails because its caller's
// context ended is not remembered; the next Await runs it again.
type Deferred[T any] struct {
	mu   sync.Mutex
	done atomic.Bool
	fn   func(ctx context.Context) (T, error)
	val  T
	err  error
}

// Defer returns a Deferred that resolves to the result of fn.
func Defer[T any](fn func(ctx context.Context) (T, error)) *Deferred[T] {
	return &Deferred[T]{fn: fn}
}

// Resolved returns a Deferred already holding v.
func Resolved[T any](v T) *Deferred[T] {
	d := &Deferred[T]{val: v}
	d.done.Store(true)
	return d
}

// Then returns a Deferred applying fn to the value of d.
//
// Neither d nor fn is evaluated until the returned Deferred is awaited. If d
// fails, the returned Deferred fails with the same error and fn is never
// called.
func Then[In, Out any](d *Deferred[In], fn func(ctx context.Context, in In) (Out, error)) *Deferred[Out] {
	return Defer(func(ctx context.Context) (Out, error) {
		in, err := d.Await(ctx)
		if err != nil {
			var zero Out
			return zero, err
		}
		return fn(ctx, in)
	})
}

// Await resolves d, running its computation if no earlier call did.
//
// If the computation panics, the panic propagates to the caller that ran it
// and every later call fails. If it returns the error of a context that has
// ended, that error goes to this caller only.
func (d *Deferred[T]) Await(ctx context.Context) (T, error) {
	if d.done.Load() {
		return d.val, d.err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.done.Load() {
		return d.val, d.err
	}

	returned := false
	defer func() {
		if !returned {
			d.err = errAbandoned
			d.fn = nil
			d.done.Store(true)
		}
	}()
	val, err := d.fn(ctx)
	returned = true

	if err != nil && interrupted(ctx, err) {
		var zero T
		return zero, err
	}

	// drop the closure so captured inputs can be collected
	d.val, d.err, d.fn = val, err, nil
	d.done.Store(true)
	return val, err
}

// interrupted reports whether err is the error of ctx after ctx has ended.
func interrupted(ctx context.Context, err error) bool {
	cerr := ctx.Err()
	return cerr != nil && errors.Is(err, cerr)
}

// Done reports whether d has been resolved.
func (d *Deferred[T]) Done() bool {
	return d.done.Load()
}
