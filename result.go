package coros

// Result is a value-or-failure cell written exactly once, by the task
// frame that produced it, and read any number of times afterward. The
// zero value is not ready; call Get (or MustGet) only after the task it
// belongs to has completed.
type Result[T any] struct {
	value T
	err   error
	ready bool
}

// Get returns the task's value and error. If the task panicked, err is a
// *PanicError wrapping the recovered value. If the task hasn't completed
// yet, Get returns ErrResultNotReady.
func (r Result[T]) Get() (T, error) {
	if !r.ready {
		var zero T
		return zero, ErrResultNotReady
	}
	return r.value, r.err
}

// MustGet returns the value, panicking if the result isn't ready or the
// task it belongs to failed. Intended for use inside a task body, which
// already runs under panic recovery (see runBodySafely).
func (r Result[T]) MustGet() T {
	v, err := r.Get()
	if err != nil {
		panic(err)
	}
	return v
}

// Ready reports whether the result has been written.
func (r Result[T]) Ready() bool { return r.ready }

// Err returns the task's failure, if any, without panicking.
func (r Result[T]) Err() error { return r.err }

func newValueResult[T any](v T) Result[T] {
	return Result[T]{value: v, ready: true}
}

func newErrResult[T any](err error) Result[T] {
	return Result[T]{err: err, ready: true}
}
