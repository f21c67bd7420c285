package coros

// StartSync submits t to pool and blocks the calling goroutine — which
// need not be a pool worker — until t (and everything it transitively
// awaits) completes, returning its result.
func StartSync[T any](pool *Pool, t Task[T]) Result[T] {
	done := make(chan struct{})
	t.fr.core.pool = pool
	t.fr.core.hasContinuation = true
	t.fr.core.continuation = handle{frame: notifyFrame{fn: func() { close(done) }}}
	pool.Schedule(t.handle(poolManaged))
	<-done
	return t.fr.result
}

// StartHandle is returned by StartAsync: a detached submission the
// caller can Wait on later, from any goroutine.
type StartHandle[T any] struct {
	done chan struct{}
	fr   *taskFrame[T]
}

// StartAsync submits t to pool immediately and returns without blocking.
// The task runs to completion regardless of whether Wait is ever called —
// there is no cancellation in this runtime, so a discarded StartHandle
// simply means nobody collects the result.
func StartAsync[T any](pool *Pool, t Task[T]) *StartHandle[T] {
	h := &StartHandle[T]{done: make(chan struct{}), fr: t.fr}
	t.fr.core.pool = pool
	t.fr.core.hasContinuation = true
	t.fr.core.continuation = handle{frame: notifyFrame{fn: func() { close(h.done) }}}
	pool.Schedule(t.handle(poolManaged))
	return h
}

// Wait blocks until the started task completes and returns its result.
// Safe to call more than once (and from more than one goroutine): the
// first call and every subsequent call all observe the same result.
func (h *StartHandle[T]) Wait() Result[T] {
	<-h.done
	return h.fr.result
}
