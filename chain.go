package coros

// AndThen composes t and f into a single task: run t, feed its result
// into f to produce the next task, then run that one and yield its
// result. Failure in either stage short-circuits the chain — the
// composed task panics with the upstream error, which runBodySafely
// turns into this task's own failing Result, exactly like any other
// panicking body.
//
// Go's type system can't express the variadic heterogeneous pipeline of
// the original and_then template as a single generic type (a method
// can't introduce a new type parameter), so chains are built by nesting
// AndThen calls, or via the fluent Chain wrapper below, which composes
// closures under the hood instead.
func AndThen[T, U any](pool *Pool, t Task[T], f func(T) Task[U]) Task[U] {
	next := NewTask(func(ctx *Context) U {
		r := Await(ctx, t)
		v := r.MustGet()
		return Await(ctx, f(v)).MustGet()
	})
	if pool != nil {
		next.fr.core.pool = pool
	}
	return next
}

// Chain is a fluent wrapper around a pipeline built with AndThen. Then is
// a package-level generic function (not a method) for the same reason
// AndThen is: it introduces a new type parameter U that Chain[T] itself
// doesn't have.
type Chain[T any] struct {
	task Task[T]
	pool *Pool
}

// NewChain starts a pipeline from an initial task.
func NewChain[T any](pool *Pool, t Task[T]) Chain[T] {
	return Chain[T]{task: t, pool: pool}
}

// Then appends a stage to the pipeline, returning a new Chain typed to
// the stage's output.
func Then[T, U any](c Chain[T], f func(T) Task[U]) Chain[U] {
	return Chain[U]{task: AndThen(c.pool, c.task, f), pool: c.pool}
}

// Task returns the composed pipeline as a single Task, ready to be
// awaited, started, or enqueued like any other.
func (c Chain[T]) Task() Task[T] { return c.task }
