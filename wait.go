package coros

// WaitTasks returns a task that, when run, submits every task in tasks to
// the current pool (resolved from the calling task's Context — see
// internal/workerctx) and suspends until all of them have completed,
// yielding their results in the same order. The suspension goes through
// the same asyncBarrier as WaitHandle.Get, so the worker that ran the
// caller is free to run the siblings meanwhile. This is the structured,
// await-now join: the caller typically does
// `results := Await(ctx, WaitTasks(a, b, c))`.
func WaitTasks[T any](tasks ...Task[T]) Task[[]Result[T]] {
	return NewTask(func(ctx *Context) []Result[T] {
		return waitAll(ctx, ctx.Pool(), tasks)
	})
}

// WaitTasksOn is WaitTasks but submits the sibling wrapper tasks to pool
// rather than the caller's own pool, for cross-pool fork/join.
func WaitTasksOn[T any](pool *Pool, tasks ...Task[T]) Task[[]Result[T]] {
	return NewTask(func(ctx *Context) []Result[T] {
		return waitAll(ctx, pool, tasks)
	})
}

func waitAll[T any](ctx *Context, pool *Pool, tasks []Task[T]) []Result[T] {
	n := len(tasks)
	results := make([]Result[T], n)
	if n == 0 {
		return results
	}
	barrier := newAsyncBarrier(n)
	for i, t := range tasks {
		i, t := i, t
		wrapper := NewTask(func(wctx *Context) struct{} {
			results[i] = Await(wctx, t)
			barrier.arrive()
			return struct{}{}
		})
		wrapper.fr.core.pool = pool
		pool.Schedule(wrapper.handle(poolManaged))
	}
	return (&WaitHandle[T]{barrier: barrier, results: results}).Get(ctx)
}

// WaitHandle is the detached, await-later join: unlike WaitTasks it does
// not block the caller. Get() resumes the calling task's own body once
// every submitted task has finished — arriving after the fact is the
// common case, but Get() also works correctly if called before any child
// has completed, racing the last child's completion via asyncBarrier.
type WaitHandle[T any] struct {
	barrier *asyncBarrier
	results []Result[T]
}

// WaitTasksAsync submits every task in tasks to the current pool
// immediately (not lazily — unlike a bare Task) and returns a handle the
// caller can Get() later, potentially after doing unrelated work first.
func WaitTasksAsync[T any](ctx *Context, tasks ...Task[T]) *WaitHandle[T] {
	return waitTasksAsyncOn(ctx.Pool(), tasks)
}

// WaitTasksAsyncOn is WaitTasksAsync but submits to an explicit pool
// instead of resolving one from ctx.
func WaitTasksAsyncOn[T any](pool *Pool, tasks ...Task[T]) *WaitHandle[T] {
	return waitTasksAsyncOn(pool, tasks)
}

func waitTasksAsyncOn[T any](pool *Pool, tasks []Task[T]) *WaitHandle[T] {
	n := len(tasks)
	wh := &WaitHandle[T]{
		barrier: newAsyncBarrier(n),
		results: make([]Result[T], n),
	}
	for i, t := range tasks {
		i, t := i, t
		wrapper := NewTask(func(wctx *Context) struct{} {
			wh.results[i] = Await(wctx, t)
			wh.barrier.arrive()
			return struct{}{}
		})
		wrapper.fr.core.pool = pool
		pool.Schedule(wrapper.handle(poolManaged))
	}
	return wh
}

// Get suspends the calling task body (via ctx) until every task submitted
// through WaitTasksAsync has completed, then returns their results in
// submission order. Must be called from inside a running task body.
func (wh *WaitHandle[T]) Get(ctx *Context) []Result[T] {
	self := handle{frame: ctx.core.self, life: scopeManaged}
	if !wh.barrier.awaitReady(self) {
		ctx.core.yieldSignal <- noopHandle
		select {
		case <-ctx.core.resumeSignal:
		case <-ctx.core.cancelCh:
			panic(cancelSentinel)
		}
	}
	return wh.results
}
