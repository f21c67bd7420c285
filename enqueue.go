package coros

// EnqueueTask submits t to pool and returns immediately: nobody waits on
// it, nothing joins it, and its result is discarded once it completes.
// The wrapper task takes ownership of t outright — t must not be
// referenced again by the caller afterward, matching the original's
// r-value-only enqueue_tasks contract.
func EnqueueTask[T any](pool *Pool, t Task[T]) {
	wrapper := NewTask(func(ctx *Context) struct{} {
		Await(ctx, t)
		return struct{}{}
	})
	wrapper.fr.core.pool = pool
	pool.Schedule(wrapper.handle(poolManaged))
}

// EnqueueTasks submits every task in tasks fire-and-forget, as EnqueueTask.
func EnqueueTasks[T any](pool *Pool, tasks ...Task[T]) {
	for _, t := range tasks {
		EnqueueTask(pool, t)
	}
}
