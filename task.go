package coros

import (
	"runtime/debug"
	"time"

	"github.com/nullstream/coros/internal/workerctx"
)

// Task is a lazily-started unit of work producing a T. Constructing one
// with NewTask does no work: the body only begins running the first time
// the task is resumed, either by being awaited (Await), handed to
// WaitTasks/WaitTasksAsync, started directly (StartSync/StartAsync), or
// submitted fire-and-forget (EnqueueTask).
//
// A Task must be consumed exactly once — awaited, started, enqueued, or
// waited on — matching the r-value-only ownership of the frame it wraps.
// Copying a Task copies the handle, not the frame: both copies still
// refer to the same underlying body and result slot.
type Task[T any] struct {
	fr *taskFrame[T]
}

// NewTask wraps body as a Task. body receives a *Context for awaiting
// children and reaching the pool it ends up running on.
func NewTask[T any](body func(*Context) T) Task[T] {
	return Task[T]{fr: newTaskFrame(body)}
}

// handle returns the schedulable handle for this task's frame, tagged
// with the given lifetime.
func (t Task[T]) handle(life lifetime) handle {
	return handle{frame: t.fr, life: life}
}

// taskFrame is the generic half of a task's frame: the body function and
// its result slot. The channel rendezvous and bookkeeping shared with
// Context live in the non-generic frameCore so Await can be a
// package-level generic function instead of a method.
type taskFrame[T any] struct {
	core   *frameCore
	body   func(*Context) T
	result Result[T]
}

func newTaskFrame[T any](body func(*Context) T) *taskFrame[T] {
	f := &taskFrame[T]{core: newFrameCore(), body: body}
	f.core.self = f
	return f
}

// resume is called by a worker's trampoline loop. The first call starts
// the body's goroutine; later calls unpark it. Either way resume blocks
// until the body suspends again (awaiting a child) or finishes, and
// returns the next handle for the trampoline to continue into.
func (f *taskFrame[T]) resume() handle {
	if f.core.released.Load() {
		return noopHandle
	}
	if f.core.started.CompareAndSwap(false, true) {
		f.core.startedAt = time.Now()
		if wc, ok := workerctx.Current(); ok {
			f.core.workerCtx = wc
		}
		go f.run()
	} else {
		f.core.resumeSignal <- struct{}{}
	}
	return <-f.core.yieldSignal
}

// release discards the frame without letting its body run to completion.
// A body that never started is simply marked released. A body parked
// mid-await is woken via cancelCh and unwinds itself with a recovered
// panic (see runBodySafely), so its goroutine never leaks.
//
// Either way, release itself (not the unwinding body) stores the
// pool-shutdown result and fires any continuation, so a StartHandle.Wait
// or an awaiting parent is never left blocked on a frame that is being
// thrown away rather than run to completion.
func (f *taskFrame[T]) release() {
	if f.core.started.CompareAndSwap(false, true) {
		f.core.released.Store(true)
		f.result = newErrResult[T](ErrPoolShutdown)
		if f.core.hasContinuation {
			runTrampoline(f.core.continuation)
		}
		return
	}
	if f.core.released.CompareAndSwap(false, true) {
		f.result = newErrResult[T](ErrPoolShutdown)
		close(f.core.cancelCh)
		if f.core.hasContinuation {
			runTrampoline(f.core.continuation)
		}
	}
}

func (f *taskFrame[T]) run() {
	if f.core.workerCtx != nil {
		workerctx.Bind(f.core.workerCtx)
		defer workerctx.Unbind()
	}
	ctx := &Context{core: f.core}
	v, err := f.runBodySafely(ctx)

	if f.core.released.Load() {
		// discarded mid-flight: nothing reads result, nothing resumes us.
		return
	}

	if err != nil {
		f.result = newErrResult[T](err)
		if pe, ok := err.(*PanicError); ok && f.core.pool != nil {
			f.core.pool.logger.Log(logTaskPanicked(f.core.id, pe.Value, pe.Stack))
		}
	} else {
		f.result = newValueResult(v)
	}
	if f.core.pool != nil && !f.core.startedAt.IsZero() {
		f.core.pool.metrics.recordTaskLatency(time.Since(f.core.startedAt))
	}

	next := noopHandle
	if f.core.hasContinuation {
		next = f.core.continuation
	}
	f.core.yieldSignal <- next
}

func (f *taskFrame[T]) runBodySafely(ctx *Context) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			if r == cancelSentinel { //nolint:errorlint // sentinel identity, not an error
				return
			}
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	v = f.body(ctx)
	return v, nil
}
