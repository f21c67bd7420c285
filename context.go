package coros

import (
	"sync/atomic"
	"time"

	"github.com/nullstream/coros/internal/workerctx"
)

// cancelSentinel is the panic value used to unwind a parked task body
// goroutine when its frame is released (discarded) before completion. It
// is never visible outside this package: runBodySafely recovers it and
// treats it as "no result, nothing to report".
var cancelSentinel = new(int)

var taskIDCounter atomic.Uint64

// nextTaskID assigns a monotonically increasing id to each frame, used
// purely for log correlation.
func nextTaskID() uint64 { return taskIDCounter.Add(1) }

// frameCore is the channel-based rendezvous shared by a taskFrame and the
// goroutine running its body. It is the non-generic part of a task frame,
// so Context (which a task body holds onto across arbitrary awaits of
// differently-typed children) doesn't need a type parameter of its own.
type frameCore struct {
	self frame // the taskFrame[T] that owns this core, boxed as frame

	resumeSignal chan struct{}
	yieldSignal  chan handle
	cancelCh     chan struct{}

	started  atomic.Bool
	released atomic.Bool

	hasContinuation bool
	continuation    handle

	pool      *Pool
	startedAt time.Time
	workerCtx *workerctx.Context
	id        uint64
}

func newFrameCore() *frameCore {
	return &frameCore{
		resumeSignal: make(chan struct{}),
		yieldSignal:  make(chan handle),
		cancelCh:     make(chan struct{}),
		id:           nextTaskID(),
	}
}

// Context is passed to every task body. It is the only way a body
// suspends on a child task (via the package-level Await function — a
// method can't introduce Await's own type parameter) or reaches the pool
// it is running on (to start further work, e.g. from inside WaitTasks).
type Context struct {
	core *frameCore
}

// Pool returns the pool this task's body is currently running on.
func (c *Context) Pool() *Pool { return c.core.pool }

// Await suspends the calling task body until child completes, achieving
// symmetric transfer: control passes directly to child's frame without
// going back through the scheduler's run loop, and resumes the caller
// directly when child reaches its own final suspension (or hands control
// to whatever it awaits next). Each Task may only be awaited once.
func Await[U any](ctx *Context, child Task[U]) Result[U] {
	cf := child.fr
	cf.core.hasContinuation = true
	cf.core.continuation = handle{frame: ctx.core.self, life: scopeManaged}
	cf.core.pool = ctx.core.pool

	ctx.core.yieldSignal <- handle{frame: cf, life: scopeManaged}

	select {
	case <-ctx.core.resumeSignal:
	case <-ctx.core.cancelCh:
		panic(cancelSentinel)
	}
	return cf.result
}
