package coros

import "sync/atomic"

// joinBarrier is a blocking join counter: each of n arrive() calls
// decrements it and the Nth closes done, releasing whichever goroutine is
// blocked in wait(). WaitTasks and WaitTasksOn do not use it; they join
// through asyncBarrier so that no pool worker blocks while siblings run.
type joinBarrier struct {
	remaining atomic.Int64
	done      chan struct{}
}

func newJoinBarrier(n int) *joinBarrier {
	b := &joinBarrier{done: make(chan struct{})}
	b.remaining.Store(int64(n))
	if n == 0 {
		close(b.done)
	}
	return b
}

func (b *joinBarrier) arrive() {
	if b.remaining.Add(-1) == 0 {
		close(b.done)
	}
}

func (b *joinBarrier) wait() { <-b.done }

// asyncBarrier is the detached (await-later) join counter. Unlike
// joinBarrier, an awaiter may arrive either before or after the last
// child: whichever of "the last child's arrive()" and "the awaiter's
// registration" happens second is the one that actually resumes the
// awaiter, arbitrated by a CAS on waiter so exactly one side wins the
// race and nobody is resumed twice.
type asyncBarrier struct {
	remaining atomic.Int64
	ready     atomic.Bool
	waiter    atomic.Pointer[handle]
}

func newAsyncBarrier(n int) *asyncBarrier {
	b := &asyncBarrier{}
	b.remaining.Store(int64(n))
	if n == 0 {
		b.ready.Store(true)
	}
	return b
}

// arrive is called once per child, by its ephemeral wrapper task. If this
// is the last arrival, it marks the barrier ready (so a later awaitReady
// call sees it's already done) and then resumes a waiter that already
// registered, claiming it via CAS against awaitReady's own re-check.
func (b *asyncBarrier) arrive() {
	if b.remaining.Add(-1) != 0 {
		return
	}
	b.ready.Store(true)
	for {
		w := b.waiter.Load()
		if w == nil {
			return
		}
		if b.waiter.CompareAndSwap(w, nil) {
			runTrampoline(*w)
			return
		}
	}
}

// awaitReady registers self as the handle to resume once every child has
// arrived. It returns true if the barrier is already done (the caller
// should proceed synchronously without suspending); false means self has
// been recorded and some arrive() call will resume it later.
func (b *asyncBarrier) awaitReady(self handle) bool {
	if b.ready.Load() {
		return true
	}
	if !b.waiter.CompareAndSwap(nil, &self) {
		// Another awaitReady call from the same task should never race with
		// this one (a task awaits its own async wait exactly once), but
		// defensively fall back to spinning on ready rather than deadlocking.
		for !b.ready.Load() {
		}
		return true
	}
	// Re-check: arrive() may have set ready and observed the pre-CAS nil
	// waiter without seeing our registration land in time. If arrive()
	// claims the registration first, this CAS fails and arrive() resumes us.
	if b.ready.Load() && b.waiter.CompareAndSwap(&self, nil) {
		return true
	}
	return false
}
