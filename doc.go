// Package coros implements a user-space task runtime for structured
// fork/join parallelism, built on stackless coroutines in the original
// design and on goroutines parked behind a channel rendezvous here (Go
// has no native stackless-coroutine primitive — see the frame interface
// in lifetime.go for how the trampoline is reconstructed on top of that).
//
// A Task[T] is a lazily-started unit of work. It only begins running
// once it is awaited (Await), joined (WaitTasks, WaitTasksAsync),
// started directly against a Pool (StartSync, StartAsync), or enqueued
// fire-and-forget (EnqueueTask). A Pool is a fixed set of worker
// goroutines, each driving its own Chase-Lev work-stealing deque, with a
// shared intake queue for external submission.
//
// This runtime deliberately does not provide fibers/stack-switching
// beyond Go's own goroutines, an I/O reactor, timers, task priorities,
// cooperative yield points beyond child-task suspension, cancellation,
// a graceful shutdown drain, or any fairness guarantee beyond randomized
// work stealing.
package coros
