package coros

import (
	"math/rand"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nullstream/coros/internal/chasedeque"
	"github.com/nullstream/coros/internal/intake"
	"github.com/nullstream/coros/internal/workerctx"
)

var rngSeedCounter atomic.Uint64

// defaultRNGSeed produces a distinct seed per call, mixing wall time with
// a monotonic counter so workers started in the same instant still get
// different steal orders.
func defaultRNGSeed() uint64 {
	return uint64(time.Now().UnixNano()) ^ rngSeedCounter.Add(1)*0x9E3779B97F4A7C15
}

// Pool is a fixed-size set of worker goroutines, each owning one
// Chase-Lev deque, sharing one intake queue for submission from outside
// the pool (external callers and other pools). Workers run tasks to
// completion via a
// trampoline loop (see runTrampoline) and otherwise steal from a
// randomly chosen peer when their own deque and the shared intake are
// both empty.
type Pool struct {
	workers []*poolWorker
	intake  *intake.Queue[handle]

	logger  Logger
	metrics *poolMetrics

	wg           sync.WaitGroup
	shuttingDown atomic.Bool
}

type poolWorker struct {
	id    int
	pool  *Pool
	deque *chasedeque.Deque[handle]
	rng   *rand.Rand
}

// NewPool constructs a pool of n worker goroutines, started immediately.
// n must be positive; a zero or negative worker count panics, matching
// the guard-clause style used for programmer-error construction mistakes
// elsewhere in this codebase.
func NewPool(workers int, opts ...PoolOption) *Pool {
	if workers <= 0 {
		panic("coros: NewPool requires a positive worker count")
	}

	cfg := defaultPoolConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	p := &Pool{
		intake: intake.NewWithOverflowCapacity[handle](cfg.intakeOverflowCapacity),
		logger: cfg.logger,
	}
	if cfg.metricsEnabled {
		p.metrics = newPoolMetrics()
	}

	p.workers = make([]*poolWorker, workers)
	for i := range p.workers {
		w := &poolWorker{
			id:    i,
			pool:  p,
			deque: chasedeque.New[handle](cfg.dequeInitialCapacity),
			rng:   rand.New(rand.NewSource(int64(cfg.rngSeed()))), //nolint:gosec // scheduling jitter, not security
		}
		p.workers[i] = w
	}

	p.wg.Add(workers)
	for _, w := range p.workers {
		go w.run()
	}

	p.logger.Log(LogEntry{Level: LogLevelInfo, Message: "pool started", Fields: map[string]any{"workers": workers}})
	return p
}

// Workers reports the number of worker goroutines in the pool.
func (p *Pool) Workers() int { return len(p.workers) }

// Schedule places h for execution: onto the calling worker's own deque
// if called from inside a task body running on this pool, otherwise onto
// the shared intake queue (external submission, or cross-pool handoff).
func (p *Pool) Schedule(h handle) {
	if wc, ok := workerctx.Current(); ok {
		if w, ok := wc.Worker.(*poolWorker); ok && w.pool == p {
			w.deque.PushBottom(h)
			return
		}
	}
	p.intake.Push(h)
}

// Shutdown stops the pool. It signals every worker to stop picking up
// new work once its current local queues run dry, and immediately
// releases whatever is left sitting in each deque and the intake queue.
// It does not wait for already-running task bodies to finish and does
// not guarantee worker goroutines have exited by the time it returns —
// there is no graceful drain here, by design (see DESIGN.md).
func (p *Pool) Shutdown() {
	if !p.shuttingDown.CompareAndSwap(false, true) {
		return
	}
	p.logger.Log(logPoolShutdown(len(p.workers)))
	for _, w := range p.workers {
		w.deque.Destroy(releaseHandle)
	}
	p.intake.Drain(releaseHandle)
}

func releaseHandle(h handle) {
	if h.life == poolManaged {
		h.frame.release()
	}
}

func (w *poolWorker) run() {
	defer w.pool.wg.Done()
	wc := &workerctx.Context{Pool: w.pool, Worker: w}
	workerctx.Bind(wc)
	defer workerctx.Unbind()

	for {
		h, ok := w.getTask()
		if !ok {
			return
		}
		runTrampoline(h)
	}
}

// getTask checks, in order: this worker's own deque, the shared intake
// queue, then a randomized steal attempt against every other worker. If
// all three come up empty it yields and retries, until shutdown is
// signalled.
func (w *poolWorker) getTask() (handle, bool) {
	for {
		if h, ok := w.deque.PopBottom(); ok {
			return h, true
		}
		if h, ok := w.pool.intake.Pop(); ok {
			return h, true
		}
		if h, ok, victim := w.steal(); ok {
			w.pool.metrics.recordSteal()
			if w.pool.logger.IsEnabled(LogLevelDebug) {
				w.pool.logger.Log(logWorkerStole(w.id, victim))
			}
			return h, true
		} else if len(w.pool.workers) > 1 {
			w.pool.metrics.recordStealFailed()
		}
		if w.pool.shuttingDown.Load() {
			return handle{}, false
		}
		runtime.Gosched()
	}
}

func (w *poolWorker) steal() (h handle, ok bool, victimID int) {
	n := len(w.pool.workers)
	if n <= 1 {
		return handle{}, false, 0
	}
	start := w.rng.Intn(n)
	for i := 0; i < n; i++ {
		idx := (start + i) % n
		victim := w.pool.workers[idx]
		if victim == w {
			continue
		}
		if h, ok := victim.deque.Steal(); ok {
			return h, true, victim.id
		}
	}
	return handle{}, false, 0
}

// notifyFrame is a one-shot frame used purely to chain a side effect
// (StartSync/StartAsync closing their completion channel) onto the end of
// a trampoline run, without needing a typed continuation.
type notifyFrame struct {
	fn func()
}

func (n notifyFrame) resume() handle { n.fn(); return noopHandle }
func (n notifyFrame) release()       {}

// runTrampoline drives a chain of symmetric-transfer handles to
// completion: each resume() returns the next handle to run directly,
// rather than recursing or returning to a separate scheduling step, so
// an arbitrarily deep await chain costs one goroutine rendezvous per
// level rather than growing the driving goroutine's call stack.
func runTrampoline(h handle) {
	for {
		if _, ok := h.frame.(noopFrame); ok {
			return
		}
		h = h.frame.resume()
	}
}
