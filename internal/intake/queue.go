// Package intake implements the pool's shared submission queue: a
// lock-free MPMC ring buffer with a mutex-protected overflow slice for
// when the ring is saturated. Every worker may both push (when
// re-submitting a start task to a pool it isn't bound to) and pop (when
// its own deque is empty and it is scanning intake before stealing), so
// unlike a single-consumer microtask ring, slot reclamation on the pop
// side must also be arbitrated with a CAS rather than a plain load+add.
package intake

import (
	"runtime"
	"sync"
	"sync/atomic"
)

const (
	sizeOfCacheLine = 64

	// ringSize is the fixed ring capacity; must be a power of two so index
	// wrapping is a mask instead of a division.
	ringSize = 4096
	ringMask = ringSize - 1

	// seqSkip marks a slot as not-yet-claimed-by-a-reader, distinct from any
	// real sequence number (which starts at 1 and only ever increases).
	seqSkip = uint64(1) << 63

	overflowInitCap = 1024
)

// Queue is a multi-producer, multi-consumer FIFO of T, used as a pool's
// intake: any goroutine may Push (external submission, or a worker
// re-homing a start task onto a foreign pool) and any worker may Pop when
// scanning for work.
type Queue[T any] struct { //nolint:govet // cache-line padding, not field order
	_      [sizeOfCacheLine]byte
	buffer [ringSize]T
	valid  [ringSize]atomic.Bool
	seq    [ringSize]atomic.Uint64

	head atomic.Uint64
	_    [sizeOfCacheLine - 8]byte
	tail atomic.Uint64

	tailSeq atomic.Uint64

	overflowMu      sync.Mutex
	overflow        []T
	overflowHead    int
	overflowPending atomic.Bool
	overflowInitCap int
}

// New constructs an empty intake queue with the default overflow capacity.
func New[T any]() *Queue[T] {
	return NewWithOverflowCapacity[T](overflowInitCap)
}

// NewWithOverflowCapacity constructs an empty intake queue, pre-sizing
// the overflow slice used once the fixed-size ring saturates.
func NewWithOverflowCapacity[T any](overflowCap int) *Queue[T] {
	q := &Queue[T]{overflowInitCap: overflowCap}
	for i := range q.seq {
		q.seq[i].Store(seqSkip)
	}
	return q
}

// Push enqueues v. Always succeeds (overflow absorbs anything beyond the
// ring's fixed capacity).
func (q *Queue[T]) Push(v T) {
	if q.overflowPending.Load() {
		q.overflowMu.Lock()
		if len(q.overflow)-q.overflowHead > 0 {
			q.overflow = append(q.overflow, v)
			q.overflowMu.Unlock()
			return
		}
		q.overflowMu.Unlock()
	}

	for {
		tail := q.tail.Load()
		head := q.head.Load()
		if tail-head >= ringSize {
			break
		}
		if q.tail.CompareAndSwap(tail, tail+1) {
			seq := q.tailSeq.Add(1)
			idx := tail & ringMask
			q.buffer[idx] = v
			q.valid[idx].Store(true)
			q.seq[idx].Store(seq)
			return
		}
	}

	q.overflowMu.Lock()
	if q.overflow == nil {
		cap := q.overflowInitCap
		if cap <= 0 {
			cap = overflowInitCap
		}
		q.overflow = make([]T, 0, cap)
	}
	q.overflow = append(q.overflow, v)
	q.overflowPending.Store(true)
	q.overflowMu.Unlock()
}

// Pop dequeues a value. Safe to call concurrently from many workers.
func (q *Queue[T]) Pop() (v T, ok bool) {
	for {
		head := q.head.Load()
		tail := q.tail.Load()
		if head >= tail {
			break
		}

		idx := head & ringMask
		seq := q.seq[idx].Load()
		if seq == seqSkip || !q.valid[idx].Load() {
			// another consumer is mid-claim of this slot, or the producer
			// hasn't finished storing into it yet; spin.
			runtime.Gosched()
			continue
		}

		if !q.head.CompareAndSwap(head, head+1) {
			// another consumer won the race for this slot
			continue
		}

		v = q.buffer[idx]
		var zero T
		q.buffer[idx] = zero
		q.valid[idx].Store(false)
		q.seq[idx].Store(seqSkip)
		return v, true
	}

	if !q.overflowPending.Load() {
		var zero T
		return zero, false
	}

	q.overflowMu.Lock()
	defer q.overflowMu.Unlock()

	count := len(q.overflow) - q.overflowHead
	if count == 0 {
		q.overflowPending.Store(false)
		var zero T
		return zero, false
	}

	v = q.overflow[q.overflowHead]
	var zero T
	q.overflow[q.overflowHead] = zero
	q.overflowHead++

	if q.overflowHead > len(q.overflow)/2 && q.overflowHead > 512 {
		copy(q.overflow, q.overflow[q.overflowHead:])
		q.overflow = q.overflow[:len(q.overflow)-q.overflowHead]
		q.overflowHead = 0
	}

	if q.overflowHead >= len(q.overflow) {
		q.overflowPending.Store(false)
	}

	return v, true
}

// Len reports the total number of queued items (ring plus overflow).
// Racy by construction; intended for diagnostics.
func (q *Queue[T]) Len() int {
	head := q.head.Load()
	tail := q.tail.Load()
	ringCount := 0
	if tail > head {
		ringCount = int(tail - head)
	}
	q.overflowMu.Lock()
	overflowCount := len(q.overflow) - q.overflowHead
	q.overflowMu.Unlock()
	return ringCount + overflowCount
}

// Drain pops every remaining item and calls fn on each, until the queue is
// empty. Used at pool shutdown to release poolManaged handles left in
// intake.
func (q *Queue[T]) Drain(fn func(T)) {
	for {
		v, ok := q.Pop()
		if !ok {
			return
		}
		fn(v)
	}
}
