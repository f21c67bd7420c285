// Package chasedeque implements the Chase-Lev work-stealing deque: a
// single-owner push/pop-bottom, multi-thief steal-top lock-free queue.
// One instance belongs to exactly one scheduler worker; every other
// worker may only Steal from it.
//
// The algorithm, memory ordering, and growth policy follow the classic
// Chase-Lev paper and mirror the reference C++ implementation bit for bit
// (see original_source/include/deque.h): push_bottom grows the backing
// buffer 4x when full and retires (rather than frees) the old one, since
// a concurrent thief may still be reading through it; pop_bottom races the
// last element against a concurrent steal via a CAS on top; steal itself
// is a load-fence-load-CAS sequence.
package chasedeque

import (
	"sync"
	"sync/atomic"
)

// sizeOfCacheLine is the assumed destructive-interference size on the
// platforms this runs on; used purely to keep top and bottom on separate
// cache lines and avoid false sharing between the owner and thieves.
const sizeOfCacheLine = 64

const defaultInitialCapacity = 32

// Deque is a Chase-Lev work-stealing deque of T. The zero value is not
// usable; construct with New.
type Deque[T any] struct { //nolint:govet // cache-line padding, not field order
	_      [sizeOfCacheLine]byte
	top    atomic.Uint64
	_      [sizeOfCacheLine - 8]byte
	bottom atomic.Uint64
	_      [sizeOfCacheLine - 8]byte

	buf atomic.Pointer[buffer[T]]

	retiredMu sync.Mutex
	retired   []*buffer[T]
}

type buffer[T any] struct {
	mask uint64
	data []T
}

func newBuffer[T any](capacity uint64) *buffer[T] {
	return &buffer[T]{mask: capacity - 1, data: make([]T, capacity)}
}

func (b *buffer[T]) get(i uint64) T       { return b.data[i&b.mask] }
func (b *buffer[T]) put(i uint64, v T)    { b.data[i&b.mask] = v }
func (b *buffer[T]) capacity() uint64     { return uint64(len(b.data)) }
func (b *buffer[T]) grow(bot, top uint64) *buffer[T] {
	nb := newBuffer[T](b.capacity() * 4)
	for i := top; i < bot; i++ {
		nb.put(i, b.get(i))
	}
	return nb
}

// New constructs an empty deque with the given initial capacity, rounded
// up to the next power of two (minimum 2).
func New[T any](initialCapacity int) *Deque[T] {
	cap := nextPow2(initialCapacity)
	d := &Deque[T]{}
	d.top.Store(1)
	d.bottom.Store(1)
	d.buf.Store(newBuffer[T](cap))
	return d
}

func nextPow2(n int) uint64 {
	if n < 2 {
		return 2
	}
	c := uint64(1)
	for c < uint64(n) {
		c <<= 1
	}
	return c
}

// PushBottom adds v to the bottom of the deque. Only the owner goroutine
// may call this.
func (d *Deque[T]) PushBottom(v T) {
	bot := d.bottom.Load()
	top := d.top.Load()
	b := d.buf.Load()

	if bot-top >= b.capacity()-1 {
		d.retiredMu.Lock()
		d.retired = append(d.retired, b)
		d.retiredMu.Unlock()
		b = b.grow(bot, top)
		d.buf.Store(b)
	}

	b.put(bot, v)
	d.bottom.Store(bot + 1)
}

// PopBottom removes and returns the element at the bottom of the deque.
// Only the owner goroutine may call this. ok is false if the deque was
// empty, or if a concurrent Steal won the race for the last element.
func (d *Deque[T]) PopBottom() (v T, ok bool) {
	bot := d.bottom.Load() - 1
	b := d.buf.Load()
	d.bottom.Store(bot)

	top := d.top.Load()

	if top > bot {
		// was already empty
		d.bottom.Store(bot + 1)
		return v, false
	}

	v = b.get(bot)
	if top == bot {
		// last element: race a thief for it via CAS on top
		if !d.top.CompareAndSwap(top, top+1) {
			// a thief won
			d.bottom.Store(bot + 1)
			var zero T
			return zero, false
		}
		d.bottom.Store(bot + 1)
	}
	return v, true
}

// Steal removes and returns the element at the top of the deque. Any
// goroutine other than the owner may call this concurrently.
func (d *Deque[T]) Steal() (v T, ok bool) {
	top := d.top.Load()
	bot := d.bottom.Load()

	if top >= bot {
		var zero T
		return zero, false
	}

	b := d.buf.Load()
	candidate := b.get(top)

	if !d.top.CompareAndSwap(top, top+1) {
		var zero T
		return zero, false
	}
	return candidate, true
}

// Len reports the current size. Racy by construction; intended for
// diagnostics and metrics, not synchronization.
func (d *Deque[T]) Len() int {
	bot := d.bottom.Load()
	top := d.top.Load()
	if bot < top {
		return 0
	}
	return int(bot - top)
}

// Destroy releases every element still held in the live buffer, via
// release, then drops the retired buffers without releasing anything in
// them (their live elements were copied into the live buffer). Must be
// called at most once, after the owner has stopped pushing/popping and no
// thief can steal any more (i.e. pool shutdown).
func (d *Deque[T]) Destroy(release func(T)) {
	top := d.top.Load()
	bot := d.bottom.Load()
	b := d.buf.Load()
	for i := top; i < bot; i++ {
		release(b.get(i))
	}
	d.retired = nil
}
