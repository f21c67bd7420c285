// Package workerctx gives every pool worker goroutine access to its own
// scheduling context — its Chase-Lev deque, its PRNG, and the pool it
// belongs to — without threading a parameter through every call in a
// task body. Go has no language-level thread-local storage, so this
// recovers the calling goroutine's id the same way the teacher recovers
// its loop goroutine's id (parsing the "goroutine N [...]" header that
// runtime.Stack always writes first) and uses it as the key into a
// sharded map from goroutine id to context.
package workerctx

import (
	"runtime"
	"sync"
)

// Context is what a running worker goroutine can reach about itself:
// which pool owns it and an opaque per-worker handle (the worker's own
// deque and PRNG, typed as any here to avoid an import cycle with the
// package that defines them).
type Context struct {
	Pool   any
	Worker any
}

const shardCount = 64

type shard struct {
	mu sync.RWMutex
	m  map[uint64]*Context
}

var shards [shardCount]shard

func init() {
	for i := range shards {
		shards[i].m = make(map[uint64]*Context)
	}
}

func shardFor(id uint64) *shard {
	return &shards[id%shardCount]
}

// GoroutineID returns the calling goroutine's runtime id, parsed from the
// header runtime.Stack always writes ("goroutine 123 [running]: ...").
func GoroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	var id uint64
	for i := len("goroutine "); i < n; i++ {
		if buf[i] >= '0' && buf[i] <= '9' {
			id = id*10 + uint64(buf[i]-'0')
		} else {
			break
		}
	}
	return id
}

// Bind associates the calling goroutine with ctx. Called once by a worker
// when it starts its run loop.
func Bind(ctx *Context) {
	id := GoroutineID()
	s := shardFor(id)
	s.mu.Lock()
	s.m[id] = ctx
	s.mu.Unlock()
}

// Unbind removes the calling goroutine's association. Called by a worker
// as it exits its run loop.
func Unbind() {
	id := GoroutineID()
	s := shardFor(id)
	s.mu.Lock()
	delete(s.m, id)
	s.mu.Unlock()
}

// Current returns the calling goroutine's bound Context, or nil, ok=false
// if it isn't a worker goroutine (e.g. an external caller doing a
// blocking start).
func Current() (*Context, bool) {
	id := GoroutineID()
	s := shardFor(id)
	s.mu.RLock()
	ctx, ok := s.m[id]
	s.mu.RUnlock()
	return ctx, ok
}
