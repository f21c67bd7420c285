package workerctx

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBindCurrentUnbind(t *testing.T) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, ok := Current()
		assert.False(t, ok, "unbound goroutine has no context")

		ctx := &Context{Pool: "pool-1", Worker: "worker-1"}
		Bind(ctx)
		got, ok := Current()
		assert.True(t, ok)
		assert.Same(t, ctx, got)

		Unbind()
		_, ok = Current()
		assert.False(t, ok)
	}()
	<-done
}

func TestBindIsPerGoroutine(t *testing.T) {
	const n = 32
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		i := i
		go func() {
			defer wg.Done()
			ctx := &Context{Worker: i}
			Bind(ctx)
			defer Unbind()
			got, ok := Current()
			assert.True(t, ok)
			assert.Equal(t, i, got.Worker)
		}()
	}
	wg.Wait()
}

func TestGoroutineIDDistinctAcrossGoroutines(t *testing.T) {
	idA := make(chan uint64, 1)
	idB := make(chan uint64, 1)
	go func() { idA <- GoroutineID() }()
	go func() { idB <- GoroutineID() }()
	a, b := <-idA, <-idB
	assert.NotEqual(t, a, b)
}
