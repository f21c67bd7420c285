package coros

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitTasksJoinsAllResults(t *testing.T) {
	pool := NewPool(4)
	defer pool.Shutdown()

	tasks := make([]Task[int], 10)
	for i := range tasks {
		i := i
		tasks[i] = NewTask(func(ctx *Context) int { return i * i })
	}

	outer := NewTask(func(ctx *Context) int {
		results := Await(ctx, WaitTasks(tasks...)).MustGet()
		sum := 0
		for _, r := range results {
			sum += r.MustGet()
		}
		return sum
	})

	r := StartSync(pool, outer)
	v, err := r.Get()
	require.NoError(t, err)

	want := 0
	for i := 0; i < 10; i++ {
		want += i * i
	}
	assert.Equal(t, want, v)
}

func TestWaitTasksEmptySet(t *testing.T) {
	pool := NewPool(2)
	defer pool.Shutdown()

	outer := NewTask(func(ctx *Context) int {
		results := Await(ctx, WaitTasks[int]()).MustGet()
		return len(results)
	})

	r := StartSync(pool, outer)
	v, err := r.Get()
	require.NoError(t, err)
	assert.Equal(t, 0, v)
}

func TestWaitTasksAsyncGetAfterCompletion(t *testing.T) {
	pool := NewPool(4)
	defer pool.Shutdown()

	outer := NewTask(func(ctx *Context) int {
		wh := WaitTasksAsync(ctx,
			NewTask(func(ctx *Context) int { return 1 }),
			NewTask(func(ctx *Context) int { return 2 }),
			NewTask(func(ctx *Context) int { return 3 }),
		)
		// do some unrelated synchronous work before collecting, exercising
		// the "children likely already finished" path through awaitReady.
		sum := 0
		for i := 0; i < 1000; i++ {
			sum += i
		}
		results := wh.Get(ctx)
		total := 0
		for _, r := range results {
			total += r.MustGet()
		}
		return total
	})

	r := StartSync(pool, outer)
	v, err := r.Get()
	require.NoError(t, err)
	assert.Equal(t, 6, v)
}

func TestWaitTasksAsyncGetRacesLastArrival(t *testing.T) {
	// Regression coverage for the asyncBarrier race between the last
	// child's arrive() and the awaiter's registration: run many times to
	// shake out lost wakeups or double-resumes.
	for iter := 0; iter < 200; iter++ {
		pool := NewPool(4)

		outer := NewTask(func(ctx *Context) int {
			wh := WaitTasksAsync(ctx,
				NewTask(func(ctx *Context) int { return 1 }),
				NewTask(func(ctx *Context) int { return 1 }),
			)
			results := wh.Get(ctx)
			return results[0].MustGet() + results[1].MustGet()
		})

		r := StartSync(pool, outer)
		v, err := r.Get()
		require.NoError(t, err)
		assert.Equal(t, 2, v)
		pool.Shutdown()
	}
}
