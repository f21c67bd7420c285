package chasedeque

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPushPopOrder(t *testing.T) {
	d := New[int](4)
	for i := 0; i < 10; i++ {
		d.PushBottom(i)
	}
	var got []int
	for {
		v, ok := d.PopBottom()
		if !ok {
			break
		}
		got = append(got, v)
	}
	require.Len(t, got, 10)
	for i, v := range got {
		assert.Equal(t, 9-i, v, "PopBottom is LIFO from the owner's side")
	}
}

func TestGrowsPastInitialCapacity(t *testing.T) {
	d := New[int](2)
	const n = 200
	for i := 0; i < n; i++ {
		d.PushBottom(i)
	}
	assert.Equal(t, n, d.Len())
	count := 0
	for {
		if _, ok := d.PopBottom(); !ok {
			break
		}
		count++
	}
	assert.Equal(t, n, count)
}

func TestStealOrder(t *testing.T) {
	d := New[int](8)
	for i := 0; i < 10; i++ {
		d.PushBottom(i)
	}
	v, ok := d.Steal()
	require.True(t, ok)
	assert.Equal(t, 0, v, "Steal takes from the top, the oldest entry")
}

func TestConcurrentStealRace(t *testing.T) {
	const n = 100_000
	d := New[int](32)
	for i := 0; i < n; i++ {
		d.PushBottom(i)
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		stolen  []int
		numVics = 4
	)
	wg.Add(numVics)
	for i := 0; i < numVics; i++ {
		go func() {
			defer wg.Done()
			var local []int
			for {
				v, ok := d.Steal()
				if !ok {
					if d.Len() <= 0 {
						break
					}
					continue
				}
				local = append(local, v)
			}
			mu.Lock()
			stolen = append(stolen, local...)
			mu.Unlock()
		}()
	}

	var owned []int
	for {
		v, ok := d.PopBottom()
		if !ok {
			break
		}
		owned = append(owned, v)
	}
	wg.Wait()

	mu.Lock()
	total := len(owned) + len(stolen)
	mu.Unlock()
	assert.LessOrEqual(t, total, n)
}

func TestDestroyReleasesRemaining(t *testing.T) {
	d := New[int](4)
	for i := 0; i < 5; i++ {
		d.PushBottom(i)
	}
	var released []int
	d.Destroy(func(v int) { released = append(released, v) })
	assert.Len(t, released, 5)
}
