package cmd

import (
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/nullstream/coros"
)

// runMatmul multiplies two size x size all-ones matrices with the given
// worker count and returns the flattened result matrix.
func runMatmul(t *testing.T, size, workers int) []int64 {
	t.Helper()

	m := &matmulMatrices{
		a: make([]int64, size*size),
		b: make([]int64, size*size),
		c: make([]atomic.Int64, size*size),
		n: size,
	}
	for i := range m.a {
		m.a[i] = 1
		m.b[i] = 1
	}

	pool := coros.NewPool(workers)
	defer pool.Shutdown()

	r := coros.StartSync(pool, matmulTask(m, 0, 0, 0, 0, 0, 0, size))
	if _, err := r.Get(); err != nil {
		t.Fatalf("matmul(workers=%d) failed: %v", workers, err)
	}

	out := make([]int64, len(m.c))
	for i := range m.c {
		out[i] = m.c[i].Load()
	}
	return out
}

// TestMatmulResultStableAcrossWorkerCounts checks that the tiled recursive
// multiply produces an identical result matrix regardless of how many
// workers race to fill in the overlapping quadrants — a scheduling change
// must never change a benchmark's answer, only its wall clock.
func TestMatmulResultStableAcrossWorkerCounts(t *testing.T) {
	const size = 2 * matmulBaseCase

	solo := runMatmul(t, size, 1)
	parallel := runMatmul(t, size, 8)

	if diff := cmp.Diff(solo, parallel); diff != "" {
		t.Fatalf("matmul result differs between 1 worker and 8 workers (-solo +parallel):\n%s", diff)
	}
}
