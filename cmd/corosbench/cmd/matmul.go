package cmd

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/nullstream/coros"
)

// matmulBaseCase is the tile size below which the recursive split bottoms
// out into a plain triple-loop multiply, mirroring the original's n<=32
// cutoff.
const matmulBaseCase = 32

type matmulMatrices struct {
	a, b []int64
	c    []atomic.Int64
	n    int

	barMu sync.Mutex
	bar   *progressbar.ProgressBar
}

func (m *matmulMatrices) idx(row, col int) int { return row*m.n + col }

func countMatmulTiles(size int) int64 {
	if size <= matmulBaseCase {
		return 1
	}
	return 8 * countMatmulTiles(size/2)
}

// matmulTask multiplies the size x size tile of a rooted at (ai,aj) by the
// tile of b rooted at (bi,bj), accumulating into c rooted at (ci,cj). The
// eight recursive sub-multiplies below overlap pairwise on their target
// quadrant of c, exactly as in the original — hence atomic accumulation
// rather than a plain add.
func matmulTask(m *matmulMatrices, ai, aj, bi, bj, ci, cj, size int) coros.Task[struct{}] {
	return coros.NewTask(func(ctx *coros.Context) struct{} {
		if size <= matmulBaseCase {
			for i := 0; i < size; i++ {
				for j := 0; j < size; j++ {
					var sum int64
					for k := 0; k < size; k++ {
						sum += m.a[m.idx(ai+i, aj+k)] * m.b[m.idx(bi+k, bj+j)]
					}
					m.c[m.idx(ci+i, cj+j)].Add(sum)
				}
			}
			if m.bar != nil {
				m.barMu.Lock()
				_ = m.bar.Add(1)
				m.barMu.Unlock()
			}
			return struct{}{}
		}

		k := size / 2
		children := []coros.Task[struct{}]{
			matmulTask(m, ai, aj, bi, bj, ci, cj, k),
			matmulTask(m, ai, aj+k, bi+k, bj, ci, cj, k),
			matmulTask(m, ai, aj, bi, bj+k, ci, cj+k, k),
			matmulTask(m, ai, aj+k, bi+k, bj+k, ci, cj+k, k),
			matmulTask(m, ai+k, aj, bi, bj, ci+k, cj, k),
			matmulTask(m, ai+k, aj+k, bi+k, bj, ci+k, cj, k),
			matmulTask(m, ai+k, aj, bi, bj+k, ci+k, cj+k, k),
			matmulTask(m, ai+k, aj+k, bi+k, bj+k, ci+k, cj+k, k),
		}
		coros.Await(ctx, coros.WaitTasks(children...)).MustGet()
		return struct{}{}
	})
}

func newMatmulCmd(workers *int) *cobra.Command {
	var size int
	var quiet bool

	c := &cobra.Command{
		Use:   "matmul",
		Short: "Tiled recursive fork/join matrix multiply benchmark",
		RunE: func(cmd *cobra.Command, args []string) error {
			if size&(size-1) != 0 || size <= 0 {
				return fmt.Errorf("matmul: --size must be a positive power of two, got %d", size)
			}

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

			if !quiet {
				m.bar = progressbar.NewOptions64(
					countMatmulTiles(size),
					progressbar.OptionSetDescription("multiplying tiles"),
					progressbar.OptionShowCount(),
					progressbar.OptionSetWidth(30),
					progressbar.OptionThrottle(65*time.Millisecond),
					progressbar.OptionOnCompletion(func() { fmt.Println() }),
				)
			}

			pool := coros.NewPool(*workers)
			defer pool.Shutdown()

			start := time.Now()
			r := coros.StartSync(pool, matmulTask(m, 0, 0, 0, 0, 0, 0, size))
			elapsed := time.Since(start)

			if _, err := r.Get(); err != nil {
				color.Red("matmul failed: %v", err)
				return err
			}

			wrong := false
			for i := 0; i < size && !wrong; i++ {
				for j := 0; j < size && !wrong; j++ {
					if m.c[m.idx(i, j)].Load() != int64(size) {
						wrong = true
					}
				}
			}
			if wrong {
				color.Red("matmul produced an incorrect result")
				return fmt.Errorf("matmul: incorrect result")
			}

			color.Green("matmul(%d x %d) correct", size, size)
			fmt.Printf("elapsed: %s (workers=%d)\n", elapsed, *workers)
			return nil
		},
	}

	c.Flags().IntVarP(&size, "size", "s", 256, "matrix dimension (power of two)")
	c.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress the progress bar")
	return c
}
