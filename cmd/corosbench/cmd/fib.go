package cmd

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/nullstream/coros"
)

func fib(n int) coros.Task[int] {
	return coros.NewTask(func(ctx *coros.Context) int {
		if n < 2 {
			return n
		}
		legs := coros.Await(ctx, coros.WaitTasks(fib(n-1), fib(n-2))).MustGet()
		return legs[0].MustGet() + legs[1].MustGet()
	})
}

func newFibCmd(workers *int) *cobra.Command {
	var n int

	c := &cobra.Command{
		Use:   "fib",
		Short: "Recursive fork/join Fibonacci benchmark",
		RunE: func(cmd *cobra.Command, args []string) error {
			pool := coros.NewPool(*workers)
			defer pool.Shutdown()

			start := time.Now()
			r := coros.StartSync(pool, fib(n))
			elapsed := time.Since(start)

			v, err := r.Get()
			if err != nil {
				color.Red("fib(%d) failed: %v", n, err)
				return err
			}

			color.Green("fib(%d) = %d", n, v)
			fmt.Printf("elapsed: %s (workers=%d)\n", elapsed, *workers)
			return nil
		},
	}

	c.Flags().IntVarP(&n, "n", "n", 30, "which Fibonacci number to compute")
	return c
}
