package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/nullstream/coros"
)

// addTwo, multiplyByThree, and toLabel mirror the tiny per-stage tasks
// used in the original's chaining example (add_two, multiply_by_six).
func addTwo(v int) coros.Task[int] {
	return coros.NewTask(func(ctx *coros.Context) int { return v + 2 })
}

func multiplyByThree(v int) coros.Task[int] {
	return coros.NewTask(func(ctx *coros.Context) int { return v * 3 })
}

func toLabel(v int) coros.Task[string] {
	return coros.NewTask(func(ctx *coros.Context) string { return fmt.Sprintf("result=%d", v) })
}

func newChainCmd(workers *int) *cobra.Command {
	var start int

	c := &cobra.Command{
		Use:   "chain",
		Short: "Demonstrates a chained pipeline plus a detached fire-and-forget task",
		RunE: func(cmd *cobra.Command, args []string) error {
			pool := coros.NewPool(*workers)
			defer pool.Shutdown()

			pipeline := coros.NewChain(pool, coros.NewTask(func(ctx *coros.Context) int { return start }))
			stage1 := coros.Then(pipeline, addTwo)
			stage2 := coros.Then(stage1, multiplyByThree)
			stage3 := coros.Then(stage2, toLabel)

			r := coros.StartSync(pool, stage3.Task())
			v, err := r.Get()
			if err != nil {
				color.Red("chain failed: %v", err)
				return err
			}
			color.Green("chain(%d) -> %s", start, v)

			done := make(chan struct{})
			coros.EnqueueTask(pool, coros.NewTask(func(ctx *coros.Context) struct{} {
				fmt.Println("detached task ran, fire-and-forget")
				close(done)
				return struct{}{}
			}))
			<-done

			return nil
		},
	}

	c.Flags().IntVarP(&start, "start", "n", 3, "starting value fed into the pipeline")
	return c
}
