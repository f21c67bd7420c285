package cmd

import (
	"runtime"

	"github.com/spf13/cobra"
)

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	var workers int

	rootCmd := &cobra.Command{
		Use:   "corosbench",
		Short: "Benchmarks and demos for the coros work-stealing task runtime",
		Long: `corosbench exercises the coros task runtime with a handful of
fork/join workloads: a recursive Fibonacci computation, a tiled recursive
matrix multiply, and a chained pipeline.`,
	}

	rootCmd.PersistentFlags().IntVarP(&workers, "workers", "w", runtime.NumCPU(), "number of pool worker goroutines")

	rootCmd.AddCommand(newFibCmd(&workers))
	rootCmd.AddCommand(newMatmulCmd(&workers))
	rootCmd.AddCommand(newChainCmd(&workers))

	return rootCmd.Execute()
}
