// Command corosbench runs small benchmarks and demos against the coros
// work-stealing task runtime: a recursive Fibonacci fork/join, a tiled
// recursive matrix multiply, and a chained pipeline, mirroring the
// upstream project's own benchmarks/examples directories.
package main

import (
	"fmt"
	"os"

	"github.com/nullstream/coros/cmd/corosbench/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
