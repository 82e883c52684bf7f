// Command ops runs operational tasks against the propcore database: the
// sweeps the scheduler normally runs, charge generation and demo seeding.
package main

import (
	"fmt"
	"os"
)

func main() {
	err := rootCmd.Execute()
	if cerr := shutdown(); cerr != nil {
		fmt.Fprintf(os.Stderr, "shutdown: %v\n", cerr)
	}
	if err != nil {
		os.Exit(1)
	}
}
