// Command labnotebook is an electronic lab notebook served as a local web UI,
// with terminal commands for quick lookups.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "labnotebook:", err)
		os.Exit(1)
	}
}
