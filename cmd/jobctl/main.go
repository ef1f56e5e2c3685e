// Command jobctl previews schedule labels and status rules, seeds demo jobs
// and runs a one-off status sweep against the configured store.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(newApp(os.Stdout)).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "jobctl: %v\n", err)
		os.Exit(1)
	}
}
