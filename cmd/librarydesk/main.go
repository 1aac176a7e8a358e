// Command librarydesk serves the library desk REST API or runs one query
// against the configured fixtures and prints the result.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "librarydesk:", err)
		os.Exit(1)
	}
}
