// Command bookctl is the operator tool for the bookstore database: it seeds
// demo books, creates user accounts and prints table counts.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
