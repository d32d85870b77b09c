// Package main is the entry point for the repolens command.
package main

import (
	"fmt"
	"os"

	"github.com/repolens/repolens/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "repolens: %v\n", err)
		os.Exit(1)
	}
}
