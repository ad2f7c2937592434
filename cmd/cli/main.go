// Package main is the entry point for the shadeworks CLI.
package main

import (
	"os"

	"shadeworks/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
