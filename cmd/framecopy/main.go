// Package main provides the framecopy command.
package main

import (
	"os"

	"github.com/leapstack-labs/framecopy/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
