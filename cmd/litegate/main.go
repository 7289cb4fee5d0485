// Package main is the litegate binary.
package main

import (
	"os"

	"github.com/leapstack-labs/litegate/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
