// Package main is the entry point for the fretscout server.
package main

import (
	"os"

	"github.com/fretscout/fretscout/cmd/fretscout/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
