// Package main is the entry point for the fret CLI client.
package main

import (
	"github.com/fretscout/fretscout/cmd/fret/cmd"
)

func main() {
	cmd.Execute()
}
