// Package main is the entry point for the shotwright CLI.
package main

import (
	"os"

	"github.com/shotwright/shotwright/cmd/shotwright/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
