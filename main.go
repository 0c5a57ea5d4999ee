// Package main is the entry point for the relnotes CLI application.
package main

import (
	"fmt"
	"os"

	"github.com/danielolaszy/relnotes/cmd"
	"github.com/danielolaszy/relnotes/internal/logging"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// main executes the root command and exits non-zero on failure.
func main() {
	logging.Debug("starting relnotes", "version", version)

	if err := cmd.Execute(); err != nil {
		logging.Error("command execution failed", "error", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
