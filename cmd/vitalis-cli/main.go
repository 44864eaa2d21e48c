// Package main provides the entry point for vitalis-cli.
package main

import (
	"fmt"
	"os"

	"github.com/vitalis-health/vitalis-go/internal/cli/command"
)

func main() {
	app := command.App()

	if err := app.Run(os.Args); err != nil {
		if msg := err.Error(); msg != "" {
			fmt.Fprintf(os.Stderr, "error: %s\n", msg)
		}
		os.Exit(1)
	}
}
