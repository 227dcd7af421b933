// Package main is the entry point for the campus-events CLI.
package main

import (
	"os"

	"github.com/pfrederiksen/campus-events/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
