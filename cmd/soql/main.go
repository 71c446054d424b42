// Package main is the entry point for the soql CLI tool.
package main

import (
	"os"

	"github.com/roach88/soql/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
