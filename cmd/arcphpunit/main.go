// Package main is the entry point for the arcphpunit CLI.
package main

import (
	"os"

	"github.com/AndreyAkinshin/arcphpunit/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
