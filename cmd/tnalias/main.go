// Package main is the entry point for the tnalias CLI.
package main

import (
	"os"

	"github.com/thoreinstein/tnalias/cmd/tnalias/commands"
)

func main() {
	os.Exit(commands.Execute())
}
