package main

import (
	"os"

	"github.com/bbq191/egovgen/cmd/egovgen/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
