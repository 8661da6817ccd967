package main

import (
	"os"

	"github.com/usagelens/usagelens/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
