package main

import (
	"os"

	"github.com/diwan-dev/diwan/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
