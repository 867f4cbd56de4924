package main

import (
	"os"

	"github.com/illmaticmd/csrmon/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
