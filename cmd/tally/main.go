package main

import (
	"context"
	"os"

	"tally/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
