package main

import (
	"context"
	"os"

	"github.com/nikolastas/logistis-sub000/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
